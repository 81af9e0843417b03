package marketplace

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medex/marketplace-api/internal/handler"
	"github.com/medex/marketplace-api/internal/middleware"
	"github.com/medex/marketplace-api/internal/model"
	"github.com/medex/marketplace-api/internal/service/ledger"
	"github.com/medex/marketplace-api/internal/service/marketplace"
)

type depositRequest struct {
	Amount *uint64 `json:"amount" binding:"required"`
}

type Handler struct {
	service *marketplace.Service
	ledger  *ledger.Service
}

func NewHandler(service *marketplace.Service, ledger *ledger.Service) *Handler {
	return &Handler{service: service, ledger: ledger}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	m := r.Group("/marketplace")
	{
		m.POST("/credits", h.Deposit)
		m.GET("/credits", h.Balance)
		m.DELETE("/credits", h.Withdraw)

		m.POST("/listings", h.AddListing)
		m.GET("/listings/:id", h.GetListing)
		m.DELETE("/listings/:id", h.RemoveListing)
		m.POST("/listings/:id/buy", h.BuyListing)

		m.GET("/purchases/:listingId", h.GetPurchase)
		m.GET("/access/:buyer/:recordId", h.CheckAccess)
	}
}

func (h *Handler) Deposit(c *gin.Context) {
	var req depositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	caller := middleware.CallerAddress(c)
	result, err := h.ledger.GetMT(c.Request.Context(), caller, *req.Amount)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) Balance(c *gin.Context) {
	caller := middleware.CallerAddress(c)
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"address": caller,
		"balance": h.ledger.CheckMT(caller),
	}))
}

func (h *Handler) Withdraw(c *gin.Context) {
	caller := middleware.CallerAddress(c)
	result, err := h.ledger.ReturnMT(c.Request.Context(), caller)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) AddListing(c *gin.Context) {
	var req model.AddListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	recordTypes := make([]model.RecordType, 0, len(req.RecordTypes))
	for _, t := range req.RecordTypes {
		recordTypes = append(recordTypes, model.RecordType(t))
	}
	orgTypes := make([]model.OrganizationType, 0, len(req.AllowOrgTypes))
	for _, t := range req.AllowOrgTypes {
		orgTypes = append(orgTypes, model.OrganizationType(t))
	}

	caller := middleware.CallerAddress(c)
	listing, err := h.service.AddListing(c.Request.Context(), caller, *req.PricePerDay, recordTypes, orgTypes)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(listing))
}

func (h *Handler) GetListing(c *gin.Context) {
	id, err := listingID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid listing ID"))
		return
	}

	listing, err := h.service.GetListingDetails(id)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(listing))
}

func (h *Handler) RemoveListing(c *gin.Context) {
	id, err := listingID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid listing ID"))
		return
	}

	caller := middleware.CallerAddress(c)
	if err := h.service.RemoveListing(c.Request.Context(), caller, id); err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) BuyListing(c *gin.Context) {
	id, err := listingID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid listing ID"))
		return
	}

	var req model.BuyListingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	caller := middleware.CallerAddress(c)
	purchase, err := h.service.BuyListing(c.Request.Context(), caller, id, *req.Days)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(purchase))
}

func (h *Handler) GetPurchase(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("listingId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid listing ID"))
		return
	}

	caller := middleware.CallerAddress(c)
	purchase, err := h.service.BuyerGetPurchaseDetails(caller, id)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(purchase))
}

func (h *Handler) CheckAccess(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("recordId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid record ID"))
		return
	}

	buyer := model.Address(c.Param("buyer"))
	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"buyer":      buyer,
		"record":     recordID,
		"has_access": h.service.HasPurchasedAccessToRecord(buyer, recordID),
	}))
}

func listingID(c *gin.Context) (uint64, error) {
	return strconv.ParseUint(c.Param("id"), 10, 64)
}
