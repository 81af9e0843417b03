package organization

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medex/marketplace-api/internal/handler"
	"github.com/medex/marketplace-api/internal/middleware"
	"github.com/medex/marketplace-api/internal/model"
	"github.com/medex/marketplace-api/internal/service/organization"
)

type Handler struct {
	service *organization.Service
}

func NewHandler(service *organization.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	orgs := r.Group("/organizations")
	{
		orgs.POST("", h.AddOrganization)
		orgs.GET("/:address", h.GetOrganization)
		orgs.GET("/:address/type", h.GetOrganizationType)
		orgs.DELETE("/:address", h.RemoveOrganization)
	}
}

func (h *Handler) AddOrganization(c *gin.Context) {
	var req model.AddOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	caller := middleware.CallerAddress(c)
	org, err := h.service.AddNewOrganization(
		c.Request.Context(),
		caller,
		model.Address(req.Address),
		model.OrganizationType(*req.Type),
		req.Location,
		req.Name,
	)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(org))
}

func (h *Handler) GetOrganization(c *gin.Context) {
	org, err := h.service.GetOrganizationProfile(model.Address(c.Param("address")))
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(org))
}

func (h *Handler) GetOrganizationType(c *gin.Context) {
	orgType, err := h.service.GetOrganizationType(model.Address(c.Param("address")))
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{
		"organization_type": orgType,
		"name":              orgType.String(),
	}))
}

func (h *Handler) RemoveOrganization(c *gin.Context) {
	caller := middleware.CallerAddress(c)
	if err := h.service.RemoveOrganization(c.Request.Context(), caller, model.Address(c.Param("address"))); err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}
