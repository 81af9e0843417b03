package record

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/medex/marketplace-api/internal/handler"
	"github.com/medex/marketplace-api/internal/middleware"
	"github.com/medex/marketplace-api/internal/service/record"
)

type Handler struct {
	service *record.Service
}

func NewHandler(service *record.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	records := r.Group("/records")
	{
		records.GET("/:id", h.GetMetadata)
		records.POST("/:id/toggle-validity", h.ToggleValidity)
		records.POST("/:id/toggle-access", h.ToggleAccess)
	}
}

func (h *Handler) GetMetadata(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid record ID"))
		return
	}

	meta, err := h.service.GetMetadata(id)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(meta))
}

func (h *Handler) ToggleValidity(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid record ID"))
		return
	}

	caller := middleware.CallerAddress(c)
	valid, err := h.service.ToggleValidity(c.Request.Context(), caller, id)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"valid": valid}))
}

func (h *Handler) ToggleAccess(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid record ID"))
		return
	}

	caller := middleware.CallerAddress(c)
	stopped, err := h.service.ToggleContractStopped(c.Request.Context(), caller, id)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"access_stopped": stopped}))
}
