package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/medex/marketplace-api/internal/handler"
	"github.com/medex/marketplace-api/internal/model"
	"github.com/medex/marketplace-api/pkg/auth"
)

type tokenRequest struct {
	Address string `json:"address" binding:"required"`
}

// Handler mints identity tokens for a given address. It is an ops/dev
// surface, disabled unless explicitly enabled in configuration; a real
// deployment fronts this with its own identity provider.
type Handler struct {
	tokens  *auth.TokenService
	enabled bool
}

func NewHandler(tokens *auth.TokenService, enabled bool) *Handler {
	return &Handler{tokens: tokens, enabled: enabled}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/token", h.IssueToken)
}

func (h *Handler) IssueToken(c *gin.Context) {
	if !h.enabled {
		c.JSON(http.StatusNotFound, handler.NewErrorResponse("not found"))
		return
	}

	var req tokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	token, err := h.tokens.GenerateIdentityToken(model.Address(req.Address))
	if err != nil {
		c.JSON(http.StatusInternalServerError, handler.NewErrorResponse("failed to issue token"))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"token": token}))
}
