package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"github.com/medex/marketplace-api/internal/handler"
	"github.com/medex/marketplace-api/internal/model"
	"github.com/medex/marketplace-api/pkg/auth"
)

// ContextCallerAddress is where Authenticate stores the resolved identity.
const ContextCallerAddress = "caller_address"

// AuthMiddleware resolves bearer tokens into caller addresses. Every
// registry and marketplace operation is gated on the address, so this is
// the only place token material is touched.
type AuthMiddleware struct {
	tokens *auth.TokenService
	cache  *gocache.Cache
}

func NewAuthMiddleware(tokens *auth.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokens: tokens,
		cache:  gocache.New(5*time.Minute, 10*time.Minute),
	}
}

// Authenticate verifies the identity token and sets the caller address in
// context. Validated tokens are cached until their natural expiry window.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("missing authorization header"))
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid authorization format"))
			c.Abort()
			return
		}

		if cached, found := m.cache.Get(parts[1]); found {
			c.Set(ContextCallerAddress, cached.(model.Address))
			c.Next()
			return
		}

		addr, err := m.tokens.ValidateIdentityToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, handler.NewErrorResponse("invalid token"))
			c.Abort()
			return
		}

		m.cache.Set(parts[1], addr, gocache.DefaultExpiration)
		c.Set(ContextCallerAddress, addr)
		c.Next()
	}
}

// CallerAddress returns the authenticated caller of the request.
func CallerAddress(c *gin.Context) model.Address {
	if v, ok := c.Get(ContextCallerAddress); ok {
		if addr, ok := v.(model.Address); ok {
			return addr
		}
	}
	return ""
}
