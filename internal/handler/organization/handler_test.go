package organization

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medex/marketplace-api/internal/middleware"
	"github.com/medex/marketplace-api/internal/model"
	"github.com/medex/marketplace-api/internal/repository/memory"
	"github.com/medex/marketplace-api/internal/router"
	"github.com/medex/marketplace-api/internal/service/organization"
	"github.com/medex/marketplace-api/pkg/event"
)

const seed = model.Address("org-genesis")

// asCaller injects the identity the auth middleware would have resolved.
func asCaller(addr model.Address) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.ContextCallerAddress, addr)
		c.Next()
	}
}

func setupRouter(t *testing.T, caller model.Address) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router.RegisterValidations()

	store := memory.New(model.Organization{Address: seed, Type: model.OrgTypeHospital})
	svc := organization.NewService(store, event.NopEmitter{}, seed)

	r := gin.New()
	api := r.Group("", asCaller(caller))
	NewHandler(svc).RegisterRoutes(api)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestAddOrganizationHTTP(t *testing.T) {
	r := setupRouter(t, seed)

	orgType := uint8(model.OrgTypeResearch)
	w := postJSON(t, r, "/organizations", map[string]interface{}{
		"address":           "org-research",
		"organization_type": orgType,
		"location":          "Berlin",
		"name":              "Research Labs",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Status string             `json:"status"`
		Data   model.Organization `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, model.Address("org-research"), resp.Data.Address)
}

func TestAddOrganizationUnauthorizedCallerMapsTo403(t *testing.T) {
	r := setupRouter(t, "rando")

	w := postJSON(t, r, "/organizations", map[string]interface{}{
		"address":           "org-x",
		"organization_type": 0,
		"location":          "Oslo",
		"name":              "X",
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "Verified organization only!")
}

func TestAddOrganizationMissingFieldsMapTo400(t *testing.T) {
	r := setupRouter(t, seed)

	w := postJSON(t, r, "/organizations", map[string]interface{}{
		"address": "org-x",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUnknownOrganizationMapsTo404(t *testing.T) {
	r := setupRouter(t, seed)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/organizations/ghost", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Organization does not exist!")
}

func TestRemoveOrganizationHTTP(t *testing.T) {
	r := setupRouter(t, seed)

	w := postJSON(t, r, "/organizations", map[string]interface{}{
		"address":           "org-x",
		"organization_type": 0,
		"location":          "Oslo",
		"name":              "X",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	del := httptest.NewRecorder()
	r.ServeHTTP(del, httptest.NewRequest(http.MethodDelete, "/organizations/org-x", nil))
	assert.Equal(t, http.StatusOK, del.Code)

	get := httptest.NewRecorder()
	r.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/organizations/org-x", nil))
	assert.Equal(t, http.StatusNotFound, get.Code)
}
