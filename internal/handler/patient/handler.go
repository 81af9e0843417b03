package patient

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/medex/marketplace-api/internal/handler"
	"github.com/medex/marketplace-api/internal/middleware"
	"github.com/medex/marketplace-api/internal/model"
	"github.com/medex/marketplace-api/internal/service/patient"
)

type Handler struct {
	service *patient.Service
}

func NewHandler(service *patient.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	patients := r.Group("/patients")
	{
		patients.POST("", h.AddPatient)
		patients.GET("/:address", h.GetPatient)
		patients.DELETE("/:address", h.RemovePatient)
		patients.POST("/:address/records", h.AddMedicalRecord)
		patients.GET("/:address/records", h.GetMedicalRecords)
	}
}

func (h *Handler) AddPatient(c *gin.Context) {
	var req model.AddPatientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	caller := middleware.CallerAddress(c)
	p, err := h.service.AddNewPatient(
		c.Request.Context(),
		caller,
		model.Address(req.Address),
		*req.Age,
		req.Gender,
		req.Country,
	)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(p))
}

func (h *Handler) GetPatient(c *gin.Context) {
	caller := middleware.CallerAddress(c)
	p, err := h.service.GetPatientProfile(caller, model.Address(c.Param("address")))
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(p))
}

func (h *Handler) RemovePatient(c *gin.Context) {
	caller := middleware.CallerAddress(c)
	if err := h.service.RemovePatient(c.Request.Context(), caller, model.Address(c.Param("address"))); err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(nil))
}

func (h *Handler) AddMedicalRecord(c *gin.Context) {
	var req model.AddMedicalRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	caller := middleware.CallerAddress(c)
	rec, err := h.service.AddNewMedicalRecord(
		c.Request.Context(),
		caller,
		model.Address(req.IssuedBy),
		model.Address(c.Param("address")),
		model.RecordType(*req.Type),
		req.URI,
	)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusCreated, handler.NewSuccessResponse(rec))
}

func (h *Handler) GetMedicalRecords(c *gin.Context) {
	types, err := parseRecordTypes(c.Query("types"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid record type filter"))
		return
	}

	records, err := h.service.GetMedicalRecords(model.Address(c.Param("address")), types)
	if err != nil {
		c.JSON(handler.StatusOf(err), handler.NewErrorResponse(err.Error()))
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(records))
}

// parseRecordTypes reads a comma-separated type filter ("0,2,4"). An
// empty filter means all types.
func parseRecordTypes(raw string) ([]model.RecordType, error) {
	if raw == "" {
		return nil, nil
	}
	parts := strings.Split(raw, ",")
	types := make([]model.RecordType, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return nil, err
		}
		types = append(types, model.RecordType(v))
	}
	return types, nil
}
