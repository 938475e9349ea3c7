package handler

import (
	"net/http"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

// ManufacturerHandler handles HTTP requests for scope manufacturers
type ManufacturerHandler struct {
	manufacturerService *service.ManufacturerService
	logger              *zap.Logger
}

func NewManufacturerHandler(manufacturerService *service.ManufacturerService, logger *zap.Logger) *ManufacturerHandler {
	return &ManufacturerHandler{manufacturerService: manufacturerService, logger: logger}
}

// List godoc
// @Summary List manufacturers
// @Tags Manufacturers
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param search query string false "Search by company name or email"
// @Param country query string false "Filter by ISO country code"
// @Param sort query string false "Sort field, prefix with - for descending" default(-createdAt)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ManufacturerDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /manufacturers [get]
func (h *ManufacturerHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	result, err := h.manufacturerService.List(r.Context(), p.Page, p.PageSize, p.Search, r.URL.Query().Get("country"), p.Sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list manufacturers")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Countries godoc
// @Summary List manufacturer countries
// @Tags Manufacturers
// @Produce json
// @Success 200 {array} domain.CountryDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /manufacturers/countries [get]
func (h *ManufacturerHandler) Countries(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, h.manufacturerService.Countries())
}

// GetByID godoc
// @Summary Get manufacturer
// @Tags Manufacturers
// @Produce json
// @Param id path string true "Manufacturer ID" format(uuid)
// @Success 200 {object} domain.ManufacturerDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /manufacturers/{id} [get]
func (h *ManufacturerHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "manufacturer")
	if !ok {
		return
	}
	m, err := h.manufacturerService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get manufacturer")
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// Create godoc
// @Summary Create manufacturer
// @Tags Manufacturers
// @Accept json
// @Produce json
// @Param request body domain.CreateManufacturerRequest true "Manufacturer data"
// @Success 201 {object} domain.ManufacturerDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /manufacturers [post]
func (h *ManufacturerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateManufacturerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	m, err := h.manufacturerService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create manufacturer")
		return
	}
	respondCreated(w, "manufacturers", m.ID, m)
}

// Update godoc
// @Summary Update manufacturer
// @Tags Manufacturers
// @Accept json
// @Produce json
// @Param id path string true "Manufacturer ID" format(uuid)
// @Param request body domain.UpdateManufacturerRequest true "Manufacturer data"
// @Success 200 {object} domain.ManufacturerDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /manufacturers/{id} [put]
func (h *ManufacturerHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "manufacturer")
	if !ok {
		return
	}
	var req domain.UpdateManufacturerRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	m, err := h.manufacturerService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update manufacturer")
		return
	}
	respondJSON(w, http.StatusOK, m)
}

// Delete godoc
// @Summary Delete manufacturer
// @Description Without cascade=true a manufacturer used by scopes is not deleted (409)
// @Tags Manufacturers
// @Param id path string true "Manufacturer ID" format(uuid)
// @Param cascade query bool false "Also delete the manufacturer's scopes and their records"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Related records"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /manufacturers/{id} [delete]
func (h *ManufacturerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "manufacturer")
	if !ok {
		return
	}
	if err := h.manufacturerService.Delete(r.Context(), id, r.URL.Query().Get("cascade") == "true"); err != nil {
		respondServiceError(w, h.logger, err, "delete manufacturer")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
