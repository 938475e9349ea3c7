package handler

import (
	"net/http"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

// BrandHandler handles HTTP requests for scope brands
type BrandHandler struct {
	brandService *service.BrandService
	logger       *zap.Logger
}

func NewBrandHandler(brandService *service.BrandService, logger *zap.Logger) *BrandHandler {
	return &BrandHandler{brandService: brandService, logger: logger}
}

// List godoc
// @Summary List brands
// @Tags Brands
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param search query string false "Search by title"
// @Param sort query string false "Sort field, prefix with - for descending" default(-createdAt)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.BrandDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /brands [get]
func (h *BrandHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	result, err := h.brandService.List(r.Context(), p.Page, p.PageSize, p.Search, p.Sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list brands")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get brand
// @Tags Brands
// @Produce json
// @Param id path string true "Brand ID" format(uuid)
// @Success 200 {object} domain.BrandDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /brands/{id} [get]
func (h *BrandHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "brand")
	if !ok {
		return
	}
	brand, err := h.brandService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get brand")
		return
	}
	respondJSON(w, http.StatusOK, brand)
}

// Create godoc
// @Summary Create brand
// @Tags Brands
// @Accept json
// @Produce json
// @Param request body domain.CreateBrandRequest true "Brand data"
// @Success 201 {object} domain.BrandDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Duplicate title"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /brands [post]
func (h *BrandHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateBrandRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	brand, err := h.brandService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create brand")
		return
	}
	respondCreated(w, "brands", brand.ID, brand)
}

// Update godoc
// @Summary Update brand
// @Tags Brands
// @Accept json
// @Produce json
// @Param id path string true "Brand ID" format(uuid)
// @Param request body domain.UpdateBrandRequest true "Brand data"
// @Success 200 {object} domain.BrandDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Duplicate title"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /brands/{id} [put]
func (h *BrandHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "brand")
	if !ok {
		return
	}
	var req domain.UpdateBrandRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	brand, err := h.brandService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update brand")
		return
	}
	respondJSON(w, http.StatusOK, brand)
}

// Delete godoc
// @Summary Delete brand
// @Description Without cascade=true a brand used by scopes is not deleted (409)
// @Tags Brands
// @Param id path string true "Brand ID" format(uuid)
// @Param cascade query bool false "Also delete the brand's scopes and their records"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Related records"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /brands/{id} [delete]
func (h *BrandHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "brand")
	if !ok {
		return
	}
	if err := h.brandService.Delete(r.Context(), id, r.URL.Query().Get("cascade") == "true"); err != nil {
		respondServiceError(w, h.logger, err, "delete brand")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
