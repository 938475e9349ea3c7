package handler

import (
	"net/http"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

// CompanyHandler handles HTTP requests for customer companies
type CompanyHandler struct {
	companyService *service.CompanyService
	logger         *zap.Logger
}

func NewCompanyHandler(companyService *service.CompanyService, logger *zap.Logger) *CompanyHandler {
	return &CompanyHandler{companyService: companyService, logger: logger}
}

// List godoc
// @Summary List customer companies
// @Tags Companies
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param search query string false "Search by name, email or MOF number"
// @Param sort query string false "Sort field, prefix with - for descending" default(-createdAt)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.CompanyDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /companies [get]
func (h *CompanyHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	result, err := h.companyService.List(r.Context(), p.Page, p.PageSize, p.Search, p.Sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list companies")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get customer company
// @Tags Companies
// @Produce json
// @Param id path string true "Company ID" format(uuid)
// @Success 200 {object} domain.CompanyDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /companies/{id} [get]
func (h *CompanyHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "company")
	if !ok {
		return
	}
	company, err := h.companyService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get company")
		return
	}
	respondJSON(w, http.StatusOK, company)
}

// Create godoc
// @Summary Create customer company
// @Tags Companies
// @Accept json
// @Produce json
// @Param request body domain.CreateCompanyRequest true "Company data"
// @Success 201 {object} domain.CompanyDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /companies [post]
func (h *CompanyHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateCompanyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	company, err := h.companyService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create company")
		return
	}
	respondCreated(w, "companies", company.ID, company)
}

// Update godoc
// @Summary Update customer company
// @Tags Companies
// @Accept json
// @Produce json
// @Param id path string true "Company ID" format(uuid)
// @Param request body domain.UpdateCompanyRequest true "Company data"
// @Success 200 {object} domain.CompanyDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /companies/{id} [put]
func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "company")
	if !ok {
		return
	}
	var req domain.UpdateCompanyRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	company, err := h.companyService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update company")
		return
	}
	respondJSON(w, http.StatusOK, company)
}

// Delete godoc
// @Summary Delete customer company
// @Tags Companies
// @Param id path string true "Company ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /companies/{id} [delete]
func (h *CompanyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "company")
	if !ok {
		return
	}
	if err := h.companyService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete company")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SyncFromERP godoc
// @Summary Import companies from the ERP directory
// @Description Upserts companies by name. Returns 503 when the ERP connection is not configured.
// @Tags Companies
// @Produce json
// @Success 200 {object} domain.ERPSyncResultDTO
// @Failure 403 {object} domain.APIError
// @Failure 503 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /companies/sync [post]
func (h *CompanyHandler) SyncFromERP(w http.ResponseWriter, r *http.Request) {
	result, err := h.companyService.SyncFromERP(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "sync companies")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
