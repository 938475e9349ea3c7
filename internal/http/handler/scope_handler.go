package handler

import (
	"encoding/json"
	"net/http"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

// ScopeHandler handles HTTP requests for endoscopes in the shop
type ScopeHandler struct {
	scopeService *service.ScopeService
	logger       *zap.Logger
}

func NewScopeHandler(scopeService *service.ScopeService, logger *zap.Logger) *ScopeHandler {
	return &ScopeHandler{scopeService: scopeService, logger: logger}
}

// List godoc
// @Summary List scopes
// @Description Paginated scopes. search matches name, model, serial number and company.
// @Tags Scopes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param sort query string false "Sort field, prefix with - for descending" default(-createdAt)
// @Param search query string false "Free text search"
// @Param status query string false "Filter by status" Enums(pending, evaluated, approved, denied, completed)
// @Param type query string false "Filter by type" Enums(rigid, flexible)
// @Param brand query string false "Filter by brand ID" format(uuid)
// @Param manufacturer query string false "Filter by manufacturer ID" format(uuid)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ScopeDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /scopes [get]
func (h *ScopeHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)

	brandID, err := queryUUID(r, "brand")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	manufacturerID, err := queryUUID(r, "manufacturer")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	filters := repository.ScopeFilters{
		Status:         queryEnum[domain.ScopeStatus](r, "status"),
		Type:           queryEnum[domain.ScopeType](r, "type"),
		BrandID:        brandID,
		ManufacturerID: manufacturerID,
		Search:         p.Search,
	}

	result, err := h.scopeService.List(r.Context(), p.Page, p.PageSize, filters, p.Sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list scopes")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Stats godoc
// @Summary Scope statistics
// @Description Totals by status and type, plus scopes received in the last 7 days
// @Tags Scopes
// @Produce json
// @Success 200 {object} domain.ScopeStatsDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /scopes/stats [get]
func (h *ScopeHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.scopeService.Stats(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "get scope stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// ListWithApprovedQuotation godoc
// @Summary List scopes with an approved quotation
// @Tags Scopes
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param sort query string false "Sort field, prefix with - for descending" default(-createdAt)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ScopeDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /filtered-scopes [get]
func (h *ScopeHandler) ListWithApprovedQuotation(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	result, err := h.scopeService.ListWithApprovedQuotation(r.Context(), p.Page, p.PageSize, p.Sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list approved scopes")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get scope
// @Tags Scopes
// @Produce json
// @Param id path string true "Scope ID" format(uuid)
// @Success 200 {object} domain.ScopeDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /scopes/{id} [get]
func (h *ScopeHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "scope")
	if !ok {
		return
	}
	scope, err := h.scopeService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get scope")
		return
	}
	respondJSON(w, http.StatusOK, scope)
}

// Create godoc
// @Summary Register a scope
// @Tags Scopes
// @Accept json
// @Produce json
// @Param request body domain.CreateScopeRequest true "Scope data"
// @Success 201 {object} domain.ScopeDTO
// @Failure 400 {object} domain.APIError "Validation error or unknown brand/manufacturer"
// @Failure 409 {object} domain.APIError "Duplicate serial number"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /scopes [post]
func (h *ScopeHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateScopeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	scope, err := h.scopeService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create scope")
		return
	}
	respondCreated(w, "scopes", scope.ID, scope)
}

// Update godoc
// @Summary Update scope
// @Tags Scopes
// @Accept json
// @Produce json
// @Param id path string true "Scope ID" format(uuid)
// @Param request body domain.UpdateScopeRequest true "Scope data"
// @Success 200 {object} domain.ScopeDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Duplicate serial number"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /scopes/{id} [put]
func (h *ScopeHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "scope")
	if !ok {
		return
	}
	var req domain.UpdateScopeRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	scope, err := h.scopeService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update scope")
		return
	}
	respondJSON(w, http.StatusOK, scope)
}

// Delete godoc
// @Summary Delete scope
// @Description Without cascade=true a scope with evaluations, quotations, repairs or invoices is not deleted (409)
// @Tags Scopes
// @Param id path string true "Scope ID" format(uuid)
// @Param cascade query bool false "Delete related records first"
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Related records"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /scopes/{id} [delete]
func (h *ScopeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "scope")
	if !ok {
		return
	}
	if err := h.scopeService.Delete(r.Context(), id, r.URL.Query().Get("cascade") == "true"); err != nil {
		respondServiceError(w, h.logger, err, "delete scope")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Bulk godoc
// @Summary Bulk scope operation
// @Description action is delete (cascading), update or updateStatus
// @Tags Scopes
// @Accept json
// @Produce json
// @Param request body domain.BulkScopeRequest true "Bulk operation"
// @Success 200 {object} domain.BulkResultDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /scopes/bulk [post]
func (h *ScopeHandler) Bulk(w http.ResponseWriter, r *http.Request) {
	var req domain.BulkScopeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	result, err := h.scopeService.Bulk(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "run bulk operation")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
