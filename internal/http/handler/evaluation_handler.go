package handler

import (
	"net/http"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

// EvaluationHandler handles HTTP requests for scope evaluations
type EvaluationHandler struct {
	evaluationService *service.EvaluationService
	logger            *zap.Logger
}

func NewEvaluationHandler(evaluationService *service.EvaluationService, logger *zap.Logger) *EvaluationHandler {
	return &EvaluationHandler{evaluationService: evaluationService, logger: logger}
}

// List godoc
// @Summary List evaluations
// @Tags Evaluations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param sort query string false "Sort field, prefix with - for descending" default(-createdAt)
// @Param search query string false "Search by code, scope name or serial number"
// @Param status query string false "Filter by status" Enums(pending, completed)
// @Param type query string false "Filter by type" Enums(rigid, flexible)
// @Param scopeId query string false "Filter by scope" format(uuid)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.EvaluationDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /evaluations [get]
func (h *EvaluationHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	scopeID, err := queryUUID(r, "scopeId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	filters := repository.EvaluationFilters{
		Status:  queryEnum[domain.EvaluationStatus](r, "status"),
		Type:    queryEnum[domain.ScopeType](r, "type"),
		ScopeID: scopeID,
		Search:  p.Search,
	}
	result, err := h.evaluationService.List(r.Context(), p.Page, p.PageSize, filters, p.Sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list evaluations")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// ListByScope godoc
// @Summary List a scope's evaluations
// @Description Newest first
// @Tags Evaluations
// @Produce json
// @Param scopeId path string true "Scope ID" format(uuid)
// @Success 200 {array} domain.EvaluationDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /evaluations-by-scope/{scopeId} [get]
func (h *EvaluationHandler) ListByScope(w http.ResponseWriter, r *http.Request) {
	scopeID, ok := parseIDParam(w, r, "scopeId", "scope")
	if !ok {
		return
	}
	evaluations, err := h.evaluationService.ListByScope(r.Context(), scopeID)
	if err != nil {
		respondServiceError(w, h.logger, err, "list evaluations")
		return
	}
	respondJSON(w, http.StatusOK, evaluations)
}

// ListWithApprovedQuotation godoc
// @Summary List evaluations whose scope has an approved quotation
// @Tags Evaluations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param sort query string false "Sort field, prefix with - for descending" default(-createdAt)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.EvaluationDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /filtered-evaluations [get]
func (h *EvaluationHandler) ListWithApprovedQuotation(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	result, err := h.evaluationService.ListWithApprovedQuotation(r.Context(), p.Page, p.PageSize, p.Sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list approved evaluations")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get evaluation
// @Tags Evaluations
// @Produce json
// @Param id path string true "Evaluation ID" format(uuid)
// @Success 200 {object} domain.EvaluationDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /evaluations/{id} [get]
func (h *EvaluationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "evaluation")
	if !ok {
		return
	}
	evaluation, err := h.evaluationService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get evaluation")
		return
	}
	respondJSON(w, http.StatusOK, evaluation)
}

// Create godoc
// @Summary Create evaluation
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param request body domain.CreateEvaluationRequest true "Evaluation data"
// @Success 201 {object} domain.EvaluationDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Unknown scope"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /evaluations [post]
func (h *EvaluationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateEvaluationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	evaluation, err := h.evaluationService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create evaluation")
		return
	}
	respondCreated(w, "evaluations", evaluation.ID, evaluation)
}

// CreateFromScope godoc
// @Summary Evaluate a scope
// @Description Creates an evaluation carrying the scope's type, code, name and numbers
// @Tags Evaluations
// @Produce json
// @Param id path string true "Scope ID" format(uuid)
// @Success 201 {object} domain.EvaluationDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /scopes/{id}/evaluations [post]
func (h *EvaluationHandler) CreateFromScope(w http.ResponseWriter, r *http.Request) {
	scopeID, ok := parseIDParam(w, r, "id", "scope")
	if !ok {
		return
	}
	evaluation, err := h.evaluationService.CreateFromScope(r.Context(), scopeID)
	if err != nil {
		respondServiceError(w, h.logger, err, "create evaluation")
		return
	}
	respondCreated(w, "evaluations", evaluation.ID, evaluation)
}

// Update godoc
// @Summary Update evaluation
// @Tags Evaluations
// @Accept json
// @Produce json
// @Param id path string true "Evaluation ID" format(uuid)
// @Param request body domain.UpdateEvaluationRequest true "Evaluation data"
// @Success 200 {object} domain.EvaluationDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /evaluations/{id} [put]
func (h *EvaluationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "evaluation")
	if !ok {
		return
	}
	var req domain.UpdateEvaluationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	evaluation, err := h.evaluationService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update evaluation")
		return
	}
	respondJSON(w, http.StatusOK, evaluation)
}

// Delete godoc
// @Summary Delete evaluation
// @Tags Evaluations
// @Param id path string true "Evaluation ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Related records"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /evaluations/{id} [delete]
func (h *EvaluationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "evaluation")
	if !ok {
		return
	}
	if err := h.evaluationService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete evaluation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
