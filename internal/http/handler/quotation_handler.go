package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

// QuotationHandler handles HTTP requests for repair quotations
type QuotationHandler struct {
	quotationService *service.QuotationService
	documentService  *service.DocumentService
	logger           *zap.Logger
}

func NewQuotationHandler(quotationService *service.QuotationService, documentService *service.DocumentService, logger *zap.Logger) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
		documentService:  documentService,
		logger:           logger,
	}
}

// List godoc
// @Summary List quotations
// @Tags Quotations
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param sort query string false "Sort field, prefix with - for descending" default(-createdAt)
// @Param search query string false "Search by number or problems"
// @Param status query string false "Filter by status" Enums(pending, approved, rejected)
// @Param scopeId query string false "Filter by scope" format(uuid)
// @Param evaluationId query string false "Filter by evaluation" format(uuid)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.QuotationDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations [get]
func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	scopeID, err := queryUUID(r, "scopeId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	evaluationID, err := queryUUID(r, "evaluationId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	filters := repository.QuotationFilters{
		Status:       queryEnum[domain.QuotationStatus](r, "status"),
		ScopeID:      scopeID,
		EvaluationID: evaluationID,
		Search:       p.Search,
	}
	result, err := h.quotationService.List(r.Context(), p.Page, p.PageSize, filters, p.Sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list quotations")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get quotation
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Success 200 {object} domain.QuotationDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id} [get]
func (h *QuotationHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "quotation")
	if !ok {
		return
	}
	quotation, err := h.quotationService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get quotation")
		return
	}
	respondJSON(w, http.StatusOK, quotation)
}

// Create godoc
// @Summary Create quotation
// @Tags Quotations
// @Accept json
// @Produce json
// @Param request body domain.CreateQuotationRequest true "Quotation data"
// @Success 201 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError "Unknown scope or evaluation"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations [post]
func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateQuotationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	quotation, err := h.quotationService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create quotation")
		return
	}
	respondCreated(w, "quotations", quotation.ID, quotation)
}

// CreateFromEvaluation godoc
// @Summary Quote an evaluation
// @Description Scope and problems come from the evaluation; validity is 30 days and delivery 7 days unless given. The body is optional.
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Evaluation ID" format(uuid)
// @Param request body domain.CreateQuotationRequest false "Price and overrides"
// @Success 201 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /evaluations/{id}/quotations [post]
func (h *QuotationHandler) CreateFromEvaluation(w http.ResponseWriter, r *http.Request) {
	evaluationID, ok := parseIDParam(w, r, "id", "evaluation")
	if !ok {
		return
	}

	var req *domain.CreateQuotationRequest
	var body domain.CreateQuotationRequest
	switch err := json.NewDecoder(r.Body).Decode(&body); {
	case errors.Is(err, io.EOF):
	case err != nil:
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	default:
		if err := validate.Struct(body); err != nil {
			respondValidationError(w, err)
			return
		}
		req = &body
	}

	quotation, err := h.quotationService.CreateFromEvaluation(r.Context(), evaluationID, req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create quotation")
		return
	}
	respondCreated(w, "quotations", quotation.ID, quotation)
}

// Update godoc
// @Summary Update quotation
// @Description Approving moves the scope to approved, rejecting moves it to denied
// @Tags Quotations
// @Accept json
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Param request body domain.UpdateQuotationRequest true "Quotation data"
// @Success 200 {object} domain.QuotationDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id} [put]
func (h *QuotationHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "quotation")
	if !ok {
		return
	}
	var req domain.UpdateQuotationRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	quotation, err := h.quotationService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update quotation")
		return
	}
	respondJSON(w, http.StatusOK, quotation)
}

// Delete godoc
// @Summary Delete quotation
// @Tags Quotations
// @Param id path string true "Quotation ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Related records"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id} [delete]
func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "quotation")
	if !ok {
		return
	}
	if err := h.quotationService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete quotation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GeneratePDF godoc
// @Summary Generate quotation PDF
// @Description Renders the quotation, uploads it and stores the URL. Falls back to an inline data URL when the upload fails.
// @Tags Quotations
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Success 200 {object} domain.GeneratePDFResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id}/generate-pdf [post]
func (h *QuotationHandler) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "quotation")
	if !ok {
		return
	}
	resp, err := h.documentService.GenerateQuotationPDF(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "generate quotation PDF")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
