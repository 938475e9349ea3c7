package handler

import (
	"net/http"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

// InvoiceHandler handles HTTP requests for invoices
type InvoiceHandler struct {
	invoiceService  *service.InvoiceService
	documentService *service.DocumentService
	logger          *zap.Logger
}

func NewInvoiceHandler(invoiceService *service.InvoiceService, documentService *service.DocumentService, logger *zap.Logger) *InvoiceHandler {
	return &InvoiceHandler{
		invoiceService:  invoiceService,
		documentService: documentService,
		logger:          logger,
	}
}

// List godoc
// @Summary List invoices
// @Tags Invoices
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param sort query string false "Sort field, prefix with - for descending" default(-createdAt)
// @Param search query string false "Search by invoice number, customer or PO"
// @Param status query string false "Filter by status" Enums(draft, sent, paid, overdue, cancelled)
// @Param scopeId query string false "Filter by scope" format(uuid)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.InvoiceDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices [get]
func (h *InvoiceHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	scopeID, err := queryUUID(r, "scopeId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	filters := repository.InvoiceFilters{
		Status:  queryEnum[domain.InvoiceStatus](r, "status"),
		ScopeID: scopeID,
		Search:  p.Search,
	}
	result, err := h.invoiceService.List(r.Context(), p.Page, p.PageSize, filters, p.Sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list invoices")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Overdue godoc
// @Summary Sent invoices past their due date
// @Tags Invoices
// @Produce json
// @Success 200 {array} domain.InvoiceDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/overdue [get]
func (h *InvoiceHandler) Overdue(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.invoiceService.ListOverdue(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list overdue invoices")
		return
	}
	respondJSON(w, http.StatusOK, invoices)
}

// GetByID godoc
// @Summary Get invoice
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Success 200 {object} domain.InvoiceDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id} [get]
func (h *InvoiceHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "invoice")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get invoice")
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}

// Create godoc
// @Summary Create invoice
// @Description Numbers, tax (11%) and totals are computed by the server
// @Tags Invoices
// @Accept json
// @Produce json
// @Param request body domain.CreateInvoiceRequest true "Invoice data"
// @Success 201 {object} domain.InvoiceDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices [post]
func (h *InvoiceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateInvoiceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	invoice, err := h.invoiceService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create invoice")
		return
	}
	respondCreated(w, "invoices", invoice.ID, invoice)
}

// CreateFromQuotation godoc
// @Summary Invoice a quotation
// @Description Bills the quotation price less discount and links the scope's latest repair
// @Tags Invoices
// @Produce json
// @Param id path string true "Quotation ID" format(uuid)
// @Success 201 {object} domain.InvoiceDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /quotations/{id}/invoices [post]
func (h *InvoiceHandler) CreateFromQuotation(w http.ResponseWriter, r *http.Request) {
	quotationID, ok := parseIDParam(w, r, "id", "quotation")
	if !ok {
		return
	}
	invoice, err := h.invoiceService.CreateFromQuotation(r.Context(), quotationID)
	if err != nil {
		respondServiceError(w, h.logger, err, "create invoice")
		return
	}
	respondCreated(w, "invoices", invoice.ID, invoice)
}

// Update godoc
// @Summary Update invoice
// @Tags Invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Param request body domain.UpdateInvoiceRequest true "Invoice data"
// @Success 200 {object} domain.InvoiceDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id} [put]
func (h *InvoiceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "invoice")
	if !ok {
		return
	}
	var req domain.UpdateInvoiceRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	invoice, err := h.invoiceService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update invoice")
		return
	}
	respondJSON(w, http.StatusOK, invoice)
}

// Delete godoc
// @Summary Delete invoice
// @Tags Invoices
// @Param id path string true "Invoice ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id} [delete]
func (h *InvoiceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "invoice")
	if !ok {
		return
	}
	if err := h.invoiceService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete invoice")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GeneratePDF godoc
// @Summary Generate invoice PDF
// @Tags Invoices
// @Produce json
// @Param id path string true "Invoice ID" format(uuid)
// @Success 200 {object} domain.GeneratePDFResponse
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /invoices/{id}/generate-pdf [post]
func (h *InvoiceHandler) GeneratePDF(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "invoice")
	if !ok {
		return
	}
	resp, err := h.documentService.GenerateInvoicePDF(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "generate invoice PDF")
		return
	}
	respondJSON(w, http.StatusOK, resp)
}
