package handler

import (
	"net/http"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

// RepairHandler handles HTTP requests for repair jobs
type RepairHandler struct {
	repairService *service.RepairService
	logger        *zap.Logger
}

func NewRepairHandler(repairService *service.RepairService, logger *zap.Logger) *RepairHandler {
	return &RepairHandler{repairService: repairService, logger: logger}
}

// List godoc
// @Summary List repairs
// @Tags Repairs
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param sort query string false "Sort field, prefix with - for descending" default(-createdAt)
// @Param search query string false "Search by repair number or technician"
// @Param status query string false "Filter by status" Enums(pending, done, notDone)
// @Param scopeId query string false "Filter by scope" format(uuid)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.RepairDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /repairs [get]
func (h *RepairHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	scopeID, err := queryUUID(r, "scopeId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	filters := repository.RepairFilters{
		Status:  queryEnum[domain.RepairStatus](r, "status"),
		ScopeID: scopeID,
		Search:  p.Search,
	}
	result, err := h.repairService.List(r.Context(), p.Page, p.PageSize, filters, p.Sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list repairs")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get repair
// @Tags Repairs
// @Produce json
// @Param id path string true "Repair ID" format(uuid)
// @Success 200 {object} domain.RepairDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /repairs/{id} [get]
func (h *RepairHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "repair")
	if !ok {
		return
	}
	repair, err := h.repairService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get repair")
		return
	}
	respondJSON(w, http.StatusOK, repair)
}

// Create godoc
// @Summary Open a repair
// @Description The scope (and evaluation, when given) must have an approved quotation. Parts are priced from the catalog and deducted from inventory.
// @Tags Repairs
// @Accept json
// @Produce json
// @Param request body domain.CreateRepairRequest true "Repair data"
// @Success 201 {object} domain.RepairDTO
// @Failure 400 {object} domain.APIError "Validation error or no approved quotation"
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /repairs [post]
func (h *RepairHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreateRepairRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	repair, err := h.repairService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create repair")
		return
	}
	respondCreated(w, "repairs", repair.ID, repair)
}

// Update godoc
// @Summary Update repair
// @Description Marking a repair done completes the scope and notifies the creator
// @Tags Repairs
// @Accept json
// @Produce json
// @Param id path string true "Repair ID" format(uuid)
// @Param request body domain.UpdateRepairRequest true "Repair data"
// @Success 200 {object} domain.RepairDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /repairs/{id} [put]
func (h *RepairHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "repair")
	if !ok {
		return
	}
	var req domain.UpdateRepairRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	repair, err := h.repairService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update repair")
		return
	}
	respondJSON(w, http.StatusOK, repair)
}

// Delete godoc
// @Summary Delete repair
// @Tags Repairs
// @Param id path string true "Repair ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Invoiced"
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /repairs/{id} [delete]
func (h *RepairHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "repair")
	if !ok {
		return
	}
	if err := h.repairService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete repair")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
