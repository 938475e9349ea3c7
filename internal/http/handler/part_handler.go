package handler

import (
	"net/http"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

// PartHandler handles HTTP requests for the parts catalog
type PartHandler struct {
	partService *service.PartService
	logger      *zap.Logger
}

func NewPartHandler(partService *service.PartService, logger *zap.Logger) *PartHandler {
	return &PartHandler{partService: partService, logger: logger}
}

// List godoc
// @Summary List parts
// @Tags Parts
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param search query string false "Search by part name or number"
// @Param sort query string false "Sort field, prefix with - for descending" default(-createdAt)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.PartDTO}
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /parts [get]
func (h *PartHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	result, err := h.partService.List(r.Context(), p.Page, p.PageSize, p.Search, p.Sort)
	if err != nil {
		respondServiceError(w, h.logger, err, "list parts")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get part
// @Tags Parts
// @Produce json
// @Param id path string true "Part ID" format(uuid)
// @Success 200 {object} domain.PartDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /parts/{id} [get]
func (h *PartHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "part")
	if !ok {
		return
	}
	part, err := h.partService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get part")
		return
	}
	respondJSON(w, http.StatusOK, part)
}

// Create godoc
// @Summary Create part
// @Tags Parts
// @Accept json
// @Produce json
// @Param request body domain.CreatePartRequest true "Part data"
// @Success 201 {object} domain.PartDTO
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /parts [post]
func (h *PartHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req domain.CreatePartRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	part, err := h.partService.Create(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "create part")
		return
	}
	respondCreated(w, "parts", part.ID, part)
}

// Update godoc
// @Summary Update part
// @Tags Parts
// @Accept json
// @Produce json
// @Param id path string true "Part ID" format(uuid)
// @Param request body domain.UpdatePartRequest true "Part data"
// @Success 200 {object} domain.PartDTO
// @Failure 400 {object} domain.APIError
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /parts/{id} [put]
func (h *PartHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "part")
	if !ok {
		return
	}
	var req domain.UpdatePartRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	part, err := h.partService.Update(r.Context(), id, &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update part")
		return
	}
	respondJSON(w, http.StatusOK, part)
}

// Delete godoc
// @Summary Delete part
// @Tags Parts
// @Param id path string true "Part ID" format(uuid)
// @Success 204
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /parts/{id} [delete]
func (h *PartHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "part")
	if !ok {
		return
	}
	if err := h.partService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete part")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
