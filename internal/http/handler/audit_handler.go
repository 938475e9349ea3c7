package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

// AuditHandler handles audit log related HTTP requests
type AuditHandler struct {
	auditService *service.AuditLogService
	logger       *zap.Logger
}

// NewAuditHandler creates a new audit handler
func NewAuditHandler(auditService *service.AuditLogService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// List godoc
// @Summary List audit logs
// @Description Returns a paginated list of audit log entries with optional filters. Admin only.
// @Tags Audit
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param userId query string false "Filter by user ID"
// @Param entityType query string false "Filter by entity type"
// @Param entityId query string false "Filter by entity ID" format(uuid)
// @Param action query string false "Filter by action" Enums(create, update, delete, other)
// @Param startTime query string false "Start time (RFC3339)"
// @Param endTime query string false "End time (RFC3339)"
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.AuditLogDTO}
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit [get]
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)
	q := r.URL.Query()

	entityID, err := queryUUID(r, "entityId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	params := service.AuditLogQueryParams{
		UserID:     q.Get("userId"),
		Action:     queryEnum[domain.AuditAction](r, "action"),
		EntityType: q.Get("entityType"),
		EntityID:   entityID,
		Page:       p.Page,
		PageSize:   p.PageSize,
	}

	if params.StartTime, err = queryTime(r, "startTime"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}
	if params.EndTime, err = queryTime(r, "endTime"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.auditService.List(r.Context(), params)
	if err != nil {
		respondServiceError(w, h.logger, err, "list audit logs")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// GetByID godoc
// @Summary Get audit log by ID
// @Tags Audit
// @Produce json
// @Param id path string true "Audit log ID" format(uuid)
// @Success 200 {object} domain.AuditLogDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit/{id} [get]
func (h *AuditHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "audit log")
	if !ok {
		return
	}
	entry, err := h.auditService.GetByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get audit log")
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// GetStats godoc
// @Summary Audit statistics
// @Description Counts by action between startTime and endTime (default: the last 30 days)
// @Tags Audit
// @Produce json
// @Param startTime query string false "Start time (RFC3339)"
// @Param endTime query string false "End time (RFC3339)"
// @Success 200 {object} map[string]int64
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /audit/stats [get]
func (h *AuditHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	end := time.Now()
	start := end.AddDate(0, 0, -30)

	if t, err := queryTime(r, "startTime"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	} else if t != nil {
		start = *t
	}
	if t, err := queryTime(r, "endTime"); err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	} else if t != nil {
		end = *t
	}

	stats, err := h.auditService.GetStats(r.Context(), start, end)
	if err != nil {
		respondServiceError(w, h.logger, err, "get audit stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// queryTime parses an optional RFC3339 query parameter
func queryTime(r *http.Request, name string) (*time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s: must be an RFC3339 timestamp", name)
	}
	return &t, nil
}
