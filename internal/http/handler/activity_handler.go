package handler

import (
	"net/http"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

type ActivityHandler struct {
	activityService *service.ActivityService
	logger          *zap.Logger
}

func NewActivityHandler(activityService *service.ActivityService, logger *zap.Logger) *ActivityHandler {
	return &ActivityHandler{activityService: activityService, logger: logger}
}

// List godoc
// @Summary List activity
// @Description Newest first. Filter by targetType, optionally narrowed to one record with targetId.
// @Tags Activities
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page (max 200)" default(10)
// @Param targetType query string false "Record type" Enums(scope, evaluation, quotation, repair, invoice, inventory, company)
// @Param targetId query string false "Record ID" format(uuid)
// @Success 200 {object} domain.PaginatedResponse{data=[]domain.ActivityDTO}
// @Failure 400 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /activities [get]
func (h *ActivityHandler) List(w http.ResponseWriter, r *http.Request) {
	p := parseListParams(r)

	targetType := queryEnum[domain.ActivityTargetType](r, "targetType")
	if targetType != nil && !targetType.IsValid() {
		respondWithError(w, http.StatusBadRequest, "Invalid targetType")
		return
	}
	targetID, err := queryUUID(r, "targetId")
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.activityService.List(r.Context(), p.Page, p.PageSize, targetType, targetID)
	if err != nil {
		respondServiceError(w, h.logger, err, "list activities")
		return
	}
	respondJSON(w, http.StatusOK, result)
}
