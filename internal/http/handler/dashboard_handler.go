package handler

import (
	"net/http"

	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
	logger           *zap.Logger
}

func NewDashboardHandler(dashboardService *service.DashboardService, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService, logger: logger}
}

// GetMetrics godoc
// @Summary Dashboard metrics
// @Description Scope counts, open repairs, pending quotations, unpaid invoices and low stock
// @Tags Dashboard
// @Produce json
// @Success 200 {object} domain.DashboardDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /dashboard [get]
func (h *DashboardHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := h.dashboardService.GetMetrics(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "get dashboard metrics")
		return
	}
	respondJSON(w, http.StatusOK, metrics)
}
