package handler

import (
	"net/http"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

type SettingsHandler struct {
	settingsService *service.SettingsService
	logger          *zap.Logger
}

func NewSettingsHandler(settingsService *service.SettingsService, logger *zap.Logger) *SettingsHandler {
	return &SettingsHandler{settingsService: settingsService, logger: logger}
}

// Get godoc
// @Summary Get shop settings
// @Tags Settings
// @Produce json
// @Success 200 {object} domain.SettingsDTO
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /settings [get]
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsService.Get(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "get settings")
		return
	}
	respondJSON(w, http.StatusOK, settings)
}

// Update godoc
// @Summary Update shop settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param request body domain.UpdateSettingsRequest true "Settings"
// @Success 200 {object} domain.SettingsDTO
// @Failure 400 {object} domain.APIError
// @Failure 403 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /settings [put]
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req domain.UpdateSettingsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	settings, err := h.settingsService.Update(r.Context(), &req)
	if err != nil {
		respondServiceError(w, h.logger, err, "update settings")
		return
	}
	respondJSON(w, http.StatusOK, settings)
}
