package handler

import (
	"net/http"

	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// List godoc
// @Summary My notifications
// @Description The latest notifications of the current user with the unread count
// @Tags Notifications
// @Produce json
// @Success 200 {object} domain.NotificationListDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /notifications [get]
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.notificationService.GetForCurrentUser(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list notifications")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// MarkAsRead godoc
// @Summary Mark notification as read
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification ID" format(uuid)
// @Success 200 {object} domain.NotificationDTO
// @Failure 404 {object} domain.APIError
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /notifications/{id} [patch]
func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, ok := parseIDParam(w, r, "id", "notification")
	if !ok {
		return
	}
	notification, err := h.notificationService.MarkAsRead(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "mark notification as read")
		return
	}
	respondJSON(w, http.StatusOK, notification)
}

// MarkAllAsRead godoc
// @Summary Mark all my notifications as read
// @Tags Notifications
// @Produce json
// @Success 200 {object} map[string]int64
// @Security BearerAuth
// @Security ApiKeyAuth
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllAsRead(w http.ResponseWriter, r *http.Request) {
	count, err := h.notificationService.MarkAllAsReadForUser(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "mark notifications as read")
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"updated": count})
}
