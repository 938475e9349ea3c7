package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/auth"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/mapper"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrNotificationNotFound is returned when a notification is not found or belongs to someone else
var ErrNotificationNotFound = errors.New("notification not found")

// notificationListLimit is how many notifications the inbox returns
const notificationListLimit = 50

// NotificationService handles business logic for notifications
type NotificationService struct {
	notificationRepo *repository.NotificationRepository
	userRepo         *repository.UserRepository
	logger           *zap.Logger
}

// NewNotificationService creates a new NotificationService instance
func NewNotificationService(
	notificationRepo *repository.NotificationRepository,
	userRepo *repository.UserRepository,
	logger *zap.Logger,
) *NotificationService {
	return &NotificationService{
		notificationRepo: notificationRepo,
		userRepo:         userRepo,
		logger:           logger,
	}
}

// Create creates a notification from an API request
func (s *NotificationService) Create(ctx context.Context, req *domain.CreateNotificationRequest) (*domain.NotificationDTO, error) {
	notificationType := req.Type
	if notificationType == "" {
		notificationType = domain.NotificationTypeInfo
	}
	return s.CreateForUser(ctx, req.UserID, notificationType, req.Message, req.RelatedCollection, req.RelatedDocument)
}

// CreateForUser creates a notification for a specific user
func (s *NotificationService) CreateForUser(
	ctx context.Context,
	userID uuid.UUID,
	notificationType domain.NotificationType,
	message string,
	relatedCollection string,
	relatedDocument *uuid.UUID,
) (*domain.NotificationDTO, error) {
	notification := &domain.Notification{
		UserID:            userID,
		Type:              notificationType,
		Message:           message,
		RelatedCollection: relatedCollection,
		RelatedDocument:   relatedDocument,
		Read:              false,
	}

	if err := s.notificationRepo.Create(ctx, notification); err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	s.logger.Info("notification created",
		zap.String("notificationID", notification.ID.String()),
		zap.String("userID", userID.String()),
		zap.String("type", string(notificationType)),
	)

	dto := mapper.ToNotificationDTO(notification)
	return &dto, nil
}

// NotifyAdmins sends the same notification to every active admin.
// Returns how many were delivered.
func (s *NotificationService) NotifyAdmins(
	ctx context.Context,
	notificationType domain.NotificationType,
	message string,
	relatedCollection string,
	relatedDocument *uuid.UUID,
) (int, error) {
	admins, err := s.userRepo.ListAdmins(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list admins: %w", err)
	}

	sent := 0
	for _, admin := range admins {
		if _, err := s.CreateForUser(ctx, admin.ID, notificationType, message, relatedCollection, relatedDocument); err != nil {
			s.logger.Warn("failed to notify admin",
				zap.String("userID", admin.ID.String()),
				zap.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

// GetForCurrentUser returns the latest notifications of the current user with the unread count
func (s *NotificationService) GetForCurrentUser(ctx context.Context) (*domain.NotificationListDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	notifications, err := s.notificationRepo.ListLatestByUser(ctx, userCtx.UserID, notificationListLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to list notifications: %w", err)
	}

	unread, err := s.notificationRepo.CountUnread(ctx, userCtx.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count unread notifications: %w", err)
	}

	docs := make([]domain.NotificationDTO, len(notifications))
	for i := range notifications {
		docs[i] = mapper.ToNotificationDTO(&notifications[i])
	}

	return &domain.NotificationListDTO{Docs: docs, UnreadCount: unread}, nil
}

// MarkAsRead marks one of the current user's notifications as read.
// Another user's notification reports ErrNotificationNotFound.
func (s *NotificationService) MarkAsRead(ctx context.Context, notificationID uuid.UUID) (*domain.NotificationDTO, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return nil, ErrUserContextRequired
	}

	notification, err := s.notificationRepo.GetForUser(ctx, notificationID, userCtx.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, fmt.Errorf("failed to get notification: %w", err)
	}

	if !notification.Read {
		if err := s.notificationRepo.MarkAsRead(ctx, notificationID); err != nil {
			return nil, fmt.Errorf("failed to mark notification as read: %w", err)
		}
		notification, err = s.notificationRepo.GetForUser(ctx, notificationID, userCtx.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to reload notification: %w", err)
		}
	}

	dto := mapper.ToNotificationDTO(notification)
	return &dto, nil
}

// MarkAllAsReadForUser marks all notifications for the current user as read
func (s *NotificationService) MarkAllAsReadForUser(ctx context.Context) (int64, error) {
	userCtx, ok := auth.FromContext(ctx)
	if !ok {
		return 0, ErrUserContextRequired
	}

	count, err := s.notificationRepo.MarkAllAsRead(ctx, userCtx.UserID)
	if err != nil {
		return 0, fmt.Errorf("failed to mark all notifications as read: %w", err)
	}

	s.logger.Info("all notifications marked as read",
		zap.String("userID", userCtx.UserID.String()),
		zap.Int64("count", count),
	)

	return count, nil
}
