package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"gorm.io/gorm"
)

// NotificationRepository stores in-app notifications. Every read is
// restricted to the owning user.
type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

func ownedBy(userID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	}
}

func unread(db *gorm.DB) *gorm.DB {
	return db.Where("read = ?", false)
}

func (r *NotificationRepository) Create(ctx context.Context, notification *domain.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

// GetForUser returns gorm.ErrRecordNotFound when the notification belongs
// to someone else.
func (r *NotificationRepository) GetForUser(ctx context.Context, id, userID uuid.UUID) (*domain.Notification, error) {
	var n domain.Notification
	if err := r.db.WithContext(ctx).Scopes(ownedBy(userID)).First(&n, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *NotificationRepository) ListLatestByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.Notification, error) {
	notifications := make([]domain.Notification, 0, limit)
	err := r.db.WithContext(ctx).
		Scopes(ownedBy(userID)).
		Order("created_at DESC").
		Limit(limit).
		Find(&notifications).Error
	return notifications, err
}

func (r *NotificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Notification{}).
		Scopes(ownedBy(userID), unread).
		Count(&n).Error
	return n, err
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id uuid.UUID) error {
	_, err := markRead(r.db.WithContext(ctx).Where("id = ?", id))
	return err
}

// MarkAllAsRead flags every unread notification of the user and reports how
// many rows changed.
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return markRead(r.db.WithContext(ctx).Scopes(ownedBy(userID), unread))
}

func markRead(q *gorm.DB) (int64, error) {
	res := q.Model(&domain.Notification{}).Updates(map[string]interface{}{
		"read":    true,
		"read_at": time.Now().UTC(),
	})
	return res.RowsAffected, res.Error
}
