package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"gorm.io/gorm"
)

// ActivityRepository persists the timeline entries services record when a
// scope, evaluation, quotation, repair or invoice changes.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, activity *domain.Activity) error {
	return r.db.WithContext(ctx).Create(activity).Error
}

// List pages through the timeline, optionally limited to one target kind
// and/or one target row. Uses idx_activity_target.
func (r *ActivityRepository) List(ctx context.Context, page, pageSize int, targetType *domain.ActivityTargetType, targetID *uuid.UUID) ([]domain.Activity, int64, error) {
	base := r.db.WithContext(ctx).Model(&domain.Activity{}).Scopes(func(db *gorm.DB) *gorm.DB {
		if targetType != nil {
			db = db.Where("target_type = ?", *targetType)
		}
		if targetID != nil {
			db = db.Where("target_id = ?", *targetID)
		}
		return db
	})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	activities := make([]domain.Activity, 0, pageSize)
	err := Paginate(base.Session(&gorm.Session{}), page, pageSize).
		Order("occurred_at DESC").
		Find(&activities).Error
	return activities, total, err
}
