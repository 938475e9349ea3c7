package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"gorm.io/gorm"
)

// AuditLogFilter narrows an audit trail listing. Zero values are ignored.
type AuditLogFilter struct {
	UserID     string
	Action     *domain.AuditAction
	EntityType string
	EntityID   *uuid.UUID
	StartTime  *time.Time
	EndTime    *time.Time
}

// scope turns the filter into a reusable gorm scope.
func (f *AuditLogFilter) scope(db *gorm.DB) *gorm.DB {
	if f == nil {
		return db
	}
	if f.UserID != "" {
		db = db.Where("user_id = ?", f.UserID)
	}
	if f.Action != nil {
		db = db.Where("action = ?", *f.Action)
	}
	if f.EntityType != "" {
		db = db.Where("entity_type = ?", f.EntityType)
	}
	if f.EntityID != nil {
		db = db.Where("entity_id = ?", *f.EntityID)
	}
	return db.Scopes(createdBetween(f.StartTime, f.EndTime))
}

func createdBetween(start, end *time.Time) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if start != nil {
			db = db.Where("created_at >= ?", *start)
		}
		if end != nil {
			db = db.Where("created_at <= ?", *end)
		}
		return db
	}
}

// AuditLogRepository stores the append-only audit trail written by the
// audit middleware. Rows are never updated.
type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, entry *domain.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *AuditLogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.AuditLog, error) {
	var entry domain.AuditLog
	if err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// List returns one page of entries, newest first.
func (r *AuditLogRepository) List(ctx context.Context, filter *AuditLogFilter, page, pageSize int) ([]domain.AuditLog, int64, error) {
	base := r.db.WithContext(ctx).Model(&domain.AuditLog{}).Scopes(filter.scope)

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	entries := make([]domain.AuditLog, 0, pageSize)
	err := Paginate(base.Session(&gorm.Session{}), page, pageSize).
		Order("created_at DESC").
		Find(&entries).Error
	return entries, total, err
}

// CountByAction tallies entries per action inside [start, end].
func (r *AuditLogRepository) CountByAction(ctx context.Context, start, end time.Time) (map[domain.AuditAction]int64, error) {
	var rows []struct {
		Action domain.AuditAction
		Total  int64
	}
	err := r.db.WithContext(ctx).Model(&domain.AuditLog{}).
		Scopes(createdBetween(&start, &end)).
		Select("action, COUNT(*) AS total").
		Group("action").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[domain.AuditAction]int64, len(rows))
	for _, row := range rows {
		counts[row.Action] = row.Total
	}
	return counts, nil
}
