package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"gorm.io/gorm"
)

var partSortFields = map[string]string{
	"partName":   "part_name",
	"partNumber": "part_number",
	"cost":       "cost",
	"price":      "price",
	"createdAt":  "created_at",
	"updatedAt":  "updated_at",
}

type PartRepository struct {
	db *gorm.DB
}

func NewPartRepository(db *gorm.DB) *PartRepository {
	return &PartRepository{db: db}
}

func (r *PartRepository) Create(ctx context.Context, part *domain.Part) error {
	return r.db.WithContext(ctx).Create(part).Error
}

func (r *PartRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Part, error) {
	var part domain.Part
	err := r.db.WithContext(ctx).First(&part, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *PartRepository) Update(ctx context.Context, part *domain.Part) error {
	return r.db.WithContext(ctx).Save(part).Error
}

func (r *PartRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Part{}, "id = ?", id).Error
}

func (r *PartRepository) List(ctx context.Context, page, pageSize int, search string, sort SortConfig) ([]domain.Part, int64, error) {
	var parts []domain.Part
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Part{})
	if search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(part_name) LIKE ? ESCAPE '!' OR LOWER(part_number) LIKE ? ESCAPE '!' OR LOWER(manufacturer) LIKE ? ESCAPE '!'", pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).
		Order(BuildOrderClause(sort, partSortFields, "created_at")).
		Find(&parts).Error

	return parts, total, err
}
