package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"gorm.io/gorm"
)

var manufacturerSortFields = map[string]string{
	"companyName": "company_name",
	"country":     "country",
	"createdAt":   "created_at",
	"updatedAt":   "updated_at",
}

type ManufacturerRepository struct {
	db *gorm.DB
}

func NewManufacturerRepository(db *gorm.DB) *ManufacturerRepository {
	return &ManufacturerRepository{db: db}
}

func (r *ManufacturerRepository) Create(ctx context.Context, m *domain.Manufacturer) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *ManufacturerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Manufacturer, error) {
	var m domain.Manufacturer
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *ManufacturerRepository) Update(ctx context.Context, m *domain.Manufacturer) error {
	return r.db.WithContext(ctx).Save(m).Error
}

func (r *ManufacturerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Manufacturer{}, "id = ?", id).Error
}

// List returns manufacturers filtered by search (name or email) and optional country
func (r *ManufacturerRepository) List(ctx context.Context, page, pageSize int, search, country string, sort SortConfig) ([]domain.Manufacturer, int64, error) {
	var manufacturers []domain.Manufacturer
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Manufacturer{})
	if search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(company_name) LIKE ? ESCAPE '!' OR LOWER(company_email) LIKE ? ESCAPE '!'", pattern, pattern)
	}
	if country != "" {
		query = query.Where("country = ?", country)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).
		Order(BuildOrderClause(sort, manufacturerSortFields, "created_at")).
		Find(&manufacturers).Error

	return manufacturers, total, err
}
