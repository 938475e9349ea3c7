package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"gorm.io/gorm"
)

var brandSortFields = map[string]string{
	"title":     "title",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}

type BrandRepository struct {
	db *gorm.DB
}

func NewBrandRepository(db *gorm.DB) *BrandRepository {
	return &BrandRepository{db: db}
}

func (r *BrandRepository) Create(ctx context.Context, brand *domain.Brand) error {
	return r.db.WithContext(ctx).Create(brand).Error
}

func (r *BrandRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	var brand domain.Brand
	err := r.db.WithContext(ctx).First(&brand, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &brand, nil
}

// ExistsByTitle reports whether another brand already uses the title (case-insensitive)
func (r *BrandRepository) ExistsByTitle(ctx context.Context, title string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Brand{}).Where("LOWER(title) = LOWER(?)", title)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *BrandRepository) Update(ctx context.Context, brand *domain.Brand) error {
	return r.db.WithContext(ctx).Save(brand).Error
}

func (r *BrandRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Brand{}, "id = ?", id).Error
}

func (r *BrandRepository) List(ctx context.Context, page, pageSize int, search string, sort SortConfig) ([]domain.Brand, int64, error) {
	var brands []domain.Brand
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Brand{})
	if search != "" {
		query = query.Where("LOWER(title) LIKE ? ESCAPE '!'", likePattern(search))
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).
		Order(BuildOrderClause(sort, brandSortFields, "created_at")).
		Find(&brands).Error

	return brands, total, err
}
