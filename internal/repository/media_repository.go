package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"gorm.io/gorm"
)

type MediaRepository struct {
	db *gorm.DB
}

func NewMediaRepository(db *gorm.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

func (r *MediaRepository) Create(ctx context.Context, media *domain.Media) error {
	return r.db.WithContext(ctx).Create(media).Error
}

func (r *MediaRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Media, error) {
	var media domain.Media
	err := r.db.WithContext(ctx).First(&media, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &media, nil
}

func (r *MediaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Media{}, "id = ?", id).Error
}

func (r *MediaRepository) List(ctx context.Context, page, pageSize int, search string) ([]domain.Media, int64, error) {
	var media []domain.Media
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Media{})
	if search != "" {
		pattern := likePattern(search)
		query = query.Where("LOWER(alt) LIKE ? ESCAPE '!' OR LOWER(filename) LIKE ? ESCAPE '!'", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).Order("created_at DESC").Find(&media).Error
	return media, total, err
}
