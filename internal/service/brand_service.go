package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/mapper"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Brand service errors
var (
	ErrBrandNotFound   = errors.New("brand not found")
	ErrBrandTitleTaken = errors.New("brand title already exists")
)

// BrandService manages the brand catalog
type BrandService struct {
	brandRepo *repository.BrandRepository
	scopeRepo *repository.ScopeRepository
	logger    *zap.Logger
}

// NewBrandService creates a new BrandService
func NewBrandService(
	brandRepo *repository.BrandRepository,
	scopeRepo *repository.ScopeRepository,
	logger *zap.Logger,
) *BrandService {
	return &BrandService{
		brandRepo: brandRepo,
		scopeRepo: scopeRepo,
		logger:    logger,
	}
}

func (s *BrandService) Create(ctx context.Context, req *domain.CreateBrandRequest) (*domain.BrandDTO, error) {
	taken, err := s.brandRepo.ExistsByTitle(ctx, req.Title, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to check brand title: %w", err)
	}
	if taken {
		return nil, ErrBrandTitleTaken
	}

	brand := &domain.Brand{
		Title:       req.Title,
		Description: req.Description,
	}
	if err := s.brandRepo.Create(ctx, brand); err != nil {
		return nil, fmt.Errorf("failed to create brand: %w", err)
	}

	dto := mapper.ToBrandDTO(brand)
	return &dto, nil
}

func (s *BrandService) GetByID(ctx context.Context, id uuid.UUID) (*domain.BrandDTO, error) {
	brand, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToBrandDTO(brand)
	return &dto, nil
}

func (s *BrandService) get(ctx context.Context, id uuid.UUID) (*domain.Brand, error) {
	brand, err := s.brandRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBrandNotFound
		}
		return nil, fmt.Errorf("failed to get brand: %w", err)
	}
	return brand, nil
}

func (s *BrandService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateBrandRequest) (*domain.BrandDTO, error) {
	brand, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	taken, err := s.brandRepo.ExistsByTitle(ctx, req.Title, &id)
	if err != nil {
		return nil, fmt.Errorf("failed to check brand title: %w", err)
	}
	if taken {
		return nil, ErrBrandTitleTaken
	}

	brand.Title = req.Title
	brand.Description = req.Description
	if err := s.brandRepo.Update(ctx, brand); err != nil {
		return nil, fmt.Errorf("failed to update brand: %w", err)
	}

	dto := mapper.ToBrandDTO(brand)
	return &dto, nil
}

// Delete removes a brand. Scopes of the brand (and their workflow records) block the
// delete unless cascade is set, in which case they are removed in the same transaction.
func (s *BrandService) Delete(ctx context.Context, id uuid.UUID, cascade bool) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	scopeIDs, err := s.scopeRepo.IDsByBrand(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find brand scopes: %w", err)
	}

	err = deleteScopeOwner(ctx, s.scopeRepo, "brand", scopeIDs, cascade, func(tx *gorm.DB) error {
		return tx.Delete(&domain.Brand{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	s.logger.Info("brand deleted",
		zap.String("brandID", id.String()),
		zap.Int("scopes", len(scopeIDs)),
		zap.Bool("cascade", cascade))
	return nil
}

func (s *BrandService) List(ctx context.Context, page, pageSize int, search string, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	brands, total, err := s.brandRepo.List(ctx, page, pageSize, search, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}

	dtos := make([]domain.BrandDTO, len(brands))
	for i := range brands {
		dtos[i] = mapper.ToBrandDTO(&brands[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}
