package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/mapper"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Manufacturer service errors
var (
	ErrManufacturerNotFound = errors.New("manufacturer not found")
	ErrInvalidCountry       = errors.New("country is not a supported manufacturer country")
)

// ManufacturerService manages the manufacturer catalog
type ManufacturerService struct {
	manufacturerRepo *repository.ManufacturerRepository
	scopeRepo        *repository.ScopeRepository
	logger           *zap.Logger
}

// NewManufacturerService creates a new ManufacturerService
func NewManufacturerService(
	manufacturerRepo *repository.ManufacturerRepository,
	scopeRepo *repository.ScopeRepository,
	logger *zap.Logger,
) *ManufacturerService {
	return &ManufacturerService{
		manufacturerRepo: manufacturerRepo,
		scopeRepo:        scopeRepo,
		logger:           logger,
	}
}

func (s *ManufacturerService) Create(ctx context.Context, req *domain.CreateManufacturerRequest) (*domain.ManufacturerDTO, error) {
	country := strings.ToUpper(req.Country)
	if !domain.IsValidCountry(country) {
		return nil, ErrInvalidCountry
	}

	m := &domain.Manufacturer{
		CompanyName:    req.CompanyName,
		CompanyEmail:   req.CompanyEmail,
		CompanyPhone:   req.CompanyPhone,
		Country:        country,
		CompanyWebsite: req.CompanyWebsite,
	}
	if err := s.manufacturerRepo.Create(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to create manufacturer: %w", err)
	}

	dto := mapper.ToManufacturerDTO(m)
	return &dto, nil
}

func (s *ManufacturerService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ManufacturerDTO, error) {
	m, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToManufacturerDTO(m)
	return &dto, nil
}

func (s *ManufacturerService) get(ctx context.Context, id uuid.UUID) (*domain.Manufacturer, error) {
	m, err := s.manufacturerRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrManufacturerNotFound
		}
		return nil, fmt.Errorf("failed to get manufacturer: %w", err)
	}
	return m, nil
}

func (s *ManufacturerService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateManufacturerRequest) (*domain.ManufacturerDTO, error) {
	m, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	country := strings.ToUpper(req.Country)
	if !domain.IsValidCountry(country) {
		return nil, ErrInvalidCountry
	}

	m.CompanyName = req.CompanyName
	m.CompanyEmail = req.CompanyEmail
	m.CompanyPhone = req.CompanyPhone
	m.Country = country
	m.CompanyWebsite = req.CompanyWebsite

	if err := s.manufacturerRepo.Update(ctx, m); err != nil {
		return nil, fmt.Errorf("failed to update manufacturer: %w", err)
	}

	dto := mapper.ToManufacturerDTO(m)
	return &dto, nil
}

// Delete removes a manufacturer, cascading to its scopes when asked
func (s *ManufacturerService) Delete(ctx context.Context, id uuid.UUID, cascade bool) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	scopeIDs, err := s.scopeRepo.IDsByManufacturer(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to find manufacturer scopes: %w", err)
	}

	err = deleteScopeOwner(ctx, s.scopeRepo, "manufacturer", scopeIDs, cascade, func(tx *gorm.DB) error {
		return tx.Delete(&domain.Manufacturer{}, "id = ?", id).Error
	})
	if err != nil {
		return err
	}

	s.logger.Info("manufacturer deleted",
		zap.String("manufacturerID", id.String()),
		zap.Int("scopes", len(scopeIDs)),
		zap.Bool("cascade", cascade))
	return nil
}

func (s *ManufacturerService) List(ctx context.Context, page, pageSize int, search, country string, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	items, total, err := s.manufacturerRepo.List(ctx, page, pageSize, search, strings.ToUpper(country), sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list manufacturers: %w", err)
	}

	dtos := make([]domain.ManufacturerDTO, len(items))
	for i := range items {
		dtos[i] = mapper.ToManufacturerDTO(&items[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}

// Countries lists the supported manufacturer countries
func (s *ManufacturerService) Countries() []domain.CountryDTO {
	return domain.Countries()
}
