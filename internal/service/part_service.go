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

// ErrPartNotFound is returned when a catalog part does not exist
var ErrPartNotFound = errors.New("part not found")

// PartService manages the spare part catalog
type PartService struct {
	partRepo *repository.PartRepository
	logger   *zap.Logger
}

func NewPartService(partRepo *repository.PartRepository, logger *zap.Logger) *PartService {
	return &PartService{partRepo: partRepo, logger: logger}
}

func applyPartRequest(p *domain.Part, req *domain.CreatePartRequest) {
	p.PartName = req.PartName
	p.PartNumber = req.PartNumber
	p.Length = req.Length
	p.Diameter = req.Diameter
	p.Cost = req.Cost
	p.Price = req.Price
	p.Manufacturer = req.Manufacturer
	p.Country = req.Country
}

func (s *PartService) Create(ctx context.Context, req *domain.CreatePartRequest) (*domain.PartDTO, error) {
	part := &domain.Part{}
	applyPartRequest(part, req)

	if err := s.partRepo.Create(ctx, part); err != nil {
		return nil, fmt.Errorf("failed to create part: %w", err)
	}

	dto := mapper.ToPartDTO(part)
	return &dto, nil
}

func (s *PartService) GetByID(ctx context.Context, id uuid.UUID) (*domain.PartDTO, error) {
	part, err := s.partRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartNotFound
		}
		return nil, fmt.Errorf("failed to get part: %w", err)
	}
	dto := mapper.ToPartDTO(part)
	return &dto, nil
}

func (s *PartService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdatePartRequest) (*domain.PartDTO, error) {
	part, err := s.partRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartNotFound
		}
		return nil, fmt.Errorf("failed to get part: %w", err)
	}

	applyPartRequest(part, req)
	if err := s.partRepo.Update(ctx, part); err != nil {
		return nil, fmt.Errorf("failed to update part: %w", err)
	}

	dto := mapper.ToPartDTO(part)
	return &dto, nil
}

func (s *PartService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.partRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete part: %w", err)
	}
	return nil
}

func (s *PartService) List(ctx context.Context, page, pageSize int, search string, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	parts, total, err := s.partRepo.List(ctx, page, pageSize, search, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list parts: %w", err)
	}

	dtos := make([]domain.PartDTO, len(parts))
	for i := range parts {
		dtos[i] = mapper.ToPartDTO(&parts[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}
