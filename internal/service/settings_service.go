package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medcare-solutions/repair-api/internal/config"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/mapper"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// SettingsService reads and edits the global shop settings
type SettingsService struct {
	settingsRepo *repository.SettingsRepository
	company      config.CompanyConfig
	logger       *zap.Logger
}

func NewSettingsService(settingsRepo *repository.SettingsRepository, company config.CompanyConfig, logger *zap.Logger) *SettingsService {
	return &SettingsService{settingsRepo: settingsRepo, company: company, logger: logger}
}

// Load returns the stored settings, or defaults built from the company config when none were saved
func (s *SettingsService) Load(ctx context.Context) (*domain.Settings, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err == nil {
		return settings, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	return &domain.Settings{
		ID:           domain.SettingsID,
		CompanyName:  s.company.Name,
		CompanyPhone: s.company.Phone,
		CompanyEmail: s.company.Email,
		MofNumber:    s.company.MofNumber,
		DollarRate:   domain.DefaultDollarRate,
	}, nil
}

func (s *SettingsService) Get(ctx context.Context) (*domain.SettingsDTO, error) {
	settings, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToSettingsDTO(settings)
	return &dto, nil
}

func (s *SettingsService) Update(ctx context.Context, req *domain.UpdateSettingsRequest) (*domain.SettingsDTO, error) {
	settings := &domain.Settings{
		ID:           domain.SettingsID,
		CompanyName:  req.CompanyName,
		CompanyPhone: req.CompanyPhone,
		CompanyEmail: req.CompanyEmail,
		MofNumber:    req.MofNumber,
		DollarRate:   req.DollarRate,
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, fmt.Errorf("failed to save settings: %w", err)
	}

	s.logger.Info("settings updated", zap.Float64("dollarRate", settings.DollarRate))

	dto := mapper.ToSettingsDTO(settings)
	return &dto, nil
}

// DollarRate returns the LBP rate used for invoices and PDFs
func (s *SettingsService) DollarRate(ctx context.Context) float64 {
	settings, err := s.Load(ctx)
	if err != nil {
		s.logger.Warn("falling back to configured dollar rate", zap.Error(err))
		return s.company.DefaultDollarRate
	}
	return rateOrDefault(settings.DollarRate, s.company.DefaultDollarRate)
}

func rateOrDefault(rate, fallback float64) float64 {
	if rate > 0 {
		return rate
	}
	return fallback
}
