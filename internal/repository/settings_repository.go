package repository

import (
	"context"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SettingsRepository reads and writes the single global settings row
type SettingsRepository struct {
	db *gorm.DB
}

func NewSettingsRepository(db *gorm.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// Get returns the settings row, or gorm.ErrRecordNotFound when it was never saved
func (r *SettingsRepository) Get(ctx context.Context) (*domain.Settings, error) {
	var settings domain.Settings
	err := r.db.WithContext(ctx).First(&settings, "id = ?", domain.SettingsID).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

// Save inserts or replaces the settings row
func (r *SettingsRepository) Save(ctx context.Context, settings *domain.Settings) error {
	settings.ID = domain.SettingsID
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"company_name", "company_phone", "company_email", "mof_number", "dollar_rate", "updated_at"}),
	}).Create(settings).Error
}
