package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"gorm.io/gorm"
)

// RepairFilters narrows repair list queries
type RepairFilters struct {
	Status  *domain.RepairStatus
	ScopeID *uuid.UUID
	Search  string
}

var repairSortFields = map[string]string{
	"repairNumber":   "repair_number",
	"status":         "status",
	"totalCost":      "total_cost",
	"startDate":      "start_date",
	"completionDate": "completion_date",
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
}

type RepairRepository struct {
	db *gorm.DB
}

func NewRepairRepository(db *gorm.DB) *RepairRepository {
	return &RepairRepository{db: db}
}

// Create inserts the repair and its part lines
func (r *RepairRepository) Create(ctx context.Context, repair *domain.Repair) error {
	return r.db.WithContext(ctx).Omit("Scope", "Parts.InventoryItem").Create(repair).Error
}

// GetByID retrieves a repair with its scope and part lines
func (r *RepairRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Repair, error) {
	var repair domain.Repair
	err := r.db.WithContext(ctx).
		Preload("Scope").
		Preload("Parts").
		Preload("Parts.InventoryItem").
		First(&repair, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &repair, nil
}

// Update saves the repair and replaces its part lines in one transaction
func (r *RepairRepository) Update(ctx context.Context, repair *domain.Repair) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("repair_id = ?", repair.ID).Delete(&domain.RepairPart{}).Error; err != nil {
			return fmt.Errorf("failed to clear repair parts: %w", err)
		}
		for i := range repair.Parts {
			repair.Parts[i].ID = uuid.Nil
			repair.Parts[i].RepairID = repair.ID
		}
		if len(repair.Parts) > 0 {
			if err := tx.Omit("InventoryItem").Create(&repair.Parts).Error; err != nil {
				return fmt.Errorf("failed to save repair parts: %w", err)
			}
		}
		return tx.Omit("Scope", "Parts").Save(repair).Error
	})
}

// Delete removes the repair and its part lines
func (r *RepairRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("repair_id = ?", id).Delete(&domain.RepairPart{}).Error; err != nil {
			return err
		}
		return tx.Delete(&domain.Repair{}, "id = ?", id).Error
	})
}

func (r *RepairRepository) List(ctx context.Context, page, pageSize int, filters RepairFilters, sort SortConfig) ([]domain.Repair, int64, error) {
	var repairs []domain.Repair
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Repair{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.ScopeID != nil {
		query = query.Where("scope_id = ?", *filters.ScopeID)
	}
	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		query = query.Where("LOWER(repair_number) LIKE ? ESCAPE '!' OR LOWER(notes) LIKE ? ESCAPE '!'", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).
		Preload("Scope").
		Preload("Parts").
		Order(BuildOrderClause(sort, repairSortFields, "created_at")).
		Find(&repairs).Error

	return repairs, total, err
}

// GetLatestForScope returns the most recently created repair of a scope
func (r *RepairRepository) GetLatestForScope(ctx context.Context, scopeID uuid.UUID) (*domain.Repair, error) {
	var repair domain.Repair
	err := r.db.WithContext(ctx).
		Where("scope_id = ?", scopeID).
		Order("created_at DESC").
		First(&repair).Error
	if err != nil {
		return nil, err
	}
	return &repair, nil
}

// CountByStatus counts repairs in a status
func (r *RepairRepository) CountByStatus(ctx context.Context, status domain.RepairStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Repair{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// CountInvoices counts invoices billed against the repair
func (r *RepairRepository) CountInvoices(ctx context.Context, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Invoice{}).Where("repair_id = ?", id).Count(&count).Error
	return count, err
}
