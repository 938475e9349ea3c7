package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"gorm.io/gorm"
)

// ScopeFilters narrows scope list queries
type ScopeFilters struct {
	Status         *domain.ScopeStatus
	Type           *domain.ScopeType
	BrandID        *uuid.UUID
	ManufacturerID *uuid.UUID
	Search         string
}

var scopeSortFields = map[string]string{
	"name":         "name",
	"model":        "model",
	"serialNumber": "serial_number",
	"status":       "status",
	"type":         "type",
	"company":      "company",
	"receivedDate": "received_date",
	"createdAt":    "created_at",
	"updatedAt":    "updated_at",
}

// scopeRelations are the collections that reference a scope, in delete order
var scopeRelations = []struct {
	collection string
	model      func() interface{}
}{
	{"invoices", func() interface{} { return &domain.Invoice{} }},
	{"repairs", func() interface{} { return &domain.Repair{} }},
	{"quotations", func() interface{} { return &domain.Quotation{} }},
	{"evaluations", func() interface{} { return &domain.Evaluation{} }},
}

type ScopeRepository struct {
	db *gorm.DB
}

func NewScopeRepository(db *gorm.DB) *ScopeRepository {
	return &ScopeRepository{db: db}
}

func (r *ScopeRepository) Create(ctx context.Context, scope *domain.Scope) error {
	return r.db.WithContext(ctx).Omit("Brand", "Manufacturer").Create(scope).Error
}

// GetByID retrieves a scope with its brand and manufacturer
func (r *ScopeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Scope, error) {
	var scope domain.Scope
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Manufacturer").
		First(&scope, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &scope, nil
}

// ExistsBySerialNumber reports whether a serial number is taken by another scope
func (r *ScopeRepository) ExistsBySerialNumber(ctx context.Context, serial string, excludeID *uuid.UUID) (bool, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&domain.Scope{}).Where("serial_number = ?", serial)
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	err := query.Count(&count).Error
	return count > 0, err
}

func (r *ScopeRepository) Update(ctx context.Context, scope *domain.Scope) error {
	return r.db.WithContext(ctx).Omit("Brand", "Manufacturer").Save(scope).Error
}

// UpdateStatus sets only the status column
func (r *ScopeRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.ScopeStatus) error {
	return r.db.WithContext(ctx).
		Model(&domain.Scope{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *ScopeRepository) List(ctx context.Context, page, pageSize int, filters ScopeFilters, sort SortConfig) ([]domain.Scope, int64, error) {
	var scopes []domain.Scope
	var total int64

	query := r.applyFilters(r.db.WithContext(ctx).Model(&domain.Scope{}), filters)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).
		Preload("Brand").
		Preload("Manufacturer").
		Order(BuildOrderClause(sort, scopeSortFields, "created_at")).
		Find(&scopes).Error

	return scopes, total, err
}

func (r *ScopeRepository) applyFilters(query *gorm.DB, filters ScopeFilters) *gorm.DB {
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.BrandID != nil {
		query = query.Where("brand_id = ?", *filters.BrandID)
	}
	if filters.ManufacturerID != nil {
		query = query.Where("manufacturer_id = ?", *filters.ManufacturerID)
	}
	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		query = query.Where(
			"LOWER(name) LIKE ? ESCAPE '!' OR LOWER(model) LIKE ? ESCAPE '!' OR LOWER(serial_number) LIKE ? ESCAPE '!' OR LOWER(company) LIKE ? ESCAPE '!'",
			pattern, pattern, pattern, pattern,
		)
	}
	return query
}

// ListWithApprovedQuotation returns scopes that have at least one approved quotation
func (r *ScopeRepository) ListWithApprovedQuotation(ctx context.Context, page, pageSize int, sort SortConfig) ([]domain.Scope, int64, error) {
	var scopes []domain.Scope
	var total int64

	approved := r.db.Model(&domain.Quotation{}).
		Select("scope_id").
		Where("status = ? AND scope_id IS NOT NULL", domain.QuotationStatusApproved)
	query := r.db.WithContext(ctx).Model(&domain.Scope{}).Where("id IN (?)", approved)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).
		Preload("Brand").
		Preload("Manufacturer").
		Order(BuildOrderClause(sort, scopeSortFields, "created_at")).
		Find(&scopes).Error

	return scopes, total, err
}

// statusCount is a GROUP BY row
type statusCount struct {
	GroupKey string
	Count    int64
}

// Stats aggregates scope counts by status and type, plus those created since recentSince
func (r *ScopeRepository) Stats(ctx context.Context, recentSince time.Time) (*domain.ScopeStatsDTO, error) {
	stats := &domain.ScopeStatsDTO{
		ByStatus: make(map[domain.ScopeStatus]int64, len(domain.AllScopeStatuses)),
		ByType: map[domain.ScopeType]int64{
			domain.ScopeTypeRigid:    0,
			domain.ScopeTypeFlexible: 0,
		},
	}
	for _, s := range domain.AllScopeStatuses {
		stats.ByStatus[s] = 0
	}

	db := r.db.WithContext(ctx)
	if err := db.Model(&domain.Scope{}).Count(&stats.Total).Error; err != nil {
		return nil, fmt.Errorf("failed to count scopes: %w", err)
	}
	if err := db.Model(&domain.Scope{}).Where("created_at >= ?", recentSince.UTC()).Count(&stats.Recent).Error; err != nil {
		return nil, fmt.Errorf("failed to count recent scopes: %w", err)
	}

	var byStatus []statusCount
	if err := db.Model(&domain.Scope{}).
		Select("status AS group_key, COUNT(*) AS count").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, fmt.Errorf("failed to group scopes by status: %w", err)
	}
	for _, row := range byStatus {
		stats.ByStatus[domain.ScopeStatus(row.GroupKey)] = row.Count
	}

	var byType []statusCount
	if err := db.Model(&domain.Scope{}).
		Select("type AS group_key, COUNT(*) AS count").
		Where("type IS NOT NULL AND type <> ''").
		Group("type").
		Scan(&byType).Error; err != nil {
		return nil, fmt.Errorf("failed to group scopes by type: %w", err)
	}
	for _, row := range byType {
		stats.ByType[domain.ScopeType(row.GroupKey)] = row.Count
	}

	return stats, nil
}

// IDsByBrand returns the ids of scopes that reference a brand
func (r *ScopeRepository) IDsByBrand(ctx context.Context, brandID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.Scope{}).Where("brand_id = ?", brandID).Pluck("id", &ids).Error
	return ids, err
}

// IDsByManufacturer returns the ids of scopes that reference a manufacturer
func (r *ScopeRepository) IDsByManufacturer(ctx context.Context, manufacturerID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&domain.Scope{}).Where("manufacturer_id = ?", manufacturerID).Pluck("id", &ids).Error
	return ids, err
}

// CountRelated counts records in other collections that reference any of the scopes.
// Only collections with at least one record are returned.
func (r *ScopeRepository) CountRelated(ctx context.Context, ids []uuid.UUID) ([]domain.RelatedCount, error) {
	var related []domain.RelatedCount
	if len(ids) == 0 {
		return related, nil
	}
	for _, rel := range scopeRelations {
		var count int64
		if err := r.db.WithContext(ctx).Model(rel.model()).Where("scope_id IN ?", ids).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", rel.collection, err)
		}
		if count > 0 {
			related = append(related, domain.RelatedCount{Collection: rel.collection, Count: count})
		}
	}
	return related, nil
}

// DeleteCascade removes the scopes and every record that references them in one transaction.
// extra runs inside the same transaction after the scopes are gone (used to drop a brand or manufacturer).
func (r *ScopeRepository) DeleteCascade(ctx context.Context, ids []uuid.UUID, extra func(tx *gorm.DB) error) (int64, error) {
	var affected int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(ids) > 0 {
			repairIDs := r.db.Model(&domain.Repair{}).Select("id").Where("scope_id IN ?", ids)
			if err := tx.Where("repair_id IN (?)", repairIDs).Delete(&domain.RepairPart{}).Error; err != nil {
				return fmt.Errorf("failed to delete repair parts: %w", err)
			}
			for _, rel := range scopeRelations {
				if err := tx.Where("scope_id IN ?", ids).Delete(rel.model()).Error; err != nil {
					return fmt.Errorf("failed to delete %s: %w", rel.collection, err)
				}
			}
			result := tx.Where("id IN ?", ids).Delete(&domain.Scope{})
			if result.Error != nil {
				return fmt.Errorf("failed to delete scopes: %w", result.Error)
			}
			affected = result.RowsAffected
		}
		if extra != nil {
			return extra(tx)
		}
		return nil
	})
	return affected, err
}

// BulkUpdate applies column updates to every listed scope
func (r *ScopeRepository) BulkUpdate(ctx context.Context, ids []uuid.UUID, updates map[string]interface{}) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&domain.Scope{}).
		Where("id IN ?", ids).
		Updates(updates)
	return result.RowsAffected, result.Error
}

// Count returns the number of scopes
func (r *ScopeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Scope{}).Count(&count).Error
	return count, err
}
