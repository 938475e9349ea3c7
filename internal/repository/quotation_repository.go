package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"gorm.io/gorm"
)

// QuotationFilters narrows quotation list queries
type QuotationFilters struct {
	Status       *domain.QuotationStatus
	ScopeID      *uuid.UUID
	EvaluationID *uuid.UUID
	Search       string
}

var quotationSortFields = map[string]string{
	"quotationNumber": "quotation_number",
	"status":          "status",
	"price":           "price",
	"quotationDate":   "quotation_date",
	"createdAt":       "created_at",
	"updatedAt":       "updated_at",
}

type QuotationRepository struct {
	db *gorm.DB
}

func NewQuotationRepository(db *gorm.DB) *QuotationRepository {
	return &QuotationRepository{db: db}
}

func (r *QuotationRepository) Create(ctx context.Context, quotation *domain.Quotation) error {
	return r.db.WithContext(ctx).Omit("Scope", "Evaluation").Create(quotation).Error
}

// GetByID retrieves a quotation with its scope
func (r *QuotationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	var quotation domain.Quotation
	err := r.db.WithContext(ctx).
		Preload("Scope").
		First(&quotation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

func (r *QuotationRepository) Update(ctx context.Context, quotation *domain.Quotation) error {
	return r.db.WithContext(ctx).Omit("Scope", "Evaluation").Save(quotation).Error
}

// SetPDF records the generated document location
func (r *QuotationRepository) SetPDF(ctx context.Context, id uuid.UUID, url string, generatedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"pdf_url":          url,
			"pdf_generated_at": generatedAt,
		}).Error
}

func (r *QuotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Quotation{}, "id = ?", id).Error
}

func (r *QuotationRepository) List(ctx context.Context, page, pageSize int, filters QuotationFilters, sort SortConfig) ([]domain.Quotation, int64, error) {
	var quotations []domain.Quotation
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Quotation{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.ScopeID != nil {
		query = query.Where("scope_id = ?", *filters.ScopeID)
	}
	if filters.EvaluationID != nil {
		query = query.Where("evaluation_id = ?", *filters.EvaluationID)
	}
	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		query = query.Where("LOWER(quotation_number) LIKE ? ESCAPE '!' OR LOWER(problems) LIKE ? ESCAPE '!'", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).
		Preload("Scope").
		Order(BuildOrderClause(sort, quotationSortFields, "created_at")).
		Find(&quotations).Error

	return quotations, total, err
}

// HasApprovedForScope reports whether a scope has at least one approved quotation
func (r *QuotationRepository) HasApprovedForScope(ctx context.Context, scopeID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Quotation{}).
		Where("scope_id = ? AND status = ?", scopeID, domain.QuotationStatusApproved).
		Count(&count).Error
	return count > 0, err
}

// CountByStatus counts quotations in a status
func (r *QuotationRepository) CountByStatus(ctx context.Context, status domain.QuotationStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Quotation{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// CountRelated counts invoices and repairs created from the quotation
func (r *QuotationRepository) CountRelated(ctx context.Context, id uuid.UUID) ([]domain.RelatedCount, error) {
	var related []domain.RelatedCount
	var invoices, repairs int64
	if err := r.db.WithContext(ctx).Model(&domain.Invoice{}).Where("quotation_id = ?", id).Count(&invoices).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&domain.Repair{}).Where("quotation_id = ?", id).Count(&repairs).Error; err != nil {
		return nil, err
	}
	if invoices > 0 {
		related = append(related, domain.RelatedCount{Collection: "invoices", Count: invoices})
	}
	if repairs > 0 {
		related = append(related, domain.RelatedCount{Collection: "repairs", Count: repairs})
	}
	return related, nil
}
