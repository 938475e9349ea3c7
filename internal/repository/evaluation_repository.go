package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"gorm.io/gorm"
)

// EvaluationFilters narrows evaluation list queries
type EvaluationFilters struct {
	Status  *domain.EvaluationStatus
	Type    *domain.ScopeType
	ScopeID *uuid.UUID
	Search  string
}

var evaluationSortFields = map[string]string{
	"code":           "code",
	"status":         "status",
	"evaluationDate": "evaluation_date",
	"createdAt":      "created_at",
	"updatedAt":      "updated_at",
}

type EvaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db: db}
}

func (r *EvaluationRepository) Create(ctx context.Context, evaluation *domain.Evaluation) error {
	return r.db.WithContext(ctx).Omit("Scope").Create(evaluation).Error
}

func (r *EvaluationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Evaluation, error) {
	var evaluation domain.Evaluation
	err := r.db.WithContext(ctx).First(&evaluation, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &evaluation, nil
}

func (r *EvaluationRepository) Update(ctx context.Context, evaluation *domain.Evaluation) error {
	return r.db.WithContext(ctx).Omit("Scope").Save(evaluation).Error
}

func (r *EvaluationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Evaluation{}, "id = ?", id).Error
}

func (r *EvaluationRepository) List(ctx context.Context, page, pageSize int, filters EvaluationFilters, sort SortConfig) ([]domain.Evaluation, int64, error) {
	var evaluations []domain.Evaluation
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Evaluation{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.Type != nil {
		query = query.Where("type = ?", *filters.Type)
	}
	if filters.ScopeID != nil {
		query = query.Where("scope_id = ?", *filters.ScopeID)
	}
	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		query = query.Where("LOWER(code) LIKE ? ESCAPE '!' OR LOWER(scope_name) LIKE ? ESCAPE '!' OR LOWER(serial_number) LIKE ? ESCAPE '!'", pattern, pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).
		Order(BuildOrderClause(sort, evaluationSortFields, "created_at")).
		Find(&evaluations).Error

	return evaluations, total, err
}

// ListByScope returns every evaluation of a scope, newest first
func (r *EvaluationRepository) ListByScope(ctx context.Context, scopeID uuid.UUID) ([]domain.Evaluation, error) {
	var evaluations []domain.Evaluation
	err := r.db.WithContext(ctx).
		Where("scope_id = ?", scopeID).
		Order("created_at DESC").
		Find(&evaluations).Error
	return evaluations, err
}

// ListWithApprovedQuotation returns evaluations whose scope has at least one approved quotation
func (r *EvaluationRepository) ListWithApprovedQuotation(ctx context.Context, page, pageSize int, sort SortConfig) ([]domain.Evaluation, int64, error) {
	var evaluations []domain.Evaluation
	var total int64

	approved := r.db.Model(&domain.Quotation{}).
		Select("scope_id").
		Where("status = ? AND scope_id IS NOT NULL", domain.QuotationStatusApproved)
	query := r.db.WithContext(ctx).Model(&domain.Evaluation{}).Where("scope_id IN (?)", approved)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).
		Order(BuildOrderClause(sort, evaluationSortFields, "created_at")).
		Find(&evaluations).Error

	return evaluations, total, err
}

// CountRelated counts quotations and repairs that reference the evaluation
func (r *EvaluationRepository) CountRelated(ctx context.Context, id uuid.UUID) ([]domain.RelatedCount, error) {
	var related []domain.RelatedCount
	var quotations, repairs int64
	if err := r.db.WithContext(ctx).Model(&domain.Quotation{}).Where("evaluation_id = ?", id).Count(&quotations).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&domain.Repair{}).Where("evaluation_id = ?", id).Count(&repairs).Error; err != nil {
		return nil, err
	}
	if quotations > 0 {
		related = append(related, domain.RelatedCount{Collection: "quotations", Count: quotations})
	}
	if repairs > 0 {
		related = append(related, domain.RelatedCount{Collection: "repairs", Count: repairs})
	}
	return related, nil
}
