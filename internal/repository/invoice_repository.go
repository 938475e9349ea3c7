package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"gorm.io/gorm"
)

// InvoiceFilters narrows invoice list queries
type InvoiceFilters struct {
	Status  *domain.InvoiceStatus
	ScopeID *uuid.UUID
	Search  string
}

var invoiceSortFields = map[string]string{
	"invoiceNumber": "invoice_number",
	"status":        "status",
	"invoiceDate":   "invoice_date",
	"dueDate":       "due_date",
	"totalDue":      "total_due",
	"createdAt":     "created_at",
	"updatedAt":     "updated_at",
}

// UnpaidStatuses are invoice states that still expect payment
var UnpaidStatuses = []domain.InvoiceStatus{
	domain.InvoiceStatusDraft,
	domain.InvoiceStatusSent,
	domain.InvoiceStatusOverdue,
}

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Omit("Scope").Create(invoice).Error
}

// GetByID retrieves an invoice with its scope
func (r *InvoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := r.db.WithContext(ctx).
		Preload("Scope").
		First(&invoice, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

func (r *InvoiceRepository) Update(ctx context.Context, invoice *domain.Invoice) error {
	return r.db.WithContext(ctx).Omit("Scope").Save(invoice).Error
}

// SetPDF records the generated document location
func (r *InvoiceRepository) SetPDF(ctx context.Context, id uuid.UUID, url string, generatedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"pdf_url":          url,
			"pdf_generated_at": generatedAt,
		}).Error
}

func (r *InvoiceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&domain.Invoice{}, "id = ?", id).Error
}

func (r *InvoiceRepository) List(ctx context.Context, page, pageSize int, filters InvoiceFilters, sort SortConfig) ([]domain.Invoice, int64, error) {
	var invoices []domain.Invoice
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Invoice{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.ScopeID != nil {
		query = query.Where("scope_id = ?", *filters.ScopeID)
	}
	if filters.Search != "" {
		pattern := likePattern(filters.Search)
		query = query.Where("LOWER(invoice_number) LIKE ? ESCAPE '!' OR LOWER(notes) LIKE ? ESCAPE '!'", pattern, pattern)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := Paginate(query, page, pageSize).
		Preload("Scope").
		Order(BuildOrderClause(sort, invoiceSortFields, "created_at")).
		Find(&invoices).Error

	return invoices, total, err
}

// ListOverdue returns sent invoices whose due date is before now
func (r *InvoiceRepository) ListOverdue(ctx context.Context, now time.Time) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.WithContext(ctx).
		Where("status = ? AND due_date IS NOT NULL AND due_date < ?", domain.InvoiceStatusSent, now.UTC()).
		Order("due_date ASC").
		Find(&invoices).Error
	return invoices, err
}

// ListByStatus returns every invoice in a status, oldest due date first
func (r *InvoiceRepository) ListByStatus(ctx context.Context, status domain.InvoiceStatus) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := r.db.WithContext(ctx).
		Preload("Scope").
		Where("status = ?", status).
		Order("due_date ASC").
		Find(&invoices).Error
	return invoices, err
}

// MarkOverdue flips the listed sent invoices to overdue
func (r *InvoiceRepository) MarkOverdue(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Where("id IN ? AND status = ?", ids, domain.InvoiceStatusSent).
		Update("status", domain.InvoiceStatusOverdue)
	return result.RowsAffected, result.Error
}

// UnpaidSummary returns the count and summed total due of unpaid invoices
func (r *InvoiceRepository) UnpaidSummary(ctx context.Context) (int64, float64, error) {
	var row struct {
		Count int64
		Total float64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Invoice{}).
		Select("COUNT(*) AS count, COALESCE(SUM(total_due), 0) AS total").
		Where("status IN ?", UnpaidStatuses).
		Scan(&row).Error
	return row.Count, row.Total, err
}
