package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/auth"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/mapper"
	"github.com/medcare-solutions/repair-api/internal/metrics"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Invoice service errors
var (
	ErrInvoiceNotFound       = errors.New("invoice not found")
	ErrQuotationWithoutScope = errors.New("quotation is not linked to a scope")
)

// defaultPaymentWindow is added to the invoice date when no due date is given
const defaultPaymentWindow = 30 * 24 * time.Hour

// InvoiceService bills customers for repaired scopes
type InvoiceService struct {
	invoiceRepo   *repository.InvoiceRepository
	scopeRepo     *repository.ScopeRepository
	quotationRepo *repository.QuotationRepository
	repairRepo    *repository.RepairRepository
	settings      *SettingsService
	numbers       *NumberSequenceService
	notifications *NotificationService
	activity      *ActivityService
	metrics       *metrics.Metrics
	logger        *zap.Logger
}

// NewInvoiceService creates a new InvoiceService
func NewInvoiceService(
	invoiceRepo *repository.InvoiceRepository,
	scopeRepo *repository.ScopeRepository,
	quotationRepo *repository.QuotationRepository,
	repairRepo *repository.RepairRepository,
	settings *SettingsService,
	numbers *NumberSequenceService,
	notifications *NotificationService,
	activity *ActivityService,
	m *metrics.Metrics,
	logger *zap.Logger,
) *InvoiceService {
	return &InvoiceService{
		invoiceRepo:   invoiceRepo,
		scopeRepo:     scopeRepo,
		quotationRepo: quotationRepo,
		repairRepo:    repairRepo,
		settings:      settings,
		numbers:       numbers,
		notifications: notifications,
		activity:      activity,
		metrics:       m,
		logger:        logger,
	}
}

// Create issues an invoice for a scope. Dates, terms and status fall back to
// today, today + 30 days, Net 30 and draft.
func (s *InvoiceService) Create(ctx context.Context, req *domain.CreateInvoiceRequest) (*domain.InvoiceDTO, error) {
	if _, err := s.scopeRepo.GetByID(ctx, req.ScopeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScopeNotFound
		}
		return nil, fmt.Errorf("failed to get scope: %w", err)
	}

	invoice := &domain.Invoice{
		ScopeID:      req.ScopeID,
		RepairID:     req.RepairID,
		QuotationID:  req.QuotationID,
		DueDate:      utcPtr(req.DueDate),
		UnitPrice:    req.UnitPrice,
		Quantity:     req.Quantity,
		PaymentTerms: req.PaymentTerms,
		ShowTVAInLBP: req.ShowTVAInLBP,
		Notes:        req.Notes,
	}
	if req.InvoiceDate != nil {
		invoice.InvoiceDate = req.InvoiceDate.UTC()
	}
	if req.Status != nil {
		invoice.Status = *req.Status
	}

	return s.create(ctx, invoice)
}

// CreateFromQuotation bills the net quoted price, linking the scope's latest repair when there is one
func (s *InvoiceService) CreateFromQuotation(ctx context.Context, quotationID uuid.UUID) (*domain.InvoiceDTO, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, quotationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	if quotation.ScopeID == nil {
		return nil, ErrQuotationWithoutScope
	}

	invoice := &domain.Invoice{
		ScopeID:     *quotation.ScopeID,
		QuotationID: &quotation.ID,
		UnitPrice:   quotation.NetPrice(),
		Quantity:    quotation.Quantity,
		Status:      domain.InvoiceStatusDraft,
	}

	repair, err := s.repairRepo.GetLatestForScope(ctx, *quotation.ScopeID)
	switch {
	case err == nil:
		invoice.RepairID = &repair.ID
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("failed to get latest repair: %w", err)
	}

	return s.create(ctx, invoice)
}

func (s *InvoiceService) create(ctx context.Context, invoice *domain.Invoice) (*domain.InvoiceDTO, error) {
	if invoice.InvoiceDate.IsZero() {
		invoice.InvoiceDate = time.Now().UTC()
	}
	if invoice.DueDate == nil {
		due := invoice.InvoiceDate.Add(defaultPaymentWindow)
		invoice.DueDate = &due
	}
	if invoice.Quantity <= 0 {
		invoice.Quantity = 1
	}
	if invoice.PaymentTerms == "" {
		invoice.PaymentTerms = domain.DefaultPaymentTerms
	}
	if invoice.Status == "" {
		invoice.Status = domain.InvoiceStatusDraft
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		invoice.CreatedByID = userCtx.UserIDPtr()
	}

	invoice.DollarRate = s.settings.DollarRate(ctx)
	domain.ComputeInvoiceTotals(invoice.UnitPrice, invoice.Quantity, invoice.DollarRate).Apply(invoice)

	number, err := s.numbers.Next(ctx, domain.SequenceInvoice)
	if err != nil {
		return nil, err
	}
	invoice.InvoiceNumber = number

	if err := s.invoiceRepo.Create(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to create invoice: %w", err)
	}

	s.activity.Record(ctx, domain.ActivityTargetInvoice, invoice.ID,
		"Invoice created", fmt.Sprintf("Invoice %s for $%.2f was issued", invoice.InvoiceNumber, invoice.TotalDue))

	return s.GetByID(ctx, invoice.ID)
}

func (s *InvoiceService) get(ctx context.Context, id uuid.UUID) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}
	return invoice, nil
}

func (s *InvoiceService) GetByID(ctx context.Context, id uuid.UUID) (*domain.InvoiceDTO, error) {
	invoice, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToInvoiceDTO(invoice)
	return &dto, nil
}

// Update edits an invoice and recomputes its totals at the current dollar rate
func (s *InvoiceService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateInvoiceRequest) (*domain.InvoiceDTO, error) {
	invoice, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := invoice.Status

	if req.InvoiceDate != nil {
		invoice.InvoiceDate = req.InvoiceDate.UTC()
	}
	if req.DueDate != nil {
		invoice.DueDate = utcPtr(req.DueDate)
	}
	invoice.UnitPrice = req.UnitPrice
	if req.Quantity > 0 {
		invoice.Quantity = req.Quantity
	}
	if req.PaymentTerms != "" {
		invoice.PaymentTerms = req.PaymentTerms
	}
	invoice.ShowTVAInLBP = req.ShowTVAInLBP
	invoice.Status = req.Status
	invoice.Notes = req.Notes
	invoice.Scope = nil

	invoice.DollarRate = s.settings.DollarRate(ctx)
	domain.ComputeInvoiceTotals(invoice.UnitPrice, invoice.Quantity, invoice.DollarRate).Apply(invoice)

	if err := s.invoiceRepo.Update(ctx, invoice); err != nil {
		return nil, fmt.Errorf("failed to update invoice: %w", err)
	}

	if oldStatus != invoice.Status {
		s.activity.Record(ctx, domain.ActivityTargetInvoice, invoice.ID,
			"Invoice "+string(invoice.Status), fmt.Sprintf("Invoice %s moved from %s to %s", invoice.InvoiceNumber, oldStatus, invoice.Status))
	}

	return s.GetByID(ctx, id)
}

func (s *InvoiceService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}
	if err := s.invoiceRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}
	return nil
}

func (s *InvoiceService) List(ctx context.Context, page, pageSize int, filters repository.InvoiceFilters, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	invoices, total, err := s.invoiceRepo.List(ctx, page, pageSize, filters, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	return domain.NewPaginatedResponse(mapper.ToInvoiceDTOs(invoices), total, page, pageSize), nil
}

// ListOverdue returns invoices already flagged overdue, oldest due date first
func (s *InvoiceService) ListOverdue(ctx context.Context) ([]domain.InvoiceDTO, error) {
	invoices, err := s.invoiceRepo.ListByStatus(ctx, domain.InvoiceStatusOverdue)
	if err != nil {
		return nil, fmt.Errorf("failed to list overdue invoices: %w", err)
	}
	return mapper.ToInvoiceDTOs(invoices), nil
}

// MarkOverdue flips sent invoices past their due date to overdue and notifies each creator.
// Returns how many invoices changed.
func (s *InvoiceService) MarkOverdue(ctx context.Context) (int64, error) {
	due, err := s.invoiceRepo.ListOverdue(ctx, time.Now())
	if err != nil {
		return 0, fmt.Errorf("failed to list invoices past due: %w", err)
	}
	if len(due) == 0 {
		return 0, nil
	}

	ids := make([]uuid.UUID, len(due))
	for i := range due {
		ids[i] = due[i].ID
	}
	marked, err := s.invoiceRepo.MarkOverdue(ctx, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to mark invoices overdue: %w", err)
	}
	s.metrics.InvoicesMarkedOverdue(marked)

	for i := range due {
		invoice := &due[i]
		s.activity.Record(ctx, domain.ActivityTargetInvoice, invoice.ID,
			"Invoice overdue", fmt.Sprintf("Invoice %s passed its due date", invoice.InvoiceNumber))

		if invoice.CreatedByID == nil || s.notifications == nil {
			continue
		}
		_, err := s.notifications.CreateForUser(ctx, *invoice.CreatedByID, domain.NotificationTypeWarning,
			fmt.Sprintf("Invoice %s is overdue (%.2f USD due)", invoice.InvoiceNumber, invoice.TotalDue),
			"invoices", &invoice.ID)
		if err != nil {
			s.logger.Warn("failed to notify invoice creator",
				zap.String("invoiceID", invoice.ID.String()),
				zap.Error(err))
		}
	}

	s.logger.Info("invoices marked overdue", zap.Int64("count", marked))
	return marked, nil
}
