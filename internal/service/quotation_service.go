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
	"github.com/medcare-solutions/repair-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Quotation service errors
var (
	ErrQuotationNotFound    = errors.New("quotation not found")
	ErrDiscountExceedsPrice = errors.New("discount cannot exceed the price")
)

const (
	// defaultOfferValidity is how long a quotation generated from an evaluation stays valid
	defaultOfferValidity = 30 * 24 * time.Hour
	// defaultDeliveryPeriod is the repair time frame in days
	defaultDeliveryPeriod = 7
)

// QuotationService handles priced repair offers
type QuotationService struct {
	quotationRepo  *repository.QuotationRepository
	scopeRepo      *repository.ScopeRepository
	evaluationRepo *repository.EvaluationRepository
	numbers        *NumberSequenceService
	activity       *ActivityService
	logger         *zap.Logger
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(
	quotationRepo *repository.QuotationRepository,
	scopeRepo *repository.ScopeRepository,
	evaluationRepo *repository.EvaluationRepository,
	numbers *NumberSequenceService,
	activity *ActivityService,
	logger *zap.Logger,
) *QuotationService {
	return &QuotationService{
		quotationRepo:  quotationRepo,
		scopeRepo:      scopeRepo,
		evaluationRepo: evaluationRepo,
		numbers:        numbers,
		activity:       activity,
		logger:         logger,
	}
}

// Create records a pending quotation. When only an evaluation is given, the scope is taken from it.
func (s *QuotationService) Create(ctx context.Context, req *domain.CreateQuotationRequest) (*domain.QuotationDTO, error) {
	if req.Discount > req.Price {
		return nil, ErrDiscountExceedsPrice
	}

	quotation := &domain.Quotation{
		ScopeID:        req.ScopeID,
		EvaluationID:   req.EvaluationID,
		DeliveryPeriod: req.DeliveryPeriod,
		OfferValidity:  utcPtr(req.OfferValidity),
		QuotationDate:  utcPtr(req.QuotationDate),
		Problems:       req.Problems,
		ServiceType:    req.ServiceType,
		Price:          req.Price,
		Discount:       req.Discount,
		Quantity:       req.Quantity,
		Notes:          req.Notes,
	}

	if req.EvaluationID != nil {
		evaluation, err := s.getEvaluation(ctx, *req.EvaluationID)
		if err != nil {
			return nil, err
		}
		if quotation.ScopeID == nil {
			quotation.ScopeID = evaluation.ScopeID
		}
	}
	if quotation.ScopeID != nil {
		if _, err := s.getScope(ctx, *quotation.ScopeID); err != nil {
			return nil, err
		}
	}

	return s.create(ctx, quotation)
}

// CreateFromEvaluation drafts a quotation for an evaluation's scope. Problems come from the
// evaluation; the date is today and the offer is valid for 30 days. Price fields come from req when given.
func (s *QuotationService) CreateFromEvaluation(ctx context.Context, evaluationID uuid.UUID, req *domain.CreateQuotationRequest) (*domain.QuotationDTO, error) {
	evaluation, err := s.getEvaluation(ctx, evaluationID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	validity := now.Add(defaultOfferValidity)

	quotation := &domain.Quotation{
		ScopeID:        evaluation.ScopeID,
		EvaluationID:   &evaluation.ID,
		DeliveryPeriod: defaultDeliveryPeriod,
		OfferValidity:  &validity,
		QuotationDate:  &now,
		Problems:       evaluation.ProblemsIdentified,
	}

	if req != nil {
		if req.Discount > req.Price {
			return nil, ErrDiscountExceedsPrice
		}
		quotation.Price = req.Price
		quotation.Discount = req.Discount
		quotation.Quantity = req.Quantity
		quotation.ServiceType = req.ServiceType
		quotation.Notes = req.Notes
		if req.DeliveryPeriod > 0 {
			quotation.DeliveryPeriod = req.DeliveryPeriod
		}
		if req.Problems != "" {
			quotation.Problems = req.Problems
		}
	}

	return s.create(ctx, quotation)
}

func (s *QuotationService) create(ctx context.Context, quotation *domain.Quotation) (*domain.QuotationDTO, error) {
	if quotation.ServiceType == "" {
		quotation.ServiceType = domain.DefaultServiceType
	}
	if quotation.Quantity <= 0 {
		quotation.Quantity = 1
	}
	quotation.Status = domain.QuotationStatusPending
	if userCtx, ok := auth.FromContext(ctx); ok {
		quotation.CreatedByID = userCtx.UserIDPtr()
	}

	number, err := s.numbers.Next(ctx, domain.SequenceQuotation)
	if err != nil {
		return nil, err
	}
	quotation.QuotationNumber = number

	if err := s.quotationRepo.Create(ctx, quotation); err != nil {
		return nil, fmt.Errorf("failed to create quotation: %w", err)
	}

	s.activity.Record(ctx, domain.ActivityTargetQuotation, quotation.ID,
		"Quotation created", fmt.Sprintf("Quotation %s for $%.2f was created", quotation.QuotationNumber, quotation.NetPrice()))

	return s.GetByID(ctx, quotation.ID)
}

func (s *QuotationService) getScope(ctx context.Context, id uuid.UUID) (*domain.Scope, error) {
	scope, err := s.scopeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScopeNotFound
		}
		return nil, fmt.Errorf("failed to get scope: %w", err)
	}
	return scope, nil
}

func (s *QuotationService) getEvaluation(ctx context.Context, id uuid.UUID) (*domain.Evaluation, error) {
	evaluation, err := s.evaluationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEvaluationNotFound
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	return evaluation, nil
}

func (s *QuotationService) get(ctx context.Context, id uuid.UUID) (*domain.Quotation, error) {
	quotation, err := s.quotationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuotationNotFound
		}
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}
	return quotation, nil
}

func (s *QuotationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.QuotationDTO, error) {
	quotation, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToQuotationDTO(quotation)
	return &dto, nil
}

// Update edits a quotation. A status change to approved or rejected moves the scope
// to approved or denied.
func (s *QuotationService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateQuotationRequest) (*domain.QuotationDTO, error) {
	quotation, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Discount > req.Price {
		return nil, ErrDiscountExceedsPrice
	}

	oldStatus := quotation.Status

	quotation.DeliveryPeriod = req.DeliveryPeriod
	quotation.OfferValidity = utcPtr(req.OfferValidity)
	quotation.QuotationDate = utcPtr(req.QuotationDate)
	quotation.Problems = req.Problems
	if req.ServiceType != "" {
		quotation.ServiceType = req.ServiceType
	}
	quotation.Price = req.Price
	quotation.Discount = req.Discount
	if req.Quantity > 0 {
		quotation.Quantity = req.Quantity
	}
	quotation.Status = req.Status
	quotation.Notes = req.Notes
	quotation.Scope = nil

	if err := s.quotationRepo.Update(ctx, quotation); err != nil {
		return nil, fmt.Errorf("failed to update quotation: %w", err)
	}

	if oldStatus != quotation.Status {
		s.onStatusChange(ctx, quotation)
	}

	return s.GetByID(ctx, id)
}

// SetStatus approves or rejects a quotation
func (s *QuotationService) SetStatus(ctx context.Context, id uuid.UUID, status domain.QuotationStatus) (*domain.QuotationDTO, error) {
	quotation, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if quotation.Status == status {
		dto := mapper.ToQuotationDTO(quotation)
		return &dto, nil
	}

	quotation.Status = status
	quotation.Scope = nil
	if err := s.quotationRepo.Update(ctx, quotation); err != nil {
		return nil, fmt.Errorf("failed to update quotation status: %w", err)
	}
	s.onStatusChange(ctx, quotation)

	return s.GetByID(ctx, id)
}

// onStatusChange mirrors the customer's decision onto the scope
func (s *QuotationService) onStatusChange(ctx context.Context, quotation *domain.Quotation) {
	var scopeStatus domain.ScopeStatus
	switch quotation.Status {
	case domain.QuotationStatusApproved:
		scopeStatus = domain.ScopeStatusApproved
	case domain.QuotationStatusRejected:
		scopeStatus = domain.ScopeStatusDenied
	default:
		return
	}

	s.activity.Record(ctx, domain.ActivityTargetQuotation, quotation.ID,
		"Quotation "+string(quotation.Status), fmt.Sprintf("Quotation %s was %s", quotation.QuotationNumber, quotation.Status))

	if quotation.ScopeID == nil {
		return
	}
	if err := s.scopeRepo.UpdateStatus(ctx, *quotation.ScopeID, scopeStatus); err != nil {
		s.logger.Warn("failed to update scope status from quotation",
			zap.String("quotationID", quotation.ID.String()),
			zap.String("scopeID", quotation.ScopeID.String()),
			zap.Error(err))
	}
}

// Delete removes a quotation unless invoices or repairs were created from it
func (s *QuotationService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	related, err := s.quotationRepo.CountRelated(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check related records: %w", err)
	}
	if len(related) > 0 {
		return &domain.RelatedRecordsError{Entity: "quotation", Related: related}
	}

	if err := s.quotationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete quotation: %w", err)
	}
	return nil
}

func (s *QuotationService) List(ctx context.Context, page, pageSize int, filters repository.QuotationFilters, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	quotations, total, err := s.quotationRepo.List(ctx, page, pageSize, filters, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}
	return domain.NewPaginatedResponse(mapper.ToQuotationDTOs(quotations), total, page, pageSize), nil
}
