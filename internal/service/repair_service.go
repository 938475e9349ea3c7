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

// Repair service errors
var (
	ErrRepairNotFound        = errors.New("repair not found")
	ErrScopeNotApproved      = errors.New("Selected scope does not have an approved quotation")
	ErrEvaluationNotApproved = errors.New("Selected evaluation does not have an approved quotation")
)

// RepairService handles work orders and the stock they consume
type RepairService struct {
	repairRepo     *repository.RepairRepository
	scopeRepo      *repository.ScopeRepository
	evaluationRepo *repository.EvaluationRepository
	quotationRepo  *repository.QuotationRepository
	inventoryRepo  *repository.InventoryRepository
	numbers        *NumberSequenceService
	notifications  *NotificationService
	activity       *ActivityService
	logger         *zap.Logger
}

// NewRepairService creates a new RepairService
func NewRepairService(
	repairRepo *repository.RepairRepository,
	scopeRepo *repository.ScopeRepository,
	evaluationRepo *repository.EvaluationRepository,
	quotationRepo *repository.QuotationRepository,
	inventoryRepo *repository.InventoryRepository,
	numbers *NumberSequenceService,
	notifications *NotificationService,
	activity *ActivityService,
	logger *zap.Logger,
) *RepairService {
	return &RepairService{
		repairRepo:     repairRepo,
		scopeRepo:      scopeRepo,
		evaluationRepo: evaluationRepo,
		quotationRepo:  quotationRepo,
		inventoryRepo:  inventoryRepo,
		numbers:        numbers,
		notifications:  notifications,
		activity:       activity,
		logger:         logger,
	}
}

// Create opens a repair for a scope that has an approved quotation.
// Used parts are priced from inventory and deducted from stock.
func (s *RepairService) Create(ctx context.Context, req *domain.CreateRepairRequest) (*domain.RepairDTO, error) {
	if err := s.checkApproved(ctx, req.ScopeID, req.EvaluationID); err != nil {
		return nil, err
	}

	parts, err := s.priceParts(ctx, req.PartsUsed)
	if err != nil {
		return nil, err
	}

	repair := &domain.Repair{
		ScopeID:      req.ScopeID,
		EvaluationID: req.EvaluationID,
		QuotationID:  req.QuotationID,
		Status:       req.Status,
		Parts:        parts,
		TotalCost:    domain.RoundMoney(domain.RepairPartsTotal(parts)),
		Notes:        req.Notes,
		StartDate:    utcPtr(req.StartDate),
	}
	if repair.Status == "" {
		repair.Status = domain.RepairStatusPending
	}
	if repair.Status == domain.RepairStatusDone {
		now := time.Now().UTC()
		repair.CompletionDate = &now
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		repair.CreatedByID = userCtx.UserIDPtr()
	}

	number, err := s.numbers.Next(ctx, domain.SequenceRepair)
	if err != nil {
		return nil, err
	}
	repair.RepairNumber = number

	if err := s.repairRepo.Create(ctx, repair); err != nil {
		return nil, fmt.Errorf("failed to create repair: %w", err)
	}

	s.deductStock(ctx, repair)
	s.activity.Record(ctx, domain.ActivityTargetRepair, repair.ID,
		"Repair created", fmt.Sprintf("Repair %s was opened", repair.RepairNumber))
	if repair.Status == domain.RepairStatusDone {
		s.onCompleted(ctx, repair)
	}

	return s.GetByID(ctx, repair.ID)
}

// checkApproved requires an approved quotation on the scope, and on the evaluation's scope when one is given
func (s *RepairService) checkApproved(ctx context.Context, scopeID uuid.UUID, evaluationID *uuid.UUID) error {
	if _, err := s.scopeRepo.GetByID(ctx, scopeID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrScopeNotFound
		}
		return fmt.Errorf("failed to get scope: %w", err)
	}

	approved, err := s.quotationRepo.HasApprovedForScope(ctx, scopeID)
	if err != nil {
		return fmt.Errorf("failed to check quotations: %w", err)
	}
	if !approved {
		return ErrScopeNotApproved
	}

	if evaluationID == nil {
		return nil
	}
	evaluation, err := s.evaluationRepo.GetByID(ctx, *evaluationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEvaluationNotFound
		}
		return fmt.Errorf("failed to get evaluation: %w", err)
	}
	if evaluation.ScopeID == nil {
		return ErrEvaluationNotApproved
	}
	approved, err = s.quotationRepo.HasApprovedForScope(ctx, *evaluation.ScopeID)
	if err != nil {
		return fmt.Errorf("failed to check quotations: %w", err)
	}
	if !approved {
		return ErrEvaluationNotApproved
	}
	return nil
}

// priceParts builds repair lines from the request, taking unit cost from inventory (0 when missing)
func (s *RepairService) priceParts(ctx context.Context, reqs []domain.RepairPartRequest) ([]domain.RepairPart, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	ids := make([]uuid.UUID, 0, len(reqs))
	for _, p := range reqs {
		ids = append(ids, p.PartID)
	}
	items, err := s.inventoryRepo.GetByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load inventory items: %w", err)
	}

	parts := make([]domain.RepairPart, 0, len(reqs))
	for _, p := range reqs {
		// unknown items are costed at zero
		unitCost := items[p.PartID].UnitCost
		parts = append(parts, domain.RepairPart{
			InventoryItemID: p.PartID,
			QuantityUsed:    p.QuantityUsed,
			UnitCost:        unitCost,
			TotalCost:       domain.RoundMoney(unitCost * float64(p.QuantityUsed)),
		})
	}
	return parts, nil
}

// deductStock consumes the repair's parts from inventory. Failures never fail the repair.
func (s *RepairService) deductStock(ctx context.Context, repair *domain.Repair) {
	for _, part := range repair.Parts {
		item, err := s.inventoryRepo.AdjustQuantity(ctx, part.InventoryItemID, -part.QuantityUsed)
		if err != nil {
			s.logger.Warn("failed to deduct inventory for repair",
				zap.String("repairID", repair.ID.String()),
				zap.String("inventoryItemID", part.InventoryItemID.String()),
				zap.Int("quantityUsed", part.QuantityUsed),
				zap.Error(err))
			continue
		}
		s.logger.Debug("inventory deducted",
			zap.String("inventoryItemID", item.ID.String()),
			zap.Int("remaining", item.Quantity))
	}
}

// onCompleted marks the scope completed and tells the repair's creator
func (s *RepairService) onCompleted(ctx context.Context, repair *domain.Repair) {
	if err := s.scopeRepo.UpdateStatus(ctx, repair.ScopeID, domain.ScopeStatusCompleted); err != nil {
		s.logger.Warn("failed to mark scope completed",
			zap.String("repairID", repair.ID.String()),
			zap.String("scopeID", repair.ScopeID.String()),
			zap.Error(err))
	}

	s.activity.Record(ctx, domain.ActivityTargetRepair, repair.ID,
		"Repair completed", fmt.Sprintf("Repair %s was completed", repair.RepairNumber))

	if repair.CreatedByID == nil || s.notifications == nil {
		return
	}
	_, err := s.notifications.CreateForUser(ctx, *repair.CreatedByID, domain.NotificationTypeSuccess,
		fmt.Sprintf("Repair %s is done", repair.RepairNumber), "repairs", &repair.ID)
	if err != nil {
		s.logger.Warn("failed to notify repair creator",
			zap.String("repairID", repair.ID.String()),
			zap.Error(err))
	}
}

func (s *RepairService) get(ctx context.Context, id uuid.UUID) (*domain.Repair, error) {
	repair, err := s.repairRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRepairNotFound
		}
		return nil, fmt.Errorf("failed to get repair: %w", err)
	}
	return repair, nil
}

func (s *RepairService) GetByID(ctx context.Context, id uuid.UUID) (*domain.RepairDTO, error) {
	repair, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToRepairDTO(repair)
	return &dto, nil
}

// Update replaces the repair's parts and status. The scope must still have an
// approved quotation. The new part lines are deducted from stock again.
func (s *RepairService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateRepairRequest) (*domain.RepairDTO, error) {
	repair, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkApproved(ctx, repair.ScopeID, repair.EvaluationID); err != nil {
		return nil, err
	}

	parts, err := s.priceParts(ctx, req.PartsUsed)
	if err != nil {
		return nil, err
	}

	oldStatus := repair.Status

	repair.Status = req.Status
	repair.Parts = parts
	repair.TotalCost = domain.RoundMoney(domain.RepairPartsTotal(parts))
	repair.Notes = req.Notes
	repair.StartDate = utcPtr(req.StartDate)
	if req.CompletionDate != nil {
		repair.CompletionDate = utcPtr(req.CompletionDate)
	}
	completed := oldStatus != domain.RepairStatusDone && repair.Status == domain.RepairStatusDone
	if completed && repair.CompletionDate == nil {
		now := time.Now().UTC()
		repair.CompletionDate = &now
	}
	repair.Scope = nil

	if err := s.repairRepo.Update(ctx, repair); err != nil {
		return nil, fmt.Errorf("failed to update repair: %w", err)
	}

	s.deductStock(ctx, repair)
	if completed {
		s.onCompleted(ctx, repair)
	}

	return s.GetByID(ctx, id)
}

// Delete removes a repair that has not been invoiced
func (s *RepairService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	invoices, err := s.repairRepo.CountInvoices(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check related records: %w", err)
	}
	if invoices > 0 {
		return &domain.RelatedRecordsError{
			Entity:  "repair",
			Related: []domain.RelatedCount{{Collection: "invoices", Count: invoices}},
		}
	}

	if err := s.repairRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete repair: %w", err)
	}
	return nil
}

func (s *RepairService) List(ctx context.Context, page, pageSize int, filters repository.RepairFilters, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	repairs, total, err := s.repairRepo.List(ctx, page, pageSize, filters, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list repairs: %w", err)
	}
	return domain.NewPaginatedResponse(mapper.ToRepairDTOs(repairs), total, page, pageSize), nil
}
