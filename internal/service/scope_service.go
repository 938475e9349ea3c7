package service

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/auth"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/mapper"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Scope service errors
var (
	ErrScopeNotFound         = errors.New("scope not found")
	ErrDuplicateSerialNumber = errors.New("a scope with this serial number already exists")
	ErrInvalidBrand          = errors.New("brand does not exist")
	ErrInvalidManufacturer   = errors.New("manufacturer does not exist")
	ErrBulkNoIDs             = errors.New("ids must not be empty")
	ErrBulkUnknownAction     = errors.New("unknown bulk action")
	ErrBulkStatusRequired    = errors.New("data.status is required for updateStatus")
	ErrBulkNoFields          = errors.New("data must contain at least one field to update")
	ErrInvalidScopeStatus    = errors.New("invalid scope status")
	ErrInvalidScopeType      = errors.New("invalid scope type")
)

// recentScopeWindow is how far back "recent" reaches in scope stats
const recentScopeWindow = 7 * 24 * time.Hour

// ScopeService handles the equipment intake workflow
type ScopeService struct {
	scopeRepo        *repository.ScopeRepository
	brandRepo        *repository.BrandRepository
	manufacturerRepo *repository.ManufacturerRepository
	activity         *ActivityService
	logger           *zap.Logger
}

// NewScopeService creates a new ScopeService
func NewScopeService(
	scopeRepo *repository.ScopeRepository,
	brandRepo *repository.BrandRepository,
	manufacturerRepo *repository.ManufacturerRepository,
	activity *ActivityService,
	logger *zap.Logger,
) *ScopeService {
	return &ScopeService{
		scopeRepo:        scopeRepo,
		brandRepo:        brandRepo,
		manufacturerRepo: manufacturerRepo,
		activity:         activity,
		logger:           logger,
	}
}

// Create registers a received scope
func (s *ScopeService) Create(ctx context.Context, req *domain.CreateScopeRequest) (*domain.ScopeDTO, error) {
	if err := s.checkReferences(ctx, req.SerialNumber, nil, req.BrandID, req.ManufacturerID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = domain.ScopeStatusPending
	}

	scope := &domain.Scope{
		Name:           req.Name,
		Type:           req.Type,
		Model:          req.Model,
		ModelNumber:    req.ModelNumber,
		SerialNumber:   strings.TrimSpace(req.SerialNumber),
		BrandID:        req.BrandID,
		ManufacturerID: req.ManufacturerID,
		Company:        req.Company,
		Status:         status,
		Description:    req.Description,
		ReceivedDate:   utcPtr(req.ReceivedDate),
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		scope.CreatedByID = userCtx.UserIDPtr()
	}

	if err := s.scopeRepo.Create(ctx, scope); err != nil {
		return nil, fmt.Errorf("failed to create scope: %w", err)
	}

	s.activity.Record(ctx, domain.ActivityTargetScope, scope.ID,
		"Scope received", fmt.Sprintf("Scope %s (S/N %s) was registered", scope.Model, scope.SerialNumber))

	return s.GetByID(ctx, scope.ID)
}

// checkReferences validates serial uniqueness and that brand and manufacturer exist
func (s *ScopeService) checkReferences(ctx context.Context, serial string, excludeID *uuid.UUID, brandID, manufacturerID uuid.UUID) error {
	taken, err := s.scopeRepo.ExistsBySerialNumber(ctx, strings.TrimSpace(serial), excludeID)
	if err != nil {
		return fmt.Errorf("failed to check serial number: %w", err)
	}
	if taken {
		return ErrDuplicateSerialNumber
	}

	if _, err := s.brandRepo.GetByID(ctx, brandID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidBrand
		}
		return fmt.Errorf("failed to get brand: %w", err)
	}
	if _, err := s.manufacturerRepo.GetByID(ctx, manufacturerID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrInvalidManufacturer
		}
		return fmt.Errorf("failed to get manufacturer: %w", err)
	}
	return nil
}

func (s *ScopeService) GetByID(ctx context.Context, id uuid.UUID) (*domain.ScopeDTO, error) {
	scope, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToScopeDTO(scope)
	return &dto, nil
}

func (s *ScopeService) get(ctx context.Context, id uuid.UUID) (*domain.Scope, error) {
	scope, err := s.scopeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScopeNotFound
		}
		return nil, fmt.Errorf("failed to get scope: %w", err)
	}
	return scope, nil
}

// Update replaces the editable fields. CreatedBy is never changed.
func (s *ScopeService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateScopeRequest) (*domain.ScopeDTO, error) {
	scope, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkReferences(ctx, req.SerialNumber, &id, req.BrandID, req.ManufacturerID); err != nil {
		return nil, err
	}

	oldStatus := scope.Status

	scope.Name = req.Name
	scope.Type = req.Type
	scope.Model = req.Model
	scope.ModelNumber = req.ModelNumber
	scope.SerialNumber = strings.TrimSpace(req.SerialNumber)
	scope.BrandID = req.BrandID
	scope.ManufacturerID = req.ManufacturerID
	scope.Company = req.Company
	scope.Status = req.Status
	scope.Description = req.Description
	scope.ReceivedDate = utcPtr(req.ReceivedDate)
	scope.Brand = nil
	scope.Manufacturer = nil

	if err := s.scopeRepo.Update(ctx, scope); err != nil {
		return nil, fmt.Errorf("failed to update scope: %w", err)
	}

	if oldStatus != scope.Status {
		s.activity.Record(ctx, domain.ActivityTargetScope, scope.ID,
			"Scope status changed", fmt.Sprintf("Status changed from %s to %s", oldStatus, scope.Status))
	}

	return s.GetByID(ctx, id)
}

// Delete removes a scope. Related workflow records block the delete unless cascade is set.
func (s *ScopeService) Delete(ctx context.Context, id uuid.UUID, cascade bool) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	ids := []uuid.UUID{id}
	if !cascade {
		related, err := s.scopeRepo.CountRelated(ctx, ids)
		if err != nil {
			return fmt.Errorf("failed to check related records: %w", err)
		}
		if len(related) > 0 {
			return &domain.RelatedRecordsError{Entity: "scope", Related: related}
		}
	}

	if _, err := s.scopeRepo.DeleteCascade(ctx, ids, nil); err != nil {
		return fmt.Errorf("failed to delete scope: %w", err)
	}

	s.logger.Info("scope deleted", zap.String("scopeID", id.String()), zap.Bool("cascade", cascade))
	return nil
}

// List returns a filtered, sorted page of scopes
func (s *ScopeService) List(ctx context.Context, page, pageSize int, filters repository.ScopeFilters, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	scopes, total, err := s.scopeRepo.List(ctx, page, pageSize, filters, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list scopes: %w", err)
	}
	return domain.NewPaginatedResponse(mapper.ToScopeDTOs(scopes), total, page, pageSize), nil
}

// ListWithApprovedQuotation returns scopes that have at least one approved quotation
func (s *ScopeService) ListWithApprovedQuotation(ctx context.Context, page, pageSize int, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	scopes, total, err := s.scopeRepo.ListWithApprovedQuotation(ctx, page, pageSize, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list scopes with approved quotations: %w", err)
	}
	return domain.NewPaginatedResponse(mapper.ToScopeDTOs(scopes), total, page, pageSize), nil
}

// Stats summarizes scopes by status and type
func (s *ScopeService) Stats(ctx context.Context) (*domain.ScopeStatsDTO, error) {
	stats, err := s.scopeRepo.Stats(ctx, time.Now().UTC().Add(-recentScopeWindow))
	if err != nil {
		return nil, fmt.Errorf("failed to compute scope stats: %w", err)
	}
	return stats, nil
}

// Bulk applies one action to many scopes
func (s *ScopeService) Bulk(ctx context.Context, req *domain.BulkScopeRequest) (*domain.BulkResultDTO, error) {
	if len(req.IDs) == 0 {
		return nil, ErrBulkNoIDs
	}

	var (
		affected int64
		err      error
	)

	switch req.Action {
	case domain.BulkActionDelete:
		affected, err = s.scopeRepo.DeleteCascade(ctx, req.IDs, nil)
	case domain.BulkActionUpdate:
		updates, verr := bulkUpdates(req.Data)
		if verr != nil {
			return nil, verr
		}
		affected, err = s.scopeRepo.BulkUpdate(ctx, req.IDs, updates)
	case domain.BulkActionUpdateStatus:
		if req.Data == nil || req.Data.Status == nil {
			return nil, ErrBulkStatusRequired
		}
		if !slices.Contains(domain.AllScopeStatuses, *req.Data.Status) {
			return nil, ErrInvalidScopeStatus
		}
		affected, err = s.scopeRepo.BulkUpdate(ctx, req.IDs, map[string]interface{}{"status": *req.Data.Status})
	default:
		return nil, fmt.Errorf("%w: %q", ErrBulkUnknownAction, req.Action)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s scopes: %w", req.Action, err)
	}

	s.logger.Info("bulk scope operation",
		zap.String("action", req.Action),
		zap.Int("requested", len(req.IDs)),
		zap.Int64("affected", affected))

	return &domain.BulkResultDTO{Action: req.Action, Affected: affected}, nil
}

// bulkUpdates turns the allowed bulk fields into a column map
func bulkUpdates(data *domain.BulkScopeData) (map[string]interface{}, error) {
	if data == nil {
		return nil, ErrBulkNoFields
	}
	updates := make(map[string]interface{})
	if data.Status != nil {
		if !slices.Contains(domain.AllScopeStatuses, *data.Status) {
			return nil, ErrInvalidScopeStatus
		}
		updates["status"] = *data.Status
	}
	if data.Type != nil {
		if *data.Type != domain.ScopeTypeRigid && *data.Type != domain.ScopeTypeFlexible {
			return nil, ErrInvalidScopeType
		}
		updates["type"] = *data.Type
	}
	if data.Company != nil {
		updates["company"] = *data.Company
	}
	if len(updates) == 0 {
		return nil, ErrBulkNoFields
	}
	return updates, nil
}

// deleteScopeOwner deletes a brand or manufacturer along with its scopes.
// Without cascade, existing scopes block the delete with a RelatedRecordsError.
func deleteScopeOwner(
	ctx context.Context,
	scopeRepo *repository.ScopeRepository,
	entity string,
	scopeIDs []uuid.UUID,
	cascade bool,
	deleteOwner func(tx *gorm.DB) error,
) error {
	if len(scopeIDs) > 0 && !cascade {
		related, err := scopeRepo.CountRelated(ctx, scopeIDs)
		if err != nil {
			return fmt.Errorf("failed to check related records: %w", err)
		}
		related = append([]domain.RelatedCount{{Collection: "scopes", Count: int64(len(scopeIDs))}}, related...)
		return &domain.RelatedRecordsError{Entity: entity, Related: related}
	}

	if _, err := scopeRepo.DeleteCascade(ctx, scopeIDs, deleteOwner); err != nil {
		return fmt.Errorf("failed to delete %s: %w", entity, err)
	}
	return nil
}

// utcPtr normalizes an optional timestamp to UTC
func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
