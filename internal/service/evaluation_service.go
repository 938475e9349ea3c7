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

// ErrEvaluationNotFound is returned when an evaluation does not exist
var ErrEvaluationNotFound = errors.New("evaluation not found")

// EvaluationService handles technician inspections of received scopes
type EvaluationService struct {
	evaluationRepo *repository.EvaluationRepository
	scopeRepo      *repository.ScopeRepository
	numbers        *NumberSequenceService
	activity       *ActivityService
	logger         *zap.Logger
}

// NewEvaluationService creates a new EvaluationService
func NewEvaluationService(
	evaluationRepo *repository.EvaluationRepository,
	scopeRepo *repository.ScopeRepository,
	numbers *NumberSequenceService,
	activity *ActivityService,
	logger *zap.Logger,
) *EvaluationService {
	return &EvaluationService{
		evaluationRepo: evaluationRepo,
		scopeRepo:      scopeRepo,
		numbers:        numbers,
		activity:       activity,
		logger:         logger,
	}
}

// Create records an evaluation. When linked to a pending scope, the scope becomes evaluated.
func (s *EvaluationService) Create(ctx context.Context, req *domain.CreateEvaluationRequest) (*domain.EvaluationDTO, error) {
	evaluation := &domain.Evaluation{
		Type:               req.Type,
		Findings:           req.Evaluation,
		Status:             req.Status,
		EvaluationDate:     utcPtr(req.EvaluationDate),
		ProblemsIdentified: req.ProblemsIdentified,
	}

	var scope *domain.Scope
	if req.ScopeID != nil {
		var err error
		scope, err = s.getScope(ctx, *req.ScopeID)
		if err != nil {
			return nil, err
		}
	}

	return s.create(ctx, evaluation, scope)
}

// CreateFromScope starts an evaluation for a scope, taking the type from the scope
func (s *EvaluationService) CreateFromScope(ctx context.Context, scopeID uuid.UUID) (*domain.EvaluationDTO, error) {
	scope, err := s.getScope(ctx, scopeID)
	if err != nil {
		return nil, err
	}

	scopeType := scope.Type
	if scopeType == "" {
		scopeType = domain.ScopeTypeRigid
	}
	now := time.Now().UTC()

	evaluation := &domain.Evaluation{
		Type:           scopeType,
		EvaluationDate: &now,
	}
	return s.create(ctx, evaluation, scope)
}

func (s *EvaluationService) create(ctx context.Context, evaluation *domain.Evaluation, scope *domain.Scope) (*domain.EvaluationDTO, error) {
	if evaluation.Status == "" {
		evaluation.Status = domain.EvaluationStatusPending
	}
	if evaluation.ProblemsIdentified == "" {
		evaluation.ProblemsIdentified = domain.DefaultProblemsIdentified
	}
	if scope != nil {
		evaluation.ScopeID = &scope.ID
		evaluation.ScopeCode = scope.Model
		evaluation.ScopeName = scope.Name
		evaluation.ModelNumber = scope.ModelNumber
		evaluation.SerialNumber = scope.SerialNumber
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		evaluation.CreatedByID = userCtx.UserIDPtr()
	}

	code, err := s.numbers.Next(ctx, domain.SequenceEvaluation)
	if err != nil {
		return nil, err
	}
	evaluation.Code = code

	if err := s.evaluationRepo.Create(ctx, evaluation); err != nil {
		return nil, fmt.Errorf("failed to create evaluation: %w", err)
	}

	if scope != nil && scope.Status == domain.ScopeStatusPending {
		if err := s.scopeRepo.UpdateStatus(ctx, scope.ID, domain.ScopeStatusEvaluated); err != nil {
			s.logger.Warn("failed to mark scope evaluated",
				zap.String("scopeID", scope.ID.String()),
				zap.Error(err))
		}
	}

	s.activity.Record(ctx, domain.ActivityTargetEvaluation, evaluation.ID,
		"Evaluation created", fmt.Sprintf("Evaluation %s was created", evaluation.Code))

	dto := mapper.ToEvaluationDTO(evaluation)
	return &dto, nil
}

func (s *EvaluationService) getScope(ctx context.Context, id uuid.UUID) (*domain.Scope, error) {
	scope, err := s.scopeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrScopeNotFound
		}
		return nil, fmt.Errorf("failed to get scope: %w", err)
	}
	return scope, nil
}

func (s *EvaluationService) get(ctx context.Context, id uuid.UUID) (*domain.Evaluation, error) {
	evaluation, err := s.evaluationRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEvaluationNotFound
		}
		return nil, fmt.Errorf("failed to get evaluation: %w", err)
	}
	return evaluation, nil
}

func (s *EvaluationService) GetByID(ctx context.Context, id uuid.UUID) (*domain.EvaluationDTO, error) {
	evaluation, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := mapper.ToEvaluationDTO(evaluation)
	return &dto, nil
}

// Update edits the findings. Code and scope snapshot fields are kept.
func (s *EvaluationService) Update(ctx context.Context, id uuid.UUID, req *domain.UpdateEvaluationRequest) (*domain.EvaluationDTO, error) {
	evaluation, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	wasCompleted := evaluation.Status == domain.EvaluationStatusCompleted

	evaluation.Type = req.Type
	evaluation.Findings = req.Evaluation
	evaluation.Status = req.Status
	evaluation.EvaluationDate = utcPtr(req.EvaluationDate)
	if req.ProblemsIdentified != "" {
		evaluation.ProblemsIdentified = req.ProblemsIdentified
	}
	evaluation.Scope = nil

	if err := s.evaluationRepo.Update(ctx, evaluation); err != nil {
		return nil, fmt.Errorf("failed to update evaluation: %w", err)
	}

	if !wasCompleted && evaluation.Status == domain.EvaluationStatusCompleted {
		s.activity.Record(ctx, domain.ActivityTargetEvaluation, evaluation.ID,
			"Evaluation completed", fmt.Sprintf("Evaluation %s was completed", evaluation.Code))
	}

	dto := mapper.ToEvaluationDTO(evaluation)
	return &dto, nil
}

// Delete removes an evaluation unless quotations or repairs reference it
func (s *EvaluationService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.get(ctx, id); err != nil {
		return err
	}

	related, err := s.evaluationRepo.CountRelated(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to check related records: %w", err)
	}
	if len(related) > 0 {
		return &domain.RelatedRecordsError{Entity: "evaluation", Related: related}
	}

	if err := s.evaluationRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete evaluation: %w", err)
	}
	return nil
}

func (s *EvaluationService) List(ctx context.Context, page, pageSize int, filters repository.EvaluationFilters, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	evaluations, total, err := s.evaluationRepo.List(ctx, page, pageSize, filters, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return domain.NewPaginatedResponse(mapper.ToEvaluationDTOs(evaluations), total, page, pageSize), nil
}

// ListByScope returns a scope's evaluations, newest first
func (s *EvaluationService) ListByScope(ctx context.Context, scopeID uuid.UUID) ([]domain.EvaluationDTO, error) {
	evaluations, err := s.evaluationRepo.ListByScope(ctx, scopeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list scope evaluations: %w", err)
	}
	return mapper.ToEvaluationDTOs(evaluations), nil
}

// ListWithApprovedQuotation returns evaluations whose scope has an approved quotation
func (s *EvaluationService) ListWithApprovedQuotation(ctx context.Context, page, pageSize int, sort repository.SortConfig) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	evaluations, total, err := s.evaluationRepo.ListWithApprovedQuotation(ctx, page, pageSize, sort)
	if err != nil {
		return nil, fmt.Errorf("failed to list evaluations: %w", err)
	}
	return domain.NewPaginatedResponse(mapper.ToEvaluationDTOs(evaluations), total, page, pageSize), nil
}
