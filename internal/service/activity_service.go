package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/auth"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/mapper"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"go.uber.org/zap"
)

// ActivityService records and lists workflow events (scope received, quotation approved, ...)
type ActivityService struct {
	activityRepo *repository.ActivityRepository
	logger       *zap.Logger
}

// NewActivityService creates a new ActivityService instance
func NewActivityService(activityRepo *repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		logger:       logger,
	}
}

// Record stores an activity attributed to the user in ctx.
// Failures are logged and swallowed so they never break the calling operation.
func (s *ActivityService) Record(ctx context.Context, targetType domain.ActivityTargetType, targetID uuid.UUID, title, body string) {
	if s == nil {
		return
	}

	activity := &domain.Activity{
		TargetType: targetType,
		TargetID:   targetID,
		Title:      title,
		Body:       body,
		OccurredAt: time.Now().UTC(),
	}
	if userCtx, ok := auth.FromContext(ctx); ok {
		activity.ActorID = userCtx.UserIDPtr()
		activity.ActorName = userCtx.DisplayName
	}

	if err := s.activityRepo.Create(ctx, activity); err != nil {
		s.logger.Warn("failed to log activity",
			zap.String("target_type", string(targetType)),
			zap.String("target_id", targetID.String()),
			zap.Error(err))
	}
}

// List returns activities, optionally narrowed to one target
func (s *ActivityService) List(ctx context.Context, page, pageSize int, targetType *domain.ActivityTargetType, targetID *uuid.UUID) (*domain.PaginatedResponse, error) {
	page, pageSize = repository.NormalizePage(page, pageSize)

	activities, total, err := s.activityRepo.List(ctx, page, pageSize, targetType, targetID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}

	dtos := make([]domain.ActivityDTO, len(activities))
	for i := range activities {
		dtos[i] = mapper.ToActivityDTO(&activities[i])
	}
	return domain.NewPaginatedResponse(dtos, total, page, pageSize), nil
}
