package service

import (
	"context"
	"fmt"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/mapper"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"go.uber.org/zap"
)

// NumberSequenceService hands out document codes for evaluations, quotations,
// repairs and invoices.
//
// Format: {PREFIX}{SEQUENCE}, zero padded to four digits
// Example: EV0007, Q0042, R0103, SA1-0015
type NumberSequenceService struct {
	repo   *repository.NumberSequenceRepository
	logger *zap.Logger
}

// NewNumberSequenceService creates a new NumberSequenceService
func NewNumberSequenceService(
	repo *repository.NumberSequenceRepository,
	logger *zap.Logger,
) *NumberSequenceService {
	return &NumberSequenceService{
		repo:   repo,
		logger: logger,
	}
}

// Next generates the next code for a document kind.
// Must be called outside any open transaction: the counter has its own.
func (s *NumberSequenceService) Next(ctx context.Context, kind domain.SequenceKind) (string, error) {
	def, ok := domain.LookupSequence(kind)
	if !ok {
		return "", fmt.Errorf("%w: unknown sequence kind %q", ErrInvalidInput, kind)
	}

	nextSeq, err := s.repo.GetNextNumber(ctx, def)
	if err != nil {
		s.logger.Error("failed to get next sequence number",
			zap.String("kind", string(kind)),
			zap.Error(err))
		return "", fmt.Errorf("failed to generate %s number: %w", kind, err)
	}

	code := def.Format(nextSeq)

	s.logger.Debug("generated number",
		zap.String("kind", string(kind)),
		zap.String("code", code))

	return code, nil
}

// Current returns the last issued sequence for a kind without incrementing
func (s *NumberSequenceService) Current(ctx context.Context, kind domain.SequenceKind) (int, error) {
	def, ok := domain.LookupSequence(kind)
	if !ok {
		return 0, fmt.Errorf("%w: unknown sequence kind %q", ErrInvalidInput, kind)
	}
	return s.repo.GetCurrentSequence(ctx, def)
}

// Bump raises the counter of a kind to value so the next code is value+1.
// Lower values are ignored, issued codes are never reused.
func (s *NumberSequenceService) Bump(ctx context.Context, kind domain.SequenceKind, value int) error {
	def, ok := domain.LookupSequence(kind)
	if !ok {
		return fmt.Errorf("%w: unknown sequence kind %q", ErrInvalidInput, kind)
	}
	if value < 0 {
		return fmt.Errorf("%w: sequence value must not be negative", ErrInvalidInput)
	}
	if err := s.repo.SetSequence(ctx, def, value); err != nil {
		return fmt.Errorf("failed to set %s sequence: %w", kind, err)
	}
	s.logger.Info("number sequence bumped",
		zap.String("kind", string(kind)),
		zap.Int("value", value))
	return nil
}

// List returns every counter
func (s *NumberSequenceService) List(ctx context.Context) ([]domain.NumberSequenceDTO, error) {
	sequences, err := s.repo.ListSequences(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list number sequences: %w", err)
	}
	dtos := make([]domain.NumberSequenceDTO, len(sequences))
	for i := range sequences {
		dtos[i] = mapper.ToNumberSequenceDTO(&sequences[i])
	}
	return dtos, nil
}
