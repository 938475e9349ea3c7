package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// NumberSequenceRepository handles database operations for number sequences.
// There is one counter row per document prefix.
type NumberSequenceRepository struct {
	db *gorm.DB
}

// NewNumberSequenceRepository creates a new NumberSequenceRepository
func NewNumberSequenceRepository(db *gorm.DB) *NumberSequenceRepository {
	return &NumberSequenceRepository{db: db}
}

// GetNextNumber atomically retrieves and increments the sequence for a document kind.
// It uses SELECT FOR UPDATE to prevent two writers from getting the same number.
// If no counter exists yet, it is seeded from the highest code already stored in
// the owning table, so numbering continues after imported data.
//
// Returns the next sequence number to use (already incremented in DB).
func (r *NumberSequenceRepository) GetNextNumber(ctx context.Context, def domain.SequenceDef) (int, error) {
	var nextSeq int

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq domain.NumberSequence
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("prefix = ?", def.Prefix).
			First(&seq)

		switch {
		case errors.Is(result.Error, gorm.ErrRecordNotFound):
			highest, err := highestExisting(tx, def)
			if err != nil {
				return err
			}
			nextSeq = highest + 1
			seq = domain.NumberSequence{
				Prefix:       def.Prefix,
				LastSequence: nextSeq,
				UpdatedAt:    time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create number sequence: %w", err)
			}
		case result.Error != nil:
			return fmt.Errorf("failed to get number sequence: %w", result.Error)
		default:
			nextSeq = seq.LastSequence + 1
			if err := tx.Model(&domain.NumberSequence{}).
				Where("prefix = ?", def.Prefix).
				Updates(map[string]interface{}{
					"last_sequence": nextSeq,
					"updated_at":    time.Now(),
				}).Error; err != nil {
				return fmt.Errorf("failed to update number sequence: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return nextSeq, nil
}

// highestExisting scans the owning table for codes with the kind's prefix
func highestExisting(tx *gorm.DB, def domain.SequenceDef) (int, error) {
	var codes []string
	err := tx.Table(def.Table).
		Where(def.Column+" LIKE ?", def.Prefix+"%").
		Pluck(def.Column, &codes).Error
	if err != nil {
		return 0, fmt.Errorf("failed to scan existing %s numbers: %w", def.Kind, err)
	}
	return def.HighestSequence(codes), nil
}

// GetCurrentSequence returns the last issued number without incrementing.
// Without a counter row it reports the highest code already stored in the
// owning table.
func (r *NumberSequenceRepository) GetCurrentSequence(ctx context.Context, def domain.SequenceDef) (int, error) {
	var seq domain.NumberSequence
	result := r.db.WithContext(ctx).
		Where("prefix = ?", def.Prefix).
		First(&seq)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return highestExisting(r.db.WithContext(ctx), def)
	}
	if result.Error != nil {
		return 0, fmt.Errorf("failed to get number sequence: %w", result.Error)
	}

	return seq.LastSequence, nil
}

// SetSequence raises the counter to value, the LAST USED number (the next
// one will be value+1). A new counter starts at the higher of value and the
// highest code already stored, so it never falls behind existing data.
func (r *NumberSequenceRepository) SetSequence(ctx context.Context, def domain.SequenceDef, value int) error {
	prefix := def.Prefix
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var seq domain.NumberSequence
		result := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("prefix = ?", prefix).
			First(&seq)

		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			highest, err := highestExisting(tx, def)
			if err != nil {
				return err
			}
			seq = domain.NumberSequence{
				Prefix:       prefix,
				LastSequence: max(value, highest),
				UpdatedAt:    time.Now(),
			}
			if err := tx.Create(&seq).Error; err != nil {
				return fmt.Errorf("failed to create number sequence: %w", err)
			}
			return nil
		}
		if result.Error != nil {
			return fmt.Errorf("failed to get number sequence: %w", result.Error)
		}

		// Never move a counter backwards
		if value > seq.LastSequence {
			if err := tx.Model(&domain.NumberSequence{}).
				Where("prefix = ?", prefix).
				Updates(map[string]interface{}{
					"last_sequence": value,
					"updated_at":    time.Now(),
				}).Error; err != nil {
				return fmt.Errorf("failed to update number sequence: %w", err)
			}
		}

		return nil
	})
}

// ListSequences returns all counters (used by the admin CLI)
func (r *NumberSequenceRepository) ListSequences(ctx context.Context) ([]domain.NumberSequence, error) {
	var sequences []domain.NumberSequence
	err := r.db.WithContext(ctx).
		Order("prefix ASC").
		Find(&sequences).Error
	return sequences, err
}
