package service_test

import (
	"context"
	"testing"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/service"
	"github.com/medcare-solutions/repair-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNumberSequenceService_NextAfterBump(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	current, err := env.numbers.Current(ctx, domain.SequenceRepair)
	require.NoError(t, err)
	assert.Equal(t, 0, current)

	require.NoError(t, env.numbers.Bump(ctx, domain.SequenceRepair, 120))

	code, err := env.numbers.Next(ctx, domain.SequenceRepair)
	require.NoError(t, err)
	assert.Equal(t, "R0121", code)

	// lowering is ignored
	require.NoError(t, env.numbers.Bump(ctx, domain.SequenceRepair, 5))
	current, err = env.numbers.Current(ctx, domain.SequenceRepair)
	require.NoError(t, err)
	assert.Equal(t, 121, current)
}

func TestNumberSequenceService_UnseededCounterFollowsExistingCodes(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	scope := testutil.CreateTestScope(t, env.db, "SN-IMPORTED")
	testutil.CreateTestQuotation(t, env.db, scope, "Q0050", domain.QuotationStatusPending)

	current, err := env.numbers.Current(ctx, domain.SequenceQuotation)
	require.NoError(t, err)
	assert.Equal(t, 50, current)

	require.NoError(t, env.numbers.Bump(ctx, domain.SequenceQuotation, 3))

	code, err := env.numbers.Next(ctx, domain.SequenceQuotation)
	require.NoError(t, err)
	assert.Equal(t, "Q0051", code)

	// with nothing stored, a fresh counter takes the bumped value
	require.NoError(t, env.numbers.Bump(ctx, domain.SequenceEvaluation, 80))
	code, err = env.numbers.Next(ctx, domain.SequenceEvaluation)
	require.NoError(t, err)
	assert.Equal(t, "EV0081", code)
}

func TestNumberSequenceService_RejectsBadInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, err := env.numbers.Next(ctx, domain.SequenceKind("receipt"))
	assert.ErrorIs(t, err, service.ErrInvalidInput)

	assert.ErrorIs(t, env.numbers.Bump(ctx, domain.SequenceInvoice, -1), service.ErrInvalidInput)
}
