package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/service"
	"github.com/medcare-solutions/repair-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuotationService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scope := testutil.CreateTestScope(t, env.db, "SN-100")

	t.Run("applies defaults and numbering", func(t *testing.T) {
		dto, err := env.quotations.Create(ctx, &domain.CreateQuotationRequest{
			ScopeID:  &scope.ID,
			Price:    1200,
			Discount: 200,
		})
		require.NoError(t, err)

		assert.Equal(t, "Q0001", dto.QuotationNumber)
		assert.Equal(t, domain.QuotationStatusPending, dto.Status)
		assert.Equal(t, domain.DefaultServiceType, dto.ServiceType)
		assert.Equal(t, 1, dto.Quantity)
		assert.Equal(t, 1000.0, dto.NetPrice)
	})

	t.Run("numbers keep increasing", func(t *testing.T) {
		dto, err := env.quotations.Create(ctx, &domain.CreateQuotationRequest{ScopeID: &scope.ID, Price: 50})
		require.NoError(t, err)
		assert.Equal(t, "Q0002", dto.QuotationNumber)
	})

	t.Run("discount above price is rejected", func(t *testing.T) {
		_, err := env.quotations.Create(ctx, &domain.CreateQuotationRequest{ScopeID: &scope.ID, Price: 10, Discount: 20})
		assert.ErrorIs(t, err, service.ErrDiscountExceedsPrice)
	})

	t.Run("unknown scope", func(t *testing.T) {
		missing := uuid.New()
		_, err := env.quotations.Create(ctx, &domain.CreateQuotationRequest{ScopeID: &missing, Price: 10})
		assert.ErrorIs(t, err, service.ErrScopeNotFound)
	})
}

func TestQuotationService_CreateFromEvaluation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scope := testutil.CreateTestScope(t, env.db, "SN-200")

	evaluation, err := env.evaluations.Create(ctx, &domain.CreateEvaluationRequest{
		Type:               domain.ScopeTypeRigid,
		ScopeID:            &scope.ID,
		ProblemsIdentified: "Broken lens",
	})
	require.NoError(t, err)

	before := time.Now().UTC()
	dto, err := env.quotations.CreateFromEvaluation(ctx, evaluation.ID, &domain.CreateQuotationRequest{Price: 800})
	require.NoError(t, err)

	require.NotNil(t, dto.ScopeID)
	assert.Equal(t, scope.ID, *dto.ScopeID)
	require.NotNil(t, dto.EvaluationID)
	assert.Equal(t, evaluation.ID, *dto.EvaluationID)
	assert.Equal(t, "Broken lens", dto.Problems)
	assert.Equal(t, 7, dto.DeliveryPeriod)
	assert.Equal(t, 800.0, dto.Price)

	validity, err := time.Parse(time.RFC3339, dto.OfferValidity)
	require.NoError(t, err)
	assert.WithinDuration(t, before.Add(30*24*time.Hour), validity, time.Minute)
}

func TestQuotationService_StatusMovesScope(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	t.Run("approved", func(t *testing.T) {
		scope := testutil.CreateTestScope(t, env.db, "SN-300")
		q, err := env.quotations.Create(ctx, &domain.CreateQuotationRequest{ScopeID: &scope.ID, Price: 100})
		require.NoError(t, err)

		updated, err := env.quotations.Update(ctx, q.ID, &domain.UpdateQuotationRequest{
			Price:  100,
			Status: domain.QuotationStatusApproved,
		})
		require.NoError(t, err)
		assert.Equal(t, domain.QuotationStatusApproved, updated.Status)
		assert.Equal(t, domain.ScopeStatusApproved, reloadScope(t, env.db, scope).Status)
	})

	t.Run("rejected", func(t *testing.T) {
		scope := testutil.CreateTestScope(t, env.db, "SN-301")
		q, err := env.quotations.Create(ctx, &domain.CreateQuotationRequest{ScopeID: &scope.ID, Price: 100})
		require.NoError(t, err)

		_, err = env.quotations.SetStatus(ctx, q.ID, domain.QuotationStatusRejected)
		require.NoError(t, err)
		assert.Equal(t, domain.ScopeStatusDenied, reloadScope(t, env.db, scope).Status)
	})
}

func TestQuotationService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scope := testutil.CreateTestScope(t, env.db, "SN-400")

	t.Run("blocked by invoices", func(t *testing.T) {
		q := testutil.CreateTestQuotation(t, env.db, scope, "Q0100", domain.QuotationStatusApproved)
		_, err := env.invoices.CreateFromQuotation(ctx, q.ID)
		require.NoError(t, err)

		err = env.quotations.Delete(ctx, q.ID)
		var related *domain.RelatedRecordsError
		require.True(t, errors.As(err, &related))
		assert.Equal(t, "invoices", related.Related[0].Collection)
		assert.Contains(t, err.Error(), "invoices (1)")
	})

	t.Run("free quotation is removed", func(t *testing.T) {
		q := testutil.CreateTestQuotation(t, env.db, scope, "Q0101", domain.QuotationStatusPending)
		require.NoError(t, env.quotations.Delete(ctx, q.ID))

		_, err := env.quotations.GetByID(ctx, q.ID)
		assert.ErrorIs(t, err, service.ErrQuotationNotFound)
	})
}
