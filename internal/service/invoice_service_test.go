package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/service"
	"github.com/medcare-solutions/repair-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoiceService_CreateDefaults(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scope := testutil.CreateTestScope(t, env.db, "SN-1000")

	dto, err := env.invoices.Create(ctx, &domain.CreateInvoiceRequest{ScopeID: scope.ID, UnitPrice: 500})
	require.NoError(t, err)

	assert.Equal(t, "SA1-0001", dto.InvoiceNumber)
	assert.Equal(t, domain.InvoiceStatusDraft, dto.Status)
	assert.Equal(t, domain.DefaultPaymentTerms, dto.PaymentTerms)
	assert.Equal(t, 1, dto.Quantity)
	assert.InDelta(t, 500, dto.Subtotal, 0.001)
	assert.InDelta(t, 55, dto.Tax, 0.001)
	assert.InDelta(t, 555, dto.TotalDue, 0.001)
	assert.InDelta(t, float64(domain.DefaultDollarRate), dto.DollarRate, 0.001)
	assert.InDelta(t, 55*float64(domain.DefaultDollarRate), dto.TaxLebanese, 0.01)

	issued, err := time.Parse(time.RFC3339, dto.InvoiceDate)
	require.NoError(t, err)
	due, err := time.Parse(time.RFC3339, dto.DueDate)
	require.NoError(t, err)
	assert.WithinDuration(t, issued.Add(30*24*time.Hour), due, time.Second)

	second, err := env.invoices.Create(ctx, &domain.CreateInvoiceRequest{ScopeID: scope.ID, UnitPrice: 10, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, "SA1-0002", second.InvoiceNumber)
	assert.InDelta(t, 30, second.TotalPrice, 0.001)
}

func TestInvoiceService_UsesSavedDollarRate(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scope := testutil.CreateTestScope(t, env.db, "SN-1001")

	_, err := env.settings.Update(ctx, &domain.UpdateSettingsRequest{
		CompanyName:  "MedCare Solutions",
		CompanyPhone: "+961 5 000 000",
		CompanyEmail: "info@medcare.example",
		MofNumber:    "MOF-2",
		DollarRate:   90000,
	})
	require.NoError(t, err)

	dto, err := env.invoices.Create(ctx, &domain.CreateInvoiceRequest{ScopeID: scope.ID, UnitPrice: 100})
	require.NoError(t, err)
	assert.InDelta(t, 90000, dto.DollarRate, 0.001)
	assert.InDelta(t, 11*90000.0, dto.TaxLebanese, 0.01)
}

func TestInvoiceService_CreateFromQuotation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scope := testutil.CreateTestScope(t, env.db, "SN-1002")

	quotation, err := env.quotations.Create(ctx, &domain.CreateQuotationRequest{
		ScopeID:  &scope.ID,
		Price:    1200,
		Discount: 200,
		Quantity: 2,
	})
	require.NoError(t, err)

	dto, err := env.invoices.CreateFromQuotation(ctx, quotation.ID)
	require.NoError(t, err)
	assert.Equal(t, scope.ID, dto.ScopeID)
	require.NotNil(t, dto.QuotationID)
	assert.Equal(t, quotation.ID, *dto.QuotationID)
	assert.Nil(t, dto.RepairID)
	assert.InDelta(t, 1000, dto.UnitPrice, 0.001)
	assert.Equal(t, 2, dto.Quantity)
	assert.InDelta(t, 2220, dto.TotalDue, 0.001)
}

func TestInvoiceService_Update(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scope := testutil.CreateTestScope(t, env.db, "SN-1003")

	created, err := env.invoices.Create(ctx, &domain.CreateInvoiceRequest{ScopeID: scope.ID, UnitPrice: 100})
	require.NoError(t, err)

	updated, err := env.invoices.Update(ctx, created.ID, &domain.UpdateInvoiceRequest{
		UnitPrice: 200,
		Quantity:  2,
		Status:    domain.InvoiceStatusSent,
	})
	require.NoError(t, err)
	assert.Equal(t, created.InvoiceNumber, updated.InvoiceNumber)
	assert.Equal(t, domain.InvoiceStatusSent, updated.Status)
	assert.InDelta(t, 400, updated.Subtotal, 0.001)
	assert.InDelta(t, 444, updated.TotalDue, 0.001)
}

func TestInvoiceService_MarkOverdue(t *testing.T) {
	env := newTestEnv(t)
	owner := testutil.CreateTestUser(t, env.db, "billing@example.com", domain.RoleUser)
	ctx := userContext(owner)
	scope := testutil.CreateTestScope(t, env.db, "SN-1004")

	sent := domain.InvoiceStatusSent
	past := time.Now().Add(-48 * time.Hour)
	lapsed, err := env.invoices.Create(ctx, &domain.CreateInvoiceRequest{ScopeID: scope.ID, UnitPrice: 50, DueDate: &past, Status: &sent})
	require.NoError(t, err)

	// drafts and future due dates are left alone
	_, err = env.invoices.Create(ctx, &domain.CreateInvoiceRequest{ScopeID: scope.ID, UnitPrice: 50, DueDate: &past})
	require.NoError(t, err)
	_, err = env.invoices.Create(ctx, &domain.CreateInvoiceRequest{ScopeID: scope.ID, UnitPrice: 50, Status: &sent})
	require.NoError(t, err)

	marked, err := env.invoices.MarkOverdue(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), marked)

	overdue, err := env.invoices.ListOverdue(context.Background())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, lapsed.ID, overdue[0].ID)

	list, err := env.notifications.GetForCurrentUser(ctx)
	require.NoError(t, err)
	require.Len(t, list.Docs, 1)
	assert.Contains(t, list.Docs[0].Message, lapsed.InvoiceNumber)

	again, err := env.invoices.MarkOverdue(context.Background())
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestInvoiceService_Delete(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	scope := testutil.CreateTestScope(t, env.db, "SN-1005")

	dto, err := env.invoices.Create(ctx, &domain.CreateInvoiceRequest{ScopeID: scope.ID, UnitPrice: 1})
	require.NoError(t, err)
	require.NoError(t, env.invoices.Delete(ctx, dto.ID))

	_, err = env.invoices.GetByID(ctx, dto.ID)
	assert.ErrorIs(t, err, service.ErrInvoiceNotFound)
	assert.ErrorIs(t, env.invoices.Delete(ctx, dto.ID), service.ErrInvoiceNotFound)
}
