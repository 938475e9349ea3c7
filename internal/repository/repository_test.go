package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSort(t *testing.T) {
	assert.Equal(t, repository.SortConfig{Field: "createdAt", Order: repository.SortOrderDesc}, repository.ParseSort(""))
	assert.Equal(t, repository.SortConfig{Field: "name", Order: repository.SortOrderDesc}, repository.ParseSort("-name"))
	assert.Equal(t, repository.SortConfig{Field: "name", Order: repository.SortOrderAsc}, repository.ParseSort("name"))
}

func TestBuildOrderClause(t *testing.T) {
	fields := map[string]string{"serialNumber": "serial_number"}
	assert.Equal(t, "serial_number ASC", repository.BuildOrderClause(repository.ParseSort("serialNumber"), fields, "created_at"))
	assert.Equal(t, "created_at DESC", repository.BuildOrderClause(repository.ParseSort("password;drop"), fields, "created_at"))
}

func TestNormalizePage(t *testing.T) {
	page, size := repository.NormalizePage(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, repository.DefaultPageSize, size)

	_, size = repository.NormalizePage(3, 1000)
	assert.Equal(t, repository.MaxPageSize, size)
}

func TestNumberSequenceRepository_GetNextNumber(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	def, _ := domain.LookupSequence(domain.SequenceQuotation)

	first, err := repo.GetNextNumber(ctx, def)
	require.NoError(t, err)
	assert.Equal(t, 1, first)

	second, err := repo.GetNextNumber(ctx, def)
	require.NoError(t, err)
	assert.Equal(t, 2, second)

	current, err := repo.GetCurrentSequence(ctx, def)
	require.NoError(t, err)
	assert.Equal(t, 2, current)
}

func TestNumberSequenceRepository_SeedsFromExistingCodes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	scope := testutil.CreateTestScope(t, db, "SN-SEED")
	testutil.CreateTestQuotation(t, db, scope, "Q0007", domain.QuotationStatusPending)
	testutil.CreateTestQuotation(t, db, scope, "Q0012", domain.QuotationStatusPending)
	testutil.CreateTestQuotation(t, db, scope, "LEGACY-99", domain.QuotationStatusPending)

	def, _ := domain.LookupSequence(domain.SequenceQuotation)
	next, err := repo.GetNextNumber(ctx, def)
	require.NoError(t, err)
	assert.Equal(t, 13, next)
}

func TestNumberSequenceRepository_SetSequenceNeverLowers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNumberSequenceRepository(db)
	ctx := context.Background()

	def, _ := domain.LookupSequence(domain.SequenceRepair)
	require.NoError(t, repo.SetSequence(ctx, def, 40))
	require.NoError(t, repo.SetSequence(ctx, def, 10))

	current, err := repo.GetCurrentSequence(ctx, def)
	require.NoError(t, err)
	assert.Equal(t, 40, current)

	seqs, err := repo.ListSequences(ctx)
	require.NoError(t, err)
	require.Len(t, seqs, 1)
	assert.Equal(t, "R", seqs[0].Prefix)
}

func TestScopeRepository_ListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewScopeRepository(db)
	ctx := context.Background()

	a := testutil.CreateTestScope(t, db, "SN-A")
	b := testutil.CreateTestScope(t, db, "SN-B")
	require.NoError(t, repo.UpdateStatus(ctx, b.ID, domain.ScopeStatusApproved))

	approved := domain.ScopeStatusApproved
	scopes, total, err := repo.List(ctx, 1, 10, repository.ScopeFilters{Status: &approved}, repository.DefaultSortConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, scopes, 1)
	assert.Equal(t, b.ID, scopes[0].ID)
	require.NotNil(t, scopes[0].Brand)

	scopes, total, err = repo.List(ctx, 1, 10, repository.ScopeFilters{Search: "sn-a"}, repository.DefaultSortConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, a.ID, scopes[0].ID)

	_, total, err = repo.List(ctx, 1, 10, repository.ScopeFilters{BrandID: &a.BrandID}, repository.ParseSort("serialNumber"))
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestScopeRepository_Stats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewScopeRepository(db)
	ctx := context.Background()

	testutil.CreateTestScope(t, db, "SN-1")
	s2 := testutil.CreateTestScope(t, db, "SN-2")
	require.NoError(t, repo.UpdateStatus(ctx, s2.ID, domain.ScopeStatusCompleted))

	stats, err := repo.Stats(ctx, time.Now().Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.Total)
	assert.Equal(t, int64(2), stats.Recent)
	assert.Len(t, stats.ByStatus, 5)
	assert.Equal(t, int64(1), stats.ByStatus[domain.ScopeStatusPending])
	assert.Equal(t, int64(1), stats.ByStatus[domain.ScopeStatusCompleted])
	assert.Equal(t, int64(0), stats.ByStatus[domain.ScopeStatusDenied])
	assert.Equal(t, int64(2), stats.ByType[domain.ScopeTypeRigid])
	assert.Equal(t, int64(0), stats.ByType[domain.ScopeTypeFlexible])
}

func TestScopeRepository_CountRelatedAndDeleteCascade(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewScopeRepository(db)
	ctx := context.Background()

	scope := testutil.CreateTestScope(t, db, "SN-DEL")
	testutil.CreateTestQuotation(t, db, scope, "Q0001", domain.QuotationStatusApproved)
	require.NoError(t, db.Create(&domain.Evaluation{Code: "EV0001", Type: domain.ScopeTypeRigid, ScopeID: &scope.ID}).Error)
	item := testutil.CreateTestInventoryItem(t, db, "Lens", 4, 10)
	repair := &domain.Repair{
		RepairNumber: "R0001",
		ScopeID:      scope.ID,
		Parts:        []domain.RepairPart{{InventoryItemID: item.ID, QuantityUsed: 1, UnitCost: 10, TotalCost: 10}},
	}
	require.NoError(t, repository.NewRepairRepository(db).Create(ctx, repair))

	related, err := repo.CountRelated(ctx, []uuid.UUID{scope.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []domain.RelatedCount{
		{Collection: "repairs", Count: 1},
		{Collection: "quotations", Count: 1},
		{Collection: "evaluations", Count: 1},
	}, related)

	affected, err := repo.DeleteCascade(ctx, []uuid.UUID{scope.ID}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	var parts int64
	require.NoError(t, db.Model(&domain.RepairPart{}).Count(&parts).Error)
	assert.Zero(t, parts)

	related, err = repo.CountRelated(ctx, []uuid.UUID{scope.ID})
	require.NoError(t, err)
	assert.Empty(t, related)
}

func TestScopeRepository_ListWithApprovedQuotation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewScopeRepository(db)
	ctx := context.Background()

	withApproval := testutil.CreateTestScope(t, db, "SN-OK")
	pending := testutil.CreateTestScope(t, db, "SN-WAIT")
	testutil.CreateTestQuotation(t, db, withApproval, "Q0001", domain.QuotationStatusApproved)
	testutil.CreateTestQuotation(t, db, pending, "Q0002", domain.QuotationStatusPending)

	scopes, total, err := repo.ListWithApprovedQuotation(ctx, 1, 10, repository.DefaultSortConfig())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, withApproval.ID, scopes[0].ID)
}

func TestInventoryRepository_AdjustQuantityClampsAtZero(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInventoryRepository(db)
	ctx := context.Background()

	item := testutil.CreateTestInventoryItem(t, db, "Light guide", 3, 25)

	updated, err := repo.AdjustQuantity(ctx, item.ID, 4)
	require.NoError(t, err)
	assert.Equal(t, 7, updated.Quantity)

	updated, err = repo.AdjustQuantity(ctx, item.ID, -20)
	require.NoError(t, err)
	assert.Equal(t, 0, updated.Quantity)

	low, err := repo.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, domain.StockStatusOutOfStock, low[0].StockStatus())
}

func TestInvoiceRepository_OverdueAndUnpaid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewInvoiceRepository(db)
	ctx := context.Background()

	scope := testutil.CreateTestScope(t, db, "SN-INV")
	past := time.Now().UTC().Add(-48 * time.Hour)
	future := time.Now().UTC().Add(48 * time.Hour)

	late := &domain.Invoice{InvoiceNumber: "SA1-0001", ScopeID: scope.ID, InvoiceDate: time.Now(), DueDate: &past, UnitPrice: 100, Quantity: 1, TotalDue: 111, Status: domain.InvoiceStatusSent}
	onTime := &domain.Invoice{InvoiceNumber: "SA1-0002", ScopeID: scope.ID, InvoiceDate: time.Now(), DueDate: &future, UnitPrice: 200, Quantity: 1, TotalDue: 222, Status: domain.InvoiceStatusSent}
	paid := &domain.Invoice{InvoiceNumber: "SA1-0003", ScopeID: scope.ID, InvoiceDate: time.Now(), DueDate: &past, UnitPrice: 50, Quantity: 1, TotalDue: 55.5, Status: domain.InvoiceStatusPaid}
	for _, inv := range []*domain.Invoice{late, onTime, paid} {
		require.NoError(t, repo.Create(ctx, inv))
	}

	overdue, err := repo.ListOverdue(ctx, time.Now())
	require.NoError(t, err)
	require.Len(t, overdue, 1)
	assert.Equal(t, late.ID, overdue[0].ID)

	n, err := repo.MarkOverdue(ctx, []uuid.UUID{late.ID, paid.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, total, err := repo.UnpaidSummary(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.InDelta(t, 333.0, total, 0.001)
}

func TestSettingsRepository_SaveUpserts(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewSettingsRepository(db)
	ctx := context.Background()

	_, err := repo.Get(ctx)
	require.Error(t, err)

	require.NoError(t, repo.Save(ctx, &domain.Settings{CompanyName: "A", CompanyPhone: "1", CompanyEmail: "a@x.test", MofNumber: "1", DollarRate: 89000}))
	require.NoError(t, repo.Save(ctx, &domain.Settings{CompanyName: "B", CompanyPhone: "2", CompanyEmail: "b@x.test", MofNumber: "2", DollarRate: 90000}))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "B", got.CompanyName)
	assert.Equal(t, 90000.0, got.DollarRate)
}

func TestNotificationRepository_OwnerScoping(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewNotificationRepository(db)
	ctx := context.Background()

	owner := testutil.CreateTestUser(t, db, "owner@medcare.test", domain.RoleUser)
	other := testutil.CreateTestUser(t, db, "other@medcare.test", domain.RoleUser)

	n := &domain.Notification{UserID: owner.ID, Type: domain.NotificationTypeInfo, Message: "hello"}
	require.NoError(t, repo.Create(ctx, n))

	_, err := repo.GetForUser(ctx, n.ID, other.ID)
	require.Error(t, err)

	unread, err := repo.CountUnread(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), unread)

	changed, err := repo.MarkAllAsRead(ctx, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)
}

func TestBrandRepository_SearchTreatsWildcardsLiterally(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := repository.NewBrandRepository(db)
	ctx := context.Background()

	for _, title := range []string{"Olympus 100%", "Olympus 1000", "Storz_HD", "StorzXHD", "Pentax!"} {
		testutil.CreateTestBrand(t, db, title)
	}

	tests := []struct {
		search string
		want   string
	}{
		{"100%", "Olympus 100%"},
		{"z_h", "Storz_HD"},
		{"x!", "Pentax!"},
	}
	for _, tt := range tests {
		t.Run(tt.search, func(t *testing.T) {
			brands, total, err := repo.List(ctx, 1, 10, tt.search, repository.DefaultSortConfig())
			require.NoError(t, err)
			require.Equal(t, int64(1), total)
			assert.Equal(t, tt.want, brands[0].Title)
		})
	}
}
