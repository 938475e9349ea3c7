package service_test

import (
	"context"
	"testing"

	"github.com/medcare-solutions/repair-api/internal/auth"
	"github.com/medcare-solutions/repair-api/internal/config"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"github.com/medcare-solutions/repair-api/internal/testutil"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// testEnv wires every workflow service against one SQLite database
type testEnv struct {
	db *gorm.DB

	activity      *service.ActivityService
	notifications *service.NotificationService
	numbers       *service.NumberSequenceService
	settings      *service.SettingsService
	scopes        *service.ScopeService
	evaluations   *service.EvaluationService
	quotations    *service.QuotationService
	repairs       *service.RepairService
	inventory     *service.InventoryService
	invoices      *service.InvoiceService
	dashboard     *service.DashboardService
}

func testCompanyConfig() config.CompanyConfig {
	return config.CompanyConfig{
		Name:              "MedCare Solutions",
		Phone:             "+961 5 000 000",
		Email:             "info@medcare.example",
		MofNumber:         "MOF-1",
		DefaultDollarRate: 89500,
	}
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()

	scopeRepo := repository.NewScopeRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	repairRepo := repository.NewRepairRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	env := &testEnv{db: db}
	env.activity = service.NewActivityService(repository.NewActivityRepository(db), logger)
	env.notifications = service.NewNotificationService(repository.NewNotificationRepository(db), repository.NewUserRepository(db), logger)
	env.numbers = service.NewNumberSequenceService(repository.NewNumberSequenceRepository(db), logger)
	env.settings = service.NewSettingsService(repository.NewSettingsRepository(db), testCompanyConfig(), logger)
	env.scopes = service.NewScopeService(scopeRepo, repository.NewBrandRepository(db), repository.NewManufacturerRepository(db), env.activity, logger)
	env.evaluations = service.NewEvaluationService(evaluationRepo, scopeRepo, env.numbers, env.activity, logger)
	env.quotations = service.NewQuotationService(quotationRepo, scopeRepo, evaluationRepo, env.numbers, env.activity, logger)
	env.repairs = service.NewRepairService(repairRepo, scopeRepo, evaluationRepo, quotationRepo, inventoryRepo, env.numbers, env.notifications, env.activity, logger)
	env.inventory = service.NewInventoryService(inventoryRepo, env.notifications, env.activity, nil, logger)
	env.invoices = service.NewInvoiceService(invoiceRepo, scopeRepo, quotationRepo, repairRepo, env.settings, env.numbers, env.notifications, env.activity, nil, logger)
	env.dashboard = service.NewDashboardService(scopeRepo, quotationRepo, repairRepo, invoiceRepo, inventoryRepo, logger)
	return env
}

// userContext returns a context authenticated as user
func userContext(user *domain.User) context.Context {
	return auth.WithUserContext(context.Background(), &auth.UserContext{
		UserID:      user.ID,
		DisplayName: user.FullName(),
		Email:       user.Email,
		Role:        user.Role,
	})
}

func reloadScope(t *testing.T, db *gorm.DB, scope *domain.Scope) *domain.Scope {
	t.Helper()
	var fresh domain.Scope
	require.NoError(t, db.First(&fresh, "id = ?", scope.ID).Error)
	return &fresh
}
