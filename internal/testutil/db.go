package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/database"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB opens an isolated in-memory SQLite database with every table migrated.
// Each test gets its own database; it is closed when the test ends.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%s?mode=memory&cache=shared", name, uuid.NewString()[:8])

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err, "failed to open sqlite test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive and serialises writers
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})

	return db
}

// CreateTestUser creates an active user with the given role
func CreateTestUser(t *testing.T, db *gorm.DB, email string, role domain.UserRole) *domain.User {
	t.Helper()
	user := &domain.User{
		Email:        email,
		PasswordHash: "not-a-real-hash",
		FirstName:    "Test",
		LastName:     "User",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateTestBrand creates a brand
func CreateTestBrand(t *testing.T, db *gorm.DB, title string) *domain.Brand {
	t.Helper()
	brand := &domain.Brand{Title: title}
	require.NoError(t, db.Create(brand).Error)
	return brand
}

// CreateTestManufacturer creates a manufacturer in Japan
func CreateTestManufacturer(t *testing.T, db *gorm.DB, name string) *domain.Manufacturer {
	t.Helper()
	m := &domain.Manufacturer{CompanyName: name, Country: "JP"}
	require.NoError(t, db.Create(m).Error)
	return m
}

// CreateTestCompany creates a customer company
func CreateTestCompany(t *testing.T, db *gorm.DB, name string) *domain.Company {
	t.Helper()
	c := &domain.Company{
		Name:        name,
		PhoneNumber: "+961 1 000 000",
		Email:       "billing@example.com",
		Address:     "Beirut",
		MofNumber:   "123456",
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

// CreateTestScope creates a pending rigid scope with its own brand and manufacturer
func CreateTestScope(t *testing.T, db *gorm.DB, serial string) *domain.Scope {
	t.Helper()
	brand := CreateTestBrand(t, db, "Brand "+serial)
	m := CreateTestManufacturer(t, db, "Maker "+serial)
	scope := &domain.Scope{
		Name:           "Scope " + serial,
		Type:           domain.ScopeTypeRigid,
		Model:          "HD-" + serial,
		ModelNumber:    "MN-" + serial,
		SerialNumber:   serial,
		BrandID:        brand.ID,
		ManufacturerID: m.ID,
		Company:        "Hotel Dieu",
		Status:         domain.ScopeStatusPending,
	}
	require.NoError(t, db.Create(scope).Error)
	return scope
}

// CreateTestQuotation creates a quotation for a scope with the given status
func CreateTestQuotation(t *testing.T, db *gorm.DB, scope *domain.Scope, number string, status domain.QuotationStatus) *domain.Quotation {
	t.Helper()
	q := &domain.Quotation{
		QuotationNumber: number,
		ScopeID:         &scope.ID,
		ServiceType:     domain.DefaultServiceType,
		Price:           1000,
		Quantity:        1,
		Status:          status,
	}
	require.NoError(t, db.Create(q).Error)
	return q
}

// CreateTestInventoryItem creates a stocked part
func CreateTestInventoryItem(t *testing.T, db *gorm.DB, name string, qty int, unitCost float64) *domain.InventoryItem {
	t.Helper()
	item := &domain.InventoryItem{
		Name:         name,
		ScopeType:    domain.ScopeTypeRigid,
		UnitCost:     unitCost,
		Quantity:     qty,
		ReorderPoint: domain.DefaultReorderPoint,
	}
	require.NoError(t, db.Create(item).Error)
	return item
}
