package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/medcare-solutions/repair-api/internal/config"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase creates a new database connection. The initial ping is retried
// so the API can start while the database container is still coming up.
func NewDatabase(ctx context.Context, cfg *config.DatabaseConfig, log *zap.Logger) (*gorm.DB, error) {
	dsn := cfg.ConnectionString()

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}

	err = retry.Do(
		func() error {
			return sqlDB.PingContext(ctx)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(2*time.Second),
		retry.DelayType(retry.FixedDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			log.Warn("database not reachable, retrying",
				zap.Uint("attempt", n+1),
				zap.Uint("maxAttempts", attempts),
				zap.Error(err))
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// HealthCheck pings the underlying connection
func HealthCheck(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database instance: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}

// HealthCheckWithStats pings the database and returns pool statistics
func HealthCheckWithStats(db *gorm.DB) (sql.DBStats, error) {
	if err := HealthCheck(db); err != nil {
		return sql.DBStats{}, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return sql.DBStats{}, fmt.Errorf("failed to get database instance: %w", err)
	}
	return sqlDB.Stats(), nil
}

// Models lists every persisted model in dependency order
func Models() []interface{} {
	return []interface{}{
		&domain.User{},
		&domain.Settings{},
		&domain.Brand{},
		&domain.Manufacturer{},
		&domain.Company{},
		&domain.Part{},
		&domain.Scope{},
		&domain.Evaluation{},
		&domain.Quotation{},
		&domain.InventoryItem{},
		&domain.Repair{},
		&domain.RepairPart{},
		&domain.Invoice{},
		&domain.Media{},
		&domain.Notification{},
		&domain.NumberSequence{},
		&domain.Activity{},
		&domain.AuditLog{},
	}
}

// AutoMigrate runs automatic migrations (for development and tests only)
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
