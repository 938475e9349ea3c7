// Package erp provides read-only access to the accounting system's customer
// directory on SQL Server. It is optional: when disabled the API runs without it.
package erp

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/medcare-solutions/repair-api/internal/config"
	_ "github.com/microsoft/go-mssqldb" // MS SQL Server driver
	"go.uber.org/zap"
)

const (
	defaultConnectDelay       = 1 * time.Second
	defaultMaxConnectDelay    = 10 * time.Second
	defaultHealthCheckTimeout = 5 * time.Second
)

// ErrNotConfigured is returned by calls on a nil client
var ErrNotConfigured = errors.New("erp client not configured")

// customersQuery reads the customer directory. Columns are aliased to the names Company expects.
const customersQuery = `
SELECT
	CAST(CustomerNo AS NVARCHAR(100)) AS reference,
	Name AS name,
	ISNULL(Phone, '') AS phone,
	ISNULL(Email, '') AS email,
	ISNULL(Address, '') AS address,
	ISNULL(VatNo, '') AS mof_number
FROM dbo.Customers
WHERE Name IS NOT NULL AND LTRIM(RTRIM(Name)) <> ''
ORDER BY Name`

// Company is one customer row from the directory
type Company struct {
	Reference string
	Name      string
	Phone     string
	Email     string
	Address   string
	MofNumber string
}

// Client is a pooled read-only SQL Server connection
type Client struct {
	db           *sql.DB
	logger       *zap.Logger
	queryTimeout time.Duration
}

// HealthStatus represents the health check result for the ERP connection
type HealthStatus struct {
	Status    string        `json:"status"`
	Latency   time.Duration `json:"latency_ms"`
	Error     string        `json:"error,omitempty"`
	MaxOpen   int           `json:"max_open_connections"`
	Open      int           `json:"open_connections"`
	InUse     int           `json:"in_use"`
	Idle      int           `json:"idle"`
	WaitCount int64         `json:"wait_count"`
}

// NewClient connects to the directory. Returns nil, nil when disabled or missing credentials.
func NewClient(ctx context.Context, cfg *config.ERPConfig, logger *zap.Logger) (*Client, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("ERP directory disabled")
		return nil, nil
	}

	if cfg.URL == "" || cfg.User == "" || cfg.Password == "" {
		logger.Warn("ERP directory enabled but missing credentials, skipping connection",
			zap.Bool("url_present", cfg.URL != ""),
			zap.Bool("user_present", cfg.User != ""),
			zap.Bool("password_present", cfg.Password != ""),
		)
		return nil, nil
	}

	connStr := BuildConnectionString(cfg)

	db, err := sql.Open("sqlserver", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open erp connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	attempts := cfg.ConnectAttempts
	if attempts == 0 {
		attempts = 1
	}

	err = retry.Do(
		func() error {
			pingCtx, cancel := context.WithTimeout(ctx, defaultHealthCheckTimeout)
			defer cancel()
			return db.PingContext(pingCtx)
		},
		retry.Context(ctx),
		retry.Attempts(attempts),
		retry.Delay(defaultConnectDelay),
		retry.MaxDelay(defaultMaxConnectDelay),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			logger.Warn("ERP ping failed, retrying",
				zap.Uint("attempt", n+1),
				zap.Uint("max_attempts", attempts),
				zap.Error(err))
		}),
	)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to erp after %d attempts: %w", attempts, err)
	}

	logger.Info("ERP connection established",
		zap.Int("max_open_conns", cfg.MaxOpenConns),
		zap.Int("query_timeout_seconds", cfg.QueryTimeout),
	)

	return &Client{
		db:           db,
		logger:       logger,
		queryTimeout: cfg.QueryTimeoutDuration(),
	}, nil
}

// BuildConnectionString turns "host:port/database" into a sqlserver:// URL
func BuildConnectionString(cfg *config.ERPConfig) string {
	hostPort, database, _ := strings.Cut(cfg.URL, "/")

	host, port, found := strings.Cut(hostPort, ":")
	if !found || port == "" {
		port = "1433"
	}

	query := url.Values{}
	query.Add("encrypt", "true")
	query.Add("TrustServerCertificate", "false")
	query.Add("connection timeout", "30")
	query.Add("ApplicationIntent", "ReadOnly")
	if database != "" {
		query.Add("database", database)
	}

	u := &url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     host + ":" + port,
		RawQuery: query.Encode(),
	}
	return u.String()
}

// Close closes the pool. Safe on a nil client.
func (c *Client) Close() error {
	if c == nil || c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("failed to close erp connection: %w", err)
	}
	c.logger.Info("ERP connection closed")
	return nil
}

// HealthCheck pings the directory and reports pool statistics
func (c *Client) HealthCheck(ctx context.Context) *HealthStatus {
	if c == nil || c.db == nil {
		return &HealthStatus{Status: "disabled"}
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, defaultHealthCheckTimeout)
		defer cancel()
	}

	start := time.Now()
	err := c.db.PingContext(ctx)
	stats := c.db.Stats()

	status := &HealthStatus{
		Status:    "healthy",
		Latency:   time.Since(start),
		MaxOpen:   stats.MaxOpenConnections,
		Open:      stats.OpenConnections,
		InUse:     stats.InUse,
		Idle:      stats.Idle,
		WaitCount: stats.WaitCount,
	}
	if err != nil {
		c.logger.Warn("ERP health check failed", zap.Error(err))
		status.Status = "unhealthy"
		status.Error = err.Error()
	}
	return status
}

// GetCompanies reads the whole customer directory
func (c *Client) GetCompanies(ctx context.Context) ([]Company, error) {
	if c == nil || c.db == nil {
		return nil, ErrNotConfigured
	}

	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.queryTimeout)
		defer cancel()
	}

	start := time.Now()
	rows, err := c.db.QueryContext(ctx, customersQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query erp customers: %w", err)
	}
	defer rows.Close()

	var companies []Company
	for rows.Next() {
		var co Company
		if err := rows.Scan(&co.Reference, &co.Name, &co.Phone, &co.Email, &co.Address, &co.MofNumber); err != nil {
			return nil, fmt.Errorf("failed to scan erp customer: %w", err)
		}
		co.Name = strings.TrimSpace(co.Name)
		companies = append(companies, co)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating erp customers: %w", err)
	}

	c.logger.Debug("ERP customers fetched",
		zap.Int("rows", len(companies)),
		zap.Duration("duration", time.Since(start)))

	return companies, nil
}
