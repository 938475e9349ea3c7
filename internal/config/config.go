package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/medcare-solutions/repair-api/internal/secrets"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	ApiKey    ApiKeyConfig
	Storage   StorageConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Company   CompanyConfig
	Jobs      JobsConfig
	ERP       ERPConfig
	Metrics   MetricsConfig
}

type AppConfig struct {
	Name        string
	Environment string
	Port        int
}

type DatabaseConfig struct {
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	// ConnectAttempts is how many times the initial connection is tried before giving up
	ConnectAttempts uint
}

// AuthConfig controls locally issued access tokens
type AuthConfig struct {
	JWTSecret string
	Issuer    string
	// TokenTTL is the token lifetime in minutes
	TokenTTL int
}

type ApiKeyConfig struct {
	SecretName string
	Value      string
}

// StorageConfig selects the object store used for media and generated documents.
// Mode is one of "local", "azure" or "s3".
type StorageConfig struct {
	Mode                  string
	LocalBasePath         string
	PublicBaseURL         string
	CloudConnectionString string
	CloudContainer        string
	MaxUploadSizeMB       int64
	S3                    S3Config
}

// S3Config holds S3 (or S3-compatible) bucket settings
type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// Endpoint is set for S3-compatible providers (MinIO, R2, Spaces)
	Endpoint       string
	ForcePathStyle bool
}

type SecretsConfig struct {
	// Source is "environment", "vault" or "auto"
	Source       string
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	XSSProtection         string
	ReferrerPolicy        string
	PermissionsPolicy     string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled               bool
	RequestsPerMinute     int
	RequestsPerMinuteAuth int
	BurstSize             int
	WhitelistIPs          []string
	WhitelistPaths        []string
}

// CompanyConfig is the shop letterhead printed on quotations and invoices.
// Values here are fallbacks; the settings record takes precedence when filled in.
type CompanyConfig struct {
	Name              string
	ShortName         string
	Address           string
	Location          string
	Phone             string
	WhatsApp          string
	Email             string
	MofNumber         string
	SalesPerson       string
	ShippedVia        string
	DefaultDollarRate float64
	LogoPath          string
}

// JobsConfig holds cron expressions (with seconds) for background jobs
type JobsConfig struct {
	Enabled            bool
	OverdueInvoiceCron string
	LowStockCron       string
	ERPSyncCron        string
	JobTimeout         int // seconds
}

// ERPConfig holds the optional read-only SQL Server company directory
type ERPConfig struct {
	Enabled         bool
	URL             string
	User            string
	Password        string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	QueryTimeout    int
	ConnectAttempts uint
}

type MetricsConfig struct {
	Enabled bool
	Path    string
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// TokenTTLDuration returns the access token lifetime
func (a *AuthConfig) TokenTTLDuration() time.Duration {
	return time.Duration(a.TokenTTL) * time.Minute
}

// MaxUploadBytes returns the upload limit in bytes
func (s *StorageConfig) MaxUploadBytes() int64 {
	return s.MaxUploadSizeMB << 20
}

// JobTimeoutDuration returns the per-run job timeout
func (j *JobsConfig) JobTimeoutDuration() time.Duration {
	return time.Duration(j.JobTimeout) * time.Second
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (e *ERPConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(e.ConnMaxLifetime) * time.Second
}

// QueryTimeoutDuration returns query timeout as duration
func (e *ERPConfig) QueryTimeoutDuration() time.Duration {
	return time.Duration(e.QueryTimeout) * time.Second
}

// Load loads configuration from file and environment variables.
// It does not talk to Key Vault; use LoadWithSecrets for that.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.ApiKey.Value == "" {
		cfg.ApiKey.Value = v.GetString("ADMIN_API_KEY")
	}
	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = v.GetString("JWT_SECRET")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}
	applyAWSEnvFallback(&cfg.Storage.S3)

	if v.GetBool("ERP_ENABLED") {
		cfg.ERP.Enabled = true
	}

	return &cfg, nil
}

// applyAWSEnvFallback fills empty S3 settings from the standard AWS_* variables
func applyAWSEnvFallback(s3 *S3Config) {
	if s3.AccessKeyID == "" {
		s3.AccessKeyID = os.Getenv("AWS_ACCESS_KEY_ID")
	}
	if s3.SecretAccessKey == "" {
		s3.SecretAccessKey = os.Getenv("AWS_SECRET_ACCESS_KEY")
	}
	if s3.Bucket == "" {
		s3.Bucket = os.Getenv("AWS_S3_BUCKET")
	}
	if region := os.Getenv("AWS_REGION"); region != "" && (s3.Region == "" || s3.Region == "us-east-1") {
		s3.Region = region
	}
	if s3.Endpoint == "" {
		s3.Endpoint = os.Getenv("AWS_S3_ENDPOINT")
	}
}

// LoadWithSecrets loads configuration and resolves secrets from the configured source.
// Key Vault is only consulted when USE_AZURE_KEY_VAULT=true in staging or production.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled outside staging/production, using environment variables",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}

	logger.Info("Loading secrets from Azure Key Vault",
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)

	if err := ApplySecrets(ctx, cfg, provider); err != nil {
		return nil, err
	}

	logger.Info("Secrets loaded from vault successfully")
	return cfg, nil
}

// SecretSource is the subset of secrets.Provider used to fill in the config
type SecretSource interface {
	GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error)
}

// ApplySecrets overwrites credential fields with values from src.
// Missing secrets leave the existing value untouched, except the JWT secret which is required.
func ApplySecrets(ctx context.Context, cfg *Config, src SecretSource) error {
	bindings := []struct {
		secret string
		env    string
		target *string
	}{
		{"postgres-host", "DATABASE_HOST", &cfg.Database.Host},
		{"postgres-user", "DATABASE_USER", &cfg.Database.User},
		{"postgres-password", "DATABASE_PASSWORD", &cfg.Database.Password},
		{"admin-api-key", "ADMIN_API_KEY", &cfg.ApiKey.Value},
		{"jwt-secret", "JWT_SECRET", &cfg.Auth.JWTSecret},
		{"storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING", &cfg.Storage.CloudConnectionString},
		{"s3-access-key-id", "AWS_ACCESS_KEY_ID", &cfg.Storage.S3.AccessKeyID},
		{"s3-secret-access-key", "AWS_SECRET_ACCESS_KEY", &cfg.Storage.S3.SecretAccessKey},
		{"erp-url", "ERP_URL", &cfg.ERP.URL},
		{"erp-username", "ERP_USER", &cfg.ERP.User},
		{"erp-password", "ERP_PASSWORD", &cfg.ERP.Password},
	}

	for _, b := range bindings {
		if value, err := src.GetSecretOrEnv(ctx, b.secret, b.env); err == nil && value != "" {
			*b.target = value
		}
	}

	if sslMode := os.Getenv("DATABASE_SSLMODE"); sslMode != "" {
		cfg.Database.SSLMode = sslMode
	}

	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("jwt secret is not configured")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "MedCare Repair API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "repairs")
	v.SetDefault("database.user", "repairs_user")
	v.SetDefault("database.password", "repairs_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)
	v.SetDefault("database.connectAttempts", 5)

	v.SetDefault("auth.jwtSecret", "")
	v.SetDefault("auth.issuer", "medcare-repair-api")
	v.SetDefault("auth.tokenTTL", 60*24*7)

	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.publicBaseURL", "/api/v1/files")
	v.SetDefault("storage.cloudContainer", "documents")
	v.SetDefault("storage.maxUploadSizeMB", 25)
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.forcePathStyle", false)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 60)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)

	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"Location", "X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.hstsPreload", false)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.xssProtection", "1; mode=block")
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.permissionsPolicy", "geolocation=(), microphone=(), camera=()")

	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 60)
	v.SetDefault("rateLimit.requestsPerMinuteAuth", 300)
	v.SetDefault("rateLimit.burstSize", 10)
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/db", "/health/ready", "/metrics"})

	v.SetDefault("company.name", "MedCare Solutions")
	v.SetDefault("company.shortName", "MCS")
	v.SetDefault("company.address", "Hazmieh, Mar Roukouz Center 4th Floor")
	v.SetDefault("company.location", "Beirut Lebanon")
	v.SetDefault("company.phone", "+961 03 788345")
	v.SetDefault("company.whatsApp", "+961 70 072401")
	v.SetDefault("company.email", "info@medcare-solutions.com")
	v.SetDefault("company.mofNumber", "513353-601")
	v.SetDefault("company.salesPerson", "MCS Sales")
	v.SetDefault("company.shippedVia", "MCS Endoscopy")
	v.SetDefault("company.defaultDollarRate", 89500)
	v.SetDefault("company.logoPath", "")

	v.SetDefault("jobs.enabled", true)
	v.SetDefault("jobs.overdueInvoiceCron", "0 0 6 * * *")
	v.SetDefault("jobs.lowStockCron", "0 0 7 * * *")
	v.SetDefault("jobs.erpSyncCron", "0 30 2 * * *")
	v.SetDefault("jobs.jobTimeout", 300)

	v.SetDefault("erp.enabled", false)
	v.SetDefault("erp.maxOpenConns", 5)
	v.SetDefault("erp.maxIdleConns", 1)
	v.SetDefault("erp.connMaxLifetime", 300)
	v.SetDefault("erp.queryTimeout", 30)
	v.SetDefault("erp.connectAttempts", 3)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}
