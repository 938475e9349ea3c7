package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/medcare-solutions/repair-api/docs"
	"github.com/medcare-solutions/repair-api/internal/auth"
	"github.com/medcare-solutions/repair-api/internal/config"
	"github.com/medcare-solutions/repair-api/internal/database"
	"github.com/medcare-solutions/repair-api/internal/erp"
	"github.com/medcare-solutions/repair-api/internal/http/handler"
	"github.com/medcare-solutions/repair-api/internal/http/middleware"
	"github.com/medcare-solutions/repair-api/internal/http/router"
	"github.com/medcare-solutions/repair-api/internal/jobs"
	"github.com/medcare-solutions/repair-api/internal/logger"
	"github.com/medcare-solutions/repair-api/internal/metrics"
	"github.com/medcare-solutions/repair-api/internal/pdf"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"github.com/medcare-solutions/repair-api/internal/storage"
	"go.uber.org/zap"
)

// @title MedCare Repair API
// @version 1.0
// @description Back office for the endoscope repair shop: intake, evaluation, quotation, repair, invoicing and stock
// @termsOfService http://swagger.io/terms/

// @contact.name API Support
// @contact.email support@medcare-solutions.com

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token from /auth/login

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-api-key
// @description API Key for system operations
// @Security BearerAuth
// @Security ApiKeyAuth

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	// Load basic configuration first (for logging setup)
	basicCfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.NewLogger(&basicCfg.Logging, &basicCfg.App)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting application",
		zap.String("app", basicCfg.App.Name),
		zap.String("env", basicCfg.App.Environment),
		zap.Int("port", basicCfg.App.Port),
	)

	if basicCfg.App.Environment == "development" || basicCfg.App.Environment == "local" {
		docs.SwaggerInfo.Host = fmt.Sprintf("localhost:%d", basicCfg.App.Port)
	} else {
		docs.SwaggerInfo.Host = ""
	}

	// In development secrets come from the environment, elsewhere from Key Vault
	cfg, err := config.LoadWithSecrets(ctx, log)
	if err != nil {
		return fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.NewDatabase(ctx, &cfg.Database, log)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	fileStorage, err := storage.NewStorage(ctx, &cfg.Storage, log)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	log.Info("Storage initialized", zap.String("mode", cfg.Storage.Mode))

	var appMetrics *metrics.Metrics
	if cfg.Metrics.Enabled {
		appMetrics = metrics.New()
	}

	// The ERP directory is optional; the API runs without it
	var erpClient *erp.Client
	if cfg.ERP.Enabled {
		erpClient, err = erp.NewClient(ctx, &cfg.ERP, log)
		if err != nil {
			log.Warn("ERP connection failed, continuing without it", zap.Error(err))
			erpClient = nil
		}
	} else {
		log.Info("ERP directory not configured, skipping")
	}

	// Repositories
	userRepo := repository.NewUserRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	manufacturerRepo := repository.NewManufacturerRepository(db)
	companyRepo := repository.NewCompanyRepository(db)
	partRepo := repository.NewPartRepository(db)
	scopeRepo := repository.NewScopeRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	repairRepo := repository.NewRepairRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	mediaRepo := repository.NewMediaRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	numberSequenceRepo := repository.NewNumberSequenceRepository(db)
	activityRepo := repository.NewActivityRepository(db)
	auditLogRepo := repository.NewAuditLogRepository(db)

	// Services
	tokens := auth.NewTokenManager(&cfg.Auth)
	activityService := service.NewActivityService(activityRepo, log)
	notificationService := service.NewNotificationService(notificationRepo, userRepo, log)
	numberSequenceService := service.NewNumberSequenceService(numberSequenceRepo, log)
	settingsService := service.NewSettingsService(settingsRepo, cfg.Company, log)
	auditLogService := service.NewAuditLogService(auditLogRepo, log)

	var directory service.CompanyDirectory
	if erpClient != nil {
		directory = erpClient
	}

	userService := service.NewUserService(userRepo, tokens, log)
	brandService := service.NewBrandService(brandRepo, scopeRepo, log)
	manufacturerService := service.NewManufacturerService(manufacturerRepo, scopeRepo, log)
	companyService := service.NewCompanyService(companyRepo, directory, activityService, log)
	partService := service.NewPartService(partRepo, log)
	scopeService := service.NewScopeService(scopeRepo, brandRepo, manufacturerRepo, activityService, log)
	evaluationService := service.NewEvaluationService(evaluationRepo, scopeRepo, numberSequenceService, activityService, log)
	quotationService := service.NewQuotationService(quotationRepo, scopeRepo, evaluationRepo, numberSequenceService, activityService, log)
	repairService := service.NewRepairService(repairRepo, scopeRepo, evaluationRepo, quotationRepo, inventoryRepo,
		numberSequenceService, notificationService, activityService, log)
	inventoryService := service.NewInventoryService(inventoryRepo, notificationService, activityService, appMetrics, log)
	invoiceService := service.NewInvoiceService(invoiceRepo, scopeRepo, quotationRepo, repairRepo, settingsService,
		numberSequenceService, notificationService, activityService, appMetrics, log)
	mediaService := service.NewMediaService(mediaRepo, fileStorage, log)
	dashboardService := service.NewDashboardService(scopeRepo, quotationRepo, repairRepo, invoiceRepo, inventoryRepo, log)
	documentService := service.NewDocumentService(quotationRepo, invoiceRepo, scopeRepo, brandRepo, manufacturerRepo,
		companyRepo, settingsService, pdf.NewRenderer(letterhead(&cfg.Company, log)), fileStorage, appMetrics, cfg.Company, log)

	// Middleware
	authMiddleware := auth.NewMiddleware(tokens, cfg.ApiKey.Value, log)
	rateLimiter := middleware.NewRateLimiter(&cfg.RateLimit, log)
	auditMiddleware := middleware.NewAuditMiddleware(auditLogService, nil, log)

	handlers := router.Handlers{
		Auth:         handler.NewAuthHandler(userService, log),
		User:         handler.NewUserHandler(userService, log),
		Settings:     handler.NewSettingsHandler(settingsService, log),
		Brand:        handler.NewBrandHandler(brandService, log),
		Manufacturer: handler.NewManufacturerHandler(manufacturerService, log),
		Company:      handler.NewCompanyHandler(companyService, log),
		Part:         handler.NewPartHandler(partService, log),
		Scope:        handler.NewScopeHandler(scopeService, log),
		Evaluation:   handler.NewEvaluationHandler(evaluationService, log),
		Quotation:    handler.NewQuotationHandler(quotationService, documentService, log),
		Repair:       handler.NewRepairHandler(repairService, log),
		Inventory:    handler.NewInventoryHandler(inventoryService, log),
		Invoice:      handler.NewInvoiceHandler(invoiceService, documentService, log),
		Media:        handler.NewMediaHandler(mediaService, cfg.Storage.MaxUploadSizeMB, log),
		Notification: handler.NewNotificationHandler(notificationService, log),
		Activity:     handler.NewActivityHandler(activityService, log),
		Audit:        handler.NewAuditHandler(auditLogService, log),
		Dashboard:    handler.NewDashboardHandler(dashboardService, log),
	}
	if cfg.Storage.Mode == "local" || cfg.Storage.Mode == "" {
		handlers.File = handler.NewFileHandler(fileStorage, log)
	}

	rt := router.NewRouter(cfg, log, db, appMetrics, authMiddleware, rateLimiter, auditMiddleware, handlers)

	var scheduler *jobs.Scheduler
	if cfg.Jobs.Enabled {
		scheduler = jobs.NewScheduler(log, appMetrics, cfg.Jobs.JobTimeoutDuration())
		svc := jobs.Services{Invoices: invoiceService, Inventory: inventoryService}
		if erpClient != nil {
			svc.Companies = companyService
		}
		if err := jobs.Register(scheduler, &cfg.Jobs, svc, log); err != nil {
			log.Error("Failed to register background jobs", zap.Error(err))
		}
		scheduler.Start()
	} else {
		log.Info("Background jobs disabled")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      rt.Setup(),
		ReadTimeout:  cfg.Server.ReadTimeoutDuration(),
		WriteTimeout: cfg.Server.WriteTimeoutDuration(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-shutdown:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))

		if scheduler != nil {
			<-scheduler.Stop().Done()
			log.Info("Scheduler stopped")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("Failed to shutdown gracefully", zap.Error(err))
			return err
		}

		if erpClient != nil {
			if err := erpClient.Close(); err != nil {
				log.Warn("Error closing ERP connection", zap.Error(err))
			}
		}

		log.Info("Server stopped gracefully")
	}

	return nil
}

// letterhead builds the PDF letterhead from config, loading the logo file when set
func letterhead(c *config.CompanyConfig, log *zap.Logger) pdf.Letterhead {
	head := pdf.Letterhead{
		Name:        c.Name,
		ShortName:   c.ShortName,
		Address:     c.Address,
		Location:    c.Location,
		Phone:       c.Phone,
		WhatsApp:    c.WhatsApp,
		Email:       c.Email,
		SalesPerson: c.SalesPerson,
		ShippedVia:  c.ShippedVia,
	}
	if c.LogoPath == "" {
		return head
	}
	logo, err := os.ReadFile(c.LogoPath)
	if err != nil {
		log.Warn("Failed to read letterhead logo, rendering without it",
			zap.String("path", c.LogoPath), zap.Error(err))
		return head
	}
	head.Logo = logo
	head.LogoType = pdf.LogoTypeFromPath(c.LogoPath)
	return head
}
