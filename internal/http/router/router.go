package router

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/medcare-solutions/repair-api/internal/auth"
	"github.com/medcare-solutions/repair-api/internal/config"
	"github.com/medcare-solutions/repair-api/internal/database"
	"github.com/medcare-solutions/repair-api/internal/http/handler"
	"github.com/medcare-solutions/repair-api/internal/http/middleware"
	"github.com/medcare-solutions/repair-api/internal/metrics"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "github.com/medcare-solutions/repair-api/docs" // Import generated swagger docs
)

// Handlers groups every HTTP handler mounted by the router
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Settings     *handler.SettingsHandler
	Brand        *handler.BrandHandler
	Manufacturer *handler.ManufacturerHandler
	Company      *handler.CompanyHandler
	Part         *handler.PartHandler
	Scope        *handler.ScopeHandler
	Evaluation   *handler.EvaluationHandler
	Quotation    *handler.QuotationHandler
	Repair       *handler.RepairHandler
	Inventory    *handler.InventoryHandler
	Invoice      *handler.InvoiceHandler
	Media        *handler.MediaHandler
	File         *handler.FileHandler
	Notification *handler.NotificationHandler
	Activity     *handler.ActivityHandler
	Audit        *handler.AuditHandler
	Dashboard    *handler.DashboardHandler
}

type Router struct {
	cfg             *config.Config
	logger          *zap.Logger
	db              *gorm.DB
	metrics         *metrics.Metrics
	authMiddleware  *auth.Middleware
	rateLimiter     *middleware.RateLimiter
	auditMiddleware *middleware.AuditMiddleware
	h               Handlers
}

func NewRouter(
	cfg *config.Config,
	logger *zap.Logger,
	db *gorm.DB,
	m *metrics.Metrics,
	authMiddleware *auth.Middleware,
	rateLimiter *middleware.RateLimiter,
	auditMiddleware *middleware.AuditMiddleware,
	handlers Handlers,
) *Router {
	return &Router{
		cfg:             cfg,
		logger:          logger,
		db:              db,
		metrics:         m,
		authMiddleware:  authMiddleware,
		rateLimiter:     rateLimiter,
		auditMiddleware: auditMiddleware,
		h:               handlers,
	}
}

func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(rt.logger))
	r.Use(middleware.Logging(rt.logger, rt.metrics))
	r.Use(middleware.SecurityHeaders(&rt.cfg.Security))
	r.Use(middleware.CORS(&rt.cfg.CORS, rt.cfg.App.Environment, rt.logger))
	r.Use(rt.rateLimiter.LimitByIP)

	r.Get("/health", rt.health)
	r.Get("/health/db", rt.healthDB)
	r.Get("/health/ready", rt.healthReady)

	if rt.cfg.Metrics.Enabled && rt.metrics != nil {
		path := rt.cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		r.Handle(path, rt.metrics.Handler())
	}

	if rt.cfg.Server.EnableSwagger {
		r.Get("/swagger/*", httpSwagger.Handler(
			httpSwagger.URL("/swagger/doc.json"),
		))
	}

	r.Route(handler.APIPrefix, func(r chi.Router) {
		// Public routes
		r.Post("/auth/login", rt.h.Auth.Login)
		if rt.h.File != nil {
			r.Get("/files/*", rt.h.File.Serve)
		}

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(rt.authMiddleware.Authenticate)
			r.Use(rt.rateLimiter.LimitByUser)
			r.Use(rt.auditMiddleware.Audit)

			rt.mountAccount(r)
			rt.mountCatalog(r)
			rt.mountWorkflow(r)
			rt.mountBilling(r)

			r.Route("/media", func(r chi.Router) {
				r.Get("/", rt.h.Media.List)
				r.Post("/", rt.h.Media.Upload)
				r.Get("/{id}", rt.h.Media.GetByID)
				r.Get("/{id}/download", rt.h.Media.Download)
				r.With(rt.authMiddleware.RequireAdmin).Delete("/{id}", rt.h.Media.Delete)
			})

			r.Route("/notifications", func(r chi.Router) {
				r.Get("/", rt.h.Notification.List)
				r.Post("/read-all", rt.h.Notification.MarkAllAsRead)
				r.Patch("/{id}", rt.h.Notification.MarkAsRead)
			})

			r.Get("/activities", rt.h.Activity.List)
			r.Get("/dashboard", rt.h.Dashboard.GetMetrics)

			r.Route("/audit", func(r chi.Router) {
				r.Use(rt.authMiddleware.RequireAdmin)
				r.Get("/", rt.h.Audit.List)
				r.Get("/stats", rt.h.Audit.GetStats)
				r.Get("/{id}", rt.h.Audit.GetByID)
			})
		})
	})

	return r
}

// mountAccount registers the current user, user admin and settings routes.
// User reads are filtered by the service: non-admins only see themselves.
func (rt *Router) mountAccount(r chi.Router) {
	admin := rt.authMiddleware.RequireAdmin

	r.Get("/auth/me", rt.h.Auth.Me)

	r.Route("/users", func(r chi.Router) {
		r.Get("/", rt.h.User.List)
		r.With(admin).Post("/", rt.h.User.Create)
		r.Get("/{id}", rt.h.User.GetByID)
		r.Put("/{id}", rt.h.User.Update)
		r.With(admin).Delete("/{id}", rt.h.User.Delete)
	})

	r.Get("/settings", rt.h.Settings.Get)
	r.With(admin).Put("/settings", rt.h.Settings.Update)
}

// mountCatalog registers brands, manufacturers, companies and parts. Writes are admin only.
func (rt *Router) mountCatalog(r chi.Router) {
	admin := rt.authMiddleware.RequireAdmin

	r.Route("/brands", func(r chi.Router) {
		r.Get("/", rt.h.Brand.List)
		r.Get("/{id}", rt.h.Brand.GetByID)
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", rt.h.Brand.Create)
			r.Put("/{id}", rt.h.Brand.Update)
			r.Delete("/{id}", rt.h.Brand.Delete)
		})
	})

	r.Route("/manufacturers", func(r chi.Router) {
		r.Get("/", rt.h.Manufacturer.List)
		r.Get("/countries", rt.h.Manufacturer.Countries)
		r.Get("/{id}", rt.h.Manufacturer.GetByID)
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", rt.h.Manufacturer.Create)
			r.Put("/{id}", rt.h.Manufacturer.Update)
			r.Delete("/{id}", rt.h.Manufacturer.Delete)
		})
	})

	r.Route("/companies", func(r chi.Router) {
		r.Get("/", rt.h.Company.List)
		r.Get("/{id}", rt.h.Company.GetByID)
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", rt.h.Company.Create)
			r.Post("/sync", rt.h.Company.SyncFromERP)
			r.Put("/{id}", rt.h.Company.Update)
			r.Delete("/{id}", rt.h.Company.Delete)
		})
	})

	r.Route("/parts", func(r chi.Router) {
		r.Get("/", rt.h.Part.List)
		r.Get("/{id}", rt.h.Part.GetByID)
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", rt.h.Part.Create)
			r.Put("/{id}", rt.h.Part.Update)
			r.Delete("/{id}", rt.h.Part.Delete)
		})
	})
}

// mountWorkflow registers scopes, evaluations, quotations and inventory.
// Any authenticated user can move a scope through intake, evaluation and quoting.
func (rt *Router) mountWorkflow(r chi.Router) {
	r.Route("/scopes", func(r chi.Router) {
		r.Get("/", rt.h.Scope.List)
		r.Post("/", rt.h.Scope.Create)
		r.Get("/stats", rt.h.Scope.Stats)
		r.Post("/bulk", rt.h.Scope.Bulk)
		r.Get("/{id}", rt.h.Scope.GetByID)
		r.Put("/{id}", rt.h.Scope.Update)
		r.Delete("/{id}", rt.h.Scope.Delete)
		r.Post("/{id}/evaluations", rt.h.Evaluation.CreateFromScope)
	})
	r.Get("/filtered-scopes", rt.h.Scope.ListWithApprovedQuotation)

	r.Route("/evaluations", func(r chi.Router) {
		r.Get("/", rt.h.Evaluation.List)
		r.Post("/", rt.h.Evaluation.Create)
		r.Get("/{id}", rt.h.Evaluation.GetByID)
		r.Put("/{id}", rt.h.Evaluation.Update)
		r.Delete("/{id}", rt.h.Evaluation.Delete)
		r.Post("/{id}/quotations", rt.h.Quotation.CreateFromEvaluation)
	})
	r.Get("/evaluations-by-scope/{scopeId}", rt.h.Evaluation.ListByScope)
	r.Get("/filtered-evaluations", rt.h.Evaluation.ListWithApprovedQuotation)

	r.Route("/quotations", func(r chi.Router) {
		r.Get("/", rt.h.Quotation.List)
		r.Post("/", rt.h.Quotation.Create)
		r.Get("/{id}", rt.h.Quotation.GetByID)
		r.Put("/{id}", rt.h.Quotation.Update)
		r.Delete("/{id}", rt.h.Quotation.Delete)
		r.Post("/{id}/generate-pdf", rt.h.Quotation.GeneratePDF)
		r.With(rt.authMiddleware.RequireAdmin).Post("/{id}/invoices", rt.h.Invoice.CreateFromQuotation)
	})

	r.Route("/inventory", func(r chi.Router) {
		r.Get("/", rt.h.Inventory.List)
		r.Post("/", rt.h.Inventory.Create)
		r.Get("/low-stock", rt.h.Inventory.LowStock)
		r.Get("/{id}", rt.h.Inventory.GetByID)
		r.Put("/{id}", rt.h.Inventory.Update)
		r.Delete("/{id}", rt.h.Inventory.Delete)
		r.Post("/{id}/adjust", rt.h.Inventory.Adjust)
	})
}

// mountBilling registers repairs and invoices. Writes are admin only.
func (rt *Router) mountBilling(r chi.Router) {
	admin := rt.authMiddleware.RequireAdmin

	r.Route("/repairs", func(r chi.Router) {
		r.Get("/", rt.h.Repair.List)
		r.Get("/{id}", rt.h.Repair.GetByID)
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", rt.h.Repair.Create)
			r.Put("/{id}", rt.h.Repair.Update)
			r.Delete("/{id}", rt.h.Repair.Delete)
		})
	})

	r.Route("/invoices", func(r chi.Router) {
		r.Get("/", rt.h.Invoice.List)
		r.Get("/overdue", rt.h.Invoice.Overdue)
		r.Get("/{id}", rt.h.Invoice.GetByID)
		r.Post("/{id}/generate-pdf", rt.h.Invoice.GeneratePDF)
		r.Group(func(r chi.Router) {
			r.Use(admin)
			r.Post("/", rt.h.Invoice.Create)
			r.Put("/{id}", rt.h.Invoice.Update)
			r.Delete("/{id}", rt.h.Invoice.Delete)
		})
	})
}

func writeHealth(w http.ResponseWriter, status int, body map[string]interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// health is the liveness probe
func (rt *Router) health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// healthDB is the database probe with pool statistics
func (rt *Router) healthDB(w http.ResponseWriter, r *http.Request) {
	stats, err := database.HealthCheckWithStats(rt.db)
	if err != nil {
		rt.logger.Error("database health check failed", zap.Error(err))
		writeHealth(w, http.StatusServiceUnavailable, map[string]interface{}{
			"status":  "unhealthy",
			"error":   err.Error(),
			"service": "database",
		})
		return
	}

	writeHealth(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "database",
		"stats": map[string]interface{}{
			"max_open_connections": stats.MaxOpenConnections,
			"open_connections":     stats.OpenConnections,
			"in_use":               stats.InUse,
			"idle":                 stats.Idle,
			"wait_count":           stats.WaitCount,
			"wait_duration_ms":     stats.WaitDuration.Milliseconds(),
		},
	})
}

// healthReady is the readiness probe across dependencies
func (rt *Router) healthReady(w http.ResponseWriter, r *http.Request) {
	checks := map[string]interface{}{}
	status := http.StatusOK

	if err := database.HealthCheck(rt.db); err != nil {
		rt.logger.Error("database health check failed", zap.Error(err))
		checks["database"] = map[string]interface{}{"status": "unhealthy", "error": err.Error()}
		status = http.StatusServiceUnavailable
	} else {
		checks["database"] = map[string]interface{}{"status": "healthy"}
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}
	writeHealth(w, status, map[string]interface{}{
		"status": overall,
		"checks": checks,
	})
}
