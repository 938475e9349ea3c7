package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/auth"
	"github.com/medcare-solutions/repair-api/internal/config"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/metrics"
	"github.com/medcare-solutions/repair-api/internal/service"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func preflight(origin string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/scopes", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", "GET")
	return req
}

func TestCORS_DevelopmentAllowsAllOrigins(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	h := CORS(cfg, "development", zap.NewNop())(okHandler)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, preflight("http://localhost:3000"))

	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_ExplicitOrigins(t *testing.T) {
	cfg := &config.CORSConfig{
		AllowedOrigins: []string{"https://admin.medcare.example"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}
	h := CORS(cfg, "production", zap.NewNop())(okHandler)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, preflight("https://admin.medcare.example"))
	assert.Equal(t, "https://admin.medcare.example", w.Header().Get("Access-Control-Allow-Origin"))

	w = httptest.NewRecorder()
	h.ServeHTTP(w, preflight("https://evil.example"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_ProductionWithoutOriginsDeniesAll(t *testing.T) {
	cfg := &config.CORSConfig{AllowedMethods: []string{"GET"}}
	h := CORS(cfg, "production", zap.NewNop())(okHandler)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, preflight("https://admin.medcare.example"))

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_ExposesLocationAndRequestID(t *testing.T) {
	cfg := &config.CORSConfig{AllowedOrigins: []string{"*"}, AllowedMethods: []string{"GET"}}
	h := CORS(cfg, "development", zap.NewNop())(okHandler)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scopes", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	exposed := w.Header().Get("Access-Control-Expose-Headers")
	assert.Contains(t, exposed, "Location")
	assert.Contains(t, exposed, http.CanonicalHeaderKey(RequestIDHeader))
}

func TestSecurityHeaders(t *testing.T) {
	cfg := &config.SecurityConfig{
		EnableHSTS:            true,
		HSTSMaxAge:            31536000,
		HSTSIncludeSubdomains: true,
		ContentTypeNosniff:    true,
		FrameOptions:          "DENY",
		ContentSecurityPolicy: "default-src 'self'",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
	}
	h := SecurityHeaders(cfg)(okHandler)

	t.Run("api path", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/scopes", nil))

		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "default-src 'self'", w.Header().Get("Content-Security-Policy"))
		assert.Equal(t, "max-age=31536000; includeSubDomains", w.Header().Get("Strict-Transport-Security"))
		assert.Empty(t, w.Header().Get("X-XSS-Protection"))
	})

	t.Run("swagger skips csp", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))

		assert.Empty(t, w.Header().Get("Content-Security-Policy"))
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	})
}

func TestRateLimiter_ByIP(t *testing.T) {
	cfg := &config.RateLimitConfig{
		Enabled:               true,
		RequestsPerMinute:     2,
		RequestsPerMinuteAuth: 10,
		WhitelistPaths:        []string{"/health/*"},
		WhitelistIPs:          []string{"10.0.0.9"},
	}
	h := NewRateLimiter(cfg, zap.NewNop()).LimitByIP(okHandler)

	call := func(path, ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = ip + ":4321"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	assert.Equal(t, http.StatusOK, call("/api/v1/scopes", "192.168.1.1").Code)
	assert.Equal(t, http.StatusOK, call("/api/v1/scopes", "192.168.1.1").Code)

	w := call("/api/v1/scopes", "192.168.1.1")
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "60", w.Header().Get("Retry-After"))
	var apiErr domain.APIError
	require.NoError(t, json.NewDecoder(w.Body).Decode(&apiErr))
	assert.Equal(t, domain.ErrorTypeRateLimited, apiErr.Type)

	// other clients, whitelisted paths and whitelisted IPs are unaffected
	assert.Equal(t, http.StatusOK, call("/api/v1/scopes", "192.168.1.2").Code)
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, call("/health/db", "192.168.1.1").Code)
		assert.Equal(t, http.StatusOK, call("/api/v1/scopes", "10.0.0.9").Code)
	}
}

func TestRateLimiter_ByUser(t *testing.T) {
	cfg := &config.RateLimitConfig{Enabled: true, RequestsPerMinute: 100, RequestsPerMinuteAuth: 1}
	h := NewRateLimiter(cfg, zap.NewNop()).LimitByUser(okHandler)

	call := func(userID uuid.UUID) int {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/scopes", nil)
		req.RemoteAddr = "192.168.1.1:4321"
		req = req.WithContext(auth.WithUserContext(req.Context(), &auth.UserContext{UserID: userID}))
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w.Code
	}

	alice, bob := uuid.New(), uuid.New()
	assert.Equal(t, http.StatusOK, call(alice))
	assert.Equal(t, http.StatusTooManyRequests, call(alice))
	assert.Equal(t, http.StatusOK, call(bob), "same IP, different user")
}

func TestRateLimiter_Disabled(t *testing.T) {
	cfg := &config.RateLimitConfig{Enabled: false, RequestsPerMinute: 1, RequestsPerMinuteAuth: 1}
	h := NewRateLimiter(cfg, zap.NewNop()).LimitByIP(okHandler)

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/scopes", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []service.LogEntry
}

func (a *recordingAudit) Log(_ context.Context, _ *http.Request, entry service.LogEntry) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
	return nil
}

func auditedRouter(audit *recordingAudit, next http.HandlerFunc) http.Handler {
	cfg := DefaultAuditConfig()
	cfg.Sync = true
	mw := NewAuditMiddleware(audit, cfg, zap.NewNop())

	r := chi.NewRouter()
	r.Use(mw.Audit)
	r.Post("/api/v1/scopes", next)
	r.Put("/api/v1/scopes/{id}", next)
	r.Get("/api/v1/scopes/{id}", next)
	r.Post("/api/v1/auth/login", next)
	return r
}

func TestAudit_RecordsMutations(t *testing.T) {
	audit := &recordingAudit{}
	id := uuid.New()
	h := auditedRouter(audit, func(w http.ResponseWriter, r *http.Request) {
		// the handler must still see the full body
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		assert.Equal(t, "SN-1", body["serialNumber"])
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/scopes/"+id.String(),
		strings.NewReader(`{"serialNumber":"SN-1","password":"hunter2"}`))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.Len(t, audit.entries, 1)
	entry := audit.entries[0]
	assert.Equal(t, domain.AuditActionUpdate, entry.Action)
	assert.Equal(t, "scopes", entry.EntityType)
	require.NotNil(t, entry.EntityID)
	assert.Equal(t, id, *entry.EntityID)
	assert.Equal(t, http.StatusOK, entry.StatusCode)
	assert.Contains(t, entry.Payload, "SN-1")
	assert.NotContains(t, entry.Payload, "hunter2")
}

func TestAudit_SkipsReadsAndLogin(t *testing.T) {
	audit := &recordingAudit{}
	h := auditedRouter(audit, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/scopes/"+uuid.NewString(), nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{}`)))

	assert.Empty(t, audit.entries)
}

func TestAudit_RecordsFailedStatus(t *testing.T) {
	audit := &recordingAudit{}
	h := auditedRouter(audit, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/scopes", strings.NewReader(`[1,2]`)))

	require.Len(t, audit.entries, 1)
	assert.Equal(t, domain.AuditActionCreate, audit.entries[0].Action)
	assert.Equal(t, http.StatusConflict, audit.entries[0].StatusCode)
	assert.Nil(t, audit.entries[0].EntityID)
	assert.Empty(t, audit.entries[0].Payload, "non-JSON content type is not captured")
}

func TestLogging_RequestIDAndMetrics(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	m := metrics.New()

	r := chi.NewRouter()
	r.Use(Logging(zap.New(core), m))
	var seen string
	r.Get("/api/v1/scopes/{id}", func(w http.ResponseWriter, r *http.Request) {
		seen = RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusNotFound)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/scopes/abc", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-123", seen)

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "/api/v1/scopes/{id}", entries[0].ContextMap()["route"])

	assert.Equal(t, 1, testutil.CollectAndCount(m.Registry(), "repair_api_http_requests_total"))
}

func TestLogging_GeneratesRequestID(t *testing.T) {
	h := Logging(zap.NewNop(), nil)(okHandler)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	_, err := uuid.Parse(w.Header().Get(RequestIDHeader))
	assert.NoError(t, err)
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	h := Recovery(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/scopes", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	var apiErr domain.APIError
	require.NoError(t, json.NewDecoder(w.Body).Decode(&apiErr))
	assert.Equal(t, domain.ErrorTypeInternal, apiErr.Type)
	assert.Equal(t, 1, logs.Len())
}

func TestEntityFromRoute_WithoutRouteContext(t *testing.T) {
	entity, id := entityFromRoute(httptest.NewRequest(http.MethodPost, "/api/v1/invoices/x/pdf", nil))
	assert.Equal(t, "invoices", entity)
	assert.Nil(t, id)

	entity, _ = entityFromRoute(httptest.NewRequest(http.MethodPost, "/api/v1", nil))
	assert.Equal(t, "unknown", entity)
}
