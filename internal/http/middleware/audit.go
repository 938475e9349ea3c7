package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/service"
	"go.uber.org/zap"
)

// maxAuditBody caps how much of a request body is read for the audit payload
const maxAuditBody = 64 * 1024

// sensitiveFields are dropped from audited payloads
var sensitiveFields = []string{"password", "secret", "token", "apiKey"}

// AuditLogger is the part of the audit service the middleware needs
type AuditLogger interface {
	Log(ctx context.Context, r *http.Request, entry service.LogEntry) error
}

// AuditConfig holds configuration for audit middleware
type AuditConfig struct {
	// SkipPaths contains path prefixes that are never audited
	SkipPaths []string
	// SkipMethods contains HTTP methods that are never audited
	SkipMethods []string
	// AuditReads enables auditing of GET requests
	AuditReads bool
	// Sync writes the entry before the response returns. Used by tests.
	Sync bool
}

// DefaultAuditConfig returns default audit configuration
func DefaultAuditConfig() *AuditConfig {
	return &AuditConfig{
		SkipPaths: []string{
			"/health",
			"/metrics",
			"/swagger",
			"/api/v1/auth/login",
		},
		SkipMethods: []string{
			http.MethodOptions,
			http.MethodHead,
		},
	}
}

// AuditMiddleware records mutating API requests in the audit log
type AuditMiddleware struct {
	audit  AuditLogger
	config *AuditConfig
	logger *zap.Logger
}

// NewAuditMiddleware creates a new audit middleware
func NewAuditMiddleware(audit AuditLogger, config *AuditConfig, logger *zap.Logger) *AuditMiddleware {
	if config == nil {
		config = DefaultAuditConfig()
	}
	return &AuditMiddleware{
		audit:  audit,
		config: config,
		logger: logger,
	}
}

// Audit returns middleware that writes one audit entry per mutating request
func (m *AuditMiddleware) Audit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m.audit == nil || !m.shouldAudit(r) {
			next.ServeHTTP(w, r)
			return
		}

		var body []byte
		if r.Body != nil && isJSON(r) {
			body, _ = io.ReadAll(io.LimitReader(r.Body, maxAuditBody))
			r.Body = io.NopCloser(io.MultiReader(bytes.NewReader(body), r.Body))
		}

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		entry := m.buildEntry(r, rw.statusCode, body)
		ctx := context.WithoutCancel(r.Context())
		if m.config.Sync {
			m.write(ctx, r, entry)
			return
		}
		go m.write(ctx, r, entry)
	})
}

func (m *AuditMiddleware) write(ctx context.Context, r *http.Request, entry service.LogEntry) {
	if err := m.audit.Log(ctx, r, entry); err != nil {
		m.logger.Warn("failed to create audit log entry",
			zap.String("path", r.URL.Path),
			zap.String("method", r.Method),
			zap.Error(err))
	}
}

func (m *AuditMiddleware) shouldAudit(r *http.Request) bool {
	for _, method := range m.config.SkipMethods {
		if r.Method == method {
			return false
		}
	}
	if r.Method == http.MethodGet && !m.config.AuditReads {
		return false
	}
	for _, skip := range m.config.SkipPaths {
		if strings.HasPrefix(r.URL.Path, skip) {
			return false
		}
	}
	return true
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func (m *AuditMiddleware) buildEntry(r *http.Request, status int, body []byte) service.LogEntry {
	entityType, entityID := entityFromRoute(r)
	return service.LogEntry{
		Action:     methodToAction(r.Method),
		EntityType: entityType,
		EntityID:   entityID,
		StatusCode: status,
		Payload:    scrubPayload(body),
	}
}

// scrubPayload removes sensitive fields from a JSON object body.
// Bodies that are not JSON objects are not recorded.
func scrubPayload(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var parsed map[string]interface{}
	if json.Unmarshal(body, &parsed) != nil {
		return ""
	}
	for _, field := range sensitiveFields {
		delete(parsed, field)
	}
	out, err := json.Marshal(parsed)
	if err != nil {
		return ""
	}
	return string(out)
}

func methodToAction(method string) domain.AuditAction {
	switch method {
	case http.MethodPost:
		return domain.AuditActionCreate
	case http.MethodPut, http.MethodPatch:
		return domain.AuditActionUpdate
	case http.MethodDelete:
		return domain.AuditActionDelete
	default:
		return domain.AuditActionOther
	}
}

// entityFromRoute derives the entity type from the first path segment after
// the API prefix and the id from the {id} route parameter
func entityFromRoute(r *http.Request) (string, *uuid.UUID) {
	path := r.URL.Path
	var entityID *uuid.UUID
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			path = pattern
		}
		if raw := rctx.URLParam("id"); raw != "" {
			if id, err := uuid.Parse(raw); err == nil {
				entityID = &id
			}
		}
	}

	segment := strings.Trim(strings.TrimPrefix(path, "/api/v1"), "/")
	if i := strings.IndexByte(segment, '/'); i >= 0 {
		segment = segment[:i]
	}
	if segment == "" {
		segment = "unknown"
	}
	return segment, entityID
}
