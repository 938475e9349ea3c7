package auth

import (
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"go.uber.org/zap"
)

const apiKeyHeader = "x-api-key"

var (
	errMissingCredentials = errors.New("missing authorization header")
	errBadScheme          = errors.New("authorization header must use the Bearer scheme")
	errBadAPIKey          = errors.New("invalid API key")
)

// TokenValidator turns a bearer token into a user context
type TokenValidator interface {
	ValidateToken(token string) (*UserContext, error)
}

// Middleware authenticates requests with either the service API key or a
// bearer JWT issued by TokenManager.
type Middleware struct {
	tokens TokenValidator
	apiKey string
	logger *zap.Logger
}

func NewMiddleware(tokens TokenValidator, apiKey string, logger *zap.Logger) *Middleware {
	return &Middleware{tokens: tokens, apiKey: apiKey, logger: logger}
}

// Authenticate resolves the caller and stores it in the request context.
// A present but wrong API key is rejected without trying the bearer token.
func (m *Middleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, method, err := m.resolve(r)
		if err != nil {
			m.logger.Warn("authentication rejected",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.String("auth_type", method),
				zap.Error(err),
			)
			writeAuthError(w, http.StatusUnauthorized, domain.ErrorTypeUnauthorized, "Unauthorized", err.Error())
			return
		}

		m.logger.Debug("request authenticated",
			zap.String("path", r.URL.Path),
			zap.String("auth_type", method),
			zap.String("user_id", userCtx.UserID.String()),
		)
		next.ServeHTTP(w, r.WithContext(WithUserContext(r.Context(), userCtx)))
	})
}

func (m *Middleware) resolve(r *http.Request) (*UserContext, string, error) {
	if key := r.Header.Get(apiKeyHeader); key != "" {
		if !m.validAPIKey(key) {
			return nil, "api_key", errBadAPIKey
		}
		return NewSystemContext(), "api_key", nil
	}

	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, "jwt", errMissingCredentials
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return nil, "jwt", errBadScheme
	}

	userCtx, err := m.tokens.ValidateToken(token)
	if err != nil {
		return nil, "jwt", err
	}
	return userCtx, "jwt", nil
}

// RequireAdmin only lets administrators and API-key callers through.
func (m *Middleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userCtx, ok := FromContext(r.Context())
		if !ok || !userCtx.IsAdmin() {
			writeAuthError(w, http.StatusForbidden, domain.ErrorTypeForbidden, "Forbidden", "admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) validAPIKey(key string) bool {
	if m.apiKey == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(key), []byte(m.apiKey)) == 1
}

func writeAuthError(w http.ResponseWriter, status int, errType, title, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(domain.APIError{
		Type:   errType,
		Title:  title,
		Status: status,
		Detail: detail,
	})
}
