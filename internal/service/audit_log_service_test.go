package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"github.com/medcare-solutions/repair-api/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr without port", "192.0.2.10:51234", nil, "192.0.2.10"},
		{"ipv6 remote addr", "[2001:db8::1]:443", nil, "2001:db8::1"},
		{"remote addr without port suffix", "192.0.2.10", nil, "192.0.2.10"},
		{"real ip header", "10.0.0.1:80", map[string]string{"X-Real-IP": "198.51.100.7"}, "198.51.100.7"},
		{"first forwarded hop wins", "10.0.0.1:80", map[string]string{
			"X-Forwarded-For": " 203.0.113.5 , 10.0.0.2",
			"X-Real-IP":       "198.51.100.7",
		}, "203.0.113.5"},
		{"empty forwarded hop falls through", "10.0.0.1:80", map[string]string{"X-Forwarded-For": " ,10.0.0.2"}, "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/scopes", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, service.ClientIP(req))
		})
	}
}

func TestAuditLogService_Log(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := service.NewAuditLogService(repository.NewAuditLogRepository(db), zap.NewNop())
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodPut, "/api/v1/scopes/"+strings.Repeat("x", 600), nil)
	req.RemoteAddr = "192.0.2.10:51234"
	req.Header.Set("X-Request-ID", "req-1")

	// multi-byte runes straddle the payload limit
	payload := strings.Repeat("é", 3000)
	require.NoError(t, svc.Log(ctx, req, service.LogEntry{
		Action:     domain.AuditActionUpdate,
		EntityType: "scopes",
		StatusCode: http.StatusOK,
		Payload:    payload,
	}))

	var stored domain.AuditLog
	require.NoError(t, db.First(&stored).Error)
	assert.Equal(t, "192.0.2.10", stored.IPAddress)
	assert.Equal(t, "req-1", stored.RequestID)
	assert.Equal(t, http.MethodPut, stored.Method)
	assert.Len(t, stored.Path, 500)
	assert.LessOrEqual(t, len(stored.Payload), 4000)
	assert.Greater(t, len(stored.Payload), 3990)
	assert.True(t, utf8.ValidString(stored.Payload))
}
