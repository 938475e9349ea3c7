package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/medcare-solutions/repair-api/internal/domain"
	"github.com/medcare-solutions/repair-api/internal/repository"
	"github.com/medcare-solutions/repair-api/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseListParams(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		page     int
		pageSize int
		sort     repository.SortConfig
		search   string
	}{
		{
			name:     "defaults",
			query:    "",
			page:     1,
			pageSize: repository.DefaultPageSize,
			sort:     repository.DefaultSortConfig(),
		},
		{
			name:     "limit and descending sort",
			query:    "page=3&limit=50&sort=-serialNumber",
			page:     3,
			pageSize: 50,
			sort:     repository.SortConfig{Field: "serialNumber", Order: repository.SortOrderDesc},
		},
		{
			name:     "pageSize alias with sortBy",
			query:    "pageSize=15&sortBy=name&sortOrder=asc&search=%20olympus%20",
			page:     1,
			pageSize: 15,
			sort:     repository.SortConfig{Field: "name", Order: repository.SortOrderAsc},
			search:   "olympus",
		},
		{
			name:     "clamped",
			query:    "page=-1&limit=100000",
			page:     1,
			pageSize: repository.MaxPageSize,
			sort:     repository.DefaultSortConfig(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseListParams(httptest.NewRequest(http.MethodGet, "/scopes?"+tt.query, nil))
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.pageSize, p.PageSize)
			assert.Equal(t, tt.sort, p.Sort)
			assert.Equal(t, tt.search, p.Search)
		})
	}
}

func TestQueryHelpers(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/x?status=approved&scopeId=bad", nil)

	status := queryEnum[domain.ScopeStatus](req, "status")
	require.NotNil(t, status)
	assert.Equal(t, domain.ScopeStatusApproved, *status)
	assert.Nil(t, queryEnum[domain.ScopeType](req, "type"))

	_, err := queryUUID(req, "scopeId")
	assert.EqualError(t, err, "invalid scopeId: must be a valid UUID")

	id, err := queryUUID(req, "evaluationId")
	assert.NoError(t, err)
	assert.Nil(t, id)
}

func TestRespondServiceError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		kind   string
	}{
		{"not found", fmt.Errorf("wrap: %w", service.ErrScopeNotFound), http.StatusNotFound, domain.ErrorTypeNotFound},
		{"conflict", service.ErrDuplicateSerialNumber, http.StatusConflict, domain.ErrorTypeConflict},
		{"related records", &domain.RelatedRecordsError{Entity: "brand", Related: []domain.RelatedCount{{Collection: "scopes", Count: 2}}},
			http.StatusConflict, domain.ErrorTypeConflict},
		{"bad request", service.ErrDiscountExceedsPrice, http.StatusBadRequest, domain.ErrorTypeBadRequest},
		{"unauthorized", service.ErrInvalidCredentials, http.StatusUnauthorized, domain.ErrorTypeUnauthorized},
		{"forbidden", service.ErrPermissionDenied, http.StatusForbidden, domain.ErrorTypeForbidden},
		{"erp", service.ErrERPNotConfigured, http.StatusServiceUnavailable, domain.ErrorTypeUnavailable},
		{"unknown", errors.New("connection reset"), http.StatusInternalServerError, domain.ErrorTypeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			respondServiceError(rr, zap.NewNop(), tt.err, "do thing")

			assert.Equal(t, tt.status, rr.Code)
			assert.Equal(t, tt.kind, decodeAPIError(t, rr).Type)
		})
	}
}

func TestRespondServiceError_HidesInternalDetail(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	rr := httptest.NewRecorder()

	respondServiceError(rr, zap.New(core), errors.New("pq: password authentication failed"), "list scopes")

	apiErr := decodeAPIError(t, rr)
	assert.Equal(t, "Failed to list scopes", apiErr.Detail)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "failed to list scopes", logs.All()[0].Message)
}

func TestRespondCreated(t *testing.T) {
	rr := httptest.NewRecorder()
	id := uuid.MustParse("01000000-0000-0000-0000-000000000000")
	respondCreated(rr, "invoices", id, map[string]string{"ok": "yes"})

	assert.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "/api/v1/invoices/01000000-0000-0000-0000-000000000000", rr.Header().Get("Location"))
	assert.JSONEq(t, `{"ok":"yes"}`, rr.Body.String())
}
