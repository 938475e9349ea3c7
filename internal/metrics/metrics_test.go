package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.DocumentGenerated("invoice", OutcomeUploaded)
	m.DocumentGenerated("invoice", OutcomeUploaded)
	m.DocumentGenerated("quotation", OutcomeInline)
	m.JobRun("overdue_invoices", nil)
	m.JobRun("overdue_invoices", errors.New("db down"))
	m.InvoicesMarkedOverdue(3)
	m.InvoicesMarkedOverdue(0)
	m.SetLowStockItems(4)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.documents.WithLabelValues("invoice", OutcomeUploaded)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.documents.WithLabelValues("quotation", OutcomeInline)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobRuns.WithLabelValues("overdue_invoices", "error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.overdueMarked))
	assert.Equal(t, 4.0, testutil.ToFloat64(m.lowStockItems))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.DocumentGenerated("invoice", OutcomeFailed)
		m.ObserveHTTP(http.MethodGet, "/health", 200, time.Millisecond)
		m.JobRun("low_stock", nil)
		m.InvoicesMarkedOverdue(1)
		m.SetLowStockItems(1)
	})
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveHTTP(http.MethodGet, "/api/v1/scopes/{id}", 200, 20*time.Millisecond)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.True(t, strings.Contains(body, `repair_api_http_requests_total{method="GET",route="/api/v1/scopes/{id}",status="200"} 1`))
	assert.True(t, strings.Contains(body, "repair_api_http_request_duration_seconds"))
}
