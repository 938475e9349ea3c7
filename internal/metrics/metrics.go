package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "repair_api"

// Document outcomes recorded by the PDF pipeline
const (
	OutcomeUploaded = "uploaded"
	OutcomeInline   = "inline"
	OutcomeFailed   = "failed"
)

// Metrics owns the Prometheus collectors for the API.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests  *prometheus.CounterVec
	httpDuration  *prometheus.HistogramVec
	documents     *prometheus.CounterVec
	jobRuns       *prometheus.CounterVec
	overdueMarked prometheus.Counter
	lowStockItems prometheus.Gauge
}

// New registers every collector on a private registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		documents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_generated_total",
			Help:      "Generated PDF documents by kind and outcome.",
		}, []string{"kind", "outcome"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "job_runs_total",
			Help:      "Background job runs by job name and result.",
		}, []string{"job", "result"}),
		overdueMarked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "invoices_marked_overdue_total",
			Help:      "Invoices moved from sent to overdue.",
		}),
		lowStockItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inventory_low_stock_items",
			Help:      "Inventory items at or below their reorder point at the last check.",
		}),
	}

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests,
		m.httpDuration,
		m.documents,
		m.jobRuns,
		m.overdueMarked,
		m.lowStockItems,
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry (used by tests)
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP records one finished request
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// DocumentGenerated counts a PDF run for kind with the given outcome
func (m *Metrics) DocumentGenerated(kind, outcome string) {
	if m == nil {
		return
	}
	m.documents.WithLabelValues(kind, outcome).Inc()
}

// JobRun counts a job execution
func (m *Metrics) JobRun(job string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.jobRuns.WithLabelValues(job, result).Inc()
}

// InvoicesMarkedOverdue adds n to the overdue counter
func (m *Metrics) InvoicesMarkedOverdue(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.overdueMarked.Add(float64(n))
}

// SetLowStockItems records the current low-stock count
func (m *Metrics) SetLowStockItems(n int) {
	if m == nil {
		return
	}
	m.lowStockItems.Set(float64(n))
}
