package dashboard

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for the dashboard on a dedicated
// registry.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration prometheus.Histogram
	CatalogReloads  prometheus.Counter
	CatalogSize     prometheus.Gauge
}

// NewMetrics constructs and registers all collectors.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_requests_total",
			Help: "Total HTTP requests served by the dashboard.",
		},
		[]string{"route", "status"},
	)
	requestDuration := prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dashboard_request_duration_seconds",
			Help:    "Request latency for dashboard requests.",
			Buckets: prometheus.DefBuckets,
		},
	)
	catalogReloads := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "dashboard_catalog_reloads_total",
			Help: "Times the catalog file was re-read from disk.",
		},
	)
	catalogSize := prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "dashboard_catalog_records",
			Help: "Records in the currently loaded catalog.",
		},
	)

	registry.MustRegister(requests, requestDuration, catalogReloads, catalogSize)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: requestDuration,
		CatalogReloads:  catalogReloads,
		CatalogSize:     catalogSize,
	}
}

// ObserveRequest records one served request.
func (m *Metrics) ObserveRequest(route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.RequestsTotal.WithLabelValues(route, status).Inc()
	m.RequestDuration.Observe(d.Seconds())
}

// SetCatalogSize updates the loaded-record gauge.
func (m *Metrics) SetCatalogSize(n int) {
	if m == nil {
		return
	}
	m.CatalogSize.Set(float64(n))
}
