package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metric collectors for the catalog server.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics.
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	HTTPResponseSize    *prometheus.HistogramVec

	// Catalog metrics.
	CatalogServedTotal *prometheus.CounterVec
	CatalogAPIs        prometheus.Gauge

	// Rate limiting.
	RateLimitRejectionsTotal prometheus.Counter

	// Server lifecycle.
	ServerStartTime prometheus.Gauge
}

// New creates and registers all Prometheus metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,

		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "apicatalog_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"method", "path_pattern", "status_code"}),

		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "apicatalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path_pattern"}),

		HTTPResponseSize: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "apicatalog_http_response_size_bytes",
			Help:    "HTTP response size in bytes.",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		}, []string{"method", "path_pattern"}),

		CatalogServedTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "apicatalog_catalog_served_total",
			Help: "Catalog responses written, by method and whether proxy headers were honored.",
		}, []string{"method", "forwarded", "status_code"}),

		CatalogAPIs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "apicatalog_catalog_apis",
			Help: "Number of APIs listed in the catalog.",
		}),

		RateLimitRejectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "apicatalog_ratelimit_rejections_total",
			Help: "Requests rejected by the per-client rate limiter.",
		}),

		ServerStartTime: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "apicatalog_server_start_time_seconds",
			Help: "Unix timestamp when the server started.",
		}),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.HTTPResponseSize,
		m.CatalogServedTotal,
		m.CatalogAPIs,
		m.RateLimitRejectionsTotal,
		m.ServerStartTime,
	)

	m.ServerStartTime.Set(float64(time.Now().Unix()))

	// Register Go runtime and process collectors.
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	return m
}

// Registry returns the private Prometheus registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ExpositionHandler serves the registry in the Prometheus text format.
func (m *Metrics) ExpositionHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveHTTP records a finished HTTP request.
func (m *Metrics) ObserveHTTP(method, pathPattern string, statusCode int, seconds float64, bytes int) {
	m.HTTPRequestsTotal.WithLabelValues(method, pathPattern, strconv.Itoa(statusCode)).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, pathPattern).Observe(seconds)
	m.HTTPResponseSize.WithLabelValues(method, pathPattern).Observe(float64(bytes))
}

// IncCatalogServed counts a catalog response.
func (m *Metrics) IncCatalogServed(method string, forwarded bool, statusCode int) {
	m.CatalogServedTotal.WithLabelValues(method, strconv.FormatBool(forwarded), strconv.Itoa(statusCode)).Inc()
}

// SetCatalogAPIs records how many APIs the catalog lists.
func (m *Metrics) SetCatalogAPIs(n int) {
	m.CatalogAPIs.Set(float64(n))
}

// IncRateLimitRejection increments the rate limit rejection counter.
func (m *Metrics) IncRateLimitRejection() {
	m.RateLimitRejectionsTotal.Inc()
}
