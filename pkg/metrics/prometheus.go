// Package metrics provides Prometheus metrics for the toolboard service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the toolboard service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	constLabels    map[string]string
	registry       prometheus.Registerer

	// Scoring
	toolsScored    prometheus.Counter
	scoringLatency prometheus.Histogram
	catalogTools   prometheus.Gauge
	categories     prometheus.Gauge

	// Snapshots
	snapshotsWritten     prometheus.Counter
	snapshotsSkipped     prometheus.Counter
	snapshotWriteLatency prometheus.Histogram
	snapshotLoadLatency  prometheus.Histogram
	snapshotLastUnix     prometheus.Gauge
	snapshotsStored      prometheus.Gauge
	significantMovers    prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegisterer(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "toolboard",
		subsystem:      "leaderboard",
		latencyBuckets: []float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
		constLabels:    map[string]string{},
		registry:       prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counter(name, help string) prometheus.Counter {
	return promauto.With(m.registry).NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) gauge(name, help string) prometheus.Gauge {
	return promauto.With(m.registry).NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	})
}

func (m *Manager) histogram(name, help string) prometheus.Histogram {
	return promauto.With(m.registry).NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.latencyBuckets,
		ConstLabels: m.constLabels,
	})
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.toolsScored = m.counter("tools_scored_total", "Total number of tool records scored")
	m.scoringLatency = m.histogram("scoring_latency_milliseconds", "Histogram of full catalog ranking latency in milliseconds")
	m.catalogTools = m.gauge("catalog_tools", "Number of tool records in the last loaded catalog")
	m.categories = m.gauge("categories", "Number of categories in the last ranking")

	m.snapshotsWritten = m.counter("snapshots_written_total", "Total number of weekly snapshots written")
	m.snapshotsSkipped = m.counter("snapshots_skipped_total", "Total number of batch runs skipped because the week already had a snapshot")
	m.snapshotWriteLatency = m.histogram("snapshot_write_latency_milliseconds", "Histogram of snapshot write latency in milliseconds")
	m.snapshotLoadLatency = m.histogram("snapshot_load_latency_milliseconds", "Histogram of snapshot load latency in milliseconds")
	m.snapshotLastUnix = m.gauge("snapshot_last_unix", "Unix time of the last written snapshot")
	m.snapshotsStored = m.gauge("snapshots_stored", "Number of snapshots held by the repository")
	m.significantMovers = m.gauge("significant_movers", "Number of significant movers in the last batch run")

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_requests_total",
			Help:        "Total number of HTTP requests by endpoint and method",
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "http_request_duration_milliseconds",
			Help:        "HTTP request duration in milliseconds",
			Buckets:     m.latencyBuckets,
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_component_total",
			Help:        "Total number of errors by component and error type",
			ConstLabels: m.constLabels,
		},
		[]string{"component", "error_type"},
	)

	m.errorRateByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace:   m.namespace,
			Subsystem:   m.subsystem,
			Name:        "errors_by_endpoint_total",
			Help:        "Total number of errors by endpoint, method and error type",
			ConstLabels: m.constLabels,
		},
		[]string{"endpoint", "method", "error_type"},
	)
}

// RecordToolsScored adds n to the scored tools counter.
func RecordToolsScored(n int) {
	globalManager.toolsScored.Add(float64(n))
}

// RecordScoringLatency records ranking latency in milliseconds.
func RecordScoringLatency(latencyMs float64) {
	globalManager.scoringLatency.Observe(latencyMs)
}

// UpdateCatalogTools sets the size of the last loaded catalog.
func UpdateCatalogTools(count int) {
	globalManager.catalogTools.Set(float64(count))
}

// UpdateCategories sets the category count of the last ranking.
func UpdateCategories(count int) {
	globalManager.categories.Set(float64(count))
}

// RecordSnapshotWritten increments the written snapshots counter and stamps
// the last write time.
func RecordSnapshotWritten(unix int64) {
	globalManager.snapshotsWritten.Inc()
	globalManager.snapshotLastUnix.Set(float64(unix))
}

// RecordSnapshotSkipped increments the skipped batch runs counter.
func RecordSnapshotSkipped() {
	globalManager.snapshotsSkipped.Inc()
}

// RecordSnapshotWriteLatency records snapshot write latency in milliseconds.
func RecordSnapshotWriteLatency(latencyMs float64) {
	globalManager.snapshotWriteLatency.Observe(latencyMs)
}

// RecordSnapshotLoadLatency records snapshot load latency in milliseconds.
func RecordSnapshotLoadLatency(latencyMs float64) {
	globalManager.snapshotLoadLatency.Observe(latencyMs)
}

// UpdateSnapshotsStored sets the number of stored snapshots.
func UpdateSnapshotsStored(count int) {
	globalManager.snapshotsStored.Set(float64(count))
}

// UpdateSignificantMovers sets the significant mover count of the last run.
func UpdateSignificantMovers(count int) {
	globalManager.significantMovers.Set(float64(count))
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
