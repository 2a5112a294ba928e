// Package metrics provides Prometheus metrics for the roster service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Default metrics configuration constants.
const (
	defaultRefreshInterval = 10 * time.Second
)

var defaultHTTPBuckets = []float64{0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000}

// Manager manages all Prometheus metrics for the roster service.
type Manager struct {
	namespace       string
	subsystem       string
	httpBuckets     []float64
	enabled         bool
	refreshInterval time.Duration
	constLabels     map[string]string
	metricPrefix    string
	registry        prometheus.Registerer

	// Pipeline runs
	pipelineRuns     *prometheus.CounterVec
	pipelineDuration prometheus.Histogram
	sourceLoadTime   *prometheus.HistogramVec
	sourceRows       *prometheus.GaugeVec

	// Reconciliation quality
	rosterRows         *prometheus.GaugeVec
	overridesApplied   prometheus.Counter
	overridesUnmatched prometheus.Counter
	zeroFilledFields   prometheus.Counter
	duplicateKeys      prometheus.Counter
	waypointsDropped   prometheus.Counter

	// Snapshot publication
	snapshotsPublished prometheus.Counter
	snapshotLastUnix   prometheus.Gauge

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorRateByComponent *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
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
		namespace:       "jo2024",
		subsystem:       "roster",
		httpBuckets:     defaultHTTPBuckets,
		enabled:         true,
		refreshInterval: defaultRefreshInterval,
		constLabels:     map[string]string{},
		metricPrefix:    "",
		registry:        prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// Enabled reports whether collection is on.
func (m *Manager) Enabled() bool {
	return m.enabled
}

// RefreshInterval is how often gauge updaters should run.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

func (m *Manager) name(n string) string {
	if m.metricPrefix == "" {
		return n
	}
	return m.metricPrefix + "_" + n
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        m.name(name),
		Help:        help,
		ConstLabels: m.constLabels,
		Buckets:     buckets,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.pipelineRuns = auto.NewCounterVec(
		m.counterOpts("pipeline_runs_total", "Total number of pipeline runs by status"),
		[]string{"status"},
	)
	m.pipelineDuration = auto.NewHistogram(
		m.histogramOpts("pipeline_duration_milliseconds", "Duration of a full pipeline run in milliseconds",
			[]float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000}),
	)
	m.sourceLoadTime = auto.NewHistogramVec(
		m.histogramOpts("source_load_milliseconds", "Time spent reading one source file in milliseconds",
			[]float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000}),
		[]string{"source"},
	)
	m.sourceRows = auto.NewGaugeVec(
		m.gaugeOpts("source_rows", "Rows read from each source in the last successful run"),
		[]string{"source"},
	)

	m.rosterRows = auto.NewGaugeVec(
		m.gaugeOpts("roster_rows", "Roster rows in the current snapshot by source presence"),
		[]string{"presence"},
	)
	m.overridesApplied = auto.NewCounter(
		m.counterOpts("overrides_applied_total", "Total number of roster rows patched by an override"),
	)
	m.overridesUnmatched = auto.NewCounter(
		m.counterOpts("overrides_unmatched_total", "Total number of overrides whose key matched no row"),
	)
	m.zeroFilledFields = auto.NewCounter(
		m.counterOpts("zero_filled_fields_total", "Total number of blank medal counts filled with zero"),
	)
	m.duplicateKeys = auto.NewCounter(
		m.counterOpts("duplicate_keys_total", "Total number of natural keys seen more than once in a source"),
	)
	m.waypointsDropped = auto.NewCounter(
		m.counterOpts("waypoints_dropped_total", "Total number of torch rows dropped for missing coordinates"),
	)

	m.snapshotsPublished = auto.NewCounter(
		m.counterOpts("snapshots_published_total", "Total number of roster snapshots published"),
	)
	m.snapshotLastUnix = auto.NewGauge(
		m.gaugeOpts("snapshot_last_unix", "Unix time of the last published snapshot"),
	)

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.httpBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component and type"),
		[]string{"component", "error_type"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(
		m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"),
	)
	m.systemGoroutineCount = auto.NewGauge(
		m.gaugeOpts("system_goroutine_count", "Number of goroutines"),
	)
	m.systemGCPauseTime = auto.NewHistogram(
		m.histogramOpts("system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
			[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}),
	)
}

// Pipeline Metrics Functions.

// RecordPipelineRun counts a pipeline run and observes its duration.
func RecordPipelineRun(status string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.pipelineRuns.WithLabelValues(status).Inc()
	globalManager.pipelineDuration.Observe(durationMs)
}

// RecordSourceLoad observes the time spent reading a source.
func RecordSourceLoad(source string, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.sourceLoadTime.WithLabelValues(source).Observe(durationMs)
}

// UpdateSourceRows sets the row count read from a source.
func UpdateSourceRows(source string, rows int) {
	if !globalManager.enabled {
		return
	}
	globalManager.sourceRows.WithLabelValues(source).Set(float64(rows))
}

// Reconciliation Metrics Functions.

// UpdateRosterRows sets the roster row count for a presence value.
func UpdateRosterRows(presence string, rows int) {
	if !globalManager.enabled {
		return
	}
	globalManager.rosterRows.WithLabelValues(presence).Set(float64(rows))
}

// RecordOverrides adds applied and unmatched override counts.
func RecordOverrides(applied, unmatched int) {
	if !globalManager.enabled {
		return
	}
	globalManager.overridesApplied.Add(float64(applied))
	globalManager.overridesUnmatched.Add(float64(unmatched))
}

// RecordZeroFilled adds the number of zero-filled medal counts.
func RecordZeroFilled(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.zeroFilledFields.Add(float64(n))
}

// RecordDuplicateKeys adds the number of duplicated natural keys.
func RecordDuplicateKeys(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.duplicateKeys.Add(float64(n))
}

// RecordWaypointsDropped adds the number of dropped torch rows.
func RecordWaypointsDropped(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.waypointsDropped.Add(float64(n))
}

// Snapshot Metrics Functions.

// RecordSnapshotPublished counts a published snapshot and records its time.
func RecordSnapshotPublished(at time.Time) {
	if !globalManager.enabled {
		return
	}
	globalManager.snapshotsPublished.Inc()
	globalManager.snapshotLastUnix.Set(float64(at.Unix()))
}

// HTTP Metrics Functions.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error Metrics Functions.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System Performance Metrics Functions.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// RefreshInterval is how often the global runtime gauges should be refreshed.
func RefreshInterval() time.Duration {
	return globalManager.RefreshInterval()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
