// Package metrics provides Prometheus metrics for the apexstats recorder.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Query outcomes used as label values.
const (
	OutcomeMatch  = "match"
	OutcomeNoData = "no_data"
	OutcomeError  = "error"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	customLabels     map[string]string
	registry         prometheus.Registerer

	// Record store
	observationsRecorded *prometheus.CounterVec
	appendErrors         prometheus.Counter
	appendLatency        prometheus.Histogram
	storeReadErrors      prometheus.Counter

	// Queries
	queries        *prometheus.CounterVec
	queryLatency   prometheus.Histogram
	recordsScanned prometheus.Counter
	recordsMatched prometheus.Counter

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Errors
	errorsByComponent *prometheus.CounterVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	Init()
}

// Init rebuilds the global manager on a fresh registry configured by opts.
// Call it once at startup, before any handler captures GetRegistry.
func Init(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithPrometheusRegistry(customRegistry))...)
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "apexstats",
		subsystem:        "recorder",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		customLabels:     make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)
	labels := prometheus.Labels(m.customLabels)

	m.observationsRecorded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "observations_recorded_total",
		Help:        "Total number of observations appended to the record store",
		ConstLabels: labels,
	}, []string{"character", "squad"})

	m.appendErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "append_errors_total",
		Help:        "Total number of failed appends",
		ConstLabels: labels,
	})

	m.appendLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "append_latency_milliseconds",
		Help:        "Histogram of append latency in milliseconds, including fsync",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.storeReadErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "store_read_errors_total",
		Help:        "Total number of record store reads that ended in an error",
		ConstLabels: labels,
	})

	m.queries = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "queries_total",
		Help:        "Total number of statistics queries by outcome",
		ConstLabels: labels,
	}, []string{"outcome"})

	m.queryLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "query_latency_milliseconds",
		Help:        "Histogram of query latency in milliseconds (full scan of the log)",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	})

	m.recordsScanned = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_scanned_total",
		Help:        "Total number of records read from the store by queries",
		ConstLabels: labels,
	})

	m.recordsMatched = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "records_matched_total",
		Help:        "Total number of records that passed query filters",
		ConstLabels: labels,
	})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests by endpoint and method",
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "http_request_duration_milliseconds",
		Help:        "HTTP request duration in milliseconds",
		Buckets:     m.histogramBuckets,
		ConstLabels: labels,
	}, []string{"endpoint", "method", "status_code"})

	m.errorsByComponent = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        "errors_by_component_total",
		Help:        "Total number of errors by component and error type",
		ConstLabels: labels,
	}, []string{"component", "error_type"})
}

// RecordObservation counts an appended observation.
func (m *Manager) RecordObservation(character, squad string) {
	if m.enabled {
		m.observationsRecorded.WithLabelValues(character, squad).Inc()
	}
}

// RecordAppendError counts a failed append.
func (m *Manager) RecordAppendError() {
	if m.enabled {
		m.appendErrors.Inc()
	}
}

// RecordAppendLatency records append latency in milliseconds.
func (m *Manager) RecordAppendLatency(latencyMs float64) {
	if m.enabled {
		m.appendLatency.Observe(latencyMs)
	}
}

// RecordStoreReadError counts a read that ended in an error.
func (m *Manager) RecordStoreReadError() {
	if m.enabled {
		m.storeReadErrors.Inc()
	}
}

// RecordQuery counts a query by outcome.
func (m *Manager) RecordQuery(outcome string) {
	if m.enabled {
		m.queries.WithLabelValues(outcome).Inc()
	}
}

// RecordQueryLatency records query latency in milliseconds.
func (m *Manager) RecordQueryLatency(latencyMs float64) {
	if m.enabled {
		m.queryLatency.Observe(latencyMs)
	}
}

// RecordRecordsScanned adds n to the scanned records counter.
func (m *Manager) RecordRecordsScanned(n uint64) {
	if m.enabled {
		m.recordsScanned.Add(float64(n))
	}
}

// RecordRecordsMatched adds n to the matched records counter.
func (m *Manager) RecordRecordsMatched(n uint64) {
	if m.enabled {
		m.recordsMatched.Add(float64(n))
	}
}

// RecordHTTPRequest records an HTTP request.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string) {
	if m.enabled {
		m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	}
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func (m *Manager) RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	if m.enabled {
		m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
	}
}

// RecordError counts an error raised by component.
func (m *Manager) RecordError(component, errorType string) {
	if m.enabled {
		m.errorsByComponent.WithLabelValues(component, errorType).Inc()
	}
}

// RecordObservation counts an appended observation on the global manager.
func RecordObservation(character, squad string) { globalManager.RecordObservation(character, squad) }

// RecordAppendError counts a failed append on the global manager.
func RecordAppendError() { globalManager.RecordAppendError() }

// RecordAppendLatency records append latency on the global manager.
func RecordAppendLatency(latencyMs float64) { globalManager.RecordAppendLatency(latencyMs) }

// RecordStoreReadError counts a failed read on the global manager.
func RecordStoreReadError() { globalManager.RecordStoreReadError() }

// RecordQuery counts a query on the global manager.
func RecordQuery(outcome string) { globalManager.RecordQuery(outcome) }

// RecordQueryLatency records query latency on the global manager.
func RecordQueryLatency(latencyMs float64) { globalManager.RecordQueryLatency(latencyMs) }

// RecordRecordsScanned adds to the scanned counter on the global manager.
func RecordRecordsScanned(n uint64) { globalManager.RecordRecordsScanned(n) }

// RecordRecordsMatched adds to the matched counter on the global manager.
func RecordRecordsMatched(n uint64) { globalManager.RecordRecordsMatched(n) }

// RecordHTTPRequest records an HTTP request on the global manager.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode)
}

// RecordHTTPRequestDuration records HTTP request duration on the global manager.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequestDuration(endpoint, method, statusCode, durationMs)
}

// RecordError counts an error on the global manager.
func RecordError(component, errorType string) { globalManager.RecordError(component, errorType) }

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
