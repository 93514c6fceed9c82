package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Sub-millisecond buckets; engine calls finish in microseconds.
var defaultBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 25, 50, 100}

// Recorder is the sink the grading service reports to.
type Recorder interface {
	RecordResolution(source string)
	RecordAnomaly(flag string)
	RecordComputation(operation string, durationMs float64)
}

// Manager owns the grading metrics.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Engine
	resolutions         *prometheus.CounterVec
	anomalies           *prometheus.CounterVec
	computations        *prometheus.CounterVec
	computationDuration *prometheus.HistogramVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

var globalManager *Manager //nolint:gochecknoglobals // process-wide metrics singleton

// Private registry so /metrics only exposes what this service defines.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // process-wide registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "grading",
		subsystem:        "engine",
		histogramBuckets: defaultBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.resolutions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "resolutions_total",
		Help:      "Resolved grades by winning candidate source",
	}, []string{"source"})

	m.anomalies = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "anomalies_total",
		Help:      "Policy anomalies flagged while resolving grades",
	}, []string{"flag"})

	m.computations = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "computations_total",
		Help:      "Engine computations by operation",
	}, []string{"operation"})

	m.computationDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "computation_duration_milliseconds",
		Help:      "Engine computation duration in milliseconds",
		Buckets:   m.histogramBuckets,
	}, []string{"operation"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "HTTP requests by endpoint, method and status",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "http",
		Name:      "request_duration_milliseconds",
		Help:      "HTTP request duration in milliseconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint", "method", "status_code"})

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Heap bytes allocated",
	})

	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Number of goroutines",
	})
}

// RecordResolution counts a resolved grade by source.
func (m *Manager) RecordResolution(source string) {
	if m.enabled {
		m.resolutions.WithLabelValues(source).Inc()
	}
}

// RecordAnomaly counts a resolver anomaly flag.
func (m *Manager) RecordAnomaly(flag string) {
	if m.enabled {
		m.anomalies.WithLabelValues(flag).Inc()
	}
}

// RecordComputation counts an engine operation and observes its duration.
func (m *Manager) RecordComputation(operation string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.computations.WithLabelValues(operation).Inc()
	m.computationDuration.WithLabelValues(operation).Observe(durationMs)
}

// RecordHTTPRequest counts a request and observes its duration.
func (m *Manager) RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	if !m.enabled {
		return
	}
	m.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
	m.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// UpdateSystem sets the process gauges.
func (m *Manager) UpdateSystem(memoryBytes uint64, goroutines int) {
	if !m.enabled {
		return
	}
	m.systemMemoryUsage.Set(float64(memoryBytes))
	m.systemGoroutineCount.Set(float64(goroutines))
}

// Default returns the process-wide manager registered on GetRegistry.
func Default() *Manager { return globalManager }

// RecordHTTPRequest records on the process-wide manager.
func RecordHTTPRequest(endpoint, method, statusCode string, durationMs float64) {
	globalManager.RecordHTTPRequest(endpoint, method, statusCode, durationMs)
}

// UpdateSystem updates the process-wide system gauges.
func UpdateSystem(memoryBytes uint64, goroutines int) {
	globalManager.UpdateSystem(memoryBytes, goroutines)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}

// Nop is a Recorder that drops everything.
type Nop struct{}

func (Nop) RecordResolution(string)           {}
func (Nop) RecordAnomaly(string)              {}
func (Nop) RecordComputation(string, float64) {}
