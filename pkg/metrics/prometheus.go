// Package metrics provides Prometheus metrics for the candidates service.
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

// Manager manages all Prometheus metrics for the candidates service.
type Manager struct {
	namespace        string
	subsystem        string
	httpBuckets      []float64
	storageBuckets   []float64
	refreshInterval  time.Duration
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Business metrics
	candidatesCreated   prometheus.Counter
	candidateRejections *prometheus.CounterVec
	candidatesTotal     prometheus.Gauge
	metricsRequests     *prometheus.CounterVec

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Auth metrics
	authFailures *prometheus.CounterVec
	tokensIssued prometheus.Counter

	// Repository metrics
	repositoryLatency *prometheus.HistogramVec
	repositoryErrors  *prometheus.CounterVec

	// Error breakdowns
	errorRateByType     *prometheus.CounterVec
	errorRateByEndpoint *prometheus.CounterVec
	errorLatency        *prometheus.HistogramVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "candidates",
		subsystem:        "api",
		httpBuckets:      defaultHTTPBuckets,
		storageBuckets:   defaultStorageBuckets,
		refreshInterval:  defaultRefreshInterval,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// RefreshInterval reports how often gauge updaters should run.
func (m *Manager) RefreshInterval() time.Duration {
	return m.refreshInterval
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every metric definition
	auto := promauto.With(m.registry)

	m.candidatesCreated = auto.NewCounter(m.counterOpts(
		"candidates_created_total",
		"Total number of candidates persisted"))

	m.candidateRejections = auto.NewCounterVec(m.counterOpts(
		"candidate_rejections_total",
		"Candidate creations rejected by a business rule"),
		[]string{"reason"})

	m.candidatesTotal = auto.NewGauge(m.gaugeOpts(
		"candidates_stored",
		"Number of candidates currently stored"))

	m.metricsRequests = auto.NewCounterVec(m.counterOpts(
		"age_metrics_requests_total",
		"Age metrics computations by outcome"),
		[]string{"outcome"})

	m.httpRequests = auto.NewCounterVec(m.counterOpts(
		"http_requests_total",
		"Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(m.histogramOpts(
		"http_request_duration_milliseconds",
		"HTTP request duration in milliseconds",
		m.httpBuckets),
		[]string{"endpoint", "method", "status_code"})

	m.authFailures = auto.NewCounterVec(m.counterOpts(
		"auth_failures_total",
		"Rejected authentication attempts by scheme"),
		[]string{"scheme"})

	m.tokensIssued = auto.NewCounter(m.counterOpts(
		"tokens_issued_total",
		"Bearer tokens issued"))

	m.repositoryLatency = auto.NewHistogramVec(m.histogramOpts(
		"repository_operation_latency_milliseconds",
		"Storage operation latency in milliseconds",
		m.storageBuckets),
		[]string{"driver", "operation"})

	m.repositoryErrors = auto.NewCounterVec(m.counterOpts(
		"repository_errors_total",
		"Storage operation failures"),
		[]string{"driver", "operation"})

	m.errorRateByType = auto.NewCounterVec(m.counterOpts(
		"errors_by_type_total",
		"Errors by type and severity"),
		[]string{"error_type", "severity"})

	m.errorRateByEndpoint = auto.NewCounterVec(m.counterOpts(
		"errors_by_endpoint_total",
		"Errors by endpoint and method"),
		[]string{"endpoint", "method", "error_type"})

	m.errorLatency = auto.NewHistogramVec(m.histogramOpts(
		"error_latency_milliseconds",
		"Latency of requests that ended in an error",
		m.httpBuckets),
		[]string{"component", "error_type"})

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts(
		"system_memory_usage_bytes",
		"System memory usage in bytes"))

	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts(
		"system_goroutine_count",
		"Number of goroutines"))

	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds",
		"GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000}))
}

// RecordCandidateCreated increments the created candidates counter.
func RecordCandidateCreated() {
	globalManager.candidatesCreated.Inc()
}

// RecordCandidateRejected counts a creation rejected for reason.
func RecordCandidateRejected(reason string) {
	globalManager.candidateRejections.WithLabelValues(reason).Inc()
}

// UpdateCandidatesTotal sets the stored candidates gauge.
func UpdateCandidatesTotal(count int) {
	globalManager.candidatesTotal.Set(float64(count))
}

// RecordMetricsRequest counts an age metrics computation by outcome (ok, no_data, error).
func RecordMetricsRequest(outcome string) {
	globalManager.metricsRequests.WithLabelValues(outcome).Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordAuthFailure counts a rejected authentication attempt.
func RecordAuthFailure(scheme string) {
	globalManager.authFailures.WithLabelValues(scheme).Inc()
}

// RecordTokenIssued counts an issued bearer token.
func RecordTokenIssued() {
	globalManager.tokensIssued.Inc()
}

// RecordRepositoryLatency records a storage operation latency in milliseconds.
func RecordRepositoryLatency(driver, operation string, latencyMs float64) {
	globalManager.repositoryLatency.WithLabelValues(driver, operation).Observe(latencyMs)
}

// RecordRepositoryError counts a failed storage operation.
func RecordRepositoryError(driver, operation string) {
	globalManager.repositoryErrors.WithLabelValues(driver, operation).Inc()
}

// RecordErrorByType records errors by type and severity.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records errors by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordErrorLatency records the latency of a failed request.
func RecordErrorLatency(component, errorType string, latencyMs float64) {
	globalManager.errorLatency.WithLabelValues(component, errorType).Observe(latencyMs)
}

// UpdateSystemMemoryUsage sets the memory usage gauge.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine gauge.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records an average GC pause in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// RefreshInterval reports the global manager's gauge refresh interval.
func RefreshInterval() time.Duration {
	return globalManager.RefreshInterval()
}

// GetRegistry returns the custom registry backing the global manager.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
