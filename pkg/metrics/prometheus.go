// Package metrics provides Prometheus metrics for the PJA ML API service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	registry         prometheus.Registerer

	// Stats pipeline metrics - the dashboard aggregation is the core
	// of the service, so it gets the richest instrumentation.
	pipelineRuns         prometheus.Counter
	pipelineFailures     prometheus.Counter
	pipelineEvents       prometheus.Counter
	pipelineDeletedTasks prometheus.Counter
	pipelineRows         prometheus.Counter
	pipelineDuration     prometheus.Histogram

	// LLM generation metrics
	llmRequests *prometheus.CounterVec
	llmFailures *prometheus.CounterVec
	llmTokens   *prometheus.CounterVec
	llmLatency  prometheus.Histogram

	// Search metrics
	searchRequests  prometheus.Counter
	searchLatency   prometheus.Histogram
	catalogProjects prometheus.Gauge

	// Notification metrics
	notificationsSent   prometheus.Counter
	notificationsFailed prometheus.Counter

	// HTTP performance metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorsByEndpoint    *prometheus.CounterVec

	// System performance metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "pja",
		subsystem:        "mlapi",
		histogramBuckets: prometheus.DefBuckets,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // metric registration is long but flat
	auto := promauto.With(m.registry)

	m.pipelineRuns = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_runs_total",
		Help:      "Total number of dashboard pipeline invocations",
	})
	m.pipelineFailures = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_failures_total",
		Help:      "Total number of pipeline invocations rejected as malformed",
	})
	m.pipelineEvents = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_events_total",
		Help:      "Total number of raw events consumed by the pipeline",
	})
	m.pipelineDeletedTasks = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_deleted_tasks_total",
		Help:      "Total number of tasks excluded by deletion filtering",
	})
	m.pipelineRows = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_rows_total",
		Help:      "Total number of normalized participant rows produced",
	})
	m.pipelineDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pipeline_duration_milliseconds",
		Help:      "Histogram of pipeline run duration in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.llmRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "llm_requests_total",
			Help:      "Total number of chat completion calls by document kind",
		},
		[]string{"kind"},
	)
	m.llmFailures = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "llm_failures_total",
			Help:      "Total number of failed chat completion calls by document kind",
		},
		[]string{"kind"},
	)
	m.llmTokens = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "llm_tokens_total",
			Help:      "Total tokens spent on chat completions by direction",
		},
		[]string{"direction"},
	)
	m.llmLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "llm_latency_milliseconds",
		Help:      "Histogram of chat completion latency in milliseconds",
		Buckets:   []float64{100, 250, 500, 1000, 2500, 5000, 10000, 30000, 60000},
	})

	m.searchRequests = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "search_requests_total",
		Help:      "Total number of similarity search requests",
	})
	m.searchLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "search_latency_milliseconds",
		Help:      "Histogram of similarity search latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})
	m.catalogProjects = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_projects",
		Help:      "Number of projects in the loaded catalog snapshot",
	})

	m.notificationsSent = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notifications_sent_total",
		Help:      "Total number of Slack notifications delivered",
	})
	m.notificationsFailed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "notifications_failed_total",
		Help:      "Total number of Slack notifications that failed to deliver",
	})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "Histogram of HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorsByEndpoint = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_by_endpoint_total",
			Help:      "Total number of errors by endpoint",
		},
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_memory_usage_bytes",
		Help:      "System memory usage in bytes",
	})
	m.systemGoroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "system_goroutine_count",
		Help:      "Number of goroutines",
	})
}

// RecordPipelineRun increments the pipeline runs counter.
func RecordPipelineRun() {
	globalManager.pipelineRuns.Inc()
}

// RecordPipelineFailure increments the pipeline failures counter.
func RecordPipelineFailure() {
	globalManager.pipelineFailures.Inc()
}

// RecordPipelineEvents adds to the consumed raw events counter.
func RecordPipelineEvents(n int) {
	globalManager.pipelineEvents.Add(float64(n))
}

// RecordPipelineDeletedTasks adds to the deletion-filtered tasks counter.
func RecordPipelineDeletedTasks(n int) {
	globalManager.pipelineDeletedTasks.Add(float64(n))
}

// RecordPipelineRows adds to the normalized rows counter.
func RecordPipelineRows(n int) {
	globalManager.pipelineRows.Add(float64(n))
}

// RecordPipelineDuration records one pipeline run duration in milliseconds.
func RecordPipelineDuration(ms float64) {
	globalManager.pipelineDuration.Observe(ms)
}

// RecordLLMRequest increments the completion calls counter for a kind.
func RecordLLMRequest(kind string) {
	globalManager.llmRequests.WithLabelValues(kind).Inc()
}

// RecordLLMFailure increments the failed completion calls counter for a kind.
func RecordLLMFailure(kind string) {
	globalManager.llmFailures.WithLabelValues(kind).Inc()
}

// RecordLLMTokens adds prompt and completion token spend.
func RecordLLMTokens(promptTokens, completionTokens int) {
	globalManager.llmTokens.WithLabelValues("prompt").Add(float64(promptTokens))
	globalManager.llmTokens.WithLabelValues("completion").Add(float64(completionTokens))
}

// RecordLLMLatency records one completion latency in milliseconds.
func RecordLLMLatency(ms float64) {
	globalManager.llmLatency.Observe(ms)
}

// RecordSearchRequest increments the search requests counter.
func RecordSearchRequest() {
	globalManager.searchRequests.Inc()
}

// RecordSearchLatency records one search latency in milliseconds.
func RecordSearchLatency(ms float64) {
	globalManager.searchLatency.Observe(ms)
}

// UpdateCatalogProjects sets the loaded catalog size.
func UpdateCatalogProjects(n int) {
	globalManager.catalogProjects.Set(float64(n))
}

// RecordNotificationSent increments the delivered notifications counter.
func RecordNotificationSent() {
	globalManager.notificationsSent.Inc()
}

// RecordNotificationFailed increments the failed notifications counter.
func RecordNotificationFailed() {
	globalManager.notificationsFailed.Inc()
}

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration in milliseconds.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, durationMs float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(durationMs)
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorsByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
