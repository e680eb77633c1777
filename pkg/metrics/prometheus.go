// Package metrics provides Prometheus metrics for the herocoach service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector of the service.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Extraction pipeline
	extractions     prometheus.Counter
	clausesSeen     prometheus.Counter
	clausesSkipped  *prometheus.CounterVec
	groupsProduced  prometheus.Histogram
	extractDuration prometheus.Histogram

	// External capabilities
	classifierLatency  prometheus.Histogram
	classifierErrors   prometheus.Counter
	embeddingFallbacks *prometheus.CounterVec
	embeddingErrors    prometheus.Counter

	// Advice and quotes
	adviceMatches *prometheus.CounterVec
	quoteLookups  *prometheus.CounterVec

	// Classifier worker pool
	poolQueueDepth prometheus.Gauge
	poolWorkers    prometheus.Gauge

	// Catalog
	catalogRows *prometheus.GaugeVec

	// HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	httpErrors          *prometheus.CounterVec

	// Process
	memoryUsage    prometheus.Gauge
	goroutineCount prometheus.Gauge
	gcPause        prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "herocoach",
		subsystem:        "core",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.extractions = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "extractions_total",
		Help:      "Total number of goal extraction runs",
	})

	m.clausesSeen = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "clauses_total",
		Help:      "Total number of segmented clauses submitted for classification",
	})

	m.clausesSkipped = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "clauses_skipped_total",
		Help:      "Clauses dropped from extraction by reason (none label, classifier error)",
	}, []string{"reason"})

	m.groupsProduced = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "groups_per_extraction",
		Help:      "Number of goal groups produced per extraction",
		Buckets:   []float64{0, 1, 2, 3, 5, 8, 13},
	})

	m.extractDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "extraction_duration_milliseconds",
		Help:      "End-to-end goal extraction latency in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.classifierLatency = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "classifier_latency_milliseconds",
		Help:      "Latency of a single classifier call in milliseconds",
		Buckets:   m.histogramBuckets,
	})

	m.classifierErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "classifier_errors_total",
		Help:      "Total number of failed classifier calls",
	})

	m.embeddingFallbacks = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "embedding_fallbacks_total",
		Help:      "Times a matcher fell back because no embedding capability was available",
	}, []string{"caller"})

	m.embeddingErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "embedding_errors_total",
		Help:      "Total number of word pairs the embedding capability could not score",
	})

	m.adviceMatches = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "advice_matches_total",
		Help:      "Advice lookups by outcome (semantic, trait, default)",
	}, []string{"outcome"})

	m.quoteLookups = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "quote_lookups_total",
		Help:      "Quote lookups by outcome (role_model, random, none)",
	}, []string{"outcome"})

	m.poolQueueDepth = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "classifier_pool_queue_depth",
		Help:      "Classification jobs waiting for a worker",
	})

	m.poolWorkers = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "classifier_pool_workers",
		Help:      "Number of classifier workers",
	})

	m.catalogRows = auto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "catalog_rows",
		Help:      "Rows loaded per static catalog",
	}, []string{"catalog"})

	m.httpRequests = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by endpoint and method",
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpRequestDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_request_duration_milliseconds",
			Help:      "HTTP request duration in milliseconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"endpoint", "method", "status_code"},
	)

	m.httpErrors = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "http_errors_total",
			Help:      "HTTP error responses by endpoint, method and error type",
		},
		[]string{"endpoint", "method", "error_type", "severity"},
	)

	m.memoryUsage = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "memory_usage_bytes",
		Help:      "Heap bytes allocated",
	})

	m.goroutineCount = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "goroutines",
		Help:      "Number of goroutines",
	})

	m.gcPause = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: "system",
		Name:      "gc_pause_milliseconds",
		Help:      "Average GC pause in milliseconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50},
	})
}

// RecordExtraction records one finished extraction.
func RecordExtraction(groups int, durationMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.extractions.Inc()
	globalManager.groupsProduced.Observe(float64(groups))
	globalManager.extractDuration.Observe(durationMs)
}

// RecordClauses adds n segmented clauses.
func RecordClauses(n int) {
	if !globalManager.enabled {
		return
	}
	globalManager.clausesSeen.Add(float64(n))
}

// RecordClauseSkipped counts a dropped clause.
func RecordClauseSkipped(reason string) {
	if !globalManager.enabled {
		return
	}
	globalManager.clausesSkipped.WithLabelValues(reason).Inc()
}

// RecordClassifierLatency observes a classifier call.
func RecordClassifierLatency(latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.classifierLatency.Observe(latencyMs)
}

// RecordClassifierError counts a failed classifier call.
func RecordClassifierError() {
	if !globalManager.enabled {
		return
	}
	globalManager.classifierErrors.Inc()
}

// RecordEmbeddingFallback counts a fallback taken by caller.
func RecordEmbeddingFallback(caller string) {
	if !globalManager.enabled {
		return
	}
	globalManager.embeddingFallbacks.WithLabelValues(caller).Inc()
}

// RecordEmbeddingError counts an unscored word pair.
func RecordEmbeddingError() {
	if !globalManager.enabled {
		return
	}
	globalManager.embeddingErrors.Inc()
}

// RecordAdviceMatch counts an advice lookup outcome.
func RecordAdviceMatch(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.adviceMatches.WithLabelValues(outcome).Inc()
}

// RecordQuoteLookup counts a quote lookup outcome.
func RecordQuoteLookup(outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.quoteLookups.WithLabelValues(outcome).Inc()
}

// UpdatePoolQueueDepth sets the number of waiting classification jobs.
func UpdatePoolQueueDepth(depth int) {
	if !globalManager.enabled {
		return
	}
	globalManager.poolQueueDepth.Set(float64(depth))
}

// UpdatePoolWorkers sets the number of classifier workers.
func UpdatePoolWorkers(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.poolWorkers.Set(float64(count))
}

// UpdateCatalogRows sets the loaded row count of a catalog.
func UpdateCatalogRows(catalog string, rows int) {
	if !globalManager.enabled {
		return
	}
	globalManager.catalogRows.WithLabelValues(catalog).Set(float64(rows))
}

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

// RecordHTTPError records an HTTP error response.
func RecordHTTPError(endpoint, method, errorType, severity string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpErrors.WithLabelValues(endpoint, method, errorType, severity).Inc()
}

// UpdateSystemMemoryUsage sets the allocated heap size.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.memoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the goroutine count.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.goroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime observes the average GC pause.
func RecordSystemGCPauseTime(pauseMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.gcPause.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
