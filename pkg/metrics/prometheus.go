// Package metrics provides Prometheus metrics for the MLB ELO rating pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the rating pipeline.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Pass Metrics - What really matters for a rating pass
	eventsApplied       prometheus.Counter
	eventsMalformed     prometheus.Counter
	eventsDuplicate     prometheus.Counter
	clampedExpectations prometheus.Counter
	playersCreated      *prometheus.CounterVec
	passProgress        prometheus.Gauge
	trackedPlayers      *prometheus.GaugeVec

	// Ingest Metrics - CSV loading performance
	filesLoaded    prometheus.Counter
	rowsParsed     prometheus.Counter
	rowsDropped    prometheus.Counter
	ingestDuration prometheus.Histogram

	// Stage Metrics - End-to-end pipeline timings
	stageDuration *prometheus.HistogramVec

	// Quality Metrics - Error tracking per component
	errorsByComponent *prometheus.CounterVec

	// Normalizer Metrics
	anchorExtrapolations prometheus.Counter
	negativeMinWarnings  prometheus.Counter
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
		namespace:        "mlbelo",
		subsystem:        "rating",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}

	// Apply all options
	for _, opt := range opts {
		opt(m)
	}

	// Initialize metrics
	m.initializeMetrics()

	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	// Ensure metrics are registered on the configured registry (custom by default)
	auto := promauto.With(m.registry)

	m.eventsApplied = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_applied_total",
		Help:      "Total number of plate appearances applied to the rating store",
	})

	m.eventsMalformed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_malformed_total",
		Help:      "Total number of malformed events skipped (indicates data quality)",
	})

	m.eventsDuplicate = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "events_duplicate_total",
		Help:      "Total number of exact-duplicate events dropped before the pass",
	})

	m.clampedExpectations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "clamped_expectations_total",
		Help:      "Times a park-adjusted expectation exceeded 1.0 and was clamped",
	})

	m.playersCreated = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "players_created_total",
			Help:      "Total number of lazily created player rating records",
		},
		[]string{"role"},
	)

	m.passProgress = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "pass_progress_ratio",
		Help:      "Fraction of the ordered event set already applied (0..1)",
	})

	m.trackedPlayers = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "tracked_players",
			Help:      "Number of players tracked in the rating store per role",
		},
		[]string{"role"},
	)

	m.filesLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_files_total",
		Help:      "Total number of event CSV files loaded",
	})

	m.rowsParsed = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_rows_total",
		Help:      "Total number of CSV rows parsed into events",
	})

	m.rowsDropped = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_rows_dropped_total",
		Help:      "Total number of CSV rows dropped (null outcome label)",
	})

	m.ingestDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "ingest_duration_seconds",
		Help:      "Histogram of event CSV ingest duration in seconds",
		Buckets:   m.histogramBuckets,
	})

	m.stageDuration = auto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "stage_duration_seconds",
			Help:      "Pipeline stage duration in seconds",
			Buckets:   m.histogramBuckets,
		},
		[]string{"stage"},
	)

	m.errorsByComponent = auto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "errors_total",
			Help:      "Total number of errors by component and type",
		},
		[]string{"component", "error_type"},
	)

	m.anchorExtrapolations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "anchor_extrapolations_total",
		Help:      "Players whose anchored index fell outside the fitted benchmark range",
	})

	m.negativeMinWarnings = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "negative_minimum_warnings_total",
		Help:      "Namespaces whose minimum rating went negative before normalization",
	})
}

// RecordEventApplied increments the applied events counter.
func RecordEventApplied() {
	globalManager.eventsApplied.Inc()
}

// RecordEventMalformed increments the malformed events counter.
func RecordEventMalformed() {
	globalManager.eventsMalformed.Inc()
}

// RecordEventDuplicate increments the duplicate events counter.
func RecordEventDuplicate() {
	globalManager.eventsDuplicate.Inc()
}

// RecordClampedExpectation increments the clamped-expectation counter.
func RecordClampedExpectation() {
	globalManager.clampedExpectations.Inc()
}

// RecordPlayerCreated increments the lazily-created-record counter for a role.
func RecordPlayerCreated(role string) {
	globalManager.playersCreated.WithLabelValues(role).Inc()
}

// UpdatePassProgress sets the pass progress ratio (0..1).
func UpdatePassProgress(ratio float64) {
	globalManager.passProgress.Set(ratio)
}

// UpdateTrackedPlayers sets the number of tracked players for a role.
func UpdateTrackedPlayers(role string, count int) {
	globalManager.trackedPlayers.WithLabelValues(role).Set(float64(count))
}

// RecordFileLoaded increments the loaded files counter.
func RecordFileLoaded() {
	globalManager.filesLoaded.Inc()
}

// RecordRowsParsed adds to the parsed rows counter.
func RecordRowsParsed(n int) {
	globalManager.rowsParsed.Add(float64(n))
}

// RecordRowsDropped adds to the dropped rows counter.
func RecordRowsDropped(n int) {
	globalManager.rowsDropped.Add(float64(n))
}

// RecordIngestDuration records ingest duration in seconds.
func RecordIngestDuration(seconds float64) {
	globalManager.ingestDuration.Observe(seconds)
}

// RecordStageDuration records a pipeline stage duration in seconds.
func RecordStageDuration(stage string, seconds float64) {
	globalManager.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorsByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordAnchorExtrapolation increments the anchor extrapolation counter.
func RecordAnchorExtrapolation() {
	globalManager.anchorExtrapolations.Inc()
}

// RecordNegativeMinWarning increments the negative-minimum warning counter.
func RecordNegativeMinWarning() {
	globalManager.negativeMinWarnings.Inc()
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
