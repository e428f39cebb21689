// Package metrics provides Prometheus metrics for the playback analytics client and collector.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for playpulse.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	constLabels      map[string]string
	registry         prometheus.Registerer

	// Client: event buffer
	eventsRecorded  *prometheus.CounterVec
	seeksIgnored    prometheus.Counter
	eventBufferSize prometheus.Gauge

	// Client: pings
	pingsTriggered   *prometheus.CounterVec
	pingResults      *prometheus.CounterVec
	pingLatency      *prometheus.HistogramVec
	pingsInFlight    prometheus.Gauge
	sessionsAssigned prometheus.Counter

	// Client: scheduler
	schedulersActive prometheus.Gauge
	schedulerTicks   prometheus.Counter

	// Collector HTTP
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	errorRateByEndpoint *prometheus.CounterVec
	collectorPings      *prometheus.CounterVec
	collectorSessions   prometheus.Gauge

	// System
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// Init replaces the global manager and its registry. Call it once at startup,
// before any metric is recorded or the registry is served.
func Init(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	all := make([]Option, 0, len(opts)+1)
	all = append(all, opts...)
	all = append(all, WithPrometheusRegistry(customRegistry))
	globalManager = NewManager(all...)
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "playpulse",
		subsystem:        "analytics",
		histogramBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
		enabled:          true,
		constLabels:      make(map[string]string),
		registry:         prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
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

func (m *Manager) histogramOpts(name, help string) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     m.histogramBuckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)

	m.eventsRecorded = auto.NewCounterVec(
		m.counterOpts("events_recorded_total", "Playback events appended to event buffers by kind"),
		[]string{"kind"},
	)
	m.seeksIgnored = auto.NewCounter(m.counterOpts("seeks_ignored_total", "Seek calls dropped because a bound was not positive"))
	m.eventBufferSize = auto.NewGauge(m.gaugeOpts("event_buffer_size", "Size of the most recently snapshotted event buffer"))

	m.pingsTriggered = auto.NewCounterVec(
		m.counterOpts("pings_triggered_total", "Pings built and dispatched by trigger"),
		[]string{"trigger"},
	)
	m.pingResults = auto.NewCounterVec(
		m.counterOpts("ping_results_total", "Ping send outcomes by video type"),
		[]string{"video_type", "outcome"},
	)
	m.pingLatency = auto.NewHistogramVec(
		m.histogramOpts("ping_latency_milliseconds", "Ping round trip latency in milliseconds"),
		[]string{"video_type"},
	)
	m.pingsInFlight = auto.NewGauge(m.gaugeOpts("pings_in_flight", "Pings currently awaiting a collector response"))
	m.sessionsAssigned = auto.NewCounter(m.counterOpts("sessions_assigned_total", "Session ids learned from collector responses"))

	m.schedulersActive = auto.NewGauge(m.gaugeOpts("schedulers_active", "Reporting schedulers currently ticking"))
	m.schedulerTicks = auto.NewCounter(m.counterOpts("scheduler_ticks_total", "Reporting scheduler ticks"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Collector HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "Collector HTTP request duration in milliseconds"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Collector errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)
	m.collectorPings = auto.NewCounterVec(
		m.counterOpts("collector_pings_total", "Pings accepted by the collector by video type"),
		[]string{"video_type"},
	)
	m.collectorSessions = auto.NewGauge(m.gaugeOpts("collector_sessions", "Sessions known to the collector"))

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
}

// Enabled reports whether recording is active.
func (m *Manager) Enabled() bool { return m.enabled }

// RecordEventRecorded increments the recorded events counter for kind.
func RecordEventRecorded(kind string) {
	if !globalManager.enabled {
		return
	}
	globalManager.eventsRecorded.WithLabelValues(kind).Inc()
}

// RecordSeekIgnored increments the ignored seeks counter.
func RecordSeekIgnored() {
	if !globalManager.enabled {
		return
	}
	globalManager.seeksIgnored.Inc()
}

// UpdateEventBufferSize sets the last observed buffer size.
func UpdateEventBufferSize(size int) {
	if !globalManager.enabled {
		return
	}
	globalManager.eventBufferSize.Set(float64(size))
}

// RecordPingTriggered increments the pings counter for trigger (ready, pause, end, schedule).
func RecordPingTriggered(trigger string) {
	if !globalManager.enabled {
		return
	}
	globalManager.pingsTriggered.WithLabelValues(trigger).Inc()
}

// RecordPingResult records the outcome of a ping send.
func RecordPingResult(videoType, outcome string) {
	if !globalManager.enabled {
		return
	}
	globalManager.pingResults.WithLabelValues(videoType, outcome).Inc()
}

// RecordPingLatency records ping latency in milliseconds.
func RecordPingLatency(videoType string, latencyMs float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.pingLatency.WithLabelValues(videoType).Observe(latencyMs)
}

// IncPingsInFlight marks a ping as started.
func IncPingsInFlight() {
	if !globalManager.enabled {
		return
	}
	globalManager.pingsInFlight.Inc()
}

// DecPingsInFlight marks a ping as finished.
func DecPingsInFlight() {
	if !globalManager.enabled {
		return
	}
	globalManager.pingsInFlight.Dec()
}

// RecordSessionAssigned increments the learned session ids counter.
func RecordSessionAssigned() {
	if !globalManager.enabled {
		return
	}
	globalManager.sessionsAssigned.Inc()
}

// IncSchedulersActive marks a scheduler loop as running.
func IncSchedulersActive() {
	if !globalManager.enabled {
		return
	}
	globalManager.schedulersActive.Inc()
}

// DecSchedulersActive marks a scheduler loop as stopped.
func DecSchedulersActive() {
	if !globalManager.enabled {
		return
	}
	globalManager.schedulersActive.Dec()
}

// RecordSchedulerTick increments the scheduler tick counter.
func RecordSchedulerTick() {
	if !globalManager.enabled {
		return
	}
	globalManager.schedulerTicks.Inc()
}

// RecordHTTPRequest records a collector HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records collector HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// RecordErrorByEndpoint records a collector error by endpoint.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// RecordCollectorPing increments accepted collector pings for videoType.
func RecordCollectorPing(videoType string) {
	if !globalManager.enabled {
		return
	}
	globalManager.collectorPings.WithLabelValues(videoType).Inc()
}

// UpdateCollectorSessions sets the number of sessions known to the collector.
func UpdateCollectorSessions(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.collectorSessions.Set(float64(count))
}

// UpdateSystemMemoryUsage sets system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	if !globalManager.enabled {
		return
	}
	globalManager.systemGoroutineCount.Set(float64(count))
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
