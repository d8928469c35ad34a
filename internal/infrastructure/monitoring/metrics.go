package monitoring

import (
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "webdesk"

// Metrics holds all Prometheus metrics. Each instance owns its registry so
// several can coexist in one process.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	RequestSize     *prometheus.HistogramVec
	ResponseSize    *prometheus.HistogramVec

	// File system metrics
	VFSOperations      *prometheus.CounterVec
	VFSPersistFailures prometheus.Counter
	VFSNodes           prometheus.Gauge

	// Window metrics
	WindowsOpen      prometheus.Gauge
	WindowOperations *prometheus.CounterVec

	// Storage metrics
	StorageCalls    *prometheus.CounterVec
	StorageDuration *prometheus.HistogramVec
	StorageBreaker  *prometheus.GaugeVec

	// Registry metrics
	PluginsInstalled prometheus.Gauge

	// Notification metrics
	Notifications *prometheus.CounterVec

	// WebSocket metrics
	WSConnections prometheus.Gauge
	WSMessages    *prometheus.CounterVec

	startTime time.Time

	// Snapshot for JSON API - track current values
	snapshot MetricsSnapshot

	mu sync.RWMutex
}

// MetricsSnapshot holds current metric values for JSON API
type MetricsSnapshot struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	OpenWindows       int64   `json:"open_windows"`
	Nodes             int64   `json:"nodes"`
	PersistFailures   int64   `json:"persist_failures"`
	ActiveConnections int64   `json:"active_connections"`
	AvgLatencySeconds float64 `json:"avg_latency_seconds"`
	UptimeSeconds     float64 `json:"uptime_seconds"`

	totalDuration float64
}

// NewMetrics creates a new metrics collector with its own registry
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{
		registry:  reg,
		startTime: time.Now(),

		// HTTP metrics
		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		RequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_size_bytes",
				Help:      "HTTP request size in bytes",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),
		ResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_response_size_bytes",
				Help:      "HTTP response size in bytes",
				Buckets:   []float64{100, 1000, 10000, 100000, 1000000, 10000000},
			},
			[]string{"method", "path"},
		),

		// File system metrics
		VFSOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "vfs_operations_total",
				Help:      "Total number of file system operations",
			},
			[]string{"op", "status"},
		),
		VFSPersistFailures: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "vfs_persist_failures_total",
				Help:      "Total number of tree snapshots that failed to persist",
			},
		),
		VFSNodes: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "vfs_nodes",
				Help:      "Number of nodes in the committed tree",
			},
		),

		// Window metrics
		WindowsOpen: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "windows_open",
				Help:      "Number of open windows",
			},
		),
		WindowOperations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "window_operations_total",
				Help:      "Total number of window operations",
			},
			[]string{"op"},
		),

		// Storage metrics
		StorageCalls: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "storage_calls_total",
				Help:      "Total number of storage adapter calls",
			},
			[]string{"backend", "op", "status"},
		),
		StorageDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "storage_duration_seconds",
				Help:      "Storage adapter call duration in seconds",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"backend", "op"},
		),
		StorageBreaker: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "storage_breaker_state",
				Help:      "Storage circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
			[]string{"backend"},
		),

		// Registry metrics
		PluginsInstalled: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "plugins_installed",
				Help:      "Number of installed plugin apps",
			},
		),

		// Notification metrics
		Notifications: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Total number of notifications posted",
			},
			[]string{"level"},
		),

		// WebSocket metrics
		WSConnections: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "ws_connections",
				Help:      "Number of active WebSocket connections",
			},
		),
		WSMessages: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "ws_messages_total",
				Help:      "Total number of WebSocket messages",
			},
			[]string{"direction", "type"},
		),
	}

	factory.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "uptime_seconds",
			Help:      "Backend uptime in seconds",
		},
		func() float64 { return time.Since(m.startTime).Seconds() },
	)

	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the registry backing this collector
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, path, status string, duration time.Duration, reqSize, respSize int64) {
	m.RequestsTotal.WithLabelValues(method, path, status).Inc()
	m.RequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
	m.RequestSize.WithLabelValues(method, path).Observe(float64(reqSize))
	m.ResponseSize.WithLabelValues(method, path).Observe(float64(respSize))

	// Update snapshot
	m.mu.Lock()
	m.snapshot.TotalRequests++
	m.snapshot.totalDuration += duration.Seconds()
	if status != "" && (status[0] == '4' || status[0] == '5') {
		m.snapshot.TotalErrors++
	}
	m.mu.Unlock()
}

// RecordVFSOperation counts a file system operation by outcome
func (m *Metrics) RecordVFSOperation(op, status string) {
	m.VFSOperations.WithLabelValues(op, status).Inc()
}

// IncVFSPersistFailures counts a snapshot that could not be stored
func (m *Metrics) IncVFSPersistFailures() {
	m.VFSPersistFailures.Inc()
	m.mu.Lock()
	m.snapshot.PersistFailures++
	m.mu.Unlock()
}

// SetVFSNodes sets the committed tree size
func (m *Metrics) SetVFSNodes(count int) {
	m.VFSNodes.Set(float64(count))
	m.mu.Lock()
	m.snapshot.Nodes = int64(count)
	m.mu.Unlock()
}

// SetWindowsOpen sets the number of open windows
func (m *Metrics) SetWindowsOpen(count int) {
	m.WindowsOpen.Set(float64(count))
	m.mu.Lock()
	m.snapshot.OpenWindows = int64(count)
	m.mu.Unlock()
}

// RecordWindowOperation counts an applied window operation
func (m *Metrics) RecordWindowOperation(op string) {
	m.WindowOperations.WithLabelValues(op).Inc()
}

// RecordStorageCall records a storage adapter call
func (m *Metrics) RecordStorageCall(backend, op, status string, duration time.Duration) {
	m.StorageCalls.WithLabelValues(backend, op, status).Inc()
	m.StorageDuration.WithLabelValues(backend, op).Observe(duration.Seconds())
}

// SetStorageBreakerState records the breaker state for a backend
func (m *Metrics) SetStorageBreakerState(backend string, state int) {
	m.StorageBreaker.WithLabelValues(backend).Set(float64(state))
}

// SetPluginsInstalled sets the number of installed plugins
func (m *Metrics) SetPluginsInstalled(count int) {
	m.PluginsInstalled.Set(float64(count))
}

// RecordNotification counts a posted notification
func (m *Metrics) RecordNotification(level string) {
	m.Notifications.WithLabelValues(level).Inc()
}

// RecordWSMessage records a WebSocket message
func (m *Metrics) RecordWSMessage(direction, msgType string) {
	m.WSMessages.WithLabelValues(direction, msgType).Inc()
}

// IncWSConnections increments WebSocket connections
func (m *Metrics) IncWSConnections() {
	m.WSConnections.Inc()
	m.mu.Lock()
	m.snapshot.ActiveConnections++
	m.mu.Unlock()
}

// DecWSConnections decrements WebSocket connections
func (m *Metrics) DecWSConnections() {
	m.WSConnections.Dec()
	m.mu.Lock()
	m.snapshot.ActiveConnections--
	m.mu.Unlock()
}

// Snapshot returns the current values for the JSON API
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := m.snapshot
	if snap.TotalRequests > 0 {
		snap.AvgLatencySeconds = snap.totalDuration / float64(snap.TotalRequests)
	}
	snap.UptimeSeconds = time.Since(m.startTime).Seconds()
	return snap
}
