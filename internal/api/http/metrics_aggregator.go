package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/registry"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/window"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
)

// MetricsSnapshot is the JSON view of the backend's metrics
type MetricsSnapshot struct {
	Timestamp time.Time                   `json:"timestamp"`
	Backend   *monitoring.MetricsSnapshot `json:"backend,omitempty"`
	Session   SessionMetrics              `json:"session"`
	Summary   MetricsSummary              `json:"summary"`
}

// SessionMetrics describes the live session
type SessionMetrics struct {
	Windows     window.Stats `json:"windows"`
	Nodes       int          `json:"nodes"`
	Apps        int          `json:"apps"`
	Plugins     int          `json:"plugins"`
	Subscribers int          `json:"subscribers"`
}

// MetricsSummary provides high-level metrics
type MetricsSummary struct {
	TotalRequests     int64   `json:"total_requests"`
	AverageLatencyMs  float64 `json:"average_latency_ms"`
	ErrorRate         float64 `json:"error_rate"`
	ActiveConnections int64   `json:"active_connections"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
}

// GetMetricsJSON returns the request counters and session gauges as JSON
// for dashboards that do not scrape Prometheus
func (h *Handlers) GetMetricsJSON(c *gin.Context) {
	c.JSON(http.StatusOK, h.metricsSnapshot())
}

func (h *Handlers) metricsSnapshot() MetricsSnapshot {
	plugin := registry.KindPlugin
	snapshot := MetricsSnapshot{
		Timestamp: time.Now(),
		Session: SessionMetrics{
			Windows:     h.session.Windows().Stats(),
			Nodes:       h.session.VFS().Count(),
			Apps:        len(h.session.Apps().List(nil)),
			Plugins:     len(h.session.Apps().List(&plugin)),
			Subscribers: h.session.Subscribers(),
		},
		Summary: MetricsSummary{
			UptimeSeconds: time.Since(h.started).Seconds(),
		},
	}

	if h.metrics != nil {
		backend := h.metrics.Snapshot()
		snapshot.Backend = &backend
		snapshot.Summary = summarize(backend)
	}
	return snapshot
}

func summarize(s monitoring.MetricsSnapshot) MetricsSummary {
	summary := MetricsSummary{
		TotalRequests:     s.TotalRequests,
		AverageLatencyMs:  s.AvgLatencySeconds * 1000,
		ActiveConnections: s.ActiveConnections,
		UptimeSeconds:     s.UptimeSeconds,
	}
	if s.TotalRequests > 0 {
		summary.ErrorRate = float64(s.TotalErrors) / float64(s.TotalRequests)
	}
	return summary
}
