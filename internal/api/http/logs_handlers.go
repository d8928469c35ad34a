package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/id"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/types"
)

// MaxLogEntries bounds one shell log batch
const MaxLogEntries = 500

// shellLevel maps a browser console level onto zap. Unknown levels log at info.
func shellLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "verbose", "trace":
		return zapcore.DebugLevel
	case "warning":
		return zapcore.WarnLevel
	}
	l, err := zapcore.ParseLevel(level)
	if err != nil || l > zapcore.ErrorLevel {
		return zapcore.InfoLevel
	}
	return l
}

// StreamLogs forwards a batch of shell log lines into the backend log.
// Lines without a message are dropped.
func (h *Handlers) StreamLogs(c *gin.Context) {
	var req types.UILogStreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log request format"})
		return
	}
	if req.Source != "ui" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid log source"})
		return
	}
	if len(req.Entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No log entries provided"})
		return
	}
	if len(req.Entries) > MaxLogEntries {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Too many log entries"})
		return
	}

	logger := h.tracer.Logger().Named("ui")
	processed := 0
	for _, entry := range req.Entries {
		if strings.TrimSpace(entry.Message) == "" {
			continue
		}
		if ce := logger.Check(shellLevel(entry.Level), entry.Message); ce != nil {
			ce.Write(shellFields(entry)...)
		}
		processed++
	}
	annotate(c, zap.Int("ui_entries", processed))

	c.JSON(http.StatusOK, gin.H{
		"success":           true,
		"entries_received":  len(req.Entries),
		"entries_processed": processed,
	})
}

// shellFields flattens an entry's context. A window_id that names a real
// window id is promoted so shell lines line up with backend window logs.
func shellFields(entry types.UILogEntry) []zap.Field {
	fields := make([]zap.Field, 0, len(entry.Context)+3)
	fields = append(fields, zap.String("ui_log_id", entry.ID))
	if entry.Timestamp != "" {
		fields = append(fields, zap.String("ui_timestamp", entry.Timestamp))
	}
	if entry.Priority != 0 {
		fields = append(fields, zap.Int("priority", entry.Priority))
	}

	for key, value := range entry.Context {
		switch v := value.(type) {
		case string:
			if key == "window_id" && !id.IsValidPrefixed(v, id.WindowPrefix) {
				key = "ui_window_id"
			}
			fields = append(fields, zap.String(key, v))
		case float64:
			fields = append(fields, zap.Float64(key, v))
		case bool:
			fields = append(fields, zap.Bool(key, v))
		default:
			fields = append(fields, zap.Any(key, v))
		}
	}
	return fields
}
