package http

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/registry"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/WebDesk/backend/internal/providers/auth"
	"github.com/GriffinCanCode/WebDesk/backend/internal/providers/settings"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

// Version is reported by the root endpoint
const Version = "1.0.0"

// Handlers contains all HTTP handlers
type Handlers struct {
	session *session.Manager
	metrics *monitoring.Metrics
	tracer  *tracing.Tracer
	hasher  *utils.Hasher
	started time.Time
}

// NewHandlers creates a new handler set. Metrics may be nil.
func NewHandlers(s *session.Manager, metrics *monitoring.Metrics, tracer *tracing.Tracer) *Handlers {
	if tracer == nil {
		tracer = tracing.New("webdesk", zap.NewNop())
	}
	return &Handlers{
		session: s,
		metrics: metrics,
		tracer:  tracer,
		hasher:  utils.DefaultHasher(),
		started: time.Now(),
	}
}

// Root handles health check
func (h *Handlers) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "online",
		"service": "WebDesk",
		"version": Version,
	})
}

// Health handles detailed health check
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":         "healthy",
		"uptime_seconds": time.Since(h.started).Seconds(),
		"windows":        h.session.Windows().Stats(),
		"nodes":          h.session.VFS().Count(),
		"apps":           len(h.session.Apps().List(nil)),
		"subscribers":    h.session.Subscribers(),
	})
}

// statusFor maps domain errors onto HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, vfs.ErrNotFound),
		errors.Is(err, session.ErrUnknownApp),
		errors.Is(err, settings.ErrUnknownKey),
		errors.Is(err, registry.ErrNotFound),
		errors.Is(err, auth.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, vfs.ErrNotADirectory),
		errors.Is(err, vfs.ErrNotAFile),
		errors.Is(err, vfs.ErrInvalidMove),
		errors.Is(err, registry.ErrBuiltinClash),
		errors.Is(err, registry.ErrNotUninstall),
		errors.Is(err, auth.ErrUsernameTaken):
		return http.StatusConflict
	case errors.Is(err, auth.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, vfs.ErrInvalidPath),
		errors.Is(err, settings.ErrInvalidValue),
		errors.Is(err, registry.ErrInvalidPlugin),
		errors.Is(err, auth.ErrInvalidProfile):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// fail writes err with its mapped status. Server errors are logged with
// the request's trace and mark its span failed.
func (h *Handlers) fail(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		if span := tracing.FromContext(c.Request.Context()); span != nil {
			span.Fail(err)
		}
		tracing.WithTrace(c.Request.Context(), h.tracer.Logger()).Error("Request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	} else {
		annotate(c, zap.NamedError("client_error", err))
	}
	respondError(c, status, err)
}

// annotate adds fields to the request's span, if it is traced
func annotate(c *gin.Context, fields ...zap.Field) {
	if span := tracing.FromContext(c.Request.Context()); span != nil {
		span.Annotate(fields...)
	}
}

func badRequest(c *gin.Context, err error) {
	respondError(c, http.StatusBadRequest, err)
}

// respondError names the rejected input field when validation found one
func respondError(c *gin.Context, status int, err error) {
	resp := gin.H{"error": err.Error()}
	if field := utils.FieldOf(err); field != "" {
		resp["field"] = field
	}
	c.JSON(status, resp)
}

// readBody reads a raw request body up to the validator's limit
func readBody(c *gin.Context, v *utils.SizeValidator) ([]byte, bool) {
	data, err := io.ReadAll(io.LimitReader(c.Request.Body, int64(v.Limit())+1))
	if err != nil {
		badRequest(c, err)
		return nil, false
	}
	if err := v.ValidateSize(data); err != nil {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
		return nil, false
	}
	return data, true
}
