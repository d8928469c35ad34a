package http

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/registry"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/session"
	"github.com/GriffinCanCode/WebDesk/backend/internal/domain/vfs"
	"github.com/GriffinCanCode/WebDesk/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/WebDesk/backend/internal/providers/auth"
	"github.com/GriffinCanCode/WebDesk/backend/internal/providers/settings"
	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/utils"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&fs.PathError{Op: "read", Path: "/x", Err: vfs.ErrNotFound}, http.StatusNotFound},
		{fmt.Errorf("launch %q: %w", "x", session.ErrUnknownApp), http.StatusNotFound},
		{settings.ErrUnknownKey, http.StatusNotFound},
		{registry.ErrNotFound, http.StatusNotFound},
		{auth.ErrNotFound, http.StatusNotFound},
		{&fs.PathError{Op: "list", Path: "/a", Err: vfs.ErrNotADirectory}, http.StatusConflict},
		{vfs.ErrNotAFile, http.StatusConflict},
		{vfs.ErrInvalidMove, http.StatusConflict},
		{registry.ErrBuiltinClash, http.StatusConflict},
		{registry.ErrNotUninstall, http.StatusConflict},
		{auth.ErrUsernameTaken, http.StatusConflict},
		{auth.ErrInvalidCredentials, http.StatusUnauthorized},
		{vfs.ErrInvalidPath, http.StatusBadRequest},
		{settings.ErrInvalidValue, http.StatusBadRequest},
		{registry.ErrInvalidPlugin, http.StatusBadRequest},
		{auth.ErrInvalidProfile, http.StatusBadRequest},
		{errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestShellLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"error":   zapcore.ErrorLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"info":    zapcore.InfoLevel,
		"debug":   zapcore.DebugLevel,
		"verbose": zapcore.DebugLevel,
		"fatal":   zapcore.InfoLevel,
		"loud":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, shellLevel(in), in)
	}
}

func newTestHandlers(t *testing.T, logger *zap.Logger) *Handlers {
	t.Helper()
	sess, err := session.NewManager(nil, session.DefaultOptions(), nil, nil)
	require.NoError(t, err)

	tracer := tracing.New("test", logger)
	t.Cleanup(tracer.Close)
	return NewHandlers(sess, nil, tracer)
}

func TestStreamLogsForwardsToZap(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	h := newTestHandlers(t, zap.New(core))

	router := gin.New()
	router.POST("/logs", h.StreamLogs)

	body := `{"source":"ui","entries":[
		{"id":"1","level":"error","message":"render failed","context":{"window_id":"not-a-window","attempt":2}},
		{"id":"2","level":"verbose","message":"tick"},
		{"id":"3","level":"info","message":"   "}
	]}`
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logs", strings.NewReader(body)))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"entries_processed":2`)

	ui := logs.Filter(func(e observer.LoggedEntry) bool { return e.LoggerName == "ui" }).All()
	require.Len(t, ui, 2)
	assert.Equal(t, zapcore.ErrorLevel, ui[0].Level)
	assert.Equal(t, "not-a-window", ui[0].ContextMap()["ui_window_id"])
	assert.EqualValues(t, 2, ui[0].ContextMap()["attempt"])
	assert.Equal(t, zapcore.DebugLevel, ui[1].Level)
}

func TestStreamLogsRejectsOversizedBatch(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newTestHandlers(t, nil)
	router := gin.New()
	router.POST("/logs", h.StreamLogs)

	var b strings.Builder
	b.WriteString(`{"source":"ui","entries":[`)
	for i := 0; i <= MaxLogEntries; i++ {
		if i > 0 {
			b.WriteString(",")
		}
		fmt.Fprintf(&b, `{"id":"%d","message":"m"}`, i)
	}
	b.WriteString(`]}`)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/logs", strings.NewReader(b.String())))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestReadBodyLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/upload", func(c *gin.Context) {
		data, ok := readBody(c, utils.NewSizeValidator(8))
		if ok {
			c.String(http.StatusOK, string(data))
		}
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader([]byte("12345678"))))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345678", w.Body.String())

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/upload", bytes.NewReader([]byte("123456789"))))
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestFailMarksSpan(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zapcore.DebugLevel)
	h := newTestHandlers(t, zap.New(core))

	router := gin.New()
	router.Use(tracing.HTTPMiddleware(h.tracer))
	router.GET("/boom", func(c *gin.Context) { h.fail(c, errors.New("disk full")) })
	router.GET("/missing", func(c *gin.Context) { h.fail(c, vfs.ErrNotFound) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))
	h.tracer.Close()

	failed := logs.FilterLoggerName("trace").FilterMessage("Request failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, "GET /boom", failed[0].ContextMap()["operation"])

	done := logs.FilterLoggerName("trace").FilterMessage("Request completed").All()
	require.Len(t, done, 1)
	assert.Equal(t, vfs.ErrNotFound.Error(), done[0].ContextMap()["client_error"])
}
