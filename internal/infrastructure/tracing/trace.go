package tracing

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/WebDesk/backend/internal/shared/id"
)

// TraceID identifies every span of one shell interaction
type TraceID string

// SpanID identifies one span
type SpanID string

// Span times one request. Handlers annotate it through FromContext.
type Span struct {
	TraceID  TraceID
	SpanID   SpanID
	ParentID SpanID
	Name     string
	Start    time.Time
	Duration time.Duration
	Status   int
	Err      error

	mu     sync.Mutex
	fields []zap.Field
}

// Annotate attaches fields that are logged with the finished span
func (s *Span) Annotate(fields ...zap.Field) {
	s.mu.Lock()
	s.fields = append(s.fields, fields...)
	s.mu.Unlock()
}

// Fail records the error that ended the request
func (s *Span) Fail(err error) {
	s.mu.Lock()
	s.Err = err
	s.mu.Unlock()
}

// Options tune a tracer
type Options struct {
	// Buffer is the number of finished spans queued for logging
	Buffer int
	// Slow marks spans that take at least this long; zero disables it
	Slow time.Duration
}

// DefaultOptions returns a 1000 span buffer and a 500ms slow threshold
func DefaultOptions() Options {
	return Options{Buffer: 1000, Slow: 500 * time.Millisecond}
}

// Tracer hands finished spans to a background collector that logs them
type Tracer struct {
	service string
	opts    Options
	logger  *zap.Logger
	spans   chan *Span

	closeOnce sync.Once
	closeMu   sync.RWMutex // guards sends against Close
	closed    bool
	done      chan struct{}
}

// New creates a tracer with DefaultOptions. Call Close to stop the collector.
func New(service string, logger *zap.Logger) *Tracer {
	return NewWithOptions(service, logger, DefaultOptions())
}

// NewWithOptions creates a tracer. Call Close to stop the collector.
func NewWithOptions(service string, logger *zap.Logger, opts Options) *Tracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.Buffer <= 0 {
		opts.Buffer = DefaultOptions().Buffer
	}
	t := &Tracer{
		service: service,
		opts:    opts,
		logger:  logger,
		spans:   make(chan *Span, opts.Buffer),
		done:    make(chan struct{}),
	}

	go t.collect()

	return t
}

// Logger returns the logger the tracer was built with
func (t *Tracer) Logger() *zap.Logger {
	return t.logger
}

// StartSpan opens a span, joining the trace carried by ctx if any. The
// returned context carries the span.
func (t *Tracer) StartSpan(ctx context.Context, name string) (*Span, context.Context) {
	span := &Span{
		TraceID: GetTraceID(ctx),
		SpanID:  SpanID(id.NewRequestID()),
		Name:    name,
		Start:   time.Now(),
	}
	if span.TraceID == "" {
		span.TraceID = TraceID(id.NewRequestID())
	}
	if parent := FromContext(ctx); parent != nil {
		span.ParentID = parent.SpanID
	} else {
		span.ParentID = remoteParent(ctx)
	}
	return span, context.WithValue(ctx, spanKey, span)
}

// Finish stamps the duration and queues the span. Spans finished after
// Close or while the queue is full are dropped.
func (t *Tracer) Finish(span *Span) {
	span.Duration = time.Since(span.Start)

	t.closeMu.RLock()
	defer t.closeMu.RUnlock()
	if t.closed {
		return
	}

	select {
	case t.spans <- span:
	default:
		t.logger.Warn("Span buffer full, dropping span",
			zap.String("trace_id", string(span.TraceID)),
			zap.String("operation", span.Name))
	}
}

// Close stops the collector after draining queued spans
func (t *Tracer) Close() {
	t.closeOnce.Do(func() {
		t.closeMu.Lock()
		t.closed = true
		close(t.spans)
		t.closeMu.Unlock()
	})
	<-t.done
}

func (t *Tracer) collect() {
	defer close(t.done)
	log := t.logger.Named("trace")
	for span := range t.spans {
		t.write(log, span)
	}
}

func (t *Tracer) write(log *zap.Logger, span *Span) {
	span.mu.Lock()
	fields := make([]zap.Field, 0, len(span.fields)+7)
	fields = append(fields,
		zap.String("service", t.service),
		zap.String("trace_id", string(span.TraceID)),
		zap.String("span_id", string(span.SpanID)),
		zap.String("operation", span.Name),
		zap.Duration("duration", span.Duration),
		zap.Int("status", span.Status),
	)
	if span.ParentID != "" {
		fields = append(fields, zap.String("parent_id", string(span.ParentID)))
	}
	fields = append(fields, span.fields...)
	err := span.Err
	span.mu.Unlock()

	switch {
	case err != nil || span.Status >= 500:
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		log.Warn("Request failed", fields...)
	case t.opts.Slow > 0 && span.Duration >= t.opts.Slow:
		log.Info("Slow request", fields...)
	default:
		log.Debug("Request completed", fields...)
	}
}

type contextKey int

const (
	spanKey contextKey = iota
	remoteKey
)

// remote is a trace joined from request headers
type remote struct {
	trace  TraceID
	parent SpanID
}

// WithRemote returns a context that joins a trace started by the shell
func WithRemote(ctx context.Context, traceID TraceID, parent SpanID) context.Context {
	if traceID == "" {
		return ctx
	}
	return context.WithValue(ctx, remoteKey, remote{trace: traceID, parent: parent})
}

func remoteParent(ctx context.Context) SpanID {
	if r, ok := ctx.Value(remoteKey).(remote); ok {
		return r.parent
	}
	return ""
}

// FromContext returns the span carried by ctx, or nil
func FromContext(ctx context.Context) *Span {
	span, _ := ctx.Value(spanKey).(*Span)
	return span
}

// GetTraceID returns the trace carried by ctx, or ""
func GetTraceID(ctx context.Context) TraceID {
	if span := FromContext(ctx); span != nil {
		return span.TraceID
	}
	if r, ok := ctx.Value(remoteKey).(remote); ok {
		return r.trace
	}
	return ""
}

// WithTrace returns logger annotated with the trace carried by ctx
func WithTrace(ctx context.Context, logger *zap.Logger) *zap.Logger {
	traceID := GetTraceID(ctx)
	if traceID == "" {
		return logger
	}
	return logger.With(zap.String("trace_id", string(traceID)))
}
