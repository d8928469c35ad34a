/*
Package tracing times HTTP requests and ties their log lines together.

Each request gets a span carried in its context. A shell that sends
X-Trace-ID and X-Span-ID keeps its trace across calls; both headers are
echoed back. Handlers annotate the current span with FromContext, and
finished spans are logged by a background collector:

  - failed or 5xx requests at warn
  - requests slower than Options.Slow at info
  - everything else at debug

# Usage

	tracer := tracing.New("webdesk", logger)
	defer tracer.Close()

	router.Use(tracing.HTTPMiddleware(tracer))

	// inside a handler
	tracing.FromContext(c.Request.Context()).Annotate(zap.String("path", p))
	log := tracing.WithTrace(c.Request.Context(), logger)
*/
package tracing
