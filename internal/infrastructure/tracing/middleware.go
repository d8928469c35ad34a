package tracing

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Trace propagation headers
const (
	HeaderTraceID = "X-Trace-ID"
	HeaderSpanID  = "X-Span-ID"
)

// HTTPMiddleware opens a span per request, named after the route template
// so path parameters do not multiply span names.
func HTTPMiddleware(tracer *Tracer) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := WithRemote(c.Request.Context(),
			TraceID(c.GetHeader(HeaderTraceID)),
			SpanID(c.GetHeader(HeaderSpanID)))

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		span, ctx := tracer.StartSpan(ctx, c.Request.Method+" "+route)
		c.Request = c.Request.WithContext(ctx)

		c.Header(HeaderTraceID, string(span.TraceID))
		c.Header(HeaderSpanID, string(span.SpanID))

		c.Next()

		span.Status = c.Writer.Status()
		if q := c.Request.URL.RawQuery; q != "" {
			span.Annotate(zap.String("query", q))
		}
		if len(c.Errors) > 0 {
			span.Fail(c.Errors.Last())
		}
		tracer.Finish(span)
	}
}
