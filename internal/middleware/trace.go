package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"telegram-ai-relay/pkg/log"
	"telegram-ai-relay/pkg/response"
)

// TraceHeader carries the request trace id in both directions.
const TraceHeader = "X-Request-ID"

// Trace attaches a trace id to the request context, reusing the caller's when present,
// and logs the request once it completes.
func (m Middleware) Trace() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		if id := c.GetHeader(TraceHeader); id != "" {
			ctx = log.WithTraceID(ctx, id)
		} else {
			ctx = log.NewTraceContext(ctx)
		}
		c.Request = c.Request.WithContext(ctx)
		c.Header(TraceHeader, log.TraceIDFromContext(ctx))

		start := time.Now()
		c.Next()

		m.l.Debugf(ctx, "%s %s %d %s", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// Recovery turns a panic into a 500 and logs it with the request trace id.
func (m Middleware) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		m.l.Errorf(c.Request.Context(), "middleware.Recovery: %s %s: %v", c.Request.Method, c.Request.URL.Path, recovered)
		response.InternalError(c)
	})
}
