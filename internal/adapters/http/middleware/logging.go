package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/quotefeed/internal/platform/logging"
)

// healthPrefix marks operational endpoints that are never logged.
const healthPrefix = "/-/"

// ContextLogger returns middleware that stores logger in the request
// context, so ID middleware and handlers enrich the same base logger.
// A nil logger leaves the context untouched.
func ContextLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if logger == nil {
			c.Next()
			return
		}

		ctx := logging.WithContext(c.Request.Context(), logger)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// Logging returns middleware that logs HTTP requests.
// It logs:
//   - Request start at debug level: method, path, client IP
//   - Request completion: status, latency, bytes written
//
// Health check paths (starting with /-/) and any skipPaths are not logged.
// logger is used when no context logger was installed upstream.
func Logging(logger *slog.Logger, skipPaths ...string) gin.HandlerFunc {
	skipMap := make(map[string]struct{}, len(skipPaths))
	for _, path := range skipPaths {
		skipMap[path] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path

		if _, skip := skipMap[path]; skip || strings.HasPrefix(path, healthPrefix) {
			c.Next()
			return
		}

		start := time.Now()

		fullPath := path
		if c.Request.URL.RawQuery != "" {
			fullPath = fullPath + "?" + c.Request.URL.RawQuery
		}

		ctx := c.Request.Context()
		if span := trace.SpanFromContext(ctx); span.SpanContext().HasTraceID() {
			ctx = logging.WithTraceID(ctx, span.SpanContext().TraceID().String())
			c.Request = c.Request.WithContext(ctx)
		}

		ctxLogger := logging.FromContextOr(ctx, logger)

		ctxLogger.DebugContext(ctx, "request started",
			slog.String("method", c.Request.Method),
			slog.String("path", fullPath),
			slog.String("client_ip", c.ClientIP()),
			slog.String("user_agent", c.Request.UserAgent()),
		)

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		} else if status >= http.StatusBadRequest {
			level = slog.LevelWarn
		}

		ctxLogger.Log(ctx, level, "request completed",
			slog.String("method", c.Request.Method),
			slog.String("path", fullPath),
			slog.Int("status", status),
			slog.Duration("latency", latency),
			slog.Int64("latency_ms", latency.Milliseconds()),
			slog.Int("bytes", c.Writer.Size()),
		)
	}
}
