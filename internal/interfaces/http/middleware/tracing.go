// Package middleware provides the gin middleware of the automation API.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/erp/automation/internal/infrastructure/logger"
)

// TracingConfig holds configuration for the tracing middleware.
type TracingConfig struct {
	// ServiceName is the name of the service for trace identification.
	ServiceName string
	// Enabled controls whether tracing is active.
	Enabled bool
}

// DefaultTracingConfig returns default tracing configuration.
func DefaultTracingConfig() TracingConfig {
	return TracingConfig{
		ServiceName: "erp-automation",
		Enabled:     true,
	}
}

// Tracing returns OpenTelemetry tracing middleware with default configuration.
func Tracing() gin.HandlerFunc {
	return TracingWithConfig(DefaultTracingConfig())
}

// TracingWithConfig returns the otelgin server middleware. Spans are named
// after the route pattern, e.g. "POST /api/v1/automation/actions/:key".
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanErrorMarker enriches the server span once the handler has run and
// marks 4xx/5xx responses as errors. It must be placed after Tracing and
// before the JWT middleware so the span is still open when it returns.
func SpanErrorMarker() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		enrichSpan(c, span)

		statusCode := c.Writer.Status()
		if statusCode < http.StatusBadRequest {
			return
		}
		span.SetStatus(codes.Error, http.StatusText(statusCode))
		span.SetAttributes(attribute.Int("http.status_code", statusCode))
		if code := c.GetString(ErrorCodeKey); code != "" {
			span.SetAttributes(attribute.String("automation.error_code", code))
		}
	}
}

// ErrorCodeKey is where handlers leave the error code they answered with
const ErrorCodeKey = logger.GinErrorCodeKey

func enrichSpan(c *gin.Context, span trace.Span) {
	if requestID := c.GetString(RequestIDKey); requestID != "" {
		span.SetAttributes(attribute.String("request_id", requestID))
	}
	if subject := GetJWTSubject(c); subject != "" {
		span.SetAttributes(attribute.String("host.subject", subject))
	}
	if key := c.Param("key"); key != "" {
		span.SetAttributes(attribute.String("automation.key", key))
	}
}
