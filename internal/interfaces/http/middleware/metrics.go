package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/erp/automation/internal/infrastructure/telemetry"
)

// AttrHTTPRoute is the matched gin route pattern
var AttrHTTPRoute = attribute.Key("http.route")

// unmatchedRoute labels requests no route matched, keeping cardinality bounded
const unmatchedRoute = "unmatched"

// httpMetrics holds the HTTP server instruments
type httpMetrics struct {
	requests       *telemetry.Counter
	duration       *telemetry.Histogram
	activeRequests metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	requests, err := telemetry.NewCounter(meter,
		"http_server_request_total", "Total number of HTTP requests", "{request}")
	if err != nil {
		return nil, err
	}
	duration, err := telemetry.NewHistogram(meter,
		"http_server_request_duration_seconds", "HTTP request latency distribution in seconds", "s",
		telemetry.DurationBuckets)
	if err != nil {
		return nil, err
	}
	active, err := meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("Number of currently active HTTP requests"),
		metric.WithUnit("{request}"),
	)
	if err != nil {
		return nil, err
	}
	return &httpMetrics{requests: requests, duration: duration, activeRequests: active}, nil
}

// HTTPMetrics returns middleware recording request count, latency and
// concurrency per route on meter. A nil meter disables it.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	if meter == nil {
		return func(c *gin.Context) { c.Next() }, nil
	}
	m, err := newHTTPMetrics(meter)
	if err != nil {
		return nil, err
	}
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		start := time.Now()

		m.activeRequests.Add(ctx, 1)
		c.Next()
		m.activeRequests.Add(ctx, -1)

		route := c.FullPath()
		if route == "" {
			route = unmatchedRoute
		}
		m.record(ctx, c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}, nil
}

func (m *httpMetrics) record(ctx context.Context, method, route string, status int, d time.Duration) {
	attrs := []attribute.KeyValue{
		telemetry.AttrHTTPMethod.String(method),
		AttrHTTPRoute.String(route),
	}
	m.duration.RecordDuration(ctx, d, attrs...)
	m.requests.Inc(ctx, append(attrs, telemetry.AttrStatusClass.String(telemetry.StatusClass(status)))...)
}
