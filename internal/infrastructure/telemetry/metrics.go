package telemetry

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MeterName is the instrumentation scope for automation metrics
const MeterName = "erp-automation"

// Common attribute keys
var (
	AttrHandlerKind = attribute.Key("automation.kind")
	AttrHandlerKey  = attribute.Key("automation.key")
	AttrErrorKind   = attribute.Key("error.kind")
	AttrHTTPMethod  = attribute.Key("http.method")
	AttrStatusClass = attribute.Key("http.status_class")
)

// DurationBuckets are bucket boundaries for backend call latency (seconds).
var DurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Counter records monotonically increasing values.
type Counter struct {
	counter metric.Int64Counter
}

// NewCounter creates a new Counter metric.
func NewCounter(meter metric.Meter, name, description, unit string) (*Counter, error) {
	c, err := meter.Int64Counter(name, metric.WithDescription(description), metric.WithUnit(unit))
	if err != nil {
		return nil, fmt.Errorf("failed to create counter %s: %w", name, err)
	}
	return &Counter{counter: c}, nil
}

// Inc increments the counter by 1.
func (c *Counter) Inc(ctx context.Context, attrs ...attribute.KeyValue) {
	c.counter.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// Histogram records distributions such as latency.
type Histogram struct {
	histogram metric.Float64Histogram
}

// NewHistogram creates a new Histogram metric with explicit buckets.
func NewHistogram(meter metric.Meter, name, description, unit string, boundaries []float64) (*Histogram, error) {
	opts := []metric.Float64HistogramOption{metric.WithDescription(description), metric.WithUnit(unit)}
	if len(boundaries) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(boundaries...))
	}
	h, err := meter.Float64Histogram(name, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create histogram %s: %w", name, err)
	}
	return &Histogram{histogram: h}, nil
}

// RecordDuration records a duration in seconds.
func (h *Histogram) RecordDuration(ctx context.Context, d time.Duration, attrs ...attribute.KeyValue) {
	h.histogram.Record(ctx, d.Seconds(), metric.WithAttributes(attrs...))
}

// =============================================================================
// Automation metrics
// =============================================================================

// AutomationMetrics holds the instruments recorded by the backend client and
// the trigger, action and search handlers. A nil *AutomationMetrics is valid
// and records nothing.
type AutomationMetrics struct {
	backendRequests *Counter
	backendDuration *Histogram
	invocations     *Counter
	failures        *Counter
}

// NewAutomationMetrics creates the instruments on the given meter, or on the
// global meter provider when meter is nil.
func NewAutomationMetrics(meter metric.Meter) (*AutomationMetrics, error) {
	if meter == nil {
		meter = otel.GetMeterProvider().Meter(MeterName)
	}
	m := &AutomationMetrics{}
	var err error
	if m.backendRequests, err = NewCounter(meter, "erp_backend_requests_total",
		"Calls made to the ERP API", "{request}"); err != nil {
		return nil, err
	}
	if m.backendDuration, err = NewHistogram(meter, "erp_backend_request_duration_seconds",
		"Latency of calls made to the ERP API", "s", DurationBuckets); err != nil {
		return nil, err
	}
	if m.invocations, err = NewCounter(meter, "automation_invocations_total",
		"Trigger, action and search invocations", "{invocation}"); err != nil {
		return nil, err
	}
	if m.failures, err = NewCounter(meter, "automation_failures_total",
		"Failed trigger, action and search invocations by error kind", "{invocation}"); err != nil {
		return nil, err
	}
	return m, nil
}

// RecordBackendCall records one ERP API call. status is 0 for transport failures.
func (m *AutomationMetrics) RecordBackendCall(ctx context.Context, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{AttrHTTPMethod.String(method), AttrStatusClass.String(StatusClass(status))}
	m.backendRequests.Inc(ctx, attrs...)
	m.backendDuration.RecordDuration(ctx, d, attrs...)
}

// RecordInvocation records one handler invocation and, when errKind is not
// empty, a failure of that kind.
func (m *AutomationMetrics) RecordInvocation(ctx context.Context, kind, key, errKind string) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{AttrHandlerKind.String(kind), AttrHandlerKey.String(key)}
	m.invocations.Inc(ctx, attrs...)
	if errKind != "" {
		m.failures.Inc(ctx, append(attrs, AttrErrorKind.String(errKind))...)
	}
}

// StatusClass buckets an HTTP status as "2xx", "4xx" and so on; 0 is "error".
func StatusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}
