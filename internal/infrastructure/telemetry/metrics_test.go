package telemetry_test

import (
	"context"
	"testing"
	"time"

	"github.com/erp/automation/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func zaptestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	out := map[string]metricdata.Metrics{}
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func TestAutomationMetrics(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	m, err := telemetry.NewAutomationMetrics(provider.Meter(telemetry.MeterName))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordBackendCall(ctx, "GET", 200, 20*time.Millisecond)
	m.RecordBackendCall(ctx, "POST", 429, 5*time.Millisecond)
	m.RecordInvocation(ctx, "action", "createTask", "")
	m.RecordInvocation(ctx, "action", "createTask", "throttled")

	metrics := collect(t, reader)

	requests, ok := metrics["erp_backend_requests_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	var total int64
	for _, dp := range requests.DataPoints {
		total += dp.Value
	}
	assert.Equal(t, int64(2), total)

	duration, ok := metrics["erp_backend_request_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	assert.Len(t, duration.DataPoints, 2)

	invocations, ok := metrics["automation_invocations_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, invocations.DataPoints, 1)
	assert.Equal(t, int64(2), invocations.DataPoints[0].Value)

	failures, ok := metrics["automation_failures_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, failures.DataPoints, 1)
	assert.Equal(t, int64(1), failures.DataPoints[0].Value)
}

func TestAutomationMetrics_NilSafe(t *testing.T) {
	var m *telemetry.AutomationMetrics
	assert.NotPanics(t, func() {
		m.RecordBackendCall(context.Background(), "GET", 500, time.Second)
		m.RecordInvocation(context.Background(), "search", "findLead", "api")
	})
}

func TestStatusClass(t *testing.T) {
	assert.Equal(t, "error", telemetry.StatusClass(0))
	assert.Equal(t, "2xx", telemetry.StatusClass(201))
	assert.Equal(t, "4xx", telemetry.StatusClass(404))
	assert.Equal(t, "5xx", telemetry.StatusClass(503))
}
