package telemetry_test

import (
	"context"
	"errors"
	"testing"

	"github.com/erp/automation/internal/infrastructure/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
)

// setupTestTracer installs an in-memory span recorder as the global provider.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func TestStartSpan(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "trigger.perform", trace.SpanKindInternal,
		attribute.String("automation.key", "newTask"))
	telemetry.SetAttributes(span, "records", 3, "delivered", true, 42, "ignored")
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "trigger.perform", spans[0].Name())
	assert.Equal(t, trace.SpanKindInternal, spans[0].SpanKind())

	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range spans[0].Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, "newTask", attrs["automation.key"].AsString())
	assert.Equal(t, int64(3), attrs["records"].AsInt64())
	assert.True(t, attrs["delivered"].AsBool())
	assert.Len(t, attrs, 3)
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := telemetry.StartSpan(context.Background(), "erp.request", trace.SpanKindClient)
	telemetry.RecordError(span, errors.New("boom"))
	telemetry.RecordError(span, nil)
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "boom", spans[0].Status().Description)
	assert.Len(t, spans[0].Events(), 1)
}

func TestSetup_Disabled(t *testing.T) {
	p, err := telemetry.Setup(context.Background(), telemetry.Config{Enabled: false, ServiceName: "test"}, zaptestLogger(t))
	require.NoError(t, err)
	assert.False(t, p.IsEnabled())
	assert.Nil(t, p.LoggerProvider())
	p.EnableSpanProfiles()
	assert.NoError(t, p.Shutdown(context.Background()))
}
