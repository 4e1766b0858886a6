package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingExporter struct {
	records []sdklog.Record
}

func (e *recordingExporter) Export(_ context.Context, records []sdklog.Record) error {
	for _, r := range records {
		e.records = append(e.records, r.Clone())
	}
	return nil
}

func (e *recordingExporter) Shutdown(context.Context) error   { return nil }
func (e *recordingExporter) ForceFlush(context.Context) error { return nil }

func TestBridgeLogger_NilProvider(t *testing.T) {
	base := zap.NewNop()
	assert.Same(t, base, BridgeLogger(base, nil, "erp-automation", zapcore.InfoLevel))
}

func TestBridgeLogger_ExportsAboveMinLevel(t *testing.T) {
	exporter := &recordingExporter{}
	provider := sdklog.NewLoggerProvider(sdklog.WithProcessor(sdklog.NewSimpleProcessor(exporter)))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	core, logs := observer.New(zapcore.DebugLevel)
	logger := BridgeLogger(zap.New(core), provider, "erp-automation", zapcore.WarnLevel)

	logger.Info("subscribed", zap.String("event", "task.created"))
	logger.Warn("backend throttled")

	assert.Equal(t, 2, logs.Len())
	if assert.Len(t, exporter.records, 1) {
		assert.Equal(t, "backend throttled", exporter.records[0].Body().AsString())
	}
}
