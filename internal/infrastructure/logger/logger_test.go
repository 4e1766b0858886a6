package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"INFO", zapcore.InfoLevel},
		{"warning", zapcore.WarnLevel},
		{"warn", zapcore.WarnLevel},
		{" error ", zapcore.ErrorLevel},
		{"fatal", zapcore.FatalLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestNew(t *testing.T) {
	t.Run("nil config uses defaults", func(t *testing.T) {
		l, err := New(nil)
		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("json file carries service fields", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "automation.log")
		l, err := New(&Config{Level: "debug", Format: "json", Output: path, Service: "erp-automation", Environment: "test"})
		require.NoError(t, err)

		l.Debug("subscribed")
		_ = l.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"msg":"subscribed"`)
		assert.Contains(t, string(data), `"level":"debug"`)
		assert.Contains(t, string(data), `"service":"erp-automation"`)
		assert.Contains(t, string(data), `"env":"test"`)
	})

	t.Run("console file output has no colour codes", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "automation.log")
		l, err := New(&Config{Level: "info", Format: "console", Output: path})
		require.NoError(t, err)

		l.Warn("throttled")
		_ = l.Sync()

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), "WARN")
		assert.NotContains(t, string(data), "\x1b[")
	})

	t.Run("unwritable file is an error", func(t *testing.T) {
		_, err := New(&Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
		assert.ErrorContains(t, err, "logger: open")
	})
}

func TestCreateWriter(t *testing.T) {
	for _, out := range []string{"", "stdout", "STDERR"} {
		ws, terminal, err := createWriter(out)
		require.NoError(t, err)
		assert.NotNil(t, ws)
		assert.True(t, terminal)
	}
}
