package telemetry

import (
	"testing"

	"github.com/grafana/pyroscope-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestParseProfileTypes(t *testing.T) {
	types, err := parseProfileTypes(nil)
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileInuseSpace}, types)

	types, err = parseProfileTypes([]string{" CPU ", "goroutines"})
	require.NoError(t, err)
	assert.Equal(t, []pyroscope.ProfileType{pyroscope.ProfileCPU, pyroscope.ProfileGoroutines}, types)

	_, err = parseProfileTypes([]string{"heap"})
	assert.Error(t, err)
}

func TestNewProfiler(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		p, err := NewProfiler(ProfilerConfig{}, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, p.IsEnabled())
		assert.NoError(t, p.Stop())
		assert.NoError(t, p.Stop())
	})

	t.Run("enabled without server address", func(t *testing.T) {
		_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "erp-automation"}, zap.NewNop())
		assert.Error(t, err)
	})

	t.Run("enabled without application name", func(t *testing.T) {
		_, err := NewProfiler(ProfilerConfig{Enabled: true, ServerAddress: "http://localhost:4040"}, zap.NewNop())
		assert.Error(t, err)
	})
}
