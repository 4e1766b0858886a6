package cache

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// unreachableRedis points at a port nothing listens on
var unreachableRedis = RedisConfig{Host: "127.0.0.1", Port: 1}

func TestFactory_RedisDisabled(t *testing.T) {
	store, err := NewAuthorizationStoreFactory().CreateStore(context.Background())
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &InMemoryAuthorizationStore{}, store)
}

func TestFactory_FallbackToInMemory(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	factory := NewAuthorizationStoreFactory(
		WithRedis(unreachableRedis),
		WithLogger(zap.New(core)),
	)

	store, err := factory.CreateStore(context.Background())
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &InMemoryAuthorizationStore{}, store)
	assert.Equal(t, 1, logs.FilterMessageSnippet("falling back").Len())
}

func TestFactory_FallbackDisabled(t *testing.T) {
	factory := NewAuthorizationStoreFactory(
		WithRedis(unreachableRedis),
		WithInMemoryFallback(false),
	)

	store, err := factory.CreateStore(context.Background())
	assert.Error(t, err)
	assert.Nil(t, store)
	assert.Contains(t, err.Error(), "redis required")
}
