package cache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/automation/internal/domain/automation"
)

// newTestRedisStore connects to the test Redis server under a unique prefix
func newTestRedisStore(t *testing.T) *RedisAuthorizationStore {
	t.Helper()

	cfg := testRedisConfig(t)
	cfg.KeyPrefix = "automation:test:" + uuid.NewString() + ":"
	store, err := NewRedisAuthorizationStore(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisAuthorizationStore_PutTake(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, pendingAuth("r1"), time.Minute))
	assert.ErrorIs(t, store.Put(ctx, pendingAuth("r1"), time.Minute), automation.ErrAuthorizationExists)

	got, err := store.Take(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, "verifier-r1", got.CodeVerifier)

	_, err = store.Take(ctx, "r1")
	assert.ErrorIs(t, err, automation.ErrAuthorizationNotFound)
}

func TestRedisAuthorizationStore_Expiration(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, pendingAuth("r2"), 50*time.Millisecond))
	time.Sleep(100 * time.Millisecond)

	_, err := store.Take(ctx, "r2")
	assert.ErrorIs(t, err, automation.ErrAuthorizationNotFound)
}

func TestNewRedisAuthorizationStoreWithClient_DefaultPrefix(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	store := NewRedisAuthorizationStoreWithClient(client, "")
	defer store.Close()

	assert.Equal(t, DefaultKeyPrefix, store.keyPrefix)
	assert.Same(t, client, store.Client())
}

func TestRedisAuthorizationStore_TakeIsAtomic(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, pendingAuth("r3"), time.Minute))

	const takers = 8
	var wg sync.WaitGroup
	var won atomic.Int32
	for i := 0; i < takers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Take(ctx, "r3"); err == nil {
				won.Add(1)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), won.Load(), "a state must be redeemed once")
}

func TestFactory_UsesRedis(t *testing.T) {
	cfg := testRedisConfig(t)

	store, err := NewAuthorizationStoreFactory(WithRedis(cfg), WithInMemoryFallback(false)).
		CreateStore(context.Background())
	require.NoError(t, err)
	defer store.Close()

	assert.IsType(t, &RedisAuthorizationStore{}, store)
}
