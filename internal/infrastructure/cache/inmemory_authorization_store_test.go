package cache

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erp/automation/internal/domain/automation"
)

func pendingAuth(state string) automation.PendingAuthorization {
	return automation.PendingAuthorization{
		State:        state,
		CodeVerifier: "verifier-" + state,
		RedirectURI:  "https://host.example.com/oauth/callback",
		CreatedAt:    time.Now(),
	}
}

func TestInMemoryAuthorizationStore_PutTake(t *testing.T) {
	store := NewInMemoryAuthorizationStore()
	defer store.Close()

	ctx := context.Background()

	t.Run("take returns what was put", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, pendingAuth("s1"), time.Hour))

		got, err := store.Take(ctx, "s1")
		require.NoError(t, err)
		assert.Equal(t, "verifier-s1", got.CodeVerifier)
		assert.Equal(t, "https://host.example.com/oauth/callback", got.RedirectURI)
	})

	t.Run("take is single use", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, pendingAuth("s2"), time.Hour))

		_, err := store.Take(ctx, "s2")
		require.NoError(t, err)

		_, err = store.Take(ctx, "s2")
		assert.ErrorIs(t, err, automation.ErrAuthorizationNotFound)
	})

	t.Run("unknown state", func(t *testing.T) {
		_, err := store.Take(ctx, "missing")
		assert.ErrorIs(t, err, automation.ErrAuthorizationNotFound)
	})

	t.Run("pending state is not overwritten", func(t *testing.T) {
		require.NoError(t, store.Put(ctx, pendingAuth("s3"), time.Hour))

		other := pendingAuth("s3")
		other.CodeVerifier = "other"
		assert.ErrorIs(t, store.Put(ctx, other, time.Hour), automation.ErrAuthorizationExists)

		got, err := store.Take(ctx, "s3")
		require.NoError(t, err)
		assert.Equal(t, "verifier-s3", got.CodeVerifier)
	})
}

func TestInMemoryAuthorizationStore_Expiration(t *testing.T) {
	store := NewInMemoryAuthorizationStore()
	defer store.Close()

	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, pendingAuth("expiring"), 10*time.Minute))
	require.NoError(t, store.Put(ctx, pendingAuth("fresh"), time.Hour))

	now = now.Add(11 * time.Minute)

	_, err := store.Take(ctx, "expiring")
	assert.ErrorIs(t, err, automation.ErrAuthorizationNotFound)

	// an expired state can be reused
	require.NoError(t, store.Put(ctx, pendingAuth("expiring"), time.Minute))

	now = now.Add(2 * time.Minute)
	store.cleanup()
	assert.Equal(t, 1, store.Size())

	_, err = store.Take(ctx, "fresh")
	assert.NoError(t, err)
}

func TestInMemoryAuthorizationStore_ConcurrentTake(t *testing.T) {
	store := NewInMemoryAuthorizationStore()
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Put(ctx, pendingAuth("race"), time.Hour))

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := store.Take(ctx, "race"); err == nil {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, wins)
}

func TestInMemoryAuthorizationStore_CloseTwice(t *testing.T) {
	store := NewInMemoryAuthorizationStore()
	assert.NoError(t, store.Close())
	assert.NoError(t, store.Close())
}
