package cache

import (
	"context"
	"net"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	// Shared container for all Redis tests in the package
	sharedRedis   *tcredis.RedisContainer
	sharedRedisMu sync.Mutex
)

func TestMain(m *testing.M) {
	code := m.Run()
	cleanupSharedRedis()
	os.Exit(code)
}

// testRedisConfig returns the address of a Redis server for tests.
// AUTOMATION_TEST_REDIS_ADDR points at an existing server; otherwise a
// redis:7 container is started once and shared by the package. Tests are
// skipped when no container runtime is reachable.
func testRedisConfig(t *testing.T) RedisConfig {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping Redis test in short mode")
	}

	if addr := os.Getenv("AUTOMATION_TEST_REDIS_ADDR"); addr != "" {
		host, port := splitAddr(t, addr)
		return RedisConfig{Host: host, Port: port}
	}

	sharedRedisMu.Lock()
	defer sharedRedisMu.Unlock()

	ctx := context.Background()
	if sharedRedis == nil {
		testcontainers.SkipIfProviderIsNotHealthy(t)

		container, err := tcredis.Run(ctx,
			"redis:7-alpine",
			testcontainers.WithWaitStrategy(
				wait.ForLog("Ready to accept connections").
					WithStartupTimeout(60*time.Second)),
		)
		require.NoError(t, err, "Failed to start Redis container")
		sharedRedis = container
	}

	host, err := sharedRedis.Host(ctx)
	require.NoError(t, err)
	port, err := sharedRedis.MappedPort(ctx, "6379/tcp")
	require.NoError(t, err)
	return RedisConfig{Host: host, Port: port.Int()}
}

func splitAddr(t *testing.T, addr string) (string, int) {
	t.Helper()
	host, portStr, err := net.SplitHostPort(addr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)
	return host, port
}

func cleanupSharedRedis() {
	sharedRedisMu.Lock()
	defer sharedRedisMu.Unlock()

	if sharedRedis != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		_ = sharedRedis.Terminate(ctx)
		sharedRedis = nil
	}
}
