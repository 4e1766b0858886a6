package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/erp/automation/internal/domain/automation"
)

// DefaultKeyPrefix namespaces authorization keys in Redis
const DefaultKeyPrefix = "automation:oauth:state:"

// RedisAuthorizationStore implements automation.AuthorizationStore using Redis,
// so several host instances can complete each other's authorization flows
type RedisAuthorizationStore struct {
	client    *redis.Client
	keyPrefix string
}

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host      string
	Port      int
	Password  string
	DB        int
	KeyPrefix string
}

// NewRedisAuthorizationStore connects to Redis and verifies the connection
func NewRedisAuthorizationStore(ctx context.Context, cfg RedisConfig) (*RedisAuthorizationStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisAuthorizationStoreWithClient(client, cfg.KeyPrefix), nil
}

// NewRedisAuthorizationStoreWithClient creates a store around an existing client
func NewRedisAuthorizationStoreWithClient(client *redis.Client, keyPrefix string) *RedisAuthorizationStore {
	if keyPrefix == "" {
		keyPrefix = DefaultKeyPrefix
	}
	return &RedisAuthorizationStore{
		client:    client,
		keyPrefix: keyPrefix,
	}
}

// Put stores p with SET NX so a pending state is never overwritten
func (s *RedisAuthorizationStore) Put(ctx context.Context, p automation.PendingAuthorization, ttl time.Duration) error {
	payload, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to encode authorization: %w", err)
	}

	ok, err := s.client.SetNX(ctx, s.keyPrefix+p.State, payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store authorization: %w", err)
	}
	if !ok {
		return automation.ErrAuthorizationExists
	}
	return nil
}

// Take atomically reads and deletes the authorization with GETDEL
func (s *RedisAuthorizationStore) Take(ctx context.Context, state string) (automation.PendingAuthorization, error) {
	raw, err := s.client.GetDel(ctx, s.keyPrefix+state).Bytes()
	if errors.Is(err, redis.Nil) {
		return automation.PendingAuthorization{}, automation.ErrAuthorizationNotFound
	}
	if err != nil {
		return automation.PendingAuthorization{}, fmt.Errorf("failed to load authorization: %w", err)
	}

	var p automation.PendingAuthorization
	if err := json.Unmarshal(raw, &p); err != nil {
		return automation.PendingAuthorization{}, fmt.Errorf("failed to decode authorization: %w", err)
	}
	return p, nil
}

// Close closes the Redis client
func (s *RedisAuthorizationStore) Close() error {
	return s.client.Close()
}

// Ping checks that Redis is reachable
func (s *RedisAuthorizationStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Client returns the underlying Redis client
func (s *RedisAuthorizationStore) Client() *redis.Client {
	return s.client
}

var _ automation.AuthorizationStore = (*RedisAuthorizationStore)(nil)
