package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/erp/automation/internal/domain/automation"
)

// AuthorizationStoreFactory creates authorization stores based on configuration
type AuthorizationStoreFactory struct {
	redisConfig           RedisConfig
	redisEnabled          bool
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// FactoryOption is a functional option for configuring the factory
type FactoryOption func(*AuthorizationStoreFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) FactoryOption {
	return func(f *AuthorizationStoreFactory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithInMemoryFallback controls whether to fall back to the in-memory store
// when Redis is unavailable. Default is true.
func WithInMemoryFallback(allow bool) FactoryOption {
	return func(f *AuthorizationStoreFactory) {
		f.allowInMemoryFallback = allow
	}
}

// WithRedis enables the Redis store with the given connection settings
func WithRedis(cfg RedisConfig) FactoryOption {
	return func(f *AuthorizationStoreFactory) {
		f.redisConfig = cfg
		f.redisEnabled = true
	}
}

// NewAuthorizationStoreFactory creates a new factory
func NewAuthorizationStoreFactory(opts ...FactoryOption) *AuthorizationStoreFactory {
	f := &AuthorizationStoreFactory{
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateStore returns a Redis store when Redis is enabled and reachable.
// Otherwise it returns an in-memory store, unless fallback is disabled.
func (f *AuthorizationStoreFactory) CreateStore(ctx context.Context) (automation.AuthorizationStore, error) {
	if !f.redisEnabled {
		f.logger.Info("using in-memory authorization store")
		return NewInMemoryAuthorizationStore(), nil
	}

	store, err := NewRedisAuthorizationStore(ctx, f.redisConfig)
	if err == nil {
		f.logger.Info("using Redis authorization store",
			zap.String("host", f.redisConfig.Host),
			zap.Int("port", f.redisConfig.Port),
		)
		return store, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis required for authorization state but unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory authorization store. "+
		"Authorization flows started on another instance will fail their callback here.",
		zap.Error(err),
	)
	return NewInMemoryAuthorizationStore(), nil
}
