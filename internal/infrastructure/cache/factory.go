package cache

import (
	"context"
	"fmt"

	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SessionCache is a session cache that owns resources
type SessionCache interface {
	Get(ctx context.Context, token string) (*identity.CachedSession, error)
	Set(ctx context.Context, session *identity.CachedSession) error
	Delete(ctx context.Context, token string) error
	Close() error
}

var (
	_ SessionCache = (*InMemorySessionCache)(nil)
	_ SessionCache = (*RedisSessionCache)(nil)
)

// SessionCacheFactory creates session caches based on configuration
type SessionCacheFactory struct {
	redisConfig           config.RedisConfig
	authConfig            config.AuthConfig
	logger                *zap.Logger
	allowInMemoryFallback bool
}

// SessionCacheFactoryOption is a functional option for configuring the factory
type SessionCacheFactoryOption func(*SessionCacheFactory)

// WithLogger sets the logger for the factory
func WithLogger(logger *zap.Logger) SessionCacheFactoryOption {
	return func(f *SessionCacheFactory) {
		f.logger = logger
	}
}

// WithInMemoryFallback controls whether to fall back to memory when Redis is unavailable.
// Default is true.
func WithInMemoryFallback(allow bool) SessionCacheFactoryOption {
	return func(f *SessionCacheFactory) {
		f.allowInMemoryFallback = allow
	}
}

// NewSessionCacheFactory creates a new factory
func NewSessionCacheFactory(redisCfg config.RedisConfig, authCfg config.AuthConfig, opts ...SessionCacheFactoryOption) *SessionCacheFactory {
	f := &SessionCacheFactory{
		redisConfig:           redisCfg,
		authConfig:            authCfg,
		logger:                zap.NewNop(),
		allowInMemoryFallback: true,
	}

	for _, opt := range opts {
		opt(f)
	}

	return f
}

// CreateCache returns a Redis cache when Redis is enabled and reachable,
// otherwise an in-memory cache
func (f *SessionCacheFactory) CreateCache() (SessionCache, error) {
	if !f.redisConfig.Enabled {
		f.logger.Debug("Using in-memory session cache")
		return NewInMemorySessionCache(f.authConfig.SessionCacheTTL), nil
	}

	c, err := NewRedisSessionCache(f.redisConfig, f.authConfig.SessionCacheTTL)
	if err == nil {
		f.logger.Info("Using Redis session cache", zap.String("addr", f.redisConfig.Addr()))
		return c, nil
	}

	if !f.allowInMemoryFallback {
		return nil, fmt.Errorf("redis session cache unavailable: %w", err)
	}

	f.logger.Warn("Redis unavailable, falling back to in-memory session cache", zap.Error(err))
	return NewInMemorySessionCache(f.authConfig.SessionCacheTTL), nil
}
