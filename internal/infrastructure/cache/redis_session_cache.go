package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopfront/backend/internal/domain/identity"
	"github.com/shopfront/backend/internal/infrastructure/config"
)

const defaultSessionKeyPrefix = "shopfront:session:"

// RedisSessionCache stores cached sessions in Redis so that several server
// instances share them
type RedisSessionCache struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisSessionCache connects to Redis and verifies the connection
func NewRedisSessionCache(cfg config.RedisConfig, ttl time.Duration) (*RedisSessionCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSessionCacheWithClient(client, "", ttl), nil
}

// NewRedisSessionCacheWithClient creates a cache on an existing client
func NewRedisSessionCacheWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisSessionCache {
	if keyPrefix == "" {
		keyPrefix = defaultSessionKeyPrefix
	}
	return &RedisSessionCache{
		client:    client,
		keyPrefix: keyPrefix,
		ttl:       ttl,
	}
}

func (c *RedisSessionCache) key(token string) string {
	return c.keyPrefix + token
}

// Get returns the cached session, or nil when the key does not exist
func (c *RedisSessionCache) Get(ctx context.Context, token string) (*identity.CachedSession, error) {
	data, err := c.client.Get(ctx, c.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached session: %w", err)
	}

	var session identity.CachedSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode cached session: %w", err)
	}
	return &session, nil
}

// Set stores the session as JSON with the cache TTL
func (c *RedisSessionCache) Set(ctx context.Context, session *identity.CachedSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	if err := c.client.Set(ctx, c.key(session.Token), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}
	return nil
}

// Delete evicts a token
func (c *RedisSessionCache) Delete(ctx context.Context, token string) error {
	if err := c.client.Del(ctx, c.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to evict session: %w", err)
	}
	return nil
}

// Close closes the Redis client
func (c *RedisSessionCache) Close() error {
	return c.client.Close()
}
