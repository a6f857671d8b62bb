package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"aegis-dashboard/internal/domain"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "aegis:session:"

// RedisSessionCache shares validated identities between API replicas.
// Implements domain.SessionCache. Redis failures degrade to cache misses.
type RedisSessionCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisSessionCache connects to the Redis instance at url.
func NewRedisSessionCache(url string, ttl time.Duration, logger *slog.Logger) (*RedisSessionCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisSessionCache{client: redis.NewClient(opts), ttl: ttl, logger: logger}, nil
}

// Ping checks connectivity.
func (c *RedisSessionCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (c *RedisSessionCache) Close() error {
	return c.client.Close()
}

// Get retrieves a cached identity by session token.
func (c *RedisSessionCache) Get(ctx context.Context, sessionToken string) (*domain.CachedIdentity, bool) {
	raw, err := c.client.Get(ctx, redisKeyPrefix+tokenKey(sessionToken)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "session cache read failed", "error", err)
		}
		return nil, false
	}

	var entry domain.CachedIdentity
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.WarnContext(ctx, "session cache entry undecodable", "error", err)
		return nil, false
	}
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		return nil, false
	}
	return &entry, true
}

// Set stores a validated identity. The entry never outlives the session.
func (c *RedisSessionCache) Set(ctx context.Context, sessionToken string, identity domain.CachedIdentity) {
	ttl := c.ttl
	if !identity.ExpiresAt.IsZero() {
		if remaining := time.Until(identity.ExpiresAt); remaining < ttl {
			ttl = remaining
		}
	}
	if ttl <= 0 {
		return
	}

	raw, err := json.Marshal(identity)
	if err != nil {
		c.logger.WarnContext(ctx, "session cache encode failed", "error", err)
		return
	}
	if err := c.client.Set(ctx, redisKeyPrefix+tokenKey(sessionToken), raw, ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "session cache write failed", "error", err)
	}
}

// Delete evicts a session token.
func (c *RedisSessionCache) Delete(ctx context.Context, sessionToken string) {
	if err := c.client.Del(ctx, redisKeyPrefix+tokenKey(sessionToken)).Err(); err != nil {
		c.logger.WarnContext(ctx, "session cache delete failed", "error", err)
	}
}
