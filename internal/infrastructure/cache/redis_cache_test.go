package cache

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"aegis-dashboard/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisCache(t *testing.T, ttl time.Duration) (*RedisSessionCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c, err := NewRedisSessionCache("redis://"+mr.Addr(), ttl, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisSessionCache_SetAndGet(t *testing.T) {
	c, mr := newTestRedisCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "token-abc", domain.CachedIdentity{UserID: "user-1", Email: "a@example.com"})

	got, ok := c.Get(ctx, "token-abc")
	require.True(t, ok)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "a@example.com", got.Email)

	assert.False(t, mr.Exists(redisKeyPrefix+"token-abc"), "raw token must not be used as key")
	assert.True(t, mr.Exists(redisKeyPrefix+tokenKey("token-abc")))
}

func TestRedisSessionCache_TTL(t *testing.T) {
	c, mr := newTestRedisCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "token-abc", domain.CachedIdentity{UserID: "user-1"})
	mr.FastForward(2 * time.Minute)

	_, ok := c.Get(ctx, "token-abc")
	assert.False(t, ok)
}

func TestRedisSessionCache_TTLCappedBySessionExpiry(t *testing.T) {
	c, mr := newTestRedisCache(t, time.Hour)
	ctx := context.Background()

	c.Set(ctx, "token-abc", domain.CachedIdentity{UserID: "user-1", ExpiresAt: time.Now().Add(10 * time.Minute)})

	ttl := mr.TTL(redisKeyPrefix + tokenKey("token-abc"))
	assert.LessOrEqual(t, ttl, 10*time.Minute)
	assert.Greater(t, ttl, time.Duration(0))
}

func TestRedisSessionCache_ExpiredSessionNotStored(t *testing.T) {
	c, mr := newTestRedisCache(t, time.Hour)
	ctx := context.Background()

	c.Set(ctx, "token-abc", domain.CachedIdentity{UserID: "user-1", ExpiresAt: time.Now().Add(-time.Minute)})

	assert.False(t, mr.Exists(redisKeyPrefix+tokenKey("token-abc")))
}

func TestRedisSessionCache_Delete(t *testing.T) {
	c, _ := newTestRedisCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "token-abc", domain.CachedIdentity{UserID: "user-1"})
	c.Delete(ctx, "token-abc")

	_, ok := c.Get(ctx, "token-abc")
	assert.False(t, ok)
}

func TestRedisSessionCache_UnavailableIsMiss(t *testing.T) {
	c, mr := newTestRedisCache(t, time.Minute)
	mr.Close()

	_, ok := c.Get(context.Background(), "token-abc")
	assert.False(t, ok)
}

func TestRedisSessionCache_CorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestRedisCache(t, time.Minute)
	require.NoError(t, mr.Set(redisKeyPrefix+tokenKey("token-abc"), "{not json"))

	_, ok := c.Get(context.Background(), "token-abc")
	assert.False(t, ok)
}
