package cache

import (
	"context"
	"time"

	"aegis-dashboard/internal/domain"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// SessionCache is a bounded in-process cache of validated identities with
// a fixed TTL. Implements domain.SessionCache.
type SessionCache struct {
	lru *expirable.LRU[string, domain.CachedIdentity]
}

// NewSessionCache creates a cache holding at most size entries for ttl each.
func NewSessionCache(size int, ttl time.Duration) *SessionCache {
	if size <= 0 {
		size = 1024
	}
	return &SessionCache{lru: expirable.NewLRU[string, domain.CachedIdentity](size, nil, ttl)}
}

// Get retrieves a cached identity by session token.
func (c *SessionCache) Get(_ context.Context, sessionToken string) (*domain.CachedIdentity, bool) {
	entry, ok := c.lru.Get(tokenKey(sessionToken))
	if !ok {
		return nil, false
	}
	// The identity provider's own expiry still applies inside the TTL window.
	if !entry.ExpiresAt.IsZero() && time.Now().After(entry.ExpiresAt) {
		c.lru.Remove(tokenKey(sessionToken))
		return nil, false
	}
	return &entry, true
}

// Set stores a validated identity.
func (c *SessionCache) Set(_ context.Context, sessionToken string, identity domain.CachedIdentity) {
	c.lru.Add(tokenKey(sessionToken), identity)
}

// Delete evicts a session token, used on sign-out.
func (c *SessionCache) Delete(_ context.Context, sessionToken string) {
	c.lru.Remove(tokenKey(sessionToken))
}

// Len returns the number of live entries.
func (c *SessionCache) Len() int {
	return c.lru.Len()
}
