package eagleview

import (
	"context"
	"sync"
	"time"
)

// refreshSkew refreshes tokens slightly before their reported expiry so an
// in-flight request never carries a token that dies mid-call.
const refreshSkew = time.Minute

// TokenCache is a single-entry bearer token store with expiry. It is owned
// by whoever constructs the client, so tests can inject a fresh one and
// nothing hides in package state.
//
// The lock is held across a refresh: concurrent first requests block on one
// fetch instead of racing to the token endpoint redundantly.
type TokenCache struct {
	mu     sync.Mutex
	token  string
	expiry time.Time
}

// NewTokenCache returns an empty cache.
func NewTokenCache() *TokenCache {
	return &TokenCache{}
}

// Token returns the cached token, or calls fetch to obtain a fresh one and
// caches it with the returned lifetime.
func (c *TokenCache) Token(ctx context.Context, fetch func(ctx context.Context) (string, time.Duration, error)) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && time.Now().Before(c.expiry.Add(-refreshSkew)) {
		return c.token, nil
	}

	token, ttl, err := fetch(ctx)
	if err != nil {
		return "", err
	}

	c.token = token
	c.expiry = time.Now().Add(ttl)
	return c.token, nil
}

// Invalidate drops the cached token, forcing the next call to refresh.
func (c *TokenCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.token = ""
	c.expiry = time.Time{}
}
