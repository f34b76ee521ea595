// Package querycache caches upstream query results with per-family
// staleness windows and prefix invalidation. Concurrent fetches for the
// same key are coalesced so a burst of identical requests costs one
// upstream call.
package querycache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Staleness windows per query family.
const (
	ListTTL  = 30 * time.Second
	GraphTTL = 60 * time.Second
)

// Cache is a staleness-based query cache. The zero value is not usable;
// construct with New.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]entry
	group   singleflight.Group
	now     func() time.Time
}

type entry struct {
	value     any
	fetchedAt time.Time
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

// Key builds a cache key from a family prefix and the query parameters
// that distinguish one query from another within the family.
func Key(prefix string, params ...string) string {
	if len(params) == 0 {
		return prefix + "|"
	}
	digest := sha256.Sum256([]byte(strings.Join(params, "\x00")))
	return prefix + "|" + hex.EncodeToString(digest[:8])
}

// Fetch returns the cached value for key if it is fresher than ttl,
// otherwise calls fn and caches the result. Errors are never cached.
// Concurrent calls for the same key share one fn invocation.
func Fetch[T any](ctx context.Context, c *Cache, key string, ttl time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	if value, ok := lookup[T](c, key, ttl); ok {
		return value, nil
	}

	result, err, _ := c.group.Do(key, func() (any, error) {
		// A coalesced waiter may arrive just after the winner stored the
		// value; serve that instead of refetching.
		if value, ok := lookup[T](c, key, ttl); ok {
			return value, nil
		}

		value, err := fn(ctx)
		if err != nil {
			return value, err
		}

		c.mu.Lock()
		c.entries[key] = entry{value: value, fetchedAt: c.now()}
		c.mu.Unlock()

		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return result.(T), nil
}

func lookup[T any](c *Cache, key string, ttl time.Duration) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var zero T
	e, ok := c.entries[key]
	if !ok || c.now().Sub(e.fetchedAt) >= ttl {
		return zero, false
	}
	value, ok := e.value.(T)
	if !ok {
		return zero, false
	}
	return value, true
}

// Invalidate drops one exact key.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
}

// InvalidatePrefix drops every entry whose key starts with the family
// prefix.
func (c *Cache) InvalidatePrefix(prefix string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key := range c.entries {
		if strings.HasPrefix(key, prefix+"|") {
			delete(c.entries, key)
		}
	}
}

// Len reports the number of live entries, fresh or stale.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
