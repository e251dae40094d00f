// Package cache provides a small time-boxed cache for read-only API results.
//
// Entries expire a fixed duration after they are stored, regardless of how
// often they are read. There is no explicit invalidation: writers that need
// to observe their own changes must bypass the cache. Concurrent misses for
// the same key are coalesced so only one loader runs at a time.
package cache

import (
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is a TTL cache safe for concurrent use. The zero value is not usable;
// construct with New.
type Cache[V any] struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry[V]

	group singleflight.Group
}

type entry[V any] struct {
	value   V
	expires time.Time
}

// Option customizes a Cache.
type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock overrides the time source, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// New returns a cache whose entries live for ttl. A non-positive ttl yields a
// cache that never stores anything.
func New[V any](ttl time.Duration, opts ...Option) *Cache[V] {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[V]{
		ttl:     ttl,
		now:     o.now,
		entries: make(map[string]entry[V]),
	}
}

// TTL reports the configured entry lifetime.
func (c *Cache[V]) TTL() time.Duration {
	return c.ttl
}

// Enabled reports whether the cache stores values at all.
func (c *Cache[V]) Enabled() bool {
	return c != nil && c.ttl > 0
}

// Get returns the cached value for key when present and not expired.
func (c *Cache[V]) Get(key string) (V, bool) {
	var zero V
	if !c.Enabled() {
		return zero, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return zero, false
	}
	if !c.now().Before(e.expires) {
		delete(c.entries, key)
		return zero, false
	}
	return e.value, true
}

// Set stores value under key for the cache TTL.
func (c *Cache[V]) Set(key string, value V) {
	if !c.Enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = entry[V]{value: value, expires: c.now().Add(c.ttl)}
}

// Do returns the cached value for key, or calls load and caches its result
// on success. Concurrent callers for the same key share one load, including
// its failure: when load is bound to the first caller's context, a
// cancellation there reaches every waiter, and callers whose own context is
// still live should load again. The second return value reports a cache hit.
func (c *Cache[V]) Do(key string, load func() (V, error)) (V, bool, error) {
	if !c.Enabled() {
		v, err := load()
		return v, false, err
	}
	if v, ok := c.Get(key); ok {
		return v, true, nil
	}
	res, err, _ := c.group.Do(key, func() (any, error) {
		if v, ok := c.Get(key); ok {
			return v, nil
		}
		v, err := load()
		if err != nil {
			return v, err
		}
		c.Set(key, v)
		return v, nil
	})
	v, _ := res.(V)
	return v, false, err
}

// Len counts live entries, evicting expired ones along the way.
func (c *Cache[V]) Len() int {
	if !c.Enabled() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	for k, e := range c.entries {
		if !now.Before(e.expires) {
			delete(c.entries, k)
		}
	}
	return len(c.entries)
}

// Purge drops every entry.
func (c *Cache[V]) Purge() {
	if !c.Enabled() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.entries)
}

// Key builds a cache key from an endpoint and its query parameters. Query
// keys are sorted so equivalent parameter sets share a key.
func Key(endpoint string, query url.Values) string {
	endpoint = strings.Trim(endpoint, "/")
	if len(query) == 0 {
		return endpoint
	}
	return endpoint + "?" + query.Encode()
}
