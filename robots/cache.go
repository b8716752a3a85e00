package robots

import (
	"context"
	"sync"
	"time"

	sosumi "github.com/NSHipster/sosumi.ai"
)

// DefaultTTL is how long a cached policy stays valid.
const DefaultTTL = 5 * time.Minute

// DefaultMaxEntries caps how many origins the cache holds at once.
const DefaultMaxEntries = 256

var _ sosumi.RobotsCache = (*Cache)(nil)

// Cache is an in-memory robots policy cache with per-entry TTL expiry and
// FIFO eviction once full. Safe for concurrent use.
type Cache struct {
	ttl time.Duration
	max int

	mu      sync.Mutex
	entries map[string]cacheEntry
	order   []string
}

type cacheEntry struct {
	policy    sosumi.RobotsPolicy
	expiresAt time.Time
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL sets the entry lifetime. Non-positive values are ignored.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// WithMaxEntries sets the entry cap. Non-positive values are ignored.
func WithMaxEntries(n int) CacheOption {
	return func(c *Cache) {
		if n > 0 {
			c.max = n
		}
	}
}

// NewCache creates a Cache with DefaultTTL and DefaultMaxEntries.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		ttl:     DefaultTTL,
		max:     DefaultMaxEntries,
		entries: make(map[string]cacheEntry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached policy for an origin. Expired entries drop on
// access and read as misses.
func (c *Cache) Get(_ context.Context, origin string) (sosumi.RobotsPolicy, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[origin]
	if !ok {
		return sosumi.RobotsPolicy{}, false
	}
	if time.Now().After(e.expiresAt) {
		c.removeLocked(origin)
		return sosumi.RobotsPolicy{}, false
	}
	return e.policy, true
}

// Set stores a policy for an origin, evicting the oldest entries when the
// cache is full. Re-setting an origin refreshes its position and expiry.
func (c *Cache) Set(_ context.Context, origin string, policy sosumi.RobotsPolicy) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeExpiredLocked()
	if _, ok := c.entries[origin]; ok {
		c.removeLocked(origin)
	}
	for len(c.order) > 0 && len(c.order) >= c.max {
		c.removeLocked(c.order[0])
	}
	c.entries[origin] = cacheEntry{policy: policy, expiresAt: time.Now().Add(c.ttl)}
	c.order = append(c.order, origin)
}

// Len reports the number of live entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.purgeExpiredLocked()
	return len(c.entries)
}

func (c *Cache) removeLocked(origin string) {
	delete(c.entries, origin)
	for i, o := range c.order {
		if o == origin {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

func (c *Cache) purgeExpiredLocked() {
	now := time.Now()
	var expired []string
	for origin, e := range c.entries {
		if now.After(e.expiresAt) {
			expired = append(expired, origin)
		}
	}
	for _, origin := range expired {
		c.removeLocked(origin)
	}
}
