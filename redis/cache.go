// Package redis provides a Redis-backed robots policy cache for
// deployments that share policy state across instances.
package redis

import (
	"context"
	"encoding/json"
	"time"

	sosumi "github.com/NSHipster/sosumi.ai"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a cached policy is served before the origin
// is consulted again.
const DefaultTTL = 5 * time.Minute

// keyPrefix namespaces robots policy keys.
const keyPrefix = "sosumi:robots:"

var _ sosumi.RobotsCache = (*Cache)(nil)

// Cache is a Redis-backed implementation of sosumi.RobotsCache. A miss
// and a Redis failure look the same to the caller, so an unreachable
// Redis degrades to refetching policies from origins.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// Option configures a Cache.
type Option func(*Cache)

// WithTTL sets how long cached policies live. Non-positive values are
// ignored. Defaults to DefaultTTL.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewCache creates a Cache storing policies through client. The client's
// lifecycle is managed by the caller.
func NewCache(client *redis.Client, opts ...Option) *Cache {
	c := &Cache{
		client: client,
		ttl:    DefaultTTL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// payload is the stored form of a policy.
type payload struct {
	Kind  sosumi.RobotsPolicyKind `json:"kind"`
	Rules string                  `json:"rules,omitempty"`
}

// Get retrieves the cached policy for an origin. redis.Nil, transport
// failures, and undecodable entries all report a miss.
func (c *Cache) Get(ctx context.Context, origin string) (sosumi.RobotsPolicy, bool) {
	raw, err := c.client.Get(ctx, keyPrefix+origin).Result()
	if err != nil {
		return sosumi.RobotsPolicy{}, false
	}

	var p payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return sosumi.RobotsPolicy{}, false
	}
	return sosumi.RobotsPolicy{Kind: p.Kind, Rules: p.Rules}, true
}

// Set stores the policy for an origin with the cache TTL. Storage
// failures are dropped; the policy is refetched on the next lookup.
func (c *Cache) Set(ctx context.Context, origin string, policy sosumi.RobotsPolicy) {
	raw, err := json.Marshal(payload{Kind: policy.Kind, Rules: policy.Rules})
	if err != nil {
		return
	}
	c.client.Set(ctx, keyPrefix+origin, raw, c.ttl)
}
