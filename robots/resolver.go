// Package robots resolves robots.txt policies per origin, with caching,
// parent-domain fallback, and deduplication of concurrent lookups.
package robots

import (
	"context"
	"net/http"
	"net/url"

	sosumi "github.com/NSHipster/sosumi.ai"
	"golang.org/x/sync/singleflight"
)

var _ sosumi.RobotsService = (*Resolver)(nil)

// Resolver turns origins into effective robots policies. Resolution fails
// open: origins whose robots.txt cannot be fetched allow everything, and a
// missing robots.txt consults parent domains before giving up. Only an
// explicit rule match or a 401/403 response ever denies.
type Resolver struct {
	fetcher   sosumi.RobotsFetcher
	cache     sosumi.RobotsCache
	userAgent string
	group     singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithUserAgent sets the user agent robots rules are evaluated against.
// Defaults to sosumi.UserAgent.
func WithUserAgent(ua string) Option {
	return func(r *Resolver) {
		r.userAgent = ua
	}
}

// NewResolver creates a Resolver backed by the given fetcher and cache.
func NewResolver(fetcher sosumi.RobotsFetcher, cache sosumi.RobotsCache, opts ...Option) *Resolver {
	r := &Resolver{
		fetcher:   fetcher,
		cache:     cache,
		userAgent: sosumi.UserAgent,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CanFetch reports whether the configured user agent may fetch the target
// under its origin's effective robots policy.
func (r *Resolver) CanFetch(ctx context.Context, target *sosumi.TargetURL) error {
	policy := r.Resolve(ctx, target.Origin())
	if !policy.Allows(r.userAgent, target.PathAndQuery()) {
		return sosumi.Errorf(sosumi.EROBOTSDENIED, "robots.txt of %s disallows %s", target.Origin(), target.PathAndQuery())
	}
	return nil
}

// Resolve returns the effective robots policy for an origin. Concurrent
// calls for the same uncached origin share a single fetch.
func (r *Resolver) Resolve(ctx context.Context, origin string) sosumi.RobotsPolicy {
	if policy, ok := r.cache.Get(ctx, origin); ok {
		return policy
	}
	v, _, _ := r.group.Do(origin, func() (any, error) {
		// A second caller may have populated the cache while this one
		// waited on the flight group.
		if policy, ok := r.cache.Get(ctx, origin); ok {
			return policy, nil
		}
		policy := r.resolve(ctx, origin)
		r.cache.Set(ctx, origin, policy)
		return policy, nil
	})
	return v.(sosumi.RobotsPolicy)
}

// resolve performs one uncached resolution. A missing robots.txt defers to
// the parent domain's policy; with no reducible parent left it allows all.
func (r *Resolver) resolve(ctx context.Context, origin string) sosumi.RobotsPolicy {
	policy := r.fetchPolicy(ctx, origin)
	if policy.Kind != sosumi.RobotsNotFound {
		return policy
	}
	if parent := parentOrigin(origin); parent != "" {
		return r.Resolve(ctx, parent)
	}
	return sosumi.RobotsPolicy{Kind: sosumi.RobotsAllowAll}
}

// fetchPolicy maps one robots.txt response to a policy kind.
func (r *Resolver) fetchPolicy(ctx context.Context, origin string) sosumi.RobotsPolicy {
	status, body, err := r.fetcher.FetchRobots(ctx, origin)
	if err != nil {
		return sosumi.RobotsPolicy{Kind: sosumi.RobotsAllowAll}
	}
	switch {
	case status == http.StatusNotFound || status == http.StatusGone:
		return sosumi.RobotsPolicy{Kind: sosumi.RobotsNotFound}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return sosumi.RobotsPolicy{Kind: sosumi.RobotsDenyAll}
	case status >= 200 && status < 300:
		return sosumi.RobotsPolicy{Kind: sosumi.RobotsRules, Rules: body}
	}
	return sosumi.RobotsPolicy{Kind: sosumi.RobotsAllowAll}
}

// parentOrigin rewrites an origin to its parent domain, preserving scheme
// and port. Empty when the host has no reducible parent.
func parentOrigin(origin string) string {
	u, err := url.Parse(origin)
	if err != nil {
		return ""
	}
	parent := sosumi.ParentDomain(u.Hostname())
	if parent == "" {
		return ""
	}
	if port := u.Port(); port != "" {
		parent += ":" + port
	}
	return u.Scheme + "://" + parent
}
