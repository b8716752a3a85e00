package prometheus

import (
	"context"
	"fmt"

	sosumi "github.com/NSHipster/sosumi.ai"
)

// Ensure RobotsService implements sosumi.RobotsService.
var _ sosumi.RobotsService = (*RobotsService)(nil)

// RobotsService wraps a RobotsService, counting checks by outcome.
type RobotsService struct {
	next    sosumi.RobotsService
	metrics *Metrics
}

// NewRobotsService creates a new RobotsService.
func NewRobotsService(next sosumi.RobotsService, metrics *Metrics) *RobotsService {
	return &RobotsService{next: next, metrics: metrics}
}

// CanFetch delegates to the wrapped service and counts the outcome.
func (s *RobotsService) CanFetch(ctx context.Context, target *sosumi.TargetURL) error {
	err := s.next.CanFetch(ctx, target)
	switch {
	case err == nil:
		s.metrics.RobotsChecks.WithLabelValues("allowed").Inc()
	case sosumi.ErrorCode(err) == sosumi.EROBOTSDENIED:
		s.metrics.RobotsChecks.WithLabelValues("denied").Inc()
	default:
		s.metrics.RobotsChecks.WithLabelValues("error").Inc()
	}
	return err
}

// Ensure RobotsFetcher implements sosumi.RobotsFetcher.
var _ sosumi.RobotsFetcher = (*RobotsFetcher)(nil)

// RobotsFetcher wraps a RobotsFetcher, counting fetches by status class.
type RobotsFetcher struct {
	next    sosumi.RobotsFetcher
	metrics *Metrics
}

// NewRobotsFetcher creates a new RobotsFetcher.
func NewRobotsFetcher(next sosumi.RobotsFetcher, metrics *Metrics) *RobotsFetcher {
	return &RobotsFetcher{next: next, metrics: metrics}
}

// FetchRobots delegates to the wrapped fetcher and counts the outcome.
func (f *RobotsFetcher) FetchRobots(ctx context.Context, origin string) (int, string, error) {
	status, body, err := f.next.FetchRobots(ctx, origin)
	if err != nil {
		f.metrics.RobotsFetches.WithLabelValues("error").Inc()
	} else {
		f.metrics.RobotsFetches.WithLabelValues(fmt.Sprintf("%dxx", status/100)).Inc()
	}
	return status, body, err
}

// Ensure RobotsCache implements sosumi.RobotsCache.
var _ sosumi.RobotsCache = (*RobotsCache)(nil)

// RobotsCache wraps a RobotsCache, counting hits and misses.
type RobotsCache struct {
	next    sosumi.RobotsCache
	metrics *Metrics
}

// NewRobotsCache creates a new RobotsCache.
func NewRobotsCache(next sosumi.RobotsCache, metrics *Metrics) *RobotsCache {
	return &RobotsCache{next: next, metrics: metrics}
}

// Get delegates to the wrapped cache and counts the hit or miss.
func (c *RobotsCache) Get(ctx context.Context, origin string) (sosumi.RobotsPolicy, bool) {
	policy, ok := c.next.Get(ctx, origin)
	if ok {
		c.metrics.RobotsCacheHits.Inc()
	} else {
		c.metrics.RobotsCacheMisses.Inc()
	}
	return policy, ok
}

// Set delegates to the wrapped cache.
func (c *RobotsCache) Set(ctx context.Context, origin string, policy sosumi.RobotsPolicy) {
	c.next.Set(ctx, origin, policy)
}
