package mock

import (
	"context"

	sosumi "github.com/NSHipster/sosumi.ai"
)

var _ sosumi.RobotsService = (*RobotsService)(nil)

// RobotsService is a mock implementation of sosumi.RobotsService.
type RobotsService struct {
	CanFetchFn func(ctx context.Context, target *sosumi.TargetURL) error
}

func (s *RobotsService) CanFetch(ctx context.Context, target *sosumi.TargetURL) error {
	return s.CanFetchFn(ctx, target)
}

var _ sosumi.RobotsFetcher = (*RobotsFetcher)(nil)

// RobotsFetcher is a mock implementation of sosumi.RobotsFetcher.
type RobotsFetcher struct {
	FetchRobotsFn func(ctx context.Context, origin string) (int, string, error)
}

func (f *RobotsFetcher) FetchRobots(ctx context.Context, origin string) (int, string, error) {
	return f.FetchRobotsFn(ctx, origin)
}

var _ sosumi.RobotsCache = (*RobotsCache)(nil)

// RobotsCache is a mock implementation of sosumi.RobotsCache.
type RobotsCache struct {
	GetFn func(ctx context.Context, origin string) (sosumi.RobotsPolicy, bool)
	SetFn func(ctx context.Context, origin string, policy sosumi.RobotsPolicy)
}

func (c *RobotsCache) Get(ctx context.Context, origin string) (sosumi.RobotsPolicy, bool) {
	return c.GetFn(ctx, origin)
}

func (c *RobotsCache) Set(ctx context.Context, origin string, policy sosumi.RobotsPolicy) {
	c.SetFn(ctx, origin, policy)
}
