package mock

import (
	"context"

	sosumi "github.com/NSHipster/sosumi.ai"
)

var _ sosumi.HostLimiter = (*HostLimiter)(nil)

// HostLimiter is a mock implementation of sosumi.HostLimiter.
type HostLimiter struct {
	WaitFn func(ctx context.Context, host string) error
}

func (l *HostLimiter) Wait(ctx context.Context, host string) error {
	return l.WaitFn(ctx, host)
}
