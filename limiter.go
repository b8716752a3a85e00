package sosumi

import "context"

// HostLimiter paces outbound requests per upstream host.
type HostLimiter interface {
	// Wait blocks until a request to host may proceed or ctx is done.
	Wait(ctx context.Context, host string) error
}
