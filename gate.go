package sosumi

import "context"

// Gate is the combined outbound-access decision: host policy first, then
// robots policy. A host-policy rejection returns before any robots.txt
// traffic can happen.
type Gate struct {
	Rules  HostRules
	Robots RobotsService
}

// Authorize returns nil when target may be fetched, or the first failing
// policy's error.
func (g *Gate) Authorize(ctx context.Context, target *TargetURL) error {
	if err := g.Rules.Evaluate(target.Hostname()); err != nil {
		return err
	}
	if g.Robots == nil {
		return nil
	}
	return g.Robots.CanFetch(ctx, target)
}
