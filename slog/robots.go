package slog

import (
	"context"
	"log/slog"
	"time"

	sosumi "github.com/NSHipster/sosumi.ai"
)

// Ensure LoggingRobotsService implements sosumi.RobotsService.
var _ sosumi.RobotsService = (*LoggingRobotsService)(nil)

// LoggingRobotsService wraps a RobotsService with debug logging.
type LoggingRobotsService struct {
	next   sosumi.RobotsService
	logger *slog.Logger
}

// NewLoggingRobotsService creates a new LoggingRobotsService.
func NewLoggingRobotsService(next sosumi.RobotsService, logger *slog.Logger) *LoggingRobotsService {
	return &LoggingRobotsService{next: next, logger: logger}
}

// CanFetch delegates to the wrapped service and logs the decision.
func (s *LoggingRobotsService) CanFetch(ctx context.Context, target *sosumi.TargetURL) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("robots check",
			"url", target.String(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CanFetch(ctx, target)
}
