package slog

import (
	"context"
	"log/slog"
	"time"

	sosumi "github.com/NSHipster/sosumi.ai"
)

// Ensure LoggingDocumentService implements sosumi.DocumentService.
var _ sosumi.DocumentService = (*LoggingDocumentService)(nil)

// LoggingDocumentService wraps a DocumentService with debug logging.
type LoggingDocumentService struct {
	next   sosumi.DocumentService
	logger *slog.Logger
}

// NewLoggingDocumentService creates a new LoggingDocumentService.
func NewLoggingDocumentService(next sosumi.DocumentService, logger *slog.Logger) *LoggingDocumentService {
	return &LoggingDocumentService{next: next, logger: logger}
}

// FetchDocument delegates to the wrapped service and logs the fetch.
func (s *LoggingDocumentService) FetchDocument(ctx context.Context, target *sosumi.TargetURL) (doc *sosumi.Document, err error) {
	defer func(begin time.Time) {
		s.logger.Info("fetch document",
			"url", target.String(),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FetchDocument(ctx, target)
}
