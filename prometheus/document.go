package prometheus

import (
	"context"

	sosumi "github.com/NSHipster/sosumi.ai"
)

// Ensure DocumentService implements sosumi.DocumentService.
var _ sosumi.DocumentService = (*DocumentService)(nil)

// DocumentService wraps a DocumentService, counting fetches by outcome.
type DocumentService struct {
	next    sosumi.DocumentService
	metrics *Metrics
}

// NewDocumentService creates a new DocumentService.
func NewDocumentService(next sosumi.DocumentService, metrics *Metrics) *DocumentService {
	return &DocumentService{next: next, metrics: metrics}
}

// FetchDocument delegates to the wrapped service and counts the outcome.
func (s *DocumentService) FetchDocument(ctx context.Context, target *sosumi.TargetURL) (*sosumi.Document, error) {
	doc, err := s.next.FetchDocument(ctx, target)
	outcome := "ok"
	if err != nil {
		outcome = sosumi.ErrorCode(err)
	}
	s.metrics.DocumentFetches.WithLabelValues(outcome).Inc()
	return doc, err
}
