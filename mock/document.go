package mock

import (
	"context"

	sosumi "github.com/NSHipster/sosumi.ai"
)

var _ sosumi.DocumentService = (*DocumentService)(nil)

// DocumentService is a mock implementation of sosumi.DocumentService.
type DocumentService struct {
	FetchDocumentFn func(ctx context.Context, target *sosumi.TargetURL) (*sosumi.Document, error)
}

func (s *DocumentService) FetchDocument(ctx context.Context, target *sosumi.TargetURL) (*sosumi.Document, error) {
	return s.FetchDocumentFn(ctx, target)
}

var _ sosumi.DocumentRenderer = (*DocumentRenderer)(nil)

// DocumentRenderer is a mock implementation of sosumi.DocumentRenderer.
type DocumentRenderer struct {
	RenderFn func(doc *sosumi.Document, source *sosumi.TargetURL, externalBase string) string
}

func (r *DocumentRenderer) Render(doc *sosumi.Document, source *sosumi.TargetURL, externalBase string) string {
	return r.RenderFn(doc, source, externalBase)
}
