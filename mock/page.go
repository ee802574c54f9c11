package mock

import (
	"context"

	"github.com/fwojciec/locsearch"
)

var _ locsearch.PageFetcher = (*PageFetcher)(nil)

// PageFetcher is a mock implementation of locsearch.PageFetcher.
type PageFetcher struct {
	FetchPageFn func(ctx context.Context, url string) (string, error)
}

func (p *PageFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	return p.FetchPageFn(ctx, url)
}
