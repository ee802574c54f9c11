package mock

import (
	"context"

	"github.com/fwojciec/locsearch"
)

var _ locsearch.Searcher = (*Searcher)(nil)

// Searcher is a mock implementation of locsearch.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, query string) ([]locsearch.SearchResult, error)
}

func (s *Searcher) Search(ctx context.Context, query string) ([]locsearch.SearchResult, error) {
	return s.SearchFn(ctx, query)
}
