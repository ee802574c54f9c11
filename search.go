package locsearch

import "context"

// SearchResult is a single entry of a search backend's result feed.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher submits queries to a web search backend.
type Searcher interface {
	// Search returns results in backend (relevance) order.
	// Entries without a link are skipped. A feed that cannot be parsed
	// yields an empty slice rather than an error.
	// Returns ETRANSPORT if the backend is unreachable and EBACKEND if it
	// answers with a non-success status.
	Search(ctx context.Context, query string) ([]SearchResult, error)
}
