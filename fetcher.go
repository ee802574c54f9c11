package locsearch

import "context"

// Fetcher retrieves the raw HTML of a URL.
type Fetcher interface {
	// Fetch downloads the page at url.
	// Returns ETRANSPORT on network failure or timeout and EBACKEND for a
	// non-success HTTP status.
	Fetch(ctx context.Context, url string) (html string, err error)

	// Close releases any resources held by the fetcher.
	Close() error
}

// PageFetcher returns the extracted text of a page, consulting the cache
// before the network.
type PageFetcher interface {
	// FetchPage returns the extracted main content of url.
	// An empty string with a nil error means the page had no extractable
	// content. Errors describe a failed download; cache failures are never
	// returned.
	FetchPage(ctx context.Context, url string) (string, error)
}
