package locsearch

import (
	"context"
	"time"
)

// CacheEntry is extracted page text stored under its exact source URL.
type CacheEntry struct {
	URL       string    `json:"url"`
	Content   string    `json:"content"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// IsStale reports whether the entry is older than maxAge at now.
// A non-positive maxAge means entries never go stale.
func (e *CacheEntry) IsStale(now time.Time, maxAge time.Duration) bool {
	if maxAge <= 0 {
		return false
	}
	return now.Sub(e.FetchedAt) > maxAge
}

// Cache stores extracted page text keyed by URL.
// The key is the URL string exactly as given; no normalization is applied.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the entry stored for url.
	// Returns ENOTFOUND if no entry exists and EUNAVAILABLE if the store
	// cannot be read.
	Get(ctx context.Context, url string) (*CacheEntry, error)

	// Put creates or replaces the entry for url and refreshes its timestamp.
	// Returns EUNAVAILABLE if the store cannot be written.
	Put(ctx context.Context, url, content string) error
}
