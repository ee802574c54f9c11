package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/locsearch"
)

// Compile-time interface verification.
var _ locsearch.Cache = (*CacheService)(nil)

// CacheService implements locsearch.Cache using the web_cache table.
type CacheService struct {
	db *DB
}

// NewCacheService creates a new CacheService.
func NewCacheService(db *DB) *CacheService {
	return &CacheService{db: db}
}

// Get retrieves the cached entry for url.
func (s *CacheService) Get(ctx context.Context, url string) (*locsearch.CacheEntry, error) {
	entry := locsearch.CacheEntry{URL: url}
	var fetchedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT content, fetched_at
		FROM web_cache
		WHERE url = ?
	`, url).Scan(&entry.Content, &fetchedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, locsearch.Errorf(locsearch.ENOTFOUND, "no cache entry for %q", url)
	}
	if err != nil {
		return nil, locsearch.Errorf(locsearch.EUNAVAILABLE, "cache read: %v", err)
	}

	entry.FetchedAt, err = parseTimestamp(fetchedAt, "fetched_at")
	if err != nil {
		return nil, locsearch.Errorf(locsearch.EUNAVAILABLE, "cache read: %v", err)
	}

	return &entry, nil
}

// Put creates or replaces the entry for url.
func (s *CacheService) Put(ctx context.Context, url, content string) error {
	fetchedAt := formatTimestamp(time.Now())

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO web_cache (url, content, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT (url) DO UPDATE SET
			content = excluded.content,
			fetched_at = excluded.fetched_at
	`, url, content, fetchedAt)
	if err != nil {
		return locsearch.Errorf(locsearch.EUNAVAILABLE, "cache write: %v", err)
	}
	return nil
}
