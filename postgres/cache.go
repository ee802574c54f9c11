package postgres

import (
	"context"
	"errors"

	"github.com/fwojciec/locsearch"
	"github.com/jackc/pgx/v5"
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
	if s.db.pool == nil {
		return nil, locsearch.Errorf(locsearch.EUNAVAILABLE, "cache read: database not open")
	}

	ctx, cancel := s.db.withQueryTimeout(ctx)
	defer cancel()

	entry := locsearch.CacheEntry{URL: url}
	err := s.db.pool.QueryRow(ctx, `
		SELECT content, fetched_at
		FROM web_cache
		WHERE url = $1
	`, url).Scan(&entry.Content, &entry.FetchedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, locsearch.Errorf(locsearch.ENOTFOUND, "no cache entry for %q", url)
	}
	if err != nil {
		return nil, locsearch.Errorf(locsearch.EUNAVAILABLE, "cache read: %v", err)
	}

	return &entry, nil
}

// Put creates or replaces the entry for url.
func (s *CacheService) Put(ctx context.Context, url, content string) error {
	if s.db.pool == nil {
		return locsearch.Errorf(locsearch.EUNAVAILABLE, "cache write: database not open")
	}

	ctx, cancel := s.db.withQueryTimeout(ctx)
	defer cancel()

	_, err := s.db.pool.Exec(ctx, `
		INSERT INTO web_cache (url, content, fetched_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (url) DO UPDATE SET
			content = EXCLUDED.content,
			fetched_at = NOW()
	`, url, content)
	if err != nil {
		return locsearch.Errorf(locsearch.EUNAVAILABLE, "cache write: %v", err)
	}
	return nil
}
