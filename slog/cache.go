package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/locsearch"
)

var _ locsearch.Cache = (*LoggingCache)(nil)

// LoggingCache wraps a Cache with debug logging. Misses are logged as
// hit=false without an error.
type LoggingCache struct {
	next   locsearch.Cache
	logger *slog.Logger
}

// NewLoggingCache creates a new LoggingCache.
func NewLoggingCache(next locsearch.Cache, logger *slog.Logger) *LoggingCache {
	return &LoggingCache{next: next, logger: logger}
}

// Get logs whether the lookup hit.
func (c *LoggingCache) Get(ctx context.Context, url string) (entry *locsearch.CacheEntry, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"url", url,
			"hit", err == nil,
			"duration", time.Since(begin),
		}
		if err != nil && locsearch.ErrorCode(err) != locsearch.ENOTFOUND {
			attrs = append(attrs, "err", err)
		}
		c.logger.Debug("cache get", attrs...)
	}(time.Now())
	return c.next.Get(ctx, url)
}

// Put logs the stored size.
func (c *LoggingCache) Put(ctx context.Context, url, content string) (err error) {
	defer func(begin time.Time) {
		c.logger.Debug("cache put",
			"url", url,
			"chars", len(content),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return c.next.Put(ctx, url, content)
}
