package answer

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/locsearch"
)

// Ensure PageFetcher implements locsearch.PageFetcher at compile time.
var _ locsearch.PageFetcher = (*PageFetcher)(nil)

// PageFetcher returns extracted page text, preferring the cache over the
// network. Only non-empty extractor output is ever written to the cache.
type PageFetcher struct {
	// Cache is optional. A nil cache always fetches live.
	Cache     locsearch.Cache
	Fetcher   locsearch.Fetcher
	Extractor locsearch.Extractor

	// MaxAge is how long a cache entry stays fresh. Zero means forever.
	MaxAge time.Duration

	// RetryDelays are backoff delays for transport failures. Empty means
	// a single attempt.
	RetryDelays []time.Duration

	Logger *slog.Logger

	// Progress is optional. It receives a ProgressFetching event before each
	// live fetch. Cache hits are not reported.
	Progress ProgressFunc

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// FetchPage returns the extracted main content of url.
func (p *PageFetcher) FetchPage(ctx context.Context, url string) (string, error) {
	logger := p.logger()

	if content, ok := p.cached(ctx, url); ok {
		logger.Debug("cache hit", "url", url, "chars", len(content))
		return content, nil
	}

	p.Progress.report(ProgressEvent{Type: ProgressFetching, URL: url})

	html, err := Retry(ctx, p.RetryDelays, logger, url, func(ctx context.Context) (string, error) {
		return p.Fetcher.Fetch(ctx, url)
	})
	if err != nil {
		return "", err
	}

	content := p.Extractor.Extract(html, url)
	if content == "" {
		logger.Debug("no extractable content", "url", url, "bytes", len(html))
		return "", nil
	}

	if p.Cache != nil {
		if err := p.Cache.Put(ctx, url, content); err != nil {
			logger.Warn("cache write failed", "url", url, "err", err)
		}
	}

	return content, nil
}

// cached returns fresh, non-empty cached content for url. Any cache error
// counts as a miss.
func (p *PageFetcher) cached(ctx context.Context, url string) (string, bool) {
	if p.Cache == nil {
		return "", false
	}

	entry, err := p.Cache.Get(ctx, url)
	if err != nil {
		if locsearch.ErrorCode(err) != locsearch.ENOTFOUND {
			p.logger().Warn("cache read failed", "url", url, "err", err)
		}
		return "", false
	}
	if entry.Content == "" || entry.IsStale(p.now(), p.MaxAge) {
		return "", false
	}
	return entry.Content, true
}

func (p *PageFetcher) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *PageFetcher) logger() *slog.Logger {
	if p.Logger != nil {
		return p.Logger
	}
	return slog.New(slog.DiscardHandler)
}
