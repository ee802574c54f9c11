// Package answer implements the retrieval-augmented answer pipeline on top
// of the locsearch interfaces: cache-first page fetching and orchestration
// of search, fetch, prompt assembly, and generation.
package answer

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/locsearch"
)

// DefaultRetryDelays returns backoff delays for n retries: 1s, 2s, 4s, ...
func DefaultRetryDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, n)
	d := time.Second
	for range n {
		delays = append(delays, d)
		d *= 2
	}
	return delays
}

// Retry calls fn until it succeeds, returns a non-transport error, or the
// delays are exhausted. One attempt is made per delay plus the initial one,
// so a nil delays slice means no retries. Only ETRANSPORT errors are retried.
func Retry[T any](ctx context.Context, delays []time.Duration, logger *slog.Logger, target string, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	for attempt := 0; ; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if attempt >= len(delays) || locsearch.ErrorCode(err) != locsearch.ETRANSPORT {
			return zero, err
		}

		if logger != nil {
			logger.Debug("retry",
				"target", target,
				"attempt", attempt+2,
				"delay", delays[attempt],
				"err", err,
			)
		}

		select {
		case <-ctx.Done():
			return zero, err
		case <-time.After(delays[attempt]):
		}
	}
}
