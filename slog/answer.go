package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/locsearch"
)

var _ locsearch.Answerer = (*LoggingAnswerer)(nil)

// LoggingAnswerer wraps an Answerer with logging.
type LoggingAnswerer struct {
	next   locsearch.Answerer
	logger *slog.Logger
}

// NewLoggingAnswerer creates a new LoggingAnswerer.
func NewLoggingAnswerer(next locsearch.Answerer, logger *slog.Logger) *LoggingAnswerer {
	return &LoggingAnswerer{next: next, logger: logger}
}

// Answer logs the outcome of one pipeline run.
func (a *LoggingAnswerer) Answer(ctx context.Context, query string) (ans *locsearch.Answer, err error) {
	defer func(begin time.Time) {
		attrs := []any{"query", query}
		if ans != nil {
			attrs = append(attrs,
				"request", ans.RequestID,
				"state", ans.State,
				"sources", len(ans.Sources),
				"prompt_tokens", ans.PromptTokens,
			)
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		a.logger.Info("answer", attrs...)
	}(time.Now())
	return a.next.Answer(ctx, query)
}
