package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/locsearch"
)

var _ locsearch.Generator = (*LoggingGenerator)(nil)

// LoggingGenerator wraps a Generator with logging.
type LoggingGenerator struct {
	next   locsearch.Generator
	logger *slog.Logger
}

// NewLoggingGenerator creates a new LoggingGenerator.
func NewLoggingGenerator(next locsearch.Generator, logger *slog.Logger) *LoggingGenerator {
	return &LoggingGenerator{next: next, logger: logger}
}

// Generate logs prompt and response sizes.
func (g *LoggingGenerator) Generate(ctx context.Context, prompt string) (text string, err error) {
	defer func(begin time.Time) {
		g.logger.Info("generate",
			"prompt_chars", len(prompt),
			"response_chars", len(text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return g.next.Generate(ctx, prompt)
}
