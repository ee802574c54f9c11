// Package slog provides log/slog decorators for the locsearch service
// interfaces. Each decorator logs one record per call with its duration
// and error.
package slog
