package locsearch

import "context"

// Generator produces a completion for a prompt using a language model.
type Generator interface {
	// Generate returns the model's complete (non-streamed) response.
	// Returns ETRANSPORT if the backend is unreachable or times out and
	// EBACKEND if it rejects the request or answers with a malformed body.
	Generate(ctx context.Context, prompt string) (string, error)
}
