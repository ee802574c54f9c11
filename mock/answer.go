package mock

import (
	"context"

	"github.com/fwojciec/locsearch"
)

var _ locsearch.Answerer = (*Answerer)(nil)

// Answerer is a mock implementation of locsearch.Answerer.
type Answerer struct {
	AnswerFn func(ctx context.Context, query string) (*locsearch.Answer, error)
}

func (a *Answerer) Answer(ctx context.Context, query string) (*locsearch.Answer, error) {
	return a.AnswerFn(ctx, query)
}
