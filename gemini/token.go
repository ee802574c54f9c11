package gemini

import (
	"context"

	"github.com/fwojciec/locsearch"
	"google.golang.org/genai"
	"google.golang.org/genai/tokenizer"
)

var _ locsearch.TokenCounter = (*TokenCounter)(nil)

// TokenCounter counts prompt tokens locally using the Gemini tokenizer.
type TokenCounter struct {
	tok *tokenizer.LocalTokenizer
}

// NewTokenCounter creates a new TokenCounter for the given model.
func NewTokenCounter(model string) (*TokenCounter, error) {
	tok, err := tokenizer.NewLocalTokenizer(model)
	if err != nil {
		return nil, locsearch.Errorf(locsearch.EINVALID, "tokenizer for %q: %v", model, err)
	}
	return &TokenCounter{tok: tok}, nil
}

// CountTokens counts the number of tokens in the given text.
func (tc *TokenCounter) CountTokens(ctx context.Context, text string) (int, error) {
	if text == "" {
		return 0, nil
	}

	result, err := tc.tok.CountTokens([]*genai.Content{genai.NewContentFromText(text, "user")}, nil)
	if err != nil {
		return 0, locsearch.Errorf(locsearch.EINTERNAL, "count tokens: %v", err)
	}

	return int(result.TotalTokens), nil
}
