package mock

import "github.com/fwojciec/locsearch"

var _ locsearch.Extractor = (*Extractor)(nil)

// Extractor is a mock implementation of locsearch.Extractor.
type Extractor struct {
	ExtractFn func(rawHTML, sourceURL string) string
}

func (e *Extractor) Extract(rawHTML, sourceURL string) string {
	return e.ExtractFn(rawHTML, sourceURL)
}
