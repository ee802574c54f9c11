package mock

import "github.com/fwojciec/locsearch"

var _ locsearch.Converter = (*Converter)(nil)

// Converter is a mock implementation of locsearch.Converter.
type Converter struct {
	ConvertFn func(html string) (string, error)
}

func (c *Converter) Convert(html string) (string, error) {
	return c.ConvertFn(html)
}
