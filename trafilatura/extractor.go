// Package trafilatura extracts the main text of web pages with go-trafilatura.
package trafilatura

import (
	"bytes"
	"net/url"
	"strings"

	"github.com/fwojciec/locsearch"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements locsearch.Extractor at compile time.
var _ locsearch.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract main content from HTML.
// Comments are excluded, tables are kept, and extraction favors recall.
type Extractor struct {
	converter locsearch.Converter
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithConverter makes the extractor render the main content node through
// the converter (e.g., to Markdown) instead of returning plain text.
func WithConverter(c locsearch.Converter) Option {
	return func(e *Extractor) {
		e.converter = c
	}
}

// NewExtractor creates a new Extractor.
func NewExtractor(opts ...Option) *Extractor {
	e := &Extractor{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Options returns the extraction options used for a page from sourceURL.
func Options(sourceURL string) trafilatura.Options {
	opts := trafilatura.Options{
		EnableFallback:  true,
		Focus:           trafilatura.FavorRecall,
		ExcludeComments: true,
		ExcludeTables:   false,
	}
	if u, err := url.Parse(sourceURL); err == nil && u.Host != "" {
		opts.OriginalURL = u
	}
	return opts
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML, sourceURL string) (text string) {
	if strings.TrimSpace(rawHTML) == "" {
		return ""
	}
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), Options(sourceURL))
	if err != nil || result == nil {
		return ""
	}

	if e.converter != nil && result.ContentNode != nil {
		if converted, ok := e.convert(result.ContentNode); ok {
			return converted
		}
	}

	return strings.TrimSpace(result.ContentText)
}

// convert renders n and runs it through the configured converter.
func (e *Extractor) convert(n *html.Node) (string, bool) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", false
	}
	md, err := e.converter.Convert(buf.String())
	if err != nil {
		return "", false
	}
	md = strings.TrimSpace(md)
	return md, md != ""
}
