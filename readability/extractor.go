// Package readability extracts the main text of web pages with go-readability.
// It serves as a fallback when trafilatura finds no content.
package readability

import (
	"net/url"
	"strings"

	"github.com/fwojciec/locsearch"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements locsearch.Extractor at compile time.
var _ locsearch.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the article text.
func (e *Extractor) Extract(rawHTML, sourceURL string) (text string) {
	if strings.TrimSpace(rawHTML) == "" {
		return ""
	}
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()

	var pageURL *url.URL
	if u, err := url.Parse(sourceURL); err == nil && u.Host != "" {
		pageURL = u
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), pageURL)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(article.TextContent)
}
