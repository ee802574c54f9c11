package locsearch

// Extractor reduces raw HTML to the plain text of its main content.
// Comment sections are excluded and tables are kept as text.
type Extractor interface {
	// Extract returns the main content of rawHTML, or an empty string when
	// nothing usable can be extracted. sourceURL may be empty.
	// Extract never fails; internal errors yield an empty string.
	Extract(rawHTML, sourceURL string) string
}

// ExtractorChain tries each extractor in order and returns the first
// non-empty result.
type ExtractorChain []Extractor

// Extract implements Extractor.
func (c ExtractorChain) Extract(rawHTML, sourceURL string) string {
	for _, e := range c {
		if text := safeExtract(e, rawHTML, sourceURL); text != "" {
			return text
		}
	}
	return ""
}

func safeExtract(e Extractor, rawHTML, sourceURL string) (text string) {
	defer func() {
		if recover() != nil {
			text = ""
		}
	}()
	return e.Extract(rawHTML, sourceURL)
}
