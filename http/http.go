// Package http provides HTTP implementations of locsearch.Fetcher and
// locsearch.Searcher. The searcher speaks the SearXNG query protocol and
// parses its RSS (or Atom) result feed.
package http

// DefaultUserAgent identifies requests as a desktop browser to reduce bot blocking.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DefaultAcceptLanguage is sent with every request.
const DefaultAcceptLanguage = "en-US,en;q=0.9"

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
