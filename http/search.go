package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/fwojciec/locsearch"
)

// DefaultSearchTimeout is the default timeout for search requests.
const DefaultSearchTimeout = 15 * time.Second

// DefaultLanguage is the default search language hint.
const DefaultLanguage = "en"

// feedAccept is the Accept header for feed responses.
const feedAccept = "application/rss+xml, text/xml, */*"

// Ensure Searcher implements locsearch.Searcher at compile time.
var _ locsearch.Searcher = (*Searcher)(nil)

// Searcher queries a SearXNG-compatible metasearch endpoint for an RSS feed
// of results.
type Searcher struct {
	endpoint  *url.URL
	origin    string
	client    *http.Client
	timeout   time.Duration
	language  string
	page      int
	userAgent string
	maxSize   int64
	logger    *slog.Logger
}

// SearcherOption configures a Searcher.
type SearcherOption func(*Searcher)

// WithSearchTimeout sets the timeout for search requests.
// Defaults to DefaultSearchTimeout (15s) if not specified.
func WithSearchTimeout(d time.Duration) SearcherOption {
	return func(s *Searcher) {
		s.timeout = d
	}
}

// WithLanguage sets the language hint. Defaults to DefaultLanguage.
func WithLanguage(lang string) SearcherOption {
	return func(s *Searcher) {
		s.language = lang
	}
}

// WithPage sets the result page requested. Defaults to 1.
func WithPage(n int) SearcherOption {
	return func(s *Searcher) {
		s.page = n
	}
}

// WithSearchUserAgent overrides DefaultUserAgent.
func WithSearchUserAgent(ua string) SearcherOption {
	return func(s *Searcher) {
		s.userAgent = ua
	}
}

// WithMaxFeedSize sets how many bytes of a result feed are read.
// Defaults to DefaultMaxBodySize.
func WithMaxFeedSize(n int64) SearcherOption {
	return func(s *Searcher) {
		s.maxSize = n
	}
}

// WithLogger sets the logger that receives feed parsing diagnostics.
func WithLogger(logger *slog.Logger) SearcherOption {
	return func(s *Searcher) {
		s.logger = logger
	}
}

// NewSearcher creates a Searcher for the search endpoint, e.g.
// "http://localhost:8888/search".
// Returns EINVALID if endpoint is not an absolute http(s) URL.
func NewSearcher(endpoint string, opts ...SearcherOption) (*Searcher, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, locsearch.Errorf(locsearch.EINVALID, "invalid search endpoint %q: %v", endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, locsearch.Errorf(locsearch.EINVALID, "search endpoint %q must be an absolute http(s) URL", endpoint)
	}

	s := &Searcher{
		endpoint:  u,
		origin:    u.Scheme + "://" + u.Host,
		timeout:   DefaultSearchTimeout,
		language:  DefaultLanguage,
		page:      1,
		userAgent: DefaultUserAgent,
		maxSize:   DefaultMaxBodySize,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.client = &http.Client{
		Timeout: s.timeout,
	}

	return s, nil
}

// Origin returns the scheme and host of the endpoint, sent as Referer and Origin.
func (s *Searcher) Origin() string {
	return s.origin
}

// RequestURL returns the full search URL for query.
func (s *Searcher) RequestURL(query string) string {
	u := *s.endpoint
	q := u.Query()
	q.Set("q", query)
	q.Set("format", "rss")
	q.Set("language", s.language)
	q.Set("pageno", strconv.Itoa(s.page))
	u.RawQuery = q.Encode()
	return u.String()
}

// Search submits query and parses the result feed.
// On failure the returned slice is empty, never nil.
func (s *Searcher) Search(ctx context.Context, query string) ([]locsearch.SearchResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.RequestURL(query), nil)
	if err != nil {
		return []locsearch.SearchResult{}, locsearch.Errorf(locsearch.EINVALID, "search request: %v", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", feedAccept)
	req.Header.Set("Accept-Language", DefaultAcceptLanguage)
	// Some metasearch backends reject requests whose Referer/Origin do not
	// match their own origin.
	req.Header.Set("Referer", s.origin)
	req.Header.Set("Origin", s.origin)

	resp, err := s.client.Do(req)
	if err != nil {
		return []locsearch.SearchResult{}, locsearch.Errorf(locsearch.ETRANSPORT, "%v", err)
	}
	defer resp.Body.Close()

	if !isSuccess(resp.StatusCode) {
		return []locsearch.SearchResult{}, locsearch.Errorf(locsearch.EBACKEND, "search backend returned HTTP %d", resp.StatusCode)
	}

	// A feed cut at the limit still yields the entries before the cut.
	body, err := io.ReadAll(io.LimitReader(resp.Body, s.maxSize))
	if err != nil {
		return []locsearch.SearchResult{}, locsearch.Errorf(locsearch.ETRANSPORT, "reading search response: %v", err)
	}

	results, err := ParseFeed(body)
	if err != nil {
		s.logger.Warn("feed parsing error",
			"query", query,
			"salvaged", len(results),
			"err", err,
		)
	}
	return results, nil
}
