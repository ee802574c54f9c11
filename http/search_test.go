package http_test

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/locsearch"
	lshttp "github.com/fwojciec/locsearch/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const rssFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:atom="http://www.w3.org/2005/Atom">
  <channel>
    <title>SearXNG search: capital of France</title>
    <atom:link href="http://localhost:8888/search" rel="search" type="application/opensearchdescription+xml"/>
    <item>
      <title>Paris - Wikipedia</title>
      <link>https://en.wikipedia.org/wiki/Paris</link>
      <description>Paris is the &lt;b&gt;capital&lt;/b&gt; of France.</description>
    </item>
    <item>
      <title>France facts</title>
      <link>https://example.com/france</link>
      <description>Facts about France.</description>
    </item>
  </channel>
</rss>`

const atomFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>results</title>
  <entry>
    <title>Go</title>
    <link rel="self" href="https://example.com/self"/>
    <link rel="alternate" href="https://go.dev/"/>
    <summary>The Go programming language.</summary>
  </entry>
</feed>`

func TestParseFeed(t *testing.T) {
	t.Parallel()

	t.Run("parses RSS items in order", func(t *testing.T) {
		t.Parallel()

		results, err := lshttp.ParseFeed([]byte(rssFeed))
		require.NoError(t, err)
		require.Len(t, results, 2)

		assert.Equal(t, locsearch.SearchResult{
			Title:   "Paris - Wikipedia",
			URL:     "https://en.wikipedia.org/wiki/Paris",
			Snippet: "Paris is the capital of France.",
		}, results[0])
		assert.Equal(t, "https://example.com/france", results[1].URL)
	})

	t.Run("parses Atom entries using the alternate link", func(t *testing.T) {
		t.Parallel()

		results, err := lshttp.ParseFeed([]byte(atomFeed))
		require.NoError(t, err)
		require.Len(t, results, 1)

		assert.Equal(t, "Go", results[0].Title)
		assert.Equal(t, "https://go.dev/", results[0].URL)
		assert.Equal(t, "The Go programming language.", results[0].Snippet)
	})

	t.Run("skips entries without a link", func(t *testing.T) {
		t.Parallel()

		feed := `<rss><channel>
<item><title>No link</title><description>x</description></item>
<item><title>Linked</title><link>https://example.com/a</link></item>
</channel></rss>`

		results, err := lshttp.ParseFeed([]byte(feed))
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Linked", results[0].Title)
	})

	t.Run("salvages entries from a truncated feed", func(t *testing.T) {
		t.Parallel()

		cut := strings.Index(rssFeed, "<title>France facts")
		require.Positive(t, cut)

		results, err := lshttp.ParseFeed([]byte(rssFeed[:cut+12]))
		require.Error(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "https://en.wikipedia.org/wiki/Paris", results[0].URL)
	})

	t.Run("returns no results for an empty channel", func(t *testing.T) {
		t.Parallel()

		results, err := lshttp.ParseFeed([]byte(`<rss><channel><title>none</title></channel></rss>`))
		require.NoError(t, err)
		assert.Empty(t, results)
		assert.NotNil(t, results)
	})
}

func TestNewSearcher(t *testing.T) {
	t.Parallel()

	t.Run("rejects relative endpoints", func(t *testing.T) {
		t.Parallel()

		_, err := lshttp.NewSearcher("/search")
		require.Error(t, err)
		assert.Equal(t, locsearch.EINVALID, locsearch.ErrorCode(err))
	})

	t.Run("rejects non-http schemes", func(t *testing.T) {
		t.Parallel()

		_, err := lshttp.NewSearcher("ftp://example.com/search")
		require.Error(t, err)
		assert.Equal(t, locsearch.EINVALID, locsearch.ErrorCode(err))
	})

	t.Run("builds query parameters", func(t *testing.T) {
		t.Parallel()

		s, err := lshttp.NewSearcher("http://localhost:8888/search", lshttp.WithLanguage("fr"))
		require.NoError(t, err)

		got := s.RequestURL("capital of France")
		assert.Equal(t, "http://localhost:8888/search?format=rss&language=fr&pageno=1&q=capital+of+France", got)
		assert.Equal(t, "http://localhost:8888", s.Origin())
	})
}

func TestSearcher_Search(t *testing.T) {
	t.Parallel()

	t.Run("returns parsed results", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/rss+xml")
			_, _ = w.Write([]byte(rssFeed))
		}))
		defer server.Close()

		s, err := lshttp.NewSearcher(server.URL + "/search")
		require.NoError(t, err)

		results, err := s.Search(context.Background(), "capital of France")
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "Paris - Wikipedia", results[0].Title)
	})

	t.Run("sends query and headers", func(t *testing.T) {
		t.Parallel()

		requests := make(chan *http.Request, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requests <- r.Clone(context.Background())
			_, _ = w.Write([]byte(rssFeed))
		}))
		defer server.Close()

		s, err := lshttp.NewSearcher(server.URL + "/search")
		require.NoError(t, err)

		_, err = s.Search(context.Background(), "go 1.25")
		require.NoError(t, err)

		got := <-requests
		assert.Equal(t, "/search", got.URL.Path)
		assert.Equal(t, "go 1.25", got.URL.Query().Get("q"))
		assert.Equal(t, "rss", got.URL.Query().Get("format"))
		assert.Equal(t, "en", got.URL.Query().Get("language"))
		assert.Equal(t, "1", got.URL.Query().Get("pageno"))
		assert.Equal(t, lshttp.DefaultUserAgent, got.Header.Get("User-Agent"))
		assert.Contains(t, got.Header.Get("Accept"), "application/rss+xml")
		assert.Equal(t, server.URL, got.Header.Get("Referer"))
		assert.Equal(t, server.URL, got.Header.Get("Origin"))
	})

	t.Run("returns salvaged results and logs malformed feeds", func(t *testing.T) {
		t.Parallel()

		cut := strings.Index(rssFeed, "<title>France facts")
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(rssFeed[:cut+12]))
		}))
		defer server.Close()

		var buf bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&buf, nil))

		s, err := lshttp.NewSearcher(server.URL, lshttp.WithLogger(logger))
		require.NoError(t, err)

		results, err := s.Search(context.Background(), "capital of France")
		require.NoError(t, err)
		assert.Len(t, results, 1)
		assert.Contains(t, buf.String(), "feed parsing error")
	})

	t.Run("reads at most the configured feed size", func(t *testing.T) {
		t.Parallel()

		cut := strings.Index(rssFeed, "<title>France facts")
		require.Positive(t, cut)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(rssFeed))
			_, _ = w.Write(bytes.Repeat([]byte(" "), 1<<20))
		}))
		defer server.Close()

		s, err := lshttp.NewSearcher(server.URL, lshttp.WithMaxFeedSize(int64(cut+12)))
		require.NoError(t, err)

		results, err := s.Search(context.Background(), "capital of France")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "https://en.wikipedia.org/wiki/Paris", results[0].URL)
	})

	t.Run("returns EBACKEND for non-2xx status", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}))
		defer server.Close()

		s, err := lshttp.NewSearcher(server.URL)
		require.NoError(t, err)

		results, err := s.Search(context.Background(), "q")
		require.Error(t, err)
		assert.Equal(t, locsearch.EBACKEND, locsearch.ErrorCode(err))
		assert.Empty(t, results)
	})

	t.Run("returns ETRANSPORT when the backend is unreachable", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		endpoint := server.URL
		server.Close()

		s, err := lshttp.NewSearcher(endpoint, lshttp.WithSearchTimeout(time.Second))
		require.NoError(t, err)

		results, err := s.Search(context.Background(), "q")
		require.Error(t, err)
		assert.Equal(t, locsearch.ETRANSPORT, locsearch.ErrorCode(err))
		assert.Empty(t, results)
	})
}
