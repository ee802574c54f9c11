package http_test

import (
	"context"
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

// Compile-time verification that Fetcher implements locsearch.Fetcher
var _ locsearch.Fetcher = (*lshttp.Fetcher)(nil)

func TestFetcher_Fetch(t *testing.T) {
	t.Parallel()

	t.Run("returns HTML body from server", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte("<html><body>Hello World</body></html>"))
		}))
		defer server.Close()

		fetcher := lshttp.NewFetcher()
		defer fetcher.Close()

		html, err := fetcher.Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Equal(t, "<html><body>Hello World</body></html>", html)
	})

	t.Run("sends browser-like headers", func(t *testing.T) {
		t.Parallel()

		headers := make(chan http.Header, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			headers <- r.Header.Clone()
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		_, err := lshttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.NoError(t, err)

		got := <-headers

		assert.Equal(t, lshttp.DefaultUserAgent, got.Get("User-Agent"))
		assert.Contains(t, got.Get("Accept"), "text/html")
		assert.Equal(t, lshttp.DefaultAcceptLanguage, got.Get("Accept-Language"))
	})

	t.Run("respects custom timeout option", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(100 * time.Millisecond)
			_, _ = w.Write([]byte("response"))
		}))
		defer server.Close()

		// Use a very short timeout that will expire before server responds
		fetcher := lshttp.NewFetcher(lshttp.WithTimeout(10 * time.Millisecond))

		_, err := fetcher.Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, locsearch.ETRANSPORT, locsearch.ErrorCode(err))
	})

	t.Run("returns ETRANSPORT for non-existent host", func(t *testing.T) {
		t.Parallel()

		fetcher := lshttp.NewFetcher(lshttp.WithTimeout(100 * time.Millisecond))

		_, err := fetcher.Fetch(context.Background(), "http://non-existent-host.invalid/page")
		require.Error(t, err)
		assert.Equal(t, locsearch.ETRANSPORT, locsearch.ErrorCode(err))
	})

	t.Run("returns EBACKEND for non-success status codes", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("404 Not Found"))
		}))
		defer server.Close()

		_, err := lshttp.NewFetcher().Fetch(context.Background(), server.URL)
		require.Error(t, err)
		assert.Equal(t, locsearch.EBACKEND, locsearch.ErrorCode(err))
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("caps body size", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(strings.Repeat("x", 1000)))
		}))
		defer server.Close()

		html, err := lshttp.NewFetcher(lshttp.WithMaxBodySize(100)).Fetch(context.Background(), server.URL)
		require.NoError(t, err)
		assert.Len(t, html, 100)
	})
}
