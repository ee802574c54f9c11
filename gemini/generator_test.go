package gemini_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/locsearch"
	"github.com/fwojciec/locsearch/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildConfig(t *testing.T) {
	t.Parallel()

	config := gemini.BuildConfig()
	require.NotNil(t, config.Temperature)
	assert.InDelta(t, 0.3, *config.Temperature, 1e-6)
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	t.Parallel()

	_, err := gemini.NewClient(context.Background(), "", "")
	require.Error(t, err)
	assert.Equal(t, locsearch.EINVALID, locsearch.ErrorCode(err))
}

func TestGenerator_Generate(t *testing.T) {
	t.Parallel()

	t.Run("returns trimmed candidate text", func(t *testing.T) {
		t.Parallel()

		paths := make(chan string, 1)
		prompts := make(chan string, 1)
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			paths <- r.URL.Path
			var body struct {
				Contents []struct {
					Parts []struct {
						Text string `json:"text"`
					} `json:"parts"`
				} `json:"contents"`
			}
			_ = json.NewDecoder(r.Body).Decode(&body)
			if len(body.Contents) > 0 && len(body.Contents[0].Parts) > 0 {
				prompts <- body.Contents[0].Parts[0].Text
			} else {
				prompts <- ""
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"candidates":[{"content":{"role":"model","parts":[{"text":" Paris. \n"}]}}]}`))
		}))
		defer server.Close()

		client, err := gemini.NewClient(context.Background(), "test-key", server.URL)
		require.NoError(t, err)

		g := gemini.NewGenerator(client, "")
		answer, err := g.Generate(context.Background(), "What is the capital of France?")
		require.NoError(t, err)
		assert.Equal(t, "Paris.", answer)

		assert.True(t, strings.HasSuffix(<-paths, gemini.DefaultModel+":generateContent"))
		assert.Equal(t, "What is the capital of France?", <-prompts)
	})

	t.Run("returns ETRANSPORT when the API is unreachable", func(t *testing.T) {
		t.Parallel()

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		baseURL := server.URL
		server.Close()

		client, err := gemini.NewClient(context.Background(), "test-key", baseURL)
		require.NoError(t, err)

		_, err = gemini.NewGenerator(client, "gemini-test").Generate(context.Background(), "prompt")
		require.Error(t, err)
		assert.Equal(t, locsearch.ETRANSPORT, locsearch.ErrorCode(err))
	})
	t.Run("returns ETRANSPORT when generation exceeds the timeout", func(t *testing.T) {
		t.Parallel()

		release := make(chan struct{})
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer server.Close()
		defer close(release)

		client, err := gemini.NewClient(context.Background(), "test-key", server.URL)
		require.NoError(t, err)

		g := gemini.NewGenerator(client, "", gemini.WithTimeout(50*time.Millisecond))

		start := time.Now()
		_, err = g.Generate(context.Background(), "prompt")
		require.Error(t, err)
		assert.Equal(t, locsearch.ETRANSPORT, locsearch.ErrorCode(err))
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}
