package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/fwojciec/locsearch"
	"github.com/fwojciec/locsearch/answer"
)

// Usage is printed when no question is given.
const Usage = "usage: locsearch [flags] <question...>"

// separatorWidth is the width of the line printed before the answer.
const separatorWidth = 60

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Answerer locsearch.Answerer
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Question []string `arg:"" optional:"" help:"Question to answer (words are joined with spaces)"`

	// Search backend.
	SearxngURL    string        `name:"searxng-url" env:"SEARXNG_URL" default:"http://localhost:8888/search" help:"SearXNG search endpoint"`
	Language      string        `env:"SEARCH_LANGUAGE" default:"en" help:"Search language hint"`
	SearchTimeout time.Duration `default:"15s" help:"Search request timeout"`

	// Generation backend.
	Backend         string        `env:"LOCSEARCH_BACKEND" enum:"ollama,gemini" default:"ollama" help:"Generation backend (ollama, gemini)"`
	OllamaHost      string        `env:"OLLAMA_HOST" default:"http://localhost:11434" help:"Ollama server address"`
	OllamaModel     string        `env:"OLLAMA_MODEL" default:"llama3.2:1b" help:"Ollama model"`
	GeminiAPIKey    string        `name:"gemini-api-key" env:"GEMINI_API_KEY" help:"Gemini API key (gemini backend)"`
	GeminiModel     string        `env:"GEMINI_MODEL" default:"gemini-2.5-flash" help:"Gemini model (gemini backend)"`
	GenerateTimeout time.Duration `default:"120s" help:"Generation request timeout"`
	CountTokens     bool          `help:"Count prompt tokens with the Gemini tokenizer"`

	// Cache store.
	Cache       string        `env:"LOCSEARCH_CACHE" enum:"sqlite,postgres,fs,none" default:"sqlite" help:"Page cache store (sqlite, postgres, fs, none)"`
	DB          string        `name:"db" env:"LOCSEARCH_DB" help:"SQLite cache path (default ~/.locsearch/cache.db)"`
	CacheDir    string        `env:"LOCSEARCH_CACHE_DIR" help:"File cache directory (default ~/.locsearch/pages)"`
	DatabaseURL string        `name:"database-url" env:"DATABASE_URL" help:"PostgreSQL connection string"`
	DBHost      string        `name:"db-host" env:"DB_HOST" default:"localhost" help:"PostgreSQL host"`
	DBPort      string        `name:"db-port" env:"DB_PORT" default:"5432" help:"PostgreSQL port"`
	DBName      string        `name:"db-name" env:"DB_NAME" help:"PostgreSQL database"`
	DBUser      string        `name:"db-user" env:"DB_USER" help:"PostgreSQL user"`
	DBPassword  string        `name:"db-password" env:"DB_PASSWORD" help:"PostgreSQL password"`
	CacheTTL    time.Duration `name:"cache-ttl" default:"0s" help:"Refetch cached pages older than this (0 = never)"`

	// Pipeline.
	MaxResults   int           `short:"n" default:"3" help:"Number of search results to use"`
	MaxChars     int           `default:"2000" help:"Maximum characters of content per source"`
	Concurrency  int           `short:"c" default:"1" help:"Concurrent page fetch limit"`
	Retries      int           `default:"0" help:"Retries for transport failures (backoff 1s, 2s, 4s, ...)"`
	FetchTimeout time.Duration `default:"10s" help:"Page fetch timeout"`
	Format       string        `enum:"text,markdown" default:"text" help:"Extracted content format (text, markdown)"`
	Browser      bool          `help:"Render pages with headless Chrome"`

	Verbose bool `short:"v" help:"Log debug output to stderr"`
}

// Query returns the question words joined with spaces.
func (c *CLI) Query() string {
	return strings.TrimSpace(strings.Join(c.Question, " "))
}

// Run answers the question and prints the result.
func (c *CLI) Run(deps *Dependencies) error {
	query := c.Query()
	if query == "" {
		fmt.Fprintln(deps.Stderr, Usage)
		return locsearch.Errorf(locsearch.EINVALID, "no question given")
	}

	ans, err := deps.Answerer.Answer(deps.Ctx, query)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", locsearch.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout)
	fmt.Fprintln(deps.Stdout, strings.Repeat("=", separatorWidth))
	fmt.Fprintln(deps.Stdout, ans.Text)
	return nil
}

// progressPrinter returns a ProgressFunc that prints notices to w.
// It is safe for use from concurrent fetches.
func progressPrinter(w io.Writer) answer.ProgressFunc {
	var mu sync.Mutex
	return func(e answer.ProgressEvent) {
		mu.Lock()
		defer mu.Unlock()

		switch e.Type {
		case answer.ProgressSearching:
			fmt.Fprintf(w, "Searching for: %s\n", e.Query)
		case answer.ProgressProcessing:
			fmt.Fprintf(w, "Processing %d results...\n", e.Total)
		case answer.ProgressFetching:
			fmt.Fprintf(w, "  Fetching: %s\n", e.URL)
		case answer.ProgressGenerating:
			fmt.Fprintln(w, "Generating answer...")
		}
	}
}
