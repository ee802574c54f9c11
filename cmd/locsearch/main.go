package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/locsearch"
	"github.com/fwojciec/locsearch/answer"
	"github.com/fwojciec/locsearch/fs"
	"github.com/fwojciec/locsearch/gemini"
	"github.com/fwojciec/locsearch/goquery"
	"github.com/fwojciec/locsearch/htmltomarkdown"
	lshttp "github.com/fwojciec/locsearch/http"
	"github.com/fwojciec/locsearch/ollama"
	"github.com/fwojciec/locsearch/postgres"
	"github.com/fwojciec/locsearch/readability"
	"github.com/fwojciec/locsearch/rod"
	locslog "github.com/fwojciec/locsearch/slog"
	"github.com/fwojciec/locsearch/sqlite"
	"github.com/fwojciec/locsearch/trafilatura"
	"github.com/joho/godotenv"
)

func main() {
	ctx := context.Background()

	// A missing .env file is not an error.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "warning: reading .env: %v\n", err)
	}

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// tokenizerModel is the model whose tokenizer counts prompt tokens.
const tokenizerModel = "gemini-2.5-flash"

// Main represents the program.
type Main struct {
	// Answerer overrides the wired pipeline. Used for end-to-end testing.
	Answerer locsearch.Answerer

	closers []io.Closer
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{}
}

// Close releases the cache store and fetcher.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i].Close())
	}
	m.closers = nil
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("locsearch"),
		kong.Description("Answer a question from live web search results with a local language model."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) > 0 && (args[0] == "help" || args[0] == "--help" || args[0] == "-h") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	// Usage errors are reported before any backend is set up.
	if cli.Query() == "" {
		return cli.Run(deps)
	}

	deps.Answerer = m.Answerer
	if deps.Answerer == nil {
		defer m.Close()
		a, err := m.wire(ctx, cli, stdout, stderr)
		if err != nil {
			return err
		}
		deps.Answerer = a
	}

	return cli.Run(deps)
}

// wire builds the answer pipeline from the parsed flags.
func (m *Main) wire(ctx context.Context, cli *CLI, stdout, stderr io.Writer) (locsearch.Answerer, error) {
	logger := newLogger(stderr, cli.Verbose)

	searcher, err := lshttp.NewSearcher(cli.SearxngURL,
		lshttp.WithSearchTimeout(cli.SearchTimeout),
		lshttp.WithLanguage(cli.Language),
		lshttp.WithLogger(logger),
	)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Set SEARXNG_URL to the search endpoint, e.g. http://localhost:8888/search")
		return nil, err
	}

	fetcher, err := m.openFetcher(cli)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Chrome or Chromium must be installed to use --browser")
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	generator, err := openGenerator(ctx, cli)
	if err != nil {
		if cli.Backend == "gemini" {
			fmt.Fprintln(stderr, "Hint: Set GEMINI_API_KEY. Get a key at https://aistudio.google.com/apikey")
		}
		return nil, err
	}

	var cache locsearch.Cache
	if store := m.openCache(ctx, cli, logger); store != nil {
		cache = locslog.NewLoggingCache(store, logger)
	}

	progress := progressPrinter(stdout)
	a := &answer.Answerer{
		Searcher: locslog.NewLoggingSearcher(searcher, logger),
		Pages: &answer.PageFetcher{
			Cache:       cache,
			Fetcher:     locslog.NewLoggingFetcher(fetcher, logger),
			Extractor:   newExtractor(cli.Format),
			MaxAge:      cli.CacheTTL,
			RetryDelays: answer.DefaultRetryDelays(cli.Retries),
			Logger:      logger,
			Progress:    progress,
		},
		Generator:       locslog.NewLoggingGenerator(generator, logger),
		MaxResults:      cli.MaxResults,
		MaxContentChars: cli.MaxChars,
		Concurrency:     cli.Concurrency,
		RetryDelays:     answer.DefaultRetryDelays(cli.Retries),
		Logger:          logger,
		Progress:        progress,
	}

	if cli.CountTokens {
		tc, err := gemini.NewTokenCounter(tokenizerModel)
		if err != nil {
			logger.Warn("token counting disabled", "err", err)
		} else {
			a.TokenCounter = tc
		}
	}

	return locslog.NewLoggingAnswerer(a, logger), nil
}

func (m *Main) openFetcher(cli *CLI) (locsearch.Fetcher, error) {
	var fetcher locsearch.Fetcher
	if cli.Browser {
		f, err := rod.NewFetcher(rod.WithFetchTimeout(cli.FetchTimeout))
		if err != nil {
			return nil, err
		}
		fetcher = f
	} else {
		fetcher = lshttp.NewFetcher(lshttp.WithTimeout(cli.FetchTimeout))
	}
	m.closers = append(m.closers, fetcher)
	return fetcher, nil
}

func openGenerator(ctx context.Context, cli *CLI) (locsearch.Generator, error) {
	if cli.Backend == "gemini" {
		client, err := gemini.NewClient(ctx, cli.GeminiAPIKey, "")
		if err != nil {
			return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
		}
		return gemini.NewGenerator(client, cli.GeminiModel, gemini.WithTimeout(cli.GenerateTimeout)), nil
	}

	return ollama.NewGenerator(cli.OllamaHost,
		ollama.WithModel(cli.OllamaModel),
		ollama.WithTimeout(cli.GenerateTimeout),
	)
}

// openCache opens the selected cache store. A store that cannot be opened
// is logged and the pipeline runs without a cache.
func (m *Main) openCache(ctx context.Context, cli *CLI, logger *slog.Logger) locsearch.Cache {
	switch cli.Cache {
	case "sqlite":
		path := cli.DB
		if path == "" {
			path = defaultPath("cache.db")
		}
		db := sqlite.NewDB(path)
		if err := db.Open(ctx); err != nil {
			logger.Warn("cache unavailable", "store", "sqlite", "path", path, "err", err)
			return nil
		}
		m.closers = append(m.closers, db)
		return sqlite.NewCacheService(db)

	case "postgres":
		dsn := cli.DatabaseURL
		if dsn == "" {
			dsn = postgres.ConnParams{
				Host:     cli.DBHost,
				Port:     cli.DBPort,
				Name:     cli.DBName,
				User:     cli.DBUser,
				Password: cli.DBPassword,
			}.DSN()
		}
		db := postgres.NewDB(dsn)
		if err := db.Open(ctx); err != nil {
			logger.Warn("cache unavailable", "store", "postgres", "err", err)
			return nil
		}
		m.closers = append(m.closers, db)
		return postgres.NewCacheService(db)

	case "fs":
		dir := cli.CacheDir
		if dir == "" {
			dir = defaultPath("pages")
		}
		return fs.NewCache(dir)
	}
	return nil
}

// newExtractor returns the extraction chain: trafilatura, then
// readability, then plain DOM text.
func newExtractor(format string) locsearch.Extractor {
	var opts []trafilatura.Option
	if format == "markdown" {
		opts = append(opts, trafilatura.WithConverter(htmltomarkdown.NewConverter()))
	}
	return locsearch.ExtractorChain{
		trafilatura.NewExtractor(opts...),
		readability.NewExtractor(),
		goquery.NewExtractor(),
	}
}

// newLogger returns a text logger on w. Only warnings are shown unless
// verbose is set.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// defaultPath returns name inside ~/.locsearch, creating the directory.
func defaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	dir := filepath.Join(home, ".locsearch")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, name)
}
