package answer

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/locsearch"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxResults is the number of search results used to build a prompt.
const DefaultMaxResults = 3

// Ensure Answerer implements locsearch.Answerer at compile time.
var _ locsearch.Answerer = (*Answerer)(nil)

// Answerer runs the answer pipeline: search, fetch the top results through
// the cache, assemble a prompt, and generate.
type Answerer struct {
	Searcher  locsearch.Searcher
	Pages     locsearch.PageFetcher
	Generator locsearch.Generator

	// TokenCounter is optional. When set, Answer.PromptTokens is filled in.
	TokenCounter locsearch.TokenCounter

	MaxResults      int
	MaxContentChars int

	// Concurrency bounds parallel page fetches. Values below 2 fetch
	// sequentially.
	Concurrency int

	// RetryDelays are backoff delays for search transport failures.
	RetryDelays []time.Duration

	Logger *slog.Logger

	// Progress receives the searching, processing and generating steps.
	// Fetch progress comes from the PageFetcher, which only reports
	// pages it has to fetch live.
	Progress ProgressFunc
}

// ProgressEvent reports a pipeline step.
type ProgressEvent struct {
	Type  ProgressType
	Query string
	URL   string
	Total int
}

// ProgressType indicates the pipeline step being reported.
type ProgressType int

const (
	ProgressSearching ProgressType = iota
	ProgressProcessing
	ProgressFetching
	ProgressGenerating
)

// ProgressFunc is a callback for reporting pipeline progress.
//
// Fetch events are reported from the fetching goroutines, so a ProgressFunc
// shared with a PageFetcher may be called concurrently when
// Answerer.Concurrency is above 1 and must be safe for concurrent use.
type ProgressFunc func(event ProgressEvent)

// Answer answers query. Backend failures are reported through the returned
// Answer's Text and State rather than as errors.
func (a *Answerer) Answer(ctx context.Context, query string) (*locsearch.Answer, error) {
	if strings.TrimSpace(query) == "" {
		return nil, locsearch.Errorf(locsearch.EINVALID, "query required")
	}

	ans := &locsearch.Answer{
		RequestID: uuid.NewString(),
		Query:     query,
	}
	logger := a.logger().With("request", ans.RequestID)

	a.report(ProgressEvent{Type: ProgressSearching, Query: query})
	results, err := Retry(ctx, a.RetryDelays, logger, "search", func(ctx context.Context) ([]locsearch.SearchResult, error) {
		return a.Searcher.Search(ctx, query)
	})
	if err != nil {
		logger.Warn("search failed", "query", query, "err", err)
		ans.Text = searchFailureText(err)
		ans.State = locsearch.StateNoResults
		return ans, nil
	}
	if len(results) == 0 {
		ans.Text = locsearch.NoResultsText
		ans.State = locsearch.StateNoResults
		return ans, nil
	}

	top := results[:min(len(results), a.maxResults())]
	ans.Results = top
	a.report(ProgressEvent{Type: ProgressProcessing, Total: len(top)})

	ans.Sources = a.collectSources(ctx, logger, top)
	if len(ans.Sources) == 0 {
		ans.Text = locsearch.NoUsableContentText
		ans.State = locsearch.StateNoUsableContent
		return ans, nil
	}

	ans.Prompt = locsearch.BuildPrompt(ans.Sources, query)
	if a.TokenCounter != nil {
		if n, err := a.TokenCounter.CountTokens(ctx, ans.Prompt); err != nil {
			logger.Warn("token count failed", "err", err)
		} else {
			ans.PromptTokens = n
		}
	}

	a.report(ProgressEvent{Type: ProgressGenerating, Total: len(ans.Sources)})
	text, err := a.Generator.Generate(ctx, ans.Prompt)
	if err != nil {
		logger.Warn("generation failed", "err", err)
		text = locsearch.GenerationFailedText
	}
	ans.Text = text
	ans.State = locsearch.StateDone
	return ans, nil
}

// collectSources fetches each usable result and returns one source per
// result in result order. A failure on one result never affects another.
func (a *Answerer) collectSources(ctx context.Context, logger *slog.Logger, results []locsearch.SearchResult) []*locsearch.Source {
	slots := make([]*locsearch.Source, len(results))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(a.Concurrency, 1))

	for i, res := range results {
		if !isWebURL(res.URL) {
			logger.Debug("skipping result", "url", res.URL)
			continue
		}
		g.Go(func() error {
			slots[i] = a.source(gctx, logger, res)
			return nil
		})
	}
	_ = g.Wait()

	sources := make([]*locsearch.Source, 0, len(slots))
	for _, src := range slots {
		if src != nil {
			sources = append(sources, src)
		}
	}
	return sources
}

// source builds the prompt block for one result, falling back from page
// content to the snippet and then to a placeholder.
func (a *Answerer) source(ctx context.Context, logger *slog.Logger, res locsearch.SearchResult) *locsearch.Source {
	content, err := a.Pages.FetchPage(ctx, res.URL)
	if err != nil {
		logger.Warn("fetch failed", "url", res.URL, "err", err)
		content = ""
	}

	src := &locsearch.Source{Title: res.Title, URL: res.URL, Origin: locsearch.OriginPage}
	switch {
	case content != "":
		src.Content = content
	case res.Snippet != "":
		src.Content = res.Snippet
		src.Origin = locsearch.OriginSnippet
	default:
		src.Content = locsearch.NoContentPlaceholder
		src.Origin = locsearch.OriginPlaceholder
	}
	src.Content = locsearch.Truncate(src.Content, a.maxContentChars())
	return src
}

func (a *Answerer) report(event ProgressEvent) {
	a.Progress.report(event)
}

func (fn ProgressFunc) report(event ProgressEvent) {
	if fn != nil {
		fn(event)
	}
}

func (a *Answerer) maxResults() int {
	if a.MaxResults > 0 {
		return a.MaxResults
	}
	return DefaultMaxResults
}

func (a *Answerer) maxContentChars() int {
	if a.MaxContentChars > 0 {
		return a.MaxContentChars
	}
	return locsearch.DefaultMaxContentChars
}

func (a *Answerer) logger() *slog.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return slog.New(slog.DiscardHandler)
}

func searchFailureText(err error) string {
	if locsearch.ErrorCode(err) == locsearch.ETRANSPORT {
		return "Search request failed: " + err.Error()
	}
	return "Search failed: " + err.Error()
}

func isWebURL(raw string) bool {
	if raw == "" {
		return false
	}
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
