package locsearch

import "context"

// Fixed user-facing texts returned instead of a generated answer.
const (
	NoResultsText        = "No search results found."
	NoUsableContentText  = "No usable content retrieved."
	GenerationFailedText = "Error generating answer."
	NoContentPlaceholder = "No content available."
)

// State is the terminal state of one answer invocation.
type State string

// State constants for Answer.
const (
	StateNoResults       State = "no_results"
	StateNoUsableContent State = "no_usable_content"
	StateDone            State = "done"
)

// Origin records where the content of a Source came from.
type Origin string

// Origin constants for Source.
const (
	OriginPage        Origin = "page"
	OriginSnippet     Origin = "snippet"
	OriginPlaceholder Origin = "placeholder"
)

// Source is one search result's contribution to the prompt.
type Source struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"` // truncated
	Origin  Origin `json:"origin"`
}

// Answer is the outcome of one invocation of the answer pipeline.
type Answer struct {
	RequestID string `json:"requestId"`
	Query     string `json:"query"`

	// Text is always set: either the generated answer or one of the fixed
	// informative texts.
	Text  string `json:"text"`
	State State  `json:"state"`

	Results []SearchResult `json:"results"`
	Sources []*Source      `json:"sources"`

	Prompt       string `json:"prompt"`
	PromptTokens int    `json:"promptTokens"`
}

// Answerer answers natural language questions from live web results.
type Answerer interface {
	// Answer runs the full pipeline for query. Backend failures never
	// surface as errors; they are reported through Answer.Text.
	// Returns EINVALID if query is blank.
	Answer(ctx context.Context, query string) (*Answer, error)
}
