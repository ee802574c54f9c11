// Package gemini implements locsearch.Generator and locsearch.TokenCounter
// using Google Gemini.
package gemini

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/locsearch"
	"google.golang.org/genai"
)

const (
	// DefaultModel is the default Gemini model name.
	DefaultModel = "gemini-2.5-flash"

	// DefaultTimeout bounds a single generation request.
	DefaultTimeout = 120 * time.Second
)

// Ensure Generator implements locsearch.Generator at compile time.
var _ locsearch.Generator = (*Generator)(nil)

// Generator implements locsearch.Generator using Google Gemini.
type Generator struct {
	client  *genai.Client
	model   string
	timeout time.Duration
}

// Option configures a Generator.
type Option func(*Generator)

// WithTimeout sets the generation timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		g.timeout = d
	}
}

// NewGenerator creates a new Generator. An empty model selects DefaultModel.
func NewGenerator(client *genai.Client, model string, opts ...Option) *Generator {
	if model == "" {
		model = DefaultModel
	}
	g := &Generator{client: client, model: model, timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewClient creates a Gemini API client authenticated with apiKey.
// A non-empty baseURL overrides the API endpoint.
func NewClient(ctx context.Context, apiKey, baseURL string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, locsearch.Errorf(locsearch.EINVALID, "gemini API key required")
	}
	config := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		config.HTTPOptions.BaseURL = baseURL
	}
	return genai.NewClient(ctx, config)
}

// Generate sends prompt as a single user turn and returns the trimmed text.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		}},
		BuildConfig(),
	)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			return "", locsearch.Errorf(locsearch.EBACKEND, "gemini returned %d: %s", apiErr.Code, apiErr.Message)
		}
		return "", locsearch.Errorf(locsearch.ETRANSPORT, "gemini request failed: %v", err)
	}
	if result == nil {
		return "", locsearch.Errorf(locsearch.EBACKEND, "gemini returned nil result")
	}

	return strings.TrimSpace(result.Text()), nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls.
// The prompt already carries the answering instructions.
func BuildConfig() *genai.GenerateContentConfig {
	temp := float32(0.3)
	return &genai.GenerateContentConfig{
		Temperature: &temp,
	}
}
