// Package ollama implements locsearch.Generator against an Ollama server's
// /api/generate endpoint.
package ollama

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/locsearch"
	"github.com/ollama/ollama/api"
)

const (
	// DefaultHost is the default Ollama server address.
	DefaultHost = "http://localhost:11434"

	// DefaultModel is the default model name.
	DefaultModel = "llama3.2:1b"

	// DefaultTimeout bounds a single generation request.
	DefaultTimeout = 120 * time.Second

	// DefaultTemperature keeps answers close to the supplied sources.
	DefaultTemperature = 0.3

	// DefaultNumCtx is the context window requested from the model.
	DefaultNumCtx = 4096
)

// Ensure Generator implements locsearch.Generator at compile time.
var _ locsearch.Generator = (*Generator)(nil)

// Generator implements locsearch.Generator using Ollama.
type Generator struct {
	client      *api.Client
	model       string
	timeout     time.Duration
	temperature float64
	numCtx      int
}

// Option configures a Generator.
type Option func(*Generator)

// WithModel sets the model name. Defaults to DefaultModel.
func WithModel(model string) Option {
	return func(g *Generator) {
		g.model = model
	}
}

// WithTimeout sets the generation timeout. Defaults to DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		g.timeout = d
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(g *Generator) {
		g.temperature = t
	}
}

// WithNumCtx sets the model context window size.
func WithNumCtx(n int) Option {
	return func(g *Generator) {
		g.numCtx = n
	}
}

// NewGenerator creates a Generator for the Ollama server at host.
// Returns EINVALID if host is not an absolute URL.
func NewGenerator(host string, opts ...Option) (*Generator, error) {
	base, err := url.Parse(host)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, locsearch.Errorf(locsearch.EINVALID, "invalid ollama host %q", host)
	}

	g := &Generator{
		model:       DefaultModel,
		timeout:     DefaultTimeout,
		temperature: DefaultTemperature,
		numCtx:      DefaultNumCtx,
	}
	for _, opt := range opts {
		opt(g)
	}

	// The request timeout is applied per call through the context.
	g.client = api.NewClient(base, &http.Client{})

	return g, nil
}

// Model returns the configured model name.
func (g *Generator) Model() string {
	return g.model
}

// Generate sends prompt to the model and returns the complete response, trimmed.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	stream := false
	req := &api.GenerateRequest{
		Model:  g.model,
		Prompt: prompt,
		Stream: &stream,
		Options: map[string]any{
			"temperature": g.temperature,
			"num_ctx":     g.numCtx,
		},
	}

	var sb strings.Builder
	err := g.client.Generate(ctx, req, func(resp api.GenerateResponse) error {
		sb.WriteString(resp.Response)
		return nil
	})
	if err != nil {
		var statusErr api.StatusError
		if errors.As(err, &statusErr) {
			return "", locsearch.Errorf(locsearch.EBACKEND, "ollama returned HTTP %d: %s", statusErr.StatusCode, statusErr.ErrorMessage)
		}
		return "", locsearch.Errorf(locsearch.ETRANSPORT, "ollama request failed: %v", err)
	}

	return strings.TrimSpace(sb.String()), nil
}
