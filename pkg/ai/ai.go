// Package ai adapts hosted language models to a single [Completer]
// interface used by the edge functions.
//
// Providers:
//   - openai: any OpenAI-compatible chat completions endpoint (the default;
//     set base_url to point at a gateway)
//   - gemini: Google Gemini through google.golang.org/genai
//   - anthropic: Claude through anthropic-sdk-go
//
// Upstream HTTP failures are mapped to error codes from pkg/errors so that
// handlers can answer 429 for rate limits and 402 for exhausted credits.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/matzehuels/campaigncanvas/pkg/config"
	"github.com/matzehuels/campaigncanvas/pkg/observability"
)

// Provider names accepted by [New].
const (
	ProviderOpenAI    = "openai"
	ProviderGemini    = "gemini"
	ProviderAnthropic = "anthropic"
)

// DefaultModels maps each provider to the model used when none is configured.
var DefaultModels = map[string]string{
	ProviderOpenAI:    "gpt-4o-mini",
	ProviderGemini:    "gemini-2.5-flash",
	ProviderAnthropic: "claude-sonnet-4-5",
}

// Completer produces a single text answer for a prompt.
type Completer interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// CompleterFunc adapts a function to [Completer].
type CompleterFunc func(ctx context.Context, req Request) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// Request is one prompt with optional images.
type Request struct {
	System string
	Prompt string
	Images []Image
	// JSON asks the provider for a JSON-only answer where supported.
	JSON bool
	// MaxTokens bounds the answer; zero uses a provider default.
	MaxTokens int
}

// Image is either a URL or inline data with its MIME type.
type Image struct {
	URL  string
	Data []byte
	MIME string
}

// New creates the provider named by cfg.Provider, wrapped so that each call
// is timed, bounded by cfg.Timeout and reported to the function hooks.
func New(ctx context.Context, cfg config.AI) (Completer, error) {
	model := cfg.Model
	if model == "" {
		model = DefaultModels[cfg.Provider]
	}
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("ai: no API key configured for provider %q", cfg.Provider)
	}

	var (
		c   Completer
		err error
	)
	switch cfg.Provider {
	case ProviderOpenAI, "":
		c = NewOpenAI(cfg.APIKey, cfg.BaseURL, model)
	case ProviderGemini:
		c, err = NewGemini(ctx, cfg.APIKey, cfg.BaseURL, model)
	case ProviderAnthropic:
		c = NewAnthropic(cfg.APIKey, cfg.BaseURL, model)
	default:
		return nil, fmt.Errorf("ai: unknown provider %q", cfg.Provider)
	}
	if err != nil {
		return nil, err
	}
	return Instrument(c, cfg.Provider, model, cfg.Timeout.D()), nil
}

// Instrument wraps c with a per-call timeout and model-call hooks.
func Instrument(c Completer, provider, model string, timeout time.Duration) Completer {
	return CompleterFunc(func(ctx context.Context, req Request) (string, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		start := time.Now()
		out, err := c.Complete(ctx, req)
		observability.Functions().OnModelCall(ctx, provider, model, time.Since(start), err)
		return out, err
	})
}
