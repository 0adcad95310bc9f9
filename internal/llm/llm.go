// Package llm adapts the provider clients in pkg/ to the single completion
// call the score extractor needs.
package llm

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/litwatch/research-digest/internal/config"
	"github.com/litwatch/research-digest/pkg/anthropic"
	"github.com/litwatch/research-digest/pkg/openai"
)

// Request is one system+user completion request.
type Request struct {
	Model       string
	System      string
	User        string
	MaxTokens   int64
	Temperature float64
}

// Client issues a single completion and returns the response text.
// An empty string with a nil error means the model answered with nothing.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// NewClient builds the Client for the configured provider.
func NewClient(cfg config.ModelConfig) (Client, error) {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second

	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		opts := []openai.Option{openai.WithModel(cfg.PrimaryModel), openai.WithTimeout(timeout)}
		if cfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
		}
		return NewOpenAI(openai.NewClient(cfg.Key, opts...)), nil
	case config.ProviderAnthropic:
		var opts []anthropic.Option
		if cfg.BaseURL != "" {
			opts = append(opts, anthropic.WithBaseURL(cfg.BaseURL))
		}
		return NewAnthropic(anthropic.NewClient(cfg.Key, opts...), timeout), nil
	default:
		return nil, eris.Errorf("llm: unknown provider %q", cfg.Provider)
	}
}
