// Package extract scores one article body with a language model, falling back
// from the primary to the secondary model when the first call yields nothing.
package extract

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/litwatch/research-digest/internal/config"
	"github.com/litwatch/research-digest/internal/llm"
	"github.com/litwatch/research-digest/internal/model"
	"github.com/litwatch/research-digest/internal/parser"
)

// previewLen bounds the raw response logged at debug level.
const previewLen = 200

// Extractor turns article bodies into score results. It keeps no state
// between items.
type Extractor struct {
	client  llm.Client
	cfg     config.ModelConfig
	limiter *rate.Limiter
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithRateLimit paces model requests. rps <= 0 disables pacing.
func WithRateLimit(rps float64) Option {
	return func(e *Extractor) {
		if rps > 0 {
			e.limiter = rate.NewLimiter(rate.Limit(rps), 1)
		} else {
			e.limiter = nil
		}
	}
}

// New creates an Extractor. Pacing follows cfg.RequestsPerSecond unless
// overridden by an option.
func New(client llm.Client, cfg config.ModelConfig, opts ...Option) *Extractor {
	e := &Extractor{client: client, cfg: cfg}
	WithRateLimit(cfg.RequestsPerSecond)(e)
	for _, o := range opts {
		o(e)
	}
	return e
}

// Score asks the primary model for a JSON verdict and parses it structured
// first. An error or empty answer triggers one labeled-format request to the
// secondary model. When both fail the result is model.FailedResult.
func (e *Extractor) Score(ctx context.Context, body string) model.ScoreResult {
	log := zap.L().With(zap.String("component", "extract"))

	text, err := e.complete(ctx, llm.Request{
		Model:       e.cfg.PrimaryModel,
		System:      primarySystemPrompt(e.cfg.Domain),
		User:        primaryUserPrompt(body),
		MaxTokens:   e.cfg.PrimaryMaxTokens,
		Temperature: e.cfg.Temperature,
	})
	switch {
	case err != nil:
		log.Warn("primary model call failed", zap.String("model", e.cfg.PrimaryModel), zap.Error(err))
	case text == "":
		log.Warn("primary model returned empty response", zap.String("model", e.cfg.PrimaryModel))
	default:
		log.Debug("raw primary response", zap.String("preview", preview(text)))
		return parser.Parse(text, parser.StructuredFirst)
	}

	log.Info("trying secondary model", zap.String("model", e.cfg.SecondaryModel))
	text, err = e.complete(ctx, llm.Request{
		Model:       e.cfg.SecondaryModel,
		System:      secondarySystemPrompt(e.cfg.Domain),
		User:        secondaryUserPrompt(body),
		MaxTokens:   e.cfg.SecondaryMaxTokens,
		Temperature: e.cfg.Temperature,
	})
	switch {
	case err != nil:
		log.Error("secondary model call failed", zap.String("model", e.cfg.SecondaryModel), zap.Error(err))
	case text == "":
		log.Error("secondary model returned empty response", zap.String("model", e.cfg.SecondaryModel))
	default:
		log.Debug("raw secondary response", zap.String("preview", preview(text)))
		return parser.Parse(text, parser.LabelFirst)
	}

	return model.FailedResult()
}

func (e *Extractor) complete(ctx context.Context, req llm.Request) (string, error) {
	if e.limiter != nil {
		if err := e.limiter.Wait(ctx); err != nil {
			return "", eris.Wrap(err, "extract: rate limit")
		}
	}
	return e.client.Complete(ctx, req)
}

// preview truncates s to previewLen runes.
func preview(s string) string {
	r := []rune(s)
	if len(r) <= previewLen {
		return s
	}
	return string(r[:previewLen]) + "..."
}
