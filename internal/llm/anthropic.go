package llm

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/litwatch/research-digest/pkg/anthropic"
)

// Anthropic sends requests to the Anthropic Messages API and logs token cost.
type Anthropic struct {
	client  anthropic.Client
	timeout time.Duration
}

// NewAnthropic wraps an anthropic.Client. A zero timeout leaves the
// context deadline untouched.
func NewAnthropic(client anthropic.Client, timeout time.Duration) *Anthropic {
	return &Anthropic{client: client, timeout: timeout}
}

// Complete implements Client.
func (a *Anthropic) Complete(ctx context.Context, req Request) (string, error) {
	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	temp := req.Temperature
	resp, err := a.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		System:      req.System,
		Messages:    []anthropic.Message{{Role: "user", Content: req.User}},
		Temperature: &temp,
	})
	if err != nil {
		return "", eris.Wrapf(err, "llm: complete with %s", req.Model)
	}
	resp.Usage.LogCost(req.Model, "score")
	return strings.TrimSpace(resp.Text()), nil
}
