package llm

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/litwatch/research-digest/pkg/openai"
)

// OpenAI sends requests to an OpenAI-compatible chat completion API.
type OpenAI struct {
	client openai.Client
}

// NewOpenAI wraps an openai.Client.
func NewOpenAI(client openai.Client) *OpenAI {
	return &OpenAI{client: client}
}

// Complete implements Client.
func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	temp := req.Temperature
	maxTokens := req.MaxTokens

	resp, err := o.client.ChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: req.Model,
		Messages: []openai.Message{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.User},
		},
		Temperature: &temp,
		MaxTokens:   &maxTokens,
	})
	if err != nil {
		return "", eris.Wrapf(err, "llm: complete with %s", req.Model)
	}
	return strings.TrimSpace(resp.Content()), nil
}
