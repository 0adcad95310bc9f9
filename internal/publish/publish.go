// Package publish delivers the rendered report to an issue tracker and keeps
// a local copy.
package publish

import (
	"context"
	"fmt"
	"time"

	"github.com/rotisserie/eris"

	"github.com/litwatch/research-digest/internal/config"
	"github.com/litwatch/research-digest/pkg/notion"
)

// Publisher posts a report and returns a URL for the created record.
type Publisher interface {
	Publish(ctx context.Context, title, body string) (string, error)
}

// TrackerError is a non-success response from the tracker.
type TrackerError struct {
	StatusCode int
	Body       string
}

func (e *TrackerError) Error() string {
	return fmt.Sprintf("publish: tracker returned status %d: %s", e.StatusCode, e.Body)
}

// New builds the Publisher for the configured tracker kind.
func New(cfg config.TrackerConfig) (Publisher, error) {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second

	switch cfg.Kind {
	case config.TrackerGitHub:
		opts := []GitHubOption{WithTimeout(timeout)}
		if cfg.BaseURL != "" {
			opts = append(opts, WithGitHubBaseURL(cfg.BaseURL))
		}
		return NewGitHub(cfg.Token, cfg.Repo, opts...), nil
	case config.TrackerNotion:
		return NewNotion(notion.NewClient(cfg.Token), cfg.NotionDatabase, timeout), nil
	default:
		return nil, eris.Errorf("publish: unknown tracker kind %q", cfg.Kind)
	}
}
