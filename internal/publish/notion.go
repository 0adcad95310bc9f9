package publish

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/litwatch/research-digest/pkg/notion"
)

// Notion publishes reports as pages in a Notion database.
type Notion struct {
	client   notion.Client
	database string
	timeout  time.Duration
}

// NewNotion creates a Notion publisher. A zero timeout leaves the context
// deadline untouched.
func NewNotion(client notion.Client, database string, timeout time.Duration) *Notion {
	return &Notion{client: client, database: database, timeout: timeout}
}

// Publish creates a page titled title with body as paragraphs.
func (n *Notion) Publish(ctx context.Context, title, body string) (string, error) {
	if n.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, n.timeout)
		defer cancel()
	}

	zap.L().Info("publish: creating notion page", zap.String("database", n.database), zap.String("title", title))

	page, err := notion.CreateTextPage(ctx, n.client, n.database, title, body)
	if err != nil {
		return "", eris.Wrap(err, "publish: notion page")
	}
	return page.URL, nil
}
