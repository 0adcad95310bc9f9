// Package feed fetches the literature feed and turns recent entries into
// candidate items.
package feed

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"

	"github.com/litwatch/research-digest/internal/config"
	"github.com/litwatch/research-digest/internal/model"
)

// Fetcher returns the candidate items for one run.
type Fetcher interface {
	Fetch(ctx context.Context) ([]model.CandidateItem, error)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the http.Client used to download the feed.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.parser.Client = hc
	}
}

// WithClock overrides the time source used for the lookback window.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// Client downloads an RSS or Atom feed with gofeed.
type Client struct {
	cfg    config.FeedConfig
	parser *gofeed.Parser
	now    func() time.Time
}

// New creates a feed client for cfg.URL.
func New(cfg config.FeedConfig, opts ...Option) *Client {
	p := gofeed.NewParser()
	p.Client = &http.Client{Timeout: time.Duration(cfg.TimeoutSecs) * time.Second}

	c := &Client{cfg: cfg, parser: p, now: time.Now}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Fetch downloads the feed and returns entries published inside the
// lookback window.
func (c *Client) Fetch(ctx context.Context) ([]model.CandidateItem, error) {
	log := zap.L().With(zap.String("component", "feed"), zap.String("url", c.cfg.URL))

	f, err := c.parser.ParseURLWithContext(c.cfg.URL, ctx)
	if err != nil {
		return nil, eris.Wrap(err, "feed: fetch")
	}

	items := Candidates(f, c.now(), c.cfg.LookbackDays, c.cfg.StripHTML)
	log.Info("feed fetched",
		zap.Int("entries", len(f.Items)),
		zap.Int("candidates", len(items)),
	)
	return items, nil
}

// Parse reads a feed document from r and returns its candidates.
func Parse(r io.Reader, now time.Time, lookbackDays int, stripHTML bool) ([]model.CandidateItem, error) {
	f, err := gofeed.NewParser().Parse(r)
	if err != nil {
		return nil, eris.Wrap(err, "feed: parse")
	}
	return Candidates(f, now, lookbackDays, stripHTML), nil
}

// Candidates maps feed entries published within lookbackDays of now
// (inclusive) to candidate items. Entries without a timestamp are dropped,
// and repeated identifiers keep the first entry.
func Candidates(f *gofeed.Feed, now time.Time, lookbackDays int, stripHTML bool) []model.CandidateItem {
	cutoff := now.AddDate(0, 0, -lookbackDays)
	seen := make(map[string]bool, len(f.Items))
	out := make([]model.CandidateItem, 0, len(f.Items))

	for _, it := range f.Items {
		published := publishedAt(it)
		if published.IsZero() || published.Before(cutoff) {
			continue
		}

		id := identifier(it)
		if id != "" {
			if seen[id] {
				continue
			}
			seen[id] = true
		}

		body := it.Content
		if strings.TrimSpace(body) == "" {
			body = it.Description
		}
		if stripHTML {
			body = StripHTML(body)
		}

		out = append(out, model.CandidateItem{
			Title:      normalize(it.Title),
			Body:       normalize(body),
			Identifier: id,
			Published:  published,
		})
	}
	return out
}

func publishedAt(it *gofeed.Item) time.Time {
	switch {
	case it.PublishedParsed != nil:
		return *it.PublishedParsed
	case it.UpdatedParsed != nil:
		return *it.UpdatedParsed
	default:
		return time.Time{}
	}
}

// identifier prefers a dc:identifier carrying a DOI, then any dc:identifier,
// then the GUID, then the link.
func identifier(it *gofeed.Item) string {
	if dc := it.DublinCoreExt; dc != nil {
		for _, id := range dc.Identifier {
			if strings.HasPrefix(strings.TrimSpace(id), "doi:") {
				return strings.TrimSpace(id)
			}
		}
		for _, id := range dc.Identifier {
			if id = strings.TrimSpace(id); id != "" {
				return id
			}
		}
	}
	if id := strings.TrimSpace(it.GUID); id != "" {
		return id
	}
	return strings.TrimSpace(it.Link)
}

// blockElements get a trailing space so adjacent blocks do not run together.
const blockElements = "p, div, br, li, tr, td, h1, h2, h3, h4, h5, h6, blockquote"

// StripHTML returns the text content of an HTML fragment with whitespace
// collapsed. Input that fails to parse is returned unchanged.
func StripHTML(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script, style").Remove()
	doc.Find(blockElements).AppendHtml(" ")
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
