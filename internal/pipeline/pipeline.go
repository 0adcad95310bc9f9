// Package pipeline runs one digest: fetch the feed, score each article, rank,
// render, back up and publish.
package pipeline

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/litwatch/research-digest/internal/config"
	"github.com/litwatch/research-digest/internal/feed"
	"github.com/litwatch/research-digest/internal/model"
	"github.com/litwatch/research-digest/internal/publish"
	"github.com/litwatch/research-digest/internal/rank"
	"github.com/litwatch/research-digest/internal/report"
)

// Scorer scores one article body. It never fails; failures are encoded in
// the result.
type Scorer interface {
	Score(ctx context.Context, body string) model.ScoreResult
}

// Phase names recorded on the result.
const (
	PhaseFetch   = "fetch"
	PhaseScore   = "score"
	PhaseRank    = "rank"
	PhaseBackup  = "backup"
	PhasePublish = "publish"
)

// PhaseResult records how one phase went.
type PhaseResult struct {
	Name     string `json:"name"`
	Duration int64  `json:"duration_ms"`
	Error    string `json:"error,omitempty"`
}

// Result summarizes a run.
type Result struct {
	RunID      string             `json:"run_id"`
	Fetched    int                `json:"fetched"`
	Skipped    int                `json:"skipped"`
	Scored     []model.ScoredItem `json:"-"`
	Ranked     []model.RankedItem `json:"-"`
	Report     report.Report      `json:"-"`
	BackupPath string             `json:"backup_path,omitempty"`
	URL        string             `json:"url,omitempty"`
	Published  bool               `json:"published"`
	Phases     []PhaseResult      `json:"phases"`
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithClock overrides the time source for the report date and backup name.
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithOutput sets where the console fallback is written. Defaults to stdout.
func WithOutput(w io.Writer) Option {
	return func(p *Pipeline) {
		p.out = w
	}
}

// WithDryRun skips publishing; the backup is still written.
func WithDryRun(dry bool) Option {
	return func(p *Pipeline) {
		p.dryRun = dry
	}
}

// Pipeline wires the collaborators for a run.
type Pipeline struct {
	cfg       *config.Config
	feed      feed.Fetcher
	scorer    Scorer
	publisher publish.Publisher
	now       func() time.Time
	out       io.Writer
	dryRun    bool
}

// New creates a Pipeline.
func New(cfg *config.Config, f feed.Fetcher, s Scorer, pub publish.Publisher, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		feed:      f,
		scorer:    s,
		publisher: pub,
		now:       time.Now,
		out:       os.Stdout,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Run executes one digest. Feed, model and tracker failures degrade the run
// rather than abort it; the only error returned is context cancellation.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	res := &Result{RunID: uuid.NewString()}
	log := zap.L().With(zap.String("run_id", res.RunID))
	log.Info("pipeline: starting run", zap.String("feed", p.cfg.Feed.URL), zap.Bool("dry_run", p.dryRun))

	trackPhase := func(name string, fn func() error) {
		start := time.Now()
		err := fn()
		phase := PhaseResult{Name: name, Duration: time.Since(start).Milliseconds()}
		if err != nil {
			phase.Error = err.Error()
			log.Error("pipeline: phase failed", zap.String("phase", name), zap.Int64("duration_ms", phase.Duration), zap.Error(err))
		} else {
			log.Info("pipeline: phase complete", zap.String("phase", name), zap.Int64("duration_ms", phase.Duration))
		}
		res.Phases = append(res.Phases, phase)
	}

	var items []model.CandidateItem
	trackPhase(PhaseFetch, func() error {
		var err error
		items, err = p.feed.Fetch(ctx)
		if err != nil {
			items = nil
			return err
		}
		if len(items) == 0 {
			log.Warn("pipeline: no articles found in the lookback window")
		}
		return nil
	})
	res.Fetched = len(items)

	trackPhase(PhaseScore, func() error {
		res.Scored, res.Skipped = p.scoreAll(ctx, log, items)
		return ctx.Err()
	})
	if err := ctx.Err(); err != nil {
		return res, eris.Wrap(err, "pipeline: interrupted")
	}

	trackPhase(PhaseRank, func() error {
		res.Ranked = rank.Rank(res.Scored)
		return nil
	})

	now := p.now()
	res.Report = report.Render(res.Ranked, len(res.Scored), now, report.Options{
		Topic:    p.cfg.Report.Topic,
		LinkBase: p.cfg.Report.LinkBase,
	})

	trackPhase(PhaseBackup, func() error {
		path, err := publish.WriteBackup(p.cfg.Report.OutputDir, now, res.Report)
		if err != nil {
			return err
		}
		res.BackupPath = path
		log.Info("pipeline: report saved", zap.String("path", path))
		return nil
	})

	if p.dryRun {
		log.Info("pipeline: dry run, skipping publish")
		return res, nil
	}

	trackPhase(PhasePublish, func() error {
		url, err := p.publisher.Publish(ctx, res.Report.Title, res.Report.Body)
		if err != nil {
			if ferr := publish.WriteFallback(p.out, res.Report); ferr != nil {
				log.Error("pipeline: console fallback failed", zap.Error(ferr))
			}
			return err
		}
		res.URL = url
		res.Published = true
		return nil
	})

	log.Info("pipeline: run complete",
		zap.Int("fetched", res.Fetched),
		zap.Int("scored", len(res.Scored)),
		zap.Int("skipped", res.Skipped),
		zap.Int("high_quality", len(res.Ranked)),
		zap.Bool("published", res.Published),
		zap.String("url", res.URL),
	)
	return res, nil
}

// scoreAll scores eligible items one at a time.
func (p *Pipeline) scoreAll(ctx context.Context, log *zap.Logger, items []model.CandidateItem) ([]model.ScoredItem, int) {
	minChars := p.cfg.Feed.MinBodyChars
	if minChars <= 0 {
		minChars = rank.DefaultMinBodyChars
	}

	scored := make([]model.ScoredItem, 0, len(items))
	skipped := 0
	for i, item := range items {
		if ctx.Err() != nil {
			break
		}
		itemLog := log.With(zap.String("title", truncate(item.Title, 50)), zap.String("identifier", item.Identifier))
		itemLog.Info("pipeline: processing article", zap.Int("index", i+1), zap.Int("total", len(items)))

		if !rank.Eligible(item, minChars) {
			itemLog.Warn("pipeline: skipping article with insufficient abstract content")
			skipped++
			continue
		}

		res := p.scorer.Score(ctx, item.Body)
		scored = append(scored, model.ScoredItem{Item: item, Score: res})
		itemLog.Info("pipeline: article scored",
			zap.Stringer("research_score", res.Research),
			zap.Stringer("social_impact_score", res.SocialImpact),
			zap.String("strategy", res.Strategy),
		)
	}
	return scored, skipped
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
