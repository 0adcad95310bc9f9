package main

import (
	"encoding/json"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/litwatch/research-digest/internal/config"
	"github.com/litwatch/research-digest/internal/extract"
	"github.com/litwatch/research-digest/internal/feed"
	"github.com/litwatch/research-digest/internal/llm"
	"github.com/litwatch/research-digest/internal/pipeline"
	"github.com/litwatch/research-digest/internal/publish"
)

var (
	runDryRun    bool
	runFeedURL   string
	runOutputDir string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Build and publish this week's digest",
	Long: `Fetch the feed, score every recent abstract, rank the results and publish
the report. A markdown backup is always written to the output directory. When
the tracker rejects the report it is printed to stdout instead.

Examples:
  # Publish to the configured GitHub repository
  run

  # Write the backup only
  run --dry-run --output-dir reports`,
	RunE: runDigest,
}

func init() {
	f := runCmd.Flags()
	f.BoolVar(&runDryRun, "dry-run", false, "write the backup but do not publish")
	f.StringVar(&runFeedURL, "feed-url", "", "feed URL (overrides config)")
	f.StringVar(&runOutputDir, "output-dir", "", "backup directory (overrides config)")
	rootCmd.AddCommand(runCmd)
}

func runDigest(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	applyRunOverrides(cfg)

	p, err := buildPipeline(cfg, runDryRun, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	result, err := p.Run(ctx)
	if err != nil {
		return eris.Wrap(err, "pipeline run")
	}

	zap.L().Info("digest complete",
		zap.String("run_id", result.RunID),
		zap.Int("scored", len(result.Scored)),
		zap.Int("high_quality", len(result.Ranked)),
		zap.String("backup", result.BackupPath),
		zap.String("url", result.URL),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func applyRunOverrides(c *config.Config) {
	if runFeedURL != "" {
		c.Feed.URL = runFeedURL
	}
	if runOutputDir != "" {
		c.Report.OutputDir = runOutputDir
	}
}

// buildPipeline validates credentials and wires the live clients. Nothing
// touches the network until the pipeline runs.
func buildPipeline(c *config.Config, dryRun bool, out io.Writer) (*pipeline.Pipeline, error) {
	var pub publish.Publisher
	if dryRun {
		if err := c.ValidateModel(); err != nil {
			return nil, err
		}
	} else {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		var err error
		pub, err = publish.New(c.Tracker)
		if err != nil {
			return nil, eris.Wrap(err, "init publisher")
		}
	}

	client, err := llm.NewClient(c.Model)
	if err != nil {
		return nil, eris.Wrap(err, "init model client")
	}

	return pipeline.New(c,
		feed.New(c.Feed),
		extract.New(client, c.Model),
		pub,
		pipeline.WithDryRun(dryRun),
		pipeline.WithOutput(out),
	), nil
}
