package main

import (
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/litwatch/research-digest/internal/extract"
	"github.com/litwatch/research-digest/internal/llm"
)

var scoreCmd = &cobra.Command{
	Use:   "score [file]",
	Short: "Score one abstract with the configured models",
	Long: `Send a single abstract through the primary and secondary models and print
the parsed scores as YAML. Reads stdin when no file is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := cfg.ValidateModel(); err != nil {
			return err
		}

		body, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}
		if strings.TrimSpace(body) == "" {
			return eris.New("score: empty abstract")
		}

		client, err := llm.NewClient(cfg.Model)
		if err != nil {
			return eris.Wrap(err, "init model client")
		}

		return writeYAML(cmd.OutOrStdout(), extract.New(client, cfg.Model).Score(ctx, body))
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}
