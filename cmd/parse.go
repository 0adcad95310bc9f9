package main

import (
	"io"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/litwatch/research-digest/internal/parser"
)

var parseHint string

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a saved model response into scores",
	Long: `Run the response parser over a saved model answer and print the scores as
YAML. Reads stdin when no file is given.

Examples:
  parse response.txt
  pbpaste | parse --hint labeled`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		hint, err := parser.ParseHint(parseHint)
		if err != nil {
			return err
		}

		text, err := readInput(cmd.InOrStdin(), args)
		if err != nil {
			return err
		}

		return writeYAML(cmd.OutOrStdout(), parser.Parse(text, hint))
	},
}

func init() {
	parseCmd.Flags().StringVar(&parseHint, "hint", "structured", "expected response format: structured or labeled")
	rootCmd.AddCommand(parseCmd)
}

// readInput reads the named file, or stdin when args is empty or "-".
func readInput(stdin io.Reader, args []string) (string, error) {
	var r io.Reader = stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return "", eris.Wrapf(err, "open %s", args[0])
		}
		defer f.Close() //nolint:errcheck
		r = f
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", eris.Wrap(err, "read input")
	}
	return string(data), nil
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return eris.Wrap(err, "encode yaml")
	}
	return enc.Close()
}
