// Command mend repairs and scores machine-generated Markdown. It wraps the
// evaluator, the repair loop, and the rule-only fallback assessor behind
// three subcommands: repair, score, and assess.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/silverforge/mend/internal/config"
)

var (
	configPath string
	verbose    bool

	// cfg is loaded once in the root PersistentPreRun and shared by every
	// subcommand.
	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "mend",
	Short: "Repair and score machine-generated Markdown",
	Long: `mend measures the quality of Markdown produced by document parsers
and repairs common structural damage: broken heading hierarchies,
malformed tables, mis-delimited equations, and conversion artifacts.

Subcommands:
  repair   run the iterative repair loop on a document
  score    score a document against a ground-truth reference
  assess   run the deterministic rule-only assessment`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))

		var err error
		if configPath != "" {
			cfg, err = config.Load(configPath)
		} else {
			cfg = config.Default()
			err = cfg.Validate()
		}
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (defaults apply when omitted)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readDocument reads the named file, or stdin when path is "-".
func readDocument(path string) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
