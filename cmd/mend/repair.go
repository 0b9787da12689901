package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/silverforge/mend/internal/evaluate"
	"github.com/silverforge/mend/internal/policy"
	"github.com/silverforge/mend/internal/repair"
	"github.com/silverforge/mend/internal/tools"
)

var repairCmd = &cobra.Command{
	Use:   "repair <input.md>",
	Short: "Run the iterative repair loop on a document",
	Long: `Repair a Markdown document with the metric-driven loop.

Each iteration evaluates the document, asks the decision policy which
corrective tool to apply, applies it, and keeps the change only if the
overall score did not regress. With --ground-truth the document is
scored against the reference (benchmark mode); otherwise quality is
measured with self-contained structural checks (production mode).

Without an ANTHROPIC_API_KEY, or with --no-llm, the loop runs without a
decision policy and falls back to the rule-only assessment.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groundTruthPath, _ := cmd.Flags().GetString("ground-truth")
		outputPath, _ := cmd.Flags().GetString("output")
		asJSON, _ := cmd.Flags().GetBool("json")
		noLLM, _ := cmd.Flags().GetBool("no-llm")

		text, err := readDocument(args[0])
		if err != nil {
			return err
		}

		groundTruth := ""
		if groundTruthPath != "" {
			groundTruth, err = readDocument(groundTruthPath)
			if err != nil {
				return err
			}
		}

		registry := tools.Default()

		var adapter policy.Adapter
		var evalOpts []evaluate.Option
		if !noLLM {
			claude, err := newClaudeFromConfig()
			if err != nil {
				fmt.Fprintf(os.Stderr, "warning: decision policy unavailable: %v\n", err)
			} else {
				adapter = claude
				evalOpts = append(evalOpts, evaluate.WithSemanticScorer(claude))
			}
		}

		evaluator := evaluate.New(registry, cfg, evalOpts...)

		timeout, err := cfg.AdapterTimeout()
		if err != nil {
			return fmt.Errorf("invalid adapter timeout: %w", err)
		}
		loop, err := repair.New(repair.Options{
			Evaluator: evaluator,
			Registry:  registry,
			Adapter:   adapter,
			Config: repair.Config{
				MaxIterations:    cfg.MaxIterations,
				SuccessThreshold: cfg.SuccessThreshold,
				DecisionTimeout:  timeout,
			},
		})
		if err != nil {
			return err
		}

		result := loop.Run(cmd.Context(), text, groundTruth)

		if outputPath != "" {
			if err := os.WriteFile(outputPath, []byte(result.Markdown), 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", outputPath, err)
			}
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		printResult(result, outputPath)
		if outputPath == "" {
			fmt.Print(result.Markdown)
		}
		return nil
	},
}

func init() {
	repairCmd.Flags().StringP("ground-truth", "g", "", "reference document for benchmark-mode scoring")
	repairCmd.Flags().StringP("output", "o", "", "write repaired Markdown to this file instead of stdout")
	repairCmd.Flags().Bool("json", false, "emit the full session result as JSON")
	repairCmd.Flags().Bool("no-llm", false, "run without the LLM decision policy")
	rootCmd.AddCommand(repairCmd)
}

// newClaudeFromConfig builds the Claude adapter from the loaded config.
func newClaudeFromConfig() (*policy.Claude, error) {
	retry := policy.DefaultRetryConfig()
	if cfg.Adapter.MaxRetries > 0 {
		retry.MaxRetries = cfg.Adapter.MaxRetries
	}
	return policy.NewClaude(policy.ClaudeConfig{
		Model:          cfg.Adapter.Model,
		Retry:          retry,
		RequestsPerMin: cfg.Adapter.RequestsPerMin,
		MaxConcurrent:  cfg.Adapter.MaxConcurrent,
	})
}

// printResult writes a human-readable session summary to stderr so stdout
// stays clean for the repaired document.
func printResult(result *repair.Result, outputPath string) {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(os.Stderr, "Session %s (%s mode)\n", result.SessionID, result.Mode)
	fmt.Fprintf(os.Stderr, "Overall: %.1f → %.1f over %d iteration(s)\n",
		result.MetricsBefore.Overall, result.MetricsAfter.Overall, result.Iterations)

	for i, a := range result.Actions {
		mark := green("✓")
		if a.Outcome == repair.OutcomeRolledBack {
			mark = red("✗")
		}
		fmt.Fprintf(os.Stderr, "  %s %d. %s (%+.1f, %d line(s) changed): %s\n",
			mark, i+1, a.Tool, a.MetricDelta, a.DiffLines, a.Reason)
	}

	switch {
	case result.AgentFallback:
		fmt.Fprintf(os.Stderr, "%s decision policy unavailable; rule-only assessment: %.1f (%s)\n",
			yellow("!"), result.Fallback.OverallScore, result.Fallback.Recommendation)
	case result.Pass:
		fmt.Fprintf(os.Stderr, "%s quality threshold met\n", green("✓"))
	default:
		fmt.Fprintf(os.Stderr, "%s below quality threshold\n", red("✗"))
	}

	if outputPath != "" {
		fmt.Fprintf(os.Stderr, "Wrote %s\n", outputPath)
	}
}
