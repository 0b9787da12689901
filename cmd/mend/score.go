package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/silverforge/mend/internal/evaluate"
	"github.com/silverforge/mend/internal/tools"
)

var scoreCmd = &cobra.Command{
	Use:   "score <input.md>",
	Short: "Score a document without repairing it",
	Long: `Score a Markdown document and print the quality report.

With --ground-truth the document is scored against the reference in
benchmark mode (edit distance, fluency, table tree similarity, formula
fidelity). Without it, production mode applies self-contained structural
checks only; no LLM call is made.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		groundTruthPath, _ := cmd.Flags().GetString("ground-truth")
		asJSON, _ := cmd.Flags().GetBool("json")

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

		evaluator := evaluate.New(tools.Default(), cfg)
		report := evaluator.Evaluate(cmd.Context(), text, groundTruth)

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		}

		printReport(report)
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringP("ground-truth", "g", "", "reference document for benchmark-mode scoring")
	scoreCmd.Flags().Bool("json", false, "emit the quality report as JSON")
	rootCmd.AddCommand(scoreCmd)
}

func printReport(report evaluate.QualityReport) {
	bold := color.New(color.Bold).SprintFunc()

	fmt.Printf("%s  %.1f/100 (%s mode)\n\n", bold("Overall"), report.Overall, report.Mode)

	fmt.Printf("  text_similarity        %.3f\n", report.TextSimilarity)
	if report.TextFluency != nil {
		fmt.Printf("  text_fluency           %.3f\n", *report.TextFluency)
	}
	fmt.Printf("  table_structure_score  %.3f\n", report.TableStructureScore)
	fmt.Printf("  formula_fidelity       %.3f\n", report.FormulaFidelity)
	fmt.Printf("  structure_score        %.3f\n", report.StructureScore)
	if report.SemanticScore != nil {
		fmt.Printf("  semantic_score         %.3f\n", *report.SemanticScore)
	}

	if len(report.StructureDetail) > 0 {
		fmt.Printf("\n%s\n", bold("Structure checks"))
		names := make([]string, 0, len(report.StructureDetail))
		for name := range report.StructureDetail {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			check := report.StructureDetail[name]
			fmt.Printf("  %-22s %-5s %.3f\n", name, check.Status, check.Score)
		}
	}

	if len(report.Issues) > 0 {
		fmt.Printf("\n%s\n", bold("Issues"))
		for i, issue := range report.Issues {
			tool := report.Actionable[i]
			if tool == evaluate.ToolDone {
				fmt.Printf("  - %s\n", issue)
			} else {
				fmt.Printf("  - %s (tool: %s)\n", issue, tool)
			}
		}
	}
}
