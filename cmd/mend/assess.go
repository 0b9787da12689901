package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/silverforge/mend/internal/evaluate"
)

var assessCmd = &cobra.Command{
	Use:   "assess <input.md>",
	Short: "Run the deterministic rule-only assessment",
	Long: `Assess a Markdown document with structural rules and length
heuristics only. No external service is called, so the verdict is
deterministic and always available. This is the same assessment the
repair loop falls back to when the decision policy is unreachable.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		asJSON, _ := cmd.Flags().GetBool("json")

		text, err := readDocument(args[0])
		if err != nil {
			return err
		}

		assessment := evaluate.FallbackAssess(text)

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(assessment)
		}

		printAssessment(assessment)
		return nil
	},
}

func init() {
	assessCmd.Flags().Bool("json", false, "emit the assessment as JSON")
	rootCmd.AddCommand(assessCmd)
}

func printAssessment(a evaluate.Assessment) {
	bold := color.New(color.Bold).SprintFunc()

	fmt.Printf("%s  %.1f/100\n", bold("Score"), a.OverallScore)
	fmt.Printf("%s  %s\n", bold("Verdict"), a.Recommendation)
	fmt.Printf("\n  %d characters, %d words\n", a.CharCount, a.WordCount)

	if len(a.StructureDetail) > 0 {
		fmt.Printf("\n%s\n", bold("Structure checks"))
		names := make([]string, 0, len(a.StructureDetail))
		for name := range a.StructureDetail {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			check := a.StructureDetail[name]
			fmt.Printf("  %-22s %-5s %.3f\n", name, check.Status, check.Score)
		}
	}

	if len(a.Issues) > 0 {
		fmt.Printf("\n%s\n", bold("Issues"))
		for _, issue := range a.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	}
}
