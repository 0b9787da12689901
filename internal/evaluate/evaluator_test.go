package evaluate

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/silverforge/mend/internal/config"
	"github.com/silverforge/mend/internal/tools"
)

// stubScorer is a test implementation of the SemanticScorer interface.
type stubScorer struct {
	scores SemanticScores
	err    error
	calls  int
}

func (s *stubScorer) ScoreSemantics(ctx context.Context, text string) (SemanticScores, error) {
	s.calls++
	return s.scores, s.err
}

func newTestEvaluator(opts ...Option) *Evaluator {
	return New(tools.Default(), config.Default(), opts...)
}

const cleanDoc = "# Title\n\n## 1. Introduction\n\nA paragraph of prose.\n\n" +
	"| a | b |\n| --- | --- |\n| 1 | 2 |\n\n$$\nE = mc^2\n$$\n"

func TestEvaluate_BenchmarkIdentical(t *testing.T) {
	e := newTestEvaluator()
	report := e.Evaluate(context.Background(), cleanDoc, cleanDoc)

	assert.Equal(t, ModeBenchmark, report.Mode)
	assert.InDelta(t, 1.0, report.TextSimilarity, 1e-9)
	require.NotNil(t, report.TextFluency)
	assert.InDelta(t, 1.0, *report.TextFluency, 1e-9)
	assert.InDelta(t, 1.0, report.TableStructureScore, 1e-9)
	assert.InDelta(t, 1.0, report.FormulaFidelity, 1e-9)
	assert.InDelta(t, 1.0, report.StructureScore, 1e-9)
	assert.InDelta(t, 100.0, report.Overall, 1e-6)
	assert.Empty(t, report.Issues)
	assert.Nil(t, report.SemanticScore)
}

func TestEvaluate_BenchmarkUnparsableTable(t *testing.T) {
	// The reference has a table; the candidate lost it entirely. The table
	// score collapses to zero and the issue routes to the table tool.
	gt := "intro text\n\n| a | b |\n| --- | --- |\n| 1 | 2 |\n"
	pred := "intro text\n\na b 1 2 scrambled into prose\n"

	e := newTestEvaluator()
	report := e.Evaluate(context.Background(), pred, gt)

	assert.Equal(t, 0.0, report.TableStructureScore)
	require.NotEmpty(t, report.Issues)

	found := false
	for i, issue := range report.Issues {
		if report.Actionable[i] == "fix_table_structure" {
			assert.Contains(t, issue, "table_structure_score")
			found = true
		}
	}
	assert.True(t, found, "expected a table_structure_score issue")
}

func TestEvaluate_ProductionStructureOnly(t *testing.T) {
	e := newTestEvaluator()
	report := e.Evaluate(context.Background(), cleanDoc, "")

	assert.Equal(t, ModeProduction, report.Mode)
	// No reference means no fidelity signal; the field is pinned.
	assert.Equal(t, 1.0, report.TextSimilarity)
	assert.Nil(t, report.TextFluency)
	assert.Nil(t, report.SemanticScore)
	assert.InDelta(t, 100.0, report.Overall, 1e-6)
	assert.Empty(t, report.Issues)
}

func TestEvaluate_ProductionWithSemanticScore(t *testing.T) {
	scorer := &stubScorer{scores: SemanticScores{Logic: 0.8, Completeness: 0.8, Consistency: 0.8}}
	e := newTestEvaluator(WithSemanticScorer(scorer))

	report := e.Evaluate(context.Background(), cleanDoc, "")

	require.NotNil(t, report.SemanticScore)
	assert.InDelta(t, 0.8, *report.SemanticScore, 1e-9)
	assert.Equal(t, 1, scorer.calls)
	// struct 1.0 at weight 0.6, semantic 0.8 at weight 0.4.
	assert.InDelta(t, 92.0, report.Overall, 1e-6)
}

func TestEvaluate_SemanticScorerFailureDegradesGracefully(t *testing.T) {
	scorer := &stubScorer{err: errors.New("api unreachable")}
	e := newTestEvaluator(WithSemanticScorer(scorer))

	report := e.Evaluate(context.Background(), cleanDoc, "")

	assert.Nil(t, report.SemanticScore)
	assert.InDelta(t, 100.0, report.Overall, 1e-6)
}

func TestEvaluate_SemanticScorerNotCalledInBenchmarkMode(t *testing.T) {
	scorer := &stubScorer{scores: SemanticScores{Logic: 1, Completeness: 1, Consistency: 1}}
	e := newTestEvaluator(WithSemanticScorer(scorer))

	e.Evaluate(context.Background(), cleanDoc, cleanDoc)
	assert.Equal(t, 0, scorer.calls)
}

func TestEvaluate_HeadingJumpIssue(t *testing.T) {
	e := newTestEvaluator()
	report := e.Evaluate(context.Background(), "# A\n\n### B\n\nprose body here\n", "")

	assert.Equal(t, CheckFail, report.StructureDetail[CheckHeadingDepth].Status)
	assert.Equal(t, 0.0, report.StructureDetail[CheckHeadingDepth].Score)

	require.NotEmpty(t, report.Issues)
	assert.Contains(t, report.Issues[0], "heading depth jump: H1 -> H3")
	assert.Equal(t, "fix_heading_hierarchy", report.Actionable[0])
}

func TestEvaluate_UnclosedFormulaIssue(t *testing.T) {
	e := newTestEvaluator()
	report := e.Evaluate(context.Background(), "# T\n\n$$\nx + y\n", "")

	assert.Equal(t, 0.0, report.StructureDetail[CheckFormulaDelimiters].Score)
	assert.Equal(t, 0.0, report.FormulaFidelity)

	require.NotEmpty(t, report.Issues)
	assert.Contains(t, report.Issues[0], "unterminated display formula")
	assert.Equal(t, "fix_equation_blocks", report.Actionable[0])
}

func TestEvaluate_ActionableParallelsIssues(t *testing.T) {
	e := newTestEvaluator()
	damaged := "# A\n\n#### B\n\n| a | b |\n| 1 |\n\n$$\nunclosed\n"
	for _, gt := range []string{"", cleanDoc} {
		report := e.Evaluate(context.Background(), damaged, gt)
		assert.Equal(t, len(report.Issues), len(report.Actionable))
		for _, tool := range report.Actionable {
			assert.NotEmpty(t, tool)
		}
	}
}

func TestEvaluate_TextSimilarityIssueOnlyInBenchmarkMode(t *testing.T) {
	e := newTestEvaluator()
	damaged := "completely different content than the reference\n"

	benchmark := e.Evaluate(context.Background(), damaged, cleanDoc)
	production := e.Evaluate(context.Background(), damaged, "")

	hasTextIssue := func(report QualityReport) bool {
		for _, issue := range report.Issues {
			if strings.HasPrefix(issue, "text_similarity") {
				return true
			}
		}
		return false
	}
	assert.True(t, hasTextIssue(benchmark))
	assert.False(t, hasTextIssue(production))
}
