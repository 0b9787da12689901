package evaluate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/silverforge/mend/internal/config"
	"github.com/silverforge/mend/internal/markdown"
	"github.com/silverforge/mend/internal/metrics"
	"github.com/silverforge/mend/internal/tools"
)

// Evaluator produces quality reports. It is stateless given its inputs and
// safe to call at arbitrarily high frequency; the only potentially blocking
// operation is the optional semantic scorer.
type Evaluator struct {
	registry *tools.Registry
	targets  config.Targets
	weights  config.TrackBWeights
	semantic SemanticScorer
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithSemanticScorer supplies the external semantic-quality signal used in
// production mode. Without it, the production overall is structure-only.
func WithSemanticScorer(s SemanticScorer) Option {
	return func(e *Evaluator) { e.semantic = s }
}

// New creates an evaluator over the given tool catalog and thresholds. The
// registry drives the issue-to-tool mapping via each tool's target metric.
func New(registry *tools.Registry, cfg config.Config, opts ...Option) *Evaluator {
	e := &Evaluator{
		registry: registry,
		targets:  cfg.Targets,
		weights:  cfg.TrackB,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Evaluate scores a candidate. A non-empty groundTruth selects benchmark
// mode; otherwise the candidate is scored against itself in production mode.
func (e *Evaluator) Evaluate(ctx context.Context, candidate, groundTruth string) QualityReport {
	doc := markdown.Scan(candidate)
	detail, structScore, structIssues := structureChecks(doc)

	report := QualityReport{
		StructureScore:  structScore,
		StructureDetail: detail,
	}

	if groundTruth != "" {
		e.scoreBenchmark(&report, candidate, groundTruth)
	} else {
		e.scoreProduction(ctx, &report, candidate, doc)
	}

	e.collectIssues(&report, structIssues)
	return report
}

// scoreBenchmark runs every metric against the reference (Track A).
func (e *Evaluator) scoreBenchmark(report *QualityReport, candidate, groundTruth string) {
	report.Mode = ModeBenchmark
	report.TextSimilarity = metrics.NormalizedEditDistance(candidate, groundTruth)

	fluency := metrics.Fluency(candidate, groundTruth)
	report.TextFluency = &fluency

	report.PerTableScores, report.TableStructureScore = metrics.TableScores(candidate, groundTruth)
	report.FormulaFidelity = metrics.NormalizedEditDistance(
		formulaSource(candidate), formulaSource(groundTruth))

	report.Overall = (report.TextSimilarity + report.TableStructureScore + report.FormulaFidelity) / 3 * 100
}

// scoreProduction runs self-referential checks only (Track B). Text
// similarity defaults to 1.0 because no fidelity signal exists, and it is
// excluded from the aggregate.
func (e *Evaluator) scoreProduction(ctx context.Context, report *QualityReport, candidate string, doc *markdown.Doc) {
	report.Mode = ModeProduction
	report.TextSimilarity = 1.0
	report.PerTableScores, report.TableStructureScore = tableSelfScores(doc)
	report.FormulaFidelity = report.StructureDetail[CheckFormulaDelimiters].Score

	structureWeight := e.weights.Structure
	semanticWeight := e.weights.Semantic

	if e.semantic != nil {
		scores, err := e.semantic.ScoreSemantics(ctx, candidate)
		if err != nil {
			slog.Warn("semantic scorer unavailable, falling back to structure-only overall",
				"error", err)
		} else {
			avg := scores.Average()
			report.SemanticScore = &avg
		}
	}

	if report.SemanticScore != nil {
		report.Overall = (report.StructureScore*structureWeight + *report.SemanticScore*semanticWeight) /
			(structureWeight + semanticWeight) * 100
	} else {
		report.Overall = report.StructureScore * 100
	}
}

// structureIssue pairs an issue message with the metric it degrades.
type structureIssue struct {
	text   string
	metric string
}

// structureChecks runs the rule-based structural validation shared by both
// tracks: heading depth monotonicity, table well-formedness, and balanced
// formula delimiters.
func structureChecks(doc *markdown.Doc) (map[string]CheckResult, float64, []structureIssue) {
	detail := make(map[string]CheckResult, 3)
	var issues []structureIssue

	// Heading depth: flag any transition that skips a level (H1 -> H3).
	headingScore := 1.0
	if n := len(doc.Headings); n > 1 {
		jumps := 0
		for i := 1; i < n; i++ {
			prev, curr := doc.Headings[i-1].Level, doc.Headings[i].Level
			if curr > prev+1 {
				jumps++
				if jumps == 1 {
					issues = append(issues, structureIssue{
						text:   fmt.Sprintf("heading depth jump: H%d -> H%d", prev, curr),
						metric: tools.MetricStructure,
					})
				}
			}
		}
		headingScore = 1.0 - float64(jumps)/float64(n-1)
	}
	detail[CheckHeadingDepth] = checkResult(headingScore)

	// Tables: every non-separator row must share a cell count, and each
	// table needs a header separator.
	tableScore := 1.0
	if n := len(doc.Tables); n > 0 {
		ok := 0
		for i, t := range doc.Tables {
			switch {
			case !t.Consistent():
				issues = append(issues, structureIssue{
					text:   fmt.Sprintf("table %d: inconsistent column counts", i+1),
					metric: tools.MetricTableStructure,
				})
			case !t.HasSeparator():
				issues = append(issues, structureIssue{
					text:   fmt.Sprintf("table %d: missing header separator row", i+1),
					metric: tools.MetricTableStructure,
				})
			default:
				ok++
			}
		}
		tableScore = float64(ok) / float64(n)
	}
	detail[CheckTableConsistency] = checkResult(tableScore)

	// Formulas: display blocks must close and inline delimiters must pair.
	formulaScore := 1.0
	for _, f := range doc.Formulas {
		if !f.Closed {
			formulaScore = 0.0
			issues = append(issues, structureIssue{
				text:   "unterminated display formula block",
				metric: tools.MetricFormula,
			})
			break
		}
	}
	if doc.InlineDollarCount%2 != 0 {
		formulaScore /= 2
		issues = append(issues, structureIssue{
			text:   "unpaired inline math delimiter",
			metric: tools.MetricFormula,
		})
	}
	detail[CheckFormulaDelimiters] = checkResult(formulaScore)

	structScore := (headingScore + tableScore + formulaScore) / 3
	return detail, structScore, issues
}

// collectIssues populates Issues and the parallel Actionable slice: the
// structural check findings first, then one issue per sub-score that sits
// below its target threshold.
func (e *Evaluator) collectIssues(report *QualityReport, structIssues []structureIssue) {
	add := func(text, metric string) {
		report.Issues = append(report.Issues, text)
		if tool, ok := e.registry.ForMetric(metric); ok {
			report.Actionable = append(report.Actionable, tool.Name)
		} else {
			report.Actionable = append(report.Actionable, ToolDone)
		}
	}

	for _, si := range structIssues {
		add(si.text, si.metric)
	}

	type target struct {
		name      string
		value     float64
		threshold float64
	}
	checks := []target{
		{tools.MetricTableStructure, report.TableStructureScore, e.targets.TableStructure},
		{tools.MetricFormula, report.FormulaFidelity, e.targets.FormulaFidelity},
		{tools.MetricStructure, report.StructureScore, e.targets.Structure},
	}
	// Text similarity carries no signal in production mode (pinned to 1.0).
	if report.Mode == ModeBenchmark {
		checks = append([]target{
			{tools.MetricTextSimilarity, report.TextSimilarity, e.targets.TextSimilarity},
		}, checks...)
	}

	for _, c := range checks {
		if c.value < c.threshold {
			add(fmt.Sprintf("%s %.2f below target %.2f", c.name, c.value, c.threshold), c.name)
		}
	}
}

func checkResult(score float64) CheckResult {
	status := CheckPass
	if score < 1.0 {
		status = CheckFail
	}
	return CheckResult{Status: status, Score: score}
}

// tableSelfScores grades each table on its own well-formedness: 1.0 for a
// consistent table with a separator, 0.5 for a consistent table missing its
// separator, 0.0 otherwise. Documents without tables score 1.0.
func tableSelfScores(doc *markdown.Doc) ([]float64, float64) {
	if len(doc.Tables) == 0 {
		return nil, 1.0
	}
	perTable := make([]float64, len(doc.Tables))
	sum := 0.0
	for i, t := range doc.Tables {
		switch {
		case t.Consistent() && t.HasSeparator():
			perTable[i] = 1.0
		case t.Consistent():
			perTable[i] = 0.5
		}
		sum += perTable[i]
	}
	return perTable, sum / float64(len(doc.Tables))
}

// formulaSource concatenates the raw lines of every display formula block,
// giving the benchmark-mode formula fidelity metric its input.
func formulaSource(text string) string {
	doc := markdown.Scan(text)
	var b strings.Builder
	for _, f := range doc.Formulas {
		end := f.End
		if end > len(doc.Lines) {
			end = len(doc.Lines)
		}
		for _, line := range doc.Lines[f.Start:end] {
			b.WriteString(strings.TrimSpace(line))
			b.WriteString("\n")
		}
	}
	return b.String()
}
