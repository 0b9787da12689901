// Package evaluate computes quality reports for Markdown candidates. It runs
// in two tracks: benchmark mode scores against a ground-truth reference,
// production mode scores the document against itself (rule-based structural
// checks plus an optional external semantic signal).
package evaluate

// Mode identifies which evaluation track produced a report.
type Mode string

const (
	// ModeBenchmark means a ground-truth reference was available.
	ModeBenchmark Mode = "BENCHMARK"

	// ModeProduction means the document was scored against itself.
	ModeProduction Mode = "PRODUCTION"
)

// Structural check names. These are stable identifiers: they appear in
// structure_detail keys and in issue strings.
const (
	CheckHeadingDepth      = "heading_depth"
	CheckTableConsistency  = "table_consistency"
	CheckFormulaDelimiters = "formula_delimiters"
)

// CheckStatus is the pass/fail outcome of a structural check.
type CheckStatus string

const (
	CheckPass CheckStatus = "pass"
	CheckFail CheckStatus = "fail"
)

// CheckResult carries both the binary outcome and the graded score of one
// structural check.
type CheckResult struct {
	Status CheckStatus `json:"status"`
	Score  float64     `json:"score"`
}

// ToolDone is the actionable-entry sentinel for issues no registered tool
// can address. It matches the decision policy's terminal sentinel so a policy
// echoing an actionable entry back is always valid.
const ToolDone = "DONE"

// QualityReport is an immutable snapshot of measured quality. All bounded
// scores lie in their declared ranges, and Overall is always derived from
// the sub-scores, never set independently.
type QualityReport struct {
	// TextSimilarity is the normalized edit-distance fidelity against
	// ground truth, or 1.0 in production mode where no reference exists.
	TextSimilarity float64 `json:"text_similarity"`

	// TextFluency is a BLEU-style n-gram overlap score. Benchmark mode
	// only; nil in production mode.
	TextFluency *float64 `json:"text_fluency,omitempty"`

	// TableStructureScore is the mean tree-edit similarity across tables.
	TableStructureScore float64   `json:"table_structure_score"`
	PerTableScores      []float64 `json:"per_table_scores,omitempty"`

	// FormulaFidelity is the normalized edit distance over extracted
	// formula source strings.
	FormulaFidelity float64 `json:"formula_fidelity"`

	// StructureScore aggregates the rule-based structural checks; the
	// per-check breakdown is in StructureDetail.
	StructureScore  float64                `json:"structure_score"`
	StructureDetail map[string]CheckResult `json:"structure_detail"`

	// SemanticScore is the externally supplied semantic quality signal.
	// Production mode only, and only when a scorer was reachable.
	SemanticScore *float64 `json:"semantic_score,omitempty"`

	// Overall is the weighted aggregate on a 0-100 scale.
	Overall float64 `json:"overall"`

	// Issues are human-readable diagnostics, one per failed check or low
	// sub-score. Actionable runs parallel to Issues: entry i names the
	// tool that addresses issue i, or "DONE" when no tool targets it.
	Issues     []string `json:"issues"`
	Actionable []string `json:"actionable"`

	Mode Mode `json:"mode"`
}
