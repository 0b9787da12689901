package repair

import (
	"github.com/silverforge/mend/internal/evaluate"
)

// Result is the payload returned at loop termination. It is always
// populated: a mid-loop failure yields the best text accepted so far, never
// an error past the loop boundary.
type Result struct {
	SessionID string `json:"session_id"`

	// Markdown is the final (best accepted) text.
	Markdown string `json:"markdown"`

	MetricsBefore evaluate.QualityReport `json:"metrics_before"`
	MetricsAfter  evaluate.QualityReport `json:"metrics_after"`

	// Actions is the frozen action history, applied and rolled back alike.
	Actions []Action `json:"actions"`

	// Iterations counts executed repair attempts, not decision calls: a
	// loop that terminates on its first decision reports zero.
	Iterations int `json:"iterations"`

	Mode evaluate.Mode `json:"mode"`
	Pass bool          `json:"pass"`

	// AgentFallback is true when the decision policy never produced a
	// valid decision and the rule-only fallback assessment was used.
	AgentFallback bool                 `json:"agent_fallback"`
	Fallback      *evaluate.Assessment `json:"fallback,omitempty"`
}

// Collector observes loop progress. Pass nil to disable. Implementations
// must tolerate being called from the loop's single goroutine only.
type Collector interface {
	// RecordIterationStart fires at the top of each decide/execute cycle.
	RecordIterationStart(iteration int)

	// RecordAction fires after each executed repair attempt.
	RecordAction(iteration int, action Action)

	// RecordComplete fires once with the final result.
	RecordComplete(result *Result)
}
