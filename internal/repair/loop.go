// Package repair implements the metric-driven iterative repair loop: evaluate
// the document, ask the decision policy for a corrective tool, apply it,
// re-evaluate, keep the change only if quality did not regress, and stop
// under a bounded iteration budget.
package repair

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/silverforge/mend/internal/evaluate"
	"github.com/silverforge/mend/internal/metrics"
	"github.com/silverforge/mend/internal/policy"
	"github.com/silverforge/mend/internal/tools"
)

// Config controls the loop budget.
type Config struct {
	// MaxIterations caps executed repair attempts per session.
	MaxIterations int

	// SuccessThreshold is the overall score at which the loop stops early.
	SuccessThreshold float64

	// DecisionTimeout bounds each decision policy call. A timeout is
	// treated as adapter failure. Zero means no per-call timeout.
	DecisionTimeout time.Duration
}

// DefaultConfig returns the documented loop defaults.
func DefaultConfig() Config {
	return Config{
		MaxIterations:    3,
		SuccessThreshold: 70,
		DecisionTimeout:  45 * time.Second,
	}
}

// Options wires a Loop together. Evaluator and Registry are required; a nil
// Adapter makes every session take the fallback path.
type Options struct {
	Evaluator *evaluate.Evaluator
	Registry  *tools.Registry
	Adapter   policy.Adapter
	Config    Config
	Collector Collector
}

// Loop is the repair loop controller. It is safe to share across sessions:
// all mutable state lives in the per-run session, so concurrent Run calls
// need no coordination.
type Loop struct {
	evaluator *evaluate.Evaluator
	registry  *tools.Registry
	adapter   policy.Adapter
	config    Config
	collector Collector
}

// New creates a repair loop controller.
func New(opts Options) (*Loop, error) {
	if opts.Evaluator == nil {
		return nil, fmt.Errorf("evaluator is required")
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("tool registry is required")
	}

	cfg := opts.Config
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = DefaultConfig().MaxIterations
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = DefaultConfig().SuccessThreshold
	}

	return &Loop{
		evaluator: opts.Evaluator,
		registry:  opts.Registry,
		adapter:   opts.Adapter,
		config:    cfg,
		collector: opts.Collector,
	}, nil
}

// Run repairs text until it passes, the budget runs out, or the decision
// policy signals completion. It always returns a result; errors from the
// adapter or the tools are absorbed into the loop's fail-safe paths.
// Cancellation is honored at the evaluating boundary only, so the returned
// text is always in a fully evaluated, consistent state.
func (l *Loop) Run(ctx context.Context, text, groundTruth string) *Result {
	s := newSession(text, groundTruth, l.evaluator.Evaluate(ctx, text, groundTruth))
	metricsBefore := s.report

	adapterFailed := false
	decided := 0

	for {
		// Evaluating boundary: every way out of the loop passes through
		// these checks against the current, fully evaluated state.
		if ctx.Err() != nil {
			slog.Info("repair loop canceled", "session", s.id, "iteration", s.iteration)
			break
		}
		if s.report.Overall >= l.config.SuccessThreshold {
			break
		}
		if s.iteration >= l.config.MaxIterations {
			break
		}
		if !l.hasActionableTool(s) {
			break
		}

		if l.collector != nil {
			l.collector.RecordIterationStart(s.iteration + 1)
		}

		decision, err := l.decide(ctx, s)
		if err != nil {
			// Adapter failure terminates the loop the same way DONE does;
			// whatever improvement was already accepted is kept.
			slog.Warn("decision policy failed, terminating loop",
				"session", s.id, "error", err)
			adapterFailed = true
			break
		}
		decided++

		toolName := strings.TrimSpace(decision.Action)
		if toolName == policy.Done {
			break
		}
		spec, known := l.registry.Get(toolName)
		if !known || s.blacklisted(toolName) {
			// Fail-safe: an adapter proposing an unknown or blacklisted
			// tool is treated as if it had said DONE.
			slog.Warn("decision policy proposed unusable tool, terminating loop",
				"session", s.id, "tool", toolName)
			break
		}

		l.execute(ctx, s, spec, decision.Reason)
	}

	result := &Result{
		SessionID:     s.id,
		Markdown:      s.currentText,
		MetricsBefore: metricsBefore,
		MetricsAfter:  s.report,
		Actions:       s.history,
		Iterations:    s.iteration,
		Mode:          s.report.Mode,
		Pass:          s.report.Overall >= l.config.SuccessThreshold,
	}

	// The fallback path covers sessions where the policy never produced a
	// single valid decision: the rule-only assessment stands in for the
	// judgment the loop could not obtain.
	if decided == 0 && (adapterFailed || l.adapter == nil) && s.report.Overall < l.config.SuccessThreshold {
		fb := evaluate.FallbackAssess(s.currentText)
		result.AgentFallback = true
		result.Fallback = &fb
		result.Pass = fb.OverallScore >= l.config.SuccessThreshold
	}

	if l.collector != nil {
		l.collector.RecordComplete(result)
	}
	return result
}

// decide builds the decision request and invokes the adapter under the
// configured per-call timeout.
func (l *Loop) decide(ctx context.Context, s *session) (policy.Decision, error) {
	if l.adapter == nil {
		return policy.Decision{}, fmt.Errorf("no decision policy adapter configured")
	}

	req := policy.Request{
		Report:         s.report,
		Issues:         s.report.Issues,
		Blacklisted:    s.blacklistNames(),
		AvailableTools: l.registry.Catalog(),
	}

	if l.config.DecisionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.config.DecisionTimeout)
		defer cancel()
	}
	return l.adapter.SelectAction(ctx, req)
}

// execute applies one tool, re-evaluates, and accepts or rolls back. The
// iteration counter advances whether or not the change is kept.
func (l *Loop) execute(ctx context.Context, s *session, spec tools.Spec, reason string) {
	start := time.Now()
	s.previousText = s.currentText
	s.iteration++

	candidate, applyErr := applyTool(spec, s.currentText)
	if applyErr != nil {
		// A tool must not fail; one that does is force-rolled-back and
		// blacklisted, same as a metric regression.
		s.blacklistTool(spec.Name)
		l.recordAction(s, Action{
			Tool:     spec.Name,
			Outcome:  OutcomeRolledBack,
			Reason:   applyErr.Error(),
			Duration: time.Since(start),
		})
		return
	}

	candidateReport := l.evaluator.Evaluate(ctx, candidate, s.groundTruth)
	delta := candidateReport.Overall - s.report.Overall

	// Equal overall counts as acceptance: favoring forward progress keeps
	// no-op tools from stalling the loop in rollback cycles.
	if candidateReport.Overall >= s.report.Overall {
		diffLines := metrics.DiffLineCount(s.previousText, candidate)
		s.currentText = candidate
		s.report = candidateReport
		l.recordAction(s, Action{
			Tool:        spec.Name,
			Outcome:     OutcomeApplied,
			MetricDelta: delta,
			Reason:      reason,
			DiffLines:   diffLines,
			Duration:    time.Since(start),
		})
		return
	}

	// Regression: current text stays at the pre-iteration snapshot and the
	// tool is excluded for the rest of the session.
	s.blacklistTool(spec.Name)
	l.recordAction(s, Action{
		Tool:        spec.Name,
		Outcome:     OutcomeRolledBack,
		MetricDelta: delta,
		Reason:      "metric regression",
		Duration:    time.Since(start),
	})
}

func (l *Loop) recordAction(s *session, a Action) {
	s.record(a)
	if l.collector != nil {
		l.collector.RecordAction(s.iteration, a)
	}
}

// hasActionableTool reports whether any actionable issue maps to a known,
// un-blacklisted tool.
func (l *Loop) hasActionableTool(s *session) bool {
	for _, name := range s.report.Actionable {
		if name == evaluate.ToolDone {
			continue
		}
		if _, known := l.registry.Get(name); known && !s.blacklisted(name) {
			return true
		}
	}
	return false
}

// applyTool shields the loop from a panicking tool implementation.
func applyTool(spec tools.Spec, text string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("tool %s panicked: %v", spec.Name, r)
		}
	}()
	return spec.Apply(text), nil
}
