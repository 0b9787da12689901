// Package policy defines the decision boundary between the repair loop and
// the external action-selection capability, plus a Claude-backed
// implementation. The loop treats every implementation as untrusted: the
// adapter proposes, the controller validates.
package policy

import (
	"context"

	"github.com/silverforge/mend/internal/evaluate"
	"github.com/silverforge/mend/internal/tools"
)

// Done is the sentinel action meaning "no further repair is worthwhile".
const Done = "DONE"

// Request is the decision request handed to the adapter: the full quality
// report, its issues, the tools already blacklisted this session, and the
// catalog of tools still worth proposing.
type Request struct {
	Report         evaluate.QualityReport `json:"report"`
	Issues         []string               `json:"issues"`
	Blacklisted    []string               `json:"blacklisted"`
	AvailableTools []tools.CatalogEntry   `json:"available_tools"`
}

// Decision is the adapter's response. Action must be a known tool name or
// Done; anything else is ignored by the controller.
type Decision struct {
	Action       string `json:"action"`
	Reason       string `json:"reason"`
	TargetMetric string `json:"target_metric"`
}

// Adapter selects the next repair action. Implementations may block on
// network calls; the caller supplies the timeout through ctx. Any error,
// malformed response, or timeout is treated by the controller exactly like
// a Done decision.
type Adapter interface {
	SelectAction(ctx context.Context, req Request) (Decision, error)
}
