package repair

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/silverforge/mend/internal/evaluate"
)

// Outcome records how a repair attempt ended.
type Outcome string

const (
	// OutcomeApplied means the transformation improved (or held) the
	// overall score and was kept.
	OutcomeApplied Outcome = "APPLIED"

	// OutcomeRolledBack means the transformation regressed the score (or
	// failed outright) and the previous text was restored.
	OutcomeRolledBack Outcome = "ROLLED_BACK"
)

// Action is one entry of the append-only action history. Entries are
// immutable once written.
type Action struct {
	Tool        string        `json:"tool"`
	Outcome     Outcome       `json:"outcome"`
	MetricDelta float64       `json:"metric_delta"`
	Reason      string        `json:"reason,omitempty"`
	DiffLines   int           `json:"diff_lines"`
	Duration    time.Duration `json:"duration"`
}

// session is the mutable state of one repair run. It is created at loop
// start, mutated only by the controller, and converted to a Result at
// termination. The undo buffer is a single slot: rollback only ever reverts
// the most recent transformation, never cascades further back, and the
// blacklist relies on exactly that.
type session struct {
	id           string
	groundTruth  string
	currentText  string
	previousText string
	report       evaluate.QualityReport
	history      []Action
	blacklist    map[string]struct{}
	iteration    int
}

func newSession(text, groundTruth string, report evaluate.QualityReport) *session {
	return &session{
		id:          uuid.NewString(),
		groundTruth: groundTruth,
		currentText: text,
		report:      report,
		blacklist:   make(map[string]struct{}),
	}
}

func (s *session) blacklisted(tool string) bool {
	_, ok := s.blacklist[tool]
	return ok
}

func (s *session) blacklistTool(tool string) {
	s.blacklist[tool] = struct{}{}
}

// blacklistNames returns the blacklist sorted, so decision requests are
// deterministic for a given state.
func (s *session) blacklistNames() []string {
	names := make([]string, 0, len(s.blacklist))
	for name := range s.blacklist {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *session) record(a Action) {
	s.history = append(s.history, a)
}
