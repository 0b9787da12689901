package evaluate

import (
	"strings"
	"unicode"

	"github.com/silverforge/mend/internal/markdown"
)

// Assessment is the result of the rule-only fallback evaluator. It is used
// when the decision policy is unreachable or when the full loop is bypassed.
type Assessment struct {
	OverallScore   float64  `json:"overall_score"`
	Recommendation string   `json:"recommendation"`
	CharCount      int      `json:"char_count"`
	WordCount      int      `json:"word_count"`
	Issues         []string `json:"issues,omitempty"`

	StructureDetail map[string]CheckResult `json:"structure_detail"`
}

// FallbackAssess scores a document with structural rules and basic
// length/ratio heuristics. It is deterministic, never calls external
// services, and always succeeds.
func FallbackAssess(text string) Assessment {
	doc := markdown.Scan(text)
	detail, structScore, structIssues := structureChecks(doc)

	a := Assessment{
		CharCount:       len(text),
		WordCount:       len(strings.Fields(text)),
		StructureDetail: detail,
	}
	for _, si := range structIssues {
		a.Issues = append(a.Issues, si.text)
	}

	if a.WordCount == 0 {
		a.Recommendation = "document is empty; re-run the parser"
		return a
	}

	// Very short output usually means the parser dropped most of the
	// document, independent of how clean the surviving structure looks.
	lengthScore := 1.0
	if a.WordCount < 200 {
		lengthScore = float64(a.WordCount) / 200
		a.Issues = append(a.Issues, "document unusually short for a parsed paper")
	}

	// A low letter ratio indicates pagination debris or raw extraction
	// noise dominating the content.
	letterScore := 1.0
	if ratio := letterRatio(text); ratio < 0.5 {
		letterScore = ratio * 2
		a.Issues = append(a.Issues, "low text-to-noise ratio")
	}

	a.OverallScore = (structScore*0.6 + lengthScore*0.2 + letterScore*0.2) * 100

	switch {
	case a.OverallScore >= 70:
		a.Recommendation = "ready for downstream chunking"
	case a.OverallScore >= 40:
		a.Recommendation = "usable with manual review"
	default:
		a.Recommendation = "re-parse recommended: structural quality too low"
	}
	return a
}

func letterRatio(text string) float64 {
	letters, total := 0, 0
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		total++
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			letters++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(letters) / float64(total)
}
