package evaluate

import "context"

// SemanticScores is the response of the external semantic-quality signal
// used in production mode. Each component lies in [0,1].
type SemanticScores struct {
	Logic        float64 `json:"logic_score"`
	Completeness float64 `json:"completeness_score"`
	Consistency  float64 `json:"consistency_score"`
}

// Average combines the components by simple average, clamping each to [0,1]
// first so a misbehaving scorer cannot push the blend out of range.
func (s SemanticScores) Average() float64 {
	return (clamp01(s.Logic) + clamp01(s.Completeness) + clamp01(s.Consistency)) / 3
}

// SemanticScorer supplies the external semantic-quality signal. The
// evaluator treats it as optional and untrusted: a nil scorer or any error
// simply drops the semantic component from the production-mode blend.
type SemanticScorer interface {
	ScoreSemantics(ctx context.Context, text string) (SemanticScores, error)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
