package metrics

import (
	"math"
	"strings"
)

const bleuMaxOrder = 4

// Fluency computes a BLEU-style n-gram overlap score between a candidate and
// a reference, on whitespace tokens with orders 1 through 4 and a brevity
// penalty. Zero-match orders are smoothed rather than zeroing the whole
// score, since short technical documents rarely share long 4-grams.
//
// Identical texts score 1.0; an empty candidate against a non-empty reference
// scores 0.0.
func Fluency(candidate, reference string) float64 {
	candTokens := strings.Fields(candidate)
	refTokens := strings.Fields(reference)

	if len(candTokens) == 0 && len(refTokens) == 0 {
		return 1.0
	}
	if len(candTokens) == 0 || len(refTokens) == 0 {
		return 0.0
	}

	logSum := 0.0
	for order := 1; order <= bleuMaxOrder; order++ {
		matches, total := clippedMatches(candTokens, refTokens, order)
		if total == 0 {
			// Candidate shorter than the order; treat as a full miss at
			// the smallest possible granularity.
			matches, total = 0, 1
		}
		p := float64(matches) / float64(total)
		if matches == 0 {
			p = 1.0 / float64(2*total) // smoothing for zero-match orders
		}
		logSum += math.Log(p)
	}
	score := math.Exp(logSum / bleuMaxOrder)

	// Brevity penalty: short candidates must not win on precision alone.
	if len(candTokens) < len(refTokens) {
		score *= math.Exp(1.0 - float64(len(refTokens))/float64(len(candTokens)))
	}
	return clamp01(score)
}

func clippedMatches(cand, ref []string, order int) (matches, total int) {
	if len(cand) < order {
		return 0, 0
	}
	refCounts := make(map[string]int)
	for i := 0; i+order <= len(ref); i++ {
		refCounts[strings.Join(ref[i:i+order], " ")]++
	}
	for i := 0; i+order <= len(cand); i++ {
		total++
		gram := strings.Join(cand[i:i+order], " ")
		if refCounts[gram] > 0 {
			refCounts[gram]--
			matches++
		}
	}
	return matches, total
}
