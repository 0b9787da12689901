package metrics

import (
	"github.com/silverforge/mend/internal/markdown"
)

// StructureF1 treats structural elements (headings typed by level, table
// blocks, formula blocks) as a set of typed spans and computes F1 over exact
// span+type matches. There is no partial credit: a heading at the right line
// with the wrong level does not match.
//
// Two documents with no structural elements at all agree perfectly (1.0).
// When only one side has spans, precision or recall collapses to zero.
func StructureF1(pred, gt string) (f1, precision, recall float64) {
	predSpans := markdown.Scan(pred).Spans()
	gtSpans := markdown.Scan(gt).Spans()

	if len(predSpans) == 0 && len(gtSpans) == 0 {
		return 1.0, 1.0, 1.0
	}

	// Multiset intersection: duplicate spans only match as many times as
	// they appear on both sides.
	gtCounts := make(map[string]int, len(gtSpans))
	for _, s := range gtSpans {
		gtCounts[s.Key()]++
	}
	matches := 0
	for _, s := range predSpans {
		if gtCounts[s.Key()] > 0 {
			gtCounts[s.Key()]--
			matches++
		}
	}

	if len(predSpans) > 0 {
		precision = float64(matches) / float64(len(predSpans))
	}
	if len(gtSpans) > 0 {
		recall = float64(matches) / float64(len(gtSpans))
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return f1, precision, recall
}
