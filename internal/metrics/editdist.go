// Package metrics implements the normalized similarity scores used to grade a
// Markdown candidate against a ground-truth reference or against itself.
//
// Every function in this package is total: malformed, empty, or otherwise
// hostile input yields the worst score for that metric, never an error or a
// panic. The repair loop re-evaluates after every transformation, so a metric
// that could abort would take the whole session down with it.
package metrics

import (
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// NormalizedEditDistance returns 1 - levenshtein(pred, gt) / max(len(pred),
// len(gt)), clamped to [0,1]. Lengths are counted in runes. Two empty strings
// are identical by definition and score 1.0.
func NormalizedEditDistance(pred, gt string) float64 {
	if pred == gt {
		return 1.0
	}
	maxLen := utf8.RuneCountInString(pred)
	if n := utf8.RuneCountInString(gt); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(pred, gt, false)
	dist := dmp.DiffLevenshtein(diffs)

	return clamp01(1.0 - float64(dist)/float64(maxLen))
}

// DiffLineCount returns the number of changed lines between two texts.
// Used by the repair loop to annotate its action trace, not for scoring.
func DiffLineCount(before, after string) int {
	if before == after {
		return 0
	}
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	changed := 0
	for _, d := range diffs {
		if d.Type == diffmatchpatch.DiffEqual {
			continue
		}
		changed += countLines(d.Text)
	}
	return changed
}

// countLines counts the lines in a diff segment. Segments from the
// line-mode diff end in a newline, so a trailing one starts no new line.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := 0
	for _, r := range s {
		if r == '\n' {
			n++
		}
	}
	if s[len(s)-1] != '\n' {
		n++
	}
	return n
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
