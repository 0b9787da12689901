package tools

import (
	"regexp"
	"strings"
	"unicode"
)

// maxBlankRun is the longest run of blank lines RemoveArtifacts preserves.
const maxBlankRun = 2

// runningHeaderMinRepeats is how many times an identical short line must
// appear before it is treated as a repeated running header or footer.
const runningHeaderMinRepeats = 3

// pageNumberRegex matches lines that carry nothing but a page number:
// "12", "- 12 -", "Page 12", "Page 12 of 30", "12 / 30".
var pageNumberRegex = regexp.MustCompile(
	`^(?:[-–—\s]*\d{1,4}[-–—\s]*|(?i:page)\s*\d{1,4}(?:\s*(?:of|/)\s*\d{1,4})?|\d{1,4}\s*/\s*\d{1,4})$`)

// RemoveArtifacts strips pagination debris that PDF extraction leaves behind:
// page-number-only lines, running headers/footers (identical short lines
// repeated across pages), and blank-line runs longer than two. The output is
// byte-identical to the input when none of those patterns are present.
func RemoveArtifacts(text string) string {
	lines := strings.Split(text, "\n")

	// First pass: count repeated short lines that could be running headers.
	counts := make(map[string]int)
	for _, line := range lines {
		if t := strings.TrimSpace(line); isRunningHeaderCandidate(t) {
			counts[t]++
		}
	}

	out := make([]string, 0, len(lines))
	blanks := 0
	changed := false

	for _, line := range lines {
		t := strings.TrimSpace(line)

		if t == "" {
			blanks++
			if blanks > maxBlankRun {
				changed = true
				continue
			}
			out = append(out, line)
			continue
		}
		blanks = 0

		if pageNumberRegex.MatchString(t) {
			changed = true
			continue
		}
		if isRunningHeaderCandidate(t) && counts[t] >= runningHeaderMinRepeats {
			changed = true
			continue
		}
		out = append(out, line)
	}

	if !changed {
		return text
	}
	return strings.Join(out, "\n")
}

// isRunningHeaderCandidate filters to short prose-like lines. Structural
// lines (headings, table rows, fences, list items, quotes) legitimately
// repeat and are never treated as artifacts.
func isRunningHeaderCandidate(t string) bool {
	if t == "" || len(t) > 60 {
		return false
	}
	for _, prefix := range []string{"#", "|", "$$", "```", ">", "-", "*", "+"} {
		if strings.HasPrefix(t, prefix) {
			return false
		}
	}
	hasLetter := false
	for _, r := range t {
		if unicode.IsLetter(r) {
			hasLetter = true
			break
		}
	}
	return hasLetter
}
