package tools

import (
	"strings"

	"github.com/silverforge/mend/internal/markdown"
)

// FixEquationBlocks closes unterminated display-math blocks and normalizes
// LaTeX-style math delimiters to dollar form: \[...\] becomes $$...$$ and
// \(...\) becomes $...$ when the pair sits on one line. An unclosed $$ fence
// runs to the end of the document, so at most one closing fence is appended.
func FixEquationBlocks(text string) string {
	out := text

	if strings.Contains(out, `\[`) || strings.Contains(out, `\]`) {
		out = strings.ReplaceAll(out, `\[`, "$$")
		out = strings.ReplaceAll(out, `\]`, "$$")
	}

	if strings.Contains(out, `\(`) {
		lines := strings.Split(out, "\n")
		changed := false
		for i, line := range lines {
			if strings.Contains(line, `\(`) && strings.Contains(line, `\)`) {
				lines[i] = strings.ReplaceAll(strings.ReplaceAll(line, `\(`, "$"), `\)`, "$")
				changed = true
			}
		}
		if changed {
			out = strings.Join(lines, "\n")
		}
	}

	doc := markdown.Scan(out)
	for _, f := range doc.Formulas {
		if !f.Closed {
			out += "\n$$"
			break
		}
	}

	return out
}
