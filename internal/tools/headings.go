package tools

import (
	"strings"

	"github.com/silverforge/mend/internal/markdown"
)

// Well-known academic section titles that belong at H2 even without a section
// number. Parsers flatten these to H1 alongside the document title.
var specialSections = map[string]bool{
	"abstract":         true,
	"introduction":     true,
	"conclusion":       true,
	"references":       true,
	"acknowledgments":  true,
	"acknowledgements": true,
	"appendix":         true,
	"related work":     true,
	"background":       true,
	"methodology":      true,
	"methods":          true,
	"results":          true,
	"discussion":       true,
	"experiments":      true,
	"evaluation":       true,
}

// FixHeadingHierarchy rewrites heading levels to match the depth implied by
// their section numbering: "1" becomes H2, "1.1" H3, "1.1.1" H4, and so on
// (H1 is reserved for the document title). Unnumbered headings are left
// alone except for two repairs: well-known section names are pinned to H2,
// and a heading that jumps more than one level below its predecessor is
// pulled up to the predecessor's level plus one.
func FixHeadingHierarchy(text string) string {
	doc := markdown.Scan(text)
	if len(doc.Headings) == 0 {
		return text
	}

	lines := append([]string(nil), doc.Lines...)
	titleSeen := false
	prevLevel := 0
	changed := false

	for _, h := range doc.Headings {
		level := h.Level
		switch {
		case h.Numbering != "":
			// "3" -> H2, "3.1" -> H3, "3.1.1" -> H4.
			level = strings.Count(h.Numbering, ".") + 2
			if level > 6 {
				level = 6
			}
		case specialSections[strings.ToLower(h.Text)]:
			level = 2
		case !titleSeen && prevLevel == 0:
			// First heading with no numbering is the document title.
			level = 1
		default:
			if prevLevel > 0 && level > prevLevel+1 {
				level = prevLevel + 1
			}
		}

		if level == 1 {
			titleSeen = true
		}
		prevLevel = level

		if level != h.Level {
			lines[h.Line] = strings.Repeat("#", level) + " " + h.Text
			changed = true
		}
	}

	if !changed {
		return text
	}
	return strings.Join(lines, "\n")
}
