// Package markdown provides a line-oriented structural scanner for
// machine-generated Markdown. It extracts headings, table blocks, and formula
// blocks without building a full AST, so that consumers (metrics, evaluators,
// repair tools) can reason about structure while preserving the original bytes
// of every line they do not touch.
//
// The scanner is total: any input, including empty or badly mangled text,
// produces a Doc. It never returns an error.
package markdown

import (
	"regexp"
	"strings"
)

// Pre-compiled patterns. The scanner runs once per loop iteration, so these
// are hoisted to package level rather than compiled per call.
var (
	headingRegex   = regexp.MustCompile(`^(#+)\s*(.*)$`)
	numberingRegex = regexp.MustCompile(`^(\d+(?:\.\d+)*)\.?(?:\s|$)`)
	separatorRegex = regexp.MustCompile(`^\|?[\s:\-|]+\|?$`)
)

// Heading is a single ATX heading line.
type Heading struct {
	Line      int    // zero-based line index
	Level     int    // number of leading '#' characters
	Text      string // heading text with the marker stripped
	Numbering string // leading section number ("3.1"), empty if unnumbered
}

// TableRow is one pipe-delimited row inside a table block.
type TableRow struct {
	Line      int
	Cells     []string
	Separator bool // true for header-separator rows like |---|---|
}

// Table is a contiguous run of pipe-prefixed lines.
type Table struct {
	Start int // first line index
	End   int // one past the last line index
	Rows  []TableRow
}

// Formula is a display-math block fenced by $$ markers.
type Formula struct {
	Start  int
	End    int  // one past the closing fence line, or len(lines) if unclosed
	Closed bool // false when the closing $$ is missing
}

// Doc is the scanned structure of a Markdown document.
type Doc struct {
	Lines    []string
	Headings []Heading
	Tables   []Table
	Formulas []Formula

	// InlineDollarCount is the number of single-$ delimiters seen outside
	// display blocks. An odd count indicates an unpaired inline formula.
	InlineDollarCount int
}

// Scan parses text into a Doc in a single pass over its lines.
func Scan(text string) *Doc {
	lines := strings.Split(text, "\n")
	doc := &Doc{Lines: lines}

	var table *Table
	inFormula := false
	formulaStart := 0

	flushTable := func(end int) {
		if table != nil {
			table.End = end
			doc.Tables = append(doc.Tables, *table)
			table = nil
		}
	}

	for i, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Display formula fences take priority: a $$ line inside a table
		// cell run would be malformed input anyway, and formula pairing is
		// what the evaluator needs to check.
		if inFormula {
			if strings.Contains(trimmed, "$$") {
				doc.Formulas = append(doc.Formulas, Formula{Start: formulaStart, End: i + 1, Closed: true})
				inFormula = false
			}
			continue
		}
		if fenceCount := strings.Count(trimmed, "$$"); fenceCount > 0 {
			flushTable(i)
			if fenceCount%2 == 1 {
				inFormula = true
				formulaStart = i
			} else {
				// Opened and closed on the same line.
				doc.Formulas = append(doc.Formulas, Formula{Start: i, End: i + 1, Closed: true})
			}
			continue
		}

		doc.InlineDollarCount += strings.Count(trimmed, "$")

		if strings.HasPrefix(trimmed, "|") {
			if table == nil {
				table = &Table{Start: i}
			}
			table.Rows = append(table.Rows, TableRow{
				Line:      i,
				Cells:     SplitCells(trimmed),
				Separator: IsSeparatorRow(trimmed),
			})
			continue
		}
		flushTable(i)

		if m := headingRegex.FindStringSubmatch(line); m != nil {
			h := Heading{
				Line:  i,
				Level: len(m[1]),
				Text:  strings.TrimSpace(m[2]),
			}
			if n := numberingRegex.FindStringSubmatch(h.Text); n != nil {
				h.Numbering = n[1]
			}
			doc.Headings = append(doc.Headings, h)
		}
	}
	flushTable(len(lines))

	if inFormula {
		doc.Formulas = append(doc.Formulas, Formula{Start: formulaStart, End: len(lines), Closed: false})
	}

	return doc
}

// SplitCells splits a pipe-delimited row into trimmed cell contents.
// Leading and trailing empty cells produced by the outer pipes are dropped.
func SplitCells(line string) []string {
	parts := strings.Split(line, "|")
	if len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
		parts = parts[1:]
	}
	if len(parts) > 0 && strings.TrimSpace(parts[len(parts)-1]) == "" {
		parts = parts[:len(parts)-1]
	}
	cells := make([]string, len(parts))
	for i, p := range parts {
		cells[i] = strings.TrimSpace(p)
	}
	return cells
}

// IsSeparatorRow reports whether a row is a header-separator row
// (pipes, dashes, colons, and whitespace only, with at least one dash).
func IsSeparatorRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	return strings.Contains(trimmed, "-") && separatorRegex.MatchString(trimmed)
}

// ColumnCount returns the widest row of the table. Separator rows count:
// a separator narrower than the header is itself a defect worth repairing.
func (t *Table) ColumnCount() int {
	max := 0
	for _, row := range t.Rows {
		if len(row.Cells) > max {
			max = len(row.Cells)
		}
	}
	return max
}

// HasSeparator reports whether the table contains a header-separator row.
func (t *Table) HasSeparator() bool {
	for _, row := range t.Rows {
		if row.Separator {
			return true
		}
	}
	return false
}

// Consistent reports whether every non-separator row has the same cell count.
func (t *Table) Consistent() bool {
	want := -1
	for _, row := range t.Rows {
		if row.Separator {
			continue
		}
		if want == -1 {
			want = len(row.Cells)
			continue
		}
		if len(row.Cells) != want {
			return false
		}
	}
	return true
}
