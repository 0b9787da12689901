package tools

import (
	"strings"

	"github.com/silverforge/mend/internal/markdown"
)

// FixTableStructure repairs column-count mismatches inside each table block
// by padding short rows with empty cells up to the widest row, and inserts a
// header-separator row after the first row when the table lacks one.
// Rows that already have the right shape keep their original bytes.
func FixTableStructure(text string) string {
	doc := markdown.Scan(text)
	if len(doc.Tables) == 0 {
		return text
	}

	replace := make(map[int]string)
	insertAfter := make(map[int]string)

	for _, t := range doc.Tables {
		target := t.ColumnCount()
		if target == 0 {
			continue
		}
		for _, row := range t.Rows {
			if row.Separator {
				if len(row.Cells) != target {
					replace[row.Line] = separatorRow(target)
				}
				continue
			}
			if len(row.Cells) < target {
				cells := make([]string, target)
				copy(cells, row.Cells)
				replace[row.Line] = renderRow(cells)
			}
		}
		if !t.HasSeparator() && len(t.Rows) > 0 {
			insertAfter[t.Rows[0].Line] = separatorRow(target)
		}
	}

	if len(replace) == 0 && len(insertAfter) == 0 {
		return text
	}

	out := make([]string, 0, len(doc.Lines)+len(insertAfter))
	for i, line := range doc.Lines {
		if r, ok := replace[i]; ok {
			out = append(out, r)
		} else {
			out = append(out, line)
		}
		if ins, ok := insertAfter[i]; ok {
			out = append(out, ins)
		}
	}
	return strings.Join(out, "\n")
}

func renderRow(cells []string) string {
	return "| " + strings.Join(cells, " | ") + " |"
}

func separatorRow(cols int) string {
	parts := make([]string, cols)
	for i := range parts {
		parts[i] = "---"
	}
	return renderRow(parts)
}
