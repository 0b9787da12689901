package metrics

import (
	"github.com/silverforge/mend/internal/markdown"
)

// TreeSimilarity computes a tree-edit-distance similarity between two tables
// given as Markdown text. Each table is modeled as a depth-two tree: a root,
// one node per row, and one leaf per cell. The edit distance is normalized by
// the size of the larger tree, so the result lies in [0,1].
//
// If either input fails to parse as a table (no pipe-delimited rows), the
// similarity is 0.0: an unparsable prediction earns no structural credit
// even when the reference is well formed.
func TreeSimilarity(predTable, gtTable string) float64 {
	pred, ok := firstTable(predTable)
	if !ok {
		return 0.0
	}
	gt, ok := firstTable(gtTable)
	if !ok {
		return 0.0
	}
	return tableSimilarity(pred, gt)
}

// TableScores scores every table in pred against the table at the same
// position in gt, returning the per-table similarities and their mean.
// A table with no counterpart at its index scores 0.0. Documents with no
// tables on either side have nothing to disagree about and score 1.0.
func TableScores(pred, gt string) (perTable []float64, mean float64) {
	predTables := markdown.Scan(pred).Tables
	gtTables := markdown.Scan(gt).Tables

	n := len(predTables)
	if len(gtTables) > n {
		n = len(gtTables)
	}
	if n == 0 {
		return nil, 1.0
	}

	perTable = make([]float64, n)
	sum := 0.0
	for i := 0; i < n; i++ {
		if i < len(predTables) && i < len(gtTables) {
			perTable[i] = tableSimilarity(&predTables[i], &gtTables[i])
		}
		sum += perTable[i]
	}
	return perTable, sum / float64(n)
}

func firstTable(text string) (*markdown.Table, bool) {
	doc := markdown.Scan(text)
	if len(doc.Tables) == 0 {
		return nil, false
	}
	return &doc.Tables[0], true
}

func tableSimilarity(pred, gt *markdown.Table) float64 {
	dist := tableEditDistance(pred, gt)
	larger := treeSize(pred)
	if s := treeSize(gt); s > larger {
		larger = s
	}
	if larger == 0 {
		return 1.0
	}
	return clamp01(1.0 - float64(dist)/float64(larger))
}

// treeSize counts the nodes of the table tree: root + rows + cells.
func treeSize(t *markdown.Table) int {
	size := 1 + len(t.Rows)
	for _, row := range t.Rows {
		size += len(row.Cells)
	}
	return size
}

// tableEditDistance runs a sequence edit distance over rows, where deleting
// or inserting a row costs the row node plus all of its cells, and
// substituting one row for another costs the cell-level edit distance
// between them. The shared root contributes nothing.
func tableEditDistance(a, b *markdown.Table) int {
	rowCost := func(row markdown.TableRow) int { return 1 + len(row.Cells) }

	m, n := len(a.Rows), len(b.Rows)
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 1; j <= n; j++ {
		prev[j] = prev[j-1] + rowCost(b.Rows[j-1])
	}
	for i := 1; i <= m; i++ {
		curr[0] = prev[0] + rowCost(a.Rows[i-1])
		for j := 1; j <= n; j++ {
			sub := prev[j-1] + cellEditDistance(a.Rows[i-1].Cells, b.Rows[j-1].Cells)
			del := prev[j] + rowCost(a.Rows[i-1])
			ins := curr[j-1] + rowCost(b.Rows[j-1])
			curr[j] = minInt(sub, minInt(del, ins))
		}
		prev, curr = curr, prev
	}
	return prev[n]
}

// cellEditDistance is the classic unit-cost edit distance over cell contents,
// with substitution free when the trimmed contents already match.
func cellEditDistance(a, b []string) int {
	m, n := len(a), len(b)
	prev := make([]int, n+1)
	curr := make([]int, n+1)

	for j := 0; j <= n; j++ {
		prev[j] = j
	}
	for i := 1; i <= m; i++ {
		curr[0] = i
		for j := 1; j <= n; j++ {
			subCost := 1
			if a[i-1] == b[j-1] {
				subCost = 0
			}
			curr[j] = minInt(prev[j-1]+subCost, minInt(prev[j]+1, curr[j-1]+1))
		}
		prev, curr = curr, prev
	}
	return prev[n]
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
