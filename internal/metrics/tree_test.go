package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const refTable = "| a | b |\n| --- | --- |\n| 1 | 2 |"

func TestTreeSimilarity_Identical(t *testing.T) {
	assert.InDelta(t, 1.0, TreeSimilarity(refTable, refTable), 1e-9)
}

func TestTreeSimilarity_UnparsableInput(t *testing.T) {
	// An unparsable prediction earns no structural credit, whichever side
	// the damage is on.
	assert.Equal(t, 0.0, TreeSimilarity("no table in this prose", refTable))
	assert.Equal(t, 0.0, TreeSimilarity(refTable, "no table in this prose"))
	assert.Equal(t, 0.0, TreeSimilarity("", ""))
}

func TestTreeSimilarity_MissingRow(t *testing.T) {
	// Reference tree: root + 3 rows + 6 cells = 10 nodes. Losing the data
	// row costs the row node plus its two cells.
	pred := "| a | b |\n| --- | --- |"
	assert.InDelta(t, 0.7, TreeSimilarity(pred, refTable), 1e-9)
}

func TestTreeSimilarity_CellSubstitution(t *testing.T) {
	pred := "| a | b |\n| --- | --- |\n| 1 | 9 |"
	assert.InDelta(t, 0.9, TreeSimilarity(pred, refTable), 1e-9)
}

func TestTreeSimilarity_Bounded(t *testing.T) {
	inputs := []string{refTable, "| x |", "| a | b | c |\n| 1 |", "prose", ""}
	for _, p := range inputs {
		for _, g := range inputs {
			got := TreeSimilarity(p, g)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		}
	}
}

func TestTableScores(t *testing.T) {
	t.Run("no tables on either side", func(t *testing.T) {
		perTable, mean := TableScores("plain prose", "more prose")
		assert.Nil(t, perTable)
		assert.Equal(t, 1.0, mean)
	})

	t.Run("extra table has no counterpart", func(t *testing.T) {
		perTable, mean := TableScores(refTable, "prose only")
		assert.Equal(t, []float64{0.0}, perTable)
		assert.Equal(t, 0.0, mean)
	})

	t.Run("index aligned", func(t *testing.T) {
		doc := refTable + "\n\ntext between\n\n" + refTable
		perTable, mean := TableScores(doc, doc)
		assert.Len(t, perTable, 2)
		assert.InDelta(t, 1.0, mean, 1e-9)
	})

	t.Run("mixed quality averages", func(t *testing.T) {
		pred := refTable + "\n\ntext\n\n| a | b |\n| --- | --- |\n| 1 | 9 |"
		gt := refTable + "\n\ntext\n\n" + refTable
		perTable, mean := TableScores(pred, gt)
		assert.InDelta(t, 1.0, perTable[0], 1e-9)
		assert.InDelta(t, 0.9, perTable[1], 1e-9)
		assert.InDelta(t, 0.95, mean, 1e-9)
	})
}
