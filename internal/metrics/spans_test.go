package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructureF1_Identical(t *testing.T) {
	doc := "# Title\n\n## Section\n\n| a | b |\n| --- | --- |\n\n$$\nE = mc^2\n$$\n"
	f1, precision, recall := StructureF1(doc, doc)
	assert.Equal(t, 1.0, f1)
	assert.Equal(t, 1.0, precision)
	assert.Equal(t, 1.0, recall)
}

func TestStructureF1_NoStructureEitherSide(t *testing.T) {
	f1, precision, recall := StructureF1("plain prose", "other prose")
	assert.Equal(t, 1.0, f1)
	assert.Equal(t, 1.0, precision)
	assert.Equal(t, 1.0, recall)
}

func TestStructureF1_LevelMismatchIsNoMatch(t *testing.T) {
	// Exact matching only: a heading at the right place with the wrong
	// level earns nothing.
	f1, precision, recall := StructureF1("## Title", "# Title")
	assert.Equal(t, 0.0, f1)
	assert.Equal(t, 0.0, precision)
	assert.Equal(t, 0.0, recall)
}

func TestStructureF1_MissingSpanLowersRecall(t *testing.T) {
	gt := "# Title\n\n## Section\n"
	pred := "# Title\n\nSection\n" // second heading lost its marker
	f1, precision, recall := StructureF1(pred, gt)
	assert.Equal(t, 1.0, precision)
	assert.Equal(t, 0.5, recall)
	assert.InDelta(t, 2.0/3.0, f1, 1e-9)
}

func TestStructureF1_OneSidedStructure(t *testing.T) {
	f1, precision, recall := StructureF1("prose", "# Heading")
	assert.Equal(t, 0.0, f1)
	assert.Equal(t, 0.0, precision)
	assert.Equal(t, 0.0, recall)
}
