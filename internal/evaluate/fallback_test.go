package evaluate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFallbackAssess_EmptyDocument(t *testing.T) {
	a := FallbackAssess("")
	assert.Equal(t, 0.0, a.OverallScore)
	assert.Equal(t, "document is empty; re-run the parser", a.Recommendation)
	assert.Equal(t, 0, a.WordCount)
}

func TestFallbackAssess_CleanLongDocument(t *testing.T) {
	var b strings.Builder
	b.WriteString("# Title\n\n## 1. Introduction\n\n")
	for i := 0; i < 60; i++ {
		b.WriteString("This sentence pads the document with ordinary prose words.\n")
	}
	a := FallbackAssess(b.String())

	assert.GreaterOrEqual(t, a.OverallScore, 70.0)
	assert.Equal(t, "ready for downstream chunking", a.Recommendation)
	assert.Empty(t, a.Issues)
	assert.Greater(t, a.WordCount, 200)
}

func TestFallbackAssess_ShortDocumentPenalized(t *testing.T) {
	short := FallbackAssess("# Title\n\nOnly a few words survived parsing.\n")
	long := FallbackAssess("# Title\n\n" + strings.Repeat("Ordinary prose words fill the document out properly here.\n", 40))

	assert.Less(t, short.OverallScore, long.OverallScore)
	assert.Contains(t, short.Issues, "document unusually short for a parsed paper")
}

func TestFallbackAssess_StructuralDamageLowersScore(t *testing.T) {
	damaged := "# A\n\n#### B\n\n| a | b |\n| 1 |\n\n$$\nunclosed\n"
	clean := "# A\n\n## B\n\nprose\n"

	damagedScore := FallbackAssess(damaged).OverallScore
	cleanScore := FallbackAssess(clean).OverallScore
	assert.Less(t, damagedScore, cleanScore)
}

func TestFallbackAssess_NoiseRatio(t *testing.T) {
	noisy := strings.Repeat("%% ## @@ !! ~~ ** (( )) [[ ]] ;; :: \n", 30)
	a := FallbackAssess(noisy)
	assert.Contains(t, a.Issues, "low text-to-noise ratio")
}

func TestFallbackAssess_Deterministic(t *testing.T) {
	doc := "# Title\n\nsome words\n\n| a |\n| 1 |\n"
	first := FallbackAssess(doc)
	second := FallbackAssess(doc)
	assert.Equal(t, first, second)
}

func TestFallbackAssess_RecommendationBands(t *testing.T) {
	// Heavy structural damage with decent length lands in the manual
	// review band.
	var b strings.Builder
	b.WriteString("# A\n\n#### B\n\n###### C\n\n$$\nunclosed\n\n")
	for i := 0; i < 50; i++ {
		b.WriteString("filler prose words to reach a reasonable document length here\n")
	}
	a := FallbackAssess(b.String())
	assert.Less(t, a.OverallScore, 70.0)
	assert.GreaterOrEqual(t, a.OverallScore, 40.0)
	assert.Equal(t, "usable with manual review", a.Recommendation)
}
