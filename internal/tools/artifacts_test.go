package tools

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemoveArtifacts_PageNumbers(t *testing.T) {
	tests := []struct {
		name string
		line string
	}{
		{"bare number", "12"},
		{"dashed", "- 12 -"},
		{"page word", "Page 12"},
		{"page of", "Page 12 of 30"},
		{"slash form", "12 / 30"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := "first paragraph\n" + tt.line + "\nsecond paragraph"
			want := "first paragraph\nsecond paragraph"
			assert.Equal(t, want, RemoveArtifacts(in))
		})
	}
}

func TestRemoveArtifacts_RunningHeaders(t *testing.T) {
	header := "Journal of Important Results"
	body := []string{"alpha", "beta", "gamma"}

	var b strings.Builder
	for i, para := range body {
		b.WriteString(header + "\n")
		b.WriteString(para)
		if i < len(body)-1 {
			b.WriteString("\n")
		}
	}
	got := RemoveArtifacts(b.String())
	assert.NotContains(t, got, header)
	for _, para := range body {
		assert.Contains(t, got, para)
	}
}

func TestRemoveArtifacts_TwoRepeatsAreKept(t *testing.T) {
	in := "Some Caption\nalpha\nSome Caption\nbeta"
	assert.Equal(t, in, RemoveArtifacts(in))
}

func TestRemoveArtifacts_StructuralLinesNeverRemoved(t *testing.T) {
	// Repeated headings and table rows are legitimate structure.
	in := strings.Repeat("# Chapter\n| a | b |\n", 4)
	in = strings.TrimSuffix(in, "\n")
	assert.Equal(t, in, RemoveArtifacts(in))
}

func TestRemoveArtifacts_CollapsesBlankRuns(t *testing.T) {
	in := "alpha\n\n\n\n\nbeta"
	want := "alpha\n\n\nbeta"
	assert.Equal(t, want, RemoveArtifacts(in))
}

func TestRemoveArtifacts_NoOpIsByteIdentical(t *testing.T) {
	in := "# Title\n\nA paragraph of real content.\n\n| a | b |\n| --- | --- |\n"
	assert.Equal(t, in, RemoveArtifacts(in))
}

func TestRemoveArtifacts_Idempotent(t *testing.T) {
	in := "text\n\n\n\n\n12\nPage 3 of 9\nmore text"
	once := RemoveArtifacts(in)
	assert.Equal(t, once, RemoveArtifacts(once))
}
