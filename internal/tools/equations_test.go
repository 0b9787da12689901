package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixEquationBlocks_NormalizesDisplayDelimiters(t *testing.T) {
	in := "before\n\\[\nE = mc^2\n\\]\nafter"
	want := "before\n$$\nE = mc^2\n$$\nafter"
	assert.Equal(t, want, FixEquationBlocks(in))
}

func TestFixEquationBlocks_NormalizesInlinePairs(t *testing.T) {
	in := `the energy \(E = mc^2\) is famous`
	want := "the energy $E = mc^2$ is famous"
	assert.Equal(t, want, FixEquationBlocks(in))
}

func TestFixEquationBlocks_LeavesUnpairedInlineAlone(t *testing.T) {
	// A \( with no closing \) on the same line is ambiguous; turning it
	// into a lone $ would create a new defect.
	in := `broken \(E = mc^2 across lines`
	assert.Equal(t, in, FixEquationBlocks(in))
}

func TestFixEquationBlocks_ClosesUnterminatedBlock(t *testing.T) {
	in := "text\n$$\nx + y = z"
	want := "text\n$$\nx + y = z\n$$"
	assert.Equal(t, want, FixEquationBlocks(in))
}

func TestFixEquationBlocks_NoOp(t *testing.T) {
	tests := []string{
		"",
		"no math at all\n",
		"$$\nx = 1\n$$\n",
		"inline $x$ stays\n",
	}
	for _, in := range tests {
		assert.Equal(t, in, FixEquationBlocks(in))
	}
}

func TestFixEquationBlocks_Idempotent(t *testing.T) {
	in := "\\[\na\n\\]\n\ntext \\(b\\) text\n\n$$\nunclosed"
	once := FixEquationBlocks(in)
	assert.Equal(t, once, FixEquationBlocks(once))
}
