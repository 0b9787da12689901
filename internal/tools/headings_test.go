package tools

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFixHeadingHierarchy_NumberedDepth(t *testing.T) {
	in := "# Paper Title\n\n" +
		"# 1. Introduction\n\n" +
		"# 1.1 Motivation\n\n" +
		"# 1.1.1 Scope\n\n" +
		"# 2. Methods\n"
	want := "# Paper Title\n\n" +
		"## 1. Introduction\n\n" +
		"### 1.1 Motivation\n\n" +
		"#### 1.1.1 Scope\n\n" +
		"## 2. Methods\n"
	assert.Equal(t, want, FixHeadingHierarchy(in))
}

func TestFixHeadingHierarchy_SpecialSections(t *testing.T) {
	in := "# A Study of Things\n\n# Abstract\n\nbody\n\n# References\n"
	want := "# A Study of Things\n\n## Abstract\n\nbody\n\n## References\n"
	assert.Equal(t, want, FixHeadingHierarchy(in))
}

func TestFixHeadingHierarchy_FirstUnnumberedIsTitle(t *testing.T) {
	in := "### My Paper Title\n\nbody\n"
	want := "# My Paper Title\n\nbody\n"
	assert.Equal(t, want, FixHeadingHierarchy(in))
}

func TestFixHeadingHierarchy_ClampsLevelJumps(t *testing.T) {
	// H1 directly to H4 is a parser artifact; the child is pulled up to
	// one level below its predecessor.
	in := "# Title\n\n#### Orphaned Subsection\n"
	want := "# Title\n\n## Orphaned Subsection\n"
	assert.Equal(t, want, FixHeadingHierarchy(in))
}

func TestFixHeadingHierarchy_DepthCappedAtSix(t *testing.T) {
	in := "# 1.2.3.4.5.6.7 Very Deep\n"
	want := "###### 1.2.3.4.5.6.7 Very Deep\n"
	assert.Equal(t, want, FixHeadingHierarchy(in))
}

func TestFixHeadingHierarchy_NoOp(t *testing.T) {
	tests := []string{
		"",
		"no headings at all\njust prose\n",
		"# Title\n\n## 1. Introduction\n\n### 1.1 Details\n",
	}
	for _, in := range tests {
		assert.Equal(t, in, FixHeadingHierarchy(in))
	}
}

func TestFixHeadingHierarchy_Idempotent(t *testing.T) {
	in := "#### Title\n\n# 1. One\n\n# 1.1 One One\n\n##### Stray\n"
	once := FixHeadingHierarchy(in)
	assert.Equal(t, once, FixHeadingHierarchy(once))
}
