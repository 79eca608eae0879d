package lss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitIntoSectionsByHeading(t *testing.T) {
	text := "SITUATION REPORT\nEnemy forces advanced near Kupyansk.\n\nARTILLERY ACTIVITY\nShelling reported in Izyum.\n"

	// Every line starting with a capital letter matches the heading
	// pattern, so each non-blank line opens its own section.
	sections := SplitIntoSections(text)
	require.Len(t, sections, 4)

	assert.Equal(t, 0, sections[0].Ordinal)
	assert.Contains(t, sections[0].Text, "SITUATION REPORT")

	assert.Equal(t, 2, sections[2].Ordinal)
	assert.Contains(t, sections[2].Text, "ARTILLERY ACTIVITY")
}

func TestSplitIntoSectionsParagraphFallback(t *testing.T) {
	text := "Some narrative text without any heading line at all.\n\nA second unrelated paragraph follows here."

	sections := SplitIntoSections(text)
	require.Len(t, sections, 2)
	assert.Contains(t, sections[0].Text, "narrative")
	assert.Contains(t, sections[1].Text, "second unrelated")
}

func TestSplitIntoSectionsSingleBlock(t *testing.T) {
	text := "Just one short paragraph, nothing more."
	sections := SplitIntoSections(text)
	require.Len(t, sections, 1)
	assert.Equal(t, text, sections[0].Text)
}

func TestSplitIntoSectionsEmpty(t *testing.T) {
	sections := SplitIntoSections("")
	assert.Empty(t, sections)
}
