package lss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContextualizeSynthesizesMissingLevels(t *testing.T) {
	out := Contextualize(nil, []int{0, 1}, map[int][]int{0: {0}, 1: {1, 2}})

	var postHints, sectionHints, eventHints []ContextHint
	for _, h := range out {
		switch h.Scope {
		case ScopePost:
			postHints = append(postHints, h)
		case ScopeSection:
			sectionHints = append(sectionHints, h)
		case ScopeEvent:
			eventHints = append(eventHints, h)
		}
	}

	require.Len(t, postHints, 1)
	assert.Equal(t, SourceSynthetic, postHints[0].Source)

	require.Len(t, sectionHints, 2)
	for _, h := range sectionHints {
		assert.Equal(t, SourceSynthetic, h.Source)
	}

	require.Len(t, eventHints, 3)
	for _, h := range eventHints {
		assert.Equal(t, SourceSynthetic, h.Source)
	}
}

func TestContextualizePreservesRealHintsOverSynthetic(t *testing.T) {
	realPost := ContextHint{CtxKind: CtxRegion, Scope: ScopePost, Source: SourceGazetteer}
	realSection := ContextHint{CtxKind: CtxGroup, Scope: ScopeSection, TargetID: intPtr(0), Source: SourceGazetteer}

	out := Contextualize([]ContextHint{realPost, realSection}, []int{0}, map[int][]int{0: {0}})

	var postHints, sectionHints int
	for _, h := range out {
		if h.Scope == ScopePost {
			postHints++
			assert.Equal(t, SourceGazetteer, h.Source)
		}
		if h.Scope == ScopeSection {
			sectionHints++
		}
	}
	assert.Equal(t, 1, postHints)
	// Section 0 is already covered by the real hint, so no synthetic one
	// is added alongside it.
	assert.Equal(t, 1, sectionHints)
}

func TestContextualizeOrdersTightestScopesLast(t *testing.T) {
	locationHint := ContextHint{CtxKind: CtxRegion, Scope: ScopeLocation, Source: SourceGazetteer}
	out := Contextualize([]ContextHint{locationHint}, nil, nil)

	require.NotEmpty(t, out)
	assert.Equal(t, ScopeLocation, out[len(out)-1].Scope)
}
