package lss

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokens splits s on whitespace, giving a simple word-level tokenization
// with stable boundaries for building test AnnotatorOutputs.
func tokens(s string) []string {
	return strings.Fields(s)
}

func tokenTextFn(words []string) func(start, end int) string {
	return func(start, end int) string {
		if start < 0 {
			start = 0
		}
		if end > len(words) {
			end = len(words)
		}
		if start >= end {
			return ""
		}
		return strings.Join(words[start:end], " ")
	}
}

func TestScopeEventRoleCandidatesAndSeriesGrouping(t *testing.T) {
	words := tokens("Forces advanced near Bakhmut , Kupyansk and Izyum in Kharkiv region .")
	// idx:                 0      1       2     3       4  5        6    7      8  9        10    11

	doc := &AnnotatorOutput{
		Entities: []EntityMatch{
			{Label: "LOCATION", Text: "Bakhmut", StartToken: 3, EndToken: 4},
			{Label: "LOCATION", Text: "Kupyansk", StartToken: 5, EndToken: 6},
			{Label: "LOCATION", Text: "Izyum", StartToken: 7, EndToken: 8},
			{Label: "REGION", Text: "Kharkiv region", StartToken: 9, EndToken: 11},
		},
		Sentences: []Sentence{{Start: 0, End: 12}},
		TokenText: tokenTextFn(words),
	}

	event := EventMatch{
		DocStartTokenIndex: 1,
		ContentWords: []WordMatch{
			{
				DocumentWord:        "Forces",
				MatchType:           MatchSubject,
				FirstDocumentToken:  0,
				LastDocumentToken:   0,
				Similarity:          0.91,
				InvolvesCoreference: true,
				Explanation:         "subject of advanced",
			},
			{DocumentWord: "advanced", MatchType: MatchVerb, FirstDocumentToken: 1, LastDocumentToken: 1},
		},
	}

	roles, series, hints := ScopeEvent(doc, event, 0, nil)

	require.Len(t, roles, 2)
	assert.Equal(t, RoleActor, roles[0].RoleKind)
	assert.Equal(t, "Forces", roles[0].Text)
	assert.Equal(t, "Forces", roles[0].DocumentWord)
	assert.Equal(t, MatchSubject, roles[0].MatchType)
	assert.Equal(t, 0.91, roles[0].Similarity)
	assert.True(t, roles[0].InvolvesCoreference)
	assert.Equal(t, "subject of advanced", roles[0].Explanation)
	assert.Equal(t, RoleAction, roles[1].RoleKind)
	assert.Equal(t, "advanced", roles[1].Text)

	require.Len(t, series, 1)
	assert.Len(t, series[0].Items, 3)
	assert.Equal(t, "Bakhmut", series[0].Items[0].Text)
	assert.Equal(t, "Kupyansk", series[0].Items[1].Text)
	assert.Equal(t, "Izyum", series[0].Items[2].Text)

	// The trailing region qualifier retroactively attaches to every item
	// in the preceding series, since no earlier same-kind qualifier or
	// intervening out-of-series LOCATION exists.
	var locationHints []ContextHint
	for _, h := range hints {
		if h.Scope == ScopeLocation {
			locationHints = append(locationHints, h)
		}
	}
	require.Len(t, locationHints, 3)
	for _, h := range locationHints {
		assert.Equal(t, CtxRegion, h.CtxKind)
		assert.Equal(t, SourceGazetteer, h.Source)
	}
}

func TestScopeEventLocationContainedContextHint(t *testing.T) {
	words := tokens("Assault continues near Kupyansk direction sector")
	doc := &AnnotatorOutput{
		Entities: []EntityMatch{
			// The DIRECTION entity is contained inside the LOCATION span.
			{Label: "LOCATION", Text: "Kupyansk direction", StartToken: 3, EndToken: 5},
			{Label: "DIRECTION", Text: "Kupyansk", StartToken: 3, EndToken: 4},
		},
		Sentences: []Sentence{{Start: 0, End: 6}},
		TokenText: tokenTextFn(words),
	}
	event := EventMatch{DocStartTokenIndex: 1}

	_, series, hints := ScopeEvent(doc, event, 0, nil)
	require.Len(t, series, 1)

	require.Len(t, hints, 1)
	assert.Equal(t, ScopeLocation, hints[0].Scope)
	assert.Equal(t, CtxDirection, hints[0].CtxKind)
	assert.Equal(t, series[0].Items[0].ItemID, *hints[0].TargetID)
}

func TestScopeEventContextFallsBackToEventScope(t *testing.T) {
	words := tokens("Shelling reported nearby in Kharkiv")
	doc := &AnnotatorOutput{
		Entities: []EntityMatch{
			{Label: "REGION", Text: "Kharkiv", StartToken: 4, EndToken: 5},
		},
		Sentences: []Sentence{{Start: 0, End: 5}},
		TokenText: tokenTextFn(words),
	}
	event := EventMatch{DocStartTokenIndex: 0}

	// No location series at all, so the region can only attach at EVENT
	// scope (it overlaps the sentence/event window).
	_, _, hints := ScopeEvent(doc, event, 7, nil)
	require.Len(t, hints, 1)
	assert.Equal(t, ScopeEvent, hints[0].Scope)
	assert.Equal(t, 7, *hints[0].TargetID)
}

func TestApplyRetroactiveSeriesQualifierBlockedByInterveningLocation(t *testing.T) {
	doc := &AnnotatorOutput{
		Entities: []EntityMatch{
			{Label: "LOCATION", Text: "Other", StartToken: 6, EndToken: 7},
		},
	}
	series := []LocationSeries{
		{
			SeriesID:   0,
			StartToken: 0,
			EndToken:   2,
			Items: []LocationItem{
				{ItemID: 0, Text: "A", StartToken: 0, EndToken: 2},
			},
		},
	}
	ctxEnt := EntityMatch{Label: "REGION", Text: "SomeRegion", StartToken: 8, EndToken: 9}

	var hints []ContextHint
	attached := applyRetroactiveSeriesQualifier(doc, series, ctxEnt, &hints)
	assert.False(t, attached)
	assert.Empty(t, hints)
}

func TestLocationSeriesFlushesWhenGapHasNonJoinerToken(t *testing.T) {
	words := tokens("Forces advanced near Bakhmut and then struck Izyum in the region .")
	// idx:                 0      1       2     3       4   5    6      7    8  9   10     11

	doc := &AnnotatorOutput{
		Entities: []EntityMatch{
			{Label: "LOCATION", Text: "Bakhmut", StartToken: 3, EndToken: 4},
			{Label: "LOCATION", Text: "Izyum", StartToken: 7, EndToken: 8},
		},
		Sentences: []Sentence{{Start: 0, End: 12}},
		TokenText: tokenTextFn(words),
	}
	event := EventMatch{DocStartTokenIndex: 1}

	_, series, _ := ScopeEvent(doc, event, 0, nil)

	// The gap "and then struck" contains "then" and "struck", which are
	// not series-joiners, so the series must flush even though it also
	// contains "and" — not all non-whitespace tokens are joiners.
	require.Len(t, series, 2)
	assert.Len(t, series[0].Items, 1)
	assert.Equal(t, "Bakhmut", series[0].Items[0].Text)
	assert.Len(t, series[1].Items, 1)
	assert.Equal(t, "Izyum", series[1].Items[0].Text)
}
