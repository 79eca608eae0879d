package lss

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunSimpleSingleEventPost(t *testing.T) {
	postText := "Russian forces shelled Avdiivka in Donetsk Oblast."
	words := tokens("Russian forces shelled Avdiivka in Donetsk Oblast .")
	// idx:          0        1      2       3        4  5       6      7

	annotate := func(section Section) Annotation {
		doc := &AnnotatorOutput{
			Entities: []EntityMatch{
				{Label: "LOCATION", Text: "Avdiivka", StartToken: 3, EndToken: 4},
				{Label: "REGION", Text: "Donetsk Oblast", StartToken: 5, EndToken: 7},
			},
			Sentences: []Sentence{{Start: 0, End: 8}},
			TokenText: tokenTextFn(words),
		}
		return Annotation{
			Doc: doc,
			Events: []SourceEvent{
				{
					Match: EventMatch{
						DocStartTokenIndex: 2,
						ContentWords: []WordMatch{
							{DocumentPhrase: "Russian forces", MatchType: MatchSubject, FirstDocumentToken: 0, LastDocumentToken: 1},
							{DocumentWord: "shelled", MatchType: MatchVerb, FirstDocumentToken: 2, LastDocumentToken: 2},
						},
					},
					Label:        "ATTACK",
					SearchPhrase: "shell",
					Text:         "shelled",
					Similarity:   0.9,
				},
			},
		}
	}

	result := Run(postText, 0, annotate)

	require.Len(t, result.Sections, 1)
	require.Len(t, result.Events, 1)

	event := result.Events[0]
	require.Len(t, event.RoleCandidates, 2)
	require.Len(t, event.LocationSeries, 1)
	require.Len(t, event.LocationSeries[0].Items, 1)
	assert.Equal(t, "Avdiivka", event.LocationSeries[0].Items[0].Text)

	var locationHints int
	for _, h := range result.Context {
		if h.Scope == ScopeLocation {
			locationHints++
			assert.Equal(t, CtxRegion, h.CtxKind)
		}
	}
	assert.Equal(t, 1, locationHints)

	// POST and SECTION levels are always populated, even when gazetteer
	// hints never reach them here.
	var hasPost, hasSection bool
	for _, h := range result.Context {
		if h.Scope == ScopePost {
			hasPost = true
		}
		if h.Scope == ScopeSection {
			hasSection = true
		}
	}
	assert.True(t, hasPost)
	assert.True(t, hasSection)
}

func TestRunFiltersEventsFailingStructuralValidity(t *testing.T) {
	postText := "Something happened but nothing concrete was said."
	words := tokens(postText)

	annotate := func(section Section) Annotation {
		doc := &AnnotatorOutput{
			Sentences: []Sentence{{Start: 0, End: len(words)}},
			TokenText: tokenTextFn(words),
		}
		return Annotation{
			Doc: doc,
			Events: []SourceEvent{
				{
					Match: EventMatch{
						DocStartTokenIndex: 1,
						ContentWords: []WordMatch{
							{DocumentWord: "happened", MatchType: MatchVerb, FirstDocumentToken: 1, LastDocumentToken: 1},
						},
					},
					Label:      "VAGUE",
					Similarity: 0.5,
				},
			},
		}
	}

	result := Run(postText, 0, annotate)
	// No LOCATION entities at all, so the event has zero location series
	// and must not survive into the DOM.
	assert.Empty(t, result.Events)
}

func TestRunAppliesMinSimilarityCutoff(t *testing.T) {
	postText := "Forces moved toward Bakhmut."
	words := tokens(postText)

	annotate := func(section Section) Annotation {
		doc := &AnnotatorOutput{
			Entities: []EntityMatch{
				{Label: "LOCATION", Text: "Bakhmut", StartToken: 3, EndToken: 4},
			},
			Sentences: []Sentence{{Start: 0, End: len(words)}},
			TokenText: tokenTextFn(words),
		}
		return Annotation{
			Doc: doc,
			Events: []SourceEvent{
				{
					Match: EventMatch{
						DocStartTokenIndex: 1,
						ContentWords: []WordMatch{
							{DocumentWord: "moved", MatchType: MatchVerb, FirstDocumentToken: 1, LastDocumentToken: 1},
						},
					},
					Similarity: 0.2,
				},
			},
		}
	}

	result := Run(postText, 0.5, annotate)
	assert.Empty(t, result.Events)
}
