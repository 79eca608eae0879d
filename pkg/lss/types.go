// Package lss implements Linguistic-Structural Scoping: the deterministic,
// post-NLP stage that turns an upstream annotator's token-level matches
// into structural sections, event windows, role candidates, location
// series and scoped context hints, ready for DOM materialization.
package lss

// RoleKind distinguishes the two semantic roles a content word can fill
// within an event window.
type RoleKind string

const (
	RoleActor  RoleKind = "ACTOR"
	RoleAction RoleKind = "ACTION"
)

// CtxKind is the gazetteer domain a context entity belongs to.
type CtxKind string

const (
	CtxRegion    CtxKind = "REGION"
	CtxGroup     CtxKind = "GROUP"
	CtxDirection CtxKind = "DIRECTION"
	CtxPost      CtxKind = "POST"
	CtxSection   CtxKind = "SECTION"
	CtxEvent     CtxKind = "EVENT"
)

// CtxScope is the structural level a context hint is attached at, from
// tightest to loosest.
type CtxScope string

const (
	ScopeLocation CtxScope = "LOCATION"
	ScopeSeries   CtxScope = "SERIES"
	ScopeEvent    CtxScope = "EVENT"
	ScopeSection  CtxScope = "SECTION"
	ScopePost     CtxScope = "POST"
)

// CtxSource records how a context hint was produced.
type CtxSource string

const (
	SourceGazetteer CtxSource = "GAZETTEER"
	SourceHolmes    CtxSource = "HOLMES"
	SourceSynthetic CtxSource = "SYNTHETIC"
)

// MatchType is the upstream annotator's classification of a matched
// content word, used to infer RoleKind.
type MatchType string

const (
	MatchSubject    MatchType = "subject"
	MatchActor      MatchType = "actor"
	MatchObject     MatchType = "object"
	MatchDObj       MatchType = "dobj"
	MatchPossessor  MatchType = "possessor"
	MatchVerb       MatchType = "verb"
	MatchAction     MatchType = "action"
)

// EntityMatch is a single labeled span produced by the upstream NLP
// annotator: a LOCATION, REGION, GROUP or DIRECTION entity mention.
type EntityMatch struct {
	Label      string // LOCATION | REGION | GROUP | DIRECTION
	Text       string
	StartToken int
	EndToken   int // exclusive
}

// WordMatch is a single content-word match inside an event's matched
// pattern, carrying the annotator's semantic and provenance metadata.
type WordMatch struct {
	DocumentPhrase       string
	DocumentWord         string
	FirstDocumentToken   int
	LastDocumentToken    int // inclusive
	MatchType            MatchType
	Negated              bool
	Uncertain            bool
	InvolvesCoreference  bool
	Similarity           float64
	Explanation          string
}

// EventMatch is one upstream-detected event: an anchor token plus the
// content words participating in its matched pattern.
type EventMatch struct {
	DocStartTokenIndex int
	ContentWords       []WordMatch
}

// Sentence is the sentence-bounded token span an event window is clamped
// to (spec.md §4.1 event windows are always sentence-bounded).
type Sentence struct {
	Start int
	End   int // exclusive
}

// AnnotatorOutput is the complete opaque boundary between the upstream
// NLP annotator and this package: entity mentions, event matches and
// sentence boundaries for a single post (or a single section of a post).
// Nothing in lss inspects how these were produced.
type AnnotatorOutput struct {
	Entities  []EntityMatch
	Events    []EventMatch
	Sentences []Sentence
	// TokenText returns the literal text of the token span [start, end).
	TokenText func(start, end int) string
}

// sentenceContaining returns the sentence that contains tokenIdx, clamped
// to the whole document if none is found (mirrors spaCy's Doc[i].sent
// always resolving to a span).
func sentenceContaining(sentences []Sentence, tokenIdx int) Sentence {
	for _, s := range sentences {
		if tokenIdx >= s.Start && tokenIdx < s.End {
			return s
		}
	}
	if len(sentences) > 0 {
		last := sentences[len(sentences)-1]
		return Sentence{Start: 0, End: last.End}
	}
	return Sentence{Start: tokenIdx, End: tokenIdx + 1}
}

// RoleCandidate is a semantic ACTOR/ACTION candidate extracted from an
// event's content words. Locations are never role candidates.
type RoleCandidate struct {
	RoleKind            RoleKind
	Text                string
	DocumentWord        string
	StartToken          int
	EndToken            int // exclusive
	MatchType           MatchType
	Negated             bool
	Uncertain           bool
	InvolvesCoreference bool
	Similarity          float64
	Explanation         string
}

// LocationItem is a single LOCATION entity mention inside an event
// window, identified by an ordinal local to that event.
type LocationItem struct {
	ItemID     int
	Text       string
	StartToken int
	EndToken   int // exclusive
}

// LocationSeries groups LOCATION items joined by a comma/and/or/&
// conjunction into one series, identified by an ordinal local to the
// owning event.
type LocationSeries struct {
	SeriesID   int
	Items      []LocationItem
	StartToken int
	EndToken   int // exclusive
}

// ContextHint attaches a REGION/GROUP/DIRECTION entity (or a synthesized
// POST/SECTION/EVENT placeholder) to the tightest structural level it can
// be defensibly scoped to.
type ContextHint struct {
	CtxKind    CtxKind
	Text       string
	StartToken *int
	EndToken   *int
	Scope      CtxScope
	// TargetID holds the item/series/event/section ordinal the hint is
	// attached to; nil for POST scope.
	TargetID *int
	Source   CtxSource
}

// seriesJoinTokens are the conjunctions that continue a location series
// rather than starting a new one.
var seriesJoinTokens = map[string]bool{
	",":   true,
	"and": true,
	"or":  true,
	"&":   true,
}

func spansOverlap(a1, a2, b1, b2 int) bool {
	return !(a2 <= b1 || b2 <= a1)
}

func intPtr(v int) *int { return &v }
