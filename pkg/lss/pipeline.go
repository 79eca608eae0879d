package lss

// ScopedEvent is one event that survived structural scoping: it carries
// its section and global ordinals together with the role candidates and
// location series extracted for it. Context hints for all of a post's
// events are collected separately and merged through Contextualize.
type ScopedEvent struct {
	SectionOrdinal int
	EventOrdinal   int
	Label          string
	SearchPhrase   string
	Text           string
	StartToken     int
	EndToken       int
	Similarity     float64
	Negated        bool
	Uncertain      bool
	InvolvesCoreference bool

	RoleCandidates []RoleCandidate
	LocationSeries []LocationSeries
}

// SourceEvent is the annotator's raw event record for one section, before
// structural scoping and the P1 survival filter are applied.
type SourceEvent struct {
	Match        EventMatch
	Label        string
	SearchPhrase string
	Text         string
	Similarity   float64
}

// Annotation is the per-section annotator output: entities/sentences for
// scoping, plus the raw events detected in that section.
type Annotation struct {
	Doc    *AnnotatorOutput
	Events []SourceEvent
}

// Result is the complete structural output of running LSS over one post:
// its sections, the events that survived the P1 structural-validity
// filter (≥1 role candidate and ≥1 location series), and the
// lattice-complete set of context hints.
type Result struct {
	Sections []Section
	Events   []ScopedEvent
	Context  []ContextHint
}

// Run executes the full LSS pipeline over a post: deterministic
// sectioning, then per-section event scoping via annotate, then the P1
// survival filter, then mandatory context-lattice synthesis.
//
// annotate is called once per section and supplies that section's
// annotator output; minSimilarity drops event matches below the
// configured similarity cutoff before scoping even runs.
func Run(postText string, minSimilarity float64, annotate func(Section) Annotation) Result {
	sections := SplitIntoSections(postText)

	var events []ScopedEvent
	var allHints []ContextHint
	eventOrdinalsBySection := map[int][]int{}
	sectionOrdinals := make([]int, len(sections))

	globalEventOrdinal := 0
	for _, section := range sections {
		sectionOrdinals[section.Ordinal] = section.Ordinal
		ann := annotate(section)
		if ann.Doc == nil {
			continue
		}

		sectionID := section.Ordinal
		for _, src := range ann.Events {
			if src.Similarity < minSimilarity {
				continue
			}

			roles, series, hints := ScopeEvent(ann.Doc, src.Match, globalEventOrdinal, &sectionID)
			if len(roles) == 0 || len(series) == 0 {
				// P1: an event without ≥1 role candidate and ≥1 location
				// series never survives into the DOM.
				continue
			}

			events = append(events, ScopedEvent{
				SectionOrdinal:      section.Ordinal,
				EventOrdinal:        globalEventOrdinal,
				Label:               src.Label,
				SearchPhrase:        src.SearchPhrase,
				Text:                src.Text,
				StartToken:          sentenceContaining(ann.Doc.Sentences, src.Match.DocStartTokenIndex).Start,
				EndToken:            sentenceContaining(ann.Doc.Sentences, src.Match.DocStartTokenIndex).End,
				Similarity:          src.Similarity,
				Negated:             anyNegated(src.Match.ContentWords),
				Uncertain:           anyUncertain(src.Match.ContentWords),
				InvolvesCoreference: anyCoreference(src.Match.ContentWords),
				RoleCandidates:      roles,
				LocationSeries:      series,
			})
			allHints = append(allHints, hints...)
			eventOrdinalsBySection[section.Ordinal] = append(eventOrdinalsBySection[section.Ordinal], globalEventOrdinal)

			globalEventOrdinal++
		}
	}

	return Result{
		Sections: sections,
		Events:   events,
		Context:  Contextualize(allHints, sectionOrdinals, eventOrdinalsBySection),
	}
}

func anyNegated(words []WordMatch) bool {
	for _, w := range words {
		if w.Negated {
			return true
		}
	}
	return false
}

func anyUncertain(words []WordMatch) bool {
	for _, w := range words {
		if w.Uncertain {
			return true
		}
	}
	return false
}

func anyCoreference(words []WordMatch) bool {
	for _, w := range words {
		if w.InvolvesCoreference {
			return true
		}
	}
	return false
}
