package lss

import "strings"

// ScopeEvent performs structural scoping for a single annotator event:
// role-candidate extraction, event-local location-series grouping, and
// context-hint attachment at the tightest defensible structural level.
//
// eventOrdinal and sectionID (nil for a post with no sectioning) identify
// the owning structural nodes for EVENT/SECTION-scoped hints.
func ScopeEvent(doc *AnnotatorOutput, event EventMatch, eventOrdinal int, sectionID *int) ([]RoleCandidate, []LocationSeries, []ContextHint) {
	sent := sentenceContaining(doc.Sentences, event.DocStartTokenIndex)
	eventStart, eventEnd := sent.Start, sent.End

	roleCandidates := extractRoleCandidates(event)
	locationSeries := groupLocationSeries(doc, eventStart, eventEnd)
	contextHints := attachContextHints(doc, locationSeries, eventStart, eventEnd, eventOrdinal, sectionID)

	return roleCandidates, locationSeries, contextHints
}

func extractRoleCandidates(event EventMatch) []RoleCandidate {
	var out []RoleCandidate
	for _, wm := range event.ContentWords {
		rk, ok := inferRoleKind(wm.MatchType)
		if !ok {
			continue
		}
		text := wm.DocumentPhrase
		if text == "" {
			text = wm.DocumentWord
		}
		out = append(out, RoleCandidate{
			RoleKind:            rk,
			Text:                text,
			DocumentWord:        wm.DocumentWord,
			StartToken:          wm.FirstDocumentToken,
			EndToken:            wm.LastDocumentToken + 1,
			MatchType:           wm.MatchType,
			Negated:             wm.Negated,
			Uncertain:           wm.Uncertain,
			InvolvesCoreference: wm.InvolvesCoreference,
			Similarity:          wm.Similarity,
			Explanation:         wm.Explanation,
		})
	}
	return out
}

func inferRoleKind(mt MatchType) (RoleKind, bool) {
	switch MatchType(strings.ToLower(string(mt))) {
	case MatchSubject, MatchActor, MatchObject, MatchDObj, MatchPossessor:
		return RoleActor, true
	case MatchVerb, MatchAction:
		return RoleAction, true
	default:
		return "", false
	}
}

func groupLocationSeries(doc *AnnotatorOutput, eventStart, eventEnd int) []LocationSeries {
	var locEnts []EntityMatch
	for _, e := range doc.Entities {
		if e.Label == "LOCATION" && spansOverlap(e.StartToken, e.EndToken, eventStart, eventEnd) {
			locEnts = append(locEnts, e)
		}
	}
	// entities are expected in document order already; sort defensively
	// by start token to match the original's explicit sort.
	for i := 1; i < len(locEnts); i++ {
		for j := i; j > 0 && locEnts[j].StartToken < locEnts[j-1].StartToken; j-- {
			locEnts[j], locEnts[j-1] = locEnts[j-1], locEnts[j]
		}
	}

	var series []LocationSeries
	var current []LocationItem
	seriesID, itemID := 0, 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		series = append(series, LocationSeries{
			SeriesID:   seriesID,
			Items:      current,
			StartToken: current[0].StartToken,
			EndToken:   current[len(current)-1].EndToken,
		})
		seriesID++
		current = nil
	}

	for _, ent := range locEnts {
		item := LocationItem{
			ItemID:     itemID,
			Text:       ent.Text,
			StartToken: ent.StartToken,
			EndToken:   ent.EndToken,
		}
		itemID++

		if len(current) == 0 {
			current = []LocationItem{item}
			continue
		}

		last := current[len(current)-1]
		if joinedBySeriesToken(doc, last.EndToken, item.StartToken) {
			current = append(current, item)
		} else {
			flush()
			current = []LocationItem{item}
		}
	}
	flush()

	return series
}

// joinedBySeriesToken reports whether every non-whitespace token in the
// gap [from, to) is a series-joiner ("," / "and" / "or" / "&"). An empty
// gap (adjacent items with no separating token) is vacuously joined.
func joinedBySeriesToken(doc *AnnotatorOutput, from, to int) bool {
	if doc.TokenText == nil {
		return false
	}
	if to <= from {
		return true
	}
	gap := doc.TokenText(from, to)
	for _, tok := range strings.Fields(gap) {
		if !seriesJoinTokens[strings.ToLower(tok)] {
			return false
		}
	}
	return true
}

func attachContextHints(doc *AnnotatorOutput, locationSeries []LocationSeries, eventStart, eventEnd, eventOrdinal int, sectionID *int) []ContextHint {
	var hints []ContextHint

	for _, ent := range doc.Entities {
		if ent.Label != "REGION" && ent.Label != "GROUP" && ent.Label != "DIRECTION" {
			continue
		}

		attached := false

		// LOCATION: contained within an item.
		for _, series := range locationSeries {
			for _, item := range series.Items {
				if ent.StartToken >= item.StartToken && ent.EndToken <= item.EndToken {
					hints = append(hints, ContextHint{
						CtxKind:    CtxKind(ent.Label),
						Text:       ent.Text,
						StartToken: intPtr(ent.StartToken),
						EndToken:   intPtr(ent.EndToken),
						Scope:      ScopeLocation,
						TargetID:   intPtr(item.ItemID),
						Source:     SourceGazetteer,
					})
					attached = true
				}
			}
		}
		if attached {
			continue
		}

		// LOCATION: retroactive series qualifier.
		if applyRetroactiveSeriesQualifier(doc, locationSeries, ent, &hints) {
			continue
		}

		// SERIES.
		for _, series := range locationSeries {
			if spansOverlap(ent.StartToken, ent.EndToken, series.StartToken, series.EndToken) {
				hints = append(hints, ContextHint{
					CtxKind:    CtxKind(ent.Label),
					Text:       ent.Text,
					StartToken: intPtr(ent.StartToken),
					EndToken:   intPtr(ent.EndToken),
					Scope:      ScopeSeries,
					TargetID:   intPtr(series.SeriesID),
					Source:     SourceGazetteer,
				})
				attached = true
			}
		}
		if attached {
			continue
		}

		// EVENT.
		if spansOverlap(ent.StartToken, ent.EndToken, eventStart, eventEnd) {
			hints = append(hints, ContextHint{
				CtxKind:    CtxKind(ent.Label),
				Text:       ent.Text,
				StartToken: intPtr(ent.StartToken),
				EndToken:   intPtr(ent.EndToken),
				Scope:      ScopeEvent,
				TargetID:   intPtr(eventOrdinal),
				Source:     SourceGazetteer,
			})
			continue
		}

		// SECTION / POST fallback.
		if sectionID != nil {
			hints = append(hints, ContextHint{
				CtxKind:    CtxKind(ent.Label),
				Text:       ent.Text,
				StartToken: intPtr(ent.StartToken),
				EndToken:   intPtr(ent.EndToken),
				Scope:      ScopeSection,
				TargetID:   intPtr(*sectionID),
				Source:     SourceGazetteer,
			})
		} else {
			hints = append(hints, ContextHint{
				CtxKind:    CtxKind(ent.Label),
				Text:       ent.Text,
				StartToken: intPtr(ent.StartToken),
				EndToken:   intPtr(ent.EndToken),
				Scope:      ScopePost,
				TargetID:   nil,
				Source:     SourceGazetteer,
			})
		}
	}

	return hints
}

// applyRetroactiveSeriesQualifier implements the retroactive
// REGION/GROUP/DIRECTION qualifier rule: a qualifier appearing after a
// location series partitions that series into a prefix it governs,
// bounded by the nearest earlier qualifier of the same kind and by any
// intervening out-of-series LOCATION mention.
func applyRetroactiveSeriesQualifier(doc *AnnotatorOutput, locationSeries []LocationSeries, ctxEnt EntityMatch, hints *[]ContextHint) bool {
	kind := CtxKind(ctxEnt.Label)
	ctxStart, ctxEnd := ctxEnt.StartToken, ctxEnt.EndToken

	for _, series := range locationSeries {
		if len(series.Items) == 0 {
			continue
		}

		var lastItemBefore *LocationItem
		for i := range series.Items {
			it := series.Items[i]
			if it.EndToken <= ctxStart {
				lastItemBefore = &series.Items[i]
			} else {
				break
			}
		}
		if lastItemBefore == nil {
			continue
		}

		seriesStarts := make(map[int]bool, len(series.Items))
		for _, it := range series.Items {
			seriesStarts[it.StartToken] = true
		}

		for _, ent := range doc.Entities {
			if ent.Label != "LOCATION" {
				continue
			}
			if lastItemBefore.EndToken <= ent.StartToken && ent.StartToken < ctxStart {
				if !seriesStarts[ent.StartToken] {
					return false
				}
			}
		}

		cutoff := series.StartToken
		for _, ch := range *hints {
			if ch.CtxKind != kind || ch.Scope != ScopeLocation || ch.StartToken == nil || ch.TargetID == nil {
				continue
			}
			if *ch.StartToken >= ctxStart {
				continue
			}
			for _, it := range series.Items {
				if it.ItemID == *ch.TargetID {
					if *ch.StartToken > cutoff {
						cutoff = *ch.StartToken
					}
				}
			}
		}

		for _, it := range series.Items {
			if it.StartToken >= cutoff && it.EndToken <= ctxStart {
				*hints = append(*hints, ContextHint{
					CtxKind:    kind,
					Text:       ctxEnt.Text,
					StartToken: intPtr(ctxStart),
					EndToken:   intPtr(ctxEnd),
					Scope:      ScopeLocation,
					TargetID:   intPtr(it.ItemID),
					Source:     SourceGazetteer,
				})
			}
		}

		return true
	}

	return false
}
