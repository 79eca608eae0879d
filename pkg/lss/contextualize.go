package lss

// Contextualize enforces the mandatory context lattice: POST, SECTION and
// EVENT levels always carry at least one context hint, synthesizing an
// empty SYNTHETIC placeholder wherever no gazetteer- or annotator-derived
// hint already covers that node. Hints are returned widest scope first:
// POST, SECTION and EVENT, then SERIES and LOCATION last.
//
// sectionOrdinals is every section in the post; eventOrdinalsBySection
// maps each section ordinal to the event ordinals it contains.
func Contextualize(hints []ContextHint, sectionOrdinals []int, eventOrdinalsBySection map[int][]int) []ContextHint {
	byScope := map[CtxScope][]ContextHint{}
	for _, h := range hints {
		byScope[h.Scope] = append(byScope[h.Scope], h)
	}

	var out []ContextHint

	if len(byScope[ScopePost]) == 0 {
		out = append(out, syntheticHint(CtxPost, ScopePost, nil))
	} else {
		out = append(out, byScope[ScopePost]...)
	}

	for _, sec := range sectionOrdinals {
		if !anyTargeting(byScope[ScopeSection], sec) {
			out = append(out, syntheticHint(CtxSection, ScopeSection, intPtr(sec)))
		}
	}
	out = append(out, byScope[ScopeSection]...)

	for _, sec := range sortedSectionKeys(eventOrdinalsBySection) {
		for _, ev := range eventOrdinalsBySection[sec] {
			if !anyTargeting(byScope[ScopeEvent], ev) {
				out = append(out, syntheticHint(CtxEvent, ScopeEvent, intPtr(ev)))
			}
		}
	}
	out = append(out, byScope[ScopeEvent]...)

	out = append(out, byScope[ScopeSeries]...)
	out = append(out, byScope[ScopeLocation]...)

	return out
}

func syntheticHint(kind CtxKind, scope CtxScope, targetID *int) ContextHint {
	return ContextHint{
		CtxKind:  kind,
		Text:     "",
		Scope:    scope,
		TargetID: targetID,
		Source:   SourceSynthetic,
	}
}

func anyTargeting(hints []ContextHint, targetID int) bool {
	for _, h := range hints {
		if h.TargetID != nil && *h.TargetID == targetID {
			return true
		}
	}
	return false
}

func sortedSectionKeys(m map[int][]int) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
