package candidates

import (
	"github.com/nuclearfall/sitrepc2-core/pkg/gazetteer"
	"github.com/nuclearfall/sitrepc2-core/pkg/spatial"
)

// Narrow implements spec.md §4.5 stages 1-3: region-aware base retrieval,
// group narrowing by intersection-with-fallback, and proximity narrowing
// by radius-with-nearest-five-fallback. Stage 3 narrows around
// ctx.AnchorLocale, which callers set from the DIRECTION context's anchor
// locale; the direction axis itself only contributes to scoring.
func Narrow(gaz *gazetteer.Index, text string, ctx EffectiveContext, weights Weights) []gazetteer.LocaleEntry {
	base := stage1BaseRetrieval(gaz, text, ctx.Region)
	narrowed := stage2GroupNarrowing(gaz, text, ctx.Group, base)
	narrowed = stage3ProximityNarrowing(narrowed, ctx.AnchorLocale, weights.ProximityRadiusKM)
	return narrowed
}

func stage1BaseRetrieval(gaz *gazetteer.Index, text, region string) []gazetteer.LocaleEntry {
	if region == "" {
		return uniqueByCID(gaz.SearchLocale(text))
	}
	filtered := uniqueByCID(gaz.SearchLocaleInRegion(text, region))
	if len(filtered) == 0 {
		return uniqueByCID(gaz.SearchLocale(text))
	}
	return filtered
}

func stage2GroupNarrowing(gaz *gazetteer.Index, text, group string, base []gazetteer.LocaleEntry) []gazetteer.LocaleEntry {
	if group == "" {
		return base
	}
	groupFiltered := uniqueByCID(gaz.SearchLocaleInRUGroup(text, group))

	baseCIDs := make(map[uint64]bool, len(base))
	for _, loc := range base {
		baseCIDs[loc.CID] = true
	}

	var intersection []gazetteer.LocaleEntry
	for _, loc := range groupFiltered {
		if baseCIDs[loc.CID] {
			intersection = append(intersection, loc)
		}
	}
	if len(intersection) > 0 {
		return intersection
	}
	return base
}

func stage3ProximityNarrowing(candidates []gazetteer.LocaleEntry, anchor *gazetteer.LocaleEntry, radiusKM float64) []gazetteer.LocaleEntry {
	if anchor == nil || len(candidates) == 0 {
		return candidates
	}

	anchorPt := spatial.Point{Lat: anchor.Lat, Lon: anchor.Lon}
	type scored struct {
		dist float64
		loc  gazetteer.LocaleEntry
	}
	scoredList := make([]scored, len(candidates))
	for i, loc := range candidates {
		scoredList[i] = scored{dist: spatial.HaversineKM(anchorPt, locPoint(loc)), loc: loc}
	}
	for i := 1; i < len(scoredList); i++ {
		for j := i; j > 0 && scoredList[j].dist < scoredList[j-1].dist; j-- {
			scoredList[j], scoredList[j-1] = scoredList[j-1], scoredList[j]
		}
	}

	var within []gazetteer.LocaleEntry
	for _, s := range scoredList {
		if s.dist <= radiusKM {
			within = append(within, s.loc)
		}
	}
	if len(within) > 0 {
		return within
	}

	n := 5
	if n > len(scoredList) {
		n = len(scoredList)
	}
	nearest := make([]gazetteer.LocaleEntry, n)
	for i := 0; i < n; i++ {
		nearest[i] = scoredList[i].loc
	}
	return nearest
}

func uniqueByCID(locales []gazetteer.LocaleEntry) []gazetteer.LocaleEntry {
	seen := make(map[uint64]bool, len(locales))
	var out []gazetteer.LocaleEntry
	for _, loc := range locales {
		if !seen[loc.CID] {
			seen[loc.CID] = true
			out = append(out, loc)
		}
	}
	return out
}
