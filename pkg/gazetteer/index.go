package gazetteer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/nuclearfall/sitrepc2-core/pkg/normalize"
	"github.com/nuclearfall/sitrepc2-core/pkg/spatial"
)

// Index is the in-memory, alias-indexed gazetteer: locales, regions,
// operational groups and named directions, all looked up by normalized
// alias key. Construction is the only place duplicate-alias errors can
// surface; once built, an Index is immutable and safe for concurrent
// reads across worker goroutines.
type Index struct {
	locales    []LocaleEntry
	regions    []RegionEntry
	groups     []GroupEntry
	directions []DirectionEntry

	localeByAlias    map[string][]LocaleEntry
	regionByAlias    map[string]RegionEntry
	groupByAlias     map[string]GroupEntry
	directionByAlias map[string]DirectionEntry

	localeByRegion map[string][]LocaleEntry
	localeByCID    map[uint64]LocaleEntry
}

// NewIndex builds an Index from already-loaded entries. LOCATION aliases
// may collide across multiple locales (a name shared by several
// settlements is common and is resolved downstream by candidate scoring);
// REGION, GROUP and DIRECTION aliases must be globally unique, matching
// the narrower ambiguity tolerated for those domains.
func NewIndex(locales []LocaleEntry, regions []RegionEntry, groups []GroupEntry, directions []DirectionEntry) (*Index, error) {
	idx := &Index{
		locales:          locales,
		regions:          regions,
		groups:           groups,
		directions:       directions,
		localeByAlias:    make(map[string][]LocaleEntry),
		regionByAlias:    make(map[string]RegionEntry),
		groupByAlias:     make(map[string]GroupEntry),
		directionByAlias: make(map[string]DirectionEntry),
		localeByRegion:   make(map[string][]LocaleEntry),
		localeByCID:      make(map[uint64]LocaleEntry, len(locales)),
	}

	for _, loc := range locales {
		for _, alias := range loc.Aliases {
			key := normalize.Key(alias)
			idx.localeByAlias[key] = append(idx.localeByAlias[key], loc)
		}
		nameKey := normalize.Key(loc.Name)
		idx.localeByAlias[nameKey] = append(idx.localeByAlias[nameKey], loc)

		if loc.Region != "" {
			regionKey := normalize.Key(loc.Region)
			idx.localeByRegion[regionKey] = append(idx.localeByRegion[regionKey], loc)
		}
		idx.localeByCID[loc.CID] = loc
	}

	for _, reg := range regions {
		if err := addUnique(idx.regionByAlias, reg.Aliases, reg.Name, reg, "region"); err != nil {
			return nil, err
		}
	}

	for _, grp := range groups {
		if err := addUnique(idx.groupByAlias, grp.Aliases, grp.Name, grp, "group"); err != nil {
			return nil, err
		}
	}

	for _, dir := range directions {
		if err := addUnique(idx.directionByAlias, dir.Aliases, dir.Name, dir, "direction"); err != nil {
			return nil, err
		}
	}

	return idx, nil
}

func addUnique[T any](dst map[string]T, aliases []string, name string, entry T, kind string) error {
	all := append(append([]string(nil), aliases...), name)
	for _, alias := range all {
		key := normalize.Key(alias)
		if key == "" {
			continue
		}
		if existing, ok := dst[key]; ok {
			return fmt.Errorf("gazetteer: duplicate %s alias %q maps to both %v and %v", kind, alias, existing, entry)
		}
		dst[key] = entry
	}
	return nil
}

// SearchLocale returns every LocaleEntry whose name or an alias matches
// text, in load order. Ambiguity is expected and resolved downstream.
func (idx *Index) SearchLocale(text string) []LocaleEntry {
	key := normalize.Key(text)
	return append([]LocaleEntry(nil), idx.localeByAlias[key]...)
}

// HasLocale reports whether any locale matches text.
func (idx *Index) HasLocale(text string) bool {
	return len(idx.SearchLocale(text)) > 0
}

// SearchRegion matches a region by exact alias, or by stripping a trailing
// " oblast"/" region" suffix and retrying, to tolerate the common
// natural-language qualifier ("Kharkiv oblast" -> "Kharkiv").
func (idx *Index) SearchRegion(text string) (RegionEntry, bool) {
	key := normalize.Key(text)
	if reg, ok := idx.regionByAlias[key]; ok {
		return reg, true
	}
	for _, suffix := range []string{" oblast", " region"} {
		if strings.HasSuffix(key, suffix) {
			base := strings.TrimSuffix(key, suffix)
			if reg, ok := idx.regionByAlias[base]; ok {
				return reg, true
			}
		}
	}
	return RegionEntry{}, false
}

// HasRegion reports whether text matches a known region.
func (idx *Index) HasRegion(text string) bool {
	_, ok := idx.SearchRegion(text)
	return ok
}

// SearchGroup matches an operational group by exact alias.
func (idx *Index) SearchGroup(text string) (GroupEntry, bool) {
	key := normalize.Key(text)
	grp, ok := idx.groupByAlias[key]
	return grp, ok
}

// SearchDirection matches a named direction by alias, or by unwrapping the
// common "<X> direction" / "direction of <X>" phrasing.
func (idx *Index) SearchDirection(text string) (DirectionEntry, bool) {
	key := normalize.Key(text)
	if dir, ok := idx.directionByAlias[key]; ok {
		return dir, true
	}
	if base, ok := strings.CutSuffix(key, " direction"); ok {
		if dir, ok := idx.directionByAlias[strings.TrimSpace(base)]; ok {
			return dir, true
		}
	}
	if base, ok := strings.CutPrefix(key, "direction of "); ok {
		if dir, ok := idx.directionByAlias[strings.TrimSpace(base)]; ok {
			return dir, true
		}
	}
	return DirectionEntry{}, false
}

// LocalesInRegion returns every locale whose Region field matches
// regionText.
func (idx *Index) LocalesInRegion(regionText string) []LocaleEntry {
	key := normalize.Key(regionText)
	return append([]LocaleEntry(nil), idx.localeByRegion[key]...)
}

// SearchLocaleInRegion narrows SearchLocale(text) to locales whose Region
// field matches regionText. An empty regionText is equivalent to
// SearchLocale.
func (idx *Index) SearchLocaleInRegion(text, regionText string) []LocaleEntry {
	if regionText == "" {
		return idx.SearchLocale(text)
	}
	regionKey := normalize.Key(regionText)
	var out []LocaleEntry
	for _, loc := range idx.SearchLocale(text) {
		if loc.Region != "" && normalize.Key(loc.Region) == regionKey {
			out = append(out, loc)
		}
	}
	return out
}

// SearchLocaleInRUGroup narrows SearchLocale(text) to locales whose
// RUGroup field exactly matches ruGroup. An empty ruGroup is equivalent
// to SearchLocale.
func (idx *Index) SearchLocaleInRUGroup(text, ruGroup string) []LocaleEntry {
	if ruGroup == "" {
		return idx.SearchLocale(text)
	}
	ruGroup = strings.TrimSpace(ruGroup)
	var out []LocaleEntry
	for _, loc := range idx.SearchLocale(text) {
		if loc.RUGroup == ruGroup {
			out = append(out, loc)
		}
	}
	return out
}

// LocaleByCID returns the locale with the given packed coordinate
// identity, if one was loaded.
func (idx *Index) LocaleByCID(cid uint64) (LocaleEntry, bool) {
	loc, ok := idx.localeByCID[cid]
	return loc, ok
}

// DistEntry pairs a LocaleEntry with its distance from a query point.
type DistEntry struct {
	Distance float64
	Locale   LocaleEntry
}

// NearestLocale returns the single closest locale to (lat, lon).
func (idx *Index) NearestLocale(lat, lon float64) (LocaleEntry, float64, bool) {
	if len(idx.locales) == 0 {
		return LocaleEntry{}, 0, false
	}
	q := spatial.Point{Lat: lat, Lon: lon}
	best := idx.locales[0]
	bestDist := spatial.HaversineKM(q, spatial.Point{Lat: best.Lat, Lon: best.Lon})
	for _, loc := range idx.locales[1:] {
		d := spatial.HaversineKM(q, spatial.Point{Lat: loc.Lat, Lon: loc.Lon})
		if d < bestDist {
			best, bestDist = loc, d
		}
	}
	return best, bestDist, true
}

// NearestLocales returns the n closest locales to (lat, lon), sorted
// ascending by distance.
func (idx *Index) NearestLocales(lat, lon float64, n int) []DistEntry {
	q := spatial.Point{Lat: lat, Lon: lon}
	scored := make([]DistEntry, len(idx.locales))
	for i, loc := range idx.locales {
		scored[i] = DistEntry{
			Distance: spatial.HaversineKM(q, spatial.Point{Lat: loc.Lat, Lon: loc.Lon}),
			Locale:   loc,
		}
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].Distance < scored[j].Distance })
	if n >= 0 && n < len(scored) {
		scored = scored[:n]
	}
	return scored
}

// NearestLocalesWithin returns every locale within km kilometers of
// (lat, lon), sorted ascending by distance.
func (idx *Index) NearestLocalesWithin(lat, lon, km float64) []DistEntry {
	q := spatial.Point{Lat: lat, Lon: lon}
	var out []DistEntry
	for _, loc := range idx.locales {
		d := spatial.HaversineKM(q, spatial.Point{Lat: loc.Lat, Lon: loc.Lon})
		if d <= km {
			out = append(out, DistEntry{Distance: d, Locale: loc})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	return out
}

// NearestLocaleWithName finds, among locales matching name, the one
// closest to (lat, lon).
func (idx *Index) NearestLocaleWithName(name string, lat, lon float64) (LocaleEntry, float64, bool) {
	candidates := idx.SearchLocale(name)
	if len(candidates) == 0 {
		return LocaleEntry{}, 0, false
	}
	q := spatial.Point{Lat: lat, Lon: lon}
	best := candidates[0]
	bestDist := spatial.HaversineKM(q, spatial.Point{Lat: best.Lat, Lon: best.Lon})
	for _, loc := range candidates[1:] {
		d := spatial.HaversineKM(q, spatial.Point{Lat: loc.Lat, Lon: loc.Lon})
		if d < bestDist {
			best, bestDist = loc, d
		}
	}
	return best, bestDist, true
}
