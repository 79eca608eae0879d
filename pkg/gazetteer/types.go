// Package gazetteer implements the alias-indexed lookup of locales,
// regions, operational groups and named directions used to resolve
// free-text location mentions to geocoordinates during candidate scoring.
package gazetteer

// LocaleEntry is a single mappable place: a city, town, village or other
// settlement, keyed by its packed coordinate identity.
type LocaleEntry struct {
	Name    string
	Aliases []string

	Lon float64
	Lat float64
	CID uint64

	Region   string
	RUGroup  string
	Place    string
	Wikidata string
	Usage    int
	Source   string
}

// RegionEntry is an administrative oblast/region, with its bordering
// regions recorded for the region_neighbor scoring signal (spec.md §4.5).
type RegionEntry struct {
	Name      string
	Aliases   []string
	Neighbors []string
	Wikidata  string
}

// GroupEntry is a named operational group whose area of operations is
// given by a polygon loaded separately from a companion GeoJSON file
// (see spatial.LoadGroupPolygonsGeoJSON). The CSV row only carries the
// group's identity and aliasing.
type GroupEntry struct {
	Name    string
	Aliases []string
}

// DirectionEntry is a named "<City> direction" axis. Anchor is the CID of
// the LocaleEntry that anchors the axis at its near end; the axis itself
// is constructed lazily against a Frontline (spatial.NewAxis).
type DirectionEntry struct {
	Name    string
	Aliases []string
	Anchor  uint64
}
