// Package candidates implements location candidate narrowing, multi-signal
// scoring and resolution for a LOCATION node's surface text, given its
// materialized effective contexts (spec.md §4.5).
package candidates

import (
	"github.com/nuclearfall/sitrepc2-core/pkg/gazetteer"
	"github.com/nuclearfall/sitrepc2-core/pkg/spatial"
)

// EffectiveContext bundles the contexts materialized at a LOCATION node
// after dominance resolution: at most one of each kind is meaningful for
// narrowing.
type EffectiveContext struct {
	Region    string
	Group     string
	Direction string
	// AnchorLocale is the concrete LOCATION entity a PROXIMITY/DIRECTION
	// context resolved to, if any.
	AnchorLocale *gazetteer.LocaleEntry
}

// Weights configures the scoring contributions and thresholds that
// spec.md's Open Question #1 leaves tunable, defaulting to the fixed
// values spec.md names.
type Weights struct {
	RegionMatch        float64
	RegionNeighbor     float64
	GroupPolygonInside float64
	GroupPolygonBuffer float64
	GroupRUGroupMatch  float64
	ProximityWithin    float64
	ProximityBeyond    float64
	DirectionCross5KM  float64
	DirectionCross10KM float64
	DirectionCross20KM float64
	DirectionCrossFar  float64

	ProximityRadiusKM      float64
	GroupBufferKM          float64
	ClusterOutlierMarginKM float64
	ResolutionThreshold    float64
}

// DefaultWeights returns the scoring configuration fixed by spec.md §4.5.
func DefaultWeights() Weights {
	return Weights{
		RegionMatch:            1.0,
		RegionNeighbor:         0.25,
		GroupPolygonInside:     0.40,
		GroupPolygonBuffer:     0.10,
		GroupRUGroupMatch:      0.50,
		ProximityWithin:        0.40,
		ProximityBeyond:        -0.20,
		DirectionCross5KM:      0.30,
		DirectionCross10KM:     0.15,
		DirectionCross20KM:     0.05,
		DirectionCrossFar:      -0.05,
		ProximityRadiusKM:      50.0,
		GroupBufferKM:          10.0,
		ClusterOutlierMarginKM: 10.0,
		ResolutionThreshold:    0.5,
	}
}

// Candidate is one gazetteer locale under consideration for a LOCATION
// node, carrying its accumulated score breakdown and diagnostics.
type Candidate struct {
	Locale gazetteer.LocaleEntry

	Scores map[string]float64
	Total  float64

	ProxKM                  *float64
	DirAlongKM              *float64
	DirCrossKM              *float64
	DistanceFromFrontlineKM *float64

	// Discarded is true when a GROUP constraint eliminated this
	// candidate outright (beyond the polygon buffer).
	Discarded bool
}

func (c *Candidate) addScore(signal string, delta float64) {
	if c.Scores == nil {
		c.Scores = map[string]float64{}
	}
	c.Scores[signal] += delta
	c.Total += delta
}

func (c *Candidate) topSignal() string {
	best := ""
	bestVal := 0.0
	for name, val := range c.Scores {
		if best == "" || val > bestVal {
			best, bestVal = name, val
		}
	}
	return best
}

func locPoint(loc gazetteer.LocaleEntry) spatial.Point {
	return spatial.Point{Lat: loc.Lat, Lon: loc.Lon}
}
