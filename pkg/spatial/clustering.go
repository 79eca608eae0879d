package spatial

import (
	"sort"
)

// SiblingCandidate is the highest-scoring candidate, resolved or not, for one
// LOCATION node within a LOCATION_SERIES, as input to outlier detection.
type SiblingCandidate struct {
	// NodeID identifies the owning LOCATION node.
	NodeID string
	Point  Point
}

// OutlierFlag reports whether a sibling's top candidate sits further from
// the series centroid than the rest of its siblings.
type OutlierFlag struct {
	NodeID     string
	DistanceKM float64
	IsOutlier  bool
}

// FlagClusterOutliers computes the centroid of the highest-scoring
// candidate from each sibling LOCATION node in a series, then flags any
// candidate whose distance to that centroid exceeds the median pairwise
// inter-sibling distance plus marginKM. Outliers are reported, never
// discarded, matching spec.md §4.5's clustering step.
//
// Series of fewer than 3 siblings never produce outliers: there isn't
// enough spread to distinguish an outlier from a two-point baseline.
func FlagClusterOutliers(siblings []SiblingCandidate, marginKM float64) []OutlierFlag {
	flags := make([]OutlierFlag, len(siblings))
	for i, s := range siblings {
		flags[i] = OutlierFlag{NodeID: s.NodeID}
	}
	if len(siblings) < 3 {
		return flags
	}

	centroidLat, centroidLon := centroidOf(siblings)
	center := Point{Lat: centroidLat, Lon: centroidLon}

	dists := make([]float64, len(siblings))
	for i, s := range siblings {
		dists[i] = HaversineKM(s.Point, center)
		flags[i].DistanceKM = dists[i]
	}

	var pairDists []float64
	for i := range siblings {
		for j := i + 1; j < len(siblings); j++ {
			pairDists = append(pairDists, HaversineKM(siblings[i].Point, siblings[j].Point))
		}
	}

	threshold := medianOf(pairDists) + marginKM
	for i := range flags {
		flags[i].IsOutlier = dists[i] > threshold
	}
	return flags
}

func centroidOf(siblings []SiblingCandidate) (lat, lon float64) {
	var sumLat, sumLon float64
	for _, s := range siblings {
		sumLat += s.Point.Lat
		sumLon += s.Point.Lon
	}
	n := float64(len(siblings))
	return sumLat / n, sumLon / n
}

func medianOf(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
