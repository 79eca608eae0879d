package config

import "github.com/nuclearfall/sitrepc2-core/pkg/candidates"

// ResolveWeights overlays any constants set in the YAML candidates block
// onto spec-default weights, leaving unset fields at their default.
func ResolveWeights(yc *CandidatesYAMLConfig) candidates.Weights {
	w := candidates.DefaultWeights()
	if yc == nil {
		return w
	}

	overlay := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}

	overlay(&w.RegionMatch, yc.RegionMatch)
	overlay(&w.RegionNeighbor, yc.RegionNeighbor)
	overlay(&w.GroupPolygonInside, yc.GroupPolygonInside)
	overlay(&w.GroupPolygonBuffer, yc.GroupPolygonBuffer)
	overlay(&w.GroupRUGroupMatch, yc.GroupRUGroupMatch)
	overlay(&w.ProximityWithin, yc.ProximityWithin)
	overlay(&w.ProximityBeyond, yc.ProximityBeyond)
	overlay(&w.DirectionCross5KM, yc.DirectionCross5KM)
	overlay(&w.DirectionCross10KM, yc.DirectionCross10KM)
	overlay(&w.DirectionCross20KM, yc.DirectionCross20KM)
	overlay(&w.DirectionCrossFar, yc.DirectionCrossFar)
	overlay(&w.ProximityRadiusKM, yc.ProximityRadiusKM)
	overlay(&w.GroupBufferKM, yc.GroupBufferKM)
	overlay(&w.ClusterOutlierMarginKM, yc.ClusterOutlierMarginKM)
	overlay(&w.ResolutionThreshold, yc.ResolutionThreshold)

	return w
}
