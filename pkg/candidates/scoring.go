package candidates

import (
	"strings"

	"github.com/nuclearfall/sitrepc2-core/pkg/gazetteer"
	"github.com/nuclearfall/sitrepc2-core/pkg/spatial"
)

// RegionLookup resolves a region name to its declared neighbor names, for
// the region_neighbor scoring signal.
type RegionLookup func(name string) (neighbors []string, ok bool)

// Score applies spec.md §4.5 stage 4 to every narrowed candidate,
// accumulating named score contributions. groupPolygon and axis may be
// nil when no GROUP/DIRECTION context resolved to usable geometry.
func Score(
	narrowed []gazetteer.LocaleEntry,
	ctx EffectiveContext,
	weights Weights,
	regions RegionLookup,
	groupPolygon *spatial.GroupPolygon,
	frontline *spatial.Frontline,
	axis *spatial.Axis,
) []*Candidate {
	out := make([]*Candidate, 0, len(narrowed))

	for _, loc := range narrowed {
		cand := &Candidate{Locale: loc}

		scoreRegion(cand, ctx.Region, regions, weights)
		scoreGroup(cand, ctx.Group, groupPolygon, weights)
		if cand.Discarded {
			continue
		}
		scoreProximity(cand, ctx.AnchorLocale, weights)
		scoreDirection(cand, axis, weights)
		recordFrontlineDistance(cand, frontline)

		out = append(out, cand)
	}

	return out
}

func scoreRegion(cand *Candidate, region string, regions RegionLookup, weights Weights) {
	if region == "" {
		return
	}
	if strings.EqualFold(cand.Locale.Region, region) {
		cand.addScore("region_match", weights.RegionMatch)
		return
	}
	if regions == nil {
		return
	}
	if neighbors, ok := regions(region); ok {
		for _, n := range neighbors {
			if strings.EqualFold(cand.Locale.Region, n) {
				cand.addScore("region_neighbor", weights.RegionNeighbor)
				return
			}
		}
	}
}

func scoreGroup(cand *Candidate, group string, groupPolygon *spatial.GroupPolygon, weights Weights) {
	if group == "" {
		return
	}

	if groupPolygon != nil {
		pt := locPoint(cand.Locale)
		dist := groupPolygon.DistanceKM(pt)
		if dist > weights.GroupBufferKM {
			cand.Discarded = true
			return
		}
		if groupPolygon.Contains(pt) {
			cand.addScore("group_polygon", weights.GroupPolygonInside)
		} else {
			cand.addScore("group_polygon", weights.GroupPolygonBuffer)
		}
	}

	if strings.EqualFold(cand.Locale.RUGroup, group) {
		cand.addScore("group_ru_group_match", weights.GroupRUGroupMatch)
	}
}

func scoreProximity(cand *Candidate, anchor *gazetteer.LocaleEntry, weights Weights) {
	if anchor == nil {
		return
	}
	d := spatial.HaversineKM(spatial.Point{Lat: anchor.Lat, Lon: anchor.Lon}, locPoint(cand.Locale))
	cand.ProxKM = &d
	if d <= weights.ProximityRadiusKM {
		cand.addScore("proximity", weights.ProximityWithin)
	} else {
		cand.addScore("proximity", weights.ProximityBeyond)
	}
}

func scoreDirection(cand *Candidate, axis *spatial.Axis, weights Weights) {
	if axis == nil {
		return
	}
	along, cross := axis.Project(locPoint(cand.Locale))
	cand.DirAlongKM = &along
	cand.DirCrossKM = &cross

	switch {
	case cross < 5:
		cand.addScore("direction_axis", weights.DirectionCross5KM)
	case cross < 10:
		cand.addScore("direction_axis", weights.DirectionCross10KM)
	case cross < 20:
		cand.addScore("direction_axis", weights.DirectionCross20KM)
	default:
		cand.addScore("direction_axis", weights.DirectionCrossFar)
	}
}

func recordFrontlineDistance(cand *Candidate, frontline *spatial.Frontline) {
	if frontline == nil {
		return
	}
	d := frontline.ShortestDistanceKM(locPoint(cand.Locale))
	cand.DistanceFromFrontlineKM = &d
}
