package spatial

import (
	"fmt"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GroupPolygon is an operational group's area-of-operations geometry,
// projected into its own local metric plane for containment and buffer
// distance queries (spec.md §4.5 group_polygon signal).
type GroupPolygon struct {
	proj  projector
	rings [][]ring // one outer+holes set per polygon in a multipolygon
}

type ring struct {
	xs, ys []float64
}

// LoadGroupPolygonsGeoJSON reads a GeoJSON FeatureCollection with one
// Polygon/MultiPolygon feature per group, keyed by the normalized value of
// the feature's "name" property.
func LoadGroupPolygonsGeoJSON(path string, normalizeKey func(string) string) (map[string]*GroupPolygon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spatial: read group polygons geojson: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("spatial: parse group polygons geojson: %w", err)
	}

	out := make(map[string]*GroupPolygon, len(fc.Features))
	for _, feat := range fc.Features {
		name, _ := feat.Properties["name"].(string)
		if name == "" {
			continue
		}

		polys := extractPolygons(feat.Geometry)
		if len(polys) == 0 {
			continue
		}

		gp, err := newGroupPolygon(polys)
		if err != nil {
			return nil, fmt.Errorf("spatial: group %q: %w", name, err)
		}
		out[normalizeKey(name)] = gp
	}
	return out, nil
}

func extractPolygons(geom orb.Geometry) []orb.Polygon {
	switch g := geom.(type) {
	case orb.Polygon:
		return []orb.Polygon{g}
	case orb.MultiPolygon:
		return []orb.Polygon(g)
	default:
		return nil
	}
}

func newGroupPolygon(polys []orb.Polygon) (*GroupPolygon, error) {
	polyRings := make([][][]Point, len(polys))
	for i, poly := range polys {
		rings := make([][]Point, len(poly))
		for j, r := range poly {
			pts := make([]Point, len(r))
			for k, p := range r {
				pts[k] = Point{Lat: p.Y(), Lon: p.X()}
			}
			rings[j] = pts
		}
		polyRings[i] = rings
	}
	return NewGroupPolygon(polyRings)
}

// NewGroupPolygon builds a GroupPolygon from one or more polygons, each
// given as its outer ring followed by any hole rings, in WGS84 decimal
// degrees. Rings need not be explicitly closed.
func NewGroupPolygon(polygons [][][]Point) (*GroupPolygon, error) {
	var allPoints []Point
	for _, poly := range polygons {
		for _, r := range poly {
			allPoints = append(allPoints, r...)
		}
	}
	if len(allPoints) == 0 {
		return nil, fmt.Errorf("empty polygon geometry")
	}
	lat0, lon0 := centroid([][]Point{allPoints})
	proj := newProjector(lat0, lon0)

	gp := &GroupPolygon{proj: proj}
	for _, poly := range polygons {
		var rings []ring
		for _, r := range poly {
			xs := make([]float64, len(r))
			ys := make([]float64, len(r))
			for i, p := range r {
				xs[i], ys[i] = proj.project(p)
			}
			rings = append(rings, ring{xs: xs, ys: ys})
		}
		gp.rings = append(gp.rings, rings)
	}
	return gp, nil
}

// Contains reports whether pt lies inside the polygon (outer ring minus
// holes), via the standard ray-casting test in the projected metric plane.
func (g *GroupPolygon) Contains(pt Point) bool {
	x, y := g.proj.project(pt)
	for _, polyRings := range g.rings {
		if len(polyRings) == 0 {
			continue
		}
		if !pointInRing(x, y, polyRings[0]) {
			continue
		}
		inHole := false
		for _, hole := range polyRings[1:] {
			if pointInRing(x, y, hole) {
				inHole = true
				break
			}
		}
		if !inHole {
			return true
		}
	}
	return false
}

// DistanceKM returns the shortest distance from pt to the polygon boundary,
// in kilometers; 0 if pt is inside the polygon.
func (g *GroupPolygon) DistanceKM(pt Point) float64 {
	if g.Contains(pt) {
		return 0
	}
	x, y := g.proj.project(pt)

	best := math.Inf(1)
	for _, polyRings := range g.rings {
		for _, r := range polyRings {
			for i := 0; i < len(r.xs); i++ {
				j := (i + 1) % len(r.xs)
				d, _, _ := distancePointToSegment(x, y, r.xs[i], r.ys[i], r.xs[j], r.ys[j])
				if d < best {
					best = d
				}
			}
		}
	}
	return best
}

func pointInRing(x, y float64, r ring) bool {
	inside := false
	n := len(r.xs)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		xi, yi := r.xs[i], r.ys[i]
		xj, yj := r.xs[j], r.ys[j]

		intersects := (yi > y) != (yj > y)
		if intersects {
			xCross := (xj-xi)*(y-yi)/(yj-yi) + xi
			if x < xCross {
				inside = !inside
			}
		}
	}
	return inside
}
