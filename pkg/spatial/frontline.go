package spatial

import (
	"fmt"
	"math"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Frontline is the line-of-contact polyline set, held as a collection of
// metric-projected segments for fast geodesic-adjacent distance queries.
// Geometry is read-only after construction: callers may share one
// Frontline across workers without locking (spec.md §5).
type Frontline struct {
	proj     projector
	segments []segment
}

type segment struct {
	ax, ay, bx, by float64
}

// NewFrontline builds a Frontline from a set of WGS84 polylines.
func NewFrontline(polylines [][]Point) *Frontline {
	lat0, lon0 := centroid(polylines)
	proj := newProjector(lat0, lon0)

	f := &Frontline{proj: proj}
	for _, line := range polylines {
		for i := 0; i+1 < len(line); i++ {
			ax, ay := proj.project(line[i])
			bx, by := proj.project(line[i+1])
			f.segments = append(f.segments, segment{ax, ay, bx, by})
		}
	}
	return f
}

// LoadFrontlineGeoJSON reads a WGS84 GeoJSON FeatureCollection of
// LineString/MultiLineString/Polygon/MultiPolygon geometries and builds a
// Frontline from their constituent lines (polygon rings are treated as
// closed polylines, matching how a contested-area outline can stand in
// for an explicit line of contact).
func LoadFrontlineGeoJSON(path string) (*Frontline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("spatial: read frontline geojson: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("spatial: parse frontline geojson: %w", err)
	}

	var lines [][]Point
	for _, feat := range fc.Features {
		lines = append(lines, collectLines(feat.Geometry)...)
	}

	if len(lines) == 0 {
		return nil, fmt.Errorf("spatial: frontline geojson %q contains no line geometry", path)
	}

	return NewFrontline(lines), nil
}

func collectLines(geom orb.Geometry) [][]Point {
	switch g := geom.(type) {
	case orb.LineString:
		return [][]Point{orbLineToPoints(g)}
	case orb.MultiLineString:
		out := make([][]Point, 0, len(g))
		for _, ls := range g {
			out = append(out, orbLineToPoints(ls))
		}
		return out
	case orb.Polygon:
		if len(g) == 0 {
			return nil
		}
		return [][]Point{orbLineToPoints(orb.LineString(g[0]))}
	case orb.MultiPolygon:
		out := make([][]Point, 0, len(g))
		for _, poly := range g {
			if len(poly) == 0 {
				continue
			}
			out = append(out, orbLineToPoints(orb.LineString(poly[0])))
		}
		return out
	default:
		return nil
	}
}

func orbLineToPoints(ls orb.LineString) []Point {
	out := make([]Point, len(ls))
	for i, p := range ls {
		out[i] = Point{Lat: p.Y(), Lon: p.X()}
	}
	return out
}

func centroid(polylines [][]Point) (lat, lon float64) {
	var sumLat, sumLon float64
	var n int
	for _, line := range polylines {
		for _, pt := range line {
			sumLat += pt.Lat
			sumLon += pt.Lon
			n++
		}
	}
	if n == 0 {
		return 0, 0
	}
	return sumLat / float64(n), sumLon / float64(n)
}

// ShortestDistanceKM returns the geodesic-adjacent distance from pt to the
// nearest point on the frontline, in kilometers. Returns +Inf for an empty
// Frontline.
func (f *Frontline) ShortestDistanceKM(pt Point) float64 {
	if f == nil || len(f.segments) == 0 {
		return math.Inf(1)
	}
	px, py := f.proj.project(pt)

	best := math.Inf(1)
	for _, s := range f.segments {
		d, _, _ := distancePointToSegment(px, py, s.ax, s.ay, s.bx, s.by)
		if d < best {
			best = d
		}
	}
	return best
}

// AnchorForPoint returns the nearest point on the frontline to pt — the
// stable "frontline anchor" used as the far end of a direction axis for a
// given anchor city (spec.md §4.5). ok is false for an empty Frontline.
func (f *Frontline) AnchorForPoint(pt Point) (anchor Point, ok bool) {
	if f == nil || len(f.segments) == 0 {
		return Point{}, false
	}
	px, py := f.proj.project(pt)

	best := math.Inf(1)
	var bestX, bestY float64
	for _, s := range f.segments {
		d, nx, ny := distancePointToSegment(px, py, s.ax, s.ay, s.bx, s.by)
		if d < best {
			best = d
			bestX, bestY = nx, ny
		}
	}
	return f.proj.unproject(bestX, bestY), true
}
