package spatial

import "math"

// kmPerDegLat is the length, in kilometers, of one degree of latitude
// (approximately constant; the ~0.1% variation by latitude is irrelevant
// at the regional scale the frontline geometry operates at).
const kmPerDegLat = 110.574

// projector is a local equirectangular projection centered on a reference
// latitude, used to turn WGS84 coordinates into a metric (kilometer) plane
// for distance-to-geometry and direction-axis computations. This mirrors
// the original implementation's use of a Web-Mercator-family CRS for the
// same purpose, simplified to a tangent-plane approximation that is exact
// enough at the scale of a single frontline (hundreds, not thousands, of
// kilometers).
type projector struct {
	lat0, lon0  float64
	kmPerDegLon float64
}

func newProjector(lat0, lon0 float64) projector {
	return projector{
		lat0:        lat0,
		lon0:        lon0,
		kmPerDegLon: 111.320 * math.Cos(lat0*math.Pi/180),
	}
}

// project converts a WGS84 point into (x, y) kilometers on the tangent
// plane centered at (lat0, lon0).
func (p projector) project(pt Point) (x, y float64) {
	return (pt.Lon - p.lon0) * p.kmPerDegLon, (pt.Lat - p.lat0) * kmPerDegLat
}

// unproject is the inverse of project.
func (p projector) unproject(x, y float64) Point {
	return Point{
		Lat: p.lat0 + y/kmPerDegLat,
		Lon: p.lon0 + x/p.kmPerDegLon,
	}
}

// distancePointToSegment returns the shortest planar distance from (px,py)
// to the segment (ax,ay)-(bx,by), plus the nearest point on the segment.
func distancePointToSegment(px, py, ax, ay, bx, by float64) (dist, nx, ny float64) {
	vx, vy := bx-ax, by-ay
	wx, wy := px-ax, py-ay

	segLenSq := vx*vx + vy*vy
	if segLenSq == 0 {
		dx, dy := px-ax, py-ay
		return math.Hypot(dx, dy), ax, ay
	}

	t := (wx*vx + wy*vy) / segLenSq
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}

	nx, ny = ax+t*vx, ay+t*vy
	return math.Hypot(px-nx, py-ny), nx, ny
}
