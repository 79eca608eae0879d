package spatial

import "math"

// Axis is the segment from a named direction's anchor city to its nearest
// frontline point, used to project candidate locations for "<City>
// direction" scoring (spec.md §4.5). The segment is a straight line in a
// local equirectangular plane centered on the city, not a true
// great-circle path.
type Axis struct {
	City      Point
	Frontline Point
	proj      projector
	// The city is the origin of the axis-local metric plane; fx, fy is
	// the frontline anchor in that plane.
	fx, fy float64
	length float64
}

// NewAxis builds the direction axis from an anchor city to a frontline
// point. The metric plane is centered on the city so along-axis distance
// is 0 at the city and increases toward the frontline.
func NewAxis(city, frontlineAnchor Point) *Axis {
	proj := newProjector(city.Lat, city.Lon)
	fx, fy := proj.project(frontlineAnchor)
	return &Axis{
		City:      city,
		Frontline: frontlineAnchor,
		proj:      proj,
		fx:        fx,
		fy:        fy,
		length:    math.Hypot(fx, fy),
	}
}

// Project returns the along-axis distance (0 at the city, positive toward
// the frontline) and the perpendicular cross-axis distance, both in
// kilometers, for the given candidate point.
func (a *Axis) Project(pt Point) (alongKM, crossKM float64) {
	if a.length == 0 {
		px, py := a.proj.project(pt)
		return 0, math.Hypot(px, py)
	}

	px, py := a.proj.project(pt)

	// Unit vector along the axis (city -> frontline anchor).
	ux, uy := a.fx/a.length, a.fy/a.length

	along := px*ux + py*uy
	// Perpendicular component via the 2D cross product magnitude.
	cross := math.Abs(px*uy - py*ux)

	return along, cross
}
