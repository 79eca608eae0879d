package spatial

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// orbSquare builds a closed square ring of the given half-width (degrees)
// centered on (lat, lon), for polygon containment tests.
func orbSquare(lat, lon, half float64) []orb.Polygon {
	r := orb.Ring{
		{lon - half, lat - half},
		{lon + half, lat - half},
		{lon + half, lat + half},
		{lon - half, lat + half},
		{lon - half, lat - half},
	}
	return []orb.Polygon{{r}}
}

func TestHaversineKM(t *testing.T) {
	kyiv := Point{Lat: 50.4501, Lon: 30.5234}
	kharkiv := Point{Lat: 49.9935, Lon: 36.2304}

	d := HaversineKM(kyiv, kharkiv)
	assert.InDelta(t, 410.0, d, 10.0)

	assert.Equal(t, 0.0, HaversineKM(kyiv, kyiv))
}

func TestFrontlineShortestDistanceAndAnchor(t *testing.T) {
	// A north-south line of contact running along longitude 37.0.
	line := []Point{
		{Lat: 48.0, Lon: 37.0},
		{Lat: 49.0, Lon: 37.0},
		{Lat: 50.0, Lon: 37.0},
	}
	fl := NewFrontline([][]Point{line})

	// A point due west of the middle of the line.
	west := Point{Lat: 49.0, Lon: 36.0}
	d := fl.ShortestDistanceKM(west)
	assert.Greater(t, d, 0.0)
	assert.Less(t, d, 200.0)

	anchor, ok := fl.AnchorForPoint(west)
	require.True(t, ok)
	assert.InDelta(t, 49.0, anchor.Lat, 0.1)
	assert.InDelta(t, 37.0, anchor.Lon, 0.1)

	// A point exactly on the line has zero distance.
	onLine := Point{Lat: 49.0, Lon: 37.0}
	assert.InDelta(t, 0.0, fl.ShortestDistanceKM(onLine), 0.5)
}

func TestFrontlineEmpty(t *testing.T) {
	var fl *Frontline
	assert.True(t, math.IsInf(fl.ShortestDistanceKM(Point{}), 1))

	_, ok := fl.AnchorForPoint(Point{})
	assert.False(t, ok)
}

func TestAxisProject(t *testing.T) {
	city := Point{Lat: 49.0, Lon: 36.0}
	frontlineAnchor := Point{Lat: 49.0, Lon: 37.0}
	axis := NewAxis(city, frontlineAnchor)

	// The city itself sits at the start of the axis.
	along, cross := axis.Project(city)
	assert.InDelta(t, 0.0, along, 0.5)
	assert.InDelta(t, 0.0, cross, 0.5)

	// The frontline anchor sits at the far end, on-axis.
	along, cross = axis.Project(frontlineAnchor)
	assert.Greater(t, along, 0.0)
	assert.InDelta(t, 0.0, cross, 0.5)

	// A point offset north of the midline has nonzero cross-axis distance.
	offAxis := Point{Lat: 49.5, Lon: 36.5}
	_, cross = axis.Project(offAxis)
	assert.Greater(t, cross, 0.0)
}

func TestGroupPolygonContainsAndDistance(t *testing.T) {
	square := orbSquare(49.0, 36.0, 0.5)
	gp, err := newGroupPolygon(square)
	require.NoError(t, err)

	inside := Point{Lat: 49.0, Lon: 36.0}
	assert.True(t, gp.Contains(inside))
	assert.Equal(t, 0.0, gp.DistanceKM(inside))

	outside := Point{Lat: 52.0, Lon: 36.0}
	assert.False(t, gp.Contains(outside))
	assert.Greater(t, gp.DistanceKM(outside), 0.0)
}

func TestFlagClusterOutliers(t *testing.T) {
	siblings := []SiblingCandidate{
		{NodeID: "a", Point: Point{Lat: 49.00, Lon: 37.00}},
		{NodeID: "b", Point: Point{Lat: 49.05, Lon: 37.05}},
		{NodeID: "c", Point: Point{Lat: 49.02, Lon: 36.98}},
		{NodeID: "d", Point: Point{Lat: 55.00, Lon: 40.00}}, // far away
	}

	flags := FlagClusterOutliers(siblings, 50.0)
	require.Len(t, flags, 4)

	byNode := map[string]OutlierFlag{}
	for _, f := range flags {
		byNode[f.NodeID] = f
	}

	assert.False(t, byNode["a"].IsOutlier)
	assert.False(t, byNode["b"].IsOutlier)
	assert.False(t, byNode["c"].IsOutlier)
	assert.True(t, byNode["d"].IsOutlier)
}

func TestFlagClusterOutliersTooFewSiblings(t *testing.T) {
	siblings := []SiblingCandidate{
		{NodeID: "a", Point: Point{Lat: 49.0, Lon: 37.0}},
		{NodeID: "b", Point: Point{Lat: 60.0, Lon: 10.0}},
	}
	flags := FlagClusterOutliers(siblings, 1.0)
	for _, f := range flags {
		assert.False(t, f.IsOutlier)
	}
}

// roundTo avoids float noise when distances are compared against a
// threshold derived from the same rounding.
func roundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func TestRoundTo(t *testing.T) {
	assert.Equal(t, 1.23, roundTo(1.2345, 2))
}
