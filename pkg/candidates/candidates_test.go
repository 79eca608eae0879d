package candidates

import (
	"testing"

	"github.com/nuclearfall/sitrepc2-core/pkg/gazetteer"
	"github.com/nuclearfall/sitrepc2-core/pkg/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func squarePolygon(t *testing.T, lat, lon, half float64) *spatial.GroupPolygon {
	t.Helper()
	ring := []spatial.Point{
		{Lat: lat - half, Lon: lon - half},
		{Lat: lat - half, Lon: lon + half},
		{Lat: lat + half, Lon: lon + half},
		{Lat: lat + half, Lon: lon - half},
		{Lat: lat - half, Lon: lon - half},
	}
	gp, err := spatial.NewGroupPolygon([][][]spatial.Point{{ring}})
	require.NoError(t, err)
	return gp
}

func TestSpecExampleSingleCandidateResolvesOnRegionMatch(t *testing.T) {
	locales := []gazetteer.LocaleEntry{
		{Name: "Avdiivka", CID: 1, Region: "Donetsk", Lat: 48.1392, Lon: 37.7489},
	}
	idx, err := gazetteer.NewIndex(locales, nil, nil, nil)
	require.NoError(t, err)

	weights := DefaultWeights()
	ctx := EffectiveContext{Region: "Donetsk"}

	narrowed := Narrow(idx, "Avdiivka", ctx, weights)
	require.Len(t, narrowed, 1)

	scored := Score(narrowed, ctx, weights, nil, nil, nil, nil)
	require.Len(t, scored, 1)
	assert.Equal(t, 1.0, scored[0].Total)
	assert.Equal(t, 1.0, scored[0].Scores["region_match"])

	res := Resolve(scored, weights.ResolutionThreshold)
	assert.True(t, res.Resolved)
	assert.Equal(t, "region_match", res.ResolutionSource)
}

func TestNarrowRegionFallbackWhenEmpty(t *testing.T) {
	locales := []gazetteer.LocaleEntry{
		{Name: "Avdiivka", CID: 1, Region: "Kharkiv"},
	}
	idx, err := gazetteer.NewIndex(locales, nil, nil, nil)
	require.NoError(t, err)

	// Region context names a region with no matching candidate: falls
	// back to naive search rather than returning nothing.
	ctx := EffectiveContext{Region: "Donetsk"}
	narrowed := Narrow(idx, "Avdiivka", ctx, DefaultWeights())
	require.Len(t, narrowed, 1)
}

func TestNarrowGroupIntersectionFallback(t *testing.T) {
	locales := []gazetteer.LocaleEntry{
		{Name: "Avdiivka", CID: 1, Region: "Donetsk", RUGroup: "Center"},
		{Name: "Avdiivka", CID: 2, Region: "Donetsk", RUGroup: "East"},
	}
	idx, err := gazetteer.NewIndex(locales, nil, nil, nil)
	require.NoError(t, err)

	ctx := EffectiveContext{Region: "Donetsk", Group: "West"} // no match
	narrowed := Narrow(idx, "Avdiivka", ctx, DefaultWeights())
	// Empty intersection falls back to the region-filtered base (both).
	assert.Len(t, narrowed, 2)

	ctx2 := EffectiveContext{Region: "Donetsk", Group: "Center"}
	narrowed2 := Narrow(idx, "Avdiivka", ctx2, DefaultWeights())
	require.Len(t, narrowed2, 1)
	assert.Equal(t, uint64(1), narrowed2[0].CID)
}

func TestStage3ProximityFallsBackToNearestFive(t *testing.T) {
	anchor := gazetteer.LocaleEntry{Lat: 50.0, Lon: 30.0}
	var far []gazetteer.LocaleEntry
	for i := 0; i < 8; i++ {
		far = append(far, gazetteer.LocaleEntry{CID: uint64(i), Lat: 51.0 + float64(i), Lon: 30.0})
	}

	out := stage3ProximityNarrowing(far, &anchor, 5.0)
	assert.Len(t, out, 5)
}

func TestStage3ProximityWithinRadius(t *testing.T) {
	anchor := gazetteer.LocaleEntry{Lat: 50.0, Lon: 30.0}
	candidates := []gazetteer.LocaleEntry{
		{CID: 1, Lat: 50.01, Lon: 30.0},  // close
		{CID: 2, Lat: 55.0, Lon: 35.0},   // far
	}
	out := stage3ProximityNarrowing(candidates, &anchor, 50.0)
	require.Len(t, out, 1)
	assert.Equal(t, uint64(1), out[0].CID)
}

func TestScoreGroupPolygonDiscardBeyondBuffer(t *testing.T) {
	square := squarePolygon(t, 49.0, 36.0, 0.1)

	far := gazetteer.LocaleEntry{Lat: 60.0, Lon: 36.0}
	cand := &Candidate{Locale: far}
	weights := DefaultWeights()

	scoreGroup(cand, "Center", square, weights)
	assert.True(t, cand.Discarded)
}

func TestScoreGroupPolygonInsideVsBuffer(t *testing.T) {
	square := squarePolygon(t, 49.0, 36.0, 0.5)
	weights := DefaultWeights()

	inside := &Candidate{Locale: gazetteer.LocaleEntry{Lat: 49.0, Lon: 36.0}}
	scoreGroup(inside, "Center", square, weights)
	assert.False(t, inside.Discarded)
	assert.Equal(t, weights.GroupPolygonInside, inside.Scores["group_polygon"])

	// About 5.5 km north of the top edge: outside, but within the buffer.
	buffer := &Candidate{Locale: gazetteer.LocaleEntry{Lat: 49.55, Lon: 36.0}}
	scoreGroup(buffer, "Center", square, weights)
	assert.False(t, buffer.Discarded)
	assert.Equal(t, weights.GroupPolygonBuffer, buffer.Scores["group_polygon"])
}

func TestResolveTieLeavesUnresolved(t *testing.T) {
	a := &Candidate{Total: 0.8}
	b := &Candidate{Total: 0.8}
	res := Resolve([]*Candidate{a, b}, 0.5)
	assert.False(t, res.Resolved)
}

func TestResolveSubThresholdLeavesUnresolved(t *testing.T) {
	a := &Candidate{Total: 0.3}
	res := Resolve([]*Candidate{a}, 0.5)
	assert.False(t, res.Resolved)
}

func TestScoreDirectionAxisTiers(t *testing.T) {
	city := spatial.Point{Lat: 49.0, Lon: 36.0}
	frontline := spatial.Point{Lat: 49.0, Lon: 37.0}
	axis := spatial.NewAxis(city, frontline)
	weights := DefaultWeights()

	onAxis := &Candidate{Locale: gazetteer.LocaleEntry{Lat: 49.0, Lon: 36.5}}
	scoreDirection(onAxis, axis, weights)
	assert.Equal(t, weights.DirectionCross5KM, onAxis.Scores["direction_axis"])

	farOff := &Candidate{Locale: gazetteer.LocaleEntry{Lat: 49.5, Lon: 36.5}}
	scoreDirection(farOff, axis, weights)
	assert.Equal(t, weights.DirectionCrossFar, farOff.Scores["direction_axis"])
}

func TestFlagClusterOutliersIntegration(t *testing.T) {
	siblings := []spatial.SiblingCandidate{
		{NodeID: "a", Point: spatial.Point{Lat: 49.0, Lon: 37.0}},
		{NodeID: "b", Point: spatial.Point{Lat: 49.05, Lon: 37.05}},
		{NodeID: "c", Point: spatial.Point{Lat: 49.02, Lon: 36.98}},
		{NodeID: "d", Point: spatial.Point{Lat: 55.0, Lon: 41.0}},
	}
	flags := spatial.FlagClusterOutliers(siblings, DefaultWeights().ClusterOutlierMarginKM)
	var outlierCount int
	for _, f := range flags {
		if f.IsOutlier {
			outlierCount++
		}
	}
	assert.Equal(t, 1, outlierCount)
}
