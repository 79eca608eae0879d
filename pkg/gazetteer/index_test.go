package gazetteer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLocales() []LocaleEntry {
	return []LocaleEntry{
		{Name: "Kupyansk", Aliases: []string{"Kupiansk", "Kup'yansk"}, Lat: 49.7131, Lon: 37.6158, CID: 1, Region: "Kharkiv", RUGroup: "West"},
		{Name: "Kharkiv", Aliases: []string{"Kharkov"}, Lat: 49.9935, Lon: 36.2304, CID: 2, Region: "Kharkiv"},
		{Name: "Izyum", Aliases: nil, Lat: 49.2133, Lon: 37.2536, CID: 3, Region: "Kharkiv", RUGroup: "Center"},
	}
}

func sampleRegions() []RegionEntry {
	return []RegionEntry{
		{Name: "Kharkiv", Aliases: []string{"Kharkiv Oblast"}, Neighbors: []string{"Sumy", "Luhansk"}},
	}
}

func sampleDirections() []DirectionEntry {
	return []DirectionEntry{
		{Name: "Kupyansk", Aliases: nil, Anchor: 1},
	}
}

func TestIndexSearchLocale(t *testing.T) {
	idx, err := NewIndex(sampleLocales(), sampleRegions(), nil, sampleDirections())
	require.NoError(t, err)

	found := idx.SearchLocale("kupiansk")
	require.Len(t, found, 1)
	assert.Equal(t, "Kupyansk", found[0].Name)

	assert.True(t, idx.HasLocale("Kharkov"))
	assert.False(t, idx.HasLocale("Nonexistent City"))
}

func TestIndexSearchRegionSuffixTolerance(t *testing.T) {
	idx, err := NewIndex(sampleLocales(), sampleRegions(), nil, nil)
	require.NoError(t, err)

	reg, ok := idx.SearchRegion("Kharkiv")
	require.True(t, ok)
	assert.Equal(t, "Kharkiv", reg.Name)

	reg, ok = idx.SearchRegion("Kharkiv oblast")
	require.True(t, ok)
	assert.Equal(t, "Kharkiv", reg.Name)

	_, ok = idx.SearchRegion("Donetsk")
	assert.False(t, ok)
}

func TestIndexSearchDirectionVariants(t *testing.T) {
	idx, err := NewIndex(sampleLocales(), nil, nil, sampleDirections())
	require.NoError(t, err)

	for _, text := range []string{"Kupyansk", "Kupyansk direction", "direction of Kupyansk"} {
		dir, ok := idx.SearchDirection(text)
		require.True(t, ok, text)
		assert.Equal(t, uint64(1), dir.Anchor)
	}

	_, ok := idx.SearchDirection("nowhere direction")
	assert.False(t, ok)
}

func TestIndexSearchLocaleInRegionAndRUGroup(t *testing.T) {
	locales := []LocaleEntry{
		{Name: "Avdiivka", Region: "Donetsk", RUGroup: "Center", CID: 10},
		{Name: "Avdiivka", Region: "Kharkiv", RUGroup: "West", CID: 11}, // same name, different region
	}
	idx, err := NewIndex(locales, nil, nil, nil)
	require.NoError(t, err)

	inDonetsk := idx.SearchLocaleInRegion("Avdiivka", "Donetsk")
	require.Len(t, inDonetsk, 1)
	assert.Equal(t, uint64(10), inDonetsk[0].CID)

	inCenter := idx.SearchLocaleInRUGroup("Avdiivka", "Center")
	require.Len(t, inCenter, 1)
	assert.Equal(t, uint64(10), inCenter[0].CID)

	all := idx.SearchLocaleInRegion("Avdiivka", "")
	assert.Len(t, all, 2)
}

func TestIndexDuplicateRegionAliasErrors(t *testing.T) {
	regions := []RegionEntry{
		{Name: "Kharkiv", Aliases: []string{"KH"}},
		{Name: "Kherson", Aliases: []string{"KH"}},
	}
	_, err := NewIndex(nil, regions, nil, nil)
	assert.Error(t, err)
}

func TestIndexDuplicateLocaleAliasTolerated(t *testing.T) {
	locales := []LocaleEntry{
		{Name: "Novhorodske", CID: 1},
		{Name: "Novhorodske", CID: 2},
	}
	idx, err := NewIndex(locales, nil, nil, nil)
	require.NoError(t, err)
	assert.Len(t, idx.SearchLocale("Novhorodske"), 2)
}

func TestIndexNearestLocale(t *testing.T) {
	idx, err := NewIndex(sampleLocales(), nil, nil, nil)
	require.NoError(t, err)

	nearest, dist, ok := idx.NearestLocale(49.99, 36.23)
	require.True(t, ok)
	assert.Equal(t, "Kharkiv", nearest.Name)
	assert.Less(t, dist, 1.0)

	nearestN := idx.NearestLocales(49.99, 36.23, 2)
	require.Len(t, nearestN, 2)
	assert.True(t, nearestN[0].Distance <= nearestN[1].Distance)

	within := idx.NearestLocalesWithin(49.99, 36.23, 50.0)
	assert.NotEmpty(t, within)
}

func TestIndexNearestLocaleWithName(t *testing.T) {
	locales := []LocaleEntry{
		{Name: "Kostyantynivka", Lat: 48.5, Lon: 37.7, CID: 20},
		{Name: "Kostyantynivka", Lat: 46.2, Lon: 32.5, CID: 21},
	}
	idx, err := NewIndex(locales, nil, nil, nil)
	require.NoError(t, err)

	best, _, ok := idx.NearestLocaleWithName("Kostyantynivka", 48.6, 37.6)
	require.True(t, ok)
	assert.Equal(t, uint64(20), best.CID)
}
