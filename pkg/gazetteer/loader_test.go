package gazetteer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadLocalesCSV(t *testing.T) {
	path := writeTempCSV(t, "locales.csv", `name,aliases,lon,lat,cid,region,ru_group,place,wikidata,usage,source
Kupyansk,Kupiansk;Kup'yansk,37.6158,49.7131,12345,Kharkiv,West,city,Q123,5,base
Izyum,,37.2536,49.2133,67890,Kharkiv,,town,,0,
`)

	locales, err := LoadLocalesCSV(path)
	require.NoError(t, err)
	require.Len(t, locales, 2)

	assert.Equal(t, "Kupyansk", locales[0].Name)
	assert.ElementsMatch(t, []string{"Kupiansk", "Kup'yansk"}, locales[0].Aliases)
	assert.Equal(t, uint64(12345), locales[0].CID)
	assert.Equal(t, 5, locales[0].Usage)
	assert.Equal(t, "base", locales[0].Source)

	assert.Equal(t, "Izyum", locales[1].Name)
	assert.Empty(t, locales[1].Aliases)
	assert.Equal(t, "base", locales[1].Source) // defaulted
	assert.Equal(t, 0, locales[1].Usage)
}

func TestLoadLocalesCSVMissingRequiredColumn(t *testing.T) {
	path := writeTempCSV(t, "locales.csv", `name,aliases,lon,lat,cid
Kupyansk,,37.6158,,12345
`)
	_, err := LoadLocalesCSV(path)
	assert.Error(t, err)
}

func TestLoadRegionsCSV(t *testing.T) {
	path := writeTempCSV(t, "regions.csv", `name,aliases,neighbors,wikidata
Kharkiv,Kharkiv Oblast,Sumy;Luhansk,Q123
`)
	regions, err := LoadRegionsCSV(path)
	require.NoError(t, err)
	require.Len(t, regions, 1)
	assert.Equal(t, []string{"Kharkiv Oblast"}, regions[0].Aliases)
	assert.ElementsMatch(t, []string{"Sumy", "Luhansk"}, regions[0].Neighbors)
}

func TestLoadGroupsCSV(t *testing.T) {
	path := writeTempCSV(t, "groups.csv", `name,aliases
Center,Group Center;Tsentr
`)
	groups, err := LoadGroupsCSV(path)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Center", groups[0].Name)
}

func TestLoadDirectionsCSV(t *testing.T) {
	path := writeTempCSV(t, "directions.csv", `name,aliases,anchor
Kupyansk,,12345
`)
	directions, err := LoadDirectionsCSV(path)
	require.NoError(t, err)
	require.Len(t, directions, 1)
	assert.Equal(t, uint64(12345), directions[0].Anchor)
}

func TestUnpackAliases(t *testing.T) {
	assert.Nil(t, unpackAliases(""))
	assert.Equal(t, []string{"a", "b"}, unpackAliases(" a ; b ;; "))
}
