package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKey(t *testing.T) {
	t.Run("lowercases and trims", func(t *testing.T) {
		assert.Equal(t, "avdiivka", Key("  Avdiivka  "))
	})

	t.Run("drops apostrophes", func(t *testing.T) {
		assert.Equal(t, "boromelske", Key("Boromel's'ke"))
	})

	t.Run("maps hyphens to spaces", func(t *testing.T) {
		assert.Equal(t, "yeni kale", Key("Yeni-Kale"))
	})

	t.Run("collapses whitespace", func(t *testing.T) {
		assert.Equal(t, "donetsk oblast", Key("Donetsk   Oblast"))
	})

	t.Run("empty string", func(t *testing.T) {
		assert.Equal(t, "", Key(""))
	})
}

func TestKeyIdempotent(t *testing.T) {
	cases := []string{
		"Avdiivka", "  Donetsk - Oblast ", "Boromel's'ke", "", "Already normalized",
		"Multiple---hyphens", "Tabs\tand\nnewlines",
	}
	for _, s := range cases {
		once := Key(s)
		twice := Key(once)
		assert.Equal(t, once, twice, "Key(Key(%q)) should equal Key(%q)", s, s)
	}
}

func TestEncodeDecodeCoordRoundTrip(t *testing.T) {
	cases := []struct {
		lat, lon float64
	}{
		{48.139, 37.75},
		{0, 0},
		{-89.999999, 179.999999},
		{89.999999, -179.999999},
		{50.450001, 30.523333},
	}

	for _, c := range cases {
		key := EncodeCoord(c.lat, c.lon)
		gotLat, gotLon := DecodeCoord(key)
		assert.InDelta(t, c.lat, gotLat, 1e-6)
		assert.InDelta(t, c.lon, gotLon, 1e-6)
	}
}
