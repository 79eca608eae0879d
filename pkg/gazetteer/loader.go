package gazetteer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// unpackAliases splits a semicolon-separated alias column into its
// constituent, trimmed, non-empty aliases.
func unpackAliases(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ";")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LoadLocalesCSV reads a locale_lookup-style CSV with columns
// name,aliases,lon,lat,cid,region,ru_group,place,wikidata,usage,source.
func LoadLocalesCSV(path string) ([]LocaleEntry, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}

	col := columnIndex(header)
	out := make([]LocaleEntry, 0, len(rows))
	for i, row := range rows {
		lon, err := col.float(row, "lon")
		if err != nil {
			return nil, fmt.Errorf("gazetteer: %s row %d: %w", path, i+2, err)
		}
		lat, err := col.float(row, "lat")
		if err != nil {
			return nil, fmt.Errorf("gazetteer: %s row %d: %w", path, i+2, err)
		}
		cid, err := col.uint(row, "cid")
		if err != nil {
			return nil, fmt.Errorf("gazetteer: %s row %d: %w", path, i+2, err)
		}
		usage, _ := col.intOrZero(row, "usage")

		out = append(out, LocaleEntry{
			Name:     col.str(row, "name"),
			Aliases:  unpackAliases(col.str(row, "aliases")),
			Lon:      lon,
			Lat:      lat,
			CID:      cid,
			Region:   col.str(row, "region"),
			RUGroup:  col.str(row, "ru_group"),
			Place:    col.str(row, "place"),
			Wikidata: col.str(row, "wikidata"),
			Usage:    usage,
			Source:   defaultStr(col.str(row, "source"), "base"),
		})
	}
	return out, nil
}

// LoadRegionsCSV reads a region CSV with columns
// name,aliases,neighbors,wikidata. neighbors is semicolon-separated like
// aliases.
func LoadRegionsCSV(path string) ([]RegionEntry, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	col := columnIndex(header)

	out := make([]RegionEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, RegionEntry{
			Name:      col.str(row, "name"),
			Aliases:   unpackAliases(col.str(row, "aliases")),
			Neighbors: unpackAliases(col.str(row, "neighbors")),
			Wikidata:  col.str(row, "wikidata"),
		})
	}
	return out, nil
}

// LoadGroupsCSV reads a group CSV with columns name,aliases. The group's
// area-of-operations geometry is loaded separately via
// spatial.LoadGroupPolygonsGeoJSON, keyed by this same normalized name.
func LoadGroupsCSV(path string) ([]GroupEntry, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	col := columnIndex(header)

	out := make([]GroupEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, GroupEntry{
			Name:    col.str(row, "name"),
			Aliases: unpackAliases(col.str(row, "aliases")),
		})
	}
	return out, nil
}

// LoadDirectionsCSV reads a direction CSV with columns
// name,aliases,anchor. anchor is the packed coordinate identity (cid) of
// the LocaleEntry anchoring this direction's axis.
func LoadDirectionsCSV(path string) ([]DirectionEntry, error) {
	rows, header, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	col := columnIndex(header)

	out := make([]DirectionEntry, 0, len(rows))
	for i, row := range rows {
		anchor, err := col.uint(row, "anchor")
		if err != nil {
			return nil, fmt.Errorf("gazetteer: %s row %d: %w", path, i+2, err)
		}
		out = append(out, DirectionEntry{
			Name:    col.str(row, "name"),
			Aliases: unpackAliases(col.str(row, "aliases")),
			Anchor:  anchor,
		})
	}
	return out, nil
}

func readCSV(path string) (rows [][]string, header []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("gazetteer: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err = r.Read()
	if err != nil {
		return nil, nil, fmt.Errorf("gazetteer: read header of %s: %w", path, err)
	}

	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("gazetteer: read %s: %w", path, err)
		}
		rows = append(rows, rec)
	}
	return rows, header, nil
}

type colIndex map[string]int

func columnIndex(header []string) colIndex {
	idx := make(colIndex, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	return idx
}

func (c colIndex) str(row []string, name string) string {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func (c colIndex) float(row []string, name string) (float64, error) {
	s := c.str(row, name)
	if s == "" {
		return 0, fmt.Errorf("missing required column %q", name)
	}
	return strconv.ParseFloat(s, 64)
}

func (c colIndex) uint(row []string, name string) (uint64, error) {
	s := c.str(row, name)
	if s == "" {
		return 0, fmt.Errorf("missing required column %q", name)
	}
	return strconv.ParseUint(s, 10, 64)
}

func (c colIndex) intOrZero(row []string, name string) (int, error) {
	s := c.str(row, name)
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func defaultStr(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
