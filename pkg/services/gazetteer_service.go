package services

import (
	"fmt"

	"github.com/nuclearfall/sitrepc2-core/pkg/config"
	"github.com/nuclearfall/sitrepc2-core/pkg/gazetteer"
	"github.com/nuclearfall/sitrepc2-core/pkg/normalize"
	"github.com/nuclearfall/sitrepc2-core/pkg/spatial"
)

// GazetteerService loads and holds the reference-data index that LSS
// scoping and candidate scoring both depend on: the alias-indexed
// locale/region/group/direction gazetteer, group-of-operations polygons,
// and the frontline polyline used for proximity-to-front scoring. It is
// built once at startup and read concurrently by every worker thereafter.
type GazetteerService struct {
	index     *gazetteer.Index
	polygons  map[string]*spatial.GroupPolygon
	frontline *spatial.Frontline
}

// NewGazetteerService loads every source named in cfg and builds the
// immutable lookup structures the rest of the pipeline queries.
func NewGazetteerService(cfg *config.GazetteerYAMLConfig) (*GazetteerService, error) {
	locales, err := gazetteer.LoadLocalesCSV(cfg.LocalesCSV)
	if err != nil {
		return nil, fmt.Errorf("loading locales: %w", err)
	}
	regions, err := gazetteer.LoadRegionsCSV(cfg.RegionsCSV)
	if err != nil {
		return nil, fmt.Errorf("loading regions: %w", err)
	}
	groups, err := gazetteer.LoadGroupsCSV(cfg.GroupsCSV)
	if err != nil {
		return nil, fmt.Errorf("loading groups: %w", err)
	}
	directions, err := gazetteer.LoadDirectionsCSV(cfg.DirectionsCSV)
	if err != nil {
		return nil, fmt.Errorf("loading directions: %w", err)
	}

	index, err := gazetteer.NewIndex(locales, regions, groups, directions)
	if err != nil {
		return nil, fmt.Errorf("building gazetteer index: %w", err)
	}

	var polygons map[string]*spatial.GroupPolygon
	if cfg.GroupPolygonsGeo != "" {
		polygons, err = spatial.LoadGroupPolygonsGeoJSON(cfg.GroupPolygonsGeo, normalize.Key)
		if err != nil {
			return nil, fmt.Errorf("loading group polygons: %w", err)
		}
	}

	var frontline *spatial.Frontline
	if cfg.FrontlineGeo != "" {
		frontline, err = spatial.LoadFrontlineGeoJSON(cfg.FrontlineGeo)
		if err != nil {
			return nil, fmt.Errorf("loading frontline: %w", err)
		}
	}

	return &GazetteerService{index: index, polygons: polygons, frontline: frontline}, nil
}

// Index returns the loaded gazetteer index.
func (s *GazetteerService) Index() *gazetteer.Index {
	return s.index
}

// GroupPolygon returns the area-of-operations polygon for a normalized
// group name, if one was loaded.
func (s *GazetteerService) GroupPolygon(normalizedGroupName string) *spatial.GroupPolygon {
	return s.polygons[normalizedGroupName]
}

// Frontline returns the loaded frontline, or nil if none was configured.
func (s *GazetteerService) Frontline() *spatial.Frontline {
	return s.frontline
}
