// Package geo implements the reference-layer lookups behind the domain's
// locator interfaces: country boundaries and Equi7 grid tiles as GeoJSON
// polygon layers, and continent attribution from ISO reference data. Layers
// are loaded once at startup and are read-only for the rest of the run;
// concurrent runs in one process may share them.
package geo

import (
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/planar"

	"github.com/floodwatch/gdacs-flood-db/internal/domain"
)

// Property keys of the Natural Earth admin-0 layer.
const (
	countryNameProperty = "SOVEREIGNT"
	countryISO3Property = "SOV_A3"
)

// CountryLayer resolves coordinates against a global country-boundary polygon
// layer. It implements domain.CountryLocator. When boundaries overlap, the
// first containing feature in the file's order wins; this tie-break is
// deliberate and the validator's mismatch rule is the safety net.
type CountryLayer struct {
	features []countryFeature
}

type countryFeature struct {
	name     string
	iso3     string
	geometry orb.Geometry
}

// LoadCountryLayer reads a GeoJSON feature collection (Natural Earth admin-0
// or compatible) from disk.
func LoadCountryLayer(path string) (*CountryLayer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read country layer: %w", err)
	}
	return ParseCountryLayer(data)
}

// ParseCountryLayer builds a CountryLayer from GeoJSON bytes. Features
// without a name property are kept: a containment hit on them still means the
// point is on land, just unattributable, and resolves to nothing.
func ParseCountryLayer(data []byte) (*CountryLayer, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parse country layer: %w", err)
	}

	layer := &CountryLayer{features: make([]countryFeature, 0, len(fc.Features))}
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		layer.features = append(layer.features, countryFeature{
			name:     f.Properties.MustString(countryNameProperty, ""),
			iso3:     f.Properties.MustString(countryISO3Property, ""),
			geometry: f.Geometry,
		})
	}
	return layer, nil
}

// Locate returns the containing country for a coordinate, or ok=false when
// the point falls outside every boundary.
func (l *CountryLayer) Locate(lon, lat float64) (domain.CountryResolution, bool) {
	point := orb.Point{lon, lat}
	for _, f := range l.features {
		if !contains(f.geometry, point) {
			continue
		}
		if f.name == "" {
			return domain.CountryResolution{}, false
		}
		return domain.CountryResolution{
			Name:   f.name,
			ISO3:   f.iso3,
			Source: domain.SourceCoordinate,
		}, true
	}
	return domain.CountryResolution{}, false
}

// contains tests planar point-in-polygon containment for the geometry types
// the reference layers use.
func contains(g orb.Geometry, p orb.Point) bool {
	switch geom := g.(type) {
	case orb.Polygon:
		return planar.PolygonContains(geom, p)
	case orb.MultiPolygon:
		return planar.MultiPolygonContains(geom, p)
	}
	return false
}
