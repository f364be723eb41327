package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMissingIdentity marks a raw feature that lacks eventtype or eventid.
// Callers skip the record and count it as unusable; the batch continues.
var ErrMissingIdentity = errors.New("raw feature missing eventtype or eventid")

// GeoMode selects the geospatial stage of the normalization pipeline.
type GeoMode string

const (
	// GeoModeDeclared resolves location from feed metadata only.
	GeoModeDeclared GeoMode = "declared"
	// GeoModeDual resolves both declared and coordinate-derived attribution
	// so they can be cross-checked downstream.
	GeoModeDual GeoMode = "dual"
	// GeoModeGrid replaces country/continent labels with a fixed-grid tile
	// code used for downstream spatial partitioning.
	GeoModeGrid GeoMode = "grid"
)

// ParseGeoMode validates a configuration string as a GeoMode.
func ParseGeoMode(s string) (GeoMode, error) {
	switch GeoMode(s) {
	case GeoModeDeclared, GeoModeDual, GeoModeGrid:
		return GeoMode(s), nil
	}
	return "", fmt.Errorf("unknown geo mode %q", s)
}

// Normalizer maps raw feed features into canonical events. The geospatial
// stage is pluggable: locators are injected at construction so tests can
// substitute small synthetic layers, and unused locators may be nil.
type Normalizer struct {
	mode       GeoMode
	countries  CountryLocator
	continents ContinentLookup
	tiles      TileLocator
}

// NewNormalizer creates a Normalizer for the given mode. countries and
// continents are consulted only in dual mode, tiles only in grid mode.
func NewNormalizer(mode GeoMode, countries CountryLocator, continents ContinentLookup, tiles TileLocator) *Normalizer {
	return &Normalizer{
		mode:       mode,
		countries:  countries,
		continents: continents,
		tiles:      tiles,
	}
}

// Normalize converts one raw feature into a canonical Event. It returns
// ErrMissingIdentity when the identity fields are absent; every other defect
// (missing geometry, malformed URL map, unresolvable location) degrades to
// empty fields instead of failing.
func (n *Normalizer) Normalize(f RawFeature) (Event, error) {
	props := f.Properties
	eventID := props.EventID.String()
	if props.EventType == "" || eventID == "" {
		return Event{}, ErrMissingIdentity
	}

	urls := decodeURLMap(props.URL)
	lon, lat, hasCoords := pointCoordinates(f.Geometry)

	e := Event{
		GDACSID:           props.EventType + "-" + eventID,
		EventID:           eventID,
		EventType:         props.EventType,
		Glide:             props.Glide,
		AlertLevel:        props.AlertLevel,
		AlertScore:        props.AlertScore.String(),
		EpisodeAlertLevel: props.EpisodeAlertLevel,
		EpisodeAlertScore: props.EpisodeAlertScore.String(),
		FromDate:          props.FromDate,
		ToDate:            props.ToDate,
		DateModified:      props.DateModified,
		Source:            props.Source,
		GeometryURL:       urls["geometry"],
		ReportURL:         urls["report"],
		DetailsURL:        urls["details"],
		BBox:              marshalOrEmpty(f.BBox),
		Geometry:          marshalOrEmpty(f.Geometry),
	}

	n.resolveLocation(&e, props, lon, lat, hasCoords)
	return e, nil
}

// resolveLocation fills the mode-specific geospatial fields. Both the declared
// and the coordinate-derived resolutions are attempted in dual mode so the
// validator can cross-check them.
func (n *Normalizer) resolveLocation(e *Event, props RawProperties, lon, lat float64, hasCoords bool) {
	if n.mode == GeoModeGrid {
		if hasCoords && n.tiles != nil {
			if code, ok := n.tiles.TileCode(lon, lat); ok {
				e.Equi7GridCode = code
			}
		}
		return
	}

	if declared, ok := ResolveDeclared(props); ok {
		e.Country = declared.Name
		e.ISO3 = declared.ISO3
		e.Continent = ResolveContinent(declared, n.continents)
	}

	if n.mode != GeoModeDual {
		return
	}

	if hasCoords && n.countries != nil {
		if located, ok := n.countries.Locate(lon, lat); ok {
			e.CountryLonLat = located.Name
			e.ISO3LonLat = located.ISO3
			e.ContinentLonLat = ResolveContinent(located, n.continents)
		}
	}
}

// pointCoordinates extracts lon/lat from a point geometry, tolerating a
// missing geometry or a short coordinate array.
func pointCoordinates(g *RawGeometry) (lon, lat float64, ok bool) {
	if g == nil || len(g.Coordinates) < 2 {
		return 0, 0, false
	}
	return g.Coordinates[0], g.Coordinates[1], true
}

// decodeURLMap parses the feed's url object, treating a missing or malformed
// value as no URLs.
func decodeURLMap(raw json.RawMessage) map[string]string {
	if len(raw) == 0 {
		return nil
	}
	var urls map[string]string
	if err := json.Unmarshal(raw, &urls); err != nil {
		return nil
	}
	return urls
}

func marshalOrEmpty(v any) string {
	if v == nil {
		return ""
	}
	data, err := json.Marshal(v)
	if err != nil || string(data) == "null" {
		return ""
	}
	return string(data)
}
