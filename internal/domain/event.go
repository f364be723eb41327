package domain

import "encoding/json"

// RawFeature is one GeoJSON-style feature from the GDACS event-list feed.
// Fields are decoded defensively: the feed omits or malforms several of them
// and a single bad feature must never abort a batch.
type RawFeature struct {
	Type       string        `json:"type"`
	BBox       []float64     `json:"bbox"`
	Geometry   *RawGeometry  `json:"geometry"`
	Properties RawProperties `json:"properties"`
}

// RawGeometry is the feed's point geometry, longitude first.
type RawGeometry struct {
	Type        string    `json:"type"`
	Coordinates []float64 `json:"coordinates"`
}

// RawProperties holds the feed-declared event metadata. The url field stays
// raw because GDACS occasionally serves it as something other than an object.
type RawProperties struct {
	EventID           json.Number       `json:"eventid"`
	EventType         string            `json:"eventtype"`
	Glide             string            `json:"glide"`
	AlertLevel        string            `json:"alertlevel"`
	AlertScore        json.Number       `json:"alertscore"`
	EpisodeAlertLevel string            `json:"episodealertlevel"`
	EpisodeAlertScore json.Number       `json:"episodealertscore"`
	Country           string            `json:"country"`
	FromDate          string            `json:"fromdate"`
	ToDate            string            `json:"todate"`
	DateModified      string            `json:"datemodified"`
	Source            string            `json:"source"`
	AffectedCountries []AffectedCountry `json:"affectedcountries"`
	URL               json.RawMessage   `json:"url"`
}

// AffectedCountry is one entry of the feed's affectedcountries list.
type AffectedCountry struct {
	Name string `json:"countryname"`
	ISO2 string `json:"iso2"`
	ISO3 string `json:"iso3"`
}

// Event is the canonical flat flood event. GDACS_ID is the sole identity key
// for deduplication, override merge and change detection; it is unique within
// any snapshot. Events are never mutated in place after normalization —
// corrections produce new records through the override merge.
//
// Absent values are empty strings, matching the persisted CSV representation.
type Event struct {
	GDACSID           string `csv:"GDACS_ID" json:"gdacs_id"`
	EventID           string `csv:"eventid" json:"eventid"`
	EventType         string `csv:"eventtype" json:"eventtype"`
	Glide             string `csv:"glide" json:"glide,omitempty"`
	AlertLevel        string `csv:"alertlevel" json:"alertlevel,omitempty"`
	AlertScore        string `csv:"alertscore" json:"alertscore,omitempty"`
	EpisodeAlertLevel string `csv:"episodealertlevel" json:"episodealertlevel,omitempty"`
	EpisodeAlertScore string `csv:"episodealertscore" json:"episodealertscore,omitempty"`
	Country           string `csv:"country" json:"country,omitempty"`
	ISO3              string `csv:"iso3" json:"iso3,omitempty"`
	Continent         string `csv:"continent" json:"continent,omitempty"`
	CountryLonLat     string `csv:"country_lonlat" json:"country_lonlat,omitempty"`
	ISO3LonLat        string `csv:"iso3_lonlat" json:"iso3_lonlat,omitempty"`
	ContinentLonLat   string `csv:"continent_lonlat" json:"continent_lonlat,omitempty"`
	Equi7GridCode     string `csv:"equi7_grid_code" json:"equi7_grid_code,omitempty"`
	FromDate          string `csv:"fromdate" json:"fromdate,omitempty"`
	ToDate            string `csv:"todate" json:"todate,omitempty"`
	DateModified      string `csv:"datemodified" json:"datemodified,omitempty"`
	Source            string `csv:"source" json:"source,omitempty"`
	GeometryURL       string `csv:"geometry_url" json:"geometry_url,omitempty"`
	ReportURL         string `csv:"report_url" json:"report_url,omitempty"`
	DetailsURL        string `csv:"details_url" json:"details_url,omitempty"`
	BBox              string `csv:"bbox" json:"bbox,omitempty"`
	Geometry          string `csv:"geometry" json:"geometry,omitempty"`
}

// Resolution sources recorded on CountryResolution.
const (
	SourceDeclared   = "declared"
	SourceCoordinate = "coordinate"
)

// CountryResolution is one geospatial attribution for an event. It is embedded
// into the Event during normalization, never persisted on its own.
type CountryResolution struct {
	Name   string
	ISO2   string
	ISO3   string
	Source string
}

// ReviewRecord pairs an event with the validation rules it violated.
// Regenerated on every validation run; an empty Errors list means valid.
type ReviewRecord struct {
	Event
	Errors []RuleID
}

// Override is one human-supplied correction row, keyed by GDACS_ID. Only
// non-empty fields represent actual corrections; a row with all correction
// fields empty is a no-op template row and is excluded from the merge.
type Override struct {
	GDACSID   string `csv:"GDACS_ID"`
	Country   string `csv:"Country"`
	Continent string `csv:"Continent"`
	ISO3      string `csv:"ISO3"`
}

// IsEmpty reports whether the row carries no correction at all.
func (o Override) IsEmpty() bool {
	return o.Country == "" && o.Continent == "" && o.ISO3 == ""
}
