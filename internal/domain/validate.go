package domain

import (
	"net/url"
	"strings"
	"time"
)

// RuleID identifies one validation rule.
type RuleID string

// Validation rules, in definition order. Violations are reported in this
// order; no rule short-circuits another.
const (
	RuleMissingContinent       RuleID = "missing_continent"
	RuleMissingContinentLonLat RuleID = "missing_continent_lonlat"
	RuleMissingEqui7Code       RuleID = "missing_equi7_code"
	RuleCountryMismatch        RuleID = "country_mismatch"
	RuleInvalidFromDate        RuleID = "invalid_fromdate"
	RuleInvalidToDate          RuleID = "invalid_todate"
	RuleInvalidGeometryURL     RuleID = "invalid_geometry_url"
)

const (
	// isoDateTimeLayout is the exact timestamp format the feed is expected to
	// emit; anything else needs review.
	isoDateTimeLayout = "2006-01-02T15:04:05"

	feedDomain         = "gdacs.org"
	geometryPathSuffix = "/getgeometry"
	geometryEventType  = "FL"
)

// Validator applies the fixed rule set to canonical events. Which geospatial
// rules apply depends on the pipeline's geo mode: dual mode checks both
// resolutions and their agreement, grid mode checks the tile code instead,
// and declared mode checks only the primary continent.
type Validator struct {
	mode GeoMode
}

// NewValidator creates a Validator for the given geo mode.
func NewValidator(mode GeoMode) *Validator {
	return &Validator{mode: mode}
}

// Validate returns the identifiers of every rule the event violates, in rule
// definition order. An empty result means the event is valid. All rules are
// evaluated; violations are reported together.
func (v *Validator) Validate(e Event) []RuleID {
	var violations []RuleID

	switch v.mode {
	case GeoModeGrid:
		if e.Equi7GridCode == "" {
			violations = append(violations, RuleMissingEqui7Code)
		}
	case GeoModeDual:
		if e.Continent == "" {
			violations = append(violations, RuleMissingContinent)
		}
		if e.ContinentLonLat == "" {
			violations = append(violations, RuleMissingContinentLonLat)
		}
		if e.Country != e.CountryLonLat {
			violations = append(violations, RuleCountryMismatch)
		}
	default:
		if e.Continent == "" {
			violations = append(violations, RuleMissingContinent)
		}
	}

	if !isValidISODateTime(e.FromDate) {
		violations = append(violations, RuleInvalidFromDate)
	}
	if !isValidISODateTime(e.ToDate) {
		violations = append(violations, RuleInvalidToDate)
	}
	if !isValidGeometryURL(e.GeometryURL) {
		violations = append(violations, RuleInvalidGeometryURL)
	}

	return violations
}

func isValidISODateTime(value string) bool {
	if value == "" {
		return false
	}
	_, err := time.Parse(isoDateTimeLayout, value)
	return err == nil
}

// isValidGeometryURL performs the structural check on the feed's geometry
// retrieval URL: http(s) scheme, host on the feed's domain, path ending in the
// geometry suffix, and query parameters eventtype=FL plus non-empty eventid
// and episodeid.
func isValidGeometryURL(raw string) bool {
	if raw == "" {
		return false
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return false
	}
	if !strings.Contains(parsed.Host, feedDomain) {
		return false
	}
	if !strings.HasSuffix(parsed.Path, geometryPathSuffix) {
		return false
	}

	params := parsed.Query()
	if params.Get("eventtype") != geometryEventType {
		return false
	}
	if params.Get("eventid") == "" {
		return false
	}
	if params.Get("episodeid") == "" {
		return false
	}

	return true
}
