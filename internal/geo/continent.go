package geo

import (
	"strings"

	"github.com/pariz/gountries"
)

// ContinentIndex maps ISO3 codes and country names to continent names using
// the embedded gountries reference data. It implements
// domain.ContinentLookup. Lookups that fail resolve to ok=false, never an
// error.
type ContinentIndex struct {
	query *gountries.Query
}

// NewContinentIndex builds the index from the embedded dataset.
func NewContinentIndex() *ContinentIndex {
	return &ContinentIndex{query: gountries.New()}
}

// FromISO3 resolves a three-letter country code to its continent.
func (i *ContinentIndex) FromISO3(iso3 string) (string, bool) {
	if iso3 == "" {
		return "", false
	}
	country, err := i.query.FindCountryByAlpha(strings.ToUpper(iso3))
	if err != nil || country.Continent == "" {
		return "", false
	}
	return country.Continent, true
}

// FromName resolves a country name to its continent. The lookup is
// case-insensitive but otherwise exact; ambiguous or unknown names fail.
func (i *ContinentIndex) FromName(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	country, err := i.query.FindCountryByName(name)
	if err != nil || country.Continent == "" {
		return "", false
	}
	return country.Continent, true
}
