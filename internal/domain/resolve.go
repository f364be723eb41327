package domain

// CountryLocator resolves a WGS-84 coordinate to the country whose boundary
// polygon contains it. Implementations must return ok=false for points outside
// every boundary (open ocean, digitization gaps) rather than guessing a
// nearest match. When a point falls inside more than one polygon, the first
// match in the layer's fixed iteration order wins; the validator's mismatch
// rule catches the fallout.
type CountryLocator interface {
	Locate(lon, lat float64) (CountryResolution, bool)
}

// ContinentLookup maps ISO3 codes or country names to continent names.
// Unknown codes and ambiguous names yield ok=false, never an error.
type ContinentLookup interface {
	FromISO3(iso3 string) (string, bool)
	FromName(name string) (string, bool)
}

// TileLocator resolves a coordinate to a fixed-grid tile code, or ok=false
// when no regional layer covers the point.
type TileLocator interface {
	TileCode(lon, lat float64) (string, bool)
}

// ResolveDeclared derives a country attribution from feed metadata alone:
// the first affected-country entry when the list is non-empty, otherwise the
// bare declared country name with no ISO codes, otherwise nothing.
func ResolveDeclared(p RawProperties) (CountryResolution, bool) {
	if len(p.AffectedCountries) > 0 {
		c := p.AffectedCountries[0]
		return CountryResolution{
			Name:   c.Name,
			ISO2:   c.ISO2,
			ISO3:   c.ISO3,
			Source: SourceDeclared,
		}, true
	}

	if p.Country != "" {
		return CountryResolution{
			Name:   p.Country,
			Source: SourceDeclared,
		}, true
	}

	return CountryResolution{}, false
}

// ResolveContinent looks up the continent for a resolution, preferring the
// ISO3 code and falling back to the country name. Returns "" when neither
// lookup succeeds.
func ResolveContinent(res CountryResolution, continents ContinentLookup) string {
	if continents == nil {
		return ""
	}
	if res.ISO3 != "" {
		if continent, ok := continents.FromISO3(res.ISO3); ok {
			return continent
		}
	}
	if res.Name != "" {
		if continent, ok := continents.FromName(res.Name); ok {
			return continent
		}
	}
	return ""
}
