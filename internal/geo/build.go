package geo

import (
	"github.com/floodwatch/gdacs-flood-db/internal/domain"
)

// BuildLocators loads the reference layers a geo mode needs and returns them
// as the domain's locator interfaces. Locators a mode does not use are nil.
func BuildLocators(mode domain.GeoMode, countriesPath, gridDir string) (domain.CountryLocator, domain.ContinentLookup, domain.TileLocator, error) {
	switch mode {
	case domain.GeoModeGrid:
		tiles, err := LoadGridSet(gridDir)
		if err != nil {
			return nil, nil, nil, err
		}
		return nil, nil, tiles, nil

	case domain.GeoModeDual:
		countries, err := LoadCountryLayer(countriesPath)
		if err != nil {
			return nil, nil, nil, err
		}
		return countries, NewContinentIndex(), nil, nil

	default:
		return nil, NewContinentIndex(), nil, nil
	}
}
