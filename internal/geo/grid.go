package geo

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// GridRegions are the six continent-scale Equi7 regions, in the fixed
// priority order tiles are checked in. A point covered by more than one
// region resolves to the first match.
var GridRegions = []string{"AF", "AS", "EU", "NA", "OC", "SA"}

const (
	gridTileProperty = "SHORTNAME"
	gridCodeSuffix   = "020M"
)

// GridSet resolves coordinates to Equi7 tile codes across the regional
// layers. It implements domain.TileLocator.
type GridSet struct {
	layers []GridLayer
}

// GridLayer holds one region's tiles.
type GridLayer struct {
	Region string
	tiles  []gridTile
}

type gridTile struct {
	shortName string
	geometry  orb.Geometry
}

// NewGridSet assembles a GridSet from layers, preserving the given order.
func NewGridSet(layers ...GridLayer) *GridSet {
	return &GridSet{layers: layers}
}

// LoadGridSet reads the six regional tile layers from dir, expecting
// EQUI7_V14_<region>_GEOG_TILE_T3.geojson per region.
func LoadGridSet(dir string) (*GridSet, error) {
	layers := make([]GridLayer, 0, len(GridRegions))
	for _, region := range GridRegions {
		path := filepath.Join(dir, fmt.Sprintf("EQUI7_V14_%s_GEOG_TILE_T3.geojson", region))
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read grid layer %s: %w", region, err)
		}
		layer, err := ParseGridLayer(region, data)
		if err != nil {
			return nil, err
		}
		layers = append(layers, layer)
	}
	return NewGridSet(layers...), nil
}

// ParseGridLayer builds one region's layer from GeoJSON bytes.
func ParseGridLayer(region string, data []byte) (GridLayer, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return GridLayer{}, fmt.Errorf("parse grid layer %s: %w", region, err)
	}

	layer := GridLayer{Region: region, tiles: make([]gridTile, 0, len(fc.Features))}
	for _, f := range fc.Features {
		if f.Geometry == nil {
			continue
		}
		layer.tiles = append(layer.tiles, gridTile{
			shortName: f.Properties.MustString(gridTileProperty, ""),
			geometry:  f.Geometry,
		})
	}
	return layer, nil
}

// TileCode returns the grid code for the first tile containing the
// coordinate, checking regions in GridRegions order, or ok=false when no
// region covers the point.
func (g *GridSet) TileCode(lon, lat float64) (string, bool) {
	point := orb.Point{lon, lat}
	for _, layer := range g.layers {
		for _, tile := range layer.tiles {
			if !contains(tile.geometry, point) {
				continue
			}
			if code, ok := tileCode(tile.shortName); ok {
				return code, true
			}
		}
	}
	return "", false
}

// tileCode derives the stable bucket key from a tile's SHORTNAME, e.g.
// "E042N012T3" from "EU_E042N012T3" plus the fixed resolution suffix. A name
// without the region prefix is treated as no coverage.
func tileCode(shortName string) (string, bool) {
	parts := strings.SplitN(shortName, "_", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", false
	}
	return parts[1] + gridCodeSuffix, true
}
