package raster

import (
	"github.com/vnykmshr/fractile/pkg/common/validation"
)

// Tile is a unit of work: a Region plus a stable identifier assigned at
// partition time, monotonically increasing in raster-scan order. The ID is
// used for telemetry correlation and deterministic extremes reporting.
type Tile struct {
	ID int
	Region
}

// Partition splits a raster into a static grid of tiles of at most
// tileSize x tileSize pixels, in raster-scan order. Edge tiles are clipped
// to the raster bounds. The tiles are pairwise disjoint and their union
// covers the raster exactly.
func Partition(width, height, tileSize int) ([]Tile, error) {
	if err := validation.ValidatePositive("raster", "width", width); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositive("raster", "height", height); err != nil {
		return nil, err
	}
	if err := validation.ValidatePositive("raster", "tileSize", tileSize); err != nil {
		return nil, err
	}

	tilesX := (width + tileSize - 1) / tileSize
	tilesY := (height + tileSize - 1) / tileSize
	tiles := make([]Tile, 0, tilesX*tilesY)

	id := 0
	for y := 0; y < height; y += tileSize {
		for x := 0; x < width; x += tileSize {
			endX := x + tileSize
			if endX > width {
				endX = width
			}
			endY := y + tileSize
			if endY > height {
				endY = height
			}
			tiles = append(tiles, Tile{
				ID:     id,
				Region: Region{StartX: x, StartY: y, EndX: endX, EndY: endY},
			})
			id++
		}
	}

	return tiles, nil
}
