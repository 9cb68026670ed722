// Package render rasterises a town's terrain for the PNG export and the
// viewer.
package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"towngen/internal/grid"
	"towngen/internal/town"

	xdraw "golang.org/x/image/draw"
)

var (
	PathColor     = color.RGBA{150, 120, 85, 255}
	PavementColor = color.RGBA{175, 175, 165, 255}
	GrassColor    = color.RGBA{80, 140, 80, 255}
	ObstacleColor = color.RGBA{50, 50, 60, 255}
	GateColor     = color.RGBA{230, 80, 80, 255}
)

// TerrainColor returns the fill for a terrain type.
func TerrainColor(t grid.TerrainType) color.RGBA {
	switch t {
	case grid.Path:
		return PathColor
	case grid.Pavement:
		return PavementColor
	case grid.Grass:
		return GrassColor
	default:
		return ObstacleColor
	}
}

// Terrain draws one pixel per cell with the highest row at the top, the
// same orientation as the ASCII dump.
func Terrain(g *grid.Grid) *image.RGBA {
	w, h := g.Width(), g.Height()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, h-1-y, TerrainColor(g.Type(x, y)))
		}
	}
	return img
}

// Town is Terrain with the gate cells marked.
func Town(t *town.Town) *image.RGBA {
	img := Terrain(t.Grid)
	h := t.Grid.Height()
	for _, c := range t.Gates {
		if c != nil {
			img.SetRGBA(c.X, h-1-c.Y, GateColor)
		}
	}
	return img
}

// Scale enlarges src by an integer factor without smoothing, so every cell
// stays a crisp square.
func Scale(src image.Image, factor int) *image.RGBA {
	if factor < 1 {
		factor = 1
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*factor, b.Dy()*factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, b, xdraw.Src, nil)
	return dst
}

// WritePNG encodes the town at cellSize pixels per cell.
func WritePNG(w io.Writer, t *town.Town, cellSize int) error {
	if err := png.Encode(w, Scale(Town(t), cellSize)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
