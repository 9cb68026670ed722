// Package grid holds the per-cell terrain of a generated town together with
// the adjacency graph pathfinding consumers search.
//
// Terrain is written first and connections are computed once afterwards.
// Computing connections while terrain is still changing produces a graph
// that disagrees with the cell types.
package grid

import (
	"log"
	"strings"

	"towngen/internal/mathutil"

	"github.com/zyedidia/generic/mapset"
)

// Grid is a fixed-size array of cells addressed by (x, y).
type Grid struct {
	width  int
	height int
	cells  []Cell

	roadCells []*Cell
	connected bool
}

// New allocates and initialises a width x height grid.
func New(width, height int) *Grid {
	g := &Grid{}
	g.Initialize(width, height)
	return g
}

// Initialize (re)allocates every cell as Grass with an Obstacle border ring.
// Any previous cells, connections and road cache are discarded.
func (g *Grid) Initialize(width, height int) {
	if width <= 0 || height <= 0 {
		log.Printf("Warning: grid size %dx%d is empty", width, height)
		width, height = 0, 0
	}
	g.width = width
	g.height = height
	g.cells = make([]Cell, width*height)
	g.roadCells = nil
	g.connected = false
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			t := Grass
			// Nothing may spawn right against the wall.
			if x == 0 || x == width-1 || y == 0 || y == height-1 {
				t = Obstacle
			}
			g.cells[y*width+x] = Cell{X: x, Y: y, Type: t}
		}
	}
}

// Initialized reports whether cells have been allocated.
func (g *Grid) Initialized() bool { return g != nil && len(g.cells) > 0 }

func (g *Grid) Width() int  { return g.width }
func (g *Grid) Height() int { return g.height }

// Connected reports whether ComputeConnections has run since the last
// initialisation.
func (g *Grid) Connected() bool { return g.connected }

// InBounds reports whether (x, y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

// Cell returns the cell at (x, y), or nil outside the grid.
func (g *Grid) Cell(x, y int) *Cell {
	if !g.Initialized() || !g.InBounds(x, y) {
		return nil
	}
	return &g.cells[y*g.width+x]
}

// Type returns the terrain at (x, y). Out-of-bounds reads as Obstacle.
func (g *Grid) Type(x, y int) TerrainType {
	if c := g.Cell(x, y); c != nil {
		return c.Type
	}
	return Obstacle
}

// Set overwrites a single cell; out-of-bounds writes are ignored.
func (g *Grid) Set(x, y int, t TerrainType) {
	if c := g.Cell(x, y); c != nil {
		c.Type = t
	}
}

// SetRegion overwrites every in-bounds cell of the rectangle. The rectangle
// is clipped silently and the call is a no-op on an uninitialised grid.
func (g *Grid) SetRegion(x, y, w, h int, t TerrainType) {
	if !g.Initialized() {
		return
	}
	x0 := max(x, 0)
	y0 := max(y, 0)
	x1 := min(x+w, g.width)
	y1 := min(y+h, g.height)
	for j := y0; j < y1; j++ {
		for i := x0; i < x1; i++ {
			g.cells[j*g.width+i].Type = t
		}
	}
}

// RegionIs reports whether every cell of the rectangle exists and has type t.
func (g *Grid) RegionIs(x, y, w, h int, t TerrainType) bool {
	if !g.Initialized() {
		return false
	}
	for j := y; j < y+h; j++ {
		for i := x; i < x+w; i++ {
			if !g.InBounds(i, j) || g.cells[j*g.width+i].Type != t {
				return false
			}
		}
	}
	return true
}

// ComputeConnections rebuilds every cell's neighbour list from the final
// terrain and refreshes the road cell cache. Call it once per generation,
// after the last terrain write.
func (g *Grid) ComputeConnections() {
	if !g.Initialized() {
		log.Printf("Warning: connections requested on an uninitialised grid")
		return
	}
	for idx := range g.cells {
		c := &g.cells[idx]
		c.Neighbors = c.Neighbors[:0]
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				if dx == 0 && dy == 0 {
					continue
				}
				n := g.Cell(c.X+dx, c.Y+dy)
				if n != nil && n.Type.Walkable() {
					c.Neighbors = append(c.Neighbors, n)
				}
			}
		}
	}
	g.roadCells = g.CellsOfType(Path, Pavement)
	g.connected = true
}

// CellsOfType returns every cell whose type is one of types, in row-major
// order.
func (g *Grid) CellsOfType(types ...TerrainType) []*Cell {
	if !g.Initialized() {
		return nil
	}
	want := mapset.New[TerrainType]()
	for _, t := range types {
		want.Put(t)
	}
	var out []*Cell
	for idx := range g.cells {
		if want.Has(g.cells[idx].Type) {
			out = append(out, &g.cells[idx])
		}
	}
	return out
}

// RoadCells returns the Path and Pavement cells cached by the last
// ComputeConnections.
func (g *Grid) RoadCells() []*Cell { return g.roadCells }

// RoadCellsNear returns cached road cells whose world position lies within
// radius of pos.
func (g *Grid) RoadCellsNear(pos mathutil.Vec2, radius float64) []*Cell {
	var out []*Cell
	for _, c := range g.roadCells {
		if g.CellToWorld(c).Sub(pos).Len() < radius {
			out = append(out, c)
		}
	}
	return out
}

func (g *Grid) halfW() float64 { return float64(g.width) / 2 }
func (g *Grid) halfH() float64 { return float64(g.height) / 2 }

// WorldToIndex converts a world position to cell indices without clamping.
func (g *Grid) WorldToIndex(pos mathutil.Vec2) (x, y int) {
	return mathutil.FloorToInt(pos.X + g.halfW()), mathutil.FloorToInt(pos.Y + g.halfH())
}

// CellFromWorld returns the cell under a world position. Positions outside
// the grid clamp to the nearest edge cell.
func (g *Grid) CellFromWorld(pos mathutil.Vec2) *Cell {
	if !g.Initialized() {
		return nil
	}
	x, y := g.WorldToIndex(pos)
	x = mathutil.IntClamp(x, 0, g.width-1)
	y = mathutil.IntClamp(y, 0, g.height-1)
	return &g.cells[y*g.width+x]
}

// CellToWorld returns the world position of a cell's minimum corner.
func (g *Grid) CellToWorld(c *Cell) mathutil.Vec2 {
	return g.IndexToWorld(float64(c.X), float64(c.Y))
}

// IndexToWorld converts fractional cell coordinates to a world position.
func (g *Grid) IndexToWorld(x, y float64) mathutil.Vec2 {
	return mathutil.Vec2{X: x - g.halfW(), Y: y - g.halfH()}
}

// SetWorld overwrites the cell under a world position. Unlike CellFromWorld
// it does not clamp: positions outside the grid are ignored.
func (g *Grid) SetWorld(pos mathutil.Vec2, t TerrainType) {
	x, y := g.WorldToIndex(pos)
	g.Set(x, y, t)
}

// SetRegionWorld overwrites every cell touched by a world-space rectangle
// with minimum corner (x, y).
func (g *Grid) SetRegionWorld(x, y, w, h float64, t TerrainType) {
	ix, iy, iw, ih := g.worldRect(x, y, w, h)
	g.SetRegion(ix, iy, iw, ih, t)
}

// RegionIsWorld is RegionIs for a world-space rectangle.
func (g *Grid) RegionIsWorld(x, y, w, h float64, t TerrainType) bool {
	ix, iy, iw, ih := g.worldRect(x, y, w, h)
	return g.RegionIs(ix, iy, iw, ih, t)
}

func (g *Grid) worldRect(x, y, w, h float64) (ix, iy, iw, ih int) {
	iw = mathutil.CeilToInt(x+w) - mathutil.FloorToInt(x)
	ih = mathutil.CeilToInt(y+h) - mathutil.FloorToInt(y)
	ix = int(float64(mathutil.FloorToInt(x)) + g.halfW())
	iy = int(float64(mathutil.FloorToInt(y)) + g.halfH())
	return ix, iy, iw, ih
}

// Snapshot copies the terrain in row-major order.
func (g *Grid) Snapshot() []TerrainType {
	out := make([]TerrainType, len(g.cells))
	for i := range g.cells {
		out[i] = g.cells[i].Type
	}
	return out
}

// Counts tallies cells per terrain type.
func (g *Grid) Counts() map[TerrainType]int {
	out := make(map[TerrainType]int)
	for i := range g.cells {
		out[g.cells[i].Type]++
	}
	return out
}

// String renders the grid with the top row (highest y) first.
func (g *Grid) String() string {
	if !g.Initialized() {
		return ""
	}
	var sb strings.Builder
	sb.Grow((g.width + 1) * g.height)
	for y := g.height - 1; y >= 0; y-- {
		for x := 0; x < g.width; x++ {
			sb.WriteByte(g.cells[y*g.width+x].Type.Glyph())
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
