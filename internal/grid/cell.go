package grid

// TerrainType is the walkability class of a cell.
type TerrainType int

const (
	Path     TerrainType = iota // road surface
	Pavement                    // walkway beside roads
	Grass                       // open ground, walkable but slow
	Obstacle                    // never connected
)

var terrainNames = [...]string{
	Path:     "path",
	Pavement: "pavement",
	Grass:    "grass",
	Obstacle: "obstacle",
}

var terrainGlyphs = [...]byte{
	Path:     '=',
	Pavement: '-',
	Grass:    '.',
	Obstacle: '#',
}

func (t TerrainType) String() string {
	if t < 0 || int(t) >= len(terrainNames) {
		return "unknown"
	}
	return terrainNames[t]
}

// Glyph is the single character used by the ASCII dump.
func (t TerrainType) Glyph() byte {
	if t < 0 || int(t) >= len(terrainGlyphs) {
		return '?'
	}
	return terrainGlyphs[t]
}

// Cost is the movement cost of entering a cell of this type. Obstacle cells
// are never connected, so their cost is never read.
func (t TerrainType) Cost() float64 {
	switch t {
	case Grass:
		return 6
	case Path:
		return 2
	default:
		return 0
	}
}

// Walkable reports whether cells of this type take part in adjacency.
func (t TerrainType) Walkable() bool { return t != Obstacle }

// IsRoad reports whether NPCs may pick cells of this type as targets.
func (t TerrainType) IsRoad() bool { return t == Path || t == Pavement }

// Cell is one unit of the grid.
type Cell struct {
	X, Y int
	Type TerrainType

	// Neighbors holds the walkable cells of the Moore neighbourhood. It is
	// only valid after Grid.ComputeConnections.
	Neighbors []*Cell
}

// Cost returns the movement cost of the cell's terrain.
func (c *Cell) Cost() float64 { return c.Type.Cost() }

// IsNeighbor reports whether o is in c's adjacency list.
func (c *Cell) IsNeighbor(o *Cell) bool {
	for _, n := range c.Neighbors {
		if n == o {
			return true
		}
	}
	return false
}
