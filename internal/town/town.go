// Package town generates a walled town: plots, roads, buildings, scenery
// and the walkable grid that describes them.
package town

import (
	"fmt"
	"time"

	"towngen/internal/bsp"
	"towngen/internal/grid"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
)

// Town is one finished generation. It is never modified after it is
// returned.
type Town struct {
	ID         uuid.UUID
	Seed       int64
	Tree       *bsp.Tree
	Grid       *grid.Grid
	Placements []Placement
	Gates      [2]*grid.Cell
	Lampposts  int
	Elapsed    time.Duration
}

// townID derives a stable identifier from everything that determines the
// layout's extent and randomness.
func townID(seed int64, width, height int) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("towngen/%d/%dx%d", seed, width, height)))
}

// PlacementsOfKind returns the placements of one kind in generation order.
func (t *Town) PlacementsOfKind(kind Kind) []Placement {
	var out []Placement
	for _, p := range t.Placements {
		if p.Kind == kind {
			out = append(out, p)
		}
	}
	return out
}

// CountByKind tallies placements per kind.
func (t *Town) CountByKind() map[Kind]int {
	out := make(map[Kind]int)
	for _, p := range t.Placements {
		out[p.Kind]++
	}
	return out
}

// Reachable returns every cell reachable from start over the neighbour
// graph, start included. A nil start reaches nothing.
func (t *Town) Reachable(start *grid.Cell) mapset.Set[*grid.Cell] {
	seen := mapset.New[*grid.Cell]()
	if start == nil {
		return seen
	}
	seen.Put(start)
	queue := []*grid.Cell{start}
	for len(queue) > 0 {
		c := queue[0]
		queue = queue[1:]
		for _, n := range c.Neighbors {
			if !seen.Has(n) {
				seen.Put(n)
				queue = append(queue, n)
			}
		}
	}
	return seen
}

// GatesConnected reports whether the second gate can be walked to from the
// first.
func (t *Town) GatesConnected() bool {
	if t.Gates[0] == nil || t.Gates[1] == nil {
		return false
	}
	return t.Reachable(t.Gates[0]).Has(t.Gates[1])
}
