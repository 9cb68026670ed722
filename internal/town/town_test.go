package town

import (
	"bytes"
	"log"
	"math"
	"math/rand"
	"os"
	"reflect"
	"strings"
	"sync"
	"testing"

	"towngen/internal/bsp"
	"towngen/internal/catalog"
	"towngen/internal/config"
	"towngen/internal/grid"
	"towngen/internal/mathutil"
	"towngen/internal/noise"
	"towngen/internal/placement"
)

func newTown(t *testing.T, seed int64) *Town {
	t.Helper()
	tw, err := New(config.Default(), catalog.Default(), seed)
	if err != nil {
		t.Fatalf("New(seed=%d): %v", seed, err)
	}
	return tw
}

func TestGenerateDeterministic(t *testing.T) {
	a := newTown(t, 42)
	b := newTown(t, 42)

	if !reflect.DeepEqual(a.Grid.Snapshot(), b.Grid.Snapshot()) {
		t.Fatal("same seed produced different terrain")
	}
	if !reflect.DeepEqual(a.Placements, b.Placements) {
		t.Fatal("same seed produced different placements")
	}
	if a.ID != b.ID {
		t.Fatalf("same seed produced ids %s and %s", a.ID, b.ID)
	}

	c := newTown(t, 43)
	if reflect.DeepEqual(a.Grid.Snapshot(), c.Grid.Snapshot()) {
		t.Error("seeds 42 and 43 produced identical terrain")
	}
	if a.ID == c.ID {
		t.Error("seeds 42 and 43 share an id")
	}
}

func TestBorderRing(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		checkRing(t, newTown(t, seed))
	}
}

func TestThinBorderRing(t *testing.T) {
	cfg := config.Default()
	cfg.Town.BorderSize = 4
	if _, err := New(cfg, catalog.Default(), 3); err == nil {
		t.Fatal("built a town whose border cannot hold the catalog")
	}

	huts, err := catalog.New(catalog.File{Buildings: []catalog.Building{{Key: "hut", Width: 1, Depth: 1}}})
	if err != nil {
		t.Fatal(err)
	}
	for seed := int64(1); seed <= 5; seed++ {
		tw, err := New(cfg, huts, seed)
		if err != nil {
			t.Fatalf("New(seed=%d): %v", seed, err)
		}
		checkRing(t, tw)
	}
}

// checkRing asserts the wall ring is only open at the two gate spurs.
func checkRing(t *testing.T, tw *Town) {
	t.Helper()
	g := tw.Grid
	open := 0
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			onRing := x == 0 || y == 0 || x == g.Width()-1 || y == g.Height()-1
			if !onRing || g.Type(x, y) == grid.Obstacle {
				continue
			}
			open++
			if g.Type(x, y) != grid.Path {
				t.Fatalf("seed %d: ring cell (%d,%d) is %v", tw.Seed, x, y, g.Type(x, y))
			}
			if !nearGate(tw, x, y) {
				t.Fatalf("seed %d: ring cell (%d,%d) open away from the gates", tw.Seed, x, y)
			}
		}
	}
	// Each gate opens a spur four cells wide.
	if open != 2*spurWidth {
		t.Errorf("seed %d: %d open ring cells, want %d", tw.Seed, open, 2*spurWidth)
	}
}

func nearGate(tw *Town, x, y int) bool {
	for _, g := range tw.Gates {
		if mathutil.IntAbs(g.X-x) <= 2 && mathutil.IntAbs(g.Y-y) <= 2 {
			return true
		}
	}
	return false
}

func TestGatesReachable(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		tw := newTown(t, seed)
		for i, gate := range tw.Gates {
			if gate == nil {
				t.Fatalf("seed %d: gate %d missing", seed, i)
			}
			if gate.Type != grid.Path {
				t.Fatalf("seed %d: gate %d on %v", seed, i, gate.Type)
			}
		}
		if !tw.GatesConnected() {
			t.Fatalf("seed %d: gates are not connected", seed)
		}
		reach := tw.Reachable(tw.Gates[0])
		for _, c := range tw.Grid.RoadCells() {
			if c.Type == grid.Path && !reach.Has(c) {
				t.Fatalf("seed %d: road cell (%d,%d) unreachable from the gate", seed, c.X, c.Y)
			}
		}
	}
}

func TestAdjacencySymmetric(t *testing.T) {
	tw := newTown(t, 7)
	g := tw.Grid
	if !g.Connected() {
		t.Fatal("connections were not computed")
	}
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			c := g.Cell(x, y)
			for _, n := range c.Neighbors {
				if n.Type == grid.Obstacle {
					t.Fatalf("(%d,%d) links to obstacle (%d,%d)", x, y, n.X, n.Y)
				}
				if c.Type != grid.Obstacle && !n.IsNeighbor(c) {
					t.Fatalf("(%d,%d) -> (%d,%d) has no reverse link", x, y, n.X, n.Y)
				}
			}
		}
	}
}

func TestPlacementCounts(t *testing.T) {
	tw := newTown(t, 42)
	counts := tw.CountByKind()

	if got, want := tw.Lampposts, len(tw.Tree.Leaves)+4; got != want {
		t.Errorf("lampposts %d, want %d", got, want)
	}
	if counts[KindLamppost] != tw.Lampposts {
		t.Errorf("lamppost records %d, counted %d", counts[KindLamppost], tw.Lampposts)
	}
	if counts[KindPavement] != 4*len(tw.Tree.Leaves) {
		t.Errorf("pavements %d, want %d", counts[KindPavement], 4*len(tw.Tree.Leaves))
	}
	if counts[KindGate] != 2 || counts[KindWallCorner] != 4 || counts[KindWall] != 6 {
		t.Errorf("gates %d, corners %d, walls %d", counts[KindGate], counts[KindWallCorner], counts[KindWall])
	}
	if counts[KindBuilding] == 0 {
		t.Error("no buildings placed")
	}
	if got := len(tw.PlacementsOfKind(KindBuilding)); got != counts[KindBuilding] {
		t.Errorf("PlacementsOfKind gave %d buildings, counted %d", got, counts[KindBuilding])
	}
	for _, p := range tw.PlacementsOfKind(KindBuilding) {
		if _, ok := catalog.Default().Building(p.Variant); !ok {
			t.Fatalf("building variant %q not in the catalog", p.Variant)
		}
	}
}

func TestBuildingsClaimTheirFootprint(t *testing.T) {
	tw := newTown(t, 42)
	cat := catalog.Default()
	for _, p := range tw.PlacementsOfKind(KindBuilding) {
		kind, _ := cat.Building(p.Variant)
		pos := p.Position.Flat()
		c := tw.Grid.CellFromWorld(pos)
		if c.Type != grid.Obstacle {
			t.Fatalf("%s at %v stands on %v", kind.Key, pos, c.Type)
		}
	}
}

func TestBuildingsDoNotOverlap(t *testing.T) {
	cat := catalog.Default()
	type rect struct{ x0, y0, x1, y1 float64 }
	for seed := int64(0); seed < 60; seed++ {
		tw := newTown(t, seed)
		var rects []rect
		for _, p := range tw.PlacementsOfKind(KindBuilding) {
			kind, _ := cat.Building(p.Variant)
			b := placement.Building{Kind: kind, Position: p.Position.Flat(), Yaw: p.Yaw()}
			x, y, w, h := b.Footprint()
			rects = append(rects, rect{x, y, x + w, y + h})
		}
		for i := range rects {
			for j := i + 1; j < len(rects); j++ {
				a, b := rects[i], rects[j]
				if a.x0 < b.x1 && b.x0 < a.x1 && a.y0 < b.y1 && b.y0 < a.y1 {
					t.Fatalf("seed %d: buildings %+v and %+v overlap", seed, a, b)
				}
			}
		}
	}
}

func TestBuildingsKeepOffRoads(t *testing.T) {
	tw := newTown(t, 11)
	cat := catalog.Default()
	for _, p := range tw.PlacementsOfKind(KindBuilding) {
		kind, _ := cat.Building(p.Variant)
		b := placement.Building{Kind: kind, Position: p.Position.Flat(), Yaw: p.Yaw()}
		x, y, w, h := b.Footprint()
		for _, c := range []mathutil.Vec2{{X: x + 0.01, Y: y + 0.01}, {X: x + w - 0.01, Y: y + h - 0.01}} {
			if tw.Grid.CellFromWorld(c).Type.IsRoad() {
				t.Fatalf("%s at %v reaches a road", kind.Key, p.Position)
			}
		}
	}
}

func TestBuildWithoutPartition(t *testing.T) {
	cfg := config.Default()
	g := grid.New(cfg.GetTownWidth(), cfg.GetTownHeight())
	before := g.Snapshot()
	fields := noise.Set{Tree: noise.Constant(1), Bush: noise.Constant(1), Grass: noise.Constant(1), Building: noise.Constant(1)}

	b := NewBuilder(cfg, catalog.Default(), rand.New(rand.NewSource(1)), g, fields, nil)
	b.Build()

	if len(b.Placements()) != 0 {
		t.Fatalf("build without partition placed %d objects", len(b.Placements()))
	}
	if !reflect.DeepEqual(before, g.Snapshot()) {
		t.Fatal("build without partition changed the terrain")
	}
}

func TestBuildOnUninitialisedGrid(t *testing.T) {
	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	cfg := config.Default()
	rng := rand.New(rand.NewSource(1))
	tree := bsp.Partition(rng, cfg.GetRoadAreaWidth(), cfg.GetRoadAreaHeight(), cfg.GetPartitionOptions())
	fields := noise.Set{Tree: noise.Constant(1), Bush: noise.Constant(1), Grass: noise.Constant(1), Building: noise.Constant(1)}

	b := NewBuilder(cfg, catalog.Default(), rng, &grid.Grid{}, fields, tree)
	b.Build()

	if len(b.Placements()) != 0 {
		t.Fatalf("build on an empty grid placed %d objects", len(b.Placements()))
	}
	if !strings.Contains(buf.String(), "uninitialised grid") {
		t.Fatalf("log %q does not name the grid", buf.String())
	}
}

func TestFootpath(t *testing.T) {
	tw := newTown(t, 42)
	g := tw.Grid
	path := []*grid.Cell{g.Cell(10, 10), g.Cell(11, 10), g.Cell(12, 10), g.Cell(12, 11), g.Cell(12, 12)}

	recs := tw.Footpath(path)
	if len(recs) != 2 {
		t.Fatalf("%d footpath records, want 2", len(recs))
	}
	first := recs[0]
	want := g.IndexToWorld(11.5, 10.5)
	if first.Position.Flat() != want {
		t.Errorf("first footpath at %v, want %v", first.Position.Flat(), want)
	}
	if math.Abs(first.Yaw()-90) > 1e-9 || first.Scale.Y != 3 {
		t.Errorf("first footpath yaw %v length %v, want 90 and 3", first.Yaw(), first.Scale.Y)
	}
	if second := recs[1]; math.Abs(second.Yaw()) > 1e-9 {
		t.Errorf("second footpath yaw %v, want 0", second.Yaw())
	}

	if got := tw.Footpath(path[:1]); got != nil {
		t.Errorf("single cell gave %d records", len(got))
	}
}

func TestGeneratorPublishes(t *testing.T) {
	cfg := config.Default()
	seed := int64(5)
	cfg.Town.Seed = &seed
	gen := NewGenerator(cfg, catalog.Default())

	if gen.Current() != nil {
		t.Fatal("town published before any generation")
	}
	tw, err := gen.Generate(nil)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if tw.Seed != 5 {
		t.Errorf("seed %d, want the configured 5", tw.Seed)
	}
	if gen.Current() != tw {
		t.Error("Current does not return the generated town")
	}

	explicit := int64(9)
	tw2, err := gen.Generate(&explicit)
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if tw2.Seed != 9 || gen.Current() != tw2 {
		t.Errorf("explicit seed not used or not published: seed %d", tw2.Seed)
	}
}

func TestGeneratorConcurrentReaders(t *testing.T) {
	gen := NewGenerator(config.Default(), catalog.Default())
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func(seed int64) {
			defer wg.Done()
			if _, err := gen.Generate(&seed); err != nil {
				t.Errorf("Generate(%d): %v", seed, err)
			}
		}(int64(i))
		wg.Add(1)
		go func() {
			defer wg.Done()
			if tw := gen.Current(); tw != nil && !tw.Grid.Connected() {
				t.Error("published town without connections")
			}
		}()
	}
	wg.Wait()
	if gen.Current() == nil {
		t.Fatal("nothing published")
	}
}
