package town

import (
	"log"
	"math/rand"

	"towngen/internal/bsp"
	"towngen/internal/catalog"
	"towngen/internal/config"
	"towngen/internal/grid"
	"towngen/internal/mathutil"
	"towngen/internal/noise"
	"towngen/internal/placement"
)

const (
	pavementWidth   = 0.8
	plotLampIndent  = 2.2
	outerLampIndent = 1.8
	spurWidth       = 4
	gateClearance   = 8
	gateDepthExtra  = 12
)

// Builder turns a partition into terrain and placement records. All of its
// inputs are passed in; it owns no global state.
type Builder struct {
	cfg    *config.Config
	cat    *catalog.Catalog
	rng    *rand.Rand
	grid   *grid.Grid
	fields noise.Set
	tree   *bsp.Tree

	placements []Placement
	gates      [2]*grid.Cell
	lampposts  int
}

// NewBuilder prepares a build over g. tree is the partition of the area
// inside the border.
func NewBuilder(cfg *config.Config, cat *catalog.Catalog, rng *rand.Rand, g *grid.Grid, fields noise.Set, tree *bsp.Tree) *Builder {
	return &Builder{cfg: cfg, cat: cat, rng: rng, grid: g, fields: fields, tree: tree}
}

// Placements returns the records collected so far.
func (b *Builder) Placements() []Placement { return b.placements }

// Gates returns the grid cells under the two gates.
func (b *Builder) Gates() [2]*grid.Cell { return b.gates }

// Build writes every plot, the border and the scenery. Connections are not
// computed here; the caller does that once the terrain is final.
func (b *Builder) Build() {
	if b.tree == nil || len(b.tree.Leaves) == 0 {
		log.Printf("Warning: build requested without a partition")
		return
	}
	if !b.grid.Initialized() {
		log.Printf("Warning: build requested on an uninitialised grid")
		return
	}
	for _, p := range b.tree.LeafPlots() {
		b.buildPlot(p.Rect)
	}
	b.buildBorder()
	b.scatterTrees()
	b.scatterBushes()
	b.scatterGrass()
}

func (b *Builder) add(kind Kind, variant string, pos, rot, scale mathutil.Vec3) {
	b.placements = append(b.placements, Placement{
		Kind:     kind,
		Variant:  variant,
		Position: pos,
		Rotation: rot,
		Scale:    scale,
	})
}

func (b *Builder) uniform(lo, hi float64) float64 {
	return lo + b.rng.Float64()*(hi-lo)
}

// CellAt implements placement.Site.
func (b *Builder) CellAt(pos mathutil.Vec2) (int, int) {
	c := b.grid.CellFromWorld(pos)
	return c.X, c.Y
}

// Vacant implements placement.Site. Buildings only go on untouched grass,
// so they keep off roads, pavements and each other.
func (b *Builder) Vacant(pb placement.Building) bool {
	x, y, w, h := pb.Footprint()
	return b.grid.RegionIsWorld(x, y, w, h, grid.Grass)
}

// PlaceBuilding implements placement.Site.
func (b *Builder) PlaceBuilding(pb placement.Building) {
	b.add(KindBuilding, pb.Kind.Key, pb.Position.Ground(0), yawOnly(pb.Yaw), pb.Scale)
	x, y, w, h := pb.Footprint()
	b.grid.SetRegionWorld(x, y, w, h, grid.Obstacle)
}

func (b *Builder) walker() *placement.EdgeWalker {
	return &placement.EdgeWalker{
		Kinds:      b.cat.Buildings(),
		Rng:        b.rng,
		Noise:      b.fields.Building,
		NoiseScale: b.cfg.Noise.Building.Scale,
		Threshold:  b.cfg.Noise.Building.Threshold,
		Site:       b,
	}
}

// plotOrigin converts a plot's minimum corner to world space, truncating
// toward zero.
func (b *Builder) plotOrigin(r bsp.Rect) (float64, float64) {
	border := float64(b.cfg.Town.BorderSize)
	x := int(float64(r.X) - float64(b.cfg.Town.Width)/2 + border)
	y := int(float64(r.Y) - float64(b.cfg.Town.Height)/2 + border)
	return float64(x), float64(y)
}

func (b *Builder) buildPlot(r bsp.Rect) {
	border := b.cfg.Town.BorderSize
	x, y := b.plotOrigin(r)
	w, h := float64(r.W), float64(r.H)
	gx, gy := r.X+border, r.Y+border

	// Roads run along the bottom and left edges; the border road covers
	// plots on the outer edge.
	if r.Y != 0 {
		b.add(KindRoad, "", mathutil.Vec3{X: x + w/2, Y: roadElevation, Z: y}, flat, mathutil.Vec3{X: w, Y: 2, Z: 1})
		b.grid.SetRegion(gx, gy-1, r.W, 2, grid.Path)
	}
	if r.X != 0 {
		b.add(KindRoad, "", mathutil.Vec3{X: x, Y: roadElevation, Z: y + h/2}, flat, mathutil.Vec3{X: 2, Y: h, Z: 1})
		b.grid.SetRegion(gx-1, gy, 2, r.H, grid.Path)
	}

	half := pavementWidth / 2
	side := mathutil.Vec3{X: pavementWidth, Y: 1, Z: h - 2}
	across := mathutil.Vec3{X: w - 2, Y: 1, Z: pavementWidth}
	b.add(KindPavement, "", mathutil.Vec3{X: x + 1 + half, Y: pavementElevation, Z: y + h/2}, mathutil.Vec3{}, side)
	b.add(KindPavement, "", mathutil.Vec3{X: x + w - 1 - half, Y: pavementElevation, Z: y + h/2}, mathutil.Vec3{}, side)
	b.add(KindPavement, "", mathutil.Vec3{X: x + w/2, Y: pavementElevation, Z: y + h - 1 - half}, mathutil.Vec3{}, across)
	b.add(KindPavement, "", mathutil.Vec3{X: x + w/2, Y: pavementElevation, Z: y + 1 + half}, mathutil.Vec3{}, across)
	b.grid.SetRegion(gx+1, gy+1, 1, r.H-2, grid.Pavement)
	b.grid.SetRegion(gx+1, gy+r.H-2, r.W-2, 1, grid.Pavement)
	b.grid.SetRegion(gx+r.W-2, gy+1, 1, r.H-2, grid.Pavement)
	b.grid.SetRegion(gx+1, gy+1, r.W-2, 1, grid.Pavement)

	// Buildings go clockwise round the inset area, each edge handing its
	// upcoming kind to the next so corners line up.
	inset := b.cfg.Buildings.PlotInset
	lo := mathutil.Vec2{X: x + inset, Y: y + inset}
	hi := mathutil.Vec2{X: x + w - inset, Y: y + h - inset}
	gapMin, gapMax := b.cfg.Buildings.GapMin, b.cfg.Buildings.GapMax
	ew := b.walker()
	next := ew.Walk(nil, lo, mathutil.Vec2{X: lo.X, Y: hi.Y}, gapMin, gapMax, true, nil)
	next = ew.Walk(next, mathutil.Vec2{X: lo.X, Y: hi.Y}, hi, gapMin, gapMax, true, nil)
	next = ew.Walk(next, hi, mathutil.Vec2{X: hi.X, Y: lo.Y}, gapMin, gapMax, true, nil)
	ew.Walk(next, mathutil.Vec2{X: hi.X, Y: lo.Y}, lo, gapMin, gapMax, true, nil)

	// Corner 0 is bottom left, increasing clockwise.
	corner := b.rng.Intn(4)
	pos := mathutil.Vec2{X: x + plotLampIndent, Y: y + plotLampIndent}
	if corner > 1 {
		pos.X += w - 2*plotLampIndent
	}
	if corner == 1 || corner == 2 {
		pos.Y += h - 2*plotLampIndent
	}
	b.addLamppost(pos, -135+90*float64(corner))
}

func (b *Builder) addLamppost(pos mathutil.Vec2, yaw float64) {
	b.add(KindLamppost, "", pos.Ground(0), yawOnly(yaw), mathutil.One)
	b.grid.SetWorld(pos, grid.Obstacle)
	b.lampposts++
}

func (b *Builder) buildBorder() {
	t := b.cfg.Town
	border := t.BorderSize
	width, height := float64(t.Width), float64(t.Height)
	raw, rah := t.Width-2*border, t.Height-2*border

	b.add(KindRoad, "", mathutil.Vec3{X: -float64(raw) / 2, Y: roadElevation}, flat, mathutil.Vec3{X: 2, Y: float64(rah + 2), Z: 1})
	b.add(KindRoad, "", mathutil.Vec3{X: float64(raw) / 2, Y: roadElevation}, flat, mathutil.Vec3{X: 2, Y: float64(rah + 2), Z: 1})
	b.add(KindRoad, "", mathutil.Vec3{Y: roadElevation, Z: float64(rah / 2)}, flat, mathutil.Vec3{X: float64(raw + 2), Y: 2, Z: 1})
	b.add(KindRoad, "", mathutil.Vec3{Y: roadElevation, Z: -float64(rah / 2)}, flat, mathutil.Vec3{X: float64(raw + 2), Y: 2, Z: 1})
	b.grid.SetRegion(border-1, border-1, 2, rah+2, grid.Path)
	b.grid.SetRegion(t.Width-border-1, border-1, 2, rah+2, grid.Path)
	b.grid.SetRegion(border-1, border-1, raw+2, 2, grid.Path)
	b.grid.SetRegion(border-1, t.Height-border-1, raw+2, 2, grid.Path)

	// Gate 1 sits in the left or right wall, gate 2 in the bottom or top.
	gate1Left := b.rng.Float64() > 0.5
	gate2Bottom := b.rng.Float64() > 0.5
	gate1Pos := mathutil.RandIntRange(b.rng.Intn, int(float64(-(rah/2))*0.8), int(float64(rah/2)*0.8))
	gate2Pos := mathutil.RandIntRange(b.rng.Intn, int(float64(-(raw/2))*0.8), int(float64(raw/2)*0.8))
	side1, side2 := 1.0, 1.0
	if gate1Left {
		side1 = -1
	}
	if gate2Bottom {
		side2 = -1
	}
	g1, g2 := float64(gate1Pos), float64(gate2Pos)
	gate1 := mathutil.Vec2{X: width / 2 * side1, Y: g1}
	gate2 := mathutil.Vec2{X: g2, Y: height / 2 * side2}
	b.add(KindGate, "", gate1.Ground(0), yawOnly(90), mathutil.One)
	b.add(KindGate, "", gate2.Ground(0), yawOnly(0), mathutil.One)
	b.gates = [2]*grid.Cell{b.grid.CellFromWorld(gate1), b.grid.CellFromWorld(gate2)}

	// Buildings line the outside of the border road, kept clear of the
	// gate approaches.
	approach := mathutil.Vec2{X: gateClearance, Y: float64(border + gateDepthExtra)}
	gate1Bounds := mathutil.RotatedBounds(gate1, approach, 90)
	gate2Bounds := mathutil.RotatedBounds(gate2, approach, 0)
	hw, hh := float64(raw/2), float64(rah/2)
	gapMin, gapMax := b.cfg.Buildings.BorderGapMin, b.cfg.Buildings.BorderGapMax
	ew := b.walker()
	ew.Walk(nil, mathutil.Vec2{X: -hw, Y: -hh - 2}, mathutil.Vec2{X: hw, Y: -hh - 2}, gapMin, gapMax, false, &gate2Bounds)
	ew.Walk(nil, mathutil.Vec2{X: hw + 2, Y: -hh}, mathutil.Vec2{X: hw + 2, Y: hh - 2}, gapMin, gapMax, false, &gate1Bounds)
	ew.Walk(nil, mathutil.Vec2{X: hw, Y: hh + 2}, mathutil.Vec2{X: -hw, Y: hh + 2}, gapMin, gapMax, false, &gate2Bounds)
	ew.Walk(nil, mathutil.Vec2{X: -hw - 2, Y: hh}, mathutil.Vec2{X: -hw - 2, Y: -hh}, gapMin, gapMax, false, &gate1Bounds)

	// Each gated wall is two segments either side of the gate; the
	// opposite wall is whole.
	b.addWalls(mathutil.Vec2{X: width / 2 * side1}, height, g1, 90, true)
	b.addWalls(mathutil.Vec2{Y: height / 2 * side2}, width, g2, 0, false)

	// Spur roads run from the wall ring through the border to the border
	// road, opening the ring at each gate.
	b.add(KindRoad, "", mathutil.Vec3{X: (width/2 - float64(border)/2) * side1, Y: roadElevation, Z: g1}, flat, mathutil.Vec3{X: float64(border), Y: spurWidth, Z: 1})
	b.add(KindRoad, "", mathutil.Vec3{X: g2, Y: roadElevation, Z: (height/2 - float64(border)/2) * side2}, flat, mathutil.Vec3{X: spurWidth, Y: float64(border), Z: 1})
	spur1X, spur2Y := t.Width-border, t.Height-border
	if gate1Left {
		spur1X = 0
	}
	if gate2Bottom {
		spur2Y = 0
	}
	b.grid.SetRegion(spur1X, gate1Pos+t.Height/2-spurWidth/2, border, spurWidth, grid.Path)
	b.grid.SetRegion(gate2Pos+t.Width/2-spurWidth/2, spur2Y, spurWidth, border, grid.Path)

	b.add(KindWallCorner, "", mathutil.Vec3{X: -width / 2, Z: -height / 2}, yawOnly(90), mathutil.One)
	b.add(KindWallCorner, "", mathutil.Vec3{X: width / 2, Z: -height / 2}, yawOnly(0), mathutil.One)
	b.add(KindWallCorner, "", mathutil.Vec3{X: width / 2, Z: height / 2}, yawOnly(-90), mathutil.One)
	b.add(KindWallCorner, "", mathutil.Vec3{X: -width / 2, Z: height / 2}, yawOnly(180), mathutil.One)

	for i := 0; i < 4; i++ {
		pos := mathutil.Vec2{
			X: -float64(raw)/2 - outerLampIndent,
			Y: -float64(rah)/2 - outerLampIndent,
		}
		if i > 1 {
			pos.X += float64(raw) + 2*outerLampIndent
		}
		if i == 1 || i == 2 {
			pos.Y += float64(rah) + 2*outerLampIndent
		}
		b.addLamppost(pos, 45+90*float64(i))
	}
}

// addWalls records the wall on the gated side, split around the gate at
// offset gatePos along it, and the whole wall opposite. at is the centre of
// the gated wall; length is the full extent the walls run along.
func (b *Builder) addWalls(at mathutil.Vec2, length, gatePos, yaw float64, vertical bool) {
	along := func(base mathutil.Vec2, d float64) mathutil.Vec3 {
		if vertical {
			return mathutil.Vec3{X: base.X, Z: d}
		}
		return mathutil.Vec3{X: d, Z: base.Y}
	}
	half := length / 2
	rot := yawOnly(yaw)
	b.add(KindWall, "", along(at, (-half+gatePos)/2-1), rot, mathutil.Vec3{X: half + gatePos - 4, Y: 1, Z: 1})
	b.add(KindWall, "", along(at, (half+gatePos)/2+1), rot, mathutil.Vec3{X: half - gatePos - 4, Y: 1, Z: 1})
	b.add(KindWall, "", along(at.Scale(-1), 0), rot, mathutil.Vec3{X: length - 2, Y: 1, Z: 1})
}

// scatterTrees plants on a 2x2 stride where the whole square is grass.
func (b *Builder) scatterTrees() {
	g := b.grid
	layer := b.cfg.Noise.Tree
	trees := b.cat.Trees()
	for j := 0; j < g.Height(); j += 2 {
		for i := 0; i < g.Width(); i += 2 {
			if !g.RegionIs(i, j, 2, 2, grid.Grass) {
				continue
			}
			if noise.Scaled(b.fields.Tree, i, j, layer.Scale) <= layer.Threshold {
				continue
			}
			pos := b.jitteredCell(i, j)
			variant := trees[b.rng.Intn(len(trees))]
			yaw := b.uniform(0, 360)
			scale := b.uniform(1, 3)
			b.add(KindTree, variant, pos.Ground(0), yawOnly(yaw), uniformScale(scale))
			g.Set(i, j, grid.Obstacle)
		}
	}
}

func (b *Builder) scatterBushes() {
	g := b.grid
	layer := b.cfg.Noise.Bush
	bushes := b.cat.Bushes()
	for j := 0; j < g.Height(); j++ {
		for i := 0; i < g.Width(); i++ {
			if g.Type(i, j) != grid.Grass {
				continue
			}
			if noise.Scaled(b.fields.Bush, i, j, layer.Scale) <= layer.Threshold {
				continue
			}
			pos := b.jitteredCell(i, j)
			variant := bushes[b.rng.Intn(len(bushes))]
			yaw := b.uniform(0, 360)
			// The nudge is in the bush's own frame.
			nudge := mathutil.Vec2{X: b.uniform(-0.25, 0.25), Y: b.uniform(-0.25, 0.25)}
			pos = pos.Add(mathutil.RotateYaw(nudge, yaw))
			scale := b.uniform(0.7, 1.3)
			b.add(KindBush, variant, pos.Ground(0), yawOnly(yaw), uniformScale(scale))
			g.Set(i, j, grid.Obstacle)
		}
	}
}

// scatterGrass adds decorative tufts only; the terrain is unchanged.
func (b *Builder) scatterGrass() {
	g := b.grid
	layer := b.cfg.Noise.Grass
	for j := 0; j < g.Height(); j++ {
		for i := 0; i < g.Width(); i++ {
			if g.Type(i, j) != grid.Grass {
				continue
			}
			v := noise.Scaled(b.fields.Grass, i, j, layer.Scale)
			tufts := 0
			if v > layer.ThresholdSmall {
				tufts = 1
			}
			if v > layer.ThresholdBig {
				tufts = 2
			}
			for n := 0; n < tufts; n++ {
				pos := b.jitteredCell(i, j)
				yaw := b.uniform(0, 360)
				scale := b.uniform(0.8, 2.0)
				b.add(KindGrass, "", pos.Ground(0), yawOnly(yaw), uniformScale(scale))
			}
		}
	}
}

// jitteredCell draws a random point inside cell (i, j), away from its edges.
func (b *Builder) jitteredCell(i, j int) mathutil.Vec2 {
	ox := b.uniform(0.2, 0.8)
	oy := b.uniform(0.2, 0.8)
	return b.grid.IndexToWorld(float64(i)+ox, float64(j)+oy)
}
