// Package placement holds the procedural placement helpers the town
// builder drives: lining buildings up along an edge and reducing walked
// paths to straight footpath segments.
package placement

import (
	"math/rand"

	"towngen/internal/catalog"
	"towngen/internal/mathutil"
	"towngen/internal/noise"
)

// Site is where an EdgeWalker puts its buildings.
type Site interface {
	// CellAt returns the grid cell under a world position, clamped.
	CellAt(pos mathutil.Vec2) (x, y int)
	// Vacant reports whether b's footprint is still free to build on.
	Vacant(b Building) bool
	// PlaceBuilding records a building and claims its footprint.
	PlaceBuilding(b Building)
}

// Building is a placed building: its centre, its heading and a per-axis
// scale jitter.
type Building struct {
	Kind     catalog.Building
	Position mathutil.Vec2
	Yaw      float64
	Scale    mathutil.Vec3
}

// Footprint returns the world-space rectangle (minimum corner, size) the
// building covers. The jittered scale is ignored: footprints use the
// catalog size so neighbours never overlap.
func (b Building) Footprint() (x, y, w, h float64) {
	w, h = b.Kind.Width, b.Kind.Depth
	if mathutil.QuarterTurned(b.Yaw) {
		w, h = h, w
	}
	return b.Position.X - w/2, b.Position.Y - h/2, w, h
}

// EdgeWalker lines buildings up along a straight edge, leaving random gaps
// and skipping sites that are excluded, already claimed, or where the
// placement noise is low.
type EdgeWalker struct {
	Kinds      []catalog.Building
	Rng        *rand.Rand
	Noise      noise.Field
	NoiseScale float64
	Threshold  float64
	Site       Site
}

func (w *EdgeWalker) pick() *catalog.Building {
	return &w.Kinds[w.Rng.Intn(len(w.Kinds))]
}

func (w *EdgeWalker) uniform(lo, hi float64) float64 {
	return lo + w.Rng.Float64()*(hi-lo)
}

// Walk places buildings from start to end. Buildings sit on the right-hand
// side of the walking direction. first is the kind to try first; nil draws
// one. With leaveGapForLast the walk keeps room at the end for the depth of
// the kind that would come next, so a following edge that turns the corner
// does not collide. Sites inside exclude, and sites the Site reports as not
// vacant, are skipped but still advance the cursor.
//
// The returned kind is the next one in the random sequence, not yet placed,
// so a following edge can continue without a seam.
func (w *EdgeWalker) Walk(first *catalog.Building, start, end mathutil.Vec2, gapMin, gapMax float64, leaveGapForLast bool, exclude *mathutil.Bounds) *catalog.Building {
	if len(w.Kinds) == 0 {
		return nil
	}
	edge := end.Sub(start)
	edgeLength := edge.Len()
	dir := edge.Normalized()
	yaw := mathutil.Yaw(dir)

	if first == nil {
		first = w.pick()
	}
	next := first

	dist := 0.0
	for dist < edgeLength {
		cur := next
		next = w.pick()

		length := edgeLength
		if leaveGapForLast {
			length -= next.Depth
		}

		if dist+cur.Width <= length {
			offset := mathutil.RotateYaw(mathutil.Vec2{X: cur.Depth / 2, Y: cur.Width / 2}, yaw)
			pos := start.Add(dir.Scale(dist)).Add(offset)
			cx, cy := w.Site.CellAt(pos)
			value := noise.Scaled(w.Noise, cx, cy, w.NoiseScale)
			site := Building{Kind: *cur, Position: pos, Yaw: yaw + 90}
			if !exclude.Contains(pos) && value > w.Threshold && w.Site.Vacant(site) {
				site.Scale = mathutil.Vec3{
					X: w.uniform(0.9, 1.1),
					Y: w.uniform(0.9, 1.1),
					Z: w.uniform(0.9, 1.1),
				}
				w.Site.PlaceBuilding(site)
			}
		}

		step := cur.Width + w.uniform(gapMin, gapMax)
		if step <= 0 {
			break
		}
		dist += step
	}
	return next
}
