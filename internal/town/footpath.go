package town

import (
	"image"

	"towngen/internal/grid"
	"towngen/internal/mathutil"
	"towngen/internal/placement"
)

// Footpath lays footpath records along a walked path, one per straight
// run. Each record sits on the run's midpoint, faces along it and spans
// its length plus one cell.
func (t *Town) Footpath(path []*grid.Cell) []Placement {
	points := make([]image.Point, 0, len(path))
	for _, c := range path {
		if c != nil {
			points = append(points, image.Pt(c.X, c.Y))
		}
	}
	var out []Placement
	for _, seg := range placement.ReducePath(points) {
		mid := t.Grid.IndexToWorld(
			float64(seg.From.X+seg.To.X)/2+0.5,
			float64(seg.From.Y+seg.To.Y)/2+0.5,
		)
		d := seg.Delta()
		dir := mathutil.Vec2{X: float64(d.X), Y: float64(d.Y)}
		out = append(out, Placement{
			Kind:     KindFootpath,
			Position: mid.Ground(footpathElevation),
			Rotation: mathutil.Vec3{X: 90, Y: mathutil.Yaw(dir)},
			Scale:    mathutil.Vec3{X: 1, Y: dir.Len() + 1, Z: 1},
		})
	}
	return out
}
