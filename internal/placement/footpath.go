package placement

import (
	"image"

	"towngen/internal/mathutil"
)

// Segment is a straight run between two grid points, both inclusive.
type Segment struct {
	From, To image.Point
}

// Delta is To minus From.
func (s Segment) Delta() image.Point { return s.To.Sub(s.From) }

// ReducePath collapses a walked path into the fewest straight segments.
// Consecutive steps in the same direction share a segment; a turn closes
// the running segment at the corner and starts the next one there.
// Repeated points are skipped. Fewer than two points give no segments.
func ReducePath(points []image.Point) []Segment {
	if len(points) < 2 {
		return nil
	}
	var out []Segment
	start := points[0]
	prev := start
	var last image.Point
	for _, p := range points[1:] {
		dir := direction(p.Sub(prev))
		if dir == (image.Point{}) {
			continue
		}
		if last != (image.Point{}) && dir != last {
			out = append(out, Segment{From: start, To: prev})
			start = prev
		}
		last = dir
		prev = p
	}
	if prev != start {
		out = append(out, Segment{From: start, To: prev})
	}
	return out
}

// direction reduces a step to its primitive vector, so two steps compare
// equal exactly when their normalised directions do.
func direction(d image.Point) image.Point {
	g := gcd(mathutil.IntAbs(d.X), mathutil.IntAbs(d.Y))
	if g == 0 {
		return image.Point{}
	}
	return image.Point{X: d.X / g, Y: d.Y / g}
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}
