package mathutil

import "math"

// Vec2 is a point on the ground plane. Y is the world Z axis.
type Vec2 struct {
	X, Y float64
}

// Vec3 is a world position: X and Z span the ground plane, Y is elevation.
type Vec3 struct {
	X, Y, Z float64
}

// One is the unit scale.
var One = Vec3{1, 1, 1}

func (v Vec2) Add(o Vec2) Vec2 { return Vec2{v.X + o.X, v.Y + o.Y} }

func (v Vec2) Sub(o Vec2) Vec2 { return Vec2{v.X - o.X, v.Y - o.Y} }

func (v Vec2) Scale(s float64) Vec2 { return Vec2{v.X * s, v.Y * s} }

func (v Vec2) Len() float64 { return math.Hypot(v.X, v.Y) }

// Normalized returns the unit vector, or the zero vector for zero input.
func (v Vec2) Normalized() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{v.X / l, v.Y / l}
}

// Ground lifts a ground point to a world position at elevation y.
func (v Vec2) Ground(y float64) Vec3 { return Vec3{v.X, y, v.Y} }

// Flat drops the elevation.
func (v Vec3) Flat() Vec2 { return Vec2{v.X, v.Z} }

// Yaw returns the heading of dir in degrees, clockwise from +Z when seen
// from above. A zero direction faces +Z.
func Yaw(dir Vec2) float64 {
	if dir.X == 0 && dir.Y == 0 {
		return 0
	}
	return math.Atan2(dir.X, dir.Y) * 180 / math.Pi
}

// RotateYaw turns a ground vector by deg degrees about the vertical axis.
func RotateYaw(v Vec2, deg float64) Vec2 {
	r := deg * math.Pi / 180
	s, c := math.Sincos(r)
	return Vec2{
		X: v.X*c + v.Y*s,
		Y: -v.X*s + v.Y*c,
	}
}

// QuarterTurned reports whether yaw is not a multiple of 180 degrees, i.e.
// a footprint rotated by it swaps its width and depth.
func QuarterTurned(yaw float64) bool {
	return math.Mod(math.Abs(math.Round(yaw)), 180) != 0
}

// Bounds is an axis-aligned box on the ground plane.
type Bounds struct {
	Center Vec2
	Size   Vec2
}

// RotatedBounds builds bounds of the given size turned by yaw, keeping the
// box axis-aligned.
func RotatedBounds(center, size Vec2, yaw float64) Bounds {
	r := RotateYaw(size, yaw)
	return Bounds{Center: center, Size: Vec2{math.Abs(r.X), math.Abs(r.Y)}}
}

func (b Bounds) Min() Vec2 { return b.Center.Sub(b.Size.Scale(0.5)) }

func (b Bounds) Max() Vec2 { return b.Center.Add(b.Size.Scale(0.5)) }

// Contains is inclusive on every edge. A nil receiver contains nothing.
func (b *Bounds) Contains(p Vec2) bool {
	if b == nil {
		return false
	}
	lo, hi := b.Min(), b.Max()
	const eps = 1e-9
	return p.X >= lo.X-eps && p.X <= hi.X+eps && p.Y >= lo.Y-eps && p.Y <= hi.Y+eps
}
