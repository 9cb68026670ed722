package mathutil

import (
	"math"
	"testing"
)

func near(a, b Vec2) bool {
	return math.Abs(a.X-b.X) < 1e-9 && math.Abs(a.Y-b.Y) < 1e-9
}

func TestRounding(t *testing.T) {
	cases := []struct {
		in          float64
		floor, ceil int
	}{
		{1.5, 1, 2},
		{-1.5, -2, -1},
		{2, 2, 2},
		{-0.2, -1, 0},
	}
	for _, tc := range cases {
		if got := FloorToInt(tc.in); got != tc.floor {
			t.Errorf("FloorToInt(%v) = %d, want %d", tc.in, got, tc.floor)
		}
		if got := CeilToInt(tc.in); got != tc.ceil {
			t.Errorf("CeilToInt(%v) = %d, want %d", tc.in, got, tc.ceil)
		}
	}
	if IntClamp(-3, 0, 9) != 0 || IntClamp(12, 0, 9) != 9 || IntClamp(4, 0, 9) != 4 {
		t.Error("IntClamp out of range")
	}
	if IntAbs(-7) != 7 || IntAbs(7) != 7 {
		t.Error("IntAbs wrong")
	}
}

func TestRandIntRange(t *testing.T) {
	calls := 0
	intn := func(n int) int {
		calls++
		return n - 1
	}
	if got := RandIntRange(intn, -4, 4); got != 3 {
		t.Fatalf("RandIntRange = %d, want 3", got)
	}
	if got := RandIntRange(intn, 5, 5); got != 5 {
		t.Fatalf("empty range = %d, want 5", got)
	}
	if calls != 1 {
		t.Fatalf("intn called %d times, want 1", calls)
	}
}

func TestYaw(t *testing.T) {
	cases := []struct {
		dir  Vec2
		want float64
	}{
		{Vec2{0, 1}, 0},
		{Vec2{1, 0}, 90},
		{Vec2{0, -1}, 180},
		{Vec2{-1, 0}, -90},
		{Vec2{}, 0},
	}
	for _, tc := range cases {
		if got := Yaw(tc.dir); math.Abs(got-tc.want) > 1e-9 {
			t.Errorf("Yaw(%v) = %v, want %v", tc.dir, got, tc.want)
		}
	}
}

func TestRotateYaw(t *testing.T) {
	// Turning +Z by 90 degrees faces +X, matching Yaw.
	if got := RotateYaw(Vec2{0, 1}, 90); !near(got, Vec2{1, 0}) {
		t.Fatalf("RotateYaw(+Z, 90) = %v", got)
	}
	if got := RotateYaw(Vec2{1, 0}, 90); !near(got, Vec2{0, -1}) {
		t.Fatalf("RotateYaw(+X, 90) = %v", got)
	}
	v := Vec2{3, -2}
	if got := RotateYaw(RotateYaw(v, 37), -37); !near(got, v) {
		t.Fatalf("rotation does not invert: %v", got)
	}
}

func TestQuarterTurned(t *testing.T) {
	for yaw, want := range map[float64]bool{0: false, 90: true, 180: false, 270: true, -90: true, 360: false} {
		if got := QuarterTurned(yaw); got != want {
			t.Errorf("QuarterTurned(%v) = %v, want %v", yaw, got, want)
		}
	}
}

func TestBounds(t *testing.T) {
	b := RotatedBounds(Vec2{10, 0}, Vec2{8, 20}, 90)
	if !near(b.Size, Vec2{20, 8}) {
		t.Fatalf("rotated size %v, want (20, 8)", b.Size)
	}
	if !b.Contains(Vec2{0, 4}) || !b.Contains(Vec2{19.9, -3}) {
		t.Error("point on or inside the edge not contained")
	}
	if b.Contains(Vec2{10, 4.5}) {
		t.Error("point outside contained")
	}
	var none *Bounds
	if none.Contains(Vec2{}) {
		t.Error("nil bounds contain a point")
	}
}

func TestVec(t *testing.T) {
	v := Vec2{3, 4}
	if v.Len() != 5 {
		t.Fatalf("Len = %v", v.Len())
	}
	if !near(v.Normalized(), Vec2{0.6, 0.8}) {
		t.Fatalf("Normalized = %v", v.Normalized())
	}
	if (Vec2{}).Normalized() != (Vec2{}) {
		t.Fatal("zero vector normalised to non-zero")
	}
	g := v.Ground(2)
	if g != (Vec3{3, 2, 4}) || g.Flat() != v {
		t.Fatalf("Ground/Flat = %v", g)
	}
}
