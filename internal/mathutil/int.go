// Package mathutil has the small numeric helpers shared by the generator:
// integer rounding, ground-plane vectors and yaw rotation.
package mathutil

import "math"

// IntAbs returns the absolute value of x.
func IntAbs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// IntClamp limits x to [lo, hi].
func IntClamp(x, lo, hi int) int {
	return max(lo, min(x, hi))
}

// FloorToInt rounds towards negative infinity.
func FloorToInt(f float64) int {
	return int(math.Floor(f))
}

// CeilToInt rounds towards positive infinity.
func CeilToInt(f float64) int {
	return int(math.Ceil(f))
}

// RandIntRange returns a value in [lo, hi) using intn, which must behave
// like rand.Intn. When the range is empty lo is returned and nothing is
// drawn.
func RandIntRange(intn func(int) int, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + intn(hi-lo)
}
