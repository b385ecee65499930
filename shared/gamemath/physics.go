package gamemath

import "math"

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Lerp blends current toward target by factor t (0 keeps current, 1 snaps).
func Lerp(current, target, t float64) float64 {
	return current + (target-current)*t
}

// Diverged reports whether two values differ by more than threshold.
func Diverged(a, b, threshold float64) bool {
	return math.Abs(a-b) > threshold
}

// Distance1D is the horizontal gap used for attack range checks.
func Distance1D(a, b float64) float64 {
	return math.Abs(a - b)
}

// SweepSteps returns how many samples a vertical sweep of dy needs so fast
// falls cannot skip a thin platform: one sample per stride units, never
// fewer than minSteps.
func SweepSteps(dy, stride float64, minSteps int) int {
	steps := int(math.Abs(dy) / stride)
	if steps < minSteps {
		return minSteps
	}
	return steps
}
