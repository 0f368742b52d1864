package timeline

import (
	"math"
	"testing"

	shotform "github.com/hoopsight/go-shotform"
)

// almostEqual checks if two float64 values are approximately equal
func almostEqual(a, b, tolerance float64) bool {
	return math.Abs(a-b) <= tolerance
}

// TestEaseInOut verifies the easing curve endpoints, midpoint and
// monotonicity
func TestEaseInOut(t *testing.T) {

	const tolerance = 1e-9

	if !almostEqual(easeInOut(0), 0, tolerance) {
		t.Errorf("easeInOut(0) = %v, want 0", easeInOut(0))
	}

	if !almostEqual(easeInOut(0.5), 0.5, tolerance) {
		t.Errorf("easeInOut(0.5) = %v, want 0.5", easeInOut(0.5))
	}

	if !almostEqual(easeInOut(1), 1, tolerance) {
		t.Errorf("easeInOut(1) = %v, want 1", easeInOut(1))
	}

	// out of range inputs clamp instead of extrapolating
	if easeInOut(-1) != 0 || easeInOut(2) != 1 {
		t.Error("easeInOut does not clamp out of range inputs")
	}

	last := -1.0

	for i := 0; i <= 100; i++ {

		v := easeInOut(float64(i) / 100)

		if v < last {
			t.Fatalf("easeInOut not monotone at t=%v", float64(i)/100)
		}

		last = v
	}
}

// TestLerpZoom verifies zoom state interpolation endpoints and midpoint
func TestLerpZoom(t *testing.T) {

	const tolerance = 1e-9

	from := shotform.NeutralZoom()
	to := shotform.ZoomState{Scale: 3, OriginX: 70, OriginY: 30}

	if z := lerpZoom(from, to, 0); z != from {
		t.Errorf("lerpZoom at 0 = %+v, want from state", z)
	}

	if z := lerpZoom(from, to, 1); z != to {
		t.Errorf("lerpZoom at 1 = %+v, want to state", z)
	}

	mid := lerpZoom(from, to, 0.5)

	if !almostEqual(mid.Scale, 2, tolerance) ||
		!almostEqual(mid.OriginX, 60, tolerance) ||
		!almostEqual(mid.OriginY, 40, tolerance) {
		t.Errorf("lerpZoom at 0.5 = %+v, want scale 2 origin (60,40)", mid)
	}
}
