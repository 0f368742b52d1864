package timeline

import (
	"math"

	shotform "github.com/hoopsight/go-shotform"
)

// easeInOut is the cubic ease-in-ease-out curve applied to every zoom
// tween, t in [0,1]
func easeInOut(t float64) float64 {

	if t < 0 {
		t = 0
	}

	if t > 1 {
		t = 1
	}

	if t < 0.5 {
		return 4 * t * t * t
	}

	return 1 - math.Pow(-2*t+2, 3)/2
}

// lerpZoom interpolates between two zoom states at eased position t
func lerpZoom(from, to shotform.ZoomState, t float64) shotform.ZoomState {
	return shotform.ZoomState{
		Scale:   from.Scale + (to.Scale-from.Scale)*t,
		OriginX: from.OriginX + (to.OriginX-from.OriginX)*t,
		OriginY: from.OriginY + (to.OriginY-from.OriginY)*t,
	}
}
