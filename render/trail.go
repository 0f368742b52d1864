package render

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// TrailStyle defines the parameters used for rendering the ball trail
type TrailStyle struct {
	LineColor     color.RGBA
	LineThickness int
	CircleColor   color.RGBA
	CircleRadius  int
}

// DefaultTrailStyle returns default trail style settings
func DefaultTrailStyle() TrailStyle {
	return TrailStyle{
		LineColor:     Yellow,
		LineThickness: 1,
		CircleColor:   ballColor,
		CircleRadius:  3,
	}
}

// Trail keeps the recent ball positions for drawing a motion trail during
// the slow motion replay stage
type Trail struct {
	points    []image.Point
	maxPoints int
	lastFrame int
}

// NewTrail returns a trail keeping up to maxPoints positions
func NewTrail(maxPoints int) *Trail {
	return &Trail{
		maxPoints: maxPoints,
		lastFrame: -1,
	}
}

// Record adds the ball position of the given frame.  A cursor moving
// backwards means the replay restarted or was scrubbed, which clears the
// trail so stale positions are not connected across the jump.
func (t *Trail) Record(frame int, pt image.Point) {

	if frame < t.lastFrame {
		t.Clear()
	}

	if frame == t.lastFrame {
		return
	}

	t.lastFrame = frame
	t.points = append(t.points, pt)

	if len(t.points) > t.maxPoints {
		t.points = t.points[len(t.points)-t.maxPoints:]
	}
}

// Clear forgets all recorded positions
func (t *Trail) Clear() {
	t.points = t.points[:0]
	t.lastFrame = -1
}

// Draw renders the trail line showing the ball path history with a circle
// on the current position
func (t *Trail) Draw(img *gocv.Mat, style TrailStyle) {

	if len(t.points) < 2 {
		return
	}

	for i := 1; i < len(t.points); i++ {

		gocv.Line(img, t.points[i-1], t.points[i],
			style.LineColor, style.LineThickness)

		if i == len(t.points)-1 {
			gocv.Circle(img, t.points[i], style.CircleRadius,
				style.CircleColor, -1)
		}
	}
}
