package render

import (
	"image"

	clipper "github.com/ctessum/go.clipper"
)

const (
	// CalloutWidth and CalloutHeight are the fixed callout box dimensions
	CalloutWidth  = 170
	CalloutHeight = 58
	// EdgeMargin keeps callout boxes clear of the surface border
	EdgeMargin = 20
	// bodyClearance offsets the box away from the anchor keypoint so it
	// does not cover the player's body
	bodyClearance = 90
	// nudgePad is the vertical gap inserted between overlapping boxes
	nudgePad = 10
	// maxNudges bounds the overlap resolution loop
	maxNudges = 6
)

// Placer computes non overlapping callout box positions anchored to
// keypoints.  Boxes alternate sides by label parity and are clamped fully
// inside the surface bounds.  A Placer accumulates the boxes placed within
// one frame, call Reset before each frame.
type Placer struct {
	placed clipper.Paths
}

// NewPlacer returns an empty placer
func NewPlacer() *Placer {
	return &Placer{placed: clipper.Paths{}}
}

// Reset forgets the boxes placed so far
func (p *Placer) Reset() {
	p.placed = clipper.Paths{}
}

// PlaceLabel returns the callout box for the given anchor pixel and label
// index.  Even indexes place right of the anchor, odd indexes left, offset
// by the body clearance, then clamped inside the surface.  Boxes that
// still overlap an earlier placement are stepped vertically until clear.
// The returned box never extends past the surface edges regardless of the
// anchor position.
func (p *Placer) PlaceLabel(anchorX, anchorY float64, labelIndex,
	surfWidth, surfHeight int) image.Rectangle {

	var x int

	if labelIndex%2 == 0 {
		x = int(anchorX) + bodyClearance
	} else {
		x = int(anchorX) - bodyClearance - CalloutWidth
	}

	y := int(anchorY) - CalloutHeight/2

	x = clampBox(x, CalloutWidth, surfWidth)
	y = clampBox(y, CalloutHeight, surfHeight)

	// step past earlier boxes, downward first then upward from the
	// original position once the bottom clamp stops making progress
	origY := y

	for i := 0; i < maxNudges && p.overlaps(x, y); i++ {

		next := clampBox(y+CalloutHeight+nudgePad, CalloutHeight, surfHeight)

		if next == y {
			next = clampBox(origY-(CalloutHeight+nudgePad)*(i+1),
				CalloutHeight, surfHeight)
		}

		y = next
	}

	p.placed = append(p.placed, rectPath(x, y))

	return image.Rect(x, y, x+CalloutWidth, y+CalloutHeight)
}

// overlaps reports whether a box at the given position intersects any box
// already placed this frame
func (p *Placer) overlaps(x, y int) bool {

	if len(p.placed) == 0 {
		return false
	}

	c := clipper.NewClipper(clipper.IoNone)
	c.AddPath(rectPath(x, y), clipper.PtSubject, true)
	c.AddPaths(p.placed, clipper.PtClip, true)

	solution, ok := c.Execute1(clipper.CtIntersection,
		clipper.PftNonZero, clipper.PftNonZero)

	return ok && len(solution) > 0
}

// rectPath builds the clipper polygon of a callout box at the given
// position
func rectPath(x, y int) clipper.Path {
	return clipper.Path{
		&clipper.IntPoint{X: clipper.CInt(x), Y: clipper.CInt(y)},
		&clipper.IntPoint{X: clipper.CInt(x + CalloutWidth), Y: clipper.CInt(y)},
		&clipper.IntPoint{X: clipper.CInt(x + CalloutWidth), Y: clipper.CInt(y + CalloutHeight)},
		&clipper.IntPoint{X: clipper.CInt(x), Y: clipper.CInt(y + CalloutHeight)},
	}
}

// clampBox clamps a box origin so the box sits inside the surface with the
// edge margin.  Surfaces too small to honor the margin fall back to
// centring the box, never a negative origin.
func clampBox(v, boxDim, surfDim int) int {

	lo := EdgeMargin
	hi := surfDim - boxDim - EdgeMargin

	if hi < lo {
		mid := (surfDim - boxDim) / 2
		if mid < 0 {
			mid = 0
		}
		return mid
	}

	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}
