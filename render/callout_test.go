package render

import (
	"image"
	"testing"
)

// TestPlaceLabelInsideBounds verifies the callout box never extends past
// the surface edges for anchors at the four corners and centre
func TestPlaceLabelInsideBounds(t *testing.T) {

	const surfW, surfH = 1280, 720

	surface := image.Rect(0, 0, surfW, surfH)

	anchors := []struct {
		name string
		x, y float64
	}{
		{"top-left", 0, 0},
		{"top-right", surfW, 0},
		{"bottom-left", 0, surfH},
		{"bottom-right", surfW, surfH},
		{"center", surfW / 2, surfH / 2},
	}

	for _, a := range anchors {
		for _, idx := range []int{0, 1} {

			p := NewPlacer()
			box := p.PlaceLabel(a.x, a.y, idx, surfW, surfH)

			if !box.In(surface) {
				t.Errorf("%s anchor, label %d: box %v outside surface %v",
					a.name, idx, box, surface)
			}

			if box.Dx() != CalloutWidth || box.Dy() != CalloutHeight {
				t.Errorf("%s anchor, label %d: box %v has wrong dimensions",
					a.name, idx, box)
			}
		}
	}
}

// TestPlaceLabelSideParity verifies even label indexes place right of the
// anchor and odd indexes left
func TestPlaceLabelSideParity(t *testing.T) {

	const surfW, surfH = 1280, 720
	const anchorX, anchorY = 640, 360

	p := NewPlacer()

	right := p.PlaceLabel(anchorX, anchorY, 0, surfW, surfH)

	if right.Min.X <= anchorX {
		t.Errorf("label 0 box %v not right of anchor x=%d", right, anchorX)
	}

	p = NewPlacer()

	left := p.PlaceLabel(anchorX, anchorY, 1, surfW, surfH)

	if left.Max.X >= anchorX {
		t.Errorf("label 1 box %v not left of anchor x=%d", left, anchorX)
	}
}

// TestPlaceLabelOverlapNudge verifies boxes sharing an anchor and side are
// stepped apart instead of stacking
func TestPlaceLabelOverlapNudge(t *testing.T) {

	const surfW, surfH = 1280, 720

	p := NewPlacer()

	first := p.PlaceLabel(640, 360, 0, surfW, surfH)
	second := p.PlaceLabel(640, 360, 2, surfW, surfH)

	if first.Overlaps(second) {
		t.Errorf("boxes overlap: %v and %v", first, second)
	}

	if !second.In(image.Rect(0, 0, surfW, surfH)) {
		t.Errorf("nudged box %v outside surface", second)
	}
}

// TestPlaceLabelCornerCrowding verifies overlap resolution still honours
// the surface bounds when the anchor pins boxes into a corner
func TestPlaceLabelCornerCrowding(t *testing.T) {

	const surfW, surfH = 1280, 720

	surface := image.Rect(0, 0, surfW, surfH)

	p := NewPlacer()

	boxes := []image.Rectangle{
		p.PlaceLabel(surfW, surfH, 0, surfW, surfH),
		p.PlaceLabel(surfW, surfH, 2, surfW, surfH),
		p.PlaceLabel(surfW, surfH, 4, surfW, surfH),
	}

	for i, box := range boxes {
		if !box.In(surface) {
			t.Errorf("box %d %v outside surface under corner crowding", i, box)
		}
	}
}

// TestPlacerReset verifies a reset placer forgets earlier placements
func TestPlacerReset(t *testing.T) {

	const surfW, surfH = 1280, 720

	p := NewPlacer()

	first := p.PlaceLabel(640, 360, 0, surfW, surfH)
	p.Reset()
	again := p.PlaceLabel(640, 360, 0, surfW, surfH)

	if first != again {
		t.Errorf("placement after reset %v differs from first %v", again, first)
	}
}
