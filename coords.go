package shotform

import (
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// overflowTolerance is how far past the declared source dimensions a
// detection coordinate may sit before the frame is treated as having been
// produced at a different internal resolution
const overflowTolerance = 1.1

// overflowMargin backs the corrective factor off slightly so rescaled
// keypoints land inside the frame rather than exactly on its edge
const overflowMargin = 1.05

// Mapper converts keypoints from the detector's coordinate space into the
// render surface's pixel space.  Outputs are pure derived values, nothing
// is cached beyond the per frame corrective factor set by CalibrateFrame.
type Mapper struct {
	// source dimensions the detector declared
	srcWidth  float64
	srcHeight float64
	// render surface dimensions
	dstWidth  float64
	dstHeight float64
	// per frame corrective factor for detectors that report coordinates
	// at a different internal resolution than declared
	correction float64
	// identity marks a mapper with no usable dimensions on either end,
	// points pass through unchanged
	identity bool
}

// NewMapper returns a mapper scaling from the declared source dimensions to
// the render surface dimensions.  Zero or negative dimensions fall back to
// a scale of 1 so a draw call never divides by zero; with neither side
// usable the mapper passes points through unchanged.
func NewMapper(srcWidth, srcHeight, dstWidth, dstHeight int) *Mapper {

	m := &Mapper{
		srcWidth:   float64(srcWidth),
		srcHeight:  float64(srcHeight),
		dstWidth:   float64(dstWidth),
		dstHeight:  float64(dstHeight),
		correction: 1,
	}

	if srcWidth <= 0 || srcHeight <= 0 {
		log.Warnf("mapper: invalid source dimensions %dx%d, defaulting scale to 1",
			srcWidth, srcHeight)
		m.srcWidth = m.dstWidth
		m.srcHeight = m.dstHeight
	}

	if dstWidth <= 0 || dstHeight <= 0 {
		log.Warnf("mapper: invalid render dimensions %dx%d, defaulting scale to 1",
			dstWidth, dstHeight)
		m.dstWidth = m.srcWidth
		m.dstHeight = m.srcHeight
	}

	if m.srcWidth <= 0 || m.srcHeight <= 0 {
		// both source and render were unusable, clamping against either
		// would collapse every point
		m.srcWidth, m.srcHeight = 1, 1
		m.dstWidth, m.dstHeight = 1, 1
		m.identity = true
	}

	return m
}

// CalibrateFrame inspects the keypoints of one frame and derives a uniform
// corrective factor when the coordinates overflow the declared source
// dimensions, indicating the detector used a different internal resolution.
// The factor is computed from the maximum observed coordinate rather than
// assuming a fixed ratio and applies to every keypoint of the frame.
func (m *Mapper) CalibrateFrame(frame FrameRecord) {

	m.correction = 1

	if m.identity || len(frame.Keypoints) == 0 {
		return
	}

	xs := make([]float64, 0, len(frame.Keypoints))
	ys := make([]float64, 0, len(frame.Keypoints))

	for _, kp := range frame.Keypoints {
		xs = append(xs, kp.X)
		ys = append(ys, kp.Y)
	}

	maxX := floats.Max(xs)
	maxY := floats.Max(ys)

	factor := float64(1)

	if maxX > m.srcWidth*overflowTolerance {
		factor = m.srcWidth / maxX
	}

	if maxY > m.srcHeight*overflowTolerance {
		if f := m.srcHeight / maxY; f < factor {
			factor = f
		}
	}

	if factor < 1 {
		m.correction = factor / overflowMargin
		log.Debugf("mapper: frame %d coordinates overflow source %vx%v, corrective factor %.4f",
			frame.Index, m.srcWidth, m.srcHeight, m.correction)
	}
}

// Correction returns the corrective factor derived by the last
// CalibrateFrame call
func (m *Mapper) Correction() float64 {
	return m.correction
}

// ToRenderSpace converts a point in the detector's coordinate space into
// the render surface's pixel space.  Output is clamped to the render bounds
// so an in-bounds input always produces an in-bounds output.
func (m *Mapper) ToRenderSpace(x, y float64) (float64, float64) {

	if m.identity {
		return x, y
	}

	rx := x * m.correction * (m.dstWidth / m.srcWidth)
	ry := y * m.correction * (m.dstHeight / m.srcHeight)

	return clampF(rx, 0, m.dstWidth), clampF(ry, 0, m.dstHeight)
}

// MapKeypoint returns a copy of the keypoint scaled into render space.  The
// raw detection is never mutated.
func (m *Mapper) MapKeypoint(kp Keypoint) Keypoint {

	x, y := m.ToRenderSpace(kp.X, kp.Y)

	return Keypoint{
		Name:       kp.Name,
		X:          x,
		Y:          y,
		Confidence: kp.Confidence,
	}
}

// MapBall returns a copy of the ball mark scaled into render space
func (m *Mapper) MapBall(b BallMark) BallMark {

	x, y := m.ToRenderSpace(b.X, b.Y)

	return BallMark{
		X:      x,
		Y:      y,
		Radius: b.Radius * m.correction * (m.dstWidth / m.srcWidth),
	}
}

// RenderWidth returns the width of the render surface
func (m *Mapper) RenderWidth() int {
	return int(m.dstWidth)
}

// RenderHeight returns the height of the render surface
func (m *Mapper) RenderHeight() int {
	return int(m.dstHeight)
}

func clampF(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
