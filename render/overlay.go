package render

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"gocv.io/x/gocv"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	shotform "github.com/hoopsight/go-shotform"
	"github.com/hoopsight/go-shotform/timeline"
)

// Style defines the drawing parameters for the overlay
type Style struct {
	LineThickness int
	JointRadius   int
	BallRadiusMin int
	Font          Font
	Trail         TrailStyle
	TrailLength   int
}

// DefaultStyle returns default overlay style settings
func DefaultStyle() Style {
	return Style{
		LineThickness: 3,
		JointRadius:   5,
		BallRadiusMin: 6,
		Font:          DefaultFont(),
		Trail:         DefaultTrailStyle(),
		TrailLength:   24,
	}
}

// Overlay draws the layered skeletal overlay for one frame onto a Mat:
// skeleton connections, joint markers, the basketball marker and floating
// annotation callouts, in that fixed z order.  It mutates the target
// surface in place and never reads back from it.  Missing keypoints
// silently skip their primitive, partial data degrades to whatever can be
// drawn rather than failing a frame render.
type Overlay struct {
	mapper     *shotform.Mapper
	classifier *shotform.Classifier
	labels     []shotform.Label
	placer     *Placer
	style      Style
	watermark  shotform.WatermarkConfig
	wmFace     xfont.Face
	trail      *Trail
}

// NewOverlay returns an overlay drawing through the given mapper and
// classifier.  labels is the session's resolved annotation list, stable
// for the life of the playback session.
func NewOverlay(mapper *shotform.Mapper, classifier *shotform.Classifier,
	labels []shotform.Label, style Style,
	watermark shotform.WatermarkConfig) (*Overlay, error) {

	o := &Overlay{
		mapper:     mapper,
		classifier: classifier,
		labels:     labels,
		placer:     NewPlacer(),
		style:      style,
		watermark:  watermark,
		trail:      NewTrail(style.TrailLength),
	}

	if watermark.Enabled && watermark.FontFile != "" {

		face, err := LoadFace(watermark.FontFile)

		if err != nil {
			return nil, fmt.Errorf("error initializing watermark font: %w", err)
		}

		o.wmFace = face
	}

	return o, nil
}

// Labels returns the session's annotation labels
func (o *Overlay) Labels() []shotform.Label {
	return o.labels
}

// DrawFrame draws one frame's overlay onto img per the given timeline
// instruction.  Z order is fixed: skeleton connections, joint markers,
// ball marker, annotation callouts, watermark, then the zoom transform is
// applied to the composed surface.
func (o *Overlay) DrawFrame(img *gocv.Mat, frame shotform.FrameRecord,
	instr timeline.Instruction) {

	o.mapper.CalibrateFrame(frame)

	if instr.Toggles.Skeleton {
		o.drawSkeleton(img, frame)
	}

	if instr.Toggles.Joints {
		o.drawJoints(img, frame)
	}

	if instr.Toggles.Ball && frame.Ball != nil {
		o.drawBall(img, frame, instr.TrackAnchors)
	}

	if instr.Toggles.Annotations {
		o.drawCallouts(img, frame, instr)
	}

	o.drawWatermark(img)

	if !instr.Zoom.IsNeutral() {
		applyZoom(img, instr.Zoom)
	}
}

// LabelFocus computes the timeline zoom targets for every session label
// against the given frame, normally the release frame.  Targets are in
// percent of the surface so they hold for any surface size.  A label whose
// anchor is missing from the frame focuses the frame centre.
func (o *Overlay) LabelFocus(frame shotform.FrameRecord) []timeline.LabelFocus {

	w := o.mapper.RenderWidth()
	h := o.mapper.RenderHeight()

	o.mapper.CalibrateFrame(frame)

	p := NewPlacer()
	focus := make([]timeline.LabelFocus, 0, len(o.labels))

	for i, label := range o.labels {

		kp, ok := frame.Keypoints[label.AnchorJoint]

		if !ok {
			focus = append(focus, timeline.LabelFocus{
				BoxX: 50, BoxY: 50, AnchorX: 50, AnchorY: 50,
			})
			continue
		}

		mapped := o.mapper.MapKeypoint(kp)
		box := p.PlaceLabel(mapped.X, mapped.Y, i, w, h)

		focus = append(focus, timeline.LabelFocus{
			BoxX:    float64(box.Min.X+box.Dx()/2) / float64(w) * 100,
			BoxY:    float64(box.Min.Y+box.Dy()/2) / float64(h) * 100,
			AnchorX: mapped.X / float64(w) * 100,
			AnchorY: mapped.Y / float64(h) * 100,
		})
	}

	return focus
}

// drawSkeleton draws the skeleton connection lines.  A connection is only
// drawn when both endpoints exist with sufficient confidence, and takes
// the worse status color of its two joints.
func (o *Overlay) drawSkeleton(img *gocv.Mat, frame shotform.FrameRecord) {

	for _, pair := range shotform.SkeletonPairs {

		a, okA := frame.Keypoints[pair[0]]
		b, okB := frame.Keypoints[pair[1]]

		if !okA || !okB {
			continue
		}

		if a.Confidence < shotform.MinKeypointConfidence ||
			b.Confidence < shotform.MinKeypointConfidence {
			continue
		}

		pa := o.toPoint(a)
		pb := o.toPoint(b)

		status := o.classifier.ClassifyConnection(pair[0], pair[1], frame.Metrics)

		drawGlowLine(img, pa, pb, StatusColor(status), o.style.LineThickness)
	}
}

// drawJoints draws the joint markers colored by their status tier
func (o *Overlay) drawJoints(img *gocv.Mat, frame shotform.FrameRecord) {

	for name, kp := range frame.Keypoints {

		if kp.Confidence < shotform.MinKeypointConfidence {
			continue
		}

		status := o.classifier.Classify(name, frame.Metrics)

		drawGlowCircle(img, o.toPoint(kp), o.style.JointRadius,
			StatusColor(status))
	}
}

// drawBall draws the basketball marker, recording and drawing the motion
// trail during the slow motion replay
func (o *Overlay) drawBall(img *gocv.Mat, frame shotform.FrameRecord,
	withTrail bool) {

	ball := o.mapper.MapBall(*frame.Ball)
	pt := image.Pt(int(ball.X), int(ball.Y))

	radius := int(ball.Radius)

	if radius < o.style.BallRadiusMin {
		radius = o.style.BallRadiusMin
	}

	if withTrail {
		o.trail.Record(frame.Index, pt)
		o.trail.Draw(img, o.style.Trail)
	}

	drawGlowCircle(img, pt, radius, ballColor)
}

// calloutDraw records one callout's geometry so boxes and text can be
// drawn as the top most layer after all leader lines
type calloutDraw struct {
	box    image.Rectangle
	anchor image.Point
	res    shotform.ResolvedLabel
}

// drawCallouts places and draws the visible annotation callouts.  The
// callouts are re-placed against the frame's anchor keypoints on every
// call, so during the slow motion replay they follow the moving player.
// A callout whose anchor keypoint is absent is skipped entirely.
func (o *Overlay) drawCallouts(img *gocv.Mat, frame shotform.FrameRecord,
	instr timeline.Instruction) {

	count := instr.ActiveLabels

	if count > len(o.labels) {
		count = len(o.labels)
	}

	o.placer.Reset()

	draws := make([]calloutDraw, 0, count)

	for i := 0; i < count; i++ {

		label := o.labels[i]

		kp, ok := frame.Keypoints[label.AnchorJoint]

		if !ok {
			continue
		}

		mapped := o.mapper.MapKeypoint(kp)

		box := o.placer.PlaceLabel(mapped.X, mapped.Y, i,
			img.Cols(), img.Rows())

		draws = append(draws, calloutDraw{
			box:    box,
			anchor: image.Pt(int(mapped.X), int(mapped.Y)),
			res:    label.Resolve(frame, o.classifier),
		})
	}

	// leader lines first so the boxes render as the top most layer and
	// never get crossed by a line
	for _, d := range draws {

		center := image.Pt(d.box.Min.X+d.box.Dx()/2, d.box.Min.Y+d.box.Dy()/2)

		gocv.Line(img, center, d.anchor, White, 1)
		gocv.Circle(img, d.anchor, 3, StatusColor(d.res.Status), -1)
	}

	for _, d := range draws {
		o.drawCalloutBox(img, d)
	}
}

// drawCalloutBox draws one callout panel with its title, angle value and
// feedback line
func (o *Overlay) drawCalloutBox(img *gocv.Mat, d calloutDraw) {

	f := o.style.Font
	clr := StatusColor(d.res.Status)

	gocv.Rectangle(img, d.box, calloutFill, -1)
	gocv.Rectangle(img, d.box, clr, 2)

	value := "--"

	if d.res.HasValue {
		value = fmt.Sprintf("%.0f deg", d.res.Value)
	}

	title := fmt.Sprintf("%s  %s", d.res.Text, value)
	titleSize := gocv.GetTextSize(title, f.Face, f.Scale, f.Thickness)

	gocv.PutTextWithParams(img, title,
		image.Pt(textOriginX(f, d.box, titleSize.X), d.box.Min.Y+f.TopPad+18),
		f.Face, f.Scale, clr, f.Thickness, f.LineType, false)

	fbSize := gocv.GetTextSize(d.res.Feedback, f.Face, f.Scale*0.9, f.Thickness)

	gocv.PutTextWithParams(img, d.res.Feedback,
		image.Pt(textOriginX(f, d.box, fbSize.X), d.box.Max.Y-f.BottomPad-6),
		f.Face, f.Scale*0.9, f.Color, f.Thickness, f.LineType, false)
}

// drawWatermark draws the configured watermark into its corner
func (o *Overlay) drawWatermark(img *gocv.Mat) {

	if !o.watermark.Enabled {
		return
	}

	text := o.watermark.Text

	if text == "" {
		text = "shotform"
	}

	const margin = 24

	f := o.style.Font
	size := gocv.GetTextSize(text, f.Face, f.Scale, f.Thickness)

	var pos image.Point

	switch o.watermark.Corner {
	case "top-left":
		pos = image.Pt(margin, margin+size.Y)
	case "top-right":
		pos = image.Pt(img.Cols()-size.X-margin, margin+size.Y)
	case "bottom-left":
		pos = image.Pt(margin, img.Rows()-margin)
	default: // bottom-right
		pos = image.Pt(img.Cols()-size.X-margin, img.Rows()-margin)
	}

	if o.wmFace != nil {
		o.putFaceText(img, text, pos.X, pos.Y)
		return
	}

	gocv.PutTextWithParams(img, text, pos, f.Face, f.Scale, Gray,
		f.Thickness, f.LineType, false)
}

// putFaceText writes text using the loaded TTF type face by compositing a
// drawn RGBA image over the Mat
func (o *Overlay) putFaceText(img *gocv.Mat, text string, x, y int) {

	rgba := image.NewRGBA(image.Rect(0, 0, img.Cols(), img.Rows()))
	draw.Draw(rgba, rgba.Bounds(),
		image.NewUniform(color.RGBA{0, 0, 0, 0}), image.Point{}, draw.Src)

	dr := &xfont.Drawer{
		Dst:  rgba,
		Src:  image.NewUniform(color.RGBA{200, 200, 200, 255}),
		Face: o.wmFace,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x * 64),
			Y: fixed.Int26_6(y * 64),
		},
	}
	dr.DrawString(text)

	imgRGBA, err := gocv.NewMatFromBytes(rgba.Bounds().Dy(),
		rgba.Bounds().Dx(), gocv.MatTypeCV8UC4, rgba.Pix)

	if imgRGBA.Empty() || err != nil {
		return
	}

	defer imgRGBA.Close()

	gocv.CvtColor(imgRGBA, &imgRGBA, gocv.ColorRGBAToBGR)
	gocv.AddWeighted(*img, 1.0, imgRGBA, 1.0, 0, img)
}

// toPoint maps a raw keypoint into a render surface pixel
func (o *Overlay) toPoint(kp shotform.Keypoint) image.Point {
	mapped := o.mapper.MapKeypoint(kp)
	return image.Pt(int(mapped.X), int(mapped.Y))
}

// drawGlowLine draws one skeleton connection as four stroke passes, outer
// glow, mid glow, solid core and bright highlight
func drawGlowLine(img *gocv.Mat, p1, p2 image.Point, base color.RGBA,
	thickness int) {

	for _, pass := range glowPasses {

		t := int(float64(thickness)*pass.thickness + 0.5)

		if t < 1 {
			t = 1
		}

		gocv.Line(img, p1, p2, passColor(base, pass), t)
	}
}

// drawGlowCircle draws one joint or ball marker with the same layered
// technique as the connection lines
func drawGlowCircle(img *gocv.Mat, center image.Point, radius int,
	base color.RGBA) {

	gocv.Circle(img, center, radius+3, passColor(base, glowPasses[0]), 2)
	gocv.Circle(img, center, radius+1, passColor(base, glowPasses[1]), 2)
	gocv.Circle(img, center, radius, base, -1)

	highlight := radius / 3

	if highlight < 1 {
		highlight = 1
	}

	gocv.Circle(img, center, highlight, passColor(base, glowPasses[3]), -1)
}

// applyZoom crops the zoom origin centred region of the composed surface
// and scales it back to the full surface size
func applyZoom(img *gocv.Mat, zoom shotform.ZoomState) {

	if zoom.Scale <= 1 {
		return
	}

	w := img.Cols()
	h := img.Rows()

	cropW := int(float64(w) / zoom.Scale)
	cropH := int(float64(h) / zoom.Scale)

	if cropW < 1 || cropH < 1 {
		return
	}

	cx := int(zoom.OriginX / 100 * float64(w))
	cy := int(zoom.OriginY / 100 * float64(h))

	x0 := clampI(cx-cropW/2, 0, w-cropW)
	y0 := clampI(cy-cropH/2, 0, h-cropH)

	roi := img.Region(image.Rect(x0, y0, x0+cropW, y0+cropH))
	crop := roi.Clone()
	roi.Close()
	defer crop.Close()

	gocv.Resize(crop, img, image.Pt(w, h), 0, 0, gocv.InterpolationLinear)
}

func clampI(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
