package shotform

import "fmt"

// Label is a floating annotation callout anchored to a keypoint and judged
// by one angle metric.  Labels are resolved once per session from the
// release frame and are read only thereafter.
type Label struct {
	// Text is the display title of the callout
	Text string
	// AnchorJoint is the joint name the callout leader line attaches to,
	// already resolved to the body side actually present in the session
	AnchorJoint string
	// AngleKey is the metric the callout displays and is judged by
	AngleKey string
	// MirroredSide records that the preferred side was absent and the
	// opposite side was substituted
	MirroredSide bool
}

// labelSpec is the preferred joint and metric for each callout the session
// may carry
var labelSpecs = []struct {
	text   string
	anchor string
	angle  string
}{
	{"Elbow", JointRightElbow, MetricElbowAngle},
	{"Knee", JointRightKnee, MetricKneeAngle},
	{"Wrist", JointRightWrist, MetricElbowAngle},
}

// BuildLabels resolves the session's annotation labels against the given
// frame, normally the release frame.  A label whose preferred joint is
// absent falls back to the mirrored body side, and is dropped entirely when
// neither side was detected.  The returned list is stable for the life of
// one playback session.
func BuildLabels(frame FrameRecord) []Label {

	labels := make([]Label, 0, len(labelSpecs))

	for _, spec := range labelSpecs {

		kp, side, ok := LookupKeypoint(frame, spec.anchor)

		if !ok {
			continue
		}

		labels = append(labels, Label{
			Text:         spec.text,
			AnchorJoint:  kp.Name,
			AngleKey:     spec.angle,
			MirroredSide: side == SideMirrored,
		})
	}

	return labels
}

// ResolvedLabel is a label resolved against one frame's metrics, carrying
// the display value, feedback line and status tier
type ResolvedLabel struct {
	Label
	Value    float64
	HasValue bool
	Status   Status
	Feedback string
}

// Resolve evaluates the label against the given frame.  A missing metric
// resolves to the good status with no display value, a frame with partial
// data still renders whatever is available.  Off-tier feedback carries the
// target good range of the judged metric.
func (l Label) Resolve(frame FrameRecord, c *Classifier) ResolvedLabel {

	r := ResolvedLabel{Label: l, Status: StatusGood}

	angle, ok := frame.Metrics[l.AngleKey]

	if !ok {
		r.Feedback = "No reading"
		return r
	}

	r.Value = angle
	r.HasValue = true
	r.Status = c.Classify(l.AnchorJoint, frame.Metrics)

	switch r.Status {
	case StatusCritical:
		r.Feedback = "Needs work"
	case StatusWarning:
		r.Feedback = "Slightly off"
	default:
		r.Feedback = "Good form"
	}

	if r.Status != StatusGood {
		if band, ok := c.BandFor(l.AngleKey); ok {
			r.Feedback = fmt.Sprintf("%s, aim %.0f-%.0f",
				r.Feedback, band.GoodMin, band.GoodMax)
		}
	}

	return r
}
