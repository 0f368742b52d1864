package shotform

import "strings"

// Status is the biomechanical tier a joint or connection is classified
// into.  The ordering is total, critical > warning > good, and every
// consumer uses the same ordering so the live preview and exported video
// never disagree on a color.
type Status int

const (
	StatusGood Status = iota
	StatusWarning
	StatusCritical
)

// String returns the status name
func (s Status) String() string {
	switch s {
	case StatusWarning:
		return "warning"
	case StatusCritical:
		return "critical"
	default:
		return "good"
	}
}

// WorstStatus returns the worse of the two statuses
func WorstStatus(a, b Status) Status {
	if b > a {
		return b
	}
	return a
}

// Metric keys reported by the detection service
const (
	MetricElbowAngle = "elbow_angle"
	MetricKneeAngle  = "knee_angle"
)

// AngleBand defines the angle ranges for one joint family.  Angles inside
// the good range classify as good, inside the warning range as warning,
// anything outside the warning range is critical.
type AngleBand struct {
	GoodMin float64
	GoodMax float64
	WarnMin float64
	WarnMax float64
}

// Classify returns the status tier for the given angle
func (b AngleBand) Classify(angle float64) Status {

	if angle >= b.GoodMin && angle <= b.GoodMax {
		return StatusGood
	}

	if angle >= b.WarnMin && angle <= b.WarnMax {
		return StatusWarning
	}

	return StatusCritical
}

// Thresholds holds the angle bands for each joint family
type Thresholds struct {
	Elbow AngleBand
	Knee  AngleBand
}

// DefaultThresholds returns the angle bands for a set shot release:
// - Elbow: good 85-100 degrees, warning 70-115
// - Knee: good 115-140 degrees, warning 100-155
func DefaultThresholds() Thresholds {
	return Thresholds{
		Elbow: AngleBand{GoodMin: 85, GoodMax: 100, WarnMin: 70, WarnMax: 115},
		Knee:  AngleBand{GoodMin: 115, GoodMax: 140, WarnMin: 100, WarnMax: 155},
	}
}

// Classifier maps joints and connections to status tiers from the frame's
// angle metrics
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier returns a classifier using the given thresholds
func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// metricFor maps a joint name to the metric key and angle band relevant to
// its joint family.  Elbow and wrist joints are judged by the elbow angle,
// knee and ankle joints by the knee angle.
func (c *Classifier) metricFor(joint string) (string, AngleBand, bool) {

	switch {
	case strings.Contains(joint, "elbow"), strings.Contains(joint, "wrist"):
		return MetricElbowAngle, c.thresholds.Elbow, true
	case strings.Contains(joint, "knee"), strings.Contains(joint, "ankle"):
		return MetricKneeAngle, c.thresholds.Knee, true
	}

	return "", AngleBand{}, false
}

// Classify returns the status tier for the named joint given the frame's
// metrics.  Joints outside a monitored family, or with their metric absent,
// classify as good so rendering is never blocked on missing data.
func (c *Classifier) Classify(joint string, metrics map[string]float64) Status {

	key, band, ok := c.metricFor(joint)

	if !ok {
		return StatusGood
	}

	angle, ok := metrics[key]

	if !ok {
		return StatusGood
	}

	return band.Classify(angle)
}

// ClassifyConnection returns the status of a skeleton connection spanning
// two joints, which is the worse of the two endpoint statuses
func (c *Classifier) ClassifyConnection(jointA, jointB string,
	metrics map[string]float64) Status {

	return WorstStatus(c.Classify(jointA, metrics), c.Classify(jointB, metrics))
}

// BandFor returns the angle band used to judge the given metric key
func (c *Classifier) BandFor(metricKey string) (AngleBand, bool) {

	switch metricKey {
	case MetricElbowAngle:
		return c.thresholds.Elbow, true
	case MetricKneeAngle:
		return c.thresholds.Knee, true
	}

	return AngleBand{}, false
}
