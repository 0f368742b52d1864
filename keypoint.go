package shotform

// Joint names as delivered by the pose detection service.  These follow the
// COCO body landmark naming with left/right prefixes.
const (
	JointNose          = "nose"
	JointLeftEye       = "left_eye"
	JointRightEye      = "right_eye"
	JointLeftEar       = "left_ear"
	JointRightEar      = "right_ear"
	JointLeftShoulder  = "left_shoulder"
	JointRightShoulder = "right_shoulder"
	JointLeftElbow     = "left_elbow"
	JointRightElbow    = "right_elbow"
	JointLeftWrist     = "left_wrist"
	JointRightWrist    = "right_wrist"
	JointLeftHip       = "left_hip"
	JointRightHip      = "right_hip"
	JointLeftKnee      = "left_knee"
	JointRightKnee     = "right_knee"
	JointLeftAnkle     = "left_ankle"
	JointRightAnkle    = "right_ankle"
)

// MinKeypointConfidence is the minimum detection confidence a keypoint must
// have before it is used as an endpoint of a skeleton connection
const MinKeypointConfidence = 0.3

// PhaseRelease is the frame phase tag marking the ball release moment of
// the shot
const PhaseRelease = "release"

// SkeletonPairs defines the joint connections to draw lines between
var SkeletonPairs = [][2]string{
	{JointRightAnkle, JointRightKnee},
	{JointRightKnee, JointRightHip},
	{JointLeftAnkle, JointLeftKnee},
	{JointLeftKnee, JointLeftHip},
	{JointRightHip, JointLeftHip},
	{JointRightShoulder, JointRightHip},
	{JointLeftShoulder, JointLeftHip},
	{JointRightShoulder, JointLeftShoulder},
	{JointRightShoulder, JointRightElbow},
	{JointRightElbow, JointRightWrist},
	{JointLeftShoulder, JointLeftElbow},
	{JointLeftElbow, JointLeftWrist},
}

// Keypoint is a named, confidence scored body landmark position in the
// detector's coordinate space.  Raw detections are immutable, scaled copies
// are derived per draw call.
type Keypoint struct {
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"confidence"`
}

// BallMark is the detected basketball position and size for one frame
type BallMark struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
}

// FrameRecord holds the detection results for a single video or image frame
type FrameRecord struct {
	Index     int                 `json:"index"`
	Keypoints map[string]Keypoint `json:"keypoints"`
	Metrics   map[string]float64  `json:"metrics"`
	Ball      *BallMark           `json:"ball,omitempty"`
	Phase     string              `json:"phase,omitempty"`
}

// Sequence is an ordered finite series of frames plus the frame rate and
// the dimensions of the source the detector ran against.  A still image is
// a Sequence of length one.
type Sequence struct {
	Frames       []FrameRecord `json:"frames"`
	FPS          float64       `json:"fps"`
	SourceWidth  int           `json:"source_width"`
	SourceHeight int           `json:"source_height"`
}

// ReleaseFrame returns the index of the first frame tagged with the release
// phase, or the temporal midpoint when no frame carries the tag
func (s *Sequence) ReleaseFrame() int {

	for i, f := range s.Frames {
		if f.Phase == PhaseRelease {
			return i
		}
	}

	return len(s.Frames) / 2
}

// Side identifies which body side a keypoint lookup resolved to
type Side int

const (
	SidePreferred Side = iota
	SideMirrored
)

// MirrorJoint returns the joint name of the opposite body side, eg:
// right_elbow becomes left_elbow.  Unprefixed joints mirror to themselves.
func MirrorJoint(name string) string {

	const left, right = "left_", "right_"

	if len(name) > len(left) && name[:len(left)] == left {
		return right + name[len(left):]
	}

	if len(name) > len(right) && name[:len(right)] == right {
		return left + name[len(right):]
	}

	return name
}

// LookupKeypoint finds the named keypoint in the frame, falling back to the
// mirrored body side when the preferred side was not detected.  It returns
// which side was actually used so callers never silently guess.
func LookupKeypoint(frame FrameRecord, name string) (Keypoint, Side, bool) {

	if kp, ok := frame.Keypoints[name]; ok {
		kp.Name = name
		return kp, SidePreferred, true
	}

	if kp, ok := frame.Keypoints[MirrorJoint(name)]; ok {
		kp.Name = MirrorJoint(name)
		return kp, SideMirrored, true
	}

	return Keypoint{}, SidePreferred, false
}
