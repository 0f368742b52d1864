package shotform

import "testing"

// TestClassifyTiers runs the elbow and knee angle bands through their
// good, warning and critical ranges
func TestClassifyTiers(t *testing.T) {

	c := NewClassifier(DefaultThresholds())

	tests := []struct {
		joint   string
		metrics map[string]float64
		want    Status
	}{
		// elbow band: good 85-100, warning 70-115
		{JointRightElbow, map[string]float64{MetricElbowAngle: 92}, StatusGood},
		{JointRightElbow, map[string]float64{MetricElbowAngle: 105}, StatusWarning},
		{JointRightElbow, map[string]float64{MetricElbowAngle: 130}, StatusCritical},
		{JointRightElbow, map[string]float64{MetricElbowAngle: 60}, StatusCritical},
		// band edges belong to the better tier
		{JointRightElbow, map[string]float64{MetricElbowAngle: 85}, StatusGood},
		{JointRightElbow, map[string]float64{MetricElbowAngle: 100}, StatusGood},
		{JointRightElbow, map[string]float64{MetricElbowAngle: 115}, StatusWarning},
		// wrist joints are judged by the elbow angle
		{JointLeftWrist, map[string]float64{MetricElbowAngle: 130}, StatusCritical},
		// knee band: good 115-140, warning 100-155
		{JointRightKnee, map[string]float64{MetricKneeAngle: 120}, StatusGood},
		{JointLeftAnkle, map[string]float64{MetricKneeAngle: 105}, StatusWarning},
		{JointRightKnee, map[string]float64{MetricKneeAngle: 90}, StatusCritical},
		// missing metric defaults optimistic, never blocks rendering
		{JointRightElbow, map[string]float64{}, StatusGood},
		{JointRightKnee, nil, StatusGood},
		// joints outside a monitored family default to good
		{JointNose, map[string]float64{MetricElbowAngle: 130}, StatusGood},
		{JointLeftHip, map[string]float64{MetricKneeAngle: 90}, StatusGood},
	}

	for _, tc := range tests {
		if got := c.Classify(tc.joint, tc.metrics); got != tc.want {
			t.Errorf("Classify(%s, %v) = %s, want %s",
				tc.joint, tc.metrics, got, tc.want)
		}
	}
}

// TestClassifyTotal verifies classification is a total function over every
// known joint name with an empty metrics map
func TestClassifyTotal(t *testing.T) {

	c := NewClassifier(DefaultThresholds())

	joints := []string{
		JointNose, JointLeftEye, JointRightEye, JointLeftEar, JointRightEar,
		JointLeftShoulder, JointRightShoulder, JointLeftElbow, JointRightElbow,
		JointLeftWrist, JointRightWrist, JointLeftHip, JointRightHip,
		JointLeftKnee, JointRightKnee, JointLeftAnkle, JointRightAnkle,
		"unknown_joint",
	}

	for _, joint := range joints {

		got := c.Classify(joint, map[string]float64{})

		if got != StatusGood && got != StatusWarning && got != StatusCritical {
			t.Errorf("Classify(%s) returned out of range status %d", joint, got)
		}
	}
}

// TestWorstStatusOrdering verifies the total ordering critical > warning >
// good over every status pair
func TestWorstStatusOrdering(t *testing.T) {

	statuses := []Status{StatusGood, StatusWarning, StatusCritical}

	for _, a := range statuses {
		for _, b := range statuses {

			got := WorstStatus(a, b)
			want := a

			if b > a {
				want = b
			}

			if got != want {
				t.Errorf("WorstStatus(%s,%s) = %s, want %s", a, b, got, want)
			}

			// ordering must be symmetric
			if got != WorstStatus(b, a) {
				t.Errorf("WorstStatus(%s,%s) not symmetric", a, b)
			}
		}
	}
}

// TestClassifyConnection verifies a connection takes the worse status of
// its two endpoints, matching the worst of classifying each individually
func TestClassifyConnection(t *testing.T) {

	c := NewClassifier(DefaultThresholds())

	metrics := map[string]float64{
		MetricElbowAngle: 130, // critical
		MetricKneeAngle:  120, // good
	}

	pairs := [][2]string{
		{JointRightElbow, JointRightWrist},
		{JointRightElbow, JointRightKnee},
		{JointRightKnee, JointRightAnkle},
		{JointNose, JointRightElbow},
		{JointNose, JointLeftEye},
	}

	for _, p := range pairs {

		got := c.ClassifyConnection(p[0], p[1], metrics)
		want := WorstStatus(c.Classify(p[0], metrics), c.Classify(p[1], metrics))

		if got != want {
			t.Errorf("ClassifyConnection(%s,%s) = %s, want %s",
				p[0], p[1], got, want)
		}

		// endpoint order must not matter
		if got != c.ClassifyConnection(p[1], p[0], metrics) {
			t.Errorf("ClassifyConnection(%s,%s) not symmetric", p[0], p[1])
		}
	}
}

// TestStatusString verifies the status names
func TestStatusString(t *testing.T) {

	tests := []struct {
		status Status
		want   string
	}{
		{StatusGood, "good"},
		{StatusWarning, "warning"},
		{StatusCritical, "critical"},
	}

	for _, tc := range tests {
		if got := tc.status.String(); got != tc.want {
			t.Errorf("Status(%d).String() = %q, want %q", tc.status, got, tc.want)
		}
	}
}
