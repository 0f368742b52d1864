package export

import (
	"errors"
	"testing"
	"time"

	shotform "github.com/hoopsight/go-shotform"
	"github.com/hoopsight/go-shotform/timeline"
)

// testChoreographer builds a choreographer over a 10 fps sequence with the
// given frame count and label focus targets
func testChoreographer(t *testing.T, frames int,
	focus []timeline.LabelFocus) *timeline.Choreographer {

	t.Helper()

	ch, err := timeline.New(frames, 10, 0, focus, shotform.DefaultToggles(),
		timeline.DefaultTiming())

	if err != nil {
		t.Fatalf("timeline.New error: %v", err)
	}

	return ch
}

// TestParseSelector verifies stage selector parsing
func TestParseSelector(t *testing.T) {

	tests := []struct {
		in      string
		want    Selector
		wantErr bool
	}{
		{"", SelectAll, false},
		{"all", SelectAll, false},
		{"stage1", SelectStage1, false},
		{"stage2", SelectStage2, false},
		{"stage3", SelectStage3, false},
		{"stage4", SelectAll, true},
		{"Stage1", SelectAll, true},
	}

	for _, tc := range tests {

		got, err := ParseSelector(tc.in)

		if (err != nil) != tc.wantErr {
			t.Errorf("ParseSelector(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}

		if err == nil && got != tc.want {
			t.Errorf("ParseSelector(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// TestReplayInstructionsStage1 verifies a single stage replay emits exactly
// one tick per frame, all within the selected stage, in cursor order
func TestReplayInstructionsStage1(t *testing.T) {

	ch := testChoreographer(t, 10, nil)

	var got []timeline.Instruction

	err := replayInstructions(ch, SelectStage1, 100*time.Millisecond, 1000,
		func(instr timeline.Instruction) error {
			got = append(got, instr)
			return nil
		})

	if err != nil {
		t.Fatalf("replayInstructions error: %v", err)
	}

	if len(got) != 10 {
		t.Fatalf("emitted %d ticks, want 10", len(got))
	}

	for i, instr := range got {

		if instr.Phase != timeline.PhaseStage1 {
			t.Errorf("tick %d phase = %s, want stage1", i, instr.Phase)
		}

		if instr.Frame != i {
			t.Errorf("tick %d frame = %d, want %d", i, instr.Frame, i)
		}
	}
}

// TestReplayInstructionsFullSequence verifies the whole sequence replay
// walks the stages in order and ends on the done instruction
func TestReplayInstructionsFullSequence(t *testing.T) {

	focus := []timeline.LabelFocus{{BoxX: 70, BoxY: 30, AnchorX: 55, AnchorY: 40}}
	ch := testChoreographer(t, 2, focus)

	var got []timeline.Instruction

	err := replayInstructions(ch, SelectAll, 100*time.Millisecond, 200,
		func(instr timeline.Instruction) error {
			got = append(got, instr)
			return nil
		})

	if err != nil {
		t.Fatalf("replayInstructions error: %v", err)
	}

	if len(got) == 0 {
		t.Fatal("no ticks emitted")
	}

	if got[0].Phase != timeline.PhaseStage1 {
		t.Errorf("first tick phase = %s, want stage1", got[0].Phase)
	}

	last := got[len(got)-1]

	if !last.Done || last.Phase != timeline.PhaseComplete {
		t.Errorf("last tick = %+v, want done in complete phase", last)
	}

	for i := 1; i < len(got); i++ {
		if got[i].Phase < got[i-1].Phase {
			t.Fatalf("phase went backwards at tick %d: %s after %s",
				i, got[i].Phase, got[i-1].Phase)
		}
	}
}

// TestReplayInstructionsEmptyStage verifies selecting a stage with no
// content emits nothing instead of ticks from the next stage
func TestReplayInstructionsEmptyStage(t *testing.T) {

	ch := testChoreographer(t, 10, nil)

	emitted := 0

	err := replayInstructions(ch, SelectStage2, 100*time.Millisecond, 1000,
		func(timeline.Instruction) error {
			emitted++
			return nil
		})

	if err != nil {
		t.Fatalf("replayInstructions error: %v", err)
	}

	if emitted != 0 {
		t.Errorf("emitted %d ticks for a label-less tour, want 0", emitted)
	}
}

// TestReplayInstructionsTickBudget verifies an exhausted tick budget is an
// error rather than a silent truncation
func TestReplayInstructionsTickBudget(t *testing.T) {

	ch := testChoreographer(t, 10, nil)

	err := replayInstructions(ch, SelectStage1, 100*time.Millisecond, 3,
		func(timeline.Instruction) error { return nil })

	if err == nil {
		t.Error("replayInstructions succeeded with a 3 tick budget over 10 frames")
	}
}

// TestReplayInstructionsEmitError verifies an encoder error aborts the
// replay and propagates
func TestReplayInstructionsEmitError(t *testing.T) {

	ch := testChoreographer(t, 10, nil)

	wantErr := errors.New("write failed")

	err := replayInstructions(ch, SelectStage1, 100*time.Millisecond, 1000,
		func(timeline.Instruction) error { return wantErr })

	if !errors.Is(err, wantErr) {
		t.Errorf("replayInstructions error = %v, want the emit error", err)
	}
}
