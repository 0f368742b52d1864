package timeline

import (
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	shotform "github.com/hoopsight/go-shotform"
)

// ErrNoFrames is returned when a choreographer is created over an empty
// frame sequence, playback never starts on no data
var ErrNoFrames = errors.New("sequence has no frames")

// Phase is the playback state machine state
type Phase int

const (
	PhaseInitial Phase = iota
	PhaseStage1
	PhaseStage2
	PhaseStage3
	PhaseComplete
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseStage1:
		return "stage1"
	case PhaseStage2:
		return "stage2"
	case PhaseStage3:
		return "stage3"
	case PhaseComplete:
		return "complete"
	default:
		return "initial"
	}
}

// Timing holds the stage timing constants.  The defaults must be
// reproduced exactly for visual parity with reference captures.
type Timing struct {
	// LabelDisplay is how long a label is shown before zooming to it
	LabelDisplay time.Duration
	// Tween is the duration of each zoom transition
	Tween time.Duration
	// Hold is how long each zoom target is held
	Hold time.Duration
	// SpeedMultiplier stretches the stage 3 replay relative to stage 1
	SpeedMultiplier float64
	// LabelZoom is the zoom scale centred on a label's callout box
	LabelZoom float64
	// AnchorZoom is the zoom scale centred on a label's anchor keypoint
	AnchorZoom float64
}

// DefaultTiming returns the reference timing constants
func DefaultTiming() Timing {
	return Timing{
		LabelDisplay:    time.Second,
		Tween:           800 * time.Millisecond,
		Hold:            2 * time.Second,
		SpeedMultiplier: 4,
		LabelZoom:       2.5,
		AnchorZoom:      3.0,
	}
}

// TimingFromConfig converts the config timing values into a Timing,
// substituting defaults for unset fields
func TimingFromConfig(c shotform.TimingConfig) Timing {

	t := DefaultTiming()

	if c.LabelDisplay > 0 {
		t.LabelDisplay = time.Duration(c.LabelDisplay * float64(time.Second))
	}
	if c.Tween > 0 {
		t.Tween = time.Duration(c.Tween * float64(time.Second))
	}
	if c.Hold > 0 {
		t.Hold = time.Duration(c.Hold * float64(time.Second))
	}
	if c.SpeedMultiplier > 0 {
		t.SpeedMultiplier = c.SpeedMultiplier
	}
	if c.LabelZoom > 0 {
		t.LabelZoom = c.LabelZoom
	}
	if c.AnchorZoom > 0 {
		t.AnchorZoom = c.AnchorZoom
	}

	return t
}

// LabelFocus carries the zoom targets of one annotation label, expressed
// as percentages of the surface dimensions so the choreographer stays
// independent of the surface pixel size.  BoxX/BoxY is the callout box
// centre, AnchorX/AnchorY the anchor keypoint.
type LabelFocus struct {
	BoxX    float64
	BoxY    float64
	AnchorX float64
	AnchorY float64
}

// Instruction tells the host render loop what to draw for the current
// tick.  It is the only output of Advance, the choreographer itself never
// touches a surface.
type Instruction struct {
	Phase Phase
	// Frame is the cursor into the frame sequence, always an integer in
	// [0, totalFrames-1]
	Frame int
	// Timestamp is the elapsed time within the current stage
	Timestamp time.Duration
	Zoom      shotform.ZoomState
	// Toggles is the caller's toggle set merged with the per stage
	// annotation visibility
	Toggles shotform.Toggles
	// ActiveLabels is how many labels are visible, labels appear in
	// session order during stage 2
	ActiveLabels int
	// TrackAnchors tells the renderer to re-place each label against its
	// moving anchor keypoint every frame (stage 3 follow behavior)
	TrackAnchors bool
	// Done reports the playback sequence has completed
	Done bool
}

type stepKind int

const (
	stepShow stepKind = iota
	stepTween
	stepHold
)

// step is one timed unit of the stage 2 guided tour script
type step struct {
	kind   stepKind
	dur    time.Duration
	target shotform.ZoomState
	labels int
}

// Choreographer sequences the three stage guided playback: a full speed
// scan, a per annotation zoom tour held on the release frame, and a slow
// motion full replay.  It owns all session mutable state (phase, frame
// cursor, zoom) exclusively, hosts drive it by feeding time deltas to
// Advance and render the returned instructions.
type Choreographer struct {
	totalFrames int
	fps         float64
	holdFrame   int
	focus       []LabelFocus
	timing      Timing
	base        shotform.Toggles

	phase   Phase
	playing bool
	cursor  int
	clock   time.Duration
	zoom    shotform.ZoomState

	// stage 2 script state
	script    []step
	stepIdx   int
	stepClock time.Duration
	tweenFrom shotform.ZoomState
	visible   int
}

// New returns a choreographer over a sequence of totalFrames frames at the
// given fps.  holdFrame is the frame stage 2 holds on, normally the
// detected release frame.  focus carries the zoom targets per annotation
// label in session order.  ErrNoFrames is returned for an empty sequence.
func New(totalFrames int, fps float64, holdFrame int, focus []LabelFocus,
	base shotform.Toggles, timing Timing) (*Choreographer, error) {

	if totalFrames <= 0 {
		return nil, ErrNoFrames
	}

	if fps <= 0 {
		return nil, fmt.Errorf("invalid fps %v", fps)
	}

	if holdFrame < 0 || holdFrame >= totalFrames {
		holdFrame = totalFrames / 2
	}

	if timing.SpeedMultiplier <= 0 {
		timing.SpeedMultiplier = DefaultTiming().SpeedMultiplier
	}

	return &Choreographer{
		totalFrames: totalFrames,
		fps:         fps,
		holdFrame:   holdFrame,
		focus:       focus,
		timing:      timing,
		base:        base,
		phase:       PhaseInitial,
		zoom:        shotform.NeutralZoom(),
	}, nil
}

// Phase returns the current playback phase
func (c *Choreographer) Phase() Phase {
	return c.phase
}

// Frame returns the current frame cursor
func (c *Choreographer) Frame() int {
	return c.cursor
}

// Zoom returns the current zoom state
func (c *Choreographer) Zoom() shotform.ZoomState {
	return c.zoom
}

// Playing reports whether the timeline is advancing
func (c *Choreographer) Playing() bool {
	return c.playing
}

// Play starts the sequence from the initial state, or resumes a paused
// mid-stage state.  Playing a completed session is a no-op, it must be
// reset first.
func (c *Choreographer) Play() {

	switch c.phase {
	case PhaseInitial:
		c.enterStage1()
		c.playing = true
	case PhaseComplete:
		// terminal until an explicit reset
	default:
		c.playing = true
	}
}

// Pause suspends the timeline, preserving all mid-stage state
func (c *Choreographer) Pause() {
	c.playing = false
}

// Seek moves the frame cursor, implicitly pausing.  The cursor is clamped
// to the valid frame range and any in-flight tween step keeps its position
// for resume.
func (c *Choreographer) Seek(frame int) {

	c.playing = false

	if frame < 0 {
		frame = 0
	}

	if frame >= c.totalFrames {
		frame = c.totalFrames - 1
	}

	c.cursor = frame

	// align the stage clock so resuming continues from the seek position
	switch c.phase {
	case PhaseStage1:
		c.clock = time.Duration(float64(frame) / c.fps * float64(time.Second))
	case PhaseStage3:
		c.clock = time.Duration(float64(frame) / c.fps *
			c.timing.SpeedMultiplier * float64(time.Second))
	}
}

// Reset returns the choreographer to the initial state from any phase,
// restoring the neutral zoom
func (c *Choreographer) Reset() {
	c.phase = PhaseInitial
	c.playing = false
	c.cursor = 0
	c.clock = 0
	c.zoom = shotform.NeutralZoom()
	c.script = nil
	c.stepIdx = 0
	c.stepClock = 0
	c.visible = 0
}

// JumpToStage forces the phase directly to the requested stage and
// re-derives the zoom, cursor and label state for it without completing
// earlier stages.  This deliberately bypasses the sequential stage
// guarantee.  Only the three playback stages are valid targets.
func (c *Choreographer) JumpToStage(p Phase) error {

	switch p {
	case PhaseStage1:
		c.enterStage1()
	case PhaseStage2:
		c.enterStage2()
	case PhaseStage3:
		c.enterStage3()
	default:
		return fmt.Errorf("cannot jump to phase %s", p)
	}

	c.playing = true

	return nil
}

// stage1Duration is the full speed scan duration, totalFrames/fps seconds
func (c *Choreographer) stage1Duration() time.Duration {
	return time.Duration(float64(c.totalFrames) / c.fps * float64(time.Second))
}

// stage3Duration is the slow motion replay duration, the stage 1 duration
// stretched by the speed multiplier
func (c *Choreographer) stage3Duration() time.Duration {
	return time.Duration(float64(c.stage1Duration()) * c.timing.SpeedMultiplier)
}

func (c *Choreographer) enterStage1() {
	c.phase = PhaseStage1
	c.clock = 0
	c.cursor = 0
	c.zoom = shotform.NeutralZoom()
	c.visible = 0
}

func (c *Choreographer) enterStage2() {

	c.phase = PhaseStage2
	c.clock = 0
	c.cursor = c.holdFrame
	c.zoom = shotform.NeutralZoom()
	c.script = c.buildScript()
	c.stepIdx = 0
	c.stepClock = 0
	c.tweenFrom = c.zoom
	c.visible = 0

	// nothing to tour without labels
	if len(c.script) == 0 {
		log.Debug("choreographer: no annotation labels, skipping stage 2")
		c.enterStage3()
	}
}

func (c *Choreographer) enterStage3() {
	c.phase = PhaseStage3
	c.clock = 0
	c.cursor = 0
	c.zoom = shotform.NeutralZoom()
	c.visible = len(c.focus)
}

func (c *Choreographer) enterComplete() {
	c.phase = PhaseComplete
	c.playing = false
	c.cursor = c.totalFrames - 1
	c.zoom = shotform.NeutralZoom()
	c.visible = len(c.focus)

	// annotations are forced back on for the end state even when the host
	// toggled them off mid session
	c.base.Annotations = true
}

// buildScript lays out the stage 2 guided tour: for each label in session
// order, show it, tween onto its callout box, hold, tween onto its anchor
// keypoint, hold, then tween back to neutral.  Shown labels stay visible
// for the rest of the tour.
func (c *Choreographer) buildScript() []step {

	script := make([]step, 0, len(c.focus)*6)

	for i, f := range c.focus {

		boxZoom := shotform.ZoomState{
			Scale:   c.timing.LabelZoom,
			OriginX: f.BoxX,
			OriginY: f.BoxY,
		}

		anchorZoom := shotform.ZoomState{
			Scale:   c.timing.AnchorZoom,
			OriginX: f.AnchorX,
			OriginY: f.AnchorY,
		}

		script = append(script,
			step{kind: stepShow, dur: c.timing.LabelDisplay, labels: i + 1},
			step{kind: stepTween, dur: c.timing.Tween, target: boxZoom, labels: i + 1},
			step{kind: stepHold, dur: c.timing.Hold, labels: i + 1},
			step{kind: stepTween, dur: c.timing.Tween, target: anchorZoom, labels: i + 1},
			step{kind: stepHold, dur: c.timing.Hold, labels: i + 1},
			step{kind: stepTween, dur: c.timing.Tween, target: shotform.NeutralZoom(), labels: i + 1},
		)
	}

	return script
}

// Advance moves the timeline forward by dt and returns the render
// instruction for the resulting state.  Hosts call this once per render
// tick with real or synthetic deltas, all mutation of the session state
// happens inside this call so pausing or seeking between ticks cancels any
// in-flight tween cleanly.
func (c *Choreographer) Advance(dt time.Duration) Instruction {

	if !c.playing {
		return c.snapshot()
	}

	remaining := dt

	for remaining > 0 && c.playing {

		switch c.phase {

		case PhaseStage1:
			remaining = c.advanceScan(remaining, c.stage1Duration(), c.enterStage2)

		case PhaseStage2:
			remaining = c.advanceScript(remaining)

		case PhaseStage3:
			remaining = c.advanceScan(remaining, c.stage3Duration(), c.enterComplete)

		default:
			remaining = 0
		}
	}

	return c.snapshot()
}

// advanceScan advances the linear frame cursor of stage 1 and 3, calling
// next on stage completion and returning any unconsumed time
func (c *Choreographer) advanceScan(remaining, duration time.Duration,
	next func()) time.Duration {

	avail := duration - c.clock

	if remaining >= avail {
		c.cursor = c.totalFrames - 1
		c.clock = duration
		next()
		return remaining - avail
	}

	c.clock += remaining

	// cursor advances linearly over the stage, never decreasing and never
	// exceeding the final frame
	frame := int(c.clock.Seconds() / duration.Seconds() * float64(c.totalFrames))

	if frame > c.totalFrames-1 {
		frame = c.totalFrames - 1
	}

	if frame > c.cursor {
		c.cursor = frame
	}

	return 0
}

// advanceScript advances the stage 2 guided tour script, returning any
// unconsumed time
func (c *Choreographer) advanceScript(remaining time.Duration) time.Duration {

	if c.stepIdx >= len(c.script) {
		c.enterStage3()
		return remaining
	}

	st := c.script[c.stepIdx]
	c.visible = st.labels
	c.cursor = c.holdFrame

	avail := st.dur - c.stepClock

	if remaining >= avail {

		// finish the step
		if st.kind == stepTween {
			c.zoom = st.target
		}

		c.clock += avail
		c.stepIdx++
		c.stepClock = 0
		c.tweenFrom = c.zoom

		if c.stepIdx >= len(c.script) {
			c.enterStage3()
		}

		return remaining - avail
	}

	c.clock += remaining
	c.stepClock += remaining

	if st.kind == stepTween {
		t := c.stepClock.Seconds() / st.dur.Seconds()
		c.zoom = lerpZoom(c.tweenFrom, st.target, easeInOut(t))
	}

	return 0
}

// snapshot builds the render instruction for the current state
func (c *Choreographer) snapshot() Instruction {

	toggles := c.base
	toggles.Annotations = c.base.Annotations && c.annotationsVisible()

	return Instruction{
		Phase:        c.phase,
		Frame:        c.cursor,
		Timestamp:    c.clock,
		Zoom:         c.zoom,
		Toggles:      toggles,
		ActiveLabels: c.visible,
		TrackAnchors: c.phase == PhaseStage3,
		Done:         c.phase == PhaseComplete,
	}
}

// annotationsVisible reports whether the current phase shows annotation
// callouts.  The complete state keeps them on so the static end view stays
// informative.
func (c *Choreographer) annotationsVisible() bool {
	switch c.phase {
	case PhaseStage2, PhaseStage3, PhaseComplete:
		return true
	}
	return false
}
