package export

import (
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	shotform "github.com/hoopsight/go-shotform"
	"github.com/hoopsight/go-shotform/render"
	"github.com/hoopsight/go-shotform/timeline"
)

// Selector chooses which playback stages an export replays
type Selector int

const (
	SelectAll Selector = iota
	SelectStage1
	SelectStage2
	SelectStage3
)

// ParseSelector parses a stage selector name, one of all, stage1, stage2
// or stage3
func ParseSelector(s string) (Selector, error) {
	switch s {
	case "", "all":
		return SelectAll, nil
	case "stage1":
		return SelectStage1, nil
	case "stage2":
		return SelectStage2, nil
	case "stage3":
		return SelectStage3, nil
	}
	return SelectAll, fmt.Errorf("unknown stage selector %q", s)
}

// phase returns the timeline phase a single stage selector targets
func (s Selector) phase() timeline.Phase {
	switch s {
	case SelectStage2:
		return timeline.PhaseStage2
	case SelectStage3:
		return timeline.PhaseStage3
	default:
		return timeline.PhaseStage1
	}
}

// Options defines the video encoding settings
type Options struct {
	// Codec is the FourCC of the video codec
	Codec string
	// Pattern is the temp file pattern deciding the container format
	Pattern string
}

// DefaultOptions returns mp4/avc1 encoding settings
func DefaultOptions() Options {
	return Options{
		Codec:   "avc1",
		Pattern: "shotform-*.mp4",
	}
}

// Exporter replays the playback choreography headlessly against an
// offscreen surface and captures the frames into an encoded video.  It
// reuses the same overlay rendering as the interactive path so exported
// video is pixel policy identical to the live preview.  Pacing comes from
// the encoder frame rate and synthetic time deltas, never wall clock
// waits.
type Exporter struct {
	overlay *render.Overlay
	opts    Options
}

// New returns an exporter rendering through the given overlay
func New(overlay *render.Overlay, opts Options) *Exporter {

	if opts.Codec == "" {
		opts.Codec = DefaultOptions().Codec
	}

	if opts.Pattern == "" {
		opts.Pattern = DefaultOptions().Pattern
	}

	return &Exporter{overlay: overlay, opts: opts}
}

// ExportStage replays the selected stage, or the whole three stage
// sequence, over the given base frames and returns the encoded video
// bytes.  frames holds the decoded raster data of seq's frames at the
// render surface size.  An encoding failure is terminal for this export
// only, it never affects live playback state.
func (e *Exporter) ExportStage(sel Selector, seq *shotform.Sequence,
	frames []gocv.Mat, base shotform.Toggles,
	timing timeline.Timing) ([]byte, error) {

	if len(seq.Frames) == 0 || len(frames) == 0 {
		return nil, timeline.ErrNoFrames
	}

	if len(frames) != len(seq.Frames) {
		return nil, fmt.Errorf("frame count mismatch: %d raster frames for %d records",
			len(frames), len(seq.Frames))
	}

	release := seq.ReleaseFrame()
	focus := e.overlay.LabelFocus(seq.Frames[release])

	ch, err := timeline.New(len(seq.Frames), seq.FPS, release, focus,
		base, timing)

	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp("", e.opts.Pattern)

	if err != nil {
		return nil, fmt.Errorf("error creating export file: %w", err)
	}

	path := tmp.Name()
	tmp.Close()
	defer os.Remove(path)

	width := frames[0].Cols()
	height := frames[0].Rows()

	writer, err := gocv.VideoWriterFile(path, e.opts.Codec, seq.FPS,
		width, height, true)

	if err != nil {
		return nil, fmt.Errorf("export encoding failed: %w", err)
	}

	if !writer.IsOpened() {
		writer.Close()
		return nil, fmt.Errorf("export encoding failed: video writer not opened for codec %s",
			e.opts.Codec)
	}

	err = e.replay(ch, sel, seq, frames, writer, timing)

	if cerr := writer.Close(); cerr != nil && err == nil {
		err = fmt.Errorf("export encoding failed: %w", cerr)
	}

	if err != nil {
		return nil, err
	}

	buf, err := os.ReadFile(path)

	if err != nil {
		return nil, fmt.Errorf("error reading export file: %w", err)
	}

	log.Debugf("export: wrote %d bytes for selector %v", len(buf), sel)

	return buf, nil
}

// replay drives the choreographer with synthetic deltas of one frame
// interval, submitting each rendered tick to the encoder
func (e *Exporter) replay(ch *timeline.Choreographer, sel Selector,
	seq *shotform.Sequence, frames []gocv.Mat, writer *gocv.VideoWriter,
	timing timeline.Timing) error {

	dt := time.Duration(float64(time.Second) / seq.FPS)

	// upper bound on ticks, the whole sequence plus the stage 2 tour
	// with margin, guards against a stalled timeline looping forever
	tour := time.Duration(len(e.overlay.Labels())) *
		(timing.LabelDisplay + 3*timing.Tween + 2*timing.Hold)
	mult := timing.SpeedMultiplier
	if mult <= 0 {
		mult = 1
	}
	total := time.Duration(float64(len(seq.Frames))/seq.FPS*(1+mult)*
		float64(time.Second)) + tour
	maxTicks := int(total/dt) + len(seq.Frames) + 16

	return replayInstructions(ch, sel, dt, maxTicks,
		func(instr timeline.Instruction) error {
			return e.writeTick(writer, seq, frames, instr)
		})
}

// replayInstructions starts the selected stage and feeds each tick's
// instruction to emit until the stage, or the whole sequence, completes.
// Holds and tweens duplicate frames naturally, which is what carries the
// per frame timing into the encoder timestamps.
func replayInstructions(ch *timeline.Choreographer, sel Selector,
	dt time.Duration, maxTicks int,
	emit func(timeline.Instruction) error) error {

	if sel == SelectAll {
		ch.Play()
	} else if err := ch.JumpToStage(sel.phase()); err != nil {
		return err
	}

	instr := ch.Advance(0)

	// a stage with no content, such as the guided tour without labels,
	// lands in the next phase immediately
	if sel != SelectAll && instr.Phase != sel.phase() {
		return nil
	}

	for tick := 0; tick < maxTicks; tick++ {

		if err := emit(instr); err != nil {
			return err
		}

		next := ch.Advance(dt)

		if sel == SelectAll {
			if next.Done {
				return emit(next)
			}
		} else if next.Phase != sel.phase() {
			return nil
		}

		instr = next
	}

	return fmt.Errorf("export aborted: tick budget exhausted before stage completed")
}

// writeTick composes one frame and submits it to the encoder
func (e *Exporter) writeTick(writer *gocv.VideoWriter, seq *shotform.Sequence,
	frames []gocv.Mat, instr timeline.Instruction) error {

	idx := instr.Frame

	if idx < 0 || idx >= len(frames) {
		return fmt.Errorf("frame cursor %d outside raster frames", idx)
	}

	img := frames[idx].Clone()
	defer img.Close()

	e.overlay.DrawFrame(&img, seq.Frames[idx], instr)

	if err := writer.Write(img); err != nil {
		return fmt.Errorf("export encoding failed: %w", err)
	}

	return nil
}
