package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gocv.io/x/gocv"

	shotform "github.com/hoopsight/go-shotform"
	"github.com/hoopsight/go-shotform/export"
	"github.com/hoopsight/go-shotform/render"
	"github.com/hoopsight/go-shotform/timeline"
)

// Replay wires the detection sequence, buffered video frames and the
// rendering engine together for interactive playback and export
type Replay struct {
	cfg shotform.Config
	seq *shotform.Sequence
	// vidBuffer buffers the decoded video frames into memory
	vidBuffer []gocv.Mat
	overlay   *render.Overlay
	choreo    *timeline.Choreographer
	exporter  *export.Exporter
}

// NewReplay loads the detection results, config and video frames and
// builds the playback session
func NewReplay(vidFile, detFile, cfgFile string) (*Replay, error) {

	r := &Replay{}

	var err error

	r.cfg, err = shotform.LoadConfig(cfgFile)

	if err != nil {
		return nil, fmt.Errorf("error loading config: %w", err)
	}

	r.seq, err = loadDetections(detFile)

	if err != nil {
		return nil, fmt.Errorf("error loading detections: %w", err)
	}

	err = r.bufferVideo(vidFile)

	if err != nil {
		return nil, fmt.Errorf("error buffering video: %w", err)
	}

	if len(r.vidBuffer) == 0 {
		return nil, fmt.Errorf("video file contains no frames")
	}

	if len(r.vidBuffer) != len(r.seq.Frames) {
		log.Warnf("video has %d frames but detections cover %d, truncating",
			len(r.vidBuffer), len(r.seq.Frames))

		n := len(r.vidBuffer)

		if len(r.seq.Frames) < n {
			n = len(r.seq.Frames)
		}

		r.vidBuffer = r.vidBuffer[:n]
		r.seq.Frames = r.seq.Frames[:n]
	}

	renderW := r.vidBuffer[0].Cols()
	renderH := r.vidBuffer[0].Rows()

	mapper := shotform.NewMapper(r.seq.SourceWidth, r.seq.SourceHeight,
		renderW, renderH)
	classifier := shotform.NewClassifier(r.cfg.Thresholds.ToThresholds())

	release := r.seq.ReleaseFrame()
	labels := shotform.BuildLabels(r.seq.Frames[release])

	r.overlay, err = render.NewOverlay(mapper, classifier, labels,
		render.DefaultStyle(), r.cfg.Watermark)

	if err != nil {
		return nil, fmt.Errorf("error creating overlay: %w", err)
	}

	focus := r.overlay.LabelFocus(r.seq.Frames[release])

	r.choreo, err = timeline.New(len(r.seq.Frames), r.seq.FPS, release,
		focus, r.cfg.Overlay.ToToggles(),
		timeline.TimingFromConfig(r.cfg.Timing))

	if err != nil {
		return nil, fmt.Errorf("error creating choreographer: %w", err)
	}

	r.exporter = export.New(r.overlay, export.DefaultOptions())

	return r, nil
}

// Close frees the buffered video frames
func (r *Replay) Close() {
	for i := range r.vidBuffer {
		r.vidBuffer[i].Close()
	}
}

// loadDetections reads the detection service's JSON output
func loadDetections(detFile string) (*shotform.Sequence, error) {

	data, err := os.ReadFile(detFile)

	if err != nil {
		return nil, err
	}

	seq := &shotform.Sequence{}

	if err := json.Unmarshal(data, seq); err != nil {
		return nil, fmt.Errorf("error parsing detection JSON: %w", err)
	}

	if seq.FPS <= 0 {
		log.Warnf("detections declare no fps, defaulting to 30")
		seq.FPS = 30
	}

	return seq, nil
}

// bufferVideo reads in the video frames and saves them to a buffer
func (r *Replay) bufferVideo(vidFile string) error {

	// open handle to read frames of video file
	video, err := gocv.VideoCaptureFile(vidFile)

	if err != nil {
		return err
	}

	defer video.Close()

	r.vidBuffer = make([]gocv.Mat, 0)

	for {
		img := gocv.NewMat()

		// read the next frame from the video
		if ok := video.Read(&img); !ok {
			// reached last video frame
			break
		}

		// Check if the frame is empty
		if img.Empty() {
			continue
		}

		// push frame onto buffer
		r.vidBuffer = append(r.vidBuffer, img)
	}

	return nil
}

// Export replays the selected stages headlessly and writes the encoded
// video to outFile
func (r *Replay) Export(stage, outFile string) error {

	sel, err := export.ParseSelector(stage)

	if err != nil {
		return err
	}

	buf, err := r.exporter.ExportStage(sel, r.seq, r.vidBuffer,
		r.cfg.Overlay.ToToggles(), timeline.TimingFromConfig(r.cfg.Timing))

	if err != nil {
		return err
	}

	return os.WriteFile(outFile, buf, 0644)
}

// Show runs the interactive playback in a window.  Keys: space to
// pause/resume, r to restart, 1/2/3 to jump to a stage, a/d to scrub,
// q to quit.
func (r *Replay) Show() error {

	window := gocv.NewWindow("shotform replay")
	defer window.Close()

	img := gocv.NewMat()
	defer img.Close()

	r.choreo.Play()

	interval := int(1000 / r.seq.FPS)

	if interval < 1 {
		interval = 1
	}

	last := time.Now()

	for {
		now := time.Now()
		instr := r.choreo.Advance(now.Sub(last))
		last = now

		r.vidBuffer[instr.Frame].CopyTo(&img)
		r.overlay.DrawFrame(&img, r.seq.Frames[instr.Frame], instr)

		window.IMShow(img)

		switch window.WaitKey(interval) {
		case 'q', 27:
			return nil
		case ' ':
			if r.choreo.Playing() {
				r.choreo.Pause()
			} else {
				r.choreo.Play()
			}
		case 'r':
			r.choreo.Reset()
			r.choreo.Play()
		case '1':
			r.choreo.JumpToStage(timeline.PhaseStage1)
		case '2':
			r.choreo.JumpToStage(timeline.PhaseStage2)
		case '3':
			r.choreo.JumpToStage(timeline.PhaseStage3)
		case 'a':
			r.choreo.Seek(r.choreo.Frame() - 5)
		case 'd':
			r.choreo.Seek(r.choreo.Frame() + 5)
		}
	}
}

func main() {

	// optional .env file provides defaults for the flag values
	_ = godotenv.Load()

	vidFile := flag.String("v", "shot.mp4", "Video file of the basketball shot")
	detFile := flag.String("d", "detections.json", "Pose detection results JSON file")
	cfgFile := flag.String("c", os.Getenv("SHOTFORM_CONFIG"), "TOML config file")
	outFile := flag.String("o", "", "Write the exported video to this file")
	stage := flag.String("stage", "all", "Stage to export: all, stage1, stage2 or stage3")
	show := flag.Bool("show", false, "Show interactive playback in a window")

	flag.Parse()

	replay, err := NewReplay(*vidFile, *detFile, *cfgFile)

	if err != nil {
		log.Fatalf("Error creating replay: %v", err)
	}

	defer replay.Close()

	if *outFile != "" {
		if err := replay.Export(*stage, *outFile); err != nil {
			log.Fatalf("Error exporting video: %v", err)
		}
		log.Infof("Exported %s to %s", *stage, *outFile)
	}

	if *show {
		if err := replay.Show(); err != nil {
			log.Fatalf("Error running playback: %v", err)
		}
	}
}
