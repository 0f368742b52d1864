package shotform

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the recognized configuration surface of the engine: overlay
// toggles, angle thresholds per joint family, stage timing and watermark
// placement.  All fields have working defaults so a missing config file is
// not an error.
type Config struct {
	Overlay    OverlayConfig   `toml:"overlay"`
	Thresholds ThresholdConfig `toml:"thresholds"`
	Timing     TimingConfig    `toml:"timing"`
	Watermark  WatermarkConfig `toml:"watermark"`
}

// OverlayConfig maps the overlay layer toggles
type OverlayConfig struct {
	Skeleton    bool `toml:"skeleton"`
	Joints      bool `toml:"joints"`
	Ball        bool `toml:"ball"`
	Annotations bool `toml:"annotations"`
}

// ThresholdConfig maps the angle bands per joint family
type ThresholdConfig struct {
	Elbow BandConfig `toml:"elbow"`
	Knee  BandConfig `toml:"knee"`
}

// BandConfig maps one angle band
type BandConfig struct {
	GoodMin float64 `toml:"good-min"`
	GoodMax float64 `toml:"good-max"`
	WarnMin float64 `toml:"warn-min"`
	WarnMax float64 `toml:"warn-max"`
}

// TimingConfig maps the stage timing constants.  Durations are in seconds.
type TimingConfig struct {
	LabelDisplay    float64 `toml:"label-display"`
	Tween           float64 `toml:"tween"`
	Hold            float64 `toml:"hold"`
	SpeedMultiplier float64 `toml:"speed-multiplier"`
	LabelZoom       float64 `toml:"label-zoom"`
	AnchorZoom      float64 `toml:"anchor-zoom"`
}

// WatermarkConfig maps the watermark settings
type WatermarkConfig struct {
	Enabled bool   `toml:"enabled"`
	Text    string `toml:"text"`
	// Corner is one of top-left, top-right, bottom-left, bottom-right
	Corner string `toml:"corner"`
	// FontFile is an optional TTF file used to draw the watermark, the
	// built in Hershey font is used when empty
	FontFile string `toml:"font-file"`
}

// DefaultConfig returns the configuration used when no config file is
// present.  Timing constants match the reference captures: label display
// 1s, tween 0.8s, hold 2s, stage 3 at 4x the stage 1 duration.
func DefaultConfig() Config {

	t := DefaultThresholds()

	return Config{
		Overlay: OverlayConfig{
			Skeleton:    true,
			Joints:      true,
			Ball:        true,
			Annotations: true,
		},
		Thresholds: ThresholdConfig{
			Elbow: BandConfig{t.Elbow.GoodMin, t.Elbow.GoodMax, t.Elbow.WarnMin, t.Elbow.WarnMax},
			Knee:  BandConfig{t.Knee.GoodMin, t.Knee.GoodMax, t.Knee.WarnMin, t.Knee.WarnMax},
		},
		Timing: TimingConfig{
			LabelDisplay:    1.0,
			Tween:           0.8,
			Hold:            2.0,
			SpeedMultiplier: 4.0,
			LabelZoom:       2.5,
			AnchorZoom:      3.0,
		},
		Watermark: WatermarkConfig{
			Enabled: false,
			Corner:  "bottom-right",
		},
	}
}

// LoadConfig reads a TOML config from the given path, applying it over the
// defaults.  A missing file returns the defaults and is not an error.
func LoadConfig(path string) (Config, error) {

	cfg := DefaultConfig()

	if path == "" {
		return cfg, nil
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to stat config: %w", err)
	}

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode config: %w", err)
	}

	return cfg, nil
}

// ToThresholds converts the config bands into classifier thresholds
func (c ThresholdConfig) ToThresholds() Thresholds {
	return Thresholds{
		Elbow: AngleBand{c.Elbow.GoodMin, c.Elbow.GoodMax, c.Elbow.WarnMin, c.Elbow.WarnMax},
		Knee:  AngleBand{c.Knee.GoodMin, c.Knee.GoodMax, c.Knee.WarnMin, c.Knee.WarnMax},
	}
}

// ToToggles converts the overlay config into a toggle set
func (c OverlayConfig) ToToggles() Toggles {
	return Toggles{
		Skeleton:    c.Skeleton,
		Joints:      c.Joints,
		Ball:        c.Ball,
		Annotations: c.Annotations,
	}
}
