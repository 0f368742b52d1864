package shotform

import (
	"os"
	"path/filepath"
	"testing"
)

// TestLoadConfigDefaults verifies missing config files fall back to the
// defaults without error
func TestLoadConfigDefaults(t *testing.T) {

	for _, path := range []string{"", "/nonexistent/shotform.toml"} {

		cfg, err := LoadConfig(path)

		if err != nil {
			t.Fatalf("LoadConfig(%q) error: %v", path, err)
		}

		if cfg.Timing.LabelDisplay != 1.0 || cfg.Timing.Tween != 0.8 ||
			cfg.Timing.Hold != 2.0 || cfg.Timing.SpeedMultiplier != 4.0 {
			t.Errorf("LoadConfig(%q) timing = %+v, want reference defaults",
				path, cfg.Timing)
		}

		if !cfg.Overlay.Skeleton || !cfg.Overlay.Annotations {
			t.Errorf("LoadConfig(%q) overlay toggles not defaulted on", path)
		}
	}
}

// TestLoadConfigFile verifies TOML values apply over the defaults
func TestLoadConfigFile(t *testing.T) {

	content := `
[overlay]
skeleton = true
joints = true
ball = false
annotations = true

[thresholds.elbow]
good-min = 80.0
good-max = 95.0
warn-min = 65.0
warn-max = 110.0

[timing]
speed-multiplier = 2.0

[watermark]
enabled = true
text = "hoopsight"
corner = "top-left"
`

	path := filepath.Join(t.TempDir(), "shotform.toml")

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)

	if err != nil {
		t.Fatalf("LoadConfig error: %v", err)
	}

	if cfg.Overlay.Ball {
		t.Error("ball toggle not applied")
	}

	th := cfg.Thresholds.ToThresholds()

	if th.Elbow.GoodMin != 80 || th.Elbow.GoodMax != 95 {
		t.Errorf("elbow band = %+v, want 80-95 good range", th.Elbow)
	}

	// untouched sections keep their defaults
	if th.Knee.GoodMin != 115 || th.Knee.GoodMax != 140 {
		t.Errorf("knee band = %+v, want defaults", th.Knee)
	}

	if cfg.Timing.SpeedMultiplier != 2.0 {
		t.Errorf("speed multiplier = %v, want 2.0", cfg.Timing.SpeedMultiplier)
	}

	if cfg.Timing.Hold != 2.0 {
		t.Errorf("hold = %v, want default 2.0", cfg.Timing.Hold)
	}

	if !cfg.Watermark.Enabled || cfg.Watermark.Text != "hoopsight" ||
		cfg.Watermark.Corner != "top-left" {
		t.Errorf("watermark = %+v, want enabled hoopsight top-left", cfg.Watermark)
	}
}

// TestToToggles verifies the overlay config conversion
func TestToToggles(t *testing.T) {

	oc := OverlayConfig{Skeleton: true, Joints: false, Ball: true, Annotations: false}
	tg := oc.ToToggles()

	if tg.Skeleton != true || tg.Joints != false ||
		tg.Ball != true || tg.Annotations != false {
		t.Errorf("ToToggles() = %+v, want field for field copy", tg)
	}
}
