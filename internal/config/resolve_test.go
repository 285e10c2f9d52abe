package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/asciibrot/internal/fractal"
	"github.com/san-kum/asciibrot/internal/palette"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "brot.yaml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestResolve_Defaults(t *testing.T) {
	cfg, err := Resolve("", "", Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	if *cfg != *DefaultConfig() {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestResolve_PresetKeptUnderFileWithDefaultViewport(t *testing.T) {
	path := writeConfig(t, "frames: 12\nstyle: twotone\n")

	cfg, err := Resolve("seahorse", path, Overrides{})
	if err != nil {
		t.Fatal(err)
	}

	p, _ := GetPreset("seahorse")
	if cfg.Viewport != p.Viewport {
		t.Errorf("viewport = %+v, want preset %+v", cfg.Viewport, p.Viewport)
	}
	if cfg.Frames != 12 || cfg.Style != palette.TwoTone {
		t.Errorf("file values not applied: %+v", cfg)
	}
}

func TestResolve_FileViewportBeatsPreset(t *testing.T) {
	path := writeConfig(t, `viewport:
  x_min: -1
  x_max: 1
  y_min: -0.5
  y_max: 0.5
`)

	cfg, err := Resolve("seahorse", path, Overrides{})
	if err != nil {
		t.Fatal(err)
	}
	want := fractal.Viewport{XMin: -1, XMax: 1, YMin: -0.5, YMax: 0.5}
	if cfg.Viewport != want {
		t.Errorf("viewport = %+v, want %+v", cfg.Viewport, want)
	}
}

func TestResolve_OverridesBeatFile(t *testing.T) {
	path := writeConfig(t, "frames: 12\nwidth: 40\ndelay: 5ms\ncache: true\n")

	frames := 7
	delay := time.Duration(0)
	cache := false
	cfg, err := Resolve("", path, Overrides{Frames: &frames, Delay: &delay, Cache: &cache})
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Frames != 7 || cfg.Delay != 0 || cfg.Cache {
		t.Errorf("overrides not applied: %+v", cfg)
	}
	if cfg.Width != 40 {
		t.Errorf("unset override replaced file width: %d", cfg.Width)
	}
}

func TestResolve_StyleSelectorBeatsFile(t *testing.T) {
	path := writeConfig(t, "style: grayscale\n")

	cfg, err := Resolve("", path, Overrides{Style: "2"})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Style != palette.SaturatingRGB {
		t.Errorf("style = %v, want saturating", cfg.Style)
	}
}

func TestResolve_Errors(t *testing.T) {
	zero := 0

	tests := []struct {
		name   string
		preset string
		o      Overrides
		want   error
	}{
		{"unknown selector", "", Overrides{Style: "plaid"}, palette.ErrUnknownStyle},
		{"selector out of range", "", Overrides{Style: "4"}, palette.ErrUnknownStyle},
		{"unknown preset", "nowhere", Overrides{}, ErrUnknownPreset},
		{"zero frames", "", Overrides{Frames: &zero}, ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolve(tt.preset, "", tt.o)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestResolve_MissingFile(t *testing.T) {
	if _, err := Resolve("", filepath.Join(t.TempDir(), "absent.yaml"), Overrides{}); err == nil {
		t.Error("expected error for missing file")
	}
}
