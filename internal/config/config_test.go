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

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Style != palette.ProportionalRGB {
		t.Errorf("expected proportional style, got %v", cfg.Style)
	}
	if cfg.Width != 80 || cfg.Height != 30 {
		t.Errorf("expected 80x30 grid, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.Viewport != fractal.DefaultViewport {
		t.Errorf("unexpected viewport %+v", cfg.Viewport)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "brot.yaml")
	data := `style: grayscale
frames: 12
delay: 5ms
viewport:
  x_min: -1
  x_max: 1
  y_min: -0.5
  y_max: 0.5
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if cfg.Style != palette.Grayscale {
		t.Errorf("style = %v", cfg.Style)
	}
	if cfg.Frames != 12 {
		t.Errorf("frames = %d", cfg.Frames)
	}
	if cfg.Delay != 5*time.Millisecond {
		t.Errorf("delay = %s", cfg.Delay)
	}
	if cfg.Width != 80 {
		t.Errorf("unset width should keep default, got %d", cfg.Width)
	}
	if cfg.Viewport.XMin != -1 || cfg.Viewport.YMax != 0.5 {
		t.Errorf("viewport = %+v", cfg.Viewport)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		data string
	}{
		{"zero frames", "frames: 0\n"},
		{"bad style", "style: 7\n"},
		{"inverted viewport", "viewport: {x_min: 1, x_max: -1, y_min: -1, y_max: 1}\n"},
		{"negative delay", "delay: -1s\n"},
		{"not yaml", "frames: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".yaml")
			if err := os.WriteFile(path, []byte(tt.data), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")
	cfg := DefaultConfig()
	cfg.Style = palette.TwoTone
	cfg.Workers = 3
	cfg.Viewport = Presets["seahorse"].Viewport

	if err := Save(path, cfg); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if *got != *cfg {
		t.Errorf("loaded %+v, want %+v", got, cfg)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero width")
	}

	cfg = DefaultConfig()
	cfg.Workers = -2
	if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("listed %d presets, have %d", len(names), len(Presets))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
	for _, name := range names {
		p, ok := GetPreset(name)
		if !ok {
			t.Errorf("GetPreset(%q) missing", name)
			continue
		}
		if err := p.Viewport.Validate(); err != nil {
			t.Errorf("preset %q: %v", name, err)
		}
	}

	if _, ok := GetPreset("nonexistent"); ok {
		t.Error("expected missing preset")
	}
	if p, _ := GetPreset("full"); p.Viewport != fractal.DefaultViewport {
		t.Error("full preset should match the default viewport")
	}
}
