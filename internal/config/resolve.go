package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/san-kum/asciibrot/internal/palette"
)

// ErrUnknownPreset is returned for a preset name with no entry in Presets.
var ErrUnknownPreset = errors.New("config: unknown preset")

// Overrides are values set explicitly on the command line. Nil fields were
// not set and leave the lower layers alone.
type Overrides struct {
	Frames  *int
	Width   *int
	Height  *int
	Delay   *time.Duration
	Workers *int
	Cache   *bool

	// Style is a raw selector; empty means unset.
	Style string
}

// Resolve layers defaults, the named preset, the config file, overrides and
// finally the style selector. A config file that leaves the viewport at its
// default keeps the preset's viewport. Empty preset or file skips that layer.
func Resolve(preset, file string, o Overrides) (*Config, error) {
	cfg := DefaultConfig()

	if preset != "" {
		p, ok := GetPreset(preset)
		if !ok {
			return nil, fmt.Errorf("%w: %s (available: %s)", ErrUnknownPreset, preset, strings.Join(ListPresets(), ", "))
		}
		cfg.Viewport = p.Viewport
	}

	if file != "" {
		loaded, err := Load(file)
		if err != nil {
			return nil, err
		}
		if preset != "" && loaded.Viewport == DefaultConfig().Viewport {
			loaded.Viewport = cfg.Viewport
		}
		cfg = loaded
	}

	if o.Frames != nil {
		cfg.Frames = *o.Frames
	}
	if o.Width != nil {
		cfg.Width = *o.Width
	}
	if o.Height != nil {
		cfg.Height = *o.Height
	}
	if o.Delay != nil {
		cfg.Delay = *o.Delay
	}
	if o.Workers != nil {
		cfg.Workers = *o.Workers
	}
	if o.Cache != nil {
		cfg.Cache = *o.Cache
	}

	if o.Style != "" {
		style, err := palette.ParseStyle(o.Style)
		if err != nil {
			return nil, err
		}
		cfg.Style = style
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
