package config

import (
	"sort"

	"github.com/san-kum/asciibrot/internal/fractal"
)

// Preset is a named region of the complex plane.
type Preset struct {
	Description string
	Viewport    fractal.Viewport
}

// Classic regions / landmarks in the Mandelbrot set
var Presets = map[string]Preset{
	"full": {
		Description: "the whole set",
		Viewport:    fractal.DefaultViewport,
	},
	"cardioid": {
		Description: "main cardioid and period-2 bulb",
		Viewport:    fractal.Viewport{XMin: -1.5, XMax: 0.5, YMin: -1.0, YMax: 1.0},
	},
	"seahorse": {
		Description: "seahorse valley, dense filaments and repeating curls",
		Viewport:    fractal.Viewport{XMin: -0.8, XMax: -0.7, YMin: 0.05, YMax: 0.15},
	},
	"elephant": {
		Description: "elephant valley, large bulb with trunk-like tendrils",
		Viewport:    fractal.Viewport{XMin: 0.25, XMax: 0.35, YMin: -0.05, YMax: 0.05},
	},
	"minibrot": {
		Description: "spiral minibrot, small copy with tight spiral arms",
		Viewport:    fractal.Viewport{XMin: -0.7435, XMax: -0.7420, YMin: 0.1310, YMax: 0.1325},
	},
	"triple-spiral": {
		Description: "threefold symmetric spiral structure",
		Viewport:    fractal.Viewport{XMin: -0.7480, XMax: -0.7450, YMin: 0.0950, YMax: 0.0980},
	},
	"dragon": {
		Description: "valley of the dragon, deep spiral filaments",
		Viewport:    fractal.Viewport{XMin: -0.7400, XMax: -0.7350, YMin: 0.1800, YMax: 0.1850},
	},
	"antenna": {
		Description: "needle along the negative real axis",
		Viewport:    fractal.Viewport{XMin: -1.85, XMax: -1.75, YMin: -0.05, YMax: 0.05},
	},
}

func GetPreset(name string) (Preset, bool) {
	p, ok := Presets[name]
	return p, ok
}

// ListPresets returns the preset names in sorted order.
func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
