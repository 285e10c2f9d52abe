// Package automation runs scripted sequences of animations and iteration
// sweeps without user interaction.
package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/asciibrot/internal/animate"
	"github.com/san-kum/asciibrot/internal/config"
	"github.com/san-kum/asciibrot/internal/fractal"
	"github.com/san-kum/asciibrot/internal/palette"
	"github.com/san-kum/asciibrot/internal/plot"
	"gopkg.in/yaml.v3"
)

var ErrEmptyTour = errors.New("automation: tour has no steps")

// Tour is a scripted sequence of animations, each over its own region.
type Tour struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step overrides parts of the base config for one animation. A named
// preset is applied first, then an explicit viewport.
type Step struct {
	Preset   string            `yaml:"preset"`
	Viewport *fractal.Viewport `yaml:"viewport"`
	Style    *palette.Style    `yaml:"style"`
	Frames   int               `yaml:"frames"`
	Delay    *time.Duration    `yaml:"delay"`
}

// LoadTour loads a tour from a YAML file
func LoadTour(path string) (*Tour, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var tour Tour
	if err := yaml.Unmarshal(data, &tour); err != nil {
		return nil, fmt.Errorf("parse tour %s: %w", path, err)
	}
	if len(tour.Steps) == 0 {
		return nil, ErrEmptyTour
	}

	return &tour, nil
}

// Apply returns a copy of base with the step's overrides.
func (s Step) Apply(base *config.Config) (*config.Config, error) {
	cfg := *base

	if s.Preset != "" {
		p, ok := config.GetPreset(s.Preset)
		if !ok {
			return nil, fmt.Errorf("unknown preset: %s", s.Preset)
		}
		cfg.Viewport = p.Viewport
	}
	if s.Viewport != nil {
		cfg.Viewport = *s.Viewport
	}
	if s.Style != nil {
		cfg.Style = *s.Style
	}
	if s.Frames > 0 {
		cfg.Frames = s.Frames
	}
	if s.Delay != nil {
		cfg.Delay = *s.Delay
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// StepResult summarizes the last frame of one tour step.
type StepResult struct {
	Step   int
	Config *config.Config
	Stats  plot.Stats
}

// RunTour animates every step to out in order. It stops at the first
// failing step.
func RunTour(ctx context.Context, tour *Tour, base *config.Config, out io.Writer, r *palette.Renderer, logger *log.Logger) ([]StepResult, error) {
	if len(tour.Steps) == 0 {
		return nil, ErrEmptyTour
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}

	results := make([]StepResult, 0, len(tour.Steps))

	for i, step := range tour.Steps {
		cfg, err := step.Apply(base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		p, err := plot.New(cfg.PlotOptions())
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		logger.Info("tour step", "step", fmt.Sprintf("%d/%d", i+1, len(tour.Steps)), "preset", step.Preset, "style", cfg.Style, "frames", cfg.Frames)

		var last *plot.Frame
		a := animate.New(out, animate.WithDelay(cfg.Delay), animate.WithLogger(logger))
		if err := a.Animate(ctx, cfg.Frames, animate.Plotting(p, r, func(f *plot.Frame) { last = f })); err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		results = append(results, StepResult{
			Step:   i + 1,
			Config: cfg,
			Stats:  last.Stats(),
		})
	}

	return results, nil
}

// Sweep plots with every iteration bound in [from, to] and returns the
// stats of each frame, in bound order.
func Sweep(ctx context.Context, p *plot.Plotter, from, to int) ([]plot.Stats, error) {
	if from < 1 || to < from {
		return nil, fmt.Errorf("invalid sweep range %d..%d", from, to)
	}

	results := make([]plot.Stats, 0, to-from+1)
	for n := from; n <= to; n++ {
		f, err := p.Plot(ctx, n)
		if err != nil {
			return results, err
		}
		results = append(results, f.Stats())
	}

	return results, nil
}

// InsideSeries extracts the in-set cell counts of a sweep.
func InsideSeries(stats []plot.Stats) []float64 {
	out := make([]float64, len(stats))
	for i, s := range stats {
		out[i] = float64(s.Inside)
	}
	return out
}
