package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/san-kum/asciibrot/internal/fractal"
	"github.com/san-kum/asciibrot/internal/palette"
	"github.com/san-kum/asciibrot/internal/plot"
	"gopkg.in/yaml.v3"
)

const (
	DefaultFrames = 100
	DefaultDelay  = 30 * time.Millisecond
)

// ErrInvalidConfig is returned by Validate.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Style    palette.Style    `yaml:"style"`
	Frames   int              `yaml:"frames"`
	Width    int              `yaml:"width"`
	Height   int              `yaml:"height"`
	Delay    time.Duration    `yaml:"delay"`
	Workers  int              `yaml:"workers"`
	Cache    bool             `yaml:"cache"`
	Viewport fractal.Viewport `yaml:"viewport"`
}

func DefaultConfig() *Config {
	return &Config{
		Style:    palette.DefaultStyle,
		Frames:   DefaultFrames,
		Width:    plot.DefaultWidth,
		Height:   plot.DefaultHeight,
		Delay:    DefaultDelay,
		Cache:    true,
		Viewport: fractal.DefaultViewport,
	}
}

// Load reads a YAML file on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	if c.Frames < 1 {
		return fmt.Errorf("%w: frames must be positive, got %d", ErrInvalidConfig, c.Frames)
	}
	if c.Delay < 0 {
		return fmt.Errorf("%w: delay must not be negative, got %s", ErrInvalidConfig, c.Delay)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative, got %d", ErrInvalidConfig, c.Workers)
	}
	return c.PlotOptions().Validate()
}

// PlotOptions converts the config into plotter options.
func (c *Config) PlotOptions() plot.Options {
	return plot.Options{
		Width:    c.Width,
		Height:   c.Height,
		Viewport: c.Viewport,
		Style:    c.Style,
		Workers:  c.Workers,
		Cache:    c.Cache,
	}
}
