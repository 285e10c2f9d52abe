package plot

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/asciibrot/internal/fractal"
	"github.com/san-kum/asciibrot/internal/palette"
)

// ErrInvalidGrid indicates non-positive grid dimensions or iteration bound.
var ErrInvalidGrid = errors.New("plot: invalid grid")

const (
	DefaultWidth  = 80
	DefaultHeight = 30

	// rows per goroutine below which plotting stays on one goroutine
	minRowChunk = 4
)

type Options struct {
	Width    int
	Height   int
	Viewport fractal.Viewport
	Style    palette.Style
	Workers  int
	Cache    bool
}

func DefaultOptions() Options {
	return Options{
		Width:    DefaultWidth,
		Height:   DefaultHeight,
		Viewport: fractal.DefaultViewport,
		Style:    palette.DefaultStyle,
		Cache:    true,
	}
}

func (o Options) Validate() error {
	if o.Width <= 0 || o.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidGrid, o.Width, o.Height)
	}
	if !o.Style.Valid() {
		return fmt.Errorf("%w: %d", palette.ErrUnknownStyle, int(o.Style))
	}
	return o.Viewport.Validate()
}

// Plotter maps a fixed grid over a fixed viewport to frames. Only the
// iteration bound changes between calls. A Plotter is not safe for
// concurrent Plot calls.
type Plotter struct {
	opts  Options
	cache *fractal.Cache
}

func New(opts Options) (*Plotter, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	p := &Plotter{opts: opts}
	if opts.Cache {
		p.cache = fractal.NewCache(opts.Width, opts.Height)
	}
	return p, nil
}

func (p *Plotter) Options() Options { return p.opts }

// SetStyle changes the color style for subsequent frames. Escape results are
// unaffected, so the cache is kept.
func (p *Plotter) SetStyle(s palette.Style) error {
	if !s.Valid() {
		return fmt.Errorf("%w: %d", palette.ErrUnknownStyle, int(s))
	}
	p.opts.Style = s
	return nil
}

// Cache returns the escape cache, or nil when caching is disabled.
func (p *Plotter) Cache() *fractal.Cache { return p.cache }

// Reset drops cached escape results.
func (p *Plotter) Reset() {
	if p.cache != nil {
		p.cache.Reset()
	}
}

// Plot computes one frame for the given iteration bound. Rows are evaluated
// in parallel and assembled in row order.
func (p *Plotter) Plot(ctx context.Context, maxIter int) (*Frame, error) {
	if maxIter < 1 {
		return nil, fmt.Errorf("%w: iteration bound %d", ErrInvalidGrid, maxIter)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	o := p.opts
	frame := &Frame{
		MaxIter:  maxIter,
		Width:    o.Width,
		Height:   o.Height,
		Style:    o.Style,
		Viewport: o.Viewport,
		Rows:     make([]Row, o.Height),
		XLabels:  axisLabels(o.Viewport.XMax, o.Viewport.XStep(o.Width)),
	}
	errs := make([]error, o.Height)

	ParallelFor(o.Height, minRowChunk, o.Workers, func(start, end int) {
		for r := start; r < end; r++ {
			frame.Rows[r], errs[r] = p.plotRow(r, maxIter)
		}
	})

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return frame, ctx.Err()
}

func (p *Plotter) plotRow(r, maxIter int) (Row, error) {
	o := p.opts
	row := Row{
		Y:     o.Viewport.YMax - float64(r)*o.Viewport.YStep(o.Height),
		Cells: make([]Cell, o.Width),
	}
	for c := 0; c < o.Width; c++ {
		pt := o.Viewport.Point(r, c, o.Width, o.Height)

		var res fractal.Result
		if p.cache != nil {
			var err error
			if res, err = p.cache.Lookup(r, c, pt, maxIter); err != nil {
				return row, err
			}
		} else {
			res = fractal.Escape(pt, maxIter)
		}

		row.Cells[c] = Cell{
			Point:  pt,
			Result: res,
			Glyph:  palette.Colorize(res, maxIter, o.Style),
		}
	}
	return row, nil
}

// PlotFrame is a one-shot plot without caching.
func PlotFrame(width, height, maxIter int, vp fractal.Viewport, style palette.Style) (*Frame, error) {
	opts := Options{
		Width:    width,
		Height:   height,
		Viewport: vp,
		Style:    style,
	}
	p, err := New(opts)
	if err != nil {
		return nil, err
	}
	return p.Plot(context.Background(), maxIter)
}
