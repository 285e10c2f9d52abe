package plot

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/muesli/termenv"
	"github.com/san-kum/asciibrot/internal/fractal"
	"github.com/san-kum/asciibrot/internal/palette"
)

// Cell is one plotted grid position.
type Cell struct {
	Point  complex128
	Result fractal.Result
	Glyph  palette.Glyph
}

// Row is one line of the grid, top to bottom, with its imaginary coordinate.
type Row struct {
	Y     float64
	Cells []Cell
}

// Frame is one complete plot for a single iteration bound.
type Frame struct {
	MaxIter  int
	Width    int
	Height   int
	Style    palette.Style
	Viewport fractal.Viewport
	Rows     []Row
	XLabels  []float64
}

// Stats summarizes how many cells escaped in a frame.
type Stats struct {
	Inside    int
	Escaped   int
	MaxEscape int
}

func (f *Frame) Stats() Stats {
	var s Stats
	for _, row := range f.Rows {
		for _, c := range row.Cells {
			if !c.Result.Escaped {
				s.Inside++
				continue
			}
			s.Escaped++
			if c.Result.Iterations > s.MaxEscape {
				s.MaxEscape = c.Result.Iterations
			}
		}
	}
	return s
}

// Render writes the frame as text: one labelled line per row followed by the
// x-axis label line.
func (f *Frame) Render(w io.Writer, r *palette.Renderer) error {
	var sb strings.Builder
	for _, row := range f.Rows {
		sb.WriteString(FormatLabel(row.Y))
		for _, c := range row.Cells {
			sb.WriteString(r.Render(c.Glyph))
		}
		sb.WriteByte('\n')
	}
	for _, x := range f.XLabels {
		sb.WriteString(FormatLabel(x))
	}
	sb.WriteByte('\n')

	_, err := io.WriteString(w, sb.String())
	return err
}

// String renders the frame without color.
func (f *Frame) String() string {
	var sb strings.Builder
	_ = f.Render(&sb, palette.NewRendererWithProfile(&sb, termenv.Ascii))
	return sb.String()
}

// FormatLabel formats an axis value right-aligned in six columns with the
// sign column kept for non-negative values, followed by a separator.
func FormatLabel(v float64) string {
	v = math.Round(v*100) / 100
	if v == 0 {
		v = 0 // drop negative zero
	}
	return fmt.Sprintf("% 6.2f | ", v)
}

// axisLabels returns the x-axis values from -xMax to xMax inclusive at step.
func axisLabels(xMax, step float64) []float64 {
	if step <= 0 || xMax < 0 {
		return nil
	}
	n := int(math.Floor(2*xMax/step+1e-9)) + 1
	labels := make([]float64, n)
	for i := range labels {
		labels[i] = -xMax + float64(i)*step
	}
	return labels
}
