package palette

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Symbol is the character drawn for every grid cell.
const Symbol = '*'

// Glyph is a single styled cell.
type Glyph struct {
	Symbol  rune
	R, G, B uint8
	Gray    bool
	Blank   bool
}

// ColorForRGB builds a glyph with the given foreground color.
func ColorForRGB(r, g, b uint8) Glyph {
	return Glyph{Symbol: Symbol, R: r, G: g, B: b}
}

// ColorForGray builds a grayscale glyph; intensity 0 is black, 1 is white.
func ColorForGray(intensity float64) Glyph {
	v := unit(intensity)
	return Glyph{Symbol: Symbol, R: v, G: v, B: v, Gray: true}
}

// Hex returns the foreground color as #rrggbb.
func (g Glyph) Hex() string {
	return "#" + hexByte(g.R) + hexByte(g.G) + hexByte(g.B)
}

// Renderer turns glyphs into ANSI-styled strings. It memoizes one style per
// color and is not safe for concurrent use.
type Renderer struct {
	lg     *lipgloss.Renderer
	styles map[string]lipgloss.Style
}

// NewRenderer renders for w, detecting the color profile from the terminal.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{
		lg:     lipgloss.NewRenderer(w),
		styles: make(map[string]lipgloss.Style),
	}
}

// FromLipgloss wraps an existing lipgloss renderer, such as one bound to a
// remote session.
func FromLipgloss(lg *lipgloss.Renderer) *Renderer {
	return &Renderer{
		lg:     lg,
		styles: make(map[string]lipgloss.Style),
	}
}

// NewRendererWithProfile renders with a fixed color profile, regardless of
// what w supports.
func NewRendererWithProfile(w io.Writer, p termenv.Profile) *Renderer {
	r := NewRenderer(w)
	r.lg.SetColorProfile(p)
	return r
}

// Render returns the glyph wrapped in its foreground color sequence.
func (r *Renderer) Render(g Glyph) string {
	if g.Blank {
		return ""
	}
	hex := g.Hex()
	st, ok := r.styles[hex]
	if !ok {
		st = r.lg.NewStyle().Foreground(lipgloss.Color(hex))
		r.styles[hex] = st
	}
	return st.Render(string(g.Symbol))
}

// Lipgloss exposes the underlying renderer for callers building chrome
// around frames.
func (r *Renderer) Lipgloss() *lipgloss.Renderer { return r.lg }

func hexByte(v uint8) string {
	const hex = "0123456789abcdef"
	return string(hex[v/16]) + string(hex[v%16])
}
