package palette

import (
	"math"

	"github.com/san-kum/asciibrot/internal/fractal"
)

// Colorize maps an escape result under the given iteration bound to a glyph.
// Escaped cells are driven by Iterations/maxIter (or the raw count for
// SaturatingRGB); cells that never escaped take the top of the style's range.
// A style outside the closed set yields a blank glyph.
func Colorize(r fractal.Result, maxIter int, s Style) Glyph {
	ratio := r.Ratio(maxIter)

	switch s {
	case Grayscale:
		return ColorForGray(ratio)

	case ProportionalRGB:
		red, green, blue := 1.0, 1.0, 1.0
		if r.Escaped {
			red = math.Min(10*ratio, 1)
			green = math.Min(2*ratio, 1)
			blue = math.Min(ratio, 1)
		}
		return ColorForRGB(unit(red), unit(green), unit(blue))

	case SaturatingRGB:
		red, green, blue := 255.0, 255.0, 255.0
		if r.Escaped {
			k := float64(r.Iterations)
			red = math.Min(10*k, 255)
			green = math.Min(5*k, 255)
			blue = math.Min(k, 255)
		}
		return ColorForRGB(channel(red), channel(green), channel(blue))

	case TwoTone:
		red, blue := 1.0, 1.0
		if r.Escaped {
			red = math.Min(100*ratio, 1)
			blue = math.Min(ratio, 1)
		}
		return ColorForRGB(unit(red), 255, unit(blue))
	}

	return Glyph{Blank: true}
}

// unit scales a [0,1] component to a byte channel.
func unit(v float64) uint8 { return channel(v * 255) }

// channel clamps v to [0,255]. NaN maps to 0.
func channel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
