package fractal

import (
	"fmt"
	"math"
)

// Viewport is the rectangular region of the complex plane mapped onto the grid.
type Viewport struct {
	XMin float64 `yaml:"x_min" json:"x_min"`
	XMax float64 `yaml:"x_max" json:"x_max"`
	YMin float64 `yaml:"y_min" json:"y_min"`
	YMax float64 `yaml:"y_max" json:"y_max"`
}

// DefaultViewport frames the whole set.
var DefaultViewport = Viewport{XMin: -2.5, XMax: 1.0, YMin: -1.5, YMax: 1.5}

func (v Viewport) Validate() error {
	for _, f := range []float64{v.XMin, v.XMax, v.YMin, v.YMax} {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: non-finite bound in %+v", ErrInvalidViewport, v)
		}
	}
	if v.XMin >= v.XMax {
		return fmt.Errorf("%w: x_min %g must be below x_max %g", ErrInvalidViewport, v.XMin, v.XMax)
	}
	if v.YMin >= v.YMax {
		return fmt.Errorf("%w: y_min %g must be below y_max %g", ErrInvalidViewport, v.YMin, v.YMax)
	}
	return nil
}

// XStep is the real-axis distance between adjacent columns of a width-wide grid.
func (v Viewport) XStep(width int) float64 { return (v.XMax - v.XMin) / float64(width) }

// YStep is the imaginary-axis distance between adjacent rows of a height-tall grid.
func (v Viewport) YStep(height int) float64 { return (v.YMax - v.YMin) / float64(height) }

// Point maps grid cell (row, col) to its coordinate. Row 0 is the top edge.
func (v Viewport) Point(row, col, width, height int) complex128 {
	x := v.XMin + float64(col)*v.XStep(width)
	y := v.YMax - float64(row)*v.YStep(height)
	return complex(x, y)
}
