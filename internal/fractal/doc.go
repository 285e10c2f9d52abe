// Package fractal provides the escape-time primitives for the Mandelbrot set.
//
// The package defines the numeric core used by the plotter:
//
//   - [Result]: escape iteration of a point, or "did not escape"
//   - [Escape]: the escape-time evaluator for z <- z*z + c
//   - [Viewport]: rectangular region of the complex plane
//   - [Cache]: per-cell memo of escape iterations across frames
//
// # Example
//
//	r := fractal.Escape(complex(-0.75, 0.1), 50)
//	if r.Escaped {
//		fmt.Println("escaped after", r.Iterations)
//	}
//
// # Thread Safety
//
// [Escape] is pure and safe for concurrent use. [Cache] is safe for
// concurrent use as long as no two goroutines touch the same cell, which is
// what the row-partitioned plotter guarantees.
package fractal
