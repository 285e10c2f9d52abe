package fractal

import "math/cmplx"

// EscapeRadius is the modulus beyond which an orbit is known to diverge.
const EscapeRadius = 2.0

// Result is the escape time of a point. The zero value means the orbit
// stayed bounded for the whole iteration budget.
type Result struct {
	Iterations int
	Escaped    bool
}

// EscapedAt returns a result that escaped at iteration k.
func EscapedAt(k int) Result { return Result{Iterations: k, Escaped: true} }

// Inside reports whether the point is presumed to be in the set.
func (r Result) Inside() bool { return !r.Escaped }

// Ratio is Iterations/maxIter for escaped points and 1 otherwise.
func (r Result) Ratio(maxIter int) float64 {
	if !r.Escaped || maxIter <= 0 {
		return 1
	}
	return float64(r.Iterations) / float64(maxIter)
}

// Escape iterates z <- z*z + c starting from z = c and returns the first
// iteration k in [1, maxIter] at which |z| > 2.
func Escape(c complex128, maxIter int) Result {
	z := c
	for k := 1; k <= maxIter; k++ {
		if cmplx.Abs(z) > EscapeRadius {
			return EscapedAt(k)
		}
		z = z*z + c
	}
	return Result{}
}
