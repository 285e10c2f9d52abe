package fractal

import "errors"

// Domain errors for fractal operations.
var (
	// ErrInvalidViewport indicates inverted, empty or non-finite bounds.
	ErrInvalidViewport = errors.New("fractal: invalid viewport")

	// ErrCacheShape indicates a cache lookup outside the grid it was built for.
	ErrCacheShape = errors.New("fractal: cell outside cache bounds")
)
