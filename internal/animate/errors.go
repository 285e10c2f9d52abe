package animate

import (
	"errors"
	"fmt"
)

// ErrInvalidFrameCount indicates a frame count below one.
var ErrInvalidFrameCount = errors.New("animate: frame count must be positive")

// FrameError wraps a failure with the frame and stage it happened in.
type FrameError struct {
	Frame   int
	Stage   State
	Wrapped error
}

func (e *FrameError) Error() string {
	return fmt.Sprintf("animate: frame %d (%s): %v", e.Frame, e.Stage, e.Wrapped)
}

func (e *FrameError) Unwrap() error {
	return e.Wrapped
}
