// Package animate drives frame-by-frame terminal output. Each frame is
// rendered into a private buffer and written to the terminal in a single
// call, preceded by a clear-screen sequence, so frames never interleave.
package animate

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/san-kum/asciibrot/internal/palette"
	"github.com/san-kum/asciibrot/internal/plot"
)

// ClearScreen moves the cursor home and clears the display.
const ClearScreen = "\x1b[H\x1b[2J"

// FrameFunc renders frame number frame (1-based) into buf.
type FrameFunc func(ctx context.Context, frame int, buf *bytes.Buffer) error

type Option func(*Animator)

// WithDelay pauses between consecutive frames.
func WithDelay(d time.Duration) Option {
	return func(a *Animator) { a.delay = d }
}

func WithLogger(l *log.Logger) Option {
	return func(a *Animator) { a.logger = l }
}

// WithTransitionHook is called on every state change.
func WithTransitionHook(fn func(Transition)) Option {
	return func(a *Animator) { a.onTransition = fn }
}

// Animator is not safe for concurrent use.
type Animator struct {
	out          io.Writer
	delay        time.Duration
	logger       *log.Logger
	onTransition func(Transition)

	state  State
	frame  bytes.Buffer
	screen bytes.Buffer
}

func New(out io.Writer, opts ...Option) *Animator {
	a := &Animator{
		out:    out,
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Animator) State() State { return a.state }

// Animate renders frames 1..frameCount in order. A failing frame or write
// aborts the run and is returned as a *FrameError.
func (a *Animator) Animate(ctx context.Context, frameCount int, onFrame FrameFunc) error {
	if frameCount < 1 {
		return ErrInvalidFrameCount
	}
	a.transition(Idle, 0)

	for n := 1; n <= frameCount; n++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		a.transition(Rendering, n)
		start := time.Now()
		a.frame.Reset()
		if err := onFrame(ctx, n, &a.frame); err != nil {
			return &FrameError{Frame: n, Stage: Rendering, Wrapped: err}
		}

		a.transition(Flushing, n)
		a.screen.Reset()
		a.screen.WriteString(ClearScreen)
		a.screen.Write(a.frame.Bytes())
		if _, err := a.out.Write(a.screen.Bytes()); err != nil {
			return &FrameError{Frame: n, Stage: Flushing, Wrapped: err}
		}
		a.frame.Reset()
		a.screen.Reset()

		a.logger.Debug("frame flushed", "frame", n, "elapsed", time.Since(start))

		if a.delay > 0 && n < frameCount {
			if err := a.sleep(ctx); err != nil {
				return err
			}
		}
	}

	a.transition(Done, frameCount)
	return nil
}

func (a *Animator) sleep(ctx context.Context) error {
	t := time.NewTimer(a.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (a *Animator) transition(s State, frame int) {
	a.state = s
	if a.onTransition != nil {
		a.onTransition(Transition{State: s, Frame: frame})
	}
}

// Plotting returns a FrameFunc that plots with the frame number as the
// iteration bound and renders the result with r. report, if non-nil,
// receives every frame after it is rendered.
func Plotting(p *plot.Plotter, r *palette.Renderer, report func(*plot.Frame)) FrameFunc {
	return func(ctx context.Context, n int, buf *bytes.Buffer) error {
		frame, err := p.Plot(ctx, n)
		if err != nil {
			return err
		}
		if err := frame.Render(buf, r); err != nil {
			return err
		}
		if report != nil {
			report(frame)
		}
		return nil
	}
}
