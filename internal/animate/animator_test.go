package animate_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/muesli/termenv"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/asciibrot/internal/animate"
	"github.com/san-kum/asciibrot/internal/palette"
	"github.com/san-kum/asciibrot/internal/plot"
)

// recorder keeps every Write call separately.
type recorder struct {
	writes []string
	fail   error
}

func (r *recorder) Write(p []byte) (int, error) {
	if r.fail != nil {
		return 0, r.fail
	}
	r.writes = append(r.writes, string(p))
	return len(p), nil
}

var _ = Describe("Animator", func() {
	var (
		out         *recorder
		transitions []animate.Transition
		anim        *animate.Animator
	)

	BeforeEach(func() {
		out = &recorder{}
		transitions = nil
		anim = animate.New(out, animate.WithTransitionHook(func(t animate.Transition) {
			transitions = append(transitions, t)
		}))
	})

	It("invokes the frame callback with 1..n in order", func() {
		var frames []int
		err := anim.Animate(context.Background(), 3, func(_ context.Context, n int, buf *bytes.Buffer) error {
			frames = append(frames, n)
			fmt.Fprintf(buf, "frame-%d\n", n)
			return nil
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(frames).To(Equal([]int{1, 2, 3}))
		Expect(anim.State()).To(Equal(animate.Done))
	})

	It("writes each frame once, cleared and complete", func() {
		err := anim.Animate(context.Background(), 3, func(_ context.Context, n int, buf *bytes.Buffer) error {
			for i := 0; i < 5; i++ {
				fmt.Fprintf(buf, "frame-%d line-%d\n", n, i)
			}
			return nil
		})
		Expect(err).NotTo(HaveOccurred())

		Expect(out.writes).To(HaveLen(3))
		for i, w := range out.writes {
			n := i + 1
			Expect(w).To(HavePrefix(animate.ClearScreen))
			Expect(strings.Count(w, animate.ClearScreen)).To(Equal(1))
			Expect(strings.Count(w, fmt.Sprintf("frame-%d ", n))).To(Equal(5))
			for other := 1; other <= 3; other++ {
				if other != n {
					Expect(w).NotTo(ContainSubstring(fmt.Sprintf("frame-%d ", other)))
				}
			}
		}
	})

	It("flushes frame n before rendering frame n+1", func() {
		err := anim.Animate(context.Background(), 3, func(_ context.Context, n int, buf *bytes.Buffer) error {
			Expect(out.writes).To(HaveLen(n - 1))
			Expect(buf.Len()).To(BeZero())
			buf.WriteString("x")
			return nil
		})
		Expect(err).NotTo(HaveOccurred())
	})

	It("walks every state without skipping", func() {
		Expect(anim.Animate(context.Background(), 2, func(context.Context, int, *bytes.Buffer) error {
			return nil
		})).To(Succeed())

		Expect(transitions).To(Equal([]animate.Transition{
			{State: animate.Idle, Frame: 0},
			{State: animate.Rendering, Frame: 1},
			{State: animate.Flushing, Frame: 1},
			{State: animate.Rendering, Frame: 2},
			{State: animate.Flushing, Frame: 2},
			{State: animate.Done, Frame: 2},
		}))
	})

	It("rejects a non-positive frame count", func() {
		err := anim.Animate(context.Background(), 0, func(context.Context, int, *bytes.Buffer) error {
			Fail("callback should not run")
			return nil
		})
		Expect(err).To(MatchError(animate.ErrInvalidFrameCount))
		Expect(out.writes).To(BeEmpty())
	})

	It("stops on a render failure without writing the frame", func() {
		boom := errors.New("boom")
		err := anim.Animate(context.Background(), 5, func(_ context.Context, n int, buf *bytes.Buffer) error {
			if n == 2 {
				buf.WriteString("partial")
				return boom
			}
			return nil
		})

		Expect(err).To(MatchError(boom))
		var fe *animate.FrameError
		Expect(errors.As(err, &fe)).To(BeTrue())
		Expect(fe.Frame).To(Equal(2))
		Expect(fe.Stage).To(Equal(animate.Rendering))
		Expect(out.writes).To(HaveLen(1))
		Expect(out.writes[0]).NotTo(ContainSubstring("partial"))
	})

	It("stops on a write failure", func() {
		out.fail = io.ErrShortWrite
		err := anim.Animate(context.Background(), 3, func(context.Context, int, *bytes.Buffer) error { return nil })

		var fe *animate.FrameError
		Expect(errors.As(err, &fe)).To(BeTrue())
		Expect(fe.Frame).To(Equal(1))
		Expect(fe.Stage).To(Equal(animate.Flushing))
		Expect(err).To(MatchError(io.ErrShortWrite))
	})

	It("honors context cancellation between frames", func() {
		ctx, cancel := context.WithCancel(context.Background())
		err := anim.Animate(ctx, 10, func(_ context.Context, n int, _ *bytes.Buffer) error {
			if n == 3 {
				cancel()
			}
			return nil
		})
		Expect(err).To(MatchError(context.Canceled))
		Expect(out.writes).To(HaveLen(3))
	})

	It("waits between frames when a delay is set", func() {
		delayed := animate.New(out, animate.WithDelay(10*time.Millisecond))
		start := time.Now()
		Expect(delayed.Animate(context.Background(), 3, func(context.Context, int, *bytes.Buffer) error {
			return nil
		})).To(Succeed())
		Expect(time.Since(start)).To(BeNumerically(">=", 20*time.Millisecond))
	})

	Context("with a plotter", func() {
		It("renders one plotted frame per iteration bound", func() {
			opts := plot.DefaultOptions()
			opts.Width, opts.Height = 8, 4
			p, err := plot.New(opts)
			Expect(err).NotTo(HaveOccurred())

			var bounds []int
			r := palette.NewRendererWithProfile(io.Discard, termenv.Ascii)
			err = anim.Animate(context.Background(), 4, animate.Plotting(p, r, func(f *plot.Frame) {
				bounds = append(bounds, f.MaxIter)
			}))

			Expect(err).NotTo(HaveOccurred())
			Expect(bounds).To(Equal([]int{1, 2, 3, 4}))
			Expect(out.writes).To(HaveLen(4))
			for _, w := range out.writes {
				body := strings.TrimPrefix(w, animate.ClearScreen)
				Expect(strings.Count(body, "\n")).To(Equal(opts.Height + 1))
				Expect(strings.Count(body, "*")).To(Equal(opts.Width * opts.Height))
			}
		})
	})
})
