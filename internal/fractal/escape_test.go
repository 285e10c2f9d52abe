package fractal

import (
	"errors"
	"math"
	"testing"
)

func TestEscape_Origin(t *testing.T) {
	for _, n := range []int{1, 2, 10, 100, 1000} {
		if r := Escape(0, n); r.Escaped {
			t.Errorf("Escape(0, %d) = %+v, want no escape", n, r)
		}
	}
}

func TestEscape_FarOutside(t *testing.T) {
	for _, n := range []int{1, 2, 10, 100} {
		r := Escape(complex(2, 2), n)
		if !r.Escaped || r.Iterations != 1 {
			t.Errorf("Escape(2+2i, %d) = %+v, want escape at 1", n, r)
		}
	}
}

func TestEscape_ZeroBound(t *testing.T) {
	if r := Escape(complex(2, 2), 0); r.Escaped {
		t.Errorf("expected no escape with zero bound, got %+v", r)
	}
}

func TestEscape_KnownPoints(t *testing.T) {
	tests := []struct {
		name   string
		c      complex128
		bound  int
		inside bool
	}{
		{"main cardioid", complex(-0.1, 0.1), 200, true},
		{"period two bulb", complex(-1, 0), 200, true},
		{"real axis tip", complex(-2, 0), 200, true},
		{"right of cusp", complex(0.5, 0), 200, false},
		{"upper outside", complex(0, 1.5), 200, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Escape(tt.c, tt.bound)
			if r.Inside() != tt.inside {
				t.Errorf("Escape(%v) inside = %v, want %v", tt.c, r.Inside(), tt.inside)
			}
			if r.Escaped && (r.Iterations < 1 || r.Iterations > tt.bound) {
				t.Errorf("iteration %d outside [1, %d]", r.Iterations, tt.bound)
			}
		})
	}
}

func TestEscape_Monotonic(t *testing.T) {
	points := []complex128{
		complex(0.3, 0.5),
		complex(-0.75, 0.1),
		complex(-1.5, 0.2),
		complex(0.26, 0),
		complex(-0.1, 0.9),
	}

	for _, c := range points {
		found := Escape(c, 500)
		if !found.Escaped {
			continue
		}
		for m := found.Iterations; m <= found.Iterations+50; m++ {
			if r := Escape(c, m); r != found {
				t.Errorf("Escape(%v, %d) = %+v, want %+v", c, m, r, found)
			}
		}
		if found.Iterations > 1 {
			if r := Escape(c, found.Iterations-1); r.Escaped {
				t.Errorf("Escape(%v, %d) escaped below its escape time", c, found.Iterations-1)
			}
		}
	}
}

func TestResult_Ratio(t *testing.T) {
	if got := EscapedAt(5).Ratio(10); got != 0.5 {
		t.Errorf("Ratio = %v, want 0.5", got)
	}
	if got := (Result{}).Ratio(10); got != 1 {
		t.Errorf("inside Ratio = %v, want 1", got)
	}
}

func TestViewport_Validate(t *testing.T) {
	tests := []struct {
		name  string
		vp    Viewport
		valid bool
	}{
		{"default", DefaultViewport, true},
		{"inverted x", Viewport{XMin: 1, XMax: -1, YMin: -1, YMax: 1}, false},
		{"empty y", Viewport{XMin: -1, XMax: 1, YMin: 1, YMax: 1}, false},
		{"NaN", Viewport{XMin: math.NaN(), XMax: 1, YMin: -1, YMax: 1}, false},
		{"Inf", Viewport{XMin: -1, XMax: math.Inf(1), YMin: -1, YMax: 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.vp.Validate()
			if (err == nil) != tt.valid {
				t.Fatalf("Validate() = %v, valid want %v", err, tt.valid)
			}
			if err != nil && !errors.Is(err, ErrInvalidViewport) {
				t.Errorf("expected ErrInvalidViewport, got %v", err)
			}
		})
	}
}

func TestViewport_Point(t *testing.T) {
	vp := DefaultViewport

	if p := vp.Point(0, 0, 4, 2); p != complex(-2.5, 1.5) {
		t.Errorf("Point(0,0) = %v, want (-2.5+1.5i)", p)
	}
	if p := vp.Point(1, 2, 4, 2); p != complex(-0.75, 0) {
		t.Errorf("Point(1,2) = %v, want (-0.75+0i)", p)
	}
	if s := vp.XStep(80); math.Abs(s-0.04375) > 1e-12 {
		t.Errorf("XStep(80) = %v", s)
	}
}
