package animation

import (
	"math"
	"testing"
	"time"
)

func TestTransition_Linear(t *testing.T) {
	clk := NewFakeClock()
	tr := NewTransition(40, 200, 100*time.Millisecond, nil, clk.Now())

	if got := tr.ValueAt(clk.Now()); got != 40 {
		t.Errorf("expected start value 40, got %v", got)
	}
	if tr.StatusAt(clk.Now()) != StatusPending {
		t.Errorf("expected pending, got %v", tr.StatusAt(clk.Now()))
	}

	clk.Advance(50 * time.Millisecond)
	if got := tr.ValueAt(clk.Now()); got != 120 {
		t.Errorf("expected midpoint 120, got %v", got)
	}
	if tr.StatusAt(clk.Now()) != StatusRunning {
		t.Errorf("expected running, got %v", tr.StatusAt(clk.Now()))
	}

	clk.Advance(80 * time.Millisecond)
	if got := tr.ValueAt(clk.Now()); got != 200 {
		t.Errorf("expected end value 200, got %v", got)
	}
	if !tr.Done(clk.Now()) {
		t.Error("expected transition to be done")
	}
}

func TestTransition_ZeroDurationCompletesOnFirstTick(t *testing.T) {
	clk := NewFakeClock()
	tr := NewTransition(200, 40, 0, EaseOut, clk.Now())

	if tr.Done(clk.Now()) {
		t.Error("zero-duration transition should not complete before time advances")
	}
	clk.Advance(time.Nanosecond)
	if got := tr.ValueAt(clk.Now()); got != 40 {
		t.Errorf("expected 40 after first tick, got %v", got)
	}
}

func TestCurves_Endpoints(t *testing.T) {
	curves := map[string]Curve{
		"linear":      LinearCurve,
		"ease":        Ease,
		"ease-in":     EaseIn,
		"ease-out":    EaseOut,
		"ease-in-out": EaseInOut,
	}
	for name, curve := range curves {
		if got := curve(0); math.Abs(got) > 1e-6 {
			t.Errorf("%s(0) = %v, want 0", name, got)
		}
		if got := curve(1); math.Abs(got-1) > 1e-6 {
			t.Errorf("%s(1) = %v, want 1", name, got)
		}
	}
}

func TestCurves_Monotonic(t *testing.T) {
	prev := -1.0
	for i := 0; i <= 20; i++ {
		v := EaseInOut(float64(i) / 20)
		if v < prev-1e-9 {
			t.Fatalf("EaseInOut not monotonic at step %d: %v < %v", i, v, prev)
		}
		prev = v
	}
}

func TestCubicBezier_Values(t *testing.T) {
	tests := []struct {
		name           string
		x1, y1, x2, y2 float64
		at, want       float64
	}{
		{"straight line", 0, 0, 1, 1, 0.3, 0.3},
		{"symmetric midpoint", 0.42, 0, 0.58, 1, 0.5, 0.5},
		{"css ease midpoint", 0.25, 0.1, 0.25, 1, 0.5, 0.8024},
		{"flat start", 1, 0, 1, 0, 0.01, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CubicBezier(tt.x1, tt.y1, tt.x2, tt.y2)(tt.at)
			if math.Abs(got-tt.want) > 1e-3 {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCurveByName(t *testing.T) {
	tests := []struct {
		name string
		ok   bool
	}{
		{"", true},
		{"ease", true},
		{"Linear", true},
		{" ease-in-out ", true},
		{"bounce", false},
	}
	for _, tt := range tests {
		curve, ok := CurveByName(tt.name)
		if ok != tt.ok {
			t.Errorf("CurveByName(%q) ok = %v, want %v", tt.name, ok, tt.ok)
		}
		if ok && curve == nil {
			t.Errorf("CurveByName(%q) returned nil curve", tt.name)
		}
	}
}

func TestStatusString(t *testing.T) {
	if StatusRunning.String() != "running" {
		t.Errorf("unexpected %q", StatusRunning.String())
	}
	if Status(9).String() != "Status(9)" {
		t.Errorf("unexpected %q", Status(9).String())
	}
}
