package animation

import (
	"fmt"
	"time"
)

// Status represents where a transition is in its lifetime.
type Status int

const (
	// StatusPending means the transition has not made progress yet.
	StatusPending Status = iota
	// StatusRunning means the value is between From and To.
	StatusRunning
	// StatusCompleted means the value has reached To.
	StatusCompleted
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusCompleted:
		return "completed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Transition interpolates a numeric value from From to To over Duration,
// starting at Start. It holds no timer; callers sample it with a time from
// their Clock.
type Transition struct {
	From     float64
	To       float64
	Duration time.Duration
	Curve    Curve
	Start    time.Time
}

// NewTransition creates a transition beginning at start.
// A nil curve means linear progress.
func NewTransition(from, to float64, duration time.Duration, curve Curve, start time.Time) *Transition {
	if curve == nil {
		curve = LinearCurve
	}
	return &Transition{
		From:     from,
		To:       to,
		Duration: duration,
		Curve:    curve,
		Start:    start,
	}
}

// Progress returns linear progress in [0, 1] at now.
func (t *Transition) Progress(now time.Time) float64 {
	elapsed := now.Sub(t.Start)
	if elapsed <= 0 {
		return 0
	}
	if t.Duration <= 0 || elapsed >= t.Duration {
		return 1
	}
	return float64(elapsed) / float64(t.Duration)
}

// ValueAt returns the interpolated value at now.
func (t *Transition) ValueAt(now time.Time) float64 {
	p := t.Progress(now)
	if p >= 1 {
		return t.To
	}
	eased := p
	if t.Curve != nil {
		eased = t.Curve(p)
	}
	return t.From + (t.To-t.From)*eased
}

// StatusAt reports the transition status at now.
func (t *Transition) StatusAt(now time.Time) Status {
	switch p := t.Progress(now); {
	case p <= 0:
		return StatusPending
	case p >= 1:
		return StatusCompleted
	default:
		return StatusRunning
	}
}

// Done reports whether the transition has reached To at now.
func (t *Transition) Done(now time.Time) bool {
	return t.StatusAt(now) == StatusCompleted
}
