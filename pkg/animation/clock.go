// Package animation provides the timing primitives used to animate explicit
// height changes of document elements.
//
// # Core Components
//
//   - [Transition]: interpolates a single numeric value from From to To over
//     a Duration, shaped by an easing curve.
//
//   - Curves: easing functions that transform linear progress into
//     natural-feeling motion, such as [Ease], [EaseIn], [EaseOut] and
//     [EaseInOut], plus [CubicBezier] for custom curves.
//
//   - [Clock]: the time source. Documents take a Clock so tests can drive
//     transitions deterministically with a [FakeClock].
//
// # Basic Usage
//
//	clock := animation.NewFakeClock()
//	tr := animation.NewTransition(40, 200, 300*time.Millisecond, animation.EaseInOut, clock.Now())
//	clock.Advance(150 * time.Millisecond)
//	h := tr.ValueAt(clock.Now())
package animation

import (
	"sync"
	"time"
)

// Clock provides time for transitions. The default implementation uses
// system time.
type Clock interface {
	Now() time.Time
}

// SystemClock uses system time.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// FakeClock provides controllable time for deterministic tests.
// All methods are safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewFakeClock returns a FakeClock starting at a fixed epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set sets the clock to an exact time.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}
