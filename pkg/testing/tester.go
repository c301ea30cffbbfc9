package testing

import (
	stderrors "errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/go-drift/collapsible/pkg/animation"
	"github.com/go-drift/collapsible/pkg/collapsible"
	"github.com/go-drift/collapsible/pkg/config"
	"github.com/go-drift/collapsible/pkg/dom"
	"github.com/go-drift/collapsible/pkg/errors"
	"github.com/go-drift/collapsible/pkg/events"
)

const (
	// DefaultTestWidth is the default window width of the test document.
	DefaultTestWidth = 800
	// DefaultTestDuration is the default transition duration.
	DefaultTestDuration = 100 * time.Millisecond
	// frameDuration is the clock step of PumpAndSettle.
	frameDuration = 16 * time.Millisecond
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = stderrors.New("PumpAndSettle timed out: document did not settle")

// SceneTester drives a document and its collapsible registry without a
// terminal or browser. It uses a fake clock and linear transitions, records
// dispatched events and captures errors reported by event handlers.
type SceneTester struct {
	doc    *dom.Document
	reg    *collapsible.Registry
	clock  *animation.FakeClock
	events []*events.Event
	errs   []*errors.Error

	prevHandler errors.ErrorHandler
	unsubs      []func()
}

// NewSceneTester creates a tester with an empty document.
// Call Cleanup() when done, or use NewSceneTesterWithT() instead.
func NewSceneTester() *SceneTester {
	clk := animation.NewFakeClock()
	t := &SceneTester{clock: clk}
	t.reset(dom.Options{
		Width:    DefaultTestWidth,
		Duration: DefaultTestDuration,
		Curve:    animation.LinearCurve,
		Clock:    clk,
	})
	t.prevHandler = errors.SetHandler(recorder{t})
	return t
}

// NewSceneTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewSceneTesterWithT(t *testing.T) *SceneTester {
	tester := NewSceneTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup releases every controller and restores the global error handler.
func (t *SceneTester) Cleanup() {
	t.release()
	errors.SetHandler(t.prevHandler)
}

func (t *SceneTester) release() {
	for _, unsub := range t.unsubs {
		unsub()
	}
	t.unsubs = nil
	if t.reg != nil {
		t.reg.Release()
	}
}

func (t *SceneTester) reset(opts dom.Options) {
	t.release()
	t.doc = dom.New(opts)
	t.reg = collapsible.NewRegistry(t.doc, collapsible.WithLogger(zap.NewNop()))
	t.events = nil
	record := func(ev *events.Event) { t.events = append(t.events, ev) }
	t.unsubs = append(t.unsubs,
		t.reg.Bus().Subscribe(t.doc.Root(), events.Toggle, record),
		t.reg.Bus().Subscribe(t.doc.Root(), events.Mutate, record),
		t.reg.WatchResize(),
	)
}

// Document returns the document under test.
func (t *SceneTester) Document() *dom.Document {
	return t.doc
}

// Registry returns the registry of the document under test.
func (t *SceneTester) Registry() *collapsible.Registry {
	return t.reg
}

// Clock returns the fake clock for advancing time in tests.
func (t *SceneTester) Clock() *animation.FakeClock {
	return t.clock
}

// SetWidth resizes the window, which re-measures every controller.
func (t *SceneTester) SetWidth(width float64) {
	t.doc.Resize(width)
}

// LoadScene replaces the document with the scene in data. The tester's
// fake clock drives the new document; width and transition come from the
// scene.
func (t *SceneTester) LoadScene(data []byte) error {
	scene, err := config.Parse(data)
	if err != nil {
		return err
	}
	opts := scene.DocumentOptions(t.clock)
	t.reset(opts)
	if err := scene.Build(t.doc); err != nil {
		return err
	}
	_, err = scene.Attach(t.doc, t.reg)
	return err
}

// Pump runs a single frame: flushes style writes, starts and retires
// transitions and delivers mutation records.
func (t *SceneTester) Pump() {
	t.doc.Tick()
}

// PumpAndSettle runs frames until nothing animates or the timeout is
// reached. Each frame advances the fake clock by 16ms.
// Returns ErrSettleTimeout if the document does not settle within timeout.
func (t *SceneTester) PumpAndSettle(timeout time.Duration) error {
	var elapsed time.Duration
	for elapsed < timeout {
		t.Pump()
		if !t.doc.Animating() {
			return nil
		}
		t.clock.Advance(frameDuration)
		elapsed += frameDuration
	}
	return ErrSettleTimeout
}

// Find evaluates a finder against the document.
func (t *SceneTester) Find(finder Finder) FinderResult {
	return FinderResult{
		nodes:  finder.Evaluate(t.doc.Root()),
		finder: finder,
	}
}

// Tap clicks the first node matched by finder. Tapping a managed container
// taps its trigger.
func (t *SceneTester) Tap(finder Finder) {
	n := t.Find(finder).First()
	if c, ok := t.reg.Lookup(n); ok {
		t.reg.Bus().Emit(c.Trigger(), events.Click, nil)
		return
	}
	t.reg.Bus().Emit(n, events.Click, nil)
}

// Controller returns the controller managing the first node matched by
// finder. Panics if the node is not managed.
func (t *SceneTester) Controller(finder Finder) *collapsible.Controller {
	n := t.Find(finder).First()
	c, ok := t.reg.Lookup(n)
	if !ok {
		panic("testing: " + n.String() + " is not collapsible")
	}
	return c
}

// Events returns and clears the toggle and mutate events dispatched so far.
func (t *SceneTester) Events() []*events.Event {
	out := t.events
	t.events = nil
	return out
}

// Errors returns and clears the errors reported by event handlers.
func (t *SceneTester) Errors() []*errors.Error {
	out := t.errs
	t.errs = nil
	return out
}

type recorder struct{ t *SceneTester }

func (r recorder) HandleError(err *errors.Error) {
	r.t.errs = append(r.t.errs, err)
}

func (r recorder) HandlePanic(err *errors.PanicError) {
	r.t.errs = append(r.t.errs, &errors.Error{Op: err.Op, Kind: errors.KindPanic, Err: err})
}
