package collapsible

import (
	stderrors "errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/go-drift/collapsible/pkg/errors"
	"github.com/go-drift/collapsible/pkg/events"
	"github.com/go-drift/collapsible/pkg/layout"
)

// State is the collapse state of a controller.
//
//	         Expand()
//	Collapsed ───────► Expanded
//	    ▲                 │
//	    └─────────────────┘
//	         Collapse()
//
// Toggle() always moves to the other state.
type State int

const (
	// Expanded shows the whole container.
	Expanded State = iota
	// Collapsed shows only the trigger region.
	Collapsed
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case Expanded:
		return "expanded"
	case Collapsed:
		return "collapsed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// ErrReentrant is returned when a controller is asked to act while one of
// its own operations is still running. It only happens when the host tree
// is cyclic.
var ErrReentrant = stderrors.New("collapsible: controller re-entered during its own update")

// Controller animates one container between its collapsed and expanded
// heights and keeps collapsible ancestors in sync.
//
// Controllers are created by a Registry and are not safe for concurrent use;
// every call must come from the UI timeline.
type Controller struct {
	reg     *Registry
	el      layout.Element
	trigger layout.Element
	state   State
	heights Heights
	opts    Options
	log     *zap.Logger

	watcher    *Watcher
	unsubClick func()
	busy       bool
}

// Element returns the managed container.
func (c *Controller) Element() layout.Element { return c.el }

// Trigger returns the trigger region.
func (c *Controller) Trigger() layout.Element { return c.trigger }

// State returns the current collapse state.
func (c *Controller) State() State { return c.state }

// IsCollapsed reports whether the container is collapsed.
func (c *Controller) IsCollapsed() bool { return c.state == Collapsed }

// Heights returns the cached heights.
func (c *Controller) Heights() Heights { return c.heights }

// CollapsedHeight returns the cached collapsed height.
func (c *Controller) CollapsedHeight() float64 { return c.heights.Collapsed }

// ExpandedHeight returns the cached expanded height.
func (c *Controller) ExpandedHeight() float64 { return c.heights.Expanded }

// VisibleHeight returns the height the container settles at in its current
// state.
func (c *Controller) VisibleHeight() float64 {
	if c.IsCollapsed() {
		return c.heights.Collapsed
	}
	return c.heights.Expanded
}

// Watcher returns the attached mutation watcher, or nil.
func (c *Controller) Watcher() *Watcher { return c.watcher }

// Toggle expands a collapsed container and collapses an expanded one.
func (c *Controller) Toggle() error {
	if c.IsCollapsed() {
		return c.Expand()
	}
	return c.Collapse()
}

// Expand re-measures the container and animates it to its expanded height.
// It is a no-op when the container is already expanded. On a measurement
// error nothing changes.
func (c *Controller) Expand() error {
	if c.busy {
		return ErrReentrant
	}
	if !c.IsCollapsed() {
		return nil
	}
	c.busy = true
	defer func() { c.busy = false }()

	h, err := c.reg.resolver.Resolve(c.el, c.trigger, true)
	if err != nil {
		return c.fail("collapsible.Expand", err)
	}
	h = h.Clamp()

	oracle := c.reg.host
	oracle.ForceReflow(c.el)
	oracle.SetExplicitHeight(c.el, layout.Natural())
	oracle.SetExplicitHeight(c.el, layout.Pixels(h.Expanded))

	c.heights = h
	c.state = Expanded
	c.log.Debug("expand",
		zap.String("element", label(c.el)),
		zap.Float64("collapsed", h.Collapsed),
		zap.Float64("expanded", h.Expanded))

	ev := c.reg.bus.Emit(c.el, events.Toggle, events.ToggleDetail{Action: events.ActionExpand, Origin: c.trigger})
	if c.opts.OnExpand != nil {
		c.opts.OnExpand(ev)
	}
	return c.reg.Propagate(c, h.Delta())
}

// Collapse animates the container from its current height down to its
// collapsed height. It is a no-op when the container is already collapsed.
func (c *Controller) Collapse() error {
	if c.busy {
		return ErrReentrant
	}
	if c.IsCollapsed() {
		return nil
	}
	c.busy = true
	defer func() { c.busy = false }()

	current, err := layout.Measure(c.reg.host, c.el)
	if err != nil {
		return c.fail("collapsible.Collapse", err)
	}

	oracle := c.reg.host
	oracle.SetExplicitHeight(c.el, layout.Pixels(current))
	oracle.ForceReflow(c.el)
	oracle.SetExplicitHeight(c.el, layout.Pixels(c.heights.Collapsed))

	c.state = Collapsed
	c.log.Debug("collapse",
		zap.String("element", label(c.el)),
		zap.Float64("from", current),
		zap.Float64("collapsed", c.heights.Collapsed))

	ev := c.reg.bus.Emit(c.el, events.Toggle, events.ToggleDetail{Action: events.ActionCollapse, Origin: c.trigger})
	if c.opts.OnCollapse != nil {
		c.opts.OnCollapse(ev)
	}
	// Ancestors measure the container at its on-screen height, which is the
	// cached expanded height unless a mutation transition is still pending.
	return c.reg.Propagate(c, -(current - c.heights.Collapsed))
}

// RecomputeHeights re-measures the container, adds delta to its natural
// height and clamps the result. delta carries a descendant's pending height
// change that the layout does not show yet.
//
// The container then forwards its own pending change to the nearest
// collapsible ancestor: the part of its new expanded height not yet visible
// while expanded, nothing while collapsed.
func (c *Controller) RecomputeHeights(delta float64) error {
	if c.busy {
		return ErrReentrant
	}
	c.busy = true
	defer func() { c.busy = false }()

	h, err := c.reg.resolver.Resolve(c.el, c.trigger, c.IsCollapsed())
	if err != nil {
		return c.fail("collapsible.RecomputeHeights", err)
	}
	natural := h.Expanded
	h.Expanded += delta
	h = h.Clamp()
	c.heights = h

	forward := 0.0
	if !c.IsCollapsed() {
		forward = h.Expanded - natural
	}
	c.log.Debug("recompute",
		zap.String("element", label(c.el)),
		zap.Float64("delta", delta),
		zap.Float64("collapsed", h.Collapsed),
		zap.Float64("expanded", h.Expanded),
		zap.Float64("forward", forward))

	return c.reg.Propagate(c, forward)
}

// Release detaches the controller from its registry, its trigger and its
// mutation watcher. The container keeps its last explicit height.
// Registry.Prune calls it for containers removed from the document.
func (c *Controller) Release() {
	if c.unsubClick != nil {
		c.unsubClick()
		c.unsubClick = nil
	}
	if c.watcher != nil {
		c.watcher.Stop()
		c.watcher = nil
	}
	c.reg.remove(c)
}

func (c *Controller) onClick(ev *events.Event) {
	defer errors.Recover("collapsible.click")
	ev.StopPropagation()
	if err := c.Toggle(); err != nil {
		report(err)
	}
}

func (c *Controller) fail(op string, err error) error {
	kind := errors.KindUnknown
	if errors.IsMeasurement(err) {
		kind = errors.KindMeasurement
	}
	c.log.Debug("operation aborted", zap.String("op", op), zap.String("element", label(c.el)), zap.Error(err))
	return &errors.Error{Op: op, Kind: kind, Element: c.el.ID(), Err: err}
}

// report hands an error from an event-driven path to the global handler.
func report(err error) {
	var e *errors.Error
	if stderrors.As(err, &e) {
		errors.Report(e)
		return
	}
	errors.Report(&errors.Error{Op: "collapsible", Err: err})
}

func label(el layout.Element) string {
	if s, ok := el.(fmt.Stringer); ok {
		return s.String()
	}
	return el.ID()
}
