package collapsible

import (
	"go.uber.org/zap"

	"github.com/go-drift/collapsible/pkg/errors"
	"github.com/go-drift/collapsible/pkg/events"
	"github.com/go-drift/collapsible/pkg/layout"
)

// Watcher keeps a controller's expanded height in step with children being
// added to or removed from its container.
type Watcher struct {
	c    *Controller
	stop func()
}

type childChange struct {
	action events.Action
	node   layout.Element
	height float64
}

func newWatcher(c *Controller) *Watcher {
	w := &Watcher{c: c}
	w.stop = c.reg.host.ObserveChildren(c.el, w.handle)
	return w
}

// Stop unsubscribes from the container's child list.
func (w *Watcher) Stop() {
	if w.stop != nil {
		w.stop()
		w.stop = nil
	}
}

func (w *Watcher) handle(records []layout.MutationRecord) {
	defer errors.Recover("collapsible.mutate")
	if err := w.Apply(records); err != nil {
		report(err)
	}
}

// Apply processes one batch of child-list records. Every record counts:
// the box heights of added children, margins included, are summed against
// those of removed children. While expanded the container animates from its
// old height to the new natural height; while collapsed only the cached
// expanded height changes. One mutate event is emitted per affected child
// and the change is forwarded to collapsible ancestors. Controllers whose
// containers left the document with a removed child are released.
func (w *Watcher) Apply(records []layout.MutationRecord) error {
	c := w.c
	if c.busy {
		return ErrReentrant
	}
	c.busy = true
	defer func() { c.busy = false }()

	host := c.reg.host
	var (
		changes []childChange
		removed []layout.Element
		net     float64
	)
	for _, rec := range records {
		for _, n := range rec.Added {
			h, err := layout.BoxHeight(host, n)
			if err != nil {
				return c.fail("collapsible.Mutate", err)
			}
			changes = append(changes, childChange{action: events.ActionAdd, node: n, height: h})
			net += h
		}
		for _, n := range rec.Removed {
			h, err := layout.BoxHeight(host, n)
			if err != nil {
				return c.fail("collapsible.Mutate", err)
			}
			changes = append(changes, childChange{action: events.ActionRemove, node: n, height: h})
			removed = append(removed, n)
			net -= h
		}
	}
	if len(changes) == 0 {
		return nil
	}

	host.SetExplicitHeight(c.el, layout.Natural())
	natural, err := layout.Measure(host, c.el)
	if c.IsCollapsed() {
		host.SetExplicitHeight(c.el, layout.Pixels(c.heights.Collapsed))
	}
	if err != nil {
		return c.fail("collapsible.Mutate", err)
	}
	if !c.IsCollapsed() {
		host.SetExplicitHeight(c.el, layout.Pixels(natural-net))
		host.ForceReflow(c.el)
		host.SetExplicitHeight(c.el, layout.Pixels(natural))
	}

	c.heights.Expanded = natural
	c.heights = c.heights.Clamp()
	c.log.Debug("mutate",
		zap.String("element", label(c.el)),
		zap.Int("changes", len(changes)),
		zap.Float64("net", net),
		zap.Float64("expanded", c.heights.Expanded))

	for _, ch := range changes {
		ev := c.reg.bus.Emit(c.el, events.Mutate, events.MutateDetail{Action: ch.action, Node: ch.node})
		if c.opts.OnMutate != nil {
			c.opts.OnMutate(ev)
		}
	}

	// Controllers inside removed subtrees go with their containers.
	if len(removed) > 0 {
		c.reg.prune(removed)
	}

	// Ancestors still see the container at its pre-mutation height.
	forward := 0.0
	if !c.IsCollapsed() {
		forward = net
	}
	return c.reg.Propagate(c, forward)
}
