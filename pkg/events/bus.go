// Package events is an in-process publish/subscribe channel for element
// events. Events dispatched on an element bubble to its ancestors.
package events

import (
	"fmt"

	"github.com/go-drift/collapsible/pkg/layout"
)

// Type names an event.
type Type string

const (
	// Toggle is emitted after a controller expands or collapses.
	Toggle Type = "toggle"
	// Mutate is emitted after a watched container gains or loses a child.
	Mutate Type = "mutate"
	// Click is the user activation of a trigger region.
	Click Type = "click"
)

// Action describes what happened in a toggle or mutate event.
type Action string

const (
	ActionExpand   Action = "expand"
	ActionCollapse Action = "collapse"
	ActionAdd      Action = "add"
	ActionRemove   Action = "remove"
)

// ToggleDetail is the payload of a Toggle event.
type ToggleDetail struct {
	Action Action
	// Origin is the trigger region of the controller.
	Origin layout.Element
}

// MutateDetail is the payload of a Mutate event.
type MutateDetail struct {
	Action Action
	Node   layout.Element
}

// Event is a dispatched event.
type Event struct {
	Type Type
	// Target is the element the event was dispatched on.
	Target layout.Element
	// CurrentTarget is the element whose handler is running.
	CurrentTarget layout.Element
	// Detail is a ToggleDetail, a MutateDetail, or nil.
	Detail any

	stopped bool
}

// StopPropagation prevents the event from reaching further ancestors.
// Remaining handlers on the current element still run.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Stopped reports whether StopPropagation was called.
func (e *Event) Stopped() bool {
	return e.stopped
}

// Action returns the action carried by a toggle or mutate event.
func (e *Event) Action() Action {
	switch d := e.Detail.(type) {
	case ToggleDetail:
		return d.Action
	case MutateDetail:
		return d.Action
	default:
		return ""
	}
}

func (e *Event) String() string {
	target := "<nil>"
	switch t := e.Target.(type) {
	case nil:
	case fmt.Stringer:
		target = t.String()
	default:
		target = t.ID()
	}
	if a := e.Action(); a != "" {
		return fmt.Sprintf("%s(%s) on %s", e.Type, a, target)
	}
	return fmt.Sprintf("%s on %s", e.Type, target)
}

// Handler receives events.
type Handler func(*Event)

// ParentFunc returns the parent of el, or nil at the root.
type ParentFunc func(el layout.Element) layout.Element

type subscription struct {
	id      int
	handler Handler
}

type key struct {
	element string
	typ     Type
}

// Bus routes events to handlers registered on elements.
// It is not safe for concurrent use; all dispatch happens on the UI timeline.
type Bus struct {
	parent ParentFunc
	subs   map[key][]subscription
	nextID int
}

// NewBus creates a bus that bubbles through parent.
// A nil parent disables bubbling.
func NewBus(parent ParentFunc) *Bus {
	return &Bus{
		parent: parent,
		subs:   make(map[key][]subscription),
	}
}

// Subscribe registers handler for events of typ reaching el.
// Returns an unsubscribe function.
func (b *Bus) Subscribe(el layout.Element, typ Type, handler Handler) func() {
	k := key{element: el.ID(), typ: typ}
	id := b.nextID
	b.nextID++
	b.subs[k] = append(b.subs[k], subscription{id: id, handler: handler})
	return func() {
		list := b.subs[k]
		for i, s := range list {
			if s.id == id {
				b.subs[k] = append(list[:i:i], list[i+1:]...)
				break
			}
		}
		if len(b.subs[k]) == 0 {
			delete(b.subs, k)
		}
	}
}

// Dispatch delivers ev to handlers on ev.Target and then on each ancestor,
// until a handler stops propagation.
func (b *Bus) Dispatch(ev *Event) {
	for el := ev.Target; el != nil; el = b.parentOf(el) {
		list := b.subs[key{element: el.ID(), typ: ev.Type}]
		if len(list) > 0 {
			ev.CurrentTarget = el
			// Handlers may unsubscribe while running.
			for _, s := range append([]subscription(nil), list...) {
				s.handler(ev)
			}
		}
		if ev.stopped {
			break
		}
	}
	ev.CurrentTarget = nil
}

// Emit builds and dispatches an event, returning it.
func (b *Bus) Emit(target layout.Element, typ Type, detail any) *Event {
	ev := &Event{Type: typ, Target: target, Detail: detail}
	b.Dispatch(ev)
	return ev
}

func (b *Bus) parentOf(el layout.Element) layout.Element {
	if b.parent == nil {
		return nil
	}
	return b.parent(el)
}
