package dom

import (
	"slices"

	"github.com/go-drift/collapsible/pkg/animation"
	"github.com/go-drift/collapsible/pkg/layout"
)

var _ layout.Host = (*Document)(nil)

func (d *Document) node(el layout.Element) *Node {
	n, ok := el.(*Node)
	if !ok || n == nil || n.doc != d {
		return nil
	}
	return n
}

// ComputedStyle reports the rendered height and margins of el. Detached
// nodes that were never laid out report "auto".
func (d *Document) ComputedStyle(el layout.Element) layout.ComputedStyle {
	n := d.node(el)
	if n == nil {
		return layout.ComputedStyle{Height: "auto"}
	}
	d.flush()
	style := layout.ComputedStyle{
		MarginTop:    layout.FormatPixels(n.marginT),
		MarginBottom: layout.FormatPixels(n.marginB),
	}
	switch {
	case n.override != "":
		style.Height = n.override
	case d.attached(n):
		style.Height = layout.FormatPixels(d.renderedHeight(n))
	case n.hasLayout:
		style.Height = layout.FormatPixels(n.snapshot)
	default:
		style.Height = "auto"
	}
	return style
}

// SetExplicitHeight queues an explicit height write for el.
func (d *Document) SetExplicitHeight(el layout.Element, h layout.Height) {
	n := d.node(el)
	if n == nil {
		return
	}
	if n.pending == nil {
		d.dirty = append(d.dirty, n)
	}
	n.pending = &h
}

// ForceReflow flushes every queued style write in the document.
func (d *Document) ForceReflow(layout.Element) {
	d.flush()
}

// OverrideComputedHeight makes n report value as its computed height, e.g.
// "12em". An empty value removes the override.
func (d *Document) OverrideComputedHeight(n *Node, value string) {
	n.override = value
}

// Parent returns the parent of el, or nil.
func (d *Document) Parent(el layout.Element) layout.Element {
	n := d.node(el)
	if n == nil || n.parent == nil {
		return nil
	}
	return n.parent
}

// IsAttached reports whether el is connected to the document root.
func (d *Document) IsAttached(el layout.Element) bool {
	n := d.node(el)
	return n != nil && d.attached(n)
}

// HasAttribute reports whether el carries the named attribute.
func (d *Document) HasAttribute(el layout.Element, name string) bool {
	n := d.node(el)
	if n == nil {
		return false
	}
	_, ok := n.Attr(name)
	return ok
}

// ObserveChildren delivers child-list records of el on each Tick.
func (d *Document) ObserveChildren(el layout.Element, fn func([]layout.MutationRecord)) func() {
	n := d.node(el)
	if n == nil {
		return func() {}
	}
	o := &observer{id: d.nextID, target: n, fn: fn}
	d.nextID++
	d.observers = append(d.observers, o)
	return func() {
		d.observers = slices.DeleteFunc(d.observers, func(x *observer) bool { return x.id == o.id })
	}
}

// OnResize registers fn to run after every Resize.
func (d *Document) OnResize(fn func()) func() {
	id := d.nextID
	d.nextID++
	d.resize[id] = fn
	return func() { delete(d.resize, id) }
}

// flush commits queued writes in the order they were first queued.
func (d *Document) flush() {
	if len(d.dirty) == 0 {
		return
	}
	dirty := d.dirty
	d.dirty = nil
	for _, n := range dirty {
		if n.pending == nil {
			continue
		}
		next := *n.pending
		n.pending = nil
		d.commit(n, next)
	}
}

func (d *Document) commit(n *Node, next layout.Height) {
	prev := n.committed
	if prev.IsNatural() || next.IsNatural() {
		d.stopTransition(n)
		n.committed = next
		return
	}
	from := d.explicitValue(n)
	n.committed = next
	if from == next.Value() {
		d.stopTransition(n)
		return
	}
	n.transition = animation.NewTransition(from, next.Value(), d.duration, d.curve, d.clock.Now())
	n.started = false
	d.animating[n] = struct{}{}
}

func (d *Document) stopTransition(n *Node) {
	n.transition = nil
	n.started = false
	delete(d.animating, n)
}

// explicitValue is the on-screen value of an explicitly sized node.
func (d *Document) explicitValue(n *Node) float64 {
	if n.transition == nil {
		return n.committed.Value()
	}
	if !n.started {
		return n.transition.From
	}
	return n.transition.ValueAt(d.clock.Now())
}

// renderedHeight is the on-screen height of an attached node.
func (d *Document) renderedHeight(n *Node) float64 {
	if !n.committed.IsNatural() {
		return d.explicitValue(n)
	}
	return d.naturalHeight(n)
}

// naturalHeight is the content height of n, ignoring its own explicit height.
func (d *Document) naturalHeight(n *Node) float64 {
	h := n.height
	if n.text != "" {
		h += textHeight(n.text, d.contentWidth(n))
	}
	for _, c := range n.children {
		h += d.renderedHeight(c) + c.marginT + c.marginB
	}
	return h
}

func (d *Document) contentWidth(n *Node) float64 {
	w := d.width - float64(n.Depth()*Indent)
	if w < minContentWidth {
		w = minContentWidth
	}
	return w
}
