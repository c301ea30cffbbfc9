// Package dom is an in-memory document that lays out, styles and animates
// element heights. It implements [layout.Host] so collapsible controllers
// can run outside a browser: in tests, in the simulate command and behind
// the terminal demo.
//
// The styling model mirrors what controllers rely on from a real engine:
//
//   - SetExplicitHeight only queues a write. Queued writes coalesce.
//   - Reading a computed style or calling ForceReflow flushes every queued
//     write in the document.
//   - On flush, a pixel-to-pixel change starts a transition from the value
//     currently on screen. Changes from or to natural sizing apply at once.
//   - Transitions start moving on the next frame (Tick). Until then the
//     element renders at the transition's start value.
//   - Child-list mutations are queued and delivered to observers on Tick.
package dom

import (
	"fmt"
	"slices"
	"time"

	"github.com/go-drift/collapsible/pkg/animation"
	"github.com/go-drift/collapsible/pkg/layout"
)

// DefaultWidth is the window width of a new document.
const DefaultWidth = 640

// DefaultDuration is the height transition duration of a new document.
const DefaultDuration = 300 * time.Millisecond

// Indent is the width, in pixels, lost per nesting level.
const Indent = 16

// Options configures a Document.
type Options struct {
	Width    float64
	Duration time.Duration
	Curve    animation.Curve
	Clock    animation.Clock
}

type observer struct {
	id     int
	target *Node
	fn     func([]layout.MutationRecord)
	queue  []layout.MutationRecord
}

// Document is a tree of nodes rooted at Root.
// It is not safe for concurrent use.
type Document struct {
	root     *Node
	width    float64
	duration time.Duration
	curve    animation.Curve
	clock    animation.Clock

	dirty     []*Node
	animating map[*Node]struct{}
	observers []*observer
	resize    map[int]func()
	nextID    int
}

// New creates an empty document with a "body" root.
func New(opts Options) *Document {
	if opts.Width <= 0 {
		opts.Width = DefaultWidth
	}
	if opts.Duration < 0 {
		opts.Duration = 0
	}
	if opts.Curve == nil {
		opts.Curve = animation.Ease
	}
	if opts.Clock == nil {
		opts.Clock = animation.SystemClock{}
	}
	d := &Document{
		width:     opts.Width,
		duration:  opts.Duration,
		curve:     opts.Curve,
		clock:     opts.Clock,
		animating: make(map[*Node]struct{}),
		resize:    make(map[int]func()),
	}
	d.root = newNode(d, "body")
	return d
}

// Root returns the document root.
func (d *Document) Root() *Node { return d.root }

// Width returns the window width.
func (d *Document) Width() float64 { return d.width }

// Clock returns the document's time source.
func (d *Document) Clock() animation.Clock { return d.clock }

// CreateElement creates a detached node owned by d.
func (d *Document) CreateElement(tag string) *Node {
	return newNode(d, tag)
}

// AppendChild attaches child as the last child of parent, detaching it from
// any previous parent first.
func (d *Document) AppendChild(parent, child *Node) error {
	return d.InsertBefore(parent, child, nil)
}

// InsertBefore attaches child to parent before ref. A nil ref appends.
func (d *Document) InsertBefore(parent, child, ref *Node) error {
	if parent == nil || child == nil {
		return fmt.Errorf("dom: nil node")
	}
	if child.doc != d || parent.doc != d {
		return fmt.Errorf("dom: node belongs to another document")
	}
	for p := parent; p != nil; p = p.parent {
		if p == child {
			return fmt.Errorf("dom: %s would contain itself", child)
		}
	}
	if child.parent != nil {
		if err := d.RemoveChild(child.parent, child); err != nil {
			return err
		}
	}
	idx := len(parent.children)
	if ref != nil {
		idx = slices.Index(parent.children, ref)
		if idx < 0 {
			return fmt.Errorf("dom: %s is not a child of %s", ref, parent)
		}
	}
	parent.children = slices.Insert(parent.children, idx, child)
	child.parent = parent
	child.hasLayout = false
	d.record(parent, layout.MutationRecord{Target: parent, Added: []layout.Element{child}})
	return nil
}

// RemoveChild detaches child from parent. The detached node keeps reporting
// its last box height until it is attached again.
func (d *Document) RemoveChild(parent, child *Node) error {
	if child == nil || parent == nil {
		return fmt.Errorf("dom: nil node")
	}
	if child.parent != parent {
		return fmt.Errorf("dom: %s is not a child of %s", child, parent)
	}
	if d.attached(child) {
		child.snapshot = d.renderedHeight(child)
		child.hasLayout = true
	}
	parent.children = slices.DeleteFunc(parent.children, func(n *Node) bool { return n == child })
	child.parent = nil
	d.record(parent, layout.MutationRecord{Target: parent, Removed: []layout.Element{child}})
	return nil
}

// Resize changes the window width and notifies resize listeners.
func (d *Document) Resize(width float64) {
	if width <= 0 || width == d.width {
		return
	}
	d.width = width
	ids := make([]int, 0, len(d.resize))
	for id := range d.resize {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := d.resize[id]; ok {
			fn()
		}
	}
}

// Tick runs one frame: it flushes queued style writes, starts new
// transitions, retires finished ones and delivers queued mutation records.
func (d *Document) Tick() {
	d.flush()
	now := d.clock.Now()
	for n := range d.animating {
		if !n.started {
			n.transition.Start = now
			n.started = true
			continue
		}
		if n.transition.Done(now) {
			n.transition = nil
			n.started = false
			delete(d.animating, n)
		}
	}
	d.deliver()
}

// Advance runs a frame, moves a controllable clock forward by dt and runs
// another frame. With a system clock it only runs frames.
func (d *Document) Advance(dt time.Duration) {
	d.Tick()
	if c, ok := d.clock.(interface{ Advance(time.Duration) }); ok {
		c.Advance(dt)
	}
	d.Tick()
}

// Settle advances frames until no transition is running and no mutation
// record is queued.
func (d *Document) Settle() {
	for i := 0; i < 64; i++ {
		d.Advance(d.duration + time.Millisecond)
		if len(d.animating) == 0 && !d.hasQueued() {
			return
		}
	}
}

// Animating reports whether any transition is in flight.
func (d *Document) Animating() bool {
	return len(d.animating) > 0
}

// Height returns the rendered box height of n without margins, flushing
// queued writes first.
func (d *Document) Height(n *Node) float64 {
	d.flush()
	if !d.attached(n) {
		return n.snapshot
	}
	return d.renderedHeight(n)
}

func (d *Document) attached(n *Node) bool {
	for p := n; p != nil; p = p.parent {
		if p == d.root {
			return true
		}
	}
	return false
}

func (d *Document) record(target *Node, rec layout.MutationRecord) {
	for _, o := range d.observers {
		if o.target == target {
			o.queue = append(o.queue, rec)
		}
	}
}

func (d *Document) hasQueued() bool {
	for _, o := range d.observers {
		if len(o.queue) > 0 {
			return true
		}
	}
	return false
}

func (d *Document) deliver() {
	for _, o := range slices.Clone(d.observers) {
		if len(o.queue) == 0 {
			continue
		}
		batch := o.queue
		o.queue = nil
		o.fn(batch)
	}
}
