// Package layout defines the boundary between collapsible controllers and
// the document that lays out and styles their elements.
//
// Controllers never compute layout themselves. They read computed heights
// through an [Oracle], write explicit heights back, and rely on the host's
// styling layer to animate between the two values. Writes are two-phase:
// write A, [Oracle.ForceReflow], write B. Without the flush the host is free
// to coalesce both writes and skip the animation.
package layout

// Element is a node in the host document tree.
type Element interface {
	// ID returns a stable identity for the element.
	ID() string
}

// ComputedStyle is the subset of computed style values a controller reads.
// Values use CSS syntax, e.g. "200px" or "auto".
type ComputedStyle struct {
	Height       string
	MarginTop    string
	MarginBottom string
}

// Oracle measures and sizes elements.
type Oracle interface {
	// ComputedStyle returns the current computed values for el. Reading
	// flushes pending style writes.
	ComputedStyle(el Element) ComputedStyle
	// SetExplicitHeight queues a height write for el.
	SetExplicitHeight(el Element, h Height)
	// ForceReflow flushes pending style writes so the next write starts a
	// new transition instead of coalescing with the previous one.
	ForceReflow(el Element)
}

// MutationRecord describes a direct child-list change of Target.
type MutationRecord struct {
	Target  Element
	Added   []Element
	Removed []Element
}

// Host is the document a registry of controllers is attached to.
type Host interface {
	Oracle
	// Parent returns the parent of el, or nil for a root or detached element.
	Parent(el Element) Element
	// IsAttached reports whether el is still connected to the document.
	IsAttached(el Element) bool
	// Query returns the first element in el's subtree, el included, that
	// matches selector, or nil.
	Query(el Element, selector string) Element
	// HasAttribute reports whether el carries the named attribute.
	HasAttribute(el Element, name string) bool
	// ObserveChildren delivers batches of child-list records for el.
	ObserveChildren(el Element, fn func([]MutationRecord)) (stop func())
	// OnResize calls fn after every window resize.
	OnResize(fn func()) (stop func())
}

// IsAncestor reports whether anc is a strict ancestor of el in h.
func IsAncestor(h Host, anc, el Element) bool {
	if anc == nil || el == nil {
		return false
	}
	for p := h.Parent(el); p != nil; p = h.Parent(p) {
		if p.ID() == anc.ID() {
			return true
		}
	}
	return false
}
