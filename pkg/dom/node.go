package dom

import (
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/go-drift/collapsible/pkg/animation"
	"github.com/go-drift/collapsible/pkg/layout"
)

// Node is an element of a Document.
//
// Its box height is its fixed Height plus the wrapped height of its Text
// plus the box heights of its children, unless an explicit height is
// committed, in which case the explicit (possibly animating) value wins.
type Node struct {
	id       string
	tag      string
	classes  []string
	attrs    map[string]string
	text     string
	height   float64
	marginT  float64
	marginB  float64
	parent   *Node
	children []*Node
	doc      *Document

	committed  layout.Height
	pending    *layout.Height
	transition *animation.Transition
	started    bool

	// snapshot is the box height at removal, reported while detached.
	snapshot  float64
	hasLayout bool
	override  string
}

// ID returns the node's unique identity.
func (n *Node) ID() string { return n.id }

// Tag returns the element tag name.
func (n *Node) Tag() string { return n.tag }

// Name returns the value of the "id" attribute.
func (n *Node) Name() string { return n.attrs["id"] }

// Parent returns the parent node, or nil.
func (n *Node) Parent() *Node { return n.parent }

// Children returns a copy of the child list.
func (n *Node) Children() []*Node { return slices.Clone(n.children) }

// Text returns the text content.
func (n *Node) Text() string { return n.text }

// SetText replaces the text content.
func (n *Node) SetText(s string) *Node {
	n.text = s
	return n
}

// SetHeight sets the fixed intrinsic height of the node's own content.
func (n *Node) SetHeight(px float64) *Node {
	n.height = px
	return n
}

// SetMargin sets the vertical margins.
func (n *Node) SetMargin(top, bottom float64) *Node {
	n.marginT, n.marginB = top, bottom
	return n
}

// SetAttr sets an attribute. Setting "class" replaces the class list.
func (n *Node) SetAttr(name, value string) *Node {
	if name == "class" {
		n.classes = strings.Fields(value)
		return n
	}
	n.attrs[name] = value
	return n
}

// Attr returns an attribute value.
func (n *Node) Attr(name string) (string, bool) {
	if name == "class" {
		return strings.Join(n.classes, " "), len(n.classes) > 0
	}
	v, ok := n.attrs[name]
	return v, ok
}

// AddClass appends class names.
func (n *Node) AddClass(names ...string) *Node {
	for _, c := range names {
		if !n.HasClass(c) {
			n.classes = append(n.classes, c)
		}
	}
	return n
}

// RemoveClass drops a class name.
func (n *Node) RemoveClass(name string) *Node {
	n.classes = slices.DeleteFunc(n.classes, func(c string) bool { return c == name })
	return n
}

// HasClass reports whether the node carries class name.
func (n *Node) HasClass(name string) bool {
	return slices.Contains(n.classes, name)
}

// ExplicitHeight returns the committed explicit height style.
func (n *Node) ExplicitHeight() layout.Height {
	return n.committed
}

// Animating reports whether a height transition is in flight.
func (n *Node) Animating() bool {
	return n.transition != nil
}

// Depth returns the number of ancestors.
func (n *Node) Depth() int {
	d := 0
	for p := n.parent; p != nil; p = p.parent {
		d++
	}
	return d
}

// String renders a short selector-like label, e.g. "section#faq.open".
func (n *Node) String() string {
	var sb strings.Builder
	sb.WriteString(n.tag)
	if name := n.Name(); name != "" {
		sb.WriteString("#")
		sb.WriteString(name)
	}
	for _, c := range n.classes {
		sb.WriteString(".")
		sb.WriteString(c)
	}
	return sb.String()
}

func newNode(doc *Document, tag string) *Node {
	return &Node{
		id:        uuid.NewString(),
		tag:       strings.ToLower(tag),
		attrs:     make(map[string]string),
		doc:       doc,
		committed: layout.Natural(),
	}
}
