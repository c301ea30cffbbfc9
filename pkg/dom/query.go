package dom

import (
	"strings"

	"github.com/go-drift/collapsible/pkg/layout"
)

// NodeList is an ordered collection of nodes, as returned by QueryAll.
type NodeList []*Node

// Elements returns the list as layout elements.
func (l NodeList) Elements() []layout.Element {
	out := make([]layout.Element, len(l))
	for i, n := range l {
		out[i] = n
	}
	return out
}

// matches supports a single simple selector: "*", "tag", "#id", ".class"
// or "[attr]".
func (n *Node) matches(selector string) bool {
	selector = strings.TrimSpace(selector)
	switch {
	case selector == "":
		return false
	case selector == "*":
		return true
	case strings.HasPrefix(selector, "#"):
		return n.Name() == selector[1:]
	case strings.HasPrefix(selector, "."):
		return n.HasClass(selector[1:])
	case strings.HasPrefix(selector, "[") && strings.HasSuffix(selector, "]"):
		_, ok := n.Attr(selector[1 : len(selector)-1])
		return ok
	default:
		return n.tag == strings.ToLower(selector)
	}
}

// Query returns the first node in el's subtree, el included, in document
// order that matches selector.
func (d *Document) Query(el layout.Element, selector string) layout.Element {
	n := d.node(el)
	if n == nil {
		return nil
	}
	if found := n.find(selector); found != nil {
		return found
	}
	return nil
}

// QueryNode is Query with a concrete result type.
func (d *Document) QueryNode(n *Node, selector string) *Node {
	if n == nil {
		return nil
	}
	return n.find(selector)
}

// QueryAll returns every node in n's subtree, n included, that matches
// selector, in document order.
func (d *Document) QueryAll(n *Node, selector string) NodeList {
	var out NodeList
	var walk func(*Node)
	walk = func(x *Node) {
		if x.matches(selector) {
			out = append(out, x)
		}
		for _, c := range x.children {
			walk(c)
		}
	}
	if n != nil {
		walk(n)
	}
	return out
}

func (n *Node) find(selector string) *Node {
	if n.matches(selector) {
		return n
	}
	for _, c := range n.children {
		if found := c.find(selector); found != nil {
			return found
		}
	}
	return nil
}
