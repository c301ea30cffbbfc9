package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/collapsible/pkg/dom"
)

// Finder locates nodes in the document.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root *dom.Node) []*dom.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*dom.Node
	finder Finder
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *dom.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.describe()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *dom.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *dom.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.describe()))
	}
	return r.nodes[index]
}

// All returns all matches in document order.
func (r FinderResult) All() []*dom.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// predicateFinder matches nodes satisfying a predicate.
type predicateFinder struct {
	fn   func(*dom.Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *dom.Node) []*dom.Node {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches nodes satisfying fn.
func ByPredicate(fn func(*dom.Node) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// ByID returns a finder that matches the node whose id attribute is id.
func ByID(id string) Finder {
	return &predicateFinder{
		fn:   func(n *dom.Node) bool { return n.Name() == id },
		desc: fmt.Sprintf("ByID(%q)", id),
	}
}

// ByTag returns a finder that matches nodes with the given tag.
func ByTag(tag string) Finder {
	return &predicateFinder{
		fn:   func(n *dom.Node) bool { return n.Tag() == tag },
		desc: fmt.Sprintf("ByTag(%q)", tag),
	}
}

// ByClass returns a finder that matches nodes carrying class.
func ByClass(class string) Finder {
	return &predicateFinder{
		fn:   func(n *dom.Node) bool { return n.HasClass(class) },
		desc: fmt.Sprintf("ByClass(%q)", class),
	}
}

// ByText returns a finder that matches nodes whose own text equals text.
func ByText(text string) Finder {
	return &predicateFinder{
		fn:   func(n *dom.Node) bool { return n.Text() == text },
		desc: fmt.Sprintf("ByText(%q)", text),
	}
}

// ByTextContaining returns a finder that matches nodes whose own text
// contains substring.
func ByTextContaining(substring string) Finder {
	return &predicateFinder{
		fn:   func(n *dom.Node) bool { return n.Text() != "" && strings.Contains(n.Text(), substring) },
		desc: fmt.Sprintf("ByTextContaining(%q)", substring),
	}
}

// descendantFinder finds nodes matching 'matching' that are descendants
// of nodes matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *dom.Node) []*dom.Node {
	var results []*dom.Node
	seen := make(map[*dom.Node]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		// Skip the ancestor itself.
		for _, child := range ancestor.Children() {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches nodes satisfying 'matching'
// that are descendants of nodes matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// ancestorFinder finds nodes matching 'matching' that are ancestors
// of nodes matching 'of'.
type ancestorFinder struct {
	of       Finder
	matching Finder
}

func (f *ancestorFinder) Evaluate(root *dom.Node) []*dom.Node {
	descendants := f.of.Evaluate(root)
	if len(descendants) == 0 {
		return nil
	}
	// Candidates keep document order.
	var results []*dom.Node
	for _, candidate := range f.matching.Evaluate(root) {
		for _, desc := range descendants {
			if isAncestorOf(candidate, desc) {
				results = append(results, candidate)
				break
			}
		}
	}
	return results
}

func (f *ancestorFinder) Description() string {
	return fmt.Sprintf("Ancestor(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Ancestor returns a finder that matches nodes satisfying 'matching'
// that are ancestors of nodes matching 'of'.
func Ancestor(of, matching Finder) Finder {
	return &ancestorFinder{of: of, matching: matching}
}

func isAncestorOf(ancestor, descendant *dom.Node) bool {
	for p := descendant.Parent(); p != nil; p = p.Parent() {
		if p == ancestor {
			return true
		}
	}
	return false
}

// collectMatches performs depth-first pre-order traversal, collecting
// nodes that satisfy the predicate.
func collectMatches(root *dom.Node, predicate func(*dom.Node) bool) []*dom.Node {
	var results []*dom.Node
	walkTree(root, func(n *dom.Node) {
		if predicate(n) {
			results = append(results, n)
		}
	})
	return results
}

func walkTree(root *dom.Node, visit func(*dom.Node)) {
	visit(root)
	for _, child := range root.Children() {
		walkTree(child, visit)
	}
}
