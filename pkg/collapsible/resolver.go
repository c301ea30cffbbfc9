package collapsible

import (
	"github.com/go-drift/collapsible/pkg/layout"
)

// Heights are the two sizes a controller moves between.
type Heights struct {
	Collapsed float64
	Expanded  float64
}

// Delta is the distance between the expanded and the collapsed height.
func (h Heights) Delta() float64 {
	return h.Expanded - h.Collapsed
}

// Clamp enforces Expanded >= Collapsed.
func (h Heights) Clamp() Heights {
	if h.Expanded < h.Collapsed {
		h.Expanded = h.Collapsed
	}
	return h
}

// Resolver measures collapsed and expanded heights through a layout oracle.
type Resolver struct {
	oracle layout.Oracle
}

// NewResolver creates a resolver reading from oracle.
func NewResolver(oracle layout.Oracle) *Resolver {
	return &Resolver{oracle: oracle}
}

// Resolve measures el. Collapsed is the height of trigger. Expanded is the
// natural height of el, measured with its explicit height released; it is
// not clamped, callers clamp after applying their own deltas.
//
// When collapsed is true the explicit collapsed height is written back after
// measuring, also when the natural measurement fails. A failing trigger
// measurement leaves the element untouched.
func (r *Resolver) Resolve(el, trigger layout.Element, collapsed bool) (Heights, error) {
	var h Heights
	c, err := layout.Measure(r.oracle, trigger)
	if err != nil {
		return h, err
	}
	h.Collapsed = c

	r.oracle.SetExplicitHeight(el, layout.Natural())
	natural, err := layout.Measure(r.oracle, el)
	if collapsed {
		r.oracle.SetExplicitHeight(el, layout.Pixels(h.Collapsed))
	}
	if err != nil {
		return Heights{}, err
	}
	h.Expanded = natural
	return h, nil
}
