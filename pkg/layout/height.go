package layout

import (
	"strconv"
	"strings"

	"github.com/go-drift/collapsible/pkg/errors"
)

// Height is an explicit height style value: either a pixel length or
// natural sizing ("auto").
type Height struct {
	px      float64
	natural bool
}

// Natural releases the explicit height so the element sizes to its content.
func Natural() Height {
	return Height{natural: true}
}

// Pixels returns an explicit pixel height.
func Pixels(v float64) Height {
	return Height{px: v}
}

// IsNatural reports whether h is natural sizing.
func (h Height) IsNatural() bool {
	return h.natural
}

// Value returns the pixel value, or 0 for natural sizing.
func (h Height) Value() float64 {
	if h.natural {
		return 0
	}
	return h.px
}

// String formats h the way a computed style would.
func (h Height) String() string {
	if h.natural {
		return "auto"
	}
	return FormatPixels(h.px)
}

// FormatPixels renders v as a CSS pixel length.
func FormatPixels(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64) + "px"
}

// ParsePixels converts a computed pixel length such as "120px" or "40.5px"
// into a number. Any other unit, keyword or malformed number is a
// MeasurementError for property of el.
func ParsePixels(el Element, property, value string) (float64, error) {
	id := ""
	if el != nil {
		id = el.ID()
	}
	fail := &errors.MeasurementError{Element: id, Property: property, Value: value}

	s := strings.TrimSpace(value)
	num, ok := strings.CutSuffix(s, "px")
	if !ok || num == "" {
		return 0, fail
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fail
	}
	return v, nil
}

// Measure reads the computed height of el.
func Measure(o Oracle, el Element) (float64, error) {
	return ParsePixels(el, "height", o.ComputedStyle(el).Height)
}

// BoxHeight reads the computed height of el plus its vertical margins.
func BoxHeight(o Oracle, el Element) (float64, error) {
	style := o.ComputedStyle(el)
	h, err := ParsePixels(el, "height", style.Height)
	if err != nil {
		return 0, err
	}
	top, err := marginPixels(el, "margin-top", style.MarginTop)
	if err != nil {
		return 0, err
	}
	bottom, err := marginPixels(el, "margin-bottom", style.MarginBottom)
	if err != nil {
		return 0, err
	}
	return h + top + bottom, nil
}

func marginPixels(el Element, property, value string) (float64, error) {
	if strings.TrimSpace(value) == "" || value == "0" {
		return 0, nil
	}
	return ParsePixels(el, property, value)
}
