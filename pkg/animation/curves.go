package animation

import (
	"math"
	"strings"
)

// Curve transforms linear progress t in [0, 1] into eased progress.
type Curve func(float64) float64

// Easing curves transform linear animation progress into natural-feeling motion.
//
// Standard curves: [LinearCurve], [Ease], [EaseIn], [EaseOut], [EaseInOut].
// Use [CubicBezier] to create custom curves matching CSS cubic-bezier().

// LinearCurve returns linear progress (no easing).
func LinearCurve(t float64) float64 {
	return t
}

// Ease is a standard cubic bezier curve for general-purpose easing.
// Equivalent to CSS ease.
var Ease = CubicBezier(0.25, 0.1, 0.25, 1.0)

// EaseIn starts slowly and accelerates.
// Equivalent to CSS ease-in.
var EaseIn = CubicBezier(0.4, 0.0, 1.0, 1.0)

// EaseOut starts quickly and decelerates.
// Equivalent to CSS ease-out.
var EaseOut = CubicBezier(0.0, 0.0, 0.2, 1.0)

// EaseInOut starts and ends slowly with acceleration in the middle.
// Equivalent to CSS ease-in-out.
var EaseInOut = CubicBezier(0.4, 0.0, 0.2, 1.0)

// CurveByName resolves a CSS timing function keyword.
// Unknown names report false.
func CurveByName(name string) (Curve, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "ease":
		return Ease, true
	case "linear":
		return LinearCurve, true
	case "ease-in":
		return EaseIn, true
	case "ease-out":
		return EaseOut, true
	case "ease-in-out":
		return EaseInOut, true
	default:
		return nil, false
	}
}

// CubicBezier returns a cubic-bezier easing function matching CSS cubic-bezier().
// The parameters define the two control points (x1,y1) and (x2,y2) of the curve.
func CubicBezier(x1, y1, x2, y2 float64) Curve {
	b := newBezier(x1, y1, x2, y2)
	return func(t float64) float64 {
		if t <= 0 {
			return 0
		}
		if t >= 1 {
			return 1
		}
		return b.y(b.solve(t))
	}
}

const bezierEpsilon = 1e-7

// bezier holds the power-basis coefficients of a curve through (0,0) and
// (1,1), so each axis evaluates as ((a*u + b)*u + c)*u.
type bezier struct {
	ax, bx, cx float64
	ay, by, cy float64
}

func newBezier(x1, y1, x2, y2 float64) bezier {
	var z bezier
	z.cx = 3 * x1
	z.bx = 3*(x2-x1) - z.cx
	z.ax = 1 - z.cx - z.bx
	z.cy = 3 * y1
	z.by = 3*(y2-y1) - z.cy
	z.ay = 1 - z.cy - z.by
	return z
}

func (z bezier) x(u float64) float64 { return ((z.ax*u+z.bx)*u + z.cx) * u }

func (z bezier) y(u float64) float64 { return ((z.ay*u+z.by)*u + z.cy) * u }

func (z bezier) slope(u float64) float64 { return (3*z.ax*u+2*z.bx)*u + z.cx }

// solve returns the parameter u in [0, 1] where x(u) == x.
func (z bezier) solve(x float64) float64 {
	u := x
	for range 8 {
		diff := z.x(u) - x
		if math.Abs(diff) < bezierEpsilon {
			return u
		}
		d := z.slope(u)
		if math.Abs(d) < bezierEpsilon {
			break
		}
		u -= diff / d
	}

	// Newton stalled or left the unit interval: bisect from the start.
	lo, hi := 0.0, 1.0
	u = x
	for hi-lo > bezierEpsilon {
		diff := z.x(u) - x
		if math.Abs(diff) < bezierEpsilon {
			break
		}
		if diff > 0 {
			hi = u
		} else {
			lo = u
		}
		u = lo + (hi-lo)/2
	}
	return u
}
