package interp

import (
	"fmt"
	"math"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/knots"
	"github.com/ungerik/go3d/float64/vec3"
)

// ChordLength returns the length of the polygon through pts.
func ChordLength(pts []vec3.T) float64 {
	l := 0.0
	for i := 1; i < len(pts); i++ {
		l += nurbs.Distance(pts[i], pts[i-1])
	}
	return l
}

// Parameterize assigns a parameter in [0,1] to every point, increasing from
// 0 at the first to 1 at the last one. Chordal spacing is proportional to
// the distance between consecutive points, centripetal spacing to its square
// root. Coincident consecutive points are rejected with an error wrapping
// nurbs.ErrDegenerateInput.
func Parameterize(pts []vec3.T, method nurbs.Parameterization) ([]float64, error) {
	n := len(pts)
	if n < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, have %d", nurbs.ErrTooFewPoles, n)
	}
	params := make([]float64, n)
	total := 0.0
	for i := 1; i < n; i++ {
		d := nurbs.Distance(pts[i], pts[i-1])
		if d <= nurbs.Epsilon {
			tracer().P("pole", i).Errorf("coincides with pole %d", i-1)
			return nil, fmt.Errorf("%w: points %d and %d coincide", nurbs.ErrDegenerateInput, i-1, i)
		}
		if method == nurbs.Centripetal {
			d = math.Sqrt(d)
		}
		total += d
		params[i] = total
	}
	for i := 1; i < n-1; i++ {
		params[i] /= total
	}
	params[n-1] = 1
	return params, nil
}

// TangentKnots creates a clamped knot vector for a system with an extra
// unknown for every parameter flagged in hasSlope. An end slope adds a knot a
// third of the way to the neighbouring parameter; an interior slope at tᵢ
// replaces tᵢ by two values a third of the way to tᵢ₋₁ and tᵢ₊₁. The extended
// parameter sequence is then averaged (see knots.DeBoorKnots).
func TangentKnots(degree int, params []float64, hasSlope []bool) (knots.Vector, error) {
	n := len(params)
	a := make([]float64, n, 2*n)
	copy(a, params)
	m := 0 // slopes processed so far
	for i := 0; i < n; i++ {
		if !hasSlope[i] {
			continue
		}
		switch {
		case i == 0:
			a = insertAt(a, 1, 2.0/3.0*params[0]+1.0/3.0*params[1])
		case i == n-1:
			a = insertAt(a, n-1+m, 2.0/3.0*params[n-1]+1.0/3.0*params[n-2])
		default:
			one3rd := 2.0/3.0*params[i] + 1.0/3.0*params[i-1]
			two3rd := 2.0/3.0*params[i] + 1.0/3.0*params[i+1]
			a = insertAt(a, i+m, one3rd)
			a[i+m+1] = two3rd
		}
		m++
	}
	return knots.DeBoorKnots(degree, a)
}

func insertAt(a []float64, i int, x float64) []float64 {
	a = append(a, 0)
	copy(a[i+1:], a[i:])
	a[i] = x
	return a
}
