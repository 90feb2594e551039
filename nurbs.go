/*
Package nurbs is a kernel for B-spline and NURBS curves and surfaces.

The root package holds numeric helpers, weighted (homogeneous) control points,
affine transformations, configuration and the error values shared by all
sub-packages. The sub-packages are layered bottom-up:

	lineq     dense LU decomposition for collocation systems
	knots     knot vectors, basis functions, knot insertion
	evaluate  point and derivative evaluation of curves and surfaces
	interp    interpolation of poles with tangent and knuckle constraints
	curve     editable curves, primitives and parametric queries
	surface   editable tensor-product surfaces

Algorithms follow

	The NURBS Book, 2nd ed. -- Les Piegl, Wayne Tiller
	Springer 1997

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package nurbs

import (
	"math"

	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'nurbs'
func tracer() tracing.Trace {
	return tracing.Select("nurbs")
}

// === Numeric Data Type =====================================================

// Deg2Rad is a constant for converting from DEG to RAD or vice versa
var Deg2Rad float64 = math.Pi / 180

// Epsilon : numbers below ε are considered 0
var Epsilon float64 = 1e-12

// Is0 is a predicate: is n = 0 ?
func Is0(n float64) bool {
	return math.Abs(n) <= Epsilon
}

// Is1 is a predicate: is n = 1.0 ?
func Is1(n float64) bool {
	return math.Abs(1-n) <= Epsilon
}

// Zap makes n = 0 if n "means" to be zero
func Zap(n float64) float64 {
	if Is0(n) {
		n = 0
	}
	return n
}

// Round to ε.
func Round(n float64) float64 {
	return math.Round(n/Epsilon) * Epsilon
}

// Clamp01 restricts t to the parameter domain [0,1].
func Clamp01(t float64) float64 {
	if t < 0 {
		return 0
	} else if t > 1 {
		return 1
	}
	return t
}

// IsFinite is a predicate: is n neither NaN nor ±Inf?
func IsFinite(n float64) bool {
	return !math.IsNaN(n) && !math.IsInf(n, 0)
}
