/*
Package knots implements knot vectors and B-spline basis functions.

Functions in this package are pure and operate on slices owned by the caller:
span search (A2.1), non-vanishing basis functions (A2.2), their derivatives
(A2.3), knot vectors by parameter averaging, and knot insertion by Boehm's
algorithm (A5.1). Algorithm numbers refer to

	The NURBS Book, 2nd ed. -- Les Piegl, Wayne Tiller
	Springer 1997

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package knots

import (
	"fmt"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'nurbs'
func tracer() tracing.Trace {
	return tracing.Select("nurbs")
}

// Vector is a non-decreasing sequence of knots. For a curve of degree p with
// n control points it has n+p+1 entries. Clamped vectors have multiplicity
// p+1 at both ends.
type Vector []float64

// Clone returns a copy of kv.
func (kv Vector) Clone() Vector {
	c := make(Vector, len(kv))
	copy(c, kv)
	return c
}

// Domain returns the parameter range of a curve of degree p over kv.
func (kv Vector) Domain(degree int) (float64, float64) {
	return kv[degree], kv[len(kv)-degree-1]
}

// IsNonDecreasing is a predicate: is kv sorted?
func (kv Vector) IsNonDecreasing() bool {
	for i := 1; i < len(kv); i++ {
		if kv[i] < kv[i-1] {
			return false
		}
	}
	return true
}

// IsClamped is a predicate: does kv have multiplicity degree+1 at both ends?
func (kv Vector) IsClamped(degree int) bool {
	m := len(kv)
	if m < 2*(degree+1) {
		return false
	}
	for i := 1; i <= degree; i++ {
		if kv[i] != kv[0] || kv[m-1-i] != kv[m-1] {
			return false
		}
	}
	return true
}

// Validate checks if kv is a clamped knot vector for a curve of degree p with
// n control points.
func (kv Vector) Validate(degree, n int) error {
	if degree < 1 || n < degree+1 {
		return fmt.Errorf("%w: degree %d with %d control points", nurbs.ErrInvalidKnot, degree, n)
	}
	if len(kv) != n+degree+1 {
		return fmt.Errorf("%w: expected %d knots, have %d", nurbs.ErrInvalidKnot, n+degree+1, len(kv))
	}
	if !kv.IsNonDecreasing() {
		return fmt.Errorf("%w: knots are decreasing", nurbs.ErrInvalidKnot)
	}
	if !kv.IsClamped(degree) {
		return fmt.Errorf("%w: knots are not clamped", nurbs.ErrInvalidKnot)
	}
	return nil
}

// Mapped returns a copy of kv with the domain [0,1] mapped affinely to [lo,hi].
func (kv Vector) Mapped(lo, hi float64) Vector {
	m := make(Vector, len(kv))
	for i, k := range kv {
		m[i] = lo + k*(hi-lo)
	}
	return m
}

// === Basis Functions =======================================================

// FindSpan returns the index of the knot span [kv[i],kv[i+1]) containing t,
// for a curve of degree p with n control points. The result is bounded by
// [degree, n-1]: parameters at or beyond the curve ends yield the first or
// last non-empty span.
func FindSpan(degree int, kv Vector, n int, t float64) int {
	if t >= kv[n] {
		return n - 1
	}
	if t <= kv[degree] {
		return degree
	}
	low, high := degree, n
	mid := (low + high) / 2
	for t < kv[mid] || t >= kv[mid+1] {
		if t < kv[mid] {
			high = mid
		} else {
			low = mid
		}
		mid = (low + high) / 2
	}
	return mid
}

// BasisFuncs computes the degree+1 non-vanishing basis functions
// N[span-degree..span] at t. The values sum to 1.
func BasisFuncs(degree int, kv Vector, span int, t float64) []float64 {
	N := make([]float64, degree+1)
	left := make([]float64, degree+1)
	right := make([]float64, degree+1)
	N[0] = 1.0
	for j := 1; j <= degree; j++ {
		left[j] = t - kv[span+1-j]
		right[j] = kv[span+j] - t
		saved := 0.0
		for r := 0; r < j; r++ {
			temp := N[r] / (right[r+1] + left[j-r])
			N[r] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		N[j] = saved
	}
	return N
}

// BasisDerivatives computes the non-vanishing basis functions at t and their
// derivatives up to order. Row k of the result holds the k-th derivatives of
// N[span-degree..span]. Rows for k > degree are zero.
func BasisDerivatives(degree int, kv Vector, span, order int, t float64) [][]float64 {
	p := degree
	ders := make([][]float64, order+1)
	for k := range ders {
		ders[k] = make([]float64, p+1)
	}
	n := min(order, p)
	ndu := make([][]float64, p+1) // basis functions (upper) and knot differences (lower)
	for j := range ndu {
		ndu[j] = make([]float64, p+1)
	}
	left := make([]float64, p+1)
	right := make([]float64, p+1)
	ndu[0][0] = 1.0
	for j := 1; j <= p; j++ {
		left[j] = t - kv[span+1-j]
		right[j] = kv[span+j] - t
		saved := 0.0
		for r := 0; r < j; r++ {
			ndu[j][r] = right[r+1] + left[j-r]
			temp := ndu[r][j-1] / ndu[j][r]
			ndu[r][j] = saved + right[r+1]*temp
			saved = left[j-r] * temp
		}
		ndu[j][j] = saved
	}
	for j := 0; j <= p; j++ {
		ders[0][j] = ndu[j][p]
	}
	a := [2][]float64{make([]float64, p+1), make([]float64, p+1)}
	for r := 0; r <= p; r++ {
		s1, s2 := 0, 1 // alternate rows of a
		a[0][0] = 1.0
		for k := 1; k <= n; k++ {
			d := 0.0
			rk, pk := r-k, p-k
			if r >= k {
				a[s2][0] = a[s1][0] / ndu[pk+1][rk]
				d = a[s2][0] * ndu[rk][pk]
			}
			j1, j2 := 1, k-1
			if rk < -1 {
				j1 = -rk
			}
			if r-1 > pk {
				j2 = p - r
			}
			for j := j1; j <= j2; j++ {
				a[s2][j] = (a[s1][j] - a[s1][j-1]) / ndu[pk+1][rk+j]
				d += a[s2][j] * ndu[rk+j][pk]
			}
			if r <= pk {
				a[s2][k] = -a[s1][k-1] / ndu[pk+1][r]
				d += a[s2][k] * ndu[r][pk]
			}
			ders[k][r] = d
			s1, s2 = s2, s1
		}
	}
	r := float64(p) // multiply by p!/(p-k)!
	for k := 1; k <= n; k++ {
		for j := 0; j <= p; j++ {
			ders[k][j] *= r
		}
		r *= float64(p - k)
	}
	return ders
}
