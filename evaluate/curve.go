/*
Package evaluate computes points and derivatives of B-spline and NURBS
curves and surfaces.

Polynomial curves take cartesian control points. Rational curves take
weighted control points (see nurbs.WeightedPoint). They are evaluated in 4D
and projected afterwards. Rational derivatives need the weight correction of
A4.2 of The NURBS Book; differentiating the projected curve directly is wrong.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package evaluate

import (
	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/knots"
	"github.com/ungerik/go3d/float64/vec3"
)

// CurvePoint computes the point at t of a polynomial B-spline curve (A3.1).
func CurvePoint(degree int, kv knots.Vector, ctrl []vec3.T, t float64) vec3.T {
	span := knots.FindSpan(degree, kv, len(ctrl), t)
	N := knots.BasisFuncs(degree, kv, span, t)
	var c vec3.T
	for j := 0; j <= degree; j++ {
		q := ctrl[span-degree+j].Scaled(N[j])
		c = vec3.Add(&c, &q)
	}
	return c
}

// CurveDerivatives computes the derivatives C(t), C'(t), …, up to order of a
// polynomial B-spline curve (A3.2). Derivatives above the degree are zero.
func CurveDerivatives(degree int, kv knots.Vector, ctrl []vec3.T, t float64, order int) []vec3.T {
	ck := make([]vec3.T, order+1)
	span := knots.FindSpan(degree, kv, len(ctrl), t)
	nders := knots.BasisDerivatives(degree, kv, span, order, t)
	for k := 0; k <= min(order, degree); k++ {
		for j := 0; j <= degree; j++ {
			q := ctrl[span-degree+j].Scaled(nders[k][j])
			ck[k] = vec3.Add(&ck[k], &q)
		}
	}
	return ck
}

// HomogeneousDerivatives computes the derivatives of a rational curve in
// homogeneous space, i.e. A(t), A'(t), … together with w(t), w'(t), …
func HomogeneousDerivatives(degree int, kv knots.Vector, ctrl []nurbs.WeightedPoint, t float64,
	order int) []nurbs.WeightedPoint {
	//
	ders := make([]nurbs.WeightedPoint, order+1)
	span := knots.FindSpan(degree, kv, len(ctrl), t)
	nders := knots.BasisDerivatives(degree, kv, span, order, t)
	for k := 0; k <= min(order, degree); k++ {
		for j := 0; j <= degree; j++ {
			ders[k] = ders[k].Add(ctrl[span-degree+j].Scaled(nders[k][j]))
		}
	}
	return ders
}

// RationalCurvePoint computes the point at t of a NURBS curve (A4.1).
func RationalCurvePoint(degree int, kv knots.Vector, ctrl []nurbs.WeightedPoint, t float64) vec3.T {
	span := knots.FindSpan(degree, kv, len(ctrl), t)
	N := knots.BasisFuncs(degree, kv, span, t)
	var cw nurbs.WeightedPoint
	for j := 0; j <= degree; j++ {
		cw = cw.Add(ctrl[span-degree+j].Scaled(N[j]))
	}
	return cw.Cartesian()
}

// RationalCurveDerivatives computes the derivatives C(t), C'(t), …, up to
// order of a NURBS curve (A4.2):
//
//	C⁽ᵏ⁾ = ( A⁽ᵏ⁾ − Σᵢ₌₁..ₖ binom(k,i)·w⁽ⁱ⁾·C⁽ᵏ⁻ⁱ⁾ ) / w
func RationalCurveDerivatives(degree int, kv knots.Vector, ctrl []nurbs.WeightedPoint, t float64,
	order int) []vec3.T {
	//
	hders := HomogeneousDerivatives(degree, kv, ctrl, t, order)
	return Project(hders)
}

// Project converts homogeneous derivatives (A⁽ᵏ⁾, w⁽ᵏ⁾) into derivatives of
// the rational curve.
func Project(hders []nurbs.WeightedPoint) []vec3.T {
	ck := make([]vec3.T, len(hders))
	w0 := hders[0].W
	for k := range hders {
		v := hders[k].Vec()
		for i := 1; i <= k; i++ {
			q := ck[k-i].Scaled(Binomial(k, i) * hders[i].W)
			v = vec3.Sub(&v, &q)
		}
		ck[k] = v.Scaled(1 / w0)
	}
	return ck
}

// Binomial returns the binomial coefficient (n over k).
func Binomial(n, k int) float64 {
	if k < 0 || k > n {
		return 0
	}
	k = min(k, n-k)
	b := 1.0
	for i := 1; i <= k; i++ {
		b = b * float64(n-k+i) / float64(i)
	}
	return b
}
