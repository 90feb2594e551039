// Package interp finds the control points of B-spline curves and surfaces
// which interpolate a sequence of poles.
/*

A pole is a design point, optionally carrying a tangent ("slope") or marking
a corner ("knuckle"). Interpolation assigns every pole a parameter value
(chordal or centripetal spacing), builds a clamped knot vector by averaging
parameters, and solves the collocation system

	Σⱼ Nⱼ(tᵢ)·Pⱼ = Qᵢ

for the control points Pⱼ. The primary source of information is

   The NURBS Book, 2nd ed., chap. 9.2 -- Les Piegl, Wayne Tiller
   Springer 1997

Depending on the constraints present, one of three modes is used:

Unconstrained interpolation solves one equation per pole.

Tangent-constrained interpolation adds one unknown and one equation per
slope. At the curve ends the derivative is expressed by the difference of the
first (last) two control points; at interior poles the first-derivative basis
functions are equated to the slope. Additional knots are placed a third of
the way to the neighbouring parameters, so that the system stays regular.

Knuckle segmentation splits the poles at every interior knuckle. The pieces
between knuckles are parameterized on their own and mapped to consecutive
sub-intervals of [0,1]. The knot at a junction gets multiplicity equal to the
degree, which makes the curve pass through a single shared control point
there without any tangent continuity. Both sides of a knuckle are constrained
by a tangent: an explicit one if the client supplied it, otherwise one derived
from a local fit of the piece. The resulting system is assembled and solved
as a whole.

Usage

Clients usually do not call this package directly but edit curves with
package curve. Interpolating three poles with a tangent at the first one
looks like this (package qualifiers omitted):

	poles := []Pole{
	    P(V(0,0,0)).WithSlope(V(1,0,0)),
	    P(V(1,1,0)),
	    P(V(2,0,0)),
	}
	result, err := Interpolate(3, poles, Chordal)

The effective degree of the result is min(3, len(poles)-1).

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.

*/
package interp
