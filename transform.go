package nurbs

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// === Affine Transformations ================================================

// AT is an affine transform, a matrix type used for transforming points and
// vectors in 3D. B-spline curves are affinely invariant: transforming the
// poles transforms the curve.
type AT []float64 // a 4x4 matrix, flattened by rows

// Internal constructor. Clients implicitely use this as a starting point for
// transform combinations.
func newAT() AT {
	m := make([]float64, 16)
	return m
}

func (m AT) get(row, col int) float64 {
	return m[row*4+col]
}

func (m AT) set(row, col int, value float64) {
	m[row*4+col] = value
}

func (m AT) row(row int) []float64 {
	return m[row*4 : (row+1)*4]
}

func (m AT) col(col int) []float64 {
	c := make([]float64, 4)
	for i := 0; i < 4; i++ {
		c[i] = m.get(i, col)
	}
	return c
}

// Identity transform. Will transform a point onto itself.
func Identity() AT {
	m := newAT()
	for i := 0; i < 4; i++ {
		m.set(i, i, 1.0)
	}
	return m
}

// Translation transform. Translate a point by v.
func Translation(v vec3.T) AT {
	m := Identity()
	m.set(0, 3, v[0])
	m.set(1, 3, v[1])
	m.set(2, 3, v[2])
	return m
}

// Scaling transform. Scale a point by factor s, relative to the origin.
func Scaling(s float64) AT {
	m := Identity()
	m.set(0, 0, s)
	m.set(1, 1, s)
	m.set(2, 2, s)
	return m
}

// Rotation transform. Rotate a point counter-clockwise around an axis through
// the origin. Angle theta is in radians. A zero axis yields the identity.
func Rotation(axis vec3.T, theta float64) AT {
	u := Unit(axis)
	if IsZeroVec(u) {
		return Identity()
	}
	m := Identity()
	sin, cos := math.Sin(theta), math.Cos(theta)
	t := 1 - cos
	x, y, z := u[0], u[1], u[2]
	m.set(0, 0, cos+x*x*t)
	m.set(0, 1, x*y*t-z*sin)
	m.set(0, 2, x*z*t+y*sin)
	m.set(1, 0, y*x*t+z*sin)
	m.set(1, 1, cos+y*y*t)
	m.set(1, 2, y*z*t-x*sin)
	m.set(2, 0, z*x*t-y*sin)
	m.set(2, 1, z*y*t+x*sin)
	m.set(2, 2, cos+z*z*t)
	return m
}

// Debug Stringer for an affine transform.
func (m AT) String() string {
	s := fmt.Sprintf("[%g,%g,%g,%g|%g,%g,%g,%g|%g,%g,%g,%g]",
		m[0], m[1], m[2], m[3], m[4], m[5], m[6], m[7], m[8], m[9], m[10], m[11])
	return s
}

func dotProd(vec1, vec2 []float64) float64 {
	return vec1[0]*vec2[0] + vec1[1]*vec2[1] + vec1[2]*vec2[2] + vec1[3]*vec2[3]
}

// Combine 2 affine transformation to a new one. The result applies m first,
// then n. Returns a new transformation without changing the argument(s).
func (m AT) Combine(n AT) AT {
	o := newAT()
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			o.set(row, col, dotProd(n.row(row), m.col(col)))
		}
	}
	return o
}

func (m AT) multiplyVector(v []float64) []float64 {
	c := make([]float64, 4)
	for i := 0; i < 4; i++ {
		c[i] = dotProd(m.row(i), v)
	}
	return c
}

// Transform a point. The argument is unchanged and a new vector is returned.
func (m AT) Transform(p vec3.T) vec3.T {
	c := m.multiplyVector([]float64{p[0], p[1], p[2], 1.0})
	return vec3.T{c[0], c[1], c[2]}
}

// TransformDir transforms a direction vector, i.e. applies the linear part
// of m only.
func (m AT) TransformDir(v vec3.T) vec3.T {
	c := m.multiplyVector([]float64{v[0], v[1], v[2], 0})
	return vec3.T{c[0], c[1], c[2]}
}

// TransformWeighted transforms the cartesian position of a weighted point,
// keeping its weight.
func (m AT) TransformWeighted(wp WeightedPoint) WeightedPoint {
	c := m.multiplyVector([]float64{wp.X, wp.Y, wp.Z, wp.W})
	return WeightedPoint{X: c[0], Y: c[1], Z: c[2], W: wp.W}
}
