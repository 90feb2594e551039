package nurbs

import (
	"fmt"
	"math"

	"github.com/ungerik/go3d/float64/vec3"
)

// === Vectors ===============================================================

// V is a quick notation for constructing a 3D vector.
func V(x, y, z float64) vec3.T {
	return vec3.T{x, y, z}
}

// IsFiniteVec is a predicate: are all coordinates of v finite?
func IsFiniteVec(v vec3.T) bool {
	return IsFinite(v[0]) && IsFinite(v[1]) && IsFinite(v[2])
}

// IsZeroVec is a predicate: is |v| = 0 ?
func IsZeroVec(v vec3.T) bool {
	return Is0(v[0]) && Is0(v[1]) && Is0(v[2])
}

// Unit returns v scaled to length 1. Vectors of (near) zero length are
// returned as the zero vector.
func Unit(v vec3.T) vec3.T {
	l := v.Length()
	if l <= Epsilon {
		return vec3.T{}
	}
	return v.Scaled(1 / l)
}

// Distance returns |p - q|.
func Distance(p, q vec3.T) float64 {
	d := vec3.Sub(&p, &q)
	return d.Length()
}

// Lerp blends two points: (1-alpha)·p + alpha·q.
func Lerp(p, q vec3.T, alpha float64) vec3.T {
	a := p.Scaled(1 - alpha)
	b := q.Scaled(alpha)
	return vec3.Add(&a, &b)
}

// Equal compares two vectors up to tolerance tol per coordinate.
func Equal(p, q vec3.T, tol float64) bool {
	return math.Abs(p[0]-q[0]) <= tol && math.Abs(p[1]-q[1]) <= tol &&
		math.Abs(p[2]-q[2]) <= tol
}

// PtString is a compact Stringer for vectors, rounded to 4 decimals.
func PtString(v vec3.T) string {
	return fmt.Sprintf("(%.4g,%.4g,%.4g)", Zap(round4(v[0])), Zap(round4(v[1])), Zap(round4(v[2])))
}

func round4(x float64) float64 {
	return math.Round(x*10000.0) / 10000.0
}

// === Weighted Points =======================================================

// WeightedPoint is a control point in homogeneous coordinates (wx,wy,wz,w).
// Rational curves are evaluated in this 4D space and de-weighted afterwards.
type WeightedPoint struct {
	X, Y, Z, W float64
}

// Weighted creates a weighted point from a cartesian point p and weight w.
func Weighted(p vec3.T, w float64) WeightedPoint {
	return WeightedPoint{X: p[0] * w, Y: p[1] * w, Z: p[2] * w, W: w}
}

// Cartesian de-weights a weighted point, i.e. projects it to (x/w,y/w,z/w).
// A zero weight yields the un-projected coordinates.
func (wp WeightedPoint) Cartesian() vec3.T {
	if wp.W == 0 {
		return vec3.T{wp.X, wp.Y, wp.Z}
	}
	return vec3.T{wp.X / wp.W, wp.Y / wp.W, wp.Z / wp.W}
}

// Vec returns the weighted coordinates (wx,wy,wz) without projection.
func (wp WeightedPoint) Vec() vec3.T {
	return vec3.T{wp.X, wp.Y, wp.Z}
}

// Add returns wp + q, componentwise in 4D.
func (wp WeightedPoint) Add(q WeightedPoint) WeightedPoint {
	return WeightedPoint{wp.X + q.X, wp.Y + q.Y, wp.Z + q.Z, wp.W + q.W}
}

// Sub returns wp - q, componentwise in 4D.
func (wp WeightedPoint) Sub(q WeightedPoint) WeightedPoint {
	return WeightedPoint{wp.X - q.X, wp.Y - q.Y, wp.Z - q.Z, wp.W - q.W}
}

// Scaled returns wp·a, componentwise in 4D.
func (wp WeightedPoint) Scaled(a float64) WeightedPoint {
	return WeightedPoint{wp.X * a, wp.Y * a, wp.Z * a, wp.W * a}
}

// Channel returns coordinate i of (wx,wy,wz,w).
func (wp WeightedPoint) Channel(i int) float64 {
	switch i {
	case 0:
		return wp.X
	case 1:
		return wp.Y
	case 2:
		return wp.Z
	}
	return wp.W
}

// SetChannel sets coordinate i of (wx,wy,wz,w).
func (wp *WeightedPoint) SetChannel(i int, v float64) {
	switch i {
	case 0:
		wp.X = v
	case 1:
		wp.Y = v
	case 2:
		wp.Z = v
	default:
		wp.W = v
	}
}

// Pretty Stringer for weighted points.
func (wp WeightedPoint) String() string {
	return fmt.Sprintf("[%g,%g,%g|%g]", wp.X, wp.Y, wp.Z, wp.W)
}

// Blend is the affine blend used by knot insertion for weighted points:
// (1-alpha)·p + alpha·q.
func Blend(p, q WeightedPoint, alpha float64) WeightedPoint {
	return p.Scaled(1 - alpha).Add(q.Scaled(alpha))
}

// Homogenize converts cartesian points with weights into weighted points.
// If weights is nil, every weight is 1.
func Homogenize(pts []vec3.T, weights []float64) []WeightedPoint {
	wpts := make([]WeightedPoint, len(pts))
	for i, p := range pts {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		wpts[i] = Weighted(p, w)
	}
	return wpts
}

// Dehomogenize converts weighted points into cartesian points.
func Dehomogenize(wpts []WeightedPoint) []vec3.T {
	pts := make([]vec3.T, len(wpts))
	for i, wp := range wpts {
		pts[i] = wp.Cartesian()
	}
	return pts
}

// Weights extracts the weights of weighted points.
func Weights(wpts []WeightedPoint) []float64 {
	w := make([]float64, len(wpts))
	for i, wp := range wpts {
		w[i] = wp.W
	}
	return w
}
