package evaluate

import (
	"github.com/npillmayer/nurbs"
	"github.com/ungerik/go3d/float64/vec3"
)

// Bernstein computes all Bernstein polynomials B(n,0..n) at t (A1.3).
func Bernstein(n int, t float64) []float64 {
	B := make([]float64, n+1)
	B[0] = 1.0
	t1 := 1.0 - t
	for j := 1; j <= n; j++ {
		saved := 0.0
		for k := 0; k < j; k++ {
			temp := B[k]
			B[k] = saved + t1*temp
			saved = t * temp
		}
		B[j] = saved
	}
	return B
}

// BezierPoint computes the point at t of a Bézier curve with control points
// ctrl, by de Casteljau's algorithm (A1.5).
func BezierPoint(ctrl []vec3.T, t float64) vec3.T {
	if len(ctrl) == 0 {
		return vec3.T{}
	}
	q := make([]vec3.T, len(ctrl))
	copy(q, ctrl)
	for k := 1; k < len(q); k++ {
		for i := 0; i < len(q)-k; i++ {
			q[i] = nurbs.Lerp(q[i], q[i+1], t)
		}
	}
	return q[0]
}

// BezierDerivatives computes the derivatives of a Bézier curve up to order,
// by evaluating its hodographs.
func BezierDerivatives(ctrl []vec3.T, t float64, order int) []vec3.T {
	ders := make([]vec3.T, order+1)
	q := make([]vec3.T, len(ctrl))
	copy(q, ctrl)
	for k := 0; k <= order && len(q) > 0; k++ {
		ders[k] = BezierPoint(q, t)
		n := float64(len(q) - 1)
		hodo := make([]vec3.T, len(q)-1)
		for i := range hodo {
			d := vec3.Sub(&q[i+1], &q[i])
			hodo[i] = d.Scaled(n)
		}
		q = hodo
	}
	return ders
}
