package evaluate

import (
	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/knots"
	"github.com/ungerik/go3d/float64/vec3"
)

// Surface control nets are indexed [row][col]. Columns run in u-direction,
// rows in v-direction.

// SurfacePoint computes the point at (u,v) of a polynomial tensor-product
// B-spline surface (A3.5).
func SurfacePoint(degU, degV int, ku, kv knots.Vector, ctrl [][]vec3.T, u, v float64) vec3.T {
	su := knots.FindSpan(degU, ku, len(ctrl[0]), u)
	Nu := knots.BasisFuncs(degU, ku, su, u)
	sv := knots.FindSpan(degV, kv, len(ctrl), v)
	Nv := knots.BasisFuncs(degV, kv, sv, v)
	var s vec3.T
	for l := 0; l <= degV; l++ {
		row := ctrl[sv-degV+l]
		var temp vec3.T
		for k := 0; k <= degU; k++ {
			q := row[su-degU+k].Scaled(Nu[k])
			temp = vec3.Add(&temp, &q)
		}
		temp = temp.Scaled(Nv[l])
		s = vec3.Add(&s, &temp)
	}
	return s
}

// RationalSurfacePoint computes the point at (u,v) of a NURBS surface (A4.3).
func RationalSurfacePoint(degU, degV int, ku, kv knots.Vector, ctrl [][]nurbs.WeightedPoint,
	u, v float64) vec3.T {
	//
	su := knots.FindSpan(degU, ku, len(ctrl[0]), u)
	Nu := knots.BasisFuncs(degU, ku, su, u)
	sv := knots.FindSpan(degV, kv, len(ctrl), v)
	Nv := knots.BasisFuncs(degV, kv, sv, v)
	var sw nurbs.WeightedPoint
	for l := 0; l <= degV; l++ {
		row := ctrl[sv-degV+l]
		var temp nurbs.WeightedPoint
		for k := 0; k <= degU; k++ {
			temp = temp.Add(row[su-degU+k].Scaled(Nu[k]))
		}
		sw = sw.Add(temp.Scaled(Nv[l]))
	}
	return sw.Cartesian()
}

// homogeneousSurfaceDerivatives computes the partial derivatives of a surface
// in homogeneous space (A3.6). Entry [k][l] is ∂ᵏ⁺ˡ/∂uᵏ∂vˡ, for k+l ≤ order.
func homogeneousSurfaceDerivatives(degU, degV int, ku, kv knots.Vector, ctrl [][]nurbs.WeightedPoint,
	u, v float64, order int) [][]nurbs.WeightedPoint {
	//
	skl := make([][]nurbs.WeightedPoint, order+1)
	for k := range skl {
		skl[k] = make([]nurbs.WeightedPoint, order-k+1)
	}
	du, dv := min(order, degU), min(order, degV)
	su := knots.FindSpan(degU, ku, len(ctrl[0]), u)
	Nu := knots.BasisDerivatives(degU, ku, su, du, u)
	sv := knots.FindSpan(degV, kv, len(ctrl), v)
	Nv := knots.BasisDerivatives(degV, kv, sv, dv, v)
	temp := make([]nurbs.WeightedPoint, degV+1)
	for k := 0; k <= du; k++ {
		for s := 0; s <= degV; s++ {
			temp[s] = nurbs.WeightedPoint{}
			row := ctrl[sv-degV+s]
			for r := 0; r <= degU; r++ {
				temp[s] = temp[s].Add(row[su-degU+r].Scaled(Nu[k][r]))
			}
		}
		dd := min(order-k, dv)
		for l := 0; l <= dd; l++ {
			for s := 0; s <= degV; s++ {
				skl[k][l] = skl[k][l].Add(temp[s].Scaled(Nv[l][s]))
			}
		}
	}
	return skl
}

// RationalSurfaceDerivatives computes the partial derivatives of a NURBS
// surface up to order (A4.4). Entry [k][l] of the result is ∂ᵏ⁺ˡS/∂uᵏ∂vˡ,
// for k+l ≤ order; entry [0][0] is the surface point.
func RationalSurfaceDerivatives(degU, degV int, ku, kv knots.Vector, ctrl [][]nurbs.WeightedPoint,
	u, v float64, order int) [][]vec3.T {
	//
	aders := homogeneousSurfaceDerivatives(degU, degV, ku, kv, ctrl, u, v, order)
	skl := make([][]vec3.T, order+1)
	for k := range skl {
		skl[k] = make([]vec3.T, order-k+1)
	}
	w00 := aders[0][0].W
	for k := 0; k <= order; k++ {
		for l := 0; l <= order-k; l++ {
			d := aders[k][l].Vec()
			for j := 1; j <= l; j++ {
				q := skl[k][l-j].Scaled(Binomial(l, j) * aders[0][j].W)
				d = vec3.Sub(&d, &q)
			}
			for i := 1; i <= k; i++ {
				q := skl[k-i][l].Scaled(Binomial(k, i) * aders[i][0].W)
				d = vec3.Sub(&d, &q)
				var v2 vec3.T
				for j := 1; j <= l; j++ {
					r := skl[k-i][l-j].Scaled(Binomial(l, j) * aders[i][j].W)
					v2 = vec3.Add(&v2, &r)
				}
				v2 = v2.Scaled(Binomial(k, i))
				d = vec3.Sub(&d, &v2)
			}
			skl[k][l] = d.Scaled(1 / w00)
		}
	}
	return skl
}
