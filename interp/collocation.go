package interp

import (
	"fmt"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/knots"
	"github.com/npillmayer/nurbs/lineq"
	"github.com/ungerik/go3d/float64/vec3"
	"gonum.org/v1/gonum/mat"
)

type rowKind int

const (
	pointRow     rowKind = iota // C(t) = Q
	derivRow                    // C'(t) = D
	leftDiffRow                 // C'(t-) = D, at a knot of multiplicity ≥ degree
	rightDiffRow                // C'(t+) = D, at a knot of multiplicity ≥ degree
)

// constraint is a single row of a collocation system.
type constraint struct {
	kind rowKind
	t    float64
	rhs  nurbs.WeightedPoint
}

func pointAt(t float64, pt vec3.T) constraint {
	return constraint{kind: pointRow, t: t, rhs: nurbs.Weighted(pt, 1)}
}

// Derivative constraints have weight 0: the weight function of the
// interpolating curve is constant 1.
func derivativeAt(kind rowKind, t float64, d vec3.T) constraint {
	return constraint{kind: kind, t: t, rhs: nurbs.WeightedPoint{X: d[0], Y: d[1], Z: d[2]}}
}

// assemble builds the collocation matrix and right-hand side for a curve of
// degree p over kv. There has to be one constraint per control point.
//
// Difference rows express one-sided derivatives at a knot run kv[a..e] of
// multiplicity ≥ p by the control polygon:
//
//	C'(t-) = p/(t - kv[a-1]) · (P[a-1] - P[a-2])
//	C'(t+) = p/(kv[e+1] - t) · (P[e-p+1] - P[e-p])
func assemble(p int, kv knots.Vector, rows []constraint) (*mat.Dense, []nurbs.WeightedPoint, error) {
	n := len(kv) - p - 1
	if len(rows) != n {
		tracer().Errorf("%d constraints for %d control points", len(rows), n)
		return nil, nil, fmt.Errorf("%w: %d constraints for %d control points",
			nurbs.ErrSingularSystem, len(rows), n)
	}
	A := mat.NewDense(n, n, nil)
	rhs := make([]nurbs.WeightedPoint, n)
	for r, c := range rows {
		switch c.kind {
		case pointRow:
			span := knots.FindSpan(p, kv, n, c.t)
			for j, b := range knots.BasisFuncs(p, kv, span, c.t) {
				A.Set(r, span-p+j, b)
			}
		case derivRow:
			span := knots.FindSpan(p, kv, n, c.t)
			for j, b := range knots.BasisDerivatives(p, kv, span, 1, c.t)[1] {
				A.Set(r, span-p+j, b)
			}
		case leftDiffRow, rightDiffRow:
			a, e, ok := kv.Run(c.t)
			if !ok || e-a+1 < p {
				return nil, nil, fmt.Errorf("%w: no knot of multiplicity %d at t=%g",
					nurbs.ErrSingularSystem, p, c.t)
			}
			if c.kind == leftDiffRow {
				f := float64(p) / (c.t - kv[a-1])
				A.Set(r, a-1, f)
				A.Set(r, a-2, -f)
			} else {
				f := float64(p) / (kv[e+1] - c.t)
				A.Set(r, e-p+1, f)
				A.Set(r, e-p, -f)
			}
		}
		rhs[r] = c.rhs
	}
	return A, rhs, nil
}

// solve assembles and solves a collocation system.
func solve(p int, kv knots.Vector, rows []constraint) ([]nurbs.WeightedPoint, error) {
	A, rhs, err := assemble(p, kv, rows)
	if err != nil {
		return nil, err
	}
	tracer().Debugf("solving %dx%d collocation system, degree %d", len(rows), len(rows), p)
	return lineq.SolvePoints(A, rhs)
}

// pointMatrix builds the collocation matrix for point constraints only.
func pointMatrix(p int, kv knots.Vector, params []float64) (*mat.Dense, error) {
	rows := make([]constraint, len(params))
	for i, t := range params {
		rows[i] = constraint{kind: pointRow, t: t}
	}
	A, _, err := assemble(p, kv, rows)
	return A, err
}
