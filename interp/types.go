package interp

import (
	"fmt"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/evaluate"
	"github.com/npillmayer/nurbs/knots"
	"github.com/npillmayer/schuko/tracing"
	"github.com/ungerik/go3d/float64/vec3"
)

// tracer writes to trace with key 'nurbs'
func tracer() tracing.Trace {
	return tracing.Select("nurbs")
}

// Pole is a design point for interpolation, optionally constrained by a
// tangent or marked as a corner.
//
// The magnitude of Slope is the derivative the curve should have at the pole,
// relative to the chord length of the whole pole sequence. KnuckleDir, if
// non-zero, is the tangent of the curve arriving at a knuckle; the tangent
// leaving it is given by Slope.
type Pole struct {
	Point      vec3.T // design point
	Slope      vec3.T // tangent constraint, valid if HasSlope
	HasSlope   bool   // is there a tangent constraint?
	Knuckle    bool   // is this a C0 corner?
	KnuckleDir vec3.T // optional incoming tangent at a knuckle
}

// P creates an unconstrained pole.
func P(pt vec3.T) Pole {
	return Pole{Point: pt}
}

// WithSlope returns a copy of pole constrained by tangent slope.
func (pole Pole) WithSlope(slope vec3.T) Pole {
	pole.Slope = slope
	pole.HasSlope = true
	return pole
}

// WithKnuckle returns a copy of pole marked as a knuckle. dir is the
// incoming tangent and may be the zero vector.
func (pole Pole) WithKnuckle(dir vec3.T) Pole {
	pole.Knuckle = true
	pole.KnuckleDir = dir
	return pole
}

// HasKnuckleDir is a predicate: is pole a knuckle with an incoming tangent?
func (pole Pole) HasKnuckleDir() bool {
	return pole.Knuckle && !nurbs.IsZeroVec(pole.KnuckleDir)
}

// Result is an interpolating curve: a clamped knot vector and weighted
// control points (all weights are 1), together with the parameter values
// assigned to the poles.
type Result struct {
	Degree   int                   // effective degree
	Params   []float64             // parameter of pole i
	Knots    knots.Vector          // clamped knot vector
	Controls []nurbs.WeightedPoint // control points
}

// Point evaluates the interpolating curve at t.
func (r *Result) Point(t float64) vec3.T {
	return evaluate.RationalCurvePoint(r.Degree, r.Knots, r.Controls, t)
}

// Derivatives evaluates the interpolating curve and its derivatives at t.
func (r *Result) Derivatives(t float64, order int) []vec3.T {
	return evaluate.RationalCurveDerivatives(r.Degree, r.Knots, r.Controls, t, order)
}

// Validate checks if poles are suitable for interpolation.
func Validate(poles []Pole) error {
	if len(poles) < 2 {
		return fmt.Errorf("%w: need at least 2, have %d", nurbs.ErrTooFewPoles, len(poles))
	}
	for i, pole := range poles {
		if !nurbs.IsFiniteVec(pole.Point) {
			return fmt.Errorf("%w: pole %d", nurbs.ErrInvalidPoint, i)
		}
		if pole.HasSlope && !nurbs.IsFiniteVec(pole.Slope) {
			return fmt.Errorf("%w: slope at pole %d", nurbs.ErrInvalidPoint, i)
		}
		if pole.Knuckle && !nurbs.IsFiniteVec(pole.KnuckleDir) {
			return fmt.Errorf("%w: knuckle at pole %d", nurbs.ErrInvalidPoint, i)
		}
	}
	return nil
}

// EffectiveDegree returns the degree of a curve interpolating n poles, if
// the client requested degree.
func EffectiveDegree(degree, n int) int {
	return max(1, min(degree, n-1))
}

func points(poles []Pole) []vec3.T {
	pts := make([]vec3.T, len(poles))
	for i, pole := range poles {
		pts[i] = pole.Point
	}
	return pts
}
