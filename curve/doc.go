/*
Package curve provides editable curves and queries on parametric curves.

The central type is Curve, a NURBS curve interpolating a sequence of poles.
Poles may carry tangent constraints and may be marked as knuckles (corners
with positional continuity only). Clients edit the pole sequence and query
the resulting curve:

	c := curve.New(3)
	c.Add(nurbs.V(0, 0, 0))
	c.Add(nurbs.V(1, 2, 0))
	c.Add(nurbs.V(3, 3, 0))
	c.Add(nurbs.V(4, 1, 0))
	c.AddTangent(0, nurbs.V(0, 1, 0))
	pt, err := c.PointAt(0.5)

Every edit marks the curve as stale. Knots and control points are
re-calculated by EnsureFresh, which every query calls first. EnsureFresh
reports interpolation failures (degenerate poles, singular systems) as
errors; queries pass them on to the caller.

Besides Curve there are primitives built in closed form: Line, Bezier,
BSpline (defined by control points instead of poles), Arc and Circle. All of
them implement Parametric, the interface the query functions PointAt,
Derivatives, Points, ClosestPosition, ClosestPoint and Interrogate operate on.

All curves are parameterized over [0,1]. Curves are not safe for concurrent
modification.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package curve

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'nurbs'
func tracer() tracing.Trace {
	return tracing.Select("nurbs")
}
