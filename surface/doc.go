/*
Package surface implements editable tensor-product NURBS surfaces
interpolating a rectangular grid of poles.

Poles are indexed [row][col]. Columns run in u-direction, rows in
v-direction; both parameters range over [0,1]. Interpolation is done the
way curves are interpolated: first along every row, then along every column
of the intermediate result (see interp.InterpolateSurface).

	s := surface.New(3, 3)
	err := s.SetGrid(grid)
	pt, err := s.PointAt(0.5, 0.5)

As with curves, edits mark a surface as stale and queries re-interpolate on
demand. Surfaces are not safe for concurrent modification.

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package surface

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'nurbs'
func tracer() tracing.Trace {
	return tracing.Select("nurbs")
}
