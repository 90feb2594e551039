package interp

import (
	"fmt"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/knots"
	"github.com/npillmayer/nurbs/lineq"
	"github.com/ungerik/go3d/float64/vec3"
)

// SurfaceResult is an interpolating tensor-product surface. Control points
// are indexed [row][col]; columns run in u-direction, rows in v-direction.
type SurfaceResult struct {
	DegreeU, DegreeV int
	ParamsU, ParamsV []float64
	KnotsU, KnotsV   knots.Vector
	Controls         [][]nurbs.WeightedPoint
}

// InterpolateSurface finds a surface through a rectangular grid of points,
// indexed [row][col]. Rows are interpolated first (u-direction), then the
// columns of the intermediate control points (v-direction). Parameters are
// averaged over all rows (columns), so every row (column) shares a single
// knot vector and a single collocation matrix.
func InterpolateSurface(degU, degV int, grid [][]vec3.T, method nurbs.Parameterization) (*SurfaceResult, error) {
	nrows := len(grid)
	if nrows < 2 || len(grid[0]) < 2 {
		return nil, fmt.Errorf("%w: surface needs at least 2x2 points", nurbs.ErrTooFewPoles)
	}
	ncols := len(grid[0])
	for j, row := range grid {
		if len(row) != ncols {
			return nil, fmt.Errorf("%w: row %d has %d points, expected %d",
				nurbs.ErrDegenerateInput, j, len(row), ncols)
		}
		for i, pt := range row {
			if !nurbs.IsFiniteVec(pt) {
				return nil, fmt.Errorf("%w: grid point (%d,%d)", nurbs.ErrInvalidPoint, j, i)
			}
		}
	}
	sr := &SurfaceResult{
		DegreeU: EffectiveDegree(degU, ncols),
		DegreeV: EffectiveDegree(degV, nrows),
	}
	var err error
	if sr.ParamsU, err = averageParams(grid, method); err != nil {
		return nil, err
	}
	if sr.ParamsV, err = averageParams(transpose(grid), method); err != nil {
		return nil, err
	}
	if sr.KnotsU, err = knots.DeBoorKnots(sr.DegreeU, sr.ParamsU); err != nil {
		return nil, err
	}
	if sr.KnotsV, err = knots.DeBoorKnots(sr.DegreeV, sr.ParamsV); err != nil {
		return nil, err
	}
	// u-direction
	A, err := pointMatrix(sr.DegreeU, sr.KnotsU, sr.ParamsU)
	if err != nil {
		return nil, err
	}
	lu, err := lineq.Decompose(A)
	if err != nil {
		return nil, err
	}
	inter := make([][]nurbs.WeightedPoint, nrows)
	for j, row := range grid {
		if inter[j], err = lu.SolvePoints(nurbs.Homogenize(row, nil)); err != nil {
			return nil, err
		}
	}
	// v-direction
	if A, err = pointMatrix(sr.DegreeV, sr.KnotsV, sr.ParamsV); err != nil {
		return nil, err
	}
	if lu, err = lineq.Decompose(A); err != nil {
		return nil, err
	}
	sr.Controls = make([][]nurbs.WeightedPoint, nrows)
	for j := range sr.Controls {
		sr.Controls[j] = make([]nurbs.WeightedPoint, ncols)
	}
	col := make([]nurbs.WeightedPoint, nrows)
	for i := 0; i < ncols; i++ {
		for j := 0; j < nrows; j++ {
			col[j] = inter[j][i]
		}
		sol, err := lu.SolvePoints(col)
		if err != nil {
			return nil, err
		}
		for j := 0; j < nrows; j++ {
			sr.Controls[j][i] = sol[j]
		}
	}
	tracer().P("surface", fmt.Sprintf("%dx%d", nrows, ncols)).Debugf("degrees %d/%d",
		sr.DegreeU, sr.DegreeV)
	return sr, nil
}

// averageParams parameterizes every row of grid and averages the results.
func averageParams(grid [][]vec3.T, method nurbs.Parameterization) ([]float64, error) {
	avg := make([]float64, len(grid[0]))
	for j, row := range grid {
		params, err := Parameterize(row, method)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", j, err)
		}
		for i, t := range params {
			avg[i] += t
		}
	}
	for i := range avg {
		avg[i] /= float64(len(grid))
	}
	avg[0], avg[len(avg)-1] = 0, 1
	return avg, nil
}

func transpose(grid [][]vec3.T) [][]vec3.T {
	tr := make([][]vec3.T, len(grid[0]))
	for i := range tr {
		tr[i] = make([]vec3.T, len(grid))
		for j := range grid {
			tr[i][j] = grid[j][i]
		}
	}
	return tr
}
