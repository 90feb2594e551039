package surface

import (
	"fmt"
	"iter"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/evaluate"
	"github.com/npillmayer/nurbs/interp"
	"github.com/npillmayer/nurbs/knots"
	"github.com/ungerik/go3d/float64/vec3"
)

// Surface is an editable NURBS surface interpolating a grid of poles.
type Surface struct {
	grid       [][]vec3.T // poles [row][col]
	degU, degV int        // requested degrees
	conf       nurbs.Config
	dirty      bool
	result     *interp.SurfaceResult
}

// GridPoint is a sample of a surface, see Points.
type GridPoint struct {
	Row, Col int     // index of the sample
	U, V     float64 // parameters of the sample
	Point    vec3.T
}

// New creates an empty surface of the requested degrees. The degrees in
// effect are clamped to the number of columns (rows) minus one.
func New(degU, degV int) *Surface {
	return &Surface{
		degU:  degU,
		degV:  degV,
		conf:  nurbs.DefaultConfig(),
		dirty: true,
	}
}

// Configure sets the parameterization method of the surface.
func (s *Surface) Configure(conf nurbs.Config) *Surface {
	s.conf = conf
	s.dirty = true
	return s
}

// Rows returns the number of rows of poles.
func (s *Surface) Rows() int {
	return len(s.grid)
}

// Cols returns the number of columns of poles, 0 for an empty surface.
func (s *Surface) Cols() int {
	if len(s.grid) == 0 {
		return 0
	}
	return len(s.grid[0])
}

func (s *Surface) checkIndex(row, col int) error {
	if row < 0 || row >= s.Rows() || col < 0 || col >= s.Cols() {
		tracer().P("pole", fmt.Sprintf("%d/%d", row, col)).Errorf("index out of range")
		return fmt.Errorf("%w: (%d,%d) not in %dx%d grid", nurbs.ErrIndexOutOfRange,
			row, col, s.Rows(), s.Cols())
	}
	return nil
}

// --- Editing ---------------------------------------------------------------

// SetGrid replaces all poles by a copy of grid. grid has to be rectangular.
func (s *Surface) SetGrid(grid [][]vec3.T) error {
	if len(grid) > 0 {
		for j, row := range grid {
			if len(row) != len(grid[0]) {
				return fmt.Errorf("%w: row %d has %d poles, expected %d",
					nurbs.ErrDegenerateInput, j, len(row), len(grid[0]))
			}
		}
	}
	s.grid = make([][]vec3.T, len(grid))
	for j, row := range grid {
		s.grid[j] = append([]vec3.T(nil), row...)
	}
	s.dirty = true
	return nil
}

// Pole returns the pole at (row, col).
func (s *Surface) Pole(row, col int) (vec3.T, error) {
	if err := s.checkIndex(row, col); err != nil {
		return vec3.T{}, err
	}
	return s.grid[row][col], nil
}

// Mod moves the pole at (row, col) to p.
func (s *Surface) Mod(row, col int, p vec3.T) error {
	if err := s.checkIndex(row, col); err != nil {
		return err
	}
	s.grid[row][col] = p
	s.dirty = true
	return nil
}

// AddRow appends a row of poles and returns its index. The first row
// determines the number of columns.
func (s *Surface) AddRow(poles []vec3.T) (int, error) {
	if len(s.grid) > 0 && len(poles) != s.Cols() {
		return -1, fmt.Errorf("%w: row has %d poles, expected %d",
			nurbs.ErrDegenerateInput, len(poles), s.Cols())
	}
	s.grid = append(s.grid, append([]vec3.T(nil), poles...))
	s.dirty = true
	return len(s.grid) - 1, nil
}

// RemoveRow deletes row j and returns its poles.
func (s *Surface) RemoveRow(j int) ([]vec3.T, error) {
	if j < 0 || j >= s.Rows() {
		return nil, fmt.Errorf("%w: row %d not in [0,%d)", nurbs.ErrIndexOutOfRange, j, s.Rows())
	}
	row := s.grid[j]
	s.grid = append(s.grid[:j], s.grid[j+1:]...)
	s.dirty = true
	return row, nil
}

// AddColumn appends a column of poles, one per row, and returns its index.
func (s *Surface) AddColumn(poles []vec3.T) (int, error) {
	if len(poles) != s.Rows() {
		return -1, fmt.Errorf("%w: column has %d poles, expected %d",
			nurbs.ErrDegenerateInput, len(poles), s.Rows())
	}
	for j := range s.grid {
		s.grid[j] = append(s.grid[j], poles[j])
	}
	s.dirty = true
	return s.Cols() - 1, nil
}

// RemoveColumn deletes column i and returns its poles.
func (s *Surface) RemoveColumn(i int) ([]vec3.T, error) {
	if i < 0 || i >= s.Cols() {
		return nil, fmt.Errorf("%w: column %d not in [0,%d)", nurbs.ErrIndexOutOfRange, i, s.Cols())
	}
	col := make([]vec3.T, s.Rows())
	for j, row := range s.grid {
		col[j] = row[i]
		s.grid[j] = append(row[:i], row[i+1:]...)
	}
	s.dirty = true
	return col, nil
}

// Transform applies an affine transformation to all poles.
func (s *Surface) Transform(at nurbs.AT) {
	for _, row := range s.grid {
		for i := range row {
			row[i] = at.Transform(row[i])
		}
	}
	s.dirty = true
}

// EnsureFresh re-interpolates the surface, if the poles changed.
func (s *Surface) EnsureFresh() error {
	if !s.dirty {
		return nil
	}
	tracer().P("surface", fmt.Sprintf("%p", s)).Infof("re-calculating %dx%d surface", s.Rows(), s.Cols())
	r, err := interp.InterpolateSurface(s.degU, s.degV, s.grid, s.conf.Parameterization)
	if err != nil {
		s.result = nil
		tracer().Errorf("surface interpolation failed: %v", err)
		return err
	}
	s.result, s.dirty = r, false
	return nil
}

// --- Queries ---------------------------------------------------------------

func checkParameters(u, v float64) error {
	if !(u >= 0 && u <= 1) || !(v >= 0 && v <= 1) {
		return fmt.Errorf("%w: (%g,%g) not in [0,1]²", nurbs.ErrParameterOutOfRange, u, v)
	}
	return nil
}

func (s *Surface) evaluate(u, v float64) vec3.T {
	r := s.result
	return evaluate.RationalSurfacePoint(r.DegreeU, r.DegreeV, r.KnotsU, r.KnotsV, r.Controls, u, v)
}

// PointAt returns S(u,v).
func (s *Surface) PointAt(u, v float64) (vec3.T, error) {
	if err := checkParameters(u, v); err != nil {
		return vec3.T{}, err
	}
	if err := s.EnsureFresh(); err != nil {
		return vec3.T{}, err
	}
	return s.evaluate(u, v), nil
}

// Derivatives returns the partial derivatives of S at (u,v) up to order.
// Entry [k][l] is ∂ᵏ⁺ˡS/∂uᵏ∂vˡ, for k+l ≤ order.
func (s *Surface) Derivatives(u, v float64, order int) ([][]vec3.T, error) {
	if err := checkParameters(u, v); err != nil {
		return nil, err
	}
	if order < 0 {
		return nil, fmt.Errorf("%w: derivative order %d", nurbs.ErrParameterOutOfRange, order)
	}
	if err := s.EnsureFresh(); err != nil {
		return nil, err
	}
	r := s.result
	return evaluate.RationalSurfaceDerivatives(r.DegreeU, r.DegreeV, r.KnotsU, r.KnotsV,
		r.Controls, u, v, order), nil
}

// Normal returns the unit normal S_u × S_v at (u,v). If the partial
// derivatives are parallel, the normal is undefined and ErrDegenerateInput
// is returned.
func (s *Surface) Normal(u, v float64) (vec3.T, error) {
	ders, err := s.Derivatives(u, v, 1)
	if err != nil {
		return vec3.T{}, err
	}
	n := vec3.Cross(&ders[1][0], &ders[0][1])
	if nurbs.IsZeroVec(n) {
		return vec3.T{}, fmt.Errorf("%w: no normal at (%g,%g)", nurbs.ErrDegenerateInput, u, v)
	}
	return nurbs.Unit(n), nil
}

// Points samples the surface on a grid of nu × nv uniformly spaced
// parameters, including the borders. Samples are ordered row by row.
func (s *Surface) Points(nu, nv int) (iter.Seq[GridPoint], error) {
	if nu < 2 || nv < 2 {
		return nil, fmt.Errorf("%w: need at least 2x2 samples, have %dx%d",
			nurbs.ErrParameterOutOfRange, nu, nv)
	}
	if err := s.EnsureFresh(); err != nil {
		return nil, err
	}
	return func(yield func(GridPoint) bool) {
		for j := 0; j < nv; j++ {
			v := float64(j) / float64(nv-1)
			for i := 0; i < nu; i++ {
				u := float64(i) / float64(nu-1)
				if !yield(GridPoint{Row: j, Col: i, U: u, V: v, Point: s.evaluate(u, v)}) {
					return
				}
			}
		}
	}, nil
}

// --- Getters ---------------------------------------------------------------

// Poles returns a copy of the pole grid.
func (s *Surface) Poles() [][]vec3.T {
	grid := make([][]vec3.T, len(s.grid))
	for j, row := range s.grid {
		grid[j] = append([]vec3.T(nil), row...)
	}
	return grid
}

// Degrees returns the degrees in effect, in u- and v-direction.
func (s *Surface) Degrees() (int, int) {
	return interp.EffectiveDegree(s.degU, s.Cols()), interp.EffectiveDegree(s.degV, s.Rows())
}

// WeightedControlPoints returns the control net in homogeneous coordinates.
func (s *Surface) WeightedControlPoints() ([][]nurbs.WeightedPoint, error) {
	if err := s.EnsureFresh(); err != nil {
		return nil, err
	}
	ctrl := make([][]nurbs.WeightedPoint, len(s.result.Controls))
	for j, row := range s.result.Controls {
		ctrl[j] = append([]nurbs.WeightedPoint(nil), row...)
	}
	return ctrl, nil
}

// ControlPoints returns the de-weighted control net.
func (s *Surface) ControlPoints() ([][]vec3.T, error) {
	if err := s.EnsureFresh(); err != nil {
		return nil, err
	}
	ctrl := make([][]vec3.T, len(s.result.Controls))
	for j, row := range s.result.Controls {
		ctrl[j] = nurbs.Dehomogenize(row)
	}
	return ctrl, nil
}

// Knots returns the knot vectors in u- and v-direction.
func (s *Surface) Knots() (knots.Vector, knots.Vector, error) {
	if err := s.EnsureFresh(); err != nil {
		return nil, nil, err
	}
	return s.result.KnotsU.Clone(), s.result.KnotsV.Clone(), nil
}

// Parameters returns the parameters of the pole columns (u) and rows (v).
func (s *Surface) Parameters() ([]float64, []float64, error) {
	if err := s.EnsureFresh(); err != nil {
		return nil, nil, err
	}
	return append([]float64(nil), s.result.ParamsU...), append([]float64(nil), s.result.ParamsV...), nil
}
