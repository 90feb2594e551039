package curve

import (
	"fmt"
	"iter"
	"math"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/interp"
	"github.com/npillmayer/nurbs/knots"
	"github.com/ungerik/go3d/float64/vec3"
)

// Curve is an editable NURBS curve interpolating a sequence of poles.
// Create one with New and add poles; knots and control points are
// calculated on demand.
type Curve struct {
	poles  []interp.Pole  // design points with constraints
	degree int            // requested degree
	conf   nurbs.Config   // parameterization and query tunables
	dirty  bool           // poles changed since last interpolation?
	result *interp.Result // last interpolation, nil if none
}

var _ Parametric = (*Curve)(nil)

// New creates an empty curve of the requested degree. The degree in effect
// is min(degree, n-1) for n poles.
func New(degree int) *Curve {
	return &Curve{
		degree: degree,
		conf:   nurbs.DefaultConfig(),
		dirty:  true,
	}
}

// Through creates a curve of the requested degree through points.
func Through(degree int, points ...vec3.T) *Curve {
	c := New(degree)
	for _, p := range points {
		c.Add(p)
	}
	return c
}

// Configure sets the parameterization method and query tunables.
func (c *Curve) Configure(conf nurbs.Config) *Curve {
	c.conf = conf
	c.touch()
	return c
}

// Config returns the configuration in effect.
func (c *Curve) Config() nurbs.Config {
	return c.conf
}

func (c *Curve) touch() {
	c.dirty = true
}

func (c *Curve) checkIndex(i int) error {
	if i < 0 || i >= len(c.poles) {
		tracer().P("pole", i).Errorf("index out of range, curve has %d poles", len(c.poles))
		return fmt.Errorf("%w: %d not in [0,%d)", nurbs.ErrIndexOutOfRange, i, len(c.poles))
	}
	return nil
}

// --- Editing ---------------------------------------------------------------

// Add appends a pole and returns its index.
func (c *Curve) Add(p vec3.T) int {
	c.poles = append(c.poles, interp.P(p))
	c.touch()
	return len(c.poles) - 1
}

// Remove deletes pole i and returns it.
func (c *Curve) Remove(i int) (interp.Pole, error) {
	if err := c.checkIndex(i); err != nil {
		return interp.Pole{}, err
	}
	pole := c.poles[i]
	c.poles = append(c.poles[:i], c.poles[i+1:]...)
	c.touch()
	return pole, nil
}

// Mod moves pole i to p. Constraints of the pole are kept.
func (c *Curve) Mod(i int, p vec3.T) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	c.poles[i].Point = p
	c.touch()
	return nil
}

// Insert inserts a pole at index i, shifting poles i… by one. i may be
// Len(), which appends p.
func (c *Curve) Insert(i int, p vec3.T) error {
	if i == len(c.poles) {
		c.Add(p)
		return nil
	}
	if err := c.checkIndex(i); err != nil {
		return err
	}
	c.poles = append(c.poles, interp.Pole{})
	copy(c.poles[i+1:], c.poles[i:])
	c.poles[i] = interp.P(p)
	c.touch()
	return nil
}

// chordScaled normalizes dir and scales it to the chord length of the
// pole sequence, or to unit length if the poles have no extent yet.
func (c *Curve) chordScaled(dir vec3.T) vec3.T {
	l := interp.ChordLength(c.DesignPoints())
	if l <= nurbs.Epsilon {
		l = 1
	}
	u := nurbs.Unit(dir)
	return u.Scaled(l)
}

// AddTangent constrains the tangent at pole i to direction dir. The
// magnitude of the derivative is the chord length of the current pole
// sequence. At a knuckle the tangent constrains the outgoing side.
func (c *Curve) AddTangent(i int, dir vec3.T) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	if !nurbs.IsFiniteVec(dir) {
		return fmt.Errorf("%w: tangent at pole %d", nurbs.ErrInvalidPoint, i)
	}
	if nurbs.IsZeroVec(dir) {
		return fmt.Errorf("%w: zero tangent at pole %d", nurbs.ErrDegenerateInput, i)
	}
	c.poles[i] = c.poles[i].WithSlope(c.chordScaled(dir))
	c.touch()
	return nil
}

// RemoveTangent drops the tangent constraint of pole i, if any.
func (c *Curve) RemoveTangent(i int) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	c.poles[i].Slope, c.poles[i].HasSlope = vec3.T{}, false
	c.touch()
	return nil
}

// AddKnuckle marks pole i as a corner. A non-zero dir is the tangent of the
// curve arriving at the corner, scaled like a tangent (see AddTangent); a
// zero dir marks the corner only.
func (c *Curve) AddKnuckle(i int, dir vec3.T) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	if !nurbs.IsFiniteVec(dir) {
		return fmt.Errorf("%w: knuckle at pole %d", nurbs.ErrInvalidPoint, i)
	}
	if !nurbs.IsZeroVec(dir) {
		dir = c.chordScaled(dir)
	}
	c.poles[i] = c.poles[i].WithKnuckle(dir)
	c.touch()
	return nil
}

// RemoveKnuckle drops the corner mark of pole i, if any.
func (c *Curve) RemoveKnuckle(i int) error {
	if err := c.checkIndex(i); err != nil {
		return err
	}
	c.poles[i].Knuckle, c.poles[i].KnuckleDir = false, vec3.T{}
	c.touch()
	return nil
}

// Transform applies an affine transformation to all poles. Tangents and
// knuckle directions are transformed by the linear part of at.
func (c *Curve) Transform(at nurbs.AT) {
	for i := range c.poles {
		c.poles[i].Point = at.Transform(c.poles[i].Point)
		if c.poles[i].HasSlope {
			c.poles[i].Slope = at.TransformDir(c.poles[i].Slope)
		}
		if c.poles[i].Knuckle {
			c.poles[i].KnuckleDir = at.TransformDir(c.poles[i].KnuckleDir)
		}
	}
	c.touch()
}

// InsertKnotAt refines the current curve by inserting knot t, adding a
// control point without changing the shape. Inserting at either end, or at
// a knot which already has multiplicity degree, is a no-op. The refinement
// lasts until the next edit of the poles.
func (c *Curve) InsertKnotAt(t float64) error {
	if err := checkParameter(t); err != nil {
		return err
	}
	if t == 0 || t == 1 {
		return nil
	}
	if err := c.EnsureFresh(); err != nil {
		return err
	}
	r := c.result
	if r.Knots.Multiplicity(t) >= r.Degree {
		tracer().P("t", t).Debugf("knot has full multiplicity, insertion skipped")
		return nil
	}
	kv, ctrl, err := knots.InsertKnot(r.Degree, r.Knots, r.Controls, t, knots.BlendWeighted)
	if err != nil {
		tracer().P("t", t).Errorf("knot insertion: %v", err)
		return err
	}
	c.result = &interp.Result{Degree: r.Degree, Params: r.Params, Knots: kv, Controls: ctrl}
	tracer().P("t", t).Debugf("inserted knot, %d control points", len(ctrl))
	return nil
}

// InsertPointAt inserts the curve point C(t) as a new pole between the
// neighbouring poles and returns its index. t has to lie strictly between
// the parameters of the first and the last pole.
func (c *Curve) InsertPointAt(t float64) (int, error) {
	if err := checkParameter(t); err != nil {
		return -1, err
	}
	if err := c.EnsureFresh(); err != nil {
		return -1, err
	}
	if t <= 0 || t >= 1 {
		return -1, fmt.Errorf("%w: cannot insert a pole at curve end t=%g", nurbs.ErrParameterOutOfRange, t)
	}
	i := c.poleIndexAfter(t)
	p := c.Evaluate(t)
	if nurbs.Distance(p, c.poles[i-1].Point) <= nurbs.Epsilon ||
		nurbs.Distance(p, c.poles[i].Point) <= nurbs.Epsilon {
		return -1, fmt.Errorf("%w: C(%g) coincides with a pole", nurbs.ErrDegenerateInput, t)
	}
	if err := c.Insert(i, p); err != nil {
		return -1, err
	}
	return i, nil
}

// InsertClosestPoint inserts p as a new pole, positioned in the pole
// sequence by the parameter of the curve point closest to p. It returns the
// index of the new pole.
func (c *Curve) InsertClosestPoint(p vec3.T) (int, error) {
	proj, err := ClosestPosition(c, p, c.conf)
	if err != nil {
		return -1, err
	}
	var i int
	switch {
	case proj.T <= 0:
		i = 0
	case proj.T >= 1:
		i = len(c.poles)
	default:
		i = c.poleIndexAfter(proj.T)
	}
	for _, j := range []int{i - 1, i} {
		if j >= 0 && j < len(c.poles) && nurbs.Distance(p, c.poles[j].Point) <= nurbs.Epsilon {
			return -1, fmt.Errorf("%w: point coincides with pole %d", nurbs.ErrDegenerateInput, j)
		}
	}
	if err := c.Insert(i, p); err != nil {
		return -1, err
	}
	return i, nil
}

// poleIndexAfter returns the index of the first pole with a parameter
// greater than t. Requires a fresh curve and 0 < t < 1.
func (c *Curve) poleIndexAfter(t float64) int {
	for i, u := range c.result.Params {
		if u > t {
			return i
		}
	}
	return len(c.poles) - 1
}

// --- Evaluation ------------------------------------------------------------

// EnsureFresh interpolates the poles, if they changed since the last call.
// A failing interpolation leaves the curve stale, with the error returned by
// every subsequent query until the poles are fixed.
func (c *Curve) EnsureFresh() error {
	if !c.dirty && c.result != nil {
		return nil
	}
	if len(c.poles) < 2 {
		return fmt.Errorf("%w: curve has %d", nurbs.ErrTooFewPoles, len(c.poles))
	}
	tracer().P("curve", fmt.Sprintf("%p", c)).Infof("re-calculate %d poles, degree %d",
		len(c.poles), c.Degree())
	r, err := interp.Interpolate(c.degree, c.poles, c.conf.Parameterization)
	if err != nil {
		c.result = nil
		return err
	}
	c.result, c.dirty = r, false
	return nil
}

// Evaluate returns C(t) of a fresh curve. For a curve without a valid
// interpolation the result is NaN.
func (c *Curve) Evaluate(t float64) vec3.T {
	if c.result == nil {
		return vec3.T{math.NaN(), math.NaN(), math.NaN()}
	}
	return c.result.Point(t)
}

// Breaks returns the parameters of the corners of a fresh curve: the
// junctions at knuckles and knots refined to full multiplicity.
func (c *Curve) Breaks() []float64 {
	if c.result == nil {
		return nil
	}
	return c.result.Knots.Breaks(c.result.Degree)
}

// EvaluateDerivatives returns C(t), C'(t), …, up to order of a fresh
// curve. For a curve without a valid interpolation the result is NaN.
func (c *Curve) EvaluateDerivatives(t float64, order int) []vec3.T {
	if c.result == nil {
		ders := make([]vec3.T, order+1)
		for k := range ders {
			ders[k] = vec3.T{math.NaN(), math.NaN(), math.NaN()}
		}
		return ders
	}
	return c.result.Derivatives(t, order)
}

// PointAt returns C(t). See package function PointAt.
func (c *Curve) PointAt(t float64) (vec3.T, error) {
	return PointAt(c, t)
}

// Derivatives returns C(t), C'(t), …, up to order.
func (c *Curve) Derivatives(t float64, order int) ([]vec3.T, error) {
	return Derivatives(c, t, order)
}

// Points samples the curve at n uniform parameters.
func (c *Curve) Points(n int) ([]vec3.T, error) {
	seq, err := Points(c, n)
	if err != nil {
		return nil, err
	}
	pts := make([]vec3.T, 0, n)
	for p := range seq {
		pts = append(pts, p)
	}
	return pts, nil
}

// ClosestPosition finds the curve point closest to p, using the curve's
// configuration.
func (c *Curve) ClosestPosition(p vec3.T) (Projection, error) {
	return ClosestPosition(c, p, c.conf)
}

// ClosestPoint returns the curve point closest to p.
func (c *Curve) ClosestPoint(p vec3.T) (vec3.T, error) {
	return ClosestPoint(c, p, c.conf)
}

// Interrogate samples Frenet frames and curvature at n uniform parameters.
func (c *Curve) Interrogate(n int) (iter.Seq[Frame], error) {
	return Interrogate(c, n)
}

// --- Getters ---------------------------------------------------------------

// Len returns the number of poles.
func (c *Curve) Len() int {
	return len(c.poles)
}

// Degree returns the degree in effect, min(requested, Len()-1).
func (c *Curve) Degree() int {
	return interp.EffectiveDegree(c.degree, len(c.poles))
}

// Poles returns a copy of the poles, including their constraints.
func (c *Curve) Poles() []interp.Pole {
	poles := make([]interp.Pole, len(c.poles))
	copy(poles, c.poles)
	return poles
}

// DesignPoints returns the positions of the poles.
func (c *Curve) DesignPoints() []vec3.T {
	pts := make([]vec3.T, len(c.poles))
	for i, pole := range c.poles {
		pts[i] = pole.Point
	}
	return pts
}

// WeightedControlPoints returns the control points in homogeneous
// coordinates.
func (c *Curve) WeightedControlPoints() ([]nurbs.WeightedPoint, error) {
	if err := c.EnsureFresh(); err != nil {
		return nil, err
	}
	ctrl := make([]nurbs.WeightedPoint, len(c.result.Controls))
	copy(ctrl, c.result.Controls)
	return ctrl, nil
}

// ControlPoints returns the de-weighted control points.
func (c *Curve) ControlPoints() ([]vec3.T, error) {
	if err := c.EnsureFresh(); err != nil {
		return nil, err
	}
	return nurbs.Dehomogenize(c.result.Controls), nil
}

// Knots returns the knot vector.
func (c *Curve) Knots() (knots.Vector, error) {
	if err := c.EnsureFresh(); err != nil {
		return nil, err
	}
	return c.result.Knots.Clone(), nil
}

// Parameters returns the parameter of every pole.
func (c *Curve) Parameters() ([]float64, error) {
	if err := c.EnsureFresh(); err != nil {
		return nil, err
	}
	params := make([]float64, len(c.result.Params))
	copy(params, c.result.Params)
	return params, nil
}
