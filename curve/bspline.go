package curve

import (
	"fmt"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/evaluate"
	"github.com/npillmayer/nurbs/interp"
	"github.com/npillmayer/nurbs/knots"
	"github.com/ungerik/go3d/float64/vec3"
)

// BSpline is a polynomial B-spline curve defined by its control points.
// Knots are averages of the chordal parameters of the control points
// (see knots.DeBoorKnots). Knot insertion adds control points, which are
// kept through subsequent edits.
type BSpline struct {
	ctrl   []vec3.T     // control points
	degree int          // requested degree
	deg    int          // degree in effect, valid if !dirty
	kv     knots.Vector // knot vector, valid if !dirty
	params []float64    // chordal parameters of ctrl, valid if !dirty
	dirty  bool
}

var _ Parametric = (*BSpline)(nil)

// NewBSpline creates an empty B-spline curve of the requested degree. The
// degree in effect is min(degree, n-1) for n control points.
func NewBSpline(degree int) *BSpline {
	return &BSpline{degree: degree, dirty: true}
}

// Line is a polyline through its poles, i.e. a B-spline curve of degree 1.
// Its knots are the chordal parameters of the poles.
type Line struct {
	BSpline
}

// NewLine creates an empty polyline.
func NewLine() *Line {
	return &Line{BSpline: BSpline{degree: 1, dirty: true}}
}

func (bs *BSpline) checkIndex(i int) error {
	if i < 0 || i >= len(bs.ctrl) {
		return fmt.Errorf("%w: %d not in [0,%d)", nurbs.ErrIndexOutOfRange, i, len(bs.ctrl))
	}
	return nil
}

// Add appends a control point and returns its index.
func (bs *BSpline) Add(p vec3.T) int {
	bs.ctrl = append(bs.ctrl, p)
	bs.dirty = true
	return len(bs.ctrl) - 1
}

// Remove deletes control point i and returns it.
func (bs *BSpline) Remove(i int) (vec3.T, error) {
	if err := bs.checkIndex(i); err != nil {
		return vec3.T{}, err
	}
	p := bs.ctrl[i]
	bs.ctrl = append(bs.ctrl[:i], bs.ctrl[i+1:]...)
	bs.dirty = true
	return p, nil
}

// Mod moves control point i to p.
func (bs *BSpline) Mod(i int, p vec3.T) error {
	if err := bs.checkIndex(i); err != nil {
		return err
	}
	bs.ctrl[i] = p
	bs.dirty = true
	return nil
}

// Insert inserts a control point at index i. i may be Len(), which appends p.
func (bs *BSpline) Insert(i int, p vec3.T) error {
	if i == len(bs.ctrl) {
		bs.Add(p)
		return nil
	}
	if err := bs.checkIndex(i); err != nil {
		return err
	}
	bs.ctrl = append(bs.ctrl, vec3.T{})
	copy(bs.ctrl[i+1:], bs.ctrl[i:])
	bs.ctrl[i] = p
	bs.dirty = true
	return nil
}

// EnsureFresh re-calculates the knot vector, if the control points changed.
func (bs *BSpline) EnsureFresh() error {
	if !bs.dirty {
		return nil
	}
	if len(bs.ctrl) < 2 {
		return fmt.Errorf("%w: B-spline has %d control points", nurbs.ErrTooFewPoles, len(bs.ctrl))
	}
	for i, p := range bs.ctrl {
		if !nurbs.IsFiniteVec(p) {
			return fmt.Errorf("%w: control point %d", nurbs.ErrInvalidPoint, i)
		}
	}
	params, err := interp.Parameterize(bs.ctrl, nurbs.Chordal)
	if err != nil {
		return err
	}
	deg := interp.EffectiveDegree(bs.degree, len(bs.ctrl))
	kv, err := knots.DeBoorKnots(deg, params)
	if err != nil {
		return err
	}
	bs.params, bs.kv, bs.deg, bs.dirty = params, kv, deg, false
	return nil
}

// Evaluate returns C(t) of a fresh curve.
func (bs *BSpline) Evaluate(t float64) vec3.T {
	return evaluate.CurvePoint(bs.deg, bs.kv, bs.ctrl, t)
}

// EvaluateDerivatives returns C(t), C'(t), …, up to order of a fresh curve.
func (bs *BSpline) EvaluateDerivatives(t float64, order int) []vec3.T {
	return evaluate.CurveDerivatives(bs.deg, bs.kv, bs.ctrl, t, order)
}

// InsertKnotAt inserts knot t, adding a control point without changing the
// shape of the curve. Inserting at either end, or at a knot which already
// has multiplicity degree, is a no-op.
func (bs *BSpline) InsertKnotAt(t float64) error {
	return bs.RefineKnots([]float64{t})
}

// RefineKnots inserts all knots of ts (Boehm refinement). Knots at either
// end and knots of full multiplicity are skipped.
func (bs *BSpline) RefineKnots(ts []float64) error {
	inner := make([]float64, 0, len(ts))
	for _, t := range ts {
		if err := checkParameter(t); err != nil {
			return err
		}
		if t > 0 && t < 1 {
			inner = append(inner, t)
		}
	}
	if len(inner) == 0 {
		return nil
	}
	if err := bs.EnsureFresh(); err != nil {
		return err
	}
	kv, ctrl, err := knots.RefineKnots(bs.deg, bs.kv, bs.ctrl, inner, knots.BlendVec)
	if err != nil {
		tracer().Errorf("B-spline knot refinement: %v", err)
		return err
	}
	bs.kv, bs.ctrl = kv, ctrl
	tracer().Debugf("B-spline refined by %d knots, %d control points", len(inner), len(ctrl))
	return nil
}

// Breaks returns the parameters of the corners of a fresh curve.
func (bs *BSpline) Breaks() []float64 {
	return bs.kv.Breaks(bs.deg)
}

// Len returns the number of control points.
func (bs *BSpline) Len() int {
	return len(bs.ctrl)
}

// Degree returns the degree in effect. Knot insertion does not change the
// degree of a curve, even if the control points added would allow for a
// higher one. The next edit of the control points resets it.
func (bs *BSpline) Degree() int {
	if !bs.dirty {
		return bs.deg
	}
	return interp.EffectiveDegree(bs.degree, len(bs.ctrl))
}

// ControlPoints returns a copy of the control points.
func (bs *BSpline) ControlPoints() []vec3.T {
	ctrl := make([]vec3.T, len(bs.ctrl))
	copy(ctrl, bs.ctrl)
	return ctrl
}

// Knots returns the knot vector.
func (bs *BSpline) Knots() (knots.Vector, error) {
	if err := bs.EnsureFresh(); err != nil {
		return nil, err
	}
	return bs.kv.Clone(), nil
}

// Parameters returns the chordal parameters of the control points, as used
// for the knot vector. After knot insertion the parameters are those of the
// control points before refinement.
func (bs *BSpline) Parameters() ([]float64, error) {
	if err := bs.EnsureFresh(); err != nil {
		return nil, err
	}
	params := make([]float64, len(bs.params))
	copy(params, bs.params)
	return params, nil
}

// DesignPoints returns the curve points at the Greville abscissae, i.e. the
// points of the curve "belonging" to the control points.
func (bs *BSpline) DesignPoints() ([]vec3.T, error) {
	if err := bs.EnsureFresh(); err != nil {
		return nil, err
	}
	g := knots.Greville(bs.deg, bs.kv)
	pts := make([]vec3.T, len(g))
	for i, t := range g {
		pts[i] = bs.Evaluate(t)
	}
	return pts, nil
}

// DesignPoints returns the poles of the line.
func (l *Line) DesignPoints() []vec3.T {
	return l.ControlPoints()
}
