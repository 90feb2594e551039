package curve

import (
	"fmt"
	"math"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/evaluate"
	"github.com/npillmayer/nurbs/knots"
	"github.com/ungerik/go3d/float64/vec3"
)

// === Bézier curves =========================================================

// Bezier is a Bézier curve of degree n-1 for n control points, evaluated
// directly by de Casteljau's algorithm.
type Bezier struct {
	ctrl []vec3.T
}

var _ Parametric = (*Bezier)(nil)

// NewBezier creates a Bézier curve from control points.
func NewBezier(ctrl ...vec3.T) *Bezier {
	bz := &Bezier{ctrl: make([]vec3.T, len(ctrl))}
	copy(bz.ctrl, ctrl)
	return bz
}

// Add appends a control point and returns its index.
func (bz *Bezier) Add(p vec3.T) int {
	bz.ctrl = append(bz.ctrl, p)
	return len(bz.ctrl) - 1
}

// Remove deletes control point i and returns it.
func (bz *Bezier) Remove(i int) (vec3.T, error) {
	if i < 0 || i >= len(bz.ctrl) {
		return vec3.T{}, fmt.Errorf("%w: %d not in [0,%d)", nurbs.ErrIndexOutOfRange, i, len(bz.ctrl))
	}
	p := bz.ctrl[i]
	bz.ctrl = append(bz.ctrl[:i], bz.ctrl[i+1:]...)
	return p, nil
}

// Mod moves control point i to p.
func (bz *Bezier) Mod(i int, p vec3.T) error {
	if i < 0 || i >= len(bz.ctrl) {
		return fmt.Errorf("%w: %d not in [0,%d)", nurbs.ErrIndexOutOfRange, i, len(bz.ctrl))
	}
	bz.ctrl[i] = p
	return nil
}

// Degree returns the degree of the curve, or 0 if it has no control points.
func (bz *Bezier) Degree() int {
	return max(0, len(bz.ctrl)-1)
}

// ControlPoints returns a copy of the control points.
func (bz *Bezier) ControlPoints() []vec3.T {
	ctrl := make([]vec3.T, len(bz.ctrl))
	copy(ctrl, bz.ctrl)
	return ctrl
}

// EnsureFresh checks that the curve has at least two valid control points.
// There is nothing to re-calculate for a Bézier curve.
func (bz *Bezier) EnsureFresh() error {
	if len(bz.ctrl) < 2 {
		return fmt.Errorf("%w: Bézier curve has %d control points", nurbs.ErrTooFewPoles, len(bz.ctrl))
	}
	for i, p := range bz.ctrl {
		if !nurbs.IsFiniteVec(p) {
			return fmt.Errorf("%w: control point %d", nurbs.ErrInvalidPoint, i)
		}
	}
	return nil
}

// Evaluate returns C(t).
func (bz *Bezier) Evaluate(t float64) vec3.T {
	return evaluate.BezierPoint(bz.ctrl, t)
}

// EvaluateDerivatives returns C(t), C'(t), …, up to order.
func (bz *Bezier) EvaluateDerivatives(t float64, order int) []vec3.T {
	return evaluate.BezierDerivatives(bz.ctrl, t, order)
}

// === Circles and arcs ======================================================

// MakeNurbsCircle creates a circular arc of radius r about origin, in the
// plane spanned by the orthonormal vectors x and y, from angle a0 to a1
// (radians, counterclockwise from x towards y). If a1 < a0, a1 is taken
// modulo 2π.
//
// The arc is split into up to four pieces of at most 90°. Every piece is a
// rational quadratic Bézier segment with the middle control point at the
// intersection of the end tangents, weighted cos(Δθ/2) (A7.1 of The NURBS
// Book).
func MakeNurbsCircle(origin, x, y vec3.T, r, a0, a1 float64) (knots.Vector, []nurbs.WeightedPoint, error) {
	if !(r > nurbs.Epsilon) || math.IsInf(r, 0) {
		return nil, nil, fmt.Errorf("%w: radius %g", nurbs.ErrDegenerateInput, r)
	}
	if !nurbs.IsFinite(a0) || !nurbs.IsFinite(a1) {
		return nil, nil, fmt.Errorf("%w: angles %g, %g", nurbs.ErrParameterOutOfRange, a0, a1)
	}
	if a1 < a0 {
		a1 += 2 * math.Pi
	}
	theta := a1 - a0
	if theta <= nurbs.Epsilon {
		return nil, nil, fmt.Errorf("%w: zero sweep", nurbs.ErrDegenerateInput)
	}
	if theta > 2*math.Pi+nurbs.Epsilon {
		return nil, nil, fmt.Errorf("%w: sweep %g exceeds a full circle", nurbs.ErrParameterOutOfRange, theta)
	}
	var narcs int
	switch {
	case theta <= math.Pi/2+nurbs.Epsilon:
		narcs = 1
	case theta <= math.Pi+nurbs.Epsilon:
		narcs = 2
	case theta <= 1.5*math.Pi+nurbs.Epsilon:
		narcs = 3
	default:
		narcs = 4
	}
	dtheta := theta / float64(narcs)
	w1 := math.Cos(dtheta / 2)
	rim := func(a float64) (vec3.T, vec3.T) { // point and tangent at angle a
		px, py := x.Scaled(r*math.Cos(a)), y.Scaled(r*math.Sin(a))
		p := vec3.Add(&px, &py)
		p = vec3.Add(&origin, &p)
		tx, ty := x.Scaled(-math.Sin(a)), y.Scaled(math.Cos(a))
		return p, vec3.Add(&tx, &ty)
	}
	ctrl := make([]nurbs.WeightedPoint, 2*narcs+1)
	p0, t0 := rim(a0)
	ctrl[0] = nurbs.Weighted(p0, 1)
	angle := a0
	for i := 1; i <= narcs; i++ {
		angle += dtheta
		p2, t2 := rim(angle)
		p1, err := intersectLines(p0, t0, p2, t2)
		if err != nil {
			return nil, nil, err
		}
		ctrl[2*i-1] = nurbs.Weighted(p1, w1)
		ctrl[2*i] = nurbs.Weighted(p2, 1)
		p0, t0 = p2, t2
	}
	kv := make(knots.Vector, len(ctrl)+3)
	for i := 0; i < 3; i++ {
		kv[len(ctrl)+i] = 1
	}
	for i := 1; i < narcs; i++ { // double interior knots at exact fractions
		k := float64(i) / float64(narcs)
		kv[1+2*i], kv[2+2*i] = k, k
	}
	tracer().P("arcs", narcs).Debugf("circle r=%g, sweep %.4g°", r, theta/nurbs.Deg2Rad)
	return kv, ctrl, nil
}

// MustMakeNurbsCircle is like MakeNurbsCircle, but panics on invalid input.
// It is meant for constant geometry.
func MustMakeNurbsCircle(origin, x, y vec3.T, r, a0, a1 float64) (knots.Vector, []nurbs.WeightedPoint) {
	kv, ctrl, err := MakeNurbsCircle(origin, x, y, r, a0, a1)
	if err != nil {
		panic(err)
	}
	return kv, ctrl
}

// intersectLines intersects the lines p0 + s·t0 and p2 + u·t2, which are
// expected to be coplanar.
func intersectLines(p0, t0, p2, t2 vec3.T) (vec3.T, error) {
	d := vec3.Sub(&p2, &p0)
	a := vec3.Dot(&t0, &t0)
	b := vec3.Dot(&t0, &t2)
	c := vec3.Dot(&t2, &t2)
	det := b*b - a*c
	if math.Abs(det) <= nurbs.Epsilon {
		return vec3.T{}, fmt.Errorf("%w: tangent lines are parallel", nurbs.ErrDegenerateInput)
	}
	// a·s - b·u = t0·d,  b·s - c·u = t2·d
	s := (b*vec3.Dot(&t2, &d) - c*vec3.Dot(&t0, &d)) / det
	st := t0.Scaled(s)
	return vec3.Add(&p0, &st), nil
}

// conic is the common part of circles and arcs: poles in a plane given by a
// normal vector, turned into a NURBS by a closed-form construction.
type conic struct {
	poles  []vec3.T
	npoles int    // number of poles the conic is defined by
	normal vec3.T // plane normal, unit length
	build  func(poles []vec3.T, normal vec3.T) (knots.Vector, []nurbs.WeightedPoint, error)
	kv     knots.Vector
	ctrl   []nurbs.WeightedPoint
	dirty  bool
}

// Add appends a pole and returns its index. Additional poles beyond the
// ones defining the conic are rejected.
func (cn *conic) Add(p vec3.T) (int, error) {
	if len(cn.poles) >= cn.npoles {
		return -1, fmt.Errorf("%w: conic is defined by %d poles", nurbs.ErrIndexOutOfRange, cn.npoles)
	}
	cn.poles = append(cn.poles, p)
	cn.dirty = true
	return len(cn.poles) - 1, nil
}

// Mod moves pole i to p. Moving the center (pole 0) translates all poles.
func (cn *conic) Mod(i int, p vec3.T) error {
	if i < 0 || i >= len(cn.poles) {
		return fmt.Errorf("%w: %d not in [0,%d)", nurbs.ErrIndexOutOfRange, i, len(cn.poles))
	}
	if i == 0 {
		cn.Transform(nurbs.Translation(vec3.Sub(&p, &cn.poles[0])))
		return nil
	}
	cn.poles[i] = p
	cn.dirty = true
	return nil
}

// Transform applies an affine transformation to the poles and the normal.
func (cn *conic) Transform(at nurbs.AT) {
	for i := range cn.poles {
		cn.poles[i] = at.Transform(cn.poles[i])
	}
	cn.normal = nurbs.Unit(at.TransformDir(cn.normal))
	cn.dirty = true
}

// SetNormal sets the normal of the plane of the conic.
func (cn *conic) SetNormal(n vec3.T) error {
	if !nurbs.IsFiniteVec(n) || nurbs.IsZeroVec(n) {
		return fmt.Errorf("%w: plane normal %v", nurbs.ErrDegenerateInput, n)
	}
	cn.normal = nurbs.Unit(n)
	cn.dirty = true
	return nil
}

// Normal returns the normal of the plane of the conic.
func (cn *conic) Normal() vec3.T {
	return cn.normal
}

// DesignPoints returns a copy of the poles.
func (cn *conic) DesignPoints() []vec3.T {
	pts := make([]vec3.T, len(cn.poles))
	copy(pts, cn.poles)
	return pts
}

// EnsureFresh re-builds the NURBS representation, if the poles changed.
func (cn *conic) EnsureFresh() error {
	if !cn.dirty {
		return nil
	}
	if len(cn.poles) < cn.npoles {
		return fmt.Errorf("%w: conic needs %d poles, has %d", nurbs.ErrTooFewPoles, cn.npoles, len(cn.poles))
	}
	kv, ctrl, err := cn.build(cn.poles, cn.normal)
	if err != nil {
		tracer().Errorf("cannot build conic: %v", err)
		return err
	}
	cn.kv, cn.ctrl, cn.dirty = kv, ctrl, false
	return nil
}

// Evaluate returns C(t) of a fresh conic.
func (cn *conic) Evaluate(t float64) vec3.T {
	return evaluate.RationalCurvePoint(2, cn.kv, cn.ctrl, t)
}

// EvaluateDerivatives returns C(t), C'(t), …, up to order of a fresh conic.
func (cn *conic) EvaluateDerivatives(t float64, order int) []vec3.T {
	return evaluate.RationalCurveDerivatives(2, cn.kv, cn.ctrl, t, order)
}

// Knots returns the knot vector.
func (cn *conic) Knots() (knots.Vector, error) {
	if err := cn.EnsureFresh(); err != nil {
		return nil, err
	}
	return cn.kv.Clone(), nil
}

// WeightedControlPoints returns the control points in homogeneous
// coordinates.
func (cn *conic) WeightedControlPoints() ([]nurbs.WeightedPoint, error) {
	if err := cn.EnsureFresh(); err != nil {
		return nil, err
	}
	ctrl := make([]nurbs.WeightedPoint, len(cn.ctrl))
	copy(ctrl, cn.ctrl)
	return ctrl, nil
}

// ControlPoints returns the de-weighted control points.
func (cn *conic) ControlPoints() ([]vec3.T, error) {
	if err := cn.EnsureFresh(); err != nil {
		return nil, err
	}
	return nurbs.Dehomogenize(cn.ctrl), nil
}

// inPlane returns the component of p - center perpendicular to normal.
func inPlane(center, p, normal vec3.T) vec3.T {
	d := vec3.Sub(&p, &center)
	off := normal.Scaled(vec3.Dot(&d, &normal))
	return vec3.Sub(&d, &off)
}

// planeAxes returns the axes x, y of a conic starting at rim, together with
// the radius.
func planeAxes(center, rim, normal vec3.T) (x, y vec3.T, r float64, err error) {
	d := inPlane(center, rim, normal)
	r = d.Length()
	if r <= nurbs.Epsilon {
		return x, y, 0, fmt.Errorf("%w: rim point on center axis", nurbs.ErrDegenerateInput)
	}
	x = d.Scaled(1 / r)
	y = vec3.Cross(&normal, &x)
	return x, y, r, nil
}

// Circle is a full circle, defined by two poles: its center and a point on
// the rim. The circle lies in the plane through the center perpendicular to
// Normal (default +Z) and starts at the rim pole.
type Circle struct {
	conic
}

var _ Parametric = (*Circle)(nil)

// NewCircle creates a circle without poles.
func NewCircle() *Circle {
	return &Circle{conic{npoles: 2, normal: nurbs.V(0, 0, 1), build: buildCircle, dirty: true}}
}

func buildCircle(poles []vec3.T, normal vec3.T) (knots.Vector, []nurbs.WeightedPoint, error) {
	x, y, r, err := planeAxes(poles[0], poles[1], normal)
	if err != nil {
		return nil, nil, err
	}
	return MakeNurbsCircle(poles[0], x, y, r, 0, 2*math.Pi)
}

// Radius returns the radius of the circle, or 0 if it is not yet defined.
func (c *Circle) Radius() float64 {
	if len(c.poles) < 2 {
		return 0
	}
	d := inPlane(c.poles[0], c.poles[1], c.normal)
	return d.Length()
}

// Arc is a circular arc, defined by three poles: its center, the start
// point and a point on the ray from the center through the end point. The
// arc sweeps counterclockwise about Normal (default +Z) from start to end.
type Arc struct {
	conic
}

var _ Parametric = (*Arc)(nil)

// NewArc creates an arc without poles.
func NewArc() *Arc {
	return &Arc{conic{npoles: 3, normal: nurbs.V(0, 0, 1), build: buildArc, dirty: true}}
}

func buildArc(poles []vec3.T, normal vec3.T) (knots.Vector, []nurbs.WeightedPoint, error) {
	x, y, r, err := planeAxes(poles[0], poles[1], normal)
	if err != nil {
		return nil, nil, err
	}
	sweep, err := sweepAngle(poles[0], poles[1], poles[2], normal)
	if err != nil {
		return nil, nil, err
	}
	return MakeNurbsCircle(poles[0], x, y, r, 0, sweep)
}

// sweepAngle returns the angle from start to end, counterclockwise about
// normal, in (0,2π).
func sweepAngle(center, start, end, normal vec3.T) (float64, error) {
	s, e := inPlane(center, start, normal), inPlane(center, end, normal)
	if nurbs.IsZeroVec(e) {
		return 0, fmt.Errorf("%w: arc end on center axis", nurbs.ErrDegenerateInput)
	}
	cross := vec3.Cross(&s, &e)
	a := math.Atan2(vec3.Dot(&cross, &normal), vec3.Dot(&s, &e))
	if a < 0 {
		a += 2 * math.Pi
	}
	if a <= nurbs.Epsilon {
		return 0, fmt.Errorf("%w: arc has zero sweep", nurbs.ErrDegenerateInput)
	}
	return a, nil
}

// Sweep returns the angle of the arc in radians.
func (a *Arc) Sweep() (float64, error) {
	if len(a.poles) < 3 {
		return 0, fmt.Errorf("%w: arc needs 3 poles, has %d", nurbs.ErrTooFewPoles, len(a.poles))
	}
	return sweepAngle(a.poles[0], a.poles[1], a.poles[2], a.normal)
}
