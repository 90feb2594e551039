package curve

import (
	"fmt"
	"iter"
	"math"
	"slices"

	"github.com/npillmayer/nurbs"
	"github.com/ungerik/go3d/float64/vec3"
)

// Parametric is a curve C(t) over the parameter range [0,1].
//
// EnsureFresh re-calculates whatever the curve needs for evaluation, if its
// definition changed since the last call. Evaluate and EvaluateDerivatives
// require a fresh curve and a parameter within [0,1]; the query functions of
// this package take care of both.
type Parametric interface {
	EnsureFresh() error
	Evaluate(t float64) vec3.T
	EvaluateDerivatives(t float64, order int) []vec3.T
}

// Projection is the result of a closest-point search. If the Newton
// iteration did not converge, T and Point hold the best estimate found and
// Converged is false.
type Projection struct {
	T          float64 // parameter of the closest point
	Point      vec3.T  // C(T)
	Distance   float64 // distance from the query point to Point
	Iterations int     // Newton steps taken
	Converged  bool
}

// Frame is the Frenet frame of a curve at parameter T. On straight parts
// of a curve Normal and Binormal are zero, as is Curvature.
type Frame struct {
	T         float64
	Point     vec3.T
	Tangent   vec3.T // unit tangent
	Normal    vec3.T // unit principal normal
	Binormal  vec3.T // unit binormal C' × C''
	Curvature float64
}

func checkParameter(t float64) error {
	if math.IsNaN(t) || t < 0 || t > 1 {
		return fmt.Errorf("%w: t=%g", nurbs.ErrParameterOutOfRange, t)
	}
	return nil
}

func checkSamples(n int) error {
	if n < 2 {
		return fmt.Errorf("%w: need at least 2 samples, have %d", nurbs.ErrParameterOutOfRange, n)
	}
	return nil
}

// PointAt returns C(t).
func PointAt(c Parametric, t float64) (vec3.T, error) {
	if err := checkParameter(t); err != nil {
		return vec3.T{}, err
	}
	if err := c.EnsureFresh(); err != nil {
		return vec3.T{}, err
	}
	return c.Evaluate(t), nil
}

// Derivatives returns C(t), C'(t), …, up to order.
func Derivatives(c Parametric, t float64, order int) ([]vec3.T, error) {
	if err := checkParameter(t); err != nil {
		return nil, err
	}
	if order < 0 {
		return nil, fmt.Errorf("%w: derivative order %d", nurbs.ErrParameterOutOfRange, order)
	}
	if err := c.EnsureFresh(); err != nil {
		return nil, err
	}
	return c.EvaluateDerivatives(t, order), nil
}

// Points samples c at n uniformly spaced parameters, including both ends.
// The sequence may be iterated more than once; it reflects the state of c
// at the time of the call to Points, as long as c is not modified.
func Points(c Parametric, n int) (iter.Seq[vec3.T], error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	if err := c.EnsureFresh(); err != nil {
		return nil, err
	}
	return func(yield func(vec3.T) bool) {
		for i := 0; i < n; i++ {
			if !yield(c.Evaluate(float64(i) / float64(n-1))) {
				return
			}
		}
	}, nil
}

// breaker is implemented by curves which may have corners, i.e. parameters
// where the curve is C0 only.
type breaker interface {
	Breaks() []float64
}

// ClosestPosition finds the point on c closest to p.
//
// The curve is sampled at conf.ClosestSamples+1 uniform parameters and at its
// corners, if it has any. The nearest sample is the start for a Newton
// iteration on
//
//	f(t) = C'(t) · (C(t) - p)
//
// which vanishes at a (local) minimum of the distance. The iteration runs on
// either side of the nearest sample, confined to the interval up to the
// neighbouring sample, and never across a corner. It stops if the step, |f|
// or the distance fall below conf.NewtonTolerance. The result is never
// farther away from p than the nearest sample. Hitting conf.NewtonIterations
// is a soft failure: the best estimate is returned with Converged = false.
func ClosestPosition(c Parametric, p vec3.T, conf nurbs.Config) (Projection, error) {
	if !nurbs.IsFiniteVec(p) {
		return Projection{}, fmt.Errorf("%w: query point %v", nurbs.ErrInvalidPoint, p)
	}
	if err := c.EnsureFresh(); err != nil {
		return Projection{}, err
	}
	n := conf.ClosestSamples
	if n < 2 {
		n = nurbs.DefaultConfig().ClosestSamples
	}
	maxIter, tol := conf.NewtonIterations, conf.NewtonTolerance
	if maxIter < 1 || !(tol > 0) {
		maxIter, tol = nurbs.DefaultConfig().NewtonIterations, nurbs.DefaultConfig().NewtonTolerance
	}
	ts := sampleParameters(c, n)
	best, dmin := 0, math.Inf(1)
	for i, t := range ts {
		if d := nurbs.Distance(c.Evaluate(t), p); d < dmin {
			best, dmin = i, d
		}
	}
	proj := Projection{T: ts[best], Distance: dmin}
	if dmin < tol {
		proj.Converged = true
	} else {
		if best > 0 {
			proj = newton(c, p, ts[best], ts[best-1], ts[best], maxIter, tol)
		}
		if best < len(ts)-1 {
			if right := newton(c, p, ts[best], ts[best], ts[best+1], maxIter, tol); best == 0 ||
				right.Distance < proj.Distance {
				proj = right
			}
		}
	}
	proj.Point = c.Evaluate(proj.T)
	proj.Distance = nurbs.Distance(proj.Point, p)
	if !proj.Converged {
		tracer().P("t", proj.T).Infof("closest point: no convergence after %d iterations", proj.Iterations)
	}
	return proj, nil
}

// sampleParameters returns n+1 uniform parameters in [0,1], merged with the
// corners of c.
func sampleParameters(c Parametric, n int) []float64 {
	ts := make([]float64, 0, n+1)
	for i := 0; i <= n; i++ {
		ts = append(ts, float64(i)/float64(n))
	}
	if b, ok := c.(breaker); ok {
		ts = append(ts, b.Breaks()...)
		slices.Sort(ts)
		ts = slices.CompactFunc(ts, func(a, b float64) bool { return b-a <= nurbs.Epsilon })
	}
	return ts
}

// newton iterates on f(t) = C'(t)·(C(t)-p), starting at t0 and confined to
// [lo,hi]. It returns the closest estimate seen. Converged is set only if
// the iteration stops at that estimate.
//
// Derivatives at hi are taken from the left, as hi may be a corner.
func newton(c Parametric, p vec3.T, t0, lo, hi float64, maxIter int, tol float64) Projection {
	best := Projection{T: t0, Distance: math.Inf(1)}
	t := t0
	for it := 0; ; it++ {
		best.Iterations = it
		at := t
		if t == hi {
			at = math.Nextafter(hi, lo)
		}
		ders := c.EvaluateDerivatives(at, 2)
		diff := vec3.Sub(&ders[0], &p)
		d := diff.Length()
		if d < best.Distance {
			best.T, best.Distance = t, d
		}
		f := vec3.Dot(&ders[1], &diff)
		if d < tol || math.Abs(f) < tol {
			best.Converged = best.T == t
			return best
		}
		df := vec3.Dot(&ders[2], &diff) + vec3.Dot(&ders[1], &ders[1])
		if it == maxIter || nurbs.Is0(df) {
			return best
		}
		tnext := min(max(t-f/df, lo), hi)
		if math.Abs(tnext-t) < tol {
			best.Converged = best.T == t
			return best
		}
		t = tnext
	}
}

// ClosestPoint returns the point on c closest to p. See ClosestPosition.
func ClosestPoint(c Parametric, p vec3.T, conf nurbs.Config) (vec3.T, error) {
	proj, err := ClosestPosition(c, p, conf)
	return proj.Point, err
}

// Interrogate samples the Frenet frame and curvature of c at n uniform
// parameters:
//
//	binormal  = C' × C''
//	normal    = binormal × C'
//	curvature = |C' × C''| / |C'|³
func Interrogate(c Parametric, n int) (iter.Seq[Frame], error) {
	if err := checkSamples(n); err != nil {
		return nil, err
	}
	if err := c.EnsureFresh(); err != nil {
		return nil, err
	}
	return func(yield func(Frame) bool) {
		for i := 0; i < n; i++ {
			if !yield(frameAt(c, float64(i)/float64(n-1))) {
				return
			}
		}
	}, nil
}

func frameAt(c Parametric, t float64) Frame {
	ders := c.EvaluateDerivatives(t, 2)
	binormal := vec3.Cross(&ders[1], &ders[2])
	normal := vec3.Cross(&binormal, &ders[1])
	fr := Frame{
		T:        t,
		Point:    ders[0],
		Tangent:  nurbs.Unit(ders[1]),
		Normal:   nurbs.Unit(normal),
		Binormal: nurbs.Unit(binormal),
	}
	if speed := ders[1].Length(); speed > nurbs.Epsilon {
		fr.Curvature = binormal.Length() / (speed * speed * speed)
	}
	return fr
}
