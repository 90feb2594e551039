package evaluate

import (
	"math"
	"testing"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/knots"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

func assertVecInDelta(t *testing.T, want, got vec3.T, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	if !nurbs.Equal(want, got, delta) {
		assert.Fail(t, "vectors differ", "want %v, got %v: %v", want, got, msgAndArgs)
	}
}

func finiteDiff(f func(float64) vec3.T, t, h float64) vec3.T {
	lo, hi := f(t-h), f(t+h)
	d := vec3.Sub(&hi, &lo)
	return d.Scaled(1 / (2 * h))
}

func quarterCircle() (knots.Vector, []nurbs.WeightedPoint) {
	kv := knots.Vector{0, 0, 0, 1, 1, 1}
	ctrl := []nurbs.WeightedPoint{
		nurbs.Weighted(nurbs.V(1, 0, 0), 1),
		nurbs.Weighted(nurbs.V(1, 1, 0), math.Sqrt2/2),
		nurbs.Weighted(nurbs.V(0, 1, 0), 1),
	}
	return kv, ctrl
}

func TestBinomial(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.Equal(t, 1.0, Binomial(0, 0))
	assert.Equal(t, 4.0, Binomial(4, 1))
	assert.Equal(t, 6.0, Binomial(4, 2))
	assert.Equal(t, 252.0, Binomial(10, 5))
	assert.Equal(t, 0.0, Binomial(3, 4))
	assert.Equal(t, 0.0, Binomial(3, -1))
}

func TestPolynomialCurveDerivatives(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	kv := knots.Vector{0, 0, 0, 0, 0.4, 1, 1, 1, 1}
	ctrl := []vec3.T{{0, 0, 0}, {1, 2, 0}, {3, 3, 1}, {4, 0, 0}, {6, 1, -1}}
	f := func(u float64) vec3.T { return CurvePoint(3, kv, ctrl, u) }
	for _, u := range []float64{0.1, 0.3, 0.55, 0.9} {
		ders := CurveDerivatives(3, kv, ctrl, u, 4)
		require.Len(t, ders, 5)
		assertVecInDelta(t, f(u), ders[0], 1e-12)
		assertVecInDelta(t, finiteDiff(f, u, 1e-6), ders[1], 1e-5, "t=%g", u)
		g := func(u float64) vec3.T { return CurveDerivatives(3, kv, ctrl, u, 1)[1] }
		assertVecInDelta(t, finiteDiff(g, u, 1e-6), ders[2], 1e-4, "t=%g", u)
		assert.True(t, nurbs.IsZeroVec(ders[4]))
	}
	// clamped ends interpolate the end control points
	assertVecInDelta(t, ctrl[0], f(0), 1e-15)
	assertVecInDelta(t, ctrl[4], f(1), 1e-15)
}

func TestRationalQuarterCircle(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	kv, ctrl := quarterCircle()
	for i := 0; i <= 20; i++ {
		u := float64(i) / 20
		p := RationalCurvePoint(2, kv, ctrl, u)
		assert.InDelta(t, 1.0, p.Length(), 1e-12, "t=%g", u)
	}
}

func TestRationalDerivativesWeightCorrection(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	kv, ctrl := quarterCircle()
	f := func(u float64) vec3.T { return RationalCurvePoint(2, kv, ctrl, u) }
	for _, u := range []float64{0.2, 0.35, 0.7} { // w'(0.5) = 0
		ders := RationalCurveDerivatives(2, kv, ctrl, u, 2)
		assertVecInDelta(t, f(u), ders[0], 1e-12)
		d1 := finiteDiff(f, u, 1e-6)
		assertVecInDelta(t, d1, ders[1], 1e-6, "t=%g", u)
		// tangent of a circle is perpendicular to its radius
		assert.InDelta(t, 0.0, vec3.Dot(&ders[0], &ders[1]), 1e-10)
		g := func(u float64) vec3.T { return RationalCurveDerivatives(2, kv, ctrl, u, 1)[1] }
		assertVecInDelta(t, finiteDiff(g, u, 1e-6), ders[2], 1e-4, "t=%g", u)
		// naive differentiation, A'(t)/w(t), is off
		h := HomogeneousDerivatives(2, kv, ctrl, u, 1)
		a1 := h[1].Vec()
		naive := a1.Scaled(1 / h[0].W)
		assert.False(t, nurbs.Equal(naive, ders[1], 1e-3))
	}
}

func TestRationalWithUnitWeightsIsPolynomial(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	kv := knots.Vector{0, 0, 0, 0.5, 1, 1, 1}
	ctrl := []vec3.T{{0, 0, 0}, {1, 2, 0}, {3, 3, 1}, {4, 0, 0}}
	wctrl := nurbs.Homogenize(ctrl, nil)
	for _, u := range []float64{0, 0.25, 0.5, 0.8, 1} {
		p := CurveDerivatives(2, kv, ctrl, u, 2)
		q := RationalCurveDerivatives(2, kv, wctrl, u, 2)
		for k := range p {
			assertVecInDelta(t, p[k], q[k], 1e-10, "t=%g, k=%d", u, k)
		}
	}
}

func TestBernsteinAndDeCasteljau(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	ctrl := []vec3.T{{0, 0, 0}, {1, 3, 0}, {3, 3, 0}, {4, 0, 1}}
	for _, u := range []float64{0, 0.3, 0.5, 1} {
		B := Bernstein(3, u)
		sum := 0.0
		var p vec3.T
		for i, b := range B {
			sum += b
			q := ctrl[i].Scaled(b)
			p = vec3.Add(&p, &q)
		}
		assert.InDelta(t, 1.0, sum, 1e-15)
		assertVecInDelta(t, p, BezierPoint(ctrl, u), 1e-12, "t=%g", u)
	}
	B := Bernstein(2, 0.5)
	assert.InDeltaSlice(t, []float64{0.25, 0.5, 0.25}, B, 1e-15)
	assert.Equal(t, vec3.T{}, BezierPoint(nil, 0.5))
}

func TestBezierDerivatives(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	ctrl := []vec3.T{{0, 0, 0}, {1, 3, 0}, {3, 3, 0}, {4, 0, 1}}
	f := func(u float64) vec3.T { return BezierPoint(ctrl, u) }
	ders := BezierDerivatives(ctrl, 0, 3)
	assertVecInDelta(t, nurbs.V(3, 9, 0), ders[1], 1e-12)
	ders = BezierDerivatives(ctrl, 0.4, 5)
	require.Len(t, ders, 6)
	assertVecInDelta(t, finiteDiff(f, 0.4, 1e-6), ders[1], 1e-6)
	assert.True(t, nurbs.IsZeroVec(ders[4]))
	assert.True(t, nurbs.IsZeroVec(ders[5]))
	// equals the B-spline evaluation over a Bézier knot vector
	kv := knots.Vector{0, 0, 0, 0, 1, 1, 1, 1}
	bs := CurveDerivatives(3, kv, ctrl, 0.4, 3)
	for k := 0; k <= 3; k++ {
		assertVecInDelta(t, bs[k], ders[k], 1e-10, "k=%d", k)
	}
}

func TestBilinearSurface(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	kv := knots.Vector{0, 0, 1, 1}
	ctrl := [][]vec3.T{
		{{0, 0, 0}, {2, 0, 0}},
		{{0, 1, 0}, {2, 1, 4}},
	}
	p := SurfacePoint(1, 1, kv, kv, ctrl, 0.5, 0.5)
	assertVecInDelta(t, nurbs.V(1, 0.5, 1), p, 1e-15)
	wctrl := [][]nurbs.WeightedPoint{nurbs.Homogenize(ctrl[0], nil), nurbs.Homogenize(ctrl[1], nil)}
	q := RationalSurfacePoint(1, 1, kv, kv, wctrl, 0.5, 0.5)
	assertVecInDelta(t, p, q, 1e-15)
	skl := RationalSurfaceDerivatives(1, 1, kv, kv, wctrl, 0.25, 0.5, 2)
	assertVecInDelta(t, SurfacePoint(1, 1, kv, kv, ctrl, 0.25, 0.5), skl[0][0], 1e-14)
	assertVecInDelta(t, nurbs.V(2, 0, 2), skl[1][0], 1e-12) // S_u
	assertVecInDelta(t, nurbs.V(0, 1, 1), skl[0][1], 1e-12) // S_v
	assertVecInDelta(t, nurbs.V(0, 0, 4), skl[1][1], 1e-12) // S_uv
	assert.True(t, nurbs.IsZeroVec(skl[2][0]))
	assert.Len(t, skl[2], 1)
}

func TestRationalCylinderSurface(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	ku, qc := quarterCircle()
	kv := knots.Vector{0, 0, 1, 1}
	top := make([]nurbs.WeightedPoint, len(qc))
	for i, wp := range qc {
		c := wp.Cartesian()
		c[2] = 2
		top[i] = nurbs.Weighted(c, wp.W)
	}
	ctrl := [][]nurbs.WeightedPoint{qc, top}
	f := func(u float64) vec3.T { return RationalSurfacePoint(2, 1, ku, kv, ctrl, u, 0.3) }
	for _, u := range []float64{0.1, 0.5, 0.9} {
		p := f(u)
		assert.InDelta(t, 1.0, math.Hypot(p[0], p[1]), 1e-12)
		assert.InDelta(t, 0.6, p[2], 1e-12)
		skl := RationalSurfaceDerivatives(2, 1, ku, kv, ctrl, u, 0.3, 1)
		assertVecInDelta(t, p, skl[0][0], 1e-12)
		assertVecInDelta(t, finiteDiff(f, u, 1e-6), skl[1][0], 1e-6, "u=%g", u)
		assertVecInDelta(t, nurbs.V(0, 0, 2), skl[0][1], 1e-10, "u=%g", u)
	}
}
