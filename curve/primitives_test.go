package curve

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/evaluate"
	"github.com/npillmayer/nurbs/knots"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

var approx = cmpopts.EquateApprox(0, 1e-12)

func TestMakeNurbsCircleIsExact(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	kv, ctrl, err := MakeNurbsCircle(vec3.T{}, nurbs.V(1, 0, 0), nurbs.V(0, 1, 0), 1, 0, 2*math.Pi)
	require.NoError(t, err)
	assert.Len(t, ctrl, 9)
	want := knots.Vector{0, 0, 0, 0.25, 0.25, 0.5, 0.5, 0.75, 0.75, 1, 1, 1}
	assert.True(t, cmp.Equal(want, kv, approx), cmp.Diff(want, kv))
	for i := 0; i <= 200; i++ {
		p := evaluate.RationalCurvePoint(2, kv, ctrl, float64(i)/200)
		assert.InDelta(t, 1.0, p.Length(), 1e-9, "sample %d", i)
		assert.InDelta(t, 0.0, p[2], 1e-15)
	}
	assert.InDelta(t, math.Sqrt2/2, ctrl[1].W, 1e-15)
	assertVecInDelta(t, nurbs.V(1, 1, 0), ctrl[1].Cartesian(), 1e-12)
}

func TestMakeNurbsCircleArcs(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	origin := nurbs.V(1, 2, 3)
	for _, x := range []struct {
		sweep float64
		n     int
	}{
		{60, 3}, {90, 3}, {135, 5}, {180, 5}, {200, 7}, {300, 9},
	} {
		a1 := 0.3 + x.sweep*nurbs.Deg2Rad
		kv, ctrl, err := MakeNurbsCircle(origin, nurbs.V(0, 1, 0), nurbs.V(0, 0, 1), 2, 0.3, a1)
		require.NoError(t, err)
		assert.Len(t, ctrl, x.n, "sweep %g", x.sweep)
		assert.Len(t, kv, x.n+3)
		narcs := float64(x.n-1) / 2
		assert.InDelta(t, math.Cos(x.sweep*nurbs.Deg2Rad/narcs/2), ctrl[1].W, 1e-12)
		start := nurbs.V(1, 2+2*math.Cos(0.3), 3+2*math.Sin(0.3))
		end := nurbs.V(1, 2+2*math.Cos(a1), 3+2*math.Sin(a1))
		assertVecInDelta(t, start, evaluate.RationalCurvePoint(2, kv, ctrl, 0), 1e-12)
		assertVecInDelta(t, end, evaluate.RationalCurvePoint(2, kv, ctrl, 1), 1e-12)
		for i := 0; i <= 50; i++ {
			p := evaluate.RationalCurvePoint(2, kv, ctrl, float64(i)/50)
			assert.InDelta(t, 2.0, nurbs.Distance(p, origin), 1e-9)
		}
	}
}

func TestMakeNurbsCircleWraps(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	kv, ctrl, err := MakeNurbsCircle(vec3.T{}, nurbs.V(1, 0, 0), nurbs.V(0, 1, 0), 1, 1.5*math.Pi, 0.5*math.Pi)
	require.NoError(t, err)
	assert.Len(t, ctrl, 5)
	assertVecInDelta(t, nurbs.V(0, -1, 0), evaluate.RationalCurvePoint(2, kv, ctrl, 0), 1e-12)
	assertVecInDelta(t, nurbs.V(1, 0, 0), evaluate.RationalCurvePoint(2, kv, ctrl, 0.5), 1e-12)
	assertVecInDelta(t, nurbs.V(0, 1, 0), evaluate.RationalCurvePoint(2, kv, ctrl, 1), 1e-12)
}

func TestMakeNurbsCircleRejects(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	x, y := nurbs.V(1, 0, 0), nurbs.V(0, 1, 0)
	_, _, err := MakeNurbsCircle(vec3.T{}, x, y, 0, 0, 1)
	assert.True(t, errors.Is(err, nurbs.ErrDegenerateInput))
	_, _, err = MakeNurbsCircle(vec3.T{}, x, y, 1, 1, 1)
	assert.True(t, errors.Is(err, nurbs.ErrDegenerateInput))
	_, _, err = MakeNurbsCircle(vec3.T{}, x, y, 1, 0, 7)
	assert.True(t, errors.Is(err, nurbs.ErrParameterOutOfRange))
	_, _, err = MakeNurbsCircle(vec3.T{}, x, y, 1, math.NaN(), 1)
	assert.True(t, errors.Is(err, nurbs.ErrParameterOutOfRange))
	assert.Panics(t, func() { MustMakeNurbsCircle(vec3.T{}, x, y, -1, 0, 1) })
}

func TestCircle(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCircle()
	_, err := PointAt(c, 0)
	assert.True(t, errors.Is(err, nurbs.ErrTooFewPoles))
	_, err = c.Add(nurbs.V(1, 1, 0))
	require.NoError(t, err)
	_, err = c.Add(nurbs.V(3, 1, 0))
	require.NoError(t, err)
	_, err = c.Add(nurbs.V(5, 1, 0))
	assert.True(t, errors.Is(err, nurbs.ErrIndexOutOfRange))
	assert.InDelta(t, 2.0, c.Radius(), 1e-15)
	pts, err := Points(c, 37)
	require.NoError(t, err)
	for p := range pts {
		assert.InDelta(t, 2.0, nurbs.Distance(p, nurbs.V(1, 1, 0)), 1e-9)
	}
	assertVecInDelta(t, nurbs.V(3, 1, 0), mustPoint(t, c, 0), 1e-12)
	assertVecInDelta(t, nurbs.V(1, 3, 0), mustPoint(t, c, 0.25), 1e-12)
	// moving the center moves the rim
	require.NoError(t, c.Mod(0, vec3.T{}))
	assert.Equal(t, nurbs.V(2, 0, 0), c.DesignPoints()[1])
	assertVecInDelta(t, nurbs.V(2, 0, 0), mustPoint(t, c, 0), 1e-12)
	require.NoError(t, c.Mod(1, nurbs.V(0, 3, 0)))
	assertVecInDelta(t, nurbs.V(-3, 0, 0), mustPoint(t, c, 0.25), 1e-12)
	// circle in the xz-plane
	require.NoError(t, c.SetNormal(nurbs.V(0, -2, 0)))
	require.NoError(t, c.Mod(1, nurbs.V(1, 0, 0)))
	assertVecInDelta(t, nurbs.V(0, 0, 1), mustPoint(t, c, 0.25), 1e-12)
	assert.True(t, errors.Is(c.SetNormal(vec3.T{}), nurbs.ErrDegenerateInput))
	require.NoError(t, c.Mod(1, nurbs.V(0, 5, 0))) // on the axis
	_, err = PointAt(c, 0.5)
	assert.True(t, errors.Is(err, nurbs.ErrDegenerateInput))
}

func TestArc(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	a := NewArc()
	for _, p := range []vec3.T{{0, 0, 0}, {1, 0, 0}, {0, 2, 0}} {
		_, err := a.Add(p)
		require.NoError(t, err)
	}
	sweep, err := a.Sweep()
	require.NoError(t, err)
	assert.InDelta(t, math.Pi/2, sweep, 1e-15)
	assertVecInDelta(t, nurbs.V(1, 0, 0), mustPoint(t, a, 0), 1e-12)
	assertVecInDelta(t, nurbs.V(math.Sqrt2/2, math.Sqrt2/2, 0), mustPoint(t, a, 0.5), 1e-12)
	assertVecInDelta(t, nurbs.V(0, 1, 0), mustPoint(t, a, 1), 1e-12)
	ctrl, err := a.ControlPoints()
	require.NoError(t, err)
	assert.Len(t, ctrl, 3)
	// clockwise seen from +Z
	require.NoError(t, a.SetNormal(nurbs.V(0, 0, -1)))
	sweep, _ = a.Sweep()
	assert.InDelta(t, 1.5*math.Pi, sweep, 1e-12)
	assertVecInDelta(t, nurbs.V(-math.Sqrt2/2, -math.Sqrt2/2, 0), mustPoint(t, a, 0.5), 1e-12)
	kv, err := a.Knots()
	require.NoError(t, err)
	assert.Len(t, kv, 10)
	//
	require.NoError(t, a.Mod(2, nurbs.V(3, 0, 0)))
	_, err = PointAt(a, 0.5)
	assert.True(t, errors.Is(err, nurbs.ErrDegenerateInput))
}

func TestConicTransform(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	c := NewCircle()
	c.Add(vec3.T{})
	c.Add(nurbs.V(1, 0, 0))
	at := nurbs.Rotation(nurbs.V(1, 0, 0), math.Pi/2).Combine(nurbs.Translation(nurbs.V(0, 0, 5)))
	c.Transform(at)
	assertVecInDelta(t, nurbs.V(0, -1, 0), c.Normal(), 1e-12)
	assertVecInDelta(t, nurbs.V(0, 0, 6), mustPoint(t, c, 0.25), 1e-12)
}

func TestBezier(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	bz := NewBezier(nurbs.V(0, 0, 0), nurbs.V(1, 2, 0))
	bz.Add(nurbs.V(3, 2, 0))
	bz.Add(nurbs.V(4, 0, 0))
	assert.Equal(t, 3, bz.Degree())
	assertVecInDelta(t, nurbs.V(2, 1.5, 0), mustPoint(t, bz, 0.5), 1e-12)
	ders, err := Derivatives(bz, 0, 2)
	require.NoError(t, err)
	assertVecInDelta(t, nurbs.V(3, 6, 0), ders[1], 1e-12)
	assertVecInDelta(t, nurbs.V(6, -12, 0), ders[2], 1e-12)
	p, err := bz.Remove(3)
	require.NoError(t, err)
	assert.Equal(t, nurbs.V(4, 0, 0), p)
	assert.True(t, errors.Is(bz.Mod(5, p), nurbs.ErrIndexOutOfRange))
	assert.Equal(t, "Bézier degree 2: (0,0,0) -- (1,2,0) -- (3,2,0)", bz.String())
	_, err = PointAt(NewBezier(nurbs.V(1, 1, 1)), 0.5)
	assert.True(t, errors.Is(err, nurbs.ErrTooFewPoles))
}

func TestBSplineRefinementKeepsShape(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	bs := NewBSpline(3)
	for _, p := range []vec3.T{{0, 0, 0}, {1, 2, 0}, {3, 3, 1}, {4, 1, 0}, {6, 2, -1}, {7, 0, 0}} {
		bs.Add(p)
	}
	before := sample(t, bs, 41)
	require.NoError(t, bs.RefineKnots([]float64{0.6, 0.3, 0, 1}))
	assert.Equal(t, 8, bs.Len())
	assert.Equal(t, 3, bs.Degree())
	after := sample(t, bs, 41)
	for i := range before {
		assertVecInDelta(t, before[i], after[i], 1e-9, "sample %d", i)
	}
	require.NoError(t, bs.InsertKnotAt(1))
	assert.Equal(t, 8, bs.Len())
	require.NoError(t, bs.InsertKnotAt(0.5))
	assert.Equal(t, 9, bs.Len())
	kv, err := bs.Knots()
	require.NoError(t, err)
	assert.Len(t, kv, 13)
	assert.True(t, errors.Is(bs.RefineKnots([]float64{2}), nurbs.ErrParameterOutOfRange))
}

func TestBSplineDesignPoints(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	bs := NewBSpline(2)
	bs.Add(nurbs.V(0, 0, 0))
	bs.Add(nurbs.V(1, 1, 0))
	bs.Add(nurbs.V(2, 0, 0))
	require.NoError(t, bs.Insert(3, nurbs.V(3, 1, 0)))
	pts, err := bs.DesignPoints()
	require.NoError(t, err)
	require.Len(t, pts, 4)
	assertVecInDelta(t, nurbs.V(0, 0, 0), pts[0], 1e-12)
	assertVecInDelta(t, nurbs.V(3, 1, 0), pts[3], 1e-12)
	params, err := bs.Parameters()
	require.NoError(t, err)
	assert.InDelta(t, 1.0/3, params[1], 1e-12)
	_, err = bs.Remove(4)
	assert.True(t, errors.Is(err, nurbs.ErrIndexOutOfRange))
	assert.Equal(t, "B-spline degree 2: (0,0,0) -- (1,1,0) -- (2,0,0) -- (3,1,0)", bs.String())
}

func TestLine(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	l := NewLine()
	l.Add(nurbs.V(0, 0, 0))
	l.Add(nurbs.V(1, 0, 0))
	l.Add(nurbs.V(1, 1, 0))
	assert.Equal(t, 1, l.Degree())
	assertVecInDelta(t, nurbs.V(1, 0, 0), mustPoint(t, l, 0.5), 1e-12)
	assertVecInDelta(t, nurbs.V(1, 0.5, 0), mustPoint(t, l, 0.75), 1e-12)
	assert.Len(t, l.DesignPoints(), 3)
	var _ Parametric = l
}

func TestLineInsertKnotAtPole(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	l := NewLine()
	l.Add(nurbs.V(0, 0, 0))
	l.Add(nurbs.V(1, 0, 0))
	l.Add(nurbs.V(1, 1, 0))
	require.NoError(t, l.InsertKnotAt(0.5))
	assert.Equal(t, 3, l.Len())
	assert.Equal(t, []float64{0.5}, l.Breaks())
	require.NoError(t, l.InsertKnotAt(0.25))
	assert.Equal(t, 4, l.Len())
	assertVecInDelta(t, nurbs.V(0.5, 0, 0), l.ControlPoints()[1], 1e-12)
	assertVecInDelta(t, nurbs.V(1, 0.5, 0), mustPoint(t, l, 0.75), 1e-12)
	require.NoError(t, l.RefineKnots([]float64{0.75, 0.75, 0.25}))
	assert.Equal(t, 5, l.Len())
	kv, err := l.Knots()
	require.NoError(t, err)
	assert.Equal(t, knots.Vector{0, 0, 0.25, 0.5, 0.75, 1, 1}, kv)
}
