package knots

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ungerik/go3d/float64/vec3"
)

var approx = cmpopts.EquateApprox(0, 1e-12)

func testKnotVectors() map[int][]Vector {
	return map[int][]Vector{
		1: {{0, 0, 0.3, 0.5, 1, 1}, {0, 0, 1, 1}},
		2: {{0, 0, 0, 0.5, 1, 1, 1}, {0, 0, 0, 0.2, 0.2, 0.7, 1, 1, 1}},
		3: {{0, 0, 0, 0, 1, 1, 1, 1}, {0, 0, 0, 0, 0.25, 0.5, 0.75, 1, 1, 1, 1},
			{0, 0, 0, 0, 0.1, 0.5, 0.5, 0.5, 0.9, 1, 1, 1, 1}},
		4: {{0, 0, 0, 0, 0, 0.3, 0.6, 1, 1, 1, 1, 1}},
	}
}

// point on a polynomial curve, computed directly from basis functions
func pointAt(degree int, kv Vector, ctrl []vec3.T, t float64) vec3.T {
	span := FindSpan(degree, kv, len(ctrl), t)
	N := BasisFuncs(degree, kv, span, t)
	var p vec3.T
	for j := 0; j <= degree; j++ {
		q := ctrl[span-degree+j].Scaled(N[j])
		p = vec3.Add(&p, &q)
	}
	return p
}

func TestPartitionOfUnity(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	for degree, kvs := range testKnotVectors() {
		for _, kv := range kvs {
			n := len(kv) - degree - 1
			require.NoError(t, kv.Validate(degree, n))
			for i := 0; i <= 100; i++ {
				u := float64(i) / 100
				span := FindSpan(degree, kv, n, u)
				sum := 0.0
				for _, b := range BasisFuncs(degree, kv, span, u) {
					assert.GreaterOrEqual(t, b, -1e-15)
					sum += b
				}
				assert.InDelta(t, 1.0, sum, 1e-10, "degree %d, kv %v, t=%g", degree, kv, u)
			}
		}
	}
}

func TestFindSpanBounds(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	kv := Vector{0, 0, 0, 0, 0.25, 0.5, 0.75, 1, 1, 1, 1}
	n := len(kv) - 4
	assert.Equal(t, 3, FindSpan(3, kv, n, 0))
	assert.Equal(t, 3, FindSpan(3, kv, n, -1))
	assert.Equal(t, 3, FindSpan(3, kv, n, 0.1))
	assert.Equal(t, 4, FindSpan(3, kv, n, 0.25))
	assert.Equal(t, 5, FindSpan(3, kv, n, 0.6))
	assert.Equal(t, n-1, FindSpan(3, kv, n, 1))
	assert.Equal(t, n-1, FindSpan(3, kv, n, 2))
}

func TestBasisDerivativesMatchFiniteDifferences(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	const h = 1e-6
	for degree, kvs := range testKnotVectors() {
		for _, kv := range kvs {
			n := len(kv) - degree - 1
			for _, u := range []float64{0.13, 0.37, 0.61, 0.83} {
				span := FindSpan(degree, kv, n, u)
				if FindSpan(degree, kv, n, u-h) != span || FindSpan(degree, kv, n, u+h) != span {
					continue // too close to a knot
				}
				ders := BasisDerivatives(degree, kv, span, 2, u)
				assert.True(t, cmp.Equal(BasisFuncs(degree, kv, span, u), ders[0], approx))
				lo := BasisFuncs(degree, kv, span, u-h)
				hi := BasisFuncs(degree, kv, span, u+h)
				sum := 0.0
				for j := 0; j <= degree; j++ {
					assert.InDelta(t, (hi[j]-lo[j])/(2*h), ders[1][j], 1e-5,
						"degree %d, kv %v, t=%g, j=%d", degree, kv, u, j)
					sum += ders[1][j]
				}
				assert.InDelta(t, 0.0, sum, 1e-9) // derivatives of a partition of unity
			}
		}
	}
}

func TestBasisDerivativesBeyondDegree(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	kv := Vector{0, 0, 0.5, 1, 1}
	ders := BasisDerivatives(1, kv, 1, 3, 0.25)
	require.Len(t, ders, 4)
	assert.True(t, cmp.Equal([]float64{0.5, 0.5}, ders[0], approx))
	assert.True(t, cmp.Equal([]float64{-2, 2}, ders[1], approx))
	assert.Equal(t, []float64{0, 0}, ders[2])
	assert.Equal(t, []float64{0, 0}, ders[3])
}

func TestCubicBezierDerivatives(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	kv := Vector{0, 0, 0, 0, 1, 1, 1, 1}
	ders := BasisDerivatives(3, kv, 3, 3, 0)
	// Bernstein polynomials at 0: B' = (-3, 3, 0, 0), B'' = (6, -12, 6, 0), B''' = (-6, 18, -18, 6)
	assert.True(t, cmp.Equal([]float64{1, 0, 0, 0}, ders[0], approx))
	assert.True(t, cmp.Equal([]float64{-3, 3, 0, 0}, ders[1], approx))
	assert.True(t, cmp.Equal([]float64{6, -12, 6, 0}, ders[2], approx))
	assert.True(t, cmp.Equal([]float64{-6, 18, -18, 6}, ders[3], approx))
}

func TestDeBoorKnots(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	kv, err := DeBoorKnots(3, []float64{0, 0.2, 0.5, 0.8, 1})
	require.NoError(t, err)
	want := Vector{0, 0, 0, 0, 0.5, 1, 1, 1, 1}
	assert.True(t, cmp.Equal(want, kv, approx), cmp.Diff(want, kv))
	//
	kv, err = DeBoorKnots(2, []float64{0, 0.1, 0.4, 0.6, 1})
	require.NoError(t, err)
	want = Vector{0, 0, 0, 0.25, 0.5, 1, 1, 1}
	assert.True(t, cmp.Equal(want, kv, approx), cmp.Diff(want, kv))
	//
	_, err = DeBoorKnots(3, []float64{0, 0.5, 1})
	assert.True(t, errors.Is(err, nurbs.ErrDegenerateInput))
}

func TestUniformKnotsAndGreville(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	kv, err := UniformKnots(2, 5)
	require.NoError(t, err)
	want := Vector{0, 0, 0, 1.0 / 3, 2.0 / 3, 1, 1, 1}
	assert.True(t, cmp.Equal(want, kv, approx), cmp.Diff(want, kv))
	g := Greville(2, kv)
	wantG := []float64{0, 1.0 / 6, 0.5, 5.0 / 6, 1}
	assert.True(t, cmp.Equal(wantG, g, approx), cmp.Diff(wantG, g))
	_, err = UniformKnots(3, 2)
	assert.Error(t, err)
}

func TestMultiplicities(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	kv := Vector{0, 0, 0, 0, 0.1, 0.5, 0.5, 0.5, 0.9, 1, 1, 1, 1}
	want := []Multiplicity{{0, 4}, {0.1, 1}, {0.5, 3}, {0.9, 1}, {1, 4}}
	assert.Equal(t, want, kv.Multiplicities())
	assert.Equal(t, 3, kv.Multiplicity(0.5))
	assert.Equal(t, 0, kv.Multiplicity(0.4))
	first, last, ok := kv.Run(0.5)
	assert.True(t, ok)
	assert.Equal(t, 5, first)
	assert.Equal(t, 7, last)
	assert.Equal(t, []float64{0.1, 0.5, 0.9}, kv.InteriorKnots())
	assert.Nil(t, Vector{0, 0, 1, 1}.InteriorKnots())
	assert.Equal(t, []float64{0.5}, kv.Breaks(3))
	assert.Equal(t, []float64{0.1, 0.5, 0.9}, kv.Breaks(1))
	assert.Nil(t, kv.Breaks(4))
	assert.Nil(t, Vector{}.Breaks(2))
}

func TestValidate(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	assert.NoError(t, Vector{0, 0, 0, 1, 1, 1}.Validate(2, 3))
	assert.True(t, errors.Is(Vector{0, 0, 0, 1, 1, 1}.Validate(2, 4), nurbs.ErrInvalidKnot))
	assert.True(t, errors.Is(Vector{0, 0, 0.5, 0.2, 1, 1}.Validate(1, 4), nurbs.ErrInvalidKnot))
	assert.True(t, errors.Is(Vector{0, 0, 0.5, 1, 1, 1}.Validate(2, 3), nurbs.ErrInvalidKnot))
	lo, hi := Vector{0, 0, 0.5, 1, 1}.Domain(1)
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 1.0, hi)
	m := Vector{0, 0, 1, 1}.Mapped(0.5, 1)
	assert.Equal(t, Vector{0.5, 0.5, 1, 1}, m)
}

func TestInsertKnotKeepsCurve(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	kv := Vector{0, 0, 0, 0, 0.3, 0.6, 1, 1, 1, 1}
	ctrl := []vec3.T{{0, 0, 0}, {1, 2, 0}, {2, 3, 1}, {4, 1, 0}, {5, -1, 2}, {6, 0, 0}}
	for _, t0 := range []float64{0.1, 0.3, 0.45, 0.999} {
		nkv, nctrl, err := InsertKnot(3, kv, ctrl, t0, BlendVec)
		require.NoError(t, err)
		require.Len(t, nctrl, len(ctrl)+1)
		require.NoError(t, nkv.Validate(3, len(nctrl)))
		for i := 0; i <= 50; i++ {
			u := float64(i) / 50
			p, q := pointAt(3, kv, ctrl, u), pointAt(3, nkv, nctrl, u)
			assert.True(t, nurbs.Equal(p, q, 1e-9), "t0=%g, t=%g: %v != %v", t0, u, p, q)
		}
	}
	assert.Len(t, kv, 10) // input untouched
}

func TestInsertKnotRejectsEndsAndFullMultiplicity(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	kv := Vector{0, 0, 0, 0.5, 0.5, 1, 1, 1}
	ctrl := make([]vec3.T, 5)
	for _, t0 := range []float64{0, 1, 0.5, math.Inf(1)} {
		_, _, err := InsertKnot(2, kv, ctrl, t0, BlendVec)
		assert.True(t, errors.Is(err, nurbs.ErrInvalidKnot), "t0=%g", t0)
	}
}

func TestRefineKnotsWeighted(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	kv := Vector{0, 0, 0, 1, 1, 1}
	ctrl := []nurbs.WeightedPoint{
		nurbs.Weighted(nurbs.V(1, 0, 0), 1),
		nurbs.Weighted(nurbs.V(1, 1, 0), math.Sqrt2/2),
		nurbs.Weighted(nurbs.V(0, 1, 0), 1),
	}
	nkv, nctrl, err := RefineKnots(2, kv, ctrl, []float64{0.75, 0.25, 0.5}, BlendWeighted)
	require.NoError(t, err)
	want := Vector{0, 0, 0, 0.25, 0.5, 0.75, 1, 1, 1}
	assert.True(t, cmp.Equal(want, nkv, approx), cmp.Diff(want, nkv))
	assert.Len(t, nctrl, 6)
	for _, wp := range nctrl {
		assert.Greater(t, wp.W, 0.0)
	}
}

func TestRefineKnotsSkipsFullMultiplicity(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()
	kv := Vector{0, 0, 0, 0.5, 0.5, 1, 1, 1}
	ctrl := []vec3.T{{0, 0, 0}, {1, 1, 0}, {2, 0, 0}, {3, 1, 0}, {4, 0, 0}}
	nkv, nctrl, err := RefineKnots(2, kv, ctrl, []float64{0.5, 0.25, 0.25, 0.25}, BlendVec)
	require.NoError(t, err)
	assert.Equal(t, Vector{0, 0, 0, 0.25, 0.25, 0.5, 0.5, 1, 1, 1}, nkv)
	assert.Len(t, nctrl, 7)
	for i := 0; i <= 20; i++ {
		u := float64(i) / 20
		p, q := pointAt(2, kv, ctrl, u), pointAt(2, nkv, nctrl, u)
		assert.True(t, nurbs.Equal(p, q, 1e-12), "t=%g: %v != %v", u, p, q)
	}
}
