package knots

import (
	"fmt"
	"sort"

	"github.com/npillmayer/nurbs"
	"github.com/ungerik/go3d/float64/vec3"
)

// BlendFunc blends two control points: (1-alpha)·p + alpha·q.
type BlendFunc[P any] func(p, q P, alpha float64) P

// InsertKnot inserts t once into the knot vector of a curve of degree p with
// control points ctrl (Boehm's algorithm). The curve is geometrically
// unchanged. New slices are returned; kv and ctrl are not modified.
//
// Knots may not be inserted at the curve ends, nor beyond multiplicity
// degree. Both cases return an error wrapping nurbs.ErrInvalidKnot.
func InsertKnot[P any](degree int, kv Vector, ctrl []P, t float64, blend BlendFunc[P]) (Vector, []P, error) {
	n := len(ctrl)
	if len(kv) != n+degree+1 {
		return nil, nil, fmt.Errorf("%w: %d knots for %d control points", nurbs.ErrInvalidKnot, len(kv), n)
	}
	if t <= kv[degree] || t >= kv[n] {
		return nil, nil, fmt.Errorf("%w: cannot insert at curve end t=%g", nurbs.ErrInvalidKnot, t)
	}
	s := kv.Multiplicity(t)
	if s >= degree {
		return nil, nil, fmt.Errorf("%w: knot %g has multiplicity %d", nurbs.ErrInvalidKnot, t, s)
	}
	k := FindSpan(degree, kv, n, t)
	nkv := make(Vector, 0, len(kv)+1)
	nkv = append(nkv, kv[:k+1]...)
	nkv = append(nkv, t)
	nkv = append(nkv, kv[k+1:]...)
	q := make([]P, n+1)
	for i := 0; i <= k-degree; i++ {
		q[i] = ctrl[i]
	}
	for i := k - s; i < n; i++ {
		q[i+1] = ctrl[i]
	}
	for i := k - degree + 1; i <= k-s; i++ {
		alpha := (t - kv[i]) / (kv[i+degree] - kv[i])
		q[i] = blend(ctrl[i-1], ctrl[i], alpha)
	}
	tracer().Debugf("inserted knot %g in span %d", t, k)
	return nkv, q, nil
}

// RefineKnots inserts every knot of ts, in ascending order. Knots which
// already have multiplicity degree are skipped, as inserting them would not
// change the curve.
func RefineKnots[P any](degree int, kv Vector, ctrl []P, ts []float64, blend BlendFunc[P]) (Vector, []P, error) {
	sorted := make([]float64, len(ts))
	copy(sorted, ts)
	sort.Float64s(sorted)
	var err error
	for _, t := range sorted {
		if kv.Multiplicity(t) >= degree {
			tracer().Debugf("knot %g has full multiplicity, skipped", t)
			continue
		}
		if kv, ctrl, err = InsertKnot(degree, kv, ctrl, t, blend); err != nil {
			return nil, nil, err
		}
	}
	return kv, ctrl, nil
}

// BlendVec blends cartesian points, for use with InsertKnot.
var BlendVec BlendFunc[vec3.T] = nurbs.Lerp

// BlendWeighted blends weighted points, for use with InsertKnot.
var BlendWeighted BlendFunc[nurbs.WeightedPoint] = nurbs.Blend
