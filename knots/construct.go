package knots

import (
	"fmt"

	"github.com/npillmayer/nurbs"
)

// DeBoorKnots creates a clamped knot vector for interpolating points at
// parameters params (non-decreasing, in [0,1]). Interior knots are the
// averages of degree consecutive parameters.
func DeBoorKnots(degree int, params []float64) (Vector, error) {
	n := len(params)
	if degree < 1 || n < degree+1 {
		tracer().Errorf("cannot average %d parameters for degree %d", n, degree)
		return nil, fmt.Errorf("%w: %d parameters for degree %d", nurbs.ErrDegenerateInput, n, degree)
	}
	kv := make(Vector, n+degree+1)
	for i := 0; i <= degree; i++ {
		kv[i] = 0
		kv[n+i] = 1
	}
	for j := 1; j < n-degree; j++ {
		sum := 0.0
		for i := j; i < j+degree; i++ {
			sum += params[i]
		}
		kv[j+degree] = sum / float64(degree)
	}
	return kv, nil
}

// UniformKnots creates a clamped knot vector with equally spaced interior
// knots, for n control points.
func UniformKnots(degree, n int) (Vector, error) {
	if degree < 1 || n < degree+1 {
		return nil, fmt.Errorf("%w: %d control points for degree %d", nurbs.ErrDegenerateInput, n, degree)
	}
	kv := make(Vector, n+degree+1)
	segs := float64(n - degree)
	for i := 0; i <= degree; i++ {
		kv[n+i] = 1
	}
	for j := 1; j < n-degree; j++ {
		kv[j+degree] = float64(j) / segs
	}
	return kv, nil
}

// Greville returns the Greville abscissae of kv, i.e. for every control
// point the average of the degree knots following it. These are the
// parameters at which a curve is "closest" to its control points.
func Greville(degree int, kv Vector) []float64 {
	n := len(kv) - degree - 1
	if n <= 0 {
		return nil
	}
	g := make([]float64, n)
	for i := 0; i < n; i++ {
		if degree == 0 {
			g[i] = kv[i]
			continue
		}
		sum := 0.0
		for j := i + 1; j <= i+degree; j++ {
			sum += kv[j]
		}
		g[i] = sum / float64(degree)
	}
	return g
}
