package interp

import (
	"github.com/npillmayer/nurbs"
	"github.com/ungerik/go3d/float64/vec3"
)

// Interpolate finds a curve of degree min(degree, len(poles)-1) through
// poles. The interpolation mode depends on the constraints present: interior
// knuckles segment the curve, slopes add tangent constraints, otherwise every
// pole contributes a single equation.
//
// A knuckle at the first or last pole does not segment the curve; its
// direction, if any, acts as the end tangent unless the pole carries a slope.
func Interpolate(degree int, poles []Pole, method nurbs.Parameterization) (*Result, error) {
	if err := Validate(poles); err != nil {
		tracer().Errorf("cannot interpolate: %v", err)
		return nil, err
	}
	p := EffectiveDegree(degree, len(poles))
	for i := 1; i < len(poles)-1; i++ {
		if poles[i].Knuckle {
			return interpolateSegmented(p, poles, method)
		}
	}
	return interpolateGlobal(p, poles, method)
}

// endSlopes collects the tangent constraints for a curve without interior
// knuckles.
func endSlopes(poles []Pole) ([]vec3.T, []bool, int) {
	n := len(poles)
	slopes := make([]vec3.T, n)
	has := make([]bool, n)
	cnt := 0
	for i, pole := range poles {
		if pole.HasSlope {
			slopes[i], has[i] = pole.Slope, true
		} else if (i == 0 || i == n-1) && pole.HasKnuckleDir() {
			slopes[i], has[i] = pole.KnuckleDir, true
		}
		if has[i] {
			cnt++
		}
	}
	return slopes, has, cnt
}

// interpolateGlobal interpolates poles in a single piece, honouring slopes.
func interpolateGlobal(p int, poles []Pole, method nurbs.Parameterization) (*Result, error) {
	n := len(poles)
	params, err := Parameterize(points(poles), method)
	if err != nil {
		return nil, err
	}
	slopes, has, cnt := endSlopes(poles)
	kv, err := TangentKnots(p, params, has)
	if err != nil {
		return nil, err
	}
	rows := make([]constraint, 0, n+cnt)
	for i, pole := range poles {
		rows = append(rows, pointAt(params[i], pole.Point))
		if !has[i] {
			continue
		}
		switch i {
		case 0:
			rows = append(rows, derivativeAt(rightDiffRow, 0, slopes[i]))
		case n - 1:
			rows = append(rows, derivativeAt(leftDiffRow, 1, slopes[i]))
		default:
			rows = append(rows, derivativeAt(derivRow, params[i], slopes[i]))
		}
	}
	mode := "unconstrained"
	if cnt > 0 {
		mode = "tangent"
	}
	tracer().P("mode", mode).Debugf("%d poles, %d slopes, degree %d", n, cnt, p)
	ctrl, err := solve(p, kv, rows)
	if err != nil {
		return nil, err
	}
	return &Result{Degree: p, Params: params, Knots: kv, Controls: ctrl}, nil
}
