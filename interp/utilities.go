package interp

import (
	"fmt"
	"strings"

	"github.com/npillmayer/nurbs"
)

// AsString is a debugging helper, listing poles with their constraints and,
// if r is non-nil, the parameters, knots and control points found by
// interpolation.
//
//	(0,0,0){1,0,0} @0 .. (1,1,0) @0.5 .. (2,0,0)! @1
//	  degree 2, knots [0 0 0 0.5 1 1 1]
//	  controls (0,0,0) (0.5,1.5,0) ...
//
// A slope is printed in braces after its pole, a knuckle is marked by '!'.
func AsString(poles []Pole, r *Result) string {
	var sb strings.Builder
	for i, pole := range poles {
		if i > 0 {
			sb.WriteString(" .. ")
		}
		sb.WriteString(nurbs.PtString(pole.Point))
		if pole.HasSlope {
			sb.WriteString("{" + strings.Trim(nurbs.PtString(pole.Slope), "()") + "}")
		}
		if pole.Knuckle {
			sb.WriteString("!")
		}
		if r != nil && i < len(r.Params) {
			fmt.Fprintf(&sb, " @%.4g", r.Params[i])
		}
	}
	if r == nil {
		return sb.String()
	}
	fmt.Fprintf(&sb, "\n  degree %d, knots [", r.Degree)
	for i, k := range r.Knots {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%.4g", k)
	}
	sb.WriteString("]\n  controls")
	for _, c := range r.Controls {
		sb.WriteString(" " + nurbs.PtString(c.Cartesian()))
	}
	return sb.String()
}
