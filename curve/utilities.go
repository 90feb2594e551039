package curve

import (
	"fmt"
	"strings"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/interp"
	"github.com/ungerik/go3d/float64/vec3"
)

// AsString is a debugging helper, listing the poles of a curve with their
// constraints. If the curve can be interpolated, its parameters, knots and
// control points are listed as well. A failing interpolation is appended as
// a remark.
func AsString(c *Curve) string {
	if c == nil {
		return "<nil curve>"
	}
	head := fmt.Sprintf("curve degree %d/%d, %s:\n", c.Degree(), c.degree, c.conf.Parameterization)
	if err := c.EnsureFresh(); err != nil {
		return head + interp.AsString(c.poles, nil) + "\n  ! " + err.Error()
	}
	return head + interp.AsString(c.poles, c.result)
}

// polylineString lists points as a polyline, "(x,y,z) -- (x,y,z) -- …".
func polylineString(pts []vec3.T) string {
	var sb strings.Builder
	for i, p := range pts {
		if i > 0 {
			sb.WriteString(" -- ")
		}
		sb.WriteString(nurbs.PtString(p))
	}
	return sb.String()
}

func (bs *BSpline) String() string {
	return fmt.Sprintf("B-spline degree %d: %s", bs.Degree(), polylineString(bs.ctrl))
}

func (bz *Bezier) String() string {
	return fmt.Sprintf("Bézier degree %d: %s", bz.Degree(), polylineString(bz.ctrl))
}
