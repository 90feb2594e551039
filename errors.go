package nurbs

import "errors"

var (
	// ErrDegenerateInput indicates coincident points, a zero chord length or
	// a zero radius/sweep, i.e. geometry a curve cannot be fitted to.
	ErrDegenerateInput = errors.New("degenerate input geometry")
	// ErrSingularSystem indicates a vanishing pivot in a collocation system.
	ErrSingularSystem = errors.New("singular interpolation system")
	// ErrIndexOutOfRange indicates a pole (or row/column) index outside the
	// current pole array.
	ErrIndexOutOfRange = errors.New("pole index out of range")
	// ErrUnsupportedKnuckle indicates a knuckle segment with too few
	// constraints for the curve's degree.
	ErrUnsupportedKnuckle = errors.New("unsupported degree/knuckle combination")
	// ErrTooFewPoles indicates a query on a curve without enough poles.
	ErrTooFewPoles = errors.New("too few poles")
	// ErrParameterOutOfRange indicates a curve parameter outside [0,1] or NaN.
	ErrParameterOutOfRange = errors.New("parameter out of range")
	// ErrInvalidKnot indicates a knot insertion at a curve end or beyond the
	// maximum multiplicity.
	ErrInvalidKnot = errors.New("invalid knot")
	// ErrInvalidPoint indicates a point coordinate containing NaN/Inf.
	ErrInvalidPoint = errors.New("invalid point coordinate")
)
