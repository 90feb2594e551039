/*
Package lineq solves the dense linear systems arising from B-spline
interpolation.

Collocation matrices are square, at most a few hundred rows, and are solved
for several right-hand sides (the x, y, z and w channels of control points).
The solver therefore decomposes once (Crout's method with implicit row scaling
and partial pivoting) and substitutes per channel. Matrix storage is
gonum's mat.Dense.

See

	Numerical Recipes in C, 2nd ed., chap. 2.3 -- Press, Teukolsky,
	Vetterling, Flannery. Cambridge University Press 1992

# BSD License

# Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package lineq

import (
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"gonum.org/v1/gonum/mat"
)

// T traces to the global equations tracer.
func T() tracing.Trace {
	return gtrace.EquationsTracer
}

var (
	// ErrNotSquare indicates a matrix which cannot be decomposed.
	ErrNotSquare = errors.New("matrix is not square")
	// ErrDimensionMismatch indicates a right-hand side of wrong length.
	ErrDimensionMismatch = errors.New("right-hand side does not match matrix dimension")
)

// PivotTolerance is the threshold for scaled pivots. A pivot smaller than
// PivotTolerance relative to the largest entry of its row is considered zero.
var PivotTolerance = 1e-13

// LU is the LU decomposition of a row-wise permutation of a square matrix.
// L (without its unit diagonal) and U are stored in a single matrix.
type LU struct {
	lu     *mat.Dense // combined factors, owned by LU
	pivots []int      // row interchanges
	parity float64    // +1 or -1, for an even or odd number of interchanges
	n      int
}

// Decompose computes the LU decomposition of a. a is copied and will not be
// modified. If a is singular, Decompose returns an error wrapping
// nurbs.ErrSingularSystem.
func Decompose(a mat.Matrix) (*LU, error) {
	r, c := a.Dims()
	if r != c || r == 0 {
		T().Errorf("cannot decompose %dx%d matrix", r, c)
		return nil, fmt.Errorf("%w: %dx%d", ErrNotSquare, r, c)
	}
	n := r
	lu := &LU{
		lu:     mat.DenseCopyOf(a),
		pivots: make([]int, n),
		parity: 1.0,
		n:      n,
	}
	vv := make([]float64, n) // implicit scaling of each row
	for i := 0; i < n; i++ {
		big := 0.0
		for _, x := range lu.lu.RawRowView(i) {
			big = math.Max(big, math.Abs(x))
		}
		if big == 0 {
			T().P("row", i).Errorf("zero row in %dx%d system", n, n)
			return nil, fmt.Errorf("%w: row %d is zero", nurbs.ErrSingularSystem, i)
		}
		vv[i] = 1.0 / big
	}
	for j := 0; j < n; j++ { // loop over columns
		for i := 0; i < j; i++ { // upper part, β(i,j)
			row := lu.lu.RawRowView(i)
			sum := row[j]
			for k := 0; k < i; k++ {
				sum -= row[k] * lu.lu.At(k, j)
			}
			row[j] = sum
		}
		big, imax := 0.0, j
		for i := j; i < n; i++ { // lower part, α(i,j), and search for pivot
			row := lu.lu.RawRowView(i)
			sum := row[j]
			for k := 0; k < j; k++ {
				sum -= row[k] * lu.lu.At(k, j)
			}
			row[j] = sum
			if dum := vv[i] * math.Abs(sum); dum >= big {
				big, imax = dum, i
			}
		}
		if big <= PivotTolerance {
			T().P("column", j).Errorf("vanishing pivot in %dx%d system", n, n)
			return nil, fmt.Errorf("%w: vanishing pivot in column %d", nurbs.ErrSingularSystem, j)
		}
		if j != imax { // interchange rows
			rmax, rj := lu.lu.RawRowView(imax), lu.lu.RawRowView(j)
			for k := 0; k < n; k++ {
				rmax[k], rj[k] = rj[k], rmax[k]
			}
			lu.parity = -lu.parity
			vv[imax] = vv[j]
		}
		lu.pivots[j] = imax
		if j != n-1 {
			dum := 1.0 / lu.lu.At(j, j)
			for i := j + 1; i < n; i++ {
				lu.lu.Set(i, j, lu.lu.At(i, j)*dum)
			}
		}
	}
	T().Debugf("decomposed %dx%d system", n, n)
	return lu, nil
}

// N returns the dimension of the decomposed system.
func (lu *LU) N() int {
	return lu.n
}

// Pivots returns the row interchanges of the decomposition: during
// decomposition, row j has been swapped with row Pivots()[j].
func (lu *LU) Pivots() []int {
	p := make([]int, lu.n)
	copy(p, lu.pivots)
	return p
}

// Det returns the determinant of the decomposed matrix.
func (lu *LU) Det() float64 {
	d := lu.parity
	for j := 0; j < lu.n; j++ {
		d *= lu.lu.At(j, j)
	}
	return d
}

// Solve solves A·x = b by forward and back substitution. b is not modified,
// the solution is returned as a new slice.
func (lu *LU) Solve(b []float64) ([]float64, error) {
	if len(b) != lu.n {
		T().Errorf("rhs of length %d for %dx%d system", len(b), lu.n, lu.n)
		return nil, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(b), lu.n)
	}
	x := make([]float64, lu.n)
	copy(x, b)
	ii := -1 // first non-vanishing element of b
	for i := 0; i < lu.n; i++ {
		ip := lu.pivots[i]
		sum := x[ip]
		x[ip] = x[i]
		if ii >= 0 {
			row := lu.lu.RawRowView(i)
			for j := ii; j < i; j++ {
				sum -= row[j] * x[j]
			}
		} else if sum != 0 {
			ii = i
		}
		x[i] = sum
	}
	for i := lu.n - 1; i >= 0; i-- {
		row := lu.lu.RawRowView(i)
		sum := x[i]
		for j := i + 1; j < lu.n; j++ {
			sum -= row[j] * x[j]
		}
		x[i] = sum / row[i]
	}
	return x, nil
}

// SolvePoints solves A·X = B for a vector-valued right-hand side of weighted
// points. Channels x, y, z and w are solved independently.
func (lu *LU) SolvePoints(rhs []nurbs.WeightedPoint) ([]nurbs.WeightedPoint, error) {
	if len(rhs) != lu.n {
		T().Errorf("rhs of length %d for %dx%d system", len(rhs), lu.n, lu.n)
		return nil, fmt.Errorf("%w: %d != %d", ErrDimensionMismatch, len(rhs), lu.n)
	}
	sol := make([]nurbs.WeightedPoint, lu.n)
	b := make([]float64, lu.n)
	for ch := 0; ch < 4; ch++ {
		for i, wp := range rhs {
			b[i] = wp.Channel(ch)
		}
		x, err := lu.Solve(b)
		if err != nil {
			return nil, err
		}
		for i := range sol {
			sol[i].SetChannel(ch, x[i])
		}
	}
	return sol, nil
}

// SolvePoints decomposes a and solves for a vector-valued right-hand side.
func SolvePoints(a mat.Matrix, rhs []nurbs.WeightedPoint) ([]nurbs.WeightedPoint, error) {
	lu, err := Decompose(a)
	if err != nil {
		return nil, err
	}
	return lu.SolvePoints(rhs)
}

// === Utilities =============================================================

// Dump is a debugging helper to dump the decomposition.
func (lu *LU) Dump() {
	fmt.Println("----------------------------------------------------------------------")
	fmt.Printf("LU decomposition %dx%d, det = %g                                 LEQ\n",
		lu.n, lu.n, lu.Det())
	for i := 0; i < lu.n; i++ {
		fmt.Printf("\t%d <-> %d:", i, lu.pivots[i])
		for _, x := range lu.lu.RawRowView(i) {
			fmt.Printf(" %8.4f", x)
		}
		fmt.Println()
	}
	fmt.Println("----------------------------------------------------------------------")
}
