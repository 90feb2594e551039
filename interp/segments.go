package interp

import (
	"fmt"

	"github.com/npillmayer/nurbs"
	"github.com/npillmayer/nurbs/knots"
	"github.com/ungerik/go3d/float64/vec3"
)

// A segment view onto a parent pole sequence. Segments are delimited by
// knuckles or by the ends of the sequence; neighbouring segments share the
// knuckle pole.
type segment struct {
	whole []Pole // parent pole sequence
	start int    // first index within parent
	end   int    // last index within parent
	index int    // position of the segment within the parent
	count int    // number of segments of the parent
}

func (sg *segment) N() int {
	return sg.end - sg.start + 1
}

func (sg *segment) pmap(i int) int {
	return i + sg.start
}

func (sg *segment) Pole(i int) Pole {
	return sg.whole[sg.pmap(i)]
}

func (sg *segment) points() []vec3.T {
	return points(sg.whole[sg.start : sg.end+1])
}

// startsAtKnuckle is a predicate: is the first pole of sg a knuckle joining
// it to the previous segment?
func (sg *segment) startsAtKnuckle() bool {
	return sg.index > 0
}

// endsAtKnuckle is a predicate: is the last pole of sg a knuckle joining it
// to the next segment?
func (sg *segment) endsAtKnuckle() bool {
	return sg.index < sg.count-1
}

// splitSegments splits poles at every interior knuckle.
func splitSegments(poles []Pole) []*segment {
	var segs []*segment
	start := 0
	for i := 1; i < len(poles); i++ {
		if poles[i].Knuckle && i < len(poles)-1 || i == len(poles)-1 {
			segs = append(segs, &segment{whole: poles, start: start, end: i, index: len(segs)})
			start = i
		}
	}
	for _, sg := range segs {
		sg.count = len(segs)
	}
	return segs
}

// localSlopes collects the tangent constraints of a segment, in the local
// parameter of the segment. Slopes are given relative to the chord length of
// the whole pole sequence and are rescaled to the chord length of sg.
//
// At the first pole of a segment starting at a knuckle the pole's slope is
// the outgoing tangent; at the last pole of a segment ending at a knuckle the
// knuckle direction is the incoming tangent.
func (sg *segment) localSlopes(scale float64) ([]vec3.T, []bool) {
	m := sg.N()
	slopes := make([]vec3.T, m)
	has := make([]bool, m)
	for i := 0; i < m; i++ {
		pole := sg.Pole(i)
		isEnd := i == m-1 && sg.endsAtKnuckle()
		if !isEnd && pole.HasSlope {
			slopes[i], has[i] = pole.Slope.Scaled(scale), true
		} else if isEnd && pole.HasKnuckleDir() {
			slopes[i], has[i] = pole.KnuckleDir.Scaled(scale), true
		} else if !isEnd && pole.HasKnuckleDir() && (sg.pmap(i) == 0 || sg.pmap(i) == len(sg.whole)-1) {
			slopes[i], has[i] = pole.KnuckleDir.Scaled(scale), true
		}
	}
	return slopes, has
}

// deriveSlopes fills missing tangents at the ends of sg flagged in need. The
// tangents are taken from a local fit of the segment, scaled to its chord
// length.
func (sg *segment) deriveSlopes(p int, method nurbs.Parameterization, slopes []vec3.T, has []bool,
	need [2]bool) error {
	//
	m := sg.N()
	local := make([]Pole, m)
	for i := 0; i < m; i++ {
		local[i] = P(sg.Pole(i).Point)
		if has[i] {
			local[i] = local[i].WithSlope(slopes[i])
		}
	}
	fit, err := interpolateGlobal(EffectiveDegree(p, m), local, method)
	if err != nil {
		return err
	}
	l := ChordLength(sg.points())
	if need[0] {
		u := nurbs.Unit(fit.Derivatives(0, 1)[1])
		slopes[0], has[0] = u.Scaled(l), true
	}
	if need[1] {
		u := nurbs.Unit(fit.Derivatives(1, 1)[1])
		slopes[m-1], has[m-1] = u.Scaled(l), true
	}
	tracer().P("segment", sg.index).Debugf("derived tangents start=%v end=%v", need[0], need[1])
	return nil
}

func countTrue(flags []bool) int {
	cnt := 0
	for _, f := range flags {
		if f {
			cnt++
		}
	}
	return cnt
}

// interpolateSegmented interpolates poles with interior knuckles.
//
// Segment s of S is mapped to the parameter range [s/S, (s+1)/S]. Junction
// knots have multiplicity p, so the curve interpolates the shared knuckle
// control point with position continuity only. Tangents on either side of a
// knuckle are always constrained; missing ones are derived from a local fit.
// If a segment's end at the curve boundary has too few constraints for
// degree p, its end tangent is derived as well.
func interpolateSegmented(p int, poles []Pole, method nurbs.Parameterization) (*Result, error) {
	segs := splitSegments(poles)
	S := float64(len(segs))
	total := ChordLength(points(poles))
	gkv := make(knots.Vector, p+1, len(poles)*2+p+1)
	params := make([]float64, len(poles))
	var rows []constraint
	for _, sg := range segs {
		m := sg.N()
		s := float64(sg.index)
		pts := sg.points()
		local, err := Parameterize(pts, method)
		if err != nil {
			return nil, err
		}
		slopes, has := sg.localSlopes(ChordLength(pts) / total)
		need := [2]bool{sg.startsAtKnuckle() && !has[0], sg.endsAtKnuckle() && !has[m-1]}
		unknowns := m + countTrue(has) + countTrue(need[:])
		if unknowns < p+1 && !has[0] && !need[0] {
			need[0] = true
			unknowns++
		}
		if unknowns < p+1 && !has[m-1] && !need[1] {
			need[1] = true
			unknowns++
		}
		if unknowns < p+1 {
			tracer().P("segment", sg.index).Errorf("%d unknowns for degree %d", unknowns, p)
			return nil, fmt.Errorf("%w: segment %d of poles %d..%d has %d unknowns, degree %d needs %d",
				nurbs.ErrUnsupportedKnuckle, sg.index, sg.start, sg.end, unknowns, p, p+1)
		}
		if need[0] || need[1] {
			if err := sg.deriveSlopes(p, method, slopes, has, need); err != nil {
				return nil, err
			}
		}
		lkv, err := TangentKnots(p, local, has)
		if err != nil {
			return nil, err
		}
		for _, k := range lkv[p+1 : len(lkv)-p-1] { // interior knots, mapped to [s/S,(s+1)/S]
			gkv = append(gkv, (s+k)/S)
		}
		junction, mult := float64(sg.index+1)/S, p
		if !sg.endsAtKnuckle() {
			junction, mult = 1, p+1
		}
		for j := 0; j < mult; j++ {
			gkv = append(gkv, junction)
		}
		for i := 0; i < m; i++ {
			t := (s + local[i]) / S
			if i == 0 {
				t = s / S
			} else if i == m-1 {
				t = junction
			}
			if i > 0 || !sg.startsAtKnuckle() { // junction pole already has a row
				params[sg.pmap(i)] = t
				rows = append(rows, pointAt(t, sg.Pole(i).Point))
			}
			if !has[i] {
				continue
			}
			d := slopes[i].Scaled(S) // dC/dt = S · dC/du
			switch i {
			case 0:
				rows = append(rows, derivativeAt(rightDiffRow, t, d))
			case m - 1:
				rows = append(rows, derivativeAt(leftDiffRow, t, d))
			default:
				rows = append(rows, derivativeAt(derivRow, t, d))
			}
		}
	}
	tracer().P("mode", "knuckle").Debugf("%d poles in %d segments, degree %d", len(poles), len(segs), p)
	ctrl, err := solve(p, gkv, rows)
	if err != nil {
		return nil, err
	}
	return &Result{Degree: p, Params: params, Knots: gkv, Controls: ctrl}, nil
}
