package knots

import (
	"math"

	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/utils"
)

// Tolerance is the distance below which two knots are considered equal when
// counting multiplicities.
var Tolerance = 1e-12

// Multiplicity is a distinct knot value together with its number of
// occurences in a knot vector.
type Multiplicity struct {
	Knot float64
	Mult int
}

// distinct collects the distinct knots of kv in a sorted map: knot -> count.
func (kv Vector) distinct() *treemap.Map {
	m := treemap.NewWith(utils.Float64Comparator)
	for _, k := range kv {
		if fk, v := m.Floor(k); fk != nil && k-fk.(float64) <= Tolerance {
			m.Put(fk, v.(int)+1)
			continue
		}
		m.Put(k, 1)
	}
	return m
}

// Multiplicities returns the distinct knots of kv in ascending order,
// together with their multiplicities.
func (kv Vector) Multiplicities() []Multiplicity {
	m := kv.distinct()
	mults := make([]Multiplicity, 0, m.Size())
	it := m.Iterator()
	for it.Next() {
		mults = append(mults, Multiplicity{Knot: it.Key().(float64), Mult: it.Value().(int)})
	}
	return mults
}

// Multiplicity returns how often t occurs in kv.
func (kv Vector) Multiplicity(t float64) int {
	first, last, ok := kv.Run(t)
	if !ok {
		return 0
	}
	return last - first + 1
}

// Run returns the index range [first,last] of the knots equal to t.
// If t is not a knot of kv, ok is false.
func (kv Vector) Run(t float64) (first, last int, ok bool) {
	first = -1
	for i, k := range kv {
		if math.Abs(k-t) <= Tolerance {
			if first < 0 {
				first = i
			}
			last = i
		} else if k > t {
			break
		}
	}
	return first, last, first >= 0
}

// Breaks returns the interior knots of kv with multiplicity degree or more,
// in ascending order. A curve of that degree is C0 only at these knots.
func (kv Vector) Breaks(degree int) []float64 {
	if len(kv) == 0 {
		return nil
	}
	lo, hi := kv[0]+Tolerance, kv[len(kv)-1]-Tolerance
	var breaks []float64
	it := kv.distinct().Iterator()
	for it.Next() {
		k := it.Key().(float64)
		if k > lo && k < hi && it.Value().(int) >= degree {
			breaks = append(breaks, k)
		}
	}
	return breaks
}

// InteriorKnots returns the distinct knots of kv strictly inside its first
// and last knot.
func (kv Vector) InteriorKnots() []float64 {
	m := kv.distinct()
	if m.Size() <= 2 {
		return nil
	}
	keys := m.Keys()
	interior := make([]float64, 0, len(keys)-2)
	for _, k := range keys[1 : len(keys)-1] {
		interior = append(interior, k.(float64))
	}
	return interior
}
