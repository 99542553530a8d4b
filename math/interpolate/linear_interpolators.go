package interpolate

import (
	"fmt"
	"math"
)

// searcher locates the interval of a sorted sequence of knots which contains
// a given point. Knots may be stored explicitly or described by a uniform
// spacing.
type searcher struct {
	xs   []float64
	unif bool
	incr bool

	x0, dx float64
	n      int
}

func (s *searcher) init(xs []float64) {
	if len(xs) < 2 {
		panic(fmt.Sprintf("Need at least two knots, but got %d.", len(xs)))
	}
	s.xs = xs
	s.n = len(xs)
	s.incr = xs[1] > xs[0]
	for i := 0; i < len(xs)-1; i++ {
		if (xs[i+1] > xs[i]) != s.incr {
			panic("Knots are not strictly monotonic.")
		}
	}
}

func (s *searcher) unifInit(x0, dx float64, n int) {
	if n < 2 {
		panic(fmt.Sprintf("Need at least two knots, but got %d.", n))
	} else if dx == 0 {
		panic("Knot spacing must be non-zero.")
	}
	s.unif = true
	s.x0, s.dx, s.n = x0, dx, n
	s.incr = dx > 0
}

// val returns the position of the i-th knot.
func (s *searcher) val(i int) float64 {
	if s.unif {
		return s.x0 + float64(i)*s.dx
	}
	return s.xs[i]
}

// inRange returns true if x lies between the first and last knots.
func (s *searcher) inRange(x float64) bool {
	lo, hi := s.val(0), s.val(s.n-1)
	if !s.incr {
		lo, hi = hi, lo
	}
	return x >= lo && x <= hi
}

// search returns the index of the lower knot of the interval containing x.
// The returned index is always in [0, n-2], so the last knot maps onto the
// final interval.
func (s *searcher) search(x float64) int {
	if !s.inRange(x) {
		panic(fmt.Sprintf(
			"Point %g out of interpolation range [%g, %g].",
			x, s.val(0), s.val(s.n-1),
		))
	}

	if s.unif {
		i := int(math.Floor((x - s.x0) / s.dx))
		if i < 0 {
			i = 0
		} else if i > s.n-2 {
			i = s.n - 2
		}
		return i
	}

	lo, hi := 0, s.n-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if s.incr == (x >= s.xs[mid]) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return lo
}

// Linear is a linear interpolator.
type Linear struct {
	xs   searcher
	vals []float64
}

// NewUniformLinear creates a linear interplator where a uniformly spaced
// sequence of x values starting at x0 and separated by dx and whose values are
// given by vals.
//
// Lookups will be O(1).
func NewUniformLinear(x0, dx float64, vals []float64) *Linear {
	lin := &Linear{}
	lin.xs.unifInit(x0, dx, len(vals))
	lin.vals = vals
	return lin
}

// Eval returns the interpolated value at x. A knot evaluates to its own value
// exactly.
//
// Eval panics if called on a values outside the supplied range on inputs.
func (lin *Linear) Eval(x float64) float64 {
	i1 := lin.xs.search(x)
	i2 := i1 + 1
	x1, x2 := lin.xs.val(i1), lin.xs.val(i2)
	v1, v2 := lin.vals[i1], lin.vals[i2]

	return ((v2-v1)/(x2-x1))*(x-x1) + v1
}

// InRange returns true if x can be passed to Eval.
func (lin *Linear) InRange(x float64) bool { return lin.xs.inRange(x) }

// Knots returns the number of knots in the interpolator.
func (lin *Linear) Knots() int { return lin.xs.n }

// Val returns the value stored at the i-th knot.
func (lin *Linear) Val(i int) float64 { return lin.vals[i] }
