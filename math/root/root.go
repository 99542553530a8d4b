/*
root contains bracketing root finders. A solver is handed a function and an
interval [lo, hi] over which the function changes sign and shrinks that
bracket until its width falls below an absolute tolerance.

Solvers carry no per-call state, so a single value may be shared between
goroutines.
*/
package root

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoBracket is returned when the initial interval does not contain a
	// sign change or is not a valid interval.
	ErrNoBracket = errors.New("root: interval does not bracket a root")
	// ErrNoConvergence is returned when the iteration limit is reached before
	// the bracket is narrow enough.
	ErrNoConvergence = errors.New("root: no convergence")
)

const (
	// DefaultMaxIter is the iteration cap used when MaxIter is zero.
	DefaultMaxIter = 100
	// DefaultEpsAbs is the bracket width used when EpsAbs is zero.
	DefaultEpsAbs = 1e-7
)

// Func is a scalar function of one variable.
type Func func(x float64) float64

// Solver finds a root of f inside [lo, hi].
type Solver interface {
	Solve(f Func, lo, hi float64) (float64, error)
}

var (
	_ Solver = Brent{}
	_ Solver = Bisection{}
)

// TestInterval returns true if the bracket [lo, hi] is narrower than
// epsAbs + epsRel * min(|lo|, |hi|). Brackets straddling zero use the
// absolute tolerance only.
func TestInterval(lo, hi, epsAbs, epsRel float64) bool {
	absLo, absHi := math.Abs(lo), math.Abs(hi)

	var minAbs float64
	if (lo > 0 && hi > 0) || (lo < 0 && hi < 0) {
		minAbs = math.Min(absLo, absHi)
	}
	return math.Abs(hi-lo) < epsAbs+epsRel*minAbs
}

func sameSign(a, b float64) bool {
	return (a > 0 && b > 0) || (a < 0 && b < 0)
}

// checkBracket validates the interval and returns the function values at
// its ends.
func checkBracket(f Func, lo, hi float64) (flo, fhi float64, err error) {
	if math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
		return 0, 0, fmt.Errorf("%w: [%g, %g] is not an interval", ErrNoBracket, lo, hi)
	}
	flo, fhi = f(lo), f(hi)
	if math.IsNaN(flo) || math.IsNaN(fhi) {
		return 0, 0, fmt.Errorf("%w: f is undefined at an endpoint", ErrNoBracket)
	}
	if sameSign(flo, fhi) {
		return 0, 0, fmt.Errorf(
			"%w: f(%g) = %g, f(%g) = %g", ErrNoBracket, lo, flo, hi, fhi,
		)
	}
	return flo, fhi, nil
}

func limits(maxIter int, epsAbs float64) (int, float64) {
	if maxIter <= 0 {
		maxIter = DefaultMaxIter
	}
	if epsAbs <= 0 {
		epsAbs = DefaultEpsAbs
	}
	return maxIter, epsAbs
}

// Bisection halves the bracket on every iteration.
type Bisection struct {
	MaxIter int
	EpsAbs  float64
}

// Solve returns the midpoint of the final bracket.
func (s Bisection) Solve(f Func, lo, hi float64) (float64, error) {
	maxIter, eps := limits(s.MaxIter, s.EpsAbs)

	flo, _, err := checkBracket(f, lo, hi)
	if err != nil {
		return 0, err
	}

	for iter := 0; iter < maxIter; iter++ {
		mid := lo + (hi-lo)/2
		fmid := f(mid)

		if fmid == 0 {
			return mid, nil
		} else if sameSign(flo, fmid) {
			lo, flo = mid, fmid
		} else {
			hi = mid
		}

		if TestInterval(lo, hi, eps, 0) {
			return lo + (hi-lo)/2, nil
		}
	}
	return 0, fmt.Errorf("%w after %d iterations", ErrNoConvergence, maxIter)
}

// Brent combines inverse quadratic interpolation and the secant method with
// bisection as a fallback, so it keeps the guaranteed convergence of
// bisection while usually converging much faster.
type Brent struct {
	MaxIter int
	EpsAbs  float64
}

// Solve returns the best estimate of the root once the bracket is narrower
// than EpsAbs.
func (s Brent) Solve(f Func, lo, hi float64) (float64, error) {
	maxIter, eps := limits(s.MaxIter, s.EpsAbs)

	flo, fhi, err := checkBracket(f, lo, hi)
	if err != nil {
		return 0, err
	}

	st := brentState{
		a: lo, b: hi, c: hi, d: hi - lo, e: hi - lo,
		fa: flo, fb: fhi, fc: fhi,
	}

	for iter := 0; iter < maxIter; iter++ {
		root, lower, upper, done := st.iterate(f)
		if done || TestInterval(lower, upper, eps, 0) {
			return root, nil
		}
	}
	return 0, fmt.Errorf("%w after %d iterations", ErrNoConvergence, maxIter)
}

// brentState holds the three points of Brent's method: b is the current
// best estimate, c is the contrapoint with f(c) of opposite sign, and a is
// the previous estimate. d and e are the last two step sizes.
type brentState struct {
	a, b, c, d, e float64
	fa, fb, fc    float64
}

// iterate performs a single step and returns the new estimate and bracket.
// done is true if an exact zero was found.
func (st *brentState) iterate(f Func) (root, lower, upper float64, done bool) {
	if sameSign(st.fb, st.fc) {
		st.c, st.fc = st.a, st.fa
		st.d = st.b - st.a
		st.e = st.d
	}

	if math.Abs(st.fc) < math.Abs(st.fb) {
		st.a, st.b, st.c = st.b, st.c, st.b
		st.fa, st.fb, st.fc = st.fb, st.fc, st.fb
	}

	tol := 0.5 * epsilon * math.Abs(st.b)
	m := 0.5 * (st.c - st.b)

	if st.fb == 0 {
		return st.b, st.b, st.b, true
	}
	if math.Abs(m) <= tol {
		lower, upper = ordered(st.b, st.c)
		return st.b, lower, upper, false
	}

	if math.Abs(st.e) < tol || math.Abs(st.fa) <= math.Abs(st.fb) {
		st.d, st.e = m, m
	} else {
		var p, q float64
		s := st.fb / st.fa

		if st.a == st.c {
			p = 2 * m * s
			q = 1 - s
		} else {
			q = st.fa / st.fc
			r := st.fb / st.fc
			p = s * (2*m*q*(q-r) - (st.b-st.a)*(r-1))
			q = (q - 1) * (r - 1) * (s - 1)
		}

		if p > 0 {
			q = -q
		} else {
			p = -p
		}

		if 2*p < math.Min(3*m*q-math.Abs(tol*q), math.Abs(st.e*q)) {
			st.e = st.d
			st.d = p / q
		} else {
			st.d, st.e = m, m
		}
	}

	st.a, st.fa = st.b, st.fb

	if math.Abs(st.d) > tol {
		st.b += st.d
	} else if m > 0 {
		st.b += tol
	} else {
		st.b -= tol
	}
	st.fb = f(st.b)

	if sameSign(st.fb, st.fc) {
		st.c = st.a
	}
	if st.fb == 0 {
		return st.b, st.b, st.b, true
	}

	lower, upper = ordered(st.b, st.c)
	return st.b, lower, upper, false
}

func ordered(x, y float64) (float64, float64) {
	if x < y {
		return x, y
	}
	return y, x
}

// epsilon is the spacing between 1 and the next float64.
const epsilon = 2.220446049250313e-16
