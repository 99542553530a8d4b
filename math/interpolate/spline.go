package interpolate

import (
	"fmt"
)

type splineCoeff struct {
	a, b, c, d float64
}

// Spline represents a 1D natural cubic spline which can be used to
// interpolate between points.
type Spline struct {
	xs     searcher
	ys     []float64
	y2s    []float64
	coeffs []splineCoeff
}

// NewSpline creates a spline based off a table of x and y values. The values
// must be sorted in increasing or decreasing order in x.
//
// xs and ys are copied, so they may be modified after the call.
func NewSpline(xs, ys []float64) *Spline {
	if len(xs) != len(ys) {
		panic(fmt.Sprintf(
			"Table given to NewSpline() has len(xs) = %d but len(ys) = %d.",
			len(xs), len(ys),
		))
	} else if len(xs) <= 2 {
		panic(fmt.Sprintf("Table given to NewSpline() has length of %d.", len(xs)))
	}

	sp := new(Spline)
	xsCopy := make([]float64, len(xs))
	copy(xsCopy, xs)
	sp.xs.init(xsCopy)

	sp.ys = make([]float64, len(ys))
	copy(sp.ys, ys)
	sp.y2s = make([]float64, len(xs))
	sp.coeffs = make([]splineCoeff, len(xs)-1)

	sp.calcY2s()
	sp.calcCoeffs()
	return sp
}

// Eval computes the value of the spline at the given point.
//
// x must be within the range of x values given to NewSpline().
func (sp *Spline) Eval(x float64) float64 {
	i := sp.xs.search(x)
	dx := x - sp.xs.val(i)
	c := sp.coeffs[i]
	return c.a*dx*dx*dx + c.b*dx*dx + c.c*dx + c.d
}

// InRange returns true if x can be passed to Eval.
func (sp *Spline) InRange(x float64) bool { return sp.xs.inRange(x) }

// calcY2s computes the second derivative at every knot. The boundaries are
// set to zero.
func (sp *Spline) calcY2s() {
	n := sp.xs.n
	as, bs := make([]float64, n-2), make([]float64, n-2)
	cs, rs := make([]float64, n-2), make([]float64, n-2)

	sp.y2s[0], sp.y2s[n-1] = 0, 0

	xs, ys := sp.xs.xs, sp.ys
	for i := range rs {
		// j indexes into xs and ys.
		j := i + 1

		as[i] = (xs[j] - xs[j-1]) / 6
		bs[i] = (xs[j+1] - xs[j-1]) / 3
		cs[i] = (xs[j+1] - xs[j]) / 6
		rs[i] = ((ys[j+1] - ys[j]) / (xs[j+1] - xs[j])) -
			((ys[j] - ys[j-1]) / (xs[j] - xs[j-1]))
	}

	TriDiagAt(as, bs, cs, rs, sp.y2s[1:n-1])
}

func (sp *Spline) calcCoeffs() {
	xs, ys, y2s := sp.xs.xs, sp.ys, sp.y2s
	for i := range sp.coeffs {
		h := xs[i+1] - xs[i]
		sp.coeffs[i].a = (y2s[i+1] - y2s[i]) / (6 * h)
		sp.coeffs[i].b = y2s[i] / 2
		sp.coeffs[i].c = (ys[i+1]-ys[i])/h - h*(2*y2s[i]+y2s[i+1])/6
		sp.coeffs[i].d = ys[i]
	}
}

// TriDiagAt solves the tridiagonal system of equations
//
// as[i] * out[i-1] + bs[i] * out[i] + cs[i] * out[i+1] = rs[i]
//
// and writes the result to out. as[0] and cs[len-1] are ignored.
func TriDiagAt(as, bs, cs, rs, out []float64) {
	if len(as) != len(bs) || len(as) != len(cs) ||
		len(as) != len(out) || len(as) != len(rs) {

		panic("Length of arugments to TriDiagAt are unequal.")
	}

	tmp := make([]float64, len(as))

	beta := bs[0]
	if beta == 0 {
		panic("TriDiagAt cannot solve given system.")
	}
	out[0] = rs[0] / beta

	for i := 1; i < len(out); i++ {
		tmp[i] = cs[i-1] / beta
		beta = bs[i] - as[i]*tmp[i]
		if beta == 0 {
			panic("TriDiagAt cannot solve given system")
		}
		out[i] = (rs[i] - as[i]*out[i-1]) / beta
	}

	for i := len(out) - 2; i >= 0; i-- {
		out[i] -= tmp[i+1] * out[i+1]
	}
}

// TriDiag solves the same system as TriDiagAt, but allocates its output.
func TriDiag(as, bs, cs, rs []float64) []float64 {
	us := make([]float64, len(as))
	TriDiagAt(as, bs, cs, rs, us)
	return us
}
