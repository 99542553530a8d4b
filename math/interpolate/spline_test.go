package interpolate

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func linspace(lo, hi float64, n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = lo + (hi-lo)*float64(i)/float64(n-1)
	}
	return xs
}

func TestSplineLinearIsExact(t *testing.T) {
	xs := []float64{0, 1, 1.5, 2, 3, 4, 5}
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = value(x)
	}
	sp := NewSpline(xs, ys)
	for _, x := range linspace(0, 5, 41) {
		assert.InDelta(t, value(x), sp.Eval(x), 1e-12, "x = %g", x)
	}
}

func TestSplineDecreasingKnots(t *testing.T) {
	// Inverting a monotone decreasing function is how sky samples are
	// assigned emission times.
	as := linspace(0.1, 1, 20)
	rs := make([]float64, len(as))
	for i, a := range as {
		rs[i] = 1 - a*a
	}

	// xs must be monotonic: rs decreases as a increases.
	sp := NewSpline(rs, as)
	for _, a := range linspace(0.25, 0.95, 15) {
		r := 1 - a*a
		assert.InDelta(t, a, sp.Eval(r), 1e-3, "a = %g", a)
	}
	assert.False(t, sp.InRange(1.5))
}

func TestSplineSmooth(t *testing.T) {
	xs := linspace(0, math.Pi, 30)
	ys := make([]float64, len(xs))
	for i, x := range xs {
		ys[i] = math.Sin(x)
	}
	sp := NewSpline(xs, ys)
	for _, x := range linspace(0.2, 3, 10) {
		assert.InDelta(t, math.Sin(x), sp.Eval(x), 1e-4)
	}
}

func TestTriDiag(t *testing.T) {
	// 2x - y = 1, -x + 2y - z = 0, -y + 2z = 1 => x = y = z = 1
	as := []float64{0, -1, -1}
	bs := []float64{2, 2, 2}
	cs := []float64{-1, -1, 0}
	rs := []float64{1, 0, 1}
	out := TriDiag(as, bs, cs, rs)
	for i := range out {
		assert.InDelta(t, 1.0, out[i], 1e-12)
	}
}
