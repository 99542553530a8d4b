package interpolate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func value(x float64) float64 {
	return 2*x + 3
}

func TestUniformLinear(t *testing.T) {
	n := 1025
	dx := 1.0 / float64(n-1)
	vals := make([]float64, n)
	for i := range vals {
		vals[i] = value(float64(i) * dx)
	}
	lin := NewUniformLinear(0, dx, vals)

	// points on the grid should work
	assert.Equal(t, value(0.5), lin.Eval(0.5), "on grid")
	assert.Equal(t, vals[0], lin.Eval(0), "lower edge")
	assert.Equal(t, vals[n-1], lin.Eval(1), "upper edge")
	// points just off the grid should also work
	assert.InDelta(t, value(0.5001), lin.Eval(0.5001), 1e-12, "nearby")

	assert.True(t, lin.InRange(0.3))
	assert.False(t, lin.InRange(-0.1))
	assert.False(t, lin.InRange(1.1))
	assert.Panics(t, func() { lin.Eval(1.5) })
}

func TestUniformLinearDecreasing(t *testing.T) {
	vals := []float64{value(4), value(3), value(2), value(1), value(0)}
	lin := NewUniformLinear(4, -1, vals)
	assert.Equal(t, 5, lin.Knots())
	assert.Equal(t, value(2), lin.Val(2))

	table := []struct {
		x float64
	}{{0}, {0.25}, {1}, {2.5}, {3}, {4}}
	for i, test := range table {
		assert.InDelta(t, value(test.x), lin.Eval(test.x), 1e-12, "%d) x = %g", i+1, test.x)
	}
}

func TestLinearRejectsBadKnots(t *testing.T) {
	assert.Panics(t, func() { NewUniformLinear(0, 0, []float64{1, 2}) })
	assert.Panics(t, func() { NewUniformLinear(0, 1, []float64{1}) })
	assert.Panics(t, func() { NewSpline([]float64{0, 2, 1}, []float64{0, 0, 0}) })
}
