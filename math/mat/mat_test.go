package mat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gmat "gonum.org/v1/gonum/mat"
)

func TestMultAgainstGonum(t *testing.T) {
	a := []float64{
		1, 3, 5,
		2, 4, 7,
		1, 1, 0,
	}
	b := []float64{
		0, 1, 2,
		-1, 0, 3,
		4, 4, 1,
	}

	got := NewMatrix(a, 3, 3).Mult(NewMatrix(b, 3, 3))

	var want gmat.Dense
	want.Mul(gmat.NewDense(3, 3, a), gmat.NewDense(3, 3, b))
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			assert.InDelta(t, want.At(i, j), got.Vals[3*i+j], 1e-12)
		}
	}
}

func TestTransformApply(t *testing.T) {
	vals := []float64{
		0, 1, 0, 2,
		-1, 0, 0, 0,
		0, 0, 1, -3,
		0, 0, 0, 1,
	}
	tr, err := NewTransform(vals)
	require.NoError(t, err)

	table := []struct {
		x     [3]float64
		shift [4]float64
	}{
		{[3]float64{1, 2, 3}, [4]float64{}},
		{[3]float64{1, 2, 3}, [4]float64{10, 0, -5, 0}},
		{[3]float64{-4, 0.5, 7}, [4]float64{0, 100, 0, 0}},
	}

	g := gmat.NewDense(4, 4, vals)
	for i, test := range table {
		got := tr.ApplyPoint(test.x, test.shift)

		var want gmat.VecDense
		want.MulVec(g, gmat.NewVecDense(4, []float64{
			test.x[0] + test.shift[0], test.x[1] + test.shift[1],
			test.x[2] + test.shift[2], 1,
		}))
		for d := 0; d < 3; d++ {
			assert.InDelta(t, want.AtVec(d), got[d], 1e-12, "%d) component %d", i+1, d)
		}
	}
}

func TestTransformErrors(t *testing.T) {
	_, err := NewTransform(make([]float64, 15))
	assert.Error(t, err)
}

func TestThen(t *testing.T) {
	shift := Translation([3]float64{1, 2, 3})
	rot, _ := NewTransform([]float64{
		0, -1, 0, 0,
		1, 0, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	})

	both := shift.Then(rot)
	x := [3]float64{1, 0, 0}
	got := both.ApplyPoint(x, [4]float64{})
	step := rot.ApplyPoint(shift.ApplyPoint(x, [4]float64{}), [4]float64{})
	assert.InDeltaSlice(t, step[:], got[:], 1e-12)
	assert.InDeltaSlice(t, []float64{-2, 2, 3}, got[:], 1e-12)
}

func TestApplyVectorIgnoresTranslation(t *testing.T) {
	tr := Translation([3]float64{5, 5, 5})
	v := tr.ApplyVector([3]float32{1, 2, 3})
	assert.Equal(t, [3]float32{1, 2, 3}, v)
}

func TestZAngle(t *testing.T) {
	assert.InDelta(t, 0.0, ZAngle([3]float64{0, 0, 1}), 1e-12)
	assert.InDelta(t, 90.0, ZAngle([3]float64{1, 0, 0}), 1e-12)
	assert.InDelta(t, 45.0, ZAngle([3]float64{0, 1, 1}), 1e-12)
	assert.InDelta(t, 180.0, ZAngle([3]float64{0, 0, -1}), 1e-12)
	assert.InDelta(t, math.Sqrt(14), Norm([3]float64{1, 2, 3}), 1e-12)
}

func TestEuler(t *testing.T) {
	eps := 1e-12
	table := []struct {
		phi, theta, psi float64
		start, end      [3]float32
	}{
		{0, 0, 0, [3]float32{1, 2, 3}, [3]float32{1, 2, 3}},
		{math.Pi / 2, 0, 0, [3]float32{1, 0, 0}, [3]float32{1, 0, 0}},
		{math.Pi / 2, 0, 0, [3]float32{0, 1, 0}, [3]float32{0, 0, -1}},
		{0, 0, math.Pi / 2, [3]float32{1, 0, 0}, [3]float32{0, -1, 0}},
		{0, math.Pi / 2, 0, [3]float32{1, 0, 0}, [3]float32{0, 0, 1}},
	}

	for i, test := range table {
		tr := Euler(test.phi, test.theta, test.psi)
		v := tr.ApplyVector(test.start)
		for k := 0; k < 3; k++ {
			assert.InDelta(t, test.end[k], v[k], eps, "%d) axis %d", i+1, k)
		}
	}
}

func TestEulerIsOrthogonal(t *testing.T) {
	tr := Euler(0.3, -1.1, 2.5)
	m := tr.Matrix()
	var prod gmat.Dense
	a := gmat.NewDense(4, 4, m.Vals)
	prod.Mul(a, a.T())
	for i := 0; i < 4; i++ {
		for j := 0; j < 4; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			assert.InDelta(t, want, prod.At(i, j), 1e-12)
		}
	}
}
