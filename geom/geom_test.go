package geom

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTiles(t *testing.T) {
	table := []struct {
		tx, ty, tz int
		n          int
	}{
		{0, 0, 0, 1},
		{1, 1, 0, 9},
		{1, 1, 1, 27},
		{2, 0, 1, 15},
	}

	box := [3]float64{100, 200, 300}
	for i, test := range table {
		tiles := Tiles(test.tx, test.ty, test.tz, box)
		assert.Len(t, tiles, test.n, "%d) Tiles(%d, %d, %d)", i+1, test.tx, test.ty, test.tz)
		assert.Contains(t, tiles, [3]float64{0, 0, 0}, "%d) zero tile", i+1)
	}
}

func TestTilesOrder(t *testing.T) {
	tiles := Tiles(1, 1, 0, [3]float64{10, 10, 10})
	want := [][3]float64{
		{-10, -10, 0}, {-10, 0, 0}, {-10, 10, 0},
		{0, -10, 0}, {0, 0, 0}, {0, 10, 0},
		{10, -10, 0}, {10, 0, 0}, {10, 10, 0},
	}
	assert.Equal(t, want, tiles)

	tiles = Tiles(0, 0, 1, [3]float64{1, 2, 3})
	assert.Equal(t, [][3]float64{{0, 0, -3}, {0, 0, 0}, {0, 0, 3}}, tiles)

	assert.Panics(t, func() { Tiles(-1, 0, 0, [3]float64{1, 1, 1}) })
}

func TestGridCoords(t *testing.T) {
	g := NewGrid([3]int{1, 2, 3}, [3]int{4, 5, 6})
	assert.Equal(t, 120, g.Volume)
	table := []struct {
		idx     int
		x, y, z int
	}{
		{0, 1, 2, 3},
		{1, 2, 2, 3},
		{4, 1, 3, 3},
		{20, 1, 2, 4},
		{119, 4, 6, 8},
	}
	for i, test := range table {
		x, y, z := g.Coords(test.idx)
		assert.Equal(t, [3]int{test.x, test.y, test.z}, [3]int{x, y, z},
			"%d) Coords(%d)", i+1, test.idx)
	}
}

func TestLagrangianPositions(t *testing.T) {
	xs := LagrangianPositions(4, 100, 0.5)
	assert.Len(t, xs, 64)
	assert.Equal(t, [3]float64{12.5, 12.5, 12.5}, xs[0])
	assert.Equal(t, [3]float64{37.5, 12.5, 12.5}, xs[1])
	assert.Equal(t, [3]float64{12.5, 37.5, 12.5}, xs[4])
	assert.Equal(t, [3]float64{87.5, 87.5, 87.5}, xs[63])

	xs = LagrangianPositions(2, 10, 0)
	assert.Equal(t, [3]float64{0, 0, 0}, xs[0])
	assert.Equal(t, [3]float64{5, 5, 5}, xs[7])
}
