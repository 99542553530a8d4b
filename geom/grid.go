package geom

import (
	"fmt"
)

// Grid provides an interface for reasoning over a 1D slice as if it were a
// 3D grid. Indices are x-major: x varies fastest.
type Grid struct {
	CellBounds
	Length, Area, Volume int
}

// CellBounds represents a bounding box aligned to grid cells.
type CellBounds struct {
	Origin, Width [3]int
}

// NewGrid returns a new Grid instance.
func NewGrid(origin [3]int, width [3]int) *Grid {
	g := &Grid{}
	g.Init(origin, width)
	return g
}

// Init initializes a Grid instance.
func (g *Grid) Init(origin [3]int, width [3]int) {
	g.Origin = origin
	g.Width = width

	g.Length = width[0]
	g.Area = width[0] * width[1]
	g.Volume = width[0] * width[1] * width[2]
}

// Coords returns the x, y, z coordinates of a point from its grid index.
func (g *Grid) Coords(idx int) (x, y, z int) {
	x = idx%g.Length + g.Origin[0]
	y = (idx%g.Area)/g.Length + g.Origin[1]
	z = idx/g.Area + g.Origin[2]
	return x, y, z
}

// LagrangianPositions returns the comoving positions of a regular grid with
// cells points on a side spanning a box of width boxSize. Points sit at
// (i + shift) * boxSize / cells along each axis, so a shift of 0.5 puts
// them at cell centres. The points are ordered like Grid indices.
func LagrangianPositions(cells int, boxSize, shift float64) [][3]float64 {
	if cells <= 0 {
		panic(fmt.Sprintf("cells must be positive, but is %d.", cells))
	}

	g := NewGrid([3]int{0, 0, 0}, [3]int{cells, cells, cells})
	dx := boxSize / float64(cells)

	xs := make([][3]float64, g.Volume)
	for idx := range xs {
		x, y, z := g.Coords(idx)
		xs[idx] = [3]float64{
			(float64(x) + shift) * dx,
			(float64(y) + shift) * dx,
			(float64(z) + shift) * dx,
		}
	}
	return xs
}
