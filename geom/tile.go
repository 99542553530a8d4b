package geom

import (
	"fmt"
)

// Tiles returns the translation vectors of the periodic replicas of a box
// with the given side lengths: every (ix, iy, iz) with |ix| <= tx, |iy| <= ty
// and |iz| <= tz, scaled component-wise by boxSize. There are exactly
// (2tx+1)(2ty+1)(2tz+1) of them. ix varies slowest and iz fastest, and the
// zero shift is always included.
func Tiles(tx, ty, tz int, boxSize [3]float64) [][3]float64 {
	if tx < 0 || ty < 0 || tz < 0 {
		panic(fmt.Sprintf(
			"Tile extents must be non-negative, but are (%d, %d, %d).",
			tx, ty, tz,
		))
	}

	tiles := make([][3]float64, 0, (2*tx+1)*(2*ty+1)*(2*tz+1))
	for ix := -tx; ix <= tx; ix++ {
		for iy := -ty; iy <= ty; iy++ {
			for iz := -tz; iz <= tz; iz++ {
				tiles = append(tiles, [3]float64{
					float64(ix) * boxSize[0],
					float64(iy) * boxSize[1],
					float64(iz) * boxSize[2],
				})
			}
		}
	}
	return tiles
}
