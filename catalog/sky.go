package catalog

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/table"
)

// SkySamples is an externally supplied set of points on the sky. Each point
// is given by its right ascension and declination in degrees and its
// comoving distance from the observer in Mpc/h.
type SkySamples struct {
	RA, Dec, R []float64
}

// Len returns the number of samples.
func (sky *SkySamples) Len() int { return len(sky.R) }

// Cartesian returns the i-th sample in Cartesian coordinates, with the
// +z axis pointing at Dec = 90.
func (sky *SkySamples) Cartesian(i int) [3]float64 {
	ra := sky.RA[i] * math.Pi / 180
	dec := sky.Dec[i] * math.Pi / 180
	r := sky.R[i]
	return [3]float64{
		r * math.Cos(dec) * math.Cos(ra),
		r * math.Cos(dec) * math.Sin(ra),
		r * math.Sin(dec),
	}
}

// ReadSkySamples reads the ra, dec, and r columns (zero-indexed) of a
// whitespace-separated text table.
func ReadSkySamples(file string, raCol, decCol, rCol int) (*SkySamples, error) {
	cols, err := table.ReadTable(file, []int{raCol, decCol, rCol}, nil)
	if err != nil {
		return nil, err
	}
	if len(cols) != 3 {
		return nil, fmt.Errorf(
			"Expected 3 columns from sky sample file %s, got %d.", file, len(cols),
		)
	}

	sky := &SkySamples{RA: cols[0], Dec: cols[1], R: cols[2]}
	for i, r := range sky.R {
		if r < 0 {
			return nil, fmt.Errorf(
				"Sky sample %d in %s has negative distance %g.", i, file, r,
			)
		}
	}
	return sky, nil
}
