package lightcone

import (
	"fmt"

	"github.com/phil-mansfield/lightcone/cosmo"
	"github.com/phil-mansfield/lightcone/math/interpolate"
)

// DefaultHorizonTableSize is the number of scale factors the horizon is
// tabulated at when no size is configured.
const DefaultHorizonTableSize = 8192

// HorizonTable tabulates the comoving horizon distance and the linear growth
// factor at size evenly spaced scale factors a_i = i / (size - 1). It is
// immutable after construction and may be shared between goroutines.
type HorizonTable struct {
	cosmo      cosmo.Cosmology
	dc, growth *interpolate.Linear
}

// NewHorizonTable builds a table of the given size. Horizon distances are
// speedFactor * HubbleDistance * c.ComovingDistance(a), in Mpc/h.
func NewHorizonTable(c cosmo.Cosmology, size int, speedFactor float64) *HorizonTable {
	if size < 2 {
		panic(fmt.Sprintf("Horizon table needs at least 2 entries, but size = %d.", size))
	}

	dc := make([]float64, size)
	growth := make([]float64, size)
	for i := range dc {
		a := float64(i) / float64(size-1)
		dc[i] = speedFactor * cosmo.HubbleDistance * c.ComovingDistance(a)
		growth[i] = c.GrowthFactor(a)
	}

	da := 1 / float64(size-1)
	return &HorizonTable{
		cosmo:  c,
		dc:     interpolate.NewUniformLinear(0, da, dc),
		growth: interpolate.NewUniformLinear(0, da, growth),
	}
}

// Size returns the number of tabulated scale factors.
func (h *HorizonTable) Size() int { return h.dc.Knots() }

// Horizon returns the comoving distance to the horizon at scale factor a.
// Scale factors at or below 0 return the first entry, and scale factors at
// or above 1 return the last entry.
func (h *HorizonTable) Horizon(a float64) float64 {
	if a <= 0 {
		return h.dc.Val(0)
	} else if a >= 1 {
		return h.dc.Val(h.dc.Knots() - 1)
	}
	return h.dc.Eval(a)
}

// Growth returns the linear growth factor at a. Outside the open interval
// (0, 1) the edge entries are not trusted and the cosmology is called
// directly.
func (h *HorizonTable) Growth(a float64) float64 {
	if a <= 0 || a >= 1 {
		return h.cosmo.GrowthFactor(a)
	}
	return h.growth.Eval(a)
}

// Cosmology returns the model the table was built from.
func (h *HorizonTable) Cosmology() cosmo.Cosmology { return h.cosmo }

// PotentialFactor returns 1.5 * OmegaM / HubbleDistance^2, the factor which
// converts a*phi into the dimensionless potential written to the light cone.
func PotentialFactor(c cosmo.Cosmology) float64 {
	return 1.5 * c.OmegaMatter() / (cosmo.HubbleDistance * cosmo.HubbleDistance)
}
