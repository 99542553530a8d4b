/*
package cosmo supplies the background cosmology the light cone is measured
against: the comoving distance to a scale factor and the linear growth factor.

Distances returned by ComovingDistance are in units of the Hubble distance;
multiply by HubbleDistance to get Mpc/h.
*/
package cosmo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

const (
	// HubbleDistance is c / H0 in Mpc/h.
	HubbleDistance = 2997.92458

	// Number of Gauss-Legendre nodes used for every integral.
	quadNodes = 64
)

// Cosmology is the background model consumed by the light cone.
type Cosmology interface {
	// GrowthFactor returns the linear growth factor, normalised to 1 at a = 1.
	GrowthFactor(a float64) float64
	// ComovingDistance returns the comoving distance between a and a = 1 in
	// units of HubbleDistance.
	ComovingDistance(a float64) float64
	// OmegaMatter returns the matter density parameter today.
	OmegaMatter() float64
}

// LCDM is a matter + cosmological constant model with optional curvature
// 1 - OmegaM - OmegaL. Radiation is ignored.
type LCDM struct {
	OmegaM, OmegaL float64

	growthNorm float64
}

var _ Cosmology = &LCDM{}

// NewLCDM creates a model with the given density parameters.
func NewLCDM(omegaM, omegaL float64) (*LCDM, error) {
	if omegaM <= 0 {
		return nil, fmt.Errorf("OmegaM must be positive, but is %g.", omegaM)
	} else if omegaL < 0 {
		return nil, fmt.Errorf("OmegaL must be non-negative, but is %g.", omegaL)
	}

	c := &LCDM{OmegaM: omegaM, OmegaL: omegaL}
	c.growthNorm = c.growthIntegral(1)
	return c, nil
}

// OmegaMatter returns OmegaM.
func (c *LCDM) OmegaMatter() float64 { return c.OmegaM }

// OmegaK returns the curvature density parameter.
func (c *LCDM) OmegaK() float64 { return 1 - c.OmegaM - c.OmegaL }

// HubbleEa returns H(a) / H0.
func (c *LCDM) HubbleEa(a float64) float64 {
	return math.Sqrt(c.OmegaM/(a*a*a) + c.OmegaK()/(a*a) + c.OmegaL)
}

// OmegaA returns the matter density parameter at scale factor a.
func (c *LCDM) OmegaA(a float64) float64 {
	e := c.HubbleEa(a)
	return c.OmegaM / (a * a * a) / (e * e)
}

// ComovingDistance integrates da / (a^2 E(a)) from a to 1. The substitution
// a = u^2 removes the integrable singularity at a = 0.
func (c *LCDM) ComovingDistance(a float64) float64 {
	if a >= 1 {
		return 0
	} else if a < 0 {
		a = 0
	}

	ok, ol := c.OmegaK(), c.OmegaL
	f := func(u float64) float64 {
		u2 := u * u
		return 2 / math.Sqrt(c.OmegaM+ok*u2+ol*u2*u2*u2)
	}
	return quad.Fixed(f, math.Sqrt(a), 1, quadNodes, nil, 0)
}

// GrowthFactor returns the growing mode of linear perturbations,
// D(a) ~ E(a) * int_0^a da' / (a' E(a'))^3, normalised so D(1) = 1. The
// integral form is exact for matter + Lambda + curvature.
func (c *LCDM) GrowthFactor(a float64) float64 {
	if a <= 0 {
		return 0
	}
	return c.growthIntegral(a) / c.growthNorm
}

func (c *LCDM) growthIntegral(a float64) float64 {
	f := func(x float64) float64 {
		if x <= 0 {
			return 0
		}
		ae := x * c.HubbleEa(x)
		return 1 / (ae * ae * ae)
	}
	return c.HubbleEa(a) * quad.Fixed(f, 0, a, quadNodes, nil, 0)
}
