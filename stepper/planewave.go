package stepper

import (
	"math"

	"github.com/phil-mansfield/lightcone/cosmo"
	"github.com/phil-mansfield/lightcone/event"
)

// PlaneWave is the potential of a single linear mode,
//
// phi(x, a) = Amp * D(a) * cos(K . x + Phase)
//
// where D is the linear growth factor.
type PlaneWave struct {
	Amp, Phase float64
	K          [3]float64
	Cosmo      cosmo.Cosmology
}

// At returns the field at scale factor a.
func (pw *PlaneWave) At(a float64) event.Field {
	return &planeWaveField{pw, pw.Amp * pw.Cosmo.GrowthFactor(a)}
}

type planeWaveField struct {
	*PlaneWave
	amp float64
}

// ReadOut implements event.Field.
func (f *planeWaveField) ReadOut(
	xs [][3]float64, pot []float64, tidal [][6]float64,
) {
	k := f.K
	kk := [6]float64{
		k[0] * k[0], k[1] * k[1], k[2] * k[2],
		k[0] * k[1], k[1] * k[2], k[2] * k[0],
	}

	for i, x := range xs {
		c := math.Cos(k[0]*x[0] + k[1]*x[1] + k[2]*x[2] + f.Phase)
		if pot != nil {
			pot[i] = f.amp * c
		}
		if tidal != nil {
			for j := range kk {
				tidal[i][j] = -f.amp * kk[j] * c
			}
		}
	}
}

// Constant is a field with the same potential and tidal tensor everywhere
// and at all times.
type Constant struct {
	Pot   float64
	Tidal [6]float64
}

// At returns c. It has the signature of a FieldFunc.
func (c *Constant) At(a float64) event.Field { return c }

// ReadOut implements event.Field.
func (c *Constant) ReadOut(xs [][3]float64, pot []float64, tidal [][6]float64) {
	for i := range xs {
		if pot != nil {
			pot[i] = c.Pot
		}
		if tidal != nil {
			tidal[i] = c.Tidal
		}
	}
}
