package lightcone

import (
	"fmt"

	"github.com/phil-mansfield/lightcone/catalog"
	"github.com/phil-mansfield/lightcone/event"
)

// uninitialized marks a scale factor which has not been set yet.
const uninitialized = -1.0

// State is the bookkeeping of a PotentialInterpolator. Records in
// [Start, Stop) of the output store were appended since the last force
// evaluation.
type State struct {
	APrev, ANow float64
	GPrev, GNow float64
	Start, Stop int
}

// Initialized returns true once a force evaluation has been seen.
func (s State) Initialized() bool { return s.APrev >= 0 }

// PotentialInterpolator corrects the potential and tidal tensor of light-cone
// records to their emission times. Every time the field is evaluated, the
// records which crossed the light cone since the previous evaluation are
// interpolated, linearly in the growth factor, between the value they were
// written with and the newly measured value.
type PotentialInterpolator struct {
	horizon   *HorizonTable
	potFactor float64
	state     State
}

// NewPotentialInterpolator returns an interpolator which has not seen a force
// evaluation.
func NewPotentialInterpolator(h *HorizonTable) *PotentialInterpolator {
	pi := &PotentialInterpolator{
		horizon:   h,
		potFactor: PotentialFactor(h.Cosmology()),
	}
	pi.Reset()
	return pi
}

// Reset returns the interpolator to its initial state.
func (pi *PotentialInterpolator) Reset() {
	pi.state = State{
		APrev: uninitialized, ANow: uninitialized,
		GPrev: uninitialized, GNow: uninitialized,
	}
}

// State returns a copy of the current bookkeeping.
func (pi *PotentialInterpolator) State() State { return pi.state }

// SetStop marks the records before stop as pending. It is called after each
// intersection pass with the length of the output store.
func (pi *PotentialInterpolator) SetStop(stop int) {
	if stop < pi.state.Start {
		panic(fmt.Sprintf(
			"Pending range end %d is before its start %d.", stop, pi.state.Start,
		))
	}
	pi.state.Stop = stop
}

// Update reads field out at the sample positions and then interpolates the
// pending records of out. samples must carry Position and Potential; its
// Tidal column is filled if present. On the first call the pending records
// keep the values they were written with.
//
// Update returns the number of records which were interpolated.
func (pi *PotentialInterpolator) Update(
	a float64, field event.Field, samples, out *catalog.Store,
) int {
	if !samples.Has(catalog.Position | catalog.Potential) {
		panic(fmt.Sprintf(
			"Sample store carries %s, but needs Position|Potential.", samples.Mask(),
		))
	}

	field.ReadOut(samples.X(), samples.Potential(), samples.Tidal())

	st := &pi.state
	st.ANow = a
	st.GNow = pi.horizon.Cosmology().GrowthFactor(a)

	n := 0
	if st.Initialized() && st.GNow != st.GPrev {
		n = pi.interpolate(samples, out)
	}

	st.Start = st.Stop
	st.APrev, st.GPrev = st.ANow, st.GNow
	return n
}

func (pi *PotentialInterpolator) interpolate(samples, out *catalog.Store) int {
	st := &pi.state
	src := out.Sources()
	aEmit := out.AEmit()
	pot, newPot := out.Potential(), samples.Potential()
	tidal, newTidal := out.Tidal(), samples.Tidal()
	if newTidal == nil {
		tidal = nil
	}

	for i := st.Start; i < st.Stop; i++ {
		ae := aEmit[i]
		w := (pi.horizon.Growth(ae) - st.GPrev) / (st.GNow - st.GPrev)
		scale := pi.potFactor / ae
		j := src[i]

		if pot != nil {
			pot[i] = lerp(pot[i], newPot[j]*scale, w)
		}
		if tidal != nil {
			for k := range tidal[i] {
				tidal[i][k] = lerp(tidal[i][k], newTidal[j][k]*scale, w)
			}
		}
	}
	return st.Stop - st.Start
}

// lerp is exact at w = 0 and w = 1.
func lerp(prev, next, w float64) float64 {
	return prev*(1-w) + next*w
}
