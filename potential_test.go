package lightcone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phil-mansfield/lightcone/catalog"
	"github.com/phil-mansfield/lightcone/cosmo"
)

// indexField reads out pot[i] and tidal[i] at the i-th point.
type indexField struct {
	pot   []float64
	tidal [][6]float64
}

func (f *indexField) ReadOut(xs [][3]float64, pot []float64, tidal [][6]float64) {
	copy(pot, f.pot)
	if tidal != nil {
		copy(tidal, f.tidal)
	}
}

func newInterpFixture() (*PotentialInterpolator, *catalog.Store, *catalog.Store) {
	h := NewHorizonTable(&linearCosmo{}, testTableSize, 1)
	pi := NewPotentialInterpolator(h)
	samples := catalog.NewStore(2, catalog.Position|catalog.Potential|catalog.Tidal)
	for i := 0; i < 2; i++ {
		_, _ = samples.Append(&catalog.Record{})
	}
	out := catalog.NewStore(8,
		catalog.Position|catalog.AEmit|catalog.Potential|catalog.Tidal|catalog.Source,
	)
	return pi, samples, out
}

func TestPotentialInterpolatorFirstCall(t *testing.T) {
	pi, samples, out := newInterpFixture()
	st := pi.State()
	assert.False(t, st.Initialized())
	assert.Equal(t, -1.0, st.APrev)
	assert.Equal(t, -1.0, st.ANow)

	_, _ = out.Append(&catalog.Record{AEmit: 0.45, Potential: 7, Source: 0})
	pi.SetStop(out.Len())

	n := pi.Update(0.5, &indexField{pot: []float64{1, 2}, tidal: make([][6]float64, 2)}, samples, out)
	assert.Equal(t, 0, n)
	assert.Equal(t, 7.0, out.Potential()[0], "records before the first force keep their values")
	assert.Equal(t, []float64{1, 2}, samples.Potential())

	st = pi.State()
	assert.True(t, st.Initialized())
	assert.Equal(t, 0.5, st.APrev)
	assert.Equal(t, 0.5, st.ANow)
	assert.Equal(t, 1, st.Start)
	assert.Equal(t, 1, st.Stop)
}

func TestPotentialInterpolatorEndpoints(t *testing.T) {
	pi, samples, out := newInterpFixture()
	pf := PotentialFactor(&linearCosmo{})

	pi.Update(0.5, &indexField{pot: []float64{1, 2}, tidal: make([][6]float64, 2)}, samples, out)

	prevTidal := [6]float64{1, 1, 1, 1, 1, 1}
	recs := []catalog.Record{
		{AEmit: 0.5, Potential: 10, Tidal: prevTidal, Source: 0},
		{AEmit: 0.6, Potential: 20, Tidal: prevTidal, Source: 1},
		{AEmit: 0.55, Potential: 30, Tidal: prevTidal, Source: 0},
	}
	for i := range recs {
		_, err := out.Append(&recs[i])
		require.NoError(t, err)
	}
	pi.SetStop(out.Len())

	newTidal := [][6]float64{{2, 2, 2, 2, 2, 2}, {3, 3, 3, 3, 3, 3}}
	n := pi.Update(0.6, &indexField{pot: []float64{4, 5}, tidal: newTidal}, samples, out)
	assert.Equal(t, 3, n)

	// G_emit == G_prev keeps the previous value.
	assert.Equal(t, 10.0, out.Potential()[0])
	assert.Equal(t, prevTidal, out.Tidal()[0])

	// G_emit == G_now gives the new sample.
	assert.Equal(t, 5*(pf/0.6), out.Potential()[1])
	for k := 0; k < 6; k++ {
		assert.Equal(t, 3*(pf/0.6), out.Tidal()[1][k])
	}

	// Half way in growth factor.
	assert.InDelta(t, 0.5*30+0.5*4*pf/0.55, out.Potential()[2], 1e-9)
	assert.InDelta(t, 0.5*1+0.5*2*pf/0.55, out.Tidal()[2][0], 1e-9)

	st := pi.State()
	assert.Equal(t, 3, st.Start)
	assert.Equal(t, 3, st.Stop)
	assert.Equal(t, 0.6, st.APrev)
	assert.Equal(t, st.GNow, st.GPrev)
}

func TestPotentialInterpolatorGrowthFromCosmology(t *testing.T) {
	c, err := cosmo.NewLCDM(0.3, 0.7)
	require.NoError(t, err)
	h := NewHorizonTable(c, 64, 1)
	pi := NewPotentialInterpolator(h)
	_, samples, out := newInterpFixture()
	field := &indexField{pot: []float64{1, 2}, tidal: make([][6]float64, 2)}

	pi.Update(0.3, field, samples, out)
	assert.Equal(t, c.GrowthFactor(0.3), pi.State().GNow)

	_, err = out.Append(&catalog.Record{AEmit: 0.32, Potential: 1, Source: 1})
	require.NoError(t, err)
	pi.SetStop(out.Len())

	pi.Update(0.337, field, samples, out)
	st := pi.State()
	assert.Equal(t, c.GrowthFactor(0.337), st.GNow)
	assert.Equal(t, c.GrowthFactor(0.3), st.GPrev)

	// Emission growth still comes from the table.
	w := (h.Growth(0.32) - c.GrowthFactor(0.3)) /
		(c.GrowthFactor(0.337) - c.GrowthFactor(0.3))
	want := 1*(1-w) + 2*PotentialFactor(c)/0.32*w
	assert.InDelta(t, want, out.Potential()[0], 1e-12)
}

func TestPotentialInterpolatorSameGrowth(t *testing.T) {
	pi, samples, out := newInterpFixture()
	field := &indexField{pot: []float64{1, 2}, tidal: make([][6]float64, 2)}

	pi.Update(0.5, field, samples, out)
	_, _ = out.Append(&catalog.Record{AEmit: 0.5, Potential: 3})
	pi.SetStop(out.Len())

	n := pi.Update(0.5, field, samples, out)
	assert.Equal(t, 0, n)
	assert.Equal(t, 3.0, out.Potential()[0])
	assert.Equal(t, 1, pi.State().Start, "bookkeeping still advances")
}

func TestPotentialInterpolatorReset(t *testing.T) {
	pi, samples, out := newInterpFixture()
	pi.Update(0.5, &indexField{pot: []float64{1, 2}}, samples, out)
	pi.Reset()
	assert.False(t, pi.State().Initialized())
	assert.Equal(t, 0, pi.State().Start)

	assert.Panics(t, func() {
		pi.SetStop(2)
		pi.Update(0.6, &indexField{pot: []float64{1, 2}}, samples, out)
		pi.SetStop(1)
	})
}

func TestPotentialInterpolatorNeedsPotential(t *testing.T) {
	pi, _, out := newInterpFixture()
	samples := catalog.NewStore(1, catalog.Position)
	assert.Panics(t, func() {
		pi.Update(0.5, &indexField{}, samples, out)
	})
}
