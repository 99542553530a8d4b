package lightcone

import (
	"fmt"
	"math"

	"github.com/phil-mansfield/lightcone/catalog"
	"github.com/phil-mansfield/lightcone/geom"
	"github.com/phil-mansfield/lightcone/math/interpolate"
)

// GridSamples returns a store holding a regular grid of cells^3 comoving
// sampling points at cell centres of a box of width boxSize. The store
// carries Position and Lagrangian, along with any columns in extra.
func GridSamples(cells int, boxSize float64, extra catalog.Mask) *catalog.Store {
	xs := geom.LagrangianPositions(cells, boxSize, 0.5)
	s := catalog.NewStore(len(xs), catalog.Position|catalog.Lagrangian|extra)
	for i := range xs {
		if _, err := s.Append(&catalog.Record{X: xs[i], Q: xs[i]}); err != nil {
			panic(err.Error())
		}
	}
	return s
}

// SkySampler assigns emission scale factors to points at known comoving
// distances by inverting the horizon with a cubic spline.
type SkySampler struct {
	rMin, rMax float64
	spline     *interpolate.Spline
}

// NewSkySampler tabulates the horizon at nodes scale factors evenly spaced in
// [aMin, 1].
func NewSkySampler(h *HorizonTable, aMin float64, nodes int) (*SkySampler, error) {
	if nodes < 3 {
		return nil, fmt.Errorf("Need at least 3 sky nodes, but got %d.", nodes)
	} else if aMin <= 0 || aMin >= 1 {
		return nil, fmt.Errorf("SkyAMin must be in (0, 1), but is %g.", aMin)
	}

	as := make([]float64, nodes)
	rs := make([]float64, nodes)
	for j := range as {
		as[j] = aMin + (1-aMin)*float64(j)/float64(nodes-1)
		rs[j] = h.Horizon(as[j])
		if j > 0 && rs[j] >= rs[j-1] {
			return nil, fmt.Errorf(
				"Horizon is not decreasing between a = %g and a = %g.",
				as[j-1], as[j],
			)
		}
	}

	return &SkySampler{
		rMin: rs[nodes-1], rMax: rs[0],
		spline: interpolate.NewSpline(rs, as),
	}, nil
}

// AEmit returns the scale factor at which the horizon is at distance r. It
// returns false if r is outside the tabulated range.
func (ss *SkySampler) AEmit(r float64) (float64, bool) {
	if r < ss.rMin || r > ss.rMax {
		return 0, false
	}
	return ss.spline.Eval(r), true
}

// SkyShell is a table of sky samples which is only used for emission scale
// factors in (ALo, AHi]. Only every Stride-th row is read; a Stride below 2
// keeps every row.
type SkyShell struct {
	Sky      *catalog.SkySamples
	ALo, AHi float64
	Stride   int
}

// Samples converts sky into a sampling store carrying Position and AEmit,
// along with any columns in extra. Samples outside the tabulated distance
// range are dropped.
func (ss *SkySampler) Samples(sky *catalog.SkySamples, extra catalog.Mask) *catalog.Store {
	return ss.ShellSamples([]SkyShell{
		{Sky: sky, ALo: math.Inf(-1), AHi: math.Inf(1)},
	}, extra)
}

// ShellSamples is Samples for several tables, each covering its own range of
// emission scale factors. This lets late times, where the light cone is
// small, be sampled from a coarser table. Samples are stored in shell order.
func (ss *SkySampler) ShellSamples(shells []SkyShell, extra catalog.Mask) *catalog.Store {
	n := 0
	for i := range shells {
		ss.eachInShell(&shells[i], func(int, float64) { n++ })
	}

	s := catalog.NewStore(n, catalog.Position|catalog.AEmit|extra)
	for i := range shells {
		sky := shells[i].Sky
		ss.eachInShell(&shells[i], func(j int, a float64) {
			rec := catalog.Record{X: sky.Cartesian(j), AEmit: a}
			if _, err := s.Append(&rec); err != nil {
				panic(err.Error())
			}
		})
	}
	return s
}

func (ss *SkySampler) eachInShell(shell *SkyShell, f func(j int, a float64)) {
	stride := shell.Stride
	if stride < 1 {
		stride = 1
	}
	for j := 0; j < shell.Sky.Len(); j += stride {
		a, ok := ss.AEmit(shell.Sky.R[j])
		if ok && a > shell.ALo && a <= shell.AHi {
			f(j, a)
		}
	}
}
