package lightcone

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/phil-mansfield/lightcone/catalog"
	"github.com/phil-mansfield/lightcone/math/mat"
	"github.com/phil-mansfield/lightcone/math/root"
)

// ctxCheckInterval is how many (tile, particle) pairs a worker processes
// between checks for cancellation.
const ctxCheckInterval = 1 << 12

// crossing is a (tile, particle) pair found on the light cone.
type crossing struct {
	i int
	x [3]float64
	a float64
}

// Intersector finds the particles of a store which cross the observer's past
// light cone during a step and appends them to an output store.
//
// Intersector keeps per-worker buffers between calls, so a single
// Intersector must not run Intersect concurrently with itself.
type Intersector struct {
	horizon   *HorizonTable
	tiles     [][3]float64
	transform mat.Transform
	fov       float64
	solver    root.Solver
	potFactor float64

	workers int
	hits    [][]crossing
}

// NewIntersector creates an Intersector for the observer described by obs.
// obs is expected to have had its defaults applied.
func NewIntersector(h *HorizonTable, obs *Observer) *Intersector {
	it := &Intersector{
		horizon:   h,
		tiles:     obs.Tiles,
		transform: obs.Transform,
		fov:       obs.FOV,
		solver:    obs.Solver,
		potFactor: PotentialFactor(h.Cosmology()),
		workers:   obs.Workers,
	}
	it.hits = make([][]crossing, it.workers)
	return it
}

// Tiles returns the number of periodic replicas searched.
func (it *Intersector) Tiles() int { return len(it.tiles) }

// Intersect searches every replica of every particle in src for a crossing
// with a1 <= a_emit <= a2 and appends each one to dst in tile-major order. It
// returns the number of records appended.
//
// Crossed particles are written in the observer's frame. If both stores carry
// Potential or Tidal, those columns are converted with
// v / a_emit * PotentialFactor. The Source column records the particle's
// index in src.
//
// If dst fills up, Intersect stops and returns an error wrapping
// catalog.ErrCapacityExceeded. Records appended before that are kept.
func (it *Intersector) Intersect(
	ctx context.Context, src, dst *catalog.Store, a1, a2 float64,
) (int, error) {
	if !src.Has(catalog.Position) {
		panic("Intersect() given a source store without positions.")
	}

	n := src.Len()
	total := n * len(it.tiles)

	g, ctx := errgroup.WithContext(ctx)
	for id := 0; id < it.workers; id++ {
		id := id
		lo, hi := total*id/it.workers, total*(id+1)/it.workers
		g.Go(func() error {
			return it.search(ctx, id, src, lo, hi, a1, a2)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	appended := 0
	for id := range it.hits {
		for j := range it.hits[id] {
			if err := it.write(src, dst, &it.hits[id][j]); err != nil {
				return appended, fmt.Errorf(
					"appending crossings in [%g, %g]: %w", a1, a2, err,
				)
			}
			appended++
		}
	}
	return appended, nil
}

// search fills the id-th workspace with the crossings among the flattened
// (tile, particle) pairs in [lo, hi).
func (it *Intersector) search(
	ctx context.Context, id int, src *catalog.Store, lo, hi int, a1, a2 float64,
) error {
	xs := src.X()
	aEmit := src.AEmit()
	n := len(xs)

	hits := it.hits[id][:0]
	for k := lo; k < hi; k++ {
		if (k-lo)%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		t, i := k/n, k%n
		tile := it.tiles[t]
		xo := it.transform.ApplyPoint(xs[i], [4]float64{tile[0], tile[1], tile[2], 0})

		var a float64
		if aEmit != nil {
			a = aEmit[i]
			if a < a1 || a > a2 {
				continue
			}
		} else {
			var ok bool
			if a, ok = it.solve(xo, a1, a2); !ok {
				continue
			}
		}

		if it.fov > 0 && mat.ZAngle(xo) > it.fov/2 {
			continue
		}
		hits = append(hits, crossing{i: i, x: xo, a: a})
	}
	it.hits[id] = hits
	return nil
}

// solve finds the scale factor at which the horizon reaches xo. Brackets
// without a sign change and searches which fail to converge report false.
func (it *Intersector) solve(xo [3]float64, a1, a2 float64) (float64, bool) {
	var dist float64
	if it.fov <= 0 {
		dist = xo[2]
	} else {
		dist = mat.Norm(xo)
	}

	f := func(a float64) float64 { return dist - it.horizon.Horizon(a) }
	a, err := it.solver.Solve(f, a1, a2)
	if err != nil {
		return 0, false
	}
	return a, true
}

func (it *Intersector) write(src, dst *catalog.Store, c *crossing) error {
	rec := catalog.Record{X: c.x, AEmit: c.a, Source: c.i}

	if vs := src.V(); vs != nil {
		rec.V = it.transform.ApplyVector(vs[c.i])
	}
	if ids := src.IDs(); ids != nil {
		rec.ID = ids[c.i]
	}
	if qs := src.Q(); qs != nil {
		rec.Q = qs[c.i]
	}

	scale := it.potFactor / c.a
	if pot := src.Potential(); pot != nil {
		rec.Potential = pot[c.i] * scale
	}
	if tidal := src.Tidal(); tidal != nil {
		for j := range rec.Tidal {
			rec.Tidal[j] = tidal[c.i][j] * scale
		}
	}

	_, err := dst.Append(&rec)
	return err
}
