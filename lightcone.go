/*
package lightcone reconstructs an observer's past light cone from the
events of a particle-mesh solver.

A Controller subscribes to a solver's event stream. On every force transition
it searches each periodic replica of its sampling points (and, optionally, of
the solver's particles) for the scale factor at which they cross the
observer's horizon, and appends them to a fixed-capacity output store. On
every force evaluation it reads the new potential and tidal field out at the
sampling points and corrects the records appended since the previous
evaluation to their emission times.

Running out of output capacity is fatal: the handler returns an error
wrapping catalog.ErrCapacityExceeded, and the event bus aborts the run.
*/
package lightcone

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/phil-mansfield/lightcone/catalog"
	"github.com/phil-mansfield/lightcone/cosmo"
	"github.com/phil-mansfield/lightcone/event"
	"github.com/phil-mansfield/lightcone/math/mat"
	"github.com/phil-mansfield/lightcone/math/root"
)

// ErrAttached is returned when a Controller is attached to a second event
// source.
var ErrAttached = errors.New("lightcone: controller is already attached to another source")

// Observer describes who is looking at the light cone and how hard to look.
// Zero values are replaced with defaults by New.
type Observer struct {
	// Transform maps simulation coordinates into the observer's frame. The
	// zero value is replaced by the identity.
	Transform mat.Transform
	// FOV is the full opening angle in degrees around the +z axis. Values
	// <= 0 disable the cut, in which case distances are measured along z.
	FOV float64
	// Tiles are the periodic replicas searched. Defaults to the zero shift.
	Tiles [][3]float64

	// HorizonTableSize defaults to DefaultHorizonTableSize.
	HorizonTableSize int
	// SpeedFactor scales the speed of light. Defaults to 1.
	SpeedFactor float64

	// Solver defaults to a Brent solver with root.DefaultMaxIter iterations
	// and an absolute tolerance of root.DefaultEpsAbs.
	Solver root.Solver
	// Workers defaults to runtime.NumCPU().
	Workers int

	// ComputePotential enables potential interpolation. The sampling store
	// must then carry Potential.
	ComputePotential bool
}

func (obs *Observer) setDefaults() {
	if obs.Transform == (mat.Transform{}) {
		obs.Transform = mat.Identity()
	}
	if len(obs.Tiles) == 0 {
		obs.Tiles = [][3]float64{{0, 0, 0}}
	}
	if obs.HorizonTableSize == 0 {
		obs.HorizonTableSize = DefaultHorizonTableSize
	}
	if obs.SpeedFactor == 0 {
		obs.SpeedFactor = 1
	}
	if obs.Solver == nil {
		obs.Solver = root.Brent{MaxIter: root.DefaultMaxIter, EpsAbs: root.DefaultEpsAbs}
	}
	if obs.Workers <= 0 {
		obs.Workers = runtime.NumCPU()
	}
}

// Controller owns the horizon table, the output stores, and the
// interpolation state of one light cone.
type Controller struct {
	obs Observer
	log *slog.Logger

	horizon     *HorizonTable
	intersector *Intersector
	interp      *PotentialInterpolator

	samples, out           *catalog.Store
	particles, particleOut *catalog.Store

	source event.Source
}

var _ event.Handler = &Controller{}

// New creates a Controller which samples the light cone at the points in
// samples and can hold up to capacity records. A nil logger uses
// slog.Default().
//
// The output store carries Position, AEmit, and Source, plus the Lagrangian
// column if samples has one and the Potential and Tidal columns of samples
// when ComputePotential is set.
func New(
	c cosmo.Cosmology, obs Observer, samples *catalog.Store,
	capacity int, logger *slog.Logger,
) (*Controller, error) {
	obs.setDefaults()
	if logger == nil {
		logger = slog.Default()
	}

	if obs.HorizonTableSize < 2 {
		return nil, fmt.Errorf(
			"HorizonTableSize must be at least 2, but is %d.", obs.HorizonTableSize,
		)
	} else if capacity < 0 {
		return nil, fmt.Errorf("Capacity must be non-negative, but is %d.", capacity)
	} else if !samples.Has(catalog.Position) {
		return nil, fmt.Errorf("Sample store carries %s, but needs Position.", samples.Mask())
	} else if obs.ComputePotential && !samples.Has(catalog.Potential) {
		return nil, fmt.Errorf(
			"Potential interpolation needs a sample store with Potential, but it carries %s.",
			samples.Mask(),
		)
	}

	mask := catalog.Position | catalog.AEmit | catalog.Source
	mask |= samples.Mask() & catalog.Lagrangian
	if obs.ComputePotential {
		mask |= samples.Mask() & (catalog.Potential | catalog.Tidal)
	}

	h := NewHorizonTable(c, obs.HorizonTableSize, obs.SpeedFactor)
	ctrl := &Controller{
		obs:         obs,
		log:         logger,
		horizon:     h,
		intersector: NewIntersector(h, &obs),
		interp:      NewPotentialInterpolator(h),
		samples:     samples,
		out:         catalog.NewStore(capacity, mask),
	}

	logger.Info("light cone initialized",
		"samples", samples.Len(), "tiles", len(obs.Tiles),
		"capacity", capacity, "fov", obs.FOV, "mask", mask.String(),
	)
	return ctrl, nil
}

// SetParticles also intersects the solver particles in src, which must carry
// Position, into a second output store of the given capacity. Velocity and ID
// are carried over when src has them. Particles have no potential.
func (ctrl *Controller) SetParticles(src *catalog.Store, capacity int) error {
	if !src.Has(catalog.Position) {
		return fmt.Errorf("Particle store carries %s, but needs Position.", src.Mask())
	} else if capacity < 0 {
		return fmt.Errorf("Capacity must be non-negative, but is %d.", capacity)
	}

	mask := catalog.Position | catalog.AEmit
	mask |= src.Mask() & (catalog.Velocity | catalog.ID)
	ctrl.particles = src
	ctrl.particleOut = catalog.NewStore(capacity, mask)
	return nil
}

// Attach subscribes the controller to src. Attaching to the same source again
// does nothing. Attaching to a different source returns ErrAttached.
func (ctrl *Controller) Attach(src event.Source) error {
	if ctrl.source == src {
		return nil
	} else if ctrl.source != nil {
		return ErrAttached
	}
	src.Subscribe(ctrl)
	ctrl.source = src
	return nil
}

// Handle implements event.Handler.
func (ctrl *Controller) Handle(ctx context.Context, e event.Event) error {
	switch e := e.(type) {
	case *event.ForceEvent:
		return ctrl.force(e)
	case *event.TransitionEvent:
		if e.Action != event.Force {
			return nil
		}
		return ctrl.transition(ctx, &e.Transition)
	}
	return nil
}

func (ctrl *Controller) force(e *event.ForceEvent) error {
	if !ctrl.obs.ComputePotential {
		return nil
	}
	if e.Field == nil {
		return fmt.Errorf("force event at a = %g has no field", e.A)
	}

	n := ctrl.interp.Update(e.A, e.Field, ctrl.samples, ctrl.out)
	st := ctrl.interp.State()
	ctrl.log.Debug("potential interpolated",
		"a", e.A, "records", n, "g_prev", st.GPrev, "g_now", st.GNow,
		"start", st.Start,
	)
	return nil
}

func (ctrl *Controller) transition(ctx context.Context, tr *event.Transition) error {
	n, err := ctrl.intersector.Intersect(ctx, ctrl.samples, ctrl.out, tr.AI, tr.AR)
	if err != nil {
		return fmt.Errorf("sampled light cone: %w", err)
	}
	ctrl.interp.SetStop(ctrl.out.Len())

	args := []any{
		"a1", tr.AI, "a2", tr.AR, "tiles", len(ctrl.obs.Tiles),
		"appended", n, "total", ctrl.out.Len(),
	}

	if ctrl.particles != nil {
		np, err := ctrl.intersector.Intersect(
			ctx, ctrl.particles, ctrl.particleOut, tr.AI, tr.AR,
		)
		if err != nil {
			return fmt.Errorf("particle light cone: %w", err)
		}
		args = append(args, "particles", np)
	}

	ctrl.log.Info("light cone intersected", args...)
	return nil
}

// Reset empties the output stores and forgets all force evaluations. The
// controller stays attached to its source.
func (ctrl *Controller) Reset() {
	ctrl.out.Reset()
	if ctrl.particleOut != nil {
		ctrl.particleOut.Reset()
	}
	ctrl.interp.Reset()
}

// Horizon returns the controller's horizon table.
func (ctrl *Controller) Horizon() *HorizonTable { return ctrl.horizon }

// Samples returns the sampling store.
func (ctrl *Controller) Samples() *catalog.Store { return ctrl.samples }

// Output returns the sampled light cone.
func (ctrl *Controller) Output() *catalog.Store { return ctrl.out }

// ParticleOutput returns the particle light cone, or nil if SetParticles was
// never called.
func (ctrl *Controller) ParticleOutput() *catalog.Store { return ctrl.particleOut }

// State returns the potential interpolation bookkeeping.
func (ctrl *Controller) State() State { return ctrl.interp.State() }

// Observer returns the observer with defaults applied.
func (ctrl *Controller) Observer() Observer { return ctrl.obs }
