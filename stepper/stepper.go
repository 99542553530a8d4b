/*
package stepper drives a light cone without a gravity solver. It walks a list
of scale factors and emits the same sequence of events a leapfrog PM solver
would: a force evaluation at the first scale factor, then for every step a
kick, a drift, and a force transition followed by a force evaluation at the
end of the step.

Fields are supplied by the caller, typically an analytic PlaneWave.
*/
package stepper

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/phil-mansfield/lightcone/event"
)

// Emitter delivers events. *event.Bus is an Emitter.
type Emitter interface {
	Emit(ctx context.Context, e event.Event) error
}

// FieldFunc returns the field at scale factor a.
type FieldFunc func(a float64) event.Field

// LinearSchedule returns steps+1 scale factors evenly spaced between aStart
// and aEnd.
func LinearSchedule(aStart, aEnd float64, steps int) ([]float64, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("Step count must be positive, but is %d.", steps)
	} else if aStart <= 0 || aEnd <= aStart {
		return nil, fmt.Errorf(
			"Need 0 < AStart < AEnd, but AStart = %g and AEnd = %g.",
			aStart, aEnd,
		)
	}

	as := make([]float64, steps+1)
	da := (aEnd - aStart) / float64(steps)
	for i := range as {
		as[i] = aStart + da*float64(i)
	}
	as[steps] = aEnd
	return as, nil
}

// Stepper emits the event sequence of a leapfrog integration.
type Stepper struct {
	out    Emitter
	fields FieldFunc
	log    *slog.Logger
}

// New creates a Stepper which sends events to out and evaluates fields with
// fields. A nil logger uses slog.Default().
func New(out Emitter, fields FieldFunc, logger *slog.Logger) *Stepper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stepper{out: out, fields: fields, log: logger}
}

// Run steps through as, which must be strictly increasing. It stops at the
// first emission error or when ctx is cancelled.
func (s *Stepper) Run(ctx context.Context, as []float64) error {
	if len(as) < 2 {
		return fmt.Errorf("Need at least two scale factors, but got %d.", len(as))
	}
	for i := 0; i < len(as)-1; i++ {
		if as[i+1] <= as[i] {
			return fmt.Errorf(
				"Scale factors must increase, but as[%d] = %g and as[%d] = %g.",
				i, as[i], i+1, as[i+1],
			)
		}
	}

	if err := s.force(ctx, as[0]); err != nil {
		return err
	}

	for k := 0; k < len(as)-1; k++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		ai, af := as[k], as[k+1]
		ah := (ai + af) / 2
		s.log.Debug("step", "step", k, "ai", ai, "af", af)

		for _, tr := range []event.Transition{
			{Action: event.Kick, AI: ai, AR: ai, AF: ah},
			{Action: event.Drift, AI: ai, AR: ah, AF: af},
			{Action: event.Force, AI: ai, AR: af, AF: af},
		} {
			if err := s.out.Emit(ctx, &event.TransitionEvent{Transition: tr}); err != nil {
				return err
			}
		}

		if err := s.force(ctx, af); err != nil {
			return err
		}
	}
	return nil
}

func (s *Stepper) force(ctx context.Context, a float64) error {
	return s.out.Emit(ctx, &event.ForceEvent{A: a, Field: s.fields(a)})
}
