/*
package event describes the notifications a time-stepping solver sends while
it advances particles: a force evaluation at a given scale factor, and the
kick, drift, and force transitions which make up each step.

Events are delivered synchronously through a Bus. A handler which returns an
error stops the run: the Bus passes the error to its abort function, which by
default logs it and exits the process.
*/
package event

import (
	"context"
	"fmt"
	"log/slog"
	"os"
)

// Action is the kind of operation performed during a Transition.
type Action int

const (
	Kick Action = iota
	Drift
	Force
)

func (act Action) String() string {
	switch act {
	case Kick:
		return "Kick"
	case Drift:
		return "Drift"
	case Force:
		return "Force"
	}
	return fmt.Sprintf("Action(%d)", int(act))
}

// Transition describes one operation of a step. AI is the scale factor at the
// start of the step, AR the reference scale factor of the operation, and AF
// the scale factor the operation brings its quantity to.
type Transition struct {
	Action     Action
	AI, AR, AF float64
}

// Field is the gravitational field computed during a force evaluation.
type Field interface {
	// ReadOut evaluates the potential and tidal tensor at each point in xs.
	// Either output may be nil, in which case it is not computed. Tidal
	// components are ordered xx, yy, zz, xy, yz, zx.
	ReadOut(xs [][3]float64, pot []float64, tidal [][6]float64)
}

// Event is either a *ForceEvent or a *TransitionEvent.
type Event interface {
	event()
}

// ForceEvent is sent after the force has been evaluated at scale factor A.
type ForceEvent struct {
	A     float64
	Field Field
}

// TransitionEvent is sent after a transition has been applied.
type TransitionEvent struct {
	Transition
}

func (*ForceEvent) event()      {}
func (*TransitionEvent) event() {}

// Handler receives events.
type Handler interface {
	Handle(ctx context.Context, e Event) error
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(ctx context.Context, e Event) error

func (f HandlerFunc) Handle(ctx context.Context, e Event) error { return f(ctx, e) }

// Source is anything handlers can be registered with.
type Source interface {
	Subscribe(h Handler)
}

// Bus delivers events to its subscribers in registration order. It is not
// safe for concurrent use.
type Bus struct {
	handlers []Handler
	abort    func(error)
	log      *slog.Logger
}

var _ Source = &Bus{}

// NewBus creates a Bus which logs to logger. A nil logger uses
// slog.Default().
func NewBus(logger *slog.Logger) *Bus {
	if logger == nil {
		logger = slog.Default()
	}
	bus := &Bus{log: logger}
	bus.abort = bus.exit
	return bus
}

// Subscribe adds h to the end of the handler list.
func (bus *Bus) Subscribe(h Handler) {
	bus.handlers = append(bus.handlers, h)
}

// Handlers returns the number of subscribed handlers.
func (bus *Bus) Handlers() int { return len(bus.handlers) }

// SetAbort replaces the function called when a handler fails. A nil function
// restores the default, which logs the error and exits with status 1.
func (bus *Bus) SetAbort(abort func(error)) {
	if abort == nil {
		abort = bus.exit
	}
	bus.abort = abort
}

// Emit sends e to every handler. If a handler fails, the error is passed to
// the abort function, no further handlers are called, and the error is
// returned.
func (bus *Bus) Emit(ctx context.Context, e Event) error {
	for i, h := range bus.handlers {
		if err := h.Handle(ctx, e); err != nil {
			err = fmt.Errorf("handler %d failed on %s: %w", i, describe(e), err)
			bus.abort(err)
			return err
		}
	}
	return nil
}

func (bus *Bus) exit(err error) {
	bus.log.Error("aborting run", "err", err)
	os.Exit(1)
}

func describe(e Event) string {
	switch e := e.(type) {
	case *ForceEvent:
		return fmt.Sprintf("force event at a = %g", e.A)
	case *TransitionEvent:
		return fmt.Sprintf(
			"%s transition [%g, %g, %g]", e.Action, e.AI, e.AR, e.AF,
		)
	}
	return fmt.Sprintf("%T", e)
}
