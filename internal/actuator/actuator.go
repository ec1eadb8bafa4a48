// Package actuator drives the physical door mechanism. The hardware has a
// single output, so the driver serializes through a single-slot lock: a
// concurrent pulse attempt fails instead of queuing. A pulse, once started,
// always completes; there is deliberately no cancel.
package actuator

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nvoss/strongbox/internal/logger"
	"github.com/nvoss/strongbox/internal/model"
)

// Clock abstracts blocking waits so tests can run pulses instantly.
type Clock interface {
	Sleep(d time.Duration)
}

// SystemClock is the real wall clock.
type SystemClock struct{}

func (SystemClock) Sleep(d time.Duration) { time.Sleep(d) }

// Driver owns the door output. The slot channel holds one token when the
// actuator is idle; taking the token claims the actuator.
type Driver struct {
	out    Output
	clock  Clock
	logger *logger.Logger
	slot   chan struct{}
}

// New creates a Driver for the given output.
func New(out Output, clock Clock, l *logger.Logger) *Driver {
	d := &Driver{out: out, clock: clock, logger: l, slot: make(chan struct{}, 1)}
	d.slot <- struct{}{}
	return d
}

// Reserve claims the actuator slot without engaging the output. It never
// blocks; if the actuator is mid-pulse it returns ErrActuatorBusy. Callers
// that reserve must follow up with PulseReserved or Unreserve.
func (d *Driver) Reserve() error {
	select {
	case <-d.slot:
		return nil
	default:
		return model.ErrActuatorBusy
	}
}

// Unreserve returns an unused reservation. It must not be called once
// PulseReserved has started; physical motion always runs to completion.
func (d *Driver) Unreserve() {
	d.slot <- struct{}{}
}

// Pulse claims the slot and drives one full open/close cycle, blocking the
// caller for the whole duration.
func (d *Driver) Pulse(duration time.Duration) error {
	if err := d.Reserve(); err != nil {
		return err
	}
	return d.PulseReserved(duration)
}

// PulseReserved drives one cycle on an already-reserved slot and frees the
// slot when the cycle finishes, successfully or not.
func (d *Driver) PulseReserved(duration time.Duration) error {
	defer func() { d.slot <- struct{}{} }()

	taskID := uuid.New()
	d.logger.Info("actuator engaged", "task_id", taskID, "duration", duration)

	if err := d.out.Engage(); err != nil {
		d.logger.Error("actuator engage failed", "task_id", taskID, "error", err.Error())
		return fmt.Errorf("engage output: %w", err)
	}

	d.clock.Sleep(duration)

	if err := d.out.Release(); err != nil {
		d.logger.Error("actuator release failed", "task_id", taskID, "error", err.Error())
		return fmt.Errorf("release output: %w", err)
	}

	d.logger.Info("actuator released", "task_id", taskID)
	return nil
}
