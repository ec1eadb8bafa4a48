package service

import (
	"context"
	"sync"
	"time"

	"github.com/nvoss/strongbox/internal/actuator"
	"github.com/nvoss/strongbox/internal/logger"
	"github.com/nvoss/strongbox/internal/model"
)

// UnlockStore is the slice of the credential service the lock needs.
type UnlockStore interface {
	VerifyUnlock(ctx context.Context, candidate string) bool
	SetUnlock(ctx context.Context, new1, new2 string) error
}

// Lock owns the safe state machine. It is the only component allowed to
// mutate the safe state and the only caller of the actuator, so the state
// transition and the actuator slot are always updated inside one critical
// section: there is no window where the state says unlocked-post-open while
// the actuator slot is already free for another caller.
type Lock struct {
	mu     sync.Mutex
	state  model.SafeState
	resume model.SafeState // post-pulse state; meaningful while state is DoorOpen
	creds  UnlockStore
	driver *actuator.Driver
	store  model.StateStore
	logger *logger.Logger
}

// NewLock restores the safe state from the store and creates the
// controller. An unknown or transient persisted state boots locked.
func NewLock(creds UnlockStore, driver *actuator.Driver, store model.StateStore, l *logger.Logger) (*Lock, error) {
	var state model.SafeState
	if err := store.View(context.Background(), func(d model.DeviceState) { state = d.State }); err != nil {
		return nil, err
	}

	switch state {
	case model.StateLocked, model.StateUnlockedOnce, model.StateUnlockedPermanent:
	default:
		state = model.StateLocked
	}

	l.Info("lock controller restored", "safe_state", state)
	return &Lock{state: state, creds: creds, driver: driver, store: store, logger: l}, nil
}

// Status returns the current safe state. Pure read.
func (l *Lock) Status() model.SafeState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// TestUnlock reports whether password matches the unlock credential. It
// never changes the safe state.
func (l *Lock) TestUnlock(ctx context.Context, password string) bool {
	return l.creds.VerifyUnlock(ctx, password)
}

// UnlockOnce arms the safe for a single door-open cycle. A no-op when the
// safe is already unlocked.
func (l *Lock) UnlockOnce(ctx context.Context, password string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case model.StateUnlockedOnce, model.StateUnlockedPermanent:
		return nil
	case model.StateDoorOpen:
		return model.ErrActuatorBusy
	}

	if !l.creds.VerifyUnlock(ctx, password) {
		l.logger.Info("unlock rejected", "mode", "once")
		return model.ErrWrongPassword
	}
	return l.transition(ctx, model.StateUnlockedOnce)
}

// UnlockPermanent arms the safe until an explicit relock.
func (l *Lock) UnlockPermanent(ctx context.Context, password string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case model.StateUnlockedPermanent:
		return nil
	case model.StateDoorOpen:
		return model.ErrActuatorBusy
	}

	if !l.creds.VerifyUnlock(ctx, password) {
		l.logger.Info("unlock rejected", "mode", "permanent")
		return model.ErrWrongPassword
	}
	return l.transition(ctx, model.StateUnlockedPermanent)
}

// Open drives the door for the given duration. The pulse runs on its own
// goroutine; Open returns once the transition and the actuator slot are
// committed. A one-shot unlock is consumed at pulse start, so a power loss
// mid-open boots locked.
func (l *Lock) Open(ctx context.Context, duration time.Duration) error {
	if !model.ValidOpenDuration(duration) {
		return model.ErrInvalidDuration
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	switch l.state {
	case model.StateDoorOpen:
		return model.ErrActuatorBusy
	case model.StateLocked:
		return model.ErrStillLocked
	}

	resume := l.state
	if resume == model.StateUnlockedOnce {
		resume = model.StateLocked
	}

	if err := l.driver.Reserve(); err != nil {
		return err
	}
	if err := l.store.Update(ctx, func(d *model.DeviceState) error {
		d.State = resume
		return nil
	}); err != nil {
		l.driver.Unreserve()
		return err
	}

	l.resume = resume
	l.state = model.StateDoorOpen
	l.logger.Info("door opening", "duration", duration, "resume_state", resume)

	go l.completePulse(duration)
	return nil
}

// Lock sets a new unlock password and forces the safe locked, cancelling
// any pending unlock window. If the door is mid-pulse the physical motion
// still completes; the relock takes effect when it does.
func (l *Lock) Lock(ctx context.Context, new1, new2 string) error {
	if err := l.creds.SetUnlock(ctx, new1, new2); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.state == model.StateDoorOpen {
		if l.resume != model.StateLocked {
			if err := l.store.Update(ctx, func(d *model.DeviceState) error {
				d.State = model.StateLocked
				return nil
			}); err != nil {
				return err
			}
			l.resume = model.StateLocked
		}
		l.logger.Info("relock pending until door pulse completes")
		return nil
	}
	return l.transition(ctx, model.StateLocked)
}

// transition persists next and then applies it. Caller holds l.mu.
func (l *Lock) transition(ctx context.Context, next model.SafeState) error {
	if l.state == next {
		return nil
	}
	if err := l.store.Update(ctx, func(d *model.DeviceState) error {
		d.State = next
		return nil
	}); err != nil {
		return err
	}
	l.logger.Info("safe state changed", "from", l.state, "to", next)
	l.state = next
	return nil
}

// completePulse runs the full door cycle and commits the resume state.
func (l *Lock) completePulse(duration time.Duration) {
	err := l.driver.PulseReserved(duration)

	l.mu.Lock()
	defer l.mu.Unlock()

	next := l.resume
	if err != nil {
		// Hardware fault: report and fall back to the safe default.
		l.logger.Error("actuator fault, forcing locked", "error", err.Error())
		next = model.StateLocked
	}

	// The resume state is already durable; persist only when the fault
	// path diverges from it.
	if next != l.resume {
		if perr := l.store.Update(context.Background(), func(d *model.DeviceState) error {
			d.State = next
			return nil
		}); perr != nil {
			l.logger.Error("persist state after pulse", "error", perr.Error())
		}
	}

	l.state = next
	l.logger.Info("door pulse complete", "safe_state", next)
}
