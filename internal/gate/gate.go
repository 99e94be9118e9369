// Package gate serializes collection I/O behind a single busy flag.
//
// A Gate is held for the whole duration of one operation: a cold-start load,
// a user refresh, or a write together with the reload that follows it.
// Acquiring a held gate fails immediately with ErrBusy; nothing is queued.
package gate

import (
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned when an operation is attempted while another one holds
// the gate.
var ErrBusy = errors.New("another operation is in progress")

// Reason describes why the gate is held.
type Reason int32

const (
	// Idle means nothing is in flight.
	Idle Reason = iota

	// Loading marks the cold-start load of the collection.
	Loading

	// Saving marks a write, the reload it triggers, or a user refresh after
	// the first successful load.
	Saving
)

func (r Reason) String() string {
	switch r {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Saving:
		return "saving"
	default:
		return "unknown"
	}
}

// Gate is a non-queuing mutual exclusion with a readable busy reason.
//
// The zero value is not usable; call New.
type Gate struct {
	sem    *semaphore.Weighted
	reason atomic.Int32
}

// New returns an idle Gate.
func New() *Gate {
	return &Gate{sem: semaphore.NewWeighted(1)}
}

// Acquire takes the gate for reason and returns the function that releases
// it. Release must be called exactly once.
func (g *Gate) Acquire(reason Reason) (release func(), err error) {
	if reason == Idle {
		return nil, errors.New("gate: cannot acquire with reason idle")
	}
	if !g.sem.TryAcquire(1) {
		return nil, ErrBusy
	}
	g.reason.Store(int32(reason))

	var released atomic.Bool
	return func() {
		if !released.CompareAndSwap(false, true) {
			return
		}
		g.reason.Store(int32(Idle))
		g.sem.Release(1)
	}, nil
}

// Reason returns why the gate is currently held, or Idle.
func (g *Gate) Reason() Reason {
	return Reason(g.reason.Load())
}

// Busy reports whether any operation holds the gate.
func (g *Gate) Busy() bool {
	return g.Reason() != Idle
}
