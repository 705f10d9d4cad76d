package pipeline

import (
	"errors"
	"time"
)

var (
	// A bounded gate acquire expired before a permit was released
	ErrAcquireTimeout = errors.New("gate acquire timed out")
	// The acquire was cancelled by the stop channel
	errStopped = errors.New("gate acquire stopped")
)

// A counting permit pool bounding how many buffers may be in flight
// at once. Acquire blocks when no permits remain, Release returns a
// permit. Backed by a buffered channel holding the free permits.
type Gate struct {
	permits chan struct{}
}

// Permit capacity of the gate
func (g *Gate) Capacity() int {
	return cap(g.permits)
}

// Number of permits currently free
func (g *Gate) Free() int {
	return len(g.permits)
}

// Take one permit. Blocks until a permit is released, the stop
// channel fires, or the timeout expires (zero means wait forever).
func (g *Gate) Acquire(timeout time.Duration, stopC <-chan bool) error {
	if timeout <= 0 {
		select {
		case <-g.permits:
			return nil
		case <-stopC:
			return errStopped
		}
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-g.permits:
		return nil
	case <-stopC:
		return errStopped
	case <-timer.C:
		return ErrAcquireTimeout
	}
}

// Return one permit. Must be called exactly once per acquire, the
// production loop wraps it in a sync.Once per handoff.
func (g *Gate) Release() {
	select {
	case g.permits <- struct{}{}:
	default:
		// Releasing more permits than were acquired is a
		// programming error, never block on it
	}
}

// Construct a gate with capacity permits free
func NewGate(capacity int) *Gate {
	permits := make(chan struct{}, capacity)
	for i := 0; i < capacity; i++ {
		permits <- struct{}{}
	}
	return &Gate{permits: permits}
}
