// Package debounce delays a callback until calls stop arriving.
//
// A Debouncer keeps at most one pending callback. Each Trigger stops the
// pending timer and schedules the new callback, so only the last call in a
// burst runs, one delay after the burst ends.
package debounce

import (
	"sync"
	"time"
)

// DefaultDelay is the pause after the last keystroke before a search runs.
const DefaultDelay = 150 * time.Millisecond

type Debouncer struct {
	mu    sync.Mutex
	clock Clock
	delay time.Duration
	timer Timer
	// gen identifies the live timer. A callback whose generation no longer
	// matches was superseded or cancelled and must not run.
	gen uint64
}

// New returns a Debouncer. A nil clock means the system clock.
func New(delay time.Duration, clock Clock) *Debouncer {
	if clock == nil {
		clock = SystemClock{}
	}
	if delay < 0 {
		delay = 0
	}
	return &Debouncer{clock: clock, delay: delay}
}

// Trigger replaces any pending callback with fn, due one delay from now.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopLocked()
	d.gen++
	gen := d.gen
	d.timer = d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen || d.timer == nil {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()

		fn()
	})
}

// Cancel drops the pending callback, if any.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopLocked()
	d.gen++
}

// Pending reports whether a callback is scheduled and has not run yet.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
