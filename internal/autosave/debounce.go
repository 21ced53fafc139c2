// Package autosave provides the debounce primitive and the per-field
// controllers that collapse bursty edits into bounded persistence writes.
package autosave

import (
	"sync"
	"time"
)

// Observed quiet windows for the autosave paths.
const (
	NameCheckWait    = 500 * time.Millisecond  // display-name availability checks
	TextFieldWait    = 1000 * time.Millisecond // short free-text fields
	ProgressWait     = 1000 * time.Millisecond // aggregate progress persistence
	LongResponseWait = 2000 * time.Millisecond // long-form exercise responses
)

// Debouncer wraps a mutation function so that rapid-fire calls collapse into
// at most one invocation per quiet window. Trailing-edge by default: each
// Call resets the pending timer and only the last value within the window is
// applied. Fire-and-forget; no result is propagated back to callers.
//
// Invocations are serialized under the internal mutex, so no two runs of the
// wrapped function overlap even if a Flush races the timer.
type Debouncer[T any] struct {
	mu       sync.Mutex
	fn       func(T)
	wait     time.Duration
	leading  bool
	trailing bool

	timer   *time.Timer
	last    T
	pending bool
	stopped bool
}

type Option func(*options)

type options struct {
	leading  bool
	trailing bool
}

// Leading fires immediately on the first call of a burst, then suppresses
// until the quiet window elapses.
func Leading() Option { return func(o *options) { o.leading = true } }

// NoTrailing disables the trailing-edge invocation. Only meaningful together
// with Leading.
func NoTrailing() Option { return func(o *options) { o.trailing = false } }

func NewDebouncer[T any](fn func(T), wait time.Duration, opts ...Option) *Debouncer[T] {
	o := options{trailing: true}
	for _, opt := range opts {
		opt(&o)
	}
	return &Debouncer[T]{fn: fn, wait: wait, leading: o.leading, trailing: o.trailing}
}

// Call schedules fn(v) after the quiet window. A call while a timer is
// pending cancels it and restarts the window with the new value.
func (d *Debouncer[T]) Call(v T) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.leading && d.timer == nil {
		d.fn(v)
		d.pending = false
	} else {
		d.last = v
		d.pending = true
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, d.fire)
}

func (d *Debouncer[T]) fire() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.timer = nil
	if d.stopped || !d.pending || !d.trailing {
		return
	}
	d.pending = false
	d.fn(d.last)
}

// Flush runs any pending invocation now instead of waiting out the window.
func (d *Debouncer[T]) Flush() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.stopped || !d.pending {
		return
	}
	d.pending = false
	d.fn(d.last)
}

// Stop cancels any pending invocation and rejects further calls. Controllers
// call this on teardown so no write lands after the owning view is gone.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	d.pending = false
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
