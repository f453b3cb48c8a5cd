// Package watchdog implements single-shot countdown timers that signal peer loss.
//
// Grounded on the context-cancellation idiom in database/mongodb.go (a
// cancelable countdown guarding a long-running operation), generalized here
// into a self-contained, re-armable timer rather than a one-shot operation
// guard.
package watchdog

import (
	"sync"
	"time"

	"driverstation/shared"
)

// ExpiredHandler is invoked, on its own goroutine, when a watchdog expires
// without being reset in time.
type ExpiredHandler func()

// Watchdog is a single-shot countdown: it raises one event on expiry and
// does not auto-rearm. Reset (or SetExpirationTime) restarts the countdown.
type Watchdog struct {
	mu             sync.Mutex
	expirationTime time.Duration
	timer          *time.Timer
	armed          bool
	onExpired      ExpiredHandler
	name           string
}

// New creates a Watchdog with the given expiration interval. It is not armed
// until the first Reset call.
func New(name string, expirationTime time.Duration, onExpired ExpiredHandler) *Watchdog {
	return &Watchdog{
		name:           name,
		expirationTime: expirationTime,
		onExpired:      onExpired,
	}
}

// Reset (re)starts the countdown from now. If a previous countdown was
// pending, it is replaced, not stacked.
func (w *Watchdog) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.armed = true
	w.rearmLocked()
}

// rearmLocked must be called with w.mu held.
func (w *Watchdog) rearmLocked() {
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.expirationTime, w.fire)
}

// fire runs on the timer's own goroutine; it reports expiry exactly once per
// arm cycle and does not auto-rearm.
func (w *Watchdog) fire() {
	w.mu.Lock()
	if !w.armed {
		w.mu.Unlock()
		return
	}
	w.armed = false
	w.mu.Unlock()

	shared.DebugPrint("watchdog %q expired", w.name)
	if w.onExpired != nil {
		w.onExpired()
	}
}

// SetExpirationTime changes the countdown interval and resets the timer:
// it both changes the interval and restarts the countdown.
func (w *Watchdog) SetExpirationTime(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.expirationTime = d
	w.armed = true
	w.rearmLocked()
}

// ExpirationTime returns the currently configured interval.
func (w *Watchdog) ExpirationTime() time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.expirationTime
}

// IsArmed reports whether the watchdog is currently counting down.
func (w *Watchdog) IsArmed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.armed
}

// Stop disarms the watchdog without firing the expired handler. Used on
// engine stop/protocol teardown.
func (w *Watchdog) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.armed = false
	if w.timer != nil {
		w.timer.Stop()
	}
}

// ExpirationFromFrequency derives a watchdog interval from a protocol send
// frequency: 50 missed send slots, i.e. 50 * (1000 / frequencyHz) ms.
func ExpirationFromFrequency(frequencyHz int) time.Duration {
	if frequencyHz <= 0 {
		frequencyHz = 1
	}
	return time.Duration(50*(1000/frequencyHz)) * time.Millisecond
}
