// Package elapsed implements the match-time stopwatch: starts on the
// Enabled transition, pauses on Disabled, resets on a mode change while
// still enabled, and emits its formatted value on a 100ms cadence while
// running. The counter does not check robot communication itself: the
// engine starts it whenever the station becomes enabled, with or without a
// connected robot.
package elapsed

import (
	"fmt"
	"sync"
	"time"

	"driverstation/clock"
)

// TickInterval is the emission cadence while running.
const TickInterval = 100 * time.Millisecond

// Counter tracks accumulated running time across Start/Pause/Reset calls.
type Counter struct {
	mu        sync.Mutex
	running   bool
	accrued   time.Duration
	startedAt time.Time
	ticker    *clock.Ticker
	onTick    func(millis int64, formatted string)
}

// New creates a stopped, zeroed Counter. onTick is invoked from the
// ticker's own goroutine every TickInterval while running.
func New(onTick func(millis int64, formatted string)) *Counter {
	c := &Counter{onTick: onTick}
	c.ticker = clock.NewTicker(TickInterval, c.emit)
	return c
}

// Start begins (or resumes) the stopwatch; called on the Enabled
// transition. No-op if already running.
func (c *Counter) Start() {
	c.mu.Lock()
	if c.running {
		c.mu.Unlock()
		return
	}
	c.running = true
	c.startedAt = time.Now()
	c.mu.Unlock()

	c.ticker.Start()
}

// Pause stops accruing time without resetting it; called on the Disabled
// transition. No-op if already paused.
func (c *Counter) Pause() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	c.accrued += time.Since(c.startedAt)
	c.running = false
	c.mu.Unlock()
	c.ticker.Stop()
}

// Reset zeroes accrued time; called on a mode change while enabled. If
// currently running, the stopwatch keeps running from zero.
func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accrued = 0
	if c.running {
		c.startedAt = time.Now()
	}
}

// Elapsed returns the current accumulated duration.
func (c *Counter) Elapsed() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsedLocked()
}

func (c *Counter) elapsedLocked() time.Duration {
	if c.running {
		return c.accrued + time.Since(c.startedAt)
	}
	return c.accrued
}

func (c *Counter) emit() {
	c.mu.Lock()
	d := c.elapsedLocked()
	c.mu.Unlock()
	if c.onTick != nil {
		c.onTick(d.Milliseconds(), Format(d))
	}
}

// Format renders d as mm:ss.d: minutes and seconds zero-padded to two
// digits, one tenths-of-a-second digit.
func Format(d time.Duration) string {
	totalTenths := d.Milliseconds() / 100
	minutes := totalTenths / 600
	seconds := (totalTenths / 10) % 60
	tenths := totalTenths % 10
	return fmt.Sprintf("%02d:%02d.%d", minutes, seconds, tenths)
}
