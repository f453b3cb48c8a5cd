package engine

import (
	"sync"
	"time"

	"github.com/montanaflynn/stats"
)

// diagWindowSize bounds how many recent samples each tick rail and the
// loss meter retain for the jitter/mean computation.
const diagWindowSize = 50

// diagnostics tracks per-rail tick-to-tick jitter and a rolling window of
// packet-loss samples, so the status API can surface something richer
// than the instantaneous send/receive state.
type diagnostics struct {
	mu sync.Mutex

	last map[string]time.Time
	gaps map[string][]float64
	loss []float64
}

func newDiagnostics() *diagnostics {
	return &diagnostics{
		last: make(map[string]time.Time),
		gaps: make(map[string][]float64),
	}
}

// recordTick records the wall-clock gap since the previous tick on this
// rail, in milliseconds, keeping only the most recent diagWindowSize
// samples.
func (d *diagnostics) recordTick(rail string, at time.Time) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.last[rail]; ok {
		gapMs := float64(at.Sub(prev).Microseconds()) / 1000
		d.gaps[rail] = appendBounded(d.gaps[rail], gapMs, diagWindowSize)
	}
	d.last[rail] = at
}

// recordLoss appends a packet-loss percentage sample.
func (d *diagnostics) recordLoss(pct float64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.loss = appendBounded(d.loss, pct, diagWindowSize)
}

// JitterMillis returns the standard deviation of the recent tick gaps on
// rail, or 0 if fewer than two samples have been recorded.
func (d *diagnostics) JitterMillis(rail string) float64 {
	d.mu.Lock()
	samples := append([]float64(nil), d.gaps[rail]...)
	d.mu.Unlock()

	if len(samples) < 2 {
		return 0
	}
	sd, err := stats.StandardDeviation(samples)
	if err != nil {
		return 0
	}
	return sd
}

// MeanPacketLoss returns the mean of the recent packet-loss samples, or 0
// if none have been recorded yet.
func (d *diagnostics) MeanPacketLoss() float64 {
	d.mu.Lock()
	samples := append([]float64(nil), d.loss...)
	d.mu.Unlock()

	if len(samples) == 0 {
		return 0
	}
	mean, err := stats.Mean(samples)
	if err != nil {
		return 0
	}
	return mean
}

// Diagnostics is a point-in-time snapshot of tick jitter and packet loss,
// suitable for periodic persistence by a telemetry recorder.
type Diagnostics struct {
	FMSJitterMillis   float64
	RadioJitterMillis float64
	RobotJitterMillis float64
	MeanPacketLoss    float64
}

// Diagnostics snapshots the current jitter and packet-loss figures.
func (e *Engine) Diagnostics() Diagnostics {
	return Diagnostics{
		FMSJitterMillis:   e.diag.JitterMillis("fms"),
		RadioJitterMillis: e.diag.JitterMillis("radio"),
		RobotJitterMillis: e.diag.JitterMillis("robot"),
		MeanPacketLoss:    e.diag.MeanPacketLoss(),
	}
}

func appendBounded(samples []float64, v float64, max int) []float64 {
	samples = append(samples, v)
	if len(samples) > max {
		samples = samples[len(samples)-max:]
	}
	return samples
}
