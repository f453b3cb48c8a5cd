package telemetry

import (
	"context"
	"time"

	"driverstation/engine"
)

// RecordPeriodically records a snapshot from eng every interval until ctx
// is canceled. A nil Recorder still runs the loop (each Record call is a
// no-op) so main.go can wire this unconditionally.
func (r *Recorder) RecordPeriodically(ctx context.Context, eng *engine.Engine, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.Record(eng.Config().Snapshot(), eng.Diagnostics())
		}
	}
}
