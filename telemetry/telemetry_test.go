package telemetry

import (
	"context"
	"os"
	"testing"
	"time"

	"driverstation/dsconfig"
	"driverstation/engine"
	"driverstation/shared/event_bus"
)

func TestStartWithoutURIReturnsNoOpRecorder(t *testing.T) {
	t.Setenv("MONGODB_URI", "")
	os.Unsetenv("MONGODB_URI")

	r, err := Start(context.Background())
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if r != nil {
		t.Fatal("expected a nil Recorder when MONGODB_URI is unset")
	}
}

func TestNilRecorderMethodsAreNoOps(t *testing.T) {
	var r *Recorder

	r.Record(dsconfig.DsConfig{}, engine.Diagnostics{})
	r.Stop()

	if r.IsHealthy() {
		t.Error("expected a nil Recorder to report unhealthy")
	}
}

func TestRecordPeriodicallyStopsOnContextCancel(t *testing.T) {
	var r *Recorder
	eng := engine.New(event_bus.NewEventBus(), 1114)
	t.Cleanup(eng.Shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		r.RecordPeriodically(ctx, eng, time.Millisecond)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RecordPeriodically did not stop after context cancel")
	}
}
