package watchdog

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestWatchdogExpiresOnce(t *testing.T) {
	var fired int32
	w := New("test", 10*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	w.Reset()

	time.Sleep(50 * time.Millisecond)

	if atomic.LoadInt32(&fired) != 1 {
		t.Errorf("expected exactly one expiry, got %d", fired)
	}
	if w.IsArmed() {
		t.Error("expected watchdog to be disarmed after firing")
	}
}

func TestWatchdogResetPreventsExpiry(t *testing.T) {
	var fired int32
	w := New("test", 30*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	w.Reset()

	for i := 0; i < 3; i++ {
		time.Sleep(15 * time.Millisecond)
		w.Reset()
	}

	if atomic.LoadInt32(&fired) != 0 {
		t.Errorf("expected no expiry while being reset, got %d", fired)
	}
}

func TestSetExpirationTimeResets(t *testing.T) {
	var fired int32
	w := New("test", 10*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	w.Reset()
	w.SetExpirationTime(100 * time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Error("expected no expiry yet: interval was extended")
	}

	time.Sleep(100 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 1 {
		t.Errorf("expected one expiry after extended interval elapsed, got %d", fired)
	}
}

func TestStopPreventsExpiry(t *testing.T) {
	var fired int32
	w := New("test", 10*time.Millisecond, func() {
		atomic.AddInt32(&fired, 1)
	})
	w.Reset()
	w.Stop()

	time.Sleep(30 * time.Millisecond)
	if atomic.LoadInt32(&fired) != 0 {
		t.Error("expected no expiry after Stop")
	}
}

func TestExpirationFromFrequency(t *testing.T) {
	if got := ExpirationFromFrequency(50); got != 1000*time.Millisecond {
		t.Errorf("ExpirationFromFrequency(50) = %v, want 1000ms", got)
	}
	if got := ExpirationFromFrequency(2); got != 25000*time.Millisecond {
		t.Errorf("ExpirationFromFrequency(2) = %v, want 25000ms", got)
	}
}
