package clock

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestTickerFiresRepeatedly(t *testing.T) {
	var count int32
	tk := NewTicker(10*time.Millisecond, func() {
		atomic.AddInt32(&count, 1)
	})
	tk.Start()
	defer tk.Stop()

	time.Sleep(105 * time.Millisecond)

	got := atomic.LoadInt32(&count)
	if got < 8 || got > 12 {
		t.Errorf("expected roughly 10 ticks in 105ms at 10ms interval, got %d", got)
	}
}

func TestTickerStopHalts(t *testing.T) {
	var count int32
	tk := NewTicker(5*time.Millisecond, func() {
		atomic.AddInt32(&count, 1)
	})
	tk.Start()
	time.Sleep(20 * time.Millisecond)
	tk.Stop()
	after := atomic.LoadInt32(&count)

	time.Sleep(30 * time.Millisecond)
	if atomic.LoadInt32(&count) != after {
		t.Error("expected no further ticks after Stop")
	}
}

func TestTickerSetIntervalTakesEffect(t *testing.T) {
	var count int32
	tk := NewTicker(50*time.Millisecond, func() {
		atomic.AddInt32(&count, 1)
	})
	tk.Start()
	defer tk.Stop()
	tk.SetInterval(5 * time.Millisecond)

	time.Sleep(60 * time.Millisecond)
	if atomic.LoadInt32(&count) < 5 {
		t.Errorf("expected interval change to speed up ticking, got %d ticks", count)
	}
}
