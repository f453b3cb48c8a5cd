package elapsed

import (
	"testing"
	"time"
)

func TestFormatZero(t *testing.T) {
	if got := Format(0); got != "00:00.0" {
		t.Fatalf("Format(0) = %q, want 00:00.0", got)
	}
}

func TestFormatMinutesSecondsTenths(t *testing.T) {
	d := 2*time.Minute + 5*time.Second + 300*time.Millisecond
	if got := Format(d); got != "02:05.3" {
		t.Fatalf("Format(%v) = %q, want 02:05.3", d, got)
	}
}

func TestStartAccruesTime(t *testing.T) {
	c := New(nil)
	c.Start()
	time.Sleep(20 * time.Millisecond)
	c.Pause()
	if c.Elapsed() <= 0 {
		t.Fatal("expected positive elapsed time after Start then Pause")
	}
}

func TestPauseFreezesElapsed(t *testing.T) {
	c := New(nil)
	c.Start()
	time.Sleep(20 * time.Millisecond)
	c.Pause()
	first := c.Elapsed()
	time.Sleep(20 * time.Millisecond)
	second := c.Elapsed()
	if first != second {
		t.Fatalf("elapsed changed while paused: %v != %v", first, second)
	}
}

func TestResetZeroesWhileRunning(t *testing.T) {
	c := New(nil)
	c.Start()
	time.Sleep(20 * time.Millisecond)
	c.Reset()
	if d := c.Elapsed(); d >= 20*time.Millisecond {
		t.Fatalf("elapsed after reset = %v, expected near zero", d)
	}
	time.Sleep(10 * time.Millisecond)
	if c.Elapsed() <= 0 {
		t.Fatal("expected counter to keep running after Reset")
	}
}

func TestPauseNoOpWhenNotRunning(t *testing.T) {
	c := New(nil)
	c.Pause()
	if c.Elapsed() != 0 {
		t.Fatal("expected zero elapsed for a Counter that was never started")
	}
}

func TestOnTickFiresWhileRunning(t *testing.T) {
	ticks := make(chan string, 4)
	c := New(func(millis int64, formatted string) {
		select {
		case ticks <- formatted:
		default:
		}
	})
	c.Start()
	defer c.Pause()

	select {
	case <-ticks:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("expected at least one tick within 500ms of a 100ms cadence")
	}
}
