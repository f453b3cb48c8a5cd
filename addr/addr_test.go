package addr

import "testing"

func TestRadioAddress(t *testing.T) {
	cases := []struct {
		team int
		want string
	}{
		{1, "10.00.01.1"},
		{3794, "10.37.94.1"},
		{118, "10.01.18.1"},
	}
	for _, c := range cases {
		if got := RadioAddress(c.team); got != c.want {
			t.Errorf("RadioAddress(%d) = %q, want %q", c.team, got, c.want)
		}
	}
}

func TestRobotAddressLegacy(t *testing.T) {
	if got := RobotAddressLegacy(3794); got != "10.37.94.2" {
		t.Errorf("RobotAddressLegacy(3794) = %q, want 10.37.94.2", got)
	}
}

func TestEnumerateCandidatesIncludesLoopback(t *testing.T) {
	candidates := EnumerateCandidates()
	if len(candidates) == 0 {
		t.Fatal("expected at least the loopback fallback")
	}
	if candidates[len(candidates)-1] != "127.0.0.1" {
		t.Errorf("expected last candidate to be 127.0.0.1, got %q", candidates[len(candidates)-1])
	}
}

func TestSubnet24(t *testing.T) {
	prefix, ok := subnet24("192.168.1.42")
	if !ok || prefix != "192.168.1" {
		t.Errorf("subnet24 = %q, %v, want 192.168.1, true", prefix, ok)
	}
	if _, ok := subnet24("not-an-ip"); ok {
		t.Error("expected subnet24 to reject invalid input")
	}
}
