package sockets

import (
	"testing"

	"driverstation/dsconfig"
)

func TestScanRateDefaultFormula(t *testing.T) {
	s := New()
	cases := []struct {
		listLen int
		want    int
	}{
		{0, 1},
		{1, 1},
		{5, 1},
		{6, 1},
		{12, 2},
		{600, 72},
		{1000, 72},
	}
	for _, c := range cases {
		s.addressList = make([]string, c.listLen)
		if got := s.scanRate(); got != c.want {
			t.Errorf("scanRate() with %d candidates = %d, want %d", c.listLen, got, c.want)
		}
	}
}

func TestScanRateOverride(t *testing.T) {
	s := New()
	s.addressList = make([]string, 600)
	override := 5
	s.SetScanRateOverride(&override)
	if got := s.scanRate(); got != 5 {
		t.Fatalf("scanRate() with override = %d, want 5", got)
	}
	s.SetScanRateOverride(nil)
	if got := s.scanRate(); got != 72 {
		t.Fatalf("scanRate() after clearing override = %d, want 72", got)
	}
}

func TestSetAddressListAppendsEnumeratedCandidates(t *testing.T) {
	s := New()
	s.SetAddressList([]string{"10.11.18.2"})
	if len(s.addressList) <= 1 {
		t.Fatal("expected SetAddressList to append enumerated local candidates")
	}
	if s.addressList[0] != "10.11.18.2" {
		t.Fatalf("first candidate = %q, want the user-supplied address first", s.addressList[0])
	}
}

func TestRefreshAddressListAdvancesCursor(t *testing.T) {
	s := New()
	s.addressList = []string{"a", "b", "c", "d", "e", "f"}
	s.scanCursor = 0
	before := s.scanCursor
	s.RefreshAddressList()
	if s.scanCursor == before {
		t.Fatal("expected scanCursor to advance")
	}
}

func TestRefreshAddressListWrapsModLength(t *testing.T) {
	s := New()
	s.addressList = []string{"a", "b", "c"}
	override := 5
	s.SetScanRateOverride(&override)
	s.scanCursor = 1
	s.RefreshAddressList()
	if s.scanCursor != (1+5)%3 {
		t.Fatalf("scanCursor = %d, want %d", s.scanCursor, (1+5)%3)
	}
}

func TestSetRobotAddressEmptyEngagesScanMode(t *testing.T) {
	s := New()
	s.SetRobotAddress("10.11.18.2")
	if s.IsScanMode() {
		t.Fatal("expected pinned mode after SetRobotAddress with a non-empty address")
	}
	s.SetRobotAddress("")
	if !s.IsScanMode() {
		t.Fatal("expected scan mode after SetRobotAddress(\"\")")
	}
}

func TestSetRobotInputPortReplacesReceiver(t *testing.T) {
	s := New()
	s.Configure(dsconfig.UDP, DisabledPort, DisabledPort, DisabledPort, DisabledPort, 17150, DisabledPort)
	old := s.robot.recv
	s.SetRobotInputPort(17151)
	if s.robot.recv == old {
		t.Fatal("expected a fresh receiver after the input port change")
	}
	if s.robot.inPort != 17151 {
		t.Fatalf("inPort = %d, want 17151", s.robot.inPort)
	}
}

func TestSetFMSOutputPortKeepsReceiver(t *testing.T) {
	s := New()
	s.Configure(dsconfig.UDP, DisabledPort, DisabledPort, DisabledPort, DisabledPort, DisabledPort, DisabledPort)
	recvBefore := s.fms.recv
	s.SetFMSOutputPort(17160)
	if s.fms.recv != recvBefore {
		t.Fatal("expected the receiver half to be untouched by an output port change")
	}
	if s.fms.outPort != 17160 {
		t.Fatalf("outPort = %d, want 17160", s.fms.outPort)
	}
}

func TestScanTargetsLockedRespectsScanRate(t *testing.T) {
	s := New()
	s.addressList = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"}
	got := s.scanTargetsLocked()
	if len(got) != s.scanRate() {
		t.Fatalf("scanTargetsLocked returned %d targets, want %d", len(got), s.scanRate())
	}
}
