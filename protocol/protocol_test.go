package protocol

import (
	"math"
	"testing"

	"driverstation/dsconfig"
	"driverstation/joystick"
	"driverstation/shared/event_bus"
)

func newTestState(t *testing.T, caps joystick.Caps) *State {
	t.Helper()
	return &State{
		Config:    dsconfig.NewBus(event_bus.NewEventBus(), 1114),
		Counters:  &Counters{},
		Flags:     &RequestFlags{},
		Joysticks: joystick.NewRegistry(caps),
	}
}

func TestRegistryLookup(t *testing.T) {
	for _, name := range []string{"P2014", "P2015", "P2016"} {
		p, err := New(name)
		if err != nil {
			t.Fatalf("New(%q) returned error: %v", name, err)
		}
		if p.Name() != name {
			t.Errorf("New(%q).Name() = %q", name, p.Name())
		}
	}
}

func TestNewUnknownProtocol(t *testing.T) {
	if _, err := New("P1999"); err == nil {
		t.Fatal("expected error for unknown protocol name")
	}
}

func TestNextIndexWraps(t *testing.T) {
	var counter uint32 = 0xFFFF
	idx := NextIndex(&counter)
	if idx != 0xFFFF {
		t.Fatalf("idx = %d, want 0xFFFF", idx)
	}
	idx = NextIndex(&counter)
	if idx != 0 {
		t.Fatalf("idx after wrap = %d, want 0", idx)
	}
}

func TestChecksumP2014OfZeros(t *testing.T) {
	data := make([]byte, p2014CRCOffset)
	crc := ChecksumP2014(data)
	if crc == 0 {
		t.Fatal("CRC-32 of an all-zero buffer must not be 0 (IEEE init/xorout convention)")
	}
	// Same input must produce the same checksum every call.
	if crc2 := ChecksumP2014(data); crc2 != crc {
		t.Fatalf("checksum not deterministic: %d != %d", crc, crc2)
	}
}

func TestTeamStationRoundTrip(t *testing.T) {
	cases := []struct {
		alliance dsconfig.Alliance
		position dsconfig.Position
	}{
		{dsconfig.Red, 1}, {dsconfig.Red, 2}, {dsconfig.Red, 3},
		{dsconfig.Blue, 1}, {dsconfig.Blue, 2}, {dsconfig.Blue, 3},
	}
	for _, c := range cases {
		station := dsconfig.ToTeamStation(c.alliance, c.position)
		gotAlliance, gotPosition := dsconfig.FromTeamStation(station)
		if gotAlliance != c.alliance || gotPosition != c.position {
			t.Errorf("round trip for %v/%d -> %d -> %v/%d", c.alliance, c.position, station, gotAlliance, gotPosition)
		}
	}
}

func TestJoystickWarmupWithholdsBlock(t *testing.T) {
	p := &p201xProtocol{name: "P2016", robotDefaults: p2016RobotDefaults}
	s := newTestState(t, p.JoystickCaps())
	s.Joysticks.Register(4, 10, 1)

	var lastLen int
	for i := 0; i < JoystickWarmupPackets+2; i++ {
		pkt := p.GenerateRobotPacket(s)
		lastLen = len(pkt)
		if i < JoystickWarmupPackets {
			if lastLen != 6 {
				t.Fatalf("packet %d: len = %d, want 6 (no joystick block during warm-up)", i, lastLen)
			}
		}
	}
	if lastLen <= 6 {
		t.Fatalf("packet after warm-up: len = %d, want > 6 (joystick block present)", lastLen)
	}
}

func TestJoystickBlockButtonPacking(t *testing.T) {
	sticks := []joystick.Joystick{
		{NumAxes: 0, NumButtons: 16, NumPOVs: 0, Axes: nil, Buttons: make([]bool, 16), POVs: nil},
		{NumAxes: 0, NumButtons: 17, NumPOVs: 0, Axes: nil, Buttons: make([]bool, 17), POVs: nil},
	}
	buf := appendJoystickBlock(nil, sticks)

	// First section: sectionTotal-1, tag, numAxes(0), numButtons(16), 2 button bytes, numPOVs(0).
	if buf[0] != byte(5+0+2+0-1) {
		t.Errorf("16-button section length byte = %d", buf[0])
	}
	firstSectionLen := int(buf[0]) + 1
	second := buf[firstSectionLen:]
	// 17 buttons packs into ceil(17/8) = 3 bytes.
	if second[0] != byte(5+0+3+0-1) {
		t.Errorf("17-button section length byte = %d", second[0])
	}
}

func TestAppendTimezoneBlockLengthPrefixes(t *testing.T) {
	now := timeNow()
	buf := appendTimezoneBlock(nil, now, "UTC")

	dateLen := int(buf[0])
	if dateLen != 9 {
		t.Fatalf("date section length = %d, want 9 (tag + 8 fields)", dateLen)
	}
	tzSectionStart := 1 + dateLen
	tzLen := int(buf[tzSectionStart])
	wantTzLen := 1 + len("UTC")
	if tzLen != wantTzLen {
		t.Fatalf("tz section length = %d, want %d (tag + %q)", tzLen, wantTzLen, "UTC")
	}
	if got := len(buf); got != tzSectionStart+1+tzLen {
		t.Fatalf("total buffer length = %d, want %d", got, tzSectionStart+1+tzLen)
	}
}

func TestBuildControlByteBits(t *testing.T) {
	cfg := dsconfig.DsConfig{
		ControlMode:     dsconfig.Autonomous,
		EnableStatus:    dsconfig.Enabled,
		FMSCommStatus:   dsconfig.Working,
		OperationStatus: dsconfig.EmergencyStop,
	}
	b := buildControlByte(cfg)
	want := byte(ControlBitAutonomous | ControlBitEnabled | ControlBitFMSAttach | ControlBitEStop)
	if b != want {
		t.Fatalf("buildControlByte = 0x%02x, want 0x%02x", b, want)
	}
}

func TestP2014RobotPacketShapeAndCRC(t *testing.T) {
	p := &p2014Protocol{}
	s := newTestState(t, p.JoystickCaps())
	s.Joysticks.Register(6, 12, 0)

	pkt := p.GenerateRobotPacket(s)
	if len(pkt) != p2014PacketSize {
		t.Fatalf("packet length = %d, want %d", len(pkt), p2014PacketSize)
	}
	if string(pkt[p2014VersionOffset:p2014VersionOffset+8]) != "04011600" {
		t.Fatalf("version string = %q", pkt[p2014VersionOffset:p2014VersionOffset+8])
	}

	want := ChecksumP2014(pkt[:p2014CRCOffset])
	got := uint32(pkt[p2014CRCOffset])<<24 | uint32(pkt[p2014CRCOffset+1])<<16 |
		uint32(pkt[p2014CRCOffset+2])<<8 | uint32(pkt[p2014CRCOffset+3])
	if got != want {
		t.Fatalf("trailing CRC = %d, want %d", got, want)
	}
}

func TestP2014InterpretRobotPacketCodeNotRunningSentinel(t *testing.T) {
	p := &p2014Protocol{}
	s := newTestState(t, p.JoystickCaps())

	data := []byte{0x00, 0x37, 0x37}
	if !p.InterpretRobotPacket(data, s) {
		t.Fatal("InterpretRobotPacket returned false for well-formed input")
	}
	if s.Config.Snapshot().CodeStatus != dsconfig.CodeFailing {
		t.Fatal("0x37/0x37 sentinel should mark code as not running")
	}
}

func TestP2014InterpretRobotPacketVoltageBCD(t *testing.T) {
	p := &p2014Protocol{}
	s := newTestState(t, p.JoystickCaps())

	data := []byte{0x00, 0x12, 0x50} // 12.50V in BCD
	p.InterpretRobotPacket(data, s)
	if v := s.Config.Snapshot().Voltage; v != 12.5 {
		t.Fatalf("voltage = %v, want 12.5", v)
	}
}

func TestP201xInterpretRobotPacketRejectsShortInput(t *testing.T) {
	p := &p201xProtocol{name: "P2015", robotDefaults: p2015RobotDefaults}
	s := newTestState(t, p.JoystickCaps())
	if p.InterpretRobotPacket([]byte{1, 2, 3}, s) {
		t.Fatal("expected false for a packet shorter than 8 bytes")
	}
}

func TestP201xVoltageDecodeFormula(t *testing.T) {
	p := &p201xProtocol{name: "P2015", robotDefaults: p2015RobotDefaults}
	s := newTestState(t, p.JoystickCaps())

	data := make([]byte, 8)
	data[3] = 0x00
	data[4] = 0x20 // code running
	data[5] = 12   // integer volts
	data[6] = 128  // fractional byte
	data[7] = 0x00

	p.InterpretRobotPacket(data, s)
	// The config bus stores voltage rounded to 0.01V.
	want := math.Round((12.0+128.0*99.0/255.0/100.0)*100) / 100
	if got := s.Config.Snapshot().Voltage; got != want {
		t.Fatalf("voltage = %v, want %v", got, want)
	}
}

func TestDefaultAddressesDiffer(t *testing.T) {
	p2015, _ := New("P2015")
	p2016, _ := New("P2016")
	team := 1114

	a2015 := p2015.DefaultRobotAddresses(team)
	a2016 := p2016.DefaultRobotAddresses(team)
	if len(a2016) <= len(a2015) {
		t.Fatalf("expected P2016 to probe one more candidate (mDNS -FRC) than P2015: %v vs %v", a2016, a2015)
	}
}

func TestRadioAndTeamAddressFormatting(t *testing.T) {
	if got := radioAddress(3794); got != "10.37.94.1" {
		t.Errorf("radioAddress(3794) = %q", got)
	}
	if got := teAmAddress(118); got != "10.01.18.2" {
		t.Errorf("teAmAddress(118) = %q", got)
	}
}
