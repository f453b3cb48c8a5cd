package engine

import (
	"testing"
	"time"

	"driverstation/dsconfig"
	"driverstation/shared"
	"driverstation/shared/event_bus"

	_ "driverstation/protocol" // register P2014/P2015/P2016 factories
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e := New(event_bus.NewEventBus(), 1114)
	t.Cleanup(e.Shutdown)
	return e
}

func TestSendIntervalFormula(t *testing.T) {
	cases := []struct {
		hz   int
		want time.Duration
	}{
		{50, time.Duration(0.9 * float64(20*time.Millisecond))},
		{2, time.Duration(0.9 * float64(500*time.Millisecond))},
		{0, time.Duration(0.9 * float64(time.Second))},
	}
	for _, c := range cases {
		got := sendInterval(c.hz)
		if got != c.want {
			t.Errorf("sendInterval(%d) = %v, want %v", c.hz, got, c.want)
		}
	}
}

func TestSetProtocolConfiguresPortsAndIntervals(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetProtocol("P2016"); err != nil {
		t.Fatalf("SetProtocol: %v", err)
	}
	if e.proto == nil || e.proto.Name() != "P2016" {
		t.Fatalf("expected P2016 bound, got %v", e.proto)
	}
	if e.protoState == nil {
		t.Fatal("expected protoState to be initialized")
	}
}

func TestSetProtocolUnknownNameReturnsError(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetProtocol("P1999"); err == nil {
		t.Fatal("expected error for unknown protocol name")
	}
}

func TestRemoveLastJoystickWhileTeleopDisables(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetProtocol("P2016"); err != nil {
		t.Fatalf("SetProtocol: %v", err)
	}
	idx, ok := e.RegisterJoystick(4, 10, 1)
	if !ok {
		t.Fatal("expected joystick registration to succeed")
	}
	e.config.SetControlMode(dsconfig.Teleoperated)
	e.SetEnabled(true)

	if !e.RemoveJoystick(idx) {
		t.Fatal("expected joystick removal to succeed")
	}
	if e.config.Snapshot().EnableStatus != dsconfig.Disabled {
		t.Error("expected removing the last joystick in Teleoperated to force Disabled")
	}
}

func TestSetEnabledAcceptsUnconditionally(t *testing.T) {
	e := newTestEngine(t)
	e.SetEnabled(true)
	if e.config.Snapshot().EnableStatus != dsconfig.Enabled {
		t.Error("expected SetEnabled(true) to be accepted with no robot/code present")
	}
}

func TestPacketLossNeverConnectedIsFull(t *testing.T) {
	if got := PacketLoss(0, 0, false); got != 100 {
		t.Errorf("PacketLoss(0,0,false) = %v, want 100", got)
	}
}

func TestPacketLossNoSendsYetIsZero(t *testing.T) {
	if got := PacketLoss(0, 0, true); got != 0 {
		t.Errorf("PacketLoss(0,0,true) = %v, want 0", got)
	}
}

func TestPacketLossPartialReceipt(t *testing.T) {
	got := PacketLoss(80, 100, true)
	if got != 20 {
		t.Errorf("PacketLoss(80,100,true) = %v, want 20", got)
	}
}

func TestPacketLossClampsNonNegative(t *testing.T) {
	got := PacketLoss(120, 100, true)
	if got != 0 {
		t.Errorf("PacketLoss(120,100,true) = %v, want 0 (clamped)", got)
	}
}

func TestSubmitSetTeamViaCommandQueue(t *testing.T) {
	e := newTestEngine(t)
	reply := make(chan any, 1)
	e.Submit(&shared.DefaultMsg{Msg: CmdSetTeam, Payload: 254, ReplyChan: reply})
	<-reply
	if e.config.Snapshot().Team != 254 {
		t.Errorf("expected team 254, got %d", e.config.Snapshot().Team)
	}
}

func TestSubmitUnknownCommandRepliesError(t *testing.T) {
	e := newTestEngine(t)
	reply := make(chan any, 1)
	e.Submit(&shared.DefaultMsg{Msg: "NOT_A_COMMAND", ReplyChan: reply})
	got := <-reply
	if got != shared.ErrUnknownCommand {
		t.Errorf("expected ErrUnknownCommand, got %v", got)
	}
}

func TestSubmitRegisterJoystickReturnsIndex(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetProtocol("P2016"); err != nil {
		t.Fatalf("SetProtocol: %v", err)
	}
	reply := make(chan any, 1)
	e.Submit(&shared.DefaultMsg{
		Msg:       CmdRegisterJoystick,
		Payload:   JoystickPayload{Axes: 4, Buttons: 10, POVs: 1},
		ReplyChan: reply,
	})
	result := (<-reply).(RegisterJoystickResult)
	if !result.OK || result.Index != 0 {
		t.Errorf("expected first joystick registration to succeed at index 0, got %+v", result)
	}
}

func TestDiagnosticsRecordTickProducesJitter(t *testing.T) {
	d := newDiagnostics()
	base := time.Now()
	d.recordTick("robot", base)
	d.recordTick("robot", base.Add(20*time.Millisecond))
	d.recordTick("robot", base.Add(41*time.Millisecond))
	if d.JitterMillis("robot") < 0 {
		t.Error("expected non-negative jitter")
	}
	if d.JitterMillis("unknown-rail") != 0 {
		t.Error("expected zero jitter for a rail with no samples")
	}
}

func TestDiagnosticsMeanPacketLoss(t *testing.T) {
	d := newDiagnostics()
	d.recordLoss(10)
	d.recordLoss(20)
	mean := d.MeanPacketLoss()
	if mean != 15 {
		t.Errorf("MeanPacketLoss() = %v, want 15", mean)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	e := newTestEngine(t)
	e.Init()
	e.Init()
}

func TestCountersSurviveProtocolSwap(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetProtocol("P2015"); err != nil {
		t.Fatalf("SetProtocol: %v", err)
	}
	e.protoState.Counters.SentRobot = 7
	e.protoState.Counters.RecvRobot = 3
	if err := e.SetProtocol("P2014"); err != nil {
		t.Fatalf("SetProtocol: %v", err)
	}
	if e.protoState.Counters.SentRobot != 7 || e.protoState.Counters.RecvRobot != 3 {
		t.Errorf("counters reset on protocol swap: %+v", *e.protoState.Counters)
	}
	if e.protoState.PacketsSinceBind != 0 {
		t.Error("expected the joystick warm-up count to restart with the new protocol")
	}
}

func TestRobotEStopForcesDisabled(t *testing.T) {
	e := newTestEngine(t)
	if err := e.SetProtocol("P2015"); err != nil {
		t.Fatalf("SetProtocol: %v", err)
	}
	e.SetEnabled(true)

	pkt := make([]byte, 8)
	pkt[3] = 0x80 // robot-side e-stop
	pkt[4] = 0x20 // code running
	e.onRobotData(pkt)

	snap := e.config.Snapshot()
	if snap.OperationStatus != dsconfig.EmergencyStop {
		t.Error("expected the e-stop bit to set EmergencyStop")
	}
	if snap.EnableStatus != dsconfig.Disabled {
		t.Error("expected an e-stop to force Disabled")
	}
}

func TestCustomRobotAddressSurvivesProtocolSwap(t *testing.T) {
	e := newTestEngine(t)
	e.SetCustomRobotAddress("10.11.14.2")
	if err := e.SetProtocol("P2016"); err != nil {
		t.Fatalf("SetProtocol: %v", err)
	}
	if e.sockets.IsScanMode() {
		t.Error("expected the custom robot address to stay pinned across a protocol swap")
	}
	e.SetCustomRobotAddress("")
	if !e.sockets.IsScanMode() {
		t.Error("expected clearing the custom robot address to return to scan mode")
	}
}
