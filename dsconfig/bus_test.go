package dsconfig

import (
	"sync/atomic"
	"testing"
	"time"

	"driverstation/shared/event_bus"
)

func newTestBus() (*Bus, event_bus.EventBus) {
	eb := event_bus.NewEventBus()
	return NewBus(eb, 3794), eb
}

func TestSetTeamRejectsOutOfRange(t *testing.T) {
	b, _ := newTestBus()
	b.SetTeam(0)
	if b.Snapshot().Team != 3794 {
		t.Error("expected out-of-range team to be rejected")
	}
	b.SetTeam(10000)
	if b.Snapshot().Team != 3794 {
		t.Error("expected out-of-range team to be rejected")
	}
}

func TestSetControlModeIdempotentEmitsOnce(t *testing.T) {
	b, eb := newTestBus()
	var count int32
	eb.Subscribe(EventControlModeChanged, nil, func(event_bus.Event) {
		atomic.AddInt32(&count, 1)
	})

	b.SetControlMode(Autonomous)
	b.SetControlMode(Autonomous)
	time.Sleep(20 * time.Millisecond)

	if atomic.LoadInt32(&count) != 1 {
		t.Errorf("expected exactly one controlModeChanged, got %d", count)
	}
}

func TestCanBeEnabledFormula(t *testing.T) {
	cases := []struct {
		comm   CommStatus
		code   CodeStatus
		op     OperationStatus
		expect bool
	}{
		{Working, CodeRunning, Normal, true},
		{Failing, CodeRunning, Normal, false},
		{Working, CodeFailing, Normal, false},
		{Working, CodeRunning, EmergencyStop, false},
	}
	for _, c := range cases {
		cfg := DsConfig{RobotCommStatus: c.comm, CodeStatus: c.code, OperationStatus: c.op}
		if got := cfg.CanBeEnabled(); got != c.expect {
			t.Errorf("CanBeEnabled(%+v) = %v, want %v", c, got, c.expect)
		}
	}
}

func TestComputeStatusStringPrecedence(t *testing.T) {
	cases := []struct {
		cfg  DsConfig
		want string
	}{
		{DsConfig{RobotCommStatus: Failing}, "No Robot Communication"},
		{DsConfig{RobotCommStatus: Working, CodeStatus: CodeFailing}, "No Robot Code"},
		{DsConfig{RobotCommStatus: Working, CodeStatus: CodeRunning, VoltageStatus: Brownout}, "Voltage Brownout"},
		{DsConfig{RobotCommStatus: Working, CodeStatus: CodeRunning, OperationStatus: EmergencyStop}, "Emergency Stopped"},
		{DsConfig{RobotCommStatus: Working, CodeStatus: CodeRunning, ControlMode: Teleoperated, EnableStatus: Enabled}, "Teleoperated Enabled"},
	}
	for _, c := range cases {
		if got := computeStatusString(c.cfg); got != c.want {
			t.Errorf("computeStatusString(%+v) = %q, want %q", c.cfg, got, c.want)
		}
	}
}

func TestFormatVoltage(t *testing.T) {
	cases := []struct {
		v    float64
		want string
	}{
		{12.7, "12.70"},
		{0.5, "00.50"},
		{9.05, "09.05"},
	}
	for _, c := range cases {
		if got := FormatVoltage(c.v); got != c.want {
			t.Errorf("FormatVoltage(%v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func TestTeamStationMapping(t *testing.T) {
	alliance, position := FromTeamStation(0)
	if alliance != Red || position != 1 {
		t.Errorf("station 0 = %v/%v, want Red/1", alliance, position)
	}
	alliance, position = FromTeamStation(5)
	if alliance != Blue || position != 3 {
		t.Errorf("station 5 = %v/%v, want Blue/3", alliance, position)
	}
	if got := ToTeamStation(Blue, 1); got != BluePos1 {
		t.Errorf("ToTeamStation(Blue, 1) = %v, want BluePos1", got)
	}
}

func TestSetEnabledUnconditional(t *testing.T) {
	b, _ := newTestBus()
	b.SetRobotCommStatus(Failing)
	b.SetEnabled(Enabled)
	if b.Snapshot().EnableStatus != Enabled {
		t.Error("expected setEnabled(true) to be accepted unconditionally")
	}
}
