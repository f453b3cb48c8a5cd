// P2015 and P2016 share every wire detail except the robot address
// candidate list, so one struct backs both, parameterized
// by name and default-address function.
package protocol

import (
	"driverstation/dsconfig"
	"driverstation/joystick"
)

func init() {
	Register("P2015", func() Protocol { return newP201x("P2015", p2015RobotDefaults) })
	Register("P2016", func() Protocol { return newP201x("P2016", p2016RobotDefaults) })
}

func p2015RobotDefaults(team int) []string {
	return []string{
		mdnsName(team, false),
		"172.22.11.2",
		teAmAddress(team),
	}
}

func p2016RobotDefaults(team int) []string {
	return []string{
		mdnsName(team, true),
		mdnsName(team, false),
		"172.22.11.2",
		teAmAddress(team),
	}
}

func mdnsName(team int, frc bool) string {
	if frc {
		return fmtRoboRIO(team) + "-FRC.local"
	}
	return fmtRoboRIO(team) + ".local"
}

func fmtRoboRIO(team int) string {
	return "roboRIO-" + itoa(team)
}

func teAmAddress(team int) string {
	hh := team / 100
	ll := team % 100
	return "10." + pad2(hh) + "." + pad2(ll) + ".2"
}

func radioAddress(team int) string {
	hh := team / 100
	ll := team % 100
	return "10." + pad2(hh) + "." + pad2(ll) + ".1"
}

type p201xProtocol struct {
	name          string
	robotDefaults func(team int) []string
}

func newP201x(name string, robotDefaults func(team int) []string) *p201xProtocol {
	return &p201xProtocol{name: name, robotDefaults: robotDefaults}
}

func (p *p201xProtocol) Name() string { return p.name }

func (p *p201xProtocol) FMSFrequencyHz() int   { return 2 }
func (p *p201xProtocol) RobotFrequencyHz() int { return 50 }

func (p *p201xProtocol) Ports() Ports {
	return Ports{
		FMSIn:        1120,
		FMSOut:       1160,
		RobotIn:      1150,
		RobotOut:     1110,
		NetConsoleIn: 6666,
	}
}

func (p *p201xProtocol) JoystickCaps() joystick.Caps {
	return joystick.Caps{MaxJoystickCount: 6, MaxAxes: 12, MaxButtons: 24, MaxPOVs: 12}
}

func (p *p201xProtocol) NominalBatteryVoltage() float64  { return 12.8 }
func (p *p201xProtocol) NominalBatteryAmperage() float64 { return 40.0 }

// DefaultFMSAddress is empty: the DS does not pin an FMS peer by default, it
// listens passively and the field controller initiates contact (an
// inference documented in DESIGN.md, since no explicit default FMS address
// is otherwise given).
func (p *p201xProtocol) DefaultFMSAddress() string { return "" }

func (p *p201xProtocol) DefaultRadioAddress(team int) string { return radioAddress(team) }

func (p *p201xProtocol) DefaultRobotAddresses(team int) []string { return p.robotDefaults(team) }

func (p *p201xProtocol) GenerateRobotPacket(s *State) []byte {
	idx := NextIndex(&s.Counters.SentRobot)
	s.Counters.SentRobotSinceConnect++

	cfg := s.Config.Snapshot()
	buf := make([]byte, 0, 64)
	buf = append(buf, byte(idx>>8), byte(idx))
	buf = append(buf, 0x01) // tag = general
	buf = append(buf, buildControlByte(cfg))
	buf = append(buf, buildRequestByte(cfg.RobotCommStatus == dsconfig.Working, s.Flags))
	buf = append(buf, teamStationByte(cfg))

	s.PacketsSinceBind++

	if s.Flags.SendDateTime {
		buf = appendTimezoneBlock(buf, timeNow(), localTZAbbrev())
	} else if s.PacketsSinceBind > JoystickWarmupPackets {
		buf = appendJoystickBlock(buf, s.Joysticks.Snapshot())
	}

	return buf
}

func (p *p201xProtocol) InterpretRobotPacket(data []byte, s *State) bool {
	if len(data) < 8 {
		return false
	}
	s.Counters.RecvRobot++

	control := data[3]
	status := data[4]
	voltInt := data[5]
	voltFrac := data[6]
	inverseRequest := data[7]

	wasFailing := s.Config.Snapshot().RobotCommStatus != dsconfig.Working
	s.Config.SetRobotCommStatus(dsconfig.Working)
	if wasFailing {
		s.Counters.SentRobotSinceConnect = 0
	}

	if control&ControlBitEStop != 0 {
		s.Config.SetOperationStatus(dsconfig.EmergencyStop)
	}

	if status&0x20 != 0 {
		s.Config.SetCodeStatus(dsconfig.CodeRunning)
	} else {
		s.Config.SetCodeStatus(dsconfig.CodeFailing)
	}
	if status&0x10 != 0 {
		s.Config.SetVoltageStatus(dsconfig.Brownout)
	} else {
		s.Config.SetVoltageStatus(dsconfig.VoltageNormal)
	}

	voltage := float64(voltInt) + float64(voltFrac)*99.0/255.0/100.0
	s.Config.SetVoltage(voltage)

	s.Flags.SendDateTime = inverseRequest == 0x01

	return true
}

func (p *p201xProtocol) GenerateFMSPacket(s *State) []byte {
	idx := NextIndex(&s.Counters.SentFMS)
	cfg := s.Config.Snapshot()

	controlByte := buildControlByte(cfg)
	if cfg.RadioCommStatus == dsconfig.Working {
		controlByte |= 0x10
	}
	if cfg.RobotCommStatus == dsconfig.Working {
		controlByte |= 0x20
	} else {
		controlByte |= 0x08
	}

	voltWhole := int(cfg.Voltage)
	voltFracByte := byte(0)
	if frac := cfg.Voltage - float64(voltWhole); frac > 0 {
		voltFracByte = byte(frac * 100)
	}

	buf := make([]byte, 0, 8)
	buf = append(buf, byte(idx>>8), byte(idx))
	buf = append(buf, 0x00)
	buf = append(buf, controlByte)
	buf = append(buf, byte(cfg.Team>>8), byte(cfg.Team))
	buf = append(buf, byte(voltWhole), voltFracByte)
	return buf
}

func (p *p201xProtocol) InterpretFMSPacket(data []byte, s *State) bool {
	if len(data) < 22 {
		return false
	}
	s.Counters.RecvFMS++
	s.Config.SetFMSCommStatus(dsconfig.Working)

	control := data[3]
	station := data[5]

	if control&ControlBitEnabled != 0 {
		s.Config.SetEnabled(dsconfig.Enabled)
	} else {
		s.Config.SetEnabled(dsconfig.Disabled)
	}

	switch {
	case control&ControlBitTest != 0:
		s.Config.SetControlMode(dsconfig.Test)
	case control&ControlBitAutonomous != 0:
		s.Config.SetControlMode(dsconfig.Autonomous)
	default:
		s.Config.SetControlMode(dsconfig.Teleoperated)
	}

	alliance, position := dsconfig.FromTeamStation(dsconfig.TeamStation(station))
	s.Config.SetAlliance(alliance)
	s.Config.SetPosition(position)

	return true
}

func (p *p201xProtocol) GenerateRadioPacket(s *State) []byte {
	NextIndex(&s.Counters.SentRadio)
	// No radio-specific wire format is defined: the radio channel is presence-only, reflected in the
	// FMS packet's 0x10 bit.
	return nil
}

func (p *p201xProtocol) InterpretRadioPacket(data []byte, s *State) bool {
	s.Counters.RecvRadio++
	s.Config.SetRadioCommStatus(dsconfig.Working)
	return true
}

func (p *p201xProtocol) OnRobotWatchdogExpired(s *State) {
	s.Flags.Clear()
}

func (p *p201xProtocol) RequestReboot(s *State) {
	s.Flags.Reboot = true
}

func (p *p201xProtocol) RequestRestartCode(s *State) {
	s.Flags.RestartCode = true
}
