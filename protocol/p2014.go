// P2014 is the oldest supported protocol. Its source implementation was
// largely unimplemented; the contract below
// is the intended behavior inferred from the 1024-byte layout and is
// treated as the source of truth over the partial original code.
package protocol

import (
	"driverstation/dsconfig"
	"driverstation/joystick"
)

func init() {
	Register("P2014", func() Protocol { return &p2014Protocol{} })
}

const (
	p2014PacketSize   = 1024
	p2014CRCOffset    = 1020
	p2014VersionOffset = 72
	p2014MaxJoysticks = 8
)

// p2014Opcode bits: the source comments describe the opcode as combining
// enable, mode, e-stop, FMS-attach, resync, and reboot; the bit assignments
// below mirror the P2015/P2016 control byte (which the same author later
// wrote) for the bits they share, plus two P2014-only request bits.
const (
	p2014BitResync = 0x10
	p2014BitReboot = 0x20
)

type p2014Protocol struct{}

func (p *p2014Protocol) Name() string { return "P2014" }

func (p *p2014Protocol) FMSFrequencyHz() int   { return 2 }
func (p *p2014Protocol) RobotFrequencyHz() int { return 50 }

func (p *p2014Protocol) Ports() Ports {
	return Ports{
		FMSIn:    1120,
		FMSOut:   1160,
		RobotIn:  1150,
		RobotOut: 1110,
		TCPProbe: 80,
	}
}

func (p *p2014Protocol) JoystickCaps() joystick.Caps {
	return joystick.Caps{MaxJoystickCount: 4, MaxAxes: 6, MaxButtons: 12, MaxPOVs: 0}
}

func (p *p2014Protocol) NominalBatteryVoltage() float64  { return 12.8 }
func (p *p2014Protocol) NominalBatteryAmperage() float64 { return 40.0 }

func (p *p2014Protocol) DefaultFMSAddress() string { return "" }

func (p *p2014Protocol) DefaultRadioAddress(team int) string { return radioAddress(team) }

func (p *p2014Protocol) DefaultRobotAddresses(team int) []string {
	return []string{teAmAddress(team)}
}

func (p *p2014Protocol) opcode(cfg dsconfig.DsConfig, flags *RequestFlags) byte {
	b := buildControlByte(cfg)
	if flags.RestartCode {
		b |= p2014BitResync
	}
	if flags.Reboot {
		b |= p2014BitReboot
	}
	return b
}

func (p *p2014Protocol) GenerateRobotPacket(s *State) []byte {
	idx := NextIndex(&s.Counters.SentRobot)
	s.Counters.SentRobotSinceConnect++
	s.PacketsSinceBind++

	cfg := s.Config.Snapshot()
	buf := make([]byte, p2014PacketSize)
	buf[0] = byte(idx >> 8)
	buf[1] = byte(idx)
	buf[2] = p.opcode(cfg, s.Flags)
	buf[3] = 0 // digital-in: no host-side digital inputs modeled

	buf[4] = byte(cfg.Team >> 8)
	buf[5] = byte(cfg.Team)

	if cfg.Alliance == dsconfig.Blue {
		buf[6] = 1
	} else {
		buf[6] = 0
	}
	buf[7] = byte(cfg.Position)

	sticks := s.Joysticks.Snapshot()
	for slot := 0; slot < p2014MaxJoysticks; slot++ {
		base := 8 + slot*8
		if slot >= len(sticks) {
			continue
		}
		j := sticks[slot]
		for axis := 0; axis < 6 && axis < len(j.Axes); axis++ {
			buf[base+axis] = byte(int8(j.Axes[axis] * 127))
		}
		var packed uint16
		for btn := 0; btn < 12 && btn < len(j.Buttons); btn++ {
			if j.Buttons[btn] {
				packed |= 1 << uint(btn)
			}
		}
		buf[base+6] = byte(packed >> 8)
		buf[base+7] = byte(packed)
	}

	copy(buf[p2014VersionOffset:], []byte("04011600"))

	crc := ChecksumP2014(buf[:p2014CRCOffset])
	buf[p2014CRCOffset] = byte(crc >> 24)
	buf[p2014CRCOffset+1] = byte(crc >> 16)
	buf[p2014CRCOffset+2] = byte(crc >> 8)
	buf[p2014CRCOffset+3] = byte(crc)

	return buf
}

func (p *p2014Protocol) InterpretRobotPacket(data []byte, s *State) bool {
	if len(data) < 3 {
		return false
	}
	s.Counters.RecvRobot++

	wasFailing := s.Config.Snapshot().RobotCommStatus != dsconfig.Working
	s.Config.SetRobotCommStatus(dsconfig.Working)
	if wasFailing {
		s.Counters.SentRobotSinceConnect = 0
	}

	opcode := data[0]
	if opcode&ControlBitEStop != 0 {
		s.Config.SetOperationStatus(dsconfig.EmergencyStop)
	}

	intBCD := data[1]
	fracBCD := data[2]
	if intBCD == 0x37 && fracBCD == 0x37 {
		s.Config.SetCodeStatus(dsconfig.CodeFailing)
	} else {
		s.Config.SetCodeStatus(dsconfig.CodeRunning)
		voltage := bcdToDecimal(intBCD) + bcdToDecimal(fracBCD)/100.0
		s.Config.SetVoltage(voltage)
	}

	return true
}

func bcdToDecimal(b byte) float64 {
	return float64((b>>4)&0x0F)*10 + float64(b&0x0F)
}

func (p *p2014Protocol) GenerateFMSPacket(s *State) []byte {
	idx := NextIndex(&s.Counters.SentFMS)
	cfg := s.Config.Snapshot()

	controlByte := buildControlByte(cfg)
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

func (p *p2014Protocol) InterpretFMSPacket(data []byte, s *State) bool {
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

func (p *p2014Protocol) GenerateRadioPacket(s *State) []byte {
	NextIndex(&s.Counters.SentRadio)
	return nil
}

func (p *p2014Protocol) InterpretRadioPacket(data []byte, s *State) bool {
	s.Counters.RecvRadio++
	s.Config.SetRadioCommStatus(dsconfig.Working)
	return true
}

func (p *p2014Protocol) OnRobotWatchdogExpired(s *State) {
	s.Flags.Clear()
}

func (p *p2014Protocol) RequestReboot(s *State) {
	s.Flags.Reboot = true
}

func (p *p2014Protocol) RequestRestartCode(s *State) {
	s.Flags.RestartCode = true
}
