package protocol

import (
	"math"
	"time"

	"driverstation/dsconfig"
	"driverstation/joystick"
)

// Control byte bits shared by P2014/P2015/P2016 client->robot packets.
const (
	ControlBitTest       = 0x01
	ControlBitAutonomous = 0x02
	ControlBitEnabled    = 0x04
	ControlBitFMSAttach  = 0x08
	ControlBitEStop      = 0x80
)

// Request byte bits.
const (
	RequestBitNone        = 0x00
	RequestBitNormal      = 0x80
	RequestBitReboot      = 0x08
	RequestBitRestartCode = 0x04
)

// JoystickWarmupPackets is the number of sent robot packets after a fresh
// protocol bind during which the joystick block is omitted.
const JoystickWarmupPackets = 5

// buildControlByte computes the control byte for a client->robot or
// client->FMS packet from the current config snapshot.
func buildControlByte(cfg dsconfig.DsConfig) byte {
	var b byte
	switch cfg.ControlMode {
	case dsconfig.Test:
		b |= ControlBitTest
	case dsconfig.Autonomous:
		b |= ControlBitAutonomous
	}
	if cfg.EnableStatus == dsconfig.Enabled {
		b |= ControlBitEnabled
	}
	if cfg.FMSCommStatus == dsconfig.Working {
		b |= ControlBitFMSAttach
	}
	if cfg.OperationStatus == dsconfig.EmergencyStop {
		b |= ControlBitEStop
	}
	return b
}

// buildRequestByte computes the one-shot request byte for the robot packet.
func buildRequestByte(connected bool, flags *RequestFlags) byte {
	if !connected {
		return RequestBitNone
	}
	b := byte(RequestBitNormal)
	if flags.Reboot {
		b |= RequestBitReboot
	}
	if flags.RestartCode {
		b |= RequestBitRestartCode
	}
	return b
}

// teamStationByte maps alliance+position to the 6-valued wire code.
func teamStationByte(cfg dsconfig.DsConfig) byte {
	return byte(dsconfig.ToTeamStation(cfg.Alliance, cfg.Position))
}

// appendJoystickBlock appends the joystick payload for every registered
// joystick, in registry order. Buttons
// pack LSB-first into ceil(numButtons/8) bytes; axes are signed int8
// (value*127); POVs are signed big-endian int16.
func appendJoystickBlock(buf []byte, sticks []joystick.Joystick) []byte {
	for _, j := range sticks {
		buttonBytes := (j.NumButtons + 7) / 8
		sectionTotal := 5 + j.NumAxes + buttonBytes + 2*j.NumPOVs

		buf = append(buf, byte(sectionTotal-1))
		buf = append(buf, 0x0C)

		buf = append(buf, byte(j.NumAxes))
		for _, a := range j.Axes {
			buf = append(buf, byte(int8(math.Round(a*127))))
		}

		buf = append(buf, byte(j.NumButtons))
		packed := make([]byte, buttonBytes)
		for i, pressed := range j.Buttons {
			if pressed {
				packed[i/8] |= 1 << uint(i%8)
			}
		}
		buf = append(buf, packed...)

		buf = append(buf, byte(j.NumPOVs))
		for _, angle := range j.POVs {
			buf = append(buf, byte(int16(angle)>>8), byte(int16(angle)))
		}
	}
	return buf
}

// appendTimezoneBlock appends the length-prefixed date/time record (tag
// 0x0F) and length-prefixed timezone string (tag 0x10), sent in place of
// the joystick block when the robot most recently requested the time.
func appendTimezoneBlock(buf []byte, now time.Time, tz string) []byte {
	dateSection := []byte{
		0x0F,
		byte(now.Nanosecond() / 1e6 >> 8),
		byte(now.Nanosecond() / 1e6),
		byte(now.Second()),
		byte(now.Minute()),
		byte(now.Hour()),
		byte(now.Day()),
		byte(now.Month()),
		byte(now.Year() - 1900),
	}
	// The length prefix counts bytes after itself, same convention as the
	// joystick block; since dateSection/tzSection already exclude the
	// length byte, their own length equals that count.
	buf = append(buf, byte(len(dateSection)))
	buf = append(buf, dateSection...)

	tzSection := append([]byte{0x10}, []byte(tz)...)
	buf = append(buf, byte(len(tzSection)))
	buf = append(buf, tzSection...)
	return buf
}
