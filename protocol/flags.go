package protocol

// RequestFlags holds the protocol's one-shot "please do X" requests:
// fire-and-forget triggers that are cleared whenever the robot watchdog
// expires, so a lost packet never causes a perpetual reboot/restart loop.
type RequestFlags struct {
	Reboot       bool
	RestartCode  bool
	SendDateTime bool
}

// Clear drops all one-shot request flags; invoked by onRobotWatchdogExpired.
func (f *RequestFlags) Clear() {
	f.Reboot = false
	f.RestartCode = false
	f.SendDateTime = false
}
