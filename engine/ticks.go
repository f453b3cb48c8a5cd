package engine

import (
	"time"

	"driverstation/dsconfig"
)

// fmsTick generates and sends one FMS packet, gated on running, a bound
// protocol, and isConnectedToFMS.
func (e *Engine) fmsTick() {
	start := time.Now()
	defer e.diag.recordTick("fms", start)

	e.mu.Lock()
	running, p, s := e.running, e.proto, e.protoState
	addr := e.customFMSAddr
	e.mu.Unlock()
	if !running || p == nil {
		return
	}
	if e.config.Snapshot().FMSCommStatus != dsconfig.Working {
		return
	}
	if addr == "" {
		addr = p.DefaultFMSAddress()
	}
	if addr == "" {
		return
	}

	data := p.GenerateFMSPacket(s)
	if len(data) > 0 {
		e.sockets.SendToFMS(addr, data)
	}
}

// radioTick generates and sends one radio packet.
func (e *Engine) radioTick() {
	start := time.Now()
	defer e.diag.recordTick("radio", start)

	e.mu.Lock()
	running, p, s := e.running, e.proto, e.protoState
	addr := e.customRadioAddr
	e.mu.Unlock()
	if !running || p == nil {
		return
	}
	if addr == "" {
		addr = p.DefaultRadioAddress(e.config.Snapshot().Team)
	}
	if addr == "" {
		return
	}

	data := p.GenerateRadioPacket(s)
	if len(data) > 0 {
		e.sockets.SendToRadio(addr, data)
	}
}

// robotTick generates and sends one robot packet, then advances the scan
// cursor.
func (e *Engine) robotTick() {
	start := time.Now()
	defer e.diag.recordTick("robot", start)

	e.mu.Lock()
	running, p, s := e.running, e.proto, e.protoState
	e.mu.Unlock()
	if !running || p == nil {
		return
	}

	data := p.GenerateRobotPacket(s)
	if len(data) > 0 {
		e.sockets.SendToRobot(data)
	}
	e.sockets.RefreshAddressList()
}

// onFMSData hands the datagram to the protocol's interpreter and resets the
// FMS watchdog only if the packet was accepted; a malformed packet is
// dropped without a reset.
func (e *Engine) onFMSData(data []byte) {
	e.mu.Lock()
	p, s := e.proto, e.protoState
	e.mu.Unlock()
	if p == nil {
		return
	}
	prev := e.config.Snapshot()
	if p.InterpretFMSPacket(data, s) {
		e.fmsWatchdog.Reset()
		e.enforceSafetyInvariants(prev)
	}
}

func (e *Engine) onRadioData(data []byte) {
	e.mu.Lock()
	p, s := e.proto, e.protoState
	e.mu.Unlock()
	if p == nil {
		return
	}
	if p.InterpretRadioPacket(data, s) {
		e.radioWatchdog.Reset()
	}
}

func (e *Engine) onRobotData(data []byte) {
	e.mu.Lock()
	p, s := e.proto, e.protoState
	e.mu.Unlock()
	if p == nil {
		return
	}
	prev := e.config.Snapshot()
	if p.InterpretRobotPacket(data, s) {
		e.robotWatchdog.Reset()
		e.enforceSafetyInvariants(prev)
	}
}

// enforceSafetyInvariants applies the engine-level rules after a packet
// mutated the config bus: an e-stop forces Disabled, a mode change while
// enabled restarts the match clock, and the elapsed counter tracks the
// enable state no matter which peer changed it.
func (e *Engine) enforceSafetyInvariants(prev dsconfig.DsConfig) {
	snap := e.config.Snapshot()
	if snap.OperationStatus == dsconfig.EmergencyStop && snap.EnableStatus == dsconfig.Enabled {
		e.config.SetEnabled(dsconfig.Disabled)
		snap = e.config.Snapshot()
	}
	if snap.ControlMode != prev.ControlMode && snap.EnableStatus == dsconfig.Enabled {
		e.elapsed.Reset()
	}
	if snap.EnableStatus == dsconfig.Enabled {
		e.elapsed.Start()
	} else {
		e.elapsed.Pause()
	}
}

// onFMSWatchdogExpired marks FMS comms failing.
func (e *Engine) onFMSWatchdogExpired() {
	e.config.SetFMSCommStatus(dsconfig.Failing)
}

// onRadioWatchdogExpired marks radio comms failing.
func (e *Engine) onRadioWatchdogExpired() {
	e.config.SetRadioCommStatus(dsconfig.Failing)
}

// onRobotWatchdogExpired resets robot peer state to the disconnected
// baseline and clears the protocol's one-shot request flags.
func (e *Engine) onRobotWatchdogExpired() {
	e.config.SetVoltage(0)
	e.config.SetSimulatedRobot(false)
	e.config.SetEnabled(dsconfig.Disabled)
	e.config.SetOperationStatus(dsconfig.Normal)
	e.config.SetVoltageStatus(dsconfig.VoltageNormal)
	e.config.SetCodeStatus(dsconfig.CodeFailing)
	e.config.SetRobotCommStatus(dsconfig.Failing)
	e.elapsed.Pause()

	e.mu.Lock()
	p, s := e.proto, e.protoState
	e.mu.Unlock()
	if p != nil {
		p.OnRobotWatchdogExpired(s)
	}
}

// packetLossTick computes the rolling packet-loss percentage since the
// last robot reconnect (pure function of counters).
func (e *Engine) packetLossTick() {
	e.mu.Lock()
	s := e.protoState
	e.mu.Unlock()
	if s == nil {
		return
	}

	connected := e.config.Snapshot().RobotCommStatus == dsconfig.Working
	loss := PacketLoss(s.Counters.RecvRobot, s.Counters.SentRobotSinceConnect, connected)
	e.diag.recordLoss(loss)
}

// PacketLoss is a pure function of the robot receive/send-since-connect
// counters: 100% if never connected and nothing received, else the
// shortfall between packets sent since reconnect and packets received.
func PacketLoss(recvRobot, sentRobotSinceConnect uint32, connected bool) float64 {
	if recvRobot == 0 && !connected {
		return 100
	}
	if sentRobotSinceConnect == 0 {
		return 0
	}
	loss := (float64(sentRobotSinceConnect) - float64(recvRobot)) * 100 / float64(sentRobotSinceConnect)
	if loss < 0 {
		return 0
	}
	return loss
}
