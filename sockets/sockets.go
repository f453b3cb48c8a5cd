// Package sockets maintains the six logical network endpoints (FMS-in/out,
// radio-in/out, robot-in/out) the control-loop engine sends and receives
// through, plus the robot address scanner used before a peer is known.
//
// Grounded on the accept-loop/goroutine-per-connection shape used elsewhere
// in this codebase for TCP listeners, generalized here to UDP receivers
// plus a scanning sender for the one endpoint (robot) whose peer address
// isn't known in advance.
package sockets

import (
	"net"
	"sync"

	"driverstation/addr"
	"driverstation/dsconfig"
)

// channel bundles one logical endpoint's receiver and sender halves plus
// the configuration they were built from, so a single port or socket-type
// change can rebuild just that channel.
type channel struct {
	recv *receiver
	send *sender

	socketType dsconfig.SocketType
	inPort     int
	outPort    int
}

func (c *channel) close() {
	if c.recv != nil {
		c.recv.close()
	}
	if c.send != nil {
		c.send.close()
	}
}

// Sockets owns the FMS, radio, and robot channels plus the robot address
// scan state.
type Sockets struct {
	mu sync.Mutex

	fms   channel
	radio channel
	robot channel

	addressList      []string
	scanCursor       int
	scanRateOverride *int

	customRobotAddr string
	pinnedPeer      string

	onFMSReceive   func(data []byte)
	onRadioReceive func(data []byte)
	onRobotReceive func(data []byte)
}

// New creates an empty Sockets with every endpoint disabled; call Configure
// (the engine does so on each protocol swap) or the Set*SocketType/Set*Port
// methods to bring endpoints up.
func New() *Sockets {
	return &Sockets{}
}

// OnFMSReceive/OnRadioReceive/OnRobotReceive register the callback invoked
// once per inbound datagram on that channel. Must be set before the
// corresponding receiver is opened.
func (s *Sockets) OnFMSReceive(f func(data []byte))   { s.onFMSReceive = f }
func (s *Sockets) OnRadioReceive(f func(data []byte)) { s.onRadioReceive = f }
func (s *Sockets) OnRobotReceive(f func(data []byte)) { s.onRobotReceive = f }

// Configure rebuilds all three channels from scratch: any prior bindings
// are released first. Called from the engine on setProtocol.
func (s *Sockets) Configure(socketType dsconfig.SocketType, fmsIn, fmsOut, radioIn, radioOut, robotIn, robotOut int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.fms.socketType, s.fms.inPort, s.fms.outPort = socketType, fmsIn, fmsOut
	s.radio.socketType, s.radio.inPort, s.radio.outPort = socketType, radioIn, radioOut
	s.robot.socketType, s.robot.inPort, s.robot.outPort = socketType, robotIn, robotOut

	s.rebuildFMSLocked()
	s.rebuildRadioLocked()
	s.rebuildRobotLocked()
}

func (s *Sockets) rebuildFMSLocked() {
	s.fms.close()
	s.fms.recv = newReceiver("fms-in", s.fms.socketType, s.fms.inPort,
		func(data []byte, _ net.Addr) { s.deliver(s.onFMSReceive, data) })
	s.fms.send = newSender(s.fms.socketType, s.fms.outPort)
}

func (s *Sockets) rebuildRadioLocked() {
	s.radio.close()
	s.radio.recv = newReceiver("radio-in", s.radio.socketType, s.radio.inPort,
		func(data []byte, _ net.Addr) { s.deliver(s.onRadioReceive, data) })
	s.radio.send = newSender(s.radio.socketType, s.radio.outPort)
}

func (s *Sockets) rebuildRobotLocked() {
	s.robot.close()
	s.robot.recv = newReceiver("robot-in", s.robot.socketType, s.robot.inPort, s.onRobotDatagram)
	s.robot.send = newSender(s.robot.socketType, s.robot.outPort)
}

// SetFMSSocketType rebuilds the FMS sender+receiver pair for the new
// transport; any prior bindings are released.
func (s *Sockets) SetFMSSocketType(t dsconfig.SocketType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fms.socketType = t
	s.rebuildFMSLocked()
}

// SetRadioSocketType rebuilds the radio channel for the new transport.
func (s *Sockets) SetRadioSocketType(t dsconfig.SocketType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.radio.socketType = t
	s.rebuildRadioLocked()
}

// SetRobotSocketType rebuilds the robot channel for the new transport.
func (s *Sockets) SetRobotSocketType(t dsconfig.SocketType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.robot.socketType = t
	s.rebuildRobotLocked()
}

// SetFMSInputPort rebinds the FMS receiver; DisabledPort disables it
// silently. The sender half is left untouched.
func (s *Sockets) SetFMSInputPort(port int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fms.inPort = port
	if s.fms.recv != nil {
		s.fms.recv.close()
	}
	s.fms.recv = newReceiver("fms-in", s.fms.socketType, port,
		func(data []byte, _ net.Addr) { s.deliver(s.onFMSReceive, data) })
}

// SetFMSOutputPort redirects the FMS sender to a new remote port.
func (s *Sockets) SetFMSOutputPort(port int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fms.outPort = port
	if s.fms.send != nil {
		s.fms.send.close()
	}
	s.fms.send = newSender(s.fms.socketType, port)
}

// SetRadioInputPort rebinds the radio receiver.
func (s *Sockets) SetRadioInputPort(port int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.radio.inPort = port
	if s.radio.recv != nil {
		s.radio.recv.close()
	}
	s.radio.recv = newReceiver("radio-in", s.radio.socketType, port,
		func(data []byte, _ net.Addr) { s.deliver(s.onRadioReceive, data) })
}

// SetRadioOutputPort redirects the radio sender.
func (s *Sockets) SetRadioOutputPort(port int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.radio.outPort = port
	if s.radio.send != nil {
		s.radio.send.close()
	}
	s.radio.send = newSender(s.radio.socketType, port)
}

// SetRobotInputPort rebinds the robot receiver.
func (s *Sockets) SetRobotInputPort(port int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.robot.inPort = port
	if s.robot.recv != nil {
		s.robot.recv.close()
	}
	s.robot.recv = newReceiver("robot-in", s.robot.socketType, port, s.onRobotDatagram)
}

// SetRobotOutputPort redirects the robot sender.
func (s *Sockets) SetRobotOutputPort(port int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.robot.outPort = port
	if s.robot.send != nil {
		s.robot.send.close()
	}
	s.robot.send = newSender(s.robot.socketType, port)
}

func (s *Sockets) deliver(f func([]byte), data []byte) {
	if f != nil {
		f(data)
	}
}

// onRobotDatagram implements the self-pinning receive contract: the first
// datagram received while no peer is pinned fixes the peer address.
func (s *Sockets) onRobotDatagram(data []byte, from net.Addr) {
	s.mu.Lock()
	if s.pinnedPeer == "" {
		if udpAddr, ok := from.(*net.UDPAddr); ok {
			s.pinnedPeer = udpAddr.IP.String()
		}
	}
	s.mu.Unlock()
	s.deliver(s.onRobotReceive, data)
}

// Close releases every endpoint's sockets.
func (s *Sockets) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fms.close()
	s.radio.close()
	s.robot.close()
}

// SendToFMS writes bytes to the fixed FMS peer.
func (s *Sockets) SendToFMS(host string, data []byte) {
	s.mu.Lock()
	sender := s.fms.send
	s.mu.Unlock()
	if sender != nil {
		sender.writeTo(host, data)
	}
}

// SendToRadio writes bytes to the fixed radio peer.
func (s *Sockets) SendToRadio(host string, data []byte) {
	s.mu.Lock()
	sender := s.radio.send
	s.mu.Unlock()
	if sender != nil {
		sender.writeTo(host, data)
	}
}

// SetRobotAddress pins the robot sender to addr, or (if addr is empty)
// engages scan mode.
func (s *Sockets) SetRobotAddress(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.customRobotAddr = address
	s.pinnedPeer = ""
}

// SetAddressList replaces the scan candidate set, then appends every host
// of every locally reachable IPv4 /24 plus the loopback fallback
//.
func (s *Sockets) SetAddressList(list []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	combined := make([]string, 0, len(list)+256)
	combined = append(combined, list...)
	combined = append(combined, addr.EnumerateCandidates()...)
	s.addressList = combined
	s.scanCursor = 0
}

// SetScanRateOverride pins the scan rate to n candidates per tick; pass nil
// to return to the computed default.
func (s *Sockets) SetScanRateOverride(n *int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scanRateOverride = n
}

// scanRate computes min(72, max(addressList.size/6, 1)), or the override
// if one is set.
func (s *Sockets) scanRate() int {
	if s.scanRateOverride != nil {
		return *s.scanRateOverride
	}
	rate := len(s.addressList) / 6
	if rate < 1 {
		rate = 1
	}
	if rate > 72 {
		rate = 72
	}
	return rate
}

// SendToRobot writes data to the pinned peer, or in scan mode to up to
// scanRate() candidates from the rolling address list.
func (s *Sockets) SendToRobot(data []byte) {
	s.mu.Lock()
	sender := s.robot.send
	pinned := s.effectiveRobotAddrLocked()
	var targets []string
	if pinned == "" {
		targets = s.scanTargetsLocked()
	}
	s.mu.Unlock()

	if sender == nil {
		return
	}
	if pinned != "" {
		sender.writeTo(pinned, data)
		return
	}
	for _, host := range targets {
		sender.writeTo(host, data)
	}
}

func (s *Sockets) effectiveRobotAddrLocked() string {
	if s.pinnedPeer != "" {
		return s.pinnedPeer
	}
	return s.customRobotAddr
}

func (s *Sockets) scanTargetsLocked() []string {
	n := len(s.addressList)
	if n == 0 {
		return nil
	}
	count := s.scanRate()
	if count > n {
		count = n
	}
	out := make([]string, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, s.addressList[(s.scanCursor+i)%n])
	}
	return out
}

// RefreshAddressList advances the scan cursor by scanRate() mod list
// length. Called after each successful robot send tick.
func (s *Sockets) RefreshAddressList() {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.addressList)
	if n == 0 {
		return
	}
	s.scanCursor = (s.scanCursor + s.scanRate()) % n
}

// IsScanMode reports whether the robot sender currently has no pinned peer.
func (s *Sockets) IsScanMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.effectiveRobotAddrLocked() == ""
}
