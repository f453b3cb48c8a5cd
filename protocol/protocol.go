// Package protocol implements the per-year packet codecs and the control-
// byte/request-byte logic that gives the driver station its wire format.
// Protocol is modeled as a trait of pure functions plus a small mutable
// struct of request flags: no classical inheritance, dispatch once per
// tick at the trait boundary.
//
// Protocols register a named constructor and look it up by key, the same
// shape previously used to register connection handlers by robot type,
// generalized here to protocol-version codecs.
package protocol

import (
	"sync"

	"driverstation/dsconfig"
	"driverstation/joystick"
	"driverstation/shared"
)

// Ports lists the fixed network ports a protocol version uses.
type Ports struct {
	FMSIn        int
	FMSOut       int
	RadioIn      int // 0: no protocol defines a radio wire format, so this is disabled by default
	RadioOut     int
	RobotIn      int
	RobotOut     int
	NetConsoleIn int
	TCPProbe     int // 0 if the protocol has no TCP probe port
}

// State is the mutable context a protocol codec reads and writes each tick:
// the config bus, packet counters, one-shot request flags, and the
// joystick registry. The engine owns one State per bound protocol instance.
type State struct {
	Config    *dsconfig.Bus
	Counters  *Counters
	Flags     *RequestFlags
	Joysticks *joystick.Registry

	// PacketsSinceBind counts robot packets generated since the protocol was
	// bound; used to implement the 5-packet joystick warm-up.
	PacketsSinceBind int
}

// Protocol is the per-version codec and address-default trait. Concrete
// variants: P2014, P2015, P2016.
type Protocol interface {
	Name() string

	FMSFrequencyHz() int
	RobotFrequencyHz() int
	Ports() Ports
	JoystickCaps() joystick.Caps

	NominalBatteryVoltage() float64
	NominalBatteryAmperage() float64

	DefaultFMSAddress() string
	DefaultRadioAddress(team int) string
	DefaultRobotAddresses(team int) []string

	GenerateFMSPacket(s *State) []byte
	InterpretFMSPacket(data []byte, s *State) bool

	GenerateRadioPacket(s *State) []byte
	InterpretRadioPacket(data []byte, s *State) bool

	GenerateRobotPacket(s *State) []byte
	InterpretRobotPacket(data []byte, s *State) bool

	// OnRobotWatchdogExpired clears the protocol's reboot/restart/date-time
	// request flags.
	OnRobotWatchdogExpired(s *State)

	RequestReboot(s *State)
	RequestRestartCode(s *State)
}

// Factory constructs a fresh Protocol instance. Protocols are stateless
// aside from the State passed to each call, so a factory only needs to
// return a fresh struct (zero-value for P2014, name and address defaults
// for P2015/P2016).
type Factory func() Protocol

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// Register adds a named protocol constructor to the registry. Intended to
// be called from each protocol variant's init(), registration-at-init-time.
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, exists := registry[name]; exists {
		shared.DebugPanic("protocol already registered: %s", name)
	}
	registry[name] = factory
}

// New looks up a registered protocol by name and constructs a fresh
// instance. Returns shared.ErrUnknownProtocol if no such name is registered.
func New(name string) (Protocol, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, shared.ErrUnknownProtocol
	}
	return factory(), nil
}

// Names returns the currently registered protocol names.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	return names
}
