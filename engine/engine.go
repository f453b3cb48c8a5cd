// Package engine is the control-loop engine: it owns the protocol, the
// three watchdogs, the sockets, NetConsole, and the joystick registry, and
// drives every periodic send/receive/diagnostic action from self-
// rescheduling tickers.
//
// Every externally triggered mutation funnels through Submit (package
// commands.go) so a single serialized path handles operator, status-API,
// and terminal requests alike, the same "hand a message to the owner
// instead of mutating its state directly" shape used by this codebase's
// event bus subscriber dispatch.
package engine

import (
	"sync"
	"time"

	"driverstation/clock"
	"driverstation/dsconfig"
	"driverstation/elapsed"
	"driverstation/joystick"
	"driverstation/netconsole"
	"driverstation/protocol"
	"driverstation/shared"
	"driverstation/shared/event_bus"
	"driverstation/sockets"
	"driverstation/watchdog"
)

// Engine orchestrates the protocol, transport, joystick registry, and
// config bus, applying the safety invariants that must never live in a
// protocol implementation.
type Engine struct {
	mu sync.Mutex

	events event_bus.EventBus
	config *dsconfig.Bus

	joysticks  *joystick.Registry
	sockets    *sockets.Sockets
	netconsole *netconsole.Console
	elapsed    *elapsed.Counter
	diag       *diagnostics

	proto      protocol.Protocol
	protoState *protocol.State
	counters   *protocol.Counters

	fmsWatchdog   *watchdog.Watchdog
	radioWatchdog *watchdog.Watchdog
	robotWatchdog *watchdog.Watchdog

	fmsTicker   *clock.Ticker
	radioTicker *clock.Ticker
	robotTicker *clock.Ticker
	lossTicker  *clock.Ticker

	customFMSAddr   string
	customRadioAddr string
	customRobotAddr string

	initialized bool
	running     bool

	cmds chan shared.Msg
	done chan struct{}
}

// New creates an Engine for the given starting team number, publishing
// config-bus changes onto events. Call Init then Start to bring it up.
func New(events event_bus.EventBus, team int) *Engine {
	e := &Engine{
		events:     events,
		config:     dsconfig.NewBus(events, team),
		joysticks:  joystick.NewRegistry(joystick.Caps{}),
		sockets:    sockets.New(),
		netconsole: netconsole.New(nil),
		diag:       newDiagnostics(),
		counters:   &protocol.Counters{},
		cmds:       make(chan shared.Msg, 64),
		done:       make(chan struct{}),
	}
	e.elapsed = elapsed.New(func(millis int64, formatted string) {
		e.config.PublishElapsedTime(millis, formatted)
	})
	e.netconsole = netconsole.New(func(text string) {
		e.config.PublishNewMessage(text)
	})
	e.sockets.OnFMSReceive(e.onFMSData)
	e.sockets.OnRadioReceive(e.onRadioData)
	e.sockets.OnRobotReceive(e.onRobotData)

	e.fmsWatchdog = watchdog.New("fms", watchdog.ExpirationFromFrequency(2), e.onFMSWatchdogExpired)
	e.radioWatchdog = watchdog.New("radio", watchdog.ExpirationFromFrequency(2), e.onRadioWatchdogExpired)
	e.robotWatchdog = watchdog.New("robot", watchdog.ExpirationFromFrequency(50), e.onRobotWatchdogExpired)

	e.fmsTicker = clock.NewTicker(time.Second, e.fmsTick)
	e.radioTicker = clock.NewTicker(time.Second, e.radioTick)
	e.robotTicker = clock.NewTicker(20*time.Millisecond, e.robotTick)
	e.lossTicker = clock.NewTicker(250*time.Millisecond, e.packetLossTick)

	go e.run()
	return e
}

// Config exposes the Config Bus for read access by external collaborators.
func (e *Engine) Config() *dsconfig.Bus { return e.config }

// Events exposes the event bus for external subscribers (status API,
// terminal) that want to observe state changes without polling.
func (e *Engine) Events() event_bus.EventBus { return e.events }

// SetNetConsoleOutputPort rebinds the NetConsole output half without
// disturbing the protocol-driven input port.
func (e *Engine) SetNetConsoleOutputPort(port int) {
	e.netconsole.SetOutputPort(port)
}

// SendNetConsoleMessage broadcasts text on the NetConsole output socket, if
// configured.
func (e *Engine) SendNetConsoleMessage(text string) {
	e.netconsole.Send(text)
}

// Joysticks exposes the registry for direct registration calls; mutating
// callers must still marshal onto the engine's command queue for anything
// that touches protocol-derived state.
func (e *Engine) Joysticks() *joystick.Registry { return e.joysticks }

// Init idempotently arms the three send loops and the packet-loss loop,
// then emits the one-shot initialized event.
func (e *Engine) Init() {
	e.mu.Lock()
	if e.initialized {
		e.mu.Unlock()
		return
	}
	e.initialized = true
	e.mu.Unlock()

	e.fmsTicker.Start()
	e.radioTicker.Start()
	e.robotTicker.Start()
	e.lossTicker.Start()
	e.config.PublishInitialized()
}

// Start toggles the running gate: ticks continue firing but produce or
// consume nothing while stopped.
func (e *Engine) Start() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = true
}

// Stop toggles the running gate off.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.running = false
}

// Shutdown permanently tears the engine down: tickers, watchdogs, sockets,
// NetConsole, and the command loop.
func (e *Engine) Shutdown() {
	e.mu.Lock()
	e.running = false
	e.mu.Unlock()

	e.fmsTicker.Stop()
	e.radioTicker.Stop()
	e.robotTicker.Stop()
	e.lossTicker.Stop()
	e.fmsWatchdog.Stop()
	e.radioWatchdog.Stop()
	e.robotWatchdog.Stop()
	e.sockets.Close()
	e.netconsole.Close()
	close(e.done)
}

// SetProtocol stops the engine, destroys the prior protocol, reconfigures
// the sockets/NetConsole/intervals/watchdogs/joysticks/addresses for the
// new one, and restarts.
func (e *Engine) SetProtocol(name string) error {
	p, err := protocol.New(name)
	if err != nil {
		return err
	}

	e.mu.Lock()
	wasRunning := e.running
	e.running = false
	e.mu.Unlock()

	e.fmsWatchdog.Stop()
	e.radioWatchdog.Stop()
	e.robotWatchdog.Stop()

	team := e.config.Snapshot().Team
	ports := p.Ports()

	// Packet counters survive a protocol swap: only the request flags and the
	// joystick warm-up count start over with the fresh instance.
	e.mu.Lock()
	e.proto = p
	e.protoState = &protocol.State{
		Config:    e.config,
		Counters:  e.counters,
		Flags:     &protocol.RequestFlags{},
		Joysticks: e.joysticks,
	}
	e.mu.Unlock()

	e.sockets.Configure(dsconfig.UDP, ports.FMSIn, ports.FMSOut, ports.RadioIn, ports.RadioOut, ports.RobotIn, ports.RobotOut)
	e.netconsole.Configure(ports.NetConsoleIn, 0)
	e.joysticks.Reconfigure(p.JoystickCaps())

	fmsInterval := sendInterval(p.FMSFrequencyHz())
	radioInterval := sendInterval(p.RobotFrequencyHz())
	robotInterval := sendInterval(p.RobotFrequencyHz())
	e.fmsTicker.SetInterval(fmsInterval)
	e.radioTicker.SetInterval(radioInterval)
	e.robotTicker.SetInterval(robotInterval)

	e.fmsWatchdog.SetExpirationTime(watchdog.ExpirationFromFrequency(p.FMSFrequencyHz()))
	e.radioWatchdog.SetExpirationTime(watchdog.ExpirationFromFrequency(p.RobotFrequencyHz()))
	e.robotWatchdog.SetExpirationTime(watchdog.ExpirationFromFrequency(p.RobotFrequencyHz()))

	e.applyRobotAddresses(p, team)

	e.config.PublishProtocolChanged(p.Name())

	if wasRunning {
		e.mu.Lock()
		e.running = true
		e.mu.Unlock()
	}
	return nil
}

// applyRobotAddresses reseeds the scan candidate list from the protocol's
// defaults for team and re-applies any custom robot address. A custom
// address pins the sender; without one the sockets stay in scan mode, so
// applying custom-then-protocol and protocol-then-custom converge on the
// same applied address.
func (e *Engine) applyRobotAddresses(p protocol.Protocol, team int) {
	e.mu.Lock()
	custom := e.customRobotAddr
	e.mu.Unlock()
	e.sockets.SetAddressList(p.DefaultRobotAddresses(team))
	e.sockets.SetRobotAddress(custom)
}

func sendInterval(frequencyHz int) time.Duration {
	if frequencyHz <= 0 {
		frequencyHz = 1
	}
	base := 1000 / frequencyHz
	if base < 1 {
		base = 1
	}
	ms := float64(base) * 0.9
	return time.Duration(ms * float64(time.Millisecond))
}

// SetCustomFMSAddress pins the FMS send target; empty restores no custom
// override (FMS has no protocol default, per protocol.DefaultFMSAddress).
func (e *Engine) SetCustomFMSAddress(addr string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.customFMSAddr = addr
}

// SetCustomRadioAddress overrides the protocol-derived radio address; empty
// restores the 10.TE.AM.1 default.
func (e *Engine) SetCustomRadioAddress(addr string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.customRadioAddr = addr
}

// SetCustomRobotAddress pins the robot sender, or (empty) returns it to
// scan mode over the protocol's candidate list.
func (e *Engine) SetCustomRobotAddress(addr string) {
	e.mu.Lock()
	e.customRobotAddr = addr
	e.mu.Unlock()
	e.sockets.SetRobotAddress(addr)
}

// SetTeam changes the team number and, with a protocol bound, reseeds the
// radio/robot default addresses derived from it.
func (e *Engine) SetTeam(team int) {
	e.config.SetTeam(team)
	e.mu.Lock()
	p := e.proto
	e.mu.Unlock()
	if p != nil {
		e.applyRobotAddresses(p, e.config.Snapshot().Team)
	}
}

// RegisterJoystick adds a joystick and publishes the new count.
func (e *Engine) RegisterJoystick(axes, buttons, povs int) (int, bool) {
	idx, ok := e.joysticks.Register(axes, buttons, povs)
	if ok {
		e.config.PublishJoystickCount(e.joysticks.Count())
	}
	return idx, ok
}

// RemoveJoystick removes a joystick, enforcing the safety invariant that
// removing the last one while in Teleoperated forces Disabled.
func (e *Engine) RemoveJoystick(i int) bool {
	wasLast := e.joysticks.Count() == 1
	ok := e.joysticks.Remove(i)
	if !ok {
		return false
	}
	e.config.PublishJoystickCount(e.joysticks.Count())
	if wasLast && e.config.Snapshot().ControlMode == dsconfig.Teleoperated {
		e.config.SetEnabled(dsconfig.Disabled)
		e.elapsed.Pause()
	}
	return true
}

// ResetJoysticks clears every registered joystick.
func (e *Engine) ResetJoysticks() {
	e.joysticks.Reset()
	e.config.PublishJoystickCount(0)
}

// SetEnabled is accepted unconditionally: canBeEnabled is a UI hint only,
// never itself a gate (the robot decides).
func (e *Engine) SetEnabled(enabled bool) {
	if enabled {
		e.config.SetEnabled(dsconfig.Enabled)
		e.elapsed.Start()
	} else {
		e.config.SetEnabled(dsconfig.Disabled)
		e.elapsed.Pause()
	}
}

// SetOperationStatus sets the safety state; entering EmergencyStop forces
// Disabled, the same engine-level rule applied to a robot-reported e-stop.
func (e *Engine) SetOperationStatus(s dsconfig.OperationStatus) {
	e.config.SetOperationStatus(s)
	if s == dsconfig.EmergencyStop {
		e.config.SetEnabled(dsconfig.Disabled)
		e.elapsed.Pause()
	}
}

// SetControlMode changes mode, resetting elapsed time if currently enabled.
func (e *Engine) SetControlMode(mode dsconfig.ControlMode) {
	e.config.SetControlMode(mode)
	if e.config.Snapshot().EnableStatus == dsconfig.Enabled {
		e.elapsed.Reset()
	}
}

// RequestReboot and RequestRestartCode forward one-shot requests to the
// bound protocol, if any.
func (e *Engine) RequestReboot() {
	e.mu.Lock()
	p, s := e.proto, e.protoState
	e.mu.Unlock()
	if p != nil {
		p.RequestReboot(s)
	}
}

func (e *Engine) RequestRestartCode() {
	e.mu.Lock()
	p, s := e.proto, e.protoState
	e.mu.Unlock()
	if p != nil {
		p.RequestRestartCode(s)
	}
}
