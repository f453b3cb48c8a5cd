package dsconfig

import (
	"fmt"
	"math"
	"sync"

	"driverstation/shared/event_bus"
)

// Bus is the Config Bus: the sole write-through cache for observable state,
// wrapping a DsConfig value with compare-store-publish setters.
type Bus struct {
	mu     sync.RWMutex
	cfg    DsConfig
	events event_bus.EventBus
}

// NewBus creates a Config Bus publishing onto the given event bus, with the
// given starting team number.
func NewBus(events event_bus.EventBus, team int) *Bus {
	return &Bus{
		cfg: DsConfig{
			Team:            team,
			RobotCommStatus: Failing,
			RadioCommStatus: Failing,
			FMSCommStatus:   Failing,
			CodeStatus:      CodeFailing,
		},
		events: events,
	}
}

// Snapshot returns a copy of the current state.
func (b *Bus) Snapshot() DsConfig {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.cfg
}

// publishStatus computes and publishes the composite generalStatus event
// from the current state.
func (b *Bus) publishStatus() {
	b.events.PublishData(EventStatusChanged, computeStatusString(b.Snapshot()))
}

func computeStatusString(c DsConfig) string {
	switch {
	case c.RobotCommStatus != Working:
		return "No Robot Communication"
	case c.CodeStatus != CodeRunning:
		return "No Robot Code"
	case c.VoltageStatus == Brownout:
		return "Voltage Brownout"
	case c.OperationStatus == EmergencyStop:
		return "Emergency Stopped"
	default:
		return fmt.Sprintf("%s %s", c.ControlMode, c.EnableStatus)
	}
}

// FormatVoltage renders v with two zero-padded integer digits and two
// fractional digits derived as floor((v - floor(v)) * 100).
func FormatVoltage(v float64) string {
	whole := math.Floor(v)
	// The small epsilon keeps values such as 12.7, whose binary form lies
	// just below the decimal, from flooring one hundredth short.
	frac := int(math.Floor((v-whole)*100 + 1e-9))
	if frac > 99 {
		frac = 99
	}
	return fmt.Sprintf("%02d.%02d", int(whole), frac)
}

func (b *Bus) isStatusGroupEvent(event string) bool {
	switch event {
	case EventControlModeChanged, EventEnabledChanged, EventOperationStatusChanged,
		EventCodeStatusChanged, EventRobotCommStatusChanged, EventVoltageStatusChanged:
		return true
	default:
		return false
	}
}

// publishChange publishes the typed change event and, for the status-group
// subset, the composite generalStatus event. Callers have
// already compared old != new and stored the new value before calling this.
func (b *Bus) publishChange(eventType string, data interface{}) {
	b.events.PublishData(eventType, data)
	if b.isStatusGroupEvent(eventType) {
		b.publishStatus()
	}
}

// SetTeam sets the team number (1..9999); out-of-range values are rejected
// silently.
func (b *Bus) SetTeam(team int) {
	if team < 1 || team > 9999 {
		return
	}
	b.mu.Lock()
	if b.cfg.Team == team {
		b.mu.Unlock()
		return
	}
	b.cfg.Team = team
	b.mu.Unlock()
	b.publishChange(EventTeamChanged, team)
}

// SetAlliance sets the alliance.
func (b *Bus) SetAlliance(a Alliance) {
	b.mu.Lock()
	if b.cfg.Alliance == a {
		b.mu.Unlock()
		return
	}
	b.cfg.Alliance = a
	b.mu.Unlock()
	b.publishChange(EventAllianceChanged, a)
}

// SetPosition sets the station position (1..3).
func (b *Bus) SetPosition(p Position) {
	if p < 1 || p > 3 {
		return
	}
	b.mu.Lock()
	if b.cfg.Position == p {
		b.mu.Unlock()
		return
	}
	b.cfg.Position = p
	b.mu.Unlock()
	b.publishChange(EventPositionChanged, p)
}

// SetTeamStation sets alliance and position together from the 6-valued
// wire code.
func (b *Bus) SetTeamStation(station TeamStation) {
	alliance, position := FromTeamStation(station)
	b.SetAlliance(alliance)
	b.SetPosition(position)
}

// SetControlMode sets the operating mode.
func (b *Bus) SetControlMode(m ControlMode) {
	b.mu.Lock()
	if b.cfg.ControlMode == m {
		b.mu.Unlock()
		return
	}
	b.cfg.ControlMode = m
	b.mu.Unlock()
	b.publishChange(EventControlModeChanged, m)
}

// SetEnabled sets enable status. Accepted unconditionally: canBeEnabled is a
// UI hint only, never itself a gate.
func (b *Bus) SetEnabled(e EnableStatus) {
	b.mu.Lock()
	if b.cfg.EnableStatus == e {
		b.mu.Unlock()
		return
	}
	b.cfg.EnableStatus = e
	b.mu.Unlock()
	b.publishChange(EventEnabledChanged, e)
}

// SetOperationStatus sets the safety state.
func (b *Bus) SetOperationStatus(s OperationStatus) {
	b.mu.Lock()
	if b.cfg.OperationStatus == s {
		b.mu.Unlock()
		return
	}
	b.cfg.OperationStatus = s
	b.mu.Unlock()
	b.publishChange(EventOperationStatusChanged, s)
}

// SetVoltage stores v rounded to 0.01V and publishes both the float value
// and the formatted string.
func (b *Bus) SetVoltage(v float64) {
	rounded := math.Round(v*100) / 100
	b.mu.Lock()
	if b.cfg.Voltage == rounded {
		b.mu.Unlock()
		return
	}
	b.cfg.Voltage = rounded
	b.mu.Unlock()
	b.publishChange(EventVoltageChanged, VoltageChange{Value: rounded, String: FormatVoltage(rounded)})
}

// SetVoltageStatus sets the brownout flag.
func (b *Bus) SetVoltageStatus(s VoltageStatus) {
	b.mu.Lock()
	if b.cfg.VoltageStatus == s {
		b.mu.Unlock()
		return
	}
	b.cfg.VoltageStatus = s
	b.mu.Unlock()
	b.publishChange(EventVoltageStatusChanged, s)
}

// SetCodeStatus sets whether robot code is running.
func (b *Bus) SetCodeStatus(s CodeStatus) {
	b.mu.Lock()
	if b.cfg.CodeStatus == s {
		b.mu.Unlock()
		return
	}
	b.cfg.CodeStatus = s
	b.mu.Unlock()
	b.publishChange(EventCodeStatusChanged, s)
}

// SetFMSCommStatus sets the FMS communication status.
func (b *Bus) SetFMSCommStatus(s CommStatus) {
	b.mu.Lock()
	if b.cfg.FMSCommStatus == s {
		b.mu.Unlock()
		return
	}
	b.cfg.FMSCommStatus = s
	b.mu.Unlock()
	b.publishChange(EventFMSCommStatusChanged, s)
}

// SetRadioCommStatus sets the radio communication status.
func (b *Bus) SetRadioCommStatus(s CommStatus) {
	b.mu.Lock()
	if b.cfg.RadioCommStatus == s {
		b.mu.Unlock()
		return
	}
	b.cfg.RadioCommStatus = s
	b.mu.Unlock()
	b.publishChange(EventRadioCommStatusChanged, s)
}

// SetRobotCommStatus sets the robot communication status.
func (b *Bus) SetRobotCommStatus(s CommStatus) {
	b.mu.Lock()
	if b.cfg.RobotCommStatus == s {
		b.mu.Unlock()
		return
	}
	b.cfg.RobotCommStatus = s
	b.mu.Unlock()
	b.publishChange(EventRobotCommStatusChanged, s)
}

// SetLibVersion sets the reported DS library version string.
func (b *Bus) SetLibVersion(v string) {
	b.mu.Lock()
	if b.cfg.Versions.Library == v {
		b.mu.Unlock()
		return
	}
	b.cfg.Versions.Library = v
	b.mu.Unlock()
	b.publishChange(EventLibVersionChanged, v)
}

// SetPCMVersion sets the reported PCM firmware version string.
func (b *Bus) SetPCMVersion(v string) {
	b.mu.Lock()
	if b.cfg.Versions.PCM == v {
		b.mu.Unlock()
		return
	}
	b.cfg.Versions.PCM = v
	b.mu.Unlock()
	b.publishChange(EventPCMVersionChanged, v)
}

// SetPDPVersion sets the reported PDP firmware version string.
func (b *Bus) SetPDPVersion(v string) {
	b.mu.Lock()
	if b.cfg.Versions.PDP == v {
		b.mu.Unlock()
		return
	}
	b.cfg.Versions.PDP = v
	b.mu.Unlock()
	b.publishChange(EventPDPVersionChanged, v)
}

// SetSimulatedRobot sets the simulated-robot flag.
func (b *Bus) SetSimulatedRobot(sim bool) {
	b.mu.Lock()
	if b.cfg.SimulatedRobot == sim {
		b.mu.Unlock()
		return
	}
	b.cfg.SimulatedRobot = sim
	b.mu.Unlock()
}

// PublishJoystickCount emits joystickCountChanged; the registry itself has
// no event bus dependency, so the engine calls this after each registry
// mutation.
func (b *Bus) PublishJoystickCount(count int) {
	b.events.PublishData(EventJoystickCountChanged, count)
}

// PublishElapsedTime emits elapsedTimeChanged.
func (b *Bus) PublishElapsedTime(millis int64, formatted string) {
	b.events.PublishData(EventElapsedTimeChanged, ElapsedTimeChange{Millis: millis, String: formatted})
}

// PublishNewMessage emits newMessage (NetConsole text).
func (b *Bus) PublishNewMessage(text string) {
	b.events.PublishData(EventNewMessage, text)
}

// PublishInitialized emits the one-shot initialized event.
func (b *Bus) PublishInitialized() {
	b.events.PublishData(EventInitialized, nil)
}

// PublishProtocolChanged emits protocolChanged with the new protocol name.
func (b *Bus) PublishProtocolChanged(name string) {
	b.events.PublishData(EventProtocolChanged, name)
}
