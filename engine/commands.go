package engine

import (
	"driverstation/dsconfig"
	"driverstation/shared"
)

// Command names accepted by Submit. Every external actor (status API,
// terminal, operator UI) names its request by one of these rather than
// calling an Engine method directly, so every mutation is serialized
// through the command loop.
const (
	CmdInit               = "INIT"
	CmdStart              = "START"
	CmdStop               = "STOP"
	CmdSetProtocol        = "SET_PROTOCOL"
	CmdSetEnabled         = "SET_ENABLED"
	CmdSetMode            = "SET_MODE"
	CmdSetTeam            = "SET_TEAM"
	CmdSetAlliance        = "SET_ALLIANCE"
	CmdSetPosition        = "SET_POSITION"
	CmdSetTeamStation     = "SET_TEAM_STATION"
	CmdSetOperationStatus = "SET_OPERATION_STATUS"
	CmdRegisterJoystick   = "REGISTER_JOYSTICK"
	CmdRemoveJoystick     = "REMOVE_JOYSTICK"
	CmdResetJoysticks     = "RESET_JOYSTICKS"
	CmdSetCustomFMSAddr   = "SET_CUSTOM_FMS_ADDR"
	CmdSetCustomRadioAddr = "SET_CUSTOM_RADIO_ADDR"
	CmdSetCustomRobotAddr = "SET_CUSTOM_ROBOT_ADDR"
	CmdRequestReboot      = "REQUEST_REBOOT"
	CmdRequestRestartCode = "REQUEST_RESTART_CODE"
)

// JoystickPayload is the REGISTER_JOYSTICK payload.
type JoystickPayload struct {
	Axes    int
	Buttons int
	POVs    int
}

// RegisterJoystickResult is returned on REGISTER_JOYSTICK's reply channel.
type RegisterJoystickResult struct {
	Index int
	OK    bool
}

// Submit enqueues msg for processing on the engine's own goroutine. It
// never blocks on the result; callers that want one should pass a
// buffered ReplyChan and receive from it themselves.
func (e *Engine) Submit(msg shared.Msg) {
	e.cmds <- msg
}

// run is the engine's single command-processing goroutine: every Submit
// call funnels through here in order, so no two commands ever race each
// other. Periodic ticks run on their tickers' own goroutines, not here.
func (e *Engine) run() {
	for {
		select {
		case <-e.done:
			return
		case msg := <-e.cmds:
			e.dispatch(msg)
		}
	}
}

func (e *Engine) dispatch(msg shared.Msg) {
	reply := msg.GetReplyChan()
	switch msg.GetMsg() {
	case CmdInit:
		e.Init()
		replyNil(reply)

	case CmdStart:
		e.Start()
		replyNil(reply)

	case CmdStop:
		e.Stop()
		replyNil(reply)

	case CmdSetProtocol:
		name, _ := msg.GetPayload().(string)
		err := e.SetProtocol(name)
		replyValue(reply, err)

	case CmdSetEnabled:
		enabled, _ := msg.GetPayload().(bool)
		e.SetEnabled(enabled)
		replyNil(reply)

	case CmdSetMode:
		mode, _ := msg.GetPayload().(dsconfig.ControlMode)
		e.SetControlMode(mode)
		replyNil(reply)

	case CmdSetTeam:
		team, _ := msg.GetPayload().(int)
		e.SetTeam(team)
		replyNil(reply)

	case CmdSetAlliance:
		alliance, _ := msg.GetPayload().(dsconfig.Alliance)
		e.config.SetAlliance(alliance)
		replyNil(reply)

	case CmdSetPosition:
		position, _ := msg.GetPayload().(dsconfig.Position)
		e.config.SetPosition(position)
		replyNil(reply)

	case CmdSetTeamStation:
		station, _ := msg.GetPayload().(dsconfig.TeamStation)
		e.config.SetTeamStation(station)
		replyNil(reply)

	case CmdSetOperationStatus:
		status, _ := msg.GetPayload().(dsconfig.OperationStatus)
		e.SetOperationStatus(status)
		replyNil(reply)

	case CmdRegisterJoystick:
		p, _ := msg.GetPayload().(JoystickPayload)
		idx, ok := e.RegisterJoystick(p.Axes, p.Buttons, p.POVs)
		replyValue(reply, RegisterJoystickResult{Index: idx, OK: ok})

	case CmdRemoveJoystick:
		idx, _ := msg.GetPayload().(int)
		ok := e.RemoveJoystick(idx)
		replyValue(reply, ok)

	case CmdResetJoysticks:
		e.ResetJoysticks()
		replyNil(reply)

	case CmdSetCustomFMSAddr:
		addrStr, _ := msg.GetPayload().(string)
		e.SetCustomFMSAddress(addrStr)
		replyNil(reply)

	case CmdSetCustomRadioAddr:
		addrStr, _ := msg.GetPayload().(string)
		e.SetCustomRadioAddress(addrStr)
		replyNil(reply)

	case CmdSetCustomRobotAddr:
		addrStr, _ := msg.GetPayload().(string)
		e.SetCustomRobotAddress(addrStr)
		replyNil(reply)

	case CmdRequestReboot:
		e.RequestReboot()
		replyNil(reply)

	case CmdRequestRestartCode:
		e.RequestRestartCode()
		replyNil(reply)

	default:
		replyValue(reply, shared.ErrUnknownCommand)
	}
}

func replyNil(reply chan any) {
	if reply != nil {
		reply <- nil
	}
}

func replyValue(reply chan any, v any) {
	if reply != nil {
		reply <- v
	}
}
