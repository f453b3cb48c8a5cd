package terminal

import (
	"fmt"
	"strconv"
	"time"

	"driverstation/dsconfig"
	"driverstation/engine"
	"driverstation/shared"
)

const commandTimeout = 2 * time.Second

// submitAndWait submits msg to the engine's command queue and blocks for
// its reply, the same request/response shape the status API would use if
// it needed a synchronous result instead of firing and forgetting.
func submitAndWait(ctx *CommandContext, name string, payload any) (any, error) {
	reply := make(chan any, 1)
	ctx.Engine.Submit(&shared.DefaultMsg{Msg: name, Payload: payload, Source: "terminal", ReplyChan: reply})
	select {
	case v := <-reply:
		if err, ok := v.(error); ok {
			return nil, err
		}
		return v, nil
	case <-time.After(commandTimeout):
		return nil, fmt.Errorf("command %s timed out", name)
	}
}

func initCommand(ctx *CommandContext, args []string) error {
	_, err := submitAndWait(ctx, engine.CmdInit, nil)
	if err == nil {
		ctx.Conn.Write([]byte("Engine initialized.\n"))
	}
	return err
}

func startCommand(ctx *CommandContext, args []string) error {
	_, err := submitAndWait(ctx, engine.CmdStart, nil)
	if err == nil {
		ctx.Conn.Write([]byte("Engine started.\n"))
	}
	return err
}

func stopCommand(ctx *CommandContext, args []string) error {
	_, err := submitAndWait(ctx, engine.CmdStop, nil)
	if err == nil {
		ctx.Conn.Write([]byte("Engine stopped.\n"))
	}
	return err
}

func protocolCommand(ctx *CommandContext, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: protocol <name>")
	}
	_, err := submitAndWait(ctx, engine.CmdSetProtocol, args[0])
	if err == nil {
		ctx.Conn.Write([]byte(fmt.Sprintf("Protocol set to %s.\n", args[0])))
	}
	return err
}

func teamCommand(ctx *CommandContext, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: team <number>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid team number: %s", args[0])
	}
	if _, err := submitAndWait(ctx, engine.CmdSetTeam, n); err != nil {
		return err
	}
	ctx.Conn.Write([]byte(fmt.Sprintf("Team set to %d.\n", n)))
	return nil
}

func allianceCommand(ctx *CommandContext, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: alliance <red|blue>")
	}
	var a dsconfig.Alliance
	switch args[0] {
	case "red":
		a = dsconfig.Red
	case "blue":
		a = dsconfig.Blue
	default:
		return fmt.Errorf("alliance must be red or blue")
	}
	if _, err := submitAndWait(ctx, engine.CmdSetAlliance, a); err != nil {
		return err
	}
	ctx.Conn.Write([]byte(fmt.Sprintf("Alliance set to %s.\n", args[0])))
	return nil
}

func positionCommand(ctx *CommandContext, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: position <1|2|3>")
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > 3 {
		return fmt.Errorf("position must be 1, 2, or 3")
	}
	if _, err := submitAndWait(ctx, engine.CmdSetPosition, dsconfig.Position(n)); err != nil {
		return err
	}
	ctx.Conn.Write([]byte(fmt.Sprintf("Position set to %d.\n", n)))
	return nil
}

func modeCommand(ctx *CommandContext, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: mode <test|auto|teleop>")
	}
	var m dsconfig.ControlMode
	switch args[0] {
	case "test":
		m = dsconfig.Test
	case "auto":
		m = dsconfig.Autonomous
	case "teleop":
		m = dsconfig.Teleoperated
	default:
		return fmt.Errorf("mode must be test, auto, or teleop")
	}
	if _, err := submitAndWait(ctx, engine.CmdSetMode, m); err != nil {
		return err
	}
	ctx.Conn.Write([]byte(fmt.Sprintf("Mode set to %s.\n", args[0])))
	return nil
}

func enableCommand(ctx *CommandContext, args []string) error {
	if _, err := submitAndWait(ctx, engine.CmdSetEnabled, true); err != nil {
		return err
	}
	ctx.Conn.Write([]byte("Robot enabled.\n"))
	return nil
}

func disableCommand(ctx *CommandContext, args []string) error {
	if _, err := submitAndWait(ctx, engine.CmdSetEnabled, false); err != nil {
		return err
	}
	ctx.Conn.Write([]byte("Robot disabled.\n"))
	return nil
}

func estopCommand(ctx *CommandContext, args []string) error {
	if _, err := submitAndWait(ctx, engine.CmdSetOperationStatus, dsconfig.EmergencyStop); err != nil {
		return err
	}
	ctx.Conn.Write([]byte("Robot emergency stopped.\n"))
	return nil
}

func joystickCommand(ctx *CommandContext, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: joystick add <axes> <buttons> <povs>|remove <index>|reset")
	}
	switch args[0] {
	case "add":
		if len(args) != 4 {
			return fmt.Errorf("usage: joystick add <axes> <buttons> <povs>")
		}
		axes, err1 := strconv.Atoi(args[1])
		buttons, err2 := strconv.Atoi(args[2])
		povs, err3 := strconv.Atoi(args[3])
		if err1 != nil || err2 != nil || err3 != nil {
			return fmt.Errorf("axes, buttons, and povs must be integers")
		}
		v, err := submitAndWait(ctx, engine.CmdRegisterJoystick, engine.JoystickPayload{Axes: axes, Buttons: buttons, POVs: povs})
		if err != nil {
			return err
		}
		result := v.(engine.RegisterJoystickResult)
		if !result.OK {
			ctx.Conn.Write([]byte("Joystick registry full.\n"))
			return nil
		}
		ctx.Conn.Write([]byte(fmt.Sprintf("Joystick registered at index %d.\n", result.Index)))
		return nil

	case "remove":
		if len(args) != 2 {
			return fmt.Errorf("usage: joystick remove <index>")
		}
		idx, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid index: %s", args[1])
		}
		v, err := submitAndWait(ctx, engine.CmdRemoveJoystick, idx)
		if err != nil {
			return err
		}
		if !v.(bool) {
			ctx.Conn.Write([]byte("No joystick at that index.\n"))
			return nil
		}
		ctx.Conn.Write([]byte("Joystick removed.\n"))
		return nil

	case "reset":
		if _, err := submitAndWait(ctx, engine.CmdResetJoysticks, nil); err != nil {
			return err
		}
		ctx.Conn.Write([]byte("Joysticks reset.\n"))
		return nil

	default:
		return fmt.Errorf("usage: joystick add <axes> <buttons> <povs>|remove <index>|reset")
	}
}

func addrCommand(ctx *CommandContext, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: addr <fms|radio|robot> <address>")
	}
	var cmd string
	switch args[0] {
	case "fms":
		cmd = engine.CmdSetCustomFMSAddr
	case "radio":
		cmd = engine.CmdSetCustomRadioAddr
	case "robot":
		cmd = engine.CmdSetCustomRobotAddr
	default:
		return fmt.Errorf("channel must be fms, radio, or robot")
	}
	if _, err := submitAndWait(ctx, cmd, args[1]); err != nil {
		return err
	}
	ctx.Conn.Write([]byte(fmt.Sprintf("%s address set to %s.\n", args[0], args[1])))
	return nil
}

func rebootCommand(ctx *CommandContext, args []string) error {
	if _, err := submitAndWait(ctx, engine.CmdRequestReboot, nil); err != nil {
		return err
	}
	ctx.Conn.Write([]byte("Reboot requested.\n"))
	return nil
}

func restartCodeCommand(ctx *CommandContext, args []string) error {
	if _, err := submitAndWait(ctx, engine.CmdRequestRestartCode, nil); err != nil {
		return err
	}
	ctx.Conn.Write([]byte("Code restart requested.\n"))
	return nil
}

func statusCommand(ctx *CommandContext, args []string) error {
	snap := ctx.Engine.Config().Snapshot()
	ctx.Conn.Write([]byte(fmt.Sprintf(
		"team=%d alliance=%v position=%v mode=%v enabled=%v operation=%v voltage=%.2f (%v)\n"+
			"code=%v fms=%v radio=%v robot=%v simulated=%v\n",
		snap.Team, snap.Alliance, snap.Position, snap.ControlMode, snap.EnableStatus, snap.OperationStatus,
		snap.Voltage, snap.VoltageStatus, snap.CodeStatus, snap.FMSCommStatus, snap.RadioCommStatus,
		snap.RobotCommStatus, snap.SimulatedRobot,
	)))
	return nil
}

func helpCommand(ctx *CommandContext, args []string) error {
	if len(args) == 0 {
		ctx.Conn.Write([]byte("Available commands:\n"))
		for _, cmd := range DefaultRegistry.ListCommands() {
			ctx.Conn.Write([]byte(fmt.Sprintf("  %-12s - %s\n", cmd.Name, cmd.Description)))
		}
		ctx.Conn.Write([]byte("\nUse 'help <command>' for detailed usage.\n"))
		return nil
	}

	cmd, exists := DefaultRegistry.GetCommand(args[0])
	if !exists {
		return fmt.Errorf("unknown command: %s", args[0])
	}
	ctx.Conn.Write([]byte(fmt.Sprintf("Command: %s\n", cmd.Name)))
	ctx.Conn.Write([]byte(fmt.Sprintf("Description: %s\n", cmd.Description)))
	ctx.Conn.Write([]byte(fmt.Sprintf("Usage: %s\n", cmd.Usage)))
	return nil
}

func exitCommand(ctx *CommandContext, args []string) error {
	ctx.Conn.Write([]byte("Goodbye!\n"))
	return errExit
}

func quitCommand(ctx *CommandContext, args []string) error {
	return exitCommand(ctx, args)
}

// errExit signals a clean connection close rather than a command failure.
var errExit = fmt.Errorf("exit")
