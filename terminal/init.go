package terminal

// Auto-register commands using init()
func init() {
	RegisterCommand("init", "Initialize the engine", "init", initCommand)
	RegisterCommand("start", "Start the control loop", "start", startCommand)
	RegisterCommand("stop", "Stop the control loop", "stop", stopCommand)
	RegisterCommand("protocol", "Switch protocol", "protocol <P2014|P2015|P2016>", protocolCommand)
	RegisterCommand("team", "Set team number", "team <1-9999>", teamCommand)
	RegisterCommand("alliance", "Set alliance", "alliance <red|blue>", allianceCommand)
	RegisterCommand("position", "Set position", "position <1-3>", positionCommand)
	RegisterCommand("mode", "Set control mode", "mode <test|auto|teleop>", modeCommand)
	RegisterCommand("enable", "Enable the robot", "enable", enableCommand)
	RegisterCommand("disable", "Disable the robot", "disable", disableCommand)
	RegisterCommand("estop", "Emergency-stop the robot", "estop", estopCommand)
	RegisterCommand("joystick", "Manage joysticks", "joystick add|remove|reset <args>", joystickCommand)
	RegisterCommand("addr", "Set a custom address", "addr fms|radio|robot <address>", addrCommand)
	RegisterCommand("reboot", "Request a robot reboot", "reboot", rebootCommand)
	RegisterCommand("restart_code", "Request a robot code restart", "restart_code", restartCodeCommand)
	RegisterCommand("status", "Print the current composite status", "status", statusCommand)
	RegisterCommand("subscribe", "Subscribe to an event type", "subscribe <event_type>", subscribeCommand)
	RegisterCommand("unsubscribe", "Unsubscribe from an event type", "unsubscribe <event_type>", unsubscribeCommand)
	RegisterCommand("subscribe_all", "Subscribe to every event type", "subscribe_all", subscribeAllCommand)
	RegisterCommand("unsubscribe_all", "Unsubscribe from every event type", "unsubscribe_all", unsubscribeAllCommand)
	RegisterCommand("publish", "Publish an event onto the bus", "publish <event_type> <data>", publishCommand)
	RegisterCommand("help", "Show available commands", "help [command]", helpCommand)
	RegisterCommand("exit", "Exit terminal session", "exit", exitCommand)
	RegisterCommand("quit", "Exit terminal session", "quit", quitCommand)
}
