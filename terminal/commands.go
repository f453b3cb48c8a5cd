// Package terminal is a TCP administration console for the control-loop
// engine: operators can set team/alliance/mode, manage joysticks, force a
// protocol swap, or watch the event bus, all from a plain-text line
// protocol rather than the status API.
package terminal

import (
	"context"
	"fmt"
	"net"

	"driverstation/engine"
	"driverstation/shared/event_bus"
)

// CommandFunc handles one parsed terminal command line.
type CommandFunc func(ctx *CommandContext, args []string) error

// CommandInfo holds metadata about a registered command.
type CommandInfo struct {
	Name        string
	Description string
	Usage       string
	Handler     CommandFunc
}

// CommandContext is threaded through every command handler for one
// connection's lifetime.
type CommandContext struct {
	Conn       net.Conn
	Engine     *engine.Engine
	Cancel     context.CancelFunc
	Subscriber *event_bus.Subscriber
}

// CommandRegistry holds all registered commands.
type CommandRegistry struct {
	commands map[string]*CommandInfo
}

var DefaultRegistry = &CommandRegistry{
	commands: make(map[string]*CommandInfo),
}

// RegisterCommand registers a new command against the default registry.
func RegisterCommand(name, description, usage string, handler CommandFunc) {
	DefaultRegistry.commands[name] = &CommandInfo{
		Name:        name,
		Description: description,
		Usage:       usage,
		Handler:     handler,
	}
}

// GetCommand retrieves a command by name.
func (r *CommandRegistry) GetCommand(name string) (*CommandInfo, bool) {
	cmd, exists := r.commands[name]
	return cmd, exists
}

// ListCommands returns all registered commands.
func (r *CommandRegistry) ListCommands() []*CommandInfo {
	var commands []*CommandInfo
	for _, cmd := range r.commands {
		commands = append(commands, cmd)
	}
	return commands
}

// ExecuteCommand looks up name and runs its handler.
func (r *CommandRegistry) ExecuteCommand(ctx *CommandContext, name string, args []string) error {
	cmd, exists := r.GetCommand(name)
	if !exists {
		return fmt.Errorf("unknown command: %s", name)
	}
	return cmd.Handler(ctx, args)
}
