package terminal

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"strings"

	"driverstation/engine"
	"driverstation/shared"
	"driverstation/shared/event_bus"
)

// Start listens on TERMINAL_PORT (default 9001) and serves the terminal
// administration console against eng: one line-oriented command session per
// accepted connection, for debugging and scripted operator control outside
// the status API.
func Start(ctx context.Context, eng *engine.Engine, cancel context.CancelFunc) error {
	port := os.Getenv("TERMINAL_PORT")
	if port == "" {
		shared.DebugPrint("TERMINAL_PORT environment variable is not set, using default port 9001")
		port = "9001"
	}

	listener, err := net.Listen("tcp", fmt.Sprintf(":%s", port))
	if err != nil {
		return fmt.Errorf("error starting terminal server: %w", err)
	}
	defer listener.Close()

	shared.DebugPrint("Terminal server listening on port %s", port)

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				select {
				case <-ctx.Done():
					return
				default:
					shared.DebugPrint("Error accepting connection: %v", err)
					continue
				}
			}
			shared.DebugPrint("Accepted terminal connection from %s", conn.RemoteAddr())
			go handleConnection(ctx, conn, eng, cancel)
		}
	}()

	<-ctx.Done()
	shared.DebugPrint("Shutting down terminal server...")
	if err := listener.Close(); err != nil {
		return fmt.Errorf("error shutting down terminal server: %w", err)
	}
	shared.DebugPrint("Terminal server has shut down gracefully.")
	return nil
}

// handleConnection handles an individual TCP connection using the command
// registry (commands.go, engine_commands.go, event_bus_commands.go).
func handleConnection(ctx context.Context, conn net.Conn, eng *engine.Engine, cancel context.CancelFunc) {
	defer conn.Close()
	shared.DebugPrint("Handling terminal connection from %s", conn.RemoteAddr())

	cmdCtx := &CommandContext{
		Conn:       conn,
		Engine:     eng,
		Cancel:     cancel,
		Subscriber: event_bus.NewSubscriber(),
	}

	conn.Write([]byte("=== Driver Station Terminal ===\n"))
	conn.Write([]byte("Type 'help' for available commands.\n"))
	conn.Write([]byte("> "))

	scanner := bufio.NewScanner(conn)

	for {
		select {
		case <-ctx.Done():
			shared.DebugPrint("Context cancelled, closing terminal connection")
			conn.Write([]byte("\nTerminal session ended.\n"))
			return
		default:
			if !scanner.Scan() {
				if err := scanner.Err(); err != nil {
					shared.DebugPrint("Error reading from terminal connection: %v", err)
				} else {
					shared.DebugPrint("Terminal connection closed by client")
				}
				return
			}

			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				conn.Write([]byte("> "))
				continue
			}

			args := strings.Fields(line)
			command := args[0]
			commandArgs := args[1:]

			err := DefaultRegistry.ExecuteCommand(cmdCtx, command, commandArgs)
			if err != nil {
				if err.Error() == "exit" {
					return
				}
				conn.Write([]byte(fmt.Sprintf("Error: %v\n", err)))
			}

			conn.Write([]byte("> "))
		}
	}
}
