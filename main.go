// Command driverstation is the entry point for the FRC Driver Station core.
//
// It wires together the config bus, control-loop engine, transport sockets,
// NetConsole, status API, optional telemetry recorder, and terminal
// administration console, then blocks until SIGINT/SIGTERM.
//
// Configuration is environment-variable driven, loaded from a .env file:
//   - DEBUG: "true" enables verbose logging.
//   - TEAM_NUMBER: starting team number (default 0).
//   - PROTOCOL: starting protocol, one of "P2014", "P2015", "P2016" (default "P2016").
//   - FMS_ADDRESS / RADIO_ADDRESS / ROBOT_ADDRESS: optional custom address overrides.
//   - HTTP_PORT: status API listen port (default "8080").
//   - TERMINAL_PORT: terminal console listen port (default "9001").
//   - NETCONSOLE_PORT: NetConsole output port override (0 disables sending).
//   - MONGODB_URI / MONGODB_DATABASE: optional telemetry recorder target.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"driverstation/engine"
	"driverstation/shared"
	"driverstation/shared/event_bus"
	"driverstation/statusapi"
	"driverstation/telemetry"
	"driverstation/terminal"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := godotenv.Load(".env"); err != nil {
		shared.DebugPrint("no .env file loaded: %v", err)
	}
	shared.InitConfig()

	shared.DebugPrint("Driver Station running on the following local IPs:")
	for _, ip := range shared.GetLocalIPs() {
		shared.DebugPrint("%s", ip)
	}

	team, _ := strconv.Atoi(os.Getenv("TEAM_NUMBER"))

	events := event_bus.NewEventBus()
	if events == nil {
		panic("failed to initialize event bus")
	}

	eng := engine.New(events, team)

	protocolName := os.Getenv("PROTOCOL")
	if protocolName == "" {
		protocolName = "P2016"
	}
	if err := eng.SetProtocol(protocolName); err != nil {
		panic(fmt.Sprintf("failed to set initial protocol %q: %v", protocolName, err))
	}
	if addr := os.Getenv("FMS_ADDRESS"); addr != "" {
		eng.SetCustomFMSAddress(addr)
	}
	if addr := os.Getenv("RADIO_ADDRESS"); addr != "" {
		eng.SetCustomRadioAddress(addr)
	}
	if addr := os.Getenv("ROBOT_ADDRESS"); addr != "" {
		eng.SetCustomRobotAddress(addr)
	}
	if portStr := os.Getenv("NETCONSOLE_PORT"); portStr != "" {
		if port, err := strconv.Atoi(portStr); err == nil {
			eng.SetNetConsoleOutputPort(port)
		}
	}

	eng.Init()
	eng.Start()

	recorder, err := telemetry.Start(ctx)
	if err != nil {
		shared.DebugError(err)
	}
	defer recorder.Stop()

	httpPort := os.Getenv("HTTP_PORT")
	if httpPort == "" {
		httpPort = "8080"
	}
	statusSrv := statusapi.New(eng, httpPort)

	// g coordinates the three independent, long-lived component goroutines:
	// the first one to return an error cancels gctx for the others, and
	// Wait collects the first such error.
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		recorder.RecordPeriodically(gctx, eng, 5*time.Second)
		return nil
	})
	g.Go(func() error {
		return statusSrv.Start(gctx)
	})
	g.Go(func() error {
		return terminal.Start(gctx, eng, cancel)
	})

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-ctx.Done():
		shared.DebugPrint("context cancelled, shutting down...")
	case <-sigs:
		shared.DebugPrint("received termination signal, shutting down...")
	}

	cancel()
	eng.Shutdown()

	done := make(chan struct{})
	go func() {
		if err := g.Wait(); err != nil {
			shared.DebugError(err)
		}
		close(done)
	}()

	select {
	case <-done:
		shared.DebugPrint("all components have shut down gracefully.")
	case <-time.After(10 * time.Second):
		shared.DebugPrint("timeout waiting for components to shut down, forcing exit.")
	}
}
