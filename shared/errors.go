// Package shared defines custom error types for the driver station core.
//
// Errors are grouped by functional area: protocol, sockets, joystick registry,
// watchdog, and general input validation.
package shared

import "errors"

// Protocol errors
//
// These relate to packet codec selection and packet interpretation.

// ErrUnknownProtocol indicates no factory is registered for the requested protocol type.
var ErrUnknownProtocol = errors.New("no protocol registered for the given type")

// ErrProtocolAlreadyRegistered indicates a protocol type was registered twice.
var ErrProtocolAlreadyRegistered = errors.New("protocol type already registered")

// ErrMalformedPacket indicates an inbound packet failed length or version checks.
// Malformed packets are dropped without resetting the watchdog or touching the config bus.
var ErrMalformedPacket = errors.New("malformed packet")

// Socket errors
//
// These relate to UDP endpoint setup and address scanning.

// ErrSocketBindFailed indicates a listener could not bind to the requested port.
var ErrSocketBindFailed = errors.New("failed to bind socket")

// ErrNoCandidateAddresses indicates the scan address list is empty.
var ErrNoCandidateAddresses = errors.New("no candidate addresses to scan")

// Joystick registry errors
//
// These relate to registering and addressing joysticks.

// ErrJoystickRejected indicates registerJoystick was called with all-zero axes/buttons/povs,
// or would exceed the active protocol's maxJoystickCount.
var ErrJoystickRejected = errors.New("joystick registration rejected")

// ErrJoystickNotFound indicates an operation referenced an index outside the registry.
var ErrJoystickNotFound = errors.New("joystick index not found")

// Watchdog errors

// ErrWatchdogNotArmed indicates reset() was called on a watchdog that was never started.
var ErrWatchdogNotArmed = errors.New("watchdog not armed")

// General errors
//
// These apply to multiple functional areas.

// ErrInvalidInput indicates invalid parameters were provided to a function
// (out-of-range operator input: silently rejected, state unchanged).
var ErrInvalidInput = errors.New("invalid input provided")

// ErrNotRunning indicates an operation was attempted on a stopped engine.
var ErrNotRunning = errors.New("engine is not running")

// ErrUnknownCommand indicates a Msg named a command the engine's command
// loop does not recognize.
var ErrUnknownCommand = errors.New("unknown command")
