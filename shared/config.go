// Package shared provides configuration management for the driver station core.
//
// This file handles process configuration through environment variables,
// particularly debug mode settings that control logging verbosity.
package shared

import (
	"os"
	"time"
)

// DEBUG_MODE controls debug logging throughout the core. Set during InitConfig
// and should not be modified at runtime afterwards.
var (
	DEBUG_MODE = false
)

const (
	MONGODB_MIN_POOL_SIZE = 2
	MONGODB_MAX_POOL_SIZE = 10

	// EVENT_BUS_BUFFER_SIZE is not referenced by any package: statusapi's SSE
	// client queues are unbounded and its websocket clients use a 32-frame
	// channel. The core event bus itself is unbounded per subscriber.
	EVENT_BUS_BUFFER_SIZE = 1000

	// SendJitterBudget is the tolerated deviation of a scheduled tick from
	// its nominal deadline (±2ms for 20ms ticks). The engine's diagnostics
	// do not compare jitter against it and log no warning.
	SendJitterBudget = 2 * time.Millisecond
)

// InitConfig initializes process configuration from environment variables.
//
// Environment Variables:
//   - DEBUG: "true" enables debug mode and verbose logging.
func InitConfig() {
	DEBUG_MODE = os.Getenv("DEBUG") == "true"
}
