// Package shared provides utility functions used across the driver station core.
//
// This file contains essential utility functions for network discovery, random
// identifier generation, and safe resource cleanup. These utilities are used
// throughout the core for common operations that need to be handled consistently.
package shared

import (
	"crypto/rand"
	"encoding/hex"
	"net"
	"reflect"
	"sync"
)

// GetLocalIPs discovers and returns all local IPv4 addresses of the host.
//
// This function scans all network interfaces on the system and returns only
// active IPv4 addresses that can be used for robot communication. It filters
// out loopback addresses, IPv6 addresses, and interfaces that are not both
// up and running.
//
// The returned IP addresses can be used to:
//   - Display available driver station endpoints to operators
//   - Seed candidate addresses for the radio/robot scan (package addr)
//   - Validate the source of incoming packets
//
// Returns:
//   - []string: List of local IPv4 addresses in string format
//
// Example Usage:
//
//	ips := shared.GetLocalIPs()
//	for _, ip := range ips {
//	    fmt.Printf("driver station reachable at: %s\n", ip)
//	}
func GetLocalIPs() []string {
	var ips []string

	interfaces, err := net.Interfaces()
	if err != nil {
		return ips
	}

	for _, iface := range interfaces {
		// Skip loopback and interfaces that are down or not running
		if iface.Flags&net.FlagLoopback != 0 || iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagRunning == 0 {
			continue
		}

		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			var ip net.IP
			switch v := addr.(type) {
			case *net.IPNet:
				ip = v.IP
			case *net.IPAddr:
				ip = v.IP
			}

			// Skip IPv6 and loopback addresses
			if ip == nil || ip.IsLoopback() || ip.To4() == nil {
				continue
			}

			ips = append(ips, ip.String())
		}
	}

	return ips
}

// GenerateRandomString returns a random hex-encoded string of n random bytes
// (2n hex characters). Used to mint status-API session and SSE client IDs.
func GenerateRandomString(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		DebugPanic("failed to read random bytes: %v", err)
	}
	return hex.EncodeToString(buf)
}

// channelCloseMutex protects against concurrent channel close operations.
// This prevents race conditions when multiple goroutines attempt to close
// the same channel simultaneously.
var channelCloseMutex sync.Mutex

// SafeClose safely closes various types of resources without panicking.
//
// This function provides a unified interface for closing different resource types:
//   - Objects with Close() method (sockets, files, etc.)
//   - Channels (using reflection for type safety)
//   - nil values (ignored safely)
//
// The function automatically detects the resource type and uses the appropriate
// closing mechanism. For channels, it uses SafeCloseChannel to prevent panics
// from attempting to close already-closed channels.
//
// Example Usage:
//
//	defer shared.SafeClose(conn)        // UDP socket
//	defer shared.SafeClose(file)        // File handle
//	defer shared.SafeClose(msgChan)     // Channel
//	defer shared.SafeClose(nil)         // Safe, does nothing
//
// Thread Safety:
// This function is thread-safe for all supported resource types.
func SafeClose(closer interface{}) {
	if closer == nil {
		return
	}

	// Handle types with Close() method
	if c, ok := closer.(interface{ Close() error }); ok {
		if err := c.Close(); err != nil {
			DebugPrint("Error closing resource: %v", err)
		}
		return
	}

	// Handle channels using reflection
	SafeCloseChannel(closer)
}

// SafeCloseChannel safely closes a channel without panicking on already-closed channels.
//
// This function uses reflection to safely close channels of any type while preventing
// the common panic that occurs when attempting to close an already-closed channel.
// It includes mutex protection to handle concurrent close attempts.
//
// Behavior:
//   - nil channels are ignored safely
//   - Non-channel types are logged and ignored
//   - Already-closed channels are detected and ignored
//   - Concurrent close attempts are serialized with mutex
//
// Thread Safety:
// This function is thread-safe and can be called concurrently from multiple goroutines.
func SafeCloseChannel(ch interface{}) {
	if ch == nil {
		return
	}

	val := reflect.ValueOf(ch)
	if val.Kind() != reflect.Chan {
		DebugPrint("SafeCloseChannel: not a channel, type: %T", ch)
		return
	}

	channelCloseMutex.Lock()
	defer channelCloseMutex.Unlock()

	// Check if channel is closed by attempting a non-blocking receive
	if !isChannelClosed(val) {
		val.Close()
	}
}

// isChannelClosed checks if a channel is closed using non-blocking reflection.
//
// Sets up a select with the channel and a default case: if the channel case
// is chosen and ok=false, the channel is closed; if the default case is
// chosen, the channel is open but not ready.
//
// Internal Use:
// This is a helper function for SafeCloseChannel and is not intended for
// direct external use.
func isChannelClosed(ch reflect.Value) bool {
	if ch.Kind() != reflect.Chan {
		return true
	}

	chosen, _, ok := reflect.Select([]reflect.SelectCase{
		{Dir: reflect.SelectRecv, Chan: ch},
		{Dir: reflect.SelectDefault},
	})

	return chosen == 0 && !ok
}
