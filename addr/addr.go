// Package addr generates LAN-wide probe candidate addresses for scan mode.
//
// Grounded on shared.GetLocalIPs: where that function discovers the host's
// own reachable interfaces, this package expands each one into the full
// /24 of candidate robot addresses that the sockets component scans.
package addr

import (
	"fmt"
	"net"
	"strings"

	"driverstation/shared"
)

// EnumerateCandidates iterates all non-loopback, up/running host interfaces;
// for each IPv4 address a.b.c.d it appends a.b.c.1 through a.b.c.254, then
// finally appends 127.0.0.1. Ordering is insertion order; deduplication is
// not performed.
func EnumerateCandidates() []string {
	var candidates []string

	for _, ip := range shared.GetLocalIPs() {
		prefix, ok := subnet24(ip)
		if !ok {
			continue
		}
		for host := 1; host <= 254; host++ {
			candidates = append(candidates, fmt.Sprintf("%s.%d", prefix, host))
		}
	}

	candidates = append(candidates, "127.0.0.1")
	return candidates
}

// subnet24 splits an IPv4 dotted-quad string into its leading "a.b.c" prefix.
func subnet24(ip string) (string, bool) {
	parsed := net.ParseIP(ip)
	if parsed == nil || parsed.To4() == nil {
		return "", false
	}
	parts := strings.Split(parsed.To4().String(), ".")
	if len(parts) != 4 {
		return "", false
	}
	return strings.Join(parts[:3], "."), true
}

// RadioAddress computes the default radio address 10.TE.AM.1 for a team
// number, decomposed as 10.hh.ll.1 where hh=team/100, ll=team%100, both
// zero-padded to two digits.
func RadioAddress(team int) string {
	hh := team / 100
	ll := team % 100
	return fmt.Sprintf("10.%02d.%02d.1", hh, ll)
}

// RobotAddressLegacy computes the 10.TE.AM.2 default robot address, shared
// by P2015 and P2016's candidate lists.
func RobotAddressLegacy(team int) string {
	hh := team / 100
	ll := team % 100
	return fmt.Sprintf("10.%02d.%02d.2", hh, ll)
}
