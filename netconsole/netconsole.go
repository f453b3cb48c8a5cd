// Package netconsole implements the two UDP sockets used for free-form
// robot console text: an input socket that emits one event per inbound
// datagram, and an output socket that broadcasts operator text with no
// framing and no retry.
//
// Grounded on the same UDP receiver/sender shape used by package sockets,
// specialized here to a single unbound input/output pair rather than a
// scanning multi-candidate sender.
package netconsole

import (
	"net"
	"sync"

	"driverstation/shared"
)

// Console owns the input and output NetConsole sockets.
type Console struct {
	mu sync.Mutex

	inConn  *net.UDPConn
	outConn *net.UDPConn
	outPort int
	stop    chan struct{}

	onMessage func(text string)
}

// New creates an unopened Console. Call Configure to bind.
func New(onMessage func(text string)) *Console {
	return &Console{onMessage: onMessage}
}

// Configure rebinds the input socket to inPort and prepares the output
// socket to broadcast to outPort. The input bind is a plain UDP bind: no
// address-reuse socket options are set, so the bind fails while another
// socket holds inPort. Passing 0 for either port disables that half.
func (c *Console) Configure(inPort, outPort int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()

	c.outPort = outPort
	if outPort != 0 {
		conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: 0})
		if err != nil {
			shared.DebugError(err)
		} else {
			conn.SetWriteBuffer(1 << 16)
			c.outConn = conn
		}
	}

	if inPort == 0 {
		return
	}
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: inPort})
	if err != nil {
		shared.DebugError(err)
		return
	}
	c.inConn = conn
	c.stop = make(chan struct{})
	go c.readLoop(conn, c.stop)
}

// SetOutputPort rebinds only the output half, leaving the input socket
// (and its read loop) untouched.
func (c *Console) SetOutputPort(outPort int) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.outConn != nil {
		c.outConn.Close()
		c.outConn = nil
	}
	c.outPort = outPort
	if outPort == 0 {
		return
	}
	conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: 0})
	if err != nil {
		shared.DebugError(err)
		return
	}
	conn.SetWriteBuffer(1 << 16)
	c.outConn = conn
}

func (c *Console) readLoop(conn *net.UDPConn, stop chan struct{}) {
	buf := make([]byte, 4096)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			select {
			case <-stop:
				return
			default:
				continue
			}
		}
		if c.onMessage != nil {
			c.onMessage(string(buf[:n]))
		}
	}
}

// Send broadcasts text to the configured output port. No-op if the output
// socket is disabled or unreachable; never retried.
func (c *Console) Send(text string) {
	c.mu.Lock()
	conn := c.outConn
	port := c.outPort
	c.mu.Unlock()
	if conn == nil || port == 0 {
		return
	}
	dst := &net.UDPAddr{IP: net.IPv4bcast, Port: port}
	conn.WriteTo([]byte(text), dst)
}

// Close releases both sockets.
func (c *Console) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closeLocked()
}

func (c *Console) closeLocked() {
	if c.inConn != nil {
		close(c.stop)
		c.inConn.Close()
		c.inConn = nil
	}
	if c.outConn != nil {
		c.outConn.Close()
		c.outConn = nil
	}
}
