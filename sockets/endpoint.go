package sockets

import (
	"net"

	"driverstation/dsconfig"
	"driverstation/shared"
)

// DisabledPort silently disables an endpoint when used as its port.
const DisabledPort = 0

// receiver owns the listening half of a logical endpoint. UDP is the
// common case (every shipped protocol uses it); TCP keeps accepting
// connections and reads each on its own goroutine, the same
// accept-then-read shape used elsewhere in this codebase for line-oriented
// TCP sessions.
type receiver struct {
	socketType dsconfig.SocketType
	port       int

	udpConn  *net.UDPConn
	tcpLn    net.Listener
	tcpConns []net.Conn

	onData func(data []byte, from net.Addr)
	stop   chan struct{}
}

func newReceiver(name string, socketType dsconfig.SocketType, port int, onData func([]byte, net.Addr)) *receiver {
	r := &receiver{socketType: socketType, port: port, onData: onData, stop: make(chan struct{})}
	if port == DisabledPort {
		return r
	}

	switch socketType {
	case dsconfig.UDP:
		conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
		if err != nil {
			shared.DebugError(err)
			return r
		}
		r.udpConn = conn
		go r.udpLoop(name)
	case dsconfig.TCP:
		ln, err := net.Listen("tcp", portAddr(port))
		if err != nil {
			shared.DebugError(err)
			return r
		}
		r.tcpLn = ln
		go r.tcpAcceptLoop(name)
	}
	return r
}

func (r *receiver) udpLoop(name string) {
	buf := make([]byte, 2048)
	for {
		n, from, err := r.udpConn.ReadFrom(buf)
		if err != nil {
			select {
			case <-r.stop:
				return
			default:
				continue
			}
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		r.onData(data, from)
	}
}

func (r *receiver) tcpAcceptLoop(name string) {
	for {
		conn, err := r.tcpLn.Accept()
		if err != nil {
			select {
			case <-r.stop:
				return
			default:
				continue
			}
		}
		r.tcpConns = append(r.tcpConns, conn)
		go r.tcpReadLoop(conn)
	}
}

func (r *receiver) tcpReadLoop(conn net.Conn) {
	buf := make([]byte, 2048)
	for {
		n, err := conn.Read(buf)
		if err != nil {
			return
		}
		data := make([]byte, n)
		copy(data, buf[:n])
		r.onData(data, conn.RemoteAddr())
	}
}

func (r *receiver) close() {
	close(r.stop)
	if r.udpConn != nil {
		r.udpConn.Close()
	}
	if r.tcpLn != nil {
		r.tcpLn.Close()
	}
	for _, c := range r.tcpConns {
		c.Close()
	}
}

// sender owns the outbound half of a logical endpoint.
type sender struct {
	socketType dsconfig.SocketType
	port       int
	udpConn    *net.UDPConn
}

func newSender(socketType dsconfig.SocketType, port int) *sender {
	s := &sender{socketType: socketType, port: port}
	if port == DisabledPort {
		return s
	}
	if socketType == dsconfig.UDP {
		conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: 0})
		if err != nil {
			shared.DebugError(err)
			return s
		}
		s.udpConn = conn
	}
	return s
}

// writeTo is non-blocking by contract: a short write or unreachable peer is
// dropped and never surfaced as an error to the caller. Sends never block
// and are never retried.
func (s *sender) writeTo(host string, data []byte) {
	if s.port == DisabledPort || s.udpConn == nil || len(data) == 0 {
		return
	}
	addr, err := net.ResolveUDPAddr("udp", net.JoinHostPort(host, itoa(s.port)))
	if err != nil {
		return
	}
	s.udpConn.WriteTo(data, addr)
}

func (s *sender) close() {
	if s.udpConn != nil {
		s.udpConn.Close()
	}
}

func portAddr(port int) string {
	return ":" + itoa(port)
}
