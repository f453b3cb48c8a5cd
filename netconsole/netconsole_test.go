package netconsole

import (
	"net"
	"testing"
	"time"
)

func TestReceivesDatagramsAsMessages(t *testing.T) {
	messages := make(chan string, 4)
	c := New(func(text string) { messages <- text })
	defer c.Close()

	c.Configure(16666, 0)

	conn, err := net.Dial("udp", "127.0.0.1:16666")
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.Close()

	if _, err := conn.Write([]byte("hello from robot")); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	select {
	case got := <-messages:
		if got != "hello from robot" {
			t.Fatalf("message = %q, want %q", got, "hello from robot")
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a NetConsole message")
	}
}

func TestSendNoOpWhenOutputDisabled(t *testing.T) {
	c := New(nil)
	defer c.Close()
	c.Configure(0, 0)
	c.Send("should be dropped silently")
}

func TestConfigureDisablesInputWithZeroPort(t *testing.T) {
	c := New(func(string) {})
	defer c.Close()
	c.Configure(0, 0)
	if c.inConn != nil {
		t.Fatal("expected input socket to remain unbound for port 0")
	}
}
