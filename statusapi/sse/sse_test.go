package sse

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"driverstation/shared/event_bus"
)

// safeRecorder wraps httptest.ResponseRecorder with a mutex so a background
// drainQueue goroutine writing SSE frames can race safely against a test
// goroutine reading the accumulated body.
type safeRecorder struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (r *safeRecorder) Header() http.Header { return http.Header{} }

func (r *safeRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.Write(p)
}

func (r *safeRecorder) WriteHeader(int) {}

func (r *safeRecorder) Flush() {}

func (r *safeRecorder) String() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.buf.String()
}

func TestRegisterClientReplacesPriorSession(t *testing.T) {
	m := NewManager(event_bus.NewEventBus())
	session := NewSession(time.Now().UnixMilli())

	first := m.RegisterClient(session, httptest.NewRecorder())
	second := m.RegisterClient(session, httptest.NewRecorder())

	if first == second {
		t.Fatal("expected a fresh client on re-registration")
	}
	got, ok := m.GetClient(session)
	if !ok || got != second {
		t.Fatal("expected GetClient to return the newest client")
	}
	if !first.ended.Load() {
		t.Error("expected the replaced client to be cleaned up")
	}
}

func TestUnregisterClientCleansUp(t *testing.T) {
	m := NewManager(event_bus.NewEventBus())
	session := NewSession(0)
	m.RegisterClient(session, httptest.NewRecorder())

	m.UnregisterClient(session)

	if _, ok := m.GetClient(session); ok {
		t.Error("expected client to be gone after UnregisterClient")
	}
}

func TestGetClientReportsFalseForEndedClient(t *testing.T) {
	m := NewManager(event_bus.NewEventBus())
	session := NewSession(0)
	client := m.RegisterClient(session, httptest.NewRecorder())
	client.cleanup()

	if _, ok := m.GetClient(session); ok {
		t.Error("expected GetClient to report false for an ended client")
	}
}

func TestSubscribeDeliversPublishedEvent(t *testing.T) {
	events := event_bus.NewEventBus()
	m := NewManager(events)
	session := NewSession(0)
	rec := &safeRecorder{}
	client := m.RegisterClient(session, rec)
	t.Cleanup(client.cleanup)

	client.SubscribeToEvent("testEvent")
	events.PublishData("testEvent", "hello")

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if strings.Contains(rec.String(), "testEvent") {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for event to reach the client, body: %s", rec.String())
}
