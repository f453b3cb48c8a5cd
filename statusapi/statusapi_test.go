package statusapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"driverstation/dsconfig"
	"driverstation/engine"
	"driverstation/shared/event_bus"

	_ "driverstation/protocol"
)

func newBody(b []byte) io.Reader { return bytes.NewReader(b) }

func newTestServer(t *testing.T) *Server {
	t.Helper()
	eng := engine.New(event_bus.NewEventBus(), 1114)
	t.Cleanup(eng.Shutdown)
	if err := eng.SetProtocol("P2016"); err != nil {
		t.Fatalf("SetProtocol: %v", err)
	}
	return New(eng, "0")
}

func TestGetStatusReturnsConfigSnapshot(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/status", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var cfg dsconfig.DsConfig
	if err := json.Unmarshal(rec.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Team != 1114 {
		t.Errorf("team = %d, want 1114", cfg.Team)
	}
}

func TestGetJoysticksReturnsEmptyListInitially(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/joysticks", nil)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var sticks []map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &sticks); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(sticks) != 0 {
		t.Errorf("expected no joysticks registered yet, got %d", len(sticks))
	}
}

func TestEventsSubscribeUnknownSessionReturnsNotFound(t *testing.T) {
	s := newTestServer(t)
	body := []byte(`{"session":{"id":"nope","timestamp":0},"event_types":["teamChanged"]}`)
	req := httptest.NewRequest(http.MethodPost, "/events/subscribe", newBody(body))
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}
