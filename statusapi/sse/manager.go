package sse

import (
	"net/http"

	"driverstation/shared/data_structures"
	"driverstation/shared/event_bus"
)

// Manager tracks one Client per connected SSE session.
type Manager struct {
	events  event_bus.EventBus
	clients *data_structures.SafeMap[Session, *Client]
}

// NewManager creates a Manager publishing Client subscriptions against events.
func NewManager(events event_bus.EventBus) *Manager {
	return &Manager{
		events:  events,
		clients: data_structures.NewSafeMap[Session, *Client](),
	}
}

// RegisterClient starts a Client for session, replacing and cleaning up any
// prior client registered under the same session.
func (m *Manager) RegisterClient(session Session, w http.ResponseWriter) *Client {
	if old, ok := m.clients.Pop(session); ok {
		old.cleanup()
	}
	client := newClient(session, w, m)
	m.clients.Set(session, client)
	client.start()
	return client
}

// UnregisterClient tears down the client registered under session, if any.
func (m *Manager) UnregisterClient(session Session) {
	if client, ok := m.clients.Pop(session); ok {
		client.cleanup()
	}
}

// GetClient looks up the live client for session.
func (m *Manager) GetClient(session Session) (*Client, bool) {
	client, ok := m.clients.Get(session)
	if !ok || client.ended.Load() {
		return nil, false
	}
	return client, true
}
