package statusapi

import (
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"driverstation/dsconfig"
	"driverstation/shared"
	"driverstation/shared/event_bus"
)

// wsHub pushes every dsconfig event to every connected websocket dashboard.
// It is one-way (server to dashboard): incoming frames are read and
// discarded only to keep the connection's read deadline alive.
type wsHub struct {
	events   event_bus.EventBus
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*websocket.Conn]chan wsFrame
}

type wsFrame struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func newWSHub(events event_bus.EventBus) *wsHub {
	h := &wsHub{
		events:  events,
		clients: make(map[*websocket.Conn]chan wsFrame),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	subscriber := event_bus.NewSubscriber()
	for _, eventType := range dsconfig.AllEventTypes() {
		events.Subscribe(eventType, subscriber, h.broadcast)
	}
	return h
}

func (h *wsHub) broadcast(event event_bus.Event) {
	frame := wsFrame{Type: event.GetType(), Data: event.GetData()}
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, out := range h.clients {
		select {
		case out <- frame:
		default:
			shared.DebugPrint("statusapi: dropping websocket frame for slow client")
		}
	}
}

func (h *wsHub) serveHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		shared.DebugError(err)
		return
	}

	out := make(chan wsFrame, 32)
	h.mu.Lock()
	h.clients[conn] = out
	h.mu.Unlock()

	go h.readLoop(conn)
	h.writeLoop(conn, out)
}

// readLoop discards inbound frames; its only job is to notice the
// connection closing so writeLoop can stop.
func (h *wsHub) readLoop(conn *websocket.Conn) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(conn)
			return
		}
	}
}

func (h *wsHub) writeLoop(conn *websocket.Conn, out chan wsFrame) {
	defer h.remove(conn)
	for frame := range out {
		if err := conn.WriteJSON(frame); err != nil {
			return
		}
	}
}

func (h *wsHub) remove(conn *websocket.Conn) {
	h.mu.Lock()
	out, ok := h.clients[conn]
	if ok {
		delete(h.clients, conn)
		close(out)
	}
	h.mu.Unlock()
	conn.Close()
}
