package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync/atomic"

	"driverstation/dsconfig"
	"driverstation/shared"
	"driverstation/shared/data_structures"
	"driverstation/shared/event_bus"
)

// Client streams one subscriber's events to its HTTP response writer,
// draining its own queue on a dedicated goroutine so a slow or stalled
// client never blocks the event bus's publish path.
type Client struct {
	writer     http.ResponseWriter
	session    Session
	subscriber *event_bus.Subscriber
	manager    *Manager
	done       chan struct{}
	queue      *data_structures.SafeQueue[event_bus.Event]
	ended      atomic.Bool
}

func newClient(session Session, w http.ResponseWriter, manager *Manager) *Client {
	return &Client{
		writer:     w,
		session:    session,
		subscriber: event_bus.NewSubscriber(),
		manager:    manager,
		done:       make(chan struct{}),
		queue:      data_structures.NewSafeQueue[event_bus.Event](true),
	}
}

func (c *Client) start() {
	go c.drainQueue()
}

func (c *Client) cleanup() {
	if c.ended.Swap(true) {
		return
	}
	shared.SafeCloseChannel(c.done)
	shared.SafeClose(c.queue)
	c.manager.clients.Delete(c.session)
	for _, eventType := range dsconfig.AllEventTypes() {
		c.manager.events.Unsubscribe(eventType, c.subscriber)
	}
}

func (c *Client) drainQueue() {
	defer c.cleanup()

	seq := 0
	c.writeEvent("sessionOpened", c.session, seq)

	for !c.ended.Load() {
		event, ok := c.queue.Read(true, c.done)
		if !ok {
			return
		}
		if event == nil {
			continue
		}
		seq++
		c.writeEvent(event.GetType(), event.GetData(), seq)
	}
}

// writeEvent formats one SSE frame and flushes it immediately; a write or
// marshal failure is logged and dropped, never retried.
func (c *Client) writeEvent(eventType string, data interface{}, id int) {
	if c.ended.Load() {
		return
	}
	payload, err := json.Marshal(SentEvent{ID: fmt.Sprintf("%d", id), Type: eventType, Data: data})
	if err != nil {
		shared.DebugError(err)
		return
	}
	if _, err := fmt.Fprintf(c.writer, "id: %d\nevent: %s\ndata: %s\n\n", id, eventType, payload); err != nil {
		return
	}
	if flusher, ok := c.writer.(http.Flusher); ok {
		flusher.Flush()
	}
}

// SubscribeToEvent routes one event bus event type to this client's queue.
func (c *Client) SubscribeToEvent(eventType string) {
	if c.ended.Load() {
		return
	}
	c.manager.events.Subscribe(eventType, c.subscriber, func(event event_bus.Event) {
		c.queue.Enqueue(event)
	})
}

// UnsubscribeFromEvent stops routing eventType to this client.
func (c *Client) UnsubscribeFromEvent(eventType string) {
	if c.ended.Load() {
		return
	}
	c.manager.events.Unsubscribe(eventType, c.subscriber)
}
