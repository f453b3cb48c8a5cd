// Package sse is the Server-Sent-Events push layer for the status API: one
// client per HTTP connection, subscribed to a set of event bus event types,
// draining its own outgoing queue onto the response writer.
package sse

import "driverstation/shared"

// Session identifies one connected client.
type Session struct {
	ID        string `json:"id"`
	Timestamp int64  `json:"timestamp"`
}

// NewSession mints a session with a random ID, grounded on
// shared.GenerateRandomString's doc-stated purpose of minting SSE client IDs.
func NewSession(timestampMillis int64) Session {
	return Session{
		ID:        shared.GenerateRandomString(16),
		Timestamp: timestampMillis,
	}
}

// SubscribeRequest is the POST /events/subscribe and /events/unsubscribe body.
type SubscribeRequest struct {
	Session    Session  `json:"session"`
	EventTypes []string `json:"event_types"`
}

// SentEvent is the on-wire shape of one pushed event.
type SentEvent struct {
	ID   string      `json:"id"`
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}
