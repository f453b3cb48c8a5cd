package statusapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"driverstation/statusapi/sse"
)

func (s *Server) eventsStream(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	fmt.Fprintf(w, "retry: 3000\n\n")
	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	session := sse.NewSession(time.Now().UnixMilli())
	client := s.sse.RegisterClient(session, w)

	for _, name := range r.URL.Query()["event"] {
		if name != "" {
			client.SubscribeToEvent(name)
		}
	}

	<-r.Context().Done()
	s.sse.UnregisterClient(session)
}

func (s *Server) eventsSubscribe(w http.ResponseWriter, r *http.Request) {
	var req sse.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	client, ok := s.sse.GetClient(req.Session)
	if !ok {
		http.Error(w, "client not found", http.StatusNotFound)
		return
	}
	for _, name := range req.EventTypes {
		if name != "" {
			client.SubscribeToEvent(name)
		}
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{"status": "subscribed", "events": req.EventTypes})
}

func (s *Server) eventsUnsubscribe(w http.ResponseWriter, r *http.Request) {
	var req sse.SubscribeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	client, ok := s.sse.GetClient(req.Session)
	if !ok {
		http.Error(w, "client not found", http.StatusNotFound)
		return
	}
	for _, name := range req.EventTypes {
		if name != "" {
			client.UnsubscribeFromEvent(name)
		}
	}
	sendJSON(w, http.StatusOK, map[string]interface{}{"status": "unsubscribed", "events": req.EventTypes})
}
