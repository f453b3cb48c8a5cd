// Package statusapi is the read-only HTTP status/diagnostics surface: a
// machine-readable feed of the engine's current config, joysticks, and
// event stream, mirroring the route/handler shape of this codebase's chi
// HTTP layer.
package statusapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"driverstation/engine"
	"driverstation/shared"
	"driverstation/statusapi/sse"
)

// Server serves the status API against a single engine.
type Server struct {
	eng    *engine.Engine
	router *chi.Mux
	sse    *sse.Manager
	ws     *wsHub
	srv    *http.Server
}

// New builds the router, wiring routes against eng.
func New(eng *engine.Engine, port string) *Server {
	s := &Server{
		eng: eng,
		sse: sse.NewManager(eng.Events()),
		ws:  newWSHub(eng.Events()),
	}
	r := chi.NewRouter()
	r.Get("/status", s.getStatus)
	r.Get("/joysticks", s.getJoysticks)
	r.Route("/events", func(r chi.Router) {
		r.Get("/", s.eventsStream)
		r.Post("/subscribe", s.eventsSubscribe)
		r.Post("/unsubscribe", s.eventsUnsubscribe)
	})
	r.Get("/ws", s.ws.serveHTTP)
	s.router = r
	s.srv = &http.Server{Addr: ":" + port, Handler: r}
	return s
}

// Start runs the HTTP server until ctx is canceled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	serveErr := make(chan error, 1)
	go func() {
		shared.DebugPrint("statusapi listening on %s", s.srv.Addr)
		if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) getStatus(w http.ResponseWriter, r *http.Request) {
	cfg := s.eng.Config().Snapshot()
	sendJSON(w, http.StatusOK, cfg)
}

func (s *Server) getJoysticks(w http.ResponseWriter, r *http.Request) {
	sticks := s.eng.Joysticks().Snapshot()
	sendJSON(w, http.StatusOK, sticks)
}

func sendJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := writeJSON(w, data); err != nil {
		shared.DebugError(fmt.Errorf("statusapi: encoding response: %w", err))
	}
}
