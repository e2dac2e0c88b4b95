// Package server exposes the decision service over HTTP: one turn in,
// one dialog action out, plus the decision audit endpoints.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/dmehra/lexassist/internal/audit"
	"github.com/dmehra/lexassist/internal/dialog"
)

// Decider produces one dialog action per turn event.
type Decider interface {
	Decide(ctx context.Context, ev *dialog.Event) (*dialog.Response, error)
}

// Config holds server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server hosts the turn endpoint and decision audit routes.
type Server struct {
	cfg        Config
	decider    Decider
	audits     *audit.Store
	log        *zap.Logger
	router     chi.Router
	httpServer *http.Server
}

// New creates a server over the given decider. The audit store may be
// nil; decisions are then not persisted.
func New(cfg Config, decider Decider, audits *audit.Store, log *zap.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		decider: decider,
		audits:  audits,
		log:     log,
	}

	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/v1/turn", s.handleTurn)

	if s.audits != nil {
		audit.RegisterRoutes(r, s.audits)
	}

	return r
}

func (s *Server) handleTurn(w http.ResponseWriter, r *http.Request) {
	var ev dialog.Event
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		http.Error(w, "invalid turn event: "+err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := s.decider.Decide(r.Context(), &ev)
	if err != nil {
		s.log.Error("turn decision failed",
			zap.String("sessionId", ev.SessionID),
			zap.Error(err))
		http.Error(w, "decision failed", http.StatusInternalServerError)
		return
	}

	s.recordDecision(r.Context(), &ev, resp)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		s.log.Error("encoding turn response", zap.Error(err))
	}
}

// recordDecision persists the decided turn. Auditing is best effort; a
// failed insert never fails the turn.
func (s *Server) recordDecision(ctx context.Context, ev *dialog.Event, resp *dialog.Response) {
	if s.audits == nil {
		return
	}
	d := audit.Decision{
		SessionID:   ev.SessionID,
		InputMode:   string(ev.InputMode),
		Utterance:   ev.InputTranscript,
		Intent:      resp.SessionState.Intent.Name,
		IntentState: resp.SessionState.Intent.State,
	}
	if wa := resp.SessionState.DialogAction; wa != nil {
		d.Action = wa.Type
		d.SlotToElicit = wa.SlotToElicit
	}
	if err := s.audits.Record(ctx, d); err != nil {
		s.log.Warn("recording decision", zap.Error(err))
	}
}

// Router returns the chi router for registering additional routes.
func (s *Server) Router() chi.Router { return s.router }

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	s.log.Info("lexassist server listening", zap.String("addr", addr))
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
