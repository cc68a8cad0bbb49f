// Package server exposes a game session and the stateless engine core over
// HTTP, and pushes every session change to websocket clients.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"othello-engine/engine"
	"othello-engine/game"
)

type Server struct {
	session *game.Session
	hub     *Hub
	router  chi.Router

	// core serves the stateless endpoints; it has its own table.
	coreMu sync.Mutex
	core   *engine.Engine

	pingInterval time.Duration
	done         chan struct{}
	closeOnce    sync.Once
	unsubscribe  func()
}

type Option func(*Server)

// WithPingInterval sets the idle time before a websocket heartbeat.
func WithPingInterval(d time.Duration) Option {
	return func(s *Server) { s.pingInterval = d }
}

// New wires the routes for session and starts the broadcast hub. Call Close
// to stop it.
func New(session *game.Session, opts ...Option) *Server {
	s := &Server{
		session:      session,
		hub:          NewHub(),
		core:         engine.New(),
		pingInterval: wsIdlePingInterval,
		done:         make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	go s.hub.Run(s.done)
	s.unsubscribe = session.Subscribe(func(snap game.Snapshot) {
		s.hub.Publish(wsMessage{Type: "snapshot", Payload: mustMarshal(snap)})
	})
	s.router = s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Close stops the hub, which hangs up every websocket client.
func (s *Server) Close() {
	s.closeOnce.Do(func() {
		s.unsubscribe()
		close(s.done)
	})
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/ping", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		})
		r.Get("/state", s.handleState)
		r.Post("/reset", s.handleReset)
		r.Post("/move", s.handleMove)
		r.Post("/pass", s.handlePass)
		r.Post("/settings", s.handleSettings)
		r.Route("/ai", func(r chi.Router) {
			r.Post("/step", s.handleAIStep)
			r.Post("/move", s.handleAIMove)
			r.Post("/run", s.handleAIRun)
		})

		r.Post("/legal", s.handleLegal)
		r.Post("/apply", s.handleApply)
		r.Post("/evaluate", s.handleEvaluate)
		r.Post("/search", s.handleSearch)
	})

	r.Get("/ws", s.serveWS)
	return r
}

// requestLogger logs each request through zerolog once it completes.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Info().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Int("bytes", ww.BytesWritten()).
				Dur("elapsed", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http request")
		}()
		next.ServeHTTP(ww, r)
	})
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Debug().Err(err).Msg("websocket upgrade failed")
		return
	}
	client := &Client{send: make(chan []byte, clientQueue)}
	client.sendJSON(wsMessage{Type: "snapshot", Payload: mustMarshal(s.session.Snapshot())})
	s.hub.Register(client)
	log.Info().Int("clients", s.hub.Clients()).Msg("websocket client connected")

	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send, s.pingInterval); err != nil {
			log.Debug().Err(err).Msg("websocket write failed")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			s.hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_state":
			s.hub.Send(client, wsMessage{Type: "snapshot", Payload: mustMarshal(s.session.Snapshot())})
		}
	}
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Warn().Err(err).Msg("graceful shutdown failed")
			return srv.Close()
		}
		log.Info().Msg("server stopped")
		return nil
	})
	return g.Wait()
}
