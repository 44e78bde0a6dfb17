// Package api serves the library and theme over a JSON HTTP API with a
// websocket feed of random passages.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/FocuswithJustin/JuniperReader/internal/library"
	"github.com/FocuswithJustin/JuniperReader/internal/logging"
	"github.com/FocuswithJustin/JuniperReader/internal/server"
	"github.com/FocuswithJustin/JuniperReader/internal/theme"
)

const shutdownTimeout = 10 * time.Second

// Server is the HTTP API. The theme state it holds is replaced, never
// mutated, by POST /theme.
type Server struct {
	cfg      Config
	lib      *library.Library
	logger   *slog.Logger
	hub      *Hub
	limiter  *server.RateLimiter
	upgrader websocket.Upgrader
	started  time.Time

	mu    sync.RWMutex
	theme theme.State
}

// New validates cfg and builds a server. A nil logger uses the package default.
func New(cfg Config, lib *library.Library, state theme.State, logger *slog.Logger) (*Server, error) {
	if err := ValidateAuthConfig(cfg.Auth); err != nil {
		return nil, err
	}
	if cfg.TLS.Enabled && (cfg.TLS.CertFile == "" || cfg.TLS.KeyFile == "") {
		return nil, fmt.Errorf("TLS enabled but certificate or key file not specified")
	}

	cfg = cfg.withDefaults()
	s := &Server{
		cfg:     cfg,
		lib:     lib,
		logger:  logging.Or(logger),
		hub:     NewHub(),
		started: time.Now(),
		theme:   state,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin(cfg.AllowedOrigins),
		},
	}
	if cfg.RateLimitRequests > 0 {
		s.limiter = server.NewRateLimiter(server.RateLimitConfig{
			RequestsPerMinute: cfg.RateLimitRequests,
			Burst:             cfg.RateLimitBurst,
		})
	}
	return s, nil
}

// Theme returns the current theme state.
func (s *Server) Theme() theme.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.theme
}

// ApplyTheme replaces the theme state with the result of e and pushes the new
// state to feed clients.
func (s *Server) ApplyTheme(e theme.Event) theme.State {
	s.mu.Lock()
	s.theme = s.theme.Apply(e)
	st := s.theme
	s.mu.Unlock()

	s.hub.Broadcast(FeedMessage{Type: "theme", Theme: &st})
	return st
}

// Handler returns the routed handler wrapped in the middleware chain:
// request logging, security headers, CORS, rate limiting, auth.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /books", s.handleBooks)
	mux.HandleFunc("GET /books/{number}", s.handleBook)
	mux.HandleFunc("GET /books/{number}/chapters", s.handleBookChapters)
	mux.HandleFunc("GET /chapters/{book}/{chapter}", s.handleChapter)
	mux.HandleFunc("GET /passage", s.handlePassage)
	mux.HandleFunc("GET /random", s.handleRandom)
	mux.HandleFunc("GET /info", s.handleInfo)
	mux.HandleFunc("GET /theme", s.handleGetTheme)
	mux.HandleFunc("POST /theme", s.handlePostTheme)
	mux.HandleFunc("GET /ws/random", s.handleWebSocket)
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Endpoint not found")
	})

	mws := []server.Middleware{
		logging.CombinedMiddleware,
		server.SecurityHeaders(server.APICSP()),
		server.CORS(server.CORSConfig{AllowedOrigins: s.cfg.AllowedOrigins}),
	}
	if s.limiter != nil {
		mws = append(mws, s.limiter.Middleware(func(w http.ResponseWriter, r *http.Request, retryAfter int) {
			logging.SecurityEvent("rate_limited", "api",
				"client_ip", server.ClientIP(r),
				"path", r.URL.Path,
				"retry_after", retryAfter)
			respondError(w, http.StatusTooManyRequests, "RATE_LIMITED",
				fmt.Sprintf("Rate limit exceeded, retry in %d seconds", retryAfter))
		}))
	}
	mws = append(mws, AuthMiddleware(s.cfg.Auth))
	return server.Chain(mux, mws...)
}

// Run listens on the configured port and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr(), err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully. The feed
// and rate limiter sweeper run for the lifetime of the call.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	protocol := "http"
	if s.cfg.TLS.Enabled {
		protocol = "https"
	}
	port := s.cfg.Port
	if addr, ok := ln.Addr().(*net.TCPAddr); ok {
		port = addr.Port
	}
	logging.ServerStartup("api", protocol, port,
		"auth", s.cfg.Auth.Enabled,
		"rate_limit", s.cfg.RateLimitRequests,
		"feed_interval", s.cfg.FeedInterval.String())

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		s.runFeed(gctx)
		return nil
	})
	if s.limiter != nil {
		g.Go(func() error {
			s.limiter.Run(gctx)
			return nil
		})
	}
	g.Go(func() error {
		var err error
		if s.cfg.TLS.Enabled {
			err = srv.ServeTLS(ln, s.cfg.TLS.CertFile, s.cfg.TLS.KeyFile)
		} else {
			err = srv.Serve(ln)
		}
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down api server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
