// Package server exposes the chat usecases over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/iamvkosarev/canned-chat/config"
	"github.com/iamvkosarev/canned-chat/internal/logger"
	"github.com/iamvkosarev/canned-chat/internal/usecase"
)

type ServerDeps struct {
	Chat       *usecase.ChatUsecase
	Completion *usecase.CompletionUsecase
	Logger     logger.Logger
}

type Server struct {
	ServerDeps
	cfg    config.HTTP
	router chi.Router
}

func NewServer(deps ServerDeps, cfg config.HTTP) *Server {
	if deps.Logger == nil {
		deps.Logger = logger.NewNop()
	}
	s := &Server{
		ServerDeps: deps,
		cfg:        cfg,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverPanics)
	if s.cfg.MaxBodyBytes > 0 {
		r.Use(middleware.RequestSize(s.cfg.MaxBodyBytes))
	}

	r.Get("/", serveIndex)
	r.Get("/healthz", handleHealth)
	r.Route(
		"/api", func(r chi.Router) {
			r.Post("/chat", s.handleChat)
			r.Get("/stats", s.handleStats)
		},
	)
	r.Post("/v1/chat/completions", s.handleChatCompletion)
	return r
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done, then shuts down within ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.cfg.Address, err)
	}
	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	srv := &http.Server{
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		s.Logger.Info("http server started", "address", listener.Addr().String())
		serveErr <- srv.Serve(listener)
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	s.Logger.Info("http server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down http server: %w", err)
	}
	return nil
}
