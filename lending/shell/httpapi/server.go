package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"
)

// ServerSettings configures the HTTP listener.
type ServerSettings struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Server runs the REST API on a plain net/http server.
type Server struct {
	srv *http.Server
}

// NewServer creates a Server for the handler.
func NewServer(settings ServerSettings, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              net.JoinHostPort(settings.Host, settings.Port),
			Handler:           handler,
			ReadTimeout:       settings.ReadTimeout,
			ReadHeaderTimeout: settings.ReadTimeout,
			WriteTimeout:      settings.WriteTimeout,
		},
	}
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.srv.Addr
}

// Run blocks serving requests until Stop is called. A graceful stop is not an error.
func (s *Server) Run() error {
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}

// Stop shuts the server down, waiting for in-flight requests until ctx ends.
func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
