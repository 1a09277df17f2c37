// Package server owns the HTTP listener lifecycle for both services.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// Server wraps an http.Server with tracing instrumentation and graceful
// shutdown driven by context cancellation.
type Server struct {
	addr string
	name string
	log  *slog.Logger
	srv  *http.Server
}

// New wraps handler in OpenTelemetry instrumentation; name labels the spans.
func New(addr, name string, handler http.Handler, log *slog.Logger) *Server {
	return &Server{
		addr: addr,
		name: name,
		log:  log,
		srv: &http.Server{
			Addr:              addr,
			Handler:           otelhttp.NewHandler(handler, name),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully with a five
// second drain window.
func (s *Server) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		s.log.Info("web server shutting down", "service", s.name)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.srv.Shutdown(shutdownCtx); err != nil {
			s.log.Error("web server shutdown error", "error", err)
		}
	}()

	s.log.Info("web server listening", "service", s.name, "addr", s.addr)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}
