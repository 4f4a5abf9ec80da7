package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the metrics of a gatherer on /metrics.
type Server struct {
	server   *http.Server
	listener net.Listener
	log      *slog.Logger
}

// NewServer creates a new server that exposes metrics.
func NewServer(log *slog.Logger, address string, gatherer prometheus.Gatherer) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	s := Server{
		server: &http.Server{
			Addr:    address,
			Handler: mux,
		},
		log: log,
	}

	return &s
}

// Listen binds the server address without serving yet, so that an address
// already in use is reported before Start runs in the background.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("could not listen on %s: %w", s.server.Addr, err)
	}
	s.listener = listener
	return nil
}

// Start serves until Stop is called. It binds the address first unless Listen
// was already called.
func (s *Server) Start() error {
	if s.listener == nil {
		err := s.Listen()
		if err != nil {
			return err
		}
	}
	s.log.Info("metrics server started", "address", s.listener.Addr().String())
	err := s.server.Serve(s.listener)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("could not serve metrics: %w", err)
	}
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("could not shut down metrics server: %w", err)
	}
	return nil
}
