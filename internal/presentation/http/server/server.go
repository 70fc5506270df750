// Package server hosts the LeadPulse HTTP surface: the public chat
// widget endpoints and the JWT-guarded admin API.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/LeadPulse/leadpulse-go/internal/application/container"
	"github.com/LeadPulse/leadpulse-go/internal/infrastructure/observability/logging"
	"github.com/LeadPulse/leadpulse-go/internal/presentation/http/routes"
	"github.com/LeadPulse/leadpulse-go/pkg/config"
)

// Server wraps the engine's HTTP listener. Timeouts are fixed at
// construction from config; WebSocket chat connections live under the
// same server and are bounded by the idle timeout.
type Server struct {
	httpServer *http.Server
	logger     *logging.ChanneledLogger
}

// New builds the listener around the container's routed handlers.
func New(appContainer *container.Container) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         ":" + config.Port,
			Handler:      routes.SetupRoutes(appContainer),
			ReadTimeout:  config.ServerReadTimeout,
			WriteTimeout: config.ServerWriteTimeout,
			IdleTimeout:  config.ServerIdleTimeout,
		},
		logger: appContainer.Logger,
	}
}

// Start listens until Stop is called. http.ErrServerClosed is the
// normal shutdown path and is not reported as an error.
func (s *Server) Start() error {
	s.logger.System().Info("HTTP server listening", "address", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Shutdown().Info("HTTP server draining")
	return s.httpServer.Shutdown(ctx)
}
