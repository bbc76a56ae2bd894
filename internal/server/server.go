// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-table-keeper/internal/config"
	myHTTP "github.com/MKhiriev/go-table-keeper/internal/handler/http"
	"github.com/MKhiriev/go-table-keeper/internal/logger"
	"github.com/MKhiriev/go-table-keeper/internal/service"
)

type server struct {
	httpServer *httpServer
	services   *service.Services
	logger     *logger.Logger
}

func NewServer(handler *myHTTP.Handler, services *service.Services, cfg config.Server, logger *logger.Logger) (Server, error) {
	logger.Info().Msg("creating new server...")

	if cfg.HTTPAddress == "" {
		return nil, errNoServersAreCreated
	}

	return &server{
		httpServer: newHTTPServer(handler.Init(), cfg, logger),
		services:   services,
		logger:     logger,
	}, nil
}

func (s *server) RunServer() {
	if err := s.run(); err != nil {
		s.logger.Info().Msgf("Error running server: %v", err)
	}
}

// Shutdown performs the ordered teardown: sync loops first so no upload is
// in flight, then a snapshot flush, then the credential purge. Enrollment
// keys and snapshot files stay behind for the next start.
func (s *server) Shutdown() {
	ctx := context.Background()

	s.logger.Info().Msg("stopping sync loops")
	s.services.Sync.StopAll()

	if err := s.services.Registry.SaveAll(ctx); err != nil {
		s.logger.Error().Err(err).Msg("error flushing snapshots on shutdown")
	}

	if err := s.services.Credentials.PurgeAccessToken(ctx); err != nil {
		s.logger.Error().Err(err).Msg("error purging access token on shutdown")
	}

	s.httpServer.Shutdown()
}

func (s *server) run() error {
	idleConnectionsClosed := make(chan struct{})
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	// listen for stop signals
	go func() {
		<-ctx.Done()

		s.Shutdown()

		close(idleConnectionsClosed)
	}()

	s.logger.Info().Msg("Launching HTTP server")
	go s.httpServer.RunServer()

	<-idleConnectionsClosed
	s.logger.Info().Msg("server Shutdown gracefully")

	return nil
}
