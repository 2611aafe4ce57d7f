// BGPWatch - BGP Alert Stream Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bgpwatch

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/bgpwatch/internal/api"
	"github.com/tomtom215/bgpwatch/internal/backend"
	"github.com/tomtom215/bgpwatch/internal/commands"
	"github.com/tomtom215/bgpwatch/internal/config"
	"github.com/tomtom215/bgpwatch/internal/controller"
	"github.com/tomtom215/bgpwatch/internal/export"
	"github.com/tomtom215/bgpwatch/internal/logging"
	"github.com/tomtom215/bgpwatch/internal/models"
	"github.com/tomtom215/bgpwatch/internal/supervisor"
	"github.com/tomtom215/bgpwatch/internal/supervisor/services"
	ws "github.com/tomtom215/bgpwatch/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logging.Init(cfg.LogConfig())

	logging.Info().
		Str("transport", cfg.Feed.Transport).
		Str("backend_url", cfg.Backend.URL).
		Str("export_dir", cfg.Export.Dir).
		Str("addr", cfg.Server.Addr()).
		Msg("Starting BGPWatch")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  shutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	breaker := backend.NewCircuitBreakerClient(&cfg.Backend)
	var saver export.Saver
	if cfg.Export.Dir != "" {
		saver = export.NewDirSaver(cfg.Export.Dir)
	}
	dispatcher := commands.NewDispatcher(breaker, saver, commands.Options{
		AllowOverlappingUploads: cfg.Commands.AllowOverlappingUploads,
		DefaultHeal: models.RemediationRequest{
			Prefix:  cfg.Remediation.DefaultPrefix,
			NextHop: cfg.Remediation.DefaultNextHop,
		},
	})

	hub := ws.NewHub()
	session := controller.NewSession(dispatcher, hub)
	hub.SetSnapshot(func() (interface{}, int) {
		snap := session.Snapshot()
		return snap, snap.Seq
	})
	hub.SetBacklog(session.Store().Since)

	feed, broker, err := buildFeed(&cfg.Feed)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create alert feed")
	}
	detach := session.Attach(feed)
	defer detach()

	handler := api.NewHandler(session, hub, cfg)
	handler.SetFeed(feed)
	handler.SetBreaker(breaker)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFrom(&cfg.Server)))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	if broker != nil {
		tree.AddFeedService(services.NewEmbeddedNATSService(broker, shutdownTimeout))
	}
	tree.AddFeedService(services.NewFeedService(feed))
	tree.AddMessagingService(hub)
	tree.AddMessagingService(controller.NewNotificationPump(dispatcher, hub))
	tree.AddAPIService(services.NewHTTPServerService(server, shutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree error")
		}
	}
	for err := range errCh {
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor shutdown error")
		}
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}
	logging.Info().Msg("BGPWatch stopped")
}
