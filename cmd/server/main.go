// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/tomtom215/landmark/docs" // generated OpenAPI document
	"github.com/tomtom215/landmark/internal/analytics"
	"github.com/tomtom215/landmark/internal/api"
	"github.com/tomtom215/landmark/internal/cache"
	"github.com/tomtom215/landmark/internal/config"
	"github.com/tomtom215/landmark/internal/logging"
	"github.com/tomtom215/landmark/internal/store"
	"github.com/tomtom215/landmark/internal/store/backend"
	"github.com/tomtom215/landmark/internal/supervisor"
	"github.com/tomtom215/landmark/internal/supervisor/services"
)

// storeMonitorInterval is how often the data layer pings the record store.
const storeMonitorInterval = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
	})

	logging.Info().
		Str("environment", cfg.Server.Environment).
		Str("store", cfg.Store.Driver).
		Str("cache", cfg.Cache.Driver).
		Msg("Starting Landmark with supervisor tree")

	if cfg.IsProduction() && cfg.Security.HasWildcardCORS() {
		logging.Warn().Msg("CORS allows every origin in production; set CORS_ORIGINS to restrict it")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	recordStore, err := backend.Open(ctx, &cfg.Store)
	if err != nil {
		logging.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to open record store")
	}
	defer store.CloseWithLog(recordStore, "record store")

	responseCache, err := cache.New(&cfg.Cache)
	if err != nil {
		store.CloseWithLog(recordStore, "record store")
		logging.Fatal().Err(err).Str("driver", cfg.Cache.Driver).Msg("Failed to create response cache")
	}
	defer store.CloseWithLog(responseCache, "response cache")

	svc := analytics.NewService(recordStore, responseCache)

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	handler := api.NewHandler(svc, cfg)
	router := api.NewRouter(handler, api.ChiMiddlewareConfigFromSecurity(&cfg.Security))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.SetupChi(),
		ReadTimeout:       cfg.Server.ReadTimeout,
		ReadHeaderTimeout: cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}

	tree.AddDataService(services.NewStoreMonitorService(svc, cfg.Store.Driver, storeMonitorInterval))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
		cancel()
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	var treeErr error
	select {
	case <-ctx.Done():
		logging.Info().Msg("Context canceled, waiting for supervisor to finish")
		treeErr = <-errCh
	case treeErr = <-errCh:
		cancel()
	}
	if treeErr != nil && !errors.Is(treeErr, context.Canceled) {
		logging.Error().Err(treeErr).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, u := range unstopped {
		logging.Warn().Str("service", u.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("Application stopped gracefully")
}
