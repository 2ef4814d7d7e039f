// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

// Package backend opens the record store selected by configuration and
// wraps it with metrics and, when enabled, a circuit breaker.
package backend

import (
	"context"
	"fmt"

	"github.com/tomtom215/landmark/internal/config"
	"github.com/tomtom215/landmark/internal/logging"
	"github.com/tomtom215/landmark/internal/store"
	"github.com/tomtom215/landmark/internal/store/badgerstore"
	"github.com/tomtom215/landmark/internal/store/memstore"
	"github.com/tomtom215/landmark/internal/store/sqlstore"
)

// Open opens the configured backend. The returned store is decorated as
//
//	breaker -> instrument -> backend
//
// so breaker rejections are visible to callers as store.ErrStoreUnavailable
// while the latency histograms only measure real backend work.
func Open(ctx context.Context, cfg *config.StoreConfig) (store.Store, error) {
	raw, err := openRaw(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var s store.Store = store.Instrument(raw, cfg.Driver)
	if cfg.Breaker.Enabled {
		s = store.WithCircuitBreaker(s, BreakerSettings(cfg))
	}

	logging.Info().
		Str("driver", cfg.Driver).
		Bool("breaker", cfg.Breaker.Enabled).
		Bool("aggregation_pushdown", store.AsAggregator(s) != nil).
		Msg("Record store ready")
	return s, nil
}

func openRaw(ctx context.Context, cfg *config.StoreConfig) (store.Store, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return memstore.New(), nil
	case config.DriverBadger:
		return badgerstore.Open(badgerstore.Config{
			Path:       cfg.Path,
			InMemory:   cfg.Path == "",
			SyncWrites: cfg.SyncWrites,
		})
	case config.DriverDuckDB, config.DriverSQLite, config.DriverPostgres:
		dsn := cfg.Path
		if cfg.Driver == config.DriverPostgres {
			dsn = cfg.DSN
		}
		return sqlstore.Open(ctx, sqlstore.Config{
			Dialect:            cfg.Driver,
			DSN:                dsn,
			SlowQueryThreshold: cfg.SlowQueryThreshold,
			MaxOpenConns:       cfg.MaxOpenConns,
		})
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

// BreakerSettings converts the breaker section of cfg.
func BreakerSettings(cfg *config.StoreConfig) store.BreakerSettings {
	return store.BreakerSettings{
		Name:         "store-" + cfg.Driver,
		MaxRequests:  cfg.Breaker.MaxRequests,
		Interval:     cfg.Breaker.Interval,
		Timeout:      cfg.Breaker.Timeout,
		MinRequests:  cfg.Breaker.MinRequests,
		FailureRatio: cfg.Breaker.FailureRatio,
	}
}
