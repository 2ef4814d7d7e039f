// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package services

import (
	"context"
	"time"

	"github.com/tomtom215/landmark/internal/logging"
	"github.com/tomtom215/landmark/internal/metrics"
)

// Pinger is implemented by store.Store and analytics.Service.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StoreMonitorService pings the record store on an interval, exports the
// result as store_up and logs every transition between up and down.
type StoreMonitorService struct {
	pinger   Pinger
	backend  string
	interval time.Duration
	timeout  time.Duration

	// up is nil until the first check completes.
	up *bool
}

// NewStoreMonitorService creates a monitor for the named backend.
func NewStoreMonitorService(p Pinger, backend string, interval time.Duration) *StoreMonitorService {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	timeout := interval / 2
	if timeout > 5*time.Second {
		timeout = 5 * time.Second
	}
	return &StoreMonitorService{
		pinger:   p,
		backend:  backend,
		interval: interval,
		timeout:  timeout,
	}
}

// Serve implements suture.Service. It checks once immediately, then on
// every tick until ctx is canceled.
func (s *StoreMonitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.check(ctx)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.check(ctx)
		}
	}
}

func (s *StoreMonitorService) check(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	err := s.pinger.Ping(pingCtx)
	cancel()

	if ctx.Err() != nil {
		return
	}

	up := err == nil
	metrics.SetStoreUp(s.backend, up)

	if s.up != nil && *s.up == up {
		return
	}
	s.up = &up

	if up {
		logging.Info().Str("backend", s.backend).Msg("Record store reachable")
	} else {
		logging.Error().Err(err).Str("backend", s.backend).Msg("Record store unreachable")
	}
}

// String identifies the service in supervisor events.
func (s *StoreMonitorService) String() string {
	return "store-monitor-" + s.backend
}
