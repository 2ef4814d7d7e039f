// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package cache

import (
	"context"
	"fmt"

	"github.com/tomtom215/landmark/internal/config"
)

// Cacher is the response cache used by the analytics service.
// Values are opaque byte slices, usually JSON documents.
type Cacher interface {
	// Get returns the value and true when the key exists and has not expired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key with the cache's TTL.
	Set(ctx context.Context, key string, value []byte) error

	// Clear drops every entry owned by this cache.
	Clear(ctx context.Context) error

	// Name labels the backend in logs and metrics.
	Name() string

	Close() error
}

// New creates the cache selected by cfg.Driver.
//
//	c, err := cache.New(&cfg.Cache)
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
func New(cfg *config.CacheConfig) (Cacher, error) {
	switch cfg.Driver {
	case config.CacheNone, "":
		return Noop{}, nil
	case config.CacheMemory:
		return NewMemory(cfg.TTL), nil
	case config.CacheRedis:
		return NewRedis(cfg.Redis, cfg.TTL)
	default:
		return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
	}
}

// Noop never stores anything. Every Get is a miss.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, []byte) error         { return nil }
func (Noop) Clear(context.Context) error                       { return nil }
func (Noop) Name() string                                      { return config.CacheNone }
func (Noop) Close() error                                      { return nil }

// Verify interface implementations at compile time
var (
	_ Cacher = (*Memory)(nil)
	_ Cacher = (*Redis)(nil)
	_ Cacher = Noop{}
)
