// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package cache

import (
	"context"

	"github.com/goccy/go-json"

	"github.com/tomtom215/landmark/internal/logging"
	"github.com/tomtom215/landmark/internal/metrics"
)

// GetJSON looks up key and decodes it into a T.
//
// Cache failures are logged and reported as a miss: the cache only ever
// saves work, it never fails a request.
func GetJSON[T any](ctx context.Context, c Cacher, key string) (T, bool) {
	var zero T
	raw, ok, err := c.Get(ctx, key)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("cache", c.Name()).Str("key", key).Msg("Cache read failed")
		metrics.RecordCacheLookup(c.Name(), false)
		return zero, false
	}
	if !ok {
		metrics.RecordCacheLookup(c.Name(), false)
		return zero, false
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("cache", c.Name()).Str("key", key).Msg("Discarding undecodable cache entry")
		metrics.RecordCacheLookup(c.Name(), false)
		return zero, false
	}
	metrics.RecordCacheLookup(c.Name(), true)
	return v, true
}

// SetJSON encodes v and stores it under key. Failures are logged only.
func SetJSON[T any](ctx context.Context, c Cacher, key string, v T) {
	raw, err := json.Marshal(v)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("Cache encode failed")
		return
	}
	if err := c.Set(ctx, key, raw); err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("cache", c.Name()).Str("key", key).Msg("Cache write failed")
	}
}

// Invalidate clears c and records the invalidation.
func Invalidate(ctx context.Context, c Cacher) error {
	if err := c.Clear(ctx); err != nil {
		return err
	}
	metrics.RecordCacheInvalidation(c.Name())
	return nil
}
