// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

/*
Package cache provides the response cache for aggregate queries.

Dashboard reads vastly outnumber bulk loads, so the analytics service keeps
the JSON form of each aggregate result in a Cacher and clears it after every
successful load.

# Backends

  - Noop: cache.driver=none, every lookup misses
  - Memory: in-process map with TTL expiry and a background sweeper
  - Redis: github.com/redis/go-redis/v9, shared between replicas; all keys
    live under a configurable prefix, which must not be empty

# Usage

	c, err := cache.New(&cfg.Cache)
	if err != nil {
	    return err
	}
	defer c.Close()

	if counts, ok := cache.GetJSON[[]models.CategoryCount](ctx, c, "count-per-type"); ok {
	    return counts, nil
	}
	counts := compute()
	cache.SetJSON(ctx, c, "count-per-type", counts)

GetJSON and SetJSON never fail the caller. Backend errors are logged with
zerolog and treated as a miss.

# Metrics

Lookups and invalidations are exported through internal/metrics:
cache_hits_total, cache_misses_total and cache_invalidations_total, all labelled by backend.

# Thread Safety

All backends are safe for concurrent use.
*/
package cache
