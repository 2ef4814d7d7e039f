// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered with the default registry through promauto and
exposed by the HTTP server at /metrics.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - Record store operation latency and error kinds, per backend
  - Record store health (store_up) from the supervised monitor
  - SQL statement duration and slow statements
  - Response cache hit/miss rates
  - Circuit breaker state transitions

# Usage

Prefer the Record* helpers over touching collectors directly:

	start := time.Now()
	err := s.InsertGeometries(ctx, batch)
	metrics.RecordStoreOperation("badger", "insert_geometries", time.Since(start), "")

	metrics.RecordCacheLookup("redis", hit)

# Label Cardinality

Labels only carry values from closed sets (backend names, operation names,
route patterns, the ErrorType constants). Record IDs and error messages are
never used as label values.
*/
package metrics
