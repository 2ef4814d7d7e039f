// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

/*
Package store defines the record store abstraction shared by every backend.

A Store persists two independent collections, geometry records and attribute
records, each keyed by a unique string ID. Records are only ever inserted;
there is no update or delete.

# Backends

Concrete implementations live in sub-packages and are selected by the
store.driver configuration key through package backend:

  - memstore: in-process maps, for tests and ephemeral runs
  - badgerstore: embedded Badger key-value store, records as JSON documents
  - sqlstore: DuckDB, SQLite or PostgreSQL through database/sql

# Errors

Every backend reports failures through the sentinels in this package so
callers never inspect driver errors:

	err := s.InsertGeometries(ctx, batch)
	switch {
	case errors.Is(err, store.ErrDuplicateKey):
	    // an ID in batch already exists
	case errors.Is(err, store.ErrStoreUnavailable):
	    // connectivity or query fault
	}

# Batch Semantics

Duplicate IDs inside one batch are rejected before anything is written.
Collisions with stored records abort the batch transaction, so a failed
batch leaves the collection unchanged. The geometry and attribute batches
of one bulk load are independent: nothing rolls back the first when the
second fails.

# Decorators

Instrument adds Prometheus latency and error metrics. WithCircuitBreaker
fails fast with ErrStoreUnavailable after repeated faults. Backends are
wrapped in that order by backend.Open.
*/
package store
