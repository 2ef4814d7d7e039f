// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

// Package analytics implements bulk loading, the geometry/attribute merge
// and the dashboard aggregations on top of a store.Store.
//
// Reads follow a cache-first flow: the JSON form of each result is kept in
// a cache.Cacher until the next successful load. When the backend implements
// store.Aggregator (the SQL dialects), aggregations are pushed down to it;
// otherwise they are computed in Go over a full scan. Both paths sort
// category results by name and break most-reviewed ties by insertion order,
// so every backend returns identical responses.
//
// Errors are classified with the store sentinels: store.ErrDuplicateKey for
// rejected loads and store.ErrStoreUnavailable for everything else.
package analytics
