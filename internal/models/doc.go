// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

/*
Package models defines data structures for the Landmark application.

This package contains the stored record types, the derived views built from
them, and the wire shapes returned by the HTTP API. It serves as the single
source of truth for JSON field names shared with the dashboard.

Key Components:

  - GeometryRecord: point-of-interest position, either coordinate may be unresolved
  - AttributeRecord: descriptive data for a point-of-interest (category, rating, reviews)
  - MergedRecord: geometry joined with its attribute record, if any
  - CategoryCount / CategoryRating: per-category aggregates
  - Optional: explicit "value or no value" result for singleton queries

Wire Names:

The dashboard contract predates this service and is kept as-is. The attribute
category travels as "type" and the review count as "reviews". Aggregate rows
use "_id" for the grouping key:

	{"_id": "restaurant", "count": 12}
	{"_id": "restaurant", "avgRating": 4.25}

Unresolved coordinates are serialized as JSON null, never omitted:

	{"id": "poi-7", "latitude": null, "longitude": 13.4}

Thread Safety:

All types are plain values. They are safe for concurrent reads; callers
must synchronize concurrent writes to the same value.
*/
package models
