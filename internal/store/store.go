// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package store

import (
	"context"

	"github.com/tomtom215/landmark/internal/models"
)

// Store is durable keyed storage for geometry and attribute records.
// Implementations must be safe for concurrent use.
type Store interface {
	// InsertGeometries appends a batch of geometry records.
	// Fails with ErrDuplicateKey if any ID already exists or repeats in the batch.
	InsertGeometries(ctx context.Context, records []models.GeometryRecord) error

	// InsertAttributes appends a batch of attribute records.
	// Fails with ErrDuplicateKey if any ID already exists or repeats in the batch.
	InsertAttributes(ctx context.Context, records []models.AttributeRecord) error

	// Geometries returns every geometry record in insertion order.
	Geometries(ctx context.Context) ([]models.GeometryRecord, error)

	// Attributes returns every attribute record in insertion order.
	Attributes(ctx context.Context) ([]models.AttributeRecord, error)

	// FindGeometries returns the geometry records matching pred, in insertion order.
	FindGeometries(ctx context.Context, pred GeometryPredicate) ([]models.GeometryRecord, error)

	// FindAttributes returns the attribute records matching pred, in insertion order.
	FindAttributes(ctx context.Context, pred AttributePredicate) ([]models.AttributeRecord, error)

	// Ping checks that the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases the backend. The store must not be used afterwards.
	Close() error
}

// Aggregator is implemented by backends able to compute dashboard aggregates
// natively. Results must match what the analytics service would compute in Go
// over Attributes and FindGeometries, including ordering.
type Aggregator interface {
	// CountByCategory returns one row per distinct category, sorted by category.
	CountByCategory(ctx context.Context) ([]models.CategoryCount, error)

	// AverageRatingByCategory returns the mean rating per category, sorted by category.
	AverageRatingByCategory(ctx context.Context) ([]models.CategoryRating, error)

	// MostReviewed returns the attribute record with the highest review count.
	// Ties go to the earliest inserted record. None when there are no records.
	MostReviewed(ctx context.Context) (models.Optional[models.AttributeRecord], error)

	// IncompleteGeometries returns geometry records with a null latitude or longitude.
	IncompleteGeometries(ctx context.Context) ([]models.GeometryRecord, error)
}

// GeometryPredicate selects geometry records. A nil predicate matches everything.
type GeometryPredicate func(models.GeometryRecord) bool

// AttributePredicate selects attribute records. A nil predicate matches everything.
type AttributePredicate func(models.AttributeRecord) bool

// Incomplete matches geometry records with at least one unresolved coordinate.
func Incomplete(g models.GeometryRecord) bool {
	return g.Incomplete()
}

// InCategory returns a predicate matching attribute records of one category.
func InCategory(category string) AttributePredicate {
	return func(a models.AttributeRecord) bool {
		return a.Category == category
	}
}

// FilterGeometries applies pred to records. Backends without native
// filtering use it after a full scan.
func FilterGeometries(records []models.GeometryRecord, pred GeometryPredicate) []models.GeometryRecord {
	out := make([]models.GeometryRecord, 0, len(records))
	for _, r := range records {
		if pred == nil || pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// FilterAttributes applies pred to records.
func FilterAttributes(records []models.AttributeRecord, pred AttributePredicate) []models.AttributeRecord {
	out := make([]models.AttributeRecord, 0, len(records))
	for _, r := range records {
		if pred == nil || pred(r) {
			out = append(out, r)
		}
	}
	return out
}

// CheckBatchGeometries rejects empty IDs and IDs repeated within one batch.
func CheckBatchGeometries(records []models.GeometryRecord) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.ID == "" {
			return ErrEmptyID
		}
		if _, dup := seen[r.ID]; dup {
			return &DuplicateKeyError{Kind: KindGeometry, ID: r.ID}
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}

// CheckBatchAttributes rejects empty IDs and IDs repeated within one batch.
func CheckBatchAttributes(records []models.AttributeRecord) error {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.ID == "" {
			return ErrEmptyID
		}
		if _, dup := seen[r.ID]; dup {
			return &DuplicateKeyError{Kind: KindAttribute, ID: r.ID}
		}
		seen[r.ID] = struct{}{}
	}
	return nil
}
