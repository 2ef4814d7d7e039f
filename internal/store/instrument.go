// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package store

import (
	"context"
	"time"

	"github.com/tomtom215/landmark/internal/metrics"
	"github.com/tomtom215/landmark/internal/models"
)

// aggregatorProvider is implemented by decorators that can expose the
// Aggregator of the store they wrap.
type aggregatorProvider interface {
	AsAggregator() Aggregator
}

// AsAggregator returns the native aggregation surface of s, looking through
// decorators. Returns nil when s does not aggregate natively.
func AsAggregator(s Store) Aggregator {
	if p, ok := s.(aggregatorProvider); ok {
		return p.AsAggregator()
	}
	if a, ok := s.(Aggregator); ok {
		return a
	}
	return nil
}

// InstrumentedStore records Prometheus latency and error metrics for every
// call to the wrapped store.
type InstrumentedStore struct {
	next    Store
	backend string
}

var _ Store = (*InstrumentedStore)(nil)

// Instrument wraps next, labelling its metrics with backend.
func Instrument(next Store, backend string) *InstrumentedStore {
	return &InstrumentedStore{next: next, backend: backend}
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	metrics.RecordStoreOperation(s.backend, op, time.Since(start), ErrorType(err))
}

func (s *InstrumentedStore) InsertGeometries(ctx context.Context, records []models.GeometryRecord) error {
	start := time.Now()
	err := s.next.InsertGeometries(ctx, records)
	s.observe("insert_geometries", start, err)
	return err
}

func (s *InstrumentedStore) InsertAttributes(ctx context.Context, records []models.AttributeRecord) error {
	start := time.Now()
	err := s.next.InsertAttributes(ctx, records)
	s.observe("insert_attributes", start, err)
	return err
}

func (s *InstrumentedStore) Geometries(ctx context.Context) ([]models.GeometryRecord, error) {
	start := time.Now()
	out, err := s.next.Geometries(ctx)
	s.observe("geometries", start, err)
	return out, err
}

func (s *InstrumentedStore) Attributes(ctx context.Context) ([]models.AttributeRecord, error) {
	start := time.Now()
	out, err := s.next.Attributes(ctx)
	s.observe("attributes", start, err)
	return out, err
}

func (s *InstrumentedStore) FindGeometries(ctx context.Context, pred GeometryPredicate) ([]models.GeometryRecord, error) {
	start := time.Now()
	out, err := s.next.FindGeometries(ctx, pred)
	s.observe("find_geometries", start, err)
	return out, err
}

func (s *InstrumentedStore) FindAttributes(ctx context.Context, pred AttributePredicate) ([]models.AttributeRecord, error) {
	start := time.Now()
	out, err := s.next.FindAttributes(ctx, pred)
	s.observe("find_attributes", start, err)
	return out, err
}

func (s *InstrumentedStore) Ping(ctx context.Context) error {
	start := time.Now()
	err := s.next.Ping(ctx)
	s.observe("ping", start, err)
	return err
}

func (s *InstrumentedStore) Close() error {
	return s.next.Close()
}

// AsAggregator exposes the wrapped store's Aggregator, instrumented.
func (s *InstrumentedStore) AsAggregator() Aggregator {
	agg := AsAggregator(s.next)
	if agg == nil {
		return nil
	}
	return &instrumentedAggregator{s: s, agg: agg}
}

type instrumentedAggregator struct {
	s   *InstrumentedStore
	agg Aggregator
}

func (a *instrumentedAggregator) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	start := time.Now()
	out, err := a.agg.CountByCategory(ctx)
	a.s.observe("count_by_category", start, err)
	return out, err
}

func (a *instrumentedAggregator) AverageRatingByCategory(ctx context.Context) ([]models.CategoryRating, error) {
	start := time.Now()
	out, err := a.agg.AverageRatingByCategory(ctx)
	a.s.observe("average_rating_by_category", start, err)
	return out, err
}

func (a *instrumentedAggregator) MostReviewed(ctx context.Context) (models.Optional[models.AttributeRecord], error) {
	start := time.Now()
	out, err := a.agg.MostReviewed(ctx)
	a.s.observe("most_reviewed", start, err)
	return out, err
}

func (a *instrumentedAggregator) IncompleteGeometries(ctx context.Context) ([]models.GeometryRecord, error) {
	start := time.Now()
	out, err := a.agg.IncompleteGeometries(ctx)
	a.s.observe("incomplete_geometries", start, err)
	return out, err
}
