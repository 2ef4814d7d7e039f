// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package analytics

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/landmark/internal/cache"
	"github.com/tomtom215/landmark/internal/logging"
	"github.com/tomtom215/landmark/internal/metrics"
	"github.com/tomtom215/landmark/internal/models"
	"github.com/tomtom215/landmark/internal/store"
)

// Cache keys for aggregate results.
const (
	keyLocations     = "locations"
	keyCountPerType  = "count-per-type"
	keyAverageRating = "average-rating"
	keyTopReviewed   = "top-reviewed"
	keyIncomplete    = "incomplete"
)

// Service implements bulk load, merge and the dashboard aggregations over a
// record store. The only mutable state is the response cache and its
// generation counter.
type Service struct {
	store store.Store
	agg   store.Aggregator // nil when the backend cannot aggregate natively
	cache cache.Cacher

	// generation advances on every invalidation. A read only populates the
	// cache if no load finished while it was computing.
	genMu      sync.RWMutex
	generation uint64
}

// NewService creates a service over s. A nil cache disables caching.
func NewService(s store.Store, c cache.Cacher) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{
		store: s,
		agg:   store.AsAggregator(s),
		cache: c,
	}
}

// Store returns the underlying record store.
func (s *Service) Store() store.Store {
	return s.store
}

// Load inserts the geometry batch, then the attribute batch.
//
// A failure on the attribute batch leaves the geometry batch committed:
// there is no transaction spanning both. Duplicate IDs surface as
// store.ErrDuplicateKey, any other failure as store.ErrStoreUnavailable.
// The response cache is cleared whenever anything may have been written,
// including after a failed batch: a backend that commits large batches in
// chunks can fail with part of the batch stored.
func (s *Service) Load(ctx context.Context, geometries []models.GeometryRecord, attributes []models.AttributeRecord) error {
	start := time.Now()
	log := logging.Ctx(ctx)

	if err := s.store.InsertGeometries(ctx, geometries); err != nil {
		if len(geometries) > 0 {
			s.invalidate(ctx)
		}
		log.Warn().Err(err).Int("geometries", len(geometries)).Msg("Geometry batch rejected")
		return store.Unavailable("insert geometries", err)
	}
	if len(geometries) > 0 {
		s.invalidate(ctx)
	}

	if err := s.store.InsertAttributes(ctx, attributes); err != nil {
		if len(attributes) > 0 {
			s.invalidate(ctx)
		}
		metrics.RecordLoad(len(geometries), 0)
		log.Warn().Err(err).
			Int("geometries", len(geometries)).
			Int("attributes", len(attributes)).
			Msg("Attribute batch rejected after geometry batch was stored")
		return store.Unavailable("insert attributes", err)
	}
	if len(attributes) > 0 {
		s.invalidate(ctx)
	}

	metrics.RecordLoad(len(geometries), len(attributes))
	log.Info().
		Int("geometries", len(geometries)).
		Int("attributes", len(attributes)).
		Dur("duration", time.Since(start)).
		Msg("Bulk load complete")
	return nil
}

// invalidate clears the response cache. A failed clear is logged; the
// entries still expire after the cache TTL.
func (s *Service) invalidate(ctx context.Context) {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	s.generation++
	if err := cache.Invalidate(ctx, s.cache); err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("cache", s.cache.Name()).Msg("Cache invalidation failed")
	}
}

// Locations returns every geometry merged with its attributes, in geometry
// insertion order.
func (s *Service) Locations(ctx context.Context) ([]models.MergedRecord, error) {
	return cached(ctx, s, keyLocations, func(ctx context.Context) ([]models.MergedRecord, error) {
		// The two reads are independent.
		var (
			geometries []models.GeometryRecord
			attributes []models.AttributeRecord
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			geometries, err = s.store.Geometries(gctx)
			return err
		})
		g.Go(func() error {
			var err error
			attributes, err = s.store.Attributes(gctx)
			return err
		})
		if err := g.Wait(); err != nil {
			return nil, store.Unavailable("read locations", err)
		}
		return MergeRecords(geometries, attributes), nil
	})
}

// CountPerCategory returns the number of attribute records per category.
func (s *Service) CountPerCategory(ctx context.Context) ([]models.CategoryCount, error) {
	return cached(ctx, s, keyCountPerType, func(ctx context.Context) ([]models.CategoryCount, error) {
		if s.agg != nil {
			out, err := s.agg.CountByCategory(ctx)
			return nonNil(out), store.Unavailable("count by category", err)
		}
		attributes, err := s.store.Attributes(ctx)
		if err != nil {
			return nil, store.Unavailable("count by category", err)
		}
		return CountByCategory(attributes), nil
	})
}

// AverageRatingPerCategory returns the mean rating per category.
func (s *Service) AverageRatingPerCategory(ctx context.Context) ([]models.CategoryRating, error) {
	return cached(ctx, s, keyAverageRating, func(ctx context.Context) ([]models.CategoryRating, error) {
		if s.agg != nil {
			out, err := s.agg.AverageRatingByCategory(ctx)
			return nonNil(out), store.Unavailable("average rating", err)
		}
		attributes, err := s.store.Attributes(ctx)
		if err != nil {
			return nil, store.Unavailable("average rating", err)
		}
		return AverageRatingByCategory(attributes), nil
	})
}

// TopReviewed returns the attribute record with the most reviews, or None
// when there are no attribute records.
func (s *Service) TopReviewed(ctx context.Context) (models.Optional[models.AttributeRecord], error) {
	return cached(ctx, s, keyTopReviewed, func(ctx context.Context) (models.Optional[models.AttributeRecord], error) {
		if s.agg != nil {
			out, err := s.agg.MostReviewed(ctx)
			return out, store.Unavailable("most reviewed", err)
		}
		attributes, err := s.store.Attributes(ctx)
		if err != nil {
			return models.None[models.AttributeRecord](), store.Unavailable("most reviewed", err)
		}
		return MostReviewed(attributes), nil
	})
}

// Incomplete returns the geometry records with a null latitude or a null
// longitude.
func (s *Service) Incomplete(ctx context.Context) ([]models.GeometryRecord, error) {
	return cached(ctx, s, keyIncomplete, func(ctx context.Context) ([]models.GeometryRecord, error) {
		var (
			out []models.GeometryRecord
			err error
		)
		if s.agg != nil {
			out, err = s.agg.IncompleteGeometries(ctx)
		} else {
			out, err = s.store.FindGeometries(ctx, store.Incomplete)
		}
		if err != nil {
			return nil, store.Unavailable("find incomplete", err)
		}
		return nonNil(out), nil
	})
}

// Summary runs the four aggregations concurrently and returns them together.
// The first failure cancels the others.
func (s *Service) Summary(ctx context.Context) (models.Summary, error) {
	var sum models.Summary
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		sum.CountPerType, err = s.CountPerCategory(gctx)
		return err
	})
	g.Go(func() (err error) {
		sum.AverageRating, err = s.AverageRatingPerCategory(gctx)
		return err
	})
	g.Go(func() (err error) {
		sum.TopReviewed, err = s.TopReviewed(gctx)
		return err
	})
	g.Go(func() (err error) {
		sum.Incomplete, err = s.Incomplete(gctx)
		return err
	})

	if err := g.Wait(); err != nil {
		return models.Summary{}, fmt.Errorf("summary: %w", err)
	}
	return sum, nil
}

// Ping reports whether the store is reachable.
func (s *Service) Ping(ctx context.Context) error {
	if err := s.store.Ping(ctx); err != nil {
		return store.Unavailable("ping", err)
	}
	return nil
}

// cached is the cache-first execution flow shared by every read: return the
// cached result when present, otherwise compute, store and return it.
// Errors are never cached.
func cached[T any](ctx context.Context, s *Service, key string, compute func(context.Context) (T, error)) (T, error) {
	if v, ok := cache.GetJSON[T](ctx, s.cache, key); ok {
		return v, nil
	}

	s.genMu.RLock()
	gen := s.generation
	s.genMu.RUnlock()

	v, err := compute(ctx)
	if err != nil {
		var zero T
		if !errors.Is(err, context.Canceled) {
			logging.Ctx(ctx).Error().Err(err).Str("query", key).Msg("Aggregate query failed")
		}
		return zero, err
	}

	s.genMu.RLock()
	if gen == s.generation {
		cache.SetJSON(ctx, s.cache, key, v)
	}
	s.genMu.RUnlock()
	return v, nil
}

// nonNil turns a nil slice into an empty one so it encodes as [] not null.
func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
