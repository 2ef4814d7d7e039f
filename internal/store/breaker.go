// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/landmark/internal/logging"
	"github.com/tomtom215/landmark/internal/metrics"
	"github.com/tomtom215/landmark/internal/models"
)

// BreakerSettings configures WithCircuitBreaker.
type BreakerSettings struct {
	// Name labels the breaker in logs and metrics.
	Name string

	// MaxRequests is the number of probe requests allowed while half-open.
	MaxRequests uint32

	// Interval is the cyclic period after which closed-state counts reset.
	Interval time.Duration

	// Timeout is how long the breaker stays open before probing.
	Timeout time.Duration

	// MinRequests is the minimum number of requests before the breaker may trip.
	MinRequests uint32

	// FailureRatio trips the breaker once failures/requests reaches it.
	FailureRatio float64
}

// DefaultBreakerSettings returns the production configuration:
// opens after 60% failures with at least 10 requests, probes after 30 seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:         "record-store",
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  10,
		FailureRatio: 0.6,
	}
}

// BreakerStore wraps a Store with circuit breaker protection.
// While the circuit is open every call fails with ErrStoreUnavailable
// without reaching the backend. No call is retried.
type BreakerStore struct {
	next Store
	cb   *gobreaker.CircuitBreaker[any]
	name string
}

var _ Store = (*BreakerStore)(nil)

// WithCircuitBreaker wraps next with a circuit breaker. Duplicate-key and
// other caller errors are reported to the caller but count as successes.
func WithCircuitBreaker(next Store, s BreakerSettings) *BreakerStore {
	def := DefaultBreakerSettings()
	if s.Name == "" {
		s.Name = def.Name
	}
	if s.MaxRequests == 0 {
		s.MaxRequests = def.MaxRequests
	}
	if s.Timeout == 0 {
		s.Timeout = def.Timeout
	}
	if s.MinRequests == 0 {
		s.MinRequests = def.MinRequests
	}
	if s.FailureRatio <= 0 {
		s.FailureRatio = def.FailureRatio
	}

	metrics.CircuitBreakerState.WithLabelValues(s.Name).Set(0) // 0 = closed
	metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(s.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,

		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= s.FailureRatio
			if shouldTrip {
				logging.Warn().
					Str("breaker", s.Name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[CIRCUIT BREAKER] Opening circuit")
			}
			return shouldTrip
		},

		IsSuccessful: func(err error) bool {
			return err == nil || IsCallerError(err)
		},

		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr, toStr := from.String(), to.String()
			logging.Info().Str("breaker", name).Str("from", fromStr).Str("to", toStr).
				Msg("[CIRCUIT BREAKER] State transition")

			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
			if to == gobreaker.StateClosed {
				metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(name).Set(0)
			}
		},
	})

	return &BreakerStore{next: next, cb: cb, name: s.Name}
}

// State returns the current breaker state.
func (b *BreakerStore) State() gobreaker.State {
	return b.cb.State()
}

// Unwrap returns the protected store.
func (b *BreakerStore) Unwrap() Store {
	return b.next
}

// execute runs fn through the breaker and normalizes breaker rejections.
func (b *BreakerStore) execute(op string, fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	switch {
	case err == nil:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "success").Inc()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(0)
		return result, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "rejected").Inc()
		return nil, fmt.Errorf("%s: %w: %w", op, ErrStoreUnavailable, err)
	default:
		metrics.CircuitBreakerRequests.WithLabelValues(b.name, "failure").Inc()
		counts := b.cb.Counts()
		metrics.CircuitBreakerConsecutiveFailures.WithLabelValues(b.name).Set(float64(counts.ConsecutiveFailures))
		return nil, err
	}
}

// castResult type-asserts a breaker result.
func castResult[T any](result any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}
	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("circuit breaker: unexpected result type %T", result)
	}
	return typed, nil
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return 0
	}
}

func (b *BreakerStore) InsertGeometries(ctx context.Context, records []models.GeometryRecord) error {
	_, err := b.execute("insert geometries", func() (any, error) {
		return nil, b.next.InsertGeometries(ctx, records)
	})
	return err
}

func (b *BreakerStore) InsertAttributes(ctx context.Context, records []models.AttributeRecord) error {
	_, err := b.execute("insert attributes", func() (any, error) {
		return nil, b.next.InsertAttributes(ctx, records)
	})
	return err
}

func (b *BreakerStore) Geometries(ctx context.Context) ([]models.GeometryRecord, error) {
	return castResult[[]models.GeometryRecord](b.execute("geometries", func() (any, error) {
		return b.next.Geometries(ctx)
	}))
}

func (b *BreakerStore) Attributes(ctx context.Context) ([]models.AttributeRecord, error) {
	return castResult[[]models.AttributeRecord](b.execute("attributes", func() (any, error) {
		return b.next.Attributes(ctx)
	}))
}

func (b *BreakerStore) FindGeometries(ctx context.Context, pred GeometryPredicate) ([]models.GeometryRecord, error) {
	return castResult[[]models.GeometryRecord](b.execute("find geometries", func() (any, error) {
		return b.next.FindGeometries(ctx, pred)
	}))
}

func (b *BreakerStore) FindAttributes(ctx context.Context, pred AttributePredicate) ([]models.AttributeRecord, error) {
	return castResult[[]models.AttributeRecord](b.execute("find attributes", func() (any, error) {
		return b.next.FindAttributes(ctx, pred)
	}))
}

// Ping bypasses the breaker so readiness reflects the backend itself.
func (b *BreakerStore) Ping(ctx context.Context) error {
	return b.next.Ping(ctx)
}

func (b *BreakerStore) Close() error {
	return b.next.Close()
}

// AsAggregator exposes the wrapped store's Aggregator, with breaker protection.
// Returns nil when the wrapped store does not aggregate natively.
func (b *BreakerStore) AsAggregator() Aggregator {
	agg := AsAggregator(b.next)
	if agg == nil {
		return nil
	}
	return &breakerAggregator{b: b, agg: agg}
}

type breakerAggregator struct {
	b   *BreakerStore
	agg Aggregator
}

func (a *breakerAggregator) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	return castResult[[]models.CategoryCount](a.b.execute("count by category", func() (any, error) {
		return a.agg.CountByCategory(ctx)
	}))
}

func (a *breakerAggregator) AverageRatingByCategory(ctx context.Context) ([]models.CategoryRating, error) {
	return castResult[[]models.CategoryRating](a.b.execute("average rating by category", func() (any, error) {
		return a.agg.AverageRatingByCategory(ctx)
	}))
}

func (a *breakerAggregator) MostReviewed(ctx context.Context) (models.Optional[models.AttributeRecord], error) {
	return castResult[models.Optional[models.AttributeRecord]](a.b.execute("most reviewed", func() (any, error) {
		return a.agg.MostReviewed(ctx)
	}))
}

func (a *breakerAggregator) IncompleteGeometries(ctx context.Context) ([]models.GeometryRecord, error) {
	return castResult[[]models.GeometryRecord](a.b.execute("incomplete geometries", func() (any, error) {
		return a.agg.IncompleteGeometries(ctx)
	}))
}
