// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package analytics_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/landmark/internal/analytics"
	"github.com/tomtom215/landmark/internal/cache"
	"github.com/tomtom215/landmark/internal/models"
	"github.com/tomtom215/landmark/internal/store"
	"github.com/tomtom215/landmark/internal/store/badgerstore"
	"github.com/tomtom215/landmark/internal/store/memstore"
	"github.com/tomtom215/landmark/internal/store/sqlstore"
	"github.com/tomtom215/landmark/internal/store/storetest"
)

// backends returns one store without and one with native aggregation, so
// both code paths of the service are held to the same expectations.
func backends(t *testing.T) map[string]store.Store {
	t.Helper()
	sq, err := sqlstore.Open(context.Background(), sqlstore.Config{Dialect: sqlstore.SQLite})
	require.NoError(t, err)

	out := map[string]store.Store{
		"memory": memstore.New(),
		"sqlite": sq,
	}
	for _, s := range out {
		t.Cleanup(func() { _ = s.Close() })
	}
	return out
}

func seeded(t *testing.T, s store.Store) *analytics.Service {
	t.Helper()
	svc := analytics.NewService(s, nil)
	require.NoError(t, svc.Load(context.Background(), storetest.FixtureGeometries, storetest.FixtureAttributes))
	return svc
}

func TestService_Aggregations(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			svc := seeded(t, s)

			counts, err := svc.CountPerCategory(ctx)
			require.NoError(t, err)
			assert.Equal(t, []models.CategoryCount{
				{Category: "cafe", Count: 1},
				{Category: "museum", Count: 2},
				{Category: "park", Count: 1},
			}, counts)

			ratings, err := svc.AverageRatingPerCategory(ctx)
			require.NoError(t, err)
			require.Len(t, ratings, 3)
			assert.Equal(t, "cafe", ratings[0].Category)
			assert.InDelta(t, 4.0, ratings[0].AvgRating, 1e-9)
			assert.Equal(t, "museum", ratings[1].Category)
			assert.InDelta(t, 4.0, ratings[1].AvgRating, 1e-9)
			assert.InDelta(t, 5.0, ratings[2].AvgRating, 1e-9)

			top, err := svc.TopReviewed(ctx)
			require.NoError(t, err)
			rec, ok := top.Get()
			require.True(t, ok)
			assert.Equal(t, "p2", rec.ID, "ties on review count go to the earliest record")

			incomplete, err := svc.Incomplete(ctx)
			require.NoError(t, err)
			var ids []string
			for _, g := range incomplete {
				ids = append(ids, g.ID)
			}
			assert.Equal(t, []string{"p3", "p4", "p5"}, ids)
		})
	}
}

func TestService_Locations(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			svc := seeded(t, s)

			merged, err := svc.Locations(ctx)
			require.NoError(t, err)
			require.Len(t, merged, len(storetest.FixtureGeometries))

			for i, g := range storetest.FixtureGeometries {
				assert.Equal(t, g.ID, merged[i].ID)
			}
			assert.True(t, merged[0].HasAttributes())
			assert.Equal(t, "museum", *merged[0].Category)
			assert.False(t, merged[3].HasAttributes(), "p4 has no attribute record")
			assert.Nil(t, merged[2].Latitude)

			raw, err := json.Marshal(merged[4])
			require.NoError(t, err)
			assert.JSONEq(t, `{"id":"p5","latitude":null,"longitude":null}`, string(raw))
		})
	}
}

func TestService_EmptyStore(t *testing.T) {
	ctx := context.Background()

	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			svc := analytics.NewService(s, nil)

			sum, err := svc.Summary(ctx)
			require.NoError(t, err)
			assert.False(t, sum.TopReviewed.IsSome())

			raw, err := json.Marshal(sum)
			require.NoError(t, err)
			assert.JSONEq(t,
				`{"countPerType":[],"averageRating":[],"topReviewed":null,"incomplete":[]}`,
				string(raw))

			merged, err := svc.Locations(ctx)
			require.NoError(t, err)
			assert.NotNil(t, merged)
			assert.Empty(t, merged)
		})
	}
}

func TestService_LoadDuplicates(t *testing.T) {
	ctx := context.Background()

	t.Run("duplicate geometry rejects both batches", func(t *testing.T) {
		svc := seeded(t, memstore.New())

		err := svc.Load(ctx,
			[]models.GeometryRecord{{ID: "new"}, {ID: "p1"}},
			[]models.AttributeRecord{{ID: "new", Category: "park"}})
		require.ErrorIs(t, err, store.ErrDuplicateKey)

		var dup *store.DuplicateKeyError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, "p1", dup.ID)

		merged, err := svc.Locations(ctx)
		require.NoError(t, err)
		assert.Len(t, merged, len(storetest.FixtureGeometries), "failed geometry batch must not be partially written")
	})

	t.Run("duplicate attribute keeps stored geometries", func(t *testing.T) {
		svc := seeded(t, memstore.New())

		err := svc.Load(ctx,
			[]models.GeometryRecord{{ID: "p7", Latitude: models.Float(1), Longitude: models.Float(1)}},
			[]models.AttributeRecord{{ID: "p1", Category: "museum"}})
		require.ErrorIs(t, err, store.ErrDuplicateKey)
		assert.NotErrorIs(t, err, store.ErrStoreUnavailable)

		merged, err := svc.Locations(ctx)
		require.NoError(t, err)
		require.Len(t, merged, len(storetest.FixtureGeometries)+1)
		assert.Equal(t, "p7", merged[len(merged)-1].ID)
	})
}

// faultyStore fails every call with a backend error.
type faultyStore struct {
	store.Store
}

var errBackend = errors.New("connection reset by peer")

func (faultyStore) InsertGeometries(context.Context, []models.GeometryRecord) error { return errBackend }
func (faultyStore) Geometries(context.Context) ([]models.GeometryRecord, error)     { return nil, errBackend }
func (faultyStore) Attributes(context.Context) ([]models.AttributeRecord, error)    { return nil, errBackend }
func (faultyStore) Ping(context.Context) error                                      { return errBackend }
func (faultyStore) FindGeometries(context.Context, store.GeometryPredicate) ([]models.GeometryRecord, error) {
	return nil, errBackend
}

func TestService_StoreUnavailable(t *testing.T) {
	ctx := context.Background()
	svc := analytics.NewService(faultyStore{Store: memstore.New()}, nil)

	calls := map[string]func() error{
		"load": func() error { return svc.Load(ctx, []models.GeometryRecord{{ID: "a"}}, nil) },
		"locations": func() error {
			_, err := svc.Locations(ctx)
			return err
		},
		"count": func() error {
			_, err := svc.CountPerCategory(ctx)
			return err
		},
		"average": func() error {
			_, err := svc.AverageRatingPerCategory(ctx)
			return err
		},
		"top": func() error {
			_, err := svc.TopReviewed(ctx)
			return err
		},
		"incomplete": func() error {
			_, err := svc.Incomplete(ctx)
			return err
		},
		"summary": func() error {
			_, err := svc.Summary(ctx)
			return err
		},
		"ping": func() error { return svc.Ping(ctx) },
	}

	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			require.Error(t, err)
			assert.ErrorIs(t, err, store.ErrStoreUnavailable)
			assert.ErrorIs(t, err, errBackend, "cause stays in the chain")
		})
	}
}

func TestService_CacheInvalidatedByLoad(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	svc := analytics.NewService(memstore.New(), c)
	require.NoError(t, svc.Load(ctx, storetest.FixtureGeometries, storetest.FixtureAttributes))

	counts, err := svc.CountPerCategory(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 3)

	_, cachedHit, err := c.Get(ctx, "count-per-type")
	require.NoError(t, err)
	assert.True(t, cachedHit, "result should be cached after the first read")

	require.NoError(t, svc.Load(ctx,
		[]models.GeometryRecord{{ID: "z1"}},
		[]models.AttributeRecord{{ID: "z1", Category: "zoo", Rating: 3, ReviewCount: 1000}}))

	counts, err = svc.CountPerCategory(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 4)
	assert.Equal(t, "zoo", counts[3].Category)

	top, err := svc.TopReviewed(ctx)
	require.NoError(t, err)
	rec, _ := top.Get()
	assert.Equal(t, "z1", rec.ID)
}

// chunkFailStore commits the first geometry of each batch and then fails,
// like a backend that splits a large batch and loses a later chunk.
type chunkFailStore struct {
	store.Store
}

func (c chunkFailStore) InsertGeometries(ctx context.Context, records []models.GeometryRecord) error {
	if len(records) == 0 {
		return nil
	}
	if err := c.Store.InsertGeometries(ctx, records[:1]); err != nil {
		return err
	}
	return errBackend
}

func TestService_FailedGeometryBatchInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	svc := analytics.NewService(chunkFailStore{Store: memstore.New()}, c)

	before, err := svc.Locations(ctx)
	require.NoError(t, err)
	require.Empty(t, before)

	lat := 1.0
	err = svc.Load(ctx, []models.GeometryRecord{{ID: "g1", Latitude: &lat}, {ID: "g2"}}, nil)
	require.ErrorIs(t, err, store.ErrStoreUnavailable)

	after, err := svc.Locations(ctx)
	require.NoError(t, err)
	require.Len(t, after, 1, "the committed part of the batch must be visible")
	assert.Equal(t, "g1", after[0].ID)

	incomplete, err := svc.Incomplete(ctx)
	require.NoError(t, err)
	require.Len(t, incomplete, 1)
	assert.Equal(t, "g1", incomplete[0].ID)
}

// gatedStore blocks Attributes until released, to interleave a read with a load.
type gatedStore struct {
	store.Store
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (g *gatedStore) Attributes(ctx context.Context) ([]models.AttributeRecord, error) {
	out, err := g.Store.Attributes(ctx)
	g.once.Do(func() {
		close(g.entered)
		<-g.release
	})
	return out, err
}

func TestService_ReadRacingLoadDoesNotCacheStaleResult(t *testing.T) {
	ctx := context.Background()
	c := cache.NewMemory(time.Minute)
	t.Cleanup(func() { _ = c.Close() })

	gs := &gatedStore{Store: memstore.New(), entered: make(chan struct{}), release: make(chan struct{})}
	svc := analytics.NewService(gs, c)

	done := make(chan []models.CategoryCount)
	go func() {
		counts, _ := svc.CountPerCategory(ctx)
		done <- counts
	}()

	<-gs.entered
	require.NoError(t, svc.Load(ctx, storetest.FixtureGeometries, storetest.FixtureAttributes))
	close(gs.release)

	stale := <-done
	assert.Empty(t, stale, "the racing read observed the empty store")

	_, hit, err := c.Get(ctx, "count-per-type")
	require.NoError(t, err)
	assert.False(t, hit, "a result computed before the load must not be cached")

	counts, err := svc.CountPerCategory(ctx)
	require.NoError(t, err)
	assert.Len(t, counts, 3)
}

func TestService_Summary(t *testing.T) {
	ctx := context.Background()
	svc := seeded(t, memstore.New())

	sum, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.Len(t, sum.CountPerType, 3)
	assert.Len(t, sum.AverageRating, 3)
	assert.Len(t, sum.Incomplete, 3)
	rec, ok := sum.TopReviewed.Get()
	require.True(t, ok)
	assert.Equal(t, "p2", rec.ID)
}

func TestService_RepeatedReadsAreByteIdentical(t *testing.T) {
	ctx := context.Background()

	open := map[string]func(t *testing.T) store.Store{
		"memory": func(*testing.T) store.Store { return memstore.New() },
		"sqlite": func(t *testing.T) store.Store {
			s, err := sqlstore.Open(ctx, sqlstore.Config{Dialect: sqlstore.SQLite})
			require.NoError(t, err)
			return s
		},
		"badger": func(t *testing.T) store.Store {
			s, err := badgerstore.Open(badgerstore.Config{InMemory: true})
			require.NoError(t, err)
			return s
		},
	}

	f := func(v float64) *float64 { return &v }
	geometries := []models.GeometryRecord{
		{ID: "z9", Latitude: f(48.85), Longitude: f(2.35)},
		{ID: "a1", Latitude: nil, Longitude: f(-0.12)},
		{ID: "m5", Latitude: f(40.71), Longitude: nil},
		{ID: "c3", Latitude: f(35.68), Longitude: f(139.69)},
		{ID: "b2"},
	}
	// Categories arrive out of order and two records tie on review count.
	attributes := []models.AttributeRecord{
		{ID: "z9", Category: "park", Rating: 4.1, ReviewCount: 310},
		{ID: "a1", Category: "cafe", Rating: 3.3, ReviewCount: 95},
		{ID: "m5", Category: "museum", Rating: 4.7, ReviewCount: 310},
		{ID: "c3", Category: "cafe", Rating: 4.4, ReviewCount: 12},
		{ID: "b2", Category: "bakery", Rating: 2.9, ReviewCount: 0},
		{ID: "x0", Category: "zoo", Rating: 3.8, ReviewCount: 7},
	}

	reads := map[string]func(*analytics.Service) (any, error){
		"locations":  func(svc *analytics.Service) (any, error) { return svc.Locations(ctx) },
		"count":      func(svc *analytics.Service) (any, error) { return svc.CountPerCategory(ctx) },
		"average":    func(svc *analytics.Service) (any, error) { return svc.AverageRatingPerCategory(ctx) },
		"top":        func(svc *analytics.Service) (any, error) { return svc.TopReviewed(ctx) },
		"incomplete": func(svc *analytics.Service) (any, error) { return svc.Incomplete(ctx) },
	}

	for backend, openStore := range open {
		t.Run(backend, func(t *testing.T) {
			s := openStore(t)
			t.Cleanup(func() { _ = s.Close() })

			svc := analytics.NewService(s, cache.Noop{})
			require.NoError(t, svc.Load(ctx, geometries, attributes))

			for name, read := range reads {
				t.Run(name, func(t *testing.T) {
					first, err := read(svc)
					require.NoError(t, err)
					second, err := read(svc)
					require.NoError(t, err)

					a, err := json.Marshal(first)
					require.NoError(t, err)
					b, err := json.Marshal(second)
					require.NoError(t, err)
					assert.Equal(t, string(a), string(b))
				})
			}

			counts, err := svc.CountPerCategory(ctx)
			require.NoError(t, err)
			got := make([]string, len(counts))
			for i, c := range counts {
				got[i] = c.Category
			}
			assert.Equal(t, []string{"bakery", "cafe", "museum", "park", "zoo"}, got)

			top, err := svc.TopReviewed(ctx)
			require.NoError(t, err)
			rec, ok := top.Get()
			require.True(t, ok)
			assert.Equal(t, "z9", rec.ID, "ties go to the first record inserted")
		})
	}
}
