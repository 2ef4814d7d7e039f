// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

// Package storetest provides a conformance suite run against every
// store.Store backend.
//
// Backend tests call Run with a factory returning a fresh, empty store:
//
//	func TestConformance(t *testing.T) {
//	    storetest.Run(t, func(t *testing.T) store.Store {
//	        return memstore.New()
//	    })
//	}
package storetest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/landmark/internal/models"
	"github.com/tomtom215/landmark/internal/store"
)

// Factory returns a fresh, empty store. The suite closes it.
type Factory func(t *testing.T) store.Store

// Run executes the conformance suite.
func Run(t *testing.T, open Factory) {
	t.Helper()

	cases := []struct {
		name string
		fn   func(t *testing.T, s store.Store)
	}{
		{"EmptyStore", testEmptyStore},
		{"InsertAndReadBackInOrder", testInsertAndReadBack},
		{"NullCoordinatesRoundTrip", testNullCoordinates},
		{"EmptyBatchIsNoop", testEmptyBatch},
		{"DuplicateAgainstStoredGeometry", testDuplicateStoredGeometry},
		{"DuplicateWithinGeometryBatch", testDuplicateWithinGeometryBatch},
		{"DuplicateAgainstStoredAttribute", testDuplicateStoredAttribute},
		{"DuplicateWithinAttributeBatch", testDuplicateWithinAttributeBatch},
		{"EmptyIDRejected", testEmptyID},
		{"CollectionsAreIndependent", testCollectionsIndependent},
		{"FindGeometries", testFindGeometries},
		{"FindAttributes", testFindAttributes},
		{"ConcurrentDistinctInserts", testConcurrentDistinctInserts},
		{"ConcurrentSameIDInserts", testConcurrentSameID},
		{"NativeAggregation", testNativeAggregation},
		{"Ping", testPing},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := open(t)
			t.Cleanup(func() { _ = s.Close() })
			tc.fn(t, s)
		})
	}
}

// Fixture data shared by the suite and by analytics tests.
var (
	FixtureGeometries = []models.GeometryRecord{
		{ID: "p1", Latitude: models.Float(52.52), Longitude: models.Float(13.405)},
		{ID: "p2", Latitude: models.Float(48.8566), Longitude: models.Float(2.3522)},
		{ID: "p3", Latitude: nil, Longitude: models.Float(-0.1276)},
		{ID: "p4", Latitude: models.Float(40.4168), Longitude: nil},
		{ID: "p5", Latitude: nil, Longitude: nil},
	}

	FixtureAttributes = []models.AttributeRecord{
		{ID: "p1", Category: "museum", Rating: 4.5, ReviewCount: 120},
		{ID: "p2", Category: "cafe", Rating: 4.0, ReviewCount: 300},
		{ID: "p3", Category: "museum", Rating: 3.5, ReviewCount: 300},
		{ID: "p9", Category: "park", Rating: 5.0, ReviewCount: 10},
	}
)

func ctx() context.Context {
	return context.Background()
}

func seed(t *testing.T, s store.Store) {
	t.Helper()
	require.NoError(t, s.InsertGeometries(ctx(), FixtureGeometries))
	require.NoError(t, s.InsertAttributes(ctx(), FixtureAttributes))
}

func ids[T interface{ models.GeometryRecord | models.AttributeRecord }](records []T) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		switch v := any(r).(type) {
		case models.GeometryRecord:
			out = append(out, v.ID)
		case models.AttributeRecord:
			out = append(out, v.ID)
		}
	}
	return out
}

func testEmptyStore(t *testing.T, s store.Store) {
	geos, err := s.Geometries(ctx())
	require.NoError(t, err)
	assert.Empty(t, geos)

	attrs, err := s.Attributes(ctx())
	require.NoError(t, err)
	assert.Empty(t, attrs)

	incomplete, err := s.FindGeometries(ctx(), store.Incomplete)
	require.NoError(t, err)
	assert.Empty(t, incomplete)
}

func testInsertAndReadBack(t *testing.T, s store.Store) {
	seed(t, s)

	geos, err := s.Geometries(ctx())
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5"}, ids(geos))
	assert.Equal(t, FixtureGeometries, geos)

	attrs, err := s.Attributes(ctx())
	require.NoError(t, err)
	assert.Equal(t, FixtureAttributes, attrs)

	// A second batch appends after the first.
	more := []models.GeometryRecord{{ID: "p0", Latitude: models.Float(1), Longitude: models.Float(1)}}
	require.NoError(t, s.InsertGeometries(ctx(), more))
	geos, err = s.Geometries(ctx())
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p2", "p3", "p4", "p5", "p0"}, ids(geos))
}

func testNullCoordinates(t *testing.T, s store.Store) {
	require.NoError(t, s.InsertGeometries(ctx(), []models.GeometryRecord{
		{ID: "a", Latitude: nil, Longitude: models.Float(0)},
		{ID: "b", Latitude: models.Float(0), Longitude: nil},
	}))

	geos, err := s.Geometries(ctx())
	require.NoError(t, err)
	require.Len(t, geos, 2)
	assert.Nil(t, geos[0].Latitude)
	require.NotNil(t, geos[0].Longitude)
	assert.Equal(t, 0.0, *geos[0].Longitude)
	require.NotNil(t, geos[1].Latitude)
	assert.Nil(t, geos[1].Longitude)
}

func testEmptyBatch(t *testing.T, s store.Store) {
	require.NoError(t, s.InsertGeometries(ctx(), nil))
	require.NoError(t, s.InsertAttributes(ctx(), []models.AttributeRecord{}))

	geos, err := s.Geometries(ctx())
	require.NoError(t, err)
	assert.Empty(t, geos)
}

func testDuplicateStoredGeometry(t *testing.T, s store.Store) {
	seed(t, s)

	err := s.InsertGeometries(ctx(), []models.GeometryRecord{
		{ID: "new-1", Latitude: models.Float(1), Longitude: models.Float(1)},
		{ID: "p2", Latitude: models.Float(9), Longitude: models.Float(9)},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, store.ErrDuplicateKey), "got %v", err)
	assert.False(t, errors.Is(err, store.ErrStoreUnavailable))

	geos, err := s.Geometries(ctx())
	require.NoError(t, err)
	assert.Equal(t, FixtureGeometries, geos, "failed batch must not change the collection")
}

func testDuplicateWithinGeometryBatch(t *testing.T, s store.Store) {
	err := s.InsertGeometries(ctx(), []models.GeometryRecord{
		{ID: "x"}, {ID: "y"}, {ID: "x"},
	})
	require.ErrorIs(t, err, store.ErrDuplicateKey)

	var dup *store.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, store.KindGeometry, dup.Kind)
	assert.Equal(t, "x", dup.ID)

	geos, err := s.Geometries(ctx())
	require.NoError(t, err)
	assert.Empty(t, geos)
}

func testDuplicateStoredAttribute(t *testing.T, s store.Store) {
	seed(t, s)

	err := s.InsertAttributes(ctx(), []models.AttributeRecord{
		{ID: "p1", Category: "bar", Rating: 1, ReviewCount: 1},
	})
	require.ErrorIs(t, err, store.ErrDuplicateKey)

	attrs, err := s.Attributes(ctx())
	require.NoError(t, err)
	assert.Equal(t, FixtureAttributes, attrs)
}

func testDuplicateWithinAttributeBatch(t *testing.T, s store.Store) {
	err := s.InsertAttributes(ctx(), []models.AttributeRecord{
		{ID: "a", Category: "bar"}, {ID: "a", Category: "cafe"},
	})
	require.ErrorIs(t, err, store.ErrDuplicateKey)

	var dup *store.DuplicateKeyError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, store.KindAttribute, dup.Kind)

	attrs, err := s.Attributes(ctx())
	require.NoError(t, err)
	assert.Empty(t, attrs)
}

func testEmptyID(t *testing.T, s store.Store) {
	require.ErrorIs(t, s.InsertGeometries(ctx(), []models.GeometryRecord{{ID: ""}}), store.ErrEmptyID)
	require.ErrorIs(t, s.InsertAttributes(ctx(), []models.AttributeRecord{{ID: ""}}), store.ErrEmptyID)
}

func testCollectionsIndependent(t *testing.T, s store.Store) {
	require.NoError(t, s.InsertGeometries(ctx(), []models.GeometryRecord{{ID: "shared"}}))
	require.NoError(t, s.InsertAttributes(ctx(), []models.AttributeRecord{{ID: "shared", Category: "cafe"}}))
	require.NoError(t, s.InsertAttributes(ctx(), []models.AttributeRecord{{ID: "orphan", Category: "cafe"}}))

	attrs, err := s.Attributes(ctx())
	require.NoError(t, err)
	assert.Equal(t, []string{"shared", "orphan"}, ids(attrs))
}

func testFindGeometries(t *testing.T, s store.Store) {
	seed(t, s)

	incomplete, err := s.FindGeometries(ctx(), store.Incomplete)
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p4", "p5"}, ids(incomplete))

	all, err := s.FindGeometries(ctx(), nil)
	require.NoError(t, err)
	assert.Len(t, all, len(FixtureGeometries))
}

func testFindAttributes(t *testing.T, s store.Store) {
	seed(t, s)

	museums, err := s.FindAttributes(ctx(), store.InCategory("museum"))
	require.NoError(t, err)
	assert.Equal(t, []string{"p1", "p3"}, ids(museums))

	none, err := s.FindAttributes(ctx(), store.InCategory("zoo"))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func testConcurrentDistinctInserts(t *testing.T, s store.Store) {
	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- s.InsertGeometries(ctx(), []models.GeometryRecord{
				{ID: fmt.Sprintf("w%d-a", i)},
				{ID: fmt.Sprintf("w%d-b", i)},
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	geos, err := s.Geometries(ctx())
	require.NoError(t, err)
	assert.Len(t, geos, workers*2)
}

func testConcurrentSameID(t *testing.T, s store.Store) {
	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.InsertAttributes(ctx(), []models.AttributeRecord{{ID: "contested", Category: "cafe"}})
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, store.ErrDuplicateKey)
	}
	assert.Equal(t, 1, succeeded)

	attrs, err := s.Attributes(ctx())
	require.NoError(t, err)
	assert.Len(t, attrs, 1)
}

func testNativeAggregation(t *testing.T, s store.Store) {
	agg := store.AsAggregator(s)
	if agg == nil {
		t.Skip("backend does not aggregate natively")
	}

	// Empty store first.
	top, err := agg.MostReviewed(ctx())
	require.NoError(t, err)
	assert.False(t, top.IsSome())

	seed(t, s)

	counts, err := agg.CountByCategory(ctx())
	require.NoError(t, err)
	assert.Equal(t, []models.CategoryCount{
		{Category: "cafe", Count: 1},
		{Category: "museum", Count: 2},
		{Category: "park", Count: 1},
	}, counts)

	avgs, err := agg.AverageRatingByCategory(ctx())
	require.NoError(t, err)
	require.Len(t, avgs, 3)
	assert.Equal(t, "cafe", avgs[0].Category)
	assert.InDelta(t, 4.0, avgs[0].AvgRating, 1e-9)
	assert.Equal(t, "museum", avgs[1].Category)
	assert.InDelta(t, 4.0, avgs[1].AvgRating, 1e-9)
	assert.Equal(t, "park", avgs[2].Category)
	assert.InDelta(t, 5.0, avgs[2].AvgRating, 1e-9)

	top, err = agg.MostReviewed(ctx())
	require.NoError(t, err)
	rec, ok := top.Get()
	require.True(t, ok)
	assert.Equal(t, "p2", rec.ID, "ties resolve to the earliest inserted record")

	incomplete, err := agg.IncompleteGeometries(ctx())
	require.NoError(t, err)
	assert.Equal(t, []string{"p3", "p4", "p5"}, ids(incomplete))
}

func testPing(t *testing.T, s store.Store) {
	require.NoError(t, s.Ping(ctx()))
}
