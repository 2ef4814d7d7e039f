// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package badgerstore

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomtom215/landmark/internal/models"
	"github.com/tomtom215/landmark/internal/store"
	"github.com/tomtom215/landmark/internal/store/storetest"
)

func TestConformance(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store {
		s, err := Open(Config{InMemory: true})
		require.NoError(t, err)
		return s
	})
}

func TestOpen_RequiresPath(t *testing.T) {
	t.Parallel()

	_, err := Open(Config{})
	assert.Error(t, err)
}

func TestPersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ctx := context.Background()

	s, err := Open(Config{Path: dir})
	require.NoError(t, err)
	require.NoError(t, s.InsertGeometries(ctx, storetest.FixtureGeometries))
	require.NoError(t, s.InsertAttributes(ctx, storetest.FixtureAttributes))
	require.NoError(t, s.Close())

	s, err = Open(Config{Path: dir})
	require.NoError(t, err)
	defer s.Close()

	geos, err := s.Geometries(ctx)
	require.NoError(t, err)
	assert.Equal(t, storetest.FixtureGeometries, geos)

	// Uniqueness survives the reopen.
	err = s.InsertGeometries(ctx, []models.GeometryRecord{{ID: "p1"}})
	assert.ErrorIs(t, err, store.ErrDuplicateKey)

	// New records sort after the old ones even though the sequence lease restarted.
	require.NoError(t, s.InsertGeometries(ctx, []models.GeometryRecord{{ID: "later"}}))
	geos, err = s.Geometries(ctx)
	require.NoError(t, err)
	assert.Equal(t, "later", geos[len(geos)-1].ID)
}

func TestLargeBatchKeepsOrder(t *testing.T) {
	t.Parallel()

	s, err := Open(Config{InMemory: true})
	require.NoError(t, err)
	defer s.Close()

	const n = 5000
	batch := make([]models.AttributeRecord, n)
	for i := range batch {
		batch[i] = models.AttributeRecord{ID: fmt.Sprintf("a%05d", i), Category: "cafe", Rating: 3, ReviewCount: int64(i)}
	}
	require.NoError(t, s.InsertAttributes(context.Background(), batch))

	got, err := s.Attributes(context.Background())
	require.NoError(t, err)
	require.Len(t, got, n)
	for i := range got {
		if got[i].ID != batch[i].ID {
			t.Fatalf("record %d: got %s, want %s", i, got[i].ID, batch[i].ID)
		}
	}
}

func TestClose_Idempotent(t *testing.T) {
	t.Parallel()

	s, err := Open(Config{InMemory: true})
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.Geometries(context.Background())
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)
	assert.ErrorIs(t, s.Ping(context.Background()), store.ErrStoreUnavailable)
}

func TestDocKeysSortBySequence(t *testing.T) {
	t.Parallel()

	c := &collection{docPrefix: []byte("geo:doc:")}
	a, b := c.docKey(255), c.docKey(256)
	assert.Less(t, string(a), string(b))
}
