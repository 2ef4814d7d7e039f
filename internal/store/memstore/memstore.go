// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

// Package memstore is an in-process record store.
//
// Records live in insertion-ordered slices with an ID index per collection.
// Nothing is persisted; the store is intended for tests and for running the
// API without a database (store.driver: memory).
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/tomtom215/landmark/internal/models"
	"github.com/tomtom215/landmark/internal/store"
)

// Store is an in-memory store.Store.
type Store struct {
	mu         sync.RWMutex
	geometries []models.GeometryRecord
	geoIndex   map[string]struct{}
	attributes []models.AttributeRecord
	attrIndex  map[string]struct{}
	closed     bool
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		geoIndex:  make(map[string]struct{}),
		attrIndex: make(map[string]struct{}),
	}
}

var errClosed = fmt.Errorf("memstore: %w", store.ErrStoreUnavailable)

func (s *Store) InsertGeometries(ctx context.Context, records []models.GeometryRecord) error {
	if err := ctx.Err(); err != nil {
		return store.Unavailable("insert geometries", err)
	}
	if err := store.CheckBatchGeometries(records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	for _, r := range records {
		if _, exists := s.geoIndex[r.ID]; exists {
			return &store.DuplicateKeyError{Kind: store.KindGeometry, ID: r.ID}
		}
	}
	for _, r := range records {
		s.geoIndex[r.ID] = struct{}{}
		s.geometries = append(s.geometries, cloneGeometry(r))
	}
	return nil
}

func (s *Store) InsertAttributes(ctx context.Context, records []models.AttributeRecord) error {
	if err := ctx.Err(); err != nil {
		return store.Unavailable("insert attributes", err)
	}
	if err := store.CheckBatchAttributes(records); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return errClosed
	}
	for _, r := range records {
		if _, exists := s.attrIndex[r.ID]; exists {
			return &store.DuplicateKeyError{Kind: store.KindAttribute, ID: r.ID}
		}
	}
	for _, r := range records {
		s.attrIndex[r.ID] = struct{}{}
		s.attributes = append(s.attributes, r)
	}
	return nil
}

func (s *Store) Geometries(ctx context.Context) ([]models.GeometryRecord, error) {
	return s.FindGeometries(ctx, nil)
}

func (s *Store) Attributes(ctx context.Context) ([]models.AttributeRecord, error) {
	return s.FindAttributes(ctx, nil)
}

func (s *Store) FindGeometries(ctx context.Context, pred store.GeometryPredicate) ([]models.GeometryRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Unavailable("find geometries", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	out := make([]models.GeometryRecord, 0, len(s.geometries))
	for _, r := range s.geometries {
		if pred == nil || pred(r) {
			out = append(out, cloneGeometry(r))
		}
	}
	return out, nil
}

func (s *Store) FindAttributes(ctx context.Context, pred store.AttributePredicate) ([]models.AttributeRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, store.Unavailable("find attributes", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, errClosed
	}
	return store.FilterAttributes(s.attributes, pred), nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return store.Unavailable("ping", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return errClosed
	}
	return nil
}

// Close marks the store closed. Subsequent calls fail with ErrStoreUnavailable.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// cloneGeometry copies coordinate pointers so callers cannot mutate stored records.
func cloneGeometry(g models.GeometryRecord) models.GeometryRecord {
	if g.Latitude != nil {
		g.Latitude = models.Float(*g.Latitude)
	}
	if g.Longitude != nil {
		g.Longitude = models.Float(*g.Longitude)
	}
	return g
}
