// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

// Package badgerstore implements store.Store on an embedded BadgerDB.
//
// Each collection uses two key families:
//
//	geo:id:<id>    -> 8-byte big-endian sequence number
//	geo:doc:<seq>  -> JSON-encoded models.GeometryRecord
//
// and the same layout under the "attr:" prefix for attribute records. The
// sequence number comes from a Badger sequence, so iterating the doc prefix
// yields records in insertion order. The id family enforces uniqueness.
package badgerstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/landmark/internal/logging"
	"github.com/tomtom215/landmark/internal/models"
	"github.com/tomtom215/landmark/internal/store"
)

// Config holds Badger store configuration.
type Config struct {
	// Path is the data directory. Ignored when InMemory is set.
	Path string

	// InMemory keeps all data in RAM. Used by tests.
	InMemory bool

	// SyncWrites fsyncs every commit.
	SyncWrites bool
}

// collection describes one key family.
type collection struct {
	kind      string
	idPrefix  []byte
	docPrefix []byte
	seq       *badger.Sequence
}

func (c *collection) idKey(id string) []byte {
	return append(append([]byte(nil), c.idPrefix...), id...)
}

func (c *collection) docKey(seq uint64) []byte {
	k := make([]byte, len(c.docPrefix)+8)
	copy(k, c.docPrefix)
	binary.BigEndian.PutUint64(k[len(c.docPrefix):], seq)
	return k
}

// Store is a Badger-backed store.Store.
type Store struct {
	db *badger.DB

	// writeMu serializes inserts so the existence check and the write of a
	// batch observe the same state.
	writeMu sync.Mutex

	geo  *collection
	attr *collection

	mu     sync.RWMutex
	closed bool
}

var _ store.Store = (*Store)(nil)

// sequenceBandwidth is the number of sequence numbers leased per disk write.
const sequenceBandwidth = 1000

// Open opens (or creates) a Badger store.
func Open(cfg Config) (*Store, error) {
	if !cfg.InMemory && cfg.Path == "" {
		return nil, errors.New("badgerstore: path is required")
	}

	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w: %w", store.ErrStoreUnavailable, err)
	}

	s := &Store{
		db:   db,
		geo:  &collection{kind: store.KindGeometry, idPrefix: []byte("geo:id:"), docPrefix: []byte("geo:doc:")},
		attr: &collection{kind: store.KindAttribute, idPrefix: []byte("attr:id:"), docPrefix: []byte("attr:doc:")},
	}
	for _, c := range []*collection{s.geo, s.attr} {
		seq, err := db.GetSequence([]byte("seq:"+c.kind), sequenceBandwidth)
		if err != nil {
			store.CloseWithLog(db, "badger")
			return nil, fmt.Errorf("open %s sequence: %w: %w", c.kind, store.ErrStoreUnavailable, err)
		}
		c.seq = seq
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("Badger store opened")
	return s, nil
}

// DB returns the underlying BadgerDB handle.
func (s *Store) DB() *badger.DB {
	return s.db
}

func (s *Store) checkOpen() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return fmt.Errorf("badgerstore: closed: %w", store.ErrStoreUnavailable)
	}
	return nil
}

func (s *Store) InsertGeometries(ctx context.Context, records []models.GeometryRecord) error {
	if err := store.CheckBatchGeometries(records); err != nil {
		return err
	}
	ids := make([]string, len(records))
	docs := make([]any, len(records))
	for i := range records {
		ids[i] = records[i].ID
		docs[i] = records[i]
	}
	return s.insert(ctx, s.geo, ids, docs)
}

func (s *Store) InsertAttributes(ctx context.Context, records []models.AttributeRecord) error {
	if err := store.CheckBatchAttributes(records); err != nil {
		return err
	}
	ids := make([]string, len(records))
	docs := make([]any, len(records))
	for i := range records {
		ids[i] = records[i].ID
		docs[i] = records[i]
	}
	return s.insert(ctx, s.attr, ids, docs)
}

// insert writes a pre-validated batch. Uniqueness against stored records is
// checked for the whole batch before anything is written. A batch larger than
// Badger's transaction limit is committed in several transactions.
func (s *Store) insert(ctx context.Context, c *collection, ids []string, docs []any) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.checkOpen(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return store.Unavailable("insert "+c.kind, err)
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	err := s.db.View(func(txn *badger.Txn) error {
		for _, id := range ids {
			_, err := txn.Get(c.idKey(id))
			if err == nil {
				return &store.DuplicateKeyError{Kind: c.kind, ID: id}
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("check %s %q: %w", c.kind, id, err)
			}
		}
		return nil
	})
	if err != nil {
		return store.Unavailable("insert "+c.kind, err)
	}

	txn := s.db.NewTransaction(true)
	defer func() { txn.Discard() }()

	chunks := 0
	for i, id := range ids {
		if i%256 == 0 {
			if err := ctx.Err(); err != nil {
				return store.Unavailable("insert "+c.kind, err)
			}
		}

		data, err := json.Marshal(docs[i])
		if err != nil {
			return fmt.Errorf("marshal %s %q: %w", c.kind, id, err)
		}
		seq, err := c.seq.Next()
		if err != nil {
			return store.Unavailable("insert "+c.kind, fmt.Errorf("next sequence: %w", err))
		}

		seqBytes := make([]byte, 8)
		binary.BigEndian.PutUint64(seqBytes, seq)

		err = setPair(txn, c.idKey(id), seqBytes, c.docKey(seq), data)
		if errors.Is(err, badger.ErrTxnTooBig) {
			if err := txn.Commit(); err != nil {
				return store.Unavailable("insert "+c.kind, fmt.Errorf("commit chunk: %w", err))
			}
			chunks++
			txn = s.db.NewTransaction(true)
			err = setPair(txn, c.idKey(id), seqBytes, c.docKey(seq), data)
		}
		if err != nil {
			return store.Unavailable("insert "+c.kind, err)
		}
	}

	if err := txn.Commit(); err != nil {
		return store.Unavailable("insert "+c.kind, fmt.Errorf("commit: %w", err))
	}
	if chunks > 0 {
		logging.Debug().Str("kind", c.kind).Int("records", len(ids)).Int("chunks", chunks+1).
			Msg("Badger batch split across transactions")
	}
	return nil
}

func setPair(txn *badger.Txn, idKey, seq, docKey, doc []byte) error {
	if err := txn.Set(idKey, seq); err != nil {
		return err
	}
	return txn.Set(docKey, doc)
}

// scan iterates a collection's documents in sequence order.
func (s *Store) scan(ctx context.Context, c *collection, fn func(val []byte) error) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		opts.Prefix = c.docPrefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(c.docPrefix); it.ValidForPrefix(c.docPrefix); it.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := it.Item().Value(fn); err != nil {
				return fmt.Errorf("decode %s %x: %w", c.kind, it.Item().Key(), err)
			}
		}
		return nil
	})
	return store.Unavailable("scan "+c.kind, err)
}

func (s *Store) Geometries(ctx context.Context) ([]models.GeometryRecord, error) {
	return s.FindGeometries(ctx, nil)
}

func (s *Store) Attributes(ctx context.Context) ([]models.AttributeRecord, error) {
	return s.FindAttributes(ctx, nil)
}

func (s *Store) FindGeometries(ctx context.Context, pred store.GeometryPredicate) ([]models.GeometryRecord, error) {
	out := []models.GeometryRecord{}
	err := s.scan(ctx, s.geo, func(val []byte) error {
		var g models.GeometryRecord
		if err := json.Unmarshal(val, &g); err != nil {
			return err
		}
		if pred == nil || pred(g) {
			out = append(out, g)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) FindAttributes(ctx context.Context, pred store.AttributePredicate) ([]models.AttributeRecord, error) {
	out := []models.AttributeRecord{}
	err := s.scan(ctx, s.attr, func(val []byte) error {
		var a models.AttributeRecord
		if err := json.Unmarshal(val, &a); err != nil {
			return err
		}
		if pred == nil || pred(a) {
			out = append(out, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	if s.db.IsClosed() {
		return fmt.Errorf("badgerstore: database closed: %w", store.ErrStoreUnavailable)
	}
	return store.Unavailable("ping", ctx.Err())
}

// Close releases the sequences and closes the database. Safe to call twice.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	for _, c := range []*collection{s.geo, s.attr} {
		if err := c.seq.Release(); err != nil {
			logging.Warn().Err(err).Str("kind", c.kind).Msg("Failed to release Badger sequence")
		}
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close BadgerDB: %w", err)
	}
	return nil
}
