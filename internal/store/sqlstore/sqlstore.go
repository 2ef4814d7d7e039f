// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

// Package sqlstore implements store.Store on relational engines through
// database/sql: DuckDB, SQLite (pure Go, modernc.org/sqlite) and PostgreSQL
// (pgx). Every driver is wrapped with sqlhooks so statements are timed and
// slow statements are logged.
//
// Records live in two tables, geometries and attributes, each with a
// surrogate seq column giving insertion order and a UNIQUE id column.
// The store also implements store.Aggregator, pushing the dashboard
// aggregates down to GROUP BY queries.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/tomtom215/landmark/internal/logging"
	"github.com/tomtom215/landmark/internal/models"
	"github.com/tomtom215/landmark/internal/store"
)

// Config holds SQL store configuration.
type Config struct {
	// Dialect is one of duckdb, sqlite, postgres.
	Dialect string

	// DSN is the data source name. Empty opens a private in-memory database
	// for the embedded dialects and is an error for postgres.
	DSN string

	// SlowQueryThreshold logs statements slower than this. Zero disables.
	SlowQueryThreshold time.Duration

	// MaxOpenConns bounds the pool for postgres. Ignored by embedded dialects.
	MaxOpenConns int
}

// existsChunk bounds the number of IDs per existence query.
const existsChunk = 500

// Store is a database/sql backed store.Store.
type Store struct {
	db      *sql.DB
	dialect *dialect

	// writeMu serializes inserts from this process so the existence check
	// and the insert observe the same state. Cross-process races are caught
	// by the UNIQUE constraint.
	writeMu sync.Mutex
}

var (
	_ store.Store      = (*Store)(nil)
	_ store.Aggregator = (*Store)(nil)
)

// Open connects, verifies the connection and creates the schema.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	d, err := lookupDialect(cfg.Dialect)
	if err != nil {
		return nil, err
	}
	dsn := cfg.DSN
	if dsn == "" {
		if d.memoryDSN == "" && d.name == Postgres {
			return nil, fmt.Errorf("sqlstore: dsn is required for %s", d.name)
		}
		dsn = d.memoryDSN
	}

	db, err := sql.Open(hookedDriver(d, cfg.SlowQueryThreshold), dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w: %w", d.name, store.ErrStoreUnavailable, err)
	}

	if d.singleConn {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		db.SetConnMaxLifetime(0)
	} else {
		maxOpen := cfg.MaxOpenConns
		if maxOpen <= 0 {
			maxOpen = 10
		}
		db.SetMaxOpenConns(maxOpen)
		db.SetMaxIdleConns(2)
		db.SetConnMaxLifetime(time.Hour)
		db.SetConnMaxIdleTime(5 * time.Minute)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		store.CloseWithLog(db, d.name)
		return nil, fmt.Errorf("ping %s: %w: %w", d.name, store.ErrStoreUnavailable, err)
	}

	for _, ddl := range d.schema {
		if _, err := db.ExecContext(ctx, ddl); err != nil {
			store.CloseWithLog(db, d.name)
			return nil, fmt.Errorf("create schema: %w: %w", store.ErrStoreUnavailable, err)
		}
	}

	logging.Info().Str("dialect", d.name).Bool("in_memory", cfg.DSN == "").Msg("SQL store opened")
	return &Store{db: db, dialect: d}, nil
}

func (s *Store) InsertGeometries(ctx context.Context, records []models.GeometryRecord) error {
	if err := store.CheckBatchGeometries(records); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}

	return s.insert(ctx, "geometries", store.KindGeometry, ids,
		"INSERT INTO geometries (id, latitude, longitude) VALUES (?, ?, ?)",
		func(stmt *sql.Stmt, i int) error {
			r := records[i]
			_, err := stmt.ExecContext(ctx, r.ID, nullFloat(r.Latitude), nullFloat(r.Longitude))
			return err
		})
}

func (s *Store) InsertAttributes(ctx context.Context, records []models.AttributeRecord) error {
	if err := store.CheckBatchAttributes(records); err != nil {
		return err
	}
	if len(records) == 0 {
		return nil
	}
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}

	return s.insert(ctx, "attributes", store.KindAttribute, ids,
		"INSERT INTO attributes (id, category, rating, reviews) VALUES (?, ?, ?, ?)",
		func(stmt *sql.Stmt, i int) error {
			r := records[i]
			_, err := stmt.ExecContext(ctx, r.ID, r.Category, r.Rating, r.ReviewCount)
			return err
		})
}

// insert runs one batch in a single transaction: existence check, then one
// prepared INSERT per record. Any failure rolls the whole batch back.
func (s *Store) insert(ctx context.Context, table, kind string, ids []string, query string,
	exec func(stmt *sql.Stmt, i int) error) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return store.Unavailable("begin "+kind+" batch", err)
	}
	defer func() { _ = tx.Rollback() }()

	if id, err := s.firstExisting(ctx, tx, table, ids); err != nil {
		return store.Unavailable("check "+kind+" ids", err)
	} else if id != "" {
		return &store.DuplicateKeyError{Kind: kind, ID: id}
	}

	stmt, err := tx.PrepareContext(ctx, s.dialect.rebind(query))
	if err != nil {
		return store.Unavailable("prepare "+kind+" insert", err)
	}
	defer stmt.Close()

	for i := range ids {
		if err := exec(stmt, i); err != nil {
			if isUniqueViolation(err) {
				return &store.DuplicateKeyError{Kind: kind, ID: ids[i]}
			}
			return store.Unavailable("insert "+kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		if isUniqueViolation(err) {
			return &store.DuplicateKeyError{Kind: kind, ID: ids[0]}
		}
		return store.Unavailable("commit "+kind+" batch", err)
	}
	return nil
}

// firstExisting returns the first of ids already present in table, or "".
func (s *Store) firstExisting(ctx context.Context, tx *sql.Tx, table string, ids []string) (string, error) {
	for start := 0; start < len(ids); start += existsChunk {
		end := min(start+existsChunk, len(ids))
		chunk := ids[start:end]

		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}
		query := s.dialect.rebind(fmt.Sprintf(
			"SELECT id FROM %s WHERE id IN (%s) ORDER BY seq LIMIT 1", table, placeholders(len(chunk))))

		var found string
		err := tx.QueryRowContext(ctx, query, args...).Scan(&found)
		switch {
		case err == sql.ErrNoRows:
			continue
		case err != nil:
			return "", err
		default:
			return found, nil
		}
	}
	return "", nil
}

func (s *Store) Geometries(ctx context.Context) ([]models.GeometryRecord, error) {
	return s.queryGeometries(ctx, "SELECT id, latitude, longitude FROM geometries ORDER BY seq")
}

func (s *Store) Attributes(ctx context.Context) ([]models.AttributeRecord, error) {
	return s.queryAttributes(ctx, "SELECT id, category, rating, reviews FROM attributes ORDER BY seq")
}

// FindGeometries scans all geometries and filters in Go. Arbitrary predicates
// cannot be translated to SQL; IncompleteGeometries covers the common case.
func (s *Store) FindGeometries(ctx context.Context, pred store.GeometryPredicate) ([]models.GeometryRecord, error) {
	all, err := s.Geometries(ctx)
	if err != nil || pred == nil {
		return all, err
	}
	return store.FilterGeometries(all, pred), nil
}

func (s *Store) FindAttributes(ctx context.Context, pred store.AttributePredicate) ([]models.AttributeRecord, error) {
	all, err := s.Attributes(ctx)
	if err != nil || pred == nil {
		return all, err
	}
	return store.FilterAttributes(all, pred), nil
}

func (s *Store) queryGeometries(ctx context.Context, query string, args ...any) ([]models.GeometryRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, store.Unavailable("query geometries", err)
	}
	defer rows.Close()

	out := []models.GeometryRecord{}
	for rows.Next() {
		var (
			g        models.GeometryRecord
			lat, lon sql.NullFloat64
		)
		if err := rows.Scan(&g.ID, &lat, &lon); err != nil {
			return nil, store.Unavailable("scan geometry", err)
		}
		g.Latitude = floatPtr(lat)
		g.Longitude = floatPtr(lon)
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable("iterate geometries", err)
	}
	return out, nil
}

func (s *Store) queryAttributes(ctx context.Context, query string, args ...any) ([]models.AttributeRecord, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query), args...)
	if err != nil {
		return nil, store.Unavailable("query attributes", err)
	}
	defer rows.Close()

	out := []models.AttributeRecord{}
	for rows.Next() {
		var a models.AttributeRecord
		if err := rows.Scan(&a.ID, &a.Category, &a.Rating, &a.ReviewCount); err != nil {
			return nil, store.Unavailable("scan attribute", err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable("iterate attributes", err)
	}
	return out, nil
}

// CountByCategory implements store.Aggregator.
func (s *Store) CountByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category, COUNT(*) FROM attributes GROUP BY category")
	if err != nil {
		return nil, store.Unavailable("count by category", err)
	}
	defer rows.Close()

	out := []models.CategoryCount{}
	for rows.Next() {
		var c models.CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, store.Unavailable("scan category count", err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable("iterate category counts", err)
	}
	// Sorted in Go: database collations disagree with byte order.
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// AverageRatingByCategory implements store.Aggregator.
func (s *Store) AverageRatingByCategory(ctx context.Context) ([]models.CategoryRating, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT category, AVG(rating) FROM attributes GROUP BY category")
	if err != nil {
		return nil, store.Unavailable("average rating by category", err)
	}
	defer rows.Close()

	out := []models.CategoryRating{}
	for rows.Next() {
		var r models.CategoryRating
		if err := rows.Scan(&r.Category, &r.AvgRating); err != nil {
			return nil, store.Unavailable("scan category rating", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, store.Unavailable("iterate category ratings", err)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out, nil
}

// MostReviewed implements store.Aggregator.
func (s *Store) MostReviewed(ctx context.Context) (models.Optional[models.AttributeRecord], error) {
	top, err := s.queryAttributes(ctx,
		"SELECT id, category, rating, reviews FROM attributes ORDER BY reviews DESC, seq ASC LIMIT 1")
	if err != nil {
		return models.None[models.AttributeRecord](), err
	}
	if len(top) == 0 {
		return models.None[models.AttributeRecord](), nil
	}
	return models.Some(top[0]), nil
}

// IncompleteGeometries implements store.Aggregator.
func (s *Store) IncompleteGeometries(ctx context.Context) ([]models.GeometryRecord, error) {
	return s.queryGeometries(ctx,
		"SELECT id, latitude, longitude FROM geometries WHERE latitude IS NULL OR longitude IS NULL ORDER BY seq")
}

func (s *Store) Ping(ctx context.Context) error {
	return store.Unavailable("ping", s.db.PingContext(ctx))
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close %s: %w", s.dialect.name, err)
	}
	return nil
}

func nullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func floatPtr(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return models.Float(v.Float64)
}
