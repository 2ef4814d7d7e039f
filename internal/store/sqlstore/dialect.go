// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package sqlstore

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strconv"
	"strings"

	duckdb "github.com/duckdb/duckdb-go/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/stdlib"
	"modernc.org/sqlite"
)

// Supported dialect names, matching the store.driver config values.
const (
	DuckDB   = "duckdb"
	SQLite   = "sqlite"
	Postgres = "postgres"
)

// dialect captures the per-engine differences: driver, DDL and placeholders.
type dialect struct {
	name string

	// driver is the raw database/sql driver wrapped with query hooks.
	driver func() driver.Driver

	// schema creates the two tables if they do not exist.
	schema []string

	// numbered placeholders ($1, $2) instead of ?.
	numbered bool

	// singleConn limits the pool to one connection. Embedded engines
	// serialize writers anyway and in-memory databases are per-connection.
	singleConn bool

	// memoryDSN opens a private in-memory database.
	memoryDSN string
}

var dialects = map[string]*dialect{
	DuckDB: {
		name:   DuckDB,
		driver: func() driver.Driver { return &duckdb.Driver{} },
		schema: []string{
			`CREATE SEQUENCE IF NOT EXISTS geometries_seq`,
			`CREATE TABLE IF NOT EXISTS geometries (
				seq BIGINT PRIMARY KEY DEFAULT nextval('geometries_seq'),
				id VARCHAR NOT NULL UNIQUE,
				latitude DOUBLE,
				longitude DOUBLE
			)`,
			`CREATE SEQUENCE IF NOT EXISTS attributes_seq`,
			`CREATE TABLE IF NOT EXISTS attributes (
				seq BIGINT PRIMARY KEY DEFAULT nextval('attributes_seq'),
				id VARCHAR NOT NULL UNIQUE,
				category VARCHAR NOT NULL,
				rating DOUBLE NOT NULL,
				reviews BIGINT NOT NULL
			)`,
		},
		singleConn: true,
		memoryDSN:  "",
	},
	SQLite: {
		name:   SQLite,
		driver: func() driver.Driver { return &sqlite.Driver{} },
		schema: []string{
			`CREATE TABLE IF NOT EXISTS geometries (
				seq INTEGER PRIMARY KEY AUTOINCREMENT,
				id TEXT NOT NULL UNIQUE,
				latitude REAL,
				longitude REAL
			)`,
			`CREATE TABLE IF NOT EXISTS attributes (
				seq INTEGER PRIMARY KEY AUTOINCREMENT,
				id TEXT NOT NULL UNIQUE,
				category TEXT NOT NULL,
				rating REAL NOT NULL,
				reviews INTEGER NOT NULL
			)`,
		},
		singleConn: true,
		memoryDSN:  ":memory:",
	},
	Postgres: {
		name:   Postgres,
		driver: stdlib.GetDefaultDriver,
		schema: []string{
			`CREATE TABLE IF NOT EXISTS geometries (
				seq BIGSERIAL PRIMARY KEY,
				id TEXT NOT NULL UNIQUE,
				latitude DOUBLE PRECISION,
				longitude DOUBLE PRECISION
			)`,
			`CREATE TABLE IF NOT EXISTS attributes (
				seq BIGSERIAL PRIMARY KEY,
				id TEXT NOT NULL UNIQUE,
				category TEXT NOT NULL,
				rating DOUBLE PRECISION NOT NULL,
				reviews BIGINT NOT NULL
			)`,
		},
		numbered: true,
	},
}

func lookupDialect(name string) (*dialect, error) {
	switch strings.ToLower(name) {
	case "postgresql", "pgx":
		name = Postgres
	case "sqlite3":
		name = SQLite
	}
	d, ok := dialects[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("sqlstore: unsupported dialect %q", name)
	}
	return d, nil
}

// rebind rewrites ? placeholders for dialects with numbered parameters.
// Queries in this package never contain a literal question mark.
func (d *dialect) rebind(query string) string {
	if !d.numbered {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

// placeholders returns "?, ?, ?" for n parameters.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?, ", n-1) + "?"
}

// isUniqueViolation reports whether err is a unique or primary key violation.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	// DuckDB: "Duplicate key ... violates unique constraint"
	// SQLite: "UNIQUE constraint failed: geometries.id"
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}
