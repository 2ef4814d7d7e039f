// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package sqlstore

import (
	"context"
	"database/sql"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/qustavo/sqlhooks/v2"

	"github.com/tomtom215/landmark/internal/logging"
	"github.com/tomtom215/landmark/internal/metrics"
)

type beginKey struct{}

// queryHooks times every statement, records it in Prometheus and logs
// statements slower than the configured threshold.
type queryHooks struct {
	dialect string

	// slowNanos is shared by every store of the dialect because database/sql
	// registers a driver once per process.
	slowNanos atomic.Int64
}

var _ sqlhooks.Hooks = (*queryHooks)(nil)
var _ sqlhooks.OnErrorer = (*queryHooks)(nil)

func (h *queryHooks) Before(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	return context.WithValue(ctx, beginKey{}, time.Now()), nil
}

func (h *queryHooks) After(ctx context.Context, query string, args ...interface{}) (context.Context, error) {
	h.observe(ctx, query, len(args), nil)
	return ctx, nil
}

func (h *queryHooks) OnError(ctx context.Context, err error, query string, args ...interface{}) error {
	h.observe(ctx, query, len(args), err)
	return err
}

func (h *queryHooks) observe(ctx context.Context, query string, nargs int, err error) {
	begin, ok := ctx.Value(beginKey{}).(time.Time)
	if !ok {
		return
	}
	d := time.Since(begin)
	threshold := time.Duration(h.slowNanos.Load())
	slow := threshold > 0 && d > threshold

	metrics.RecordSQLQuery(h.dialect, statementVerb(query), d, slow)
	if slow {
		logging.Ctx(ctx).Warn().
			Str("dialect", h.dialect).
			Str("query", compactQuery(query)).
			Int("args", nargs).
			Dur("took", d).
			Err(err).
			Msg("Slow SQL")
	}
}

// statementVerb returns the lower-cased first keyword of query.
func statementVerb(query string) string {
	q := strings.TrimSpace(query)
	if i := strings.IndexAny(q, " \t\n("); i > 0 {
		q = q[:i]
	}
	return strings.ToLower(q)
}

// compactQuery collapses whitespace for single-line logging.
func compactQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

var (
	registerMu sync.Mutex
	registered = map[string]*queryHooks{}
)

// hookedDriver registers the dialect's driver wrapped with query hooks under
// "<dialect>WithHooks" and returns that name. Registration happens once per
// process; later calls only update the slow query threshold.
func hookedDriver(d *dialect, slow time.Duration) string {
	registerMu.Lock()
	defer registerMu.Unlock()

	name := d.name + "WithHooks"
	h, ok := registered[d.name]
	if !ok {
		h = &queryHooks{dialect: d.name}
		sql.Register(name, sqlhooks.Wrap(d.driver(), h))
		registered[d.name] = h
	}
	h.slowNanos.Store(int64(slow))
	return name
}
