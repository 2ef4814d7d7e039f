// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to run the external services Landmark
// can be configured against, so backends are tested against the real thing
// rather than mocks. Every file carries the integration build tag:
//
//	go test -tags integration ./...
//
// # PostgreSQL
//
// Used by the sqlstore conformance run for the postgres dialect:
//
//	pg, err := testinfra.NewPostgresContainer(ctx)
//	if err != nil {
//	    t.Fatal(err)
//	}
//	defer testinfra.CleanupContainer(t, ctx, pg.Container)
//
// # Redis
//
// Used by the redis response cache tests:
//
//	rc, err := testinfra.NewRedisContainer(ctx)
//	c, err := cache.NewRedis(config.RedisConfig{Addr: rc.Addr, Prefix: "test:"}, time.Minute)
//
// # CI Considerations
//
// These tests require Docker. They are skipped gracefully through
// SkipIfNoDocker when the daemon is not reachable.
package testinfra
