// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

/*
Package main is the entry point for the Landmark server.

Landmark stores point-of-interest geometries and attributes and serves the
aggregates behind the dashboard: counts and average ratings per category,
the most reviewed place, and places with unresolved coordinates.

# Application Architecture

	RootSupervisor ("landmark")
	├── DataSupervisor ("data-layer")
	│   └── StoreMonitorService
	└── APISupervisor ("api-layer")
	    └── HTTPServerService (chi router)

Component initialization order:

 1. Configuration: koanf v2 with .env, config.yaml and environment variables
 2. Logging: zerolog, level and format from configuration
 3. Record store: memory, badger, duckdb, sqlite or postgres, wrapped with
    metrics and a circuit breaker
 4. Response cache: none, memory or redis
 5. Analytics service and HTTP router
 6. Supervisor tree

# Configuration

The most common environment variables:

	PORT=5000                     # HTTP port
	STORE_DRIVER=badger           # memory|badger|duckdb|sqlite|postgres
	STORE_PATH=/data/landmark     # file or directory for embedded stores
	DATABASE_URL=postgres://...   # DSN for the postgres driver
	CACHE_DRIVER=memory           # none|memory|redis
	REDIS_ADDR=127.0.0.1:6379
	CORS_ORIGINS=*
	LOG_LEVEL=info
	LOG_FORMAT=json

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server stops
accepting connections and drains in-flight requests for HTTP_SHUTDOWN_TIMEOUT
before the store and cache are closed.
*/
package main
