// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

/*
Package config provides centralized configuration management for Landmark.

Configuration is layered with koanf. Later sources override earlier ones:

 1. Built-in defaults (defaultConfig)
 2. A YAML file: CONFIG_PATH, or the first of config.yaml, config.yml,
    /etc/landmark/config.yaml, /etc/landmark/config.yml
 3. Environment variables, mapped through an explicit name table

A .env file (or DOTENV_PATH) is merged into the process environment before
step 3. Variables already present in the environment are never overwritten.

# Sections

  - server: host, port (default 5000), timeouts, body limit, environment
  - store: driver (memory, badger, duckdb, sqlite, postgres), path, dsn,
    slow query threshold, circuit breaker
  - cache: driver (none, memory, redis), ttl, redis connection
  - security: CORS origins, rate limiting
  - logging: level, format, caller

# Environment Variables

Server:
  - PORT, HTTP_PORT: Listen port (default: 5000)
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_READ_TIMEOUT, HTTP_WRITE_TIMEOUT, HTTP_IDLE_TIMEOUT, HTTP_SHUTDOWN_TIMEOUT
  - HTTP_MAX_BODY_BYTES: load-data body limit (default: 32MiB)
  - ENVIRONMENT: development, staging or production

Store:
  - STORE_DRIVER: Backend (default: badger)
  - STORE_PATH: Data directory or file; empty for in-memory
  - STORE_DSN, DATABASE_URL: Postgres connection string
  - STORE_SLOW_QUERY_THRESHOLD: SQL slow query log threshold (default: 250ms)
  - STORE_MAX_OPEN_CONNS, STORE_SYNC_WRITES
  - BREAKER_ENABLED, BREAKER_MAX_REQUESTS, BREAKER_INTERVAL, BREAKER_TIMEOUT,
    BREAKER_MIN_REQUESTS, BREAKER_FAILURE_RATIO

Cache:
  - CACHE_DRIVER: none, memory or redis (default: memory)
  - CACHE_TTL: Entry lifetime (default: 30s)
  - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB, REDIS_PREFIX

Security:
  - CORS_ORIGINS: Comma-separated origins (default: *)
  - RATE_LIMIT_REQUESTS, RATE_LIMIT_WINDOW, DISABLE_RATE_LIMIT

Logging:
  - LOG_LEVEL, LOG_FORMAT, LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(cfg.Server.Addr())
*/
package config
