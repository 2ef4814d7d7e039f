// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package config

import (
	"errors"
	"io/fs"
	"net"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// DotEnvPathEnvVar overrides the location of the .env file.
const DotEnvPathEnvVar = "DOTENV_PATH"

// loadDotEnv reads KEY=VALUE pairs from a .env file into the process
// environment. Variables already set are left untouched, so the real
// environment always wins. A missing file is not an error.
func loadDotEnv() error {
	path := ".env"
	if p := os.Getenv(DotEnvPathEnvVar); p != "" {
		path = p
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
// Unknown variables are ignored.
var envMappings = map[string]string{
	// Server
	"port":                  "server.port",
	"http_host":             "server.host",
	"http_port":             "server.port",
	"http_read_timeout":     "server.read_timeout",
	"http_write_timeout":    "server.write_timeout",
	"http_idle_timeout":     "server.idle_timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"http_max_body_bytes":   "server.max_body_bytes",
	"environment":           "server.environment",

	// Store
	"store_driver":               "store.driver",
	"store_path":                 "store.path",
	"store_dsn":                  "store.dsn",
	"database_url":               "store.dsn",
	"store_slow_query_threshold": "store.slow_query_threshold",
	"store_max_open_conns":       "store.max_open_conns",
	"store_sync_writes":          "store.sync_writes",
	"breaker_enabled":            "store.breaker.enabled",
	"breaker_max_requests":       "store.breaker.max_requests",
	"breaker_interval":           "store.breaker.interval",
	"breaker_timeout":            "store.breaker.timeout",
	"breaker_min_requests":       "store.breaker.min_requests",
	"breaker_failure_ratio":      "store.breaker.failure_ratio",

	// Cache
	"cache_driver":   "cache.driver",
	"cache_ttl":      "cache.ttl",
	"redis_addr":     "cache.redis.addr",
	"redis_password": "cache.redis.password",
	"redis_db":       "cache.redis.db",
	"redis_prefix":   "cache.redis.prefix",

	// Security
	"cors_origins":        "security.cors_origins",
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc transforms environment variable names to koanf config paths.
//
// Examples:
//   - PORT -> server.port
//   - STORE_DRIVER -> store.driver
//   - DATABASE_URL -> store.dsn
//   - REDIS_ADDR -> cache.redis.addr
func envTransformFunc(key string) string {
	if mapped, ok := envMappings[strings.ToLower(key)]; ok {
		return mapped
	}
	return ""
}

func joinHostPort(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}
