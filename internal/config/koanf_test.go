// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/knadh/koanf/v2"
)

// isolate runs the test in an empty directory with no config file or .env
// so the developer's own files cannot leak into the result.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv(ConfigPathEnvVar, "")
	t.Setenv(DotEnvPathEnvVar, filepath.Join(dir, "missing.env"))
	for _, key := range []string{"PORT", "HTTP_PORT", "STORE_DRIVER", "ENVIRONMENT"} {
		unset(t, key)
	}
	return dir
}

// unset clears key for the duration of the test and restores it afterwards.
func unset(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	if err := os.Unsetenv(key); err != nil {
		t.Fatal(err)
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := defaultConfig()

	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Store.Driver != DriverBadger {
		t.Errorf("Store.Driver = %q, want badger", cfg.Store.Driver)
	}
	if !cfg.Store.Breaker.Enabled {
		t.Error("Store.Breaker.Enabled should be true by default")
	}
	if cfg.Cache.Driver != CacheMemory {
		t.Errorf("Cache.Driver = %q, want memory", cfg.Cache.Driver)
	}
	if cfg.Cache.TTL != 30*time.Second {
		t.Errorf("Cache.TTL = %v, want 30s", cfg.Cache.TTL)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "*" {
		t.Errorf("Security.CORSOrigins = %v, want [*]", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestEnvTransformFunc(t *testing.T) {
	t.Parallel()

	tests := []struct {
		env  string
		want string
	}{
		{"PORT", "server.port"},
		{"HTTP_PORT", "server.port"},
		{"HTTP_HOST", "server.host"},
		{"STORE_DRIVER", "store.driver"},
		{"DATABASE_URL", "store.dsn"},
		{"BREAKER_FAILURE_RATIO", "store.breaker.failure_ratio"},
		{"REDIS_ADDR", "cache.redis.addr"},
		{"CORS_ORIGINS", "security.cors_origins"},
		{"DISABLE_RATE_LIMIT", "security.rate_limit_disabled"},
		{"log_level", "logging.level"},
		{"HOME", ""},
		{"PATH", ""},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Parallel()
			if got := envTransformFunc(tt.env); got != tt.want {
				t.Errorf("envTransformFunc(%q) = %q, want %q", tt.env, got, tt.want)
			}
		})
	}
}

func TestFindConfigFile(t *testing.T) {
	dir := isolate(t)

	if got := findConfigFile(); got != "" {
		t.Errorf("findConfigFile() = %q, want empty in a clean directory", got)
	}

	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte("server:\n  port: 6000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := findConfigFile(); got != "config.yml" {
		t.Errorf("findConfigFile() = %q, want config.yml", got)
	}

	explicit := filepath.Join(dir, "explicit.yaml")
	if err := os.WriteFile(explicit, []byte("server:\n  port: 7000\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, explicit)
	if got := findConfigFile(); got != explicit {
		t.Errorf("findConfigFile() = %q, want %q", got, explicit)
	}

	t.Setenv(ConfigPathEnvVar, filepath.Join(dir, "nope.yaml"))
	if got := findConfigFile(); got != "config.yml" {
		t.Errorf("non-existent CONFIG_PATH should fall back to defaults, got %q", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 5000 {
		t.Errorf("Server.Port = %d, want 5000", cfg.Server.Port)
	}
	if cfg.Store.Driver != DriverBadger {
		t.Errorf("Store.Driver = %q, want badger", cfg.Store.Driver)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := isolate(t)

	yamlContent := `
server:
  port: 8080
  environment: staging
store:
  driver: sqlite
  path: /tmp/landmark.db
  slow_query_threshold: 1s
cache:
  driver: none
security:
  cors_origins:
    - https://maps.example.com
logging:
  level: debug
  format: console
`
	path := filepath.Join(dir, "landmark.yaml")
	if err := os.WriteFile(path, []byte(yamlContent), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want env override 9090", cfg.Server.Port)
	}
	if cfg.Server.Environment != "staging" {
		t.Errorf("Server.Environment = %q, want staging", cfg.Server.Environment)
	}
	if cfg.Store.Driver != DriverSQLite {
		t.Errorf("Store.Driver = %q, want sqlite", cfg.Store.Driver)
	}
	if cfg.Store.SlowQueryThreshold != time.Second {
		t.Errorf("Store.SlowQueryThreshold = %v, want 1s", cfg.Store.SlowQueryThreshold)
	}
	if cfg.Cache.Driver != CacheNone {
		t.Errorf("Cache.Driver = %q, want none", cfg.Cache.Driver)
	}
	if len(cfg.Security.CORSOrigins) != 1 || cfg.Security.CORSOrigins[0] != "https://maps.example.com" {
		t.Errorf("Security.CORSOrigins = %v", cfg.Security.CORSOrigins)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want env override warn", cfg.Logging.Level)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("Logging.Format = %q, want console", cfg.Logging.Format)
	}
	// Untouched defaults survive both layers.
	if cfg.Cache.Redis.Prefix != "landmark:" {
		t.Errorf("Cache.Redis.Prefix = %q, want landmark:", cfg.Cache.Redis.Prefix)
	}
}

func TestLoad_RedisWithoutPrefixRejected(t *testing.T) {
	dir := isolate(t)
	unset(t, "CACHE_DRIVER")
	unset(t, "REDIS_PREFIX")

	path := filepath.Join(dir, "landmark.yaml")
	yamlContent := "cache:\n  driver: redis\n  redis:\n    addr: localhost:6379\n    prefix: \"\"\n"
	if err := os.WriteFile(path, []byte(yamlContent), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "REDIS_PREFIX") {
		t.Fatalf("Load() error = %v, want REDIS_PREFIX rejection", err)
	}
}

func TestLoad_DotEnv(t *testing.T) {
	dir := isolate(t)
	unset(t, "CACHE_TTL")
	t.Setenv("LOG_LEVEL", "error")

	envFile := filepath.Join(dir, "test.env")
	content := "STORE_DRIVER=memory\nCACHE_TTL=5s\nLOG_LEVEL=debug\n"
	if err := os.WriteFile(envFile, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv(DotEnvPathEnvVar, envFile)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Store.Driver != DriverMemory {
		t.Errorf("Store.Driver = %q, want memory from .env", cfg.Store.Driver)
	}
	if cfg.Cache.TTL != 5*time.Second {
		t.Errorf("Cache.TTL = %v, want 5s from .env", cfg.Cache.TTL)
	}
	if cfg.Logging.Level != "error" {
		t.Errorf("Logging.Level = %q, .env must not override the real environment", cfg.Logging.Level)
	}
}

func TestLoad_CORSOriginsFromEnv(t *testing.T) {
	isolate(t)
	t.Setenv("CORS_ORIGINS", "https://a.example.com, https://b.example.com ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := []string{"https://a.example.com", "https://b.example.com"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Security.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], want[i])
		}
	}
}

func TestLoad_InvalidConfig(t *testing.T) {
	isolate(t)
	t.Setenv("STORE_DRIVER", "mongodb")

	if _, err := Load(); err == nil {
		t.Fatal("Load() should fail for an unknown store driver")
	}
}

func TestProcessSliceFields(t *testing.T) {
	t.Parallel()

	k := koanf.New(".")
	if err := k.Set("security.cors_origins", "x, y"); err != nil {
		t.Fatal(err)
	}
	if err := processSliceFields(k); err != nil {
		t.Fatal(err)
	}
	got := k.Strings("security.cors_origins")
	if len(got) != 2 || got[0] != "x" || got[1] != "y" {
		t.Errorf("cors_origins = %v, want [x y]", got)
	}
}
