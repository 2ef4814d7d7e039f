// Landmark - Point-of-Interest Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/landmark

package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tomtom215/landmark/internal/config"
)

// scanBatch is the COUNT hint used while clearing keys.
const scanBatch = 500

// ErrEmptyPrefix is returned when a redis cache is configured without a key
// prefix. Clear would otherwise match every key in the database.
var ErrEmptyPrefix = errors.New("redis cache requires a non-empty key prefix")

// Redis is a Cacher backed by a redis server, shared between replicas.
// All keys live under a prefix so Clear never touches foreign data.
type Redis struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedis connects lazily; the first command dials the server.
func NewRedis(cfg config.RedisConfig, ttl time.Duration) (*Redis, error) {
	if strings.TrimSpace(cfg.Prefix) == "" {
		return nil, ErrEmptyPrefix
	}
	return &Redis{
		client: redis.NewClient(&redis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
		prefix: cfg.Prefix,
		ttl:    ttl,
	}, nil
}

// Name implements Cacher.
func (r *Redis) Name() string { return config.CacheRedis }

// Client exposes the underlying client for health checks.
func (r *Redis) Client() *redis.Client { return r.client }

func (r *Redis) key(k string) string { return r.prefix + k }

// Get implements Cacher. A missing key is a miss, not an error.
func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := r.client.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, true, nil
}

// Set implements Cacher.
func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

// Clear deletes every key under the prefix using SCAN, never KEYS.
func (r *Redis) Clear(ctx context.Context) error {
	if strings.TrimSpace(r.prefix) == "" {
		return ErrEmptyPrefix
	}
	iter := r.client.Scan(ctx, 0, r.prefix+"*", scanBatch).Iterator()
	batch := make([]string, 0, scanBatch)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == scanBatch {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return fmt.Errorf("redis clear: %w", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("redis clear: %w", err)
	}
	if len(batch) > 0 {
		if err := r.client.Del(ctx, batch...).Err(); err != nil {
			return fmt.Errorf("redis clear: %w", err)
		}
	}
	return nil
}

// Ping checks connectivity.
func (r *Redis) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the client connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
