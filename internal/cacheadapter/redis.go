// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cacheadapter

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// RedisConfig configures the shared Redis client used for both the
// plain key-value cache and, via Streams, the timeline bus.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// Redis is an Adapter backed by a single client shared with the
// timeline bus's structured-stream backend, mirroring the reference
// implementation's single RedisCacheAdapter backing both concerns.
type Redis struct {
	client *goredis.Client
}

// NewRedis constructs a Redis adapter from cfg.
func NewRedis(cfg RedisConfig) *Redis {
	return &Redis{
		client: goredis.NewClient(&goredis.Options{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}),
	}
}

// Client exposes the underlying client so internal/timeline's Redis
// backend can share this adapter's connection for XADD/XREAD.
func (r *Redis) Client() *goredis.Client {
	return r.client
}

// Close releases the underlying connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == goredis.Nil {
			return nil, false, nil
		}
		return nil, false, &CacheError{Op: "get", Err: err}
	}
	return value, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := r.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return &CacheError{Op: "set", Err: err}
	}
	return nil
}

func (r *Redis) SetPersistent(ctx context.Context, key string, value []byte) error {
	return r.Set(ctx, key, value, 0)
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return &CacheError{Op: "del", Err: err}
	}
	return nil
}

func (r *Redis) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, &CacheError{Op: "exists", Err: err}
	}
	return n > 0, nil
}
