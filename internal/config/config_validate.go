// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import "fmt"

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateCache(); err != nil {
		return err
	}
	if err := c.validateTimeline(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port)
	}
	return nil
}

func (c *Config) validateCache() error {
	switch c.Cache.Backend {
	case "memory", "redis", "rest":
	default:
		return fmt.Errorf("cache.backend must be one of memory, redis, rest, got %q", c.Cache.Backend)
	}

	if c.Cache.SchemaVersion < 1 {
		return fmt.Errorf("cache.schema_version must be >= 1, got %d", c.Cache.SchemaVersion)
	}
	if c.Cache.MaxPayloadBytes <= 0 {
		return fmt.Errorf("cache.max_payload_bytes must be positive, got %d", c.Cache.MaxPayloadBytes)
	}
	if c.Cache.DefaultTTL <= 0 {
		return fmt.Errorf("cache.default_ttl must be positive")
	}
	if c.Cache.GuestTTL <= 0 {
		return fmt.Errorf("cache.guest_ttl must be positive")
	}

	if c.Cache.Backend == "redis" && c.Cache.RedisURL == "" {
		return fmt.Errorf("cache.redis_url is required when cache.backend=redis")
	}
	if c.Cache.Backend == "rest" && c.Cache.RESTURL == "" {
		return fmt.Errorf("cache.rest_url is required when cache.backend=rest")
	}
	if c.Cache.RESTURL != "" {
		if err := validateHTTPURL(c.Cache.RESTURL, "cache.rest_url"); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateTimeline() error {
	switch c.Timeline.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("timeline.backend must be one of memory, redis, got %q", c.Timeline.Backend)
	}
	if c.Timeline.Backend == "redis" && c.Cache.RedisURL == "" {
		return fmt.Errorf("cache.redis_url is required when timeline.backend=redis")
	}
	if c.Timeline.StreamTTLSeconds <= 0 {
		return fmt.Errorf("timeline.stream_ttl_seconds must be positive")
	}
	if c.Timeline.DefaultStreamMaxLen <= 0 {
		return fmt.Errorf("timeline.default_stream_maxlen must be positive")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be one of json, console, got %q", c.Logging.Format)
	}
	return nil
}
