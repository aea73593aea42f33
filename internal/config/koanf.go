// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/recsys/config.yaml",
	"/etc/recsys/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all sensible default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		},
		Cache: CacheConfig{
			Enabled:                  true,
			EnableGuestHashedQueries: true,
			Backend:                  "memory",
			FailOpen:                 true,
			SchemaVersion:            1,
			DefaultTTL:               time.Hour,
			GuestTTL:                 6 * time.Hour,
			MaxPayloadBytes:          2 << 20, // 2 MiB
			Namespace:                "recsys",
			RedisURL:                 "",
			RESTURL:                  "",
			RESTToken:                "",
		},
		Timeline: TimelineConfig{
			Backend:             "memory",
			StreamTTLSeconds:    3600,
			DefaultStreamMaxLen: 1000,
		},
		Security: SecurityConfig{
			JWTSecret: "",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// LoadWithKoanf loads configuration from defaults, an optional YAML
// file, then environment variables, in that precedence order:
//  1. Defaults: built-in sensible defaults
//  2. Config File: optional YAML config file (if exists)
//  3. Environment Variables: override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	// Layer 1: Load defaults from struct
	defaults := defaultConfig()
	if err := k.Load(structs.Provider(defaults, "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// Layer 2: Load config file (optional)
	configPath := findConfigFile()
	if configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// Layer 3: Load environment variables (highest priority)
	envProvider := env.Provider("", ".", envTransformFunc)
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	// Unmarshal into Config struct
	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// envTransformFunc transforms environment variable names to koanf
// config paths, mapping the spec.md §6 option names (plus the domain
// additions in SPEC_FULL.md) onto the nested Config struct.
//
// Examples:
//   - ENABLE_CACHE -> cache.enabled
//   - CACHE_TTL_DEFAULT -> cache.default_ttl
//   - GUEST_CACHE_TTL -> cache.guest_ttl
//   - DEFAULT_STREAM_MAXLEN -> timeline.default_stream_maxlen
//   - JWT_SECRET -> security.jwt_secret
func envTransformFunc(key string) string {
	key = strings.ToUpper(key)

	switch key {
	case "ENABLE_CACHE":
		return "cache.enabled"
	case "ENABLE_GUEST_HASHED_QUERIES":
		return "cache.enable_guest_hashed_queries"
	case "CACHE_BACKEND":
		return "cache.backend"
	case "CACHE_FAIL_OPEN":
		return "cache.fail_open"
	case "CACHE_SCHEMA_VERSION":
		return "cache.schema_version"
	case "CACHE_TTL_DEFAULT":
		return "cache.default_ttl"
	case "GUEST_CACHE_TTL":
		return "cache.guest_ttl"
	case "CACHE_MAX_PAYLOAD_BYTES":
		return "cache.max_payload_bytes"
	case "CACHE_NAMESPACE":
		return "cache.namespace"
	// NATS_URL is carried over from the teacher's own NATS-era env var
	// name, repurposed here for the single redis.Client connection
	// string that backs both the Cache Adapter's networked-store
	// backend and the Timeline Bus's structured-stream backend (see
	// Open Question 4 in DESIGN.md).
	case "NATS_URL", "REDIS_URL":
		return "cache.redis_url"
	case "CACHE_REST_URL":
		return "cache.rest_url"
	case "CACHE_REST_TOKEN":
		return "cache.rest_token"
	case "TIMELINE_BACKEND":
		return "timeline.backend"
	case "STREAM_TTL_SECONDS":
		return "timeline.stream_ttl_seconds"
	case "DEFAULT_STREAM_MAXLEN":
		return "timeline.default_stream_maxlen"
	case "JWT_SECRET":
		return "security.jwt_secret"
	case "LOG_LEVEL":
		return "logging.level"
	case "LOG_FORMAT":
		return "logging.format"
	case "HTTP_HOST", "SERVER_HOST":
		return "server.host"
	case "HTTP_PORT", "SERVER_PORT":
		return "server.port"
	case "HTTP_READ_TIMEOUT":
		return "server.read_timeout"
	case "HTTP_WRITE_TIMEOUT":
		return "server.write_timeout"
	case "HTTP_IDLE_TIMEOUT":
		return "server.idle_timeout"
	}

	return strings.ToLower(key)
}
