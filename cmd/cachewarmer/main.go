// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

// Package main implements cachewarmer, a CLI that loads the
// precomputed and canonical cache tiers (C6) from a newline-delimited
// JSON file, so an operator can seed a fresh deployment's guest-facing
// catalogue without going through the HTTP admin endpoints.
package main

import (
	"bufio"
	"context"
	"encoding/base64"
	"flag"
	"os"

	json "github.com/goccy/go-json"

	"github.com/katameow/recsys-go/internal/logging"

	"github.com/katameow/recsys-go/internal/cacheadapter"
	"github.com/katameow/recsys-go/internal/config"
	"github.com/katameow/recsys-go/internal/rescache"
)

// record is one line of the input file: slug and query identify the
// entry, response is the base64-encoded serialized SearchResponse
// payload to store verbatim, and tier selects "precomputed" (TTL
// bounded) or "canonical" (persistent).
type record struct {
	Slug     string `json:"slug"`
	Query    string `json:"query"`
	Response string `json:"response"`
	Tier     string `json:"tier"`
}

func main() {
	inputPath := flag.String("input", "", "path to a newline-delimited JSON file of cache records (required)")
	flag.Parse()

	if *inputPath == "" {
		logging.Fatal().Msg("cachewarmer: -input is required")
	}

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("cachewarmer: failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	if !cfg.Cache.Enabled {
		logging.Fatal().Msg("cachewarmer: cache is disabled (ENABLE_CACHE=false); nothing to warm")
	}

	adapter, err := buildAdapter(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("cachewarmer: failed to build cache adapter")
	}

	mtc := rescache.New(adapter, rescache.Config{
		SchemaVersion:   cfg.Cache.SchemaVersion,
		DefaultTTL:      cfg.Cache.DefaultTTL,
		GuestTTL:        cfg.Cache.GuestTTL,
		FailOpen:        cfg.Cache.FailOpen,
		MaxPayloadBytes: cfg.Cache.MaxPayloadBytes,
	})

	file, err := os.Open(*inputPath)
	if err != nil {
		logging.Fatal().Err(err).Str("path", *inputPath).Msg("cachewarmer: failed to open input file")
	}
	defer file.Close()

	ctx := context.Background()
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var loaded, failed int
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			logging.Warn().Err(err).Msg("cachewarmer: skipping malformed line")
			failed++
			continue
		}

		payload, err := base64.StdEncoding.DecodeString(rec.Response)
		if err != nil {
			logging.Warn().Err(err).Str("slug", rec.Slug).Msg("cachewarmer: skipping record with invalid base64 response")
			failed++
			continue
		}

		if rec.Tier == "canonical" {
			err = mtc.StoreCanonical(ctx, rec.Slug, rec.Query, payload)
		} else {
			err = mtc.StorePrecomputed(ctx, rec.Slug, rec.Query, payload, mtc.TTLSeconds(true))
		}
		if err != nil {
			logging.Warn().Err(err).Str("slug", rec.Slug).Msg("cachewarmer: failed to store record")
			failed++
			continue
		}
		loaded++
	}
	if err := scanner.Err(); err != nil {
		logging.Fatal().Err(err).Msg("cachewarmer: error reading input file")
	}

	logging.Info().Int("loaded", loaded).Int("failed", failed).Msg("cachewarmer: done")
}

func buildAdapter(cfg *config.Config) (cacheadapter.Adapter, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cacheadapter.NewRedis(cacheadapter.RedisConfig{Addr: cfg.Cache.RedisURL}), nil
	case "rest":
		return cacheadapter.NewREST(cacheadapter.RESTConfig{
			BaseURL:   cfg.Cache.RESTURL,
			BearerTok: cfg.Cache.RESTToken,
			Namespace: cfg.Cache.Namespace,
			Breaker:   cacheadapter.DefaultRESTBreakerSettings("cachewarmer-rest-adapter"),
		}), nil
	default:
		return cacheadapter.NewMemory(), nil
	}
}
