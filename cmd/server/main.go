// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/katameow/recsys-go/internal/logging"

	"github.com/katameow/recsys-go/internal/api"
	"github.com/katameow/recsys-go/internal/authctx"
	"github.com/katameow/recsys-go/internal/cacheadapter"
	"github.com/katameow/recsys-go/internal/config"
	"github.com/katameow/recsys-go/internal/jobregistry"
	"github.com/katameow/recsys-go/internal/orchestrator"
	"github.com/katameow/recsys-go/internal/orchestrator/enginefake"
	"github.com/katameow/recsys-go/internal/orchestrator/ragfake"
	"github.com/katameow/recsys-go/internal/rescache"
	"github.com/katameow/recsys-go/internal/supervisor"
	"github.com/katameow/recsys-go/internal/supervisor/services"
	"github.com/katameow/recsys-go/internal/timeline"
	"github.com/katameow/recsys-go/internal/websocket"
)

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	fakeEngine := flag.Bool("fake-engine", false, "wire the deterministic enginefake/ragfake test doubles instead of failing to start without a real search engine")
	supervised := flag.Bool("supervised", false, "run the HTTP server and the submitted-search worker pool under a suture supervisor tree instead of a bare goroutine-per-submission runner")
	workers := flag.Int("workers", 8, "worker-pool size when -supervised is set")
	queueSize := flag.Int("queue-size", 128, "worker-pool queue capacity when -supervised is set")
	flag.Parse()

	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})

	logging.Info().Str("cache_backend", cfg.Cache.Backend).Str("timeline_backend", cfg.Timeline.Backend).Msg("starting search orchestration core")

	adapter, err := buildCacheAdapter(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build cache adapter")
	}

	mtc := rescache.New(adapter, rescache.Config{
		SchemaVersion:   cfg.Cache.SchemaVersion,
		DefaultTTL:      cfg.Cache.DefaultTTL,
		GuestTTL:        cfg.Cache.GuestTTL,
		FailOpen:        cfg.Cache.FailOpen,
		MaxPayloadBytes: cfg.Cache.MaxPayloadBytes,
	})

	bus := buildTimelineBus(cfg)

	dashboardHub := websocket.NewHub()
	bus.Subscribe(func(event timeline.Event) {
		dashboardHub.BroadcastTimelineEvent(websocket.TimelineEventData{
			QueryHash: event.QueryHash,
			Step:      event.Step,
			Sequence:  event.Sequence,
			Timestamp: event.Timestamp.Format(time.RFC3339Nano),
			Payload:   event.Payload,
		})
	})

	admitter, err := authctx.NewAdmitter()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to build Casbin admitter")
	}
	authManager := authctx.NewManager(cfg.Security.JWTSecret)

	var engine orchestrator.SearchEngine
	var rag orchestrator.RAGPipeline
	if *fakeEngine {
		logging.Warn().Msg("running with synthetic enginefake/ragfake collaborators — not a production search engine")
		engine = enginefake.New()
		rag = ragfake.New()
	} else {
		logging.Fatal().Msg("no production SearchEngine/RAGPipeline wired; rerun with -fake-engine for a dev-mode deployment")
	}

	orch := orchestrator.New(mtc, bus, engine, rag, admitter, orchestrator.Config{
		EnableCache:              cfg.Cache.Enabled,
		EnableGuestHashedQueries: cfg.Cache.EnableGuestHashedQueries,
	})

	registry := jobregistry.New()

	var runner api.TaskRunner
	var tree *supervisor.SupervisorTree
	var pool *services.TaskPoolService
	if *supervised {
		slogLogger := logging.NewSlogLogger()
		tree, err = supervisor.NewSupervisorTree(slogLogger, supervisor.DefaultTreeConfig())
		if err != nil {
			logging.Fatal().Err(err).Msg("failed to create supervisor tree")
		}
		pool = services.NewTaskPoolService(*workers, *queueSize)
		tree.AddTaskService(pool)
		runner = pool
		logging.Info().Int("workers", *workers).Int("queue_size", *queueSize).Msg("submitted-search execution running under a supervised worker pool")
	}

	handler := api.NewHandler(orch, registry, bus, mtc, authManager, admitter, cfg, runner)
	handler.SetDashboardHub(dashboardHub)
	router := api.NewRouter(handler, nil)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupChi(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		if err := dashboardHub.RunWithContext(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logging.Warn().Err(err).Msg("dashboard websocket hub stopped unexpectedly")
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logging.Info().Str("signal", sig.String()).Msg("received shutdown signal")
		cancel()
	}()

	if *supervised {
		tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))
		logging.Info().Str("addr", server.Addr).Msg("starting supervisor tree")

		errCh := tree.ServeBackground(ctx)
		select {
		case <-ctx.Done():
			logging.Info().Msg("context canceled, waiting for supervisor to finish")
		case err := <-errCh:
			if err != nil && !errors.Is(err, context.Canceled) {
				logging.Error().Err(err).Msg("supervisor tree error")
			}
		}
		for err := range errCh {
			if err != nil && !errors.Is(err, context.Canceled) {
				logging.Error().Err(err).Msg("supervisor shutdown error")
			}
		}
		if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
			for _, svc := range unstopped {
				logging.Warn().Str("service", svc.Name).Msg("service failed to stop within timeout")
			}
		}
	} else {
		go func() {
			logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logging.Fatal().Err(err).Msg("HTTP server failed")
			}
		}()

		<-ctx.Done()
		logging.Info().Msg("shutting down HTTP server")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logging.Error().Err(err).Msg("error during HTTP server shutdown")
		}
	}

	logging.Info().Msg("search orchestration core stopped gracefully")
}

// buildCacheAdapter selects the Cache Adapter (C1) backend per
// cfg.Cache.Backend, falling back to the in-process memory adapter for
// an unrecognized or empty value.
func buildCacheAdapter(cfg *config.Config) (cacheadapter.Adapter, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cacheadapter.NewRedis(cacheadapter.RedisConfig{Addr: cfg.Cache.RedisURL}), nil
	case "rest":
		return cacheadapter.NewREST(cacheadapter.RESTConfig{
			BaseURL:   cfg.Cache.RESTURL,
			BearerTok: cfg.Cache.RESTToken,
			Namespace: cfg.Cache.Namespace,
			Timeout:   10 * time.Second,
			Breaker:   cacheadapter.DefaultRESTBreakerSettings("cache-rest-adapter"),
		}), nil
	case "", "memory":
		return cacheadapter.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unrecognized cache backend %q", cfg.Cache.Backend)
	}
}

// buildTimelineBus wires the Timeline Bus (C4) structured backend per
// cfg.Timeline.Backend. The bus always falls back to an in-memory
// backend transparently, per internal/timeline.NewBus, so a Redis
// outage degrades the timeline rather than failing submission.
func buildTimelineBus(cfg *config.Config) *timeline.Bus {
	fallback := timeline.NewMemoryBackend()

	if cfg.Timeline.Backend != "redis" {
		return timeline.NewBus(nil, fallback)
	}

	client := goredis.NewClient(&goredis.Options{Addr: cfg.Cache.RedisURL})
	return timeline.NewBus(timeline.NewRedisBackend(client), fallback)
}
