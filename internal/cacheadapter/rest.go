// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package cacheadapter

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"time"

	json "github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
)

// RESTConfig configures a remote key-value cache reachable over HTTP.
type RESTConfig struct {
	BaseURL   string
	BearerTok string
	Namespace string
	Timeout   time.Duration
	Breaker   gobreaker.Settings
}

// DefaultRESTBreakerSettings mirrors the teacher's default circuit
// breaker tuning (eventprocessor.DefaultCircuitBreakerConfig), applied
// here to the remote cache instead of a message-queue publisher.
func DefaultRESTBreakerSettings(name string) gobreaker.Settings {
	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
	}
}

// CacheError reports a failure of the remote cache transport or
// protocol, distinct from a plain miss.
type CacheError struct {
	Op  string
	Err error
}

func (e *CacheError) Error() string { return fmt.Sprintf("cacheadapter: rest %s: %v", e.Op, e.Err) }
func (e *CacheError) Unwrap() error { return e.Err }

// REST is an Adapter backed by a remote HTTP key-value service that
// accepts ["SET"|"GET"|"DEL"|"EXISTS", key, ...] command arrays, wrapped
// in a circuit breaker so a wedged remote cache cannot stall the
// orchestrator indefinitely.
type REST struct {
	cfg     RESTConfig
	client  *http.Client
	breaker *gobreaker.CircuitBreaker[interface{}]
}

// NewREST constructs a REST adapter. If cfg.Timeout is zero, a 5 second
// default is used.
func NewREST(cfg RESTConfig) *REST {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}
	if cfg.Breaker.Name == "" {
		cfg.Breaker = DefaultRESTBreakerSettings("cacheadapter-rest")
	}
	return &REST{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		breaker: gobreaker.NewCircuitBreaker[interface{}](cfg.Breaker),
	}
}

func (r *REST) namespaced(key string) string {
	if r.cfg.Namespace == "" {
		return key
	}
	return r.cfg.Namespace + ":" + key
}

func (r *REST) command(ctx context.Context, args ...any) (map[string]any, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		body, err := json.Marshal(args)
		if err != nil {
			return nil, &CacheError{Op: "encode", Err: err}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL, bytes.NewReader(body))
		if err != nil {
			return nil, &CacheError{Op: "build-request", Err: err}
		}
		req.Header.Set("Content-Type", "application/json")
		if r.cfg.BearerTok != "" {
			req.Header.Set("Authorization", "Bearer "+r.cfg.BearerTok)
		}

		resp, err := r.client.Do(req)
		if err != nil {
			return nil, &CacheError{Op: "do-request", Err: err}
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 300 {
			return nil, &CacheError{Op: "status", Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
		}

		var out map[string]any
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			return nil, &CacheError{Op: "decode", Err: err}
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return result.(map[string]any), nil
}

func (r *REST) Get(ctx context.Context, key string) ([]byte, bool, error) {
	out, err := r.command(ctx, "GET", r.namespaced(key))
	if err != nil {
		return nil, false, err
	}
	raw, ok := out["value"].(string)
	if !ok {
		return nil, false, nil
	}
	value, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, false, &CacheError{Op: "decode-value", Err: err}
	}
	return value, true, nil
}

func (r *REST) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	encoded := base64.StdEncoding.EncodeToString(value)
	_, err := r.command(ctx, "SET", r.namespaced(key), encoded, int64(ttl.Seconds()))
	return err
}

func (r *REST) SetPersistent(ctx context.Context, key string, value []byte) error {
	return r.Set(ctx, key, value, 0)
}

func (r *REST) Delete(ctx context.Context, key string) error {
	_, err := r.command(ctx, "DEL", r.namespaced(key))
	return err
}

func (r *REST) Exists(ctx context.Context, key string) (bool, error) {
	out, err := r.command(ctx, "EXISTS", r.namespaced(key))
	if err != nil {
		return false, err
	}
	exists, _ := out["exists"].(bool)
	return exists, nil
}
