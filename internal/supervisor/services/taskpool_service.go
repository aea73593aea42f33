// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

package services

import (
	"context"
	"sync"
)

// TaskPoolService is a bounded worker pool for the dispatch layer's
// submitted-search background execution, supervised the same way the
// reference implementation supervises its WAL retry loop: Serve starts
// the workers, blocks on ctx.Done, then waits for every in-flight task
// to finish before returning.
//
// It satisfies api.TaskRunner's Go(fn func()) method structurally, so
// cmd/server can hand it to api.NewHandler in place of the default
// unsupervised goroutine runner without either package importing the
// other.
type TaskPoolService struct {
	queue   chan func()
	workers int
	wg      sync.WaitGroup
	name    string
}

// NewTaskPoolService creates a worker pool with workers concurrent
// goroutines and a queue capacity of queueSize pending tasks. A
// caller's Go(fn) blocks once the queue is full, applying backpressure
// to search submission instead of spawning unbounded goroutines.
func NewTaskPoolService(workers, queueSize int) *TaskPoolService {
	if workers <= 0 {
		workers = 4
	}
	if queueSize <= 0 {
		queueSize = 64
	}
	return &TaskPoolService{
		queue:   make(chan func(), queueSize),
		workers: workers,
		name:    "task-pool",
	}
}

// Go enqueues fn for execution by one of the pool's workers.
func (s *TaskPoolService) Go(fn func()) {
	s.queue <- fn
}

// Serve implements suture.Service: it runs workers workers until ctx
// is canceled, then waits for in-flight tasks to complete.
func (s *TaskPoolService) Serve(ctx context.Context) error {
	done := make(chan struct{})
	var workerWG sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		workerWG.Add(1)
		go func() {
			defer workerWG.Done()
			for {
				select {
				case <-done:
					return
				case fn, ok := <-s.queue:
					if !ok {
						return
					}
					s.wg.Add(1)
					func() {
						defer s.wg.Done()
						fn()
					}()
				}
			}
		}()
	}

	<-ctx.Done()
	close(done)
	workerWG.Wait()
	s.wg.Wait()
	return ctx.Err()
}

// String implements fmt.Stringer for logging.
func (s *TaskPoolService) String() string {
	return s.name
}
