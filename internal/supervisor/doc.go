// Cartographus - Media Server Analytics and Geographic Visualization
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cartographus

/*
Package supervisor provides a suture-based supervisor tree for the
search orchestration core's two long-lived background services: the
submitted-search worker pool (internal/supervisor/services.TaskPoolService)
and the HTTP server (internal/supervisor/services.HTTPServerService).

Each layer is its own child supervisor, so a failure of one layer's
service restarts only that layer; the other keeps running. A panic
inside a submitted-search task runs on a worker goroutine and is not
recovered by the supervisor.

cmd/server wires a SupervisorTree when -supervised is set, passing its
TaskPoolService to api.NewHandler as the TaskRunner implementation
instead of the default unsupervised goroutine-per-submission runner.
*/
package supervisor
