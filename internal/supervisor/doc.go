// Vigil - Real-time Behavioral Alerting for Remote Proctoring
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/vigil

/*
Package supervisor runs Vigil's long-lived services under a suture v4 tree.

	vigil
	├── core-layer
	│   └── detection-engine
	├── messaging-layer
	│   ├── websocket-hub
	│   └── nats-ingest (if ingest.enabled)
	└── api-layer
	    └── http-server

A service that returns an error is restarted with exponential backoff.
Restarts count against their own layer only. Supervisor events (service
failures, restarts, backoff) are logged through sutureslog, which writes
to the zerolog stream via logging.NewSlogLogger.

# Usage

	tree := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddCoreService(engine)
	tree.AddMessagingService(hub)
	tree.AddAPIService(services.NewHTTPServerService(srv, 10*time.Second))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	err := tree.Serve(ctx)

Shutdown order follows suture: cancellation reaches every layer at once,
and each service gets TreeConfig.ShutdownTimeout to return.
*/
package supervisor
