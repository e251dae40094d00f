// Package app is the composition root for callboard.
//
// # Overview
//
// Run wires configuration, logging, error reporting, metrics, the webhook
// client, the shared dashboard store, the background poller and the TUI.
// Nothing outside this package constructs a webhook.Client; every consumer
// receives the one built here.
//
// # Startup
//
//	┌──────────────┐
//	│   Run()      │
//	└──────┬───────┘
//	       │
//	       ├─────> config.Load()        TOML file, .env, environment
//	       ├─────> Validate()           missing base URL is fatal
//	       ├─────> newLogger()          logrus to the log file
//	       ├─────> initSentry()         only when a DSN is set
//	       ├─────> webhook.New()        client + Prometheus collectors
//	       ├─────> serveOps()           /metrics and /healthz (optional)
//	       ├─────> Poller.Start()       background dashboard refresh
//	       └─────> ui.Run()             TUI (blocks)
//
// # Polling
//
// The poller fetches stats for the store's current time frame plus the
// campaign list, then writes both to the store in one Update. On failure it
// keeps the previous data, records the error and doubles its wait for each
// consecutive failure up to maxBackoff. The UI calls Refresh after changing
// the time frame so the dashboard does not wait for the next tick.
//
// # Errors
//
// Configuration problems and an unwritable log file are returned from Run.
// Everything after startup is logged: a failing poll, a metrics listener that
// cannot bind, a Sentry DSN that does not parse.
package app
