// Package ui provides the callboard terminal dashboard.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea model. The background poller keeps
// state.Store current with stats and campaigns; every other screen talks to
// the webhook backend directly through commands, so a slow request never
// blocks rendering.
//
// # Package Structure
//
//   - model.go: Model, messages, view switching and the Run entry point
//   - input_handlers.go: key routing (modal, help, globals, current view)
//   - keys.go / help.go: key bindings and the help overlay
//   - header.go: status line, tabs and the footer command bar
//   - dashboard.go, leads.go, calls.go, campaigns.go, upload.go,
//     settings.go, logs.go: one file per screen
//   - lead_form.go / modal.go: dialogs (confirm, picker, input, lead form)
//   - theme.go, box.go, layout.go, style_helpers.go, format.go: rendering helpers
//   - errors.go: maps webhook failures onto titles and hints
//
// # Views
//
//   - Dashboard: headline stats for the selected time frame, breakdowns and the daily recap
//   - Leads: paged, filterable lead list with create, edit, status, delete and call actions
//   - Calls: paged call history filtered by period, disposition, campaign or search
//   - Campaigns: campaign cards with lead totals and completion
//   - Upload: CSV/XLSX bulk upload with column checks and a preview
//   - Settings: effective configuration and a connection test
//   - Logs: tail of callboard's own log file with level and text filters
//
// # Event Flow
//
//  1. Run builds the model and starts the program with the caller's context
//  2. A UI tick re-reads the store snapshot and expires toasts
//  3. Keys open modals or return commands that call the backend
//  4. Results come back as messages; listings drop responses to stale requests
//  5. Successful writes show a toast, ask the poller to refresh and refetch the
//     listing past the read cache; other loaded listings reload on next visit
//
// # Usage Example
//
//	err := ui.Run(ui.Options{
//		Context: ctx,
//		Client:  client,
//		Store:   store,
//		Config:  &cfg,
//		Prefs:   p,
//		Refresh: poller.Refresh,
//		Logger:  log,
//	})
package ui
