// Package state holds the UI-facing state shared between the background
// poller and the Bubble Tea views.
//
// # Overview
//
// Store carries the dashboard snapshot: the latest stats for the selected
// time frame plus the campaign list. The poller is its single writer; the UI
// reads copies on every tick.
//
//	Producer (Poller):              Consumer (UI):
//	┌──────────────────┐           ┌──────────────────┐
//	│ GetStats()       │           │                  │
//	│ GetCampaigns()   │           │                  │
//	│      ↓           │           │                  │
//	│ store.Update()   │──────────→│ store.Snapshot() │
//	│      ↓           │  (mutex)  │      ↓           │
//	│  repeat...       │           │  render views    │
//	└──────────────────┘           └──────────────────┘
//
// The time frame flows the other way: the dashboard calls SetTimeFrame and
// the poller reads TimeFrame before each fetch.
//
// # Update Semantics
//
//	// Success: replace stats and campaigns, clear the error
//	store.Update(tf, stats, campaigns, nil)
//
//	// Failure: keep the old data, record the error, count the failure
//	store.Update(tf, nil, nil, err)
//
// Two consecutive failures mark the snapshot offline. Snapshot returns deep
// copies of slices and maps, so views may sort or mutate what they get.
//
// # Pager
//
// Pager is the explicit per-view paging state for the Leads and Calls
// listings. It only moves forward when the server's pagination block says
// there is more and never below page 1. A hasMore the server sent decides on
// its own; without it, page < totalPages does.
package state
