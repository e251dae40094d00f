package state

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/five82/callboard/internal/webhook"
)

func sampleStats() *webhook.Stats {
	return &webhook.Stats{
		Totals:               webhook.StatsTotals{TotalCalls: 12},
		DailyStats:           []webhook.DailyStat{{Date: "2025-12-18", Calls: 5}},
		DispositionBreakdown: map[string]webhook.FlexInt{"Answered": 4},
	}
}

func TestStore_UpdateAndSnapshotClone(t *testing.T) {
	s := NewStore(webhook.TimeFrameToday)

	campaigns := []webhook.Campaign{{ID: "c1"}, {ID: "c2"}}

	before := time.Now()
	s.Update(webhook.TimeFrameToday, sampleStats(), campaigns, nil)

	snap := s.Snapshot()
	if !snap.HasStats || snap.Stats.Totals.TotalCalls != 12 {
		t.Fatalf("snapshot stats = %#v, want total_calls=12 HasStats=true", snap.Stats)
	}
	if snap.TimeFrame != webhook.TimeFrameToday {
		t.Fatalf("TimeFrame = %q, want today", snap.TimeFrame)
	}
	if len(snap.Campaigns) != 2 || snap.Campaigns[0].ID != "c1" {
		t.Fatalf("snapshot campaigns = %#v, want 2 items", snap.Campaigns)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError != nil {
		t.Fatalf("LastError = %v, want nil", snap.LastError)
	}

	// Returned snapshot should be independent of the stored one.
	snap.Campaigns[0].ID = "mutated"
	snap.Stats.DispositionBreakdown["Answered"] = 99
	snap.Stats.DailyStats[0].Calls = 99
	snap2 := s.Snapshot()
	if snap2.Campaigns[0].ID != "c1" {
		t.Fatalf("Snapshot should clone campaigns; got id %q want c1", snap2.Campaigns[0].ID)
	}
	if snap2.Stats.DispositionBreakdown["Answered"] != 4 || snap2.Stats.DailyStats[0].Calls != 5 {
		t.Fatalf("Snapshot should clone stats; got %#v", snap2.Stats)
	}

	// Mutating the input after Update must not leak in either.
	campaigns[1].ID = "changed"
	if s.Snapshot().Campaigns[1].ID != "c2" {
		t.Fatal("Update should clone campaigns")
	}
}

func TestStore_UpdateErrorKeepsPreviousData(t *testing.T) {
	var s Store

	s.Update(webhook.TimeFrameLast7Days, sampleStats(), []webhook.Campaign{{ID: "c1"}}, nil)
	prev := s.Snapshot()

	before := time.Now()
	origErr := errors.New("boom")
	s.Update(webhook.TimeFrameLast30Days, nil, nil, origErr)

	snap := s.Snapshot()
	if snap.HasStats != prev.HasStats || snap.Stats.Totals.TotalCalls != prev.Stats.Totals.TotalCalls {
		t.Fatalf("stats changed on error: got %#v want %#v", snap.Stats, prev.Stats)
	}
	if snap.TimeFrame != webhook.TimeFrameLast7Days {
		t.Fatalf("TimeFrame = %q, want the frame of the last good data", snap.TimeFrame)
	}
	if len(snap.Campaigns) != 1 || snap.Campaigns[0].ID != "c1" {
		t.Fatalf("campaigns changed on error: got %#v", snap.Campaigns)
	}
	if snap.LastUpdated.Before(before) {
		t.Fatalf("LastUpdated = %v, want >= %v", snap.LastUpdated, before)
	}
	if snap.LastError == nil || snap.LastError.Error() != "boom" {
		t.Fatalf("LastError = %v, want boom", snap.LastError)
	}
	if reflect.ValueOf(snap.LastError).Pointer() == reflect.ValueOf(origErr).Pointer() {
		t.Fatalf("Snapshot should clone error instance")
	}
	if !errors.Is(snap.LastError, origErr) {
		t.Fatal("cloned error should still wrap the original")
	}
}

func TestStore_ConsecutiveFailures(t *testing.T) {
	var s Store

	if snap := s.Snapshot(); snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("fresh store = %d failures offline=%v, want 0/false", snap.ConsecutiveFailures, snap.IsOffline())
	}

	for i, wantOffline := range []bool{false, true, true} {
		s.Update("", nil, nil, errors.New("fail"))
		snap := s.Snapshot()
		if snap.ConsecutiveFailures != i+1 {
			t.Fatalf("ConsecutiveFailures = %d, want %d", snap.ConsecutiveFailures, i+1)
		}
		if snap.IsOffline() != wantOffline {
			t.Fatalf("IsOffline() = %v after %d failures, want %v", snap.IsOffline(), i+1, wantOffline)
		}
	}

	s.Update(webhook.TimeFrameToday, nil, nil, nil)
	snap := s.Snapshot()
	if snap.ConsecutiveFailures != 0 || snap.IsOffline() {
		t.Fatalf("after success = %d failures offline=%v, want 0/false", snap.ConsecutiveFailures, snap.IsOffline())
	}
	if snap.HasStats {
		t.Fatal("HasStats = true, want false for nil stats")
	}
}

func TestStore_TimeFrame(t *testing.T) {
	var s Store
	if got := s.TimeFrame(); got != webhook.TimeFrameLast7Days {
		t.Fatalf("default TimeFrame = %q, want last7days", got)
	}
	s.SetTimeFrame(webhook.TimeFrameAllTime)
	if got := s.TimeFrame(); got != webhook.TimeFrameAllTime {
		t.Fatalf("TimeFrame = %q, want alltime", got)
	}
}
