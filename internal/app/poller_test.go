package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/callboard/internal/state"
	"github.com/five82/callboard/internal/webhook"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 30 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 30 * time.Second},
		{"negative failures", -1, 30 * time.Second},
		{"one failure", 1, time.Minute},
		{"two failures", 2, 2 * time.Minute},
		{"three failures", 3, 4 * time.Minute},
		{"four failures capped", 4, 5 * time.Minute}, // Would be 8m, capped to 5m
		{"many failures capped", 40, 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 20; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type fakeSource struct {
	statsErr   error
	campErr    error
	calls      atomic.Int32
	lastFrame  atomic.Value
	staleReads atomic.Int32
}

func (f *fakeSource) GetStats(ctx context.Context, q webhook.StatsQuery) (*webhook.Stats, error) {
	f.calls.Add(1)
	f.lastFrame.Store(q.TimeFrame)
	if !webhook.IsFreshRead(ctx) {
		f.staleReads.Add(1)
	}
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	return &webhook.Stats{Totals: webhook.StatsTotals{TotalCalls: 7}}, nil
}

func (f *fakeSource) GetCampaigns(ctx context.Context, includeStats bool) (*webhook.CampaignsResponse, error) {
	if !webhook.IsFreshRead(ctx) {
		f.staleReads.Add(1)
	}
	if f.campErr != nil {
		return nil, f.campErr
	}
	return &webhook.CampaignsResponse{Campaigns: []webhook.Campaign{{ID: "c1", Name: "Standard 7-Week"}}}, nil
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func TestPoller_RefreshStoresSnapshot(t *testing.T) {
	store := state.NewStore(webhook.TimeFrameToday)
	src := &fakeSource{}
	p := NewPoller(store, src, time.Minute, quietLogger())

	if err := p.refresh(context.Background()); err != nil {
		t.Fatalf("refresh returned error: %v", err)
	}
	snap := store.Snapshot()
	if !snap.HasStats || snap.Stats.Totals.TotalCalls != 7 {
		t.Fatalf("stats = %#v, want total_calls 7", snap.Stats)
	}
	if len(snap.Campaigns) != 1 || snap.TimeFrame != webhook.TimeFrameToday {
		t.Fatalf("snapshot = %#v", snap)
	}
	if got := src.lastFrame.Load(); got != webhook.TimeFrameToday {
		t.Fatalf("requested frame = %v, want today", got)
	}
	if n := src.staleReads.Load(); n != 0 {
		t.Fatalf("%d poller reads allowed the cache, want every read fresh", n)
	}
}

func TestPoller_RefreshReadsPastClientCache(t *testing.T) {
	var statsHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/stats-v2":
			n := statsHits.Add(1)
			fmt.Fprintf(w, `{"totals":{"total_calls":%d}}`, n)
		default:
			_, _ = io.WriteString(w, `{"campaigns":[]}`)
		}
	}))
	t.Cleanup(server.Close)

	client, err := webhook.New(webhook.Options{BaseURL: server.URL, CacheTTL: time.Hour, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("webhook.New: %v", err)
	}
	store := state.NewStore(webhook.TimeFrameToday)
	p := NewPoller(store, client, time.Minute, quietLogger())

	for want := 1; want <= 2; want++ {
		if err := p.refresh(context.Background()); err != nil {
			t.Fatalf("refresh %d: %v", want, err)
		}
		if got := store.Snapshot().Stats.Totals.TotalCalls.Int(); got != want {
			t.Fatalf("refresh %d total_calls = %d, want %d", want, got, want)
		}
	}
}

func TestPoller_RefreshRecordsFailures(t *testing.T) {
	store := state.NewStore("")
	boom := errors.New("boom")
	p := NewPoller(store, &fakeSource{campErr: boom}, time.Minute, quietLogger())

	if err := p.refresh(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("refresh error = %v, want boom", err)
	}
	snap := store.Snapshot()
	if snap.ConsecutiveFailures != 1 || !errors.Is(snap.LastError, boom) {
		t.Fatalf("snapshot = %#v, want one recorded failure", snap)
	}
	if snap.HasStats {
		t.Fatal("partial poll must not publish stats")
	}
}

func TestPoller_RefreshTriggersImmediateFetch(t *testing.T) {
	store := state.NewStore("")
	src := &fakeSource{}
	p := NewPoller(store, src, time.Hour, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	waitFor(t, func() bool { return src.calls.Load() >= 1 })
	p.Refresh()
	waitFor(t, func() bool { return src.calls.Load() >= 2 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
