package state

import (
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/five82/callboard/internal/webhook"
)

// Snapshot represents the latest dashboard data available to the UI.
type Snapshot struct {
	Stats               webhook.Stats
	HasStats            bool
	Campaigns           []webhook.Campaign
	TimeFrame           webhook.TimeFrame // frame the stats were fetched for
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive poll failures
}

// IsOffline returns true when the backend has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu        sync.RWMutex
	snapshot  Snapshot
	timeFrame webhook.TimeFrame
}

// NewStore returns a store whose poller requests stats for tf.
func NewStore(tf webhook.TimeFrame) *Store {
	return &Store{timeFrame: tf}
}

// TimeFrame returns the frame the poller should request next.
func (s *Store) TimeFrame() webhook.TimeFrame {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.timeFrame == "" {
		return webhook.TimeFrameLast7Days
	}
	return s.timeFrame
}

// SetTimeFrame changes the frame requested by subsequent polls.
func (s *Store) SetTimeFrame(tf webhook.TimeFrame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timeFrame = tf
}

// Update replaces the stored snapshot. When err is non-nil the previous data is
// kept but the error is recorded for visibility.
func (s *Store) Update(tf webhook.TimeFrame, stats *webhook.Stats, campaigns []webhook.Campaign, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.LastUpdated = time.Now()
		s.snapshot.ConsecutiveFailures++
		return
	}

	s.snapshot.Campaigns = slices.Clone(campaigns)
	if stats != nil {
		s.snapshot.Stats = cloneStats(*stats)
		s.snapshot.HasStats = true
	} else {
		s.snapshot.Stats = webhook.Stats{}
		s.snapshot.HasStats = false
	}
	s.snapshot.TimeFrame = tf
	s.snapshot.LastError = nil
	s.snapshot.LastUpdated = time.Now()
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	snap.Campaigns = slices.Clone(s.snapshot.Campaigns)
	snap.Stats = cloneStats(s.snapshot.Stats)
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}

func cloneStats(st webhook.Stats) webhook.Stats {
	st.DailyStats = slices.Clone(st.DailyStats)
	st.DispositionBreakdown = maps.Clone(st.DispositionBreakdown)
	st.CampaignBreakdown = maps.Clone(st.CampaignBreakdown)
	return st
}
