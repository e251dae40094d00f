package app

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/five82/callboard/internal/state"
	"github.com/five82/callboard/internal/webhook"
)

const (
	defaultPollInterval = 30 * time.Second
	maxBackoff          = 5 * time.Minute
)

// dashboardSource is the slice of the webhook client the poller needs.
type dashboardSource interface {
	GetStats(ctx context.Context, query webhook.StatsQuery) (*webhook.Stats, error)
	GetCampaigns(ctx context.Context, includeStats bool) (*webhook.CampaignsResponse, error)
}

// Poller keeps the dashboard snapshot fresh in the background.
type Poller struct {
	store    *state.Store
	source   dashboardSource
	interval time.Duration
	log      logrus.FieldLogger
	kick     chan struct{}
}

// NewPoller builds a poller; Start launches it.
func NewPoller(store *state.Store, source dashboardSource, interval time.Duration, log logrus.FieldLogger) *Poller {
	if interval <= 0 {
		interval = defaultPollInterval
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Poller{
		store:    store,
		source:   source,
		interval: interval,
		log:      log.WithField("component", "poller"),
		kick:     make(chan struct{}, 1),
	}
}

// Start launches a background goroutine that refreshes the store until ctx is
// cancelled. After failures the wait grows exponentially up to maxBackoff.
// It returns immediately.
func (p *Poller) Start(ctx context.Context) {
	go func() {
		for {
			p.refresh(ctx)

			wait := calculateBackoff(p.store.Snapshot().ConsecutiveFailures, p.interval)
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return
			case <-p.kick:
				timer.Stop()
			case <-timer.C:
			}
		}
	}()
}

// Refresh asks the poller to fetch now instead of waiting for the next tick.
// It never blocks; concurrent requests collapse into one.
func (p *Poller) Refresh() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// refresh always reads past the client's cache; the poll interval is the
// dashboard's freshness bound.
func (p *Poller) refresh(ctx context.Context) error {
	ctx = webhook.FreshReads(ctx)
	tf := p.store.TimeFrame()

	stats, err := p.source.GetStats(ctx, webhook.StatsQuery{TimeFrame: tf})
	if err != nil {
		err = fmt.Errorf("fetch stats: %w", err)
		p.store.Update(tf, nil, nil, err)
		p.log.WithError(err).WithField("time_frame", tf).Warn("dashboard poll failed")
		return err
	}
	campaigns, err := p.source.GetCampaigns(ctx, true)
	if err != nil {
		err = fmt.Errorf("fetch campaigns: %w", err)
		p.store.Update(tf, nil, nil, err)
		p.log.WithError(err).Warn("dashboard poll failed")
		return err
	}

	p.store.Update(tf, stats, campaigns.Campaigns, nil)
	p.log.WithFields(logrus.Fields{
		"time_frame": tf,
		"campaigns":  len(campaigns.Campaigns),
	}).Debug("dashboard refreshed")
	return nil
}

// calculateBackoff doubles base for every consecutive failure, capped at maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	d := base
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
