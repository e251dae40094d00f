package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"

	"github.com/five82/callboard/internal/config"
	"github.com/five82/callboard/internal/prefs"
	"github.com/five82/callboard/internal/state"
	"github.com/five82/callboard/internal/ui"
	"github.com/five82/callboard/internal/webhook"
)

// Options configure the callboard application. Non-zero fields override the
// loaded configuration.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/callboard/prefs.toml
	PollEvery  int    // seconds; zero uses config
	BaseURL    string
	Version    string
}

// Run boots the callboard TUI until the context is cancelled or the user quits.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if v := strings.TrimSpace(opts.BaseURL); v != "" {
		cfg.BaseURL = v
	}
	if opts.PollEvery > 0 {
		cfg.PollInterval = time.Duration(opts.PollEvery) * time.Second
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, logFile, err := newLogger(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer logFile.Close()

	if cfg.SentryDSN != "" {
		flush, err := initSentry(cfg.SentryDSN, opts.Version, logger)
		if err != nil {
			logger.WithError(err).Warn("error reporting disabled")
		}
		defer flush()
	}

	userPrefs, err := prefs.Load(opts.PrefsPath)
	if err != nil {
		logger.WithError(err).Warn("using default preferences")
	}
	pageSize := cfg.PageSize
	if userPrefs.PageSize > 0 {
		pageSize = userPrefs.PageSize
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	client, err := webhook.New(webhook.Options{
		BaseURL:       cfg.BaseURL,
		Timeout:       cfg.Timeout,
		UploadTimeout: cfg.UploadTimeout,
		RetryAttempts: cfg.RetryAttempts,
		RetryWrites:   cfg.RetryWrites,
		PageSize:      pageSize,
		CacheTTL:      cfg.CacheTTL,
		UserAgent:     userAgent(opts.Version),
		Logger:        logger.WithField("component", "webhook"),
		Metrics:       webhook.NewMetrics(reg),
	})
	if err != nil {
		return fmt.Errorf("init webhook client: %w", err)
	}

	tf := webhook.TimeFrame(userPrefs.TimeFrame)
	if !tf.Valid() || tf == webhook.TimeFrameCustom {
		tf = webhook.TimeFrameLast7Days
	}
	store := state.NewStore(tf)

	if cfg.MetricsAddr != "" {
		serveOps(ctx, cfg.MetricsAddr, newOpsRouter(reg, store), logger)
	}

	poller := NewPoller(store, client, cfg.PollInterval, logger)
	poller.Start(ctx)

	logger.WithFields(logrus.Fields{
		"base_url": client.BaseURL(),
		"poll":     cfg.PollInterval.String(),
	}).Info("callboard started")
	defer logger.Info("callboard stopped")

	return ui.Run(ui.Options{
		Context:   ctx,
		Client:    client,
		Store:     store,
		Config:    &cfg,
		Prefs:     userPrefs,
		PrefsPath: opts.PrefsPath,
		Refresh:   poller.Refresh,
		Logger:    logger.WithField("component", "ui"),
	})
}

func userAgent(version string) string {
	if version == "" {
		return ""
	}
	return "callboard/" + version
}
