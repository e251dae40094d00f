package app

import (
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

const sentryFlushTimeout = 2 * time.Second

// initSentry enables error reporting and hooks it into logger so every Error
// entry is sent. The returned func flushes pending events.
func initSentry(dsn, release string, logger *logrus.Logger) (func(), error) {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Release:          release,
		AttachStacktrace: true,
	})
	if err != nil {
		return func() {}, fmt.Errorf("sentry init: %w", err)
	}
	logger.AddHook(&sentryHook{hub: sentry.CurrentHub()})
	logger.Info("sentry error reporting enabled")
	return func() { sentry.Flush(sentryFlushTimeout) }, nil
}

type sentryHook struct {
	hub *sentry.Hub
}

func (h *sentryHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel}
}

func (h *sentryHook) Fire(entry *logrus.Entry) error {
	extras := sentry.Context{}
	var cause error
	for k, v := range entry.Data {
		if k == logrus.ErrorKey {
			if err, ok := v.(error); ok {
				cause = err
				continue
			}
		}
		extras[k] = fmt.Sprint(v)
	}

	h.hub.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		scope.SetContext("log", extras)
		scope.SetTag("message", entry.Message)
		if cause == nil {
			h.hub.CaptureMessage(entry.Message)
			return
		}
		h.hub.CaptureException(fmt.Errorf("%s: %w", entry.Message, cause))
	})
	return nil
}
