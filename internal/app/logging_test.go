package app

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/five82/callboard/internal/logtail"
)

func TestNewLogger_WritesLinesLogtailCanParse(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state", "callboard.log")

	logger, closer, err := newLogger(path, "debug")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.WithFields(logrus.Fields{"endpoint": "api/leads", "attempt": 2}).
		WithError(errors.New("connection refused")).
		Warn("retrying request")
	logger.Debug("cache hit")
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	lines, err := logtail.Read(path, 10)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), lines)
	}

	e := logtail.Parse(lines[0])
	if e.Level != "warning" || e.Message != "retrying request" || e.Time.IsZero() {
		t.Fatalf("parsed entry = %#v", e)
	}
	fields := map[string]string{}
	for _, f := range e.Fields {
		fields[f.Key] = f.Value
	}
	if fields["endpoint"] != "api/leads" || fields["attempt"] != "2" || fields["error"] != "connection refused" {
		t.Fatalf("fields = %v", fields)
	}
}

func TestNewLogger_UnknownLevelFallsBackToInfo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "callboard.log")
	logger, closer, err := newLogger(path, "chatty")
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	defer closer.Close()

	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("level = %v, want info", logger.GetLevel())
	}
}
