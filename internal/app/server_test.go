package app

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/five82/callboard/internal/state"
	"github.com/five82/callboard/internal/webhook"
)

func get(t *testing.T, h http.Handler, path string) (int, string) {
	t.Helper()
	srv := httptest.NewServer(h)
	defer srv.Close()

	resp, err := http.Get(srv.URL + path)
	if err != nil {
		t.Fatalf("GET %s: %v", path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, string(body)
}

func TestOpsRouter_Healthz(t *testing.T) {
	store := state.NewStore("")
	h := newOpsRouter(prometheus.NewRegistry(), store)

	if code, body := get(t, h, "/healthz"); code != http.StatusOK || body != "ok\n" {
		t.Fatalf("healthy = %d %q, want 200 ok", code, body)
	}

	store.Update("", nil, nil, errors.New("dial tcp: connection refused"))
	store.Update("", nil, nil, errors.New("dial tcp: connection refused"))

	code, body := get(t, h, "/healthz")
	if code != http.StatusServiceUnavailable {
		t.Fatalf("offline status = %d, want 503", code)
	}
	if !strings.Contains(body, "connection refused") {
		t.Fatalf("offline body = %q, want last error", body)
	}
}

func TestOpsRouter_MetricsExposesRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()
	webhook.NewMetrics(reg)
	h := newOpsRouter(reg, state.NewStore(""))

	// Hit health once so the request counter has a series.
	get(t, h, "/healthz")

	code, body := get(t, h, "/metrics")
	if code != http.StatusOK {
		t.Fatalf("metrics status = %d", code)
	}
	if !strings.Contains(body, `callboard_http_requests_total{method="GET",path="/healthz",status="200"} 1`) {
		t.Fatalf("metrics missing request counter:\n%s", body)
	}
}
