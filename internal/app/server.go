package app

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/five82/callboard/internal/state"
)

const shutdownTimeout = 5 * time.Second

// newOpsRouter serves /metrics from reg and /healthz from the dashboard
// snapshot. Health turns 503 once the backend is considered offline.
func newOpsRouter(reg *prometheus.Registry, store *state.Store) http.Handler {
	requests := promauto.With(reg).NewCounterVec(
		prometheus.CounterOpts{
			Name: "callboard_http_requests_total",
			Help: "Requests served by the metrics and health listener.",
		},
		[]string{"method", "path", "status"},
	)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, req.ProtoMajor)
			next.ServeHTTP(ww, req)
			path := req.URL.Path
			if rctx := chi.RouteContext(req.Context()); rctx != nil && rctx.RoutePattern() != "" {
				path = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			requests.WithLabelValues(req.Method, path, strconv.Itoa(status)).Inc()
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		snap := store.Snapshot()
		if snap.IsOffline() {
			w.WriteHeader(http.StatusServiceUnavailable)
			msg := "backend offline"
			if snap.LastError != nil {
				msg += ": " + snap.LastError.Error()
			}
			_, _ = w.Write([]byte(msg + "\n"))
			return
		}
		_, _ = w.Write([]byte("ok\n"))
	})
	return r
}

// serveOps runs the listener until ctx is cancelled. Failures are logged and
// never take the TUI down.
func serveOps(ctx context.Context, addr string, handler http.Handler, log logrus.FieldLogger) {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("metrics listener starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).WithField("addr", addr).Error("metrics listener failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.WithError(err).Warn("metrics listener shutdown")
		}
	}()
}
