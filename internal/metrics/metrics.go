package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	SearchRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gobooks_search_requests_total",
		Help: "Total number of volume searches by outcome",
	}, []string{"outcome"})

	SearchDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gobooks_search_duration_seconds",
		Help:    "Duration of volume searches in seconds",
		Buckets: prometheus.DefBuckets,
	})

	StaleResponsesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gobooks_search_stale_total",
		Help: "Search responses discarded because a newer search was issued",
	})

	DebouncedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gobooks_search_debounced_total",
		Help: "Debounce timers cancelled before they fired",
	})
)

// Serve exposes /metrics on addr until ctx is done.
func Serve(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	go func() {
		logrus.WithField("addr", addr).Info("metrics listener started")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.WithError(err).Error("metrics listener failed")
		}
	}()
}
