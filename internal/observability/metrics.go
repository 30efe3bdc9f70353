package observability

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	StreamState = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lookout",
		Name:      "stream_state",
		Help:      "Current live stream state (0 idle, 1 connecting, 2 open, 3 evaluating, 4 given up)",
	})

	StreamConnectAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lookout",
		Name:      "stream_connect_attempts_total",
		Help:      "Total number of stream dial attempts",
	})

	StreamReconnects = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lookout",
		Name:      "stream_reconnects_scheduled_total",
		Help:      "Total number of reconnects scheduled after an error or close",
	})

	StreamGiveUps = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lookout",
		Name:      "stream_give_ups_total",
		Help:      "Number of times the stream exhausted its retry budget",
	})

	StreamRecords = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lookout",
		Name:      "stream_records_total",
		Help:      "Detection records decoded from the live stream",
	}, []string{"object_type"})

	StreamMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lookout",
		Name:      "stream_malformed_total",
		Help:      "Stream messages dropped because they could not be decoded",
	})

	FetchMalformed = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lookout",
		Name:      "fetch_malformed_total",
		Help:      "Detections dropped from a bulk fetch because they could not be decoded",
	})

	LiveMerges = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "lookout",
		Name:      "live_merges_total",
		Help:      "Records prepended to the working set from the live stream",
	})

	WorkingSetSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "lookout",
		Name:      "working_set_size",
		Help:      "Number of detection records held in memory",
	})

	FetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lookout",
		Name:      "fetch_duration_seconds",
		Help:      "Duration of bulk fetch requests",
		Buckets:   prometheus.DefBuckets,
	}, []string{"endpoint"})
)

// ServeMetrics exposes /metrics on addr until ctx is cancelled.
func ServeMetrics(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	slog.Info("metrics listening", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve metrics: %w", err)
	}
	return nil
}
