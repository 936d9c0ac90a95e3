// internal/observability/metrics.go
package observability

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	registerOnce sync.Once

	polls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mapper",
			Subsystem: "poll",
			Name:      "cycles_total",
			Help:      "Total poll cycles.",
		},
		[]string{"record", "success"},
	)
	pollDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mapper",
			Subsystem: "poll",
			Name:      "duration_seconds",
			Help:      "Poll cycle duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"record"},
	)
	frames = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mapper",
			Subsystem: "writer",
			Name:      "frames_total",
			Help:      "Frames delivered to the device.",
		},
		[]string{"area", "success"},
	)
	secondsInError = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "mapper",
			Subsystem: "status",
			Name:      "seconds_in_error",
			Help:      "Seconds the device has been in error.",
		},
		[]string{"record"},
	)
)

func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(polls, pollDuration, frames, secondsInError)
	})
}

func RecordPoll(record string, duration time.Duration, err error) {
	RegisterMetrics()
	polls.WithLabelValues(record, strconv.FormatBool(err == nil)).Inc()
	pollDuration.WithLabelValues(record).Observe(duration.Seconds())
}

// RecordFrame counts one delivered frame; area is "registers" or "coils".
func RecordFrame(area string, err error) {
	RegisterMetrics()
	frames.WithLabelValues(area, strconv.FormatBool(err == nil)).Inc()
}

func RecordSecondsInError(record string, seconds uint16) {
	RegisterMetrics()
	secondsInError.WithLabelValues(record).Set(float64(seconds))
}

// Serve exposes /metrics on listen until the server fails.
func Serve(listen string) error {
	RegisterMetrics()

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              listen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	log.Info().Str("listen", listen).Msg("metrics endpoint up")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
