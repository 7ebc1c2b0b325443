// Package telemetry provides Prometheus metrics, OpenTelemetry tracing and
// correlation-id aware logging helpers.
package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Probe outcomes recorded in ProbesTotal.
const (
	ResultLive    = "live"
	ResultOffline = "offline"
	ResultError   = "error"
)

var (
	once sync.Once

	// Counters
	ProbesTotal         *prometheus.CounterVec
	NotificationsTotal  *prometheus.CounterVec
	NotifyFailuresTotal *prometheus.CounterVec
	TicksTotal          prometheus.Counter

	// Histograms (seconds)
	ProbeDuration *prometheus.HistogramVec
	TickDuration  prometheus.Observer

	// Gauges
	LiveCreators     *prometheus.GaugeVec
	SchedulerRunning prometheus.Gauge // 1=running,0=waiting or stopped
)

// Init registers metrics (idempotent).
func Init() {
	once.Do(func() {
		ProbesTotal = promauto.NewCounterVec(prometheus.CounterOpts{Name: "watch_probes_total", Help: "Probes performed by platform and result"}, []string{"platform", "result"})
		NotificationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{Name: "watch_notifications_total", Help: "Went-live notifications emitted"}, []string{"platform"})
		NotifyFailuresTotal = promauto.NewCounterVec(prometheus.CounterOpts{Name: "watch_notify_failures_total", Help: "Notifications the chat sink failed to deliver"}, []string{"platform", "kind"})
		TicksTotal = promauto.NewCounter(prometheus.CounterOpts{Name: "watch_ticks_total", Help: "Completed poll ticks"})
		ProbeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{Name: "watch_probe_duration_seconds", Help: "Probe duration seconds", Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30}}, []string{"platform"})
		TickDuration = promauto.NewHistogram(prometheus.HistogramOpts{Name: "watch_tick_duration_seconds", Help: "Full tick duration seconds", Buckets: []float64{.5, 1, 2.5, 5, 10, 30, 60, 120}})
		LiveCreators = promauto.NewGaugeVec(prometheus.GaugeOpts{Name: "watch_live_creators", Help: "Creators currently believed live"}, []string{"platform"})
		SchedulerRunning = promauto.NewGauge(prometheus.GaugeOpts{Name: "watch_scheduler_running", Help: "Poll scheduler running=1 otherwise 0"})
	})
}

// RecordProbe counts a probe outcome.
func RecordProbe(platform, result string) {
	if ProbesTotal != nil {
		ProbesTotal.WithLabelValues(platform, result).Inc()
	}
}

// ProbeObserver returns the duration histogram for platform, or nil before Init.
func ProbeObserver(platform string) prometheus.Observer {
	if ProbeDuration == nil {
		return nil
	}
	return ProbeDuration.WithLabelValues(platform)
}

// RecordNotification counts an emitted notification.
func RecordNotification(platform string) {
	if NotificationsTotal != nil {
		NotificationsTotal.WithLabelValues(platform).Inc()
	}
}

// RecordNotifyFailure counts a sink failure of the given kind.
func RecordNotifyFailure(platform, kind string) {
	if NotifyFailuresTotal != nil {
		NotifyFailuresTotal.WithLabelValues(platform, kind).Inc()
	}
}

// SetLiveCreators records current membership size for a platform.
func SetLiveCreators(platform string, n int) {
	if LiveCreators != nil {
		LiveCreators.WithLabelValues(platform).Set(float64(n))
	}
}

// SetSchedulerRunning sets gauge to 1 if running else 0.
func SetSchedulerRunning(running bool) {
	if SchedulerRunning == nil {
		return
	}
	if running {
		SchedulerRunning.Set(1)
	} else {
		SchedulerRunning.Set(0)
	}
}

// TimeFunc measures the duration of fn and records in observer if non-nil.
func TimeFunc(obs prometheus.Observer, fn func()) time.Duration {
	start := time.Now()
	fn()
	d := time.Since(start)
	if obs != nil {
		obs.Observe(d.Seconds())
	}
	return d
}

// Correlation ID helpers ----------------------------------------------------
type corrKeyType struct{}

var corrKey corrKeyType

// WithCorrelation returns a new context embedding the correlation id.
func WithCorrelation(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, corrKey, id)
}

// GetCorrelation returns correlation id or empty string.
func GetCorrelation(ctx context.Context) string {
	if s, ok := ctx.Value(corrKey).(string); ok {
		return s
	}
	return ""
}

// LoggerWithCorr returns a logger with corr attribute if present.
func LoggerWithCorr(ctx context.Context) *slog.Logger {
	if id := GetCorrelation(ctx); id != "" {
		return slog.Default().With(slog.String("corr", id))
	}
	return slog.Default()
}
