package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// FilesDetectedTotal counts watch events accepted for processing
	FilesDetectedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "videotranscoder_files_detected_total",
			Help: "Total number of source files accepted from the watch directory",
		},
	)

	// OutcomesTotal counts finished pipeline runs.
	// Labels: status (success/skipped_no_audio/failed/rejected)
	OutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "videotranscoder_outcomes_total",
			Help: "Total number of pipeline runs by outcome",
		},
		[]string{"status"},
	)

	// StepDuration observes how long each pipeline step takes.
	// Labels: step (validate/probe_source/prepare_output/convert/transcribe/persist/cleanup)
	StepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "videotranscoder_step_duration_seconds",
			Help:    "Pipeline step duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300, 600, 1800},
		},
		[]string{"step"},
	)

	// RunsInFlight is the number of pipeline runs currently executing
	RunsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "videotranscoder_runs_in_flight",
			Help: "Number of pipeline runs currently executing",
		},
	)

	// WatcherActive is 1 while the watch loop is running
	WatcherActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "videotranscoder_watcher_active",
			Help: "Watch loop status (0=stopped, 1=running)",
		},
	)
)

// RecordOutcome counts one finished run
func RecordOutcome(status string) {
	OutcomesTotal.WithLabelValues(status).Inc()
}

// ObserveStep records the duration of one pipeline step started at start
func ObserveStep(step string, start time.Time) {
	StepDuration.WithLabelValues(step).Observe(time.Since(start).Seconds())
}

// SetWatcherActive mirrors the watch loop state
func SetWatcherActive(active bool) {
	if active {
		WatcherActive.Set(1)
	} else {
		WatcherActive.Set(0)
	}
}
