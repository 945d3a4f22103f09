// Package metrics records stage latency and outcome counters for one CLI run.
// A nil *Recorder is valid and records nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "drive_digest"

type Recorder struct {
	registry      *prometheus.Registry
	stageDuration *prometheus.HistogramVec
	extractions   *prometheus.CounterVec
	summaries     *prometheus.CounterVec
	deliveries    *prometheus.CounterVec
}

// NewRecorder registers the collectors on a private registry.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		stageDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "stage_duration_seconds",
				Help:      "Duration of pipeline stages in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 14), // 10ms to ~80s
			},
			[]string{"stage", "format"},
		),
		extractions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "extractions_total",
				Help:      "Extraction attempts by format and outcome",
			},
			[]string{"format", "status"},
		),
		summaries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "summaries_total",
				Help:      "Summarization attempts by format and outcome",
			},
			[]string{"format", "status"},
		),
		deliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "deliveries_total",
				Help:      "Email deliveries by channel and outcome",
			},
			[]string{"channel", "status"},
		),
	}
	r.registry.MustRegister(r.stageDuration, r.extractions, r.summaries, r.deliveries)
	return r
}

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "failed"
}

// ObserveStage records how long one stage took.
func (r *Recorder) ObserveStage(stage, format string, d time.Duration) {
	if r == nil {
		return
	}
	r.stageDuration.WithLabelValues(stage, format).Observe(d.Seconds())
}

// CountExtraction counts one extraction.
func (r *Recorder) CountExtraction(format string, ok bool) {
	if r == nil {
		return
	}
	r.extractions.WithLabelValues(format, outcome(ok)).Inc()
}

// CountSummary counts one summarization.
func (r *Recorder) CountSummary(format string, ok bool) {
	if r == nil {
		return
	}
	r.summaries.WithLabelValues(format, outcome(ok)).Inc()
}

// CountDelivery counts one send.
func (r *Recorder) CountDelivery(channel string, ok bool) {
	if r == nil {
		return
	}
	r.deliveries.WithLabelValues(channel, outcome(ok)).Inc()
}

// Gatherer exposes the registry, mainly for tests.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	if r == nil {
		return prometheus.NewRegistry()
	}
	return r.registry
}

// WriteTextfile writes the registry in the text exposition format, for the
// node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics textfile: %w", err)
	}
	return nil
}
