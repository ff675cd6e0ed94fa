// Package metrics records per-run Prometheus metrics for the node exporter
// textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/Ramsey-B/fern/pkg/models"
)

const namespace = "fern"

// Run holds the metrics of a single invocation on a private registry, so a
// textfile only ever contains fern series
type Run struct {
	registry *prometheus.Registry

	// Records counts records by outcome
	Records *prometheus.GaugeVec
	// Groups counts domain groups of two or more records by whether a parent was chosen
	Groups *prometheus.GaugeVec
	// PatchesSkipped counts classifications refused because the record was already classified
	PatchesSkipped prometheus.Gauge
	// StageDuration tracks how long each stage took in seconds
	StageDuration *prometheus.GaugeVec
	// SideSinkEvents counts what each side sink emitted
	SideSinkEvents *prometheus.CounterVec
	// LastSuccess is the unix time of the last successful run
	LastSuccess prometheus.Gauge
}

// NewRun registers the run metrics on a fresh registry
func NewRun() *Run {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Run{
		registry: reg,
		Records: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "resolve",
				Name:      "records",
				Help:      "Number of records in the last run by outcome",
			},
			[]string{"outcome"},
		),
		Groups: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "resolve",
				Name:      "domain_groups",
				Help:      "Number of multi-record domain groups in the last run",
			},
			[]string{"parent"},
		),
		PatchesSkipped: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "resolve",
				Name:      "patches_skipped",
				Help:      "Classifications skipped because the record was already classified",
			},
		),
		StageDuration: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "stage_duration_seconds",
				Help:      "Duration of each stage of the last run in seconds",
			},
			[]string{"stage"},
		),
		SideSinkEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sink",
				Name:      "events_total",
				Help:      "Events emitted to side sinks in the last run",
			},
			[]string{"sink"},
		),
		LastSuccess: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: "run",
				Name:      "last_success_timestamp_seconds",
				Help:      "Unix time of the last successful run",
			},
		),
	}
}

// ObserveSummary records outcome and group counts
func (r *Run) ObserveSummary(s models.Summary) {
	for _, o := range models.Outcomes {
		r.Records.WithLabelValues(o.String()).Set(float64(s.Count(o)))
	}
	r.Groups.WithLabelValues("true").Set(float64(s.GroupsWithParent))
	r.Groups.WithLabelValues("false").Set(float64(s.GroupsWithoutParent))
	r.PatchesSkipped.Set(float64(s.PatchesSkipped))
}

// ObserveStage records the duration of a stage such as read or write
func (r *Run) ObserveStage(stage string, d time.Duration) {
	r.StageDuration.WithLabelValues(stage).Set(d.Seconds())
}

// ObserveSideSink adds to the events emitted by a side sink
func (r *Run) ObserveSideSink(sink string, events int) {
	r.SideSinkEvents.WithLabelValues(sink).Add(float64(events))
}

// MarkSuccess stamps the completion time
func (r *Run) MarkSuccess(at time.Time) {
	r.LastSuccess.Set(float64(at.Unix()))
}

// Registry exposes the underlying registry
func (r *Run) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the registry in the text exposition format. The file
// is replaced atomically.
func (r *Run) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
