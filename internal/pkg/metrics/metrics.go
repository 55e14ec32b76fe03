// Package metrics exports assembly statistics to Prometheus. A nil *Recorder
// records nothing.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcomes of an assembly run.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

type Recorder struct {
	runs        *prometheus.CounterVec
	shapes      prometheus.Counter
	connections prometheus.Counter
	warnings    prometheus.Counter
	mergedLoads prometheus.Counter
	duration    prometheus.Histogram
}

// New registers the assembly metrics with reg.
func New(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dyn_assembler_runs_total",
				Help: "Number of assembly runs by outcome.",
			},
			[]string{"outcome"},
		),
		shapes: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dyn_assembler_shapes_created_total",
				Help: "Total number of connector shapes created.",
			},
		),
		connections: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dyn_assembler_connections_created_total",
				Help: "Total number of connections created.",
			},
		),
		warnings: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dyn_assembler_warnings_total",
				Help: "Total number of lenient mode warnings.",
			},
		),
		mergedLoads: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "dyn_loadmerge_loads_merged_total",
				Help: "Total number of loads replaced by aggregates.",
			},
		),
		duration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "dyn_assembler_run_duration_seconds",
				Help:    "Time taken to assemble the connection graph.",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
	for _, c := range []prometheus.Collector{r.runs, r.shapes, r.connections, r.warnings, r.mergedLoads, r.duration} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ObserveRun records the outcome and duration of one run.
func (r *Recorder) ObserveRun(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.runs.WithLabelValues(outcome).Inc()
	r.duration.Observe(d.Seconds())
}

func (r *Recorder) AddShapes(n int) {
	if r == nil {
		return
	}
	r.shapes.Add(float64(n))
}

func (r *Recorder) AddConnections(n int) {
	if r == nil {
		return
	}
	r.connections.Add(float64(n))
}

func (r *Recorder) AddWarnings(n int) {
	if r == nil {
		return
	}
	r.warnings.Add(float64(n))
}

func (r *Recorder) AddMergedLoads(n int) {
	if r == nil {
		return
	}
	r.mergedLoads.Add(float64(n))
}
