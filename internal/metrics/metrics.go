package metrics

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

// Simulation outcomes used as the simulations_total label. Anything else
// passed to RecordSimulation is folded into "other" to bound cardinality.
const (
	OutcomeOK           = "ok"
	OutcomeInvalidInput = "invalid_input"
	OutcomeDivergence   = "divergence"
)

var (
	simulationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trajsim_simulations_total",
			Help: "Total number of simulation runs by outcome.",
		},
		[]string{"outcome"},
	)

	simulationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trajsim_simulation_duration_seconds",
			Help:    "Wall time of a single simulation run.",
			Buckets: prometheus.ExponentialBuckets(1e-5, 4, 8),
		},
	)

	integrationSteps = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "trajsim_integration_steps",
			Help:    "Accepted integrator steps per successful run.",
			Buckets: prometheus.ExponentialBuckets(8, 2, 9),
		},
	)

	shotsScoredTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trajsim_shots_scored_total",
			Help: "Total number of evaluated shots that scored, by port.",
		},
		[]string{"port"},
	)

	sweepsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trajsim_sweeps_total",
			Help: "Total number of parameter sweeps.",
		},
	)

	sweepRunsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "trajsim_sweep_runs_total",
			Help: "Total number of simulation runs driven by sweeps.",
		},
	)

	sweepWorkersActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "trajsim_sweep_workers_active",
			Help: "Size of the sweep worker pool.",
		},
	)
)

func init() {
	prometheus.MustRegister(simulationsTotal)
	prometheus.MustRegister(simulationSeconds)
	prometheus.MustRegister(integrationSteps)
	prometheus.MustRegister(shotsScoredTotal)
	prometheus.MustRegister(sweepsTotal)
	prometheus.MustRegister(sweepRunsTotal)
	prometheus.MustRegister(sweepWorkersActive)
}

// normalizeOutcome keeps the outcome label set closed: unknown strings
// collapse to "other" instead of creating new time series.
func normalizeOutcome(outcome string) string {
	switch outcome {
	case OutcomeOK, OutcomeInvalidInput, OutcomeDivergence:
		return outcome
	}
	return "other"
}

// RecordSimulation records one simulation run. Steps and duration are only
// observed for successful runs.
func RecordSimulation(duration time.Duration, steps int, outcome string) {
	outcome = normalizeOutcome(outcome)
	simulationsTotal.WithLabelValues(outcome).Inc()
	if outcome == OutcomeOK {
		simulationSeconds.Observe(duration.Seconds())
		integrationSteps.Observe(float64(steps))
	}
}

// RecordShot records the scoring result of one evaluated shot.
func RecordShot(outerScored, innerScored bool) {
	if outerScored {
		shotsScoredTotal.WithLabelValues("outer").Inc()
	}
	if innerScored {
		shotsScoredTotal.WithLabelValues("inner").Inc()
	}
}

// RecordSweep records a completed sweep of the given size.
func RecordSweep(runs int) {
	sweepsTotal.Inc()
	sweepRunsTotal.Add(float64(runs))
}

// SetSweepWorkersActive records the sweep worker pool size.
func SetSweepWorkersActive(n int) {
	sweepWorkersActive.Set(float64(n))
}

// Snapshot logs the current value of every trajsim metric. Batch runs call
// this on exit in place of an exposition endpoint.
func Snapshot(logger *slog.Logger) {
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		logger.Warn("metrics gather failed", "error", err)
		return
	}

	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "trajsim_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			attrs := []any{"name", mf.GetName()}
			if lbls := labelString(m); lbls != "" {
				attrs = append(attrs, "labels", lbls)
			}
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				attrs = append(attrs, "value", m.GetCounter().GetValue())
			case dto.MetricType_GAUGE:
				attrs = append(attrs, "value", m.GetGauge().GetValue())
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				attrs = append(attrs, "count", h.GetSampleCount(), "sum", h.GetSampleSum())
			default:
				continue
			}
			logger.Info("metric", attrs...)
		}
	}
}

func labelString(m *dto.Metric) string {
	if len(m.GetLabel()) == 0 {
		return ""
	}
	parts := make([]string, 0, len(m.GetLabel()))
	for _, lp := range m.GetLabel() {
		parts = append(parts, lp.GetName()+"="+lp.GetValue())
	}
	sort.Strings(parts)
	return strings.Join(parts, ",")
}
