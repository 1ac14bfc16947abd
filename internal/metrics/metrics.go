package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

var (
	// Registry is the dedicated Prometheus registry for the engine
	Registry = prometheus.NewRegistry()
	// InsertionEvaluations counts insertion queries by outcome (feasible, infeasible)
	InsertionEvaluations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vrp_insertion_evaluations_total", Help: "Insertion evaluations by outcome."},
		[]string{"outcome"},
	)
	// InsertionDuration records the wall time of one evaluation round in seconds
	InsertionDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{Name: "vrp_insertion_round_duration_seconds", Help: "Duration of one insertion round in seconds.", Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1, 5}},
		[]string{"phase"},
	)
	// JobsInserted counts applied insertions by job kind
	JobsInserted = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "vrp_jobs_inserted_total", Help: "Jobs inserted by job kind."},
		[]string{"kind"},
	)
	// StateRescans counts full recomputations of route-level load state
	StateRescans = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "vrp_state_rescans_total", Help: "Full route load rescans."},
	)
	// UnassignedJobs is the number of jobs left out after the last phase
	UnassignedJobs = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "vrp_unassigned_jobs", Help: "Jobs left unassigned after the last phase."},
	)
	// FixCostRatio is the current weight of absolute fixed costs
	FixCostRatio = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "vrp_fix_cost_ratio", Help: "Completeness ratio used to weigh vehicle fixed costs."},
	)
)

// RegisterDefault registers collectors to the engine registry.
func RegisterDefault() {
	regOnce.Do(func() {
		Registry.MustRegister(InsertionEvaluations)
		Registry.MustRegister(InsertionDuration)
		Registry.MustRegister(JobsInserted)
		Registry.MustRegister(StateRescans)
		Registry.MustRegister(UnassignedJobs)
		Registry.MustRegister(FixCostRatio)
		// Go/process collectors on our registry
		Registry.MustRegister(collectors.NewGoCollector())
		Registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	})
}

var regOnce sync.Once
