package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Pipeline holds the Prometheus collectors for qualification runs.
// A nil *Pipeline is valid and records nothing.
type Pipeline struct {
	Registry      *prometheus.Registry
	HitsTotal     prometheus.Counter
	Candidates    prometheus.Counter
	FilterRejects *prometheus.CounterVec
	Verifications *prometheus.CounterVec
	FetchesTotal  *prometheus.CounterVec
	RunsTotal     *prometheus.CounterVec
}

// NewPipeline registers the collectors on a dedicated registry.
func NewPipeline() *Pipeline {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)
	return &Pipeline{
		Registry: reg,
		HitsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "prospector_search_hits_total",
			Help: "The total number of raw search hits received",
		}),
		Candidates: factory.NewCounter(prometheus.CounterOpts{
			Name: "prospector_candidates_total",
			Help: "The total number of hits accepted as candidates",
		}),
		FilterRejects: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prospector_filter_rejects_total",
			Help: "Hits rejected by the candidate filter",
		}, []string{"reason"}),
		Verifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prospector_verifications_total",
			Help: "Candidate verifications by resulting status",
		}, []string{"status", "error"}),
		FetchesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prospector_fetches_total",
			Help: "Page fetches by result",
		}, []string{"result"}),
		RunsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "prospector_runs_total",
			Help: "Pipeline runs by outcome",
		}, []string{"outcome"}),
	}
}

func (m *Pipeline) AddHits(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.HitsTotal.Add(float64(n))
}

func (m *Pipeline) AddCandidates(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.Candidates.Add(float64(n))
}

func (m *Pipeline) AddFilterRejects(reason string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.FilterRejects.WithLabelValues(reason).Add(float64(n))
}

func (m *Pipeline) ObserveVerification(status, errorKind string) {
	if m == nil {
		return
	}
	if errorKind == "" {
		errorKind = "none"
	}
	m.Verifications.WithLabelValues(status, errorKind).Inc()
}

func (m *Pipeline) ObserveFetch(ok bool) {
	if m == nil {
		return
	}
	result := "failed"
	if ok {
		result = "ok"
	}
	m.FetchesTotal.WithLabelValues(result).Inc()
}

func (m *Pipeline) ObserveRun(outcome string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(outcome).Inc()
}
