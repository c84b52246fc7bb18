package observability

import (
	"context"

	"github.com/aretw0/automaton/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the executor collectors.
type Metrics struct {
	executions *prometheus.CounterVec
	steps      *prometheus.HistogramVec
	duration   *prometheus.HistogramVec
	limitHits  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them on reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		executions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "automaton_executions_total",
			Help: "Total number of membership searches by automaton kind and outcome",
		}, []string{"kind", "outcome"}),
		steps: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "automaton_execution_steps",
			Help:    "Configurations popped per search",
			Buckets: prometheus.ExponentialBuckets(1, 4, 10),
		}, []string{"kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "automaton_execution_duration_seconds",
			Help:    "Duration of membership searches",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"kind"}),
		limitHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "automaton_limit_hits_total",
			Help: "Searches that exhausted a budget, by limit (depth or steps)",
		}, []string{"limit"}),
	}

	for _, c := range []prometheus.Collector{m.executions, m.steps, m.duration, m.limitHits} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Observe records a finished search. Events without a result are ignored.
func (m *Metrics) Observe(e *domain.ExecutionEvent) {
	if e == nil || e.Result == nil {
		return
	}
	kind := string(e.Kind)
	m.executions.WithLabelValues(kind, e.Result.Outcome()).Inc()
	m.steps.WithLabelValues(kind).Observe(float64(e.Result.Steps))
	m.duration.WithLabelValues(kind).Observe(e.Duration.Seconds())
	if e.Result.DepthLimitReached {
		m.limitHits.WithLabelValues("depth").Inc()
	}
	if e.Result.MaxLimitReached {
		m.limitHits.WithLabelValues("steps").Inc()
	}
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnExecuteFinish: func(_ context.Context, e *domain.ExecutionEvent) {
			m.Observe(e)
		},
	}
}
