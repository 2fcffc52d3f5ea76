package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder holds planner metrics registered on one registry.
// A nil *Recorder discards every observation.
type Recorder struct {
	registry *prometheus.Registry

	AnalysisRuns      prometheus.Counter
	PropagationPasses prometheus.Histogram
	ResolvedItems     prometheus.Gauge
	UnconvergedRuns   prometheus.Counter
	CacheRequests     *prometheus.CounterVec
	PlansBuilt        prometheus.Counter
	DemandsPlanned    prometheus.Counter
	CycleNodes        prometheus.Counter
	UnresolvedNodes   prometheus.Counter
}

// NewRecorder creates a recorder on a fresh registry
func NewRecorder() *Recorder {
	return NewRecorderWithRegistry(prometheus.NewRegistry())
}

// NewRecorderWithRegistry creates a recorder registered on reg
func NewRecorderWithRegistry(reg *prometheus.Registry) *Recorder {
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		AnalysisRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameAnalysisRuns,
			Help:      HelpTextAnalysisRuns,
		}),
		PropagationPasses: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      MetricNamePropagationPasses,
			Help:      HelpTextPropagationPasses,
			Buckets:   PassBuckets,
		}),
		ResolvedItems: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      MetricNameResolvedItems,
			Help:      HelpTextResolvedItems,
		}),
		UnconvergedRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameUnconvergedRuns,
			Help:      HelpTextUnconvergedRuns,
		}),
		CacheRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameCacheRequests,
			Help:      HelpTextCacheRequests,
		}, []string{LabelResult}),
		PlansBuilt: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNamePlansBuilt,
			Help:      HelpTextPlansBuilt,
		}),
		DemandsPlanned: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameDemandsPlanned,
			Help:      HelpTextDemandsPlanned,
		}),
		CycleNodes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameCycleNodes,
			Help:      HelpTextCycleNodes,
		}),
		UnresolvedNodes: factory.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      MetricNameUnresolvedNodes,
			Help:      HelpTextUnresolvedNodes,
		}),
	}
}

// Registry returns the registry the recorder writes to
func (r *Recorder) Registry() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.registry
}

// ObserveAnalysis records one cost propagation run
func (r *Recorder) ObserveAnalysis(passes, resolvedItems int, converged bool) {
	if r == nil {
		return
	}
	r.AnalysisRuns.Inc()
	r.PropagationPasses.Observe(float64(passes))
	r.ResolvedItems.Set(float64(resolvedItems))
	if !converged {
		r.UnconvergedRuns.Inc()
	}
}

// ObserveCache records an analysis cache lookup
func (r *Recorder) ObserveCache(hit bool) {
	if r == nil {
		return
	}
	result := ResultMiss
	if hit {
		result = ResultHit
	}
	r.CacheRequests.WithLabelValues(result).Inc()
}

// ObservePlan records one built production plan
func (r *Recorder) ObservePlan(demands, cycleNodes, unresolvedNodes int) {
	if r == nil {
		return
	}
	r.PlansBuilt.Inc()
	r.DemandsPlanned.Add(float64(demands))
	r.CycleNodes.Add(float64(cycleNodes))
	r.UnresolvedNodes.Add(float64(unresolvedNodes))
}

// WriteTextfile writes the registry in the node-exporter textfile format
func (r *Recorder) WriteTextfile(path string) error {
	if r == nil {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
