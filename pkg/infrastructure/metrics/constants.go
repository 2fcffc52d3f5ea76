package metrics

// Namespace prefixes every metric name
const Namespace = "factoryplan"

// Metric names
const (
	MetricNameAnalysisRuns      = "analysis_runs_total"
	MetricNamePropagationPasses = "propagation_passes"
	MetricNameResolvedItems     = "resolved_items"
	MetricNameUnconvergedRuns   = "unconverged_runs_total"
	MetricNameCacheRequests     = "analysis_cache_requests_total"
	MetricNamePlansBuilt        = "plans_built_total"
	MetricNameDemandsPlanned    = "demands_planned_total"
	MetricNameCycleNodes        = "cycle_nodes_total"
	MetricNameUnresolvedNodes   = "unresolved_nodes_total"
)

// Metric help text
const (
	HelpTextAnalysisRuns      = "Total number of cost propagation runs"
	HelpTextPropagationPasses = "Relaxation passes needed per cost propagation run"
	HelpTextResolvedItems     = "Number of items with a finite cost after the last run"
	HelpTextUnconvergedRuns   = "Total number of runs stopped by the pass limit"
	HelpTextCacheRequests     = "Analysis cache lookups by result"
	HelpTextPlansBuilt        = "Total number of production plans built"
	HelpTextDemandsPlanned    = "Total number of demands expanded into trees"
	HelpTextCycleNodes        = "Total number of cycle leaves emitted"
	HelpTextUnresolvedNodes   = "Total number of unresolved leaves emitted"
)

// Label names and values
const (
	LabelResult = "result"

	ResultHit  = "hit"
	ResultMiss = "miss"
)

// PassBuckets covers single-pass catalogs up to slow self-amplifying loops
var PassBuckets = []float64{1, 2, 3, 5, 8, 13, 21, 34, 55, 100, 1000}
