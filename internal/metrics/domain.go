package metrics

import "github.com/prometheus/client_golang/prometheus"

// Dataset, search and analysis Prometheus metrics.
var (
	DatasetLoadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "riskboard",
			Name:      "dataset_loads_total",
			Help:      "Total number of dataset load attempts",
		},
		[]string{"trigger", "status"},
	)

	DatasetLoadDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "riskboard",
			Name:      "dataset_load_duration_seconds",
			Help:      "Dataset load duration in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	DatasetRows = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "riskboard",
			Name:      "dataset_rows",
			Help:      "Rows in the current dataset snapshot",
		},
		[]string{"file"},
	)

	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "riskboard",
			Name:      "search_queries_total",
			Help:      "Total number of relevance search queries",
		},
		[]string{"result"}, // "hit" / "empty"
	)

	AnalysisRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "riskboard",
			Name:      "analysis_requests_total",
			Help:      "Total number of analysis brief requests",
		},
		[]string{"model", "subject", "status"},
	)

	AnalysisRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "riskboard",
			Name:      "analysis_request_duration_seconds",
			Help:      "Analysis provider request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"model"},
	)

	AnalysisTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "riskboard",
			Name:      "analysis_tokens_total",
			Help:      "Total analysis tokens consumed",
		},
		[]string{"model", "type"},
	)

	AnalysisBudgetTokensRemaining = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: "riskboard",
			Name:      "analysis_budget_tokens_remaining",
			Help:      "Remaining analysis token budget",
		},
		[]string{"period"}, // "daily" / "monthly"
	)

	BriefCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "riskboard",
			Name:      "brief_cache_total",
			Help:      "Analysis brief cache lookups",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

var domainMetricsRegistered bool

// RegisterDomainMetrics registers dataset, search and analysis metrics. Must be called once from main.
func RegisterDomainMetrics() {
	if domainMetricsRegistered {
		return
	}
	prometheus.MustRegister(DatasetLoadsTotal)
	prometheus.MustRegister(DatasetLoadDuration)
	prometheus.MustRegister(DatasetRows)
	prometheus.MustRegister(SearchQueriesTotal)
	prometheus.MustRegister(AnalysisRequestsTotal)
	prometheus.MustRegister(AnalysisRequestDuration)
	prometheus.MustRegister(AnalysisTokensTotal)
	prometheus.MustRegister(AnalysisBudgetTokensRemaining)
	prometheus.MustRegister(BriefCacheTotal)
	domainMetricsRegistered = true
}
