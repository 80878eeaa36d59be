package telemetry

import (
	"database/sql"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hyperflow"

// Outcome label values
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics is the prometheus registry served on /metrics. Observe methods
// are no-ops on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests    *prometheus.CounterVec
	httpDuration    *prometheus.HistogramVec
	llmRequests     *prometheus.CounterVec
	llmDuration     *prometheus.HistogramVec
	llmCache        *prometheus.CounterVec
	analyzerResults *prometheus.CounterVec
	eventsPublished *prometheus.CounterVec
	jobRuns         *prometheus.CounterVec
	invoicesOverdue prometheus.Counter
}

// NewMetrics registers all collectors including go runtime and process ones
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		llmRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "requests_total",
			Help:      "Language model completions by provider, model and outcome.",
		}, []string{"provider", "model", "outcome"}),
		llmDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "request_duration_seconds",
			Help:      "Language model completion latency.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 60},
		}, []string{"provider"}),
		llmCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "llm",
			Name:      "cache_lookups_total",
			Help:      "Completion cache lookups by result.",
		}, []string{"result"}),
		analyzerResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assistant",
			Name:      "analyses_total",
			Help:      "Assistant analyses by kind and whether the fallback payload was served.",
		}, []string{"kind", "fallback"}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "forwarded_total",
			Help:      "Domain events forwarded to the message broker.",
		}, []string{"event_type", "outcome"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "job_runs_total",
			Help:      "Background job executions by job and outcome.",
		}, []string{"job", "outcome"}),
		invoicesOverdue: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "finance",
			Name:      "invoices_marked_overdue_total",
			Help:      "Invoices moved to overdue by the scheduler.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.httpRequests, m.httpDuration,
		m.llmRequests, m.llmDuration, m.llmCache,
		m.analyzerResults, m.eventsPublished,
		m.jobRuns, m.invoicesOverdue,
	)
	return m
}

// RegisterDB exposes connection pool statistics
func (m *Metrics) RegisterDB(db *sql.DB, name string) error {
	return m.registry.Register(collectors.NewDBStatsCollector(db, name))
}

// Handler serves the registry in the prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTP records one served request. route is the matched route
// template, never the raw path.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// ObserveLLM records one provider call
func (m *Metrics) ObserveLLM(provider, model string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(provider, model, outcome(err)).Inc()
	m.llmDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveCacheLookup records a completion cache hit or miss
func (m *Metrics) ObserveCacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.llmCache.WithLabelValues(result).Inc()
}

// ObserveAnalysis records an assistant analysis
func (m *Metrics) ObserveAnalysis(kind string, fallback bool) {
	if m == nil {
		return
	}
	m.analyzerResults.WithLabelValues(kind, strconv.FormatBool(fallback)).Inc()
}

// ObserveEventForwarded records a broker publish
func (m *Metrics) ObserveEventForwarded(eventType string, err error) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(eventType, outcome(err)).Inc()
}

// ObserveJobRun records one scheduler job execution
func (m *Metrics) ObserveJobRun(job string, err error) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job, outcome(err)).Inc()
}

// AddInvoicesOverdue counts invoices moved to overdue
func (m *Metrics) AddInvoicesOverdue(n int) {
	if m == nil {
		return
	}
	if n > 0 {
		m.invoicesOverdue.Add(float64(n))
	}
}

func outcome(err error) string {
	if err != nil {
		return OutcomeError
	}
	return OutcomeSuccess
}
