package metrics

import (
	"strings"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Config carries the constant labels stamped on every metric.
type Config struct {
	ServiceName string
	Environment string
}

// EngineMetrics captures scoring-engine health signals: recalculation
// latency/outcomes and sweep job throughput.
type EngineMetrics struct {
	recalcDuration prometheus.Histogram
	recalcOutcomes *prometheus.CounterVec

	jobRuns     *prometheus.CounterVec
	jobDuration *prometheus.HistogramVec
	jobErrors   *prometheus.CounterVec

	companiesEscalated prometheus.Counter
	snapshotsTaken     prometheus.Counter
}

var (
	engineMetricsOnce sync.Once
	engineMetrics     *EngineMetrics
)

// Engine returns the singleton engine metrics registry.
func Engine() *EngineMetrics {
	return EngineWithConfig(Config{})
}

// EngineWithConfig returns the singleton engine metrics registry using config labels.
func EngineWithConfig(cfg Config) *EngineMetrics {
	engineMetricsOnce.Do(func() {
		engineMetrics = newEngineMetrics(prometheus.DefaultRegisterer, cfg)
	})
	return engineMetrics
}

// ResetEngineMetricsForTest resets the engine metrics singleton for tests.
func ResetEngineMetricsForTest() {
	engineMetricsOnce = sync.Once{}
	engineMetrics = nil
}

func newEngineMetrics(registerer prometheus.Registerer, cfg Config) *EngineMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "latewatch"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	m := &EngineMetrics{
		recalcDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:        "latewatch_behavior_recalc_duration_seconds",
			Help:        "Payment behavior recalculation latency.",
			Buckets:     []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
			ConstLabels: constLabels,
		}),
		recalcOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "latewatch_behavior_recalc_total",
			Help:        "Payment behavior recalculations by outcome.",
			ConstLabels: constLabels,
		}, []string{"outcome"}),
		jobRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "latewatch_sweep_job_runs_total",
			Help:        "Sweep job runs by name.",
			ConstLabels: constLabels,
		}, []string{"job"}),
		jobDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:        "latewatch_sweep_job_duration_seconds",
			Help:        "Sweep job latency.",
			Buckets:     []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
			ConstLabels: constLabels,
		}, []string{"job"}),
		jobErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name:        "latewatch_sweep_job_errors_total",
			Help:        "Sweep job errors by name.",
			ConstLabels: constLabels,
		}, []string{"job"}),
		companiesEscalated: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "latewatch_blacklist_companies_escalated_total",
			Help:        "Companies auto-escalated to the blacklist.",
			ConstLabels: constLabels,
		}),
		snapshotsTaken: prometheus.NewCounter(prometheus.CounterOpts{
			Name:        "latewatch_portfolio_snapshots_total",
			Help:        "Portfolio risk snapshots recorded.",
			ConstLabels: constLabels,
		}),
	}

	registerer.MustRegister(
		m.recalcDuration,
		m.recalcOutcomes,
		m.jobRuns,
		m.jobDuration,
		m.jobErrors,
		m.companiesEscalated,
		m.snapshotsTaken,
	)
	return m
}

func (m *EngineMetrics) ObserveRecalculation(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.recalcDuration.Observe(d.Seconds())
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.recalcOutcomes.WithLabelValues(outcome).Inc()
}

func (m *EngineMetrics) ObserveJob(job string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.jobRuns.WithLabelValues(job).Inc()
	m.jobDuration.WithLabelValues(job).Observe(d.Seconds())
	if err != nil {
		m.jobErrors.WithLabelValues(job).Inc()
	}
}

func (m *EngineMetrics) AddCompaniesEscalated(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.companiesEscalated.Add(float64(n))
}

func (m *EngineMetrics) AddSnapshotTaken() {
	if m == nil {
		return
	}
	m.snapshotsTaken.Inc()
}
