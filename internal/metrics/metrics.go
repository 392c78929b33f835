package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const (
	metricPrefix = "panel_"

	resultSuccess = "success"
	resultError   = "error"
)

var (
	registerOnce sync.Once

	layoutBuilds   *prometheus.CounterVec
	layoutLatency  *prometheus.HistogramVec
	layoutIssues   *prometheus.CounterVec
	highlightTotal *prometheus.CounterVec
	moveTotal      *prometheus.CounterVec
	exportTotal    *prometheus.CounterVec
)

// Init registers the panel metrics with the given registerer, or the default
// registry when reg is nil. Only the first call has an effect.
func Init(reg prometheus.Registerer) {
	registerOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}

		layoutBuilds = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "layout_builds_total",
				Help: "Total panel grid builds by result",
			},
			[]string{"result"},
		)
		layoutLatency = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    metricPrefix + "layout_build_seconds",
				Help:    "Panel grid build latency in seconds, including snapshot load",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"result"},
		)
		layoutIssues = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "layout_issues_total",
				Help: "Data-quality issues reported while laying out panels, by kind",
			},
			[]string{"kind"},
		)
		highlightTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "highlight_queries_total",
				Help: "Total highlight queries by mode and result",
			},
			[]string{"mode", "result"},
		)
		moveTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "breaker_moves_total",
				Help: "Total breaker position changes by outcome",
			},
			[]string{"outcome"},
		)
		exportTotal = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: metricPrefix + "schedule_exports_total",
				Help: "Total panel schedule exports by format and result",
			},
			[]string{"format", "result"},
		)

		reg.MustRegister(
			layoutBuilds,
			layoutLatency,
			layoutIssues,
			highlightTotal,
			moveTotal,
			exportTotal,
		)
	})
}

// ObserveLayoutBuild records grid build duration and result.
func ObserveLayoutBuild(result string, duration time.Duration) {
	if result == "" {
		result = resultSuccess
	}
	if layoutBuilds != nil {
		layoutBuilds.WithLabelValues(result).Inc()
	}
	if layoutLatency != nil {
		layoutLatency.WithLabelValues(result).Observe(duration.Seconds())
	}
}

// AddLayoutIssues adds reported issue counts by kind.
func AddLayoutIssues(counts map[string]int) {
	if layoutIssues == nil {
		return
	}
	for kind, n := range counts {
		if n <= 0 {
			continue
		}
		if kind == "" {
			kind = "unknown"
		}
		layoutIssues.WithLabelValues(kind).Add(float64(n))
	}
}

// IncHighlight increments the highlight query counter.
func IncHighlight(mode, result string) {
	if mode == "" {
		mode = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if highlightTotal != nil {
		highlightTotal.WithLabelValues(mode, result).Inc()
	}
}

// IncMove increments the breaker move counter.
func IncMove(outcome string) {
	if outcome == "" {
		outcome = "unknown"
	}
	if moveTotal != nil {
		moveTotal.WithLabelValues(outcome).Inc()
	}
}

// IncExport increments the schedule export counter.
func IncExport(format, result string) {
	if format == "" {
		format = "unknown"
	}
	if result == "" {
		result = resultSuccess
	}
	if exportTotal != nil {
		exportTotal.WithLabelValues(format, result).Inc()
	}
}

// Exported constants for callers.
const (
	ResultSuccess = resultSuccess
	ResultError   = resultError

	MoveAccepted = "accepted"
	MoveRejected = "rejected"
)
