// Package metrics holds the Prometheus collectors for the tutor pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// turnsTotal counts finished turns by terminal outcome.
	// Labels: outcome (tools, clarify, no_match, error)
	turnsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutor",
		Name:      "turns_total",
		Help:      "Total chat turns by terminal outcome",
	}, []string{"outcome"})

	// oracleCallsTotal counts inference calls by task and result.
	// Labels: task, result (ok, unavailable, malformed)
	oracleCallsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutor",
		Subsystem: "oracle",
		Name:      "calls_total",
		Help:      "Total inference calls by task and result",
	}, []string{"task", "result"})

	// oracleCostUSD accumulates priced token usage by model.
	oracleCostUSD = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutor",
		Subsystem: "oracle",
		Name:      "cost_usd_total",
		Help:      "Cumulative inference cost in USD by model",
	}, []string{"model"})

	// toolInvocationsTotal counts tool executions by tool and response status code.
	toolInvocationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutor",
		Subsystem: "tools",
		Name:      "invocations_total",
		Help:      "Total tool invocations by tool and status code",
	}, []string{"tool", "code"})

	// stateFallbacksTotal counts turns that reused the previous user state.
	stateFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tutor",
		Subsystem: "state",
		Name:      "fallbacks_total",
		Help:      "Total state classifications that fell back to the persisted state",
	})

	// httpRequestsTotal counts API requests.
	// Labels: method, route, status
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tutor",
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total HTTP requests by method, route and status",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "tutor",
		Subsystem: "http",
		Name:      "request_duration_seconds",
		Help:      "HTTP request latency in seconds",
		Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"method", "route"})

	httpInflight = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tutor",
		Subsystem: "http",
		Name:      "inflight_requests",
		Help:      "HTTP requests currently being served",
	})

	// clarifyFallbacksTotal counts clarifications answered with the raw summary.
	clarifyFallbacksTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tutor",
		Subsystem: "clarify",
		Name:      "fallbacks_total",
		Help:      "Total clarifications that fell back to the missing-field summary",
	})
)

func RecordTurn(outcome string) {
	turnsTotal.WithLabelValues(outcome).Inc()
}

func RecordOracleCall(task, result string) {
	oracleCallsTotal.WithLabelValues(task, result).Inc()
}

func RecordOracleCost(model string, usd float64) {
	if usd <= 0 {
		return
	}
	oracleCostUSD.WithLabelValues(model).Add(usd)
}

func RecordToolInvocation(tool, code string) {
	toolInvocationsTotal.WithLabelValues(tool, code).Inc()
}

func RecordStateFallback() {
	stateFallbacksTotal.Inc()
}

func RecordClarifyFallback() {
	clarifyFallbacksTotal.Inc()
}

func HTTPInflightInc() { httpInflight.Inc() }
func HTTPInflightDec() { httpInflight.Dec() }

func ObserveHTTP(method, route, status string, d time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
