// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kakeibo"

// Postings counts ledger postings by transaction kind and direction
// (apply or reverse).
var Postings = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "postings_total",
	Help:      "Total transactions posted to or reversed from account balances.",
}, []string{"kind", "direction"})

// Adjustments counts balance adjustments by account type.
var Adjustments = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "ledger",
	Name:      "adjustments_total",
	Help:      "Total balance adjustments recorded.",
}, []string{"account_type"})

// StoreSaves counts document saves by backend and result.
var StoreSaves = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: namespace,
	Subsystem: "store",
	Name:      "saves_total",
	Help:      "Total book saves by backend and result.",
}, []string{"backend", "result"})

// EngineDuration tracks how long each projection engine takes.
var EngineDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Namespace: namespace,
	Subsystem: "engine",
	Name:      "duration_seconds",
	Help:      "Projection engine run time in seconds.",
	Buckets:   []float64{.0005, .001, .005, .01, .05, .1, .5},
}, []string{"engine"})

// Result labels a store outcome.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// ObserveEngine records the time since start for engine.
func ObserveEngine(engine string, start time.Time) {
	EngineDuration.WithLabelValues(engine).Observe(time.Since(start).Seconds())
}
