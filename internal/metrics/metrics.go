// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CounterAdjustments counts deltas applied to trip counters
	CounterAdjustments = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "trip_counter_adjustments_total",
		Help: "Number of increments applied to derived trip counters",
	}, []string{"counter", "direction"})

	// CounterFailures counts counter writes that failed after the child write succeeded
	CounterFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "trip_counter_failures_total",
		Help: "Counter updates that failed after the child record was written",
	})

	// AIRequests counts completion calls by operation and outcome
	AIRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ai_requests_total",
		Help: "Language model requests by operation and outcome",
	}, []string{"operation", "outcome"})

	// CacheLookups counts cache hits and misses for external API responses
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "external_cache_lookups_total",
		Help: "Cache lookups for maps and AI responses",
	}, []string{"cache", "result"})
)

// Direction labels a signed delta
func Direction(by int) string {
	if by < 0 {
		return "down"
	}
	return "up"
}
