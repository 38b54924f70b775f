// Package observability holds the application's Prometheus metrics.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "okai_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// EmailsSent counts outgoing notification emails by kind and outcome.
	EmailsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "okai_emails_sent_total",
		Help: "Total number of notification emails by kind and outcome",
	}, []string{"kind", "outcome"})

	// CrawlerRuns counts crawler service invocations by outcome.
	CrawlerRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "okai_crawler_runs_total",
		Help: "Total number of crawler runs by outcome",
	}, []string{"outcome"})
)
