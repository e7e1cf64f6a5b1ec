package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Submissions counts finished submission workflows by final state and failure kind.
	Submissions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "school_registry_submissions_total",
		Help: "Submission workflows by final state and failure kind",
	}, []string{"state", "failure"})

	// Listings counts listing workflows by result (ok, failed).
	Listings = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "school_registry_listings_total",
		Help: "Listing workflows by result",
	}, []string{"result"})

	// UpstreamLatencySeconds records calls to the media host and record store.
	UpstreamLatencySeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "school_registry_upstream_latency_seconds",
		Help:    "Latency of calls to external services by upstream, operation and result",
		Buckets: prometheus.DefBuckets,
	}, []string{"upstream", "operation", "result"})
)

// ObserveUpstream records one upstream call that started at start.
func ObserveUpstream(upstream, operation string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	UpstreamLatencySeconds.WithLabelValues(upstream, operation, result).Observe(time.Since(start).Seconds())
}
