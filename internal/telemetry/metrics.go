package telemetry

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	JobsCreated      = prometheus.NewCounter(prometheus.CounterOpts{Name: "convert_jobs_created_total", Help: "Conversion jobs accepted"})
	JobsCompleted    = prometheus.NewCounter(prometheus.CounterOpts{Name: "convert_jobs_completed_total", Help: "Conversion jobs finished with a delivery"})
	JobsFailed       = prometheus.NewCounter(prometheus.CounterOpts{Name: "convert_jobs_failed_total", Help: "Conversion jobs that ended in failure"})
	ItemsConverted   = prometheus.NewCounter(prometheus.CounterOpts{Name: "convert_items_success_total", Help: "URLs converted and fetched"})
	ItemsFailed      = prometheus.NewCounter(prometheus.CounterOpts{Name: "convert_items_failed_total", Help: "URLs that produced no artifact"})
	RateLimitRejects = prometheus.NewCounter(prometheus.CounterOpts{Name: "convert_rate_limit_rejects_total", Help: "Submissions rejected by rate limiter"})
	ActiveJobs       = prometheus.NewGauge(prometheus.GaugeOpts{Name: "convert_jobs_active", Help: "Jobs currently running"})

	DeliveriesByOutcome = prometheus.NewCounterVec(prometheus.CounterOpts{Name: "convert_deliveries_total", Help: "Delivery attempts by strategy and outcome"}, []string{"strategy", "outcome"})
)

// Handler exposes /metrics HTTP handler with a singleton registry.
func Handler() http.Handler {
	once.Do(func() {
		prometheus.MustRegister(
			JobsCreated,
			JobsCompleted,
			JobsFailed,
			ItemsConverted,
			ItemsFailed,
			RateLimitRejects,
			ActiveJobs,
			DeliveriesByOutcome,
		)
	})
	return promhttp.Handler()
}
