package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	// AnalyzeRequestsTotal counts analyze-food requests by final outcome.
	AnalyzeRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodanalysis",
		Subsystem: "gateway",
		Name:      "analyze_requests_total",
		Help:      "Total number of analyze-food requests, labeled by outcome.",
	}, []string{"outcome"})

	// RejectedPayloadsTotal counts requests refused during admission,
	// before any provider call.
	RejectedPayloadsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodanalysis",
		Subsystem: "gateway",
		Name:      "rejected_payloads_total",
		Help:      "Total number of inbound payloads rejected during admission, labeled by reason.",
	}, []string{"reason"})

	// AnalyzeInFlight is the number of analyze-food requests currently
	// being processed.
	AnalyzeInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "foodanalysis",
		Subsystem: "gateway",
		Name:      "analyze_in_flight",
		Help:      "Current number of analyze-food requests in flight.",
	})

	// ProviderCallDurationSeconds is the time spent waiting on the
	// vision-language provider, measured around the outbound call only.
	ProviderCallDurationSeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "foodanalysis",
		Subsystem: "gateway",
		Name:      "provider_call_duration_seconds",
		Help:      "Time spent on the outbound vision-language provider call, labeled by outcome.",
		// Coarse buckets up to the 30s provider deadline.
		Buckets: []float64{0.25, 0.5, 1, 2, 5, 10, 20, 30},
	}, []string{"outcome"})
)

// Register registers gateway metrics with the default Prometheus registry.
// Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(
			AnalyzeRequestsTotal,
			RejectedPayloadsTotal,
			AnalyzeInFlight,
			ProviderCallDurationSeconds,
		)
	})
}
