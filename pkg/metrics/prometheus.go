package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Provider outcome labels
const (
	OutcomeSuccess   = "success"
	OutcomeNoData    = "no_data"
	OutcomeTransient = "transient_error"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	MessagesHandled   *prometheus.CounterVec
	SessionsCompleted prometheus.Counter
	SessionsExpired   prometheus.Counter
	ProviderRequests  *prometheus.CounterVec
	ProviderLatency   prometheus.Histogram
	RenderFallbacks   *prometheus.CounterVec
}

// NewMetrics creates prometheus metrics registered on reg.
// A nil reg registers on the default registry.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		MessagesHandled: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "messages_handled_total",
			Help:      "The total number of inbound turns handled",
		}, []string{"kind"}),
		SessionsCompleted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_completed_total",
			Help:      "The total number of search sessions consumed after both slots were filled",
		}),
		SessionsExpired: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_expired_total",
			Help:      "The total number of search sessions removed after their TTL passed",
		}),
		ProviderRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_requests_total",
			Help:      "The total number of flight provider lookups by outcome",
		}, []string{"outcome"}),
		ProviderLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_latency_seconds",
			Help:      "Time taken by flight provider lookups",
			Buckets:   prometheus.DefBuckets,
		}),
		RenderFallbacks: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_fallbacks_total",
			Help:      "The total number of reports that fell back to the minimal representation",
		}, []string{"renderer"}),
	}
}
