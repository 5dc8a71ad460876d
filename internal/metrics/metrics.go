// Package metrics defines the Prometheus collectors the site exports on
// /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "climate_hub"

// Metrics groups every collector. Each instance registers against its own
// Registerer so tests can build as many as they like.
type Metrics struct {
	DiscussionsCreated prometheus.Counter
	CommentsCreated    prometheus.Counter
	Likes              prometheus.Counter
	ContactMessages    prometheus.Counter
	RateLimited        prometheus.Counter

	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		DiscussionsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discussions_created_total",
			Help:      "Number of forum discussions started",
		}),
		CommentsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "comments_created_total",
			Help:      "Number of comments posted to discussions",
		}),
		Likes: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discussion_likes_total",
			Help:      "Number of likes given to discussions",
		}),
		ContactMessages: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contact_messages_total",
			Help:      "Number of contact form submissions accepted",
		}),
		RateLimited: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rate_limited_requests_total",
			Help:      "Number of requests rejected by the rate limiter",
		}),
		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status code",
		}, []string{"method", "route", "status"}),
		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by method and route pattern",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// NewNop returns collectors registered nowhere, for callers that don't export.
func NewNop() *Metrics {
	return New(prometheus.NewRegistry())
}
