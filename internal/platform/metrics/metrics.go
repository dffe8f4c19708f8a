package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	UsersRegistered prometheus.Counter
	ContactsCreated prometheus.Counter
	SpamReports     *prometheus.CounterVec
	Searches        prometheus.Counter
	SearchDuration  prometheus.Histogram
	RequestLatency  *prometheus.HistogramVec
}

// New creates and registers all Prometheus metrics.
func New() *Metrics {
	return &Metrics{
		UsersRegistered: promauto.NewCounter(prometheus.CounterOpts{
			Name: "calldex_users_registered_total",
			Help: "Total number of user accounts registered",
		}),
		ContactsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "calldex_contacts_created_total",
			Help: "Total number of contact names created",
		}),
		SpamReports: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "calldex_spam_reports_total",
			Help: "Spam report outcomes by result",
		}, []string{"result"}),
		Searches: promauto.NewCounter(prometheus.CounterOpts{
			Name: "calldex_searches_total",
			Help: "Total number of contact searches served",
		}),
		SearchDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "calldex_search_duration_seconds",
			Help:    "Wall time of the full search pipeline",
			Buckets: prometheus.DefBuckets,
		}),
		RequestLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "calldex_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// RecordSpamReport counts one spam report outcome ("accepted",
// "already_reported", "not_found", "error").
func (m *Metrics) RecordSpamReport(result string) {
	if m == nil {
		return
	}
	m.SpamReports.WithLabelValues(result).Inc()
}
