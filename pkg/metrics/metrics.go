package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome / result label values
const (
	OutcomeAccepted = "accepted"
	OutcomeRejected = "rejected"

	NotificationSent   = "sent"
	NotificationFailed = "failed"
	NotificationLogged = "logged"
)

var (
	QuoteRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ironforge_quote_requests_total",
		Help: "Total number of quote request submissions by validation outcome",
	}, []string{"outcome"})
	Notifications = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ironforge_notifications_total",
		Help: "Total number of quote notifications by delivery result (sent, failed, logged)",
	}, []string{"result"})
	MailSendDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ironforge_mail_send_duration_seconds",
		Help:    "Time spent handing a notification to the mail transport",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"transport"})
	RateLimited = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ironforge_rate_limited_total",
		Help: "Total number of requests rejected by the rate limiter",
	}, []string{"scope"})
)

func init() {
	prometheus.MustRegister(QuoteRequests)
	prometheus.MustRegister(Notifications)
	prometheus.MustRegister(MailSendDuration)
	prometheus.MustRegister(RateLimited)
}

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
