// Package metrics registers the Prometheus collectors exposed on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "fullscope"

// Inquiry outcomes
const (
	ResultSent        = "sent"
	ResultInvalid     = "invalid"
	ResultSpam        = "spam"
	ResultRateLimited = "rate_limited"
	ResultFailed      = "failed"
)

var (
	InquiriesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "inquiries_total",
		Help:      "Contact form submissions by outcome.",
	}, []string{"result"})

	MailSendDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "mail_send_duration_seconds",
		Help:      "Time spent handing a message to the mail provider.",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	}, []string{"provider", "status"})

	RateLimitRejections = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rate_limit_rejections_total",
		Help:      "Requests rejected by the contact rate limiter.",
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)

// ObserveInquiry increments the outcome counter
func ObserveInquiry(result string) {
	InquiriesTotal.WithLabelValues(result).Inc()
}

// ObserveMailSend records one provider call
func ObserveMailSend(provider string, started time.Time, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	MailSendDuration.WithLabelValues(provider, status).Observe(time.Since(started).Seconds())
}

// ObserveRequest records one HTTP request. path is the route template.
func ObserveRequest(method, path string, status int, elapsed time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
