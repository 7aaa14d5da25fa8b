package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// MailSendSuccess counts successfully delivered log mails per SMTP host.
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "logtools_mail_send_success_total",
		Help: "Total number of successful log mail sends",
	}, []string{"host"})

	// MailSendFailure counts failed log mail deliveries per SMTP host
	// (after retries are exhausted).
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "logtools_mail_send_failure_total",
		Help: "Total number of failed log mail sends",
	}, []string{"host"})

	// MailSuppressed counts log entries the mail handler skipped before
	// dispatch. Reasons: below_level, min_pause.
	MailSuppressed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "logtools_mail_suppressed_total",
		Help: "Total number of log entries not mailed",
	}, []string{"reason"})

	// EntriesDropped counts entries lost to async queue overflow.
	EntriesDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "logtools_handler_entries_dropped_total",
		Help: "Total number of log entries dropped by async handlers",
	}, []string{"level"})
)

func init() {
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
	prometheus.MustRegister(MailSuppressed)
	prometheus.MustRegister(EntriesDropped)
}

// Handler returns an http.Handler exposing Prometheus metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}
