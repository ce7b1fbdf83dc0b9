// Package metrics holds the Prometheus collectors of the API and the request middleware that feeds them.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// RequestsTotal counts served requests by method, matched route pattern and status code.
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hris_http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hris_http_request_duration_seconds",
			Help:    "HTTP request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	// AuthFailuresTotal counts rejected bearer tokens and policy denials by reason.
	AuthFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hris_auth_failures_total",
			Help: "Authentication and authorization failures",
		},
		[]string{"reason"},
	)

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hris_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)
)

const (
	LoginSuccess = "success"
	LoginFailure = "failure"
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		AuthFailuresTotal,
		LoginsTotal,
	)
}
