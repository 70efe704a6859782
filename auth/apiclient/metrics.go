package apiclient

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	outcomeSuccess        = "success"
	outcomeAuthFailure    = "auth_failure"
	outcomeNetworkFailure = "network_failure"
	outcomeHTTPError      = "http_error"

	retryReasonNetwork = "network"
	retryReasonAuth    = "auth"

	refreshSuccess = "success"
	refreshFailure = "failure"
)

type clientMetrics struct {
	requests  *prometheus.CounterVec
	retries   *prometheus.CounterVec
	refreshes *prometheus.CounterVec
}

// newClientMetrics registers the pipeline counters against reg. A nil reg
// gets a private registry so the counters stay usable without scraping.
func newClientMetrics(reg prometheus.Registerer) *clientMetrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)

	return &clientMetrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "internhub",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "API requests by method and final outcome.",
		}, []string{"method", "outcome"}),
		retries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "internhub",
			Subsystem: "api",
			Name:      "request_retries_total",
			Help:      "Single-shot request retries by reason.",
		}, []string{"reason"}),
		refreshes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "internhub",
			Subsystem: "api",
			Name:      "token_refreshes_total",
			Help:      "Access-token refresh attempts by result.",
		}, []string{"result"}),
	}
}
