// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled requests by route template, method and status
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodgram",
		Name:      "http_requests_total",
		Help:      "Handled HTTP requests.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "foodgram",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route", "method"})

	// MembershipChanges counts add and remove outcomes per membership set
	MembershipChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "foodgram",
		Name:      "membership_changes_total",
		Help:      "Membership set add and remove attempts by outcome.",
	}, []string{"set", "op", "outcome"})

	ShoppingListDownloads = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "foodgram",
		Name:      "shopping_list_downloads_total",
		Help:      "Rendered shopping lists.",
	})
)
