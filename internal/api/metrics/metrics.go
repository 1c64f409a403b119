// Package metrics defines and registers the custom Prometheus metrics
// for the blog API. It is the single source of truth for metric names,
// labels, and help strings. Metrics register with the default registry
// at import time via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "blog"

// UsersRegisteredTotal counts successful registrations.
var UsersRegisteredTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "users_registered_total",
		Help:      "Total number of users successfully registered.",
	},
)

// LoginsTotal counts login attempts.
// Label:
//   - result: "success" or "failure"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// PostsCreatedTotal counts successfully created posts.
var PostsCreatedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_created_total",
		Help:      "Total number of posts created.",
	},
)

// PostsDeletedTotal counts successfully deleted posts.
var PostsDeletedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "posts_deleted_total",
		Help:      "Total number of posts deleted.",
	},
)

// UploadsTotal counts image upload requests.
// Label:
//   - result: "stored", "rejected" (no acceptable file) or "error"
var UploadsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "uploads_total",
		Help:      "Total number of image upload requests, by result.",
	},
	[]string{"result"},
)
