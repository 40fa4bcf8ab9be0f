// Package observability provides metrics and tracing for the application.
package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// CatalogOperations counts catalog engine operations by name and outcome.
	CatalogOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "folio_catalog_operations_total",
		Help: "Total catalog operations by operation and outcome",
	}, []string{"operation", "outcome"})

	// TagsCreated counts tags created on demand by the association resolver.
	TagsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "folio_tags_created_total",
		Help: "Total number of tags created on demand",
	})
)
