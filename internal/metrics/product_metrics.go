package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProductsCreated is a Prometheus counter for tracking the total number of products created.
	ProductsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_created_total",
		Help: "The total number of products created",
	})

	// ProductsUpdated counts successful product updates (PATCH and PUT).
	ProductsUpdated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_updated_total",
		Help: "The total number of products updated",
	})

	// ProductsDeleted is a Prometheus counter for tracking the total number of products deleted.
	ProductsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_products_deleted_total",
		Help: "The total number of products deleted",
	})

	// SummaryCacheErrors counts failed summary cache writes and evictions, by operation.
	SummaryCacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_summary_cache_errors_total",
		Help: "The total number of failed summary cache operations",
	}, []string{"operation"})

	// NotificationErrors counts product change notifications that could not be published.
	NotificationErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "catalog_notification_errors_total",
		Help: "The total number of product notifications that failed to publish",
	})
)
