package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	OrdersPlacedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Total number of orders placed",
	})

	CheckoutRejectedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "checkout_rejected_total",
		Help: "Total number of rejected checkout submissions",
	}, []string{"reason"})

	OrderValue = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_value",
		Help:    "Order totals at placement time",
		Buckets: []float64{5, 10, 25, 50, 100, 250, 500},
	})

	CartOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "cart_operations_total",
		Help: "Total number of cart mutations",
	}, []string{"operation"})

	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "sessions_active",
		Help: "Number of storefront sessions held in memory",
	})

	OrderEventsPublishedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_events_published_total",
		Help: "Total number of order events published",
	})

	OrderEventsFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "order_events_failed_total",
		Help: "Total number of order events that could not be published",
	})

	OrdersArchivedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "orders_archived_total",
		Help: "Total number of orders written to the archive",
	})

	OrdersArchiveSkippedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "orders_archive_skipped_total",
		Help: "Total number of order events not archived",
	}, []string{"reason"})

	ArchiveLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "archive_latency_seconds",
		Help:    "Latency of archive writes",
		Buckets: prometheus.DefBuckets,
	})

	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})
)
