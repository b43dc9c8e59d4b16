package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Registry struct {
	reg *prometheus.Registry

	OrdersPlaced     prometheus.Counter
	OrdersQueued     prometheus.Counter
	OrderTotal       prometheus.Histogram
	CatalogCacheHits prometheus.Counter
	CatalogCacheMiss prometheus.Counter
	CatalogDegraded  prometheus.Gauge
	OutboxPublished  prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()

	placed := prometheus.NewCounter(prometheus.CounterOpts{Name: "quickorder_orders_placed_total"})
	queued := prometheus.NewCounter(prometheus.CounterOpts{Name: "quickorder_orders_fallback_queued_total"})
	orderTotal := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "quickorder_order_total_amount",
		Buckets: prometheus.ExponentialBuckets(1000, 4, 8),
	})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{Name: "quickorder_catalog_cache_hits_total"})
	cacheMiss := prometheus.NewCounter(prometheus.CounterOpts{Name: "quickorder_catalog_cache_misses_total"})
	degraded := prometheus.NewGauge(prometheus.GaugeOpts{Name: "quickorder_catalog_degraded"})
	published := prometheus.NewCounter(prometheus.CounterOpts{Name: "quickorder_outbox_published_total"})

	r.MustRegister(placed, queued, orderTotal, cacheHits, cacheMiss, degraded, published)
	return &Registry{
		reg:              r,
		OrdersPlaced:     placed,
		OrdersQueued:     queued,
		OrderTotal:       orderTotal,
		CatalogCacheHits: cacheHits,
		CatalogCacheMiss: cacheMiss,
		CatalogDegraded:  degraded,
		OutboxPublished:  published,
	}
}

func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{})
}
