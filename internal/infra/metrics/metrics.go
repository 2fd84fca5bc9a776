package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Service counters for the quoting flow.
var (
	LinesPriced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "presupuesto_lines_priced_total",
		Help: "Line items priced by the quotation engine.",
	})

	OrdersSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "presupuesto_orders_submitted_total",
		Help: "Finalized orders, partitioned by routing outcome.",
	}, []string{"outcome"})

	CatalogReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "presupuesto_catalog_reloads_total",
		Help: "Catalog reads performed for wizard sessions.",
	}, []string{"result"})
)
