package recovery

import "github.com/prometheus/client_golang/prometheus"

// metrics is additive observability beyond the INFO summary line: a
// Prometheus counter vector by outcome, and a gauge tracking cache size
// after each recovery pass.
type metrics struct {
	ordersTotal *prometheus.CounterVec
	cacheSize   *prometheus.GaugeVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		ordersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "recall_recovery_orders_total",
			Help: "Orders processed during recovery, by outcome.",
		}, []string{"outcome"}),
		cacheSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "recall_recovery_cache_size",
			Help: "Entries held in the thread-safe cache after recovery, by kind.",
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(m.ordersTotal, m.cacheSize)
	}
	return m
}

func (m *metrics) observe(summary Summary) {
	if m == nil {
		return
	}
	m.ordersTotal.WithLabelValues("rebuilt").Add(float64(summary.Rebuilt))
	m.ordersTotal.WithLabelValues("republished").Add(float64(summary.Republished))
	m.ordersTotal.WithLabelValues("ignored").Add(float64(summary.Ignored))
	m.ordersTotal.WithLabelValues("errored").Add(float64(summary.Errored))
	m.ordersTotal.WithLabelValues("no_valid_history").Add(float64(summary.NoValidHistory))
	m.cacheSize.WithLabelValues("tickets").Set(float64(summary.CacheTickets))
	m.cacheSize.WithLabelValues("orders").Set(float64(summary.CacheOrders))
}
