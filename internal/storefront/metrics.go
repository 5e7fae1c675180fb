package storefront

import (
	"github.com/prometheus/client_golang/prometheus"

	"Storefront/internal/cart"
)

// Metrics are the shop-level counters. A nil *Metrics records nothing.
type Metrics struct {
	mutations     *prometheus.CounterVec
	offerUnits    *prometheus.CounterVec
	sessions      prometheus.Gauge
	fetchFailures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_cart_mutations_total",
				Help: "Cart actions dispatched, by action.",
			},
			[]string{"op"},
		),
		offerUnits: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "storefront_offer_units_total",
				Help: "Free units newly granted by offers, by offer label.",
			},
			[]string{"offer"},
		),
		sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "storefront_sessions_active",
			Help: "Shopper sessions held in memory.",
		}),
		fetchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "storefront_catalog_fetch_failures_total",
			Help: "Catalog reads that ended in a fetch failure.",
		}),
	}

	reg.MustRegister(m.mutations, m.offerUnits, m.sessions, m.fetchFailures)
	return m
}

// observeCart is installed as a cart engine's change hook.
func (m *Metrics) observeCart(a cart.Action, before, after cart.State) {
	if m == nil {
		return
	}
	m.mutations.WithLabelValues(a.Op()).Inc()

	prev := offerUnits(before)
	for label, n := range offerUnits(after) {
		if d := n - prev[label]; d > 0 {
			m.offerUnits.WithLabelValues(label).Add(float64(d))
		}
	}
}

func (m *Metrics) sessionOpened() {
	if m != nil {
		m.sessions.Inc()
	}
}

func (m *Metrics) sessionClosed() {
	if m != nil {
		m.sessions.Dec()
	}
}

func (m *Metrics) fetchFailed() {
	if m != nil {
		m.fetchFailures.Inc()
	}
}

func offerUnits(s cart.State) map[string]int {
	out := make(map[string]int, len(s.OfferLines))
	for _, o := range s.OfferLines {
		out[o.OfferType] += o.Quantity
	}
	return out
}
