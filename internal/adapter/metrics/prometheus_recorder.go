package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusRecorder exposes inventory activity on a private registry.
type PrometheusRecorder struct {
	registry  *prometheus.Registry
	mutations *prometheus.CounterVec
	units     *prometheus.CounterVec
	missing   prometheus.Counter
	items     prometheus.Gauge
}

func NewPrometheusRecorder() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prometheus.NewRegistry(),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "mutations_total",
			Help:      "Applied stock mutations by operation.",
		}, []string{"op"}),
		units: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "units_total",
			Help:      "Absolute units moved by operation.",
		}, []string{"op"}),
		missing: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "inventory",
			Name:      "remove_missing_total",
			Help:      "Removes that targeted an item not in stock.",
		}),
		items: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "inventory",
			Name:      "items",
			Help:      "Distinct items currently held.",
		}),
	}
	r.registry.MustRegister(r.mutations, r.units, r.missing, r.items)
	return r
}

func (r *PrometheusRecorder) RecordMutation(op string, quantity int) {
	r.mutations.WithLabelValues(op).Inc()
	if quantity < 0 {
		quantity = -quantity
	}
	r.units.WithLabelValues(op).Add(float64(quantity))
}

func (r *PrometheusRecorder) RecordMissingItem() {
	r.missing.Inc()
}

func (r *PrometheusRecorder) SetItemCount(n int) {
	r.items.Set(float64(n))
}

func (r *PrometheusRecorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
