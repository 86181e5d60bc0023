// Package metrics exposes Prometheus counters for coordinate conversions.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	ConversionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gcoord_conversions_total",
		Help: "Total number of converted positions by datum pair",
	}, []string{"from", "to"})
	OutOfChinaTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "gcoord_out_of_china_total",
		Help: "Total number of single point requests outside the China bounding box",
	})
	RequestErrorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gcoord_request_errors_total",
		Help: "Total number of rejected conversion requests by reason",
	}, []string{"reason"})
	LayersServedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "gcoord_layers_served_total",
		Help: "Total number of layer files served by layer name",
	}, []string{"layer"})
)

func init() {
	prometheus.MustRegister(ConversionsTotal, OutOfChinaTotal, RequestErrorsTotal, LayersServedTotal)
}

// Handler serves the default registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.Handler()
}
