// Package metrics exposes registered Prometheus collectors over HTTP.
package metrics

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iota-uz/crudkit/pkg/application"
)

const DefaultPath = "/debug/prometheus"

type ControllerOption func(*PrometheusController)

// WithGatherer replaces the default registry, which carries the crud
// operation counters.
func WithGatherer(g prometheus.Gatherer) ControllerOption {
	return func(c *PrometheusController) {
		c.gatherer = g
	}
}

type PrometheusController struct {
	path     string
	gatherer prometheus.Gatherer
}

func NewPrometheusController(path string, opts ...ControllerOption) application.Controller {
	if path == "" {
		path = DefaultPath
	}
	c := &PrometheusController{path: path, gatherer: prometheus.DefaultGatherer}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *PrometheusController) Key() string {
	return c.path
}

func (c *PrometheusController) Register(r *mux.Router) {
	h := promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{ErrorHandling: promhttp.ContinueOnError})
	r.Handle(c.path, h).Methods(http.MethodGet, http.MethodHead)
}
