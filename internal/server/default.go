// Package server assembles the HTTP server of cmd/server.
package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
	"github.com/ulule/limiter/v3"

	"github.com/iota-uz/crudkit/pkg/application"
	"github.com/iota-uz/crudkit/pkg/configuration"
	"github.com/iota-uz/crudkit/pkg/httpapi"
	"github.com/iota-uz/crudkit/pkg/metrics"
	"github.com/iota-uz/crudkit/pkg/middleware"
	"github.com/iota-uz/crudkit/pkg/server"
)

type DefaultOptions struct {
	Logger        *logrus.Logger
	Configuration *configuration.Configuration
	Application   application.Application
	// Pool is nil with the in-memory store.
	Pool *pgxpool.Pool
	// RateLimitStore defaults to an in-memory store.
	RateLimitStore limiter.Store
}

// Default registers the middleware stack and the metrics endpoint on the
// application and returns a server answering unknown routes with JSON errors.
func Default(options *DefaultOptions) *server.HTTPServer {
	app := options.Application
	conf := options.Configuration

	loggerOpts := middleware.DefaultLoggerOptions()
	loggerOpts.RequestIDHeader = conf.RequestIDHeader
	middlewares := []mux.MiddlewareFunc{
		middleware.WithLogger(options.Logger, loggerOpts),
		middleware.Cors(conf.CorsOrigins...),
	}
	if options.Pool != nil {
		middlewares = append(middlewares, middleware.ProvidePool(options.Pool))
	}
	if conf.RateLimit.Enabled {
		middlewares = append(middlewares, middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerPeriod: conf.RateLimit.GlobalRPS,
			Period:            time.Second,
			Store:             options.RateLimitStore,
		}))
	}
	app.RegisterMiddleware(middlewares...)

	if conf.Prometheus.Enabled {
		app.RegisterControllers(metrics.NewPrometheusController(conf.Prometheus.Path))
	}
	return server.NewHTTPServer(app, http.HandlerFunc(NotFound), http.HandlerFunc(MethodNotAllowed))
}

func NotFound(w http.ResponseWriter, _ *http.Request) {
	_ = httpapi.WriteError(w, http.StatusNotFound, httpapi.CodeNotFound, "route not found", nil)
}

func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	_ = httpapi.WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "method not allowed", nil)
}
