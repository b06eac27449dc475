package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/iota-uz/crudkit/pkg/composables"
)

var errRollback = errors.New("handler responded with an error status")

// ProvidePool exposes pool to handlers through composables.UsePool.
func ProvidePool(pool *pgxpool.Pool) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(composables.WithPool(r.Context(), pool)))
		})
	}
}

// WithTransaction runs write handlers inside one transaction. A 4xx or 5xx
// response rolls it back. Requests without a pool in context pass through.
func WithTransaction() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pool, err := composables.UsePool(r.Context())
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			wrapped := &responseCaptureWriter{ResponseWriter: w, body: &bytes.Buffer{}}
			err = composables.InTxWith(r.Context(), pool, func(ctx context.Context) error {
				next.ServeHTTP(wrapped, r.WithContext(ctx))
				if wrapped.Status() >= http.StatusBadRequest {
					return errRollback
				}
				return nil
			})
			if err != nil && !errors.Is(err, errRollback) {
				composables.UseLogger(r.Context(), logrus.StandardLogger()).
					WithError(err).Error("failed to finish transaction")
			}
		})
	}
}
