package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"cloupeer.io/chirp/pkg/log"
)

const DefaultRequestTimeout = 10 * time.Second

// Timeout bounds the request context unless the caller already set a deadline.
func Timeout(d time.Duration) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := r.Context().Deadline(); !ok {
				ctx, cancel := context.WithTimeout(r.Context(), d)
				defer cancel()
				r = r.WithContext(ctx)
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Logging logs every request at debug level.
func Logging(logger log.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			logger.Debug("Served status request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
		})
	}
}
