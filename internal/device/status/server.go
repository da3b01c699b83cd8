// Package status serves liveness, readiness, phase and metrics of the device over HTTP.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"cloupeer.io/chirp/internal/device/core"
	"cloupeer.io/chirp/internal/pkg/metrics"
	middleware "cloupeer.io/chirp/internal/pkg/middleware/http"
	"cloupeer.io/chirp/pkg/log"
	"cloupeer.io/chirp/pkg/options"
)

// PhaseSource reports the current bring-up phase. It is called from request goroutines.
type PhaseSource interface {
	Phase() core.Phase
}

type Server struct {
	server  *http.Server
	options *options.HttpOptions
}

func NewServer(opts *options.HttpOptions, source PhaseSource) *Server {
	return &Server{
		server: &http.Server{
			Addr:              opts.Addr,
			Handler:           NewRouter(source),
			ReadHeaderTimeout: 5 * time.Second,
		},
		options: opts,
	}
}

// NewRouter builds the status routes.
func NewRouter(source PhaseSource) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.Timeout(middleware.DefaultRequestTimeout), middleware.Logging(log.WithName("status")))

	// Liveness: the process is up.
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	// Readiness: the device holds a network association.
	r.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if !source.Phase().Online() {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(source.Phase().String()))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	r.HandleFunc("/phase", func(w http.ResponseWriter, r *http.Request) {
		phase := source.Phase()
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"phase":  phase.String(),
			"online": phase.Online(),
		})
	}).Methods(http.MethodGet)

	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)

	return r
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	log.Info("Starting status server", "addr", s.server.Addr)

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.options.ShutdownTimeout)
		defer cancel()
		return s.server.Shutdown(shutdownCtx)
	}
}
