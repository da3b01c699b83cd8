package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"cloupeer.io/chirp/pkg/log"
)

func TestTimeoutSetsDeadline(t *testing.T) {
	var hasDeadline bool
	r := mux.NewRouter()
	r.Use(Timeout(time.Second))
	r.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		_, hasDeadline = r.Context().Deadline()
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if !hasDeadline {
		t.Error("request context has no deadline")
	}
}

func TestLoggingRecordsRequest(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := mux.NewRouter()
	r.Use(Logging(log.NewFromZap(zap.New(core))))
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	entries := logs.FilterMessage("Served status request").All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["path"]; got != "/healthz" {
		t.Errorf("path = %v, want /healthz", got)
	}
}
