package status

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"cloupeer.io/chirp/internal/device/core"
	"cloupeer.io/chirp/internal/pkg/metrics"
)

type fixedPhase core.Phase

func (p fixedPhase) Phase() core.Phase { return core.Phase(p) }

func get(t *testing.T, source PhaseSource, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	NewRouter(source).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHealthz(t *testing.T) {
	rec := get(t, fixedPhase(core.PhaseBooting), "/healthz")
	if rec.Code != http.StatusOK {
		t.Errorf("/healthz = %d, want 200", rec.Code)
	}
}

func TestReadyzFollowsPhase(t *testing.T) {
	tests := []struct {
		phase core.Phase
		want  int
	}{
		{core.PhaseBooting, http.StatusServiceUnavailable},
		{core.PhaseConnecting, http.StatusServiceUnavailable},
		{core.PhaseConnected, http.StatusOK},
		{core.PhaseIdle, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.phase.String(), func(t *testing.T) {
			if rec := get(t, fixedPhase(tt.phase), "/readyz"); rec.Code != tt.want {
				t.Errorf("/readyz = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestPhase(t *testing.T) {
	rec := get(t, fixedPhase(core.PhaseConnected), "/phase")

	var body struct {
		Phase  string `json:"phase"`
		Online bool   `json:"online"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode /phase: %v", err)
	}
	if body.Phase != "connected" || !body.Online {
		t.Errorf("/phase = %+v", body)
	}
}

func TestMetrics(t *testing.T) {
	metrics.SetPhase(core.PhaseIdle.String(), []string{"booting", "connecting", "connected", "idle"})

	rec := get(t, fixedPhase(core.PhaseIdle), "/metrics")
	if rec.Code != http.StatusOK {
		t.Fatalf("/metrics = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `chirp_bringup_phase{phase="idle"} 1`) {
		t.Error("/metrics does not expose the bring-up phase")
	}
}

func TestUnknownMethodRejected(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(fixedPhase(core.PhaseIdle)).ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/healthz", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /healthz = %d, want 405", rec.Code)
	}
}
