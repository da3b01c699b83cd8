package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestSetPhase(t *testing.T) {
	all := []string{"booting", "connecting", "connected", "idle"}

	SetPhase("connecting", all)
	SetPhase("connected", all)

	for _, p := range all {
		want := 0.0
		if p == "connected" {
			want = 1
		}
		if got := testutil.ToFloat64(Phase.WithLabelValues(p)); got != want {
			t.Errorf("phase %s = %v, want %v", p, got, want)
		}
	}
}

func TestRegistryGathers(t *testing.T) {
	AssociationAttempts.WithLabelValues(ResultFailure).Inc()
	mfs, err := Registry.Gather()
	if err != nil {
		t.Fatalf("Gather() error = %v", err)
	}

	found := false
	for _, mf := range mfs {
		if mf.GetName() == "chirp_association_attempts_total" {
			found = true
		}
	}
	if !found {
		t.Error("association attempts metric not registered")
	}
}
