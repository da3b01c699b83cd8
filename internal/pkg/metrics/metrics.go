package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry holds every chirp metric plus the Go and process collectors.
// The status server exposes it on /metrics.
var Registry = prometheus.NewRegistry()

var (
	// AssociationAttempts counts calls into the associator.
	AssociationAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chirp_association_attempts_total",
			Help: "Total number of wireless association attempts.",
		},
		[]string{"result"}, // result: success/failure
	)

	// AssociationDuration observes how long single association attempts block.
	AssociationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "chirp_association_duration_seconds",
			Help:    "Duration of single wireless association attempts.",
			Buckets: []float64{.1, .5, 1, 2.5, 5, 10, 15, 30},
		},
	)

	// Phase is 1 for the current bring-up phase and 0 for the others.
	Phase = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "chirp_bringup_phase",
			Help: "Current bring-up phase of the device (1=current).",
		},
		[]string{"phase"},
	)

	// TelemetryPublishes counts telemetry messages by outcome.
	TelemetryPublishes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "chirp_telemetry_publish_total",
			Help: "Total number of telemetry messages published to the remote endpoint.",
		},
		[]string{"event", "status"},
	)
)

const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// SetPhase marks current as the active phase among all.
func SetPhase(current string, all []string) {
	for _, p := range all {
		v := 0.0
		if p == current {
			v = 1
		}
		Phase.WithLabelValues(p).Set(v)
	}
}

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		AssociationAttempts,
		AssociationDuration,
		Phase,
		TelemetryPublishes,
	)
}
