package chime

import (
	"testing"
	"time"

	"cloupeer.io/chirp/internal/device/core"
)

type toneRecorder struct {
	notes []Note
}

func (r *toneRecorder) RenderText(string)  {}
func (r *toneRecorder) PlayIdleAnimation() {}
func (r *toneRecorder) PlayTone(p core.Tone, d, g time.Duration) {
	r.notes = append(r.notes, Note{Pitch: p, Duration: d, Gap: g})
}

func TestStartupChime(t *testing.T) {
	r := &toneRecorder{}
	Play(r, Startup)

	want := []core.Tone{core.ToneE5, core.ToneA5, core.ToneE5}
	if len(r.notes) != len(want) {
		t.Fatalf("played %d tones, want %d", len(r.notes), len(want))
	}
	for i, n := range r.notes {
		if n.Pitch != want[i] {
			t.Errorf("tone %d = %s, want %s", i, n.Pitch, want[i])
		}
		if n.Duration != 220*time.Millisecond || n.Gap != 20*time.Millisecond {
			t.Errorf("tone %d timing = %v/%v, want 220ms/20ms", i, n.Duration, n.Gap)
		}
	}
}

func TestLength(t *testing.T) {
	if got := Length(Startup); got != 720*time.Millisecond {
		t.Errorf("Length(Startup) = %v, want 720ms", got)
	}
	if Length(nil) != 0 {
		t.Error("empty chime must take no time")
	}
}
