package core

import "testing"

func TestToneTable(t *testing.T) {
	tests := []struct {
		tone Tone
		name string
		hz   float64
	}{
		{ToneE5, "E5", 659.25},
		{ToneA5, "A5", 880},
		{ToneC6, "C6", 1046.5},
	}

	for _, tt := range tests {
		if tt.tone.String() != tt.name || tt.tone.Frequency() != tt.hz {
			t.Errorf("%v: got %s/%v, want %s/%v", int(tt.tone), tt.tone, tt.tone.Frequency(), tt.name, tt.hz)
		}
	}

	if Tone(99).Frequency() != 0 || Tone(99).String() != "Tone(99)" {
		t.Errorf("unknown tone not handled: %s", Tone(99))
	}
}

func TestPhaseOnline(t *testing.T) {
	want := map[Phase]bool{
		PhaseBooting:    false,
		PhaseConnecting: false,
		PhaseConnected:  true,
		PhaseIdle:       true,
	}
	for _, p := range Phases {
		if p.Online() != want[p] {
			t.Errorf("%s.Online() = %v", p, p.Online())
		}
	}
}
