// Package chime holds the audible cues the device plays.
package chime

import (
	"time"

	"cloupeer.io/chirp/internal/device/core"
)

// Note is a single tone event.
type Note struct {
	Pitch    core.Tone
	Duration time.Duration
	Gap      time.Duration
}

// Startup is played once at boot: E5, A5, E5, 220ms each with a 20ms gap.
var Startup = []Note{
	{Pitch: core.ToneE5, Duration: 220 * time.Millisecond, Gap: 20 * time.Millisecond},
	{Pitch: core.ToneA5, Duration: 220 * time.Millisecond, Gap: 20 * time.Millisecond},
	{Pitch: core.ToneE5, Duration: 220 * time.Millisecond, Gap: 20 * time.Millisecond},
}

// Play sounds notes in order on fb. It returns once the last gap has elapsed.
func Play(fb core.Feedback, notes []Note) {
	for _, n := range notes {
		fb.PlayTone(n.Pitch, n.Duration, n.Gap)
	}
}

// Length is the total time notes take to play, gaps included.
func Length(notes []Note) time.Duration {
	var total time.Duration
	for _, n := range notes {
		total += n.Duration + n.Gap
	}
	return total
}
