package core

import "fmt"

// Tone is a musical pitch the piezo can sound.
type Tone int

const (
	ToneC5 Tone = iota
	ToneD5
	ToneE5
	ToneF5
	ToneG5
	ToneA5
	ToneB5
	ToneC6
)

var tones = map[Tone]struct {
	name string
	hz   float64
}{
	ToneC5: {"C5", 523.25},
	ToneD5: {"D5", 587.33},
	ToneE5: {"E5", 659.25},
	ToneF5: {"F5", 698.46},
	ToneG5: {"G5", 783.99},
	ToneA5: {"A5", 880.00},
	ToneB5: {"B5", 987.77},
	ToneC6: {"C6", 1046.50},
}

// Frequency returns the pitch in hertz, or 0 for an unknown tone.
func (t Tone) Frequency() float64 {
	return tones[t].hz
}

func (t Tone) String() string {
	if v, ok := tones[t]; ok {
		return v.name
	}
	return fmt.Sprintf("Tone(%d)", int(t))
}
