package hal

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"k8s.io/utils/clock"

	"cloupeer.io/chirp/internal/device/core"
)

// ConsoleFeedback draws the display on a terminal, one bordered panel per text render.
type ConsoleFeedback struct {
	out           io.Writer
	clock         clock.Clock
	frameInterval time.Duration

	panel lipgloss.Style
	face  lipgloss.Style
	note  lipgloss.Style

	frame int
}

var _ core.Feedback = (*ConsoleFeedback)(nil)

func NewConsoleFeedback(out io.Writer, frameInterval time.Duration, clk clock.Clock) *ConsoleFeedback {
	return &ConsoleFeedback{
		out:           out,
		clock:         clk,
		frameInterval: frameInterval,
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2).
			Width(24).
			Align(lipgloss.Center),
		face: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212")),
		note: lipgloss.NewStyle().Faint(true),
	}
}

func (f *ConsoleFeedback) RenderText(message string) {
	fmt.Fprintln(f.out, f.panel.Render(message))
}

func (f *ConsoleFeedback) PlayIdleAnimation() {
	frame := idleFrames[f.frame%len(idleFrames)]
	f.frame++
	fmt.Fprintf(f.out, "\r%-12s", f.face.Render(frame))
	f.clock.Sleep(f.frameInterval)
}

func (f *ConsoleFeedback) PlayTone(pitch core.Tone, duration, gap time.Duration) {
	fmt.Fprintln(f.out, f.note.Render(fmt.Sprintf("~ %s %.0fHz %s", pitch, pitch.Frequency(), duration)))
	f.clock.Sleep(duration + gap)
}
