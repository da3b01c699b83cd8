package hal

import (
	"time"

	"k8s.io/utils/clock"

	"cloupeer.io/chirp/internal/device/core"
	"cloupeer.io/chirp/pkg/log"
)

// LogFeedback renders display and piezo output as log entries. Timing is kept on the clock
// so a headless device paces itself like the real peripherals.
type LogFeedback struct {
	logger        log.Logger
	clock         clock.Clock
	frameInterval time.Duration

	frame int
}

var _ core.Feedback = (*LogFeedback)(nil)

func NewLogFeedback(logger log.Logger, frameInterval time.Duration, clk clock.Clock) *LogFeedback {
	return &LogFeedback{
		logger:        logger,
		clock:         clk,
		frameInterval: frameInterval,
	}
}

func (f *LogFeedback) RenderText(message string) {
	f.logger.Info("Display text", "text", message)
}

func (f *LogFeedback) PlayIdleAnimation() {
	frame := idleFrames[f.frame%len(idleFrames)]
	f.frame++
	f.logger.Debug("Display frame", "frame", frame)
	f.clock.Sleep(f.frameInterval)
}

func (f *LogFeedback) PlayTone(pitch core.Tone, duration, gap time.Duration) {
	f.logger.Debug("Piezo tone", "pitch", pitch, "hz", pitch.Frequency(), "duration", duration, "gap", gap)
	f.clock.Sleep(duration + gap)
}
