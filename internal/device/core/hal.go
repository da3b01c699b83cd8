package core

import (
	"context"
	"time"
)

// Feedback is the display and piezo surface the device drives during bring-up.
// Implementations block until the requested effect has finished.
type Feedback interface {
	// RenderText replaces the display contents with message.
	RenderText(message string)

	// PlayIdleAnimation renders one pass of the idle animation. It paces itself.
	PlayIdleAnimation()

	// PlayTone sounds pitch for duration, then stays silent for gap.
	PlayTone(pitch Tone, duration, gap time.Duration)
}

// Associator joins a wireless network.
// The interface resources it needs are bound when it is constructed.
type Associator interface {
	// Associate blocks until the network is joined or the attempt fails.
	// Every call is self-contained; a failed call leaves nothing for the caller to clean up.
	Associate(ctx context.Context, ssid, secret string) (Link, error)
}

// Link is a live network association. It is held for the lifetime of the process.
type Link interface {
	Interface() string
	SSID() string
}

// Reporter publishes bring-up progress to a remote endpoint once the network is up.
type Reporter interface {
	Start(ctx context.Context) error
	Report(ctx context.Context, phase Phase) error
	Stop()
}
