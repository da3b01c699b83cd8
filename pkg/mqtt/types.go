package mqtt

import (
	"context"
)

// Client is a publish-only MQTT connection. It hides the autopaho details from reporters.
type Client interface {
	// Start begins connecting in the background and returns immediately.
	// The connection lives until ctx is cancelled or Disconnect is called;
	// cancelling ctx closes it cleanly, which suppresses the last will.
	Start(ctx context.Context) error

	// Disconnect sends DISCONNECT and stops reconnecting.
	Disconnect(ctx context.Context)

	Publish(ctx context.Context, topic string, qos int, retain bool, payload []byte) error

	// AwaitConnection blocks until the first connection is up or ctx is done.
	AwaitConnection(ctx context.Context) error

	// IsConnected reports the state seen by the connection hooks.
	IsConnected() bool
}
