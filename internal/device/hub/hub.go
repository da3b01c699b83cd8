// Package hub reports device bring-up to the remote endpoint over MQTT.
package hub

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"k8s.io/utils/clock"

	"cloupeer.io/chirp/internal/device/core"
	"cloupeer.io/chirp/internal/pkg/metrics"
	"cloupeer.io/chirp/pkg/log"
	"cloupeer.io/chirp/pkg/mqtt"
	mqtttopic "cloupeer.io/chirp/pkg/mqtt/topic"
)

type Hub struct {
	deviceID string

	mc             mqtt.Client
	topics         *mqtttopic.Builder
	connectTimeout time.Duration
	clock          clock.PassiveClock

	// cancel ends the connection context owned by the hub. Set by Start.
	cancel context.CancelFunc
}

var _ core.Reporter = (*Hub)(nil)

func New(deviceID string, client mqtt.Client, builder *mqtttopic.Builder, connectTimeout time.Duration, clk clock.PassiveClock) *Hub {
	return &Hub{
		deviceID:       deviceID,
		mc:             client,
		topics:         builder,
		connectTimeout: connectTimeout,
		clock:          clk,
	}
}

func (h *Hub) Send(ctx context.Context, event core.EventType, payload []byte) error {
	topic := h.Topic(event)
	if topic == "" {
		return fmt.Errorf("unmapped event: %s", event)
	}

	err := h.mc.Publish(ctx, topic, 1, true, payload)
	status := metrics.ResultSuccess
	if err != nil {
		status = metrics.ResultFailure
	}
	metrics.TelemetryPublishes.WithLabelValues(string(event), status).Inc()
	return err
}

func (h *Hub) SendProto(ctx context.Context, event core.EventType, msg proto.Message) error {
	payload, err := protojson.Marshal(msg)
	if err != nil {
		return err
	}
	return h.Send(ctx, event, payload)
}

// Start connects to the broker and announces the device as online.
// The connection outlives ctx so Stop can still announce the shutdown; only Stop closes it.
// It gives up after the connect timeout so an unreachable broker never stalls bring-up.
func (h *Hub) Start(ctx context.Context) error {
	connCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if err := h.mc.Start(connCtx); err != nil {
		cancel()
		return err
	}
	h.cancel = cancel

	waitCtx, cancelWait := context.WithTimeout(ctx, h.connectTimeout)
	defer cancelWait()
	if err := h.mc.AwaitConnection(waitCtx); err != nil {
		// Stop the background reconnects; telemetry stays off for this boot.
		h.close()
		return fmt.Errorf("await broker connection: %w", err)
	}

	msg, err := OnlineMessage(h.deviceID, true, "")
	if err != nil {
		return err
	}
	return h.SendProto(ctx, core.EventOnline, msg)
}

// Report publishes the phase the device just entered.
func (h *Hub) Report(ctx context.Context, phase core.Phase) error {
	msg, err := structpb.NewStruct(map[string]any{
		"deviceId": h.deviceID,
		"phase":    phase.String(),
		"online":   phase.Online(),
		"at":       h.clock.Now().UTC().Format(time.RFC3339),
	})
	if err != nil {
		return err
	}
	return h.SendProto(ctx, core.EventPhase, msg)
}

// Stop publishes the retained offline status, then disconnects.
// A clean DISCONNECT discards the last will, so the offline message must go out first.
func (h *Hub) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if msg, err := OnlineMessage(h.deviceID, false, "Shutdown"); err == nil {
		if err := h.SendProto(ctx, core.EventOnline, msg); err != nil {
			log.Error(err, "Failed to publish offline status")
		}
	}

	h.close()
}

func (h *Hub) close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Info("Disconnecting MQTT client...")
	h.mc.Disconnect(ctx)
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
}

// OnlineMessage builds the online/offline status payload. The offline variant doubles as the last will.
func OnlineMessage(deviceID string, online bool, reason string) (*structpb.Struct, error) {
	fields := map[string]any{
		"deviceId": deviceID,
		"online":   online,
	}
	if reason != "" {
		fields["reason"] = reason
	}
	return structpb.NewStruct(fields)
}
